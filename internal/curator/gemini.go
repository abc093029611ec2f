// Package curator answers visitor questions through the Gemini
// generateContent API, primed with the museum's key facts.
package curator

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 10 * time.Second
	historyLimit   = 6
)

// SystemInstruction primes every conversation.
const SystemInstruction = `You are the AI Curator for MOCA Gandhinagar. Always refer to the museum as "MOCA Gandhinagar" or "MOCA" - never "Veer Residency" (that's just the building location).

Key facts:
- Location: Veer Residency, Gandhinagar Mahudi Highway, Gujarat, India
- Hours: Tue-Sun, 10:30 AM-6:00 PM (closed Mondays)
- Tickets: FREE, pre-registration recommended
- Parking: Free at Veer Residency
- Contact: mocagandhinagar@gmail.com

Keep responses brief (2-3 sentences max). Reply in Hindi/Gujarati if asked. Be helpful and welcoming.`

// Apologies shown in place of an answer.
const (
	ReplyTimeout       = "I'm taking longer than usual to respond. Please try asking your question again."
	ReplyUnauthorized  = "I'm having trouble accessing my systems. Please contact the administrator."
	ReplyNotConfigured = "The AI curator is not available right now. Please contact the museum directly."
	ReplyUnavailable   = "I'm experiencing a temporary connection issue. Please try again in a moment."
)

var (
	ErrNotConfigured = errors.New("curator: no api key")
	ErrTimeout       = errors.New("curator: request timed out")
	ErrUnauthorized  = errors.New("curator: api key rejected")
	ErrEmptyResponse = errors.New("curator: empty response")
)

// Turn is one message of the conversation so far.
type Turn struct {
	Role string `json:"role" validate:"required"` // "user" or "model"
	Text string `json:"text"`
}

// Options configures a Client.
type Options struct {
	APIKey     string
	Model      string
	Timeout    time.Duration
	BaseURL    string // used by tests
	HTTPClient *http.Client
}

// Client calls the model.
type Client struct {
	opts Options
	http *http.Client
	log  zerolog.Logger
}

// NewClient returns a Client with defaults filled in.
func NewClient(opts Options, log zerolog.Logger) *Client {
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{opts: opts, http: hc, log: log.With().Str("component", "curator").Logger()}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	SystemInstruction content          `json:"systemInstruction"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Ask sends message, preceded by the last few turns of history, and
// returns the model's answer.
func (c *Client) Ask(ctx context.Context, message string, history []Turn) (string, error) {
	if c.opts.APIKey == "" {
		return "", ErrNotConfigured
	}
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		SystemInstruction: content{Parts: []part{{Text: SystemInstruction}}},
		Contents:          conversation(message, history),
		GenerationConfig:  generationConfig{Temperature: 0.3, TopP: 0.8, TopK: 20, MaxOutputTokens: 300},
	})
	if err != nil {
		return "", errors.Wrap(err, "curator: encode")
	}
	endpoint := c.opts.BaseURL + "/models/" + url.PathEscape(c.opts.Model) + ":generateContent?key=" + url.QueryEscape(c.opts.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "curator: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", errors.Wrap(err, "curator: call model")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", ErrUnauthorized
	case resp.StatusCode/100 != 2:
		return "", errors.Errorf("curator: model answered %d", resp.StatusCode)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", ErrTimeout
		}
		return "", errors.Wrap(err, "curator: read response")
	}
	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", errors.Wrap(err, "curator: decode response")
	}
	var sb strings.Builder
	if len(out.Candidates) > 0 {
		for _, p := range out.Candidates[0].Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Reply is Ask for the chat widget: failures become a polite apology
// instead of an error.
func (c *Client) Reply(ctx context.Context, message string, history []Turn) string {
	text, err := c.Ask(ctx, message, history)
	if err == nil {
		return text
	}
	c.log.Warn().Err(err).Msg("curator reply failed")
	switch {
	case errors.Is(err, ErrTimeout):
		return ReplyTimeout
	case errors.Is(err, ErrUnauthorized):
		return ReplyUnauthorized
	case errors.Is(err, ErrNotConfigured):
		return ReplyNotConfigured
	default:
		return ReplyUnavailable
	}
}

// conversation keeps the last historyLimit turns, maps every non-user
// role to "model" and appends the new message.
func conversation(message string, history []Turn) []content {
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}
	out := make([]content, 0, len(history)+1)
	for _, t := range history {
		role := "model"
		if t.Role == "user" {
			role = "user"
		}
		out = append(out, content{Role: role, Parts: []part{{Text: t.Text}}})
	}
	return append(out, content{Role: "user", Parts: []part{{Text: message}}})
}
