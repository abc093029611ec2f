package curator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modelServer(t *testing.T, status int, answer string, got *generateRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"))
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		if got != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{"content": map[string]any{"parts": []any{map[string]string{"text": answer}}}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAsk_SendsTrimmedHistory(t *testing.T) {
	var got generateRequest
	srv := modelServer(t, http.StatusOK, "We open at 10:30 AM.", &got)
	c := NewClient(Options{APIKey: "k", BaseURL: srv.URL}, zerolog.Nop())

	history := make([]Turn, 0, 9)
	for i := 0; i < 9; i++ {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		history = append(history, Turn{Role: role, Text: "turn"})
	}
	text, err := c.Ask(context.Background(), "When do you open?", history)
	require.NoError(t, err)
	assert.Equal(t, "We open at 10:30 AM.", text)

	require.Len(t, got.Contents, historyLimit+1)
	assert.Equal(t, "When do you open?", got.Contents[historyLimit].Parts[0].Text)
	for _, ct := range got.Contents {
		assert.Contains(t, []string{"user", "model"}, ct.Role)
	}
	assert.Contains(t, got.SystemInstruction.Parts[0].Text, "MOCA Gandhinagar")
}

func TestReply_SubstitutesApologies(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, ReplyNotConfigured, NewClient(Options{}, zerolog.Nop()).Reply(ctx, "hi", nil))

	denied := modelServer(t, http.StatusForbidden, "", nil)
	assert.Equal(t, ReplyUnauthorized, NewClient(Options{APIKey: "k", BaseURL: denied.URL}, zerolog.Nop()).Reply(ctx, "hi", nil))

	empty := modelServer(t, http.StatusOK, "  ", nil)
	assert.Equal(t, ReplyUnavailable, NewClient(Options{APIKey: "k", BaseURL: empty.URL}, zerolog.Nop()).Reply(ctx, "hi", nil))

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()
	c := NewClient(Options{APIKey: "k", BaseURL: slow.URL, Timeout: 50 * time.Millisecond}, zerolog.Nop())
	assert.Equal(t, ReplyTimeout, c.Reply(ctx, "hi", nil))
}
