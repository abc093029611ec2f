// Package syncer reconciles the remote store with the local mirror.
//
// Reads go remote first and fall back to the mirror, then to a built-in
// default, so callers always get renderable data. Writes are applied to
// the mirror first, pushed to the remote store, and reverted locally when
// the remote store rejects them.
package syncer

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/kavya5cloud/moc/internal/mirror"
	"github.com/kavya5cloud/moc/internal/remote"
)

// DefaultReadTimeout bounds a remote read when Options leaves it unset.
const DefaultReadTimeout = 3 * time.Second

// Connection modes reported by CheckConnection.
const (
	ModeLive  = "LIVE CLOUD"
	ModeLocal = "LOCAL MIRROR"
)

// Options tunes an Engine.
type Options struct {
	// ReadTimeout caps how long a read waits for the remote store before
	// serving the mirror. The cap holds even if the remote ignores ctx.
	ReadTimeout time.Duration
}

// Connection is the result of CheckConnection.
type Connection struct {
	IsConnected bool   `json:"isConnected"`
	Mode        string `json:"mode"`
	Endpoint    string `json:"url"`
}

// Engine owns the remote client, the mirror and the change bus. Build one
// at start-up and pass it to whoever needs data access.
type Engine struct {
	remote      remote.Client
	mirror      *mirror.Store
	bus         *Bus
	readTimeout time.Duration
	log         zerolog.Logger

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New wires an Engine. The mirror should have been created with bus as
// its notifier so notifying writes reach bus subscribers.
func New(rc remote.Client, m *mirror.Store, bus *Bus, opts Options, log zerolog.Logger) *Engine {
	if rc == nil {
		rc = remote.Unconfigured()
	}
	if bus == nil {
		bus = NewBus()
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	return &Engine{
		remote:      rc,
		mirror:      m,
		bus:         bus,
		readTimeout: opts.ReadTimeout,
		log:         log.With().Str("component", "syncer").Logger(),
		locks:       make(map[string]*sync.Mutex),
	}
}

// Bus returns the change feed.
func (e *Engine) Bus() *Bus { return e.bus }

// Mirror returns the local mirror.
func (e *Engine) Mirror() *mirror.Store { return e.mirror }

// CheckConnection reports whether the remote store is configured. It is a
// configuration check only: a configured store that is currently down
// still reports LIVE CLOUD.
func (e *Engine) CheckConnection() Connection {
	if e.remote.Configured() {
		return Connection{IsConnected: true, Mode: ModeLive, Endpoint: e.remote.Endpoint()}
	}
	return Connection{IsConnected: false, Mode: ModeLocal, Endpoint: e.remote.Endpoint()}
}

// lock serializes read-modify-write cycles on one mirror key so writes to
// the same key land in call order.
func (e *Engine) lock(key string) (unlock func()) {
	e.locksMu.Lock()
	mu, ok := e.locks[key]
	if !ok {
		mu = &sync.Mutex{}
		e.locks[key] = mu
	}
	e.locksMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

// selectAll fetches every row of table, giving up after readTimeout.
func (e *Engine) selectAll(ctx context.Context, table string) ([]json.RawMessage, error) {
	if !e.remote.Configured() {
		return nil, ErrUnreachable
	}
	ctx, cancel := context.WithTimeout(ctx, e.readTimeout)
	defer cancel()

	type result struct {
		rows []json.RawMessage
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		rows, err := e.remote.SelectAll(ctx, table)
		ch <- result{rows: rows, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			e.log.Warn().Err(r.err).Str("table", table).Msg("remote read failed, serving mirror")
			return nil, errors.Wrapf(ErrUnreachable, "select %s: %v", table, r.err)
		}
		return r.rows, nil
	case <-ctx.Done():
		e.log.Warn().Str("table", table).Dur("timeout", e.readTimeout).Msg("remote read timed out, serving mirror")
		return nil, errors.Wrapf(ErrUnreachable, "select %s: %v", table, ctx.Err())
	}
}
