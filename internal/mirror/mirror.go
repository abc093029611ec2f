// Package mirror implements the local mirror: a durable key-value store
// holding one JSON document per key. The sync engine keeps the last known
// good copy of every collection here so reads keep working while the
// remote store is unreachable.
package mirror

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var (
	// ErrNotFound is returned by a Backend when a key has never been written.
	ErrNotFound = errors.New("mirror: key not found")

	// ErrStorageFull is returned when the backend refuses a write because
	// it ran out of space or hit its quota.
	ErrStorageFull = errors.New("mirror: storage full")

	// ErrStorageUnavailable is returned when the backend cannot be reached
	// or is disabled.
	ErrStorageUnavailable = errors.New("mirror: storage unavailable")
)

// Backend is the raw byte storage underneath a Store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Notifier receives the key of every notifying write.
type Notifier interface {
	Notify(key string)
}

// Store serializes values to JSON and keeps them in a Backend.
type Store struct {
	backend  Backend
	notifier Notifier
	log      zerolog.Logger
}

// New returns a Store writing to backend. notifier may be nil, in which
// case notifying writes behave like silent ones.
func New(backend Backend, notifier Notifier, log zerolog.Logger) *Store {
	return &Store{
		backend:  backend,
		notifier: notifier,
		log:      log.With().Str("component", "mirror").Logger(),
	}
}

// Read decodes the value stored under key into dst. It reports false when
// the key is absent, the backend fails or the stored document does not
// decode; none of these are errors for the caller. dst is left untouched
// unless Read returns true.
func (s *Store) Read(ctx context.Context, key string, dst any) bool {
	raw, err := s.backend.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn().Err(err).Str("key", key).Msg("read failed, treating as absent")
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("malformed record, treating as absent")
		return false
	}
	return true
}

// Exists reports whether a readable value is stored under key.
func (s *Store) Exists(ctx context.Context, key string) bool {
	_, err := s.backend.Get(ctx, key)
	return err == nil
}

// Write stores value under key, replacing whatever was there. When notify
// is true the key is handed to the notifier after the write succeeded.
func (s *Store) Write(ctx context.Context, key string, value any, notify bool) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "mirror: encode %s", key)
	}
	if err := s.backend.Set(ctx, key, raw); err != nil {
		s.log.Error().Err(err).Str("key", key).Msg("write failed")
		return err
	}
	if notify && s.notifier != nil {
		s.notifier.Notify(key)
	}
	return nil
}

// ReadOr returns the value stored under key, or fallback when Read would
// report false.
func ReadOr[T any](ctx context.Context, s *Store, key string, fallback T) T {
	var v T
	if !s.Read(ctx, key, &v) {
		return fallback
	}
	return v
}
