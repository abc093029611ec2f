package syncer

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/kavya5cloud/moc/internal/mirror"
)

var (
	// ErrUnreachable marks a remote read that was skipped, failed or timed
	// out. Reads absorb it and fall back to the mirror.
	ErrUnreachable = errors.New("sync: remote unreachable")

	// ErrWriteRejected marks a remote write that failed after the local
	// optimistic apply. The mirror has been rolled back when it is returned.
	ErrWriteRejected = errors.New("sync: write rejected by remote store")

	// ErrMalformedRecord marks data that does not decode into the expected
	// shape. Reads treat it as absent data.
	ErrMalformedRecord = errors.New("sync: malformed record")

	// ErrMissingID is returned when an item without an id is written.
	ErrMissingID = errors.New("sync: record has no id")

	// ErrStorageFull and ErrStorageUnavailable come straight from the
	// mirror; they threaten the offline fallback itself.
	ErrStorageFull        = mirror.ErrStorageFull
	ErrStorageUnavailable = mirror.ErrStorageUnavailable
)

// WriteError describes a rejected remote write. It matches
// ErrWriteRejected with errors.Is and unwraps to the remote cause.
type WriteError struct {
	Op    string
	Table string
	ID    string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("sync: %s %s/%s rejected by remote store, local change reverted: %v", e.Op, e.Table, e.ID, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

func (e *WriteError) Is(target error) bool { return target == ErrWriteRejected }
