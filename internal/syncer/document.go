package syncer

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/kavya5cloud/moc/internal/mirror"
)

// SingletonRowID is the remote row id used by Document tables.
const SingletonRowID = "singleton"

// Document binds a single record (not a list) to a remote table and a
// mirror key. The remote table holds at most one row.
type Document[T any] struct {
	Table     string
	MirrorKey string
	Fallback  T
}

// GetDocument follows the same remote, mirror, fallback chain as Get.
func GetDocument[T any](ctx context.Context, e *Engine, d Document[T]) T {
	rows, err := e.selectAll(ctx, d.Table)
	if err == nil && len(rows) > 0 {
		var v T
		derr := json.Unmarshal(rows[0], &v)
		if derr == nil {
			unlock := e.lock(d.MirrorKey)
			if werr := e.mirror.Write(ctx, d.MirrorKey, v, false); werr != nil {
				e.log.Error().Err(werr).Str("key", d.MirrorKey).Msg("read-through cache write failed")
			}
			unlock()
			return v
		}
		e.log.Warn().Err(derr).Str("table", d.Table).Msg("remote document malformed, serving mirror")
	}
	return mirror.ReadOr(ctx, e.mirror, d.MirrorKey, d.Fallback)
}

// PutDocument replaces the document wholesale with the same optimistic
// apply and rollback contract as Upsert.
func PutDocument[T any](ctx context.Context, e *Engine, d Document[T], value T) error {
	doc, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(ErrMalformedRecord, err.Error())
	}

	unlock := e.lock(d.MirrorKey)
	prev := mirror.ReadOr(ctx, e.mirror, d.MirrorKey, d.Fallback)
	err = e.mirror.Write(ctx, d.MirrorKey, value, true)
	unlock()
	if err != nil {
		return err
	}

	if !e.remote.Configured() {
		return nil
	}
	if rerr := e.remote.Upsert(ctx, d.Table, SingletonRowID, doc); rerr != nil {
		e.log.Error().Err(rerr).Str("table", d.Table).Msg("remote document write failed, reverting mirror")
		unlock := e.lock(d.MirrorKey)
		if werr := e.mirror.Write(ctx, d.MirrorKey, prev, true); werr != nil {
			e.log.Error().Err(werr).Str("key", d.MirrorKey).Msg("rollback write failed, mirror diverges from remote")
		}
		unlock()
		return &WriteError{Op: "put", Table: d.Table, ID: SingletonRowID, Err: rerr}
	}
	return nil
}
