package syncer

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/pkg/errors"

	"github.com/kavya5cloud/moc/internal/mirror"
)

// Entity is a record that belongs to a collection and is keyed by id.
type Entity interface {
	EntityID() string
}

// Collection binds a remote table and a mirror key to a default dataset.
type Collection[T Entity] struct {
	Table     string
	MirrorKey string
	Fallback  []T
}

// Get returns the current contents of c. The remote store wins whenever
// it answers with at least one decodable row; the rows are then cached in
// the mirror without notifying listeners. Otherwise the mirror is served,
// and when the mirror has nothing the fallback is. Get never fails.
func Get[T Entity](ctx context.Context, e *Engine, c Collection[T]) []T {
	rows, err := e.selectAll(ctx, c.Table)
	if err == nil && len(rows) > 0 {
		items, derr := decodeRows[T](rows)
		if derr == nil {
			unlock := e.lock(c.MirrorKey)
			if werr := e.mirror.Write(ctx, c.MirrorKey, items, false); werr != nil {
				e.log.Error().Err(werr).Str("key", c.MirrorKey).Msg("read-through cache write failed")
			}
			unlock()
			return items
		}
		e.log.Warn().Err(derr).Str("table", c.Table).Msg("remote rows malformed, serving mirror")
	}
	return current(ctx, e, c)
}

// Upsert replaces the entry with the same id or puts item at the front of
// the list. The local change is visible (and announced) before the remote
// store answers; a remote failure reverts it and returns a *WriteError.
// Without a configured remote store the mirror is authoritative and the
// local write is the whole operation.
func Upsert[T Entity](ctx context.Context, e *Engine, c Collection[T], item T) error {
	id := item.EntityID()
	if id == "" {
		return ErrMissingID
	}
	doc, err := json.Marshal(item)
	if err != nil {
		return errors.Wrap(ErrMalformedRecord, err.Error())
	}

	unlock := e.lock(c.MirrorKey)
	list := local(ctx, e, c)
	idx := indexOf(list, id)
	var prev *T
	if idx >= 0 {
		p := list[idx]
		prev = &p
	}
	err = e.mirror.Write(ctx, c.MirrorKey, upserted(list, idx, item), true)
	unlock()
	if err != nil {
		return err
	}

	if !e.remote.Configured() {
		return nil
	}
	if rerr := e.remote.Upsert(ctx, c.Table, id, doc); rerr != nil {
		e.log.Error().Err(rerr).Str("table", c.Table).Str("id", id).Msg("remote upsert failed, reverting mirror")
		revert(ctx, e, c, func(list []T) []T {
			if prev == nil {
				return without(list, indexOf(list, id))
			}
			return upserted(list, indexOf(list, id), *prev)
		})
		return &WriteError{Op: "upsert", Table: c.Table, ID: id, Err: rerr}
	}
	return nil
}

// Delete removes the entry with the given id, locally first. A remote
// failure puts the entry back at its former position.
func Delete[T Entity](ctx context.Context, e *Engine, c Collection[T], id string) error {
	unlock := e.lock(c.MirrorKey)
	list := local(ctx, e, c)
	idx := indexOf(list, id)
	var removed *T
	if idx >= 0 {
		r := list[idx]
		removed = &r
	}
	err := e.mirror.Write(ctx, c.MirrorKey, without(list, idx), true)
	unlock()
	if err != nil {
		return err
	}

	if !e.remote.Configured() {
		return nil
	}
	if rerr := e.remote.DeleteByID(ctx, c.Table, id); rerr != nil {
		e.log.Error().Err(rerr).Str("table", c.Table).Str("id", id).Msg("remote delete failed, reverting mirror")
		if removed != nil {
			revert(ctx, e, c, func(list []T) []T {
				if indexOf(list, id) >= 0 {
					return list
				}
				return inserted(list, idx, *removed)
			})
		}
		return &WriteError{Op: "delete", Table: c.Table, ID: id, Err: rerr}
	}
	return nil
}

// revert applies undo to the current mirror list and announces the result.
// Undoing against the current list rather than a stale snapshot keeps
// unrelated writes that landed in the meantime.
func revert[T Entity](ctx context.Context, e *Engine, c Collection[T], undo func([]T) []T) {
	unlock := e.lock(c.MirrorKey)
	defer unlock()
	list := undo(local(ctx, e, c))
	if err := e.mirror.Write(ctx, c.MirrorKey, list, true); err != nil {
		e.log.Error().Err(err).Str("key", c.MirrorKey).Msg("rollback write failed, mirror diverges from remote")
	}
}

// current reads the mirror list, or a copy of the fallback.
func current[T Entity](ctx context.Context, e *Engine, c Collection[T]) []T {
	return mirror.ReadOr(ctx, e.mirror, c.MirrorKey, slices.Clone(c.Fallback))
}

// local is the base of every write: the mirror list, or an empty list when
// the key is absent. The fallback never reaches the mirror through a write
// because the remote store has never seen it.
func local[T Entity](ctx context.Context, e *Engine, c Collection[T]) []T {
	return mirror.ReadOr(ctx, e.mirror, c.MirrorKey, []T{})
}

func decodeRows[T Entity](rows []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(rows))
	for i, raw := range rows {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, errors.Wrapf(ErrMalformedRecord, "row %d: %v", i, err)
		}
		if v.EntityID() == "" {
			return nil, errors.Wrapf(ErrMalformedRecord, "row %d has no id", i)
		}
		out = append(out, v)
	}
	return out, nil
}

func indexOf[T Entity](list []T, id string) int {
	for i, v := range list {
		if v.EntityID() == id {
			return i
		}
	}
	return -1
}

// upserted returns a new list with item at idx, or prepended when idx < 0.
func upserted[T Entity](list []T, idx int, item T) []T {
	if idx >= 0 {
		out := slices.Clone(list)
		out[idx] = item
		return out
	}
	out := make([]T, 0, len(list)+1)
	out = append(out, item)
	return append(out, list...)
}

// without returns a new list lacking the entry at idx.
func without[T Entity](list []T, idx int) []T {
	if idx < 0 {
		return append(make([]T, 0, len(list)), list...)
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:idx]...)
	return append(out, list[idx+1:]...)
}

// inserted returns a new list with item placed at idx, clamped to the
// list bounds.
func inserted[T Entity](list []T, idx int, item T) []T {
	if idx < 0 {
		idx = 0
	}
	if idx > len(list) {
		idx = len(list)
	}
	out := make([]T, 0, len(list)+1)
	out = append(out, list[:idx]...)
	out = append(out, item)
	return append(out, list[idx:]...)
}
