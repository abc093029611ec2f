package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavya5cloud/moc/internal/mirror"
	"github.com/kavya5cloud/moc/internal/remote"
	"github.com/kavya5cloud/moc/internal/remote/remotetest"
)

type widget struct {
	ID    string `json:"id"`
	Price int    `json:"price"`
}

func (w widget) EntityID() string { return w.ID }

var widgets = Collection[widget]{
	Table:     "widgets",
	MirrorKey: "TEST_WIDGETS",
	Fallback:  []widget{{ID: "d1", Price: 1}, {ID: "d2", Price: 2}},
}

type engineFixtures struct {
	engine  *Engine
	remote  *remotetest.Fake
	backend *mirror.MemoryBackend
	changes *[]Change
}

func createTestEngine(t *testing.T, rc remote.Client, timeout time.Duration) engineFixtures {
	t.Helper()
	bus := NewBus()
	changes := &[]Change{}
	unsub := bus.Subscribe(func(c Change) { *changes = append(*changes, c) })
	t.Cleanup(unsub)

	backend := mirror.NewMemoryBackend()
	m := mirror.New(backend, bus, zerolog.Nop())
	e := New(rc, m, bus, Options{ReadTimeout: timeout}, zerolog.Nop())

	fake, _ := rc.(*remotetest.Fake)
	return engineFixtures{engine: e, remote: fake, backend: backend, changes: changes}
}

func seedMirror(t *testing.T, fx engineFixtures, items []widget) {
	t.Helper()
	require.NoError(t, fx.engine.Mirror().Write(context.Background(), widgets.MirrorKey, items, false))
}

func TestGet_UnconfiguredEmptyMirrorReturnsFallback(t *testing.T) {
	fx := createTestEngine(t, remote.Unconfigured(), 0)

	got := Get(context.Background(), fx.engine, widgets)
	assert.Equal(t, widgets.Fallback, got)
	assert.Empty(t, *fx.changes)
}

func TestGet_FallbackIsNotAliased(t *testing.T) {
	fx := createTestEngine(t, remote.Unconfigured(), 0)

	got := Get(context.Background(), fx.engine, widgets)
	got[0].Price = 99
	assert.Equal(t, 1, widgets.Fallback[0].Price)
}

func TestGet_ReadThroughCachingSurvivesOutage(t *testing.T) {
	ctx := context.Background()
	fx := createTestEngine(t, remotetest.New(), time.Second)
	require.NoError(t, fx.remote.Seed("widgets", widget{ID: "r1", Price: 10}, widget{ID: "r2", Price: 20}))

	first := Get(ctx, fx.engine, widgets)
	require.Len(t, first, 2)
	assert.Empty(t, *fx.changes, "read-through caching must not notify")

	fx.remote.FailReads(errors.New("connection refused"))
	second := Get(ctx, fx.engine, widgets)
	assert.Equal(t, first, second)
}

func TestGet_EmptyRemoteFallsThroughToMirror(t *testing.T) {
	fx := createTestEngine(t, remotetest.New(), time.Second)
	seedMirror(t, fx, []widget{{ID: "m1"}})

	got := Get(context.Background(), fx.engine, widgets)
	assert.Equal(t, []widget{{ID: "m1"}}, got)
}

func TestGet_MalformedRemoteRowsFallThroughToMirror(t *testing.T) {
	fx := createTestEngine(t, remotetest.New(), time.Second)
	seedMirror(t, fx, []widget{{ID: "m1"}})
	fx.remote.SeedRaw("widgets", "bad", []byte(`{"id": 5}`))

	got := Get(context.Background(), fx.engine, widgets)
	assert.Equal(t, []widget{{ID: "m1"}}, got)
}

func TestGet_HangingRemoteIsBoundedByTimeout(t *testing.T) {
	fx := createTestEngine(t, remotetest.New(), 100*time.Millisecond)
	seedMirror(t, fx, []widget{{ID: "m1"}})
	release := fx.remote.Hang()
	defer release()

	start := time.Now()
	got := Get(context.Background(), fx.engine, widgets)
	assert.Equal(t, []widget{{ID: "m1"}}, got)
	assert.Less(t, time.Since(start), time.Second)
}

func TestUpsert_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	fx := createTestEngine(t, remotetest.New(), time.Second)
	item := widget{ID: "x", Price: 5}

	require.NoError(t, Upsert(ctx, fx.engine, widgets, item))
	require.NoError(t, Upsert(ctx, fx.engine, widgets, item))

	got := Get(ctx, fx.engine, widgets)
	count := 0
	for _, w := range got {
		if w.ID == "x" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, fx.remote.Docs("widgets"), 1)
}

func TestUpsert_NewItemSurfacesFirst(t *testing.T) {
	ctx := context.Background()
	fx := createTestEngine(t, remote.Unconfigured(), 0)
	seedMirror(t, fx, []widget{{ID: "a"}, {ID: "b"}})

	require.NoError(t, Upsert(ctx, fx.engine, widgets, widget{ID: "c"}))
	assert.Equal(t, []widget{{ID: "c"}, {ID: "a"}, {ID: "b"}}, Get(ctx, fx.engine, widgets))

	require.NoError(t, Upsert(ctx, fx.engine, widgets, widget{ID: "b", Price: 7}))
	assert.Equal(t, []widget{{ID: "c"}, {ID: "a"}, {ID: "b", Price: 7}}, Get(ctx, fx.engine, widgets))
	assert.Equal(t, []Change{{Store: widgets.MirrorKey}, {Store: widgets.MirrorKey}}, *fx.changes)
}

func TestUpsert_RollbackOnRemoteFailure(t *testing.T) {
	ctx := context.Background()
	fx := createTestEngine(t, remotetest.New(), time.Second)
	before := []widget{{ID: "a", Price: 1}, {ID: "b", Price: 2}}
	seedMirror(t, fx, before)
	fx.remote.FailWrites(errors.New("permission denied"))

	err := Upsert(ctx, fx.engine, widgets, widget{ID: "c"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrWriteRejected))
	var werr *WriteError
	require.True(t, errors.As(err, &werr))
	assert.Equal(t, "upsert", werr.Op)
	assert.Equal(t, before, mirror.ReadOr[[]widget](ctx, fx.engine.Mirror(), widgets.MirrorKey, nil))

	err = Upsert(ctx, fx.engine, widgets, widget{ID: "a", Price: 100})
	assert.True(t, errors.Is(err, ErrWriteRejected))
	assert.Equal(t, before, mirror.ReadOr[[]widget](ctx, fx.engine.Mirror(), widgets.MirrorKey, nil))

	// apply + revert for each attempt
	assert.Len(t, *fx.changes, 4)
}

func TestUpsert_StorageFullSkipsRemote(t *testing.T) {
	fx := createTestEngine(t, remotetest.New(), time.Second)
	fx.backend.Quota = 4

	err := Upsert(context.Background(), fx.engine, widgets, widget{ID: "big"})
	assert.True(t, errors.Is(err, ErrStorageFull))
	assert.Equal(t, 0, fx.remote.Calls("upsert"))
	assert.Empty(t, *fx.changes)
}

func TestUpsert_MissingID(t *testing.T) {
	fx := createTestEngine(t, remote.Unconfigured(), 0)
	assert.True(t, errors.Is(Upsert(context.Background(), fx.engine, widgets, widget{}), ErrMissingID))
}

func TestDelete_RemovesLocallyAndRemotely(t *testing.T) {
	ctx := context.Background()
	fx := createTestEngine(t, remotetest.New(), time.Second)
	require.NoError(t, Upsert(ctx, fx.engine, widgets, widget{ID: "a"}))
	require.NoError(t, Upsert(ctx, fx.engine, widgets, widget{ID: "b"}))

	require.NoError(t, Delete(ctx, fx.engine, widgets, "a"))
	assert.Equal(t, []widget{{ID: "b"}}, mirror.ReadOr[[]widget](ctx, fx.engine.Mirror(), widgets.MirrorKey, nil))
	assert.Len(t, fx.remote.Docs("widgets"), 1)
}

func TestUpsert_AbsentMirrorStartsFromEmptyList(t *testing.T) {
	ctx := context.Background()
	fx := createTestEngine(t, remotetest.New(), time.Second)

	require.NoError(t, Upsert(ctx, fx.engine, widgets, widget{ID: "x", Price: 3}))
	assert.Equal(t, []widget{{ID: "x", Price: 3}}, mirror.ReadOr[[]widget](ctx, fx.engine.Mirror(), widgets.MirrorKey, nil))
	assert.Len(t, fx.remote.Docs("widgets"), 1)

	// the fallback still serves reads of an untouched collection
	other := Collection[widget]{Table: "others", MirrorKey: "TEST_OTHERS", Fallback: widgets.Fallback}
	assert.Equal(t, widgets.Fallback, Get(ctx, fx.engine, other))
}

func TestDelete_AbsentMirrorWritesEmptyList(t *testing.T) {
	ctx := context.Background()
	fx := createTestEngine(t, remote.Unconfigured(), 0)

	require.NoError(t, Delete(ctx, fx.engine, widgets, "d1"))
	assert.Equal(t, []widget{}, mirror.ReadOr[[]widget](ctx, fx.engine.Mirror(), widgets.MirrorKey, nil))
}

func TestDelete_RollbackRestoresPosition(t *testing.T) {
	ctx := context.Background()
	fx := createTestEngine(t, remotetest.New(), time.Second)
	before := []widget{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	seedMirror(t, fx, before)
	fx.remote.FailWrites(errors.New("timeout"))

	err := Delete(ctx, fx.engine, widgets, "b")
	assert.True(t, errors.Is(err, ErrWriteRejected))
	assert.Equal(t, before, mirror.ReadOr[[]widget](ctx, fx.engine.Mirror(), widgets.MirrorKey, nil))
}

func TestDocument_GetPutAndRollback(t *testing.T) {
	ctx := context.Background()
	fx := createTestEngine(t, remotetest.New(), time.Second)
	doc := Document[widget]{Table: "settings", MirrorKey: "TEST_SETTINGS", Fallback: widget{ID: "default"}}

	assert.Equal(t, widget{ID: "default"}, GetDocument(ctx, fx.engine, doc))

	require.NoError(t, PutDocument(ctx, fx.engine, doc, widget{ID: "v1", Price: 3}))
	assert.Equal(t, widget{ID: "v1", Price: 3}, GetDocument(ctx, fx.engine, doc))

	fx.remote.FailWrites(errors.New("down"))
	err := PutDocument(ctx, fx.engine, doc, widget{ID: "v2"})
	assert.True(t, errors.Is(err, ErrWriteRejected))
	assert.Equal(t, widget{ID: "v1", Price: 3}, mirror.ReadOr(ctx, fx.engine.Mirror(), doc.MirrorKey, widget{}))
}

func TestCheckConnection(t *testing.T) {
	local := createTestEngine(t, remote.Unconfigured(), 0).engine.CheckConnection()
	assert.Equal(t, Connection{IsConnected: false, Mode: ModeLocal, Endpoint: "NOT CONFIGURED"}, local)

	live := createTestEngine(t, remotetest.New(), 0).engine.CheckConnection()
	assert.Equal(t, Connection{IsConnected: true, Mode: ModeLive, Endpoint: "fake://remote"}, live)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus()
	var got []string
	unsub := bus.Subscribe(func(c Change) { got = append(got, c.Store) })
	bus.Notify("A")
	unsub()
	unsub()
	bus.Notify("B")

	assert.Equal(t, []string{"A"}, got)
	assert.Equal(t, 0, bus.Len())
}
