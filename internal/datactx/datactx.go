// Package datactx keeps an in-memory snapshot of everything the public
// pages render and refreshes it whenever the mirror changes or the poll
// interval elapses.
package datactx

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/kavya5cloud/moc/internal/model"
	"github.com/kavya5cloud/moc/internal/syncer"
)

// DefaultPollInterval is used when Options leaves PollInterval unset.
const DefaultPollInterval = 30 * time.Second

// Source is the read side the context refreshes from. MuseumRepo
// satisfies it.
type Source interface {
	GetPageAssets(ctx context.Context) model.PageAssets
	GetExhibitions(ctx context.Context) []model.Exhibition
	GetArtworks(ctx context.Context) []model.Artwork
	GetEvents(ctx context.Context) []model.Event
	GetCollectables(ctx context.Context) []model.Collectable
	GetHomepageGallery(ctx context.Context) []model.GalleryItem
}

// Snapshot is one consistent view of the public collections.
type Snapshot struct {
	Assets          model.PageAssets    `json:"assets"`
	Exhibitions     []model.Exhibition  `json:"exhibitions"`
	Artworks        []model.Artwork     `json:"artworks"`
	Events          []model.Event       `json:"events"`
	Collectables    []model.Collectable `json:"collectables"`
	HomepageGallery []model.GalleryItem `json:"homepageGallery"`
}

// Options tunes a Context.
type Options struct {
	PollInterval time.Duration
}

// Context owns the snapshot. Readers get a copy of the current snapshot
// and never block on a refresh in progress.
type Context struct {
	src          Source
	bus          *syncer.Bus
	pollInterval time.Duration
	log          zerolog.Logger

	mu       sync.RWMutex
	snap     Snapshot
	loading  bool
	revision uint64

	refreshMu sync.Mutex
}

// New returns a Context in the loading state. Nothing is read until
// Refresh or Start is called.
func New(src Source, bus *syncer.Bus, opts Options, log zerolog.Logger) *Context {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	return &Context{
		src:          src,
		bus:          bus,
		pollInterval: opts.PollInterval,
		log:          log.With().Str("component", "datactx").Logger(),
		loading:      true,
	}
}

// Snapshot returns the current snapshot.
func (c *Context) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Loading reports whether the first refresh has not finished yet.
func (c *Context) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

// Revision counts completed refreshes.
func (c *Context) Revision() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.revision
}

// Refresh reads every collection in parallel and swaps the snapshot in
// one step. Reads never fail, so neither does Refresh; loading is
// cleared on every path, including a cancelled ctx.
func (c *Context) Refresh(ctx context.Context) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	var next Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { next.Assets = c.src.GetPageAssets(gctx); return nil })
	g.Go(func() error { next.Exhibitions = c.src.GetExhibitions(gctx); return nil })
	g.Go(func() error { next.Artworks = c.src.GetArtworks(gctx); return nil })
	g.Go(func() error { next.Events = c.src.GetEvents(gctx); return nil })
	g.Go(func() error { next.Collectables = c.src.GetCollectables(gctx); return nil })
	g.Go(func() error { next.HomepageGallery = c.src.GetHomepageGallery(gctx); return nil })
	_ = g.Wait()

	c.mu.Lock()
	c.snap = next
	c.loading = false
	c.revision++
	rev := c.revision
	c.mu.Unlock()

	c.log.Debug().Uint64("revision", rev).Msg("snapshot refreshed")
}

// Start refreshes once, then keeps the snapshot fresh until stop is
// called or ctx ends. Bursts of change notifications collapse into a
// single refresh. stop waits for the background worker and may be
// called more than once.
func (c *Context) Start(ctx context.Context) (stop func()) {
	trigger := make(chan struct{}, 1)
	unsubscribe := func() {}
	if c.bus != nil {
		unsubscribe = c.bus.Subscribe(func(syncer.Change) {
			select {
			case trigger <- struct{}{}:
			default:
			}
		})
	}
	// subscribed first: a change landing during this refresh queues another
	c.Refresh(ctx)

	ctx, cancel := context.WithCancel(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(c.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-trigger:
				c.Refresh(ctx)
			case <-ticker.C:
				c.Refresh(ctx)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			cancel()
			<-done
		})
	}
}
