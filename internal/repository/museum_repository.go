// Package repository contains the museum's domain accessors. Every
// collection is bound to a remote table and a local mirror key and read
// and written through the sync engine, so callers never see a transport
// failure on reads and always get a rolled back mirror on failed writes.
package repository

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kavya5cloud/moc/internal/model"
	"github.com/kavya5cloud/moc/internal/syncer"
)

// Mirror keys, one per collection. They are part of the persisted state
// of existing installs and must not change.
const (
	KeyCollectables = "MOCA_COLLECTABLES"
	KeyExhibitions  = "MOCA_EXHIBITIONS"
	KeyArtworks     = "MOCA_ARTWORKS"
	KeyEvents       = "MOCA_EVENTS"
	KeyReviews      = "MOCA_REVIEWS"
	KeyAssets       = "MOCA_ASSETS"
	KeyBookings     = "MOCA_BOOKINGS"
	KeyOrders       = "MOCA_ORDERS"
	KeyGallery      = "MOCA_GALLERY_SCROLL"
	KeyStaffMode    = "MOCA_STAFF_MODE"
)

var (
	exhibitions  = syncer.Collection[model.Exhibition]{Table: "exhibitions", MirrorKey: KeyExhibitions, Fallback: defaultExhibitions}
	artworks     = syncer.Collection[model.Artwork]{Table: "artworks", MirrorKey: KeyArtworks, Fallback: defaultArtworks}
	collectables = syncer.Collection[model.Collectable]{Table: "collectables", MirrorKey: KeyCollectables, Fallback: defaultCollectables}
	events       = syncer.Collection[model.Event]{Table: "events", MirrorKey: KeyEvents}
	reviews      = syncer.Collection[model.Review]{Table: "reviews", MirrorKey: KeyReviews}
	bookings     = syncer.Collection[model.Booking]{Table: "bookings", MirrorKey: KeyBookings}
	shopOrders   = syncer.Collection[model.ShopOrder]{Table: "shop_orders", MirrorKey: KeyOrders}
	gallery      = syncer.Collection[model.GalleryItem]{Table: "homepage_gallery", MirrorKey: KeyGallery}
	pageAssets   = syncer.Document[model.PageAssets]{Table: "page_assets", MirrorKey: KeyAssets, Fallback: defaultAssets}
)

// Tables lists every remote table the repository reads or writes. It is
// handed to remote.MySQLClient.EnsureTables at start-up.
var Tables = []string{
	exhibitions.Table, artworks.Table, collectables.Table, events.Table,
	reviews.Table, bookings.Table, shopOrders.Table, gallery.Table, pageAssets.Table,
}

// OrderNotifier is told about every shop order that was saved. The
// RabbitMQ publisher in package service implements it.
type OrderNotifier interface {
	NotifyOrderConfirmed(ctx context.Context, order model.ShopOrder) error
}

// notifyTimeout bounds a single order notification.
const notifyTimeout = 10 * time.Second

// MuseumRepo exposes the museum collections on top of a sync engine.
type MuseumRepo struct {
	engine   *syncer.Engine
	notifier OrderNotifier
	log      zerolog.Logger
}

// NewMuseumRepo constructs a MuseumRepo. notifier may be nil, in which
// case saved orders are not announced anywhere.
func NewMuseumRepo(engine *syncer.Engine, notifier OrderNotifier, log zerolog.Logger) *MuseumRepo {
	return &MuseumRepo{
		engine:   engine,
		notifier: notifier,
		log:      log.With().Str("component", "repository").Logger(),
	}
}

// Engine returns the underlying sync engine.
func (r *MuseumRepo) Engine() *syncer.Engine { return r.engine }

// Bootstrap seeds the mirror with the default collectables, exhibitions,
// artworks and page assets for every key that has never been written.
// Seeding does not notify listeners. Existing values, even empty lists,
// are left alone.
func (r *MuseumRepo) Bootstrap(ctx context.Context) error {
	m := r.engine.Mirror()
	seeds := []struct {
		key   string
		value any
	}{
		{KeyCollectables, defaultCollectables},
		{KeyExhibitions, defaultExhibitions},
		{KeyArtworks, defaultArtworks},
		{KeyAssets, defaultAssets},
	}
	for _, s := range seeds {
		if m.Exists(ctx, s.key) {
			continue
		}
		if err := m.Write(ctx, s.key, s.value, false); err != nil {
			return err
		}
		r.log.Debug().Str("key", s.key).Msg("seeded mirror")
	}
	return nil
}

// CheckConnection reports whether the remote store is configured.
func (r *MuseumRepo) CheckConnection() syncer.Connection {
	return r.engine.CheckConnection()
}

// GetStaffMode reports whether the back office toggle is on. The flag
// lives in the mirror only and is never synced.
func (r *MuseumRepo) GetStaffMode(ctx context.Context) bool {
	var on bool
	if !r.engine.Mirror().Read(ctx, KeyStaffMode, &on) {
		return false
	}
	return on
}

// SetStaffMode stores the back office toggle.
func (r *MuseumRepo) SetStaffMode(ctx context.Context, on bool) error {
	return r.engine.Mirror().Write(ctx, KeyStaffMode, on, true)
}
