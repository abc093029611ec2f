package repository

import (
	"context"
	"sort"

	"github.com/kavya5cloud/moc/internal/model"
	"github.com/kavya5cloud/moc/internal/syncer"
)

// GetReviews returns the reviews left on one exhibition or artwork,
// newest first.
func (r *MuseumRepo) GetReviews(ctx context.Context, itemID string) []model.Review {
	all := syncer.Get(ctx, r.engine, reviews)
	out := make([]model.Review, 0, len(all))
	for _, rv := range all {
		if rv.ItemID == itemID {
			out = append(out, rv)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out
}

// AddReview stores a review after checking its rating and item type.
func (r *MuseumRepo) AddReview(ctx context.Context, rv model.Review) error {
	if err := rv.Validate(); err != nil {
		return err
	}
	return syncer.Upsert(ctx, r.engine, reviews, rv)
}

// GetBookings returns every booking, empty by default.
func (r *MuseumRepo) GetBookings(ctx context.Context) []model.Booking {
	return syncer.Get(ctx, r.engine, bookings)
}

// SaveBooking creates or replaces a booking.
func (r *MuseumRepo) SaveBooking(ctx context.Context, b model.Booking) error {
	return syncer.Upsert(ctx, r.engine, bookings, b)
}

// GetShopOrders returns every shop order, empty by default.
func (r *MuseumRepo) GetShopOrders(ctx context.Context) []model.ShopOrder {
	return syncer.Get(ctx, r.engine, shopOrders)
}

// GetShopOrder looks up a single order. It returns ErrNotFound when the
// id is unknown.
func (r *MuseumRepo) GetShopOrder(ctx context.Context, id string) (model.ShopOrder, error) {
	for _, o := range r.GetShopOrders(ctx) {
		if o.ID == id {
			return o, nil
		}
	}
	return model.ShopOrder{}, ErrNotFound
}

// SaveShopOrder creates or replaces an order and, once stored, hands it
// to the order notifier in the background. Notifier failures are logged
// and never reach the caller.
func (r *MuseumRepo) SaveShopOrder(ctx context.Context, o model.ShopOrder) error {
	if err := syncer.Upsert(ctx, r.engine, shopOrders, o); err != nil {
		return err
	}
	r.notifyOrder(ctx, o)
	return nil
}

// UpdateOrderStatus sets the status of an existing order. An unknown id
// is a silent no-op; the order list is never extended by this call.
func (r *MuseumRepo) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	for _, o := range r.GetShopOrders(ctx) {
		if o.ID != id {
			continue
		}
		o.Status = status
		return syncer.Upsert(ctx, r.engine, shopOrders, o)
	}
	r.log.Debug().Str("order_id", id).Msg("status update for unknown order ignored")
	return nil
}

func (r *MuseumRepo) notifyOrder(ctx context.Context, o model.ShopOrder) {
	if r.notifier == nil {
		return
	}
	go func() {
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := r.notifier.NotifyOrderConfirmed(nctx, o); err != nil {
			r.log.Warn().Err(err).Str("order_id", o.ID).Msg("order notification failed")
		}
	}()
}
