package repository

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/kavya5cloud/moc/internal/model"
)

// recentActivityLimit caps DashboardAnalytics.RecentActivity.
const recentActivityLimit = 10

// Activity kinds.
const (
	ActivityOrder   = "order"
	ActivityBooking = "booking"
)

// Activity is one line of the dashboard's recent activity feed: either a
// shop order or a booking.
type Activity struct {
	Kind         string `json:"kind"`
	ID           string `json:"id"`
	CustomerName string `json:"customerName"`
	Email        string `json:"email"`
	TotalAmount  int64  `json:"totalAmount"`
	Timestamp    int64  `json:"timestamp"`
	Status       string `json:"status"`
}

// DashboardAnalytics summarizes shop and ticket activity for staff.
type DashboardAnalytics struct {
	TotalRevenue   int64      `json:"totalRevenue"`
	ShopRevenue    int64      `json:"shopRevenue"`
	TicketRevenue  int64      `json:"ticketRevenue"`
	TotalTickets   int        `json:"totalTickets"`
	OrderCount     int        `json:"orderCount"`
	BookingCount   int        `json:"bookingCount"`
	RecentActivity []Activity `json:"recentActivity"`
}

// GetDashboardAnalytics reads orders and bookings in parallel and derives
// the dashboard figures from them.
func (r *MuseumRepo) GetDashboardAnalytics(ctx context.Context) DashboardAnalytics {
	var (
		orders []model.ShopOrder
		books  []model.Booking
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		orders = r.GetShopOrders(gctx)
		return nil
	})
	g.Go(func() error {
		books = r.GetBookings(gctx)
		return nil
	})
	_ = g.Wait() // reads never fail

	return summarize(orders, books)
}

func summarize(orders []model.ShopOrder, books []model.Booking) DashboardAnalytics {
	a := DashboardAnalytics{
		OrderCount:     len(orders),
		BookingCount:   len(books),
		RecentActivity: make([]Activity, 0, len(orders)+len(books)),
	}
	for _, o := range orders {
		a.ShopRevenue += o.TotalAmount
		a.RecentActivity = append(a.RecentActivity, Activity{
			Kind:         ActivityOrder,
			ID:           o.ID,
			CustomerName: o.CustomerName,
			Email:        o.Email,
			TotalAmount:  o.TotalAmount,
			Timestamp:    o.Timestamp,
			Status:       string(o.Status),
		})
	}
	for _, b := range books {
		a.TicketRevenue += b.TotalAmount
		a.TotalTickets += b.Tickets.Total()
		a.RecentActivity = append(a.RecentActivity, Activity{
			Kind:         ActivityBooking,
			ID:           b.ID,
			CustomerName: b.CustomerName,
			Email:        b.Email,
			TotalAmount:  b.TotalAmount,
			Timestamp:    b.Timestamp,
			Status:       b.Status,
		})
	}
	a.TotalRevenue = a.ShopRevenue + a.TicketRevenue

	sort.SliceStable(a.RecentActivity, func(i, j int) bool {
		return a.RecentActivity[i].Timestamp > a.RecentActivity[j].Timestamp
	})
	if len(a.RecentActivity) > recentActivityLimit {
		a.RecentActivity = a.RecentActivity[:recentActivityLimit]
	}
	return a
}
