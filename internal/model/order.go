package model

// OrderStatus is the fulfilment state of a shop order. Staff can toggle
// an order between the two values in both directions; no other value is
// accepted anywhere in the system.
type OrderStatus string

const (
	OrderPending   OrderStatus = "Pending"
	OrderFulfilled OrderStatus = "Fulfilled"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	return s == OrderPending || s == OrderFulfilled
}

// ShopOrder records a purchase made through the shop checkout.
//
// Fields:
//  ID           – client generated identifier (e.g. ORD-…).
//  CustomerName – name entered at checkout.
//  Email        – address used for the confirmation e-mail.
//  Items        – cart lines at the time of purchase.
//  TotalAmount  – sum of the line totals.
//  Timestamp    – creation time in epoch milliseconds.
//  Status       – Pending until staff or the payment webhook fulfil it.
type ShopOrder struct {
	ID           string      `json:"id"`
	CustomerName string      `json:"customerName"`
	Email        string      `json:"email"`
	Items        []CartItem  `json:"items"`
	TotalAmount  int64       `json:"totalAmount"`
	Timestamp    int64       `json:"timestamp"`
	Status       OrderStatus `json:"status"`
}

// EntityID returns the order id.
func (o ShopOrder) EntityID() string { return o.ID }

// ItemsTotal recomputes the order total from its lines.
func (o ShopOrder) ItemsTotal() int64 {
	var sum int64
	for _, it := range o.Items {
		sum += it.LineTotal()
	}
	return sum
}
