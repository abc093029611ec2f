package model

// Tickets holds the head count per admission type for a booking.
type Tickets struct {
	Adult   int `json:"adult"`
	Student int `json:"student"`
	Child   int `json:"child"`
}

// Total returns the number of visitors covered by the booking.
func (t Tickets) Total() int {
	return t.Adult + t.Student + t.Child
}

// Booking is a visit registration created by the free ticket flow.
// Bookings are never deleted.
type Booking struct {
	ID           string  `json:"id"`
	CustomerName string  `json:"customerName"`
	Email        string  `json:"email"`
	Date         string  `json:"date"`
	Tickets      Tickets `json:"tickets"`
	TotalAmount  int64   `json:"totalAmount"`
	Timestamp    int64   `json:"timestamp"` // epoch milliseconds
	Status       string  `json:"status"`
}

// EntityID returns the booking id.
func (b Booking) EntityID() string { return b.ID }
