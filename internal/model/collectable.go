package model

// Collectable is a merchandise item sold in the museum shop. It is the
// main target of staff create/update/delete operations.
//
// Price is expressed in whole rupees, matching what the shop displays.
// InStock is a pointer because older records omit it; a nil value is
// treated as in stock by the shop pages.
type Collectable struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Category    string `json:"category"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
	InStock     *bool  `json:"inStock,omitempty"`
}

// EntityID returns the collectable id.
func (c Collectable) EntityID() string { return c.ID }

// Available reports whether the item can be added to a cart.
func (c Collectable) Available() bool {
	return c.InStock == nil || *c.InStock
}

// CartItem is a collectable together with the quantity ordered.
type CartItem struct {
	Collectable
	Quantity int `json:"quantity"`
}

// LineTotal returns price times quantity.
func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}
