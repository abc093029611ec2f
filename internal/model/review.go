package model

import "errors"

// Item types a review can be attached to.
const (
	ReviewExhibition = "exhibition"
	ReviewArtwork    = "artwork"
)

// ErrInvalidReview is returned by Validate for out of range ratings or
// unknown item types.
var ErrInvalidReview = errors.New("invalid review")

// Review is a visitor rating left on an exhibition or artwork page.
type Review struct {
	ID        string `json:"id"`
	ItemID    string `json:"itemId"`
	ItemType  string `json:"itemType"`
	UserName  string `json:"userName"`
	Rating    int    `json:"rating"` // 1 to 5
	Comment   string `json:"comment"`
	Timestamp int64  `json:"timestamp"`
}

// EntityID returns the review id.
func (r Review) EntityID() string { return r.ID }

// Validate checks the rating bounds and the item type.
func (r Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return ErrInvalidReview
	}
	if r.ItemType != ReviewExhibition && r.ItemType != ReviewArtwork {
		return ErrInvalidReview
	}
	return nil
}
