package model

// Exhibition is a curated show listed on the exhibitions page. Staff can
// edit every field in place from the back office.
type Exhibition struct {
	ID          string `json:"id"`          // exhibitions.id
	Title       string `json:"title"`       // display title
	DateRange   string `json:"dateRange"`   // free-form range such as "Opens Sep 15, 2024"
	Description string `json:"description"` // short curatorial blurb
	ImageURL    string `json:"imageUrl"`    // hero image
	Category    string `json:"category"`    // e.g. "Architecture"
}

// EntityID returns the exhibition id.
func (e Exhibition) EntityID() string { return e.ID }

// Artwork is a piece from the permanent collection. Artworks are
// read-mostly and have no staff editing flow.
type Artwork struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Year     string `json:"year"`
	Medium   string `json:"medium"`
	ImageURL string `json:"imageUrl"`
}

// EntityID returns the artwork id.
func (a Artwork) EntityID() string { return a.ID }

// Event is a calendar entry (talk, workshop, screening).
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description,omitempty"`
}

// EntityID returns the event id.
func (e Event) EntityID() string { return e.ID }

// GalleryItem is one slide of the homepage gallery scroll.
type GalleryItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
	Caption  string `json:"caption,omitempty"`
}

// EntityID returns the gallery item id.
func (g GalleryItem) EntityID() string { return g.ID }
