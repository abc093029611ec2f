// Package handler exposes HTTP handlers for public, visitor, staff and
// proxy endpoints.  This file defines the public browsing API.  These
// routes serve the in-memory snapshot kept fresh by the data context, so
// they answer instantly even while the remote store is slow or down.

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kavya5cloud/moc/internal/datactx"
	"github.com/kavya5cloud/moc/internal/repository"
)

// PublicHandler aggregates what unauthenticated pages need.
type PublicHandler struct {
	Repo *repository.MuseumRepo // reviews and order lookups go to the repository
	Data *datactx.Context       // everything else is served from the snapshot
}

// NewPublicHandler constructs a PublicHandler.
func NewPublicHandler(repo *repository.MuseumRepo, data *datactx.Context) *PublicHandler {
	return &PublicHandler{Repo: repo, Data: data}
}

// statusResp is the body of GET /v1/status.
type statusResp struct {
	IsConnected bool   `json:"isConnected"`
	Mode        string `json:"mode"`
	URL         string `json:"url"`
	Loading     bool   `json:"loading"`
	Revision    uint64 `json:"revision"`
}

// Status reports the connection mode and the snapshot state.
func (h *PublicHandler) Status(c echo.Context) error {
	conn := h.Repo.CheckConnection()
	return c.JSON(http.StatusOK, statusResp{
		IsConnected: conn.IsConnected,
		Mode:        conn.Mode,
		URL:         conn.Endpoint,
		Loading:     h.Data.Loading(),
		Revision:    h.Data.Revision(),
	})
}

// GetAssets returns the page copy and imagery.
func (h *PublicHandler) GetAssets(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Data.Snapshot().Assets)
}

// GetExhibitions lists exhibitions.  Response JSON contains an "items" array.
func (h *PublicHandler) GetExhibitions(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Data.Snapshot().Exhibitions})
}

// GetArtworks lists the permanent collection.
func (h *PublicHandler) GetArtworks(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Data.Snapshot().Artworks})
}

// GetEvents lists calendar events.
func (h *PublicHandler) GetEvents(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Data.Snapshot().Events})
}

// GetCollectables lists the shop catalogue.
func (h *PublicHandler) GetCollectables(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Data.Snapshot().Collectables})
}

// GetGallery lists the homepage gallery slides.
func (h *PublicHandler) GetGallery(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"items": h.Data.Snapshot().HomepageGallery})
}

// GetReviews lists the reviews of one exhibition or artwork, newest first.
// The item is selected with ?itemId=.
func (h *PublicHandler) GetReviews(c echo.Context) error {
	itemID := c.QueryParam("itemId")
	if itemID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "itemId required"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": h.Repo.GetReviews(c.Request().Context(), itemID)})
}

// GetOrder backs the order status page.
func (h *PublicHandler) GetOrder(c echo.Context) error {
	o, err := h.Repo.GetShopOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, o)
}
