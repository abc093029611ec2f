package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kavya5cloud/moc/internal/model"
	"github.com/kavya5cloud/moc/internal/repository"
)

// VisitorHandler serves the anonymous write flows: checkout, ticket
// booking and reviews.
type VisitorHandler struct {
	Repo *repository.MuseumRepo
	Now  func() time.Time
}

// NewVisitorHandler constructs a VisitorHandler.
func NewVisitorHandler(repo *repository.MuseumRepo) *VisitorHandler {
	return &VisitorHandler{Repo: repo, Now: time.Now}
}

// ----- DTOs -----

type cartLineReq struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=1,max=99"`
}

type placeOrderReq struct {
	ID           string        `json:"id"`
	CustomerName string        `json:"customerName" validate:"required,max=120"`
	Email        string        `json:"email" validate:"required,email"`
	Items        []cartLineReq `json:"items" validate:"required,min=1,dive"`
}

type bookingReq struct {
	CustomerName string        `json:"customerName" validate:"required,max=120"`
	Email        string        `json:"email" validate:"required,email"`
	Date         string        `json:"date" validate:"required"`
	Tickets      model.Tickets `json:"tickets"`
}

type reviewReq struct {
	ItemID   string `json:"itemId" validate:"required"`
	ItemType string `json:"itemType" validate:"required,oneof=exhibition artwork"`
	UserName string `json:"userName" validate:"required,max=80"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
	Comment  string `json:"comment" validate:"max=2000"`
}

// newID returns prefix followed by the first block of a random UUID, the
// short form shown to visitors on receipts.
func newID(prefix string) string {
	return prefix + strings.ToUpper(strings.SplitN(uuid.NewString(), "-", 2)[0])
}

// PlaceOrder stores a new shop order.  Prices come from the current
// catalogue, never from the request, and the total is recomputed from the
// lines.  A client-chosen id must not name an existing order.
func (h *VisitorHandler) PlaceOrder(c echo.Context) error {
	var req placeOrderReq
	if ok, err := bindValid(c, &req, "error", ""); !ok {
		return err
	}
	ctx := c.Request().Context()

	catalogue := make(map[string]model.Collectable)
	for _, col := range h.Repo.GetCollectables(ctx) {
		catalogue[col.ID] = col
	}
	items := make([]model.CartItem, 0, len(req.Items))
	for _, line := range req.Items {
		col, ok := catalogue[line.ID]
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown item " + line.ID})
		}
		if !col.Available() {
			return c.JSON(http.StatusConflict, echo.Map{"error": col.Name + " is out of stock"})
		}
		items = append(items, model.CartItem{Collectable: col, Quantity: line.Quantity})
	}

	order := model.ShopOrder{
		ID:           strings.TrimSpace(req.ID),
		CustomerName: strings.TrimSpace(req.CustomerName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Items:        items,
		Timestamp:    h.Now().UnixMilli(),
		Status:       model.OrderPending,
	}
	if order.ID == "" {
		order.ID = newID("ORD-")
	} else if _, err := h.Repo.GetShopOrder(ctx, order.ID); err == nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "order " + order.ID + " already exists"})
	} else if !errors.Is(err, repository.ErrNotFound) {
		return writeError(c, err)
	}
	order.TotalAmount = order.ItemsTotal()

	if err := h.Repo.SaveShopOrder(ctx, order); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// CreateBooking registers a free visit.
func (h *VisitorHandler) CreateBooking(c echo.Context) error {
	var req bookingReq
	if ok, err := bindValid(c, &req, "error", ""); !ok {
		return err
	}
	t := req.Tickets
	if t.Adult < 0 || t.Student < 0 || t.Child < 0 || t.Total() < 1 || t.Total() > 20 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "between 1 and 20 tickets required"})
	}
	b := model.Booking{
		ID:           newID("BK-"),
		CustomerName: strings.TrimSpace(req.CustomerName),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Date:         req.Date,
		Tickets:      t,
		TotalAmount:  0, // admission is free
		Timestamp:    h.Now().UnixMilli(),
		Status:       "Confirmed",
	}
	if err := h.Repo.SaveBooking(c.Request().Context(), b); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// AddReview stores a visitor review.
func (h *VisitorHandler) AddReview(c echo.Context) error {
	var req reviewReq
	if ok, err := bindValid(c, &req, "error", ""); !ok {
		return err
	}
	r := model.Review{
		ID:        uuid.NewString(),
		ItemID:    req.ItemID,
		ItemType:  req.ItemType,
		UserName:  strings.TrimSpace(req.UserName),
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
		Timestamp: h.Now().UnixMilli(),
	}
	if err := h.Repo.AddReview(c.Request().Context(), r); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}
