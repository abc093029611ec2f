package handler

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kavya5cloud/moc/internal/model"
	"github.com/kavya5cloud/moc/internal/repository"
)

// StaffHandler backs the back office.  Every route sits behind StaffAuth.
type StaffHandler struct {
	Repo *repository.MuseumRepo
}

// NewStaffHandler constructs a StaffHandler and panics on a nil repository.
func NewStaffHandler(repo *repository.MuseumRepo) *StaffHandler {
	if repo == nil {
		panic("nil repository passed to NewStaffHandler")
	}
	return &StaffHandler{Repo: repo}
}

type orderStatusReq struct {
	Status model.OrderStatus `json:"status" validate:"required,oneof=Pending Fulfilled"`
}

type staffModeReq struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

// SaveExhibition creates or replaces the exhibition named in the path.
func (h *StaffHandler) SaveExhibition(c echo.Context) error {
	var ex model.Exhibition
	if err := c.Bind(&ex); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ex.ID = c.Param("id")
	if strings.TrimSpace(ex.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	if err := h.Repo.SaveExhibition(c.Request().Context(), ex); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ex)
}

// SaveCollectable creates or replaces the shop item named in the path.
func (h *StaffHandler) SaveCollectable(c echo.Context) error {
	var col model.Collectable
	if err := c.Bind(&col); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	col.ID = c.Param("id")
	if strings.TrimSpace(col.Name) == "" || col.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and a non-negative price required"})
	}
	if err := h.Repo.SaveCollectable(c.Request().Context(), col); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, col)
}

// DeleteCollectable removes a shop item.
func (h *StaffHandler) DeleteCollectable(c echo.Context) error {
	if err := h.Repo.DeleteCollectable(c.Request().Context(), c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListOrders returns every shop order, newest first.
func (h *StaffHandler) ListOrders(c echo.Context) error {
	orders := h.Repo.GetShopOrders(c.Request().Context())
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].Timestamp > orders[j].Timestamp })
	return c.JSON(http.StatusOK, echo.Map{"items": orders})
}

// UpdateOrderStatus toggles an order between Pending and Fulfilled.  An
// unknown id is not an error, matching the repository contract.
func (h *StaffHandler) UpdateOrderStatus(c echo.Context) error {
	var req orderStatusReq
	if ok, err := bindValid(c, &req, "error", "status must be Pending or Fulfilled"); !ok {
		return err
	}
	if err := h.Repo.UpdateOrderStatus(c.Request().Context(), c.Param("id"), req.Status); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListBookings returns every booking, newest first.
func (h *StaffHandler) ListBookings(c echo.Context) error {
	books := h.Repo.GetBookings(c.Request().Context())
	sort.SliceStable(books, func(i, j int) bool { return books[i].Timestamp > books[j].Timestamp })
	return c.JSON(http.StatusOK, echo.Map{"items": books})
}

// Dashboard returns revenue and activity figures.
func (h *StaffHandler) Dashboard(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Repo.GetDashboardAnalytics(c.Request().Context()))
}

// SaveAssets replaces the page assets.
func (h *StaffHandler) SaveAssets(c echo.Context) error {
	var a model.PageAssets
	if err := c.Bind(&a); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := h.Repo.SavePageAssets(c.Request().Context(), a); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// GetMode reports the back office toggle.
func (h *StaffHandler) GetMode(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"enabled": h.Repo.GetStaffMode(c.Request().Context())})
}

// SetMode stores the back office toggle.
func (h *StaffHandler) SetMode(c echo.Context) error {
	var req staffModeReq
	if ok, err := bindValid(c, &req, "error", "enabled required"); !ok {
		return err
	}
	if err := h.Repo.SetStaffMode(c.Request().Context(), *req.Enabled); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"enabled": *req.Enabled})
}
