package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kavya5cloud/moc/internal/config"
	"github.com/kavya5cloud/moc/internal/utils"
)

// AuthHandler issues back office tokens.  Staff share one passcode; its
// bcrypt hash comes from STAFF_PASSCODE_HASH.
type AuthHandler struct {
	Cfg config.Config
}

func NewAuthHandler(cfg config.Config) *AuthHandler {
	return &AuthHandler{Cfg: cfg}
}

// ----- DTOs -----

type staffLoginReq struct {
	Passcode string `json:"passcode" validate:"required"`
}

// StaffLogin exchanges the passcode for a STAFF token.
func (h *AuthHandler) StaffLogin(c echo.Context) error {
	if h.Cfg.StaffPasscodeHash == "" {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "staff login disabled"})
	}
	var req staffLoginReq
	if ok, err := bindValid(c, &req, "error", "passcode required"); !ok {
		return err
	}
	if !utils.VerifyPassword(h.Cfg.StaffPasscodeHash, req.Passcode) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid passcode"})
	}
	tok, err := utils.NewStaffToken(h.Cfg.JWTSecret, uuid.NewString(), h.Cfg.StaffTokenTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token issue failed"})
	}
	return c.JSON(http.StatusOK, tok)
}
