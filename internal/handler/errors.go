package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kavya5cloud/moc/internal/model"
	"github.com/kavya5cloud/moc/internal/repository"
	"github.com/kavya5cloud/moc/internal/syncer"
)

// writeError maps data layer errors onto /v1 responses. A rejected write
// has already been undone locally, so the client may simply retry.
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, syncer.ErrWriteRejected):
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error": "the change could not be saved to the cloud store and was undone",
			"retry": true,
		})
	case errors.Is(err, syncer.ErrStorageFull), errors.Is(err, syncer.ErrStorageUnavailable):
		return c.JSON(http.StatusInsufficientStorage, echo.Map{"error": "local storage unavailable"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrInvalidStatus),
		errors.Is(err, model.ErrInvalidReview),
		errors.Is(err, syncer.ErrMissingID),
		errors.Is(err, syncer.ErrMalformedRecord):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// bindValid binds the request body into dst and validates it. It writes
// the 400 response itself and reports whether the handler may go on.
func bindValid(c echo.Context, dst interface{}, key, msg string) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{key: "invalid body"})
	}
	if err := c.Validate(dst); err != nil {
		if msg == "" {
			msg = err.Error()
		}
		return false, c.JSON(http.StatusBadRequest, echo.Map{key: msg})
	}
	return true, nil
}
