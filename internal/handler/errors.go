package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"comm-service/internal/service"
)

// respondError maps a service failure kind to its HTTP status. Anything
// outside the taxonomy is logged and surfaced as a generic internal error so
// storage details never reach the caller.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrExpired):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid username or password"})
	default:
		log.Error("Unexpected failure", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}

// actingUserID returns the authenticated user id placed in the context by the
// auth middleware.
func actingUserID(c echo.Context) uint {
	if id, ok := c.Get("user_id").(uint); ok {
		return id
	}
	return 0
}
