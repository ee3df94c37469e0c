package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"comm-service/pkg/logger"
)

// RequestIDMiddleware stamps every request with a UUID request id. A caller
// may propagate its own id, but only a well-formed UUID is accepted; anything
// else is replaced rather than echoed back into the logs.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(logger.RequestIDKey)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		c.Set(logger.RequestIDKey, requestID)
		c.Response().Header().Set(logger.RequestIDKey, requestID)
		return next(c)
	}
}
