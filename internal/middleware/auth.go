package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"comm-service/internal/model"
	"comm-service/pkg/jwtutil"
	"comm-service/pkg/logger"
	"comm-service/prometheus"
)

// Auth returns a guard that validates the bearer JWT from the Authorization
// header. The token must also match the user's stored current_token while the
// user is logged in; a later login rotates current_token, which invalidates
// every earlier token.
func Auth(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Invalid Authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			tokenString := parts[1]

			claims, err := jwtutil.ValidateToken(tokenString)
			if err != nil {
				log.Warn("Invalid JWT token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			var user model.User
			if err := db.First(&user, claims.UserID).Error; err != nil {
				log.Warn("Token user not found", zap.Uint("user_id", claims.UserID))
				prometheus.RecordAuthError("unknown_user")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			if !user.IsLoggedIn || user.CurrentToken == nil || *user.CurrentToken != tokenString {
				log.Warn("Token no longer current", zap.Uint("user_id", user.ID))
				prometheus.RecordAuthError("stale_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set("user_id", user.ID)
			c.Set("username", user.Username)

			return next(c)
		}
	}
}
