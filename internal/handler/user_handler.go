package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"comm-service/internal/service"
	"comm-service/pkg/logger"
	"comm-service/prometheus"
)

// UserHandler serves registration, login, profile updates and the password
// reset flow.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Login authenticates by username or email and returns a session token.
func (h *UserHandler) Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	var req struct {
		UsernameOrEmail string `json:"username_or_email"`
		Password        string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, token, err := h.users.Login(req.UsernameOrEmail, req.Password, c.RealIP())
	if err != nil {
		prometheus.RecordAuthError("login_failure")
		return respondError(c, log, err)
	}

	prometheus.IncreaseActiveTokens()
	log.Info("User logged in", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return c.JSON(http.StatusOK, echo.Map{
		"id":     user.ID,
		"token":  token,
		"status": "success",
	})
}

// Register creates a new account.
func (h *UserHandler) Register(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RegisterCounter.Inc()

	var req struct {
		FullName        string `json:"full_name"`
		Username        string `json:"username"`
		Email           string `json:"email"`
		PhoneNumber     string `json:"phone_number"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		log.Warn("Incomplete registration data", zap.String("username", req.Username))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username, email and password are required"})
	}

	user, err := h.users.Register(service.Registration{
		FullName:        req.FullName,
		Username:        req.Username,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("User registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "User registered successfully",
	})
}

// UpdateUser applies a partial profile update.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	var req struct {
		FullName    *string `json:"full_name"`
		PhoneNumber *string `json:"phone_number"`
		Email       *string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.users.UpdateProfile(uint(id), service.ProfileUpdate{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
	})
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("User updated", zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "User updated successfully",
	})
}

// RequestPasswordReset issues a reset token for the given email.
func (h *UserHandler) RequestPasswordReset(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.PasswordResetCounter.Inc()

	var req struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse password reset request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	token, err := h.users.RequestPasswordReset(req.Email)
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":      "success",
		"reset_token": token,
		"message":     "Password reset token generated",
	})
}

// ResetPassword consumes a reset token and sets a new password.
func (h *UserHandler) ResetPassword(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		ResetToken      string `json:"reset_token"`
		NewPassword     string `json:"new_password"`
		ConfirmPassword string `json:"confirm_password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse reset request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := h.users.CompletePasswordReset(req.ResetToken, req.NewPassword, req.ConfirmPassword); err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Password reset successful",
	})
}
