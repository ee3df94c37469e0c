package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"comm-service/internal/service"
	"comm-service/pkg/logger"
)

// ContactHandler serves the public contact form endpoint.
type ContactHandler struct {
	contacts *service.ContactService
}

// NewContactHandler creates a ContactHandler.
func NewContactHandler(contacts *service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// SubmitContact stores a message from the public contact form.
func (h *ContactHandler) SubmitContact(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Message string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.Name == "" || req.Email == "" || req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name, email and message are required"})
	}

	submission, err := h.contacts.Submit(req.Name, req.Email, req.Message)
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Contact submission received", zap.Uint("submission_id", submission.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Thank you for contacting us",
	})
}
