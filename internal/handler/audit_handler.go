package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"comm-service/internal/audit"
	"comm-service/internal/service"
	"comm-service/pkg/logger"
)

// AuditHandler serves the audit trail endpoints.
type AuditHandler struct {
	audits *service.AuditService
}

// NewAuditHandler creates an AuditHandler.
func NewAuditHandler(audits *service.AuditService) *AuditHandler {
	return &AuditHandler{audits: audits}
}

// ListAuditLogs returns all audit log entries.
func (h *AuditHandler) ListAuditLogs(c echo.Context) error {
	log := logger.FromContext(c)

	entries, err := h.audits.List()
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Audit logs retrieved", zap.Int("count", len(entries)))
	return c.JSON(http.StatusOK, entries)
}

// GetAuditLog returns a single audit log entry.
func (h *AuditHandler) GetAuditLog(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid audit log id"})
	}

	entry, err := h.audits.Get(uint(id))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, entry)
}

// ListAuditLogsByUser returns the audit trail of one user.
func (h *AuditHandler) ListAuditLogsByUser(c echo.Context) error {
	log := logger.FromContext(c)

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	entries, err := h.audits.ListByUser(uint(userID))
	if err != nil {
		return respondError(c, log, err)
	}

	return c.JSON(http.StatusOK, entries)
}

// CreateAuditLog appends an entry on behalf of a user. Only actions from the
// closed set are accepted.
func (h *AuditHandler) CreateAuditLog(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		UserID uint   `json:"user_id"`
		Action string `json:"action"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	entry, err := h.audits.Create(req.UserID, audit.Action(req.Action))
	if err != nil {
		return respondError(c, log, err)
	}

	log.Info("Audit log created", zap.Uint("log_id", entry.ID), zap.Uint("user_id", entry.UserID))
	return c.JSON(http.StatusOK, entry)
}

// ListActions returns the closed set of auditable actions for UI display.
func (h *AuditHandler) ListActions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.audits.Actions())
}
