package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"comm-service/internal/audit"
	"comm-service/internal/model"
)

// AuditService serves the audit trail read endpoints and the manual insert.
type AuditService struct {
	db       *gorm.DB
	recorder *audit.Recorder
	log      *zap.Logger
}

// NewAuditService creates an AuditService.
func NewAuditService(db *gorm.DB, recorder *audit.Recorder, log *zap.Logger) *AuditService {
	return &AuditService{db: db, recorder: recorder, log: log}
}

// List returns all audit log entries.
func (s *AuditService) List() ([]model.AuditLog, error) {
	var entries []model.AuditLog
	if err := s.db.Find(&entries).Error; err != nil {
		s.log.Error("Failed to list audit logs", zap.Error(err))
		return nil, err
	}
	s.log.Debug("Fetched audit logs", zap.Int("count", len(entries)))
	return entries, nil
}

// Get returns a single audit log entry by id.
func (s *AuditService) Get(id uint) (*model.AuditLog, error) {
	var entry model.AuditLog
	if err := s.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("audit log %d: %w", id, ErrNotFound)
		}
		s.log.Error("Failed to fetch audit log", zap.Uint("log_id", id), zap.Error(err))
		return nil, err
	}
	return &entry, nil
}

// ListByUser returns all audit log entries attributed to one user.
func (s *AuditService) ListByUser(userID uint) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	if err := s.db.Where("user_id = ?", userID).Find(&entries).Error; err != nil {
		s.log.Error("Failed to list audit logs for user", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	return entries, nil
}

// Create appends an entry on behalf of an existing user. Only actions from
// the closed set are accepted.
func (s *AuditService) Create(userID uint, action audit.Action) (*model.AuditLog, error) {
	if !audit.Known(action) {
		s.log.Warn("Rejected unknown audit action", zap.String("action", string(action)))
		return nil, fmt.Errorf("unknown action %q: %w", action, ErrValidation)
	}

	var count int64
	if err := s.db.Model(&model.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		s.log.Error("Failed to check user", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	return s.recorder.Record(s.db, userID, action)
}

// Actions returns the closed set of auditable actions for UI display.
func (s *AuditService) Actions() []audit.Action {
	return audit.Actions()
}
