package service

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"comm-service/internal/model"
)

// ContactService stores messages from the public contact form. Submissions
// are anonymous, so nothing here touches the audit trail.
type ContactService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewContactService creates a ContactService.
func NewContactService(db *gorm.DB, log *zap.Logger) *ContactService {
	return &ContactService{db: db, log: log}
}

// Submit persists one contact form message.
func (s *ContactService) Submit(name, email, message string) (*model.ContactSubmission, error) {
	submission := model.ContactSubmission{
		Name:        name,
		Email:       email,
		Message:     message,
		SubmittedAt: time.Now().UTC(),
	}

	if err := s.db.Create(&submission).Error; err != nil {
		s.log.Error("Failed to store contact submission", zap.Error(err))
		return nil, err
	}

	s.log.Info("Contact submission stored", zap.Uint("submission_id", submission.ID))
	return &submission, nil
}
