// Package audit appends user-attributed rows to the audit trail. Every
// audited operation writes exactly one row; mutating callers pass their open
// transaction handle so the audit row and the primary change commit or roll
// back as a single unit.
package audit

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"comm-service/internal/model"
	"comm-service/prometheus"
)

// Action identifies one kind of auditable operation. The set is closed:
// Record and the manual audit-log endpoint only accept the constants below,
// which keeps the trail machine-verifiable.
type Action string

const (
	ActionUserLogin              Action = "User login"
	ActionUserRegistration       Action = "User registration"
	ActionUserUpdated            Action = "User details updated"
	ActionPasswordResetRequested Action = "Password reset requested"
	ActionPasswordResetCompleted Action = "Password reset successful"
	ActionPackagesListed         Action = "Fetched all packages"
	ActionPackageFetched         Action = "Fetched package"
	ActionPackageCreated         Action = "Package created"
	ActionPackageUpdated         Action = "Package updated"
	ActionPackageDeleted         Action = "Package deleted"
	ActionCustomersListed        Action = "Fetched all customers"
	ActionCustomerFetched        Action = "Fetched customer"
	ActionCustomerCreated        Action = "Customer created"
	ActionCustomerUpdated        Action = "Customer updated"
	ActionCustomerDeleted        Action = "Customer deleted"
)

var allActions = []Action{
	ActionUserLogin,
	ActionUserRegistration,
	ActionUserUpdated,
	ActionPasswordResetRequested,
	ActionPasswordResetCompleted,
	ActionPackagesListed,
	ActionPackageFetched,
	ActionPackageCreated,
	ActionPackageUpdated,
	ActionPackageDeleted,
	ActionCustomersListed,
	ActionCustomerFetched,
	ActionCustomerCreated,
	ActionCustomerUpdated,
	ActionCustomerDeleted,
}

// Actions returns the full closed set of auditable actions.
func Actions() []Action {
	out := make([]Action, len(allActions))
	copy(out, allActions)
	return out
}

// Known reports whether a is part of the closed action set.
func Known(a Action) bool {
	for _, known := range allActions {
		if a == known {
			return true
		}
	}
	return false
}

// Recorder appends audit rows.
type Recorder struct {
	log *zap.Logger
}

// NewRecorder creates a Recorder.
func NewRecorder(log *zap.Logger) *Recorder {
	return &Recorder{log: log}
}

// Record appends one audit row for the given user and action, stamped with
// the current time. tx is the handle the caller is writing its primary change
// on; when the insert fails the caller's transaction rolls back with it.
func (r *Recorder) Record(tx *gorm.DB, userID uint, action Action) (*model.AuditLog, error) {
	entry := model.AuditLog{
		UserID:    userID,
		Action:    string(action),
		Timestamp: time.Now().UTC(),
	}

	if err := tx.Create(&entry).Error; err != nil {
		r.log.Error("Failed to create audit log entry",
			zap.Uint("user_id", userID),
			zap.String("action", string(action)),
			zap.Error(err))
		return nil, err
	}

	prometheus.RecordAuditEntry(string(action))
	r.log.Info("Audit log entry created",
		zap.Uint("user_id", userID),
		zap.String("action", string(action)))
	return &entry, nil
}
