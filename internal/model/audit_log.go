package model

import (
	"time"
)

// AuditLog is one append-only row attributing an action to a user. Rows are
// never updated or deleted.
type AuditLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	Action    string    `json:"action" gorm:"type:text;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"not null"`
}
