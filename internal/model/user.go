package model

import (
	"time"
)

// User represents an admin-tool account stored in the database.
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	FullName     string     `json:"full_name" gorm:"type:varchar(255);not null"`
	Username     string     `json:"username" gorm:"type:varchar(255);uniqueIndex;not null"`
	Email        string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PhoneNumber  string     `json:"phone_number" gorm:"type:varchar(20)"`
	Password     string     `json:"-" gorm:"type:varchar(255);not null"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	IsLoggedIn   bool       `json:"is_logged_in" gorm:"default:false"`
	CurrentToken *string    `json:"-" gorm:"type:varchar(512)"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PasswordReset is a single-use, time-limited credential authorizing one
// password change. Tokens expire one hour after issuance.
type PasswordReset struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	ResetToken  string    `json:"-" gorm:"type:varchar(255);uniqueIndex;not null"`
	TokenExpiry time.Time `json:"token_expiry" gorm:"not null"`
	Used        bool      `json:"used" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
}

// FailedLoginAttempt records a rejected login for later review.
type FailedLoginAttempt struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"type:varchar(255);not null"`
	IPAddress string    `json:"ip_address" gorm:"type:varchar(50);not null"`
	Timestamp time.Time `json:"timestamp" gorm:"not null"`
}
