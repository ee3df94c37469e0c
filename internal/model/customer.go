package model

import (
	"time"
)

// Customer is a directory record, optionally linked to a Package.
type Customer struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	FirstName    string    `json:"first_name" gorm:"type:varchar(255);not null"`
	LastName     string    `json:"last_name" gorm:"type:varchar(255);not null"`
	PhoneNumber  string    `json:"phone_number" gorm:"type:varchar(20)"`
	EmailAddress string    `json:"email_address" gorm:"type:varchar(255);not null"`
	Address      string    `json:"address" gorm:"type:varchar(255)"`
	PackageID    *uint     `json:"package_id,omitempty" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ContactSubmission stores a message sent through the public contact form.
type ContactSubmission struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Email       string    `json:"email" gorm:"type:varchar(255);not null"`
	Message     string    `json:"message" gorm:"type:text;not null"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"not null"`
}
