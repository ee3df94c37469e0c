package model

import (
	"time"
)

// Package represents a subscription plan in the catalog. SubscriberCount is a
// cached aggregate equal to the number of customers linked to the package; it
// is adjusted in the same transaction as every customer write, never
// recomputed on read.
type Package struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	PackageName     string    `json:"package_name" gorm:"type:varchar(50);uniqueIndex;not null"`
	Description     string    `json:"description" gorm:"type:text"`
	MonthlyPrice    int       `json:"monthly_price" gorm:"not null"`
	SubscriberCount int       `json:"subscriber_count" gorm:"default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
