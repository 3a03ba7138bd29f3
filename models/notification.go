package models

import (
	"time"
)

const (
	VariantDefault     = "default"
	VariantDestructive = "destructive"
)

// Notification is a toast raised for a session, kept so clients that
// reconnect can replay what they missed.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"type:varchar(36);not null;index" json:"-"`
	Title     string    `gorm:"type:varchar(100);not null" json:"title"`
	Message   string    `gorm:"type:text" json:"message"`
	Variant   string    `gorm:"type:varchar(20);not null;default:'default'" json:"variant"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
