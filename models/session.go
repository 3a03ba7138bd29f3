package models

import "time"

// Session keys.
const (
	EntryLoggedInUser = "loggedInUser"
	EntryLatestOrder  = "latestOrder"
)

type Session struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    *uint     `gorm:"index" json:"user_id,omitempty"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

// SessionEntry is one JSON encoded value stored under a key for a session.
type SessionEntry struct {
	ID        uint   `gorm:"primaryKey"`
	SessionID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_session_entry"`
	EntryKey  string `gorm:"type:varchar(64);not null;uniqueIndex:idx_session_entry"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}
