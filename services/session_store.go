package services

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yeremiapane/junkeats-app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionStore keeps per session key/value entries as JSON.
type SessionStore struct {
	DB *gorm.DB
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{DB: db}
}

// WithTx returns a store bound to tx.
func (s *SessionStore) WithTx(tx *gorm.DB) *SessionStore {
	return &SessionStore{DB: tx}
}

func (s *SessionStore) Create(userID *uint, lat, lng float64) (*models.Session, error) {
	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Latitude:  lat,
		Longitude: lng,
	}
	if err := s.DB.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &session, nil
}

func (s *SessionStore) Get(sessionID string) (*models.Session, error) {
	var session models.Session
	if err := s.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

// Put stores value under key, replacing any previous value.
func (s *SessionStore) Put(sessionID, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	entry := models.SessionEntry{
		SessionID: sessionID,
		EntryKey:  key,
		Value:     string(raw),
	}
	return s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

// Load decodes the value under key into dst.
func (s *SessionStore) Load(sessionID, key string, dst interface{}) error {
	var entry models.SessionEntry
	err := s.DB.Where("session_id = ? AND entry_key = ?", sessionID, key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		return err
	}
	if err := json.Unmarshal([]byte(entry.Value), dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *SessionStore) Delete(sessionID, key string) error {
	return s.DB.Where("session_id = ? AND entry_key = ?", sessionID, key).
		Delete(&models.SessionEntry{}).Error
}

// LatestOrderRef is what the session remembers about its last checkout.
type LatestOrderRef struct {
	OrderID   string `json:"order_id"`
	OrderType string `json:"order_type"`
}

// Profile is the logged in user as the session remembers it.
type Profile struct {
	Name          string `json:"name"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email"`
}
