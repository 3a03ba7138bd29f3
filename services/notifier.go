package services

import (
	"github.com/yeremiapane/junkeats-app/live"
	"github.com/yeremiapane/junkeats-app/models"
	"github.com/yeremiapane/junkeats-app/utils"
	"gorm.io/gorm"
)

// Toast is a short user facing notice raised by a state change.
type Toast struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Variant     string `json:"variant"`
}

type Notifier interface {
	Notify(sessionID string, toast Toast)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, Toast) {}

// NotificationService stores toasts per session and pushes them to the
// session's open websockets.
type NotificationService struct {
	DB  *gorm.DB
	Hub *live.Hub
}

func NewNotificationService(db *gorm.DB, hub *live.Hub) *NotificationService {
	return &NotificationService{DB: db, Hub: hub}
}

func (s *NotificationService) Notify(sessionID string, toast Toast) {
	if toast.Variant == "" {
		toast.Variant = models.VariantDefault
	}

	n := models.Notification{
		SessionID: sessionID,
		Title:     toast.Title,
		Message:   toast.Description,
		Variant:   toast.Variant,
	}
	if err := s.DB.Create(&n).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to store notification for session %s: %v", sessionID, err)
	}

	s.Hub.SendToSession(sessionID, live.Message{Event: live.EventNotification, Data: n})
}

// List returns the newest notifications of a session first.
func (s *NotificationService) List(sessionID string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var out []models.Notification
	err := s.DB.Where("session_id = ?", sessionID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func (s *NotificationService) Clear(sessionID string) error {
	return s.DB.Where("session_id = ?", sessionID).Delete(&models.Notification{}).Error
}
