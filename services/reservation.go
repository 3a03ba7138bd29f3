package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/junkeats-app/events"
	"github.com/yeremiapane/junkeats-app/live"
	"github.com/yeremiapane/junkeats-app/metrics"
	"github.com/yeremiapane/junkeats-app/models"
	"github.com/yeremiapane/junkeats-app/utils"
	"gorm.io/gorm"
)

// ReservationView is the reservation page: the order plus its countdown.
type ReservationView struct {
	Order       *models.Order `json:"order"`
	SecondsLeft int           `json:"seconds_left"`
	Countdown   string        `json:"countdown"`
	Expired     bool          `json:"expired"`
}

// ReservationService handles dine-in check-in and cancellation.
type ReservationService struct {
	DB        *gorm.DB
	Orders    *OrderService
	Sessions  *SessionStore
	Duration  time.Duration
	Notifier  Notifier
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Hub       *live.Hub
	Now       func() time.Time
}

func NewReservationService(db *gorm.DB, orders *OrderService, sessions *SessionStore, duration time.Duration) *ReservationService {
	return &ReservationService{
		DB:        db,
		Orders:    orders,
		Sessions:  sessions,
		Duration:  duration,
		Notifier:  nopNotifier{},
		Publisher: events.NopPublisher{},
		Now:       time.Now,
	}
}

// View computes the countdown. Once closed the countdown stays at the
// value it had when the reservation closed.
func (s *ReservationService) View(order *models.Order) *ReservationView {
	at := s.Now()
	if order.ClosedAt != nil {
		at = *order.ClosedAt
	}

	left := s.Duration - at.Sub(order.PlacementTime)
	if left < 0 {
		left = 0
	}
	secs := int(left / time.Second)

	return &ReservationView{
		Order:       order,
		SecondsLeft: secs,
		Countdown:   FormatCountdown(left),
		Expired:     left == 0,
	}
}

// FormatCountdown renders d as MM:SS.
func FormatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Latest returns the session's latest reservation.
func (s *ReservationService) Latest(ctx context.Context, sessionID string) (*ReservationView, error) {
	order, err := s.Orders.Latest(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !order.IsDineIn() {
		return nil, ErrNotReservation
	}
	return s.View(order), nil
}

// CheckIn completes a reservation and seats the table. Checking in twice
// is a no-op. Once the countdown has run out the table is no longer held
// and check-in fails.
func (s *ReservationService) CheckIn(ctx context.Context, sessionID, orderID string) (*ReservationView, error) {
	order, err := s.reservation(ctx, sessionID, orderID)
	if err != nil {
		return nil, err
	}
	switch order.Status {
	case models.StatusCompleted:
		return s.View(order), nil
	case models.StatusCancelled:
		return nil, ErrReservationClosed
	}
	if s.View(order).Expired {
		return nil, ErrReservationClosed
	}

	changed, err := s.close(ctx, order, models.StatusCompleted, models.TableOccupied, false)
	if err != nil {
		return nil, err
	}
	if !changed {
		// lost a race with another request; report whatever won
		return s.reload(ctx, sessionID, orderID, models.StatusCompleted)
	}

	s.Notifier.Notify(sessionID, Toast{
		Title:       "Check-in Successful!",
		Description: fmt.Sprintf("Welcome to JunkEats! Enjoy your meal at Table %s.", order.TableNumber),
		Variant:     models.VariantDefault,
	})
	return s.View(order), nil
}

// Cancel releases the table and forgets the session's latest order. An
// expired reservation no longer holds its table, so only the order changes.
func (s *ReservationService) Cancel(ctx context.Context, sessionID, orderID string) (*ReservationView, error) {
	order, err := s.reservation(ctx, sessionID, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsTerminal() {
		return nil, ErrReservationClosed
	}

	release := models.TableAvailable
	if s.View(order).Expired {
		release = ""
	}
	changed, err := s.close(ctx, order, models.StatusCancelled, release, true)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrReservationClosed
	}

	s.Notifier.Notify(sessionID, Toast{
		Title:       "Reservation Cancelled",
		Description: fmt.Sprintf("Your booking for Table %s has been cancelled.", order.TableNumber),
		Variant:     models.VariantDestructive,
	})
	return s.View(order), nil
}

func (s *ReservationService) reservation(ctx context.Context, sessionID, orderID string) (*models.Order, error) {
	order, err := s.Orders.Get(ctx, sessionID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsDineIn() {
		return nil, ErrNotReservation
	}
	return order, nil
}

func (s *ReservationService) reload(ctx context.Context, sessionID, orderID, want string) (*ReservationView, error) {
	order, err := s.reservation(ctx, sessionID, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status != want {
		return nil, ErrReservationClosed
	}
	return s.View(order), nil
}

// close moves an open reservation to status and the table to tableStatus
// in one transaction; an empty tableStatus leaves the table alone. forget
// drops the session's latest order entry when it still points at this
// order. It reports false when the reservation was no longer open.
func (s *ReservationService) close(ctx context.Context, order *models.Order, status, tableStatus string, forget bool) (bool, error) {
	now := s.Now()
	changed := false

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", order.ID, models.StatusOrderPlaced).
			Updates(map[string]interface{}{"status": status, "closed_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true

		if tableStatus != "" {
			if err := tx.Model(&models.Table{}).
				Where("table_number = ?", order.TableNumber).
				Update("status", tableStatus).Error; err != nil {
				return fmt.Errorf("update table %s: %w", order.TableNumber, err)
			}
		}
		if !forget {
			return nil
		}

		sessions := s.Sessions.WithTx(tx)
		var ref LatestOrderRef
		switch err := sessions.Load(order.SessionID, models.EntryLatestOrder, &ref); {
		case errors.Is(err, ErrEntryNotFound):
			return nil
		case err != nil:
			return err
		case ref.OrderID != order.ID:
			return nil
		}
		return sessions.Delete(order.SessionID, models.EntryLatestOrder)
	})
	if err != nil || !changed {
		return false, err
	}

	order.Status = status
	order.ClosedAt = &now

	s.Metrics.StatusChanged(order.OrderType, status)
	s.Hub.SendToSession(order.SessionID, live.Message{Event: live.EventOrderUpdate, Data: order})
	if tableStatus != "" {
		s.broadcastTable(order.TableNumber, tableStatus)
	}
	publish(ctx, s.Publisher, events.OrderStatusChanged, order)
	return true, nil
}

func (s *ReservationService) broadcastTable(number, status string) {
	s.Hub.Broadcast(live.Message{Event: live.EventTableUpdate, Data: map[string]string{
		"table_number": number,
		"status":       status,
	}})
}

// ReleaseExpired frees tables whose hold has run out. A reservation holds
// its table for Duration from placement, a seated party for Duration from
// check-in. Orders keep their status; only the table changes.
func (s *ReservationService) ReleaseExpired(ctx context.Context) (int, error) {
	cutoff := s.Now().Add(-s.Duration)
	db := s.DB.WithContext(ctx)

	var stale []models.Table
	if err := db.Where("status <> ?", models.TableAvailable).
		Where("NOT EXISTS (?)", s.activeHolds(cutoff)).
		Find(&stale).Error; err != nil {
		return 0, fmt.Errorf("find expired tables: %w", err)
	}

	released := 0
	for _, t := range stale {
		// re-check in the update itself so a reservation placed in the
		// meantime keeps its table
		res := db.Model(&models.Table{}).
			Where("id = ? AND status = ?", t.ID, t.Status).
			Where("NOT EXISTS (?)", s.activeHolds(cutoff)).
			Update("status", models.TableAvailable)
		if res.Error != nil {
			return released, fmt.Errorf("release table %s: %w", t.TableNumber, res.Error)
		}
		if res.RowsAffected == 0 {
			continue
		}
		released++
		utils.InfoLogger.WithFields(logrus.Fields{
			"table": t.TableNumber,
			"was":   t.Status,
		}).Info("table hold expired")
		s.broadcastTable(t.TableNumber, models.TableAvailable)
	}
	return released, nil
}

// activeHolds selects dine-in orders still holding the outer query's table.
func (s *ReservationService) activeHolds(cutoff time.Time) *gorm.DB {
	return s.DB.Model(&models.Order{}).Select("1").
		Where("orders.order_type = ? AND orders.table_number = tables.table_number", models.OrderTypeDineIn).
		Where("((orders.status = ? AND orders.placement_time > ?) OR (orders.status = ? AND orders.closed_at > ?))",
			models.StatusOrderPlaced, cutoff, models.StatusCompleted, cutoff)
}
