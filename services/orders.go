package services

import (
	"context"
	"errors"
	"time"

	"github.com/yeremiapane/junkeats-app/events"
	"github.com/yeremiapane/junkeats-app/live"
	"github.com/yeremiapane/junkeats-app/metrics"
	"github.com/yeremiapane/junkeats-app/models"
	"github.com/yeremiapane/junkeats-app/utils"
	"gorm.io/gorm"
)

// OrderHistory is a session's orders, newest first, with summary counts.
type OrderHistory struct {
	Orders    []models.Order `json:"orders"`
	Total     int            `json:"total"`
	Delivered int            `json:"delivered"`
	Pending   int            `json:"pending"`
}

// OrderService reads orders and drives delivery progression.
type OrderService struct {
	DB        *gorm.DB
	Sessions  *SessionStore
	Timeline  DeliveryTimeline
	Publisher events.Publisher
	Metrics   *metrics.Metrics
	Hub       *live.Hub
	Now       func() time.Time
}

func NewOrderService(db *gorm.DB, sessions *SessionStore, timeline DeliveryTimeline) *OrderService {
	return &OrderService{
		DB:        db,
		Sessions:  sessions,
		Timeline:  timeline,
		Publisher: events.NopPublisher{},
		Now:       time.Now,
	}
}

// Get loads an order owned by the session.
func (s *OrderService) Get(ctx context.Context, sessionID, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).Preload("Items").
		Where("id = ? AND session_id = ?", orderID, sessionID).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// Latest returns the order recorded by the session's last checkout.
func (s *OrderService) Latest(ctx context.Context, sessionID string) (*models.Order, error) {
	var ref LatestOrderRef
	if err := s.Sessions.Load(sessionID, models.EntryLatestOrder, &ref); err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return nil, ErrNoLatestOrder
		}
		return nil, err
	}
	order, err := s.Get(ctx, sessionID, ref.OrderID)
	if errors.Is(err, ErrOrderNotFound) {
		return nil, ErrNoLatestOrder
	}
	return order, err
}

// History reconciles overdue deliveries once, then lists the session's
// orders.
func (s *OrderService) History(ctx context.Context, sessionID string) (*OrderHistory, error) {
	if _, err := s.ReconcileHistory(ctx, sessionID); err != nil {
		return nil, err
	}

	var orders []models.Order
	err := s.DB.WithContext(ctx).Preload("Items").
		Where("session_id = ?", sessionID).
		Order("placement_time DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	h := &OrderHistory{Orders: orders, Total: len(orders)}
	for _, o := range orders {
		if o.Status == models.StatusDelivered {
			h.Delivered++
		}
	}
	h.Pending = h.Total - h.Delivered
	return h, nil
}

// ReconcileHistory marks every delivery of the session that outlived the
// delivery duration as Delivered.
func (s *OrderService) ReconcileHistory(ctx context.Context, sessionID string) (int, error) {
	var active []models.Order
	err := s.activeDeliveries(ctx).Where("session_id = ?", sessionID).Find(&active).Error
	if err != nil {
		return 0, err
	}

	now := s.Now()
	changed := 0
	for i := range active {
		if now.Sub(active[i].PlacementTime) < s.Timeline.Total {
			continue
		}
		ok, err := s.setStatus(ctx, &active[i], models.StatusDelivered)
		if err != nil {
			return changed, err
		}
		if ok {
			changed++
		}
	}
	return changed, nil
}

// Track derives the current stage of a delivery and persists it when it
// moved.
func (s *OrderService) Track(ctx context.Context, sessionID, orderID string) (*TrackingView, error) {
	order, err := s.Get(ctx, sessionID, orderID)
	if err != nil {
		return nil, err
	}
	return s.track(ctx, order)
}

// TrackLatest tracks the session's latest order.
func (s *OrderService) TrackLatest(ctx context.Context, sessionID string) (*TrackingView, error) {
	order, err := s.Latest(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.track(ctx, order)
}

func (s *OrderService) track(ctx context.Context, order *models.Order) (*TrackingView, error) {
	if !order.IsDelivery() {
		return nil, ErrNotDelivery
	}
	if order.Status == models.StatusDelivered {
		return newTrackingView(order, final()), nil
	}

	p := s.Timeline.At(order.PlacementTime, s.Now())
	if stageIndex(p.Status) > stageIndex(order.Status) {
		if _, err := s.setStatus(ctx, order, p.Status); err != nil {
			return nil, err
		}
	}
	return newTrackingView(order, p), nil
}

// AdvanceActive moves every undelivered delivery to its derived stage and
// returns how many orders changed.
func (s *OrderService) AdvanceActive(ctx context.Context) (int, error) {
	var active []models.Order
	if err := s.activeDeliveries(ctx).Find(&active).Error; err != nil {
		return 0, err
	}

	now := s.Now()
	changed := 0
	for i := range active {
		p := s.Timeline.At(active[i].PlacementTime, now)
		if stageIndex(p.Status) <= stageIndex(active[i].Status) {
			continue
		}
		ok, err := s.setStatus(ctx, &active[i], p.Status)
		if err != nil {
			return changed, err
		}
		if ok {
			changed++
		}
	}

	var remaining int64
	if err := s.activeDeliveries(ctx).Count(&remaining).Error; err == nil {
		s.Metrics.SetActiveDeliveries(int(remaining))
	}
	return changed, nil
}

func (s *OrderService) activeDeliveries(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).Model(&models.Order{}).
		Where("order_type = ?", models.OrderTypeDelivery).
		Where("status NOT IN ?", []string{models.StatusDelivered, models.StatusCompleted, models.StatusCancelled})
}

// setStatus writes status only if the row still holds the status we read,
// so concurrent trackers never move an order backwards.
func (s *OrderService) setStatus(ctx context.Context, order *models.Order, status string) (bool, error) {
	res := s.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	order.Status = status
	utils.InfoLogger.Printf("Order %s is now %s", order.ID, status)
	s.Metrics.StatusChanged(order.OrderType, status)
	s.Hub.SendToSession(order.SessionID, live.Message{Event: live.EventOrderUpdate, Data: order})
	publish(ctx, s.Publisher, events.OrderStatusChanged, order)
	return true, nil
}
