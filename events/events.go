package events

import (
	"context"
	"time"
)

// Routing keys.
const (
	OrderPlaced        = "order.placed"
	OrderStatusChanged = "order.status_changed"
)

// Event is the message body published for order lifecycle changes.
type Event struct {
	Type       string    `json:"type"`
	OrderID    string    `json:"order_id"`
	SessionID  string    `json:"session_id"`
	OrderType  string    `json:"order_type"`
	Status     string    `json:"status"`
	Total      string    `json:"total,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }
