package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderTypeDelivery = "delivery"
	OrderTypeDineIn   = "dine-in"
)

const (
	PaymentCard = "card"
	PaymentUPI  = "upi"
	PaymentCOD  = "cod"
)

// Order statuses. Delivery orders walk the first four in sequence,
// dine-in reservations end in Completed or Cancelled.
const (
	StatusOrderPlaced    = "Order Placed"
	StatusPreparing      = "Preparing"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
	StatusCompleted      = "Completed"
	StatusCancelled      = "Cancelled"
)

// DeliveryStages is the ordered progression of a delivery order.
var DeliveryStages = []string{
	StatusOrderPlaced,
	StatusPreparing,
	StatusOutForDelivery,
	StatusDelivered,
}

type Order struct {
	ID              string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	SessionID       string          `gorm:"type:varchar(36);not null;index" json:"-"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Shipping        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"shipping"`
	Tax             decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"tax"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	AdvancePaid     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"advance_paid"`
	RemainingDue    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"remaining_due"`
	CustomerName    string          `gorm:"type:varchar(255);not null" json:"customer_name"`
	OrderType       string          `gorm:"type:varchar(20);not null" json:"order_type"`
	PaymentMethod   string          `gorm:"type:varchar(10);not null" json:"payment_method"`
	Address         string          `gorm:"type:text" json:"address"`
	TableNumber     string          `gorm:"type:varchar(50)" json:"table_number,omitempty"`
	SpecialRequests string          `gorm:"type:text" json:"special_requests,omitempty"`
	PlacementTime   time.Time       `gorm:"not null;index" json:"placement_time"`
	Status          string          `gorm:"type:varchar(20);not null;index" json:"status"`
	ClosedAt        *time.Time      `json:"closed_at,omitempty"`
	CreatedAt       time.Time       `json:"-"`
	UpdatedAt       time.Time       `json:"-"`
}

func (o *Order) IsDelivery() bool {
	return o.OrderType == OrderTypeDelivery
}

func (o *Order) IsDineIn() bool {
	return o.OrderType == OrderTypeDineIn
}

// IsTerminal reports whether the order can no longer change status.
func (o *Order) IsTerminal() bool {
	switch o.Status {
	case StatusDelivered, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
