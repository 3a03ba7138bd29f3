package models

import "github.com/shopspring/decimal"

// OrderItem snapshots a cart line at placement time so later catalog
// changes do not alter history.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	OrderID   string          `gorm:"type:varchar(36);not null;index" json:"-"`
	ProductID uint            `gorm:"not null" json:"product_id"`
	Name      string          `gorm:"type:varchar(255);not null" json:"name"`
	Category  string          `gorm:"type:varchar(50);not null" json:"category"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Image     string          `gorm:"type:varchar(255)" json:"image,omitempty"`
}

func (oi OrderItem) LineTotal() decimal.Decimal {
	return oi.Price.Mul(decimal.NewFromInt(int64(oi.Quantity)))
}
