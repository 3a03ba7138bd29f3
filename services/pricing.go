package services

import (
	"github.com/shopspring/decimal"
	"github.com/yeremiapane/junkeats-app/config"
	"github.com/yeremiapane/junkeats-app/models"
)

// Pricing holds the checkout constants.
type Pricing struct {
	ShippingFee   decimal.Decimal
	TaxRate       decimal.Decimal
	DineInAdvance decimal.Decimal
}

func DefaultPricing() Pricing {
	return Pricing{
		ShippingFee:   decimal.RequireFromString("5.00"),
		TaxRate:       decimal.RequireFromString("0.05"),
		DineInAdvance: decimal.RequireFromString("100.00"),
	}
}

func NewPricing(cfg config.PricingConfig) Pricing {
	return Pricing{
		ShippingFee:   decimal.NewFromFloat(cfg.ShippingFee).Round(2),
		TaxRate:       decimal.NewFromFloat(cfg.TaxRate),
		DineInAdvance: decimal.NewFromFloat(cfg.DineInAdvance).Round(2),
	}
}

// Quote is the order summary shown before and stored at placement.
type Quote struct {
	OrderType    string          `json:"order_type"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Shipping     decimal.Decimal `json:"shipping"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	Advance      decimal.Decimal `json:"advance"`
	RemainingDue decimal.Decimal `json:"remaining_due"`
}

func Subtotal(items []models.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// Quote prices items for orderType. Shipping applies to delivery only,
// the advance to dine-in only.
func (p Pricing) Quote(items []models.CartItem, orderType string) Quote {
	subtotal := Subtotal(items).Round(2)
	tax := subtotal.Mul(p.TaxRate).Round(2)

	q := Quote{
		OrderType:    orderType,
		Subtotal:     subtotal,
		Shipping:     decimal.Zero,
		Tax:          tax,
		Advance:      decimal.Zero,
		RemainingDue: decimal.Zero,
	}
	if orderType == models.OrderTypeDelivery {
		q.Shipping = p.ShippingFee
	}
	q.Total = q.Subtotal.Add(q.Shipping).Add(q.Tax)

	if orderType == models.OrderTypeDineIn {
		q.Advance = p.DineInAdvance
		q.RemainingDue = decimal.Max(q.Total.Sub(q.Advance), decimal.Zero)
	}
	return q
}
