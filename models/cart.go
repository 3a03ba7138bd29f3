package models

import "github.com/shopspring/decimal"

// CartItem is a product held in a session cart. Carts live in memory only.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal returns price multiplied by quantity.
func (ci CartItem) LineTotal() decimal.Decimal {
	return ci.Price.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}
