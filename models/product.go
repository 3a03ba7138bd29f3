package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product categories shown on the menu.
const (
	CategoryPizza     = "Pizza"
	CategoryBurgers   = "Burgers"
	CategoryFries     = "Fries"
	CategoryBeverages = "Beverages"
	CategoryCombos    = "Combos"
	CategoryDesserts  = "Desserts"
)

var Categories = []string{
	CategoryPizza,
	CategoryBurgers,
	CategoryFries,
	CategoryBeverages,
	CategoryCombos,
	CategoryDesserts,
}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// Product is a read-only catalog entry. Rows are seeded at startup.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string          `gorm:"type:varchar(50);not null;index" json:"category"`
	Image       string          `gorm:"type:varchar(255)" json:"image"`
	Rating      float64         `json:"rating"`
	Bestseller  bool            `gorm:"not null;default:false" json:"bestseller"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}
