package models

import "time"

const (
	TableAvailable = "available"
	TableReserved  = "reserved"
	TableOccupied  = "occupied"
)

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableNumber string    `gorm:"type:varchar(50);not null;uniqueIndex" json:"table_number"`
	Seats       int       `gorm:"not null;default:4" json:"seats"`
	Status      string    `gorm:"type:varchar(50);not null;default:'available'" json:"status"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"updated_at"`
}
