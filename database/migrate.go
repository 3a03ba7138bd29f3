package database

import (
	"fmt"

	"github.com/yeremiapane/junkeats-app/models"
	"github.com/yeremiapane/junkeats-app/utils"
	"gorm.io/gorm"
)

// Migrate creates or updates every table the service uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.SessionEntry{},
		&models.Product{},
		&models.Table{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
	return nil
}

// Setup migrates and seeds in one step.
func Setup(db *gorm.DB, tables []string) error {
	if err := Migrate(db); err != nil {
		return err
	}
	if err := SeedProducts(db); err != nil {
		return err
	}
	return SeedTables(db, tables)
}
