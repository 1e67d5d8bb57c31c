package database

import (
	"fmt"

	"fuelops/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens PostgreSQL and migrates the schema.
func NewConnection(dsn string, logLevel logger.LogLevel) (*gorm.DB, error) {
	return Open(postgres.Open(dsn), logLevel)
}

// Open connects through any gorm dialector and migrates the schema.
func Open(dialector gorm.Dialector, logLevel logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate auto-migrates every persisted model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Station{},
		&model.FuelLine{},
		&model.DailyEntry{},
		&model.EntryAuditLog{},
		&model.Alert{},
		&model.StockPurchase{},
		&model.StockMovement{},
		&model.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	return nil
}
