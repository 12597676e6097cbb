package database

import (
	"errors"
	"fmt"

	"brokee-go/internal/config"
	"brokee-go/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewDatabase creates a new database connection and performs migration.
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate prepares the schema. The instruments table is dropped and recreated
// on every start: tick state is session-scoped and prices restart at their
// seeded defaults after a reboot. Holdings, cash, transactions, badges and
// the blob store survive restarts.
func Migrate(db *gorm.DB) error {
	if err := db.Migrator().DropTable(&models.Instrument{}); err != nil {
		return fmt.Errorf("failed to drop instruments table: %w", err)
	}

	err := db.AutoMigrate(
		&models.Instrument{},
		&models.Position{},
		&models.Transaction{},
		&models.Account{},
		&models.Badge{},
		&models.Blob{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	return nil
}

// EnsureAccount creates the single cash-balance row if it does not exist yet,
// seeded with the configured starting balance.
func EnsureAccount(db *gorm.DB, startingBalance float64) (*models.Account, error) {
	var account models.Account
	err := db.First(&account).Error
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	account = models.Account{Balance: startingBalance}
	if err := db.Create(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return &account, nil
}
