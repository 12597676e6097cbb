package models

import "gorm.io/gorm"

// Account holds the simulated cash balance.
// There should only ever be one row in this table.
type Account struct {
	gorm.Model
	Balance float64 `gorm:"not null"`
}
