package models

import (
	"time"

	"gorm.io/gorm"
)

// Badge is a one-way achievement flag: once Earned flips to true it never
// reverts, and EarnedAt records when it happened.
type Badge struct {
	gorm.Model
	BadgeID     string     `gorm:"uniqueIndex" json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Earned      bool       `json:"earned"`
	EarnedAt    *time.Time `json:"earnedDate,omitempty"`
}
