package models

import "gorm.io/gorm"

// Instrument is one simulated tradable stock. Price, Change, ChangePercent
// and Volume are mutated only by the price feed on each tick.
type Instrument struct {
	gorm.Model
	Symbol        string  `gorm:"uniqueIndex" json:"symbol"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
}
