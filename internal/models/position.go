package models

import "gorm.io/gorm"

// Position is the holder's current stake in one instrument. Quantity is never
// negative; AvgPrice only moves on buys (weighted average). The valuation
// fields are derived and recomputed on every price tick.
type Position struct {
	gorm.Model
	Symbol        string  `gorm:"uniqueIndex" json:"symbol"`
	Name          string  `json:"name"`
	Quantity      float64 `json:"shares"`
	AvgPrice      float64 `json:"avgPrice"`
	CurrentPrice  float64 `json:"currentPrice"`
	MarketValue   float64 `json:"totalValue"`
	Profit        float64 `json:"profit"`
	ProfitPercent float64 `json:"profitPercent"`
}
