package models

import "gorm.io/gorm"

const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// Transaction is an immutable record of one executed order. Rows are only
// ever appended; sells additionally carry the realized P&L and the average
// cost basis at the time of sale.
type Transaction struct {
	gorm.Model
	TradeID       string  `gorm:"uniqueIndex" json:"id"`
	Side          string  `json:"type"` // "buy" or "sell"
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Quantity      float64 `json:"shares"`
	Price         float64 `json:"price"`
	Total         float64 `json:"total"`
	Timestamp     int64   `json:"timestamp"`
	Profit        float64 `json:"profit,omitempty"`
	ProfitPercent float64 `json:"profitPercent,omitempty"`
	AvgPrice      float64 `json:"avgPrice,omitempty"`
}
