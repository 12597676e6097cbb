package portfolio

import (
	"errors"
	"fmt"

	"brokee-go/internal/models"
	"brokee-go/internal/money"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Ledger is the single source of truth for current holdings. Cost basis and
// quantity are mutated only through ApplyBuy/ApplySell; Revalue touches only
// the derived valuation fields.
type Ledger struct {
	logger *zap.Logger
	db     *gorm.DB
}

// Summary aggregates the whole portfolio for the UI.
type Summary struct {
	TotalValue         float64 `json:"totalValue"`
	TotalCost          float64 `json:"totalCost"`
	TotalProfit        float64 `json:"totalProfit"`
	TotalProfitPercent float64 `json:"totalProfitPercent"`
}

// NewLedger creates a portfolio ledger.
func NewLedger(logger *zap.Logger, db *gorm.DB) *Ledger {
	return &Ledger{logger: logger.Named("portfolio"), db: db}
}

// Position returns the current position for symbol, or nil if none is held.
func (l *Ledger) Position(symbol string) (*models.Position, error) {
	var pos models.Position
	err := l.db.Where("symbol = ?", symbol).First(&pos).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load position %s: %w", symbol, err)
	}
	return &pos, nil
}

// Positions returns all open positions, ordered by symbol.
func (l *Ledger) Positions() ([]models.Position, error) {
	var positions []models.Position
	if err := l.db.Order("symbol asc").Find(&positions).Error; err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}
	return positions, nil
}

// ApplyBuy merges a purchase into the position for symbol. An existing
// position gets a weighted-average cost basis; otherwise a new position is
// created at the purchase price.
func (l *Ledger) ApplyBuy(symbol, name string, quantity, price float64) (*models.Position, error) {
	pos, err := l.Position(symbol)
	if err != nil {
		return nil, err
	}

	if pos == nil {
		pos = &models.Position{
			Symbol:       symbol,
			Name:         name,
			Quantity:     quantity,
			AvgPrice:     price,
			CurrentPrice: price,
			MarketValue:  money.Round2(quantity * price),
		}
		if err := l.db.Create(pos).Error; err != nil {
			return nil, fmt.Errorf("failed to create position %s: %w", symbol, err)
		}
		return pos, nil
	}

	newQuantity := pos.Quantity + quantity
	newAvg := (pos.Quantity*pos.AvgPrice + quantity*price) / newQuantity

	pos.Quantity = newQuantity
	pos.AvgPrice = money.Round2(newAvg)
	pos.CurrentPrice = price
	pos.MarketValue = money.Round2(newQuantity * price)

	cost := newQuantity * pos.AvgPrice
	value := newQuantity * price
	pos.Profit = money.Round2(value - cost)
	if cost > 0 {
		pos.ProfitPercent = money.Round2((value - cost) / cost * 100)
	} else {
		pos.ProfitPercent = 0
	}

	if err := l.db.Save(pos).Error; err != nil {
		return nil, fmt.Errorf("failed to update position %s: %w", symbol, err)
	}
	return pos, nil
}

// SellResult reports the realized outcome of a completed sell.
type SellResult struct {
	Profit        float64
	ProfitPercent float64
	AvgPrice      float64
}

// ApplySell reduces the position for symbol and computes the realized P&L
// against its average cost basis. The position is removed when the remaining
// quantity reaches zero; the cost basis of any remainder is untouched.
func (l *Ledger) ApplySell(symbol string, quantity, price float64) (*SellResult, error) {
	pos, err := l.Position(symbol)
	if err != nil {
		return nil, err
	}
	if pos == nil || pos.Quantity < quantity {
		return nil, fmt.Errorf("position %s cannot cover %v shares", symbol, quantity)
	}

	profit := quantity * (price - pos.AvgPrice)
	profitPercent := 0.0
	if pos.AvgPrice > 0 {
		profitPercent = profit / (quantity * pos.AvgPrice) * 100
	}

	result := &SellResult{
		Profit:        money.Round2(profit),
		ProfitPercent: money.Round2(profitPercent),
		AvgPrice:      pos.AvgPrice,
	}

	remaining := pos.Quantity - quantity
	if remaining == 0 {
		if err := l.db.Unscoped().Delete(pos).Error; err != nil {
			return nil, fmt.Errorf("failed to remove position %s: %w", symbol, err)
		}
		return result, nil
	}

	pos.Quantity = remaining
	pos.MarketValue = money.Round2(remaining * price)
	pos.Profit = money.Round2(remaining*price - remaining*pos.AvgPrice)
	if err := l.db.Save(pos).Error; err != nil {
		return nil, fmt.Errorf("failed to update position %s: %w", symbol, err)
	}
	return result, nil
}

// Revalue marks every open position to the supplied current prices. It is a
// pure recomputation of the derived fields; quantity and cost basis never
// change here. The write is restricted to the derived columns so a trade
// committing on another goroutine between the load and the write can lose at
// worst one tick of valuation, never shares or cost basis. A position sold
// out in that window simply matches no row.
func (l *Ledger) Revalue(prices map[string]float64) error {
	positions, err := l.Positions()
	if err != nil {
		return err
	}

	for i := range positions {
		pos := &positions[i]
		price, ok := prices[pos.Symbol]
		if !ok {
			continue
		}

		cost := pos.Quantity * pos.AvgPrice
		value := pos.Quantity * price

		updates := map[string]interface{}{
			"current_price":  price,
			"market_value":   money.Round2(value),
			"profit":         money.Round2(value - cost),
			"profit_percent": 0.0,
		}
		if cost > 0 {
			updates["profit_percent"] = money.Round2((value - cost) / cost * 100)
		}

		err := l.db.Model(&models.Position{}).
			Where("symbol = ?", pos.Symbol).
			Updates(updates).Error
		if err != nil {
			return fmt.Errorf("failed to revalue position %s: %w", pos.Symbol, err)
		}
	}
	return nil
}

// Summarize aggregates total value and unrealized P&L across all positions.
// The percent is weighted by total cost basis and reported as 0 when the
// basis is 0.
func (l *Ledger) Summarize() (*Summary, error) {
	positions, err := l.Positions()
	if err != nil {
		return nil, err
	}

	var totalValue, totalCost float64
	for _, pos := range positions {
		totalValue += pos.MarketValue
		totalCost += pos.Quantity * pos.AvgPrice
	}

	summary := &Summary{
		TotalValue:  money.Round2(totalValue),
		TotalCost:   money.Round2(totalCost),
		TotalProfit: money.Round2(totalValue - totalCost),
	}
	if totalCost > 0 {
		summary.TotalProfitPercent = money.Round2((totalValue - totalCost) / totalCost * 100)
	}
	return summary, nil
}
