package trading

import (
	"fmt"
	"sync"
	"time"

	"brokee-go/internal/config"
	"brokee-go/internal/events"
	"brokee-go/internal/models"
	"brokee-go/internal/money"
	"brokee-go/internal/portfolio"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	OrderTypeMarket = "market"
	OrderTypeLimit  = "limit"
)

// PriceSource supplies the current tick price for a symbol.
type PriceSource interface {
	Price(symbol string) (float64, bool, error)
}

// TradeRecorder receives gamification notifications for executed trades.
type TradeRecorder interface {
	RecordTrade(profitable bool) error
}

// OrderRequest is one buy/sell intent.
type OrderRequest struct {
	Side       string  `json:"side"`
	Symbol     string  `json:"symbol"`
	Quantity   float64 `json:"quantity"`
	OrderType  string  `json:"orderType"` // "market" (default) or "limit"
	LimitPrice float64 `json:"limitPrice,omitempty"`
}

// Engine validates and executes orders against the portfolio and cash
// balance. All mutation runs under a single mutex: exactly one mutator at a
// time, applied atomically within one synchronous call.
type Engine struct {
	logger   *zap.Logger
	cfg      *config.Config
	db       *gorm.DB
	prices   PriceSource
	ledger   *portfolio.Ledger
	recorder TradeRecorder
	bus      *events.Bus

	mu sync.Mutex
}

// NewEngine creates an order engine.
func NewEngine(logger *zap.Logger, cfg *config.Config, db *gorm.DB, prices PriceSource, ledger *portfolio.Ledger, recorder TradeRecorder, bus *events.Bus) *Engine {
	return &Engine{
		logger:   logger.Named("trading"),
		cfg:      cfg,
		db:       db,
		prices:   prices,
		ledger:   ledger,
		recorder: recorder,
		bus:      bus,
	}
}

// Balance returns the current cash balance.
func (e *Engine) Balance() (float64, error) {
	var account models.Account
	if err := e.db.First(&account).Error; err != nil {
		return 0, fmt.Errorf("failed to load account: %w", err)
	}
	return account.Balance, nil
}

// adjustBalance applies a signed cash delta as a single SQL update. Relative
// updates keep concurrent credits from other components (the course-completion
// replenish) from being clobbered by a stale read-modify-write.
func (e *Engine) adjustBalance(delta float64) error {
	err := e.db.Model(&models.Account{}).
		Where("1 = 1").
		Update("balance", gorm.Expr("round(balance + ?, 2)", delta)).Error
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return nil
}

// Transactions returns the full history, newest first.
func (e *Engine) Transactions() ([]models.Transaction, error) {
	var transactions []models.Transaction
	if err := e.db.Order("timestamp desc").Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return transactions, nil
}

// PlaceOrder validates req and, if it passes, executes it: balance and
// position are mutated, an immutable transaction is appended and the
// gamification counters are advanced. A validation failure leaves every piece
// of state untouched.
func (e *Engine) PlaceOrder(req OrderRequest) (*models.Transaction, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if req.OrderType == "" {
		req.OrderType = OrderTypeMarket
	}
	if req.OrderType == OrderTypeLimit && req.LimitPrice <= 0 {
		return nil, ErrInvalidLimitPrice
	}

	marketPrice, ok, err := e.prices.Price(req.Symbol)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnknownSymbol
	}

	// Market orders fill at the current tick price. Limit orders fill
	// immediately at the supplied price; there is no order book and no
	// partial fill in this simulation.
	executionPrice := marketPrice
	if req.OrderType == OrderTypeLimit {
		executionPrice = req.LimitPrice
		if req.Side == models.SideSell && req.LimitPrice > marketPrice {
			e.logger.Warn("Sell limit above market fills immediately in this simulation",
				zap.String("symbol", req.Symbol),
				zap.Float64("limit_price", req.LimitPrice),
				zap.Float64("market_price", marketPrice))
		}
	}

	l := e.logger.With(
		zap.String("symbol", req.Symbol),
		zap.String("side", req.Side),
		zap.String("order_type", req.OrderType),
		zap.Float64("quantity", req.Quantity),
		zap.Float64("execution_price", executionPrice),
	)

	switch req.Side {
	case models.SideBuy:
		return e.executeBuy(l, req, executionPrice)
	case models.SideSell:
		return e.executeSell(l, req, executionPrice)
	default:
		return nil, fmt.Errorf("invalid order side %q", req.Side)
	}
}

func (e *Engine) executeBuy(l *zap.Logger, req OrderRequest, price float64) (*models.Transaction, error) {
	balance, err := e.Balance()
	if err != nil {
		return nil, err
	}

	total := money.Round2(req.Quantity * price)
	if total > balance {
		return nil, ErrInsufficientFunds
	}

	var name string
	var inst models.Instrument
	if err := e.db.Where("symbol = ?", req.Symbol).First(&inst).Error; err == nil {
		name = inst.Name
	}

	if _, err := e.ledger.ApplyBuy(req.Symbol, name, req.Quantity, price); err != nil {
		return nil, err
	}
	if err := e.adjustBalance(-total); err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		TradeID:   uuid.NewString(),
		Side:      models.SideBuy,
		Symbol:    req.Symbol,
		Name:      name,
		Quantity:  req.Quantity,
		Price:     price,
		Total:     total,
		Timestamp: time.Now().Unix(),
	}
	if err := e.db.Create(tx).Error; err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if err := e.recorder.RecordTrade(false); err != nil {
		l.Error("Failed to record trade activity", zap.Error(err))
	}

	l.Info("Buy executed", zap.Float64("total", total))
	e.bus.Publish(events.TradeExecuted)
	e.bus.Publish(events.BalanceChanged)
	return tx, nil
}

func (e *Engine) executeSell(l *zap.Logger, req OrderRequest, price float64) (*models.Transaction, error) {
	pos, err := e.ledger.Position(req.Symbol)
	if err != nil {
		return nil, err
	}
	if pos == nil || pos.Quantity < req.Quantity {
		return nil, ErrInsufficientShares
	}

	total := money.Round2(req.Quantity * price)
	result, err := e.ledger.ApplySell(req.Symbol, req.Quantity, price)
	if err != nil {
		return nil, err
	}
	if err := e.adjustBalance(total); err != nil {
		return nil, err
	}

	tx := &models.Transaction{
		TradeID:       uuid.NewString(),
		Side:          models.SideSell,
		Symbol:        req.Symbol,
		Name:          pos.Name,
		Quantity:      req.Quantity,
		Price:         price,
		Total:         total,
		Timestamp:     time.Now().Unix(),
		Profit:        result.Profit,
		ProfitPercent: result.ProfitPercent,
		AvgPrice:      result.AvgPrice,
	}
	if err := e.db.Create(tx).Error; err != nil {
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}

	if err := e.recorder.RecordTrade(result.Profit > 0); err != nil {
		l.Error("Failed to record trade activity", zap.Error(err))
	}

	l.Info("Sell executed",
		zap.Float64("total", total),
		zap.Float64("profit", result.Profit),
		zap.Float64("profit_percent", result.ProfitPercent))
	e.bus.Publish(events.TradeExecuted)
	e.bus.Publish(events.BalanceChanged)
	return tx, nil
}
