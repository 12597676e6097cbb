package market

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"brokee-go/internal/config"
	"brokee-go/internal/events"
	"brokee-go/internal/models"
	"brokee-go/internal/money"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feed is the price feed simulator. It walks every instrument's price with a
// uniform random delta on a fixed interval; there is no external market-data
// source and the feed cannot fail mid-tick.
type Feed struct {
	logger *zap.Logger
	cfg    *config.Config
	db     *gorm.DB
	bus    *events.Bus
	rng    *rand.Rand
}

// NewFeed creates a price feed simulator. Pass seed 0 for a time-based seed.
func NewFeed(logger *zap.Logger, cfg *config.Config, db *gorm.DB, bus *events.Bus, seed int64) *Feed {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Feed{
		logger: logger.Named("market"),
		cfg:    cfg,
		db:     db,
		bus:    bus,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Seed resets the instruments table to the boot-time catalog.
func (f *Feed) Seed() error {
	for _, inst := range seedInstruments {
		record := inst
		if err := f.db.FirstOrCreate(&record, models.Instrument{Symbol: inst.Symbol}).Error; err != nil {
			return fmt.Errorf("failed to seed instrument %s: %w", inst.Symbol, err)
		}
	}
	f.logger.Info("Seeded instrument catalog", zap.Int("count", len(seedInstruments)))
	return nil
}

// Run drives the tick loop until the context is cancelled.
func (f *Feed) Run(ctx context.Context) {
	interval := time.Duration(f.cfg.Market.TickInterval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	f.logger.Info("Starting price feed", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			f.logger.Info("Stopping price feed...")
			return
		case <-ticker.C:
			if err := f.Tick(); err != nil {
				f.logger.Error("Tick failed", zap.Error(err))
			}
		}
	}
}

// Tick advances every instrument by one simulated price update: a uniform
// delta in [-1, +1] price units, floored at the configured minimum, with
// change and percent change computed against the pre-tick price and a fresh
// volume draw. An empty instrument table is a no-op.
func (f *Feed) Tick() error {
	var instruments []models.Instrument
	if err := f.db.Find(&instruments).Error; err != nil {
		return fmt.Errorf("failed to load instruments: %w", err)
	}
	if len(instruments) == 0 {
		return nil
	}

	for i := range instruments {
		inst := &instruments[i]
		prev := inst.Price

		delta := (f.rng.Float64() - 0.5) * 2 // uniform in [-1, +1]
		next := prev + delta
		if next < f.cfg.Market.MinPrice {
			next = f.cfg.Market.MinPrice
		}

		inst.Price = money.Round2(next)
		inst.Change = money.Round2(inst.Price - prev)
		inst.ChangePercent = money.Round2((inst.Price - prev) / prev * 100)
		inst.Volume = 10_000_000 + f.rng.Int63n(60_000_000)

		if err := f.db.Save(inst).Error; err != nil {
			return fmt.Errorf("failed to save instrument %s: %w", inst.Symbol, err)
		}
	}

	f.logger.Debug("Tick complete", zap.Int("instruments", len(instruments)))
	f.bus.Publish(events.PricesTicked)
	return nil
}

// Instruments returns the current market snapshot, ordered by symbol.
func (f *Feed) Instruments() ([]models.Instrument, error) {
	var instruments []models.Instrument
	if err := f.db.Order("symbol asc").Find(&instruments).Error; err != nil {
		return nil, fmt.Errorf("failed to load instruments: %w", err)
	}
	return instruments, nil
}

// Price returns the current tick price for one symbol.
func (f *Feed) Price(symbol string) (float64, bool, error) {
	var inst models.Instrument
	err := f.db.Where("symbol = ?", symbol).First(&inst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to load instrument %s: %w", symbol, err)
	}
	return inst.Price, true, nil
}
