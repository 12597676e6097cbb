package market

import (
	"testing"

	"brokee-go/internal/config"
	"brokee-go/internal/events"
	"brokee-go/internal/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTest creates an isolated in-memory DB and a deterministic feed.
func setupTest(t *testing.T) (*Feed, *gorm.DB, *events.Bus) {
	// Use a new, non-shared in-memory database for each test to ensure isolation.
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(&models.Instrument{})
	assert.NoError(t, err)

	cfg := &config.Config{}
	cfg.Market.TickInterval = 3
	cfg.Market.MinPrice = 1.0

	log := zap.NewNop()
	bus := events.NewBus(log)
	feed := NewFeed(log, cfg, db, bus, 42) // fixed seed keeps the walk deterministic

	return feed, db, bus
}

func TestSeed_CreatesCatalogOnce(t *testing.T) {
	feed, db, _ := setupTest(t)

	assert.NoError(t, feed.Seed())

	var count int64
	db.Model(&models.Instrument{}).Count(&count)
	assert.Equal(t, int64(len(seedInstruments)), count)

	var aapl models.Instrument
	assert.NoError(t, db.Where("symbol = ?", "AAPL").First(&aapl).Error)
	assert.Equal(t, 175.50, aapl.Price)
	assert.Equal(t, "Apple Inc.", aapl.Name)

	// Seeding again must not duplicate or overwrite.
	assert.NoError(t, db.Model(&aapl).Update("price", 200.00).Error)
	assert.NoError(t, feed.Seed())
	db.Model(&models.Instrument{}).Count(&count)
	assert.Equal(t, int64(len(seedInstruments)), count)
	assert.NoError(t, db.Where("symbol = ?", "AAPL").First(&aapl).Error)
	assert.Equal(t, 200.00, aapl.Price)
}

func TestTick_WalksPriceAndRecomputesChange(t *testing.T) {
	feed, db, _ := setupTest(t)
	assert.NoError(t, db.Create(&models.Instrument{Symbol: "AAPL", Name: "Apple Inc.", Price: 100.00}).Error)

	assert.NoError(t, feed.Tick())

	var inst models.Instrument
	assert.NoError(t, db.Where("symbol = ?", "AAPL").First(&inst).Error)

	assert.InDelta(t, 100.00, inst.Price, 1.0) // one step moves at most one unit
	assert.InDelta(t, inst.Price-100.00, inst.Change, 0.005)
	assert.InDelta(t, (inst.Price-100.00)/100.00*100, inst.ChangePercent, 0.005)
	assert.GreaterOrEqual(t, inst.Volume, int64(10_000_000))
	assert.Less(t, inst.Volume, int64(70_000_000))
}

func TestTick_FloorsAtMinPrice(t *testing.T) {
	feed, db, _ := setupTest(t)
	assert.NoError(t, db.Create(&models.Instrument{Symbol: "PENNY", Name: "Penny Corp.", Price: 1.00}).Error)

	for i := 0; i < 20; i++ {
		assert.NoError(t, feed.Tick())
		var inst models.Instrument
		assert.NoError(t, db.Where("symbol = ?", "PENNY").First(&inst).Error)
		assert.GreaterOrEqual(t, inst.Price, 1.00)
	}
}

func TestTick_EmptyTableIsNoOp(t *testing.T) {
	feed, _, bus := setupTest(t)

	ticked := 0
	bus.Subscribe(events.PricesTicked, func() { ticked++ })

	assert.NoError(t, feed.Tick())
	assert.Equal(t, 0, ticked)
}

func TestTick_PublishesPricesTicked(t *testing.T) {
	feed, db, bus := setupTest(t)
	assert.NoError(t, db.Create(&models.Instrument{Symbol: "AAPL", Name: "Apple Inc.", Price: 100.00}).Error)

	ticked := 0
	bus.Subscribe(events.PricesTicked, func() { ticked++ })

	assert.NoError(t, feed.Tick())
	assert.NoError(t, feed.Tick())
	assert.Equal(t, 2, ticked)
}

func TestPrice_UnknownSymbol(t *testing.T) {
	feed, db, _ := setupTest(t)
	assert.NoError(t, db.Create(&models.Instrument{Symbol: "AAPL", Name: "Apple Inc.", Price: 100.00}).Error)

	price, ok, err := feed.Price("AAPL")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 100.00, price)

	_, ok, err = feed.Price("NOPE")
	assert.NoError(t, err)
	assert.False(t, ok)
}
