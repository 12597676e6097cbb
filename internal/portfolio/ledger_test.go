package portfolio

import (
	"sync"
	"testing"

	"brokee-go/internal/models"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTest creates an isolated in-memory DB and a ledger on top of it.
func setupTest(t *testing.T) (*gorm.DB, *Ledger) {
	// Use a new, non-shared in-memory database for each test to ensure isolation.
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(&models.Position{})
	assert.NoError(t, err)

	return db, NewLedger(zap.NewNop(), db)
}

func TestApplyBuy_CreatesPosition(t *testing.T) {
	_, ledger := setupTest(t)

	pos, err := ledger.ApplyBuy("AAPL", "Apple Inc.", 2, 175.50)

	assert.NoError(t, err)
	assert.Equal(t, 2.0, pos.Quantity)
	assert.Equal(t, 175.50, pos.AvgPrice)
	assert.Equal(t, 351.00, pos.MarketValue)
}

func TestApplyBuy_MergesWithWeightedAverage(t *testing.T) {
	_, ledger := setupTest(t)

	_, err := ledger.ApplyBuy("AAPL", "Apple Inc.", 10, 100.00)
	assert.NoError(t, err)

	pos, err := ledger.ApplyBuy("AAPL", "Apple Inc.", 10, 110.00)
	assert.NoError(t, err)

	assert.Equal(t, 20.0, pos.Quantity)
	assert.Equal(t, 105.00, pos.AvgPrice)

	// Both derived P&L fields agree against the new basis.
	assert.Equal(t, 2200.00, pos.MarketValue) // 20 * 110
	assert.Equal(t, 100.00, pos.Profit)       // 2200 - 2100
	assert.InDelta(t, 4.76, pos.ProfitPercent, 0.001)
}

func TestApplySell_PartialKeepsCostBasis(t *testing.T) {
	_, ledger := setupTest(t)

	_, err := ledger.ApplyBuy("AAPL", "Apple Inc.", 10, 100.00)
	assert.NoError(t, err)

	result, err := ledger.ApplySell("AAPL", 4, 120.00)
	assert.NoError(t, err)
	assert.Equal(t, 80.00, result.Profit)
	assert.Equal(t, 20.00, result.ProfitPercent)
	assert.Equal(t, 100.00, result.AvgPrice)

	pos, err := ledger.Position("AAPL")
	assert.NoError(t, err)
	assert.Equal(t, 6.0, pos.Quantity)
	assert.Equal(t, 100.00, pos.AvgPrice) // basis of the remainder untouched
}

func TestApplySell_FullRemovesPosition(t *testing.T) {
	_, ledger := setupTest(t)

	_, err := ledger.ApplyBuy("AAPL", "Apple Inc.", 2, 175.50)
	assert.NoError(t, err)

	result, err := ledger.ApplySell("AAPL", 2, 180.00)
	assert.NoError(t, err)
	assert.Equal(t, 9.00, result.Profit)
	assert.Equal(t, 2.56, result.ProfitPercent)

	pos, err := ledger.Position("AAPL")
	assert.NoError(t, err)
	assert.Nil(t, pos)
}

func TestApplySell_RejectsOversell(t *testing.T) {
	_, ledger := setupTest(t)

	_, err := ledger.ApplyBuy("AAPL", "Apple Inc.", 1, 100.00)
	assert.NoError(t, err)

	_, err = ledger.ApplySell("AAPL", 2, 100.00)
	assert.Error(t, err)

	_, err = ledger.ApplySell("TSLA", 1, 100.00)
	assert.Error(t, err)
}

func TestRevalue_UpdatesOnlyDerivedFields(t *testing.T) {
	_, ledger := setupTest(t)

	_, err := ledger.ApplyBuy("AAPL", "Apple Inc.", 10, 100.00)
	assert.NoError(t, err)

	err = ledger.Revalue(map[string]float64{"AAPL": 110.00, "TSLA": 999.00})
	assert.NoError(t, err)

	pos, err := ledger.Position("AAPL")
	assert.NoError(t, err)
	assert.Equal(t, 10.0, pos.Quantity)
	assert.Equal(t, 100.00, pos.AvgPrice)
	assert.Equal(t, 110.00, pos.CurrentPrice)
	assert.Equal(t, 1100.00, pos.MarketValue)
	assert.Equal(t, 100.00, pos.Profit)
	assert.Equal(t, 10.00, pos.ProfitPercent)
}

func TestRevalue_ConcurrentTradesKeepQuantityAndBasis(t *testing.T) {
	db, ledger := setupTest(t)
	sqlDB, err := db.DB()
	assert.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // one shared in-memory DB across goroutines

	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
					assert.NoError(t, ledger.Revalue(map[string]float64{"AAPL": 110.00}))
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		_, err := ledger.ApplyBuy("AAPL", "Apple Inc.", 10, 100.00)
		assert.NoError(t, err)
		_, err = ledger.ApplySell("AAPL", 4, 110.00)
		assert.NoError(t, err)

		// No interleaved revaluation may resurrect sold shares or move
		// the cost basis.
		pos, err := ledger.Position("AAPL")
		assert.NoError(t, err)
		if assert.NotNil(t, pos) {
			assert.Equal(t, 6.0, pos.Quantity)
			assert.Equal(t, 100.00, pos.AvgPrice)
		}

		_, err = ledger.ApplySell("AAPL", 6, 110.00)
		assert.NoError(t, err)
	}

	close(done)
	wg.Wait()

	// The fully-sold position must stay gone.
	pos, err := ledger.Position("AAPL")
	assert.NoError(t, err)
	assert.Nil(t, pos)
}

func TestSummarize_WeightsByCostBasis(t *testing.T) {
	_, ledger := setupTest(t)

	_, err := ledger.ApplyBuy("AAPL", "Apple Inc.", 10, 100.00) // cost 1000
	assert.NoError(t, err)
	_, err = ledger.ApplyBuy("TSLA", "Tesla Inc.", 2, 250.00) // cost 500
	assert.NoError(t, err)

	err = ledger.Revalue(map[string]float64{"AAPL": 110.00, "TSLA": 225.00})
	assert.NoError(t, err)

	summary, err := ledger.Summarize()
	assert.NoError(t, err)
	assert.Equal(t, 1550.00, summary.TotalValue) // 1100 + 450
	assert.Equal(t, 1500.00, summary.TotalCost)
	assert.Equal(t, 50.00, summary.TotalProfit)
	assert.InDelta(t, 3.33, summary.TotalProfitPercent, 0.001)
}

func TestSummarize_EmptyPortfolioReportsZero(t *testing.T) {
	_, ledger := setupTest(t)

	summary, err := ledger.Summarize()
	assert.NoError(t, err)
	assert.Equal(t, 0.0, summary.TotalValue)
	assert.Equal(t, 0.0, summary.TotalProfitPercent)
}
