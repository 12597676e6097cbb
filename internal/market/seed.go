package market

import "brokee-go/internal/models"

// seedInstruments is the fixed instrument catalog with its boot-time prices.
// A restart always brings the market back to exactly this state.
var seedInstruments = []models.Instrument{
	{Symbol: "AAPL", Name: "Apple Inc.", Category: "Tech", Price: 175.50, Change: 2.30, ChangePercent: 1.33, Volume: 45234567},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Category: "Tech", Price: 142.80, Change: -1.20, ChangePercent: -0.83, Volume: 23456789},
	{Symbol: "MSFT", Name: "Microsoft Corp.", Category: "Tech", Price: 378.90, Change: 5.40, ChangePercent: 1.45, Volume: 34567890},
	{Symbol: "TSLA", Name: "Tesla Inc.", Category: "Auto", Price: 248.50, Change: -3.20, ChangePercent: -1.27, Volume: 56789012},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Category: "Retail", Price: 145.30, Change: 1.80, ChangePercent: 1.25, Volume: 45678901},
	{Symbol: "META", Name: "Meta Platforms", Category: "Tech", Price: 312.40, Change: 4.60, ChangePercent: 1.50, Volume: 34567890},
	{Symbol: "NVDA", Name: "NVIDIA Corp.", Category: "Tech", Price: 485.20, Change: 12.30, ChangePercent: 2.60, Volume: 67890123},
	{Symbol: "JPM", Name: "JPMorgan Chase", Category: "Finance", Price: 158.70, Change: -0.90, ChangePercent: -0.56, Volume: 23456789},
}
