// Package money rounds monetary amounts for storage and display.
// Share quantities are deliberately never passed through here.
package money

import "github.com/shopspring/decimal"

// Round2 rounds a monetary amount to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
