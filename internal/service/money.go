package service

import "github.com/shopspring/decimal"

var (
	dec100          = decimal.NewFromInt(100)
	tamperTolerance = decimal.NewFromFloat(0.01)
)

// toMinorUnits converts a major-unit amount (rupees) to the smallest
// currency unit (paise), rounding to the nearest integer.
func toMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(dec100).Round(0).IntPart()
}

// amountsDiverge reports whether two major-unit amounts differ beyond the
// 0.01 tolerance.
func amountsDiverge(a, b float64) bool {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Abs().GreaterThan(tamperTolerance)
}
