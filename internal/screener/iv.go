package screener

import "github.com/shopspring/decimal"

// Sanity band for mid IV values. Anything outside 5% to 200% is treated as
// bad provider data and dropped before averaging.
var (
	ivSanityFloor = decimal.RequireFromString("0.05")
	ivSanityCeil  = decimal.RequireFromString("2.00")
)

var oneHundred = decimal.NewFromInt(100)

// averageMidIV averages the usable mid IVs of the ranked puts and reports
// the result as a percentage rounded to two places. ok is false when no
// candidate carries a usable IV.
func averageMidIV(candidates []PutCandidate) (percent decimal.Decimal, ok bool) {
	sum := decimal.Zero
	count := 0
	for _, candidate := range candidates {
		greeks := candidate.Contract.Greeks
		if greeks == nil {
			continue
		}
		if greeks.MidIV.LessThan(ivSanityFloor) || greeks.MidIV.GreaterThan(ivSanityCeil) {
			continue
		}
		sum = sum.Add(greeks.MidIV)
		count++
	}
	if count == 0 {
		return decimal.Decimal{}, false
	}
	mean := sum.Div(decimal.NewFromInt(int64(count)))
	return mean.Mul(oneHundred).Round(2), true
}
