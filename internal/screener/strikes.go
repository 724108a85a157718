package screener

import (
	"sort"

	"github.com/shopspring/decimal"
	"wheelscreener/internal/tradier"
)

// Target strike band for cash-secured puts, as fractions of the share price.
// The 0.60x to 0.80x range is the usual proxy for 20 to 40 delta puts.
var (
	bandLowerRatio  = decimal.RequireFromString("0.60")
	bandUpperRatio  = decimal.RequireFromString("0.80")
	bandTargetRatio = decimal.RequireFromString("0.70")
)

// outOfBandPenalty is added to the distance of strikes outside the band so
// any in-band strike always outranks any out-of-band one.
var outOfBandPenalty = decimal.NewFromInt(1000)

// maxRankedPuts caps how many puts feed the IV average.
const maxRankedPuts = 3

// PutCandidate pairs a put contract with its ranking distance from the
// target strike.
type PutCandidate struct {
	Contract tradier.Option
	Distance decimal.Decimal
}

// rankPuts orders puts by distance from the 0.70x target strike, closest
// first, and keeps at most three. The sort is stable, so ties preserve
// chain order.
func rankPuts(puts []tradier.Option, price decimal.Decimal) []PutCandidate {
	lower := price.Mul(bandLowerRatio)
	upper := price.Mul(bandUpperRatio)
	target := price.Mul(bandTargetRatio)

	candidates := make([]PutCandidate, 0, len(puts))
	for _, put := range puts {
		distance := put.Strike.Sub(target).Abs()
		if put.Strike.LessThan(lower) || put.Strike.GreaterThan(upper) {
			distance = distance.Add(outOfBandPenalty)
		}
		candidates = append(candidates, PutCandidate{Contract: put, Distance: distance})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Distance.LessThan(candidates[j].Distance)
	})
	if len(candidates) > maxRankedPuts {
		candidates = candidates[:maxRankedPuts]
	}
	return candidates
}
