package screener

import (
	"testing"

	"github.com/shopspring/decimal"
	"wheelscreener/internal/tradier"
)

// putAt builds a put contract for ranking tests. midIV may be empty for
// contracts without greeks.
func putAt(strike, midIV string) tradier.Option {
	opt := tradier.Option{
		Strike:     decimal.RequireFromString(strike),
		OptionType: tradier.OptionTypePut,
	}
	if midIV != "" {
		opt.Greeks = &tradier.Greeks{MidIV: decimal.RequireFromString(midIV)}
	}
	return opt
}

func TestRankPuts_TargetStrikeHasZeroDistance(t *testing.T) {
	// Price 10 puts the band at [6, 8] with target 7.
	price := decimal.NewFromInt(10)
	puts := []tradier.Option{putAt("6", ""), putAt("7", ""), putAt("8", "")}

	got := rankPuts(puts, price)
	if len(got) != 3 {
		t.Fatalf("want 3 candidates, got %d: %+v", len(got), got)
	}
	if got[0].Contract.Strike.String() != "7" || !got[0].Distance.IsZero() {
		t.Fatalf("expected strike 7 first with zero distance, got %+v", got[0])
	}
	// 6 and 8 tie at distance 1; the stable sort keeps chain order.
	if got[1].Contract.Strike.String() != "6" || got[2].Contract.Strike.String() != "8" {
		t.Fatalf("unexpected tie order: %+v", got)
	}
	if got[1].Distance.String() != "1" || got[2].Distance.String() != "1" {
		t.Fatalf("unexpected tie distances: %+v", got)
	}
}

func TestRankPuts_OutOfBandAlwaysRanksBelowInBand(t *testing.T) {
	price := decimal.NewFromInt(10)
	// 5.95 sits just under the band and is nearer the target than nothing,
	// but the penalty must push it behind the in-band 6.05.
	puts := []tradier.Option{putAt("5.95", ""), putAt("6.05", "")}

	got := rankPuts(puts, price)
	if got[0].Contract.Strike.String() != "6.05" {
		t.Fatalf("expected in-band strike first, got %+v", got)
	}
	if got[1].Distance.LessThan(decimal.NewFromInt(1000)) {
		t.Fatalf("expected penalized distance >= 1000, got %s", got[1].Distance)
	}
}

func TestRankPuts_BandEndpointsCarryNoPenalty(t *testing.T) {
	price := decimal.NewFromInt(10)
	puts := []tradier.Option{putAt("6", ""), putAt("8", "")}

	got := rankPuts(puts, price)
	for _, candidate := range got {
		if candidate.Distance.String() != "1" {
			t.Fatalf("expected distance 1 at band endpoint, got %+v", candidate)
		}
	}
}

func TestRankPuts_KeepsAtMostThree(t *testing.T) {
	price := decimal.NewFromInt(10)
	puts := []tradier.Option{
		putAt("6.5", ""), putAt("7", ""), putAt("7.5", ""), putAt("8", ""), putAt("5", ""),
	}

	got := rankPuts(puts, price)
	if len(got) != 3 {
		t.Fatalf("want 3 candidates, got %d", len(got))
	}
	// Closest three: 7, then the 6.5/7.5 tie in chain order.
	if got[0].Contract.Strike.String() != "7" ||
		got[1].Contract.Strike.String() != "6.5" ||
		got[2].Contract.Strike.String() != "7.5" {
		t.Fatalf("unexpected top three: %+v", got)
	}
}
