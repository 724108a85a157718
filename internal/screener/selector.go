package screener

import (
	"context"

	"github.com/shopspring/decimal"
	"wheelscreener/internal/logging"
	"wheelscreener/internal/tradier"
)

// UnavailableReason explains why no IV could be computed for a ticker.
type UnavailableReason string

const (
	ReasonNone          UnavailableReason = ""
	ReasonNoExpirations UnavailableReason = "no_expirations"
	ReasonNoChain       UnavailableReason = "no_chain"
	ReasonNoPuts        UnavailableReason = "no_puts"
	ReasonNoUsableIV    UnavailableReason = "no_usable_iv"
	ReasonProviderError UnavailableReason = "provider_error"
)

// IVResult is the outcome of the expiration and chain selection pipeline for
// one ticker. Unavailable results carry a reason instead of a percentage;
// provider degradation never surfaces as an error.
type IVResult struct {
	Percent     decimal.Decimal
	Expiration  ExpirationPick
	Unavailable bool
	Reason      UnavailableReason
}

func unavailable(reason UnavailableReason, pick ExpirationPick) IVResult {
	return IVResult{Expiration: pick, Unavailable: true, Reason: reason}
}

// impliedVolatility walks expirations, window selection, chain retrieval,
// put ranking and IV averaging for one ticker at a known share price.
func (s *Screener) impliedVolatility(ctx context.Context, symbol string, price decimal.Decimal, mode Mode) IVResult {
	dates, err := s.data.GetExpirations(ctx, symbol)
	if err != nil {
		logging.Warn(ctx, "expirations fetch failed", "symbol", symbol, "error", err)
		return unavailable(ReasonProviderError, ExpirationPick{})
	}

	pick, err := SelectExpiration(dates, mode, s.now())
	if err != nil {
		return unavailable(ReasonNoExpirations, ExpirationPick{})
	}
	if pick.Source == PickFallback {
		logging.Debug(ctx, "no expiration in window, using nearest", "symbol", symbol, "expiration", pick.Date)
	}

	chain, err := s.data.GetChain(ctx, symbol, pick.Date)
	if err != nil {
		logging.Warn(ctx, "chain fetch failed", "symbol", symbol, "expiration", pick.Date, "error", err)
		return unavailable(ReasonProviderError, pick)
	}
	if len(chain) == 0 {
		return unavailable(ReasonNoChain, pick)
	}

	puts := make([]tradier.Option, 0, len(chain))
	for _, contract := range chain {
		if contract.OptionType == tradier.OptionTypePut {
			puts = append(puts, contract)
		}
	}
	if len(puts) == 0 {
		return unavailable(ReasonNoPuts, pick)
	}

	percent, ok := averageMidIV(rankPuts(puts, price))
	if !ok {
		return unavailable(ReasonNoUsableIV, pick)
	}
	return IVResult{Percent: percent, Expiration: pick}
}
