// Package screener implements the wheel-strategy put screen: quote lookup,
// expiration window selection, put ranking around the target strike and IV
// averaging.
package screener

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"wheelscreener/internal/logging"
	"wheelscreener/internal/tradier"
)

// MarketData is the provider surface the screener consumes. *tradier.Client
// satisfies it.
type MarketData interface {
	GetQuote(ctx context.Context, symbol string) (tradier.Quote, error)
	GetExpirations(ctx context.Context, symbol string) ([]string, error)
	GetChain(ctx context.Context, symbol, expiration string) ([]tradier.Option, error)
}

// Screener runs the wheel screening pipeline against a market-data provider.
// It holds no mutable state; every screen is an independent pass over the
// provider.
type Screener struct {
	data MarketData
	now  func() time.Time
}

// Option is a configuration option for the Screener.
type Option func(*Screener)

// WithClock overrides the time source used for expiration windows.
func WithClock(now func() time.Time) Option {
	return func(s *Screener) {
		s.now = now
	}
}

// New creates a Screener backed by the given provider.
func New(data MarketData, options ...Option) *Screener {
	s := &Screener{
		data: data,
		now:  time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var millionDivisor = decimal.NewFromInt(1_000_000)

// ScreenTicker screens a single ticker. The ticker is upper-cased and
// trimmed for output. A failed quote lookup yields an error record without
// touching the options endpoints, since the strike band depends on the
// current price. A failed IV computation only downgrades the
// implied_volatility field.
func (s *Screener) ScreenTicker(ctx context.Context, ticker string, mode Mode) Result {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	logging.Info(ctx, "screening ticker", "ticker", symbol, "mode", string(mode))

	quote, err := s.data.GetQuote(ctx, symbol)
	if err != nil {
		logging.Warn(ctx, "quote fetch failed", "ticker", symbol, "error", err)
		return Result{Ticker: symbol, Err: quoteErrorMessage}
	}

	iv := s.impliedVolatility(ctx, symbol, quote.Last, mode)
	if iv.Unavailable {
		logging.Debug(ctx, "implied volatility unavailable", "ticker", symbol, "reason", string(iv.Reason))
	}

	return Result{
		Ticker:        symbol,
		Price:         quote.Last.Round(2),
		IV:            iv,
		Description:   quote.Description,
		VolumeMillion: quote.Volume.Div(millionDivisor).Round(2),
	}
}

// ScreenAll screens tickers sequentially, preserving input order. Tickers
// are not deduplicated, and one ticker's failure never stops the rest.
func (s *Screener) ScreenAll(ctx context.Context, tickers []string, mode Mode) []Result {
	results := make([]Result, 0, len(tickers))
	for _, ticker := range tickers {
		results = append(results, s.ScreenTicker(ctx, ticker, mode))
	}
	return results
}
