package screener

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// quoteErrorMessage is the per-ticker error recorded when the quote lookup
// fails. Clients match on it verbatim.
const quoteErrorMessage = "Unable to fetch quote data"

// ivUnavailable is the sentinel rendered when no IV could be computed.
const ivUnavailable = "N/A"

// Result is the screening outcome for one ticker. Err and the remaining
// fields are mutually exclusive: a failed ticker serializes as
// {ticker, error} and nothing else.
type Result struct {
	Ticker        string
	Price         decimal.Decimal
	IV            IVResult
	Description   string
	VolumeMillion decimal.Decimal
	Err           string
}

// Failed reports whether this is an error record.
func (r Result) Failed() bool { return r.Err != "" }

// MarshalJSON renders either the error shape or the success shape. Numeric
// fields are JSON numbers; implied_volatility is a number or the "N/A"
// sentinel.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(struct {
			Ticker string `json:"ticker"`
			Error  string `json:"error"`
		}{Ticker: r.Ticker, Error: r.Err})
	}

	var iv any = ivUnavailable
	if !r.IV.Unavailable {
		iv = r.IV.Percent.InexactFloat64()
	}
	return json.Marshal(struct {
		Ticker      string  `json:"ticker"`
		Price       float64 `json:"price"`
		IV          any     `json:"implied_volatility"`
		Description string  `json:"description"`
		Volume      float64 `json:"volume"`
	}{
		Ticker:      r.Ticker,
		Price:       r.Price.InexactFloat64(),
		IV:          iv,
		Description: r.Description,
		Volume:      r.VolumeMillion.InexactFloat64(),
	})
}
