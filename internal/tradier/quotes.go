package tradier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

// ErrNoQuote is returned when the API responds without a usable quote object
// for the requested symbol.
var ErrNoQuote = errors.New("no quote data")

// Quote is the quote subset the screener reads for one symbol.
type Quote struct {
	Symbol      string
	Last        decimal.Decimal
	Volume      decimal.Decimal
	Description string
}

type quoteDTO struct {
	Symbol      string          `json:"symbol"`
	Description string          `json:"description"`
	Last        decimal.Decimal `json:"last"`
	Volume      decimal.Decimal `json:"volume"`
}

type quotesEnvelope struct {
	Quotes json.RawMessage `json:"quotes"`
}

// GetQuote retrieves the latest quote for a single symbol.
//
// Unknown symbols, or any response without the nested quotes.quote object,
// return ErrNoQuote. Numeric fields absent from the payload default to zero.
func (c *Client) GetQuote(ctx context.Context, symbol string) (Quote, error) {
	query := url.Values{}
	query.Set("symbols", symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL("/markets/quotes", query), http.NoBody)
	if err != nil {
		return Quote{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.do(req, "quotes")
	if err != nil {
		return Quote{}, err
	}
	defer res.Body.Close()

	if err := checkStatus(res); err != nil {
		return Quote{}, fmt.Errorf("quotes: %w", err)
	}

	var body quotesEnvelope
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return Quote{}, fmt.Errorf("decoding quotes response: %w", err)
	}

	// The API nests a single object under quotes.quote; for unknown symbols
	// the quotes value degenerates to a string. Anything but the object form
	// means there is no quote.
	var payload struct {
		Quote *quoteDTO `json:"quote"`
	}
	if len(body.Quotes) == 0 || json.Unmarshal(body.Quotes, &payload) != nil || payload.Quote == nil {
		return Quote{}, ErrNoQuote
	}

	quote := Quote{
		Symbol:      payload.Quote.Symbol,
		Last:        payload.Quote.Last,
		Volume:      payload.Quote.Volume,
		Description: payload.Quote.Description,
	}
	if quote.Symbol == "" {
		quote.Symbol = symbol
	}
	return quote, nil
}
