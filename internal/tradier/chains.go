package tradier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

// Option type values as they appear on the wire.
const (
	OptionTypeCall = "call"
	OptionTypePut  = "put"
)

// Greeks carries the subset of the per-contract greeks block the screener
// consumes. Contracts without greeks data omit the block entirely.
type Greeks struct {
	MidIV decimal.Decimal `json:"mid_iv"`
}

// Option is a single contract from an option chain.
type Option struct {
	Symbol     string          `json:"symbol"`
	Strike     decimal.Decimal `json:"strike"`
	OptionType string          `json:"option_type"`
	Greeks     *Greeks         `json:"greeks"`
}

// optionList accepts both a JSON list of contracts and a bare object. The API
// collapses single-element lists to a scalar.
type optionList []Option

func (o *optionList) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*o = nil
		return nil
	}
	if trimmed[0] == '{' {
		var single Option
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*o = optionList{single}
		return nil
	}
	var list []Option
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return err
	}
	*o = optionList(list)
	return nil
}

type chainEnvelope struct {
	Options *struct {
		Option optionList `json:"option"`
	} `json:"options"`
}

// GetChain fetches the full option chain for a symbol at one expiration date,
// greeks included. Expirations with no listed contracts yield an empty slice
// with no error.
func (c *Client) GetChain(ctx context.Context, symbol, expiration string) ([]Option, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("expiration", expiration)
	query.Set("greeks", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL("/markets/options/chains", query), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.do(req, "chains")
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if err := checkStatus(res); err != nil {
		return nil, fmt.Errorf("chains: %w", err)
	}

	var body chainEnvelope
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding chains response: %w", err)
	}
	if body.Options == nil {
		return nil, nil
	}
	return []Option(body.Options.Option), nil
}
