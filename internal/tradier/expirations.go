package tradier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// dateList accepts both a JSON list of dates and a bare date string. The API
// collapses single-element lists to a scalar.
type dateList []string

func (d *dateList) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*d = nil
		return nil
	}
	if trimmed[0] == '"' {
		var single string
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*d = dateList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return err
	}
	*d = dateList(list)
	return nil
}

type expirationsEnvelope struct {
	Expirations *struct {
		Date dateList `json:"date"`
	} `json:"expirations"`
}

// GetExpirations lists the option expiration dates for a symbol in the order
// the API returns them (ascending). Symbols without listed options yield an
// empty slice with no error.
func (c *Client) GetExpirations(ctx context.Context, symbol string) ([]string, error) {
	query := url.Values{}
	query.Set("symbol", symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpointURL("/markets/options/expirations", query), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.do(req, "expirations")
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if err := checkStatus(res); err != nil {
		return nil, fmt.Errorf("expirations: %w", err)
	}

	var body expirationsEnvelope
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding expirations response: %w", err)
	}
	if body.Expirations == nil {
		return nil, nil
	}
	return []string(body.Expirations.Date), nil
}
