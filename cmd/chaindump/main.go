// Command chaindump fetches the raw Tradier payloads for one symbol and
// prints them untouched. It exists for inspecting what the API actually
// returns when a screen result looks off.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"wheelscreener/internal/config"
	"wheelscreener/internal/httpx"
)

type dump struct {
	Symbol      string          `json:"symbol"`
	Quotes      json.RawMessage `json:"quotes"`
	Expirations json.RawMessage `json:"expirations"`
	Chain       json.RawMessage `json:"chain,omitempty"`
}

func main() {
	var symbol string
	var expiration string
	var timeout int
	var configPath string

	flag.StringVar(&symbol, "symbol", "", "ticker symbol to dump (required)")
	flag.StringVar(&expiration, "expiration", "", "expiration date YYYY-MM-DD; when set, the chain is dumped too")
	flag.IntVar(&timeout, "timeout", 20, "HTTP timeout seconds")
	flag.StringVar(&configPath, "config", os.Getenv("WHEEL_CONFIG_FILE"), "path to config file (optional)")
	flag.Parse()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	hx := httpx.New(time.Duration(timeout) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	out := dump{Symbol: symbol}

	out.Quotes, err = fetch(ctx, hx, cfg.Tradier, "/markets/quotes", url.Values{"symbols": {symbol}})
	if err != nil {
		log.Fatalf("quotes: %v", err)
	}

	out.Expirations, err = fetch(ctx, hx, cfg.Tradier, "/markets/options/expirations", url.Values{"symbol": {symbol}})
	if err != nil {
		log.Fatalf("expirations: %v", err)
	}

	if expiration != "" {
		out.Chain, err = fetch(ctx, hx, cfg.Tradier, "/markets/options/chains", url.Values{
			"symbol":     {symbol},
			"expiration": {expiration},
			"greeks":     {"true"},
		})
		if err != nil {
			log.Fatalf("chain: %v", err)
		}
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("encoding dump: %v", err)
	}
	fmt.Println(string(b))
}

func fetch(ctx context.Context, hx *httpx.Client, cfg config.Tradier, path string, query url.Values) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.BaseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := hx.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("response is not valid JSON")
	}
	return body, nil
}
