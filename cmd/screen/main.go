package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"wheelscreener/internal/config"
	"wheelscreener/internal/httpx"
	"wheelscreener/internal/screener"
	"wheelscreener/internal/tradier"
)

type report struct {
	Success   bool              `json:"success"`
	Mode      string            `json:"mode"`
	Count     int               `json:"count"`
	Timestamp string            `json:"timestamp"`
	Data      []screener.Result `json:"data"`
}

func main() {
	var tickersCSV string
	var modeArg string
	var timeout int
	var pretty bool
	var configPath string

	flag.StringVar(&tickersCSV, "tickers", getenv("TICKERS", "SOFI,F,BAC,PFE,KO"), "comma-separated ticker symbols")
	flag.StringVar(&modeArg, "mode", getenv("MODE", "monthly"), `expiration mode: "weekly" or "monthly"`)
	flag.IntVar(&timeout, "timeout", getenvInt("REQUEST_TIMEOUT_SEC", 15), "request timeout seconds")
	flag.BoolVar(&pretty, "pretty", false, "indent the JSON output")
	flag.StringVar(&configPath, "config", getenv("WHEEL_CONFIG_FILE", ""), "path to config file (optional)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if timeout != 0 {
		cfg.Tradier.TimeoutSec = timeout
	}

	mode, err := screener.ParseMode(modeArg)
	if err != nil {
		log.Fatalf("mode: %v", err)
	}

	tickers := splitCSV(tickersCSV)
	if len(tickers) == 0 {
		log.Fatal("no tickers provided")
	}

	hx := httpx.New(cfg.Tradier.Timeout())

	client, err := tradier.NewClient(cfg.Tradier.APIKey,
		tradier.WithBaseURL(cfg.Tradier.BaseURL),
		tradier.WithHTTPClient(hx.HTTP),
		tradier.WithHeader(http.Header{"User-Agent": []string{hx.UserAgent}}),
	)
	if err != nil {
		log.Fatalf("tradier: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	core := screener.New(client)
	results := core.ScreenAll(ctx, tickers, mode)

	out := report{
		Success:   true,
		Mode:      string(mode),
		Count:     len(results),
		Timestamp: time.Now().Format(time.RFC3339),
		Data:      results,
	}

	var b []byte
	if pretty {
		b, err = json.MarshalIndent(out, "", "  ")
	} else {
		b, err = json.Marshal(out)
	}
	if err != nil {
		log.Fatalf("encoding report: %v", err)
	}
	fmt.Println(string(b))
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var x int
		_, _ = fmt.Sscanf(v, "%d", &x)
		if x != 0 {
			return x
		}
	}
	return def
}
