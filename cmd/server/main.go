package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"wheelscreener/internal/config"
	"wheelscreener/internal/httpx"
	"wheelscreener/internal/logging"
	"wheelscreener/internal/metrics"
	"wheelscreener/internal/screener"
	"wheelscreener/internal/server"
	"wheelscreener/internal/tradier"
)

func main() {
	cfgPath := flag.String("config", os.Getenv("WHEEL_CONFIG_FILE"), "path to config file")
	flag.Parse()

	// A .env next to the binary is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if err := logging.Init(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}

	m := metrics.New()
	if err := m.Register(); err != nil {
		fmt.Fprintf(os.Stderr, "metrics: %v\n", err)
		os.Exit(1)
	}

	hx := httpx.New(cfg.Tradier.Timeout())

	client, err := tradier.NewClient(cfg.Tradier.APIKey,
		tradier.WithBaseURL(cfg.Tradier.BaseURL),
		tradier.WithHTTPClient(hx.HTTP),
		tradier.WithHeader(http.Header{"User-Agent": []string{hx.UserAgent}}),
		tradier.WithObserver(m.ObserveTradierRequest),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tradier: %v\n", err)
		os.Exit(1)
	}

	core := screener.New(client)
	handler := server.NewHandler(core, m)

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(handler, m)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info(ctx, "wheel screener starting",
		"addr", cfg.Server.Addr,
		"metrics_addr", cfg.Server.MetricsAddr,
		"tradier_base_url", cfg.Tradier.BaseURL,
		"tradier_key", cfg.Tradier.MaskedKey(),
	)

	api := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return metrics.Serve(ctx, cfg.Server.MetricsAddr)
	})

	g.Go(func() error {
		<-ctx.Done()
		logging.Info(context.Background(), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return api.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logging.Error(context.Background(), "server exited", "error", err)
		os.Exit(1)
	}
	logging.Info(context.Background(), "stopped")
}
