// Package server exposes the screener over HTTP: the gin router, its
// middleware chain and the wheel-screener and health handlers.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"wheelscreener/internal/logging"
	"wheelscreener/internal/metrics"
	"wheelscreener/internal/screener"
)

// Validation errors, worded exactly as clients expect them.
const (
	errInvalidMode    = `Invalid mode. Must be "weekly" or "monthly"`
	errMissingTickers = `Request must include "tickers" list in JSON body`
	errTickersNotList = `"tickers" must be a list`
	errEmptyTickers   = "Tickers list cannot be empty"
)

// defaultTickers is the watchlist screened when a GET request names none.
var defaultTickers = []string{"SOFI", "F", "BAC", "PFE", "KO"}

// Screener is the screening surface the HTTP layer invokes.
type Screener interface {
	ScreenAll(ctx context.Context, tickers []string, mode screener.Mode) []screener.Result
}

// Handler serves the wheel-screener API.
type Handler struct {
	screener Screener
	metrics  *metrics.Metrics
	now      func() time.Time
}

// NewHandler creates the API handler. metrics may be nil.
func NewHandler(s Screener, m *metrics.Metrics) *Handler {
	return &Handler{
		screener: s,
		metrics:  m,
		now:      time.Now,
	}
}

// RegisterRoutes binds the API routes onto the engine.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/wheel-screener", h.WheelScreener)
		api.POST("/wheel-screener", h.WheelScreener)
		api.GET("/health", h.Health)
	}
}

// WheelScreener handles GET and POST /api/wheel-screener. Mode comes from
// the query string for both methods; a POST body mode overrides it. GET
// names tickers in a comma-separated parameter, POST in a JSON list.
func (h *Handler) WheelScreener(c *gin.Context) {
	mode, ok := h.queryMode(c)
	if !ok {
		return
	}

	raw, mode, ok := h.requestTickers(c, mode)
	if !ok {
		return
	}
	if len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errEmptyTickers})
		return
	}

	// Non-string entries vanish from the output entirely, so the reported
	// count may be smaller than the submitted list.
	tickers := keepStrings(raw)

	ctx := c.Request.Context()
	start := time.Now()
	logging.Info(ctx, "screening batch started", "mode", string(mode), "tickers", len(tickers))

	results := h.screener.ScreenAll(ctx, tickers, mode)
	for _, result := range results {
		h.countOutcome(result)
	}

	logging.Info(ctx, "screening batch finished",
		"mode", string(mode),
		"count", len(results),
		"duration", time.Since(start).String(),
	)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"mode":      string(mode),
		"count":     len(results),
		"timestamp": h.now().Format(time.RFC3339),
		"data":      results,
	})
}

// Health reports liveness and the upstream data source.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"service":     "Wheel Options Screener API",
		"data_source": "Tradier",
		"timestamp":   h.now().Format(time.RFC3339),
	})
}

// queryMode validates the mode query parameter, defaulting to monthly.
func (h *Handler) queryMode(c *gin.Context) (screener.Mode, bool) {
	mode, err := screener.ParseMode(c.DefaultQuery("mode", string(screener.ModeMonthly)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidMode})
		return "", false
	}
	return mode, true
}

// requestTickers produces the raw ticker list for either method. The list
// stays []any so the shared empty check runs before non-string filtering.
func (h *Handler) requestTickers(c *gin.Context, queryMode screener.Mode) ([]any, screener.Mode, bool) {
	if c.Request.Method == http.MethodPost {
		return h.postTickers(c, queryMode)
	}
	return queryTickerList(c), queryMode, true
}

// postTickers decodes the POST body: tickers must be present and a list,
// and a body mode, when present, must be a valid mode string.
func (h *Handler) postTickers(c *gin.Context, queryMode screener.Mode) ([]any, screener.Mode, bool) {
	var body struct {
		Tickers json.RawMessage `json:"tickers"`
		Mode    json.RawMessage `json:"mode"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || len(body.Tickers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMissingTickers})
		return nil, "", false
	}

	var tickersValue any
	_ = json.Unmarshal(body.Tickers, &tickersValue)
	list, ok := tickersValue.([]any)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": errTickersNotList})
		return nil, "", false
	}

	mode := queryMode
	if len(body.Mode) > 0 {
		var modeValue any
		_ = json.Unmarshal(body.Mode, &modeValue)
		raw, ok := modeValue.(string)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidMode})
			return nil, "", false
		}
		parsed, err := screener.ParseMode(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidMode})
			return nil, "", false
		}
		mode = parsed
	}

	return list, mode, true
}

// queryTickerList reads the GET tickers parameter. Blank selects the default
// watchlist; otherwise entries are comma-split and trimmed. Empty entries
// survive the split and later fail at quote fetch.
func queryTickerList(c *gin.Context) []any {
	param := c.Query("tickers")
	if strings.TrimSpace(param) == "" {
		list := make([]any, len(defaultTickers))
		for i, ticker := range defaultTickers {
			list[i] = ticker
		}
		return list
	}

	parts := strings.Split(param, ",")
	list := make([]any, len(parts))
	for i, part := range parts {
		list[i] = strings.TrimSpace(part)
	}
	return list
}

// keepStrings drops non-string entries from a decoded ticker list.
func keepStrings(raw []any) []string {
	tickers := make([]string, 0, len(raw))
	for _, entry := range raw {
		if ticker, ok := entry.(string); ok {
			tickers = append(tickers, ticker)
		}
	}
	return tickers
}

func (h *Handler) countOutcome(result screener.Result) {
	if h.metrics == nil {
		return
	}
	switch {
	case result.Failed():
		h.metrics.CountScreen(metrics.OutcomeQuoteError)
	case result.IV.Unavailable:
		h.metrics.CountScreen(metrics.OutcomeIVNA)
	default:
		h.metrics.CountScreen(metrics.OutcomeOK)
	}
}
