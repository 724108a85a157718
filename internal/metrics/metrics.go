// Package metrics exposes Prometheus collectors for the screener service.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "wheelscreener"

// Screen outcome label values.
const (
	OutcomeOK         = "ok"
	OutcomeQuoteError = "quote_error"
	OutcomeIVNA       = "iv_na"
)

// Metrics is the collector set for the service.
type Metrics struct {
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	TradierRequestsTotal   *prometheus.CounterVec
	TradierRequestDuration *prometheus.HistogramVec
	ScreenedTickersTotal   *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests served",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
		TradierRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tradier_requests_total",
			Help:      "Total outbound Tradier API requests",
		}, []string{"endpoint", "status"}),
		TradierRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tradier_request_duration_seconds",
			Help:      "Outbound Tradier API request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		ScreenedTickersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "screened_tickers_total",
			Help:      "Screened tickers by outcome",
		}, []string{"outcome"}),
	}
}

// Register adds all collectors to the default registry.
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.TradierRequestsTotal,
		m.TradierRequestDuration,
		m.ScreenedTickersTotal,
	}
	for _, c := range collectors {
		if err := prometheus.DefaultRegisterer.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(path).Observe(d.Seconds())
}

// ObserveTradierRequest records one outbound provider call. status is the
// HTTP status code as a string, or "error" when the call never completed.
func (m *Metrics) ObserveTradierRequest(endpoint, status string, d time.Duration) {
	m.TradierRequestsTotal.WithLabelValues(endpoint, status).Inc()
	m.TradierRequestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// CountScreen records the outcome of one screened ticker.
func (m *Metrics) CountScreen(outcome string) {
	m.ScreenedTickersTotal.WithLabelValues(outcome).Inc()
}

// Serve runs the /metrics listener until ctx is canceled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
