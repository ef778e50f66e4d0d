package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Metrics exposes counters and gauges for the decision pipeline
type Metrics struct {
	TokensDiscovered prometheus.Counter
	TokensReady      prometheus.Counter
	TokensExpired    prometheus.Counter
	TradesObserved   prometheus.Counter

	BuysTotal  *prometheus.CounterVec
	SellsTotal *prometheus.CounterVec
	ExitsTotal *prometheus.CounterVec

	OpenPositions prometheus.Gauge
	WatchedTokens prometheus.Gauge

	TradeDuration prometheus.Histogram

	registry *prometheus.Registry
	server   *http.Server
	logger   *logrus.Logger
}

// New creates and registers all pipeline metrics
func New(logger *logrus.Logger) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		TokensDiscovered: factory.NewCounter(prometheus.CounterOpts{
			Name: "sniper_tokens_discovered_total",
			Help: "New token launches seen on the stream",
		}),
		TokensReady: factory.NewCounter(prometheus.CounterOpts{
			Name: "sniper_tokens_ready_total",
			Help: "Tokens that passed the momentum gate",
		}),
		TokensExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "sniper_tokens_expired_total",
			Help: "Tokens whose observation window elapsed without readiness",
		}),
		TradesObserved: factory.NewCounter(prometheus.CounterOpts{
			Name: "sniper_trades_observed_total",
			Help: "Trade events consumed from the stream",
		}),
		BuysTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sniper_buys_total",
			Help: "Buy attempts by status",
		}, []string{"status"}),
		SellsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sniper_sells_total",
			Help: "Sell attempts by status",
		}, []string{"status"}),
		ExitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sniper_exits_total",
			Help: "Exit signals by reason",
		}, []string{"reason"}),
		OpenPositions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sniper_open_positions",
			Help: "Currently held positions",
		}),
		WatchedTokens: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sniper_watched_tokens",
			Help: "Tokens under momentum observation",
		}),
		TradeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sniper_trade_duration_seconds",
			Help:    "Wall time of trade submission and confirmation",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		registry: registry,
		logger:   logger,
	}
}

// Serve starts the /metrics HTTP endpoint on the given port
func (m *Metrics) Serve(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	m.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		m.logger.WithField("port", port).Info("📊 Metrics server listening")
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.WithError(err).Error("❌ Metrics server failed")
		}
	}()
}

// Shutdown stops the metrics endpoint
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return m.server.Shutdown(shutdownCtx)
}
