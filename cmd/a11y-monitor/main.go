// Command a11y-monitor follows the interpreted event stream, counts
// distinct events by class and relays braille display analytics records
// into the configured analytics backend. Metrics are served on /metrics.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bruth/a11y"
	"github.com/bruth/a11y/analytics"
	"github.com/bruth/a11y/config"
	"github.com/bruth/a11y/logging"
	"github.com/bruth/a11y/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "a11y-monitor: %s\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer logger.Sync()

	nc, err := nats.Connect(cfg.NATSURL, nats.Name("a11y-monitor"))
	if err != nil {
		return fmt.Errorf("connect %s: %w", cfg.NATSURL, err)
	}
	defer nc.Drain()

	es, err := a11y.NewEventStore(nc, cfg.EventStream,
		a11y.RecordCodec(cfg.RecordCodec),
		a11y.Logger(logger))
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tracker := metrics.NewTracker(reg, cfg.DedupWindow)

	backend, err := analytics.Open(cfg.Analytics,
		analytics.WithLogger(logger),
		analytics.WithRegisterer(reg),
		analytics.WithConn(nc))
	if err != nil {
		return fmt.Errorf("open analytics backend: %w", err)
	}
	defer backend.Close()

	if relays(backend) {
		sub, err := relayAnalytics(nc, cfg.Analytics, backend, logger)
		if err != nil {
			return err
		}
		defer sub.Unsubscribe()
	} else {
		logger.Info("analytics backend publishes to NATS, relay disabled")
	}

	srv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           newRouter(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", zap.String("addr", cfg.MetricsAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	p := &poller{
		store:    es,
		tracker:  tracker,
		interval: cfg.PollInterval,
		logger:   logger,
	}
	return p.Run(ctx)
}

func newRouter(reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

// relays reports whether analytics records published on NATS are applied to
// backend. A NATS backend publishes on the relayed subject itself.
func relays(backend analytics.Backend) bool {
	_, ok := backend.(*analytics.NATS)
	return !ok
}

// relayAnalytics applies analytics records published on NATS to backend.
func relayAnalytics(nc *nats.Conn, cfg analytics.Config, backend analytics.BrailleDisplay, logger *zap.Logger) (*nats.Subscription, error) {
	records, err := analytics.NewRecordRegistry(cfg.Codec)
	if err != nil {
		return nil, err
	}

	return nc.Subscribe(cfg.Subject+".>", func(msg *nats.Msg) {
		v, err := analytics.Unpack(records, msg)
		if err != nil {
			logger.Warn("dropping analytics record", zap.String("subject", msg.Subject), zap.Error(err))
			return
		}
		if err := analytics.Apply(backend, v); err != nil {
			logger.Warn("dropping analytics record", zap.String("subject", msg.Subject), zap.Error(err))
		}
	})
}
