// Package metrics exposes sequencer activity as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SeamusWaldron/twisty"
)

// Metrics holds the sequencer collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	enqueued     prometheus.Counter
	completed    *prometheus.CounterVec
	faults       prometheus.Counter
	queueDepth   prometheus.Gauge
	moveDuration prometheus.Histogram
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		enqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "twisty_moves_enqueued_total",
			Help: "Moves accepted by the sequencer queue.",
		}),
		completed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "twisty_moves_completed_total",
			Help: "Moves that finished animating, by face.",
		}, []string{"face"}),
		faults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "twisty_sequencer_faults_total",
			Help: "Lattice invariant violations that halted the sequencer.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "twisty_queue_depth",
			Help: "Moves waiting behind the move in flight.",
		}),
		moveDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "twisty_move_duration_seconds",
			Help:    "Animated time from activation to reclaim.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 8),
		}),
	}
	m.registry.MustRegister(m.enqueued, m.completed, m.faults, m.queueDepth, m.moveDuration)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Hooks returns sequencer hooks that feed the collectors.
func (m *Metrics) Hooks() twisty.Hooks {
	return twisty.Hooks{
		OnEnqueue: func(_ twisty.Move, pending int) {
			m.enqueued.Inc()
			m.queueDepth.Set(float64(pending))
		},
		OnMoveStart: func(twisty.Move, []int) {
			m.queueDepth.Dec()
		},
		OnMoveComplete: func(mv twisty.Move, elapsed time.Duration) {
			m.completed.WithLabelValues(string(mv.Face)).Inc()
			m.moveDuration.Observe(elapsed.Seconds())
		},
		OnFault: func(error) {
			m.faults.Inc()
		},
	}
}

// Handler serves /metrics and /healthz.
func (m *Metrics) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return r
}

// Serve runs the metrics server on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("metrics server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
