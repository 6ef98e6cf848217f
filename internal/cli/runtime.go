package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/config"
	"github.com/SeamusWaldron/twisty/internal/logging"
	"github.com/SeamusWaldron/twisty/internal/metrics"
	"github.com/SeamusWaldron/twisty/internal/recorder"
	"github.com/SeamusWaldron/twisty/internal/storage"
)

// runtime bundles what every command needs: settings, a logger and the
// optional metrics collectors.
type runtime struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// loadRuntime loads config and applies the global flags on top of it.
func loadRuntime() (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if metricsAddr != "" {
		cfg.MetricsAddr = metricsAddr
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rt := &runtime{
		cfg:    cfg,
		logger: logging.New(cfg.Level()),
	}
	if cfg.MetricsAddr != "" {
		rt.metrics = metrics.New()
	}
	return rt, nil
}

// quiet swaps in a no-op logger so log lines don't tear the TUI.
func (rt *runtime) quiet() {
	rt.logger = logging.NewNop()
}

// serveMetrics starts the metrics server when an address is configured.
func (rt *runtime) serveMetrics(ctx context.Context) {
	if rt.metrics == nil {
		return
	}
	go func() {
		if err := rt.metrics.Serve(ctx, rt.cfg.MetricsAddr, rt.logger); err != nil {
			rt.logger.Error("metrics server stopped", "error", err)
		}
	}()
}

// newSequencer builds a solved assembly from the config and a sequencer
// driving it.
func (rt *runtime) newSequencer(speed float64, hooks ...twisty.Hooks) (*twisty.Sequencer, error) {
	a, err := rt.cfg.NewAssembly()
	if err != nil {
		return nil, err
	}
	return rt.sequencerFor(a, speed, hooks...), nil
}

// sequencerFor builds a sequencer on a, wiring in logging, metrics and any
// extra hooks. speed scales the configured move duration.
func (rt *runtime) sequencerFor(a *twisty.Assembly, speed float64, hooks ...twisty.Hooks) *twisty.Sequencer {
	opts := rt.cfg.SequencerOptions()
	if speed > 0 && speed != 1 {
		opts = append(opts, twisty.WithMoveDuration(time.Duration(float64(rt.cfg.MoveDuration)/speed)))
	}
	opts = append(opts, twisty.WithLogger(rt.logger))
	if rt.metrics != nil {
		opts = append(opts, twisty.WithHooks(rt.metrics.Hooks()))
	}
	for _, h := range hooks {
		opts = append(opts, twisty.WithHooks(h))
	}
	return twisty.NewSequencer(a, opts...)
}

// endSession closes a journal session, logging any failure.
func (rt *runtime) endSession(s *recorder.Session) {
	if err := s.End(); err != nil {
		rt.logger.Error("failed to end session", "session", s.SessionID(), "error", err)
	}
}

func (rt *runtime) openDB() (*storage.DB, error) {
	var db *storage.DB
	var err error

	if rt.cfg.DBPath == "" {
		db, err = storage.OpenDefault()
	} else {
		db, err = storage.Open(rt.cfg.DBPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	mins := int(d.Minutes())
	secs := d.Seconds() - float64(mins*60)
	return fmt.Sprintf("%dm%.1fs", mins, secs)
}
