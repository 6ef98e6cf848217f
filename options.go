package twisty

import (
	"log/slog"
	"time"
)

// DefaultMoveDuration is the animation time of one move.
const DefaultMoveDuration = 50 * time.Millisecond

// Option configures Sequencer behavior.
type Option func(*config)

type config struct {
	duration    time.Duration
	easing      Easing
	moveHistory bool
	logger      *slog.Logger
	hooks       []Hooks
}

func defaultConfig() *config {
	return &config{
		duration:    DefaultMoveDuration,
		easing:      QuadInOut,
		moveHistory: true,
		logger:      slog.New(slog.DiscardHandler),
	}
}

// WithMoveDuration sets how long each move animates. Half turns take the
// same time as quarter turns. A zero duration completes each move on the
// next Update.
func WithMoveDuration(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.duration = d
		}
	}
}

// WithEasing sets the interpolation curve of the pivot angle.
func WithEasing(e Easing) Option {
	return func(c *config) {
		if e != nil {
			c.easing = e
		}
	}
}

// WithMoveHistory enables or disables the completed-move history.
// When enabled (default), completed moves are accessible via Completed().
// Disable this for long sessions to reduce memory usage.
func WithMoveHistory(enabled bool) Option {
	return func(c *config) {
		c.moveHistory = enabled
	}
}

// WithLogger sets the structured logger. Moves are logged at debug level
// and invariant violations at error level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHooks registers lifecycle observers. It may be given more than once.
func WithHooks(h Hooks) Option {
	return func(c *config) {
		c.hooks = append(c.hooks, h)
	}
}
