package twisty

import (
	"fmt"
	"log/slog"
	"time"
)

// State is the sequencer's animation state.
type State int

const (
	// StateIdle means no move is animating.
	StateIdle State = iota
	// StateAnimating means exactly one move is driving the pivot.
	StateAnimating
	// StateFaulted means a slice selection violated the lattice invariant.
	// The sequencer refuses further work.
	StateFaulted
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAnimating:
		return "animating"
	case StateFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// Hooks observe sequencer transitions. Every field is optional. Hooks run
// on the goroutine that calls Enqueue or Update, and OnMoveComplete and
// OnIdle may call Enqueue.
type Hooks struct {
	OnEnqueue      func(m Move, pending int)
	OnMoveStart    func(m Move, pieces []int)
	OnMoveComplete func(m Move, elapsed time.Duration)
	OnIdle         func()
	OnFault        func(err error)
}

// activation is the transient record of the move in flight.
type activation struct {
	move     Move
	def      Definition
	members  []int
	target   float64
	elapsed  time.Duration
	duration time.Duration
}

// Sequencer turns queued moves into pivot animations on an Assembly, one
// move at a time in FIFO order.
//
// The sequencer is not safe for concurrent use. Enqueue and Update must be
// called from the goroutine that drives the frame loop; asynchronous
// producers post through an Inbox instead.
type Sequencer struct {
	assembly *Assembly
	config   *config
	logger   *slog.Logger

	queue     []Move
	active    *activation
	err       error
	completed []Move
}

// NewSequencer creates a sequencer driving the given assembly.
func NewSequencer(a *Assembly, opts ...Option) *Sequencer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Sequencer{
		assembly: a,
		config:   cfg,
		logger:   cfg.logger,
	}
}

// Assembly returns the assembly the sequencer drives.
func (s *Sequencer) Assembly() *Assembly {
	return s.assembly
}

// State returns the current state.
func (s *Sequencer) State() State {
	switch {
	case s.err != nil:
		return StateFaulted
	case s.active != nil:
		return StateAnimating
	default:
		return StateIdle
	}
}

// Err returns the fault that halted the sequencer, if any.
func (s *Sequencer) Err() error {
	return s.err
}

// Pending returns the number of queued moves not yet started.
func (s *Sequencer) Pending() int {
	return len(s.queue)
}

// Queue returns a copy of the queued moves not yet started.
func (s *Sequencer) Queue() []Move {
	out := make([]Move, len(s.queue))
	copy(out, s.queue)
	return out
}

// Active returns the move in flight.
func (s *Sequencer) Active() (Move, bool) {
	if s.active == nil {
		return Move{}, false
	}
	return s.active.move, true
}

// Progress returns the linear progress of the move in flight in [0,1].
func (s *Sequencer) Progress() float64 {
	if s.active == nil {
		return 0
	}
	if s.active.duration <= 0 {
		return 1
	}
	p := float64(s.active.elapsed) / float64(s.active.duration)
	if p > 1 {
		p = 1
	}
	return p
}

// Completed returns the moves that finished animating, oldest first.
// It is empty when move history is disabled.
func (s *Sequencer) Completed() []Move {
	out := make([]Move, len(s.completed))
	copy(out, s.completed)
	return out
}

// Enqueue appends moves to the queue. If the sequencer is idle the first
// queued move starts immediately.
func (s *Sequencer) Enqueue(moves ...Move) error {
	if s.err != nil {
		return s.err
	}

	for _, m := range moves {
		s.queue = append(s.queue, m)
		s.logger.Debug("move enqueued", "move", m.Notation(), "pending", len(s.queue))
		for _, h := range s.config.hooks {
			if h.OnEnqueue != nil {
				h.OnEnqueue(m, len(s.queue))
			}
		}
	}

	if s.active == nil {
		return s.startNext()
	}
	return nil
}

// Update advances the move in flight by dt. It is meant to be called once
// per rendered frame. When the move completes its pieces are reclaimed and
// the next queued move starts in the same call.
func (s *Sequencer) Update(dt time.Duration) error {
	if s.err != nil {
		return s.err
	}
	if s.active == nil {
		return nil
	}

	act := s.active
	act.elapsed += dt
	if act.elapsed < act.duration {
		t := float64(act.elapsed) / float64(act.duration)
		s.assembly.SetPivotAngle(act.target * s.config.easing(t))
		return nil
	}

	s.finish(act)
	return s.startNext()
}

// Drain calls Update with a fixed frame interval until the queue is empty
// and no move is in flight.
func (s *Sequencer) Drain(frame time.Duration) error {
	if frame <= 0 {
		return ErrInvalidFrame
	}
	for s.State() == StateAnimating {
		if err := s.Update(frame); err != nil {
			return err
		}
	}
	return s.err
}

// startNext dequeues the head and puts it in flight. With an empty queue
// the sequencer goes idle. It does nothing while a move is in flight.
func (s *Sequencer) startNext() error {
	// A completion hook may already have started the next move.
	if s.active != nil || len(s.queue) == 0 {
		return nil
	}

	m := s.queue[0]
	s.queue = s.queue[1:]

	def := MustLookup(m.Face)
	members, err := s.assembly.SelectLayers(def.Axis, def.Layers)
	if err == nil {
		err = s.assembly.Release(def.Axis, members)
	}
	if err != nil {
		return s.fault(fmt.Errorf("move %s: %w", m.Notation(), err))
	}

	s.active = &activation{
		move:     m,
		def:      def,
		members:  members,
		target:   def.TurnAngle(m),
		duration: s.config.duration,
	}

	s.logger.Debug("move started",
		"move", m.Notation(),
		"axis", def.Axis.String(),
		"pieces", len(members),
		"pending", len(s.queue),
	)
	for _, h := range s.config.hooks {
		if h.OnMoveStart != nil {
			h.OnMoveStart(m, members)
		}
	}
	return nil
}

// finish lands the pivot on its exact target and returns the pieces to the
// assembly.
func (s *Sequencer) finish(act *activation) {
	s.assembly.SetPivotAngle(act.target)
	s.assembly.Reclaim()
	s.active = nil

	if s.config.moveHistory {
		s.completed = append(s.completed, act.move)
	}

	s.logger.Debug("move completed", "move", act.move.Notation(), "elapsed", act.elapsed)
	for _, h := range s.config.hooks {
		if h.OnMoveComplete != nil {
			h.OnMoveComplete(act.move, act.elapsed)
		}
	}
	if s.active == nil && len(s.queue) == 0 {
		for _, h := range s.config.hooks {
			if h.OnIdle != nil {
				h.OnIdle()
			}
		}
	}
}

func (s *Sequencer) fault(err error) error {
	s.err = fmt.Errorf("%w: %w", ErrFaulted, err)
	s.logger.Error("sequencer halted", "error", err)
	for _, h := range s.config.hooks {
		if h.OnFault != nil {
			h.OnFault(s.err)
		}
	}
	return s.err
}
