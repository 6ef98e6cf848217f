// Package recorder journals sequencer sessions to the move database.
package recorder

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/storage"
)

// Errors
var (
	ErrAlreadyRecording = errors.New("recorder: session already in progress")
	ErrNotRecording     = errors.New("recorder: no session in progress")
	ErrSessionEnded     = errors.New("recorder: session already ended")
	ErrSessionNotFound  = errors.New("recorder: session not found")
)

// SessionState represents the current state of a recording session.
type SessionState int

const (
	StateIdle SessionState = iota
	StateRecording
	StateEnded
)

// String returns the string representation of the session state.
func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Session journals completed moves and orientation changes for one run.
// It is safe for concurrent use: moves arrive from the frame loop and
// orientations from the device goroutine.
type Session struct {
	logger *slog.Logger

	mu        sync.RWMutex
	state     SessionState
	sessionID string
	startTime time.Time
	moveIndex int

	// Current orientation state (tracked to detect changes)
	lastUpFace    twisty.Face
	lastFrontFace twisty.Face

	// Repositories
	sessionRepo     *storage.SessionRepository
	moveRepo        *storage.MoveRepository
	orientationRepo *storage.OrientationRepository
}

// NewSession creates a new session journal.
func NewSession(db *storage.DB, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		logger:          logger,
		state:           StateIdle,
		sessionRepo:     storage.NewSessionRepository(db),
		moveRepo:        storage.NewMoveRepository(db),
		orientationRepo: storage.NewOrientationRepository(db),
	}
}

// State returns the current session state.
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SessionID returns the current session ID.
func (s *Session) SessionID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionID
}

// MoveCount returns the number of moves journaled.
func (s *Session) MoveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moveIndex
}

// Start opens a new session.
func (s *Session) Start(source, scramble, deviceName, appVersion string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return "", ErrAlreadyRecording
	}

	id, err := s.sessionRepo.Create(source, scramble, deviceName, appVersion)
	if err != nil {
		return "", fmt.Errorf("failed to start session: %w", err)
	}

	s.sessionID = id
	s.startTime = time.Now()
	s.moveIndex = 0
	s.lastUpFace = ""
	s.lastFrontFace = ""
	s.state = StateRecording

	s.logger.Info("session started", "session", id, "source", source)
	return id, nil
}

// End closes the current session.
func (s *Session) End() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ErrNotRecording
	}

	if err := s.sessionRepo.End(s.sessionID); err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	s.state = StateEnded
	s.logger.Info("session ended", "session", s.sessionID, "moves", s.moveIndex)
	return nil
}

// Resume reopens an interrupted session so new moves append to it.
func (s *Session) Resume(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateRecording {
		return ErrAlreadyRecording
	}

	sess, err := s.sessionRepo.Get(sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	if sess == nil {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if sess.EndedAt != nil {
		return ErrSessionEnded
	}

	nextIndex, err := s.moveRepo.GetNextIndex(sessionID)
	if err != nil {
		return err
	}

	s.sessionID = sessionID
	s.startTime = sess.StartedAt
	s.moveIndex = nextIndex
	s.state = StateRecording

	// Restore last orientation state
	s.lastUpFace, s.lastFrontFace = "", ""
	if last, err := s.orientationRepo.GetLast(sessionID); err == nil && last != nil {
		s.lastUpFace = twisty.Face(last.UpFace)
		s.lastFrontFace = twisty.Face(last.FrontFace)
	}

	s.logger.Info("session resumed", "session", sessionID, "next_index", nextIndex)
	return nil
}

// Record journals one completed move.
func (s *Session) Record(m twisty.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ErrNotRecording
	}

	tsMs := time.Since(s.startTime).Milliseconds()
	if _, err := s.moveRepo.Create(s.sessionID, s.moveIndex, tsMs, m); err != nil {
		return fmt.Errorf("failed to record move: %w", err)
	}
	s.moveIndex++
	return nil
}

// RecordOrientation journals an orientation if it differs from the last one.
func (s *Session) RecordOrientation(o twisty.Orientation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateRecording {
		return ErrNotRecording
	}
	if o.UpFace == s.lastUpFace && o.FrontFace == s.lastFrontFace {
		return nil
	}

	tsMs := time.Since(s.startTime).Milliseconds()
	if _, err := s.orientationRepo.Create(s.sessionID, tsMs, string(o.UpFace), string(o.FrontFace)); err != nil {
		return fmt.Errorf("failed to record orientation: %w", err)
	}

	s.lastUpFace = o.UpFace
	s.lastFrontFace = o.FrontFace
	return nil
}

// Hooks returns sequencer hooks that journal every completed move. Write
// failures are logged; they never stop the animation.
func (s *Session) Hooks() twisty.Hooks {
	return twisty.Hooks{
		OnMoveComplete: func(m twisty.Move, _ time.Duration) {
			if err := s.Record(m); err != nil && !errors.Is(err, ErrNotRecording) {
				s.logger.Error("journal write failed", "move", m.Notation(), "error", err)
			}
		},
	}
}
