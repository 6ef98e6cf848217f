package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session sources.
const (
	SourceSimulator = "simulator"
	SourceDevice    = "device"
)

// Session is one journaled run of the sequencer.
type Session struct {
	SessionID  string
	StartedAt  time.Time
	EndedAt    *time.Time
	DurationMs *int64
	Source     string
	Scramble   *string
	DeviceName *string
	AppVersion *string
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create creates a new session and returns its ID.
func (r *SessionRepository) Create(source, scramble, deviceName, appVersion string) (string, error) {
	id := uuid.New().String()
	startedAt := time.Now().UTC()

	_, err := r.db.Exec(`
		INSERT INTO sessions (session_id, started_at, source, scramble, device_name, app_version)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, startedAt.Format(time.RFC3339Nano), source, optional(scramble), optional(deviceName), optional(appVersion))

	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return id, nil
}

// End marks a session as complete.
func (r *SessionRepository) End(sessionID string) error {
	endedAt := time.Now().UTC()

	// Get start time to calculate duration
	var startedAtStr string
	err := r.db.QueryRow("SELECT started_at FROM sessions WHERE session_id = ?", sessionID).Scan(&startedAtStr)
	if err != nil {
		return fmt.Errorf("failed to get session start time: %w", err)
	}

	startedAt, err := time.Parse(time.RFC3339Nano, startedAtStr)
	if err != nil {
		return fmt.Errorf("failed to parse start time: %w", err)
	}

	durationMs := endedAt.Sub(startedAt).Milliseconds()

	_, err = r.db.Exec(`
		UPDATE sessions
		SET ended_at = ?, duration_ms = ?
		WHERE session_id = ?
	`, endedAt.Format(time.RFC3339Nano), durationMs, sessionID)

	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}

	return nil
}

const sessionColumns = `session_id, started_at, ended_at, duration_ms, source, scramble, device_name, app_version`

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	var s Session
	var startedAtStr string
	var endedAtStr sql.NullString

	err := row.Scan(
		&s.SessionID, &startedAtStr, &endedAtStr, &s.DurationMs,
		&s.Source, &s.Scramble, &s.DeviceName, &s.AppVersion,
	)
	if err != nil {
		return nil, err
	}

	s.StartedAt, _ = time.Parse(time.RFC3339Nano, startedAtStr)
	if endedAtStr.Valid {
		t, _ := time.Parse(time.RFC3339Nano, endedAtStr.String)
		s.EndedAt = &t
	}
	return &s, nil
}

// Get retrieves a session by ID. It returns nil when none exists.
func (r *SessionRepository) Get(sessionID string) (*Session, error) {
	s, err := scanSession(r.db.QueryRow(
		"SELECT "+sessionColumns+" FROM sessions WHERE session_id = ?", sessionID))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// GetLast retrieves the most recent session.
func (r *SessionRepository) GetLast() (*Session, error) {
	s, err := scanSession(r.db.QueryRow(
		"SELECT " + sessionColumns + " FROM sessions ORDER BY started_at DESC LIMIT 1"))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get last session: %w", err)
	}
	return s, nil
}

// List retrieves recent sessions, newest first.
func (r *SessionRepository) List(limit int) ([]Session, error) {
	rows, err := r.db.Query(
		"SELECT "+sessionColumns+" FROM sessions ORDER BY started_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}

	return sessions, rows.Err()
}

// Delete deletes a session and its moves.
func (r *SessionRepository) Delete(sessionID string) error {
	_, err := r.db.Exec("DELETE FROM sessions WHERE session_id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
