package storage

import (
	"database/sql"
	"fmt"

	"github.com/SeamusWaldron/twisty"
)

// MoveRecord represents a journaled move.
type MoveRecord struct {
	MoveID    int64
	SessionID string
	MoveIndex int
	TsMs      int64
	Face      string
	Direction int
	Double    bool
	Notation  string
}

// Move converts the record back into a twisty.Move.
func (r MoveRecord) Move() twisty.Move {
	return twisty.Move{
		Face:      twisty.Face(r.Face),
		Direction: twisty.Direction(r.Direction),
		Double:    r.Double,
	}
}

// MoveRepository provides CRUD operations for moves.
type MoveRepository struct {
	db *DB
}

// NewMoveRepository creates a new move repository.
func NewMoveRepository(db *DB) *MoveRepository {
	return &MoveRepository{db: db}
}

const insertMove = `
	INSERT INTO moves (session_id, move_index, ts_ms, face, direction, is_double, notation)
	VALUES (?, ?, ?, ?, ?, ?, ?)
`

// Create creates a new move and returns its ID.
func (r *MoveRepository) Create(sessionID string, moveIndex int, tsMs int64, move twisty.Move) (int64, error) {
	result, err := r.db.Exec(insertMove,
		sessionID, moveIndex, tsMs, string(move.Face), int(move.Direction), move.Double, move.Notation())

	if err != nil {
		return 0, fmt.Errorf("failed to create move: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get move ID: %w", err)
	}

	return id, nil
}

// CreateBatch creates multiple moves in a single transaction, all stamped
// with tsMs.
func (r *MoveRepository) CreateBatch(sessionID string, moves []twisty.Move, startIndex int, tsMs int64) error {
	return r.db.Transaction(func(tx *sql.Tx) error {
		for i, move := range moves {
			_, err := tx.Exec(insertMove,
				sessionID, startIndex+i, tsMs, string(move.Face), int(move.Direction), move.Double, move.Notation())
			if err != nil {
				return fmt.Errorf("failed to create move %d: %w", startIndex+i, err)
			}
		}
		return nil
	})
}

// GetBySession retrieves all moves for a session in order.
func (r *MoveRepository) GetBySession(sessionID string) ([]MoveRecord, error) {
	rows, err := r.db.Query(`
		SELECT move_id, session_id, move_index, ts_ms, face, direction, is_double, notation
		FROM moves
		WHERE session_id = ?
		ORDER BY move_index
	`, sessionID)

	if err != nil {
		return nil, fmt.Errorf("failed to get moves: %w", err)
	}
	defer rows.Close()

	var moves []MoveRecord
	for rows.Next() {
		var m MoveRecord
		err := rows.Scan(&m.MoveID, &m.SessionID, &m.MoveIndex, &m.TsMs, &m.Face, &m.Direction, &m.Double, &m.Notation)
		if err != nil {
			return nil, fmt.Errorf("failed to scan move: %w", err)
		}
		moves = append(moves, m)
	}

	return moves, rows.Err()
}

// Moves returns the session's moves as twisty.Moves in order.
func (r *MoveRepository) Moves(sessionID string) ([]twisty.Move, error) {
	records, err := r.GetBySession(sessionID)
	if err != nil {
		return nil, err
	}
	moves := make([]twisty.Move, len(records))
	for i, rec := range records {
		moves[i] = rec.Move()
	}
	return moves, nil
}

// Count returns the number of moves in a session.
func (r *MoveRepository) Count(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM moves WHERE session_id = ?", sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count moves: %w", err)
	}
	return count, nil
}

// GetNextIndex returns the index the next move in a session should use.
func (r *MoveRepository) GetNextIndex(sessionID string) (int, error) {
	var next int
	err := r.db.QueryRow(
		"SELECT COALESCE(MAX(move_index) + 1, 0) FROM moves WHERE session_id = ?", sessionID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to get next move index: %w", err)
	}
	return next, nil
}
