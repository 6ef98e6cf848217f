package twisty

import (
	"fmt"
	"strings"
)

// Face identifies a move token in standard notation.
//
// Notation is case-sensitive: upper-case letters turn a single layer,
// lower-case r/l/u/d/f/b turn the outer layer together with the middle
// slice, and x/y/z rotate the whole cube.
type Face string

const (
	// Single-layer turns
	FaceR Face = "R" // Right
	FaceL Face = "L" // Left
	FaceU Face = "U" // Up
	FaceD Face = "D" // Down
	FaceF Face = "F" // Front
	FaceB Face = "B" // Back

	// Middle-slice turns
	FaceM Face = "M" // Between L and R, follows L
	FaceE Face = "E" // Between U and D, follows D
	FaceS Face = "S" // Between F and B, follows F

	// Wide turns
	FaceRw Face = "r"
	FaceLw Face = "l"
	FaceUw Face = "u"
	FaceDw Face = "d"
	FaceFw Face = "f"
	FaceBw Face = "b"

	// Whole-cube rotations
	FaceX Face = "x"
	FaceY Face = "y"
	FaceZ Face = "z"
)

// Direction is +1 for the canonical turn of a face and -1 for its inverse.
type Direction int

const (
	CW  Direction = 1  // Canonical (clockwise) turn
	CCW Direction = -1 // Inverse (counter-clockwise) turn
)

// Move describes a single requested turn.
type Move struct {
	Face      Face      // Which token to turn
	Direction Direction // CW or CCW
	Double    bool      // Half turn
}

// Notation returns the standard notation for the move.
// Examples: R, R', R2, R2', x, Rw is written as r.
func (m Move) Notation() string {
	suffix := ""
	if m.Double {
		suffix = "2"
	}
	if m.Direction == CCW {
		suffix += "'"
	}
	return string(m.Face) + suffix
}

// String returns the notation string (alias for Notation).
func (m Move) String() string {
	return m.Notation()
}

// Inverse returns the move that undoes m.
func (m Move) Inverse() Move {
	inv := m
	inv.Direction = -m.Direction
	return inv
}

// QuarterTurns returns the signed number of quarter turns the move applies.
func (m Move) QuarterTurns() int {
	n := int(m.Direction)
	if m.Double {
		n *= 2
	}
	return n
}

// wideAliases maps the WCA "Rw" spelling onto the lower-case wide faces.
var wideAliases = map[byte]Face{
	'R': FaceRw,
	'L': FaceLw,
	'U': FaceUw,
	'D': FaceDw,
	'F': FaceFw,
	'B': FaceBw,
}

// ParseMove parses a single notation token into a Move.
// Examples: R, R', R2, R2', r, Rw', M2, x'
// Returns ErrInvalidNotation if the face is unknown or a modifier is not ' or 2.
func ParseMove(s string) (Move, error) {
	return parseToken(strings.TrimSpace(s), true)
}

// ParseMoves parses a whitespace-separated sequence of moves.
// Example: "R U R' U'"
// Tokens with an unknown face are skipped and unknown modifier characters
// are ignored; the remaining moves keep their input order.
func ParseMoves(s string) []Move {
	parts := strings.Fields(s)
	moves := make([]Move, 0, len(parts))

	for _, part := range parts {
		move, err := parseToken(part, false)
		if err != nil {
			continue // Skip invalid moves
		}
		moves = append(moves, move)
	}

	return moves
}

func parseToken(s string, strict bool) (Move, error) {
	if len(s) == 0 {
		return Move{}, ErrInvalidNotation
	}

	face := Face(s[:1])
	modifiers := s[1:]
	if len(modifiers) > 0 && modifiers[0] == 'w' {
		if wide, ok := wideAliases[s[0]]; ok {
			face = wide
			modifiers = modifiers[1:]
		}
	}

	if _, ok := Lookup(face); !ok {
		return Move{}, fmt.Errorf("%w: unknown face in %q", ErrInvalidNotation, s)
	}

	m := Move{Face: face, Direction: CW}
	for _, r := range modifiers {
		switch r {
		case '\'', '`':
			m.Direction = CCW
		case '2':
			m.Double = true
		default:
			if strict {
				return Move{}, fmt.Errorf("%w: bad modifier %q in %q", ErrInvalidNotation, r, s)
			}
		}
	}

	return m, nil
}

// FormatMoves formats a slice of moves as a space-separated notation string.
func FormatMoves(moves []Move) string {
	if len(moves) == 0 {
		return ""
	}

	parts := make([]string, len(moves))
	for i, m := range moves {
		parts[i] = m.Notation()
	}

	return strings.Join(parts, " ")
}
