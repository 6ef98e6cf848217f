package twisty

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultCubieSize is the lattice spacing used by NewAssembly callers that
// have no preference.
const DefaultCubieSize = 1.0

// PieceCount is the number of pieces in a 3x3x3 assembly (the core is not modeled).
const PieceCount = 26

// Assembly owns the 26 pieces of the cube and the pivot used to turn them.
//
// Pieces are never reordered: index i always holds the piece with ID i.
// Ownership moves between the assembly and the pivot by index.
type Assembly struct {
	size      float64
	tolerance float64
	pieces    []Piece
	owner     []Owner
	pivot     Pivot
}

// NewAssembly creates a solved assembly with the given lattice spacing.
func NewAssembly(cubieSize float64) *Assembly {
	if cubieSize <= 0 {
		cubieSize = DefaultCubieSize
	}
	a := &Assembly{
		size:      cubieSize,
		tolerance: cubieSize / 4,
		pieces:    make([]Piece, 0, PieceCount),
		owner:     make([]Owner, 0, PieceCount),
	}
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				if x == 0 && y == 0 && z == 0 {
					continue
				}
				a.pieces = append(a.pieces, newPiece(len(a.pieces), [3]int{x, y, z}, cubieSize))
				a.owner = append(a.owner, OwnedByAssembly)
			}
		}
	}
	return a
}

// CubieSize returns the lattice spacing.
func (a *Assembly) CubieSize() float64 {
	return a.size
}

// Tolerance returns the slice selection tolerance.
func (a *Assembly) Tolerance() float64 {
	return a.tolerance
}

// SetTolerance sets the slice selection tolerance. It must be positive and
// strictly below half the lattice spacing so that adjacent layers never
// overlap.
func (a *Assembly) SetTolerance(t float64) error {
	if t <= 0 || t >= a.size/2 {
		return fmt.Errorf("%w: %v (cubie size %v)", ErrInvalidTolerance, t, a.size)
	}
	a.tolerance = t
	return nil
}

// Len returns the number of pieces.
func (a *Assembly) Len() int {
	return len(a.pieces)
}

// Piece returns the piece at index i as stored by its owner.
func (a *Assembly) Piece(i int) Piece {
	return a.pieces[i]
}

// Pieces returns a copy of every piece.
func (a *Assembly) Pieces() []Piece {
	out := make([]Piece, len(a.pieces))
	copy(out, a.pieces)
	return out
}

// Owner returns which container holds piece i.
func (a *Assembly) Owner(i int) Owner {
	return a.owner[i]
}

// Pivot returns the assembly's pivot for inspection.
func (a *Assembly) Pivot() *Pivot {
	return &a.pivot
}

// WorldTransform returns the position and orientation of piece i in the
// assembly frame, including any in-flight pivot rotation.
func (a *Assembly) WorldTransform(i int) (mgl64.Vec3, mgl64.Mat3) {
	p := a.pieces[i]
	if a.owner[i] != OwnedByPivot {
		return p.Position, p.Orientation
	}
	r := a.pivot.Rotation()
	return r.Mul3x1(p.Position), r.Mul3(p.Orientation)
}

// Select returns the indices of the pieces in one slice along axis.
// slice is -1, 0 or +1. Outer slices hold 9 pieces and the middle slice 8;
// any other count means positions drifted off the lattice and ErrSliceDrift
// is returned.
func (a *Assembly) Select(axis Axis, slice int) ([]int, error) {
	if !a.pivot.Empty() {
		return nil, ErrPivotBusy
	}

	target := float64(slice) * a.size
	var selected []int
	for i, p := range a.pieces {
		if math.Abs(p.Position[axis]-target) < a.tolerance {
			selected = append(selected, i)
		}
	}

	if want := sliceSize(slice); len(selected) != want {
		return nil, fmt.Errorf("%w: axis %s slice %+d selected %d pieces, want %d",
			ErrSliceDrift, axis, slice, len(selected), want)
	}
	return selected, nil
}

// SelectLayers returns the union of several slices along one axis.
func (a *Assembly) SelectLayers(axis Axis, layers []int) ([]int, error) {
	var selected []int
	for _, slice := range layers {
		s, err := a.Select(axis, slice)
		if err != nil {
			return nil, err
		}
		selected = append(selected, s...)
	}
	return selected, nil
}

func sliceSize(slice int) int {
	switch slice {
	case -1, 1:
		return 9
	case 0:
		return 8
	default:
		return 0
	}
}

// Release hands the given pieces to the pivot, which will rotate about axis.
// Geometry does not change.
func (a *Assembly) Release(axis Axis, indices []int) error {
	if !a.pivot.Empty() {
		return ErrPivotBusy
	}
	for _, i := range indices {
		if a.owner[i] != OwnedByAssembly {
			return fmt.Errorf("%w: piece %d released twice", ErrPivotBusy, i)
		}
	}

	a.pivot.axis = axis
	a.pivot.angle = 0
	for _, i := range indices {
		a.owner[i] = OwnedByPivot
		a.pivot.members = append(a.pivot.members, i)
	}
	return nil
}

// SetPivotAngle sets the pivot rotation in radians.
func (a *Assembly) SetPivotAngle(angle float64) {
	a.pivot.angle = angle
}

// Reclaim brings every pivot member back into the assembly frame. Each
// piece's transform is re-derived from the pivot's rotation and snapped to
// the lattice, then the pivot is reset to identity. It returns the indices
// that were reclaimed.
func (a *Assembly) Reclaim() []int {
	r := a.pivot.Rotation()
	members := a.pivot.Members()
	for _, i := range members {
		p := &a.pieces[i]
		p.Position = snapPosition(r.Mul3x1(p.Position), a.size)
		p.Orientation = snapRotation(r.Mul3(p.Orientation))
		a.owner[i] = OwnedByAssembly
	}
	a.pivot.reset()
	return members
}

// PieceState is the at-rest placement of one piece.
type PieceState struct {
	ID          int
	Lattice     [3]int
	Orientation mgl64.Mat3
}

// Snapshot returns the at-rest placement of every piece, ordered by ID.
func (a *Assembly) Snapshot() []PieceState {
	out := make([]PieceState, len(a.pieces))
	for i, p := range a.pieces {
		out[i] = PieceState{
			ID:          p.ID,
			Lattice:     p.Lattice(a.size),
			Orientation: p.Orientation,
		}
	}
	return out
}

// CheckInvariant verifies that the assembly is at rest: every piece owned
// by the assembly, exactly on a distinct non-center lattice point, with an
// exact orientation.
func (a *Assembly) CheckInvariant() error {
	if len(a.pieces) != PieceCount {
		return fmt.Errorf("%w: %d pieces", ErrOffLattice, len(a.pieces))
	}
	if !a.pivot.Empty() {
		return ErrPivotBusy
	}

	seen := make(map[[3]int]int, len(a.pieces))
	for i, p := range a.pieces {
		if snapPosition(p.Position, a.size) != p.Position {
			return fmt.Errorf("%w: %v", ErrOffLattice, p)
		}
		if snapRotation(p.Orientation) != p.Orientation {
			return fmt.Errorf("%w: %v has inexact orientation", ErrOffLattice, p)
		}
		l := p.Lattice(a.size)
		for _, c := range l {
			if c < -1 || c > 1 {
				return fmt.Errorf("%w: %v outside the cube", ErrOffLattice, p)
			}
		}
		if l == [3]int{} {
			return fmt.Errorf("%w: %v at the core", ErrOffLattice, p)
		}
		if other, dup := seen[l]; dup {
			return fmt.Errorf("%w: pieces %d and %d share %v", ErrOffLattice, other, i, l)
		}
		seen[l] = i
	}
	return nil
}

// Facelets is the 6x9 sticker projection of the assembly, indexed by Dir.
// Each face is read from outside the cube:
//
//	0 1 2
//	3 4 5
//	6 7 8
//
// with U viewed with B at the top, D with F at the top and the side faces
// with U at the top.
type Facelets [6][9]Color

// faceletCoord returns the lattice point behind cell (row, col) of face d.
func faceletCoord(d Dir, row, col int) [3]int {
	switch d {
	case DirUp:
		return [3]int{col - 1, 1, row - 1}
	case DirDown:
		return [3]int{col - 1, -1, 1 - row}
	case DirFront:
		return [3]int{col - 1, 1 - row, 1}
	case DirBack:
		return [3]int{1 - col, 1 - row, -1}
	case DirRight:
		return [3]int{1, 1 - row, 1 - col}
	default: // DirLeft
		return [3]int{-1, 1 - row, col - 1}
	}
}

// Facelets projects the at-rest assembly onto its six faces.
func (a *Assembly) Facelets() Facelets {
	byLattice := make(map[[3]int]int, len(a.pieces))
	for i, p := range a.pieces {
		byLattice[p.Lattice(a.size)] = i
	}

	var f Facelets
	for _, d := range Dirs {
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				if i, ok := byLattice[faceletCoord(d, row, col)]; ok {
					f[d][row*3+col] = a.pieces[i].Facing(d)
				}
			}
		}
	}
	return f
}

// IsSolved reports whether every face shows a single color. Whole-cube
// rotations keep a solved cube solved.
func (a *Assembly) IsSolved() bool {
	return a.Facelets().IsSolved()
}

// IsSolved reports whether every face shows a single color.
func (f Facelets) IsSolved() bool {
	for _, d := range Dirs {
		for i := 1; i < 9; i++ {
			if f[d][i] != f[d][0] {
				return false
			}
		}
	}
	return true
}

// String returns a text net of the facelets:
//
//	      U
//	L F R B
//	      D
func (f Facelets) String() string {
	var sb strings.Builder

	// U face (indented)
	for row := 0; row < 3; row++ {
		sb.WriteString("      ")
		for col := 0; col < 3; col++ {
			sb.WriteString(f[DirUp][row*3+col].String() + " ")
		}
		sb.WriteString("\n")
	}

	// L, F, R, B faces (side by side)
	for row := 0; row < 3; row++ {
		for _, d := range []Dir{DirLeft, DirFront, DirRight, DirBack} {
			for col := 0; col < 3; col++ {
				sb.WriteString(f[d][row*3+col].String() + " ")
			}
		}
		sb.WriteString("\n")
	}

	// D face (indented)
	for row := 0; row < 3; row++ {
		sb.WriteString("      ")
		for col := 0; col < 3; col++ {
			sb.WriteString(f[DirDown][row*3+col].String() + " ")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// String returns the facelet net of the assembly.
func (a *Assembly) String() string {
	return a.Facelets().String()
}
