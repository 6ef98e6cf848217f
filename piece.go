package twisty

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Color represents a sticker color.
type Color byte

const (
	Blank  Color = 0 // Interior-facing sides
	White  Color = 1 // Up face when solved
	Yellow Color = 2 // Down face when solved
	Green  Color = 3 // Front face when solved
	Blue   Color = 4 // Back face when solved
	Red    Color = 5 // Right face when solved
	Orange Color = 6 // Left face when solved
)

func (c Color) String() string {
	switch c {
	case White:
		return "W"
	case Yellow:
		return "Y"
	case Green:
		return "G"
	case Blue:
		return "B"
	case Red:
		return "R"
	case Orange:
		return "O"
	case Blank:
		return "-"
	default:
		return "?"
	}
}

// RGB returns the display color as 0xRRGGBB.
func (c Color) RGB() uint32 {
	switch c {
	case White:
		return 0xffffff
	case Yellow:
		return 0xffff00
	case Green:
		return 0x00ff00
	case Blue:
		return 0x0000ff
	case Red:
		return 0xff0000
	case Orange:
		return 0xffa500
	default:
		return 0x101010
	}
}

// Dir is one of the six axis-aligned normal directions.
type Dir int

const (
	DirRight Dir = iota // +x
	DirLeft             // -x
	DirUp               // +y
	DirDown             // -y
	DirFront            // +z
	DirBack             // -z
)

// Dirs lists every direction in sticker order.
var Dirs = [6]Dir{DirRight, DirLeft, DirUp, DirDown, DirFront, DirBack}

func (d Dir) String() string {
	switch d {
	case DirRight:
		return "R"
	case DirLeft:
		return "L"
	case DirUp:
		return "U"
	case DirDown:
		return "D"
	case DirFront:
		return "F"
	case DirBack:
		return "B"
	default:
		return "?"
	}
}

// Axis returns the axis the direction lies on.
func (d Dir) Axis() Axis {
	return Axis(d / 2)
}

// Sign returns +1 for the positive direction on its axis and -1 otherwise.
func (d Dir) Sign() int {
	if d%2 == 0 {
		return 1
	}
	return -1
}

// Normal returns the unit normal of the direction.
func (d Dir) Normal() mgl64.Vec3 {
	return d.Axis().Unit().Mul(float64(d.Sign()))
}

// dirOf returns the direction an axis-aligned unit vector points along.
func dirOf(v mgl64.Vec3) (Dir, bool) {
	for _, d := range Dirs {
		if v.ApproxEqualThreshold(d.Normal(), 1e-6) {
			return d, true
		}
	}
	return 0, false
}

// solvedColor returns the color a face shows when solved.
func solvedColor(d Dir) Color {
	switch d {
	case DirUp:
		return White
	case DirDown:
		return Yellow
	case DirFront:
		return Green
	case DirBack:
		return Blue
	case DirRight:
		return Red
	case DirLeft:
		return Orange
	default:
		return Blank
	}
}

// Piece is one of the 26 visible cubies.
//
// Stickers are indexed by the piece's local normal; Orientation maps local
// normals into the assembly frame. At rest Position is an exact lattice point
// and Orientation an exact signed permutation matrix.
type Piece struct {
	ID          int
	Home        [3]int // Lattice coordinate in the solved cube
	Position    mgl64.Vec3
	Orientation mgl64.Mat3
	Stickers    [6]Color
}

func newPiece(id int, lattice [3]int, size float64) Piece {
	p := Piece{
		ID:          id,
		Home:        lattice,
		Position:    mgl64.Vec3{float64(lattice[0]), float64(lattice[1]), float64(lattice[2])}.Mul(size),
		Orientation: mgl64.Ident3(),
	}
	// Only the normals on the outer boundary carry a color.
	for _, d := range Dirs {
		if lattice[d.Axis()] == d.Sign() {
			p.Stickers[d] = solvedColor(d)
		}
	}
	return p
}

// Lattice returns the integer lattice coordinate of the piece.
func (p Piece) Lattice(size float64) [3]int {
	return [3]int{
		int(math.Round(p.Position[0] / size)),
		int(math.Round(p.Position[1] / size)),
		int(math.Round(p.Position[2] / size)),
	}
}

// Facing returns the sticker currently pointing along world direction d.
func (p Piece) Facing(d Dir) Color {
	local, ok := dirOf(p.Orientation.Transpose().Mul3x1(d.Normal()))
	if !ok {
		return Blank
	}
	return p.Stickers[local]
}

// Quat returns the orientation as a quaternion, for renderers.
func (p Piece) Quat() mgl64.Quat {
	return mgl64.Mat4ToQuat(p.Orientation.Mat4())
}

func (p Piece) String() string {
	return fmt.Sprintf("piece %d at %v", p.ID, p.Position)
}

// snapPosition rounds v to the nearest lattice point.
func snapPosition(v mgl64.Vec3, size float64) mgl64.Vec3 {
	for i := range v {
		v[i] = math.Round(v[i]/size) * size
	}
	return v
}

// snapRotation rounds a rotation that is a multiple of quarter turns to
// its exact integer matrix.
func snapRotation(m mgl64.Mat3) mgl64.Mat3 {
	for i := range m {
		m[i] = math.Round(m[i])
		if m[i] == 0 {
			m[i] = 0 // drop negative zero
		}
	}
	return m
}
