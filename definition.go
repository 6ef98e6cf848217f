package twisty

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// Axis is one of the three rotation axes of the cube.
type Axis int

const (
	AxisX Axis = iota // Left to right
	AxisY             // Down to up
	AxisZ             // Back to front
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "?"
	}
}

// Unit returns the unit vector of the axis.
func (a Axis) Unit() mgl64.Vec3 {
	var v mgl64.Vec3
	v[a] = 1
	return v
}

// Rotation returns the rotation matrix for angle radians about the axis.
func (a Axis) Rotation(angle float64) mgl64.Mat3 {
	switch a {
	case AxisX:
		return mgl64.Rotate3DX(angle)
	case AxisY:
		return mgl64.Rotate3DY(angle)
	default:
		return mgl64.Rotate3DZ(angle)
	}
}

// QuarterTurn is a 90 degree rotation in radians.
const QuarterTurn = math.Pi / 2

// Definition is the geometric meaning of a face token.
type Definition struct {
	Face  Face
	Axis  Axis
	Angle float64 // Signed quarter turn in radians for the canonical direction
	Slice int     // -1, 0 or +1: the layer the token names

	// Layers lists every slice the move turns. Single-layer and slice
	// moves turn only Slice; wide moves add the middle slice and rotations
	// turn all three.
	Layers []int
}

// TurnAngle returns the total pivot angle for a move resolved by d.
func (d Definition) TurnAngle(m Move) float64 {
	return d.Angle * float64(m.QuarterTurns())
}

func (d Definition) String() string {
	return fmt.Sprintf("%s: axis=%s angle=%.4f slice=%+d layers=%v", d.Face, d.Axis, d.Angle, d.Slice, d.Layers)
}

var definitions = map[Face]Definition{
	// Single-layer turns
	FaceU: {Face: FaceU, Axis: AxisY, Angle: -QuarterTurn, Slice: 1, Layers: []int{1}},
	FaceD: {Face: FaceD, Axis: AxisY, Angle: QuarterTurn, Slice: -1, Layers: []int{-1}},
	FaceL: {Face: FaceL, Axis: AxisX, Angle: QuarterTurn, Slice: -1, Layers: []int{-1}},
	FaceR: {Face: FaceR, Axis: AxisX, Angle: -QuarterTurn, Slice: 1, Layers: []int{1}},
	FaceF: {Face: FaceF, Axis: AxisZ, Angle: -QuarterTurn, Slice: 1, Layers: []int{1}},
	FaceB: {Face: FaceB, Axis: AxisZ, Angle: QuarterTurn, Slice: -1, Layers: []int{-1}},

	// Middle-slice turns
	FaceM: {Face: FaceM, Axis: AxisX, Angle: QuarterTurn, Slice: 0, Layers: []int{0}},
	FaceE: {Face: FaceE, Axis: AxisY, Angle: QuarterTurn, Slice: 0, Layers: []int{0}},
	FaceS: {Face: FaceS, Axis: AxisZ, Angle: -QuarterTurn, Slice: 0, Layers: []int{0}},

	// Wide turns
	FaceUw: {Face: FaceUw, Axis: AxisY, Angle: -QuarterTurn, Slice: 1, Layers: []int{1, 0}},
	FaceDw: {Face: FaceDw, Axis: AxisY, Angle: QuarterTurn, Slice: -1, Layers: []int{-1, 0}},
	FaceLw: {Face: FaceLw, Axis: AxisX, Angle: QuarterTurn, Slice: -1, Layers: []int{-1, 0}},
	FaceRw: {Face: FaceRw, Axis: AxisX, Angle: -QuarterTurn, Slice: 1, Layers: []int{1, 0}},
	FaceFw: {Face: FaceFw, Axis: AxisZ, Angle: -QuarterTurn, Slice: 1, Layers: []int{1, 0}},
	FaceBw: {Face: FaceBw, Axis: AxisZ, Angle: QuarterTurn, Slice: -1, Layers: []int{-1, 0}},

	// Whole-cube rotations follow R, U and F
	FaceX: {Face: FaceX, Axis: AxisX, Angle: -QuarterTurn, Slice: 1, Layers: []int{-1, 0, 1}},
	FaceY: {Face: FaceY, Axis: AxisY, Angle: -QuarterTurn, Slice: 1, Layers: []int{-1, 0, 1}},
	FaceZ: {Face: FaceZ, Axis: AxisZ, Angle: -QuarterTurn, Slice: 1, Layers: []int{-1, 0, 1}},
}

// faceOrder is the display order of the table.
var faceOrder = []Face{
	FaceR, FaceL, FaceU, FaceD, FaceF, FaceB,
	FaceM, FaceE, FaceS,
	FaceRw, FaceLw, FaceUw, FaceDw, FaceFw, FaceBw,
	FaceX, FaceY, FaceZ,
}

// Lookup returns the definition of a face token. The returned Layers slice
// is a copy.
func Lookup(face Face) (Definition, bool) {
	d, ok := definitions[face]
	d.Layers = slices.Clone(d.Layers)
	return d, ok
}

// MustLookup is like Lookup but panics on an unknown face. Callers must only
// pass faces produced by the parser or the predefined moves.
func MustLookup(face Face) Definition {
	d, ok := definitions[face]
	if !ok {
		panic(fmt.Sprintf("twisty: %v: %q", ErrUnknownFace, face))
	}
	d.Layers = slices.Clone(d.Layers)
	return d
}

// Faces returns every known face token in table order.
func Faces() []Face {
	out := make([]Face, len(faceOrder))
	copy(out, faceOrder)
	return out
}
