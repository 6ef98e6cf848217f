package twisty

import "github.com/go-gl/mathgl/mgl64"

// Owner tags which container currently holds a piece.
type Owner int

const (
	OwnedByAssembly Owner = iota
	OwnedByPivot
)

func (o Owner) String() string {
	if o == OwnedByPivot {
		return "pivot"
	}
	return "assembly"
}

// Pivot is the transient rotation anchor for the pieces of one move.
// Member positions stay expressed in the pivot's local frame until they are
// reclaimed; the pivot itself only carries an axis and an angle.
type Pivot struct {
	axis    Axis
	angle   float64
	members []int
}

// Axis returns the axis the pivot rotates about.
func (p *Pivot) Axis() Axis {
	return p.axis
}

// Angle returns the current pivot angle in radians.
func (p *Pivot) Angle() float64 {
	return p.angle
}

// Members returns the indices of the pieces the pivot holds.
func (p *Pivot) Members() []int {
	out := make([]int, len(p.members))
	copy(out, p.members)
	return out
}

// Empty reports whether the pivot holds no pieces.
func (p *Pivot) Empty() bool {
	return len(p.members) == 0
}

// Rotation returns the pivot's current rotation matrix.
func (p *Pivot) Rotation() mgl64.Mat3 {
	return p.axis.Rotation(p.angle)
}

// Quat returns the pivot's current rotation as a quaternion.
func (p *Pivot) Quat() mgl64.Quat {
	return mgl64.QuatRotate(p.angle, p.axis.Unit())
}

func (p *Pivot) reset() {
	p.angle = 0
	p.members = p.members[:0]
}
