package twisty

// Predefined moves for convenience.
// Use these instead of constructing Move structs manually.
//
// Example:
//
//	seq.Enqueue(twisty.R, twisty.U, twisty.RPrime, twisty.UPrime)
var (
	// Right face moves
	R      = Move{Face: FaceR, Direction: CW}               // Right clockwise
	RPrime = Move{Face: FaceR, Direction: CCW}              // Right counter-clockwise
	R2     = Move{Face: FaceR, Direction: CW, Double: true} // Right 180

	// Left face moves
	L      = Move{Face: FaceL, Direction: CW}
	LPrime = Move{Face: FaceL, Direction: CCW}
	L2     = Move{Face: FaceL, Direction: CW, Double: true}

	// Up face moves
	U      = Move{Face: FaceU, Direction: CW}
	UPrime = Move{Face: FaceU, Direction: CCW}
	U2     = Move{Face: FaceU, Direction: CW, Double: true}

	// Down face moves
	D      = Move{Face: FaceD, Direction: CW}
	DPrime = Move{Face: FaceD, Direction: CCW}
	D2     = Move{Face: FaceD, Direction: CW, Double: true}

	// Front face moves
	F      = Move{Face: FaceF, Direction: CW}
	FPrime = Move{Face: FaceF, Direction: CCW}
	F2     = Move{Face: FaceF, Direction: CW, Double: true}

	// Back face moves
	B      = Move{Face: FaceB, Direction: CW}
	BPrime = Move{Face: FaceB, Direction: CCW}
	B2     = Move{Face: FaceB, Direction: CW, Double: true}

	// Slice moves
	M = Move{Face: FaceM, Direction: CW}
	E = Move{Face: FaceE, Direction: CW}
	S = Move{Face: FaceS, Direction: CW}

	// Whole-cube rotations
	X = Move{Face: FaceX, Direction: CW}
	Y = Move{Face: FaceY, Direction: CW}
	Z = Move{Face: FaceZ, Direction: CW}
)

// Sexy move: R U R' U' - one of the most common algorithms
var SexyMove = []Move{R, U, RPrime, UPrime}

// Inverse sexy move: U R U' R'
var InverseSexyMove = []Move{U, R, UPrime, RPrime}

// T-perm algorithm
var TPerm = []Move{R, U, RPrime, UPrime, RPrime, F, R2, UPrime, RPrime, UPrime, R, U, RPrime, FPrime}

// Invert returns the sequence that undoes moves.
func Invert(moves []Move) []Move {
	out := make([]Move, len(moves))
	for i, m := range moves {
		out[len(moves)-1-i] = m.Inverse()
	}
	return out
}
