package twisty

import "errors"

// Sentinel errors for the twisty package.
var (
	// Parsing errors
	ErrInvalidNotation = errors.New("twisty: invalid move notation")
	ErrUnknownFace     = errors.New("twisty: unknown face")

	// Assembly errors
	ErrSliceDrift       = errors.New("twisty: slice selection does not match the lattice")
	ErrPivotBusy        = errors.New("twisty: pivot already holds pieces")
	ErrOffLattice       = errors.New("twisty: piece is off the lattice")
	ErrInvalidTolerance = errors.New("twisty: slice tolerance must be below half a cubie")

	// Sequencer errors
	ErrFaulted      = errors.New("twisty: sequencer halted")
	ErrInvalidFrame = errors.New("twisty: frame interval must be positive")

	// Device errors
	ErrNotConnected   = errors.New("twisty: not connected to device")
	ErrDeviceNotFound = errors.New("twisty: device not found")
)
