// Package twisty animates a 3x3x3 twisty cube from move notation or from a
// GoCube smart cube's live move stream.
//
// # Overview
//
//   - Move notation parsing (single layers, slices, wide turns, rotations)
//   - A static move definition table (axis, quarter-turn angle, layers)
//   - A 26-piece assembly with a pivot that temporarily owns the turning layer
//   - A single-flight sequencer that animates one move at a time, in order
//   - A device adapter that feeds smart-cube moves into the same queue
//
// # Quick Start
//
// Drive the sequencer from your frame loop:
//
//	cube := twisty.NewAssembly(twisty.DefaultCubieSize)
//	seq := twisty.NewSequencer(cube)
//
//	seq.Enqueue(twisty.ParseMoves("R U R' U'")...)
//
//	for seq.State() == twisty.StateAnimating {
//	    seq.Update(16 * time.Millisecond) // once per frame
//	    render(cube)
//	}
//
//	fmt.Println(cube)
//
// # Notation
//
// Notation is case-sensitive. R L U D F B turn one layer, M E S turn a middle
// slice, r l u d f b (or Rw Lw ...) turn two layers and x y z rotate the
// whole cube. A ' suffix inverts a move and a 2 suffix doubles it. Tokens
// with an unknown face are skipped.
//
// # Live Devices
//
// Moves from a connected GoCube arrive on a Bluetooth goroutine. Post them to
// an Inbox and flush it from the frame loop:
//
//	inbox := twisty.NewInbox()
//	dev.OnMove(func(m twisty.Move) { inbox.Post(m) })
//
//	// each frame
//	inbox.Flush(seq)
//	seq.Update(dt)
package twisty
