package twisty

import (
	"errors"
	"math"
	"testing"
	"time"
)

const testFrame = 16 * time.Millisecond

func run(t *testing.T, a *Assembly, moves []Move, opts ...Option) *Sequencer {
	t.Helper()
	s := NewSequencer(a, opts...)
	if err := s.Enqueue(moves...); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if err := s.Drain(testFrame); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if err := a.CheckInvariant(); err != nil {
		t.Fatalf("invariant after %s: %v", FormatMoves(moves), err)
	}
	return s
}

func TestMoveThenInverseIsSolved(t *testing.T) {
	for _, f := range Faces() {
		m := Move{Face: f, Direction: CW}
		a := NewAssembly(DefaultCubieSize)
		run(t, a, []Move{m, m.Inverse()})
		if !a.IsSolved() {
			t.Errorf("%s %s should return to solved", m, m.Inverse())
			t.Log(a.String())
		}
	}
}

func TestFourQuarterTurnsIsIdentity(t *testing.T) {
	for _, f := range Faces() {
		m := Move{Face: f, Direction: CW}
		a := NewAssembly(DefaultCubieSize)
		run(t, a, []Move{m, m, m, m})
		if !a.IsSolved() {
			t.Errorf("%s x 4 should return to solved", m)
			t.Log(a.String())
		}
	}
}

func TestR2R2_ReturnsToSolved(t *testing.T) {
	a := NewAssembly(DefaultCubieSize)
	run(t, a, []Move{R2})
	if a.IsSolved() {
		t.Error("R2 should unsolve the cube")
	}
	run(t, a, []Move{R2})
	if !a.IsSolved() {
		t.Error("R2 R2 should return to solved")
		t.Log(a.String())
	}
}

func TestSexyMove_6Times_ReturnsToSolved(t *testing.T) {
	a := NewAssembly(DefaultCubieSize)
	var moves []Move
	for i := 0; i < 6; i++ {
		moves = append(moves, SexyMove...)
	}
	run(t, a, moves)
	if !a.IsSolved() {
		t.Error("Sexy move x 6 should return to solved")
		t.Log(a.String())
	}
}

func TestTPermTwiceIsSolved(t *testing.T) {
	a := NewAssembly(DefaultCubieSize)
	run(t, a, TPerm)
	if a.IsSolved() {
		t.Error("T-perm should unsolve the cube")
	}
	run(t, a, TPerm)
	if !a.IsSolved() {
		t.Error("T-perm x 2 should return to solved")
		t.Log(a.String())
	}
}

func TestAlgorithmThenInverseIsSolved(t *testing.T) {
	moves := ParseMoves("R U2 r' M E2 S' x F' d b2 y' L z2 D' B u l'")
	a := NewAssembly(DefaultCubieSize)
	run(t, a, moves)
	run(t, a, Invert(moves))
	if !a.IsSolved() {
		t.Error("algorithm followed by its inverse should be solved")
		t.Log(a.String())
	}
}

func TestRotationsKeepSolved(t *testing.T) {
	a := NewAssembly(DefaultCubieSize)
	for _, m := range ParseMoves("x y z x' y2 z'") {
		run(t, a, []Move{m})
		if !a.IsSolved() {
			t.Errorf("rotation %s should keep the cube solved", m)
		}
	}
}

func TestEquivalentSequences(t *testing.T) {
	tests := []struct {
		a, b string
	}{
		{"x", "R M' L'"},
		{"y", "U E' D'"},
		{"z", "F S B'"},
		{"r", "R M'"},
		{"u'", "U' E"},
		{"l", "L M"},
	}
	for _, tt := range tests {
		// Turn a few faces first so a rotation differs from identity.
		base := ParseMoves("R U F' L D2 B")

		a := NewAssembly(DefaultCubieSize)
		run(t, a, append(append([]Move{}, base...), ParseMoves(tt.a)...))

		b := NewAssembly(DefaultCubieSize)
		run(t, b, append(append([]Move{}, base...), ParseMoves(tt.b)...))

		if a.Facelets() != b.Facelets() {
			t.Errorf("%s and %s should produce the same state", tt.a, tt.b)
			t.Log("\n" + a.String() + "\n" + b.String())
		}
	}
}

func TestPivotMembership(t *testing.T) {
	tests := []struct {
		move Move
		want int
	}{
		{R, 9},
		{M, 8},
		{Move{Face: FaceRw, Direction: CW}, 17},
		{X, 26},
	}
	for _, tt := range tests {
		a := NewAssembly(DefaultCubieSize)
		var started []int
		s := NewSequencer(a, WithHooks(Hooks{
			OnMoveStart: func(_ Move, pieces []int) { started = pieces },
		}))
		if err := s.Enqueue(tt.move); err != nil {
			t.Fatal(err)
		}
		if len(started) != tt.want {
			t.Errorf("%s started with %d pieces, want %d", tt.move, len(started), tt.want)
		}
		if n := len(a.Pivot().Members()); n != tt.want {
			t.Errorf("%s pivot holds %d pieces, want %d", tt.move, n, tt.want)
		}
	}
}

func TestSingleFlightFIFO(t *testing.T) {
	a := NewAssembly(DefaultCubieSize)
	var started, completed []Move
	idle := 0
	s := NewSequencer(a, WithHooks(Hooks{
		OnMoveStart:    func(m Move, _ []int) { started = append(started, m) },
		OnMoveComplete: func(m Move, _ time.Duration) { completed = append(completed, m) },
		OnIdle:         func() { idle++ },
	}))

	moves := ParseMoves("R U F' M2")
	for _, m := range moves {
		if err := s.Enqueue(m); err != nil {
			t.Fatal(err)
		}
		// Only the first enqueue starts a move.
		if len(started) != 1 {
			t.Fatalf("%d moves started, want 1", len(started))
		}
	}
	if s.Pending() != 3 {
		t.Errorf("Pending() = %d, want 3", s.Pending())
	}
	if active, ok := s.Active(); !ok || active != R {
		t.Errorf("Active() = %v, %v, want R", active, ok)
	}

	if err := s.Drain(testFrame); err != nil {
		t.Fatal(err)
	}
	if FormatMoves(started) != FormatMoves(moves) {
		t.Errorf("start order = %s, want %s", FormatMoves(started), FormatMoves(moves))
	}
	if FormatMoves(completed) != FormatMoves(moves) {
		t.Errorf("completion order = %s, want %s", FormatMoves(completed), FormatMoves(moves))
	}
	if FormatMoves(s.Completed()) != FormatMoves(moves) {
		t.Errorf("Completed() = %s", FormatMoves(s.Completed()))
	}
	if idle != 1 {
		t.Errorf("OnIdle fired %d times, want 1", idle)
	}
	if s.State() != StateIdle {
		t.Errorf("State() = %s, want idle", s.State())
	}
}

func TestEnqueueFromCompletionHook(t *testing.T) {
	a := NewAssembly(DefaultCubieSize)
	var s *Sequencer
	var started []Move
	chained := false
	s = NewSequencer(a, WithHooks(Hooks{
		OnMoveStart: func(m Move, _ []int) { started = append(started, m) },
		OnMoveComplete: func(m Move, _ time.Duration) {
			if !chained {
				chained = true
				if err := s.Enqueue(U); err != nil {
					t.Errorf("Enqueue from hook: %v", err)
				}
			}
		},
	}))

	if err := s.Enqueue(R, F); err != nil {
		t.Fatal(err)
	}
	if err := s.Drain(testFrame); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if got := FormatMoves(s.Completed()); got != "R F U" {
		t.Errorf("Completed() = %s, want R F U", got)
	}
	if got := FormatMoves(started); got != "R F U" {
		t.Errorf("start order = %s, want R F U", got)
	}
	if s.State() != StateIdle {
		t.Errorf("State() = %s, want idle", s.State())
	}
	if err := a.CheckInvariant(); err != nil {
		t.Errorf("invariant: %v", err)
	}
}

func TestEnqueueFromIdleHook(t *testing.T) {
	a := NewAssembly(DefaultCubieSize)
	var s *Sequencer
	idle := 0
	s = NewSequencer(a, WithHooks(Hooks{
		OnIdle: func() {
			idle++
			if idle == 1 {
				s.Enqueue(RPrime)
			}
		},
	}))

	if err := s.Enqueue(R); err != nil {
		t.Fatal(err)
	}
	if err := s.Drain(testFrame); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if idle != 2 {
		t.Errorf("OnIdle fired %d times, want 2", idle)
	}
	if !a.IsSolved() {
		t.Error("R followed by R' from the idle hook should be solved")
	}
}

func TestEnqueueWhileAnimating(t *testing.T) {
	a := NewAssembly(DefaultCubieSize)
	s := NewSequencer(a, WithMoveDuration(100*time.Millisecond))
	s.Enqueue(R)
	s.Update(40 * time.Millisecond)

	angle := a.Pivot().Angle()
	s.Enqueue(U)
	if a.Pivot().Angle() != angle {
		t.Error("enqueueing must not disturb the move in flight")
	}
	if active, _ := s.Active(); active != R {
		t.Errorf("Active() = %v, want R", active)
	}
	if s.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", s.Pending())
	}
}

func TestLinearEasingHalfway(t *testing.T) {
	a := NewAssembly(DefaultCubieSize)
	s := NewSequencer(a,
		WithMoveDuration(100*time.Millisecond),
		WithEasing(Linear),
	)
	if err := s.Enqueue(R); err != nil {
		t.Fatal(err)
	}
	if err := s.Update(50 * time.Millisecond); err != nil {
		t.Fatal(err)
	}

	want := -QuarterTurn / 2
	if got := a.Pivot().Angle(); math.Abs(got-want) > 1e-9 {
		t.Errorf("pivot angle = %v, want %v", got, want)
	}
	if got := s.Progress(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("Progress() = %v, want 0.5", got)
	}
	if s.State() != StateAnimating {
		t.Errorf("State() = %s, want animating", s.State())
	}
}

func TestDoubleTakesSameTime(t *testing.T) {
	a := NewAssembly(DefaultCubieSize)
	s := NewSequencer(a, WithMoveDuration(100*time.Millisecond), WithEasing(Linear))
	s.Enqueue(R2)
	s.Update(50 * time.Millisecond)
	if got := a.Pivot().Angle(); math.Abs(got+QuarterTurn) > 1e-9 {
		t.Errorf("R2 halfway angle = %v, want %v", got, -QuarterTurn)
	}
	s.Update(50 * time.Millisecond)
	if s.State() != StateIdle {
		t.Errorf("R2 should finish after the move duration, state %s", s.State())
	}
}

func TestOvershootLandsExactly(t *testing.T) {
	a := NewAssembly(DefaultCubieSize)
	s := NewSequencer(a, WithMoveDuration(30*time.Millisecond))
	s.Enqueue(R)
	if err := s.Update(time.Second); err != nil {
		t.Fatal(err)
	}
	if s.State() != StateIdle {
		t.Errorf("State() = %s, want idle", s.State())
	}
	if err := a.CheckInvariant(); err != nil {
		t.Errorf("invariant: %v", err)
	}
}

func TestZeroDuration(t *testing.T) {
	a := NewAssembly(DefaultCubieSize)
	s := NewSequencer(a, WithMoveDuration(0))
	s.Enqueue(SexyMove...)
	if err := s.Drain(testFrame); err != nil {
		t.Fatal(err)
	}
	if len(s.Completed()) != 4 {
		t.Errorf("completed %d moves, want 4", len(s.Completed()))
	}
}

func TestDrainRejectsBadFrame(t *testing.T) {
	s := NewSequencer(NewAssembly(DefaultCubieSize))
	for _, frame := range []time.Duration{0, -time.Millisecond} {
		if err := s.Drain(frame); !errors.Is(err, ErrInvalidFrame) {
			t.Errorf("Drain(%v) error = %v, want ErrInvalidFrame", frame, err)
		}
	}
}

func TestUpdateWhileIdle(t *testing.T) {
	a := NewAssembly(DefaultCubieSize)
	s := NewSequencer(a)
	if err := s.Update(testFrame); err != nil {
		t.Errorf("Update while idle: %v", err)
	}
	if !a.IsSolved() {
		t.Error("idle update should not change the assembly")
	}
}

func TestFaultIsSticky(t *testing.T) {
	a := NewAssembly(DefaultCubieSize)
	a.pieces[0].Position[0] += 0.3

	var faults int
	s := NewSequencer(a, WithHooks(Hooks{OnFault: func(error) { faults++ }}))

	err := s.Enqueue(L)
	if !errors.Is(err, ErrFaulted) || !errors.Is(err, ErrSliceDrift) {
		t.Fatalf("Enqueue error = %v, want ErrFaulted wrapping ErrSliceDrift", err)
	}
	if s.State() != StateFaulted {
		t.Errorf("State() = %s, want faulted", s.State())
	}
	if faults != 1 {
		t.Errorf("OnFault fired %d times, want 1", faults)
	}
	if !a.Pivot().Empty() {
		t.Error("a faulted move must not hand pieces to the pivot")
	}

	if err := s.Enqueue(R); !errors.Is(err, ErrFaulted) {
		t.Errorf("Enqueue after fault = %v, want ErrFaulted", err)
	}
	if err := s.Update(testFrame); !errors.Is(err, ErrFaulted) {
		t.Errorf("Update after fault = %v, want ErrFaulted", err)
	}
	if !errors.Is(s.Err(), ErrSliceDrift) {
		t.Errorf("Err() = %v", s.Err())
	}
}

func TestMoveHistoryDisabled(t *testing.T) {
	a := NewAssembly(DefaultCubieSize)
	s := run(t, a, SexyMove, WithMoveHistory(false))
	if len(s.Completed()) != 0 {
		t.Errorf("Completed() = %v, want empty", s.Completed())
	}
}

func TestParseEasing(t *testing.T) {
	for _, name := range []string{"", "linear", "quad", "cubic-in-out"} {
		e, err := ParseEasing(name)
		if err != nil {
			t.Errorf("ParseEasing(%q): %v", name, err)
			continue
		}
		if e(0) != 0 || e(1) != 1 {
			t.Errorf("easing %q should map 0 to 0 and 1 to 1", name)
		}
		if math.Abs(e(0.5)-0.5) > 1e-9 {
			t.Errorf("easing %q(0.5) = %v, want 0.5", name, e(0.5))
		}
	}
	if _, err := ParseEasing("bounce"); err == nil {
		t.Error("ParseEasing(bounce) should fail")
	}
}
