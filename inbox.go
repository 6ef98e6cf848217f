package twisty

import "sync"

// Inbox collects moves from asynchronous producers, such as a device
// notification goroutine, until the frame loop hands them to a Sequencer.
// Post is safe for concurrent use.
type Inbox struct {
	mu    sync.Mutex
	moves []Move
}

// NewInbox creates an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{}
}

// Post appends moves in arrival order.
func (in *Inbox) Post(moves ...Move) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.moves = append(in.moves, moves...)
}

// Len returns the number of moves waiting.
func (in *Inbox) Len() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.moves)
}

// Take removes and returns every waiting move.
func (in *Inbox) Take() []Move {
	in.mu.Lock()
	defer in.mu.Unlock()
	moves := in.moves
	in.moves = nil
	return moves
}

// Flush enqueues every waiting move on s, one move at a time so each keeps
// its own queue slot. Call it from the frame loop before Update.
func (in *Inbox) Flush(s *Sequencer) error {
	for _, m := range in.Take() {
		if err := s.Enqueue(m); err != nil {
			return err
		}
	}
	return nil
}
