package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/storage"
)

var replayCmd = &cobra.Command{
	Use:   "replay [session-id]",
	Short: "Replay a journaled session",
	Long: `Replay the moves of a journaled session on a virtual cube.
If no session ID is given the most recent session is replayed.

Usage:
  twisty replay                     # Replay the last session
  twisty replay <session-id>        # Replay a specific session
  twisty replay --speed 4           # Replay at 4x speed
  twisty replay --headless          # Print the final state only`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReplay,
}

var (
	replaySpeed    float64
	replayHeadless bool
	replayHold     bool
)

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Float64VarP(&replaySpeed, "speed", "s", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayHeadless, "headless", false, "Run without the TUI and print the final net")
	replayCmd.Flags().BoolVar(&replayHold, "hold", false, "Keep the TUI open after the last move")
}

// loadSession resolves a session by ID, or the latest one when id is empty.
func loadSession(db *storage.DB, id string) (*storage.Session, error) {
	repo := storage.NewSessionRepository(db)

	var s *storage.Session
	var err error
	if id == "" {
		s, err = repo.GetLast()
	} else {
		s, err = repo.Get(id)
	}
	if err != nil {
		return nil, err
	}
	if s == nil {
		if id == "" {
			return nil, fmt.Errorf("no sessions recorded yet")
		}
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return s, nil
}

func runReplay(cmd *cobra.Command, args []string) error {
	if replaySpeed <= 0 {
		return fmt.Errorf("speed must be positive, got %v", replaySpeed)
	}

	rt, err := loadRuntime()
	if err != nil {
		return err
	}

	db, err := rt.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	var id string
	if len(args) > 0 {
		id = args[0]
	}
	session, err := loadSession(db, id)
	if err != nil {
		return err
	}

	moves, err := storage.NewMoveRepository(db).Moves(session.SessionID)
	if err != nil {
		return err
	}
	fmt.Printf("Replaying session %s (%d moves)\n", session.SessionID, len(moves))

	if !replayHeadless {
		rt.quiet()
	}
	seq, err := rt.newSequencer(replaySpeed)
	if err != nil {
		return err
	}
	rt.serveMetrics(cmd.Context())

	if err := seq.Enqueue(moves...); err != nil {
		return err
	}

	if replayHeadless {
		return runHeadless(seq, rt.cfg.FrameInterval)
	}

	model := newAnimModel(fmt.Sprintf("twisty - replay %s", shortID(session.SessionID)), seq, rt.cfg.FrameInterval)
	model.quitWhenIdle = !replayHold
	model.keys = replayHold
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if err := seq.Err(); err != nil {
		return err
	}
	if seq.Assembly().IsSolved() {
		fmt.Println("Replay ends solved")
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// replayedState runs moves on a fresh assembly without animation.
func replayedState(rt *runtime, moves []twisty.Move) (*twisty.Assembly, error) {
	a, err := rt.cfg.NewAssembly()
	if err != nil {
		return nil, err
	}
	seq := twisty.NewSequencer(a, twisty.WithMoveDuration(0), twisty.WithMoveHistory(false))
	if err := seq.Enqueue(moves...); err != nil {
		return nil, err
	}
	if err := seq.Drain(rt.cfg.FrameInterval); err != nil {
		return nil, err
	}
	return a, nil
}
