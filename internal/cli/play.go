package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/recorder"
	"github.com/SeamusWaldron/twisty/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play [moves...]",
	Short: "Animate moves on a virtual cube",
	Long: `Animate a move sequence on a virtual cube, then keep turning it from
the keyboard.

Examples:
  twisty play "R U R' U'"
  twisty play --setup "R U2 F'" "R U R' U'"
  twisty play --headless R2 U2 R2 U2

Keyboard (interactive mode):
  r l u d f b  - Turn a face clockwise (shift for counter-clockwise)
  m e s        - Turn a middle slice
  x y z        - Rotate the whole cube
  ctrl+z       - Undo the last move
  q/Esc        - Quit`,
	RunE: runPlay,
}

var (
	playHeadless bool
	playSetup    string
	playRecord   bool
	playSpeed    float64
)

func init() {
	rootCmd.AddCommand(playCmd)
	playCmd.Flags().BoolVar(&playHeadless, "headless", false, "Run without the TUI and print the final net")
	playCmd.Flags().StringVar(&playSetup, "setup", "", "Moves applied first and saved as the session's scramble")
	playCmd.Flags().BoolVar(&playRecord, "record", false, "Journal completed moves to the database")
	playCmd.Flags().Float64VarP(&playSpeed, "speed", "s", 1.0, "Animation speed multiplier")
}

// parseArgs strictly parses every whitespace-separated token in args.
func parseArgs(args []string) ([]twisty.Move, error) {
	var moves []twisty.Move
	for _, tok := range strings.Fields(strings.Join(args, " ")) {
		m, err := twisty.ParseMove(tok)
		if err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, nil
}

func runPlay(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}

	moves, err := parseArgs(args)
	if err != nil {
		return err
	}

	setup, err := parseArgs([]string{playSetup})
	if err != nil {
		return fmt.Errorf("--setup: %w", err)
	}

	if !playHeadless {
		rt.quiet()
	}

	var hooks []twisty.Hooks
	if playRecord {
		db, err := rt.openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		session := recorder.NewSession(db, rt.logger)
		id, err := session.Start(storage.SourceSimulator, twisty.FormatMoves(setup), "", version)
		if err != nil {
			return err
		}
		defer func() {
			rt.endSession(session)
			fmt.Printf("Session %s: %d moves journaled\n", id, session.MoveCount())
		}()
		hooks = append(hooks, session.Hooks())
	}

	seq, err := rt.newSequencer(playSpeed, hooks...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	rt.serveMetrics(ctx)

	if err := seq.Enqueue(append(setup, moves...)...); err != nil {
		return err
	}

	if playHeadless {
		return runHeadless(seq, rt.cfg.FrameInterval)
	}

	model := newAnimModel("twisty", seq, rt.cfg.FrameInterval)
	model.keys = true
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return seq.Err()
}

// runHeadless drains the queue at a fixed frame interval and prints the
// resulting net.
func runHeadless(seq *twisty.Sequencer, frame time.Duration) error {
	start := time.Now()
	if err := seq.Drain(frame); err != nil {
		return err
	}

	a := seq.Assembly()
	if err := a.CheckInvariant(); err != nil {
		return err
	}

	fmt.Print(a.String())
	fmt.Println()
	fmt.Printf("Moves: %d (%s)\n", len(seq.Completed()), formatDuration(time.Since(start)))
	if a.IsSolved() {
		fmt.Println("Solved")
	}
	return nil
}
