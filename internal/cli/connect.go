package cli

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/recorder"
	"github.com/SeamusWaldron/twisty/internal/storage"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Mirror a GoCube smart cube",
	Long: `Connect to a GoCube over Bluetooth and animate every turn made on the
physical cube. Moves are journaled to the database unless --no-record is set.

The virtual cube starts solved; solve the physical cube before connecting
or pass --reset to tell the device its current state is solved.`,
	RunE: runConnect,
}

var (
	connectNoRecord bool
	connectResume   bool
	connectReset    bool
)

func init() {
	rootCmd.AddCommand(connectCmd)
	connectCmd.Flags().BoolVar(&connectNoRecord, "no-record", false, "Do not journal moves")
	connectCmd.Flags().BoolVar(&connectResume, "resume", false, "Append to the last unfinished session")
	connectCmd.Flags().BoolVar(&connectReset, "reset", false, "Mark the physical cube's current state as solved")
}

func runConnect(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// Scan BEFORE starting the TUI
	devices, err := scanForGoCube(ctx, rt, 3)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		printScanTips()
		return nil
	}
	fmt.Printf("Connecting to %s...\n", devices[0].Name)

	// Device logs would tear the TUI.
	rt.quiet()

	cube, err := twisty.Connect(ctx, devices[0], twisty.WithLogger(rt.logger))
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer cube.Close()

	if connectReset {
		if err := cube.ResetSolved(); err != nil {
			return fmt.Errorf("failed to reset device: %w", err)
		}
	}

	var (
		hooks   []twisty.Hooks
		session *recorder.Session
		replay  []twisty.Move
	)
	if !connectNoRecord {
		db, err := rt.openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		session = recorder.NewSession(db, rt.logger)
		if connectResume {
			replay, err = resumeLast(db, session)
		} else {
			_, err = session.Start(storage.SourceDevice, "", cube.DeviceName(), version)
		}
		if err != nil {
			return err
		}
		defer rt.endSession(session)
		hooks = append(hooks, session.Hooks())
	}

	// Bring the virtual cube up to date without journaling the moves again.
	a, err := replayedState(rt, replay)
	if err != nil {
		return err
	}
	seq := rt.sequencerFor(a, 1, hooks...)
	rt.serveMetrics(ctx)

	inbox := twisty.NewInbox()
	cube.Forward(inbox)

	model := newAnimModel("twisty - GoCube", seq, rt.cfg.FrameInterval)
	model.inbox = inbox
	model.device = cube.DeviceName()
	model.battery = cube.Battery()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	cube.OnBattery(func(level int) { p.Send(batteryMsg(level)) })
	cube.OnDisconnect(func(err error) { p.Send(disconnectedMsg{err: err}) })
	cube.OnOrientationChange(func(o twisty.Orientation) {
		if session != nil {
			session.RecordOrientation(o)
		}
		p.Send(orientationMsg(o))
	})
	if err := cube.EnableOrientation(); err != nil {
		rt.logger.Warn("orientation tracking unavailable", "error", err)
	}
	// Flash LED on connect (with slight delay for BLE stack to settle)
	go func() {
		time.Sleep(500 * time.Millisecond)
		cube.FlashBacklight()
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return seq.Err()
}

// resumeLast reopens the newest unfinished device session and returns the
// moves it already holds.
func resumeLast(db *storage.DB, session *recorder.Session) ([]twisty.Move, error) {
	last, err := storage.NewSessionRepository(db).GetLast()
	if err != nil {
		return nil, err
	}
	if last == nil || last.EndedAt != nil || last.Source != storage.SourceDevice {
		return nil, fmt.Errorf("no unfinished device session to resume")
	}
	if err := session.Resume(last.SessionID); err != nil {
		return nil, err
	}
	return storage.NewMoveRepository(db).Moves(last.SessionID)
}
