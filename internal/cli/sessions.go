package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/storage"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List journaled sessions",
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Show a session's moves and final state",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSessionsShow,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a session and its moves",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

var listLimit int

func init() {
	rootCmd.AddCommand(sessionsCmd)
	sessionsCmd.AddCommand(sessionsShowCmd, sessionsDeleteCmd)
	sessionsCmd.Flags().IntVarP(&listLimit, "limit", "n", 10, "Number of sessions to show")
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	db, err := rt.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	sessions, err := storage.NewSessionRepository(db).List(listLimit)
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet")
		fmt.Println("Record one with: twisty play --record")
		return nil
	}

	moveRepo := storage.NewMoveRepository(db)

	fmt.Printf("Recent sessions (showing %d):\n", len(sessions))
	fmt.Println()
	fmt.Printf("%-36s  %-20s  %-9s  %-10s  %-6s  %s\n", "ID", "Started", "Source", "Duration", "Moves", "Device")
	fmt.Println("------------------------------------  --------------------  ---------  ----------  ------  ------")

	for _, s := range sessions {
		duration := "-"
		if s.DurationMs != nil {
			duration = formatDuration(time.Duration(*s.DurationMs) * time.Millisecond)
		}

		moves := "-"
		if n, err := moveRepo.Count(s.SessionID); err == nil && n > 0 {
			moves = fmt.Sprintf("%d", n)
		}

		device := ""
		if s.DeviceName != nil {
			device = *s.DeviceName
		}

		status := ""
		if s.EndedAt == nil {
			status = " (active)"
		}

		fmt.Printf("%-36s  %-20s  %-9s  %-10s  %-6s  %s%s\n",
			s.SessionID,
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			s.Source,
			duration,
			moves,
			device,
			status,
		)
	}

	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
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

	fmt.Printf("Session:  %s\n", session.SessionID)
	fmt.Printf("Source:   %s\n", session.Source)
	fmt.Printf("Started:  %s\n", session.StartedAt.Local().Format(time.RFC3339))
	if session.Scramble != nil {
		fmt.Printf("Scramble: %s\n", *session.Scramble)
	}
	fmt.Printf("Moves:    %d\n", len(moves))
	fmt.Println()
	fmt.Println(twisty.FormatMoves(moves))
	fmt.Println()

	a, err := replayedState(rt, moves)
	if err != nil {
		return err
	}
	fmt.Print(a.String())
	if a.IsSolved() {
		fmt.Println("Solved")
	}
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	db, err := rt.openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.NewSessionRepository(db).Delete(args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted session %s\n", args[0])
	return nil
}
