// Package cli implements the command-line interface for twisty.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	// Global flags
	configPath  string
	dbPath      string
	metricsAddr string
	logLevel    string
	verbose     bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "twisty",
	Short: "Animated 3x3x3 cube sequencer",
	Long: `twisty - An animated 3x3x3 twisty cube.

Type moves in standard notation and watch them animate one at a time,
mirror a GoCube smart cube over Bluetooth, and replay journaled sessions.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file path (default: ~/.twisty/twisty.db)")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :2112)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
