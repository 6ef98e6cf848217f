package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SeamusWaldron/twisty"
)

const scanTimeout = 5 * time.Second

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List nearby GoCube devices",
	RunE:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

// scanForGoCube scans up to maxAttempts times and returns the devices from
// the first scan that finds any.
func scanForGoCube(ctx context.Context, rt *runtime, maxAttempts int) ([]twisty.Device, error) {
	fmt.Println("Scanning for GoCube devices...")

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		devices, err := twisty.Scan(ctx, scanTimeout, twisty.WithLogger(rt.logger))
		if err != nil {
			return nil, fmt.Errorf("BLE not available: %w", err)
		}
		if len(devices) > 0 || ctx.Err() != nil {
			return devices, nil
		}
		if attempt < maxAttempts {
			fmt.Printf("Scan %d: No devices found, retrying...\n", attempt)
		}
	}
	return nil, nil
}

func printScanTips() {
	fmt.Println("No GoCube devices found.")
	fmt.Println()
	fmt.Println("To fix this:")
	fmt.Println("  1. Rotate your cube to wake it up")
	fmt.Println("  2. Make sure it's not connected to your phone")
	fmt.Println("  3. Run this command again")
}

func runScan(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}

	devices, err := scanForGoCube(cmd.Context(), rt, 1)
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		printScanTips()
		return nil
	}

	fmt.Printf("Found %d device(s):\n", len(devices))
	for _, d := range devices {
		fmt.Printf("  - %s (UUID: %s, RSSI: %d)\n", d.Name, d.UUID, d.RSSI)
	}
	return nil
}
