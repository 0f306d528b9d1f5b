package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"canvassak/internal/debug"
	"canvassak/internal/telemetry"
)

var (
	verboseFlag bool
	quietFlag   bool

	// Signal-aware context for graceful cancellation
	rootCtx    context.Context
	rootCancel context.CancelFunc

	commandStart time.Time
)

var rootCmd = &cobra.Command{
	Use:   "canvas-sak",
	Short: "Swiss-army knife for Canvas course management",
	Long: `canvas-sak automates the Canvas chores the web UI makes tedious:
deriving assignment scores from formulas over other assignments,
validating course setup (due dates, lock-date consistency, broken
links), and bulk-editing due dates from a simple text file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commandStart = time.Now()
		debug.SetVerbose(verboseFlag)
		debug.SetQuiet(quietFlag)
		if err := telemetry.Init(rootCtx, "canvas-sak", Version); err != nil {
			warn("telemetry init failed: %v", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		telemetry.RecordCommand(rootCtx, cmd.Name(), time.Since(commandStart))
		telemetry.Shutdown(rootCtx)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose/debug output")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress non-essential output (errors only)")
}

func main() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer rootCancel()

	if err := rootCmd.ExecuteContext(rootCtx); err != nil {
		errorf("%v", err)
		os.Exit(2)
	}
}
