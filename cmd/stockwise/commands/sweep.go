package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockwise/backend/internal/scheduler/jobs"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one watchlist alert sweep and exit",
	Long: `Walks every watched ticker, computes its recommendation, and
inserts a sell alert for each watching user where the model says Sell.

Example:
  go run ./cmd/stockwise sweep`,
	RunE: runSweep,
}

var sweepTimeout time.Duration

func init() {
	rootCmd.AddCommand(sweepCmd)
	sweepCmd.Flags().DurationVar(&sweepTimeout, "timeout", 10*time.Minute, "overall sweep timeout")
}

func runSweep(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp(appOptions{needDB: true})
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	job := jobs.NewAlertSweepJob(app.watchlist, app.signal, app.cfg.Scheduler.AlertSchedule, app.log)
	return job.Run(ctx)
}
