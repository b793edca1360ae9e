package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <ticker>",
	Short: "Print the current recommendation for a ticker",
	Long: `Fetches history, computes the feature vector, queries the
direction model, and prints the resulting recommendation.

Example:
  go run ./cmd/stockwise recommend RELIANCE.NS`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

func init() {
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	ticker := args[0]
	rec, err := app.signal.GetRecommendation(ctx, ticker)
	if err != nil {
		return fmt.Errorf("recommend %s: %w", ticker, err)
	}

	fmt.Printf("%s: %s (confidence %.2f%%)\n", rec.Ticker, rec.Action, rec.Confidence)
	return nil
}
