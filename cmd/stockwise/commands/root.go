package commands

import (
	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "stockwise",
	Short: "StockWise - model-backed trading assistant backend",
	Long: `StockWise backend CLI

Serves trade recommendations from a direction model, a simulated
portfolio ledger, watchlists with sell alerts, news, and a screener.

Examples:
  go run ./cmd/stockwise api
  go run ./cmd/stockwise sweep
  go run ./cmd/stockwise recommend RELIANCE.NS`,
}

// Execute runs the CLI. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
