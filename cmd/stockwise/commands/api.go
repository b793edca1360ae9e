package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockwise/backend/internal/api"
	"github.com/stockwise/backend/internal/api/handlers"
	"github.com/stockwise/backend/internal/scheduler"
	"github.com/stockwise/backend/internal/scheduler/jobs"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health
  GET  /api/recommendation/{ticker}
  GET  /api/portfolio            (auth)
  POST /api/portfolio/buy        (auth)
  POST /api/portfolio/sell       (auth)
  GET  /api/watchlist            (auth)
  GET  /api/alerts               (auth)
  GET  /api/news/{ticker}
  GET  /api/screener
  GET  /api/quotes/{ticker}[/stream]
  GET  /metrics

Example:
  go run ./cmd/stockwise api
  go run ./cmd/stockwise api --port 8090`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().StringVar(&apiPort, "port", "", "override the configured port")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	app, cleanup, err := newApp(appOptions{needDB: true, needMetrics: true})
	if err != nil {
		return err
	}
	defer cleanup()

	if apiPort != "" {
		app.cfg.Port = apiPort
	}

	h := api.Handlers{
		Health:         handlers.NewHealthHandler(app.db, app.log),
		Recommendation: handlers.NewRecommendationHandler(app.signal, app.log),
		Portfolio:      handlers.NewPortfolioHandler(app.ledger, app.log),
		Watchlist:      handlers.NewWatchlistHandler(app.watchlist, app.log),
		News:           handlers.NewNewsHandler(app.news, app.log),
		Quotes:         handlers.NewQuotesHandler(app.market, app.log),
	}
	if app.screener != nil {
		h.Screener = handlers.NewScreenerHandler(app.screener, app.log)
	}

	router := api.NewRouter(h, app.cfg, app.recorder, app.log)
	server := api.New(app.cfg, app.log, router)

	var sched *scheduler.Scheduler
	if app.cfg.Scheduler.Enabled {
		sched = scheduler.New(app.log)
		sweep := jobs.NewAlertSweepJob(app.watchlist, app.signal, app.cfg.Scheduler.AlertSchedule, app.log)
		if err := sched.AddJob(sweep); err != nil {
			return fmt.Errorf("register alert sweep: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	go func() {
		if err := server.Start(); err != nil {
			app.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", app.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	app.log.Info("Server stopped")
	return nil
}
