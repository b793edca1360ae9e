// Package jobs holds the scheduled background jobs.
package jobs

import (
	"context"
	"fmt"

	"github.com/stockwise/backend/internal/contracts"
	"github.com/stockwise/backend/internal/watchlist"
	"github.com/stockwise/backend/pkg/logger"
)

// Recommender computes the current recommendation for a ticker.
type Recommender interface {
	GetRecommendation(ctx context.Context, ticker string) (*contracts.Recommendation, error)
}

// AlertSweepJob walks every watched ticker, computes its
// recommendation once, and raises an alert for each watching user when
// the result is a sell.
type AlertSweepJob struct {
	repo        *watchlist.Repository
	recommender Recommender
	schedule    string
	logger      *logger.Logger
}

// NewAlertSweepJob creates the sweep with a cron schedule expression.
func NewAlertSweepJob(repo *watchlist.Repository, recommender Recommender, schedule string, log *logger.Logger) *AlertSweepJob {
	return &AlertSweepJob{
		repo:        repo,
		recommender: recommender,
		schedule:    schedule,
		logger:      log,
	}
}

func (j *AlertSweepJob) Name() string {
	return "watchlist_alert_sweep"
}

func (j *AlertSweepJob) Schedule() string {
	return j.schedule
}

// Run executes one sweep. A ticker that fails to produce a
// recommendation is skipped; the sweep continues with the rest.
func (j *AlertSweepJob) Run(ctx context.Context) error {
	tickers, err := j.repo.DistinctTickers(ctx)
	if err != nil {
		return fmt.Errorf("list watched tickers: %w", err)
	}

	var alerts, skipped int
	for _, ticker := range tickers {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rec, err := j.recommender.GetRecommendation(ctx, ticker)
		if err != nil {
			j.logger.WithError(err).WithField("ticker", ticker).Warn("Sweep skipped ticker")
			skipped++
			continue
		}
		if rec.Action != contracts.ActionSell {
			continue
		}

		users, err := j.repo.UsersWatching(ctx, ticker)
		if err != nil {
			j.logger.WithError(err).WithField("ticker", ticker).Warn("Failed to list watchers")
			skipped++
			continue
		}

		for _, userID := range users {
			if err := j.repo.InsertAlert(ctx, userID, ticker, string(rec.Action), rec.Confidence); err != nil {
				j.logger.WithError(err).WithFields(map[string]interface{}{
					"ticker":  ticker,
					"user_id": userID,
				}).Warn("Failed to insert alert")
				continue
			}
			alerts++
		}
	}

	j.logger.WithFields(map[string]interface{}{
		"tickers": len(tickers),
		"alerts":  alerts,
		"skipped": skipped,
	}).Info("Alert sweep completed")
	return nil
}
