// Package watchlist stores per-user ticker watchlists and the sell
// alerts raised against them.
package watchlist

import (
	"context"
	"fmt"
	"time"

	"github.com/stockwise/backend/pkg/database"
	"github.com/stockwise/backend/pkg/logger"
)

// Item is one watched ticker.
type Item struct {
	Ticker  string    `json:"ticker"`
	AddedAt time.Time `json:"added_at"`
}

// Alert records a sell recommendation raised for a watched ticker.
type Alert struct {
	ID         int64     `json:"id"`
	Ticker     string    `json:"ticker"`
	Action     string    `json:"action"`
	Confidence float64   `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}

// Repository persists watchlists and alerts in postgres.
type Repository struct {
	db     *database.DB
	logger *logger.Logger
}

// NewRepository creates a postgres-backed repository.
func NewRepository(db *database.DB, log *logger.Logger) *Repository {
	return &Repository{db: db, logger: log}
}

// Add puts ticker on the user's watchlist. Adding a ticker twice is a
// no-op.
func (r *Repository) Add(ctx context.Context, userID, ticker string) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO watchlist (user_id, ticker, created_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (user_id, ticker) DO NOTHING`,
		userID, ticker,
	)
	if err != nil {
		return fmt.Errorf("add %s to watchlist for %s: %w", ticker, userID, err)
	}
	return nil
}

// Remove deletes ticker from the user's watchlist.
func (r *Repository) Remove(ctx context.Context, userID, ticker string) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM watchlist WHERE user_id = $1 AND ticker = $2`,
		userID, ticker,
	)
	if err != nil {
		return fmt.Errorf("remove %s from watchlist for %s: %w", ticker, userID, err)
	}
	return nil
}

// List returns the user's watched tickers, most recently added first.
func (r *Repository) List(ctx context.Context, userID string) ([]Item, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT ticker, created_at FROM watchlist
		 WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list watchlist for %s: %w", userID, err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.Ticker, &it.AddedAt); err != nil {
			return nil, fmt.Errorf("scan watchlist row: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// DistinctTickers returns every ticker watched by at least one user.
// The alert sweep computes each recommendation once per ticker.
func (r *Repository) DistinctTickers(ctx context.Context) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT DISTINCT ticker FROM watchlist ORDER BY ticker`)
	if err != nil {
		return nil, fmt.Errorf("list distinct watched tickers: %w", err)
	}
	defer rows.Close()

	tickers := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan ticker row: %w", err)
		}
		tickers = append(tickers, t)
	}
	return tickers, rows.Err()
}

// UsersWatching returns the users who have ticker on their watchlist.
func (r *Repository) UsersWatching(ctx context.Context, ticker string) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT user_id FROM watchlist WHERE ticker = $1`, ticker)
	if err != nil {
		return nil, fmt.Errorf("list users watching %s: %w", ticker, err)
	}
	defer rows.Close()

	users := make([]string, 0)
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// InsertAlert records an alert for one user and ticker.
func (r *Repository) InsertAlert(ctx context.Context, userID, ticker, action string, confidence float64) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO alerts (user_id, ticker, action, confidence, created_at)
		 VALUES ($1, $2, $3, $4, NOW())`,
		userID, ticker, action, confidence,
	)
	if err != nil {
		return fmt.Errorf("insert alert %s/%s for %s: %w", ticker, action, userID, err)
	}
	return nil
}

// Alerts returns the user's alerts, newest first, capped at limit.
func (r *Repository) Alerts(ctx context.Context, userID string, limit int) ([]Alert, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, ticker, action, confidence, created_at FROM alerts
		 WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list alerts for %s: %w", userID, err)
	}
	defer rows.Close()

	alerts := make([]Alert, 0)
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.Ticker, &a.Action, &a.Confidence, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert row: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
