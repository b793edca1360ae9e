package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/stockwise/backend/internal/contracts"
	"github.com/stockwise/backend/pkg/database"
	"github.com/stockwise/backend/pkg/logger"
)

// PostgresStore keeps one row per user in the portfolios table:
//
//	user_id  TEXT PRIMARY KEY
//	cash     NUMERIC(18,2) NOT NULL
//	holdings JSONB NOT NULL
//	version  BIGINT NOT NULL
//
// Commits are guarded by the version column. A lost race shows up as
// zero affected rows and the read-modify-write loop starts over.
type PostgresStore struct {
	db           *database.DB
	startingCash decimal.Decimal
	maxRetries   int
	logger       *logger.Logger
}

// NewPostgresStore creates a postgres-backed Store.
func NewPostgresStore(db *database.DB, startingCash decimal.Decimal, maxRetries int, log *logger.Logger) *PostgresStore {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &PostgresStore{
		db:           db,
		startingCash: startingCash,
		maxRetries:   maxRetries,
		logger:       log,
	}
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (*contracts.Portfolio, error) {
	p, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("user %s: %w", userID, ErrPortfolioNotFound)
	}
	return p, nil
}

func (s *PostgresStore) Update(ctx context.Context, userID string, fn func(*contracts.Portfolio) error) (*contracts.Portfolio, error) {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		current, err := s.load(ctx, userID)
		if err != nil {
			return nil, err
		}

		var working *contracts.Portfolio
		if current == nil {
			working = contracts.NewPortfolio(userID, s.startingCash)
		} else {
			working = current.Clone()
		}

		if err := fn(working); err != nil {
			return nil, err
		}

		committed, err := s.commit(ctx, working, current == nil)
		if err != nil {
			return nil, err
		}
		if committed {
			return working, nil
		}

		s.logger.WithField("user_id", userID).Debug("Portfolio version conflict, retrying")
	}
	return nil, fmt.Errorf("user %s: %w", userID, ErrConflict)
}

// load returns the stored portfolio, or nil when the user has no row.
func (s *PostgresStore) load(ctx context.Context, userID string) (*contracts.Portfolio, error) {
	var (
		cash     string
		holdings []byte
		version  int64
	)
	err := s.db.Pool.QueryRow(ctx,
		`SELECT cash::text, holdings, version FROM portfolios WHERE user_id = $1`,
		userID,
	).Scan(&cash, &holdings, &version)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load portfolio for %s: %w", userID, err)
	}

	cashDec, err := decimal.NewFromString(cash)
	if err != nil {
		return nil, fmt.Errorf("parse cash for %s: %w", userID, err)
	}

	p := &contracts.Portfolio{
		UserID:      userID,
		CashBalance: cashDec,
		Holdings:    make(map[string]contracts.Holding),
		Version:     version,
	}
	if err := json.Unmarshal(holdings, &p.Holdings); err != nil {
		return nil, fmt.Errorf("decode holdings for %s: %w", userID, err)
	}
	return p, nil
}

// commit writes working back. For a first-time portfolio it inserts;
// otherwise it updates under the version check. Returns false when a
// concurrent writer won the race.
func (s *PostgresStore) commit(ctx context.Context, working *contracts.Portfolio, insert bool) (bool, error) {
	holdings, err := json.Marshal(working.Holdings)
	if err != nil {
		return false, fmt.Errorf("encode holdings for %s: %w", working.UserID, err)
	}

	if insert {
		tag, err := s.db.Pool.Exec(ctx,
			`INSERT INTO portfolios (user_id, cash, holdings, version)
			 VALUES ($1, $2, $3, 1)
			 ON CONFLICT (user_id) DO NOTHING`,
			working.UserID, working.CashBalance.String(), holdings,
		)
		if err != nil {
			return false, fmt.Errorf("insert portfolio for %s: %w", working.UserID, err)
		}
		if tag.RowsAffected() == 0 {
			return false, nil
		}
		working.Version = 1
		return true, nil
	}

	tag, err := s.db.Pool.Exec(ctx,
		`UPDATE portfolios
		 SET cash = $1, holdings = $2, version = version + 1
		 WHERE user_id = $3 AND version = $4`,
		working.CashBalance.String(), holdings, working.UserID, working.Version,
	)
	if err != nil {
		return false, fmt.Errorf("update portfolio for %s: %w", working.UserID, err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	working.Version++
	return true, nil
}
