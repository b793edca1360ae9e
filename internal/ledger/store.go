// Package ledger keeps per-user cash and holdings with transactional
// buy and sell semantics.
package ledger

import (
	"context"

	"github.com/stockwise/backend/internal/contracts"
)

// Store persists portfolios. Update is the only mutation path: it
// applies fn to a private copy of the user's portfolio and commits the
// result atomically under an optimistic version check, retrying a
// bounded number of times on concurrent modification. If fn returns an
// error the stored record is left untouched and the error is returned
// unchanged.
//
// A user with no record yet is handed a fresh portfolio with the
// configured starting cash; it is persisted on the first successful
// commit.
type Store interface {
	// Get returns the user's portfolio, or ErrPortfolioNotFound.
	Get(ctx context.Context, userID string) (*contracts.Portfolio, error)

	// Update atomically applies fn and returns the committed state.
	Update(ctx context.Context, userID string, fn func(*contracts.Portfolio) error) (*contracts.Portfolio, error)
}
