package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/stockwise/backend/internal/contracts"
)

// MemStore is an in-memory Store. It follows the same commit protocol
// as the postgres store, version check included, so concurrency
// behavior can be exercised without a database.
type MemStore struct {
	mu           sync.Mutex
	portfolios   map[string]*contracts.Portfolio
	startingCash decimal.Decimal
	maxRetries   int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(startingCash decimal.Decimal, maxRetries int) *MemStore {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &MemStore{
		portfolios:   make(map[string]*contracts.Portfolio),
		startingCash: startingCash,
		maxRetries:   maxRetries,
	}
}

func (s *MemStore) Get(ctx context.Context, userID string) (*contracts.Portfolio, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.portfolios[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, ErrPortfolioNotFound)
	}
	return p.Clone(), nil
}

func (s *MemStore) Update(ctx context.Context, userID string, fn func(*contracts.Portfolio) error) (*contracts.Portfolio, error) {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		snapshot, version := s.load(userID)

		working := snapshot.Clone()
		if err := fn(working); err != nil {
			return nil, err
		}

		if s.commit(userID, version, working) {
			return working.Clone(), nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", userID, ErrConflict)
}

// load returns a clone of the current record and the version it had.
// Version 0 with no stored record marks a portfolio not yet persisted.
func (s *MemStore) load(userID string) (*contracts.Portfolio, int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.portfolios[userID]; ok {
		return p.Clone(), p.Version
	}
	return contracts.NewPortfolio(userID, s.startingCash), 0
}

// commit stores working if the record's version still matches expected.
func (s *MemStore) commit(userID string, expected int64, working *contracts.Portfolio) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.portfolios[userID]
	if ok && current.Version != expected {
		return false
	}
	if !ok && expected != 0 {
		return false
	}

	working.Version = expected + 1
	s.portfolios[userID] = working.Clone()
	return true
}
