package contracts

import "github.com/shopspring/decimal"

// Holding is one open position inside a portfolio. Quantity is always
// positive; a position that reaches zero is removed from the portfolio
// instead of being kept around.
type Holding struct {
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
	// AveragePrice is the volume-weighted cost basis, updated on every
	// additional buy. It is not the last trade price.
	AveragePrice decimal.Decimal `json:"averagePrice"`
}

// Portfolio is the simulated cash-and-holdings ledger record for one user.
// It is owned exclusively by that user; only the ledger mutates it.
type Portfolio struct {
	UserID      string             `json:"userId"`
	CashBalance decimal.Decimal    `json:"cashBalance"`
	Holdings    map[string]Holding `json:"holdings"`
	// Version increments on every committed mutation and backs the
	// optimistic-concurrency check in the account store.
	Version int64 `json:"-"`
}

// NewPortfolio returns an Active portfolio with the given starting cash
// and no holdings.
func NewPortfolio(userID string, startingCash decimal.Decimal) *Portfolio {
	return &Portfolio{
		UserID:      userID,
		CashBalance: startingCash,
		Holdings:    make(map[string]Holding),
	}
}

// GetHolding returns the holding for a symbol, if present.
func (p *Portfolio) GetHolding(symbol string) (Holding, bool) {
	h, ok := p.Holdings[symbol]
	return h, ok
}

// Clone returns a deep copy. Stores hand clones to mutation closures so a
// failed validation leaves the original record untouched.
func (p *Portfolio) Clone() *Portfolio {
	holdings := make(map[string]Holding, len(p.Holdings))
	for k, v := range p.Holdings {
		holdings[k] = v
	}
	return &Portfolio{
		UserID:      p.UserID,
		CashBalance: p.CashBalance,
		Holdings:    holdings,
		Version:     p.Version,
	}
}

// HoldingsCost returns the total cost basis of all open positions.
func (p *Portfolio) HoldingsCost() decimal.Decimal {
	total := decimal.Zero
	for _, h := range p.Holdings {
		total = total.Add(h.AveragePrice.Mul(decimal.NewFromInt(h.Quantity)))
	}
	return total
}
