package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stockwise/backend/internal/contracts"
	"github.com/stockwise/backend/pkg/logger"
	"github.com/stockwise/backend/pkg/metrics"
)

// ErrInvalidOrder means the order parameters fail basic validation,
// e.g. non-positive quantity or price.
var ErrInvalidOrder = errors.New("invalid order")

// Service executes buys and sells against the portfolio store. All
// validation happens inside the store's update closure, so a rejected
// order never changes the stored record.
type Service struct {
	store    Store
	recorder *metrics.Recorder
	logger   *logger.Logger
}

// NewService creates a ledger service on top of store.
func NewService(store Store, recorder *metrics.Recorder, log *logger.Logger) *Service {
	return &Service{store: store, recorder: recorder, logger: log}
}

// GetPortfolio returns the user's portfolio, creating it with the
// starting cash balance on first access.
func (s *Service) GetPortfolio(ctx context.Context, userID string) (*contracts.Portfolio, error) {
	p, err := s.store.Get(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, ErrPortfolioNotFound) {
		return nil, err
	}

	// First access: commit the initial record via a no-op update.
	return s.store.Update(ctx, userID, func(*contracts.Portfolio) error { return nil })
}

// Buy purchases quantity shares of symbol at price. The cash balance
// is debited by quantity*price and the holding's average price is
// re-weighted across the old and new shares.
func (s *Service) Buy(ctx context.Context, userID, symbol string, quantity int64, price decimal.Decimal) (*contracts.Portfolio, error) {
	if err := validateOrder(symbol, quantity, price); err != nil {
		return nil, err
	}

	cost := price.Mul(decimal.NewFromInt(quantity))

	p, err := s.store.Update(ctx, userID, func(p *contracts.Portfolio) error {
		if p.CashBalance.LessThan(cost) {
			return fmt.Errorf("buy %d %s at %s needs %s, have %s: %w",
				quantity, symbol, price, cost, p.CashBalance, ErrInsufficientFunds)
		}
		p.CashBalance = p.CashBalance.Sub(cost)

		h, ok := p.Holdings[symbol]
		if !ok {
			p.Holdings[symbol] = contracts.Holding{
				Symbol:       symbol,
				Quantity:     quantity,
				AveragePrice: price,
			}
			return nil
		}

		// Weighted average over existing and newly bought shares.
		oldCost := h.AveragePrice.Mul(decimal.NewFromInt(h.Quantity))
		newQty := h.Quantity + quantity
		h.AveragePrice = oldCost.Add(cost).Div(decimal.NewFromInt(newQty))
		h.Quantity = newQty
		p.Holdings[symbol] = h
		return nil
	})

	s.observeTrade("buy", userID, symbol, quantity, err)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Sell disposes quantity shares of symbol at price. The cash balance
// is credited with the proceeds; the holding's average price never
// changes on a sell and the holding disappears when its quantity
// reaches zero.
func (s *Service) Sell(ctx context.Context, userID, symbol string, quantity int64, price decimal.Decimal) (*contracts.Portfolio, error) {
	if err := validateOrder(symbol, quantity, price); err != nil {
		return nil, err
	}

	// Selling never creates a portfolio; reject unknown users up front.
	if _, err := s.store.Get(ctx, userID); err != nil {
		return nil, err
	}

	proceeds := price.Mul(decimal.NewFromInt(quantity))

	p, err := s.store.Update(ctx, userID, func(p *contracts.Portfolio) error {
		h, ok := p.Holdings[symbol]
		if !ok || h.Quantity < quantity {
			return fmt.Errorf("sell %d %s, have %d: %w",
				quantity, symbol, h.Quantity, ErrInsufficientShares)
		}

		p.CashBalance = p.CashBalance.Add(proceeds)
		h.Quantity -= quantity
		if h.Quantity == 0 {
			delete(p.Holdings, symbol)
		} else {
			p.Holdings[symbol] = h
		}
		return nil
	})

	s.observeTrade("sell", userID, symbol, quantity, err)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) observeTrade(side, userID, symbol string, quantity int64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
		if errors.Is(err, ErrConflict) && s.recorder != nil {
			s.recorder.RecordLedgerConflict()
		}
	}
	if s.recorder != nil {
		s.recorder.RecordTrade(side, outcome)
	}

	entry := s.logger.WithFields(map[string]interface{}{
		"user_id":  userID,
		"side":     side,
		"symbol":   symbol,
		"quantity": quantity,
	})
	if err != nil {
		entry.WithError(err).Warn("Trade rejected")
	} else {
		entry.Info("Trade executed")
	}
}

func validateOrder(symbol string, quantity int64, price decimal.Decimal) error {
	if symbol == "" {
		return fmt.Errorf("empty symbol: %w", ErrInvalidOrder)
	}
	if quantity <= 0 {
		return fmt.Errorf("quantity %d: %w", quantity, ErrInvalidOrder)
	}
	if !price.IsPositive() {
		return fmt.Errorf("price %s: %w", price, ErrInvalidOrder)
	}
	return nil
}
