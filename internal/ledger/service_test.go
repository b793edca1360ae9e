package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/stockwise/backend/pkg/config"
	"github.com/stockwise/backend/pkg/logger"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestService() (*Service, *MemStore) {
	store := NewMemStore(dec("100000.00"), 5)
	log := logger.New(&config.Config{LogLevel: "error", LogFormat: "json", Env: "test"})
	return NewService(store, nil, log), store
}

func TestGetPortfolio_LazyCreation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.GetPortfolio(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetPortfolio: %v", err)
	}
	if !p.CashBalance.Equal(dec("100000.00")) {
		t.Errorf("cash = %s, want 100000.00", p.CashBalance)
	}
	if len(p.Holdings) != 0 {
		t.Errorf("holdings = %v, want empty", p.Holdings)
	}

	// The record persists: a second read sees the same portfolio.
	again, err := svc.GetPortfolio(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetPortfolio again: %v", err)
	}
	if again.Version != p.Version {
		t.Errorf("second read bumped version: %d vs %d", again.Version, p.Version)
	}
}

func TestBuy(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Buy(ctx, "user-1", "RELIANCE.NS", 10, dec("2500.50"))
	if err != nil {
		t.Fatalf("Buy: %v", err)
	}

	if !p.CashBalance.Equal(dec("74995.00")) {
		t.Errorf("cash = %s, want 74995.00", p.CashBalance)
	}
	h, ok := p.GetHolding("RELIANCE.NS")
	if !ok {
		t.Fatal("holding missing after buy")
	}
	if h.Quantity != 10 {
		t.Errorf("quantity = %d, want 10", h.Quantity)
	}
	if !h.AveragePrice.Equal(dec("2500.50")) {
		t.Errorf("average price = %s, want 2500.50", h.AveragePrice)
	}
}

func TestBuy_WeightedAverage(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Buy(ctx, "user-1", "TCS.NS", 10, dec("100")); err != nil {
		t.Fatalf("first buy: %v", err)
	}
	p, err := svc.Buy(ctx, "user-1", "TCS.NS", 10, dec("200"))
	if err != nil {
		t.Fatalf("second buy: %v", err)
	}

	h, _ := p.GetHolding("TCS.NS")
	if h.Quantity != 20 {
		t.Errorf("quantity = %d, want 20", h.Quantity)
	}
	if !h.AveragePrice.Equal(dec("150")) {
		t.Errorf("average price = %s, want 150", h.AveragePrice)
	}
	if !p.CashBalance.Equal(dec("97000")) {
		t.Errorf("cash = %s, want 97000", p.CashBalance)
	}
}

func TestBuy_InsufficientFunds(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	_, err := svc.Buy(ctx, "user-1", "MRF.NS", 100, dec("1500"))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want %v", err, ErrInsufficientFunds)
	}

	// The rejected buy must not have created or mutated anything.
	if _, err := store.Get(ctx, "user-1"); !errors.Is(err, ErrPortfolioNotFound) {
		t.Errorf("rejected buy persisted a portfolio: %v", err)
	}
}

func TestBuy_ExactBalance(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Buy(ctx, "user-1", "INFY.NS", 100, dec("1000"))
	if err != nil {
		t.Fatalf("Buy at exact balance: %v", err)
	}
	if !p.CashBalance.Equal(decimal.Zero) {
		t.Errorf("cash = %s, want 0", p.CashBalance)
	}
}

func TestBuy_InvalidOrders(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name     string
		symbol   string
		quantity int64
		price    decimal.Decimal
	}{
		{"zero quantity", "TCS.NS", 0, dec("100")},
		{"negative quantity", "TCS.NS", -5, dec("100")},
		{"zero price", "TCS.NS", 10, decimal.Zero},
		{"negative price", "TCS.NS", 10, dec("-1")},
		{"empty symbol", "", 10, dec("100")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Buy(ctx, "user-1", tt.symbol, tt.quantity, tt.price); !errors.Is(err, ErrInvalidOrder) {
				t.Errorf("err = %v, want %v", err, ErrInvalidOrder)
			}
		})
	}
}

func TestSell(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Buy(ctx, "user-1", "SBIN.NS", 20, dec("500")); err != nil {
		t.Fatalf("buy: %v", err)
	}

	p, err := svc.Sell(ctx, "user-1", "SBIN.NS", 5, dec("600"))
	if err != nil {
		t.Fatalf("Sell: %v", err)
	}

	// 100000 - 20*500 + 5*600 = 93000.
	if !p.CashBalance.Equal(dec("93000")) {
		t.Errorf("cash = %s, want 93000", p.CashBalance)
	}
	h, _ := p.GetHolding("SBIN.NS")
	if h.Quantity != 15 {
		t.Errorf("quantity = %d, want 15", h.Quantity)
	}
	// Selling never moves the cost basis.
	if !h.AveragePrice.Equal(dec("500")) {
		t.Errorf("average price = %s, want 500", h.AveragePrice)
	}
}

func TestSell_EntirePosition(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Buy(ctx, "user-1", "WIPRO.NS", 10, dec("400")); err != nil {
		t.Fatalf("buy: %v", err)
	}
	p, err := svc.Sell(ctx, "user-1", "WIPRO.NS", 10, dec("450"))
	if err != nil {
		t.Fatalf("Sell: %v", err)
	}
	if _, ok := p.GetHolding("WIPRO.NS"); ok {
		t.Error("holding still present after selling the entire position")
	}
}

func TestSell_InsufficientShares(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	if _, err := svc.Buy(ctx, "user-1", "TCS.NS", 5, dec("100")); err != nil {
		t.Fatalf("buy: %v", err)
	}

	_, err := svc.Sell(ctx, "user-1", "TCS.NS", 6, dec("100"))
	if !errors.Is(err, ErrInsufficientShares) {
		t.Fatalf("err = %v, want %v", err, ErrInsufficientShares)
	}

	// Unowned symbol behaves the same.
	_, err = svc.Sell(ctx, "user-1", "HDFCBANK.NS", 1, dec("100"))
	if !errors.Is(err, ErrInsufficientShares) {
		t.Fatalf("err = %v, want %v", err, ErrInsufficientShares)
	}

	// State untouched by either rejection.
	p, err := store.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if h, _ := p.GetHolding("TCS.NS"); h.Quantity != 5 {
		t.Errorf("quantity = %d, want 5", h.Quantity)
	}
	if !p.CashBalance.Equal(dec("99500")) {
		t.Errorf("cash = %s, want 99500", p.CashBalance)
	}
}

func TestSell_NoPortfolio(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Sell(context.Background(), "ghost", "TCS.NS", 1, dec("100"))
	if !errors.Is(err, ErrPortfolioNotFound) {
		t.Fatalf("err = %v, want %v", err, ErrPortfolioNotFound)
	}
}

func TestBuy_ConcurrentOverdraw(t *testing.T) {
	// Two concurrent buys each cost 60000 against 100000 cash. The
	// version check must let exactly one commit.
	svc, store := newTestService()
	ctx := context.Background()

	if _, err := svc.GetPortfolio(ctx, "user-1"); err != nil {
		t.Fatalf("seed portfolio: %v", err)
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Buy(ctx, "user-1", "RELIANCE.NS", 30, dec("2000"))
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInsufficientFunds):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || rejected != 1 {
		t.Fatalf("succeeded=%d rejected=%d, want exactly one of each", succeeded, rejected)
	}

	p, err := store.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !p.CashBalance.Equal(dec("40000")) {
		t.Errorf("cash = %s, want 40000", p.CashBalance)
	}
	if h, _ := p.GetHolding("RELIANCE.NS"); h.Quantity != 30 {
		t.Errorf("quantity = %d, want 30", h.Quantity)
	}
}

func TestBuy_ConcurrentDifferentUsers(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	var wg sync.WaitGroup
	users := []string{"alice", "bob", "carol", "dave"}
	errs := make([]error, len(users))
	for i, u := range users {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			_, errs[i] = svc.Buy(ctx, u, "TCS.NS", 10, dec("100"))
		}(i, u)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("user %s: %v", users[i], err)
		}
	}
	for _, u := range users {
		p, err := store.Get(ctx, u)
		if err != nil {
			t.Fatalf("Get %s: %v", u, err)
		}
		if !p.CashBalance.Equal(dec("99000")) {
			t.Errorf("%s cash = %s, want 99000", u, p.CashBalance)
		}
	}
}
