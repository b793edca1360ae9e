package contracts

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestNewPortfolio(t *testing.T) {
	p := NewPortfolio("u-1", decimal.RequireFromString("100000.00"))

	if p.UserID != "u-1" {
		t.Errorf("UserID = %s, want u-1", p.UserID)
	}
	if !p.CashBalance.Equal(decimal.RequireFromString("100000.00")) {
		t.Errorf("CashBalance = %s, want 100000.00", p.CashBalance)
	}
	if len(p.Holdings) != 0 {
		t.Errorf("Holdings = %d entries, want 0", len(p.Holdings))
	}
}

func TestPortfolio_GetHolding(t *testing.T) {
	p := NewPortfolio("u-1", decimal.NewFromInt(1000))
	p.Holdings["RELIANCE.NS"] = Holding{
		Symbol:       "RELIANCE.NS",
		Quantity:     10,
		AveragePrice: decimal.NewFromFloat(2840.50),
	}

	h, ok := p.GetHolding("RELIANCE.NS")
	if !ok {
		t.Fatal("Expected to find holding for RELIANCE.NS")
	}
	if h.Quantity != 10 {
		t.Errorf("Quantity = %d, want 10", h.Quantity)
	}

	_, ok = p.GetHolding("TCS.NS")
	if ok {
		t.Error("Expected not to find holding for TCS.NS")
	}
}

func TestPortfolio_Clone(t *testing.T) {
	p := NewPortfolio("u-1", decimal.NewFromInt(5000))
	p.Holdings["INFY.NS"] = Holding{
		Symbol:       "INFY.NS",
		Quantity:     3,
		AveragePrice: decimal.NewFromInt(1500),
	}
	p.Version = 7

	c := p.Clone()

	// Mutating the clone must not touch the original
	c.CashBalance = decimal.Zero
	c.Holdings["INFY.NS"] = Holding{Symbol: "INFY.NS", Quantity: 99, AveragePrice: decimal.NewFromInt(1)}
	delete(c.Holdings, "missing")

	if !p.CashBalance.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("original CashBalance changed: %s", p.CashBalance)
	}
	if p.Holdings["INFY.NS"].Quantity != 3 {
		t.Errorf("original holding changed: %d", p.Holdings["INFY.NS"].Quantity)
	}
	if c.Version != 7 {
		t.Errorf("clone Version = %d, want 7", c.Version)
	}
}

func TestPortfolio_HoldingsCost(t *testing.T) {
	p := NewPortfolio("u-1", decimal.Zero)
	p.Holdings["A"] = Holding{Symbol: "A", Quantity: 10, AveragePrice: decimal.NewFromInt(100)}
	p.Holdings["B"] = Holding{Symbol: "B", Quantity: 2, AveragePrice: decimal.NewFromFloat(50.5)}

	want := decimal.NewFromInt(1101)
	if !p.HoldingsCost().Equal(want) {
		t.Errorf("HoldingsCost() = %s, want %s", p.HoldingsCost(), want)
	}
}

func TestAction_Constants(t *testing.T) {
	if ActionBuy != "Buy" {
		t.Errorf("ActionBuy = %s, want Buy", ActionBuy)
	}
	if ActionSell != "Sell" {
		t.Errorf("ActionSell = %s, want Sell", ActionSell)
	}
	if ActionHold != "Hold" {
		t.Errorf("ActionHold = %s, want Hold", ActionHold)
	}
	if Action("buy").Valid() {
		t.Error("lowercase action should not be valid")
	}
}

func TestPortfolio_JSON(t *testing.T) {
	p := NewPortfolio("u-1", decimal.RequireFromString("98500.25"))
	p.Holdings["TCS.NS"] = Holding{
		Symbol:       "TCS.NS",
		Quantity:     5,
		AveragePrice: decimal.RequireFromString("3540.10"),
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Portfolio
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if decoded.UserID != "u-1" {
		t.Errorf("UserID = %s, want u-1", decoded.UserID)
	}
	if !decoded.CashBalance.Equal(p.CashBalance) {
		t.Errorf("CashBalance = %s, want %s", decoded.CashBalance, p.CashBalance)
	}
	if decoded.Holdings["TCS.NS"].Quantity != 5 {
		t.Errorf("Quantity = %d, want 5", decoded.Holdings["TCS.NS"].Quantity)
	}
}
