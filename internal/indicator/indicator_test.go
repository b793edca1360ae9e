package indicator

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stockwise/backend/internal/contracts"
)

// barsFromCloses builds a daily series where high/low hug the close.
func barsFromCloses(closes ...float64) []contracts.Bar {
	bars := make([]contracts.Bar, len(closes))
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = contracts.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c,
			Low:    c,
			Close:  c,
			Volume: 1000,
		}
	}
	return bars
}

func constantBars(n int, price float64) []contracts.Bar {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = price
	}
	return barsFromCloses(closes...)
}

func risingBars(n int) []contracts.Bar {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return barsFromCloses(closes...)
}

func TestRSI_InsufficientData(t *testing.T) {
	_, err := RSI(constantBars(14, 100), 14) // needs period+1
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestRSI_AllGains(t *testing.T) {
	out, err := RSI(risingBars(30), 14)
	if err != nil {
		t.Fatalf("RSI failed: %v", err)
	}
	if len(out) != 30 {
		t.Fatalf("len = %d, want 30", len(out))
	}

	// Warm-up prefix is NaN
	for i := 0; i < 14; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("out[%d] = %v, want NaN", i, out[i])
		}
	}

	// Monotonic gains produce RSI 100
	for i := 14; i < 30; i++ {
		if out[i] != 100.0 {
			t.Errorf("out[%d] = %v, want 100", i, out[i])
		}
	}
}

func TestRSI_Bounds(t *testing.T) {
	closes := []float64{
		100, 102, 101, 105, 103, 99, 98, 104, 107, 105,
		102, 108, 110, 109, 111, 107, 106, 112, 115, 113,
	}
	out, err := RSI(barsFromCloses(closes...), 14)
	if err != nil {
		t.Fatalf("RSI failed: %v", err)
	}
	for i := 14; i < len(out); i++ {
		if out[i] < 0 || out[i] > 100 {
			t.Errorf("out[%d] = %v, outside [0,100]", i, out[i])
		}
	}
}

func TestEMA_ConstantSeries(t *testing.T) {
	out, err := EMA(constantBars(60, 250), 50)
	if err != nil {
		t.Fatalf("EMA failed: %v", err)
	}
	for i := 0; i < 49; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("out[%d] = %v, want NaN", i, out[i])
		}
	}
	for i := 49; i < 60; i++ {
		if math.Abs(out[i]-250) > 1e-9 {
			t.Errorf("out[%d] = %v, want 250", i, out[i])
		}
	}
}

func TestEMA_InsufficientData(t *testing.T) {
	_, err := EMA(constantBars(49, 100), 50)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestEMA_TracksTrend(t *testing.T) {
	out, err := EMA(risingBars(40), 10)
	if err != nil {
		t.Fatalf("EMA failed: %v", err)
	}
	// EMA of a rising series rises and lags below the close
	last := len(out) - 1
	if out[last] <= out[last-1] {
		t.Errorf("EMA not rising: %v then %v", out[last-1], out[last])
	}
	if out[last] >= 100+float64(last) {
		t.Errorf("EMA %v should lag below the last close %v", out[last], 100+float64(last))
	}
}

func TestMACD_ConstantSeries(t *testing.T) {
	res, err := MACD(constantBars(60, 500), 12, 26, 9)
	if err != nil {
		t.Fatalf("MACD failed: %v", err)
	}

	// Line defined from slow-1
	for i := 0; i < 25; i++ {
		if !math.IsNaN(res.Line[i]) {
			t.Errorf("Line[%d] = %v, want NaN", i, res.Line[i])
		}
	}
	// Flat prices leave both EMAs identical
	for i := 25; i < 60; i++ {
		if math.Abs(res.Line[i]) > 1e-9 {
			t.Errorf("Line[%d] = %v, want 0", i, res.Line[i])
		}
	}
	// Signal and histogram defined from slow+signal-2
	for i := 0; i < 33; i++ {
		if !math.IsNaN(res.Histogram[i]) {
			t.Errorf("Histogram[%d] = %v, want NaN", i, res.Histogram[i])
		}
	}
	for i := 33; i < 60; i++ {
		if math.Abs(res.Signal[i]) > 1e-9 || math.Abs(res.Histogram[i]) > 1e-9 {
			t.Errorf("Signal/Histogram[%d] = %v/%v, want 0/0", i, res.Signal[i], res.Histogram[i])
		}
	}
}

func TestMACD_InsufficientData(t *testing.T) {
	_, err := MACD(constantBars(33, 100), 12, 26, 9) // needs 34
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestBollinger_ConstantSeries(t *testing.T) {
	res, err := Bollinger(constantBars(25, 180), 20, 2)
	if err != nil {
		t.Fatalf("Bollinger failed: %v", err)
	}
	for i := 19; i < 25; i++ {
		if res.Lower[i] != 180 || res.Mid[i] != 180 || res.Upper[i] != 180 {
			t.Errorf("bands[%d] = %v/%v/%v, want 180/180/180", i, res.Lower[i], res.Mid[i], res.Upper[i])
		}
	}
}

func TestBollinger_Ordering(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i))
	}
	res, err := Bollinger(barsFromCloses(closes...), 20, 2)
	if err != nil {
		t.Fatalf("Bollinger failed: %v", err)
	}
	for i := 19; i < 30; i++ {
		if !(res.Lower[i] <= res.Mid[i] && res.Mid[i] <= res.Upper[i]) {
			t.Errorf("band ordering violated at %d: %v/%v/%v", i, res.Lower[i], res.Mid[i], res.Upper[i])
		}
	}
}

func TestATR_FlatSeries(t *testing.T) {
	out, err := ATR(constantBars(20, 100), 14)
	if err != nil {
		t.Fatalf("ATR failed: %v", err)
	}
	for i := 0; i < 14; i++ {
		if !math.IsNaN(out[i]) {
			t.Errorf("out[%d] = %v, want NaN", i, out[i])
		}
	}
	// High == low == close everywhere, so the true range is zero
	for i := 14; i < 20; i++ {
		if out[i] != 0 {
			t.Errorf("out[%d] = %v, want 0", i, out[i])
		}
	}
}

func TestATR_NonNegative(t *testing.T) {
	bars := risingBars(40)
	for i := range bars {
		bars[i].High = bars[i].Close + 2
		bars[i].Low = bars[i].Close - 2
	}
	out, err := ATR(bars, 14)
	if err != nil {
		t.Fatalf("ATR failed: %v", err)
	}
	for i := 14; i < len(out); i++ {
		if out[i] < 0 {
			t.Errorf("out[%d] = %v, want >= 0", i, out[i])
		}
	}
}

func TestStochastic_CloseAtHigh(t *testing.T) {
	res, err := Stochastic(risingBars(20), 14, 3)
	if err != nil {
		t.Fatalf("Stochastic failed: %v", err)
	}
	// Close of a rising flat-range series sits at the window high
	for i := 13; i < 20; i++ {
		if res.K[i] != 100.0 {
			t.Errorf("K[%d] = %v, want 100", i, res.K[i])
		}
	}
	for i := 15; i < 20; i++ {
		if math.Abs(res.D[i]-100.0) > 1e-9 {
			t.Errorf("D[%d] = %v, want 100", i, res.D[i])
		}
	}
}

func TestStochastic_FlatRange(t *testing.T) {
	res, err := Stochastic(constantBars(20, 100), 14, 3)
	if err != nil {
		t.Fatalf("Stochastic failed: %v", err)
	}
	if res.K[19] != 50.0 {
		t.Errorf("K[19] = %v, want 50 for a flat range", res.K[19])
	}
}

func TestOBV(t *testing.T) {
	bars := barsFromCloses(100, 102, 101, 101, 105)
	for i := range bars {
		bars[i].Volume = 10
	}

	out, err := OBV(bars)
	if err != nil {
		t.Fatalf("OBV failed: %v", err)
	}

	want := []float64{0, 10, 0, 0, 10}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestOBV_Empty(t *testing.T) {
	_, err := OBV(nil)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestIndicators_DoNotMutateInput(t *testing.T) {
	bars := risingBars(250)
	snapshot := make([]contracts.Bar, len(bars))
	copy(snapshot, bars)

	if _, err := RSI(bars, 14); err != nil {
		t.Fatal(err)
	}
	if _, err := EMA(bars, 200); err != nil {
		t.Fatal(err)
	}
	if _, err := MACD(bars, 12, 26, 9); err != nil {
		t.Fatal(err)
	}
	if _, err := Bollinger(bars, 20, 2); err != nil {
		t.Fatal(err)
	}
	if _, err := ATR(bars, 14); err != nil {
		t.Fatal(err)
	}
	if _, err := Stochastic(bars, 14, 3); err != nil {
		t.Fatal(err)
	}
	if _, err := OBV(bars); err != nil {
		t.Fatal(err)
	}

	for i := range bars {
		if bars[i] != snapshot[i] {
			t.Fatalf("input mutated at index %d", i)
		}
	}
}
