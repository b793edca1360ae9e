package indicator

import (
	"math"

	"github.com/stockwise/backend/internal/contracts"
)

// ATR computes the Wilder-smoothed Average True Range over the given
// period. Output is always >= 0; the first period outputs are NaN.
// Requires at least period+1 bars.
func ATR(bars []contracts.Bar, period int) ([]float64, error) {
	if period <= 0 {
		return nil, ErrInsufficientData
	}
	if len(bars) < period+1 {
		return nil, ErrInsufficientData
	}

	// True range needs the previous close, so it is defined from index 1.
	tr := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		hl := bars[i].High - bars[i].Low
		hc := math.Abs(bars[i].High - bars[i-1].Close)
		lc := math.Abs(bars[i].Low - bars[i-1].Close)
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	out := nanSeries(len(bars))

	// Seed with the simple average of the first period true ranges.
	var sum float64
	for i := 1; i <= period; i++ {
		sum += tr[i]
	}
	prev := sum / float64(period)
	out[period] = prev

	for i := period + 1; i < len(bars); i++ {
		prev = (prev*float64(period-1) + tr[i]) / float64(period)
		out[i] = prev
	}

	return out, nil
}
