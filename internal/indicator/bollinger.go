package indicator

import (
	"math"

	"github.com/stockwise/backend/internal/contracts"
)

// BollingerResult holds the three aligned band series.
type BollingerResult struct {
	Lower []float64
	Mid   []float64
	Upper []float64
}

// Bollinger computes Bollinger Bands: a period-length simple moving
// average with bands k standard deviations wide. The first period-1
// outputs are NaN.
func Bollinger(bars []contracts.Bar, period int, k float64) (*BollingerResult, error) {
	if period <= 1 || k <= 0 {
		return nil, ErrInsufficientData
	}
	if len(bars) < period {
		return nil, ErrInsufficientData
	}

	c := closes(bars)
	mid := sma(c, period)
	lower := nanSeries(len(c))
	upper := nanSeries(len(c))

	for i := period - 1; i < len(c); i++ {
		var variance float64
		for j := i - period + 1; j <= i; j++ {
			d := c[j] - mid[i]
			variance += d * d
		}
		sigma := math.Sqrt(variance / float64(period))
		lower[i] = mid[i] - k*sigma
		upper[i] = mid[i] + k*sigma
	}

	return &BollingerResult{Lower: lower, Mid: mid, Upper: upper}, nil
}
