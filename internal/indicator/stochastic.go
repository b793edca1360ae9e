package indicator

import (
	"github.com/stockwise/backend/internal/contracts"
)

// StochasticResult holds the %K and %D series.
type StochasticResult struct {
	K []float64
	D []float64
}

// Stochastic computes the stochastic oscillator: %K is the position of the
// close within the trailing kPeriod high-low range, scaled to [0,100]; %D
// is a dPeriod simple moving average of %K. %K is defined from index
// kPeriod-1, %D from kPeriod+dPeriod-2. Requires kPeriod+dPeriod-1 bars.
func Stochastic(bars []contracts.Bar, kPeriod, dPeriod int) (*StochasticResult, error) {
	if kPeriod <= 0 || dPeriod <= 0 {
		return nil, ErrInsufficientData
	}
	if len(bars) < kPeriod+dPeriod-1 {
		return nil, ErrInsufficientData
	}

	k := nanSeries(len(bars))
	for i := kPeriod - 1; i < len(bars); i++ {
		lowest := bars[i].Low
		highest := bars[i].High
		for j := i - kPeriod + 1; j <= i; j++ {
			if bars[j].Low < lowest {
				lowest = bars[j].Low
			}
			if bars[j].High > highest {
				highest = bars[j].High
			}
		}

		spread := highest - lowest
		if spread == 0 {
			// Flat range: by convention the close sits mid-range.
			k[i] = 50.0
			continue
		}
		k[i] = 100.0 * (bars[i].Close - lowest) / spread
	}

	d := nanSeries(len(bars))
	defined := k[kPeriod-1:]
	copy(d[kPeriod-1:], sma(defined, dPeriod))

	return &StochasticResult{K: k, D: d}, nil
}
