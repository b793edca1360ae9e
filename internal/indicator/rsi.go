package indicator

import (
	"github.com/stockwise/backend/internal/contracts"
)

// RSI computes the Wilder-smoothed Relative Strength Index over the given
// period. Values are in [0,100]; the first period outputs are NaN.
// Requires at least period+1 bars.
func RSI(bars []contracts.Bar, period int) ([]float64, error) {
	if period <= 0 {
		return nil, ErrInsufficientData
	}
	if len(bars) < period+1 {
		return nil, ErrInsufficientData
	}

	c := closes(bars)
	out := nanSeries(len(bars))

	// Initial average gain/loss over the first period changes
	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := c[i] - c[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiValue(avgGain, avgLoss)

	// Wilder smoothing for the remaining bars
	for i := period + 1; i < len(c); i++ {
		change := c[i] - c[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return out, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
