package indicator

import (
	"github.com/stockwise/backend/internal/contracts"
)

// MACDResult holds the three aligned MACD output series.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD computes Moving Average Convergence Divergence with the given fast,
// slow and signal periods (12, 26, 9 in the standard setup). The line is
// defined from index slow-1, the signal and histogram from index
// slow+signalPeriod-2. Requires at least slow+signalPeriod-1 bars.
func MACD(bars []contracts.Bar, fast, slow, signalPeriod int) (*MACDResult, error) {
	if fast <= 0 || slow <= fast || signalPeriod <= 0 {
		return nil, ErrInsufficientData
	}
	if len(bars) < slow+signalPeriod-1 {
		return nil, ErrInsufficientData
	}

	c := closes(bars)
	emaFast := emaSeries(c, fast)
	emaSlow := emaSeries(c, slow)

	line := nanSeries(len(c))
	for i := slow - 1; i < len(c); i++ {
		line[i] = emaFast[i] - emaSlow[i]
	}

	// Signal line is an EMA of the defined portion of the MACD line.
	signal := nanSeries(len(c))
	defined := line[slow-1:]
	signalDefined := emaSeries(defined, signalPeriod)
	copy(signal[slow-1:], signalDefined)

	hist := nanSeries(len(c))
	for i := slow + signalPeriod - 2; i < len(c); i++ {
		hist[i] = line[i] - signal[i]
	}

	return &MACDResult{Line: line, Signal: signal, Histogram: hist}, nil
}
