package indicator

import (
	"github.com/stockwise/backend/internal/contracts"
)

// OBV computes On-Balance Volume: cumulative volume signed by the
// close-to-close direction, seeded at 0 on the first bar. Defined for the
// whole series.
func OBV(bars []contracts.Bar) ([]float64, error) {
	if len(bars) == 0 {
		return nil, ErrInsufficientData
	}

	out := make([]float64, len(bars))
	out[0] = 0
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			out[i] = out[i-1] + bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			out[i] = out[i-1] - bars[i].Volume
		default:
			out[i] = out[i-1]
		}
	}
	return out, nil
}
