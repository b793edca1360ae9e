package indicator

import (
	"github.com/stockwise/backend/internal/contracts"
)

// EMA computes the exponential moving average of closes over the given
// period, seeded with the simple average of the first period closes. The
// first period-1 outputs are NaN.
func EMA(bars []contracts.Bar, period int) ([]float64, error) {
	if period <= 0 {
		return nil, ErrInsufficientData
	}
	if len(bars) < period {
		return nil, ErrInsufficientData
	}
	return emaSeries(closes(bars), period), nil
}

// SMA computes the simple moving average of closes over the given period.
func SMA(bars []contracts.Bar, period int) ([]float64, error) {
	if period <= 0 {
		return nil, ErrInsufficientData
	}
	if len(bars) < period {
		return nil, ErrInsufficientData
	}
	return sma(closes(bars), period), nil
}
