// Package indicator provides pure technical-indicator calculations over an
// ordered daily price series.
//
// Every function returns one or more output series aligned with the input:
// the result has the same length as the input bars, with a leading run of
// NaN values covering the indicator's warm-up window. Inputs are never
// mutated. A series shorter than the indicator's minimum window fails with
// ErrInsufficientData.
package indicator

import (
	"errors"
	"math"

	"github.com/stockwise/backend/internal/contracts"
)

// ErrInsufficientData is returned when the input series is shorter than an
// indicator's minimum window.
var ErrInsufficientData = errors.New("insufficient price history")

// nanSeries returns a slice of n NaN values.
func nanSeries(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

func closes(bars []contracts.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// sma computes the simple moving average of values over period, starting
// the output at index period-1.
func sma(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if len(values) < period {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// emaSeries computes an exponential moving average over values, seeded with
// the SMA of the first period values. The first period-1 outputs are NaN.
func emaSeries(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if len(values) < period {
		return out
	}

	var sum float64
	for i := 0; i < period; i++ {
		sum += values[i]
	}
	prev := sum / float64(period)
	out[period-1] = prev

	multiplier := 2.0 / (float64(period) + 1.0)
	for i := period; i < len(values); i++ {
		prev = values[i]*multiplier + prev*(1-multiplier)
		out[i] = prev
	}
	return out
}
