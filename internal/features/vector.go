// Package features assembles the canonical feature vector consumed by the
// classifier service.
package features

import (
	"fmt"
	"math"
)

// Feature slots, in canonical order. The classifier was trained against
// this exact ordering; never reorder without retraining.
const (
	RSI14 = iota
	EMA50
	EMA200
	MACDLine
	BBLower
	BBMid
	BBUpper
	ATR14
	StochK
	StochD
	OBV

	NumFeatures
)

// Names lists the feature slots in canonical order.
var Names = [NumFeatures]string{
	"rsi_14",
	"ema_50",
	"ema_200",
	"macd",
	"bb_lower",
	"bb_mid",
	"bb_upper",
	"atr_14",
	"stoch_k",
	"stoch_d",
	"obv",
}

// Vector is a fixed-order numeric summary of a ticker's indicators at a
// point in time. A vector is only constructed once every slot is finite;
// a partially defined row never leaves this package.
type Vector struct {
	Values [NumFeatures]float64
}

// Slice returns the values as a slice in canonical order.
func (v *Vector) Slice() []float64 {
	out := make([]float64, NumFeatures)
	copy(out, v.Values[:])
	return out
}

// validate checks that every slot is present and finite.
func (v *Vector) validate() error {
	for i, val := range v.Values {
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return fmt.Errorf("feature %s is not finite: %w", Names[i], ErrFeatureUnavailable)
		}
	}
	return nil
}
