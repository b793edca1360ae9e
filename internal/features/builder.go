package features

import (
	"errors"
	"fmt"
	"math"

	"github.com/stockwise/backend/internal/contracts"
	"github.com/stockwise/backend/internal/indicator"
)

// ErrFeatureUnavailable is returned when no row of the computed indicator
// table has every required feature defined. It covers both stale symbols
// and history that is technically long enough but unusable.
var ErrFeatureUnavailable = errors.New("feature vector unavailable")

// Indicator parameters behind the canonical feature schema.
const (
	rsiPeriod    = 14
	emaShort     = 50
	emaLong      = 200
	macdFast     = 12
	macdSlow     = 26
	macdSignal   = 9
	bbPeriod     = 20
	bbWidth      = 2.0
	atrPeriod    = 14
	stochKPeriod = 14
	stochDPeriod = 3
)

// MinHistory is the minimum number of sessions required before any row of
// the indicator table can be fully defined. EMA-200 has the longest
// warm-up window.
const MinHistory = emaLong

// Build runs the full indicator set over bars, takes the most recent row
// with every feature defined, and projects it into the canonical ordering.
//
// It fails with indicator.ErrInsufficientData when the series is shorter
// than the longest warm-up window, and with ErrFeatureUnavailable when the
// history is long enough but no fully defined row exists. Build never
// mutates its input and has no side effects.
func Build(bars []contracts.Bar) (*Vector, error) {
	if len(bars) < MinHistory {
		return nil, fmt.Errorf("%d sessions of history, need %d: %w",
			len(bars), MinHistory, indicator.ErrInsufficientData)
	}

	rsi, err := indicator.RSI(bars, rsiPeriod)
	if err != nil {
		return nil, fmt.Errorf("rsi: %w", err)
	}
	emaS, err := indicator.EMA(bars, emaShort)
	if err != nil {
		return nil, fmt.Errorf("ema %d: %w", emaShort, err)
	}
	emaL, err := indicator.EMA(bars, emaLong)
	if err != nil {
		return nil, fmt.Errorf("ema %d: %w", emaLong, err)
	}
	macd, err := indicator.MACD(bars, macdFast, macdSlow, macdSignal)
	if err != nil {
		return nil, fmt.Errorf("macd: %w", err)
	}
	bb, err := indicator.Bollinger(bars, bbPeriod, bbWidth)
	if err != nil {
		return nil, fmt.Errorf("bollinger: %w", err)
	}
	atr, err := indicator.ATR(bars, atrPeriod)
	if err != nil {
		return nil, fmt.Errorf("atr: %w", err)
	}
	stoch, err := indicator.Stochastic(bars, stochKPeriod, stochDPeriod)
	if err != nil {
		return nil, fmt.Errorf("stochastic: %w", err)
	}
	obv, err := indicator.OBV(bars)
	if err != nil {
		return nil, fmt.Errorf("obv: %w", err)
	}

	// Walk back from the latest session to the most recent fully
	// defined row.
	for i := len(bars) - 1; i >= 0; i-- {
		var v Vector
		v.Values[RSI14] = rsi[i]
		v.Values[EMA50] = emaS[i]
		v.Values[EMA200] = emaL[i]
		v.Values[MACDLine] = macd.Line[i]
		v.Values[BBLower] = bb.Lower[i]
		v.Values[BBMid] = bb.Mid[i]
		v.Values[BBUpper] = bb.Upper[i]
		v.Values[ATR14] = atr[i]
		v.Values[StochK] = stoch.K[i]
		v.Values[StochD] = stoch.D[i]
		v.Values[OBV] = obv[i]

		if rowDefined(&v) {
			if err := v.validate(); err != nil {
				return nil, err
			}
			return &v, nil
		}
	}

	return nil, fmt.Errorf("no fully defined indicator row: %w", ErrFeatureUnavailable)
}

func rowDefined(v *Vector) bool {
	for _, val := range v.Values {
		if math.IsNaN(val) {
			return false
		}
	}
	return true
}
