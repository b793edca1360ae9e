package contracts

import "time"

// Bar is one daily OHLCV session for a ticker. Sequences of bars are
// ordered by date, strictly increasing, with no duplicate sessions.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Quote is the most recent traded price for a ticker.
type Quote struct {
	Ticker string    `json:"ticker"`
	Price  float64   `json:"price"`
	AsOf   time.Time `json:"as_of"`
}

// LastClose returns the close of the most recent bar, or 0 for an empty
// series.
func LastClose(bars []Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	return bars[len(bars)-1].Close
}
