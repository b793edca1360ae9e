package contracts

// Action is a trading recommendation label.
type Action string

const (
	ActionBuy  Action = "Buy"
	ActionSell Action = "Sell"
	ActionHold Action = "Hold"
)

// Recommendation is the result of running the decision engine for one
// ticker. It is derived per request and never persisted.
type Recommendation struct {
	Ticker string `json:"ticker"`
	Action Action `json:"recommendation"`
	// Confidence is a percentage in [0,100], rounded to 2 decimal places.
	Confidence float64 `json:"confidence"`
}

// Valid reports whether the action is one of the three known labels.
func (a Action) Valid() bool {
	return a == ActionBuy || a == ActionSell || a == ActionHold
}
