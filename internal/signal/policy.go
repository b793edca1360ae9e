package signal

import (
	"math"

	"github.com/stockwise/backend/internal/contracts"
)

// threshold is the probability margin a Buy/Sell call must clear on the
// matching side. Requiring the probability to beat the margin, not just
// win the argmax, collapses low-conviction calls to Hold.
const threshold = 0.55

// Decide maps classifier output to an action and a confidence percentage.
//
// Buy requires the predicted class to be up AND probUp to strictly exceed
// the threshold; Sell is symmetric on the down side; everything else is
// Hold. Confidence is max(probUp, probDown) as a percentage rounded to 2
// decimal places, regardless of the resulting action.
//
// Decide is a pure function: it never calls the classifier and never
// fetches data.
func Decide(o Outcome) (contracts.Action, float64) {
	action := contracts.ActionHold
	switch {
	case o.Class == DirectionUp && o.ProbUp > threshold:
		action = contracts.ActionBuy
	case o.Class == DirectionDown && o.ProbDown > threshold:
		action = contracts.ActionSell
	}

	confidence := math.Max(o.ProbUp, o.ProbDown) * 100
	confidence = math.Round(confidence*100) / 100

	return action, confidence
}
