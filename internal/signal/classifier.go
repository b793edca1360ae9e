// Package signal turns classifier output into trade recommendations.
package signal

import (
	"context"

	"github.com/stockwise/backend/internal/features"
)

// Direction is the classifier's predicted next-day move.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// Outcome is one classifier inference: two class probabilities summing to
// 1 and the argmax class label.
type Outcome struct {
	ProbDown float64   `json:"prob_down"`
	ProbUp   float64   `json:"prob_up"`
	Class    Direction `json:"predicted_class"`
}

// Classifier produces class probabilities for a feature vector. The model
// is pre-trained and stateless at inference time; implementations must be
// safe for concurrent use.
type Classifier interface {
	Predict(ctx context.Context, v *features.Vector) (Outcome, error)
}
