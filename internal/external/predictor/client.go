// Package predictor calls the external direction model over HTTP.
//
// The model service exposes a single POST /predict endpoint that takes
// the canonical feature vector and returns class probabilities. This
// client adapts that endpoint to the signal.Classifier interface.
package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/stockwise/backend/internal/features"
	"github.com/stockwise/backend/internal/signal"
	"github.com/stockwise/backend/pkg/httputil"
	"github.com/stockwise/backend/pkg/logger"
)

// ErrPredictorUnavailable is returned when the model service cannot be
// reached or answers with a non-2xx status.
var ErrPredictorUnavailable = errors.New("predictor service unavailable")

// Client is an HTTP client for the direction model service.
type Client struct {
	http    *httputil.Client
	baseURL string
	logger  *logger.Logger
}

// New creates a predictor client against baseURL (e.g. http://model:8000).
func New(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log,
	}
}

type predictRequest struct {
	Features []float64 `json:"features"`
}

type predictResponse struct {
	ProbDown       float64 `json:"prob_down"`
	ProbUp         float64 `json:"prob_up"`
	PredictedClass string  `json:"predicted_class"`
}

// Predict sends the feature vector to the model and returns its outcome.
func (c *Client) Predict(ctx context.Context, v *features.Vector) (signal.Outcome, error) {
	req := predictRequest{Features: v.Slice()}

	resp, err := c.http.PostJSON(ctx, c.baseURL+"/predict", req)
	if err != nil {
		return signal.Outcome{}, fmt.Errorf("%w: %v", ErrPredictorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return signal.Outcome{}, fmt.Errorf("%w: status %d", ErrPredictorUnavailable, resp.StatusCode)
	}

	var body predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return signal.Outcome{}, fmt.Errorf("decode predictor response: %w", err)
	}

	outcome := signal.Outcome{
		ProbDown: body.ProbDown,
		ProbUp:   body.ProbUp,
		Class:    signal.Direction(body.PredictedClass),
	}
	if err := validateOutcome(outcome); err != nil {
		return signal.Outcome{}, fmt.Errorf("invalid predictor response: %w", err)
	}

	return outcome, nil
}

func validateOutcome(o signal.Outcome) error {
	if o.Class != signal.DirectionUp && o.Class != signal.DirectionDown {
		return fmt.Errorf("unknown predicted class %q", o.Class)
	}
	if o.ProbUp < 0 || o.ProbUp > 1 || o.ProbDown < 0 || o.ProbDown > 1 {
		return fmt.Errorf("probabilities out of range: up=%v down=%v", o.ProbUp, o.ProbDown)
	}
	return nil
}
