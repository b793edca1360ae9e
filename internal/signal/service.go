package signal

import (
	"context"
	"fmt"
	"time"

	"github.com/stockwise/backend/internal/contracts"
	"github.com/stockwise/backend/internal/features"
	"github.com/stockwise/backend/pkg/logger"
	"github.com/stockwise/backend/pkg/metrics"
	"github.com/stockwise/backend/pkg/redis"
)

// HistorySource fetches ordered daily price history for a ticker.
type HistorySource interface {
	History(ctx context.Context, ticker string, lookback int) ([]contracts.Bar, error)
}

// Service computes recommendations end to end: price history in, feature
// vector, classifier inference, decision policy, recommendation out.
type Service struct {
	source     HistorySource
	classifier Classifier
	cache      *redis.Cache
	cacheTTL   time.Duration
	lookback   int
	recorder   *metrics.Recorder
	logger     *logger.Logger
}

// NewService creates a recommendation service. The classifier and source
// are injected once at process start and shared read-only thereafter.
func NewService(source HistorySource, classifier Classifier, cache *redis.Cache, cacheTTL time.Duration, lookback int, recorder *metrics.Recorder, log *logger.Logger) *Service {
	return &Service{
		source:     source,
		classifier: classifier,
		cache:      cache,
		cacheTTL:   cacheTTL,
		lookback:   lookback,
		recorder:   recorder,
		logger:     log,
	}
}

// GetRecommendation computes the current recommendation for a ticker.
//
// Failures propagate with their cause intact: a short history surfaces
// indicator.ErrInsufficientData, an unknown ticker surfaces the source's
// error, and an indicator failure aborts the recommendation rather than
// defaulting to Hold.
func (s *Service) GetRecommendation(ctx context.Context, ticker string) (*contracts.Recommendation, error) {
	// Recent result for the same ticker is served from cache.
	if s.cache != nil {
		var cached contracts.Recommendation
		found, err := s.cache.Get(ctx, redis.RecommendationKey(ticker), &cached)
		if err == nil && found {
			return &cached, nil
		}
	}

	bars, err := s.source.History(ctx, ticker, s.lookback)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", ticker, err)
	}

	vector, err := features.Build(bars)
	if err != nil {
		return nil, fmt.Errorf("build features for %s: %w", ticker, err)
	}

	outcome, err := s.classifier.Predict(ctx, vector)
	if err != nil {
		return nil, fmt.Errorf("predict for %s: %w", ticker, err)
	}

	action, confidence := Decide(outcome)

	rec := &contracts.Recommendation{
		Ticker:     ticker,
		Action:     action,
		Confidence: confidence,
	}

	if s.recorder != nil {
		s.recorder.RecordRecommendation(string(action))
	}

	s.logger.WithFields(map[string]interface{}{
		"ticker":     ticker,
		"action":     action,
		"confidence": confidence,
		"prob_up":    outcome.ProbUp,
		"prob_down":  outcome.ProbDown,
	}).Debug("Computed recommendation")

	if s.cache != nil {
		if err := s.cache.Set(ctx, redis.RecommendationKey(ticker), rec, s.cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache recommendation")
		}
	}

	return rec, nil
}
