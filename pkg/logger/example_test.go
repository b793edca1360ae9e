package logger_test

import (
	"errors"

	"github.com/stockwise/backend/pkg/config"
	"github.com/stockwise/backend/pkg/logger"
)

// Example_basic demonstrates basic logger usage
func Example_basic() {
	cfg := &config.Config{
		Env:       "development",
		LogLevel:  "info",
		LogFormat: "console",
	}

	log := logger.New(cfg)

	// Basic logging
	log.Debug("This won't appear (level is info)")
	log.Info("Application started")
	log.Warn("Price cache miss")
	log.Error("Failed to connect")

	// Formatted logging
	log.Infof("Recommendation for %s computed", "RELIANCE.NS")
	log.Warnf("Retry attempt %d of %d", 3, 5)
}

// Example_withFields demonstrates structured logging with fields
func Example_withFields() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "info",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	// Add single field
	userLog := log.WithField("user_id", "u-12345")
	userLog.Info("User action performed")

	// Add multiple fields
	tradeLog := log.WithFields(map[string]interface{}{
		"symbol":   "TCS.NS",
		"price":    3540.50,
		"quantity": 10,
		"action":   "buy",
	})
	tradeLog.Info("Trade executed")
}

// Example_withError demonstrates error logging
func Example_withError() {
	cfg := &config.Config{
		Env:       "production",
		LogLevel:  "error",
		LogFormat: "json",
	}

	log := logger.New(cfg)

	err := errors.New("price history request timed out")
	log.WithError(err).Error("Failed to fetch price history")

	log.WithError(err).
		WithFields(map[string]interface{}{
			"retry_count": 3,
			"timeout_ms":  5000,
		}).
		Error("Connection failed after retries")
}
