package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stockwise/backend/internal/external/marketdata"
	"github.com/stockwise/backend/internal/features"
	"github.com/stockwise/backend/internal/indicator"
	"github.com/stockwise/backend/internal/ledger"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// statusFromError maps domain errors onto HTTP statuses. Unknown
// errors are server faults.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, marketdata.ErrDataUnavailable):
		return http.StatusNotFound
	case errors.Is(err, indicator.ErrInsufficientData),
		errors.Is(err, features.ErrFeatureUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ledger.ErrInvalidOrder):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, ledger.ErrInsufficientShares),
		errors.Is(err, ledger.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrPortfolioNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondDomainError writes err with its mapped status. Internal
// faults get a generic message so details stay in the logs.
func respondDomainError(w http.ResponseWriter, err error) {
	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	respondError(w, status, message)
}
