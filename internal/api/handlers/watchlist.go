package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stockwise/backend/internal/watchlist"
	"github.com/stockwise/backend/pkg/logger"
)

// WatchlistHandler serves per-user watchlists and their alerts.
type WatchlistHandler struct {
	repo   *watchlist.Repository
	logger *logger.Logger
}

// NewWatchlistHandler creates a watchlist handler.
func NewWatchlistHandler(repo *watchlist.Repository, log *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{repo: repo, logger: log}
}

// List returns the user's watched tickers.
// GET /api/watchlist
func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	items, err := h.repo.List(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to list watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to load watchlist")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"watchlist": items})
}

// Add puts a ticker on the user's watchlist.
// POST /api/watchlist/{ticker}
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	ticker := mux.Vars(r)["ticker"]
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Missing ticker")
		return
	}

	if err := h.repo.Add(r.Context(), userID, ticker); err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to add to watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to update watchlist")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"ticker": ticker, "status": "watching"})
}

// Remove takes a ticker off the user's watchlist.
// DELETE /api/watchlist/{ticker}
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	ticker := mux.Vars(r)["ticker"]
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Missing ticker")
		return
	}

	if err := h.repo.Remove(r.Context(), userID, ticker); err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to remove from watchlist")
		respondError(w, http.StatusInternalServerError, "Failed to update watchlist")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"ticker": ticker, "status": "removed"})
}

// Alerts returns the user's sell alerts, newest first.
// GET /api/alerts
func (h *WatchlistHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	alerts, err := h.repo.Alerts(r.Context(), userID, 50)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to list alerts")
		respondError(w, http.StatusInternalServerError, "Failed to load alerts")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"alerts": alerts})
}
