package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/stockwise/backend/internal/contracts"
	"github.com/stockwise/backend/pkg/logger"
)

// streamInterval matches the cadence the web client polls quotes at.
const streamInterval = 10 * time.Second

// QuoteSource provides the latest traded price for a ticker.
type QuoteSource interface {
	Quote(ctx context.Context, ticker string) (*contracts.Quote, error)
}

// QuotesHandler serves point-in-time quotes and a websocket stream.
type QuotesHandler struct {
	source   QuoteSource
	upgrader websocket.Upgrader
	interval time.Duration
	logger   *logger.Logger
}

// NewQuotesHandler creates a quotes handler.
func NewQuotesHandler(source QuoteSource, log *logger.Logger) *QuotesHandler {
	return &QuotesHandler{
		source: source,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The REST API already enforces CORS; the stream carries
			// public quote data only.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		interval: streamInterval,
		logger:   log,
	}
}

// Get returns the latest quote for a ticker.
// GET /api/quotes/{ticker}
func (h *QuotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Missing ticker")
		return
	}

	quote, err := h.source.Quote(r.Context(), ticker)
	if err != nil {
		h.logger.WithError(err).WithField("ticker", ticker).Warn("Quote fetch failed")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Stream pushes the latest quote over a websocket on a fixed interval
// until the client disconnects.
// GET /api/quotes/{ticker}/stream
func (h *QuotesHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	if ticker == "" {
		respondError(w, http.StatusBadRequest, "Missing ticker")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Drain client frames so close messages are noticed.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	h.logger.WithField("ticker", ticker).Debug("Quote stream opened")

	send := func() error {
		quote, err := h.source.Quote(ctx, ticker)
		if err != nil {
			h.logger.WithError(err).WithField("ticker", ticker).Warn("Quote fetch failed on stream")
			return conn.WriteJSON(map[string]string{"error": "quote unavailable"})
		}
		return conn.WriteJSON(quote)
	}

	if err := send(); err != nil {
		return
	}

	tick := time.NewTicker(h.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.WithField("ticker", ticker).Debug("Quote stream closed")
			return
		case <-tick.C:
			if err := send(); err != nil {
				return
			}
		}
	}
}
