package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/stockwise/backend/internal/contracts"
	"github.com/stockwise/backend/internal/ledger"
	"github.com/stockwise/backend/pkg/logger"
)

// PortfolioHandler serves the simulated trading ledger.
type PortfolioHandler struct {
	ledger   *ledger.Service
	validate *validator.Validate
	logger   *logger.Logger
}

// NewPortfolioHandler creates a portfolio handler.
func NewPortfolioHandler(ledgerSvc *ledger.Service, log *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		ledger:   ledgerSvc,
		validate: validator.New(),
		logger:   log,
	}
}

// TradeRequest is the buy/sell request body.
type TradeRequest struct {
	Symbol   string  `json:"symbol" validate:"required"`
	Quantity int64   `json:"quantity" validate:"gt=0"`
	Price    float64 `json:"price" validate:"gt=0"`
}

// TradeResponse reports the cash balance after a trade.
type TradeResponse struct {
	CashBalance decimal.Decimal `json:"cashBalance"`
}

// Get returns the user's portfolio, creating it on first access.
// GET /api/portfolio
func (h *PortfolioHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	p, err := h.ledger.GetPortfolio(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("Failed to load portfolio")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, p)
}

// Buy executes a buy order.
// POST /api/portfolio/buy
func (h *PortfolioHandler) Buy(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, h.ledger.Buy)
}

// Sell executes a sell order.
// POST /api/portfolio/sell
func (h *PortfolioHandler) Sell(w http.ResponseWriter, r *http.Request) {
	h.trade(w, r, h.ledger.Sell)
}

type tradeFunc func(ctx context.Context, userID, symbol string, quantity int64, price decimal.Decimal) (*contracts.Portfolio, error)

func (h *PortfolioHandler) trade(w http.ResponseWriter, r *http.Request, exec tradeFunc) {
	userID, ok := UserID(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid trade: "+err.Error())
		return
	}

	p, err := exec(r.Context(), userID, req.Symbol, req.Quantity, decimal.NewFromFloat(req.Price))
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, TradeResponse{CashBalance: p.CashBalance})
}
