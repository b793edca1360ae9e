package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/stockwise/backend/internal/api/handlers"
	"github.com/stockwise/backend/pkg/config"
	"github.com/stockwise/backend/pkg/logger"
	"github.com/stockwise/backend/pkg/metrics"
)

// Handlers collects the route handlers the router mounts. Screener may
// be nil when no dataset is configured; its routes are then omitted.
type Handlers struct {
	Health         *handlers.HealthHandler
	Recommendation *handlers.RecommendationHandler
	Portfolio      *handlers.PortfolioHandler
	Watchlist      *handlers.WatchlistHandler
	News           *handlers.NewsHandler
	Screener       *handlers.ScreenerHandler
	Quotes         *handlers.QuotesHandler
}

// NewRouter configures all routes and middleware.
func NewRouter(h Handlers, cfg *config.Config, recorder *metrics.Recorder, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.Use(recoveryMiddleware(log))
	r.Use(loggingMiddleware(log))
	r.Use(corsMiddleware(cfg.AllowedOrigins))
	if cfg.MetricsEnabled && recorder != nil {
		r.Use(metricsMiddleware(recorder))
		r.Handle("/metrics", metrics.Handler()).Methods("GET")
	}

	r.HandleFunc("/health", h.Health.Check).Methods("GET")

	// Preflight requests match here; the CORS middleware answers them.
	r.PathPrefix("/api").Methods("OPTIONS").HandlerFunc(func(http.ResponseWriter, *http.Request) {})

	api := r.PathPrefix("/api").Subrouter()

	// Public market data
	api.HandleFunc("/recommendation/{ticker}", h.Recommendation.Get).Methods("GET")
	api.HandleFunc("/news/{ticker}", h.News.Get).Methods("GET")
	api.HandleFunc("/quotes/{ticker}", h.Quotes.Get).Methods("GET")
	api.HandleFunc("/quotes/{ticker}/stream", h.Quotes.Stream).Methods("GET")
	if h.Screener != nil {
		api.HandleFunc("/screener", h.Screener.Filter).Methods("GET")
		api.HandleFunc("/screener/sectors", h.Screener.Sectors).Methods("GET")
	}

	// Authenticated user state
	auth := api.NewRoute().Subrouter()
	auth.Use(authMiddleware(cfg.Auth.JWTSecret, log))
	auth.HandleFunc("/portfolio", h.Portfolio.Get).Methods("GET")
	auth.HandleFunc("/portfolio/buy", h.Portfolio.Buy).Methods("POST")
	auth.HandleFunc("/portfolio/sell", h.Portfolio.Sell).Methods("POST")
	auth.HandleFunc("/watchlist", h.Watchlist.List).Methods("GET")
	auth.HandleFunc("/watchlist/{ticker}", h.Watchlist.Add).Methods("POST")
	auth.HandleFunc("/watchlist/{ticker}", h.Watchlist.Remove).Methods("DELETE")
	auth.HandleFunc("/alerts", h.Watchlist.Alerts).Methods("GET")

	return r
}
