package commands

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/stockwise/backend/internal/external/marketdata"
	"github.com/stockwise/backend/internal/external/news"
	"github.com/stockwise/backend/internal/external/predictor"
	"github.com/stockwise/backend/internal/ledger"
	"github.com/stockwise/backend/internal/screener"
	"github.com/stockwise/backend/internal/signal"
	"github.com/stockwise/backend/internal/watchlist"
	"github.com/stockwise/backend/pkg/config"
	"github.com/stockwise/backend/pkg/database"
	"github.com/stockwise/backend/pkg/httputil"
	"github.com/stockwise/backend/pkg/logger"
	"github.com/stockwise/backend/pkg/metrics"
	"github.com/stockwise/backend/pkg/redis"
)

// app is the assembled service graph shared by the CLI commands.
// Components a command does not need stay nil depending on the options.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB
	redis    *redis.Client
	recorder *metrics.Recorder

	market    *marketdata.Client
	signal    *signal.Service
	ledger    *ledger.Service
	watchlist *watchlist.Repository
	news      *news.Scraper
	screener  *screener.Screener
}

type appOptions struct {
	needDB      bool
	needMetrics bool
}

// newApp builds the service graph. The returned cleanup closes every
// opened connection and is safe to call exactly once.
func newApp(opts appOptions) (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	log := logger.New(cfg)

	a := &app{cfg: cfg, log: log}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if opts.needMetrics {
		a.recorder = metrics.New()
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, running without cache")
		rdb, _ = redis.New(&config.Config{})
	}
	a.redis = rdb
	closers = append(closers, func() { _ = rdb.Close() })

	cache := redis.NewCache(rdb, "stockwise")
	limiter := redis.NewRateLimiter(rdb, "stockwise")

	marketHTTP := httputil.NewWithTimeout(cfg, log, cfg.Market.Timeout).
		WithRateLimiter(limiter, redis.MarketRateLimit)
	a.market = marketdata.New(marketHTTP, cfg.Market.RatePerSecond, log,
		marketdata.WithBaseURL(cfg.Market.BaseURL),
		marketdata.WithCache(cache, cfg.Market.CacheTTL),
	)

	predictorHTTP := httputil.NewWithTimeout(cfg, log, cfg.Predictor.Timeout).
		WithRateLimiter(limiter, redis.PredictorRateLimit)
	classifier := predictor.New(predictorHTTP, cfg.Predictor.BaseURL, log)

	a.signal = signal.NewService(a.market, classifier, cache,
		cfg.Predictor.CacheTTL, cfg.Market.Lookback, a.recorder, log)

	newsHTTP := httputil.New(cfg, log).WithRateLimiter(limiter, redis.NewsRateLimit)
	a.news = news.NewScraper(newsHTTP, cfg.News.BaseURL, cache, cfg.News.CacheTTL, log)

	if _, err := os.Stat(cfg.Screener.DataPath); err == nil {
		scr, err := screener.Load(cfg.Screener.DataPath, log)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("load screener dataset: %w", err)
		}
		a.screener = scr
	} else {
		log.WithField("path", cfg.Screener.DataPath).Warn("Screener dataset missing, screener disabled")
	}

	if opts.needDB {
		db, err := database.New(cfg)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		closers = append(closers, db.Close)

		startingCash, err := decimal.NewFromString(cfg.Ledger.StartingCash)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("parse starting cash %q: %w", cfg.Ledger.StartingCash, err)
		}

		store := ledger.NewPostgresStore(db, startingCash, cfg.Ledger.MaxRetries, log)
		a.ledger = ledger.NewService(store, a.recorder, log)
		a.watchlist = watchlist.NewRepository(db, log)
	}

	return a, cleanup, nil
}
