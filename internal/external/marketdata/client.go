// Package marketdata fetches daily OHLCV history and live quotes from a
// Yahoo-compatible chart API.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/stockwise/backend/internal/contracts"
	"github.com/stockwise/backend/pkg/httputil"
	"github.com/stockwise/backend/pkg/logger"
	"github.com/stockwise/backend/pkg/redis"
)

// ErrDataUnavailable is returned when the provider has no data for a
// ticker, either because the symbol is unknown or the feed is down.
var ErrDataUnavailable = errors.New("market data unavailable")

// DefaultBaseURL is the public Yahoo Finance chart endpoint.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Client fetches bars from the chart API. A process-local token bucket
// keeps request bursts under the provider's tolerance.
type Client struct {
	http     *httputil.Client
	baseURL  string
	limiter  *rate.Limiter
	cache    *redis.Cache
	cacheTTL time.Duration
	logger   *logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the chart API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithCache caches daily history per ticker for ttl.
func WithCache(cache *redis.Cache, ttl time.Duration) Option {
	return func(c *Client) { c.cache = cache; c.cacheTTL = ttl }
}

// New creates a market data client limited to ratePerSecond requests.
func New(httpClient *httputil.Client, ratePerSecond float64, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		http:    httpClient,
		baseURL: DefaultBaseURL,
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), 1),
		logger:  log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chartResponse mirrors the provider's chart payload. Null entries in
// the quote arrays mark holidays and halted sessions.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History returns up to lookback daily bars for ticker in ascending
// date order. Cached history is reused within the configured TTL.
func (c *Client) History(ctx context.Context, ticker string, lookback int) ([]contracts.Bar, error) {
	if c.cache != nil {
		var cached []contracts.Bar
		found, err := c.cache.Get(ctx, redis.HistoryKey(ticker), &cached)
		if err == nil && found && len(cached) >= lookback {
			return cached[len(cached)-lookback:], nil
		}
	}

	bars, err := c.fetchChart(ctx, ticker, "1d", rangeForDays(lookback))
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, redis.HistoryKey(ticker), bars, c.cacheTTL); err != nil {
			c.logger.WithError(err).WithField("ticker", ticker).Warn("Failed to cache history")
		}
	}

	if len(bars) > lookback {
		bars = bars[len(bars)-lookback:]
	}
	return bars, nil
}

// Quote returns the most recent traded price for ticker.
func (c *Client) Quote(ctx context.Context, ticker string) (*contracts.Quote, error) {
	bars, err := c.fetchChart(ctx, ticker, "1d", "5d")
	if err != nil {
		return nil, err
	}
	last := bars[len(bars)-1]
	return &contracts.Quote{
		Ticker: ticker,
		Price:  last.Close,
		AsOf:   last.Date,
	}, nil
}

func (c *Client) fetchChart(ctx context.Context, ticker, interval, rng string) ([]contracts.Bar, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		c.baseURL, url.PathEscape(ticker), interval, rng)

	resp, err := c.http.Get(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: unknown ticker %s", ErrDataUnavailable, ticker)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrDataUnavailable, resp.StatusCode)
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("decode chart response: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrDataUnavailable, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 ||
		len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: empty result for %s", ErrDataUnavailable, ticker)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]contracts.Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := contracts.Bar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%w: only null bars for %s", ErrDataUnavailable, ticker)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

// rangeForDays picks the smallest provider range window covering days.
func rangeForDays(days int) string {
	switch {
	case days <= 30:
		return "1mo"
	case days <= 90:
		return "3mo"
	case days <= 180:
		return "6mo"
	case days <= 365:
		return "1y"
	case days <= 730:
		return "2y"
	default:
		return "5y"
	}
}
