// Package news scrapes recent headlines for a ticker from a public
// finance news page.
package news

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/stockwise/backend/pkg/httputil"
	"github.com/stockwise/backend/pkg/logger"
	"github.com/stockwise/backend/pkg/redis"
)

// ErrNewsUnavailable is returned when the news page cannot be fetched.
var ErrNewsUnavailable = errors.New("news unavailable")

// maxHeadlines caps how many items one scrape returns.
const maxHeadlines = 20

// Headline is one scraped news item.
type Headline struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source"`
}

// Scraper fetches and parses the per-ticker news page.
type Scraper struct {
	http     *httputil.Client
	baseURL  string
	cache    *redis.Cache
	cacheTTL time.Duration
	logger   *logger.Logger
}

// NewScraper creates a scraper against baseURL. cache may be nil.
func NewScraper(httpClient *httputil.Client, baseURL string, cache *redis.Cache, cacheTTL time.Duration, log *logger.Logger) *Scraper {
	return &Scraper{
		http:     httpClient,
		baseURL:  strings.TrimRight(baseURL, "/"),
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

// Headlines returns the most recent headlines for ticker, newest first
// in page order.
func (s *Scraper) Headlines(ctx context.Context, ticker string) ([]Headline, error) {
	if s.cache != nil {
		var cached []Headline
		found, err := s.cache.Get(ctx, redis.NewsKey(ticker), &cached)
		if err == nil && found {
			return cached, nil
		}
	}

	pageURL := fmt.Sprintf("%s/quote/%s/news", s.baseURL, url.PathEscape(ticker))
	resp, err := s.http.Get(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNewsUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrNewsUnavailable, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse news page: %w", err)
	}

	headlines := parseHeadlines(doc, s.baseURL)

	if s.cache != nil {
		if err := s.cache.Set(ctx, redis.NewsKey(ticker), headlines, s.cacheTTL); err != nil {
			s.logger.WithError(err).WithField("ticker", ticker).Warn("Failed to cache headlines")
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  len(headlines),
	}).Debug("Scraped headlines")
	return headlines, nil
}

func parseHeadlines(doc *goquery.Document, baseURL string) []Headline {
	var headlines []Headline

	doc.Find("li.stream-item, li.js-stream-content").EachWithBreak(func(i int, item *goquery.Selection) bool {
		anchor := item.Find("h3 a").First()
		title := strings.TrimSpace(anchor.Text())
		href, _ := anchor.Attr("href")
		if title == "" || href == "" {
			return true
		}

		// Relative links point back into the site itself.
		if strings.HasPrefix(href, "/") {
			href = baseURL + href
		}

		source := strings.TrimSpace(item.Find(".publishing").First().Text())
		if idx := strings.Index(source, "•"); idx >= 0 {
			source = strings.TrimSpace(source[:idx])
		}

		headlines = append(headlines, Headline{
			Title:  title,
			Link:   href,
			Source: source,
		})
		return len(headlines) < maxHeadlines
	})

	return headlines
}
