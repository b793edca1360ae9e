// Package screener filters a pre-built fundamentals dataset. The
// dataset is produced offline and shipped as a JSON file; this package
// only loads and queries it.
package screener

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/stockwise/backend/pkg/logger"
)

// Entry is one ticker's fundamentals snapshot.
type Entry struct {
	Ticker        string  `json:"ticker"`
	Name          string  `json:"name"`
	Sector        string  `json:"sector"`
	MarketCap     float64 `json:"marketCap"`
	PERatio       float64 `json:"peRatio"`
	DividendYield float64 `json:"dividendYield"`
}

// Query filters the dataset. Zero values leave a dimension open.
type Query struct {
	Sector string
	MinCap float64
	MaxCap float64
}

// Screener answers filter queries over the loaded dataset.
type Screener struct {
	entries []Entry
}

// Load reads the dataset file and returns a ready Screener.
func Load(path string, log *logger.Logger) (*Screener, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read screener dataset: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode screener dataset %s: %w", path, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].MarketCap > entries[j].MarketCap })

	log.WithFields(map[string]interface{}{
		"path":  path,
		"count": len(entries),
	}).Info("Screener dataset loaded")
	return &Screener{entries: entries}, nil
}

// Filter returns every entry matching q, largest market cap first.
func (s *Screener) Filter(q Query) []Entry {
	matches := make([]Entry, 0)
	for _, e := range s.entries {
		if q.Sector != "" && !strings.EqualFold(e.Sector, q.Sector) {
			continue
		}
		if q.MinCap > 0 && e.MarketCap < q.MinCap {
			continue
		}
		if q.MaxCap > 0 && e.MarketCap > q.MaxCap {
			continue
		}
		matches = append(matches, e)
	}
	return matches
}

// Sectors returns the distinct sectors present in the dataset, sorted.
func (s *Screener) Sectors() []string {
	seen := make(map[string]struct{})
	for _, e := range s.entries {
		if e.Sector != "" {
			seen[e.Sector] = struct{}{}
		}
	}
	sectors := make([]string, 0, len(seen))
	for sec := range seen {
		sectors = append(sectors, sec)
	}
	sort.Strings(sectors)
	return sectors
}
