// Package cache holds the process-wide per-symbol news and sentiment store.
package cache

import (
	"sort"
	"sync"
	"time"

	"WatchDesk/internal/calculator"
	"WatchDesk/internal/model"
)

// Cache is the single source of truth for per-symbol news and sentiment.
// It is created once at startup and shared by handle. News and sentiment are
// replaced independently; nothing is ever evicted.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*model.CacheEntry
	now     func() time.Time
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]*model.CacheEntry),
		now:     time.Now,
	}
}

// Get returns a copy of the entry for symbol, or an empty entry when the
// symbol has never been stored.
func (c *Cache) Get(symbol string) model.CacheEntry {
	sym := model.NormalizeSymbol(symbol)

	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[sym]
	if !ok {
		return model.CacheEntry{
			Symbol: sym,
			News:   []model.NewsItem{},
		}
	}
	return model.CacheEntry{
		Symbol:             sym,
		News:               cloneNews(e.News),
		Sentiment:          e.Sentiment.Clone(),
		NewsUpdatedAt:      e.NewsUpdatedAt,
		SentimentUpdatedAt: e.SentimentUpdatedAt,
	}
}

// PutNews replaces the news list for symbol. Items are not validated.
func (c *Cache) PutNews(symbol string, items []model.NewsItem) {
	sym := model.NormalizeSymbol(symbol)
	if sym == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(sym)
	e.News = cloneNews(items)
	e.NewsUpdatedAt = c.now()
}

// PutSentiment replaces the sentiment report for symbol.
func (c *Cache) PutSentiment(symbol string, report model.SentimentReport) {
	sym := model.NormalizeSymbol(symbol)
	if sym == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entry(sym)
	e.Sentiment = report.Clone()
	e.SentimentUpdatedAt = c.now()
}

// News returns the cached news for symbol; empty when absent.
func (c *Cache) News(symbol string) []model.NewsItem {
	return c.Get(symbol).News
}

// Sentiment returns the cached sentiment report for symbol; empty when absent.
func (c *Cache) Sentiment(symbol string) model.SentimentReport {
	return c.Get(symbol).Sentiment
}

// LatestMSPR returns the mspr of the last cached sentiment point for symbol.
// ok is false when there is no data or the last point has no numeric mspr.
func (c *Cache) LatestMSPR(symbol string) (mspr float64, ok bool) {
	sym := model.NormalizeSymbol(symbol)

	c.mu.RLock()
	defer c.mu.RUnlock()

	e, found := c.entries[sym]
	if !found {
		return 0, false
	}
	return calculator.LatestMSPR(&e.Sentiment)
}

// Symbols returns every symbol with a cache entry, sorted.
func (c *Cache) Symbols() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.entries))
	for sym := range c.entries {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// entry returns the live entry for sym, creating it. Caller holds c.mu.
func (c *Cache) entry(sym string) *model.CacheEntry {
	e, ok := c.entries[sym]
	if !ok {
		e = &model.CacheEntry{Symbol: sym, News: []model.NewsItem{}}
		c.entries[sym] = e
	}
	return e
}

func cloneNews(items []model.NewsItem) []model.NewsItem {
	out := make([]model.NewsItem, len(items))
	copy(out, items)
	return out
}
