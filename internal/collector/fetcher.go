package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"WatchDesk/internal/model"
)

// Source fetches per-symbol data from the upstream API. Each call is one
// upstream request and may fail independently.
type Source interface {
	FetchNews(ctx context.Context, symbol string) ([]model.NewsItem, error)
	FetchSentiment(ctx context.Context, symbol string) (*model.SentimentReport, error)
	Name() string
}

// newHTTPClient builds a client with optional proxy support.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
