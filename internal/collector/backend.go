package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"WatchDesk/internal/model"
)

// BackendSource implements Source against the dashboard's proxy backend,
// which exposes /news/{symbol} and /insider/{symbol}.
type BackendSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewBackendSource creates a backend source with optional proxy support.
func NewBackendSource(baseURL, apiKey, proxyURL string) *BackendSource {
	return &BackendSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (b *BackendSource) Name() string { return "backend" }

func (b *BackendSource) FetchNews(ctx context.Context, symbol string) ([]model.NewsItem, error) {
	body, err := b.get(ctx, "news", symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch news %s: %w", symbol, err)
	}
	return decodeNews(body)
}

func (b *BackendSource) FetchSentiment(ctx context.Context, symbol string) (*model.SentimentReport, error) {
	body, err := b.get(ctx, "insider", symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch sentiment %s: %w", symbol, err)
	}
	return decodeSentiment(body)
}

func (b *BackendSource) get(ctx context.Context, resource, symbol string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%s/%s", b.BaseURL, resource, url.PathEscape(model.NormalizeSymbol(symbol)))
	header := http.Header{}
	if b.APIKey != "" {
		header.Set("Authorization", "Bearer "+b.APIKey)
	}
	return getJSON(ctx, b.Client, endpoint, header)
}
