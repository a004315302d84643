package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"WatchDesk/internal/model"
)

const finnhubBaseURL = "https://finnhub.io/api/v1"

// FinnhubSource implements Source using the Finnhub REST API.
type FinnhubSource struct {
	BaseURL       string
	APIKey        string
	NewsDays      int
	SentimentDays int
	Client        *http.Client
	Now           func() time.Time
}

// NewFinnhubSource creates a Finnhub source with optional proxy support.
// Zero windows fall back to 14 days of news and 90 days of sentiment.
func NewFinnhubSource(baseURL, apiKey string, newsDays, sentimentDays int, proxyURL string) *FinnhubSource {
	if baseURL == "" {
		baseURL = finnhubBaseURL
	}
	if newsDays <= 0 {
		newsDays = 14
	}
	if sentimentDays <= 0 {
		sentimentDays = 90
	}
	return &FinnhubSource{
		BaseURL:       baseURL,
		APIKey:        apiKey,
		NewsDays:      newsDays,
		SentimentDays: sentimentDays,
		Client:        newHTTPClient(proxyURL),
		Now:           time.Now,
	}
}

func (f *FinnhubSource) Name() string { return "finnhub" }

// FetchNews returns company news for the trailing NewsDays window.
func (f *FinnhubSource) FetchNews(ctx context.Context, symbol string) ([]model.NewsItem, error) {
	body, err := f.get(ctx, "/company-news", symbol, f.NewsDays)
	if err != nil {
		return nil, fmt.Errorf("finnhub news %s: %w", symbol, err)
	}
	return decodeNews(body)
}

// FetchSentiment returns insider sentiment for the trailing SentimentDays window.
func (f *FinnhubSource) FetchSentiment(ctx context.Context, symbol string) (*model.SentimentReport, error) {
	body, err := f.get(ctx, "/stock/insider-sentiment", symbol, f.SentimentDays)
	if err != nil {
		return nil, fmt.Errorf("finnhub sentiment %s: %w", symbol, err)
	}
	return decodeSentiment(body)
}

func (f *FinnhubSource) get(ctx context.Context, path, symbol string, days int) ([]byte, error) {
	if f.APIKey == "" {
		return nil, fmt.Errorf("finnhub API key not set")
	}
	to := f.Now().UTC()
	from := to.AddDate(0, 0, -days)

	q := url.Values{}
	q.Set("symbol", model.NormalizeSymbol(symbol))
	q.Set("from", from.Format("2006-01-02"))
	q.Set("to", to.Format("2006-01-02"))
	q.Set("token", f.APIKey)

	return getJSON(ctx, f.Client, f.BaseURL+path+"?"+q.Encode(), nil)
}
