package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"WatchDesk/internal/model"
)

// Call records one upstream request made against a MockSource.
type Call struct {
	Symbol   string
	Resource model.Resource
	At       time.Time
}

// MockSource returns controllable fixed data for development and testing.
// Symbols without configured data get generated placeholder data.
type MockSource struct {
	News         map[string][]model.NewsItem
	Sentiment    map[string]*model.SentimentReport
	NewsErr      map[string]error
	SentimentErr map[string]error

	// Now stamps recorded calls; defaults to time.Now.
	Now func() time.Time
	// Hook runs on every call before the result is returned. Tests use it to
	// block or to observe interleaving.
	Hook func(ctx context.Context, call Call)

	mu    sync.Mutex
	calls []Call
}

// NewMockSource creates an empty MockSource.
func NewMockSource() *MockSource {
	return &MockSource{
		News:         make(map[string][]model.NewsItem),
		Sentiment:    make(map[string]*model.SentimentReport),
		NewsErr:      make(map[string]error),
		SentimentErr: make(map[string]error),
	}
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) FetchNews(ctx context.Context, symbol string) ([]model.NewsItem, error) {
	m.record(ctx, symbol, model.ResourceNews)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.NewsErr[symbol]; err != nil {
		return nil, err
	}
	if items, ok := m.News[symbol]; ok {
		return items, nil
	}
	return generateMockNews(symbol), nil
}

func (m *MockSource) FetchSentiment(ctx context.Context, symbol string) (*model.SentimentReport, error) {
	m.record(ctx, symbol, model.ResourceSentiment)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.SentimentErr[symbol]; err != nil {
		return nil, err
	}
	if report, ok := m.Sentiment[symbol]; ok {
		return report, nil
	}
	return generateMockSentiment(symbol), nil
}

// SetNewsErr sets or clears (nil) the news error for symbol.
func (m *MockSource) SetNewsErr(symbol string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NewsErr[symbol] = err
}

// SetSentimentErr sets or clears (nil) the sentiment error for symbol.
func (m *MockSource) SetSentimentErr(symbol string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentimentErr[symbol] = err
}

// Calls returns every recorded call in order.
func (m *MockSource) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockSource) record(ctx context.Context, symbol string, res model.Resource) {
	now := time.Now
	if m.Now != nil {
		now = m.Now
	}
	call := Call{Symbol: symbol, Resource: res, At: now()}

	m.mu.Lock()
	m.calls = append(m.calls, call)
	hook := m.Hook
	m.mu.Unlock()

	if hook != nil {
		hook(ctx, call)
	}
}

func generateMockNews(symbol string) []model.NewsItem {
	now := time.Now().Unix()
	return []model.NewsItem{
		{Headline: fmt.Sprintf("%s shares active in morning trade", symbol), Source: "mock", Datetime: now - 3600},
		{Headline: fmt.Sprintf("Analysts revisit %s outlook", symbol), Source: "mock", Datetime: now - 7200},
	}
}

func generateMockSentiment(symbol string) *model.SentimentReport {
	now := time.Now()
	report := &model.SentimentReport{Symbol: symbol}
	for i := 2; i >= 0; i-- {
		t := now.AddDate(0, -i, 0)
		report.Data = append(report.Data, model.SentimentPoint{
			Year:   t.Year(),
			Month:  fmt.Sprintf("%d", int(t.Month())),
			MSPR:   model.Float(float64(10 - 5*i)),
			Change: model.Float(float64(1000 - 400*i)),
		})
	}
	return report
}
