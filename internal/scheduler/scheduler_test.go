package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"WatchDesk/internal/cache"
	"WatchDesk/internal/collector"
	"WatchDesk/internal/model"
	"WatchDesk/internal/pacer"
	"WatchDesk/internal/refresh"
	"WatchDesk/internal/watchlist"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeNotifier) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeNotifier) messages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

func newTestScheduler(symbols ...string) (*Scheduler, *collector.MockSource, *fakeNotifier) {
	src := collector.NewMockSource()
	c := cache.New()
	r := refresh.New(src, c, pacer.New(0, nil), nil, nil)
	n := &fakeNotifier{}
	s := New(context.Background(), r, c, watchlist.New(symbols...), n, nil)
	return s, src, n
}

func TestRegisterAll(t *testing.T) {
	s, _, _ := newTestScheduler()
	if err := s.RegisterAll(""); err != nil {
		t.Fatalf("RegisterAll(\"\") = %v", err)
	}
	if n := len(s.cron.Entries()); n != 0 {
		t.Errorf("entries = %d; want 0 when disabled", n)
	}
	if err := s.RegisterAll("0 */30 * * * 1-5"); err != nil {
		t.Fatalf("RegisterAll() = %v", err)
	}
	if n := len(s.cron.Entries()); n != 1 {
		t.Errorf("entries = %d; want 1", n)
	}
	if err := s.RegisterAll("not a cron"); err == nil {
		t.Error("RegisterAll(invalid) = nil; want error")
	}
}

func TestRunNow_NotifiesOnlyOnFailure(t *testing.T) {
	s, src, n := newTestScheduler("AAPL", "TSLA")

	agg := s.RunNow()
	if agg.HadAnyError {
		t.Fatalf("unexpected failure: %v", agg.Failed)
	}
	if len(n.messages()) != 0 {
		t.Errorf("notified on clean run: %v", n.messages())
	}

	src.SetNewsErr("TSLA", errors.New("status 429"))
	agg = s.RunNow()
	if !agg.HadAnyError {
		t.Fatal("HadAnyError = false; want true")
	}
	msgs := n.messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "TSLA") || !strings.Contains(msgs[0], "rate limit") {
		t.Errorf("messages = %v", msgs)
	}
}

func TestHandleCommand(t *testing.T) {
	s, src, _ := newTestScheduler("AAPL")
	src.News["AAPL"] = []model.NewsItem{{Headline: "Apple ships"}}
	src.Sentiment["AAPL"] = &model.SentimentReport{Data: []model.SentimentPoint{{MSPR: model.Float(1.5)}}}
	src.SetSentimentErr("MSFT", errors.New("status 429"))
	ctx := context.Background()

	tests := []struct {
		command  string
		contains []string
	}{
		{"/help", []string{"Available commands"}},
		{"", []string{"Available commands"}},
		{"/refresh aapl", []string{"<b>AAPL</b>", "MSPR: +1.50 (bullish)", "Apple ships"}},
		{"/refresh", []string{"Watchlist refreshed", "Symbols: 1"}},
		{"/mspr AAPL", []string{"+1.50"}},
		{"/news aapl", []string{"Apple ships"}},
		{"/add msft", []string{"Added MSFT"}},
		{"/add MSFT", []string{"already on the watchlist"}},
		{"/watchlist", []string{"AAPL  MSPR +1.50 | 1 news", "MSFT  MSPR n/a"}},
		{"/refresh@WatchDeskBot MSFT", []string{"Refresh partially failed (likely rate limit)"}},
		{"/remove msft", []string{"Removed MSFT"}},
		{"/remove msft", []string{"not on the watchlist"}},
		{"/add", []string{"Usage: /add"}},
		{"/news", []string{"Usage: /news"}},
	}
	for _, tt := range tests {
		got := s.HandleCommand(ctx, tt.command)
		for _, want := range tt.contains {
			if !strings.Contains(got, want) {
				t.Errorf("HandleCommand(%q) = %q; missing %q", tt.command, got, want)
			}
		}
	}

	if got := s.watchlist.Symbols(); len(got) != 1 || got[0] != "AAPL" {
		t.Errorf("watchlist = %v", got)
	}
	// Removing from the watchlist keeps cached data.
	if e := s.cache.Get("MSFT"); e.NewsUpdatedAt.IsZero() {
		t.Error("MSFT cache entry evicted by /remove")
	}
}
