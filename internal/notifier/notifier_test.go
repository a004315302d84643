package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"WatchDesk/internal/model"
)

func TestFormatBatchReport(t *testing.T) {
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	agg := model.AggregateOutcome{
		HadAnyError: true,
		Symbols:     []string{"AAPL", "TSLA"},
		Failed:      []string{"TSLA"},
		Outcomes: map[string]model.RefreshOutcome{
			"AAPL": {Symbol: "AAPL", News: model.StatusSuccess, Sentiment: model.StatusSuccess},
			"TSLA": {Symbol: "TSLA", News: model.StatusFailure, Sentiment: model.StatusSuccess},
		},
		StartedAt:  start,
		FinishedAt: start.Add(2400 * time.Millisecond),
	}
	got := FormatBatchReport(agg)
	for _, want := range []string{"partially failed", "Symbols: 2 | Failed: 1", "TSLA: news ❌, sentiment ✅", "rate limit", "2.4s"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "AAPL:") {
		t.Errorf("successful symbol listed in failures:\n%s", got)
	}

	clean := FormatBatchReport(model.AggregateOutcome{Symbols: []string{"AAPL"}})
	if !strings.Contains(clean, "Watchlist refreshed") || strings.Contains(clean, "rate limit") {
		t.Errorf("clean report = %q", clean)
	}
}

func TestFormatSymbolSummary(t *testing.T) {
	entry := model.CacheEntry{
		Symbol: "AAPL",
		News:   []model.NewsItem{{Headline: "Q1 <beats>"}},
		Sentiment: model.SentimentReport{Data: []model.SentimentPoint{
			{Month: "1", MSPR: model.Float(-2), Change: model.Float(-100)},
			{Month: "2", MSPR: model.Float(1), Change: model.Float(50)},
			{Month: "3", MSPR: model.Float(4), Change: model.Float(300)},
		}},
		NewsUpdatedAt: time.Date(2025, 3, 1, 8, 5, 0, 0, time.UTC),
	}
	got := FormatSymbolSummary(entry)
	for _, want := range []string{
		"<b>AAPL</b>",
		"MSPR: +4.00 (bullish)",
		"3-month avg: +1.00",
		"Range: -2.00 .. +4.00",
		"Insider net change: +250 shares",
		"Top headline: Q1 &lt;beats&gt;",
		"News updated: 2025-03-01 08:05",
		"Sentiment updated: never",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}

	empty := FormatSymbolSummary(model.CacheEntry{Symbol: "ZZZ", News: []model.NewsItem{}})
	if !strings.Contains(empty, "MSPR: n/a") || !strings.Contains(empty, "No cached news") {
		t.Errorf("empty summary = %q", empty)
	}
}

func TestFormatNewsAndWatchlist(t *testing.T) {
	entry := model.CacheEntry{
		Symbol: "MSFT",
		News: []model.NewsItem{
			{Headline: "One", URL: "https://example.com/1", Source: "Reuters"},
			{Headline: "Two"},
			{Headline: "Three"},
		},
	}
	news := FormatNews(entry, 2)
	if !strings.Contains(news, `<a href="https://example.com/1">One</a> <i>(Reuters)</i>`) {
		t.Errorf("news = %q", news)
	}
	if strings.Contains(news, "Three") {
		t.Errorf("limit ignored: %q", news)
	}
	if got := FormatNews(model.CacheEntry{Symbol: "X"}, 5); got != "No cached news for X" {
		t.Errorf("empty news = %q", got)
	}

	list := FormatWatchlist([]model.CacheEntry{
		entry,
		{Symbol: "AAPL", Sentiment: model.SentimentReport{Data: []model.SentimentPoint{{MSPR: model.Float(1.5)}}}},
	})
	if !strings.Contains(list, "MSFT  MSPR n/a | 3 news") || !strings.Contains(list, "AAPL  MSPR +1.50 | 0 news") {
		t.Errorf("watchlist = %q", list)
	}
	if strings.Index(list, "MSFT") > strings.Index(list, "AAPL") {
		t.Errorf("watchlist order not preserved: %q", list)
	}
	if got := FormatWatchlist(nil); !strings.Contains(got, "empty") {
		t.Errorf("empty watchlist = %q", got)
	}
}

func TestTelegramNotifier_SendWithRetry(t *testing.T) {
	var (
		mu       sync.Mutex
		attempts int
		payload  map[string]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottoken/sendMessage" {
			t.Errorf("path = %q", r.URL.Path)
		}
		mu.Lock()
		defer mu.Unlock()
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewDecoder(r.Body).Decode(&payload)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL
	tn.Backoff = time.Millisecond

	if err := tn.SendWithRetry(context.Background(), "hello", 2); err != nil {
		t.Fatalf("SendWithRetry() = %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if attempts != 2 {
		t.Errorf("attempts = %d; want 2", attempts)
	}
	if payload["chat_id"] != "42" || payload["text"] != "hello" || payload["parse_mode"] != "HTML" {
		t.Errorf("payload = %v", payload)
	}
}

func TestTelegramNotifier_RetriesExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL
	tn.Backoff = time.Millisecond

	err := tn.SendWithRetry(context.Background(), "hello", 1)
	if err == nil || !strings.Contains(err.Error(), "all 2 retries exhausted") {
		t.Errorf("SendWithRetry() = %v", err)
	}
}

func TestTelegramNotifier_StartPolling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu      sync.Mutex
		replies []string
		served  bool
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			mu.Lock()
			first := !served
			served = true
			mu.Unlock()
			if !first {
				<-r.Context().Done()
				return
			}
			w.Write([]byte(`{"ok":true,"result":[
				{"update_id":7,"message":{"text":"/mspr aapl","chat":{"id":42}}},
				{"update_id":8,"message":{"text":"/watchlist","chat":{"id":99}}}
			]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var p map[string]string
			json.NewDecoder(r.Body).Decode(&p)
			mu.Lock()
			replies = append(replies, p["text"])
			mu.Unlock()
			cancel()
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL

	var commands []string
	done := make(chan struct{})
	go func() {
		defer close(done)
		tn.StartPolling(ctx, func(_ context.Context, cmd string) string {
			commands = append(commands, cmd)
			return "reply to " + cmd
		})
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("StartPolling did not stop after cancel")
	}

	if len(commands) != 1 || commands[0] != "/mspr aapl" {
		t.Errorf("commands = %v; want only the configured chat's command", commands)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(replies) != 1 || replies[0] != "reply to /mspr aapl" {
		t.Errorf("replies = %v", replies)
	}
}
