// Package refresh drives per-symbol news and sentiment refreshes against a
// rate-limited upstream and writes successful results into the cache.
package refresh

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"WatchDesk/internal/cache"
	"WatchDesk/internal/collector"
	"WatchDesk/internal/model"
	"WatchDesk/internal/pacer"
	"WatchDesk/internal/recorder"
)

// Refresher sequences upstream calls for one or many symbols.
//
// Every upstream call waits on the shared pacer, so spacing holds across
// concurrent callers. A refresh requested for a symbol that is already in
// flight joins the running one instead of issuing its own calls.
type Refresher struct {
	source   collector.Source
	cache    *cache.Cache
	pacer    *pacer.Pacer
	recorder recorder.Recorder
	logger   *slog.Logger

	group singleflight.Group

	mu      sync.Mutex
	waiters map[string]int
	last    map[string]model.RefreshOutcome
}

// New creates a Refresher. A nil pacer uses pacer.DefaultInterval on the
// system clock; a nil recorder records nothing; a nil logger uses
// slog.Default().
func New(source collector.Source, c *cache.Cache, p *pacer.Pacer, rec recorder.Recorder, logger *slog.Logger) *Refresher {
	if p == nil {
		p = pacer.New(pacer.DefaultInterval, nil)
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Refresher{
		source:   source,
		cache:    c,
		pacer:    p,
		recorder: rec,
		logger:   logger.With("component", "refresh"),
		waiters:  make(map[string]int),
		last:     make(map[string]model.RefreshOutcome),
	}
}

// RefreshSymbol fetches news then sentiment for symbol. Failures are
// reported in the outcome and never clear cached data. An empty symbol is a
// no-op with Skipped set.
func (r *Refresher) RefreshSymbol(ctx context.Context, symbol string) model.RefreshOutcome {
	sym := model.NormalizeSymbol(symbol)
	if sym == "" {
		return model.RefreshOutcome{Skipped: true}
	}

	r.enter(sym)
	defer r.leave(sym)

	// fn runs on the calling goroutine, so only the leader sets led.
	led := false
	v, _, _ := r.group.Do(sym, func() (any, error) {
		led = true
		return r.refresh(ctx, sym), nil
	})
	out := v.(model.RefreshOutcome)
	if !led {
		out.Coalesced = true
		r.logger.Debug("joined in-flight refresh", "symbol", sym)
	}
	return out
}

// RefreshAll refreshes symbols one at a time in the given order, pausing one
// interval between symbols. Duplicates and empty symbols are dropped; a
// failure never stops the batch.
func (r *Refresher) RefreshAll(ctx context.Context, symbols []string) model.AggregateOutcome {
	agg := model.AggregateOutcome{
		Failed:    []string{},
		Outcomes:  make(map[string]model.RefreshOutcome),
		Symbols:   dedupe(symbols),
		StartedAt: r.now(),
	}

	for i, sym := range agg.Symbols {
		if i > 0 {
			if err := r.pacer.Sleep(ctx); err != nil {
				r.logger.Debug("batch delay interrupted", "err", err)
			}
		}
		out := r.RefreshSymbol(ctx, sym)
		agg.Outcomes[sym] = out
		if out.Failed() {
			agg.HadAnyError = true
			agg.Failed = append(agg.Failed, sym)
		}
	}
	agg.FinishedAt = r.now()

	if err := r.recorder.RecordBatch(&agg); err != nil {
		r.logger.Error("record batch failed", "err", err)
	}
	r.logger.Info("batch refresh finished",
		"symbols", len(agg.Symbols),
		"failed", len(agg.Failed),
		"elapsed", agg.FinishedAt.Sub(agg.StartedAt))
	return agg
}

// InProgress reports whether a refresh for symbol is running.
func (r *Refresher) InProgress(symbol string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.waiters[model.NormalizeSymbol(symbol)] > 0
}

// InFlight returns the symbols currently being refreshed, sorted.
func (r *Refresher) InFlight() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.waiters))
	for sym := range r.waiters {
		out = append(out, sym)
	}
	sort.Strings(out)
	return out
}

// LastOutcome returns the most recent completed outcome for symbol.
func (r *Refresher) LastOutcome(symbol string) (model.RefreshOutcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out, ok := r.last[model.NormalizeSymbol(symbol)]
	return out, ok
}

func (r *Refresher) refresh(ctx context.Context, sym string) model.RefreshOutcome {
	out := model.RefreshOutcome{Symbol: sym, StartedAt: r.now()}

	if err := r.fetchNews(ctx, sym); err != nil {
		out.News = model.StatusFailure
		out.NewsError = err.Error()
		out.Errs = append(out.Errs, &FetchError{Symbol: sym, Resource: model.ResourceNews, Err: err})
		r.logger.Warn("news fetch failed", "symbol", sym, "err", err)
	} else {
		out.News = model.StatusSuccess
	}

	if err := r.fetchSentiment(ctx, sym); err != nil {
		out.Sentiment = model.StatusFailure
		out.SentimentError = err.Error()
		out.Errs = append(out.Errs, &FetchError{Symbol: sym, Resource: model.ResourceSentiment, Err: err})
		r.logger.Warn("sentiment fetch failed", "symbol", sym, "err", err)
	} else {
		out.Sentiment = model.StatusSuccess
	}

	out.FinishedAt = r.now()

	r.mu.Lock()
	r.last[sym] = out
	r.mu.Unlock()

	if err := r.recorder.RecordRefresh(&out); err != nil {
		r.logger.Error("record refresh failed", "symbol", sym, "err", err)
	}
	r.logger.Info("symbol refreshed",
		"symbol", sym,
		"news", out.News,
		"sentiment", out.Sentiment,
		"elapsed", out.FinishedAt.Sub(out.StartedAt))
	return out
}

func (r *Refresher) fetchNews(ctx context.Context, sym string) error {
	if err := r.pacer.Wait(ctx); err != nil {
		return err
	}
	items, err := r.source.FetchNews(ctx, sym)
	if err != nil {
		return err
	}
	if items == nil {
		items = []model.NewsItem{}
	}
	r.cache.PutNews(sym, items)
	return nil
}

func (r *Refresher) fetchSentiment(ctx context.Context, sym string) error {
	if err := r.pacer.Wait(ctx); err != nil {
		return err
	}
	report, err := r.source.FetchSentiment(ctx, sym)
	if err != nil {
		return err
	}
	if report == nil {
		report = &model.SentimentReport{}
	}
	r.cache.PutSentiment(sym, *report)
	return nil
}

func (r *Refresher) enter(sym string) {
	r.mu.Lock()
	r.waiters[sym]++
	r.mu.Unlock()
}

func (r *Refresher) leave(sym string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.waiters[sym]--
	if r.waiters[sym] <= 0 {
		delete(r.waiters, sym)
	}
}

func (r *Refresher) now() time.Time { return r.pacer.Clock().Now() }

func dedupe(symbols []string) []string {
	seen := make(map[string]bool, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		sym := model.NormalizeSymbol(s)
		if sym == "" || seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}
