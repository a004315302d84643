package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"WatchDesk/internal/calculator"
	"WatchDesk/internal/model"
)

const timeLayout = "2006-01-02 15:04"

// FormatBatchReport formats the result of a watchlist refresh.
func FormatBatchReport(agg model.AggregateOutcome) string {
	var b strings.Builder

	if agg.HadAnyError {
		b.WriteString("⚠️ <b>Refresh partially failed</b>\n\n")
	} else {
		b.WriteString("✅ <b>Watchlist refreshed</b>\n\n")
	}
	b.WriteString(fmt.Sprintf("Symbols: %d | Failed: %d\n", len(agg.Symbols), len(agg.Failed)))

	for _, sym := range agg.Failed {
		out := agg.Outcomes[sym]
		b.WriteString(fmt.Sprintf("  %s: news %s, sentiment %s\n", sym, statusMark(out.News), statusMark(out.Sentiment)))
	}
	if agg.HadAnyError {
		b.WriteString("\nLikely rate limit. Try again shortly.\n")
	}
	if !agg.FinishedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Elapsed: %s\n", agg.FinishedAt.Sub(agg.StartedAt).Round(time.Millisecond)))
	}
	return b.String()
}

// FormatSymbolSummary formats the cached view of one symbol.
func FormatSymbolSummary(entry model.CacheEntry) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📌 <b>%s</b>\n\n", html.EscapeString(entry.Symbol)))

	if mspr, ok := calculator.LatestMSPR(&entry.Sentiment); ok {
		b.WriteString(fmt.Sprintf("MSPR: %+.2f (%s)\n", mspr, calculator.SentimentLabel(mspr)))
	} else {
		b.WriteString("MSPR: n/a\n")
	}
	if avg, err := calculator.AverageMSPR(&entry.Sentiment, 3); err == nil {
		b.WriteString(fmt.Sprintf("3-month avg: %+.2f\n", avg))
	}
	if high, low, err := calculator.MSPRRange(&entry.Sentiment, 0); err == nil {
		b.WriteString(fmt.Sprintf("Range: %+.2f .. %+.2f\n", low, high))
	}
	if len(entry.Sentiment.Data) > 0 {
		b.WriteString(fmt.Sprintf("Insider net change: %+.0f shares\n", calculator.NetChange(&entry.Sentiment)))
	}

	if len(entry.News) > 0 {
		b.WriteString(fmt.Sprintf("Top headline: %s\n", headline(entry.News[0])))
	} else {
		b.WriteString("No cached news\n")
	}

	b.WriteString(fmt.Sprintf("News updated: %s\n", formatTime(entry.NewsUpdatedAt)))
	b.WriteString(fmt.Sprintf("Sentiment updated: %s\n", formatTime(entry.SentimentUpdatedAt)))
	return b.String()
}

// FormatNews lists up to limit cached headlines.
func FormatNews(entry model.CacheEntry, limit int) string {
	if len(entry.News) == 0 {
		return fmt.Sprintf("No cached news for %s", html.EscapeString(entry.Symbol))
	}
	if limit <= 0 || limit > len(entry.News) {
		limit = len(entry.News)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("📰 <b>%s news</b>\n\n", html.EscapeString(entry.Symbol)))
	for _, item := range entry.News[:limit] {
		b.WriteString("• ")
		if item.URL != "" {
			b.WriteString(fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(item.URL), headline(item)))
		} else {
			b.WriteString(headline(item))
		}
		if item.Source != "" {
			b.WriteString(fmt.Sprintf(" <i>(%s)</i>", html.EscapeString(item.Source)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatWatchlist formats one line per symbol in watchlist order.
func FormatWatchlist(entries []model.CacheEntry) string {
	if len(entries) == 0 {
		return "Watchlist is empty. Use /add SYMBOL."
	}

	var b strings.Builder
	b.WriteString("👀 <b>Watchlist</b>\n\n")
	for _, e := range entries {
		mspr := "n/a"
		if v, ok := calculator.LatestMSPR(&e.Sentiment); ok {
			mspr = fmt.Sprintf("%+.2f", v)
		}
		b.WriteString(fmt.Sprintf("%s  MSPR %s | %d news\n", html.EscapeString(e.Symbol), mspr, len(e.News)))
	}
	return b.String()
}

func headline(item model.NewsItem) string {
	if item.Headline == "" {
		return "(untitled)"
	}
	return html.EscapeString(item.Headline)
}

func statusMark(s model.Status) string {
	if s == model.StatusFailure {
		return "❌"
	}
	return "✅"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format(timeLayout)
}
