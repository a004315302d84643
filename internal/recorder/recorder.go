package recorder

import (
	"time"

	"WatchDesk/internal/model"
)

// RefreshRecord is one stored single-symbol refresh attempt.
type RefreshRecord struct {
	ID             int64        `json:"id"`
	Symbol         string       `json:"symbol"`
	News           model.Status `json:"news"`
	Sentiment      model.Status `json:"sentiment"`
	NewsError      string       `json:"news_error,omitempty"`
	SentimentError string       `json:"sentiment_error,omitempty"`
	StartedAt      time.Time    `json:"started_at"`
	FinishedAt     time.Time    `json:"finished_at"`
}

// Recorder keeps an audit history of refresh attempts. It is never read back
// into the symbol cache.
type Recorder interface {
	RecordRefresh(out *model.RefreshOutcome) error
	RecordBatch(agg *model.AggregateOutcome) error
	// RecentRefreshes returns the newest records first; an empty symbol
	// matches every symbol.
	RecentRefreshes(symbol string, limit int) ([]RefreshRecord, error)
	Close() error
}
