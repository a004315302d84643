package model

import "time"

// CacheEntry is the stored (news, sentiment) pair for one symbol.
type CacheEntry struct {
	Symbol             string          `json:"symbol"`
	News               []NewsItem      `json:"news"`
	Sentiment          SentimentReport `json:"sentiment"`
	NewsUpdatedAt      time.Time       `json:"news_updated_at,omitzero"`
	SentimentUpdatedAt time.Time       `json:"sentiment_updated_at,omitzero"`
}

// Resource names one of the two per-symbol upstream datasets.
type Resource string

const (
	ResourceNews      Resource = "news"
	ResourceSentiment Resource = "sentiment"
)

// Status is the result of fetching one resource.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
)

// RefreshOutcome summarizes one single-symbol refresh.
type RefreshOutcome struct {
	Symbol         string    `json:"symbol"`
	News           Status    `json:"news,omitempty"`
	Sentiment      Status    `json:"sentiment,omitempty"`
	NewsError      string    `json:"news_error,omitempty"`
	SentimentError string    `json:"sentiment_error,omitempty"`
	Skipped        bool      `json:"skipped,omitempty"`
	Coalesced      bool      `json:"coalesced,omitempty"`
	StartedAt      time.Time `json:"started_at,omitzero"`
	FinishedAt     time.Time `json:"finished_at,omitzero"`

	// Errs holds the underlying fetch errors, in resource order.
	Errs []error `json:"-"`
}

// Failed reports whether either resource failed.
func (o RefreshOutcome) Failed() bool {
	return o.News == StatusFailure || o.Sentiment == StatusFailure
}

// AggregateOutcome summarizes a batch refresh.
type AggregateOutcome struct {
	HadAnyError bool                      `json:"had_any_error"`
	Failed      []string                  `json:"failed"`
	Outcomes    map[string]RefreshOutcome `json:"outcomes"`
	Symbols     []string                  `json:"symbols"`
	StartedAt   time.Time                 `json:"started_at"`
	FinishedAt  time.Time                 `json:"finished_at"`
}
