package refresh

import (
	"errors"
	"fmt"
	"strings"

	"WatchDesk/internal/model"
)

var (
	ErrNewsFetch      = errors.New("news fetch failed")
	ErrSentimentFetch = errors.New("sentiment fetch failed")
)

// PartialFailureMessage is shown to users when a refresh recorded any failure.
const PartialFailureMessage = "Refresh partially failed (likely rate limit). Try again shortly."

// FetchError is one failed upstream call. It matches ErrNewsFetch or
// ErrSentimentFetch by resource, and the underlying error.
type FetchError struct {
	Symbol   string
	Resource model.Resource
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s for %s: %v", e.Resource, e.Symbol, e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Resource == model.ResourceSentiment {
		return []error{ErrSentimentFetch, e.Err}
	}
	return []error{ErrNewsFetch, e.Err}
}

// StatusMessage returns the user-facing status for a batch, or "" when
// every symbol refreshed cleanly.
func StatusMessage(agg model.AggregateOutcome) string {
	if !agg.HadAnyError {
		return ""
	}
	if len(agg.Failed) == 0 {
		return PartialFailureMessage
	}
	return fmt.Sprintf("Refresh partially failed for: %s (likely rate limit). Try again shortly.",
		strings.Join(agg.Failed, ", "))
}
