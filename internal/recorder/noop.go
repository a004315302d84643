package recorder

import "WatchDesk/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRefresh(_ *model.RefreshOutcome) error { return nil }
func (n *NoopRecorder) RecordBatch(_ *model.AggregateOutcome) error { return nil }
func (n *NoopRecorder) RecentRefreshes(_ string, _ int) ([]RefreshRecord, error) {
	return []RefreshRecord{}, nil
}
func (n *NoopRecorder) Close() error { return nil }
