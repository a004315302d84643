package calculator

import (
	"encoding/json"
	"testing"

	"WatchDesk/internal/model"
)

func TestLatestMSPR(t *testing.T) {
	tests := []struct {
		name   string
		report *model.SentimentReport
		want   float64
		wantOK bool
	}{
		{"nil report", nil, 0, false},
		{"empty data", &model.SentimentReport{}, 0, false},
		{"single point", &model.SentimentReport{Data: []model.SentimentPoint{
			{Month: "Jan", MSPR: model.Float(1.5)},
		}}, 1.5, true},
		{"last point wins", &model.SentimentReport{Data: []model.SentimentPoint{
			{Month: "Jan", MSPR: model.Float(-3)},
			{Month: "Feb", MSPR: model.Float(7.25)},
		}}, 7.25, true},
		{"last point missing mspr", &model.SentimentReport{Data: []model.SentimentPoint{
			{Month: "Jan", MSPR: model.Float(4)},
			{Month: "Feb"},
		}}, 0, false},
	}
	for _, tt := range tests {
		got, ok := LatestMSPR(tt.report)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("%s: LatestMSPR() = (%v, %v), want (%v, %v)", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

// Upstream ordering is not guaranteed to be chronological. This fixture pins
// the current rule: the last element in source order is "latest", even when
// the months arrive descending.
func TestLatestMSPR_SourceOrderFixture(t *testing.T) {
	ascending := &model.SentimentReport{Data: []model.SentimentPoint{
		{Year: 2025, Month: "1", MSPR: model.Float(-10)},
		{Year: 2025, Month: "2", MSPR: model.Float(5)},
		{Year: 2025, Month: "3", MSPR: model.Float(20)},
	}}
	if got, _ := LatestMSPR(ascending); got != 20 {
		t.Errorf("ascending fixture: got %v, want 20", got)
	}

	descending := &model.SentimentReport{Data: []model.SentimentPoint{
		{Year: 2025, Month: "3", MSPR: model.Float(20)},
		{Year: 2025, Month: "2", MSPR: model.Float(5)},
		{Year: 2025, Month: "1", MSPR: model.Float(-10)},
	}}
	if got, _ := LatestMSPR(descending); got != -10 {
		t.Errorf("descending fixture: got %v, want -10 (last element, not newest month)", got)
	}
}

func TestLatestMSPR_NonNumericFromJSON(t *testing.T) {
	var report model.SentimentReport
	body := `{"symbol":"TSLA","data":[{"month":"Jan","mspr":2},{"month":"Feb","mspr":"n/a"}]}`
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := LatestMSPR(&report); ok {
		t.Error("expected ok=false for non-numeric mspr")
	}
	if len(report.Data) != 2 {
		t.Fatalf("expected 2 points, got %d", len(report.Data))
	}
}

func TestAverageMSPR(t *testing.T) {
	report := &model.SentimentReport{Data: []model.SentimentPoint{
		{MSPR: model.Float(10)},
		{MSPR: nil},
		{MSPR: model.Float(20)},
		{MSPR: model.Float(30)},
	}}
	avg, err := AverageMSPR(report, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avg != 25 {
		t.Errorf("expected 25, got %v", avg)
	}
	if _, err := AverageMSPR(report, 4); err == nil {
		t.Error("expected error for insufficient data")
	}
	if _, err := AverageMSPR(report, 0); err == nil {
		t.Error("expected error for non-positive months")
	}
}

func TestNetChangeAndRange(t *testing.T) {
	report := &model.SentimentReport{Data: []model.SentimentPoint{
		{MSPR: model.Float(-5), Change: model.Float(-100)},
		{MSPR: model.Float(12), Change: model.Float(250)},
		{MSPR: model.Float(3)},
	}}
	if got := NetChange(report); got != 150 {
		t.Errorf("NetChange = %v, want 150", got)
	}
	high, low, err := MSPRRange(report, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if high != 12 || low != -5 {
		t.Errorf("MSPRRange = (%v, %v), want (12, -5)", high, low)
	}
	high, low, _ = MSPRRange(report, 2)
	if high != 12 || low != 3 {
		t.Errorf("MSPRRange(2) = (%v, %v), want (12, 3)", high, low)
	}
	if _, _, err := MSPRRange(&model.SentimentReport{}, 3); err == nil {
		t.Error("expected error for empty report")
	}
}

func TestSentimentLabel(t *testing.T) {
	tests := []struct {
		mspr float64
		want string
	}{
		{42, "bullish"},
		{0.1, "bullish"},
		{0, "neutral"},
		{-0.1, "bearish"},
	}
	for _, tt := range tests {
		if got := SentimentLabel(tt.mspr); got != tt.want {
			t.Errorf("SentimentLabel(%v) = %q, want %q", tt.mspr, got, tt.want)
		}
	}
}
