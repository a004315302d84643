package model

import (
	"encoding/json"
	"testing"
)

func TestSentimentPoint_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantYear  int
		wantMonth string
		wantMSPR  *float64
		wantChg   *float64
	}{
		{"finnhub point", `{"symbol":"AAPL","year":2025,"month":3,"change":-1200,"mspr":-12.5}`, 2025, "3", Float(-12.5), Float(-1200)},
		{"string month", `{"month":"Jan","mspr":1.5}`, 0, "Jan", Float(1.5), nil},
		{"non-numeric mspr", `{"month":"Feb","mspr":"n/a","change":null}`, 0, "Feb", nil, nil},
		{"empty object", `{}`, 0, "", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p SentimentPoint
			if err := json.Unmarshal([]byte(tt.input), &p); err != nil {
				t.Fatalf("Unmarshal() = %v", err)
			}
			if p.Year != tt.wantYear || p.Month != tt.wantMonth {
				t.Errorf("year/month = %d/%q, want %d/%q", p.Year, p.Month, tt.wantYear, tt.wantMonth)
			}
			if !sameFloat(p.MSPR, tt.wantMSPR) {
				t.Errorf("MSPR = %v, want %v", deref(p.MSPR), deref(tt.wantMSPR))
			}
			if !sameFloat(p.Change, tt.wantChg) {
				t.Errorf("Change = %v, want %v", deref(p.Change), deref(tt.wantChg))
			}
		})
	}
}

func TestSentimentPoint_UnmarshalRejectsNonObject(t *testing.T) {
	var p SentimentPoint
	if err := json.Unmarshal([]byte(`[1,2]`), &p); err == nil {
		t.Error("Unmarshal(array) = nil; want error")
	}
}

func TestSentimentReport_Clone(t *testing.T) {
	orig := SentimentReport{Symbol: "AAPL", Data: []SentimentPoint{{Month: "Jan", MSPR: Float(1)}}}
	c := orig.Clone()
	*c.Data[0].MSPR = 99
	c.Data[0].Month = "Dec"
	if *orig.Data[0].MSPR != 1 || orig.Data[0].Month != "Jan" {
		t.Errorf("Clone shares memory with original: %+v", orig.Data[0])
	}
	if empty := (SentimentReport{}).Clone(); empty.Data != nil {
		t.Errorf("Clone of empty report = %+v", empty)
	}
}

func TestNormalizeSymbol(t *testing.T) {
	for in, want := range map[string]string{" aapl ": "AAPL", "BRK.b": "BRK.B", "  ": ""} {
		if got := NormalizeSymbol(in); got != want {
			t.Errorf("NormalizeSymbol(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRefreshOutcome_Failed(t *testing.T) {
	if (RefreshOutcome{News: StatusSuccess, Sentiment: StatusSuccess}).Failed() {
		t.Error("all-success outcome reported failed")
	}
	if !(RefreshOutcome{News: StatusSuccess, Sentiment: StatusFailure}).Failed() {
		t.Error("sentiment failure not reported")
	}
}

func sameFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func deref(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
