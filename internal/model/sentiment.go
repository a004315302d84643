package model

import "encoding/json"

// SentimentReport holds monthly insider sentiment for one symbol.
type SentimentReport struct {
	Symbol string           `json:"symbol,omitempty"`
	Data   []SentimentPoint `json:"data,omitempty"`
}

// SentimentPoint is one month of insider activity.
type SentimentPoint struct {
	Year   int      `json:"year,omitempty"`
	Month  string   `json:"month,omitempty"`
	MSPR   *float64 `json:"mspr,omitempty"` // monthly share purchase ratio
	Change *float64 `json:"change,omitempty"`
}

// UnmarshalJSON tolerates non-numeric mspr/change values and numeric months.
// A value that is not a JSON number decodes as absent instead of failing the
// whole report.
func (p *SentimentPoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		Year   json.RawMessage `json:"year"`
		Month  json.RawMessage `json:"month"`
		MSPR   json.RawMessage `json:"mspr"`
		Change json.RawMessage `json:"change"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = SentimentPoint{}
	var year float64
	if json.Unmarshal(raw.Year, &year) == nil {
		p.Year = int(year)
	}
	var month string
	if json.Unmarshal(raw.Month, &month) == nil {
		p.Month = month
	} else if json.Unmarshal(raw.Month, &year) == nil {
		p.Month = string(raw.Month)
	}
	p.MSPR = numberOrNil(raw.MSPR)
	p.Change = numberOrNil(raw.Change)
	return nil
}

func numberOrNil(raw json.RawMessage) *float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return &v
}

// Clone returns a deep copy of the report.
func (r SentimentReport) Clone() SentimentReport {
	out := SentimentReport{Symbol: r.Symbol}
	if r.Data == nil {
		return out
	}
	out.Data = make([]SentimentPoint, len(r.Data))
	for i, p := range r.Data {
		out.Data[i] = SentimentPoint{Year: p.Year, Month: p.Month}
		if p.MSPR != nil {
			v := *p.MSPR
			out.Data[i].MSPR = &v
		}
		if p.Change != nil {
			v := *p.Change
			out.Data[i].Change = &v
		}
	}
	return out
}

// Float returns a pointer to v, for building sentiment points.
func Float(v float64) *float64 { return &v }
