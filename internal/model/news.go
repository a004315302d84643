package model

import "strings"

// NewsItem is a single company news article as returned by the data source.
// Every field is optional; items are stored in source order.
type NewsItem struct {
	ID       int64  `json:"id,omitempty"`
	Category string `json:"category,omitempty"`
	Headline string `json:"headline,omitempty"`
	Source   string `json:"source,omitempty"`
	URL      string `json:"url,omitempty"`
	Image    string `json:"image,omitempty"`
	Related  string `json:"related,omitempty"`
	Datetime int64  `json:"datetime,omitempty"` // unix seconds
	Summary  string `json:"summary,omitempty"`
}

// NormalizeSymbol trims and uppercases a ticker symbol.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
