package calculator

import (
	"errors"
	"math"

	"WatchDesk/internal/model"
)

// MSPRRange scans the most recent months numeric mspr values and returns the
// high and low.
func MSPRRange(report *model.SentimentReport, months int) (high, low float64, err error) {
	values := extractMSPR(report)
	if len(values) == 0 {
		return 0, 0, errors.New("no sentiment data provided")
	}
	n := len(values)
	start := n - months
	if start < 0 || months <= 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if values[i] > high {
			high = values[i]
		}
		if values[i] < low {
			low = values[i]
		}
	}
	return high, low, nil
}

// SentimentLabel maps an mspr value to a coarse label.
func SentimentLabel(mspr float64) string {
	switch {
	case mspr > 0:
		return "bullish"
	case mspr < 0:
		return "bearish"
	default:
		return "neutral"
	}
}
