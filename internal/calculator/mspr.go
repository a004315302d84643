package calculator

import (
	"errors"

	"WatchDesk/internal/model"
)

// LatestMSPR returns the mspr of the last point in report.Data. Points are
// taken in source order; the last one is treated as the most recent month.
// ok is false for a nil report, empty data, or a last point without a
// numeric mspr.
func LatestMSPR(report *model.SentimentReport) (mspr float64, ok bool) {
	if report == nil || len(report.Data) == 0 {
		return 0, false
	}
	latest := report.Data[len(report.Data)-1]
	if latest.MSPR == nil {
		return 0, false
	}
	return *latest.MSPR, true
}

// AverageMSPR computes the mean mspr over the most recent months points that
// carry a numeric mspr.
func AverageMSPR(report *model.SentimentReport, months int) (float64, error) {
	if months <= 0 {
		return 0, errors.New("months must be positive")
	}
	values := extractMSPR(report)
	if len(values) < months {
		return 0, errors.New("not enough sentiment data for average")
	}
	sum := 0.0
	for i := len(values) - months; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(months), nil
}

// NetChange sums the net insider share change over every point.
func NetChange(report *model.SentimentReport) float64 {
	if report == nil {
		return 0
	}
	total := 0.0
	for _, p := range report.Data {
		if p.Change != nil {
			total += *p.Change
		}
	}
	return total
}

func extractMSPR(report *model.SentimentReport) []float64 {
	if report == nil {
		return nil
	}
	values := make([]float64, 0, len(report.Data))
	for _, p := range report.Data {
		if p.MSPR != nil {
			values = append(values, *p.MSPR)
		}
	}
	return values
}
