package services

import (
	"slices"
	"time"

	"tour-analytics/internal/models"
)

// minTrendSamples is the smallest bucket that gets a directional estimate.
const minTrendSamples = 3

// trendSample is one tour in a season or type bucket together with the
// number of approved applications it attracted.
type trendSample struct {
	createdAt time.Time
	approved  int
}

// estimateTrend compares the mean approved-application count of the older
// half of the samples with that of the newer half. With an odd number of
// samples the middle one belongs to the newer half.
//
// Growth from a zero baseline is reported as 100%.
func estimateTrend(samples []trendSample) models.TrendEstimate {
	if len(samples) < minTrendSamples {
		return models.TrendEstimate{Trend: models.TrendInsufficientData}
	}

	sorted := slices.Clone(samples)
	slices.SortStableFunc(sorted, func(a, b trendSample) int {
		return a.createdAt.Compare(b.createdAt)
	})

	split := len(sorted) / 2
	first := meanApproved(sorted[:split])
	second := meanApproved(sorted[split:])

	estimate := models.TrendEstimate{Average: second}
	switch {
	case second > first:
		estimate.Trend = models.TrendIncreasing
		estimate.Percentage = 100
		if first > 0 {
			estimate.Percentage = (second - first) / first * 100
		}
	case second < first:
		estimate.Trend = models.TrendDecreasing
		if first > 0 {
			estimate.Percentage = (first - second) / first * 100
		}
	default:
		estimate.Trend = models.TrendStable
	}
	return estimate
}

func meanApproved(samples []trendSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0
	for _, s := range samples {
		sum += s.approved
	}
	return float64(sum) / float64(len(samples))
}
