package experiment

import (
	"github.com/presilience-net/resilience-core/pkg/models"
)

// DefaultTrendThreshold is the least-squares slope magnitude below which a
// score trajectory classifies as stable.
const DefaultTrendThreshold = 0.001

// TrendOf classifies a score trajectory using the default slope threshold.
func TrendOf(scores []float64) models.Trend {
	return TrendWithThreshold(scores, DefaultTrendThreshold)
}

// TrendWithThreshold fits a least-squares line through (step, score) pairs
// and classifies the trajectory by the sign of the slope. Higher scores mean
// a more resilient network, so a positive slope reads as improving. Fewer
// than two points, or a non-finite slope, classify stable.
func TrendWithThreshold(scores []float64, threshold float64) models.Trend {
	if len(scores) < 2 {
		return models.TrendStable
	}
	slope := Slope(scores)
	switch {
	case slope > threshold:
		return models.TrendImproving
	case slope < -threshold:
		return models.TrendDegrading
	default:
		return models.TrendStable
	}
}

// Slope returns the least-squares slope of scores against their indices.
// A single point, or a degenerate fit, yields 0.
func Slope(scores []float64) float64 {
	n := float64(len(scores))
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range scores {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denominator
}
