package analysis

import "intervals-coach/internal/intervals"

// ActivityMetrics holds the per-activity metrics derived from summary fields
// and, when attached, the power and heart rate streams
type ActivityMetrics struct {
	ActivityID       string
	EfficiencyFactor *float64
	VariabilityIndex *float64
	Decoupling       *float64
	DataQualityScore *float64 // share of stream samples with heart rate
}

// ComputeActivityMetrics calculates all metrics for a single activity
func ComputeActivityMetrics(a intervals.Activity) ActivityMetrics {
	metrics := ActivityMetrics{
		ActivityID: a.ID,
	}

	// Efficiency Factor
	if ef := EfficiencyFactor(a.NormalizedPower(), a.AvgHR()); ef > 0 {
		metrics.EfficiencyFactor = &ef
	}

	// Variability Index
	if vi := VariabilityIndex(a.NormalizedPower(), a.AvgPower()); vi > 0 {
		metrics.VariabilityIndex = &vi
	}

	// Aerobic Decoupling, zero is a valid reading
	if dec, ok := ActivityDecoupling(a); ok {
		metrics.Decoupling = &dec
	}

	if a.Streams != nil && len(a.Streams.Heartrate) > 0 {
		quality := float64(len(positive(a.Streams.Heartrate))) / float64(len(a.Streams.Heartrate))
		metrics.DataQualityScore = &quality
	}

	return metrics
}

// DataQualityDescription returns a human-readable data quality assessment
func DataQualityDescription(score float64) string {
	switch {
	case score >= 0.95:
		return "Excellent"
	case score >= 0.85:
		return "Good"
	case score >= 0.70:
		return "Fair"
	case score >= 0.50:
		return "Poor"
	default:
		return "Very Poor"
	}
}
