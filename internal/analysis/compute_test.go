package analysis

import (
	"math"
	"testing"

	"intervals-coach/internal/intervals"
)

func TestComputeActivityMetrics(t *testing.T) {
	tests := []struct {
		name     string
		activity intervals.Activity
		checkFn  func(t *testing.T, metrics ActivityMetrics)
	}{
		{
			name:     "no data - minimal metrics",
			activity: intervals.Activity{ID: "i1"},
			checkFn: func(t *testing.T, metrics ActivityMetrics) {
				if metrics.ActivityID != "i1" {
					t.Errorf("ActivityID = %v, want i1", metrics.ActivityID)
				}
				if metrics.EfficiencyFactor != nil || metrics.VariabilityIndex != nil || metrics.Decoupling != nil || metrics.DataQualityScore != nil {
					t.Errorf("expected no metrics, got %+v", metrics)
				}
			},
		},
		{
			name: "summary fields",
			activity: intervals.Activity{
				ID:               "i2",
				IcuAverageWatts:  floatPtr(200),
				WeightedAvgWatts: floatPtr(210),
				AverageHeartrate: floatPtr(140),
				Decoupling:       floatPtr(0),
			},
			checkFn: func(t *testing.T, metrics ActivityMetrics) {
				if metrics.EfficiencyFactor == nil || math.Abs(*metrics.EfficiencyFactor-1.5) > 0.001 {
					t.Errorf("EfficiencyFactor = %v, want 1.5", metrics.EfficiencyFactor)
				}
				if metrics.VariabilityIndex == nil || math.Abs(*metrics.VariabilityIndex-1.05) > 0.001 {
					t.Errorf("VariabilityIndex = %v, want 1.05", metrics.VariabilityIndex)
				}
				// Zero decoupling is a reading, not an absence
				if metrics.Decoupling == nil || *metrics.Decoupling != 0 {
					t.Errorf("Decoupling = %v, want 0", metrics.Decoupling)
				}
			},
		},
		{
			name: "stream data quality",
			activity: intervals.Activity{
				ID:      "i3",
				Streams: &intervals.Streams{Watts: []float64{200, 200, 200, 200}, Heartrate: []float64{140, 0, 141, 142}},
			},
			checkFn: func(t *testing.T, metrics ActivityMetrics) {
				if metrics.DataQualityScore == nil || *metrics.DataQualityScore != 0.75 {
					t.Errorf("DataQualityScore = %v, want 0.75", metrics.DataQualityScore)
				}
				if got := DataQualityDescription(*metrics.DataQualityScore); got != "Fair" {
					t.Errorf("DataQualityDescription() = %q, want Fair", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.checkFn(t, ComputeActivityMetrics(tt.activity))
		})
	}
}
