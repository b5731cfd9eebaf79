package analysis

import (
	"math"
	"testing"

	"intervals-coach/internal/intervals"
)

// makeStreams builds n samples where the second half runs at secondHR
func makeStreams(n int, power, firstHR, secondHR float64) ([]float64, []float64) {
	watts := make([]float64, n)
	hr := make([]float64, n)
	for i := 0; i < n; i++ {
		watts[i] = power
		if i < n/2 {
			hr[i] = firstHR
		} else {
			hr[i] = secondHR
		}
	}
	return watts, hr
}

func TestDecoupling(t *testing.T) {
	tests := []struct {
		name     string
		n        int
		firstHR  float64
		secondHR float64
		expected float64
	}{
		{name: "too short", n: 3599, firstHR: 100, secondHR: 125, expected: 0},
		{name: "steady", n: 3600, firstHR: 100, secondHR: 100, expected: 0},
		{name: "cardiac drift", n: 3600, firstHR: 100, secondHR: 125, expected: -20},
		{name: "hr fell", n: 4000, firstHR: 125, secondHR: 100, expected: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			watts, hr := makeStreams(tt.n, 200, tt.firstHR, tt.secondHR)
			result := Decoupling(watts, hr)
			if math.Abs(result.Percent-tt.expected) > 0.001 {
				t.Errorf("Decoupling() = %v, want %v", result.Percent, tt.expected)
			}
		})
	}
}

func TestDecouplingMismatchedStreams(t *testing.T) {
	watts, hr := makeStreams(3600, 200, 100, 125)
	result := Decoupling(watts, hr[:3000])
	if result != (DecouplingResult{}) {
		t.Errorf("Decoupling() = %+v, want zero result", result)
	}
}

func TestDecouplingSkipsZeroSamples(t *testing.T) {
	watts, hr := makeStreams(3600, 200, 100, 100)
	for i := 0; i < 100; i++ {
		watts[i] = 0 // coasting
		hr[1800+i] = 0
	}
	result := Decoupling(watts, hr)
	if math.Abs(result.Percent) > 0.001 {
		t.Errorf("Decoupling() = %v, want 0", result.Percent)
	}
	if math.Abs(result.FirstRatio-2) > 0.001 {
		t.Errorf("FirstRatio = %v, want 2", result.FirstRatio)
	}
}

func TestDecouplingDescription(t *testing.T) {
	tests := []struct {
		pct      float64
		expected string
	}{
		{3, "Excellent aerobic durability"},
		{-4.9, "Excellent aerobic durability"},
		{-7, "Good aerobic durability"},
		{10, "Poor aerobic durability - build aerobic base"},
	}

	for _, tt := range tests {
		if got := DecouplingDescription(tt.pct); got != tt.expected {
			t.Errorf("DecouplingDescription(%v) = %q, want %q", tt.pct, got, tt.expected)
		}
	}
}

func TestActivityDecoupling(t *testing.T) {
	watts, hr := makeStreams(3600, 200, 100, 125)

	tests := []struct {
		name     string
		activity intervals.Activity
		expected float64
		ok       bool
	}{
		{name: "nothing available", activity: intervals.Activity{}, ok: false},
		{name: "upstream value", activity: intervals.Activity{Decoupling: floatPtr(4.2)}, expected: 4.2, ok: true},
		{name: "upstream zero counts", activity: intervals.Activity{Decoupling: floatPtr(0)}, expected: 0, ok: true},
		{
			name: "streams override upstream",
			activity: intervals.Activity{
				Decoupling: floatPtr(4.2),
				Streams:    &intervals.Streams{Watts: watts, Heartrate: hr},
			},
			expected: -20,
			ok:       true,
		},
		{
			name: "short streams fall back",
			activity: intervals.Activity{
				Decoupling: floatPtr(4.2),
				Streams:    &intervals.Streams{Watts: watts[:100], Heartrate: hr[:100]},
			},
			expected: 4.2,
			ok:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ActivityDecoupling(tt.activity)
			if ok != tt.ok {
				t.Fatalf("ActivityDecoupling() ok = %v, want %v", ok, tt.ok)
			}
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("ActivityDecoupling() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestAggregateDurability(t *testing.T) {
	activities := []intervals.Activity{
		{MovingTime: 3600, Decoupling: floatPtr(-4)},
		{MovingTime: 5400, Decoupling: floatPtr(8)},
		{MovingTime: 1800, Decoupling: floatPtr(30)}, // too short
		{MovingTime: 7200},                           // no value
	}

	d := AggregateDurability(activities, MinDurabilityMinutes)
	if d.ActivitiesAnalyzed != 2 {
		t.Errorf("ActivitiesAnalyzed = %d, want 2", d.ActivitiesAnalyzed)
	}
	if d.MeanDecoupling == nil || math.Abs(*d.MeanDecoupling-6) > 0.001 {
		t.Errorf("MeanDecoupling = %v, want 6", d.MeanDecoupling)
	}
	if d.Interpretation != "Good aerobic durability" {
		t.Errorf("Interpretation = %q", d.Interpretation)
	}

	m, ok := MeanDurability(activities)
	if !ok || math.Abs(m-6) > 0.001 {
		t.Errorf("MeanDurability() = %v, %v, want 6, true", m, ok)
	}
}

func TestAggregateDurabilityInsufficient(t *testing.T) {
	d := AggregateDurability([]intervals.Activity{{MovingTime: 600, Decoupling: floatPtr(3)}}, MinDurabilityMinutes)
	if d.MeanDecoupling != nil {
		t.Errorf("MeanDecoupling = %v, want nil", *d.MeanDecoupling)
	}
	if d.ActivitiesAnalyzed != 0 {
		t.Errorf("ActivitiesAnalyzed = %d, want 0", d.ActivitiesAnalyzed)
	}
	if d.Interpretation != "Insufficient data for durability assessment" {
		t.Errorf("Interpretation = %q", d.Interpretation)
	}

	if _, ok := MeanDurability(nil); ok {
		t.Error("MeanDurability(nil) should not be ok")
	}
}
