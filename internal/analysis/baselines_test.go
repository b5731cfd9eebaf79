package analysis

import (
	"math"
	"testing"

	"intervals-coach/internal/intervals"
)

func TestFilterOutliers(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected []float64
	}{
		{
			name:     "removes extreme value",
			values:   []float64{40, 42, 38, 255, 45, 47, 40},
			expected: []float64{40, 42, 38, 45, 47, 40},
		},
		{
			name:     "preserves normal variation",
			values:   []float64{40, 42, 38, 45, 47, 40, 43},
			expected: []float64{40, 42, 38, 45, 47, 40, 43},
		},
		{
			name:     "small sample unchanged",
			values:   []float64{40, 255},
			expected: []float64{40, 255},
		},
		{
			name:     "empty unchanged",
			values:   nil,
			expected: nil,
		},
		{
			// MAD is 0, so values within 3 x median of the median survive
			name:     "constant series with spike",
			values:   []float64{50, 50, 50, 50, 300},
			expected: []float64{50, 50, 50, 50},
		},
		{
			name:     "constant series",
			values:   []float64{50, 50, 50},
			expected: []float64{50, 50, 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FilterOutliers(tt.values, DefaultOutlierThreshold)
			if len(result) != len(tt.expected) {
				t.Fatalf("FilterOutliers() = %v, want %v", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("FilterOutliers()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func baselineWeek() []intervals.Wellness {
	return []intervals.Wellness{
		hrvDay("2026-02-14", 47, 52),
		hrvDay("2026-02-15", 38, 58),
		hrvDay("2026-02-16", 42, 58),
		hrvDay("2026-02-17", 42, 55),
		hrvDay("2026-02-18", 40, 62),
		hrvDay("2026-02-19", 255, 63), // sensor glitch
		hrvDay("2026-02-20", 45, 53),
		hrvDay("2026-02-21", 40, 62), // today
	}
}

func TestCalculateBaseline(t *testing.T) {
	today := mustDate("2026-02-21")

	tests := []struct {
		name     string
		records  []intervals.Wellness
		field    intervals.Field
		opts     BaselineOptions
		expected float64
		delta    float64
	}{
		{
			name:     "hrv excludes today and the outlier",
			records:  baselineWeek(),
			field:    intervals.FieldHRV,
			opts:     BaselineOptions{Days: 7, Before: today},
			expected: 42.33, // (47+38+42+42+40+45)/6
			delta:    0.1,
		},
		{
			name:     "resting hr has no outliers",
			records:  baselineWeek(),
			field:    intervals.FieldRestingHR,
			opts:     BaselineOptions{Days: 7, Before: today},
			expected: 57.29, // 401/7
			delta:    0.1,
		},
		{
			name: "filtering disabled keeps the outlier",
			records: []intervals.Wellness{
				hrvDay("2026-02-19", 255, 60),
				hrvDay("2026-02-20", 45, 60),
				hrvDay("2026-02-21", 40, 60),
			},
			field:    intervals.FieldHRV,
			opts:     BaselineOptions{Days: 7, Before: today, DisableOutlierFilter: true},
			expected: 150,
			delta:    0.001,
		},
		{
			name:     "empty records",
			records:  nil,
			field:    intervals.FieldHRV,
			opts:     BaselineOptions{},
			expected: 0,
			delta:    0,
		},
		{
			name: "missing and null fields skipped",
			records: []intervals.Wellness{
				{ID: "2026-02-19", HRV: floatPtr(45)},
				{ID: "2026-02-20"},
				{ID: "2026-02-21", HRV: floatPtr(40)},
			},
			field:    intervals.FieldHRV,
			opts:     BaselineOptions{Before: today},
			expected: 45,
			delta:    0.001,
		},
		{
			name: "window counts records not values",
			records: []intervals.Wellness{
				{ID: "2026-02-17", HRV: floatPtr(80)},
				{ID: "2026-02-18"},
				{ID: "2026-02-19"},
				{ID: "2026-02-20", HRV: floatPtr(40)},
			},
			field:    intervals.FieldHRV,
			opts:     BaselineOptions{Days: 3, Before: today},
			expected: 40,
			delta:    0.001,
		},
		{
			name: "unsorted input",
			records: []intervals.Wellness{
				hrvDay("2026-02-20", 50, 60),
				hrvDay("2026-02-10", 10, 60),
				hrvDay("2026-02-19", 40, 60),
			},
			field:    intervals.FieldHRV,
			opts:     BaselineOptions{Days: 2, Before: today},
			expected: 45,
			delta:    0.001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateBaseline(tt.records, tt.field, tt.opts)
			if math.Abs(result-tt.expected) > tt.delta {
				t.Errorf("CalculateBaseline() = %v, want %v (±%v)", result, tt.expected, tt.delta)
			}
		})
	}
}

func TestCalculateBaselineExcludesEndDate(t *testing.T) {
	records := []intervals.Wellness{
		{ID: "2026-02-20", HRV: floatPtr(40)},
		{ID: "2026-02-21", HRV: floatPtr(90)},
	}

	result := CalculateBaseline(records, intervals.FieldHRV, BaselineOptions{Before: mustDate("2026-02-21")})
	if result != 40 {
		t.Errorf("CalculateBaseline() = %v, want 40 (end date must be excluded)", result)
	}
}

func TestRollingAverage(t *testing.T) {
	tests := []struct {
		name     string
		records  []intervals.Wellness
		window   int
		expected float64
	}{
		{name: "empty", records: nil, window: 7, expected: 0},
		{
			name:     "all null",
			records:  []intervals.Wellness{{ID: "2026-02-20"}, {ID: "2026-02-21"}},
			window:   7,
			expected: 0,
		},
		{
			name: "takes the most recent window",
			records: []intervals.Wellness{
				hrvDay("2026-02-18", 10, 50),
				hrvDay("2026-02-19", 20, 50),
				hrvDay("2026-02-20", 30, 50),
				hrvDay("2026-02-21", 40, 50),
			},
			window:   2,
			expected: 35,
		},
		{
			name: "outliers are not filtered",
			records: []intervals.Wellness{
				hrvDay("2026-02-20", 255, 50),
				hrvDay("2026-02-21", 45, 50),
			},
			window:   7,
			expected: 150,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RollingAverage(tt.records, intervals.FieldHRV, tt.window)
			if result != tt.expected {
				t.Errorf("RollingAverage() = %v, want %v", result, tt.expected)
			}
		})
	}
}
