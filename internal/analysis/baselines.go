package analysis

import (
	"math"
	"sort"

	"cloud.google.com/go/civil"

	"intervals-coach/internal/intervals"
)

const (
	// DefaultBaselineDays is the number of days averaged into a baseline
	DefaultBaselineDays = 7

	// DefaultOutlierThreshold is the robust z-score above which a value is dropped
	DefaultOutlierThreshold = 3.0

	// madNormalConstant makes MAD consistent with the standard deviation
	// of normally distributed data
	madNormalConstant = 1.4826
)

// RollingAverage averages a field over the windowDays most recent records.
// Records missing the field still count towards the window. Returns 0 when
// there is nothing to average.
func RollingAverage(records []intervals.Wellness, field intervals.Field, windowDays int) float64 {
	s := NewSeries(records).Tail(windowDays)
	return mean(s.Values(field))
}

// FilterOutliers drops values whose MAD-based robust z-score exceeds
// threshold. Inputs with fewer than 3 values are returned unchanged.
func FilterOutliers(values []float64, threshold float64) []float64 {
	if len(values) < 3 {
		return values
	}

	med := median(values)

	deviations := make([]float64, len(values))
	for i, v := range values {
		deviations[i] = math.Abs(v - med)
	}
	mad := median(deviations)

	filtered := make([]float64, 0, len(values))

	// Constant series: keep values within threshold x median of the median
	if mad == 0 {
		for _, v := range values {
			if math.Abs(v-med) <= threshold*math.Abs(med) {
				filtered = append(filtered, v)
			}
		}
		return filtered
	}

	scaled := mad * madNormalConstant
	for _, v := range values {
		if math.Abs(v-med)/scaled <= threshold {
			filtered = append(filtered, v)
		}
	}
	return filtered
}

// BaselineOptions controls CalculateBaseline. The zero value means a 7 day
// baseline over all records with outlier filtering enabled.
type BaselineOptions struct {
	Days int

	// Before excludes records on or after this date when set
	Before civil.Date

	DisableOutlierFilter bool
}

// CalculateBaseline averages a field over the most recent Days records
// dated before opts.Before, after outlier rejection. Returns 0 when no
// values remain.
func CalculateBaseline(records []intervals.Wellness, field intervals.Field, opts BaselineOptions) float64 {
	days := opts.Days
	if days <= 0 {
		days = DefaultBaselineDays
	}

	s := NewSeries(records)
	if !opts.Before.IsZero() {
		s = s.Before(opts.Before)
	}

	values := s.Tail(days).Values(field)
	if len(values) == 0 {
		return 0
	}

	if !opts.DisableOutlierFilter && len(values) >= 3 {
		values = FilterOutliers(values, DefaultOutlierThreshold)
	}

	return mean(values)
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
