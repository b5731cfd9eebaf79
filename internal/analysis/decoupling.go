package analysis

import (
	"math"

	"intervals-coach/internal/intervals"
)

const (
	// MinDecouplingSamples is one hour of 1 Hz data
	MinDecouplingSamples = 3600

	// MinDurabilityMinutes is the shortest activity counted for durability
	MinDurabilityMinutes = 60
)

// DecouplingResult holds Pw:HR drift between the two halves of a session
type DecouplingResult struct {
	Percent     float64 // (second - first) / first * 100
	FirstRatio  float64 // mean watts per beat, first half
	SecondRatio float64 // mean watts per beat, second half
}

// Decoupling calculates the power:HR drift between first and second half.
// Negative means the ratio fell (HR drifted up for the same power).
// Streams shorter than an hour, or of unequal length, give a zero result.
func Decoupling(power, hr []float64) DecouplingResult {
	if len(power) != len(hr) || len(power) < MinDecouplingSamples {
		return DecouplingResult{}
	}

	// Split into halves
	mid := len(power) / 2
	first := halfRatio(power[:mid], hr[:mid])
	second := halfRatio(power[mid:], hr[mid:])

	if first == 0 {
		return DecouplingResult{}
	}

	return DecouplingResult{
		Percent:     (second - first) / first * 100,
		FirstRatio:  first,
		SecondRatio: second,
	}
}

// halfRatio averages power/HR over samples where both are positive
func halfRatio(power, hr []float64) float64 {
	var total float64
	var count int
	for i := range power {
		if power[i] > 0 && hr[i] > 0 {
			total += power[i] / hr[i]
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

// DecouplingDescription returns a human-readable durability assessment.
// Only the magnitude matters.
func DecouplingDescription(pct float64) string {
	abs := math.Abs(pct)
	switch {
	case abs < 5:
		return "Excellent aerobic durability"
	case abs < 10:
		return "Good aerobic durability"
	default:
		return "Poor aerobic durability - build aerobic base"
	}
}

// ActivityDecoupling returns the decoupling computed from attached streams,
// falling back to the value precomputed upstream
func ActivityDecoupling(a intervals.Activity) (float64, bool) {
	if a.Streams.Len() >= MinDecouplingSamples {
		if res := Decoupling(a.Streams.Watts, a.Streams.Heartrate); res.FirstRatio > 0 {
			return res.Percent, true
		}
	}
	return a.UpstreamDecoupling()
}

// Durability aggregates decoupling over qualifying activities
type Durability struct {
	MeanDecoupling     *float64 `json:"mean_decoupling"`
	ActivitiesAnalyzed int      `json:"activities_analyzed"`
	Interpretation     string   `json:"interpretation"`
}

// AggregateDurability averages |decoupling| over activities of at least
// minMinutes that carry a decoupling value
func AggregateDurability(activities []intervals.Activity, minMinutes int) Durability {
	values := durabilityValues(activities, minMinutes)
	if len(values) == 0 {
		return Durability{
			Interpretation: "Insufficient data for durability assessment",
		}
	}

	m := mean(values)
	return Durability{
		MeanDecoupling:     &m,
		ActivitiesAnalyzed: len(values),
		Interpretation:     durabilityLabel(m),
	}
}

func durabilityValues(activities []intervals.Activity, minMinutes int) []float64 {
	var values []float64
	for _, a := range activities {
		if a.MovingTime < minMinutes*60 {
			continue
		}
		if d, ok := ActivityDecoupling(a); ok {
			values = append(values, math.Abs(d))
		}
	}
	return values
}

// MeanDurability returns the mean |decoupling| of qualifying activities
func MeanDurability(activities []intervals.Activity) (float64, bool) {
	values := durabilityValues(activities, MinDurabilityMinutes)
	if len(values) == 0 {
		return 0, false
	}
	return mean(values), true
}

func durabilityLabel(meanDecoupling float64) string {
	switch {
	case meanDecoupling < 5:
		return "Excellent aerobic durability"
	case meanDecoupling < 10:
		return "Good aerobic durability"
	default:
		return "Poor aerobic durability - focus on base building"
	}
}
