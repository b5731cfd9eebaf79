package analysis

import (
	"cloud.google.com/go/civil"

	"intervals-coach/internal/intervals"
)

// FitnessMetrics represents CTL/ATL/TSB for a day
type FitnessMetrics struct {
	Date     civil.Date
	CTL      float64  // Chronic Training Load - "Fitness"
	ATL      float64  // Acute Training Load - "Fatigue"
	TSB      float64  // Training Stress Balance (CTL - ATL) - "Form"
	RampRate *float64 // weekly CTL change reported by intervals.icu
}

// FitnessFromWellness reads the fitness model from a wellness record.
// TSB is derived from CTL - ATL when not supplied; CTL and ATL are required.
func FitnessFromWellness(w intervals.Wellness) (FitnessMetrics, bool) {
	if w.CTL == nil || w.ATL == nil {
		return FitnessMetrics{}, false
	}
	tsb, _ := w.Form()
	d, _ := w.Date()
	return FitnessMetrics{
		Date:     d,
		CTL:      *w.CTL,
		ATL:      *w.ATL,
		TSB:      tsb,
		RampRate: w.RampRate,
	}, true
}

// PhaseOn classifies the training phase on day d, using the CTL reported
// seven days earlier for the trend when available
func PhaseOn(s Series, d civil.Date) (Phase, bool) {
	w, ok := s.At(d)
	if !ok {
		return "", false
	}
	fm, ok := FitnessFromWellness(w)
	if !ok {
		return "", false
	}

	in := PhaseInput{CTL: fm.CTL, ATL: fm.ATL, TSB: fm.TSB}
	if prev, ok := s.At(d.AddDays(-7)); ok && prev.CTL != nil {
		ctl := *prev.CTL
		in.CTL7dAgo = &ctl
	}
	return DetectPhase(in), true
}

// DaysInPhase counts the consecutive days ending at d classified as p
func DaysInPhase(s Series, d civil.Date, p Phase) int {
	days := 0
	for day := d; ; day = day.AddDays(-1) {
		ph, ok := PhaseOn(s, day)
		if !ok || ph != p {
			return days
		}
		days++
	}
}

// FormDescription returns a human-readable description of TSB
func FormDescription(tsb float64) string {
	switch {
	case tsb > 25:
		return "Very fresh (possibly detrained)"
	case tsb > 10:
		return "Fresh and ready to race"
	case tsb > 0:
		return "Neutral - good for training"
	case tsb > -10:
		return "Slightly fatigued"
	case tsb > -30:
		return "Optimal training zone"
	default:
		return "High risk - rest needed"
	}
}
