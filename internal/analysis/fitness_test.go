package analysis

import (
	"testing"

	"intervals-coach/internal/intervals"
)

func TestFitnessFromWellness(t *testing.T) {
	fm, ok := FitnessFromWellness(fitnessDay("2026-03-01", 60, 70))
	if !ok {
		t.Fatal("FitnessFromWellness() not ok")
	}
	if fm.TSB != -10 {
		t.Errorf("TSB = %v, want derived -10", fm.TSB)
	}
	if fm.Date != mustDate("2026-03-01") {
		t.Errorf("Date = %v", fm.Date)
	}

	w := fitnessDay("2026-03-01", 60, 70)
	w.TSB = floatPtr(-8)
	if fm, _ := FitnessFromWellness(w); fm.TSB != -8 {
		t.Errorf("TSB = %v, want reported -8", fm.TSB)
	}

	if _, ok := FitnessFromWellness(intervals.Wellness{ID: "2026-03-01", CTL: floatPtr(60)}); ok {
		t.Error("FitnessFromWellness() without ATL should not be ok")
	}
}

func TestPhaseOn(t *testing.T) {
	var records []intervals.Wellness
	start := mustDate("2026-03-01")
	for i := 0; i < 8; i++ {
		records = append(records, fitnessDay(start.AddDays(i).String(), 50, 50))
	}
	// Rising fitness on the last day with a week of history behind it
	records = append(records, fitnessDay("2026-03-09", 65, 65))
	s := NewSeries(records)

	if p, ok := PhaseOn(s, mustDate("2026-03-08")); !ok || p != PhaseBase {
		t.Errorf("PhaseOn(2026-03-08) = %q, %v, want Base", p, ok)
	}
	if p, ok := PhaseOn(s, mustDate("2026-03-09")); !ok || p != PhaseBuild {
		t.Errorf("PhaseOn(2026-03-09) = %q, %v, want Build", p, ok)
	}
	if _, ok := PhaseOn(s, mustDate("2026-03-10")); ok {
		t.Error("PhaseOn() without a record should not be ok")
	}

	if got := DaysInPhase(s, mustDate("2026-03-08"), PhaseBase); got != 8 {
		t.Errorf("DaysInPhase(Base) = %d, want 8", got)
	}
	if got := DaysInPhase(s, mustDate("2026-03-09"), PhaseBuild); got != 1 {
		t.Errorf("DaysInPhase(Build) = %d, want 1", got)
	}
}

func TestFormDescription(t *testing.T) {
	tests := []struct {
		tsb      float64
		expected string
	}{
		{30, "Very fresh (possibly detrained)"},
		{15, "Fresh and ready to race"},
		{5, "Neutral - good for training"},
		{0, "Slightly fatigued"},
		{-20, "Optimal training zone"},
		{-30, "High risk - rest needed"},
	}

	for _, tt := range tests {
		if got := FormDescription(tt.tsb); got != tt.expected {
			t.Errorf("FormDescription(%v) = %q, want %q", tt.tsb, got, tt.expected)
		}
	}
}
