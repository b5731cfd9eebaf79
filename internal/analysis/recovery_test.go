package analysis

import (
	"math"
	"testing"
)

func TestRecoveryIndex(t *testing.T) {
	tests := []struct {
		name        string
		hrv         float64
		hrvBaseline float64
		rhr         float64
		rhrBaseline float64
		expected    float64
	}{
		{name: "at baseline", hrv: 45, hrvBaseline: 45, rhr: 55, rhrBaseline: 55, expected: 1.0},
		{name: "suppressed hrv elevated rhr", hrv: 36, hrvBaseline: 45, rhr: 60.5, rhrBaseline: 55, expected: 0.7273},
		{name: "elevated hrv", hrv: 54, hrvBaseline: 45, rhr: 55, rhrBaseline: 55, expected: 1.2},
		{name: "zero hrv baseline", hrv: 45, hrvBaseline: 0, rhr: 55, rhrBaseline: 55, expected: 0},
		{name: "zero rhr baseline", hrv: 45, hrvBaseline: 45, rhr: 55, rhrBaseline: 0, expected: 0},
		{name: "zero rhr today", hrv: 45, hrvBaseline: 45, rhr: 0, rhrBaseline: 55, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RecoveryIndex(tt.hrv, tt.hrvBaseline, tt.rhr, tt.rhrBaseline)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("RecoveryIndex() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestRecoveryIndexDescription(t *testing.T) {
	tests := []struct {
		ri       float64
		expected string
	}{
		{1.1, "Good readiness"},
		{0.8, "Good readiness"},
		{0.79, "Moderate fatigue"},
		{0.6, "Moderate fatigue"},
		{0.59, "Deload required"},
		{0, "Deload required"},
	}

	for _, tt := range tests {
		if got := RecoveryIndexDescription(tt.ri); got != tt.expected {
			t.Errorf("RecoveryIndexDescription(%v) = %q, want %q", tt.ri, got, tt.expected)
		}
	}
}

func TestACWR(t *testing.T) {
	tests := []struct {
		name     string
		atl      float64
		ctl      float64
		expected float64
	}{
		{name: "balanced", atl: 60, ctl: 60, expected: 1.0},
		{name: "overreaching", atl: 90, ctl: 60, expected: 1.5},
		{name: "detraining", atl: 30, ctl: 60, expected: 0.5},
		{name: "zero ctl", atl: 30, ctl: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ACWR(tt.atl, tt.ctl)
			if math.Abs(result-tt.expected) > 0.0001 {
				t.Errorf("ACWR() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestACWRDescription(t *testing.T) {
	tests := []struct {
		acwr     float64
		expected string
	}{
		{0.5, "Under-training"},
		{0.8, "Optimal range"},
		{1.3, "Optimal range"},
		{1.31, "Over-reaching risk"},
	}

	for _, tt := range tests {
		if got := ACWRDescription(tt.acwr); got != tt.expected {
			t.Errorf("ACWRDescription(%v) = %q, want %q", tt.acwr, got, tt.expected)
		}
	}
}
