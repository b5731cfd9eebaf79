package analysis

// Monotony is mean / sample standard deviation of the nonzero daily loads.
// Returns 0 with fewer than two training days or no variation.
func Monotony(dailyLoads []float64) float64 {
	loads := positive(dailyLoads)
	if len(loads) < 2 {
		return 0
	}

	sd := sampleStdDev(loads)
	if sd == 0 {
		return 0
	}
	return mean(loads) / sd
}

// Strain = monotony x mean daily load
func Strain(monotony, meanLoad float64) float64 {
	return monotony * meanLoad
}

// MeanTrainingLoad averages the nonzero daily loads
func MeanTrainingLoad(dailyLoads []float64) float64 {
	return mean(positive(dailyLoads))
}

// MonotonyDescription returns a human-readable monotony assessment
func MonotonyDescription(monotony float64) string {
	switch {
	case monotony < 2.3:
		return "Good variety"
	case monotony < 2.5:
		return "Approaching limit"
	default:
		return "Excessive monotony"
	}
}

// StrainDescription returns a human-readable strain assessment
func StrainDescription(strain float64) string {
	if strain < 3500 {
		return "Manageable load"
	}
	return "High strain risk"
}

// LoadRecoveryRatio = weekly load / recovery index (0 when RI is 0)
func LoadRecoveryRatio(weeklyLoad, recoveryIndex float64) float64 {
	if recoveryIndex == 0 {
		return 0
	}
	return weeklyLoad / recoveryIndex
}

// LoadRecoveryDescription returns a human-readable load-recovery assessment
func LoadRecoveryDescription(ratio float64) string {
	if ratio < 2.5 {
		return "Load appropriate for recovery"
	}
	return "Load too high for recovery state"
}

// ConsistencyIndex = completed / planned sessions (0 when nothing was planned)
func ConsistencyIndex(completed, planned int) float64 {
	if planned == 0 {
		return 0
	}
	return float64(completed) / float64(planned)
}

// ConsistencyDescription returns a human-readable adherence assessment
func ConsistencyDescription(index float64) string {
	switch {
	case index >= 0.9:
		return "Excellent adherence"
	case index >= 0.75:
		return "Good adherence"
	case index >= 0.5:
		return "Moderate adherence"
	default:
		return "Poor adherence"
	}
}
