package analysis

import "fmt"

// EfficiencyFactor calculates power:HR efficiency
// EF = normalized power / average HR. Higher is better - more watts for the
// same heart rate. Typical trained values range from 1.3 to 2.2.
func EfficiencyFactor(normalizedPower, avgHR float64) float64 {
	if avgHR == 0 {
		return 0
	}
	return normalizedPower / avgHR
}

// EfficiencyDescription returns a human-readable EF assessment. With a
// previous EF the change is classified instead (+/-5% bands).
func EfficiencyDescription(ef float64, previous *float64) string {
	if previous != nil && *previous > 0 {
		change := (ef - *previous) / *previous * 100
		switch {
		case change >= 5:
			return fmt.Sprintf("Improved (+%.1f%%)", change)
		case change <= -5:
			return fmt.Sprintf("Declined (%.1f%%)", change)
		default:
			return fmt.Sprintf("Stable (%+.1f%%)", change)
		}
	}

	switch {
	case ef >= 2.0:
		return "Strong aerobic efficiency"
	case ef >= 1.5:
		return "Good aerobic efficiency"
	default:
		return "Building aerobic base"
	}
}

// VariabilityIndex = normalized power / average power (0 when avg power is 0)
// Steady endurance rides sit below 1.05.
func VariabilityIndex(normalizedPower, avgPower float64) float64 {
	if avgPower == 0 {
		return 0
	}
	return normalizedPower / avgPower
}

// VariabilityDescription returns a human-readable pacing assessment
func VariabilityDescription(vi float64) string {
	switch {
	case vi < 1.05:
		return "Very steady effort"
	case vi < 1.10:
		return "Moderately steady effort"
	default:
		return "Variable effort"
	}
}
