package analysis

// RecoveryIndex compares today's HRV and resting HR against their baselines.
// RI = (HRV / HRV baseline) / (RHR / RHR baseline). Returns 0 on a zero baseline.
func RecoveryIndex(hrvToday, hrvBaseline, rhrToday, rhrBaseline float64) float64 {
	if hrvBaseline == 0 || rhrBaseline == 0 {
		return 0
	}

	hrvRatio := hrvToday / hrvBaseline
	rhrRatio := rhrToday / rhrBaseline
	if rhrRatio == 0 {
		return 0
	}

	return hrvRatio / rhrRatio
}

// RecoveryIndexDescription returns a human-readable readiness assessment
func RecoveryIndexDescription(ri float64) string {
	switch {
	case ri >= 0.8:
		return "Good readiness"
	case ri >= 0.6:
		return "Moderate fatigue"
	default:
		return "Deload required"
	}
}

// ACWR is the acute:chronic workload ratio ATL / CTL (0 when CTL is 0)
func ACWR(atl, ctl float64) float64 {
	if ctl == 0 {
		return 0
	}
	return atl / ctl
}

// ACWRDescription returns a human-readable ACWR assessment
func ACWRDescription(acwr float64) string {
	switch {
	case acwr < 0.8:
		return "Under-training"
	case acwr <= 1.3:
		return "Optimal range"
	default:
		return "Over-reaching risk"
	}
}
