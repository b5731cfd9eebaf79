package analysis

import "math"

// DriftClass classifies a change in intensity distribution
type DriftClass string

const (
	DriftInsufficientData    DriftClass = "insufficient_data"
	DriftAcuteDepolarization DriftClass = "acute_depolarization"
	DriftShifting            DriftClass = "shifting"
	DriftConsistent          DriftClass = "consistent"
)

// DefaultDriftThreshold is the zone share difference, in percentage points,
// that counts as drift
const DefaultDriftThreshold = 15.0

// DetectTIDDrift compares the acute (7d) distribution with the chronic (28d)
// one. A nil distribution means it could not be computed.
func DetectTIDDrift(acute, chronic *Distribution) DriftClass {
	if acute == nil || chronic == nil {
		return DriftInsufficientData
	}

	z1 := math.Abs(acute.Z1 - chronic.Z1)
	z2 := acute.Z2 - chronic.Z2 // signed: more threshold work this week
	z3 := math.Abs(acute.Z3 - chronic.Z3)

	if z2 > DefaultDriftThreshold {
		return DriftAcuteDepolarization
	}
	if math.Max(z1, math.Max(math.Abs(z2), z3)) > DefaultDriftThreshold {
		return DriftShifting
	}
	return DriftConsistent
}

// DriftDescription returns a human-readable drift assessment
func DriftDescription(c DriftClass) string {
	switch c {
	case DriftConsistent:
		return "Training intensity distribution is consistent with recent trends"
	case DriftShifting:
		return "Training intensity distribution is shifting - monitor pattern"
	case DriftAcuteDepolarization:
		return "Recent week shows increased threshold work - ensure adequate recovery"
	case DriftInsufficientData:
		return "Not enough data to assess TID drift"
	default:
		return "Unknown drift pattern"
	}
}

// TIDComparison details a drift classification
type TIDComparison struct {
	Classification  DriftClass    `json:"drift_classification"`
	Interpretation  string        `json:"interpretation"`
	ZoneDifferences *Distribution `json:"zone_differences"` // signed acute - chronic
	Acute           *Distribution `json:"tid_7d,omitempty"`
	Chronic         *Distribution `json:"tid_28d,omitempty"`
}

// CompareTID classifies drift and reports the signed per-zone differences
func CompareTID(acute, chronic *Distribution) TIDComparison {
	class := DetectTIDDrift(acute, chronic)
	cmp := TIDComparison{
		Classification: class,
		Interpretation: DriftDescription(class),
	}
	if class == DriftInsufficientData {
		return cmp
	}

	cmp.ZoneDifferences = &Distribution{
		Z1: acute.Z1 - chronic.Z1,
		Z2: acute.Z2 - chronic.Z2,
		Z3: acute.Z3 - chronic.Z3,
	}
	cmp.Acute = acute
	cmp.Chronic = chronic
	return cmp
}
