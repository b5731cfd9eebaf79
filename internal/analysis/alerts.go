package analysis

import (
	"math"
	"sort"
)

// Severity of an alert
type Severity string

const (
	SeverityAlarm   Severity = "alarm"
	SeverityWarning Severity = "warning"
)

// Alert categories
const (
	CategoryRecovery     = "recovery"
	CategoryLoad         = "load"
	CategoryDistribution = "distribution"
	CategoryDurability   = "durability"
	CategoryConsistency  = "consistency"
)

// Derived metric keys read by the alert rules
const (
	MetricRecoveryIndex  = "recovery_index"
	MetricACWR           = "acwr"
	MetricMonotony       = "monotony"
	MetricStrain         = "strain"
	MetricPolarization7d = "polarization_index_7d"
	MetricTIDDrift       = "tid_drift"
	MetricDurability7d   = "durability_7d_mean_decoupling"
	MetricConsistency    = "consistency_index"
)

// Alert is a threshold breach on one derived metric
type Alert struct {
	Severity  Severity `json:"severity"`
	Category  string   `json:"category"`
	Metric    string   `json:"metric"`
	Value     any      `json:"value"`
	Threshold any      `json:"threshold"`
	Message   string   `json:"message"`
}

// MetricSet maps derived metric names to values. A missing key means the
// metric could not be computed, which is distinct from a computed zero.
type MetricSet map[string]any

// Float returns a numeric metric
func (m MetricSet) Float(key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// String returns a categorical metric
func (m MetricSet) String(key string) (string, bool) {
	switch v := m[key].(type) {
	case string:
		return v, true
	case DriftClass:
		return string(v), true
	case Phase:
		return string(v), true
	}
	return "", false
}

type alertRule func(m MetricSet) (Alert, bool)

// alertRules run in this order; the order breaks severity ties
var alertRules = []alertRule{
	recoveryIndexAlert,
	acwrAlert,
	monotonyAlert,
	strainAlert,
	polarizationAlert,
	tidDriftAlert,
	durabilityAlert,
	consistencyAlert,
}

// GenerateAlerts evaluates every rule against the metric set. Alarms come
// before warnings; rule order is kept within a severity.
func GenerateAlerts(m MetricSet) []Alert {
	alerts := []Alert{}
	for _, rule := range alertRules {
		if a, ok := rule(m); ok {
			alerts = append(alerts, a)
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return severityRank(alerts[i].Severity) < severityRank(alerts[j].Severity)
	})
	return alerts
}

// CountBySeverity tallies alerts per severity
func CountBySeverity(alerts []Alert) map[Severity]int {
	counts := map[Severity]int{SeverityAlarm: 0, SeverityWarning: 0}
	for _, a := range alerts {
		if _, ok := counts[a.Severity]; ok {
			counts[a.Severity]++
		}
	}
	return counts
}

func severityRank(s Severity) int {
	switch s {
	case SeverityAlarm:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

func recoveryIndexAlert(m MetricSet) (Alert, bool) {
	ri, ok := m.Float(MetricRecoveryIndex)
	if !ok {
		return Alert{}, false
	}
	a := Alert{Category: CategoryRecovery, Metric: MetricRecoveryIndex, Value: Round(ri, 2)}
	switch {
	case ri < 0.6:
		a.Severity, a.Threshold = SeverityAlarm, 0.6
		a.Message = "Recovery Index critically low - deload required"
	case ri < 0.8:
		a.Severity, a.Threshold = SeverityWarning, 0.8
		a.Message = "Recovery Index low - consider reducing intensity"
	default:
		return Alert{}, false
	}
	return a, true
}

func acwrAlert(m MetricSet) (Alert, bool) {
	acwr, ok := m.Float(MetricACWR)
	if !ok {
		return Alert{}, false
	}
	a := Alert{Category: CategoryLoad, Metric: MetricACWR, Value: Round(acwr, 2)}
	switch {
	case acwr < 0.8:
		a.Severity, a.Threshold = SeverityWarning, 0.8
		a.Message = "ACWR low - training load may be insufficient"
	case acwr > 1.5:
		a.Severity, a.Threshold = SeverityAlarm, 1.5
		a.Message = "ACWR critically high - high injury risk"
	case acwr > 1.3:
		a.Severity, a.Threshold = SeverityWarning, 1.3
		a.Message = "ACWR elevated - over-reaching risk"
	default:
		return Alert{}, false
	}
	return a, true
}

func monotonyAlert(m MetricSet) (Alert, bool) {
	monotony, ok := m.Float(MetricMonotony)
	if !ok {
		return Alert{}, false
	}
	a := Alert{Category: CategoryLoad, Metric: MetricMonotony, Value: Round(monotony, 2)}
	switch {
	case monotony > 2.5:
		a.Severity, a.Threshold = SeverityAlarm, 2.5
		a.Message = "Training monotony too high - add variety"
	case monotony > 2.3:
		a.Severity, a.Threshold = SeverityWarning, 2.3
		a.Message = "Training monotony approaching limit"
	default:
		return Alert{}, false
	}
	return a, true
}

func strainAlert(m MetricSet) (Alert, bool) {
	strain, ok := m.Float(MetricStrain)
	if !ok || strain <= 3500 {
		return Alert{}, false
	}
	return Alert{
		Severity:  SeverityAlarm,
		Category:  CategoryLoad,
		Metric:    MetricStrain,
		Value:     Round(strain, 1),
		Threshold: 3500.0,
		Message:   "Training strain critically high",
	}, true
}

func polarizationAlert(m MetricSet) (Alert, bool) {
	pi, ok := m.Float(MetricPolarization7d)
	if !ok || pi >= 1.5 {
		return Alert{}, false
	}
	return Alert{
		Severity:  SeverityWarning,
		Category:  CategoryDistribution,
		Metric:    MetricPolarization7d,
		Value:     Round(pi, 2),
		Threshold: 1.5,
		Message:   "Training becoming threshold-heavy (7d) - consider more polarization",
	}, true
}

func tidDriftAlert(m MetricSet) (Alert, bool) {
	drift, ok := m.String(MetricTIDDrift)
	if !ok || DriftClass(drift) != DriftAcuteDepolarization {
		return Alert{}, false
	}
	return Alert{
		Severity:  SeverityWarning,
		Category:  CategoryDistribution,
		Metric:    MetricTIDDrift,
		Value:     drift,
		Threshold: string(DriftAcuteDepolarization),
		Message:   "Acute depolarization detected - high Z2 load this week",
	}, true
}

func durabilityAlert(m MetricSet) (Alert, bool) {
	dec, ok := m.Float(MetricDurability7d)
	if !ok {
		return Alert{}, false
	}
	abs := math.Abs(dec)
	if abs <= 10 {
		return Alert{}, false
	}
	return Alert{
		Severity:  SeverityWarning,
		Category:  CategoryDurability,
		Metric:    MetricDurability7d,
		Value:     Round(abs, 1),
		Threshold: 10.0,
		Message:   "Poor aerobic durability (7d avg) - focus on aerobic base building",
	}, true
}

func consistencyAlert(m MetricSet) (Alert, bool) {
	ci, ok := m.Float(MetricConsistency)
	if !ok || ci >= 0.5 {
		return Alert{}, false
	}
	return Alert{
		Severity:  SeverityWarning,
		Category:  CategoryConsistency,
		Metric:    MetricConsistency,
		Value:     Round(ci, 2),
		Threshold: 0.5,
		Message:   "Low training consistency - aim for more regular sessions",
	}, true
}
