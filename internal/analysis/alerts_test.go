package analysis

import "testing"

func TestGenerateAlerts(t *testing.T) {
	tests := []struct {
		name     string
		metrics  MetricSet
		expected []string // metric names in output order
		severity []Severity
	}{
		{
			name:     "no metrics",
			metrics:  MetricSet{},
			expected: []string{},
		},
		{
			name:     "all healthy",
			metrics:  MetricSet{MetricRecoveryIndex: 1.0, MetricACWR: 1.1, MetricMonotony: 1.5, MetricStrain: 800.0},
			expected: []string{},
		},
		{
			name:     "monotony alarm",
			metrics:  MetricSet{MetricMonotony: 2.6},
			expected: []string{MetricMonotony},
			severity: []Severity{SeverityAlarm},
		},
		{
			name: "alarms first then rule order",
			metrics: MetricSet{
				MetricRecoveryIndex: 0.7,
				MetricACWR:          1.4,
				MetricMonotony:      2.6,
			},
			expected: []string{MetricMonotony, MetricRecoveryIndex, MetricACWR},
			severity: []Severity{SeverityAlarm, SeverityWarning, SeverityWarning},
		},
		{
			name: "every rule fires",
			metrics: MetricSet{
				MetricRecoveryIndex:  0.5,
				MetricACWR:           1.6,
				MetricMonotony:       2.4,
				MetricStrain:         3600.0,
				MetricPolarization7d: 1.2,
				MetricTIDDrift:       DriftAcuteDepolarization,
				MetricDurability7d:   -12.0,
				MetricConsistency:    0.4,
			},
			expected: []string{
				MetricRecoveryIndex, MetricACWR, MetricStrain,
				MetricMonotony, MetricPolarization7d, MetricTIDDrift, MetricDurability7d, MetricConsistency,
			},
			severity: []Severity{
				SeverityAlarm, SeverityAlarm, SeverityAlarm,
				SeverityWarning, SeverityWarning, SeverityWarning, SeverityWarning, SeverityWarning,
			},
		},
		{
			name:     "boundaries do not fire",
			metrics:  MetricSet{MetricRecoveryIndex: 0.8, MetricACWR: 1.3, MetricMonotony: 2.3, MetricStrain: 3500.0, MetricPolarization7d: 1.5, MetricDurability7d: 10.0, MetricConsistency: 0.5},
			expected: []string{},
		},
		{
			name:     "low acwr warning",
			metrics:  MetricSet{MetricACWR: 0.5},
			expected: []string{MetricACWR},
			severity: []Severity{SeverityWarning},
		},
		{
			name:     "shifting drift is not alerted",
			metrics:  MetricSet{MetricTIDDrift: DriftShifting},
			expected: []string{},
		},
		{
			name:     "drift as plain string",
			metrics:  MetricSet{MetricTIDDrift: "acute_depolarization"},
			expected: []string{MetricTIDDrift},
			severity: []Severity{SeverityWarning},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := GenerateAlerts(tt.metrics)
			if alerts == nil {
				t.Fatal("GenerateAlerts() returned nil, want empty slice")
			}
			if len(alerts) != len(tt.expected) {
				t.Fatalf("GenerateAlerts() returned %d alerts (%+v), want %d", len(alerts), alerts, len(tt.expected))
			}
			for i, a := range alerts {
				if a.Metric != tt.expected[i] {
					t.Errorf("alert[%d].Metric = %q, want %q", i, a.Metric, tt.expected[i])
				}
				if a.Severity != tt.severity[i] {
					t.Errorf("alert[%d].Severity = %q, want %q", i, a.Severity, tt.severity[i])
				}
			}
		})
	}
}

func TestAlertValues(t *testing.T) {
	alerts := GenerateAlerts(MetricSet{MetricMonotony: 2.6123, MetricDurability7d: -12.34})
	if len(alerts) != 2 {
		t.Fatalf("got %d alerts, want 2", len(alerts))
	}

	mono := alerts[0]
	if mono.Value != 2.61 || mono.Threshold != 2.5 {
		t.Errorf("monotony alert value/threshold = %v/%v", mono.Value, mono.Threshold)
	}
	if mono.Message != "Training monotony too high - add variety" {
		t.Errorf("monotony message = %q", mono.Message)
	}
	if mono.Category != CategoryLoad {
		t.Errorf("monotony category = %q", mono.Category)
	}

	dur := alerts[1]
	if dur.Value != 12.3 {
		t.Errorf("durability value = %v, want absolute value 12.3", dur.Value)
	}
}

func TestCountBySeverity(t *testing.T) {
	alerts := GenerateAlerts(MetricSet{MetricMonotony: 2.6, MetricACWR: 1.4, MetricConsistency: 0.2})
	counts := CountBySeverity(alerts)
	if counts[SeverityAlarm] != 1 || counts[SeverityWarning] != 2 {
		t.Errorf("CountBySeverity() = %v", counts)
	}

	empty := CountBySeverity(nil)
	if empty[SeverityAlarm] != 0 || empty[SeverityWarning] != 0 || len(empty) != 2 {
		t.Errorf("CountBySeverity(nil) = %v", empty)
	}
}

func TestMetricSetAccessors(t *testing.T) {
	m := MetricSet{"a": 1.5, "b": 3, "c": "text", "d": PhaseBuild, "e": DriftConsistent}

	if v, ok := m.Float("a"); !ok || v != 1.5 {
		t.Errorf("Float(a) = %v, %v", v, ok)
	}
	if v, ok := m.Float("b"); !ok || v != 3 {
		t.Errorf("Float(b) = %v, %v", v, ok)
	}
	if _, ok := m.Float("c"); ok {
		t.Error("Float(c) should not be ok")
	}
	if _, ok := m.Float("missing"); ok {
		t.Error("Float(missing) should not be ok")
	}
	if v, ok := m.String("d"); !ok || v != "Build" {
		t.Errorf("String(d) = %v, %v", v, ok)
	}
	if v, ok := m.String("e"); !ok || v != "consistent" {
		t.Errorf("String(e) = %v, %v", v, ok)
	}
}
