package report

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"intervals-coach/internal/analysis"
	"intervals-coach/internal/service"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func floatPtr(f float64) *float64 { return &f }

func phasePtr(p analysis.Phase) *analysis.Phase { return &p }

func sampleSnapshot() *service.SnapshotDocument {
	return &service.SnapshotDocument{
		Metadata: service.SnapshotMetadata{
			AthleteID:          "i42",
			SnapshotDate:       "2026-03-15",
			WindowDays:         7,
			ExtendedWindowDays: 28,
			ActivitiesCount7d:  4,
		},
		Alerts: []analysis.Alert{
			{Severity: analysis.SeverityAlarm, Metric: analysis.MetricACWR, Message: "ACWR 1.62 above 1.5"},
			{Severity: analysis.SeverityWarning, Metric: analysis.MetricMonotony, Message: "Monotony 2.6 above 2.5"},
		},
		CurrentStatus: service.CurrentStatus{
			Fitness: service.FitnessStatus{
				CTL:             floatPtr(62.4),
				ATL:             floatPtr(80.1),
				TSB:             floatPtr(-17.7),
				FormDescription: "Tired",
			},
			Wellness: service.WellnessStatus{HRV: floatPtr(48), HRVField: "hrv"},
		},
		DerivedMetrics: analysis.MetricSet{
			analysis.MetricRecoveryIndex:    0.85,
			"recovery_index_interpretation": "Good",
			analysis.MetricACWR:             nil,
			"acwr_error":                    "Calculation error: boom",
			"seiler_tid_7d":                 analysis.Distribution{Z1: 80, Z2: 10, Z3: 10},
			"phase_detected":                analysis.PhaseBuild,
			"phase_progression":             analysis.Progression{Phase: analysis.PhaseBuild, WeeksInPhase: 3, ProgressPct: 42.9, Status: "Mid"},
		},
		RecentActivities: []service.ActivitySummary{
			{ID: "i1", Name: "A very long ride name that keeps going", StartDate: "2026-03-14T08:00:00", MovingTime: 5400, TrainingLoad: floatPtr(95)},
		},
	}
}

func TestSnapshotReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Snapshot(&buf, sampleSnapshot()))
	out := buf.String()

	assert.Contains(t, out, "Training snapshot 2026-03-15")
	assert.Contains(t, out, "[alarm] ACWR 1.62 above 1.5")
	assert.Contains(t, out, "[warning] Monotony 2.6 above 2.5")
	assert.Contains(t, out, "-17.7 (Tired)")
	assert.Contains(t, out, "HRV (hrv)")
	assert.Contains(t, out, "0.85 (Good)")
	assert.Contains(t, out, "Z1 80.0% / Z2 10.0% / Z3 10.0%")
	assert.Contains(t, out, "3 wk, 43% (Mid)")
	assert.Contains(t, out, "Calculation error: boom")
	assert.Contains(t, out, "A very long ride name...")
	assert.Contains(t, out, "1h 30m")
	assert.NotContains(t, out, "Planned workouts")

	// ACWR failed, so it prints as unavailable
	assert.Regexp(t, `ACWR\s+n/a`, out)
}

func TestSnapshotReportWithoutAlerts(t *testing.T) {
	doc := sampleSnapshot()
	doc.Alerts = nil
	doc.RecentActivities = nil

	var buf bytes.Buffer
	require.NoError(t, Snapshot(&buf, doc))
	assert.Contains(t, buf.String(), "No alerts")
	assert.Contains(t, buf.String(), "No activities in the window")
}

func TestHistoryReport(t *testing.T) {
	var days []service.DailyEntry
	for i := 0; i < 10; i++ {
		days = append(days, service.DailyEntry{CTL: floatPtr(40 + float64(i)), TSB: floatPtr(float64(i % 3))})
	}
	days = append(days, service.DailyEntry{})

	doc := &service.HistoryDocument{
		Metadata: service.HistoryMetadata{AthleteID: "i42", SnapshotDate: "2026-03-15", LookbackDays: 1095},
		Tier90d:  days,
		Tier180d: []service.WeeklyEntry{
			{WeekStart: "2026-03-09", CTLAvg: floatPtr(48.5), WeeklyTSS: 420, Hours: 7.5, Phase: phasePtr(analysis.PhaseBuild)},
		},
		Tier1y: []service.MonthlyEntry{
			{Month: "2026-03", MonthlyTSS: 900, SeilerTID: &analysis.Distribution{Z1: 75, Z2: 5, Z3: 20}},
		},
		DataGaps: []service.DataGap{{StartDate: "2025-01-01", EndDate: "2025-01-20", Days: 19}},
		Summary: service.HistorySummary{
			TotalActivities: 120,
			TotalHours:      300,
			AvgHoursPerWeek: 5.5,
			FTPProgression:  service.FTPProgression{Start: floatPtr(250), End: floatPtr(265), GainPct: floatPtr(6)},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, History(&buf, doc, true))
	out := buf.String()

	assert.Contains(t, out, "Training history to 2026-03-15")
	assert.Contains(t, out, "300.0 (5.5/wk)")
	assert.Contains(t, out, "250 -> 265 W (+6.0%)")
	assert.Contains(t, out, "CTL (blue) and TSB (green)")
	assert.Contains(t, out, "2026-03-09")
	assert.Contains(t, out, "Build")
	assert.Contains(t, out, "Z1 75.0% / Z2 5.0% / Z3 20.0%")
	assert.Contains(t, out, "19 days")
	assert.NotContains(t, out, "Weight")
}

func TestFitnessSeriesSkipsEmptyDays(t *testing.T) {
	days := []service.DailyEntry{
		{CTL: floatPtr(40), TSB: floatPtr(2)},
		{},
		{CTL: floatPtr(41), TSB: floatPtr(1)},
	}
	ctl, tsb := FitnessSeries(days)
	assert.Equal(t, []float64{40, 41}, ctl)
	assert.Equal(t, []float64{2, 1}, tsb)

	assert.Empty(t, FitnessChart(days[:1], 40, 5))
}

func TestZonesReport(t *testing.T) {
	r := &service.ZoneReport{
		From:         "2026-03-01",
		To:           "2026-03-15",
		ZoneType:     analysis.ZoneTypePower,
		TotalSeconds: 7200,
		Zones: []service.ZoneShare{
			{Zone: 1, Seconds: 3600, Percent: 50},
			{Zone: 2, Seconds: 3600, Percent: 50},
		},
		Distribution:            &analysis.Distribution{Z1: 50, Z2: 50},
		DistributionDescription: "Threshold-heavy",
	}

	var buf bytes.Buffer
	require.NoError(t, Zones(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "POWER zones 2026-03-01 to 2026-03-15")
	assert.Contains(t, out, "Z1  "+strings.Repeat("#", 15)+strings.Repeat(".", 15)+"  50.0%")
	assert.Contains(t, out, "Threshold-heavy")
	assert.NotContains(t, out, "Polarization index")
}

func TestZonesReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Zones(&buf, &service.ZoneReport{ZoneType: analysis.ZoneTypeHR}))
	assert.Contains(t, buf.String(), "No zone data")
}

func TestDurabilityReport(t *testing.T) {
	r := &service.DurabilityReport{
		ActivityID:       "i1",
		Name:             "Long ride",
		MovingTime:       7200,
		Samples:          7200,
		EfficiencyFactor: floatPtr(1.54),
		Decoupling:       floatPtr(-20),
		DecouplingSource: service.DecouplingFromStreams,
		FirstHalfRatio:   floatPtr(2),
		SecondHalfRatio:  floatPtr(1.6),
	}

	var buf bytes.Buffer
	require.NoError(t, Durability(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "Durability: Long ride")
	assert.Contains(t, out, "-20.0%")
	assert.Contains(t, out, "2.000 -> 1.600")
	assert.Contains(t, out, service.DecouplingFromStreams)
	assert.Regexp(t, `Variability index\s+-`, out)
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, map[string]any{"ctl": 50.5}))

	var got map[string]float64
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 50.5, got["ctl"])
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}
