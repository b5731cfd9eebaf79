package report

import (
	"fmt"
	"io"

	"intervals-coach/internal/analysis"
	"intervals-coach/internal/service"
)

// derivedRow is one derived metric line and the interpretation printed
// beside it
type derivedRow struct {
	label     string
	key       string
	interpKey string
}

var derivedRows = []derivedRow{
	{"Recovery index", analysis.MetricRecoveryIndex, "recovery_index_interpretation"},
	{"ACWR", analysis.MetricACWR, "acwr_interpretation"},
	{"Weekly load", "weekly_load", ""},
	{"Monotony", analysis.MetricMonotony, "monotony_interpretation"},
	{"Strain", analysis.MetricStrain, "strain_interpretation"},
	{"Load/recovery ratio", "load_recovery_ratio", "load_recovery_interpretation"},
	{"Polarization 7d", analysis.MetricPolarization7d, "polarization_interpretation_7d"},
	{"Polarization 28d", "polarization_index_28d", "polarization_interpretation_28d"},
	{"Zone mix 7d", "seiler_tid_7d", "distribution_interpretation_7d"},
	{"Zone mix 28d", "seiler_tid_28d", "distribution_interpretation_28d"},
	{"TID drift", analysis.MetricTIDDrift, ""},
	{"Decoupling 7d (%)", analysis.MetricDurability7d, ""},
	{"Efficiency 7d", "efficiency_factor_7d", "efficiency_interpretation"},
	{"Efficiency 28d", "efficiency_factor_28d", ""},
	{"Phase", "phase_detected", "phase_interpretation"},
	{"Consistency", analysis.MetricConsistency, "consistency_interpretation"},
}

// Snapshot writes the readiness snapshot as a terminal report
func Snapshot(w io.Writer, doc *service.SnapshotDocument) error {
	p := &printer{w: w}
	md := doc.Metadata

	p.title(fmt.Sprintf("Training snapshot %s", md.SnapshotDate))
	p.printf("%s\n", faint.Sprintf("athlete %s, %d-day window (%d extended), %d activities, %d wellness records",
		md.AthleteID, md.WindowDays, md.ExtendedWindowDays, md.ActivitiesCount7d, md.WellnessRecordsCount))

	renderAlerts(p, doc.Alerts)
	renderStatus(p, doc.CurrentStatus)
	renderDerived(p, doc.DerivedMetrics)
	renderRecent(p, doc.RecentActivities)
	renderPlanned(p, doc.PlannedWorkouts)

	return p.err
}

func renderAlerts(p *printer, alerts []analysis.Alert) {
	p.heading("Alerts")
	if len(alerts) == 0 {
		p.printf("  %s\n", goodColor.Sprint("No alerts"))
		return
	}
	for _, a := range alerts {
		c := severityColor(a.Severity)
		p.printf("  %s %s\n", c.Sprintf("[%s]", a.Severity), a.Message)
	}
}

func renderStatus(p *printer, cs service.CurrentStatus) {
	p.heading("Current status")
	f := cs.Fitness
	p.row("Fitness (CTL)", num(f.CTL, 1))
	p.row("Fatigue (ATL)", num(f.ATL, 1))

	form := num(f.TSB, 1)
	if f.TSB != nil {
		form = formColor(*f.TSB).Sprint(form)
	}
	if f.FormDescription != "" {
		form += " " + faint.Sprintf("(%s)", f.FormDescription)
	}
	p.row("Form (TSB)", form)
	p.row("Ramp rate", num(f.RampRate, 2))

	wl := cs.Wellness
	hrvLabel := "HRV"
	if wl.HRVField != "" {
		hrvLabel = fmt.Sprintf("HRV (%s)", wl.HRVField)
	}
	p.row(hrvLabel, num(wl.HRV, 0))
	p.row("Resting HR", num(wl.RestingHR, 0))
	p.row("Sleep (h)", num(wl.SleepHours, 1))
	p.row("Sleep score", num(wl.SleepScore, 0))
}

func renderDerived(p *printer, m analysis.MetricSet) {
	p.heading("Derived metrics")
	for _, r := range derivedRows {
		v, ok := m[r.key]
		if !ok {
			continue
		}
		value := metricValue(v)
		if interp, ok := m.String(r.interpKey); ok && r.interpKey != "" {
			value += " " + faint.Sprintf("(%s)", interp)
		}
		p.row(r.label, value)
	}

	if prog, ok := m["phase_progression"].(analysis.Progression); ok {
		p.row("Phase progression", fmt.Sprintf("%d wk, %.0f%% (%s)", prog.WeeksInPhase, prog.ProgressPct, prog.Status))
	}

	for _, step := range []string{
		"recovery_index", "acwr", "load_metrics", "load_recovery_ratio", "zone_distribution",
		"tid_drift", "durability", "efficiency", "phase_detection", "consistency_index",
	} {
		if msg, ok := m.String(step + "_error"); ok {
			p.row(step, warnColor.Sprint(msg))
		}
	}
}

// metricValue formats a document value; nil marks a failed metric
func metricValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "n/a"
	case float64:
		return fmt.Sprintf("%g", v)
	case analysis.Distribution:
		return distribution(v)
	default:
		return fmt.Sprint(v)
	}
}

func distribution(d analysis.Distribution) string {
	return fmt.Sprintf("Z1 %.1f%% / Z2 %.1f%% / Z3 %.1f%%", d.Z1, d.Z2, d.Z3)
}

func renderRecent(p *printer, acts []service.ActivitySummary) {
	p.heading("Recent activities")
	if len(acts) == 0 {
		p.printf("  %s\n", faint.Sprint("No activities in the window"))
		return
	}
	p.printf("  %s\n", faint.Sprintf("%-10s  %-24s  %8s  %6s  %5s  %6s", "Date", "Name", "Time", "Load", "EF", "Dec%"))
	for _, a := range acts {
		date := a.StartDate
		if len(date) > 10 {
			date = date[:10]
		}
		p.printf("  %-10s  %-24s  %8s  %6s  %5s  %6s\n",
			date,
			truncate(a.Name, 24),
			formatDuration(a.MovingTime),
			num(a.TrainingLoad, 0),
			num(a.EfficiencyFactor, 2),
			num(a.Decoupling, 1))
	}
}

func renderPlanned(p *printer, planned []service.PlannedWorkout) {
	if len(planned) == 0 {
		return
	}
	p.heading("Planned workouts")
	for _, w := range planned {
		date := w.StartDate
		if len(date) > 10 {
			date = date[:10]
		}
		p.printf("  %-10s  %s %s\n", date, w.Name, faint.Sprintf("load %s", num(w.TrainingLoad, 0)))
	}
}
