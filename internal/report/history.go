package report

import (
	"fmt"
	"io"

	"github.com/guptarohit/asciigraph"

	"intervals-coach/internal/service"
)

// FitnessSeries returns the CTL and TSB values of the daily tier, skipping
// days without wellness data
func FitnessSeries(days []service.DailyEntry) (ctl, tsb []float64) {
	for _, d := range days {
		if d.CTL == nil || d.TSB == nil {
			continue
		}
		ctl = append(ctl, *d.CTL)
		tsb = append(tsb, *d.TSB)
	}
	return ctl, tsb
}

// FitnessChart plots CTL and TSB over the daily tier. It returns an empty
// string when fewer than two days carry values.
func FitnessChart(days []service.DailyEntry, width, height int) string {
	ctl, tsb := FitnessSeries(days)
	if len(ctl) < 2 {
		return ""
	}
	return asciigraph.PlotMany([][]float64{ctl, tsb},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Precision(0),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Green),
		asciigraph.Caption("CTL (blue) and TSB (green), last 90 days"),
	)
}

// History writes the training history as a terminal report
func History(w io.Writer, doc *service.HistoryDocument, chart bool) error {
	p := &printer{w: w}
	md := doc.Metadata

	p.title(fmt.Sprintf("Training history to %s", md.SnapshotDate))
	p.printf("%s\n", faint.Sprintf("athlete %s, %d-day lookback", md.AthleteID, md.LookbackDays))

	s := doc.Summary
	p.heading("Summary")
	p.row("Active days", fmt.Sprintf("%d", s.TotalDaysWithData))
	p.row("Activities", fmt.Sprintf("%d", s.TotalActivities))
	p.row("Hours", fmt.Sprintf("%.1f (%.1f/wk)", s.TotalHours, s.AvgHoursPerWeek))
	p.row("Training load", fmt.Sprintf("%d", s.TotalTSS))
	p.row("Consistency", fmt.Sprintf("%.1f%%", s.ConsistencyPct))
	if ftp := s.FTPProgression; ftp.Start != nil {
		p.row("FTP", fmt.Sprintf("%s -> %s W (%s%%)", num(ftp.Start, 0), num(ftp.End, 0), signed(ftp.GainPct)))
	}
	if wc := s.WeightChange; wc.Start != nil {
		p.row("Weight", fmt.Sprintf("%s -> %s kg (%s kg)", num(wc.Start, 1), num(wc.End, 1), signed(wc.Change)))
	}
	if cp := doc.CurrentPhase; cp != nil {
		p.row("Current phase", fmt.Sprintf("%s, %d wk (%s)", cp.Phase, cp.WeeksInPhase, cp.Status))
	}

	if chart {
		if graph := FitnessChart(doc.Tier90d, 70, 12); graph != "" {
			p.heading("Fitness")
			p.printf("%s\n", graph)
		}
	}

	renderWeeks(p, doc.Tier180d)
	renderMonths(p, doc.Tier1y)
	renderPhases(p, doc.PhaseMarkers)
	renderGaps(p, doc.DataGaps)

	return p.err
}

// renderWeeks prints the most recent eight weeks of the weekly tier
func renderWeeks(p *printer, weeks []service.WeeklyEntry) {
	if len(weeks) == 0 {
		return
	}
	p.heading("Recent weeks")
	p.printf("  %s\n", faint.Sprintf("%-10s  %6s  %6s  %5s  %5s  %8s  %-8s", "Week", "CTL", "TSB", "Load", "Hours", "Monotony", "Phase"))
	start := max(0, len(weeks)-8)
	for _, wk := range weeks[start:] {
		phase := "-"
		if wk.Phase != nil {
			phase = string(*wk.Phase)
		}
		p.printf("  %-10s  %6s  %6s  %5.0f  %5.1f  %8s  %-8s\n",
			wk.WeekStart, num(wk.CTLAvg, 1), num(wk.TSBAvg, 1), wk.WeeklyTSS, wk.Hours, num(wk.Monotony, 2), phase)
	}
}

func renderMonths(p *printer, months []service.MonthlyEntry) {
	if len(months) == 0 {
		return
	}
	p.heading("Last 12 months")
	p.printf("  %s\n", faint.Sprintf("%-7s  %6s  %6s  %5s  %-28s", "Month", "CTL", "Load", "Hours", "Zone mix"))
	for _, m := range months {
		mix := "-"
		if m.SeilerTID != nil && !m.SeilerTID.IsZero() {
			mix = distribution(*m.SeilerTID)
		}
		p.printf("  %-7s  %6s  %6.0f  %5.1f  %-28s\n", m.Month, num(m.CTLAvg, 1), m.MonthlyTSS, m.Hours, mix)
	}
}

func renderPhases(p *printer, markers []service.PhaseMarker) {
	if len(markers) == 0 {
		return
	}
	p.heading("Phases")
	start := max(0, len(markers)-6)
	for _, m := range markers[start:] {
		p.printf("  %s to %s  %s\n", m.StartDate, m.EndDate, m.Phase)
	}
}

func renderGaps(p *printer, gaps []service.DataGap) {
	if len(gaps) == 0 {
		return
	}
	p.heading("Gaps")
	for _, g := range gaps {
		p.printf("  %s to %s  %s\n", g.StartDate, g.EndDate, warnColor.Sprintf("%d days", g.Days))
	}
}

func signed(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%+.1f", *v)
}
