package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"intervals-coach/internal/analysis"
	"intervals-coach/internal/service"
)

// DashboardModel is the dashboard screen model
type DashboardModel struct {
	doc *service.SnapshotDocument
}

// NewDashboardModel creates a new dashboard model over the latest snapshot
func NewDashboardModel(doc *service.SnapshotDocument) DashboardModel {
	return DashboardModel{doc: doc}
}

// Init initializes the dashboard
func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the dashboard
func (m DashboardModel) View() string {
	if m.doc == nil {
		return "\n  No snapshot yet. Press 's' to sync with intervals.icu."
	}

	var sections []string

	// Top row: fitness and wellness side by side
	topRow := lipgloss.JoinHorizontal(lipgloss.Top, m.renderFitnessCard(), "  ", m.renderWellnessCard())
	sections = append(sections, topRow)

	sections = append(sections, m.renderAlerts())
	sections = append(sections, m.renderMetricsCard())
	sections = append(sections, m.renderRecentActivities())

	help := statusStyle.Render(fmt.Sprintf("Snapshot %s  -  press 's' to sync, '2' for activities",
		m.doc.Metadata.SnapshotDate))
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderFitnessCard() string {
	title := cardTitleStyle.Render("Current Fitness")
	f := m.doc.CurrentStatus.Fitness

	lines := []string{
		RenderMetric("Fitness (CTL)", formatValue(f.CTL, 0), formatSigned(f.RampRate, 1)),
		RenderMetric("Fatigue (ATL)", formatValue(f.ATL, 0), ""),
		RenderMetric("Form (TSB)", formatValue(f.TSB, 0), ""),
		"",
		mutedStyle.Render(f.FormDescription),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(38).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderWellnessCard() string {
	title := cardTitleStyle.Render("Wellness Today")
	w := m.doc.CurrentStatus.Wellness

	lines := []string{
		RenderMetric("HRV", formatValue(w.HRV, 0), w.HRVField),
		RenderMetric("Resting HR", formatValue(w.RestingHR, 0), ""),
		RenderMetric("Sleep", formatValue(w.SleepHours, 1)+" h", ""),
		RenderMetric("Sleep score", formatValue(w.SleepScore, 0), ""),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Width(34).Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderAlerts() string {
	title := cardTitleStyle.Render("Alerts")

	if len(m.doc.Alerts) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, successStyle.Render("No alerts")))
	}

	var rows []string
	for _, a := range m.doc.Alerts {
		rows = append(rows, RenderSeverity(a.Severity)+"  "+a.Message)
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, lipgloss.JoinVertical(lipgloss.Left, rows...)))
}

func (m DashboardModel) renderMetricsCard() string {
	title := cardTitleStyle.Render("Derived Metrics")
	dm := m.doc.DerivedMetrics

	value := func(key string, places int) string {
		v, ok := dm.Float(key)
		if !ok {
			return "-"
		}
		return fmt.Sprintf("%.*f", places, v)
	}
	label := func(key string) string {
		s, _ := dm.String(key)
		return s
	}

	var efTrend string
	if ef7, ok := dm.Float("efficiency_factor_7d"); ok {
		if ef28, ok := dm.Float("efficiency_factor_28d"); ok {
			diff := ef7 - ef28
			efTrend = formatSigned(&diff, 2)
		}
	}

	phase := label("phase_detected")
	if prog, ok := dm["phase_progression"].(analysis.Progression); ok {
		phase = fmt.Sprintf("%s (wk %d, %s)", prog.Phase, prog.WeeksInPhase, prog.Status)
	}

	lines := []string{
		RenderMetric("Recovery index", value(analysis.MetricRecoveryIndex, 2), label("recovery_index_interpretation")),
		RenderMetric("ACWR", value(analysis.MetricACWR, 2), label("acwr_interpretation")),
		RenderMetric("Monotony", value(analysis.MetricMonotony, 2), label("monotony_interpretation")),
		RenderMetric("Strain", value(analysis.MetricStrain, 0), ""),
		RenderMetric("Polarization 7d", value(analysis.MetricPolarization7d, 2), label("polarization_interpretation_7d")),
		RenderMetric("Decoupling 7d", value(analysis.MetricDurability7d, 1), ""),
		RenderMetric("Efficiency 7d", value("efficiency_factor_7d", 2), efTrend),
		RenderMetric("Consistency", value(analysis.MetricConsistency, 2), ""),
		RenderMetric("Phase", orDash(phase), ""),
	}

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, content))
}

func (m DashboardModel) renderRecentActivities() string {
	title := cardTitleStyle.Render("Recent Activities")

	if len(m.doc.RecentActivities) == 0 {
		return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, "No activities in the window"))
	}

	header := tableHeaderStyle.Render(fmt.Sprintf("%-10s  %-20s  %8s  %5s  %5s  %7s",
		"Date", "Name", "Time", "Load", "EF", "Decouple"))

	rows := []string{header}
	for i, a := range m.doc.RecentActivities {
		if i >= 5 {
			break
		}
		row := tableRowStyle.Render(fmt.Sprintf("%-10s  %-20s  %8s  %5s  %5s  %7s",
			shortDate(a.StartDate),
			truncateName(a.Name, 20),
			formatDuration(a.MovingTime),
			formatValue(a.TrainingLoad, 0),
			formatValue(a.EfficiencyFactor, 2),
			formatValue(a.Decoupling, 1),
		))
		rows = append(rows, row)
	}

	table := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, table))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
