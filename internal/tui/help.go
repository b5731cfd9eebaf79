package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HelpModel is the help screen model
type HelpModel struct{}

// NewHelpModel creates a new help model
func NewHelpModel() HelpModel {
	return HelpModel{}
}

// Init initializes the help screen
func (m HelpModel) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the help screen
func (m HelpModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("Keyboard Shortcuts")
	sections = append(sections, title)

	navSection := m.renderSection("Navigation", []keyHelp{
		{"1", "Dashboard"},
		{"2", "Recent activities"},
		{"3", "Training trends"},
		{"4 or s", "Sync screen"},
		{"?", "Help (this screen)"},
		{"q", "Quit"},
		{"esc", "Back / close help"},
	})
	sections = append(sections, navSection)

	actSection := m.renderSection("Activities", []keyHelp{
		{"j / down", "Move cursor down"},
		{"k / up", "Move cursor up"},
		{"g / G", "First / last activity"},
		{"enter", "Durability details"},
	})
	sections = append(sections, actSection)

	detailSection := m.renderSection("Activity Details", []keyHelp{
		{"j / k", "Scroll"},
		{"r", "Reload streams"},
	})
	sections = append(sections, detailSection)

	trendsSection := m.renderSection("Trends", []keyHelp{
		{"w", "Weekly view (last 180 days)"},
		{"m", "Monthly view (last 3 years)"},
		{"pgdn / pgup", "Page through periods"},
	})
	sections = append(sections, trendsSection)

	syncSection := m.renderSection("Sync Screen", []keyHelp{
		{"s / enter", "Start sync"},
	})
	sections = append(sections, syncSection)

	sections = append(sections, m.renderMetricsHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

type keyHelp struct {
	key  string
	desc string
}

func (m HelpModel) renderSection(title string, keys []keyHelp) string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, helpSectionStyle.Render(title))

	for _, k := range keys {
		lines = append(lines, "  "+RenderKeyHelp(k.key, k.desc))
	}

	return strings.Join(lines, "\n")
}

func (m HelpModel) renderMetricsHelp() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, helpSectionStyle.Render("Metrics Explained"))
	lines = append(lines, "")

	metrics := []struct {
		name string
		desc string
	}{
		{"CTL (Fitness)", "Chronic training load, a 42 day weighted average of daily load."},
		{"ATL (Fatigue)", "Acute training load, a 7 day weighted average of daily load."},
		{"TSB (Form)", "Training stress balance = CTL - ATL. Positive = fresh."},
		{"ACWR", "Acute to chronic workload ratio. 0.8-1.3 is the optimal range."},
		{"Recovery index", "HRV against baseline over resting HR against baseline. Below 0.6 = poor recovery."},
		{"Monotony", "Mean daily load over its standard deviation. Above 2.3 = too little variation."},
		{"Decoupling", "Pw:HR drift between the two halves of a ride. <5% = good aerobic durability."},
		{"Polarization", "Share of time in Z1 plus Z3 against Z2. Higher = more polarized."},
	}

	for _, metric := range metrics {
		lines = append(lines, "  "+helpKeyStyle.Render(metric.name))
		lines = append(lines, "  "+mutedStyle.Render(metric.desc))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
