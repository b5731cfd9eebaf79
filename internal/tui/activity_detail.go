package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"intervals-coach/internal/service"
)

// ActivityDetailModel shows the durability report of one activity
type ActivityDetailModel struct {
	queryService *service.QueryService
	activityID   string
	report       *service.DurabilityReport
	viewport     viewport.Model
	loading      bool
	err          error
	width        int
	height       int
	ready        bool
}

// NewActivityDetailModel creates a new activity detail model
func NewActivityDetailModel(qs *service.QueryService, activityID string, width, height int) ActivityDetailModel {
	m := ActivityDetailModel{
		queryService: qs,
		activityID:   activityID,
		loading:      true,
		width:        width,
		height:       height,
	}

	if width > 0 && height > 0 {
		m.viewport = viewport.New(width, height-6) // Reserve space for header/footer
		m.ready = true
	}

	return m
}

// Init initializes the activity detail screen
func (m ActivityDetailModel) Init() tea.Cmd {
	return m.loadDetail
}

type activityDetailLoadedMsg struct {
	report *service.DurabilityReport
	err    error
}

func (m ActivityDetailModel) loadDetail() tea.Msg {
	report, err := m.queryService.ActivityDurability(context.Background(), m.activityID)
	return activityDetailLoadedMsg{report: report, err: err}
}

// Update handles messages
func (m ActivityDetailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activityDetailLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.report = msg.report
		if m.ready {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-6)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 6
		}
		if m.report != nil {
			m.viewport.SetContent(m.renderContent())
		}

	case tea.KeyMsg:
		if msg.String() == "r" {
			m.loading = true
			return m, m.loadDetail
		}
	}

	// Handle viewport scrolling
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the activity detail screen
func (m ActivityDetailModel) View() string {
	if m.loading {
		return "\n  Loading activity streams..."
	}

	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err))
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	footer := statusStyle.Render("  esc: back to list  j/k or arrows: scroll  r: refresh")

	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), footer)
}

func (m ActivityDetailModel) renderContent() string {
	r := m.report
	if r == nil {
		return "No data"
	}

	var sections []string

	title := cardTitleStyle.Render(r.Name)
	info := mutedStyle.Render(fmt.Sprintf("%s  %s  %s  %d samples",
		r.Type, shortDate(r.StartDate), formatDuration(r.MovingTime), r.Samples))
	sections = append(sections, lipgloss.JoinVertical(lipgloss.Left, title, info))

	efficiency := []string{
		cardTitleStyle.Render("Efficiency"),
		RenderMetric("Efficiency factor", formatValue(r.EfficiencyFactor, 2), r.EfficiencyDescription),
		RenderMetric("Variability index", formatValue(r.VariabilityIndex, 2), r.VariabilityDescription),
	}
	sections = append(sections, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, efficiency...)))

	sections = append(sections, cardStyle.Render(m.renderDecoupling()))

	return strings.Join(sections, "\n")
}

func (m ActivityDetailModel) renderDecoupling() string {
	r := m.report
	lines := []string{cardTitleStyle.Render("Aerobic Decoupling")}

	if r.Decoupling == nil {
		lines = append(lines, mutedStyle.Render("No power and heart rate data for this activity"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	dec := fmt.Sprintf("%.1f%%", *r.Decoupling)
	if *r.Decoupling > 5 || *r.Decoupling < -5 {
		dec = warningStyle.Render(dec)
	} else {
		dec = successStyle.Render(dec)
	}
	lines = append(lines,
		lipgloss.JoinHorizontal(lipgloss.Left, metricLabelStyle.Render("Pw:HR drift"), dec),
		mutedStyle.Render(r.DecouplingDescription),
		"",
		RenderMetric("Source", r.DecouplingSource, ""),
	)

	if r.FirstHalfRatio != nil && r.SecondHalfRatio != nil {
		lines = append(lines,
			RenderMetric("First half Pw:HR", fmt.Sprintf("%.3f", *r.FirstHalfRatio), ""),
			RenderMetric("Second half Pw:HR", fmt.Sprintf("%.3f", *r.SecondHalfRatio), ""),
		)
	}

	if r.DataQuality != nil {
		lines = append(lines, "",
			lipgloss.JoinHorizontal(lipgloss.Left,
				metricLabelStyle.Render("Data quality"),
				RenderProgressBar(*r.DataQuality, 20),
				mutedStyle.Render(" "+r.DataQualityDescription)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
