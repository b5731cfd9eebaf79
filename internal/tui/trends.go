package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"intervals-coach/internal/report"
	"intervals-coach/internal/service"
)

const (
	periodWeekly  = "weekly"
	periodMonthly = "monthly"
)

// TrendsModel shows the fitness chart and the weekly or monthly tiers of
// the history
type TrendsModel struct {
	doc        *service.HistoryDocument
	periodType string
	cursor     int
	offset     int
	pageSize   int
	width      int
}

// NewTrendsModel creates a new trends model
func NewTrendsModel(doc *service.HistoryDocument, width int) TrendsModel {
	return TrendsModel{
		doc:        doc,
		periodType: periodWeekly,
		pageSize:   12,
		width:      width,
	}
}

// Init initializes the trends screen
func (m TrendsModel) Init() tea.Cmd {
	return nil
}

// total returns how many rows the current period type has
func (m TrendsModel) total() int {
	if m.doc == nil {
		return 0
	}
	if m.periodType == periodMonthly {
		return len(m.doc.Tier3y)
	}
	return len(m.doc.Tier180d)
}

// Update handles messages
func (m TrendsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "w":
			m.periodType = periodWeekly
			m.cursor, m.offset = 0, 0
		case "m":
			m.periodType = periodMonthly
			m.cursor, m.offset = 0, 0
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			} else if m.offset > 0 {
				m.offset -= m.pageSize
				m.cursor = m.pageSize - 1
			}
		case "down", "j":
			visibleCount := m.getVisibleCount()
			if m.cursor < visibleCount-1 {
				m.cursor++
			} else if m.offset+visibleCount < m.total() {
				m.offset += m.pageSize
				m.cursor = 0
			}
		case "pgup":
			if m.offset > 0 {
				m.offset = max(0, m.offset-m.pageSize)
				m.cursor = 0
			}
		case "pgdown":
			if m.offset+m.pageSize < m.total() {
				m.offset += m.pageSize
				m.cursor = 0
			}
		}
	}
	return m, nil
}

func (m TrendsModel) getVisibleCount() int {
	remaining := m.total() - m.offset
	if remaining > m.pageSize {
		return m.pageSize
	}
	return remaining
}

// View renders the trends screen
func (m TrendsModel) View() string {
	if m.doc == nil {
		return "\n  No history yet. Press 's' to sync with intervals.icu."
	}

	var sections []string

	chartWidth := 60
	if m.width > 20 {
		chartWidth = min(90, m.width-20)
	}
	if graph := report.FitnessChart(m.doc.Tier90d, chartWidth, 10); graph != "" {
		title := cardTitleStyle.Render("Fitness and Form - Last 90 Days")
		sections = append(sections, cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, graph)))
	}

	periodLabel := "Weekly"
	if m.periodType == periodMonthly {
		periodLabel = "Monthly"
	}

	total := m.total()
	if total == 0 {
		sections = append(sections, cardTitleStyle.Render(periodLabel), "\n  No data available.")
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	endNum := m.offset + m.getVisibleCount()
	title := cardTitleStyle.Render(fmt.Sprintf("%s - %d-%d of %d", periodLabel, m.offset+1, endNum, total))
	sections = append(sections, title)

	if m.periodType == periodMonthly {
		sections = append(sections, m.renderMonths()...)
	} else {
		sections = append(sections, m.renderWeeks()...)
	}

	help := statusStyle.Render("\n  w/m: weekly/monthly  j/k: navigate  pgup/pgdn: page")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWeeks lists the weekly tier most recent first
func (m TrendsModel) renderWeeks() []string {
	header := tableHeaderStyle.Render(fmt.Sprintf("   %-10s  %6s  %6s  %6s  %5s  %5s  %8s  %-8s",
		"Week", "CTL", "ATL", "TSB", "Load", "Hours", "Monotony", "Phase"))
	rows := []string{header}

	weeks := m.doc.Tier180d
	end := min(m.offset+m.pageSize, len(weeks))
	for i := m.offset; i < end; i++ {
		w := weeks[len(weeks)-1-i]

		phase := "-"
		if w.Phase != nil {
			phase = string(*w.Phase)
		}

		row := fmt.Sprintf("%s%-10s  %6s  %6s  %6s  %5.0f  %5.1f  %8s  %-8s",
			m.cursorMark(i),
			w.WeekStart,
			formatValue(w.CTLAvg, 1),
			formatValue(w.ATLAvg, 1),
			formatValue(w.TSBAvg, 1),
			w.WeeklyTSS,
			w.Hours,
			formatValue(w.Monotony, 2),
			phase,
		)
		rows = append(rows, m.styleRow(i, row))
	}
	return rows
}

// renderMonths lists the three-year monthly tier most recent first
func (m TrendsModel) renderMonths() []string {
	header := tableHeaderStyle.Render(fmt.Sprintf("   %-7s  %6s  %7s  %6s  %5s  %4s  %10s",
		"Month", "CTL", "CTL end", "Load", "Hours", "Acts", "Decouple"))
	rows := []string{header}

	months := m.doc.Tier3y
	end := min(m.offset+m.pageSize, len(months))
	for i := m.offset; i < end; i++ {
		mo := months[len(months)-1-i]

		row := fmt.Sprintf("%s%-7s  %6s  %7s  %6.0f  %5.1f  %4d  %10s",
			m.cursorMark(i),
			mo.Month,
			formatValue(mo.CTLAvg, 1),
			formatValue(mo.CTLEnd, 1),
			mo.MonthlyTSS,
			mo.Hours,
			mo.ActivitiesCount,
			formatValue(mo.DurabilityAvg, 1),
		)
		rows = append(rows, m.styleRow(i, row))
	}
	return rows
}

func (m TrendsModel) cursorMark(i int) string {
	if i-m.offset == m.cursor {
		return "> "
	}
	return "  "
}

func (m TrendsModel) styleRow(i int, row string) string {
	if i-m.offset == m.cursor {
		return tableSelectedStyle.Render(row)
	}
	return tableRowStyle.Render(row)
}
