package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"intervals-coach/internal/service"
)

// ActivitiesModel lists the recent activities of the snapshot
type ActivitiesModel struct {
	activities []service.ActivitySummary
	cursor     int
}

// NewActivitiesModel creates a new activities model
func NewActivitiesModel(activities []service.ActivitySummary) ActivitiesModel {
	return ActivitiesModel{activities: activities}
}

// Init initializes the activities screen
func (m ActivitiesModel) Init() tea.Cmd {
	return nil
}

// OpenActivityDetailMsg asks the app to show one activity
type OpenActivityDetailMsg struct {
	ActivityID string
}

// Update handles messages
func (m ActivitiesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.activities)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(0, len(m.activities)-1)
		case "enter":
			if m.cursor < len(m.activities) {
				activityID := m.activities[m.cursor].ID
				return m, func() tea.Msg {
					return OpenActivityDetailMsg{ActivityID: activityID}
				}
			}
		}
	}
	return m, nil
}

// View renders the activities list
func (m ActivitiesModel) View() string {
	if len(m.activities) == 0 {
		return "\n  No recent activities. Press 's' to sync with intervals.icu."
	}

	var sections []string

	title := cardTitleStyle.Render(fmt.Sprintf("Recent Activities (%d)", len(m.activities)))
	sections = append(sections, title)

	header := tableHeaderStyle.Render(fmt.Sprintf("   %-10s  %-25s  %-8s  %9s  %8s  %5s  %5s  %4s  %7s",
		"Date", "Name", "Type", "Distance", "Time", "Load", "EF", "VI", "Decouple"))
	sections = append(sections, header)

	for i, a := range m.activities {
		dec := "-"
		if a.Decoupling != nil {
			dec = fmt.Sprintf("%.1f%%", *a.Decoupling)
		}

		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		row := fmt.Sprintf("%s%-10s  %-25s  %-8s  %9s  %8s  %5s  %5s  %4s  %7s",
			cursor,
			shortDate(a.StartDate),
			truncateName(a.Name, 25),
			truncateName(a.Type, 8),
			formatDistance(a.Distance),
			formatDuration(a.MovingTime),
			formatValue(a.TrainingLoad, 0),
			formatValue(a.EfficiencyFactor, 2),
			formatValue(a.VariabilityIndex, 2),
			dec,
		)

		if i == m.cursor {
			sections = append(sections, tableSelectedStyle.Render(row))
		} else {
			sections = append(sections, tableRowStyle.Render(row))
		}
	}

	help := statusStyle.Render("\n  enter: durability details  j/k: navigate")
	sections = append(sections, help)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
