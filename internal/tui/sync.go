package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"intervals-coach/internal/service"
)

// SyncModel is the sync screen model
type SyncModel struct {
	syncService *service.SyncService
	request     service.SyncRequest
	spinner     spinner.Model
	syncing     bool
	progress    service.SyncProgress
	result      *service.SyncResult
	err         error
	done        bool
}

// NewSyncModel creates a new sync model
func NewSyncModel(ss *service.SyncService, req service.SyncRequest) SyncModel {
	return SyncModel{
		syncService: ss,
		request:     req,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(primaryColor)),
		),
	}
}

// Init initializes the sync screen
func (m SyncModel) Init() tea.Cmd {
	return nil
}

// SyncDoneMsg is sent when sync finishes
type SyncDoneMsg struct {
	Result *service.SyncResult
	Err    error
}

// syncProgressMsg carries one progress report and the channels to keep
// listening on
type syncProgressMsg struct {
	progress service.SyncProgress
	updates  <-chan service.SyncProgress
	done     <-chan SyncDoneMsg
}

// Start begins a sync unless one is already running
func (m SyncModel) Start() (SyncModel, tea.Cmd) {
	if m.syncing {
		return m, nil
	}
	m.syncing = true
	m.done = false
	m.err = nil
	m.result = nil
	m.progress = service.SyncProgress{}
	return m, tea.Batch(m.spinner.Tick, m.runSync())
}

// Update handles messages
func (m SyncModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case syncProgressMsg:
		m.progress = msg.progress
		return m, waitForSync(msg.updates, msg.done)

	case SyncDoneMsg:
		m.syncing = false
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
		return m, func() tea.Msg { return SyncCompleteMsg{Result: msg.Result} }

	case spinner.TickMsg:
		if !m.syncing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "s":
			return m.Start()
		}
	}
	return m, nil
}

// runSync starts SyncAll in the background and streams its progress
func (m SyncModel) runSync() tea.Cmd {
	updates := make(chan service.SyncProgress, 4)
	done := make(chan SyncDoneMsg, 1)

	svc, req := m.syncService, m.request
	go func() {
		result, err := svc.SyncAll(context.Background(), req, updates)
		done <- SyncDoneMsg{Result: result, Err: err}
	}()

	return waitForSync(updates, done)
}

// waitForSync delivers the next progress report, then the final result once
// the progress channel is closed
func waitForSync(updates <-chan service.SyncProgress, done <-chan SyncDoneMsg) tea.Cmd {
	return func() tea.Msg {
		if p, ok := <-updates; ok {
			return syncProgressMsg{progress: p, updates: updates, done: done}
		}
		return <-done
	}
}

// View renders the sync screen
func (m SyncModel) View() string {
	var sections []string

	title := cardTitleStyle.Render("intervals.icu Sync")
	sections = append(sections, title)

	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("\n  Error: %v", m.err)))
		sections = append(sections, "\n"+statusStyle.Render("  Press 's' or Enter to retry"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.done && !m.syncing {
		sections = append(sections, successStyle.Render("\n  Sync complete!"))
		sections = append(sections, m.renderSummary())
		sections = append(sections, "\n"+statusStyle.Render("  Press '1' to go to dashboard"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	if m.syncing {
		sections = append(sections, m.renderProgress())
	} else {
		sections = append(sections, m.renderStartPrompt())
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m SyncModel) renderStartPrompt() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  This will refresh your coaching documents:")
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("  1. Build the %d-day readiness snapshot", m.request.Days))
	if !m.request.SkipHistory {
		lines = append(lines, fmt.Sprintf("  2. Build the %d-day training history", m.request.LookbackDays))
	}
	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  Press 's' or Enter to start sync"))

	return strings.Join(lines, "\n")
}

func (m SyncModel) renderProgress() string {
	var lines []string

	lines = append(lines, "")
	lines = append(lines, "  "+m.spinner.View()+" Syncing with intervals.icu...")
	lines = append(lines, "")

	steps := []struct {
		phase string
		label string
	}{
		{service.PhaseSnapshot, "Building readiness snapshot"},
		{service.PhaseHistory, "Building training history"},
	}
	for i, step := range steps {
		if step.phase == service.PhaseHistory && m.request.SkipHistory {
			continue
		}
		mark := "  "
		switch {
		case m.progress.Completed > i:
			mark = successStyle.Render("✓ ")
		case m.progress.Phase == step.phase:
			mark = "> "
		}
		lines = append(lines, fmt.Sprintf("  %s%d. %s", mark, i+1, step.label))
	}

	if m.progress.Total > 0 {
		lines = append(lines, "")
		lines = append(lines, "  "+RenderProgressBar(float64(m.progress.Completed)/float64(m.progress.Total), 30))
	}

	lines = append(lines, "")
	lines = append(lines, statusStyle.Render("  This may take a moment..."))

	return strings.Join(lines, "\n")
}

func (m SyncModel) renderSummary() string {
	if m.result == nil {
		return ""
	}

	r := m.result
	var lines []string
	lines = append(lines, "")

	if r.Snapshot != nil {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  Snapshot %s: %d activities, %d alerts",
			r.Snapshot.Metadata.SnapshotDate, r.Snapshot.Metadata.ActivitiesCount28d, len(r.Snapshot.Alerts))))
	}
	if r.History != nil {
		lines = append(lines, successStyle.Render(fmt.Sprintf("  History: %d activities over %d days",
			r.History.Summary.TotalActivities, r.History.Metadata.LookbackDays)))
	}
	lines = append(lines, statusStyle.Render(fmt.Sprintf("  Took %s", r.Duration.Round(100*time.Millisecond))))

	if len(r.Errors) > 0 {
		lines = append(lines, "")
		lines = append(lines, warningStyle.Render(fmt.Sprintf("  %d errors occurred", len(r.Errors))))
		for _, err := range r.Errors {
			lines = append(lines, warningStyle.Render("  "+err.Error()))
		}
	}

	return strings.Join(lines, "\n")
}
