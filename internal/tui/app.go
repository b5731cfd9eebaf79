package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"intervals-coach/internal/service"
)

// Screen identifiers
type Screen int

const (
	ScreenDashboard Screen = iota
	ScreenActivities
	ScreenActivityDetail
	ScreenTrends
	ScreenSync
	ScreenHelp
)

// App is the root Bubble Tea model
type App struct {
	screen     Screen
	prevScreen Screen

	// Screen models
	dashboard  DashboardModel
	activities ActivitiesModel
	detail     ActivityDetailModel
	trends     TrendsModel
	syncScreen SyncModel
	help       HelpModel

	// Services
	queryService *service.QueryService
	syncService  *service.SyncService

	// Window dimensions
	width  int
	height int

	// Status message
	status string
}

// NewApp creates a new App with all dependencies. The first sync starts as
// soon as the program runs.
func NewApp(syncService *service.SyncService, queryService *service.QueryService, req service.SyncRequest) *App {
	return &App{
		screen:       ScreenDashboard,
		queryService: queryService,
		syncService:  syncService,
		dashboard:    NewDashboardModel(nil),
		activities:   NewActivitiesModel(nil),
		trends:       NewTrendsModel(nil, 0),
		syncScreen:   NewSyncModel(syncService, req),
		help:         NewHelpModel(),
	}
}

// Init initializes the app
func (a *App) Init() tea.Cmd {
	var cmd tea.Cmd
	a.syncScreen, cmd = a.syncScreen.Start()
	a.status = "Syncing with intervals.icu..."
	return cmd
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Global keybindings (unless in sync mode)
		if a.screen != ScreenSync || !a.syncScreen.syncing {
			switch msg.String() {
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				a.screen = ScreenDashboard
				return a, nil
			case "2":
				a.screen = ScreenActivities
				return a, nil
			case "3":
				a.screen = ScreenTrends
				return a, nil
			case "4", "s":
				if a.screen != ScreenSync {
					a.screen = ScreenSync
					return a, nil
				}
				// Let 's' fall through to sync screen when already there
			case "?":
				a.prevScreen = a.screen
				a.screen = ScreenHelp
				return a, nil
			case "esc":
				switch a.screen {
				case ScreenHelp:
					a.screen = a.prevScreen
					return a, nil
				case ScreenActivityDetail:
					a.screen = ScreenActivities
					return a, nil
				}
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		m, _ := a.trends.Update(msg)
		a.trends = m.(TrendsModel)

	// Sync messages go to the sync screen whichever screen is showing
	case syncProgressMsg, SyncDoneMsg, spinner.TickMsg:
		m, cmd := a.syncScreen.Update(msg)
		a.syncScreen = m.(SyncModel)
		return a, cmd

	case SyncCompleteMsg:
		a.applySync(msg.Result)
		return a, nil

	case OpenActivityDetailMsg:
		a.detail = NewActivityDetailModel(a.queryService, msg.ActivityID, a.width, a.height)
		a.screen = ScreenActivityDetail
		return a, a.detail.Init()
	}

	// Delegate to current screen
	var cmd tea.Cmd
	switch a.screen {
	case ScreenDashboard:
		var m tea.Model
		m, cmd = a.dashboard.Update(msg)
		a.dashboard = m.(DashboardModel)
	case ScreenActivities:
		var m tea.Model
		m, cmd = a.activities.Update(msg)
		a.activities = m.(ActivitiesModel)
	case ScreenActivityDetail:
		var m tea.Model
		m, cmd = a.detail.Update(msg)
		a.detail = m.(ActivityDetailModel)
	case ScreenTrends:
		var m tea.Model
		m, cmd = a.trends.Update(msg)
		a.trends = m.(TrendsModel)
	case ScreenSync:
		var m tea.Model
		m, cmd = a.syncScreen.Update(msg)
		a.syncScreen = m.(SyncModel)
	case ScreenHelp:
		var m tea.Model
		m, cmd = a.help.Update(msg)
		a.help = m.(HelpModel)
	}

	return a, cmd
}

// applySync swaps in the documents of a finished sync. A failed build keeps
// the previous document on screen.
func (a *App) applySync(result *service.SyncResult) {
	if a.syncScreen.err != nil {
		a.status = fmt.Sprintf("Sync failed: %v", a.syncScreen.err)
		return
	}
	if result == nil {
		a.status = ""
		return
	}

	if result.Snapshot != nil {
		a.dashboard = NewDashboardModel(result.Snapshot)
		a.activities = NewActivitiesModel(result.Snapshot.RecentActivities)
	}
	if result.History != nil {
		a.trends = NewTrendsModel(result.History, a.width)
	}

	a.status = ""
	if len(result.Errors) > 0 {
		a.status = fmt.Sprintf("Sync finished with %d errors, see the sync screen", len(result.Errors))
	}
	if a.screen == ScreenSync {
		a.screen = ScreenDashboard
	}
}

// View renders the app
func (a *App) View() string {
	header := a.renderHeader()
	nav := a.renderNav()

	var content string
	switch a.screen {
	case ScreenDashboard:
		content = a.dashboard.View()
	case ScreenActivities:
		content = a.activities.View()
	case ScreenActivityDetail:
		content = a.detail.View()
	case ScreenTrends:
		content = a.trends.View()
	case ScreenSync:
		content = a.syncScreen.View()
	case ScreenHelp:
		content = a.help.View()
	}

	footer := a.renderFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, nav, content, footer)
}

func (a *App) renderHeader() string {
	return headerStyle.Render("intervals.icu Training Coach")
}

func (a *App) renderNav() string {
	items := []struct {
		key    string
		label  string
		screen Screen
	}{
		{"1", "Dashboard", ScreenDashboard},
		{"2", "Activities", ScreenActivities},
		{"3", "Trends", ScreenTrends},
		{"4", "Sync", ScreenSync},
		{"?", "Help", ScreenHelp},
	}

	var nav string
	for i, item := range items {
		if i > 0 {
			nav += "  "
		}

		label := "[" + item.key + "] " + item.label
		active := a.screen == item.screen ||
			(item.screen == ScreenActivities && a.screen == ScreenActivityDetail)
		if active {
			nav += navActiveStyle.Render(label)
		} else {
			nav += navInactiveStyle.Render(label)
		}
	}

	nav += "  " + navInactiveStyle.Render("[q] Quit")

	return navStyle.Render(nav)
}

func (a *App) renderFooter() string {
	if a.status != "" {
		return statusStyle.Render(a.status)
	}
	return ""
}

// SyncCompleteMsg is sent when sync finishes
type SyncCompleteMsg struct {
	Result *service.SyncResult
}
