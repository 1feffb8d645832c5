// Package ui provides the Bubble Tea TUI for the arbitrage engine.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/0xmoleclub/gSwap/pkg/ui/components"
)

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"   // Initial welcome screen
	PhaseDashboard Phase = "dashboard" // Main dashboard
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	opportunities *components.OpportunitiesComponent
	executions    *components.ExecutionsComponent
	stats         *components.StatsComponent
	feeds         *components.StatusComponent

	// Phase state
	phase        Phase
	welcomeStart time.Time

	// State
	ready    bool
	quitting bool
	paused   bool
	width    int
	height   int

	engineState  string
	lastScan     time.Time
	lastCycle    *ScanMsg
	activityFeed []string
	errors       []ErrorEntry
	logs         []string
}

// New creates a new TUI model.
func New() Model {
	return Model{
		opportunities: components.NewOpportunitiesComponent(50),
		executions:    components.NewExecutionsComponent(10),
		stats:         components.NewStatsComponent(),
		feeds:         components.NewStatusComponent(),
		phase:         PhaseWelcome,
		welcomeStart:  time.Now(),
		engineState:   "idle",
		activityFeed:  make([]string, 0, 8),
		errors:        make([]ErrorEntry, 0, 3),
		logs:          make([]string, 0, 5),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		// During welcome phase, any other key skips to the dashboard.
		if m.phase == PhaseWelcome {
			m.phase = PhaseDashboard
			if OnStartModules != nil {
				go OnStartModules()
			}
			return m, tickCmd()
		}
		switch msg.String() {
		case "c":
			m.opportunities.Clear()
			return m, nil
		case "p":
			m.paused = !m.paused
			return m, nil
		case "up", "k":
			m.opportunities.ScrollUp()
			return m, nil
		case "down", "j":
			m.opportunities.ScrollDown()
			return m, nil
		case "e":
			m.errors = make([]ErrorEntry, 0, 3)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.phase = PhaseDashboard
			if OnStartModules != nil {
				go OnStartModules()
			}
		}
		return m, tickCmd()

	case ScanMsg:
		m.lastCycle = &msg
		m.lastScan = time.Now()
		activity := fmt.Sprintf("cycle #%d: %d routes, %d sims, %d viable (%s)",
			msg.Cycle, msg.Routes, msg.Simulations, msg.Viable,
			msg.Duration.Round(time.Millisecond))
		m.activityFeed = addActivity(m.activityFeed, activity)
		if msg.BestRoute != "" {
			m.activityFeed = addActivity(m.activityFeed,
				fmt.Sprintf("best: %s net %s (%s%%)", msg.BestRoute, msg.BestNet, msg.BestPercent))
		}

	case OpportunityMsg:
		status := "shortlisted"
		if !msg.Viable {
			status = "not viable"
		}
		m.opportunities.Add(components.OpportunityRow{
			Timestamp:     time.Now().Format("15:04:05"),
			Route:         msg.Route,
			AmountIn:      msg.AmountIn,
			NetProfit:     msg.NetProfit,
			ProfitPercent: msg.ProfitPercent,
			Score:         msg.Score,
			Status:        status,
			Viable:        msg.Viable,
		})

	case DecisionMsg:
		verdict := "refused"
		if msg.Execute {
			verdict = "approved"
		}
		m.activityFeed = addActivity(m.activityFeed,
			fmt.Sprintf("oracle %s %s (conf %.2f, %s)", verdict, msg.Route, msg.Confidence, msg.Urgency))

	case ExecutionMsg:
		m.executions.Add(components.ExecutionRow{
			Timestamp:      time.Now().Format("15:04:05"),
			Route:          msg.Route,
			SettlementID:   msg.SettlementID,
			Sequence:       msg.Sequence,
			RealizedProfit: msg.RealizedProfit,
			Cost:           msg.Cost,
			Success:        msg.Success,
			Error:          msg.Error,
		})

	case FeedStateMsg:
		m.feeds.Update(components.ConnectionStatus{
			Name:       msg.Name,
			Connected:  msg.Connected,
			LastUpdate: time.Now(),
		})

	case StatusMsg:
		m.engineState = msg.State
		m.stats.Update(components.Stats{
			Cycles:             msg.Cycles,
			RoutesDiscovered:   msg.RoutesDiscovered,
			OpportunitiesFound: msg.OpportunitiesFound,
			Executions:         msg.Executions,
			Errors:             int64(len(m.errors)),
		})

	case ErrorMsg:
		m.logs = addLog(m.logs, "error", msg.Error.Error())
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)
	}

	return m, nil
}

// addLog adds a log message and returns the updated slice (keeps last 5).
func addLog(logs []string, level, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	logLine := fmt.Sprintf("[%s] %s: %s", timestamp, level, message)
	logs = append(logs, logLine)
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// addActivity adds an activity message and returns the updated slice (keeps last 6).
func addActivity(feed []string, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	line := fmt.Sprintf("[%s] %s", timestamp, message)
	feed = append(feed, line)
	if len(feed) > 6 {
		feed = feed[len(feed)-6:]
	}
	return feed
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	if m.phase == PhaseWelcome {
		return m.renderWelcomeScreen()
	}

	var b strings.Builder

	title := TitleStyle.Render(" gSwap Arbitrage Engine ")
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	// Left column: activity + stats. Right column: opportunities + executions.
	var leftContent strings.Builder
	leftContent.WriteString(m.renderActivityFeed())
	leftContent.WriteString("\n\n")
	leftContent.WriteString(m.stats.View())
	leftCol := leftContent.String()

	var rightContent strings.Builder
	rightContent.WriteString(m.opportunities.View())
	rightContent.WriteString("\n\n")
	rightContent.WriteString(m.executions.View())
	rightCol := rightContent.String()

	if m.width > 140 {
		left := PanelStyle.Width(m.width/3 - 2).Render(leftCol)
		right := PanelStyle.Width(2*m.width/3 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(PanelStyle.Width(m.width - 4).Render(rightCol))
		b.WriteString("\n")
		b.WriteString(PanelStyle.Width(m.width - 4).Render(leftCol))
	}

	b.WriteString("\n\n")

	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorLoss)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorLoss)
		mutedError := lipgloss.NewStyle().Foreground(ColorDim)

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(mutedError.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(mutedError.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	helpText := "q: quit • c: clear • p: pause • ↑↓: scroll • e: clear errors"
	if m.paused {
		pauseStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorStale)
		b.WriteString(pauseStyle.Render("⏸ PAUSED"))
		b.WriteString(" • ")
	}
	b.WriteString(HelpStyle.Render(helpText))

	return b.String()
}

// renderActivityFeed renders the recent activity feed.
func (m Model) renderActivityFeed() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorDim)

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("LIVE ACTIVITY"))
	sb.WriteString("\n\n")

	if len(m.activityFeed) == 0 {
		sb.WriteString(mutedStyle.Render("  Waiting for first scan cycle..."))
	} else {
		for _, activity := range m.activityFeed {
			sb.WriteString(mutedStyle.Render("  " + activity))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	mutedStyle := lipgloss.NewStyle().Foreground(ColorDim)
	greenStyle := lipgloss.NewStyle().Foreground(ColorProfit)

	elapsed := time.Since(m.welcomeStart)
	dotCount := int(elapsed.Milliseconds()/300) % 4
	dots := strings.Repeat(".", dotCount)

	var sb strings.Builder
	sb.WriteString("\n\n\n\n")

	logo := `
    ██████╗ ███████╗██╗    ██╗ █████╗ ██████╗
   ██╔════╝ ██╔════╝██║    ██║██╔══██╗██╔══██╗
   ██║  ███╗███████╗██║ █╗ ██║███████║██████╔╝
   ██║   ██║╚════██║██║███╗██║██╔══██║██╔═══╝
   ╚██████╔╝███████║╚███╔███╔╝██║  ██║██║
    ╚═════╝ ╚══════╝ ╚══╝╚══╝ ╚═╝  ╚═╝╚═╝
`
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")

	sb.WriteString(mutedStyle.Render("          C Y C L I C   A R B I T R A G E"))
	sb.WriteString("\n\n\n")

	sb.WriteString(greenStyle.Render(fmt.Sprintf("              Initializing%s", dots)))
	sb.WriteString("\n\n")

	sb.WriteString(mutedStyle.Render("        Press any key to skip, or wait..."))
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	// Scanning indicator (animated when recently scanned)
	if time.Since(m.lastScan) < 500*time.Millisecond {
		spinners := []string{"⟳", "◐", "◓", "◑", "◒"}
		idx := int(time.Now().UnixMilli()/100) % len(spinners)
		scanningStyle := lipgloss.NewStyle().Foreground(ColorProfit).Bold(true)
		parts = append(parts, scanningStyle.Render(spinners[idx]+" Scanning"))
	}

	stateStyle := StatusConnected
	if m.engineState == "stopped" || m.engineState == "idle" {
		stateStyle = StatusDisconnected
	}
	parts = append(parts, stateStyle.Render("Engine: "+m.engineState))

	if m.lastCycle != nil {
		parts = append(parts, fmt.Sprintf("Cycle: #%d", m.lastCycle.Cycle))
	}

	if feeds := m.feeds.View(); feeds != "No feeds" {
		parts = append(parts, strings.TrimSuffix(strings.ReplaceAll(feeds, "\n", "  "), "  "))
	}

	if !m.lastScan.IsZero() {
		ago := time.Since(m.lastScan).Round(time.Second)
		parts = append(parts, DimText.Render(fmt.Sprintf("Last scan: %s ago", ago)))
	}

	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// OnStartModules is called when the welcome screen completes and modules should start.
// This is set by main.go to signal when to begin loading modules.
var OnStartModules func()

// Run starts the Bubble Tea program.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
	if _, ok := msg.(StartModulesMsg); ok && OnStartModules != nil {
		OnStartModules()
	}
}
