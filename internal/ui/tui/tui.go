// Package tui renders a live dashboard over the control socket: workspaces,
// the windows of the active workspace, and the daemon's runtime counters.
package tui

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/geket/lamella/internal/control/client"
	"github.com/geket/lamella/internal/metrics"
	"github.com/geket/lamella/internal/state"
)

const (
	refreshInterval = time.Second
	fetchTimeout    = 2 * time.Second
	titleWidth      = 48
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203"))
)

// Source supplies the dashboard data. The control client satisfies it.
type Source interface {
	State(ctx context.Context) (state.Snapshot, error)
	Mode(ctx context.Context) (client.ModeStatus, error)
	Metrics(ctx context.Context) (metrics.Snapshot, error)
}

type tickMsg time.Time

type dataMsg struct {
	snapshot state.Snapshot
	mode     client.ModeStatus
	metrics  metrics.Snapshot
	err      error
}

// Model is the bubbletea model behind `lmctl watch`.
type Model struct {
	source  Source
	refresh time.Duration

	snapshot state.Snapshot
	mode     client.ModeStatus
	metrics  metrics.Snapshot
	err      error
	updated  time.Time

	width  int
	height int
}

// NewModel builds a dashboard model polling the given source.
func NewModel(source Source) Model {
	return Model{source: source, refresh: refreshInterval}
}

// Run drives the dashboard until the user quits.
func Run(source Source) error {
	p := tea.NewProgram(NewModel(source), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.tickCmd())
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) fetchCmd() tea.Cmd {
	source := m.source
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()
		snap, err := source.State(ctx)
		if err != nil {
			return dataMsg{err: err}
		}
		mode, err := source.Mode(ctx)
		if err != nil {
			return dataMsg{err: err}
		}
		counters, err := source.Metrics(ctx)
		if err != nil {
			return dataMsg{err: err}
		}
		return dataMsg{snapshot: snap, mode: mode, metrics: counters}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.fetchCmd()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		return m, tea.Batch(m.fetchCmd(), m.tickCmd())
	case dataMsg:
		m.err = msg.err
		if msg.err == nil {
			m.snapshot = msg.snapshot
			m.mode = msg.mode
			m.metrics = msg.metrics
			m.updated = time.Now()
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("lamella"))
	b.WriteString(mutedStyle.Render("  mode: " + orNone(m.mode.Current)))
	if !m.updated.IsZero() {
		b.WriteString(mutedStyle.Render("  updated: " + m.updated.Format("15:04:05")))
	}
	b.WriteByte('\n')

	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteByte('\n')
		b.WriteString(mutedStyle.Render("q quit · r retry"))
		return b.String()
	}

	b.WriteByte('\n')
	b.WriteString(headerStyle.Render("Workspaces"))
	b.WriteByte('\n')
	b.WriteString(m.renderWorkspaces())
	b.WriteByte('\n')
	b.WriteString(headerStyle.Render("Windows"))
	b.WriteByte('\n')
	b.WriteString(m.renderWindows())
	b.WriteByte('\n')
	b.WriteString(mutedStyle.Render(m.renderFooter()))
	return b.String()
}

func (m Model) renderWorkspaces() string {
	shown := make([]state.WorkspaceInfo, 0, len(m.snapshot.Workspaces))
	for _, ws := range m.snapshot.Workspaces {
		if len(ws.Windows) > 0 || ws.Focused || ws.Visible {
			shown = append(shown, ws)
		}
	}
	if len(shown) == 0 {
		return "  (none)\n"
	}
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  \tNAME\tWINDOWS\tSTATE")
	for _, ws := range shown {
		marker := " "
		if ws.Focused {
			marker = "*"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%d\t%s\n", marker, orNone(ws.Name), len(ws.Windows), workspaceState(ws))
	}
	tw.Flush()
	return b.String()
}

func (m Model) renderWindows() string {
	active := m.snapshot.ActiveWorkspace
	shown := make([]state.WindowInfo, 0, len(m.snapshot.Windows))
	for _, win := range m.snapshot.Windows {
		if win.Workspace == active || win.Sticky {
			shown = append(shown, win)
		}
	}
	if len(shown) == 0 {
		return "  (none)\n"
	}
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  \tAPP\tTITLE\tGEOMETRY\tSTATE")
	for _, win := range shown {
		marker := " "
		if win.Focused {
			marker = "*"
		}
		title := win.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
			marker,
			orNone(win.AppID),
			truncate(title, titleWidth),
			formatGeometry(win),
			windowState(win))
	}
	tw.Flush()
	return b.String()
}

func (m Model) renderFooter() string {
	totals := m.metrics.Totals
	return fmt.Sprintf("events %d · commands %d · actions %d · relayouts %d · q quit · r refresh",
		totals.Events, totals.Commands, totals.Actions, totals.Relayouts)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

func formatGeometry(win state.WindowInfo) string {
	g := win.Geometry
	return fmt.Sprintf("%dx%d @ %d,%d", g.Width, g.Height, g.X, g.Y)
}

func workspaceState(ws state.WorkspaceInfo) string {
	var parts []string
	if ws.Visible {
		parts = append(parts, "visible")
	}
	if ws.Urgent {
		parts = append(parts, "urgent")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func windowState(win state.WindowInfo) string {
	var parts []string
	if win.Floating {
		parts = append(parts, "floating")
	}
	if win.Fullscreen {
		parts = append(parts, "fullscreen")
	}
	if win.Sticky {
		parts = append(parts, "sticky")
	}
	if win.Urgent {
		parts = append(parts, "urgent")
	}
	if win.Hidden {
		parts = append(parts, "hidden")
	}
	if len(win.Marks) > 0 {
		parts = append(parts, "marks: "+strings.Join(win.Marks, ","))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
