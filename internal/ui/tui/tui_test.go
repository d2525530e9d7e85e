package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/geket/lamella/internal/control/client"
	"github.com/geket/lamella/internal/metrics"
	"github.com/geket/lamella/internal/state"
	"github.com/geket/lamella/internal/wm"
)

type fakeSource struct {
	snapshot state.Snapshot
	mode     client.ModeStatus
	metrics  metrics.Snapshot
	err      error
	calls    int
}

func (f *fakeSource) State(ctx context.Context) (state.Snapshot, error) {
	f.calls++
	if f.err != nil {
		return state.Snapshot{}, f.err
	}
	return f.snapshot, nil
}

func (f *fakeSource) Mode(ctx context.Context) (client.ModeStatus, error) {
	return f.mode, f.err
}

func (f *fakeSource) Metrics(ctx context.Context) (metrics.Snapshot, error) {
	return f.metrics, f.err
}

func sampleSource() *fakeSource {
	return &fakeSource{
		snapshot: state.Snapshot{
			Windows: []state.WindowInfo{
				{
					ID: 1, AppID: "term", Title: "shell", Workspace: 1, Focused: true,
					Geometry: wm.Geometry{X: 4, Y: 4, Width: 956, Height: 1072},
				},
				{
					ID: 2, AppID: "browser", Title: "docs", Workspace: 1,
					Floating: true, Marks: []string{"web"},
					Geometry: wm.Geometry{X: 100, Y: 100, Width: 800, Height: 600},
				},
				{ID: 3, AppID: "mail", Title: "inbox", Workspace: 2},
			},
			Workspaces: []state.WorkspaceInfo{
				{ID: 1, Name: "1", Focused: true, Visible: true, Windows: []wm.WindowID{1, 2}},
				{ID: 2, Name: "mail", Windows: []wm.WindowID{3}},
			},
			FocusedWindow:   1,
			ActiveWorkspace: 1,
		},
		mode: client.ModeStatus{Current: "default", Available: []string{"default", "resize"}},
		metrics: metrics.Snapshot{
			Enabled: true,
			Totals:  metrics.Totals{Events: 10, Commands: 3, Actions: 25, Relayouts: 4},
		},
	}
}

func key(k string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return got, cmd
}

func fetched(t *testing.T, m Model) Model {
	t.Helper()
	msg := m.fetchCmd()()
	data, ok := msg.(dataMsg)
	if !ok {
		t.Fatalf("fetch returned %T, want dataMsg", msg)
	}
	m, _ = apply(t, m, data)
	return m
}

func TestViewRendersPanes(t *testing.T) {
	m := fetched(t, NewModel(sampleSource()))

	view := m.View()
	for _, want := range []string{
		"Workspaces", "Windows",
		"shell", "956x1072 @ 4,4",
		"floating", "marks: web",
		"mail",
		"events 10", "commands 3", "actions 25", "relayouts 4",
	} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if !strings.Contains(view, "*") {
		t.Fatalf("view missing focus markers:\n%s", view)
	}
	// Windows on other workspaces stay out of the active pane.
	if strings.Contains(view, "inbox") {
		t.Fatalf("inactive workspace window leaked into view:\n%s", view)
	}
}

func TestViewTruncatesLongTitles(t *testing.T) {
	source := sampleSource()
	long := strings.Repeat("a", titleWidth+20)
	source.snapshot.Windows[0].Title = long
	m := fetched(t, NewModel(source))

	view := m.View()
	if strings.Contains(view, long) {
		t.Fatalf("long title not truncated")
	}
	if !strings.Contains(view, "…") {
		t.Fatalf("truncation marker missing:\n%s", view)
	}
}

func TestViewShowsErrorAndKeepsLastData(t *testing.T) {
	source := sampleSource()
	m := fetched(t, NewModel(source))

	source.err = errors.New("dial control socket: connection refused")
	msg := m.fetchCmd()()
	m, _ = apply(t, m, msg)

	view := m.View()
	if !strings.Contains(view, "error:") {
		t.Fatalf("error not surfaced:\n%s", view)
	}
	if len(m.snapshot.Windows) != 3 {
		t.Fatalf("last good snapshot discarded")
	}
}

func TestQuitKeys(t *testing.T) {
	m := NewModel(sampleSource())
	for _, msg := range []tea.Msg{key("q"), tea.KeyMsg{Type: tea.KeyCtrlC}} {
		_, cmd := apply(t, m, msg)
		if cmd == nil {
			t.Fatalf("expected quit command")
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("expected QuitMsg, got %T", cmd())
		}
	}
}

func TestRefreshKeyFetches(t *testing.T) {
	source := sampleSource()
	m := NewModel(source)

	m, cmd := apply(t, m, key("r"))
	if cmd == nil {
		t.Fatalf("expected fetch command")
	}
	msg := cmd()
	data, ok := msg.(dataMsg)
	if !ok {
		t.Fatalf("refresh returned %T, want dataMsg", msg)
	}
	m, _ = apply(t, m, data)
	if len(m.snapshot.Windows) != 3 {
		t.Fatalf("refresh did not load snapshot")
	}
	if source.calls == 0 {
		t.Fatalf("source never queried")
	}
}

func TestTickReschedules(t *testing.T) {
	m := NewModel(sampleSource())
	_, cmd := apply(t, m, tickMsg(time.Now()))
	if cmd == nil {
		t.Fatalf("tick should fetch and re-arm")
	}
}

func TestWindowSizeStored(t *testing.T) {
	m := NewModel(sampleSource())
	m, _ = apply(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 || m.height != 40 {
		t.Fatalf("window size not stored: %dx%d", m.width, m.height)
	}
}
