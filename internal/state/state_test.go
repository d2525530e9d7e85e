package state

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/geket/lamella/internal/config"
	"github.com/geket/lamella/internal/wm"
)

func newTestState() *State {
	return New(config.Default())
}

func addWindow(t *testing.T, s *State, id wm.WindowID) *wm.Window {
	t.Helper()
	win := wm.NewWindow(id, fmt.Sprintf("app-%d", id), fmt.Sprintf("Window %d", id))
	s.AddWindow(win)
	return win
}

func TestNewStatePassesValidation(t *testing.T) {
	s := newTestState()
	if violations := s.Validate(); len(violations) != 0 {
		t.Fatalf("fresh state reported violations: %v", violations)
	}
	if len(s.WorkspaceOrder) != 10 {
		t.Fatalf("expected 10 default workspaces, got %d", len(s.WorkspaceOrder))
	}
	if s.Workspaces[1].Name != "1" || s.Workspaces[10].Name != "10" {
		t.Fatalf("unexpected workspace names %q, %q", s.Workspaces[1].Name, s.Workspaces[10].Name)
	}
}

func TestAddWindowJoinsFirstWorkspaceWhenNoneFocused(t *testing.T) {
	s := newTestState()
	win := addWindow(t, s, 1)
	if win.Workspace != s.WorkspaceOrder[0] {
		t.Fatalf("expected window on workspace %v, got %v", s.WorkspaceOrder[0], win.Workspace)
	}
	if !s.Workspaces[win.Workspace].Contains(1) {
		t.Fatalf("workspace does not list the window")
	}
	if !s.LayoutDirty {
		t.Fatalf("expected layout to be marked dirty")
	}
}

func TestAddWindowAlwaysTiles(t *testing.T) {
	s := newTestState()
	win := wm.NewWindow(1, "scratch", "Scratch")
	win.Flags.Set(wm.FlagFloating)
	s.AddWindow(win)

	ws := s.Workspaces[win.Workspace]
	for _, id := range ws.TiledWindows {
		if id == 1 {
			return
		}
	}
	t.Fatalf("pre-floated window was not admitted as tiled: tiled=%v floating=%v",
		ws.TiledWindows, ws.FloatingWindows)
}

func TestRemoveWindowRestoresFocusFromHistory(t *testing.T) {
	s := newTestState()
	addWindow(t, s, 1)
	addWindow(t, s, 2)
	addWindow(t, s, 3)
	s.FocusWindow(1)
	s.FocusWindow(2)
	s.FocusWindow(3)

	if !s.RemoveWindow(3) {
		t.Fatalf("expected removal of live window to report true")
	}
	if s.Focus.FocusedWindow != 2 {
		t.Fatalf("expected focus to fall back to 2, got %v", s.Focus.FocusedWindow)
	}

	s.RemoveWindow(2)
	if s.Focus.FocusedWindow != 1 {
		t.Fatalf("expected focus to fall back to 1, got %v", s.Focus.FocusedWindow)
	}

	s.RemoveWindow(1)
	if s.Focus.FocusedWindow != 0 {
		t.Fatalf("expected no focused window, got %v", s.Focus.FocusedWindow)
	}
	if s.RemoveWindow(99) {
		t.Fatalf("expected removal of unknown window to report false")
	}
}

func TestRemoveWindowPurgesMarksAndScratchpad(t *testing.T) {
	s := newTestState()
	addWindow(t, s, 1)
	s.SetMark("a", 1)
	s.ToggleScratchpad(1)

	s.RemoveWindow(1)
	if len(s.Marks) != 0 {
		t.Fatalf("expected marks to be purged, got %v", s.Marks)
	}
	if len(s.Scratchpad) != 0 {
		t.Fatalf("expected scratchpad to be purged, got %v", s.Scratchpad)
	}
	if violations := s.Validate(); len(violations) != 0 {
		t.Fatalf("unexpected violations: %v", violations)
	}
}

func TestFocusWindowTracksWorkspaceAndFlags(t *testing.T) {
	s := newTestState()
	w1 := addWindow(t, s, 1)
	s.FocusWindow(1)
	s.SwitchWorkspace(5)
	w2 := addWindow(t, s, 2)

	s.FocusWindow(2)
	if s.Focus.FocusedWorkspace != 5 {
		t.Fatalf("expected focused workspace 5, got %v", s.Focus.FocusedWorkspace)
	}
	if !w2.Flags.Has(wm.FlagFocused) {
		t.Fatalf("expected new window to carry the focused flag")
	}
	if w1.Flags.Has(wm.FlagFocused) {
		t.Fatalf("expected old window to drop the focused flag")
	}

	s.FocusWindow(1)
	if s.Focus.FocusedWorkspace != 1 {
		t.Fatalf("expected focus to pull the workspace back to 1, got %v", s.Focus.FocusedWorkspace)
	}
	if s.Focus.PreviousWindow != 2 {
		t.Fatalf("expected previous window 2, got %v", s.Focus.PreviousWindow)
	}
}

func TestFocusWindowUnknownIsNoOp(t *testing.T) {
	s := newTestState()
	addWindow(t, s, 1)
	s.FocusWindow(1)
	s.FocusWindow(42)
	if s.Focus.FocusedWindow != 1 {
		t.Fatalf("expected focus to stay on 1, got %v", s.Focus.FocusedWindow)
	}
}

func TestSwitchWorkspaceRefocusesStackTop(t *testing.T) {
	s := newTestState()
	addWindow(t, s, 1)
	addWindow(t, s, 2)
	s.FocusWindow(1)
	s.FocusWindow(2)
	s.Workspaces[1].FocusWindow(2)

	// Switching to an empty workspace moves workspace focus but leaves
	// window focus alone.
	s.SwitchWorkspace(3)
	if s.Focus.FocusedWorkspace != 3 {
		t.Fatalf("expected focused workspace 3, got %v", s.Focus.FocusedWorkspace)
	}
	if s.Focus.FocusedWindow != 2 {
		t.Fatalf("expected window focus to be untouched, got %v", s.Focus.FocusedWindow)
	}

	s.FocusWindow(1)
	s.Workspaces[1].FocusWindow(1)
	s.SwitchWorkspace(3)
	s.SwitchWorkspace(1)
	if s.Focus.FocusedWindow != 1 {
		t.Fatalf("expected switch to refocus stack top 1, got %v", s.Focus.FocusedWindow)
	}

	s.SwitchWorkspace(99)
	if s.Focus.FocusedWorkspace != 1 {
		t.Fatalf("expected unknown workspace switch to be ignored, got %v", s.Focus.FocusedWorkspace)
	}
}

func TestMoveWindowToWorkspaceReadmitsTiled(t *testing.T) {
	s := newTestState()
	win := addWindow(t, s, 1)
	ws1 := s.Workspaces[1]
	ws1.FloatWindow(1)
	win.Flags.Set(wm.FlagFloating)

	s.MoveWindowToWorkspace(1, 4)
	if win.Workspace != 4 {
		t.Fatalf("expected window workspace 4, got %v", win.Workspace)
	}
	if ws1.Contains(1) {
		t.Fatalf("expected old workspace to forget the window")
	}
	ws4 := s.Workspaces[4]
	found := false
	for _, id := range ws4.TiledWindows {
		if id == 1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected move to re-admit the window as tiled, tiled=%v floating=%v",
			ws4.TiledWindows, ws4.FloatingWindows)
	}

	s.MoveWindowToWorkspace(1, 99)
	if win.Workspace != 4 {
		t.Fatalf("expected move to unknown workspace to be ignored")
	}
}

func TestToggleScratchpad(t *testing.T) {
	s := newTestState()
	win := addWindow(t, s, 1)

	s.ToggleScratchpad(1)
	if len(s.Scratchpad) != 1 || s.Scratchpad[0] != 1 {
		t.Fatalf("expected window in scratchpad, got %v", s.Scratchpad)
	}
	if !win.Flags.Has(wm.FlagHidden) {
		t.Fatalf("expected hidden flag to be set")
	}
	if violations := s.Validate(); len(violations) != 0 {
		t.Fatalf("hidden scratchpad window should not violate invariants: %v", violations)
	}

	s.ToggleScratchpad(1)
	if len(s.Scratchpad) != 0 {
		t.Fatalf("expected scratchpad to be empty, got %v", s.Scratchpad)
	}
	if win.Flags.Has(wm.FlagHidden) {
		t.Fatalf("expected hidden flag to be cleared")
	}
}

func TestMarks(t *testing.T) {
	s := newTestState()
	addWindow(t, s, 1)
	s.FocusWindow(1)
	s.SwitchWorkspace(3)
	win2 := addWindow(t, s, 2)
	if win2.Workspace != 3 {
		t.Fatalf("expected second window on workspace 3, got %v", win2.Workspace)
	}
	s.SwitchWorkspace(1)
	s.FocusWindow(1)

	s.SetMark("term", 2)
	s.GotoMark("term")
	if s.Focus.FocusedWindow != 2 {
		t.Fatalf("expected goto mark to focus 2, got %v", s.Focus.FocusedWindow)
	}
	if s.Focus.FocusedWorkspace != 3 {
		t.Fatalf("expected goto mark to land on workspace 3, got %v", s.Focus.FocusedWorkspace)
	}

	// Marks live only in the state map; the window itself is untouched.
	if len(win2.Marks) != 0 {
		t.Fatalf("expected window mark list to stay empty, got %v", win2.Marks)
	}

	s.SetMark("term", 1)
	if s.Marks["term"] != 1 {
		t.Fatalf("expected mark to be displaced to 1, got %v", s.Marks["term"])
	}

	before := s.Focus.FocusedWindow
	s.GotoMark("missing")
	if s.Focus.FocusedWindow != before {
		t.Fatalf("expected unknown mark to be a no-op")
	}
}

func TestWindowAt(t *testing.T) {
	s := newTestState()
	tiled := addWindow(t, s, 1)
	tiled.Geometry = wm.Geometry{X: 0, Y: 0, Width: 800, Height: 600}
	floating := addWindow(t, s, 2)
	floating.Geometry = wm.Geometry{X: 100, Y: 100, Width: 200, Height: 200}
	s.Workspaces[1].FloatWindow(2)
	s.FocusWindow(1)

	if id, ok := s.WindowAt(150, 150); !ok || id != 2 {
		t.Fatalf("expected floating window to win the hit test, got %v ok=%v", id, ok)
	}
	if id, ok := s.WindowAt(500, 400); !ok || id != 1 {
		t.Fatalf("expected tiled window at uncovered point, got %v ok=%v", id, ok)
	}
	if _, ok := s.WindowAt(900, 700); ok {
		t.Fatalf("expected miss outside all windows")
	}

	// Hidden windows are transparent to the hit test.
	floating.Flags.Set(wm.FlagHidden)
	if id, ok := s.WindowAt(150, 150); !ok || id != 1 {
		t.Fatalf("expected hidden window to be skipped, got %v ok=%v", id, ok)
	}

	// Only the focused workspace is tested.
	s.SwitchWorkspace(2)
	if _, ok := s.WindowAt(500, 400); ok {
		t.Fatalf("expected no hit on a different workspace")
	}
}

func TestOutputs(t *testing.T) {
	s := newTestState()
	s.AddOutput(&wm.Output{ID: 1, Name: "eDP-1", Geometry: wm.Geometry{Width: 1920, Height: 1080}})
	s.AddOutput(&wm.Output{ID: 2, Name: "HDMI-A-1", Geometry: wm.Geometry{X: 1920, Width: 2560, Height: 1440}})

	first, ok := s.FirstOutput()
	if !ok || first.Name != "eDP-1" {
		t.Fatalf("expected first output eDP-1, got %+v ok=%v", first, ok)
	}

	s.RemoveOutput(1)
	first, ok = s.FirstOutput()
	if !ok || first.Name != "HDMI-A-1" {
		t.Fatalf("expected HDMI-A-1 after removal, got %+v ok=%v", first, ok)
	}

	s.RemoveOutput(2)
	if _, ok := s.FirstOutput(); ok {
		t.Fatalf("expected no outputs")
	}
}

func TestValidateReportsViolations(t *testing.T) {
	s := newTestState()
	addWindow(t, s, 1)
	s.FocusWindow(1)

	s.Focus.FocusedWindow = 42
	violations := s.Validate()
	if len(violations) != 1 || violations[0].Kind != FocusedWindowMissing {
		t.Fatalf("expected focused-window violation, got %v", violations)
	}
	s.Focus.FocusedWindow = 1

	s.Focus.FocusedWorkspace = 77
	violations = s.Validate()
	if len(violations) != 1 || violations[0].Kind != FocusedWorkspaceMissing {
		t.Fatalf("expected focused-workspace violation, got %v", violations)
	}
	s.Focus.FocusedWorkspace = 1

	s.Marks["ghost"] = 9
	violations = s.Validate()
	if len(violations) != 1 || violations[0].Kind != MarkDangling {
		t.Fatalf("expected dangling-mark violation, got %v", violations)
	}
	delete(s.Marks, "ghost")

	// A scratchpad window still listed on its workspace and not hidden.
	s.Scratchpad = append(s.Scratchpad, 1)
	violations = s.Validate()
	if len(violations) != 1 || violations[0].Kind != ScratchpadOverlap {
		t.Fatalf("expected scratchpad-overlap violation, got %v", violations)
	}
}

func TestSnapshotIsDecoupled(t *testing.T) {
	s := newTestState()
	win := addWindow(t, s, 1)
	win.Geometry = wm.Geometry{Width: 640, Height: 480}
	s.FocusWindow(1)
	s.SetMark("a", 1)

	snap := s.Snapshot()
	if snap.FocusedWindow != 1 || snap.ActiveWorkspace != 1 {
		t.Fatalf("unexpected focus in snapshot: %+v", snap)
	}
	info := snap.Window(1)
	if info == nil || !info.Focused || info.Geometry.Width != 640 {
		t.Fatalf("unexpected window info: %+v", info)
	}
	if len(info.Marks) != 1 || info.Marks[0] != "a" {
		t.Fatalf("expected mark on window info, got %v", info.Marks)
	}
	wsInfo := snap.Workspace(1)
	if wsInfo == nil || !wsInfo.Focused || len(wsInfo.Windows) != 1 {
		t.Fatalf("unexpected workspace info: %+v", wsInfo)
	}

	// Later mutations must not leak into the snapshot.
	s.SetMark("b", 1)
	win.Title = "changed"
	if len(snap.Marks) != 1 {
		t.Fatalf("snapshot marks changed after the fact: %v", snap.Marks)
	}
	if snap.Windows[0].Title == "changed" {
		t.Fatalf("snapshot window title aliased live window")
	}
}

// Random operation interleavings must never leave the state in a
// violating configuration.
func TestRandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(1847))
	s := newTestState()
	var nextID wm.WindowID

	pick := func() (wm.WindowID, bool) {
		ids := make([]wm.WindowID, 0, len(s.Windows))
		for id := range s.Windows {
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			return 0, false
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		return ids[rng.Intn(len(ids))], true
	}

	for step := 0; step < 1000; step++ {
		switch rng.Intn(8) {
		case 0, 1:
			nextID++
			s.AddWindow(wm.NewWindow(nextID, "app", "win"))
		case 2:
			if id, ok := pick(); ok {
				s.RemoveWindow(id)
			}
		case 3:
			if id, ok := pick(); ok {
				s.FocusWindow(id)
			}
		case 4:
			s.SwitchWorkspace(wm.WorkspaceID(1 + rng.Intn(10)))
		case 5:
			if id, ok := pick(); ok {
				s.SetMark(fmt.Sprintf("m%d", rng.Intn(5)), id)
			}
		case 6:
			if id, ok := pick(); ok {
				s.ToggleScratchpad(id)
			}
		case 7:
			if id, ok := pick(); ok {
				s.MoveWindowToWorkspace(id, wm.WorkspaceID(1+rng.Intn(10)))
			}
		}
		if violations := s.Validate(); len(violations) != 0 {
			t.Fatalf("step %d: invariant violations: %v", step, violations)
		}
	}
}
