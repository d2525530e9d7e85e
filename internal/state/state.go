// Package state holds the window manager's authoritative model: windows,
// workspaces, outputs, focus, scratchpad, marks and the interactive grab.
// Mutations happen through methods that keep the cross-references coherent;
// referential misses are silent no-ops.
package state

import (
	"fmt"

	"github.com/geket/lamella/internal/config"
	"github.com/geket/lamella/internal/wm"
)

// Workspaces pre-created at startup, named "1".."10".
const defaultWorkspaces = 10

// GrabOp is the kind of interactive pointer operation.
type GrabOp int

const (
	GrabMove GrabOp = iota
	GrabResize
)

func (op GrabOp) String() string {
	if op == GrabResize {
		return "resize"
	}
	return "move"
}

// GrabbedWindow is the in-flight pointer grab. Geometry is always recomputed
// from the initial snapshot plus the total pointer delta, never
// incrementally.
type GrabbedWindow struct {
	Window          wm.WindowID    `json:"window"`
	InitialGeometry wm.Geometry    `json:"initial_geometry"`
	InitialX        float64        `json:"initial_x"`
	InitialY        float64        `json:"initial_y"`
	Op              GrabOp         `json:"op"`
	Edges           wm.ResizeEdges `json:"edges"`
}

// State is the aggregate the core mutates. Workspace and output iteration
// follows creation order.
type State struct {
	Config         config.Config
	Windows        map[wm.WindowID]*wm.Window
	Workspaces     map[wm.WorkspaceID]*Workspace
	WorkspaceOrder []wm.WorkspaceID
	Outputs        map[wm.OutputID]*wm.Output
	OutputOrder    []wm.OutputID
	Focus          FocusState
	Scratchpad     []wm.WindowID
	Marks          map[string]wm.WindowID
	Running        bool
	LayoutDirty    bool
	PointerX       float64
	PointerY       float64
	Grab           *GrabbedWindow
}

// New creates a state with the ten default workspaces.
func New(cfg config.Config) *State {
	s := &State{
		Config:     cfg,
		Windows:    make(map[wm.WindowID]*wm.Window),
		Workspaces: make(map[wm.WorkspaceID]*Workspace),
		Outputs:    make(map[wm.OutputID]*wm.Output),
		Marks:      make(map[string]wm.WindowID),
		Running:    true,
	}
	for i := 1; i <= defaultWorkspaces; i++ {
		id := wm.WorkspaceID(i)
		s.Workspaces[id] = NewWorkspace(id, fmt.Sprintf("%d", i))
		s.WorkspaceOrder = append(s.WorkspaceOrder, id)
	}
	return s
}

// AddWindow assigns the window to the focused workspace (or the first one)
// and admits it as tiled.
func (s *State) AddWindow(window *wm.Window) {
	target := s.Focus.FocusedWorkspace
	if target == 0 && len(s.WorkspaceOrder) > 0 {
		target = s.WorkspaceOrder[0]
	}
	if target != 0 {
		window.Workspace = target
		if ws, ok := s.Workspaces[target]; ok {
			ws.AddWindow(window.ID, s.Config.Gaps.Inner)
		}
	}
	s.Windows[window.ID] = window
	s.LayoutDirty = true
}

// RemoveWindow forgets the window everywhere: workspace lists, focus
// history, scratchpad and marks. When it held focus, the most recent live
// history entry is focused instead. Reports whether the window existed.
func (s *State) RemoveWindow(id wm.WindowID) bool {
	window, ok := s.Windows[id]
	if !ok {
		return false
	}
	delete(s.Windows, id)

	if window.Workspace != 0 {
		if ws, ok := s.Workspaces[window.Workspace]; ok {
			ws.RemoveWindow(id)
		}
	}

	if s.Focus.FocusedWindow == id {
		s.Focus.ClearFocused()
		for len(s.Focus.History) > 0 {
			next := s.Focus.History[len(s.Focus.History)-1]
			s.Focus.History = s.Focus.History[:len(s.Focus.History)-1]
			if _, live := s.Windows[next]; live {
				s.Focus.FocusedWindow = next
				break
			}
		}
	}

	s.Focus.History = removeID(s.Focus.History, id)
	s.Scratchpad = removeID(s.Scratchpad, id)
	for mark, wid := range s.Marks {
		if wid == id {
			delete(s.Marks, mark)
		}
	}
	s.LayoutDirty = true
	return true
}

// FocusWindow moves input focus to a live window and re-derives the focused
// workspace from it. Unknown ids are ignored.
func (s *State) FocusWindow(id wm.WindowID) {
	window, ok := s.Windows[id]
	if !ok {
		return
	}
	if old := s.Focus.FocusedWindow; old != 0 {
		if prev, ok := s.Windows[old]; ok {
			prev.Flags.Clear(wm.FlagFocused)
		}
	}
	s.Focus.SetFocused(id)
	window.Flags.Set(wm.FlagFocused)
	if window.Workspace != 0 {
		s.Focus.FocusedWorkspace = window.Workspace
	}
}

// SwitchWorkspace activates a workspace and refocuses its focus-stack top,
// when it has one.
func (s *State) SwitchWorkspace(id wm.WorkspaceID) {
	ws, ok := s.Workspaces[id]
	if !ok {
		return
	}
	s.Focus.FocusedWorkspace = id
	if top, ok := ws.FocusedWindow(); ok {
		s.FocusWindow(top)
	}
	s.LayoutDirty = true
}

// MoveWindowToWorkspace reassigns a window. It is always re-admitted as
// tiled on the target; floating status does not survive the move.
func (s *State) MoveWindowToWorkspace(id wm.WindowID, target wm.WorkspaceID) {
	window, ok := s.Windows[id]
	if !ok {
		return
	}
	targetWS, ok := s.Workspaces[target]
	if !ok {
		return
	}
	oldWS := window.Workspace
	window.Workspace = target
	if oldWS != 0 {
		if ws, ok := s.Workspaces[oldWS]; ok {
			ws.RemoveWindow(id)
		}
	}
	targetWS.AddWindow(id, s.Config.Gaps.Inner)
	s.LayoutDirty = true
}

// ToggleScratchpad adds or removes the window from the scratchpad, toggling
// its hidden flag in lock-step.
func (s *State) ToggleScratchpad(id wm.WindowID) {
	window, ok := s.Windows[id]
	if !ok {
		return
	}
	for i, v := range s.Scratchpad {
		if v == id {
			s.Scratchpad = append(s.Scratchpad[:i], s.Scratchpad[i+1:]...)
			window.Flags.Clear(wm.FlagHidden)
			s.LayoutDirty = true
			return
		}
	}
	s.Scratchpad = append(s.Scratchpad, id)
	window.Flags.Set(wm.FlagHidden)
	s.LayoutDirty = true
}

// SetMark points a mark at a window, displacing any previous target.
func (s *State) SetMark(mark string, id wm.WindowID) {
	s.Marks[mark] = id
}

// GotoMark focuses the marked window, switching workspaces when the focus
// change did not already land there.
func (s *State) GotoMark(mark string) {
	id, ok := s.Marks[mark]
	if !ok {
		return
	}
	s.FocusWindow(id)
	if window, ok := s.Windows[id]; ok {
		if window.Workspace != 0 && s.Focus.FocusedWorkspace != window.Workspace {
			s.SwitchWorkspace(window.Workspace)
		}
	}
}

// WindowAt hit-tests the focused workspace: floating windows in reverse
// stacking order first, then tiled. Hidden windows never match.
func (s *State) WindowAt(x, y float64) (wm.WindowID, bool) {
	ws, ok := s.Workspaces[s.Focus.FocusedWorkspace]
	if !ok {
		return 0, false
	}
	px, py := int32(x), int32(y)
	for i := len(ws.FloatingWindows) - 1; i >= 0; i-- {
		if id, ok := s.hitTest(ws.FloatingWindows[i], px, py); ok {
			return id, true
		}
	}
	for i := len(ws.TiledWindows) - 1; i >= 0; i-- {
		if id, ok := s.hitTest(ws.TiledWindows[i], px, py); ok {
			return id, true
		}
	}
	return 0, false
}

func (s *State) hitTest(id wm.WindowID, x, y int32) (wm.WindowID, bool) {
	window, ok := s.Windows[id]
	if !ok {
		return 0, false
	}
	if window.Flags.Has(wm.FlagHidden) {
		return 0, false
	}
	if window.Geometry.Contains(x, y) {
		return id, true
	}
	return 0, false
}

// AddOutput records an output in creation order.
func (s *State) AddOutput(output *wm.Output) {
	if _, exists := s.Outputs[output.ID]; !exists {
		s.OutputOrder = append(s.OutputOrder, output.ID)
	}
	s.Outputs[output.ID] = output
}

// RemoveOutput forgets an output.
func (s *State) RemoveOutput(id wm.OutputID) {
	if _, exists := s.Outputs[id]; !exists {
		return
	}
	delete(s.Outputs, id)
	for i, v := range s.OutputOrder {
		if v == id {
			s.OutputOrder = append(s.OutputOrder[:i], s.OutputOrder[i+1:]...)
			break
		}
	}
}

// FirstOutput returns the earliest added output still present.
func (s *State) FirstOutput() (*wm.Output, bool) {
	if len(s.OutputOrder) == 0 {
		return nil, false
	}
	output, ok := s.Outputs[s.OutputOrder[0]]
	return output, ok
}

// FocusedWindow resolves the focused window record.
func (s *State) FocusedWindow() (*wm.Window, bool) {
	if s.Focus.FocusedWindow == 0 {
		return nil, false
	}
	window, ok := s.Windows[s.Focus.FocusedWindow]
	return window, ok
}

// FocusedWorkspace resolves the focused workspace record.
func (s *State) FocusedWorkspace() (*Workspace, bool) {
	if s.Focus.FocusedWorkspace == 0 {
		return nil, false
	}
	ws, ok := s.Workspaces[s.Focus.FocusedWorkspace]
	return ws, ok
}

// NeedsLayout reports whether a relayout is pending.
func (s *State) NeedsLayout() bool { return s.LayoutDirty }
