package state

import (
	"strconv"

	"github.com/geket/lamella/internal/layout"
	"github.com/geket/lamella/internal/wm"
)

// Workspace owns a tiling tree plus the stacking and focus bookkeeping for
// the windows assigned to it. A window id appears in at most one of
// TiledWindows and FloatingWindows.
type Workspace struct {
	ID               wm.WorkspaceID `json:"id"`
	Name             string         `json:"name"`
	Number           uint32         `json:"number,omitempty"`
	Output           string         `json:"output,omitempty"`
	Layout           *layout.Tree   `json:"layout"`
	TiledWindows     []wm.WindowID  `json:"tiled_windows,omitempty"`
	FloatingWindows  []wm.WindowID  `json:"floating_windows,omitempty"`
	FullscreenWindow wm.WindowID    `json:"fullscreen_window,omitempty"`
	FocusStack       []wm.WindowID  `json:"focus_stack,omitempty"`
	Visible          bool           `json:"visible,omitempty"`
	Urgent           bool           `json:"urgent,omitempty"`
	Geometry         wm.Geometry    `json:"geometry"`
	WorkArea         wm.Geometry    `json:"work_area"`
}

// NewWorkspace creates an empty workspace. Numeric names become the
// workspace number.
func NewWorkspace(id wm.WorkspaceID, name string) *Workspace {
	ws := &Workspace{
		ID:     id,
		Name:   name,
		Layout: layout.NewTree(),
	}
	if n, err := strconv.ParseUint(name, 10, 32); err == nil {
		ws.Number = uint32(n)
	}
	return ws
}

// AddWindow admits a window as tiled.
func (ws *Workspace) AddWindow(id wm.WindowID, innerGap uint32) {
	ws.TiledWindows = append(ws.TiledWindows, id)
	ws.Layout.AddWindow(id, innerGap)
	ws.FocusStack = append(ws.FocusStack, id)
}

// AddFloating admits a window to the floating layer.
func (ws *Workspace) AddFloating(id wm.WindowID) {
	ws.FloatingWindows = append(ws.FloatingWindows, id)
	ws.FocusStack = append(ws.FocusStack, id)
}

// RemoveWindow detaches a window from every list and the tree.
func (ws *Workspace) RemoveWindow(id wm.WindowID) {
	ws.TiledWindows = removeID(ws.TiledWindows, id)
	ws.FloatingWindows = removeID(ws.FloatingWindows, id)
	ws.FocusStack = removeID(ws.FocusStack, id)
	ws.Layout.RemoveWindow(id)
	if ws.FullscreenWindow == id {
		ws.FullscreenWindow = 0
	}
}

// FloatWindow moves a tiled window to the floating layer.
func (ws *Workspace) FloatWindow(id wm.WindowID) {
	for _, tiled := range ws.TiledWindows {
		if tiled == id {
			ws.TiledWindows = removeID(ws.TiledWindows, id)
			ws.Layout.RemoveWindow(id)
			ws.FloatingWindows = append(ws.FloatingWindows, id)
			return
		}
	}
}

// TileWindow moves a floating window back into the tree.
func (ws *Workspace) TileWindow(id wm.WindowID, innerGap uint32) {
	for _, floating := range ws.FloatingWindows {
		if floating == id {
			ws.FloatingWindows = removeID(ws.FloatingWindows, id)
			ws.TiledWindows = append(ws.TiledWindows, id)
			ws.Layout.AddWindow(id, innerGap)
			return
		}
	}
}

// Windows returns tiled then floating window ids.
func (ws *Workspace) Windows() []wm.WindowID {
	out := make([]wm.WindowID, 0, len(ws.TiledWindows)+len(ws.FloatingWindows))
	out = append(out, ws.TiledWindows...)
	out = append(out, ws.FloatingWindows...)
	return out
}

// Contains reports whether the window is on this workspace.
func (ws *Workspace) Contains(id wm.WindowID) bool {
	for _, v := range ws.TiledWindows {
		if v == id {
			return true
		}
	}
	for _, v := range ws.FloatingWindows {
		if v == id {
			return true
		}
	}
	return false
}

// FocusedWindow is the top of the focus stack.
func (ws *Workspace) FocusedWindow() (wm.WindowID, bool) {
	if len(ws.FocusStack) == 0 {
		return 0, false
	}
	return ws.FocusStack[len(ws.FocusStack)-1], true
}

// FocusWindow raises the window to the top of the focus stack.
func (ws *Workspace) FocusWindow(id wm.WindowID) {
	ws.FocusStack = removeID(ws.FocusStack, id)
	ws.FocusStack = append(ws.FocusStack, id)
}

// CalculateLayout recomputes tiled geometries within the work area.
func (ws *Workspace) CalculateLayout(outerGap uint32) {
	ws.Layout.CalculateLayout(ws.WorkArea, outerGap)
}

// WindowGeometry returns the tree's cached geometry for the window.
func (ws *Workspace) WindowGeometry(id wm.WindowID) (wm.Geometry, bool) {
	return ws.Layout.WindowGeometry(id)
}

// SetGeometry assigns the workspace rectangle; the work area follows it
// until a bar or dock reserves space.
func (ws *Workspace) SetGeometry(geo wm.Geometry) {
	ws.Geometry = geo
	ws.WorkArea = geo
}
