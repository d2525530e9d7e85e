package state

import (
	"sort"

	"github.com/geket/lamella/internal/wm"
)

// Snapshot is a flat, serializable view of the manager state, built for the
// control socket and the inspector. It shares no memory with the live state.
type Snapshot struct {
	Windows         []WindowInfo    `json:"windows"`
	Workspaces      []WorkspaceInfo `json:"workspaces"`
	Outputs         []OutputInfo    `json:"outputs"`
	FocusedWindow   wm.WindowID     `json:"focused_window,omitempty"`
	ActiveWorkspace wm.WorkspaceID  `json:"active_workspace,omitempty"`
	Marks           []MarkInfo      `json:"marks,omitempty"`
	Scratchpad      []wm.WindowID   `json:"scratchpad,omitempty"`
	Mode            string          `json:"mode,omitempty"`
}

// WindowInfo describes one window.
type WindowInfo struct {
	ID         wm.WindowID    `json:"id"`
	Title      string         `json:"title"`
	AppID      string         `json:"app_id"`
	Class      string         `json:"class,omitempty"`
	Type       string         `json:"type"`
	Geometry   wm.Geometry    `json:"geometry"`
	Workspace  wm.WorkspaceID `json:"workspace,omitempty"`
	PID        uint32         `json:"pid,omitempty"`
	Floating   bool           `json:"floating"`
	Fullscreen bool           `json:"fullscreen"`
	Urgent     bool           `json:"urgent"`
	Sticky     bool           `json:"sticky"`
	Hidden     bool           `json:"hidden"`
	Focused    bool           `json:"focused"`
	Marks      []string       `json:"marks,omitempty"`
}

// WorkspaceInfo describes one workspace and its members.
type WorkspaceInfo struct {
	ID      wm.WorkspaceID `json:"id"`
	Name    string         `json:"name"`
	Number  uint32         `json:"number,omitempty"`
	Visible bool           `json:"visible"`
	Focused bool           `json:"focused"`
	Urgent  bool           `json:"urgent"`
	Windows []wm.WindowID  `json:"windows,omitempty"`
}

// OutputInfo describes one output.
type OutputInfo struct {
	ID              wm.OutputID    `json:"id"`
	Name            string         `json:"name"`
	Geometry        wm.Geometry    `json:"geometry"`
	Scale           float64        `json:"scale"`
	RefreshRate     uint32         `json:"refresh_rate"`
	ActiveWorkspace wm.WorkspaceID `json:"active_workspace,omitempty"`
}

// MarkInfo pairs a mark with the window carrying it.
type MarkInfo struct {
	Mark   string      `json:"mark"`
	Window wm.WindowID `json:"window"`
}

// Snapshot builds a decoupled view of the current state. The Mode field is
// left empty; the layer that owns binding modes fills it in.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		FocusedWindow:   s.Focus.FocusedWindow,
		ActiveWorkspace: s.Focus.FocusedWorkspace,
		Scratchpad:      append([]wm.WindowID(nil), s.Scratchpad...),
	}
	for _, id := range sortedWindowIDs(s.Windows) {
		win := s.Windows[id]
		snap.Windows = append(snap.Windows, WindowInfo{
			ID:         win.ID,
			Title:      win.Title,
			AppID:      win.AppID,
			Class:      win.Class,
			Type:       win.Type.String(),
			Geometry:   win.Geometry,
			Workspace:  win.Workspace,
			PID:        win.PID,
			Floating:   win.Flags.Has(wm.FlagFloating),
			Fullscreen: win.Flags.Has(wm.FlagFullscreen),
			Urgent:     win.Flags.Has(wm.FlagUrgent),
			Sticky:     win.Flags.Has(wm.FlagSticky),
			Hidden:     win.Flags.Has(wm.FlagHidden),
			Focused:    win.ID == s.Focus.FocusedWindow,
			Marks:      marksFor(s.Marks, win.ID),
		})
	}
	for _, id := range s.WorkspaceOrder {
		ws, ok := s.Workspaces[id]
		if !ok {
			continue
		}
		snap.Workspaces = append(snap.Workspaces, WorkspaceInfo{
			ID:      ws.ID,
			Name:    ws.Name,
			Number:  ws.Number,
			Visible: ws.Visible,
			Focused: ws.ID == s.Focus.FocusedWorkspace,
			Urgent:  ws.Urgent,
			Windows: ws.Windows(),
		})
	}
	for _, id := range s.OutputOrder {
		out, ok := s.Outputs[id]
		if !ok {
			continue
		}
		snap.Outputs = append(snap.Outputs, OutputInfo{
			ID:              out.ID,
			Name:            out.Name,
			Geometry:        out.Geometry,
			Scale:           out.Scale,
			RefreshRate:     out.RefreshRate,
			ActiveWorkspace: out.ActiveWorkspace,
		})
	}
	for _, mark := range sortedMarks(s.Marks) {
		snap.Marks = append(snap.Marks, MarkInfo{Mark: mark, Window: s.Marks[mark]})
	}
	return snap
}

// Window returns the window info with the given id, or nil.
func (snap *Snapshot) Window(id wm.WindowID) *WindowInfo {
	for i := range snap.Windows {
		if snap.Windows[i].ID == id {
			return &snap.Windows[i]
		}
	}
	return nil
}

// Workspace returns the workspace info with the given id, or nil.
func (snap *Snapshot) Workspace(id wm.WorkspaceID) *WorkspaceInfo {
	for i := range snap.Workspaces {
		if snap.Workspaces[i].ID == id {
			return &snap.Workspaces[i]
		}
	}
	return nil
}

func sortedWindowIDs(windows map[wm.WindowID]*wm.Window) []wm.WindowID {
	ids := make([]wm.WindowID, 0, len(windows))
	for id := range windows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedMarks(marks map[string]wm.WindowID) []string {
	names := make([]string, 0, len(marks))
	for name := range marks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func marksFor(marks map[string]wm.WindowID, id wm.WindowID) []string {
	var result []string
	for _, mark := range sortedMarks(marks) {
		if marks[mark] == id {
			result = append(result, mark)
		}
	}
	return result
}
