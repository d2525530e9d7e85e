package state

import "github.com/geket/lamella/internal/wm"

// History is capped; the oldest entry falls off first.
const maxFocusHistory = 100

// FocusState tracks the focused window and workspace plus a bounded
// most-recently-focused history used to restore focus when windows go away.
// The focused window itself is never in History.
type FocusState struct {
	FocusedWindow    wm.WindowID    `json:"focused_window,omitempty"`
	PreviousWindow   wm.WindowID    `json:"previous_window,omitempty"`
	FocusedWorkspace wm.WorkspaceID `json:"focused_workspace,omitempty"`
	History          []wm.WindowID  `json:"history,omitempty"`
}

// SetFocused records a focus change. Refocusing the current window is a
// no-op; otherwise the outgoing window is deduplicated into History.
func (f *FocusState) SetFocused(id wm.WindowID) {
	if f.FocusedWindow == id {
		return
	}
	f.PreviousWindow = f.FocusedWindow
	if f.PreviousWindow != 0 {
		f.History = removeID(f.History, f.PreviousWindow)
		f.History = append(f.History, f.PreviousWindow)
		if len(f.History) > maxFocusHistory {
			f.History = f.History[1:]
		}
	}
	f.FocusedWindow = id
}

// ClearFocused drops focus, remembering the window as previous.
func (f *FocusState) ClearFocused() {
	f.PreviousWindow = f.FocusedWindow
	f.FocusedWindow = 0
}

func removeID(ids []wm.WindowID, id wm.WindowID) []wm.WindowID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
