package engine

import (
	"github.com/geket/lamella/internal/state"
	"github.com/geket/lamella/internal/wm"
)

// restoreStep is one unit of a restore plan: focus a window, run a command,
// or both in that order.
type restoreStep struct {
	focus   wm.WindowID
	command string
}

// restorePlan computes the steps that carry a saved arrangement onto the
// live state. Saved windows are matched to live windows by app id and title,
// each live window consumed at most once; differences in floating state,
// workspace and marks become ordinary commands against the matched window.
// Saved windows with no live counterpart are skipped, and live windows the
// snapshot does not mention are left alone. The plan ends by switching to
// the saved active workspace and refocusing the saved focused window.
func restorePlan(saved, live state.Snapshot) []restoreStep {
	pool := make(map[string][]wm.WindowID, len(live.Windows))
	byID := make(map[wm.WindowID]state.WindowInfo, len(live.Windows))
	for _, win := range live.Windows {
		key := identityKey(win)
		pool[key] = append(pool[key], win.ID)
		byID[win.ID] = win
	}

	var steps []restoreStep
	var focusTarget wm.WindowID

	for _, want := range saved.Windows {
		key := identityKey(want)
		ids := pool[key]
		if len(ids) == 0 {
			continue
		}
		id := ids[0]
		pool[key] = ids[1:]
		have := byID[id]

		// The workspace move goes first: moving re-admits the window as
		// tiled, so a floating diff applied before it would not survive.
		var cmds []string
		if want.Workspace != 0 && want.Workspace != have.Workspace {
			if name := workspaceName(saved, want.Workspace); name != "" {
				cmds = append(cmds, "move container to workspace "+name)
			}
		}
		if want.Floating != have.Floating {
			if want.Floating {
				cmds = append(cmds, "floating enable")
			} else {
				cmds = append(cmds, "floating disable")
			}
		}
		for _, mark := range want.Marks {
			if !hasMark(have.Marks, mark) {
				cmds = append(cmds, "mark "+mark)
			}
		}
		if len(cmds) > 0 {
			steps = append(steps, restoreStep{focus: id, command: cmds[0]})
			for _, c := range cmds[1:] {
				steps = append(steps, restoreStep{command: c})
			}
		}
		if want.ID == saved.FocusedWindow {
			focusTarget = id
		}
	}

	if saved.ActiveWorkspace != 0 {
		if name := workspaceName(saved, saved.ActiveWorkspace); name != "" {
			steps = append(steps, restoreStep{command: "workspace " + name})
		}
	}
	if focusTarget != 0 {
		steps = append(steps, restoreStep{focus: focusTarget})
	}
	return steps
}

func identityKey(win state.WindowInfo) string {
	return win.AppID + "\x00" + win.Title
}

func workspaceName(snap state.Snapshot, id wm.WorkspaceID) string {
	if ws := snap.Workspace(id); ws != nil {
		return ws.Name
	}
	return ""
}

func hasMark(marks []string, mark string) bool {
	for _, m := range marks {
		if m == mark {
			return true
		}
	}
	return false
}
