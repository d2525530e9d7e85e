package state

import "fmt"

// ViolationKind classifies an invariant violation.
type ViolationKind int

const (
	// FocusedWindowMissing: the focused window id has no window record.
	FocusedWindowMissing ViolationKind = iota
	// FocusedWorkspaceMissing: the focused workspace id has no workspace.
	FocusedWorkspaceMissing
	// ScratchpadOverlap: a window sits in the scratchpad while still listed
	// on its workspace without the hidden flag.
	ScratchpadOverlap
	// MarkDangling: a mark points at a window that no longer exists.
	MarkDangling
)

// Violation is one failed consistency check. Violations are reported, never
// auto-corrected.
type Violation struct {
	Kind      ViolationKind
	Window    string
	Workspace string
	Mark      string
}

func (v Violation) Error() string {
	switch v.Kind {
	case FocusedWindowMissing:
		return fmt.Sprintf("focused window %s does not exist", v.Window)
	case FocusedWorkspaceMissing:
		return fmt.Sprintf("focused workspace %s does not exist", v.Workspace)
	case ScratchpadOverlap:
		return fmt.Sprintf("window %s is in both a workspace and the scratchpad without being hidden", v.Window)
	case MarkDangling:
		return fmt.Sprintf("mark %q points to missing window %s", v.Mark, v.Window)
	default:
		return "unknown invariant violation"
	}
}

// Validate runs the structural consistency checks and returns every
// violation found.
func (s *State) Validate() []Violation {
	var violations []Violation

	if id := s.Focus.FocusedWindow; id != 0 {
		if _, ok := s.Windows[id]; !ok {
			violations = append(violations, Violation{Kind: FocusedWindowMissing, Window: id.String()})
		}
	}

	if id := s.Focus.FocusedWorkspace; id != 0 {
		if _, ok := s.Workspaces[id]; !ok {
			violations = append(violations, Violation{Kind: FocusedWorkspaceMissing, Workspace: id.String()})
		}
	}

	for _, window := range s.Windows {
		inScratchpad := false
		for _, id := range s.Scratchpad {
			if id == window.ID {
				inScratchpad = true
				break
			}
		}
		if !inScratchpad {
			continue
		}
		inWorkspace := false
		if window.Workspace != 0 {
			if ws, ok := s.Workspaces[window.Workspace]; ok && ws.Contains(window.ID) {
				inWorkspace = true
			}
		}
		if inWorkspace && window.IsVisible() {
			violations = append(violations, Violation{Kind: ScratchpadOverlap, Window: window.ID.String()})
		}
	}

	for mark, id := range s.Marks {
		if _, ok := s.Windows[id]; !ok {
			violations = append(violations, Violation{Kind: MarkDangling, Mark: mark, Window: id.String()})
		}
	}

	return violations
}
