// Package command defines the window manager command algebra: the closed
// set of operations a binding, a rule, or a control client can request, and
// the parser from their textual form.
package command

import "fmt"

// Command is one parsed operation. The concrete type carries the arguments;
// CommandName returns the command word for logging and counters.
type Command interface {
	CommandName() string
	command()
}

// Toggle is the three-state argument of floating/fullscreen/sticky.
type Toggle int

const (
	ToggleSwitch Toggle = iota
	ToggleEnable
	ToggleDisable
)

func (t Toggle) String() string {
	switch t {
	case ToggleEnable:
		return "enable"
	case ToggleDisable:
		return "disable"
	default:
		return "toggle"
	}
}

// FocusTarget selects what the focus command focuses.
type FocusTarget int

const (
	FocusLeft FocusTarget = iota
	FocusRight
	FocusUp
	FocusDown
	FocusParent
	FocusChild
	FocusModeToggle
)

func (t FocusTarget) String() string {
	switch t {
	case FocusRight:
		return "right"
	case FocusUp:
		return "up"
	case FocusDown:
		return "down"
	case FocusParent:
		return "parent"
	case FocusChild:
		return "child"
	case FocusModeToggle:
		return "mode_toggle"
	default:
		return "left"
	}
}

// MoveKind selects what the move command does with the focused window.
type MoveKind int

const (
	MoveLeft MoveKind = iota
	MoveRight
	MoveUp
	MoveDown
	MoveCenter
	MovePosition
)

// MoveTarget is the move destination; X and Y are set for MovePosition.
type MoveTarget struct {
	Kind MoveKind
	X    int32
	Y    int32
}

// ResizeDir is the resize axis or edge. Width/height variants carry the
// grow/shrink/set operation; edge variants adjust the matching edge.
type ResizeDir int

const (
	ResizeGrowWidth ResizeDir = iota
	ResizeShrinkWidth
	ResizeSetWidth
	ResizeGrowHeight
	ResizeShrinkHeight
	ResizeSetHeight
	ResizeLeft
	ResizeRight
	ResizeUp
	ResizeDown
)

// SplitArg is the split command argument.
type SplitArg int

const (
	SplitHorizontal SplitArg = iota
	SplitVertical
	SplitToggle
	SplitNone
)

// LayoutArg is the layout command argument.
type LayoutArg int

const (
	LayoutDefault LayoutArg = iota
	LayoutTabbed
	LayoutStacked
	LayoutSplitV
	LayoutSplitH
	LayoutToggle
	LayoutToggleSplit
	LayoutToggleAll
)

// WorkspaceKind selects how a workspace target is resolved.
type WorkspaceKind int

const (
	WorkspaceName WorkspaceKind = iota
	WorkspaceNumber
	WorkspaceNext
	WorkspacePrev
	WorkspaceNextOnOutput
	WorkspacePrevOnOutput
	WorkspaceBackAndForth
)

// WorkspaceTarget names a workspace by name, number, or relative position.
type WorkspaceTarget struct {
	Kind   WorkspaceKind
	Name   string
	Number uint32
}

func (t WorkspaceTarget) String() string {
	switch t.Kind {
	case WorkspaceNumber:
		return fmt.Sprintf("%d", t.Number)
	case WorkspaceNext:
		return "next"
	case WorkspacePrev:
		return "prev"
	case WorkspaceNextOnOutput:
		return "next_on_output"
	case WorkspacePrevOnOutput:
		return "prev_on_output"
	case WorkspaceBackAndForth:
		return "back_and_forth"
	default:
		return t.Name
	}
}

// GapsWhere selects which gap the gaps command adjusts.
type GapsWhere int

const (
	GapsInner GapsWhere = iota
	GapsOuter
)

// GapsOp is the gaps adjustment operation.
type GapsOp int

const (
	GapsSet GapsOp = iota
	GapsPlus
	GapsMinus
)

// Exec spawns a process.
type Exec struct{ Cmd string }

// ExecAlways spawns a process; startup entries with it re-run on reload.
type ExecAlways struct{ Cmd string }

// Kill closes the focused window.
type Kill struct{}

// Focus moves focus.
type Focus struct{ Target FocusTarget }

// Move moves the focused window.
type Move struct{ Target MoveTarget }

// Resize resizes the focused window.
type Resize struct {
	Dir    ResizeDir
	Amount int32
}

// Floating changes the floating state of the focused window.
type Floating struct{ Toggle Toggle }

// Fullscreen changes the fullscreen state of the focused window.
type Fullscreen struct{ Toggle Toggle }

// Sticky changes the sticky state of the focused window.
type Sticky struct{ Toggle Toggle }

// Split sets the split direction of the focused container.
type Split struct{ Arg SplitArg }

// Layout sets the layout mode of the focused container.
type Layout struct{ Arg LayoutArg }

// Workspace switches the active workspace.
type Workspace struct{ Target WorkspaceTarget }

// MoveToWorkspace moves the focused window to another workspace.
type MoveToWorkspace struct{ Target WorkspaceTarget }

// ScratchpadShow toggles visibility of the scratchpad window.
type ScratchpadShow struct{}

// MoveToScratchpad sends the focused window to the scratchpad.
type MoveToScratchpad struct{}

// Mark marks the focused window.
type Mark struct{ Name string }

// Unmark removes one mark, or all marks when All is set.
type Unmark struct {
	Name string
	All  bool
}

// GotoMark focuses the window carrying the mark.
type GotoMark struct{ Name string }

// Mode switches the binding mode.
type Mode struct{ Name string }

// Gaps adjusts the configured gaps.
type Gaps struct {
	Where  GapsWhere
	Op     GapsOp
	Amount int32
}

// Reload reloads the configuration.
type Reload struct{}

// Restart restarts the window manager in place.
type Restart struct{}

// Exit stops the window manager.
type Exit struct{}

// Unknown carries input that did not parse; executing it is a no-op.
type Unknown struct{ Text string }

func (Exec) CommandName() string             { return "exec" }
func (ExecAlways) CommandName() string       { return "exec_always" }
func (Kill) CommandName() string             { return "kill" }
func (Focus) CommandName() string            { return "focus" }
func (Move) CommandName() string             { return "move" }
func (Resize) CommandName() string           { return "resize" }
func (Floating) CommandName() string         { return "floating" }
func (Fullscreen) CommandName() string       { return "fullscreen" }
func (Sticky) CommandName() string           { return "sticky" }
func (Split) CommandName() string            { return "split" }
func (Layout) CommandName() string           { return "layout" }
func (Workspace) CommandName() string        { return "workspace" }
func (MoveToWorkspace) CommandName() string  { return "move_to_workspace" }
func (ScratchpadShow) CommandName() string   { return "scratchpad_show" }
func (MoveToScratchpad) CommandName() string { return "move_to_scratchpad" }
func (Mark) CommandName() string             { return "mark" }
func (Unmark) CommandName() string           { return "unmark" }
func (GotoMark) CommandName() string         { return "goto_mark" }
func (Mode) CommandName() string             { return "mode" }
func (Gaps) CommandName() string             { return "gaps" }
func (Reload) CommandName() string           { return "reload" }
func (Restart) CommandName() string          { return "restart" }
func (Exit) CommandName() string             { return "exit" }
func (Unknown) CommandName() string          { return "unknown" }

func (Exec) command()             {}
func (ExecAlways) command()       {}
func (Kill) command()             {}
func (Focus) command()            {}
func (Move) command()             {}
func (Resize) command()           {}
func (Floating) command()         {}
func (Fullscreen) command()       {}
func (Sticky) command()           {}
func (Split) command()            {}
func (Layout) command()           {}
func (Workspace) command()        {}
func (MoveToWorkspace) command()  {}
func (ScratchpadShow) command()   {}
func (MoveToScratchpad) command() {}
func (Mark) command()             {}
func (Unmark) command()           {}
func (GotoMark) command()         {}
func (Mode) command()             {}
func (Gaps) command()             {}
func (Reload) command()           {}
func (Restart) command()          {}
func (Exit) command()             {}
func (Unknown) command()          {}
