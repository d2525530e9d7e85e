package command

import (
	"strconv"
	"strings"
)

// Parse turns a command string into a Command. Parsing never fails: anything
// that does not match the grammar comes back as Unknown carrying the text.
//
// The command word is case-insensitive. Arguments are case-insensitive too,
// except workspace names, mark names, and mode names, which keep their
// original case.
func Parse(text string) Command {
	s := strings.TrimSpace(text)
	word, rest, _ := strings.Cut(s, " ")
	cmd := strings.ToLower(word)
	args := strings.TrimSpace(rest)

	switch cmd {
	case "exec":
		return Exec{Cmd: args}
	case "exec_always":
		return ExecAlways{Cmd: args}

	case "kill":
		return Kill{}

	case "focus":
		switch strings.ToLower(args) {
		case "left":
			return Focus{Target: FocusLeft}
		case "right":
			return Focus{Target: FocusRight}
		case "up":
			return Focus{Target: FocusUp}
		case "down":
			return Focus{Target: FocusDown}
		case "parent":
			return Focus{Target: FocusParent}
		case "child":
			return Focus{Target: FocusChild}
		case "mode_toggle":
			return Focus{Target: FocusModeToggle}
		default:
			return Unknown{Text: s}
		}

	case "move":
		return parseMove(args)

	case "floating":
		if t, ok := parseToggle(args); ok {
			return Floating{Toggle: t}
		}
		return Unknown{Text: s}
	case "fullscreen":
		if t, ok := parseToggle(args); ok {
			return Fullscreen{Toggle: t}
		}
		return Unknown{Text: s}
	case "sticky":
		if t, ok := parseToggle(args); ok {
			return Sticky{Toggle: t}
		}
		return Unknown{Text: s}

	case "split":
		switch strings.ToLower(args) {
		case "horizontal", "h":
			return Split{Arg: SplitHorizontal}
		case "vertical", "v":
			return Split{Arg: SplitVertical}
		case "toggle", "t":
			return Split{Arg: SplitToggle}
		case "none", "n":
			return Split{Arg: SplitNone}
		default:
			return Unknown{Text: s}
		}

	case "layout":
		switch strings.ToLower(args) {
		case "default":
			return Layout{Arg: LayoutDefault}
		case "tabbed":
			return Layout{Arg: LayoutTabbed}
		case "stacked", "stacking":
			return Layout{Arg: LayoutStacked}
		case "splitv":
			return Layout{Arg: LayoutSplitV}
		case "splith":
			return Layout{Arg: LayoutSplitH}
		case "toggle":
			return Layout{Arg: LayoutToggle}
		case "toggle split":
			return Layout{Arg: LayoutToggleSplit}
		case "toggle all":
			return Layout{Arg: LayoutToggleAll}
		default:
			return Unknown{Text: s}
		}

	case "workspace":
		switch strings.ToLower(args) {
		case "next":
			return Workspace{Target: WorkspaceTarget{Kind: WorkspaceNext}}
		case "prev", "previous":
			return Workspace{Target: WorkspaceTarget{Kind: WorkspacePrev}}
		case "next_on_output":
			return Workspace{Target: WorkspaceTarget{Kind: WorkspaceNextOnOutput}}
		case "prev_on_output":
			return Workspace{Target: WorkspaceTarget{Kind: WorkspacePrevOnOutput}}
		case "back_and_forth":
			return Workspace{Target: WorkspaceTarget{Kind: WorkspaceBackAndForth}}
		default:
			return Workspace{Target: workspaceTarget(args)}
		}

	case "scratchpad":
		if strings.ToLower(args) == "show" {
			return ScratchpadShow{}
		}
		return Unknown{Text: s}

	case "mark":
		return Mark{Name: args}
	case "unmark":
		if args == "" {
			return Unmark{All: true}
		}
		return Unmark{Name: args}
	case "goto_mark":
		return GotoMark{Name: args}

	case "mode":
		return Mode{Name: args}

	case "gaps":
		return parseGaps(s, args)

	case "reload":
		return Reload{}
	case "restart":
		return Restart{}
	case "exit":
		return Exit{}

	case "resize":
		return parseResize(args)

	default:
		return Unknown{Text: s}
	}
}

func parseToggle(args string) (Toggle, bool) {
	switch strings.ToLower(args) {
	case "enable":
		return ToggleEnable, true
	case "disable":
		return ToggleDisable, true
	case "toggle", "":
		return ToggleSwitch, true
	default:
		return ToggleSwitch, false
	}
}

// workspaceTarget resolves a bare workspace argument: digits make a number
// target, anything else a name. Names keep their original case.
func workspaceTarget(s string) WorkspaceTarget {
	if num, err := strconv.ParseUint(s, 10, 32); err == nil {
		return WorkspaceTarget{Kind: WorkspaceNumber, Number: uint32(num)}
	}
	return WorkspaceTarget{Kind: WorkspaceName, Name: s}
}

func parseMove(args string) Command {
	parts := strings.Fields(args)
	if len(parts) == 0 {
		return Unknown{Text: "move " + args}
	}

	switch strings.ToLower(parts[0]) {
	case "left":
		return Move{Target: MoveTarget{Kind: MoveLeft}}
	case "right":
		return Move{Target: MoveTarget{Kind: MoveRight}}
	case "up":
		return Move{Target: MoveTarget{Kind: MoveUp}}
	case "down":
		return Move{Target: MoveTarget{Kind: MoveDown}}
	case "center":
		return Move{Target: MoveTarget{Kind: MoveCenter}}
	case "scratchpad":
		return MoveToScratchpad{}
	case "container", "window":
		// The filler words are matched as written: "to workspace" only.
		if len(parts) >= 4 && parts[1] == "to" && parts[2] == "workspace" {
			ws := strings.Join(parts[3:], " ")
			return MoveToWorkspace{Target: workspaceTarget(ws)}
		}
		return Unknown{Text: "move " + args}
	case "position":
		if len(parts) >= 3 {
			x, errX := strconv.ParseInt(parts[1], 10, 32)
			y, errY := strconv.ParseInt(parts[2], 10, 32)
			if errX == nil && errY == nil {
				return Move{Target: MoveTarget{Kind: MovePosition, X: int32(x), Y: int32(y)}}
			}
		}
		return Unknown{Text: "move " + args}
	default:
		return Unknown{Text: "move " + args}
	}
}

func parseResize(args string) Command {
	parts := strings.Fields(args)

	// Bare edge form: "resize left 10".
	if len(parts) >= 1 {
		if dir, ok := resizeEdge(strings.ToLower(parts[0])); ok {
			return Resize{Dir: dir, Amount: resizeAmount(parts, 1)}
		}
	}

	if len(parts) < 2 {
		return Unknown{Text: "resize " + args}
	}

	var grow, shrink bool
	switch strings.ToLower(parts[0]) {
	case "grow":
		grow = true
	case "shrink":
		shrink = true
	case "set":
	default:
		return Unknown{Text: "resize " + args}
	}

	var dir ResizeDir
	switch strings.ToLower(parts[1]) {
	case "width":
		switch {
		case grow:
			dir = ResizeGrowWidth
		case shrink:
			dir = ResizeShrinkWidth
		default:
			dir = ResizeSetWidth
		}
	case "height":
		switch {
		case grow:
			dir = ResizeGrowHeight
		case shrink:
			dir = ResizeShrinkHeight
		default:
			dir = ResizeSetHeight
		}
	default:
		// Edge names also work after an operation word; the operation
		// is implied by the edge and ignored.
		edge, ok := resizeEdge(strings.ToLower(parts[1]))
		if !ok {
			return Unknown{Text: "resize " + args}
		}
		dir = edge
	}

	return Resize{Dir: dir, Amount: resizeAmount(parts, 2)}
}

func resizeEdge(s string) (ResizeDir, bool) {
	switch s {
	case "left":
		return ResizeLeft, true
	case "right":
		return ResizeRight, true
	case "up":
		return ResizeUp, true
	case "down":
		return ResizeDown, true
	default:
		return ResizeLeft, false
	}
}

// resizeAmount reads parts[idx] as a pixel count, tolerating a px suffix.
// Missing or malformed amounts fall back to 10.
func resizeAmount(parts []string, idx int) int32 {
	if len(parts) <= idx {
		return 10
	}
	n, err := strconv.ParseInt(strings.TrimSuffix(parts[idx], "px"), 10, 32)
	if err != nil {
		return 10
	}
	return int32(n)
}

func parseGaps(s, args string) Command {
	parts := strings.Fields(args)
	if len(parts) != 3 {
		return Unknown{Text: s}
	}

	var where GapsWhere
	switch strings.ToLower(parts[0]) {
	case "inner":
		where = GapsInner
	case "outer":
		where = GapsOuter
	default:
		return Unknown{Text: s}
	}

	var op GapsOp
	switch strings.ToLower(parts[1]) {
	case "set":
		op = GapsSet
	case "plus":
		op = GapsPlus
	case "minus":
		op = GapsMinus
	default:
		return Unknown{Text: s}
	}

	n, err := strconv.ParseInt(parts[2], 10, 32)
	if err != nil {
		return Unknown{Text: s}
	}
	return Gaps{Where: where, Op: op, Amount: int32(n)}
}
