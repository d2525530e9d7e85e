package command

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Command
	}{
		{"exec keeps argument case", "exec Alacritty -e htop", Exec{Cmd: "Alacritty -e htop"}},
		{"exec always", "exec_always systemctl --user restart bar", ExecAlways{Cmd: "systemctl --user restart bar"}},
		{"command word is case insensitive", "KILL", Kill{}},
		{"kill ignores arguments", "kill them all", Kill{}},
		{"surrounding whitespace trimmed", "  kill  ", Kill{}},

		{"focus left", "focus left", Focus{Target: FocusLeft}},
		{"focus right", "focus right", Focus{Target: FocusRight}},
		{"focus up", "focus UP", Focus{Target: FocusUp}},
		{"focus down", "focus down", Focus{Target: FocusDown}},
		{"focus parent", "focus parent", Focus{Target: FocusParent}},
		{"focus child", "focus child", Focus{Target: FocusChild}},
		{"focus mode toggle", "focus mode_toggle", Focus{Target: FocusModeToggle}},
		{"focus without target", "focus", Unknown{Text: "focus"}},
		{"focus keeps original case in unknown", "focus Sideways", Unknown{Text: "focus Sideways"}},

		{"move left", "move left", Move{Target: MoveTarget{Kind: MoveLeft}}},
		{"move center", "move center", Move{Target: MoveTarget{Kind: MoveCenter}}},
		{"move to scratchpad", "move scratchpad", MoveToScratchpad{}},
		{"move position", "move position 100 200", Move{Target: MoveTarget{Kind: MovePosition, X: 100, Y: 200}}},
		{"move position negative", "move position -10 -20", Move{Target: MoveTarget{Kind: MovePosition, X: -10, Y: -20}}},
		{"move position missing y", "move position 100", Unknown{Text: "move position 100"}},
		{"move position non numeric", "move position x y", Unknown{Text: "move position x y"}},

		{"move container to numbered workspace", "move container to workspace 3",
			MoveToWorkspace{Target: WorkspaceTarget{Kind: WorkspaceNumber, Number: 3}}},
		{"move window to named workspace", "move window to workspace web mail",
			MoveToWorkspace{Target: WorkspaceTarget{Kind: WorkspaceName, Name: "web mail"}}},
		{"move container filler words are case sensitive", "move container TO workspace 2",
			Unknown{Text: "move container TO workspace 2"}},
		{"move container subject is case insensitive", "move Container to workspace 2",
			MoveToWorkspace{Target: WorkspaceTarget{Kind: WorkspaceNumber, Number: 2}}},
		{"move container without destination", "move container to", Unknown{Text: "move container to"}},
		{"move unknown normalizes spacing", "move   sideways", Unknown{Text: "move sideways"}},

		{"floating toggle explicit", "floating toggle", Floating{Toggle: ToggleSwitch}},
		{"floating toggle implicit", "floating", Floating{Toggle: ToggleSwitch}},
		{"floating enable", "floating enable", Floating{Toggle: ToggleEnable}},
		{"floating disable", "floating disable", Floating{Toggle: ToggleDisable}},
		{"floating bad argument", "floating sideways", Unknown{Text: "floating sideways"}},
		{"fullscreen implicit toggle", "fullscreen", Fullscreen{Toggle: ToggleSwitch}},
		{"fullscreen enable", "fullscreen ENABLE", Fullscreen{Toggle: ToggleEnable}},
		{"sticky implicit toggle", "sticky", Sticky{Toggle: ToggleSwitch}},
		{"sticky disable", "sticky disable", Sticky{Toggle: ToggleDisable}},

		{"split horizontal", "split horizontal", Split{Arg: SplitHorizontal}},
		{"split single letter", "split v", Split{Arg: SplitVertical}},
		{"split toggle letter", "split t", Split{Arg: SplitToggle}},
		{"split none", "split none", Split{Arg: SplitNone}},
		{"split bad argument", "split x", Unknown{Text: "split x"}},

		{"layout default", "layout default", Layout{Arg: LayoutDefault}},
		{"layout tabbed", "layout tabbed", Layout{Arg: LayoutTabbed}},
		{"layout stacking alias", "layout stacking", Layout{Arg: LayoutStacked}},
		{"layout splitv", "layout splitv", Layout{Arg: LayoutSplitV}},
		{"layout toggle", "layout toggle", Layout{Arg: LayoutToggle}},
		{"layout toggle split", "layout toggle split", Layout{Arg: LayoutToggleSplit}},
		{"layout toggle all", "layout toggle all", Layout{Arg: LayoutToggleAll}},
		{"layout bad argument", "layout rows", Unknown{Text: "layout rows"}},

		{"workspace next", "workspace next", Workspace{Target: WorkspaceTarget{Kind: WorkspaceNext}}},
		{"workspace next upper", "workspace NEXT", Workspace{Target: WorkspaceTarget{Kind: WorkspaceNext}}},
		{"workspace previous alias", "workspace previous", Workspace{Target: WorkspaceTarget{Kind: WorkspacePrev}}},
		{"workspace next on output", "workspace next_on_output", Workspace{Target: WorkspaceTarget{Kind: WorkspaceNextOnOutput}}},
		{"workspace back and forth", "workspace back_and_forth", Workspace{Target: WorkspaceTarget{Kind: WorkspaceBackAndForth}}},
		{"workspace number", "workspace 5", Workspace{Target: WorkspaceTarget{Kind: WorkspaceNumber, Number: 5}}},
		{"workspace zero padded number", "workspace 007", Workspace{Target: WorkspaceTarget{Kind: WorkspaceNumber, Number: 7}}},
		{"workspace name keeps case", "workspace Web Mail", Workspace{Target: WorkspaceTarget{Kind: WorkspaceName, Name: "Web Mail"}}},
		{"workspace negative number is a name", "workspace -1", Workspace{Target: WorkspaceTarget{Kind: WorkspaceName, Name: "-1"}}},

		{"scratchpad show", "scratchpad show", ScratchpadShow{}},
		{"scratchpad bad argument", "scratchpad hide", Unknown{Text: "scratchpad hide"}},

		{"mark keeps case", "mark Editor", Mark{Name: "Editor"}},
		{"unmark one", "unmark Editor", Unmark{Name: "Editor"}},
		{"unmark all", "unmark", Unmark{All: true}},
		{"goto mark", "goto_mark Editor", GotoMark{Name: "Editor"}},
		{"mode keeps case", "mode Resize", Mode{Name: "Resize"}},

		{"gaps inner set", "gaps inner set 10", Gaps{Where: GapsInner, Op: GapsSet, Amount: 10}},
		{"gaps outer plus", "gaps outer plus 2", Gaps{Where: GapsOuter, Op: GapsPlus, Amount: 2}},
		{"gaps inner minus", "gaps inner minus 1", Gaps{Where: GapsInner, Op: GapsMinus, Amount: 1}},
		{"gaps missing amount", "gaps inner set", Unknown{Text: "gaps inner set"}},
		{"gaps bad location", "gaps sideways set 1", Unknown{Text: "gaps sideways set 1"}},
		{"gaps bad operation", "gaps inner grow 5", Unknown{Text: "gaps inner grow 5"}},
		{"gaps bad amount", "gaps inner set ten", Unknown{Text: "gaps inner set ten"}},

		{"reload", "reload", Reload{}},
		{"restart", "restart", Restart{}},
		{"exit", "exit", Exit{}},

		{"empty input", "", Unknown{Text: ""}},
		{"free text", "Fly me to the moon", Unknown{Text: "Fly me to the moon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.in); got != tt.want {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseResize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Command
	}{
		{"grow width default amount", "resize grow width", Resize{Dir: ResizeGrowWidth, Amount: 10}},
		{"shrink width px suffix", "resize shrink width 5px", Resize{Dir: ResizeShrinkWidth, Amount: 5}},
		{"set width", "resize set width 320", Resize{Dir: ResizeSetWidth, Amount: 320}},
		{"grow height", "resize grow height 20", Resize{Dir: ResizeGrowHeight, Amount: 20}},
		{"shrink height", "resize shrink height", Resize{Dir: ResizeShrinkHeight, Amount: 10}},
		{"set height", "resize set height 240px", Resize{Dir: ResizeSetHeight, Amount: 240}},
		{"edge after operation ignores it", "resize grow left 20", Resize{Dir: ResizeLeft, Amount: 20}},
		{"edge after shrink ignores it", "resize shrink down", Resize{Dir: ResizeDown, Amount: 10}},
		{"bare edge", "resize left 15", Resize{Dir: ResizeLeft, Amount: 15}},
		{"bare edge default amount", "resize right", Resize{Dir: ResizeRight, Amount: 10}},
		{"malformed amount falls back", "resize grow width tenpx", Resize{Dir: ResizeGrowWidth, Amount: 10}},
		{"negative amount allowed", "resize grow width -5", Resize{Dir: ResizeGrowWidth, Amount: -5}},
		{"missing direction", "resize grow", Unknown{Text: "resize grow"}},
		{"bad operation", "resize stretch width 5", Unknown{Text: "resize stretch width 5"}},
		{"bad direction", "resize grow sideways", Unknown{Text: "resize grow sideways"}},
		{"no arguments", "resize", Unknown{Text: "resize "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Parse(tt.in); got != tt.want {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCommandNames(t *testing.T) {
	tests := []struct {
		cmd  Command
		want string
	}{
		{Exec{}, "exec"},
		{ExecAlways{}, "exec_always"},
		{Kill{}, "kill"},
		{Focus{}, "focus"},
		{Move{}, "move"},
		{Resize{}, "resize"},
		{Floating{}, "floating"},
		{Fullscreen{}, "fullscreen"},
		{Sticky{}, "sticky"},
		{Split{}, "split"},
		{Layout{}, "layout"},
		{Workspace{}, "workspace"},
		{MoveToWorkspace{}, "move_to_workspace"},
		{ScratchpadShow{}, "scratchpad_show"},
		{MoveToScratchpad{}, "move_to_scratchpad"},
		{Mark{}, "mark"},
		{Unmark{}, "unmark"},
		{GotoMark{}, "goto_mark"},
		{Mode{}, "mode"},
		{Gaps{}, "gaps"},
		{Reload{}, "reload"},
		{Restart{}, "restart"},
		{Exit{}, "exit"},
		{Unknown{}, "unknown"},
	}

	for _, tt := range tests {
		if got := tt.cmd.CommandName(); got != tt.want {
			t.Errorf("%T.CommandName() = %q, want %q", tt.cmd, got, tt.want)
		}
	}
}
