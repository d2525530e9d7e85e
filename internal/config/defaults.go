package config

import "strconv"

// Default returns the built-in configuration, including the i3-style
// default binding table.
func Default() Config {
	return Config{
		General: General{
			FocusFollowsMouse:  "yes",
			FloatingModifier:   "Mod4",
			DefaultLayout:      "split",
			DefaultOrientation: "auto",
		},
		Gaps: Gaps{
			Inner: 4,
			Outer: 4,
		},
		Border: Border{
			Width:         2,
			Style:         "pixel",
			FloatingStyle: "normal",
		},
		Colors: Colors{
			Focused: WindowColors{
				Border:      "#4c7899",
				Background:  "#285577",
				Text:        "#ffffff",
				Indicator:   "#2e9ef4",
				ChildBorder: "#285577",
			},
			FocusedInactive: WindowColors{
				Border:      "#333333",
				Background:  "#5f676a",
				Text:        "#ffffff",
				Indicator:   "#484e50",
				ChildBorder: "#5f676a",
			},
			Unfocused: WindowColors{
				Border:      "#333333",
				Background:  "#222222",
				Text:        "#888888",
				Indicator:   "#292d2e",
				ChildBorder: "#222222",
			},
			Urgent: WindowColors{
				Border:      "#2f343a",
				Background:  "#900000",
				Text:        "#ffffff",
				Indicator:   "#900000",
				ChildBorder: "#900000",
			},
			Background: "#000000",
		},
		Font: Font{
			Family: "monospace",
			Size:   10,
			Style:  "Regular",
		},
		Input: Input{
			RepeatDelay:  300,
			RepeatRate:   30,
			XKBLayout:    "us",
			Tap:          true,
			AccelProfile: "adaptive",
		},
		Bindings:      defaultBindings(),
		MouseBindings: defaultMouseBindings(),
		Bar: Bar{
			Enabled:          true,
			Position:         "bottom",
			Height:           24,
			Colors:           defaultBarColors(),
			WorkspaceButtons: true,
			ModeIndicator:    true,
		},
		Animations: Animations{
			Enabled:  true,
			Duration: 200,
			Curve:    "ease-out-cubic",
		},
	}
}

func defaultBindings() []Binding {
	bindings := []Binding{
		{Keys: "Mod4+Return", Command: "exec alacritty"},
		{Keys: "Mod4+Shift+q", Command: "kill"},
		{Keys: "Mod4+d", Command: "exec wofi --show drun"},

		{Keys: "Mod4+h", Command: "focus left"},
		{Keys: "Mod4+j", Command: "focus down"},
		{Keys: "Mod4+k", Command: "focus up"},
		{Keys: "Mod4+l", Command: "focus right"},

		{Keys: "Mod4+Shift+h", Command: "move left"},
		{Keys: "Mod4+Shift+j", Command: "move down"},
		{Keys: "Mod4+Shift+k", Command: "move up"},
		{Keys: "Mod4+Shift+l", Command: "move right"},

		{Keys: "Mod4+b", Command: "split horizontal"},
		{Keys: "Mod4+v", Command: "split vertical"},

		{Keys: "Mod4+f", Command: "fullscreen toggle"},
		{Keys: "Mod4+Shift+space", Command: "floating toggle"},
		{Keys: "Mod4+space", Command: "focus mode_toggle"},

		{Keys: "Mod4+s", Command: "layout stacked"},
		{Keys: "Mod4+w", Command: "layout tabbed"},
		{Keys: "Mod4+e", Command: "layout toggle split"},

		{Keys: "Mod4+Shift+minus", Command: "move scratchpad"},
		{Keys: "Mod4+minus", Command: "scratchpad show"},

		{Keys: "Mod4+Shift+c", Command: "reload"},
		{Keys: "Mod4+Shift+e", Command: "exit"},

		{Keys: "Mod4+r", Command: "mode resize"},
		{Keys: "h", Command: "resize shrink width 10 px", Mode: "resize"},
		{Keys: "j", Command: "resize grow height 10 px", Mode: "resize"},
		{Keys: "k", Command: "resize shrink height 10 px", Mode: "resize"},
		{Keys: "l", Command: "resize grow width 10 px", Mode: "resize"},
		{Keys: "Escape", Command: "mode default", Mode: "resize"},
		{Keys: "Return", Command: "mode default", Mode: "resize"},
	}
	for i := 1; i <= 10; i++ {
		key := strconv.Itoa(i % 10)
		bindings = append(bindings, Binding{Keys: "Mod4+" + key, Command: "workspace " + strconv.Itoa(i)})
	}
	for i := 1; i <= 5; i++ {
		bindings = append(bindings, Binding{
			Keys:    "Mod4+Shift+" + strconv.Itoa(i),
			Command: "move container to workspace " + strconv.Itoa(i),
		})
	}
	for i := range bindings {
		if bindings[i].Mode == "" {
			bindings[i].Mode = "default"
		}
	}
	return bindings
}

func defaultMouseBindings() []MouseBinding {
	return []MouseBinding{
		{Button: "Mod4+button1", Command: "move"},
		{Button: "Mod4+button3", Command: "resize"},
	}
}

func defaultBarColors() BarColors {
	return BarColors{
		Background: "#000000",
		Statusline: "#ffffff",
		Separator:  "#666666",
		FocusedWorkspace: WorkspaceColors{
			Border:     "#4c7899",
			Background: "#285577",
			Text:       "#ffffff",
		},
		ActiveWorkspace: WorkspaceColors{
			Border:     "#333333",
			Background: "#5f676a",
			Text:       "#ffffff",
		},
		InactiveWorkspace: WorkspaceColors{
			Border:     "#333333",
			Background: "#222222",
			Text:       "#888888",
		},
		UrgentWorkspace: WorkspaceColors{
			Border:     "#2f343a",
			Background: "#900000",
			Text:       "#ffffff",
		},
	}
}
