package core

import (
	"strings"

	"github.com/geket/lamella/internal/command"
	"github.com/geket/lamella/internal/layout"
	"github.com/geket/lamella/internal/wm"
)

// Directional moves nudge floating windows by twice the default resize step.
const floatMoveStep = 20

func (c *Core) executeCommand(cmd command.Command) []wm.Action {
	switch v := cmd.(type) {
	case command.Exec:
		return []wm.Action{wm.SpawnProcess{Command: v.Cmd}}
	case command.ExecAlways:
		return []wm.Action{wm.SpawnProcess{Command: v.Cmd}}
	case command.Kill:
		if id := c.state.Focus.FocusedWindow; id != 0 {
			return []wm.Action{wm.RequestClose{ID: id}}
		}
	case command.Focus:
		return c.cmdFocus(v.Target)
	case command.Move:
		return c.cmdMove(v.Target)
	case command.Resize:
		return c.cmdResize(v.Dir, v.Amount)
	case command.Floating:
		return c.cmdFloating(v.Toggle)
	case command.Fullscreen:
		return c.cmdFullscreen(v.Toggle)
	case command.Sticky:
		c.cmdSticky(v.Toggle)
	case command.Split:
		return c.cmdSplit(v.Arg)
	case command.Layout:
		return c.cmdLayout(v.Arg)
	case command.Workspace:
		return c.cmdWorkspace(v.Target)
	case command.MoveToWorkspace:
		return c.cmdMoveToWorkspace(v.Target)
	case command.ScratchpadShow:
		return c.cmdScratchpadShow()
	case command.MoveToScratchpad:
		if id := c.state.Focus.FocusedWindow; id != 0 {
			c.state.ToggleScratchpad(id)
			return c.relayoutActions()
		}
	case command.Mark:
		if id := c.state.Focus.FocusedWindow; id != 0 {
			c.state.SetMark(v.Name, id)
		}
	case command.Unmark:
		if v.All {
			clear(c.state.Marks)
		} else {
			delete(c.state.Marks, v.Name)
		}
	case command.GotoMark:
		return c.cmdGotoMark(v.Name)
	case command.Mode:
		if !c.input.SetMode(v.Name) {
			c.log.Warnf("unknown binding mode %q", v.Name)
		}
	case command.Gaps:
		return c.cmdGaps(v)
	case command.Reload:
		return []wm.Action{wm.ReloadConfig{}}
	case command.Restart:
		c.log.Infof("restart requested")
	case command.Exit:
		c.ShouldExit = true
		return []wm.Action{wm.Exit{}}
	case command.Unknown:
		c.warnUnknown(v)
	}
	return nil
}

func (c *Core) cmdFocus(target command.FocusTarget) []wm.Action {
	var dir layout.Direction
	switch target {
	case command.FocusLeft:
		dir = layout.DirLeft
	case command.FocusRight:
		dir = layout.DirRight
	case command.FocusUp:
		dir = layout.DirUp
	case command.FocusDown:
		dir = layout.DirDown
	default:
		// Parent, child and mode_toggle leave focus where it is.
		return nil
	}
	ws, ok := c.state.FocusedWorkspace()
	if !ok {
		return nil
	}
	id, ok := ws.Layout.FocusDirection(dir)
	if !ok {
		return nil
	}
	c.state.FocusWindow(id)
	return []wm.Action{wm.SetFocus{ID: id}}
}

// cmdMove repositions the focused window when it floats. Tiled windows stay
// put; moving them between tree slots is not supported.
func (c *Core) cmdMove(target command.MoveTarget) []wm.Action {
	window, ok := c.state.FocusedWindow()
	if !ok || !window.Flags.Has(wm.FlagFloating) {
		return nil
	}
	geo := window.Geometry
	switch target.Kind {
	case command.MoveLeft:
		geo.X -= floatMoveStep
	case command.MoveRight:
		geo.X += floatMoveStep
	case command.MoveUp:
		geo.Y -= floatMoveStep
	case command.MoveDown:
		geo.Y += floatMoveStep
	case command.MovePosition:
		geo.X, geo.Y = target.X, target.Y
	case command.MoveCenter:
		ws, ok := c.state.FocusedWorkspace()
		if !ok {
			return nil
		}
		geo.X = ws.WorkArea.X + (int32(ws.WorkArea.Width)-int32(geo.Width))/2
		geo.Y = ws.WorkArea.Y + (int32(ws.WorkArea.Height)-int32(geo.Height))/2
	}
	if geo == window.Geometry {
		return nil
	}
	window.Geometry = geo
	return []wm.Action{wm.SetWindowGeometry{ID: window.ID, Geometry: geo}}
}

// cmdResize moves a ratio boundary in the focused container when the resize
// axis matches its split direction. The pixel amount converts to a ratio
// delta against the container length.
func (c *Core) cmdResize(dir command.ResizeDir, amount int32) []wm.Action {
	ws, ok := c.state.FocusedWorkspace()
	if !ok {
		return nil
	}
	container, ok := ws.Layout.FocusedContainer()
	if !ok || len(container.Children) < 2 {
		return nil
	}

	axis := layout.Horizontal
	set := false
	sign := 1.0
	switch dir {
	case command.ResizeGrowWidth:
	case command.ResizeShrinkWidth:
		sign = -1
	case command.ResizeSetWidth:
		set = true
	case command.ResizeGrowHeight:
		axis = layout.Vertical
	case command.ResizeShrinkHeight:
		axis, sign = layout.Vertical, -1
	case command.ResizeSetHeight:
		axis, set = layout.Vertical, true
	case command.ResizeLeft, command.ResizeRight:
		// Edge resizes grow along their axis.
	case command.ResizeUp, command.ResizeDown:
		axis = layout.Vertical
	}
	if container.Split != axis {
		return nil
	}

	length := container.Geometry.Width
	if axis == layout.Vertical {
		length = container.Geometry.Height
	}
	if length == 0 {
		return nil
	}
	idx := container.FocusedChild
	if idx < 0 || idx >= len(container.Children) {
		return nil
	}

	delta := sign * float64(amount) / float64(length)
	if set {
		delta = float64(amount)/float64(length) - container.Ratios[idx]
	}

	before := append([]float64(nil), container.Ratios...)
	// Growing the last child moves the boundary before it instead.
	if idx == len(container.Children)-1 {
		container.ResizeChild(idx-1, -delta)
	} else {
		container.ResizeChild(idx, delta)
	}
	if ratiosEqual(before, container.Ratios) {
		return nil
	}
	c.state.LayoutDirty = true
	return c.relayoutActions()
}

func ratiosEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (c *Core) cmdFloating(toggle command.Toggle) []wm.Action {
	window, ok := c.state.FocusedWindow()
	if !ok {
		return nil
	}
	was := window.Flags.Has(wm.FlagFloating)
	switch toggle {
	case command.ToggleEnable:
		window.Flags.Set(wm.FlagFloating)
	case command.ToggleDisable:
		window.Flags.Clear(wm.FlagFloating)
	default:
		window.ToggleFloating()
	}
	floating := window.Flags.Has(wm.FlagFloating)
	if floating == was {
		return nil
	}
	actions := []wm.Action{wm.SetFloating{ID: window.ID, Floating: floating}}
	if window.Workspace != 0 {
		if ws, ok := c.state.Workspaces[window.Workspace]; ok {
			if floating {
				ws.FloatWindow(window.ID)
			} else {
				ws.TileWindow(window.ID, c.state.Config.Gaps.Inner)
			}
		}
	}
	c.state.LayoutDirty = true
	return append(actions, c.relayoutActions()...)
}

func (c *Core) cmdFullscreen(toggle command.Toggle) []wm.Action {
	window, ok := c.state.FocusedWindow()
	if !ok {
		return nil
	}
	enable := toggle == command.ToggleEnable
	if toggle == command.ToggleSwitch {
		enable = !window.Flags.Has(wm.FlagFullscreen)
	}
	outputGeo := wm.Geometry{Width: 1920, Height: 1080}
	if output, ok := c.state.FirstOutput(); ok {
		outputGeo = output.Geometry
	}
	window.SetFullscreen(enable, outputGeo)
	return []wm.Action{wm.SetWindowGeometry{ID: window.ID, Geometry: window.Geometry}}
}

func (c *Core) cmdSticky(toggle command.Toggle) {
	window, ok := c.state.FocusedWindow()
	if !ok {
		return
	}
	switch toggle {
	case command.ToggleEnable:
		window.Flags.Set(wm.FlagSticky)
	case command.ToggleDisable:
		window.Flags.Clear(wm.FlagSticky)
	default:
		window.Flags.Toggle(wm.FlagSticky)
	}
}

func (c *Core) cmdSplit(arg command.SplitArg) []wm.Action {
	ws, ok := c.state.FocusedWorkspace()
	if !ok {
		return nil
	}
	switch arg {
	case command.SplitHorizontal:
		ws.Layout.SetSplit(layout.Horizontal)
	case command.SplitVertical:
		ws.Layout.SetSplit(layout.Vertical)
	case command.SplitToggle:
		ws.Layout.ToggleSplit()
	default:
		return nil
	}
	c.state.LayoutDirty = true
	return c.relayoutActions()
}

func (c *Core) cmdLayout(arg command.LayoutArg) []wm.Action {
	ws, ok := c.state.FocusedWorkspace()
	if !ok {
		return nil
	}
	tree := ws.Layout
	switch arg {
	case command.LayoutDefault:
		tree.SetMode(layout.ModeSplit)
		tree.SetSplit(tree.DefaultDirection)
	case command.LayoutTabbed:
		tree.SetMode(layout.ModeTabbed)
	case command.LayoutStacked:
		tree.SetMode(layout.ModeStacked)
	case command.LayoutSplitV:
		tree.SetMode(layout.ModeSplit)
		tree.SetSplit(layout.Vertical)
	case command.LayoutSplitH:
		tree.SetMode(layout.ModeSplit)
		tree.SetSplit(layout.Horizontal)
	case command.LayoutToggle, command.LayoutToggleAll:
		tree.CycleMode()
	case command.LayoutToggleSplit:
		tree.ToggleSplit()
	}
	c.state.LayoutDirty = true
	return c.relayoutActions()
}

func (c *Core) cmdWorkspace(target command.WorkspaceTarget) []wm.Action {
	id, ok := c.resolveWorkspaceTarget(target)
	if !ok {
		return nil
	}
	c.state.SwitchWorkspace(id)
	c.updateWindowVisibility()
	actions := []wm.Action{
		wm.WorkspaceChanged{Active: id},
		wm.SetFocus{ID: c.state.Focus.FocusedWindow},
	}
	return append(actions, c.relayoutActions()...)
}

func (c *Core) cmdMoveToWorkspace(target command.WorkspaceTarget) []wm.Action {
	id := c.state.Focus.FocusedWindow
	if id == 0 {
		return nil
	}
	wsID, ok := c.resolveWorkspaceTarget(target)
	if !ok {
		return nil
	}
	c.state.MoveWindowToWorkspace(id, wsID)
	c.updateWindowVisibility()
	return c.relayoutActions()
}

// cmdScratchpadShow toggles the first scratchpad window between shown and
// hidden. Showing also focuses it.
func (c *Core) cmdScratchpadShow() []wm.Action {
	if len(c.state.Scratchpad) == 0 {
		return nil
	}
	id := c.state.Scratchpad[0]
	var actions []wm.Action
	if containsID(c.scratchpadVisible, id) {
		c.scratchpadVisible = removeID(c.scratchpadVisible, id)
	} else {
		c.scratchpadVisible = append(c.scratchpadVisible, id)
		c.state.FocusWindow(id)
		actions = append(actions, wm.SetFocus{ID: id})
	}
	c.updateWindowVisibility()
	return actions
}

func (c *Core) cmdGotoMark(name string) []wm.Action {
	prev := c.state.Focus.FocusedWorkspace
	c.state.GotoMark(name)
	var actions []wm.Action
	if c.state.Focus.FocusedWorkspace != prev {
		actions = append(actions, wm.WorkspaceChanged{Active: c.state.Focus.FocusedWorkspace})
	}
	return append(actions, wm.SetFocus{ID: c.state.Focus.FocusedWindow})
}

func (c *Core) cmdGaps(cmd command.Gaps) []wm.Action {
	gaps := c.state.Config.Gaps
	value := int64(gaps.Inner)
	if cmd.Where == command.GapsOuter {
		value = int64(gaps.Outer)
	}
	switch cmd.Op {
	case command.GapsSet:
		value = int64(cmd.Amount)
	case command.GapsPlus:
		value += int64(cmd.Amount)
	case command.GapsMinus:
		value -= int64(cmd.Amount)
	}
	if value < 0 {
		value = 0
	}
	if cmd.Where == command.GapsOuter {
		gaps.Outer = uint32(value)
	} else {
		gaps.Inner = uint32(value)
		for _, ws := range c.state.Workspaces {
			ws.Layout.SetGap(gaps.Inner)
		}
	}
	c.state.Config.Gaps = gaps
	c.state.LayoutDirty = true
	return c.relayoutActions()
}

func (c *Core) warnUnknown(cmd command.Unknown) {
	word, _, _ := strings.Cut(strings.TrimSpace(cmd.Text), " ")
	if hint := command.Suggest(word); hint != "" && hint != strings.ToLower(word) {
		c.log.Warnf("unknown command %q (did you mean %q?)", cmd.Text, hint)
		return
	}
	c.log.Warnf("unknown command %q", cmd.Text)
}

// resolveWorkspaceTarget maps a workspace target onto a concrete workspace.
// Relative targets walk the creation-order list with wraparound; numbers are
// positional in that same order, not a lookup of the workspace number.
func (c *Core) resolveWorkspaceTarget(target command.WorkspaceTarget) (wm.WorkspaceID, bool) {
	order := c.state.WorkspaceOrder
	if len(order) == 0 {
		return 0, false
	}
	switch target.Kind {
	case command.WorkspaceNext, command.WorkspaceNextOnOutput:
		current := c.state.Focus.FocusedWorkspace
		if current == 0 {
			return order[0], true
		}
		return order[(workspaceIndex(order, current)+1)%len(order)], true
	case command.WorkspacePrev, command.WorkspacePrevOnOutput:
		current := c.state.Focus.FocusedWorkspace
		if current == 0 {
			return order[len(order)-1], true
		}
		idx := workspaceIndex(order, current)
		if idx == 0 {
			idx = len(order)
		}
		return order[idx-1], true
	case command.WorkspaceNumber:
		idx := int(target.Number) - 1
		if idx < 0 {
			idx = 0
		}
		if idx >= len(order) {
			return 0, false
		}
		return order[idx], true
	case command.WorkspaceName:
		for _, id := range order {
			if ws, ok := c.state.Workspaces[id]; ok && ws.Name == target.Name {
				return id, true
			}
		}
	}
	// BackAndForth carries no workspace history and resolves to nothing.
	return 0, false
}

func workspaceIndex(order []wm.WorkspaceID, id wm.WorkspaceID) int {
	for i, v := range order {
		if v == id {
			return i
		}
	}
	return 0
}

// relayoutActions recomputes the focused workspace's tiled geometries and
// returns one SetWindowGeometry per tiled window, in tiled-list order. The
// dirty flag stays set until the next tick flushes it, so a tick following
// any mutation re-emits the batch.
func (c *Core) relayoutActions() []wm.Action {
	wsID := c.state.Focus.FocusedWorkspace
	if wsID == 0 {
		return nil
	}
	var actions []wm.Action
	if ws, ok := c.state.Workspaces[wsID]; ok {
		ws.CalculateLayout(c.state.Config.Gaps.Outer)
		for _, id := range ws.TiledWindows {
			if geo, ok := ws.WindowGeometry(id); ok {
				actions = append(actions, wm.SetWindowGeometry{ID: id, Geometry: geo})
			}
		}
	}
	return actions
}

// updateWindowVisibility recomputes the hidden flag for every window: a
// window shows when it sits on the focused workspace, is a shown scratchpad
// window, or is sticky.
func (c *Core) updateWindowVisibility() {
	current := c.state.Focus.FocusedWorkspace
	for id, window := range c.state.Windows {
		show := window.Workspace == current ||
			containsID(c.scratchpadVisible, id) ||
			window.Flags.Has(wm.FlagSticky)
		if show {
			window.Flags.Clear(wm.FlagHidden)
		} else {
			window.Flags.Set(wm.FlagHidden)
		}
	}
}
