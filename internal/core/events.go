package core

import (
	"github.com/geket/lamella/internal/input"
	"github.com/geket/lamella/internal/rules"
	"github.com/geket/lamella/internal/state"
	"github.com/geket/lamella/internal/wm"
)

// Linux input event codes for the buttons the core reacts to.
const (
	buttonLeft   = 272
	buttonRight  = 273
	buttonMiddle = 274
)

// Interactive resizes never shrink a window below this many pixels per axis.
const grabMinSize = 100

func (c *Core) handleMapped(e wm.WindowMapped) []wm.Action {
	window := wm.NewWindow(e.ID, e.AppID, e.Title)
	window.PID = e.PID
	window.XWayland = e.XWayland
	if e.Geometry != nil {
		window.Geometry = *e.Geometry
	}
	if window.ShouldFloat() {
		window.Flags.Set(wm.FlagFloating)
	}
	matched := rules.Match(c.rules, window)

	c.state.AddWindow(window)
	c.state.FocusWindow(window.ID)

	actions := []wm.Action{wm.SetFocus{ID: window.ID}}
	// Rule commands run with the new window focused, as if typed by the user.
	for _, cmd := range matched {
		actions = append(actions, c.executeCommand(cmd)...)
	}
	return append(actions, c.relayoutActions()...)
}

func (c *Core) handleUnmapped(e wm.WindowUnmapped) []wm.Action {
	if !c.state.RemoveWindow(e.ID) {
		return nil
	}
	actions := []wm.Action{wm.SetFocus{ID: c.state.Focus.FocusedWindow}}
	return append(actions, c.relayoutActions()...)
}

func (c *Core) handleCommitted(e wm.WindowCommitted) []wm.Action {
	if e.Geometry == nil {
		return nil
	}
	window, ok := c.state.Windows[e.ID]
	if !ok || !window.Flags.Has(wm.FlagFloating) {
		return nil
	}
	// The action echoes the client's hint even when size hints constrained
	// the recorded geometry.
	window.SetGeometry(*e.Geometry)
	return []wm.Action{wm.SetWindowGeometry{ID: e.ID, Geometry: *e.Geometry}}
}

func (c *Core) handleFocusRequested(e wm.FocusRequested) []wm.Action {
	if _, ok := c.state.Windows[e.ID]; !ok {
		return nil
	}
	c.state.FocusWindow(e.ID)
	return []wm.Action{wm.SetFocus{ID: e.ID}}
}

func (c *Core) handleOutputAdded(e wm.OutputAdded) []wm.Action {
	c.state.AddOutput(&wm.Output{
		ID:          e.ID,
		Name:        e.Name,
		Geometry:    e.Geometry,
		Scale:       1.0,
		RefreshRate: 60000,
	})
	// Workspaces that never saw an output adopt its geometry.
	for _, ws := range c.state.Workspaces {
		if ws.Geometry.IsZero() {
			ws.SetGeometry(e.Geometry)
		}
	}
	return c.relayoutActions()
}

func (c *Core) handleOutputRemoved(e wm.OutputRemoved) []wm.Action {
	c.state.RemoveOutput(e.ID)
	return nil
}

func (c *Core) handlePointerMoved(e wm.PointerMoved) []wm.Action {
	c.state.PointerX, c.state.PointerY = e.X, e.Y

	var actions []wm.Action
	if grab := c.state.Grab; grab != nil {
		if window, ok := c.state.Windows[grab.Window]; ok {
			applyGrab(window, grab, e.X-grab.InitialX, e.Y-grab.InitialY)
			actions = append(actions, wm.SetWindowGeometry{ID: grab.Window, Geometry: window.Geometry})
		}
	}

	ffm := c.state.Config.General.FocusFollowsMouse
	if (ffm == "yes" || ffm == "always") && c.state.Grab == nil {
		if id, ok := c.state.WindowAt(e.X, e.Y); ok && c.state.Focus.FocusedWindow != id {
			c.state.FocusWindow(id)
			actions = append(actions, wm.SetFocus{ID: id})
		}
	}
	return actions
}

func (c *Core) handlePointerButton(e wm.PointerButton) []wm.Action {
	px, py := c.state.PointerX, c.state.PointerY

	if e.Pressed && c.input.Modifiers().Has(input.ModSuper) {
		if id, ok := c.state.WindowAt(px, py); ok {
			if window, ok := c.state.Windows[id]; ok {
				var op state.GrabOp
				var edges wm.ResizeEdges
				switch e.Button {
				case buttonLeft:
					op = state.GrabMove
				case buttonRight, buttonMiddle:
					op = state.GrabResize
					edges = wm.EdgeFromPoint(px, py, window.Geometry)
				default:
					return nil
				}
				c.state.Grab = &state.GrabbedWindow{
					Window:          id,
					InitialGeometry: window.Geometry,
					InitialX:        px,
					InitialY:        py,
					Op:              op,
					Edges:           edges,
				}
			}
		}
	}

	// Any release ends the grab, whichever button started it.
	if !e.Pressed {
		c.state.Grab = nil
	}

	var actions []wm.Action
	if e.Pressed && e.Button == buttonLeft && c.state.Grab == nil {
		if id, ok := c.state.WindowAt(px, py); ok {
			c.state.FocusWindow(id)
			actions = append(actions, wm.SetFocus{ID: id})
		}
	}
	return actions
}

func (c *Core) handleTick() []wm.Action {
	if !c.state.NeedsLayout() {
		return nil
	}
	actions := c.relayoutActions()
	c.state.LayoutDirty = false
	c.updateWindowVisibility()
	return actions
}

// applyGrab recomputes the grabbed window's geometry from the initial
// snapshot plus the total pointer delta; it never adjusts incrementally.
// Left and top edges shift the origin so the opposite edge stays fixed.
func applyGrab(window *wm.Window, grab *state.GrabbedWindow, dx, dy float64) {
	initial := grab.InitialGeometry
	if grab.Op == state.GrabMove {
		window.Geometry.X = initial.X + int32(dx)
		window.Geometry.Y = initial.Y + int32(dy)
		return
	}
	if grab.Edges.Has(wm.EdgeRight) {
		window.Geometry.Width = clampGrabSize(int32(initial.Width) + int32(dx))
	}
	if grab.Edges.Has(wm.EdgeBottom) {
		window.Geometry.Height = clampGrabSize(int32(initial.Height) + int32(dy))
	}
	if grab.Edges.Has(wm.EdgeLeft) {
		w := clampGrabSize(int32(initial.Width) - int32(dx))
		window.Geometry.X = initial.X + int32(initial.Width) - int32(w)
		window.Geometry.Width = w
	}
	if grab.Edges.Has(wm.EdgeTop) {
		h := clampGrabSize(int32(initial.Height) - int32(dy))
		window.Geometry.Y = initial.Y + int32(initial.Height) - int32(h)
		window.Geometry.Height = h
	}
}

func clampGrabSize(v int32) uint32 {
	if v < grabMinSize {
		return grabMinSize
	}
	return uint32(v)
}
