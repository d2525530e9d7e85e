// Package core is the decision layer of the window manager. It consumes
// backend events and user commands, mutates the authoritative state and
// returns ordered action batches for the display layer to apply. The core
// performs no I/O and runs single-threaded; the hosting layer serializes
// access.
package core

import (
	"github.com/geket/lamella/internal/command"
	"github.com/geket/lamella/internal/config"
	"github.com/geket/lamella/internal/input"
	"github.com/geket/lamella/internal/rules"
	"github.com/geket/lamella/internal/state"
	"github.com/geket/lamella/internal/util"
	"github.com/geket/lamella/internal/wm"
)

// Core owns the manager state, the binding table and the compiled window
// rules. Events and commands run to completion before the next one starts.
type Core struct {
	state *state.State
	input *input.Manager
	rules []rules.Rule
	log   *util.Logger

	// Scratchpad windows currently shown on screen.
	scratchpadVisible []wm.WindowID

	nextWindowID uint64
	debugChecks  bool

	// ShouldExit is set once an exit command has run.
	ShouldExit bool
}

// New builds a core from a configuration snapshot: key and mouse bindings
// are installed into the input manager and window rules compiled once.
func New(cfg config.Config, log *util.Logger) *Core {
	c := &Core{
		state:        state.New(cfg),
		input:        input.NewManager(log),
		rules:        rules.Compile(cfg.Rules, log),
		log:          log,
		nextWindowID: 1,
	}
	c.input.LoadBindings(cfg.Bindings)
	c.input.LoadMouseBindings(cfg.MouseBindings)
	return c
}

// SetDebugChecks toggles invariant validation after every event and command.
// Violations are logged as warnings, never auto-corrected.
func (c *Core) SetDebugChecks(enabled bool) { c.debugChecks = enabled }

// NextWindowID issues a fresh window id. Backends allocate the id before
// emitting the WindowMapped event; ids are never reused.
func (c *Core) NextWindowID() wm.WindowID {
	id := wm.WindowID(c.nextWindowID)
	c.nextWindowID++
	return id
}

// HandleEvent processes one backend event and returns the actions the
// backend must apply, in order.
func (c *Core) HandleEvent(ev wm.Event) []wm.Action {
	var actions []wm.Action
	switch e := ev.(type) {
	case wm.WindowMapped:
		actions = c.handleMapped(e)
	case wm.WindowUnmapped:
		actions = c.handleUnmapped(e)
	case wm.WindowCommitted:
		actions = c.handleCommitted(e)
	case wm.FocusRequested:
		actions = c.handleFocusRequested(e)
	case wm.OutputAdded:
		actions = c.handleOutputAdded(e)
	case wm.OutputRemoved:
		actions = c.handleOutputRemoved(e)
	case wm.PointerMoved:
		actions = c.handlePointerMoved(e)
	case wm.PointerButton:
		actions = c.handlePointerButton(e)
	case wm.Tick:
		actions = c.handleTick()
	}
	c.checkInvariants("event", ev.Kind())
	return actions
}

// ExecCommand executes one command, whether it came from a keybinding, a
// window rule or the control socket.
func (c *Core) ExecCommand(cmd command.Command) []wm.Action {
	c.log.Debugf("exec: %s", cmd.CommandName())
	actions := c.executeCommand(cmd)
	c.checkInvariants("command", cmd.CommandName())
	return actions
}

// Tick runs one step of deferred work; it equals handling wm.Tick.
func (c *Core) Tick() []wm.Action {
	return c.handleTick()
}

// ReloadConfig applies a new configuration snapshot: bindings reload, rules
// recompile and a relayout is scheduled for the next tick.
func (c *Core) ReloadConfig(cfg config.Config) {
	c.input.LoadBindings(cfg.Bindings)
	c.input.LoadMouseBindings(cfg.MouseBindings)
	c.rules = rules.Compile(cfg.Rules, c.log)
	c.state.Config = cfg
	c.state.LayoutDirty = true
}

// Input exposes the input manager so the hosting layer can resolve key and
// button symbols against the binding table.
func (c *Core) Input() *input.Manager { return c.input }

// Config returns the current configuration snapshot.
func (c *Core) Config() config.Config { return c.state.Config }

// FocusedWindow returns the focused window id, when one is focused.
func (c *Core) FocusedWindow() (wm.WindowID, bool) {
	if c.state.Focus.FocusedWindow == 0 {
		return 0, false
	}
	return c.state.Focus.FocusedWindow, true
}

// FocusedWorkspace returns the focused workspace id, when one is focused.
func (c *Core) FocusedWorkspace() (wm.WorkspaceID, bool) {
	if c.state.Focus.FocusedWorkspace == 0 {
		return 0, false
	}
	return c.state.Focus.FocusedWorkspace, true
}

// Snapshot builds an inspection snapshot with the active binding mode
// filled in.
func (c *Core) Snapshot() state.Snapshot {
	snap := c.state.Snapshot()
	snap.Mode = c.input.CurrentMode()
	return snap
}

// Validate runs the state consistency checks.
func (c *Core) Validate() []state.Violation {
	return c.state.Validate()
}

func (c *Core) checkInvariants(source, kind string) {
	if !c.debugChecks {
		return
	}
	for _, v := range c.state.Validate() {
		c.log.Warnf("invariant violated after %s %s: %v", source, kind, v)
	}
}

func containsID(ids []wm.WindowID, id wm.WindowID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []wm.WindowID, id wm.WindowID) []wm.WindowID {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
