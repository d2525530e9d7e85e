package backend

import (
	"fmt"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/geket/lamella/internal/util"
	"github.com/geket/lamella/internal/wm"
)

// eventBuffer bounds the headless event queue. Injection drops with a
// warning once the consumer falls this far behind.
const eventBuffer = 256

// Headless is a backend with no display underneath. It records every action
// it is asked to apply and keeps the geometry, focus and workspace
// bookkeeping a real display layer would hold. The same type serves as the
// engine's test double, the smoke-test substrate and the dry-run backend.
type Headless struct {
	log    *util.Logger
	dryRun bool

	events chan wm.Event
	nextID atomic.Uint64

	mu       sync.Mutex
	closed   bool
	applied  []wm.Action
	geometry map[wm.WindowID]wm.Geometry
	floating map[wm.WindowID]bool
	focused  wm.WindowID
	active   wm.WorkspaceID
	spawned  []string
}

var _ Backend = (*Headless)(nil)

// NewHeadless creates a headless backend. With dryRun set, spawn actions are
// recorded and logged but no process is started.
func NewHeadless(log *util.Logger, dryRun bool) *Headless {
	return &Headless{
		log:      log,
		dryRun:   dryRun,
		events:   make(chan wm.Event, eventBuffer),
		geometry: make(map[wm.WindowID]wm.Geometry),
		floating: make(map[wm.WindowID]bool),
	}
}

// Events returns the injected event stream.
func (h *Headless) Events() <-chan wm.Event {
	return h.events
}

// Inject queues an event for the engine. It reports false when the backend
// is closed or the queue is full.
func (h *Headless) Inject(ev wm.Event) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	select {
	case h.events <- ev:
		return true
	default:
		h.log.Warnf("headless: event queue full, dropping %s", ev.Kind())
		return false
	}
}

// NextWindowID mints a fresh identifier for injected map events.
func (h *Headless) NextWindowID() wm.WindowID {
	return wm.WindowID(h.nextID.Add(1))
}

// Apply records the action and updates the display bookkeeping. Spawn
// requests start a real process unless the backend is in dry-run mode.
func (h *Headless) Apply(action wm.Action) error {
	h.mu.Lock()
	h.applied = append(h.applied, action)
	switch a := action.(type) {
	case wm.SetWindowGeometry:
		h.geometry[a.ID] = a.Geometry
	case wm.SetFocus:
		h.focused = a.ID
	case wm.SetFloating:
		h.floating[a.ID] = a.Floating
	case wm.WorkspaceChanged:
		h.active = a.Active
	case wm.SpawnProcess:
		h.spawned = append(h.spawned, a.Command)
	}
	h.mu.Unlock()

	if a, ok := action.(wm.SpawnProcess); ok {
		return h.spawn(a.Command)
	}
	return nil
}

func (h *Headless) spawn(command string) error {
	if h.dryRun {
		h.log.Infof("dry-run: spawn %q", command)
		return nil
	}
	cmd := exec.Command("/bin/sh", "-c", command)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn %q: %w", command, err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			h.log.Debugf("spawned %q exited: %v", command, err)
		}
	}()
	return nil
}

// TakeActions drains and returns the actions applied since the last call.
func (h *Headless) TakeActions() []wm.Action {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.applied
	h.applied = nil
	return out
}

// WindowGeometry returns the last geometry applied for the window.
func (h *Headless) WindowGeometry(id wm.WindowID) (wm.Geometry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	geo, ok := h.geometry[id]
	return geo, ok
}

// FocusedWindow returns the last focus target, zero when focus was cleared.
func (h *Headless) FocusedWindow() wm.WindowID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.focused
}

// ActiveWorkspace returns the last announced workspace.
func (h *Headless) ActiveWorkspace() wm.WorkspaceID {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// Floating reports the last floating state applied for the window.
func (h *Headless) Floating(id wm.WindowID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.floating[id]
}

// SpawnedCommands returns every spawn request seen, in order.
func (h *Headless) SpawnedCommands() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.spawned...)
}

// Close ends the event stream. Later Inject calls report false.
func (h *Headless) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.closed = true
	close(h.events)
	return nil
}
