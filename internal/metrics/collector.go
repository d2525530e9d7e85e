package metrics

import (
	"sort"
	"sync"
	"time"
)

// Collector aggregates runtime counters: events handled, commands executed,
// actions emitted. Collection is opt-in and a nil collector is a no-op, so
// callers never guard their recording sites.
type Collector struct {
	mu      sync.RWMutex
	enabled bool
	started time.Time

	events     map[string]uint64
	commands   map[string]uint64
	actions    uint64
	relayouts  uint64
	violations uint64
}

// KindCount is one named counter in a snapshot.
type KindCount struct {
	Kind  string `json:"kind"`
	Count uint64 `json:"count"`
}

// Totals aggregates counters across all kinds in a snapshot.
type Totals struct {
	Events     uint64 `json:"events"`
	Commands   uint64 `json:"commands"`
	Actions    uint64 `json:"actions"`
	Relayouts  uint64 `json:"relayouts"`
	Violations uint64 `json:"violations"`
}

// Snapshot is the serializable view of the current metrics state.
type Snapshot struct {
	Enabled  bool        `json:"enabled"`
	Started  time.Time   `json:"started,omitempty"`
	Totals   Totals      `json:"totals"`
	Events   []KindCount `json:"events,omitempty"`
	Commands []KindCount `json:"commands,omitempty"`
}

// NewCollector returns a collector with the provided opt-in state.
func NewCollector(enabled bool) *Collector {
	c := &Collector{}
	c.SetEnabled(enabled)
	return c
}

// Enabled reports whether collection is currently active.
func (c *Collector) Enabled() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// SetEnabled toggles collection, resetting counters when enabling.
func (c *Collector) SetEnabled(enabled bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enabled == enabled {
		return
	}
	c.enabled = enabled
	if !enabled {
		c.events = nil
		c.commands = nil
		c.actions = 0
		c.relayouts = 0
		c.violations = 0
		c.started = time.Time{}
		return
	}
	c.started = time.Now()
	c.events = make(map[string]uint64)
	c.commands = make(map[string]uint64)
}

// RecordEvent counts one handled event by kind.
func (c *Collector) RecordEvent(kind string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	if c.events == nil {
		c.events = make(map[string]uint64)
	}
	c.events[kind]++
}

// RecordCommand counts one executed command by name.
func (c *Collector) RecordCommand(name string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	if c.commands == nil {
		c.commands = make(map[string]uint64)
	}
	c.commands[name]++
}

// RecordActions counts emitted actions.
func (c *Collector) RecordActions(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	c.actions += uint64(n)
}

// RecordRelayout counts one layout recomputation.
func (c *Collector) RecordRelayout() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	c.relayouts++
}

// RecordViolations counts reported invariant violations.
func (c *Collector) RecordViolations(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	c.violations += uint64(n)
}

// Snapshot returns the current counters for serialization or display.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := Snapshot{Enabled: c.enabled}
	if !c.enabled {
		return snap
	}
	snap.Started = c.started
	snap.Totals = Totals{
		Actions:    c.actions,
		Relayouts:  c.relayouts,
		Violations: c.violations,
	}
	snap.Events = kindCounts(c.events)
	snap.Commands = kindCounts(c.commands)
	for _, kc := range snap.Events {
		snap.Totals.Events += kc.Count
	}
	for _, kc := range snap.Commands {
		snap.Totals.Commands += kc.Count
	}
	return snap
}

func kindCounts(m map[string]uint64) []KindCount {
	if len(m) == 0 {
		return nil
	}
	out := make([]KindCount, 0, len(m))
	for kind, count := range m {
		out = append(out, KindCount{Kind: kind, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}
