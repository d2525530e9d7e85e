// Package engine hosts the decision core. It runs the loop between a backend
// and the core, serializes core access behind one mutex, applies each action
// batch to the backend in order, and carries the host services around the
// core: dispatch history, metrics, session snapshots and configuration
// reload.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/geket/lamella/internal/backend"
	"github.com/geket/lamella/internal/command"
	"github.com/geket/lamella/internal/config"
	"github.com/geket/lamella/internal/core"
	"github.com/geket/lamella/internal/metrics"
	"github.com/geket/lamella/internal/session"
	"github.com/geket/lamella/internal/state"
	"github.com/geket/lamella/internal/util"
	"github.com/geket/lamella/internal/wm"
)

// defaultTickInterval paces the deferred-work tick that flushes pending
// relayouts.
const defaultTickInterval = 50 * time.Millisecond

// ErrNoSessionStore reports a session operation on an engine without a
// configured store.
var ErrNoSessionStore = errors.New("no session store configured")

type ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct {
	*time.Ticker
}

func (t realTicker) C() <-chan time.Time {
	return t.Ticker.C
}

func newRealTicker(interval time.Duration) ticker {
	return realTicker{time.NewTicker(interval)}
}

// SessionStore is the slice of the session archive the engine drives.
type SessionStore interface {
	Save(name string, snap state.Snapshot) (session.Record, error)
	List() ([]session.Record, error)
	Load(id string) (state.Snapshot, session.Record, error)
	LoadLatest() (state.Snapshot, session.Record, error)
	Prune(keep int) (int, error)
}

// Engine ties together the core, a backend and the host services.
type Engine struct {
	backend backend.Backend
	logger  *util.Logger
	metrics *metrics.Collector
	history *dispatchLog

	mu          sync.Mutex
	core        *core.Core
	debugChecks bool
	reloading   bool
	reloadFn    func() error
	sessions    SessionStore

	tickInterval  time.Duration
	tickerFactory func(time.Duration) ticker

	quitOnce sync.Once
	quit     chan struct{}
}

// New creates an engine around a backend and a validated configuration.
func New(b backend.Backend, cfg config.Config, logger *util.Logger) *Engine {
	return &Engine{
		backend:       b,
		logger:        logger,
		metrics:       metrics.NewCollector(true),
		history:       newDispatchLog(historyLimit),
		core:          core.New(cfg, logger),
		tickInterval:  defaultTickInterval,
		tickerFactory: newRealTicker,
		quit:          make(chan struct{}),
	}
}

// SetDebugChecks toggles invariant validation after every event and command.
func (e *Engine) SetDebugChecks(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.debugChecks = enabled
	e.core.SetDebugChecks(enabled)
}

// SetSessionStore installs the snapshot archive used by the session
// operations.
func (e *Engine) SetSessionStore(s SessionStore) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sessions = s
}

// SetReloadFunc installs the host hook that re-reads the configuration and
// feeds it back in through Reload.
func (e *Engine) SetReloadFunc(fn func() error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reloadFn = fn
}

// Run consumes backend events and periodic ticks until the context is
// cancelled, the event stream closes, or the core requests exit. One tick
// runs up front so work queued before Run flushes immediately.
func (e *Engine) Run(ctx context.Context) error {
	tick := e.tickerFactory(e.tickInterval)
	defer tick.Stop()

	e.Tick()

	events := e.backend.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.quit:
			return nil
		case <-tick.C():
			e.Tick()
		case ev, ok := <-events:
			if !ok {
				return errors.New("event stream closed")
			}
			e.HandleEvent(ev)
		}
	}
}

// HandleEvent feeds one event through the core and applies the resulting
// actions to the backend.
func (e *Engine) HandleEvent(ev wm.Event) {
	e.mu.Lock()
	actions := e.core.HandleEvent(ev)
	exit := e.core.ShouldExit
	violations := e.checkLocked()
	e.mu.Unlock()

	// Quiet ticks stay out of the counters and the history.
	_, isTick := ev.(wm.Tick)
	if !isTick || len(actions) > 0 {
		e.metrics.RecordEvent(ev.Kind())
	}
	if isTick && len(actions) > 0 {
		e.metrics.RecordRelayout()
	}
	e.metrics.RecordActions(len(actions))
	e.metrics.RecordViolations(violations)

	if len(actions) > 0 {
		e.history.add(DispatchRecord{
			Timestamp: time.Now(),
			Source:    "event:" + ev.Kind(),
			Actions:   DescribeActions(actions),
		})
	}

	e.apply(actions)
	if exit {
		e.signalQuit()
	}
}

// Exec parses and runs one command line. The returned actions have already
// been applied to the backend. Unknown commands report an error, with a
// suggestion when the input is close to a known command word.
func (e *Engine) Exec(text string) ([]wm.Action, error) {
	cmd := command.Parse(text)

	var execErr error
	if u, ok := cmd.(command.Unknown); ok {
		word, _, _ := strings.Cut(strings.TrimSpace(u.Text), " ")
		if hint := command.Suggest(word); hint != "" {
			execErr = fmt.Errorf("unknown command %q, did you mean %q", word, hint)
		} else {
			execErr = fmt.Errorf("unknown command %q", word)
		}
	}

	e.mu.Lock()
	actions := e.core.ExecCommand(cmd)
	exit := e.core.ShouldExit
	violations := e.checkLocked()
	e.mu.Unlock()

	e.metrics.RecordCommand(cmd.CommandName())
	e.metrics.RecordActions(len(actions))
	e.metrics.RecordViolations(violations)

	rec := DispatchRecord{
		Timestamp: time.Now(),
		Source:    "command:" + cmd.CommandName(),
		Actions:   DescribeActions(actions),
	}
	if execErr != nil {
		rec.Error = execErr.Error()
	}
	e.history.add(rec)

	e.apply(actions)
	if exit {
		e.signalQuit()
	}
	return actions, execErr
}

// Tick drives deferred core work such as pending relayouts.
func (e *Engine) Tick() {
	e.HandleEvent(wm.Tick{})
}

// Reload swaps in a new validated configuration: bindings reload, rules
// recompile and a relayout lands on the next tick.
func (e *Engine) Reload(cfg *config.Config) {
	e.mu.Lock()
	previous := e.core.Config()
	e.core.ReloadConfig(*cfg)
	e.mu.Unlock()

	changes := config.Diff(&previous, cfg)
	if changes.Any() {
		e.logger.Infof("config reloaded, changed: %s", changes.String())
	} else {
		e.logger.Infof("config reloaded, no effective changes")
	}
	e.history.add(DispatchRecord{Timestamp: time.Now(), Source: "reload"})
}

// ReloadNow invokes the installed reload hook. A request arriving while a
// reload is in flight is logged and skipped.
func (e *Engine) ReloadNow() {
	e.mu.Lock()
	fn := e.reloadFn
	if fn == nil {
		e.mu.Unlock()
		e.logger.Warnf("reload requested but no reload hook installed")
		return
	}
	if e.reloading {
		e.mu.Unlock()
		e.logger.Warnf("reload already in progress, skipping nested request")
		return
	}
	e.reloading = true
	e.mu.Unlock()

	err := fn()

	e.mu.Lock()
	e.reloading = false
	e.mu.Unlock()

	if err != nil {
		e.logger.Errorf("reload failed: %v", err)
	}
}

// RunStartup spawns the configured startup commands. With alwaysOnly set
// only entries marked always run, which is the reload behavior.
func (e *Engine) RunStartup(entries []config.Startup, alwaysOnly bool) {
	for _, s := range entries {
		if alwaysOnly && !s.Always {
			continue
		}
		e.logger.Infof("startup: %s", s.Command)
		e.history.add(DispatchRecord{
			Timestamp: time.Now(),
			Source:    "startup",
			Actions:   []string{DescribeAction(wm.SpawnProcess{Command: s.Command})},
		})
		e.apply([]wm.Action{wm.SpawnProcess{Command: s.Command}})
	}
}

// Snapshot returns a decoupled copy of the core state.
func (e *Engine) Snapshot() state.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.core.Snapshot()
}

// Validate runs the core consistency checks.
func (e *Engine) Validate() []state.Violation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.core.Validate()
}

// Config returns the running configuration.
func (e *Engine) Config() config.Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.core.Config()
}

// Metrics returns the counter snapshot.
func (e *Engine) Metrics() metrics.Snapshot {
	return e.metrics.Snapshot()
}

// History returns recent dispatches, oldest first.
func (e *Engine) History() []DispatchRecord {
	return e.history.records()
}

// SetMode switches the binding mode.
func (e *Engine) SetMode(name string) error {
	e.mu.Lock()
	ok := e.core.Input().SetMode(name)
	e.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown mode %q", name)
	}
	e.metrics.RecordCommand("mode")
	e.logger.Infof("mode: %s", name)
	return nil
}

// Mode returns the active binding mode and the known mode names.
func (e *Engine) Mode() (string, []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.core.Input().CurrentMode(), e.core.Input().Modes()
}

// SaveSession stores the current state snapshot under the given name.
func (e *Engine) SaveSession(name string) (session.Record, error) {
	e.mu.Lock()
	store := e.sessions
	var snap state.Snapshot
	if store != nil {
		snap = e.core.Snapshot()
	}
	e.mu.Unlock()

	if store == nil {
		return session.Record{}, ErrNoSessionStore
	}
	rec, err := store.Save(name, snap)
	if err != nil {
		return session.Record{}, err
	}
	e.logger.Infof("session saved: %s (%s)", rec.Name, rec.ID)
	e.history.add(DispatchRecord{Timestamp: time.Now(), Source: "session:save"})
	return rec, nil
}

// Sessions lists the stored sessions, newest first.
func (e *Engine) Sessions() ([]session.Record, error) {
	e.mu.Lock()
	store := e.sessions
	e.mu.Unlock()
	if store == nil {
		return nil, ErrNoSessionStore
	}
	return store.List()
}

// RestoreSession reapplies a stored arrangement to the live state. An empty
// id restores the most recent session. Restoration runs through ordinary
// focus events and commands against windows matched by app id and title; it
// never writes core state directly. It returns the restored record and the
// commands that ran.
func (e *Engine) RestoreSession(id string) (session.Record, []string, error) {
	e.mu.Lock()
	store := e.sessions
	e.mu.Unlock()
	if store == nil {
		return session.Record{}, nil, ErrNoSessionStore
	}

	var (
		saved state.Snapshot
		rec   session.Record
		err   error
	)
	if id == "" {
		saved, rec, err = store.LoadLatest()
	} else {
		saved, rec, err = store.Load(id)
	}
	if err != nil {
		return session.Record{}, nil, err
	}

	e.mu.Lock()
	live := e.core.Snapshot()
	plan := restorePlan(saved, live)
	var actions []wm.Action
	commands := make([]string, 0, len(plan))
	for _, step := range plan {
		if step.focus != 0 {
			actions = append(actions, e.core.HandleEvent(wm.FocusRequested{ID: step.focus})...)
		}
		if step.command != "" {
			actions = append(actions, e.core.ExecCommand(command.Parse(step.command))...)
			commands = append(commands, step.command)
		}
	}
	// Flush the relayout the restore commands queued.
	actions = append(actions, e.core.Tick()...)
	violations := e.checkLocked()
	e.mu.Unlock()

	e.metrics.RecordActions(len(actions))
	e.metrics.RecordViolations(violations)
	e.history.add(DispatchRecord{
		Timestamp: time.Now(),
		Source:    "session:restore",
		Actions:   DescribeActions(actions),
	})
	e.apply(actions)
	e.logger.Infof("session restored: %s (%d commands)", rec.Name, len(commands))
	return rec, commands, nil
}

// PruneSessions deletes all but the newest keep sessions.
func (e *Engine) PruneSessions(keep int) (int, error) {
	e.mu.Lock()
	store := e.sessions
	e.mu.Unlock()
	if store == nil {
		return 0, ErrNoSessionStore
	}
	deleted, err := store.Prune(keep)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		e.logger.Infof("pruned %d sessions, kept %d", deleted, keep)
	}
	return deleted, nil
}

// checkLocked counts invariant violations when debug checks are on. The core
// logs each violation itself; the caller holds e.mu.
func (e *Engine) checkLocked() int {
	if !e.debugChecks {
		return 0
	}
	return len(e.core.Validate())
}

// apply hands each action to the backend in batch order. Reload and exit
// also trigger their host-side handling. Caller must not hold e.mu.
func (e *Engine) apply(actions []wm.Action) {
	for _, act := range actions {
		if err := e.backend.Apply(act); err != nil {
			e.logger.Errorf("apply %s: %v", act.Kind(), err)
		}
		switch act.(type) {
		case wm.ReloadConfig:
			e.ReloadNow()
		case wm.Exit:
			e.signalQuit()
		}
	}
}

func (e *Engine) signalQuit() {
	e.quitOnce.Do(func() { close(e.quit) })
}
