package engine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/geket/lamella/internal/backend"
	"github.com/geket/lamella/internal/config"
	"github.com/geket/lamella/internal/session"
	"github.com/geket/lamella/internal/state"
	"github.com/geket/lamella/internal/util"
	"github.com/geket/lamella/internal/wm"
)

type manualTicker struct {
	ch chan time.Time
}

func newManualTicker() *manualTicker {
	return &manualTicker{ch: make(chan time.Time, 1)}
}

func (t *manualTicker) C() <-chan time.Time {
	return t.ch
}

func (t *manualTicker) Stop() {}

func (t *manualTicker) Tick() {
	t.ch <- time.Now()
}

// failingBackend fails every Apply of one action kind.
type failingBackend struct {
	*backend.Headless
	failKind string
}

func (f *failingBackend) Apply(act wm.Action) error {
	if act.Kind() == f.failKind {
		return errors.New("apply refused")
	}
	return f.Headless.Apply(act)
}

// memoryStore is an in-memory SessionStore for engine tests; the SQLite
// implementation has its own tests.
type memoryStore struct {
	records   []session.Record
	snapshots map[string]state.Snapshot
}

func newMemoryStore() *memoryStore {
	return &memoryStore{snapshots: make(map[string]state.Snapshot)}
}

func (m *memoryStore) Save(name string, snap state.Snapshot) (session.Record, error) {
	rec := session.Record{ID: uuid.NewString(), Name: name, CreatedAt: time.Now()}
	m.records = append(m.records, rec)
	m.snapshots[rec.ID] = snap
	return rec, nil
}

func (m *memoryStore) List() ([]session.Record, error) {
	out := make([]session.Record, len(m.records))
	for i := range m.records {
		out[len(m.records)-1-i] = m.records[i]
	}
	return out, nil
}

func (m *memoryStore) Load(id string) (state.Snapshot, session.Record, error) {
	for _, rec := range m.records {
		if rec.ID == id {
			return m.snapshots[id], rec, nil
		}
	}
	return state.Snapshot{}, session.Record{}, session.ErrNotFound
}

func (m *memoryStore) LoadLatest() (state.Snapshot, session.Record, error) {
	if len(m.records) == 0 {
		return state.Snapshot{}, session.Record{}, session.ErrNotFound
	}
	rec := m.records[len(m.records)-1]
	return m.snapshots[rec.ID], rec, nil
}

func (m *memoryStore) Prune(keep int) (int, error) {
	if keep >= len(m.records) {
		return 0, nil
	}
	deleted := len(m.records) - keep
	for _, rec := range m.records[:deleted] {
		delete(m.snapshots, rec.ID)
	}
	m.records = m.records[deleted:]
	return deleted, nil
}

func newTestEngine(t *testing.T) (*Engine, *backend.Headless) {
	t.Helper()
	logger := util.NewLogger(util.LevelError)
	b := backend.NewHeadless(logger, true)
	t.Cleanup(func() { b.Close() })
	eng := New(b, config.Default(), logger)
	return eng, b
}

func addOutput(eng *Engine) {
	eng.HandleEvent(wm.OutputAdded{
		ID:       1,
		Name:     "HEADLESS-1",
		Geometry: wm.Geometry{Width: 1920, Height: 1080},
	})
}

func mapWindow(eng *Engine, b *backend.Headless, appID, title string) wm.WindowID {
	id := b.NextWindowID()
	eng.HandleEvent(wm.WindowMapped{ID: id, AppID: appID, Title: title})
	return id
}

func waitForCondition(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func hasActionKind(actions []wm.Action, kind string) bool {
	for _, act := range actions {
		if act.Kind() == kind {
			return true
		}
	}
	return false
}

func TestHandleEventMapsAndTilesWindow(t *testing.T) {
	eng, b := newTestEngine(t)
	addOutput(eng)

	id := mapWindow(eng, b, "term", "shell")

	if got := b.FocusedWindow(); got != id {
		t.Fatalf("backend focus = %s, want %s", got, id)
	}
	geo, ok := b.WindowGeometry(id)
	if !ok {
		t.Fatalf("backend saw no geometry for %s", id)
	}
	if geo.Width == 0 || geo.Height == 0 {
		t.Fatalf("window got a degenerate geometry: %+v", geo)
	}

	snap := eng.Snapshot()
	if len(snap.Windows) != 1 || snap.Windows[0].ID != id {
		t.Fatalf("snapshot windows = %+v", snap.Windows)
	}
	if snap.FocusedWindow != id {
		t.Fatalf("snapshot focus = %s, want %s", snap.FocusedWindow, id)
	}
}

func TestTilingSplitsBetweenTwoWindows(t *testing.T) {
	eng, b := newTestEngine(t)
	addOutput(eng)

	first := mapWindow(eng, b, "term", "one")
	second := mapWindow(eng, b, "term", "two")

	geoFirst, ok := b.WindowGeometry(first)
	if !ok {
		t.Fatalf("no geometry for first window")
	}
	geoSecond, ok := b.WindowGeometry(second)
	if !ok {
		t.Fatalf("no geometry for second window")
	}
	if geoFirst.Intersects(geoSecond) {
		t.Fatalf("tiled windows overlap: %+v vs %+v", geoFirst, geoSecond)
	}
	if geoFirst.Width >= 1920 || geoSecond.Width >= 1920 {
		t.Fatalf("windows did not split the output: %+v, %+v", geoFirst, geoSecond)
	}
}

func TestExecSpawnRecordsInDryRun(t *testing.T) {
	eng, b := newTestEngine(t)

	actions, err := eng.Exec("exec foot --app-id term")
	if err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}
	if !hasActionKind(actions, "spawn_process") {
		t.Fatalf("expected a spawn action, got %v", DescribeActions(actions))
	}
	spawned := b.SpawnedCommands()
	if len(spawned) != 1 || spawned[0] != "foot --app-id term" {
		t.Fatalf("unexpected spawn record: %v", spawned)
	}
}

func TestExecUnknownCommandSuggests(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.Exec("focsu left")
	if err == nil {
		t.Fatalf("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `"focus"`) {
		t.Fatalf("expected a focus suggestion, got %v", err)
	}

	history := eng.History()
	if len(history) == 0 {
		t.Fatalf("expected a history entry")
	}
	last := history[len(history)-1]
	if last.Source != "command:unknown" {
		t.Fatalf("history source = %q", last.Source)
	}
	if last.Error == "" {
		t.Fatalf("history entry lost the error")
	}
}

func TestExecUnknownWithoutSuggestion(t *testing.T) {
	eng, _ := newTestEngine(t)

	_, err := eng.Exec("zzzzzzzzzz")
	if err == nil {
		t.Fatalf("expected error for unknown command")
	}
	if strings.Contains(err.Error(), "did you mean") {
		t.Fatalf("expected no suggestion, got %v", err)
	}
}

func TestGapsCommandRelayoutsImmediately(t *testing.T) {
	eng, b := newTestEngine(t)
	addOutput(eng)
	id := mapWindow(eng, b, "term", "shell")

	if _, err := eng.Exec("gaps outer set 50"); err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}

	geo, ok := b.WindowGeometry(id)
	if !ok {
		t.Fatalf("no geometry after relayout")
	}
	if geo.X != 50 || geo.Y != 50 {
		t.Fatalf("outer gap not applied: %+v", geo)
	}
}

func TestTickFlushesReloadRelayout(t *testing.T) {
	eng, b := newTestEngine(t)
	addOutput(eng)
	id := mapWindow(eng, b, "term", "shell")

	next := config.Default()
	next.Gaps.Outer = 50
	eng.Reload(&next)

	// Reload queues the relayout; only the tick emits it.
	geo, _ := b.WindowGeometry(id)
	if geo.X == 50 {
		t.Fatalf("relayout ran before the tick")
	}
	eng.Tick()

	geo, ok := b.WindowGeometry(id)
	if !ok || geo.X != 50 || geo.Y != 50 {
		t.Fatalf("tick did not apply the reloaded gaps: %+v", geo)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	eng, _ := newTestEngine(t)
	mt := newManualTicker()
	eng.tickerFactory = func(time.Duration) ticker { return mt }

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- eng.Run(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop on cancel")
	}
}

func TestRunStopsWhenEventStreamCloses(t *testing.T) {
	eng, b := newTestEngine(t)
	mt := newManualTicker()
	eng.tickerFactory = func(time.Duration) ticker { return mt }

	errCh := make(chan error, 1)
	go func() { errCh <- eng.Run(context.Background()) }()

	b.Close()
	select {
	case err := <-errCh:
		if err == nil || !strings.Contains(err.Error(), "event stream closed") {
			t.Fatalf("Run returned %v, want event stream closed", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop on closed stream")
	}
}

func TestRunStopsOnExitCommand(t *testing.T) {
	eng, _ := newTestEngine(t)
	mt := newManualTicker()
	eng.tickerFactory = func(time.Duration) ticker { return mt }

	errCh := make(chan error, 1)
	go func() { errCh <- eng.Run(context.Background()) }()

	if _, err := eng.Exec("exit"); err != nil {
		t.Fatalf("Exec exit returned error: %v", err)
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("Run returned %v after exit, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after exit")
	}
}

func TestRunDeliversInjectedEvents(t *testing.T) {
	eng, b := newTestEngine(t)
	mt := newManualTicker()
	eng.tickerFactory = func(time.Duration) ticker { return mt }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- eng.Run(ctx) }()

	b.Inject(wm.OutputAdded{ID: 1, Name: "HEADLESS-1", Geometry: wm.Geometry{Width: 1280, Height: 720}})
	id := b.NextWindowID()
	b.Inject(wm.WindowMapped{ID: id, AppID: "term", Title: "shell"})

	waitForCondition(t, 2*time.Second, func() bool {
		_, ok := b.WindowGeometry(id)
		return ok
	})

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v", err)
	}
}

func TestRunTickerDrivesRelayout(t *testing.T) {
	eng, b := newTestEngine(t)
	mt := newManualTicker()
	eng.tickerFactory = func(time.Duration) ticker { return mt }

	addOutput(eng)
	id := mapWindow(eng, b, "term", "shell")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- eng.Run(ctx) }()

	next := config.Default()
	next.Gaps.Outer = 40
	eng.Reload(&next)
	mt.Tick()

	waitForCondition(t, 2*time.Second, func() bool {
		geo, ok := b.WindowGeometry(id)
		return ok && geo.X == 40
	})

	cancel()
	<-errCh
}

func TestApplyErrorIsLoggedAndSkipped(t *testing.T) {
	var logs bytes.Buffer
	logger := util.NewLoggerWithWriter(util.LevelError, &logs)
	b := backend.NewHeadless(logger, true)
	defer b.Close()
	fb := &failingBackend{Headless: b, failKind: "set_focus"}
	eng := New(fb, config.Default(), logger)
	addOutput(eng)

	id := mapWindow(eng, fb.Headless, "term", "shell")

	// Focus failed but the geometry from the same batch still landed.
	if _, ok := b.WindowGeometry(id); !ok {
		t.Fatalf("geometry should apply despite earlier failure")
	}
	if !strings.Contains(logs.String(), "apply set_focus") {
		t.Fatalf("expected apply error in log, got %q", logs.String())
	}
}

func TestReloadSwapsConfigAndLogsChanges(t *testing.T) {
	var logs bytes.Buffer
	logger := util.NewLoggerWithWriter(util.LevelInfo, &logs)
	b := backend.NewHeadless(logger, true)
	defer b.Close()
	eng := New(b, config.Default(), logger)

	next := config.Default()
	next.Gaps.Inner = 42
	eng.Reload(&next)

	if got := eng.Config().Gaps.Inner; got != 42 {
		t.Fatalf("Config().Gaps.Inner = %d, want 42", got)
	}
	if !strings.Contains(logs.String(), "config reloaded, changed: gaps") {
		t.Fatalf("expected gaps change in log, got %q", logs.String())
	}
}

func TestReloadCommandInvokesHook(t *testing.T) {
	eng, _ := newTestEngine(t)

	calls := 0
	eng.SetReloadFunc(func() error {
		calls++
		next := config.Default()
		next.Gaps.Outer = 7
		eng.Reload(&next)
		return nil
	})

	if _, err := eng.Exec("reload"); err != nil {
		t.Fatalf("Exec reload returned error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("reload hook ran %d times, want 1", calls)
	}
	if got := eng.Config().Gaps.Outer; got != 7 {
		t.Fatalf("Config().Gaps.Outer = %d, want 7", got)
	}
}

func TestReloadWithoutHookWarns(t *testing.T) {
	var logs bytes.Buffer
	logger := util.NewLoggerWithWriter(util.LevelWarn, &logs)
	b := backend.NewHeadless(logger, true)
	defer b.Close()
	eng := New(b, config.Default(), logger)

	if _, err := eng.Exec("reload"); err != nil {
		t.Fatalf("Exec reload returned error: %v", err)
	}
	if !strings.Contains(logs.String(), "no reload hook") {
		t.Fatalf("expected missing-hook warning, got %q", logs.String())
	}
}

func TestRunStartupSpawnsCommands(t *testing.T) {
	eng, b := newTestEngine(t)

	entries := []config.Startup{
		{Command: "swaybg -i wall.png", Always: false},
		{Command: "waybar", Always: true},
	}
	eng.RunStartup(entries, false)
	if got := b.SpawnedCommands(); len(got) != 2 {
		t.Fatalf("startup spawned %d commands, want 2", len(got))
	}

	eng.RunStartup(entries, true)
	got := b.SpawnedCommands()
	if len(got) != 3 || got[2] != "waybar" {
		t.Fatalf("always-only startup spawned %v", got)
	}
}

func TestHistoryRecordsDispatches(t *testing.T) {
	eng, b := newTestEngine(t)
	addOutput(eng)
	mapWindow(eng, b, "term", "shell")

	if _, err := eng.Exec("fullscreen enable"); err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}

	history := eng.History()
	if len(history) < 2 {
		t.Fatalf("expected map and command history, got %d entries", len(history))
	}
	var sawMap, sawCommand bool
	for _, rec := range history {
		switch rec.Source {
		case "event:window_mapped":
			sawMap = true
		case "command:fullscreen":
			sawCommand = true
			if len(rec.Actions) == 0 {
				t.Fatalf("command entry lost its actions")
			}
		}
	}
	if !sawMap || !sawCommand {
		t.Fatalf("history missing entries: %+v", history)
	}
}

func TestDispatchLogWrapsAtCapacity(t *testing.T) {
	l := newDispatchLog(3)
	for i := 0; i < 5; i++ {
		l.add(DispatchRecord{Source: fmt.Sprintf("entry-%d", i)})
	}
	records := l.records()
	if len(records) != 3 {
		t.Fatalf("ring kept %d records, want 3", len(records))
	}
	for i, want := range []string{"entry-2", "entry-3", "entry-4"} {
		if records[i].Source != want {
			t.Fatalf("records[%d].Source = %q, want %q", i, records[i].Source, want)
		}
	}
}

func TestMetricsCountEventsAndCommands(t *testing.T) {
	eng, b := newTestEngine(t)
	addOutput(eng)
	mapWindow(eng, b, "term", "shell")
	if _, err := eng.Exec("fullscreen enable"); err != nil {
		t.Fatalf("Exec returned error: %v", err)
	}
	eng.Tick()

	snap := eng.Metrics()
	if !snap.Enabled {
		t.Fatalf("metrics should be enabled")
	}
	if snap.Totals.Events < 2 {
		t.Fatalf("Totals.Events = %d, want at least 2", snap.Totals.Events)
	}
	if snap.Totals.Commands != 1 {
		t.Fatalf("Totals.Commands = %d, want 1", snap.Totals.Commands)
	}
	if snap.Totals.Actions == 0 {
		t.Fatalf("Totals.Actions = 0")
	}

	var sawFullscreen bool
	for _, kc := range snap.Commands {
		if kc.Kind == "fullscreen" && kc.Count == 1 {
			sawFullscreen = true
		}
	}
	if !sawFullscreen {
		t.Fatalf("command counters missing fullscreen: %+v", snap.Commands)
	}
}

func TestSetModeValidatesName(t *testing.T) {
	eng, _ := newTestEngine(t)

	if err := eng.SetMode("gaming"); err == nil {
		t.Fatalf("expected error for unconfigured mode")
	}
	if err := eng.SetMode("resize"); err != nil {
		t.Fatalf("SetMode(resize) returned error: %v", err)
	}
	current, available := eng.Mode()
	if current != "resize" {
		t.Fatalf("current mode = %q", current)
	}
	want := []string{"default", "resize"}
	if diff := cmp.Diff(want, available); diff != "" {
		t.Fatalf("available modes mismatch (-want +got):\n%s", diff)
	}
	if err := eng.SetMode("default"); err != nil {
		t.Fatalf("SetMode(default) returned error: %v", err)
	}
}

func TestSessionOperationsWithoutStore(t *testing.T) {
	eng, _ := newTestEngine(t)

	if _, err := eng.SaveSession("x"); !errors.Is(err, ErrNoSessionStore) {
		t.Fatalf("SaveSession returned %v", err)
	}
	if _, err := eng.Sessions(); !errors.Is(err, ErrNoSessionStore) {
		t.Fatalf("Sessions returned %v", err)
	}
	if _, _, err := eng.RestoreSession(""); !errors.Is(err, ErrNoSessionStore) {
		t.Fatalf("RestoreSession returned %v", err)
	}
	if _, err := eng.PruneSessions(1); !errors.Is(err, ErrNoSessionStore) {
		t.Fatalf("PruneSessions returned %v", err)
	}
}

func TestSessionSaveRestoreRoundTrip(t *testing.T) {
	store := newMemoryStore()

	// First run: arrange two windows, mark and float the browser, then save.
	eng, b := newTestEngine(t)
	eng.SetSessionStore(store)
	addOutput(eng)
	mapWindow(eng, b, "term", "shell")
	browser := mapWindow(eng, b, "browser", "docs")

	eng.HandleEvent(wm.FocusRequested{ID: browser})
	for _, cmd := range []string{"floating enable", "mark web"} {
		if _, err := eng.Exec(cmd); err != nil {
			t.Fatalf("Exec(%q) returned error: %v", cmd, err)
		}
	}
	rec, err := eng.SaveSession("arranged")
	if err != nil {
		t.Fatalf("SaveSession returned error: %v", err)
	}

	// Second run: same applications map as plain tiled windows.
	eng2, b2 := newTestEngine(t)
	eng2.SetSessionStore(store)
	addOutput(eng2)
	mapWindow(eng2, b2, "term", "shell")
	browser2 := mapWindow(eng2, b2, "browser", "docs")

	restored, commands, err := eng2.RestoreSession(rec.ID)
	if err != nil {
		t.Fatalf("RestoreSession returned error: %v", err)
	}
	if restored.ID != rec.ID {
		t.Fatalf("restored record %q, want %q", restored.ID, rec.ID)
	}
	if len(commands) == 0 {
		t.Fatalf("restore ran no commands")
	}

	snap := eng2.Snapshot()
	win := snap.Window(browser2)
	if win == nil {
		t.Fatalf("browser window missing after restore")
	}
	if !win.Floating {
		t.Fatalf("browser did not regain floating state")
	}
	if !hasMark(win.Marks, "web") {
		t.Fatalf("browser did not regain mark, has %v", win.Marks)
	}
	if snap.FocusedWindow != browser2 {
		t.Fatalf("focus = %s, want %s", snap.FocusedWindow, browser2)
	}
}

func TestRestoreLatestWhenIDEmpty(t *testing.T) {
	store := newMemoryStore()
	eng, b := newTestEngine(t)
	eng.SetSessionStore(store)
	addOutput(eng)
	mapWindow(eng, b, "term", "shell")

	if _, err := eng.SaveSession("first"); err != nil {
		t.Fatalf("SaveSession returned error: %v", err)
	}
	if _, err := eng.SaveSession("second"); err != nil {
		t.Fatalf("SaveSession returned error: %v", err)
	}

	rec, _, err := eng.RestoreSession("")
	if err != nil {
		t.Fatalf("RestoreSession returned error: %v", err)
	}
	if rec.Name != "second" {
		t.Fatalf("restored %q, want the latest", rec.Name)
	}
}

func TestRestorePlanMatchesByIdentity(t *testing.T) {
	saved := state.Snapshot{
		Windows: []state.WindowInfo{
			{ID: 10, AppID: "term", Title: "shell", Workspace: 2},
			{ID: 11, AppID: "browser", Title: "docs", Workspace: 1, Floating: true, Marks: []string{"web"}},
			{ID: 12, AppID: "gone", Title: "nope", Workspace: 1},
		},
		Workspaces: []state.WorkspaceInfo{
			{ID: 1, Name: "1"},
			{ID: 2, Name: "2"},
		},
		FocusedWindow:   11,
		ActiveWorkspace: 2,
	}
	live := state.Snapshot{
		Windows: []state.WindowInfo{
			{ID: 1, AppID: "term", Title: "shell", Workspace: 1},
			{ID: 2, AppID: "browser", Title: "docs", Workspace: 1},
		},
		Workspaces: []state.WorkspaceInfo{
			{ID: 1, Name: "1"},
			{ID: 2, Name: "2"},
		},
	}

	steps := restorePlan(saved, live)
	if len(steps) == 0 {
		t.Fatalf("expected a restore plan")
	}

	var commands []string
	for _, step := range steps {
		if step.command != "" {
			commands = append(commands, step.command)
		}
	}
	want := []string{
		"move container to workspace 2",
		"floating enable",
		"mark web",
		"workspace 2",
	}
	if len(commands) != len(want) {
		t.Fatalf("plan commands = %v, want %v", commands, want)
	}
	for i := range want {
		if commands[i] != want[i] {
			t.Fatalf("commands[%d] = %q, want %q", i, commands[i], want[i])
		}
	}

	// The move targets the matched live terminal, not the saved id.
	if steps[0].focus != 1 {
		t.Fatalf("first step focuses %s, want win:1", steps[0].focus)
	}
	// The plan ends by refocusing the saved focused window's live match.
	last := steps[len(steps)-1]
	if last.focus != 2 || last.command != "" {
		t.Fatalf("last step = %+v, want focus win:2", last)
	}
}

func TestRestorePlanEmptyWhenStatesMatch(t *testing.T) {
	snap := state.Snapshot{
		Windows: []state.WindowInfo{
			{ID: 1, AppID: "term", Title: "shell", Workspace: 1},
		},
		Workspaces: []state.WorkspaceInfo{{ID: 1, Name: "1"}},
	}
	steps := restorePlan(snap, snap)
	for _, step := range steps {
		if step.command != "" {
			t.Fatalf("matching states still produced command %q", step.command)
		}
	}
}
