package control

import (
	"encoding/json"
	"io"
	"net"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/geket/lamella/internal/backend"
	"github.com/geket/lamella/internal/config"
	"github.com/geket/lamella/internal/engine"
	"github.com/geket/lamella/internal/session"
	"github.com/geket/lamella/internal/state"
	"github.com/geket/lamella/internal/util"
	"github.com/geket/lamella/internal/wm"
)

func newTestServer(t *testing.T) (*Server, *engine.Engine, *backend.Headless) {
	t.Helper()
	logger := util.NewLoggerWithWriter(util.LevelError, io.Discard)
	b := backend.NewHeadless(logger, true)
	t.Cleanup(func() { b.Close() })
	eng := engine.New(b, config.Default(), logger)
	srv := NewServer(eng, logger, filepath.Join(t.TempDir(), "control.sock"), "test", nil)
	return srv, eng, b
}

func addOutput(eng *engine.Engine) {
	eng.HandleEvent(wm.OutputAdded{
		ID:       1,
		Name:     "HEADLESS-1",
		Geometry: wm.Geometry{Width: 1920, Height: 1080},
	})
}

func mapWindow(eng *engine.Engine, b *backend.Headless, appID, title string) wm.WindowID {
	id := b.NextWindowID()
	eng.HandleEvent(wm.WindowMapped{ID: id, AppID: appID, Title: title})
	return id
}

func roundTrip(t *testing.T, srv *Server, req Request) Response {
	t.Helper()
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()

	var resp Response
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := json.NewEncoder(clientConn).Encode(req); err != nil {
			t.Errorf("encode request: %v", err)
			return
		}
		if err := json.NewDecoder(clientConn).Decode(&resp); err != nil {
			t.Errorf("decode response: %v", err)
		}
	}()
	srv.handle(serverConn)
	wg.Wait()
	return resp
}

func decodeData(t *testing.T, resp Response, out any) {
	t.Helper()
	data, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
}

func TestHandleExecReturnsActions(t *testing.T) {
	srv, eng, b := newTestServer(t)
	addOutput(eng)
	mapWindow(eng, b, "term", "shell")

	resp := roundTrip(t, srv, Request{
		Action: ActionExec,
		Params: map[string]any{"command": "floating toggle"},
	})
	if resp.Status != StatusOK {
		t.Fatalf("exec failed: %s", resp.Error)
	}
	var result ExecResult
	decodeData(t, resp, &result)
	found := false
	for _, line := range result.Actions {
		if strings.HasPrefix(line, "set_floating") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a set_floating action, got %v", result.Actions)
	}
}

func TestHandleExecRejectsUnknownCommand(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := roundTrip(t, srv, Request{
		Action: ActionExec,
		Params: map[string]any{"command": "focsu left"},
	})
	if resp.Status != StatusError {
		t.Fatalf("expected error status, got %s", resp.Status)
	}
	if !strings.Contains(resp.Error, "focus") {
		t.Fatalf("suggestion missing from error: %s", resp.Error)
	}
}

func TestHandleExecRequiresCommandText(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := roundTrip(t, srv, Request{Action: ActionExec})
	if resp.Status != StatusError {
		t.Fatalf("expected error status, got %s", resp.Status)
	}
}

func TestHandleStateReturnsSnapshot(t *testing.T) {
	srv, eng, b := newTestServer(t)
	addOutput(eng)
	id := mapWindow(eng, b, "term", "shell")

	resp := roundTrip(t, srv, Request{Action: ActionState})
	if resp.Status != StatusOK {
		t.Fatalf("state failed: %s", resp.Error)
	}
	var snap state.Snapshot
	decodeData(t, resp, &snap)
	if len(snap.Windows) != 1 || snap.Windows[0].ID != id {
		t.Fatalf("unexpected windows: %+v", snap.Windows)
	}
	if snap.FocusedWindow != id {
		t.Fatalf("focused window = %s", snap.FocusedWindow)
	}
	if len(snap.Workspaces) == 0 {
		t.Fatalf("snapshot missing workspaces")
	}
}

func TestHandleModeGetAndSet(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := roundTrip(t, srv, Request{Action: ActionModeGet})
	if resp.Status != StatusOK {
		t.Fatalf("mode.get failed: %s", resp.Error)
	}
	var status ModeStatus
	decodeData(t, resp, &status)
	if status.Current != "default" {
		t.Fatalf("current mode = %q", status.Current)
	}
	if diff := cmp.Diff([]string{"default", "resize"}, status.Available); diff != "" {
		t.Fatalf("available modes mismatch (-want +got):\n%s", diff)
	}

	resp = roundTrip(t, srv, Request{Action: ActionModeSet, Params: map[string]any{"name": "resize"}})
	if resp.Status != StatusOK {
		t.Fatalf("mode.set failed: %s", resp.Error)
	}
	resp = roundTrip(t, srv, Request{Action: ActionModeGet})
	decodeData(t, resp, &status)
	if status.Current != "resize" {
		t.Fatalf("current mode after set = %q", status.Current)
	}

	resp = roundTrip(t, srv, Request{Action: ActionModeSet, Params: map[string]any{"name": "bogus"}})
	if resp.Status != StatusError {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestHandleMetricsReportsCounters(t *testing.T) {
	srv, eng, b := newTestServer(t)
	addOutput(eng)
	mapWindow(eng, b, "term", "shell")

	resp := roundTrip(t, srv, Request{Action: ActionMetrics})
	if resp.Status != StatusOK {
		t.Fatalf("metrics failed: %s", resp.Error)
	}
	var snap struct {
		Enabled bool `json:"enabled"`
		Totals  struct {
			Events uint64 `json:"events"`
		} `json:"totals"`
	}
	decodeData(t, resp, &snap)
	if !snap.Enabled {
		t.Fatalf("metrics should be enabled")
	}
	if snap.Totals.Events == 0 {
		t.Fatalf("no events counted")
	}
}

func TestHandleHistoryReturnsDispatches(t *testing.T) {
	srv, eng, b := newTestServer(t)
	addOutput(eng)
	mapWindow(eng, b, "term", "shell")

	resp := roundTrip(t, srv, Request{Action: ActionHistory})
	if resp.Status != StatusOK {
		t.Fatalf("history failed: %s", resp.Error)
	}
	var history History
	decodeData(t, resp, &history)
	if len(history.Entries) == 0 {
		t.Fatalf("history is empty")
	}
	sawMap := false
	for _, entry := range history.Entries {
		if entry.Source == "event:window_mapped" {
			sawMap = true
		}
	}
	if !sawMap {
		t.Fatalf("window_mapped missing from history: %+v", history.Entries)
	}
}

func TestHandleReloadWithoutHook(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := roundTrip(t, srv, Request{Action: ActionReload})
	if resp.Status != StatusError {
		t.Fatalf("expected error when no reload hook is wired")
	}
}

func TestHandleReloadInvokesHook(t *testing.T) {
	logger := util.NewLoggerWithWriter(util.LevelError, io.Discard)
	b := backend.NewHeadless(logger, true)
	defer b.Close()
	eng := engine.New(b, config.Default(), logger)

	calls := 0
	srv := NewServer(eng, logger, filepath.Join(t.TempDir(), "control.sock"), "test", func(reason string) error {
		calls++
		return nil
	})

	resp := roundTrip(t, srv, Request{Action: ActionReload})
	if resp.Status != StatusOK {
		t.Fatalf("reload failed: %s", resp.Error)
	}
	if calls != 1 {
		t.Fatalf("reload hook calls = %d", calls)
	}
}

func TestHandleSessionLifecycle(t *testing.T) {
	srv, eng, b := newTestServer(t)
	store, err := session.Open(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()
	eng.SetSessionStore(store)

	addOutput(eng)
	mapWindow(eng, b, "term", "shell")

	resp := roundTrip(t, srv, Request{Action: ActionSessionSave, Params: map[string]any{"name": "work"}})
	if resp.Status != StatusOK {
		t.Fatalf("session.save failed: %s", resp.Error)
	}
	var saved SessionInfo
	decodeData(t, resp, &saved)
	if saved.ID == "" || saved.Name != "work" {
		t.Fatalf("unexpected session info: %+v", saved)
	}

	resp = roundTrip(t, srv, Request{Action: ActionSessionList})
	if resp.Status != StatusOK {
		t.Fatalf("session.list failed: %s", resp.Error)
	}
	var list SessionList
	decodeData(t, resp, &list)
	if len(list.Sessions) != 1 || list.Sessions[0].ID != saved.ID {
		t.Fatalf("unexpected listing: %+v", list.Sessions)
	}

	resp = roundTrip(t, srv, Request{Action: ActionSessionRestore, Params: map[string]any{"id": saved.ID}})
	if resp.Status != StatusOK {
		t.Fatalf("session.restore failed: %s", resp.Error)
	}
	var restored RestoreResult
	decodeData(t, resp, &restored)
	if restored.Session.ID != saved.ID {
		t.Fatalf("restored wrong session: %+v", restored.Session)
	}

	resp = roundTrip(t, srv, Request{Action: ActionSessionPrune, Params: map[string]any{"keep": float64(0)}})
	if resp.Status != StatusOK {
		t.Fatalf("session.prune failed: %s", resp.Error)
	}
	var pruned PruneResult
	decodeData(t, resp, &pruned)
	if pruned.Removed != 1 {
		t.Fatalf("pruned = %d", pruned.Removed)
	}
}

func TestHandleSessionPruneValidatesKeep(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := roundTrip(t, srv, Request{Action: ActionSessionPrune, Params: map[string]any{"keep": float64(-1)}})
	if resp.Status != StatusError {
		t.Fatalf("expected error for negative keep")
	}
	resp = roundTrip(t, srv, Request{Action: ActionSessionPrune})
	if resp.Status != StatusError {
		t.Fatalf("expected error for missing keep")
	}
}

func TestHandlePingReportsVersionAndMode(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := roundTrip(t, srv, Request{Action: ActionPing})
	if resp.Status != StatusOK {
		t.Fatalf("ping failed: %s", resp.Error)
	}
	var pong PingResult
	decodeData(t, resp, &pong)
	if pong.Version != "test" || pong.Mode != "default" {
		t.Fatalf("unexpected ping payload: %+v", pong)
	}
}

func TestHandleUnknownAction(t *testing.T) {
	srv, _, _ := newTestServer(t)

	resp := roundTrip(t, srv, Request{Action: "self.destruct"})
	if resp.Status != StatusError {
		t.Fatalf("expected error status")
	}
	if !strings.Contains(resp.Error, "unknown action") {
		t.Fatalf("unexpected error: %s", resp.Error)
	}
}
