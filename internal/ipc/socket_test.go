package ipc

import (
	"bytes"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/geket/lamella/internal/util"
	"github.com/geket/lamella/internal/wm"
)

func testLogger() *util.Logger {
	return util.NewLogger(util.LevelError)
}

func acceptOne(t *testing.T, ln net.Listener) <-chan net.Conn {
	t.Helper()
	ch := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		ch <- conn
	}()
	return ch
}

func recvEvent(t *testing.T, events <-chan wm.Event) wm.Event {
	t.Helper()
	select {
	case ev, ok := <-events:
		if !ok {
			t.Fatalf("event stream closed")
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for event")
	}
	return nil
}

func recvAction(t *testing.T, actions <-chan wm.Action) wm.Action {
	t.Helper()
	select {
	case act, ok := <-actions:
		if !ok {
			t.Fatalf("action stream closed")
		}
		return act
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for action")
	}
	return nil
}

func TestAdapterStreamsEventsAndActions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adapter.sock")
	ln, err := Listen(path)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()
	accepted := acceptOne(t, ln)

	client, err := Dial(path, testLogger())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer client.Close()

	adapter := Serve(<-accepted, testLogger())
	defer adapter.Close()

	want := wm.WindowMapped{ID: 1, AppID: "term", Title: "shell"}
	if err := client.Send(want); err != nil {
		t.Fatalf("Send: %v", err)
	}
	got := recvEvent(t, adapter.Events())
	if diff := cmp.Diff(wm.Event(want), got); diff != "" {
		t.Fatalf("event mismatch (-want +got):\n%s", diff)
	}

	wantAct := wm.SetWindowGeometry{ID: 1, Geometry: wm.Geometry{X: 4, Y: 4, Width: 100, Height: 100}}
	if err := adapter.Apply(wantAct); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	gotAct := recvAction(t, client.Actions())
	if diff := cmp.Diff(wm.Action(wantAct), gotAct); diff != "" {
		t.Fatalf("action mismatch (-want +got):\n%s", diff)
	}
}

func TestAdapterSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adapter.sock")
	ln, err := Listen(path)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()
	accepted := acceptOne(t, ln)

	raw, err := net.Dial("unix", path)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer raw.Close()

	var logs bytes.Buffer
	logger := util.NewLoggerWithWriter(util.LevelWarn, &logs)
	adapter := Serve(<-accepted, logger)
	defer adapter.Close()

	payload := "not json at all\n" +
		"{\"kind\":\"window_teleported\"}\n" +
		"{\"kind\":\"focus_requested\",\"id\":5}\n"
	if _, err := raw.Write([]byte(payload)); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := recvEvent(t, adapter.Events())
	if diff := cmp.Diff(wm.Event(wm.FocusRequested{ID: 5}), got); diff != "" {
		t.Fatalf("surviving event mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(logs.String(), "malformed") {
		t.Fatalf("malformed lines not logged: %s", logs.String())
	}
}

func TestAdapterEventStreamClosesOnDisconnect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adapter.sock")
	ln, err := Listen(path)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()
	accepted := acceptOne(t, ln)

	client, err := Dial(path, testLogger())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	adapter := Serve(<-accepted, testLogger())
	defer adapter.Close()

	client.Close()

	select {
	case _, ok := <-adapter.Events():
		if ok {
			t.Fatalf("expected closed stream, got event")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("event stream did not close after disconnect")
	}
}

func TestListenReplacesStaleSocket(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "adapter.sock")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("stale"), 0o600); err != nil {
		t.Fatalf("write stale file: %v", err)
	}

	ln, err := Listen(path)
	if err != nil {
		t.Fatalf("Listen over stale socket: %v", err)
	}
	ln.Close()
}
