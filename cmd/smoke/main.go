package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/geket/lamella/internal/backend"
	"github.com/geket/lamella/internal/config"
	"github.com/geket/lamella/internal/engine"
	"github.com/geket/lamella/internal/ipc"
	"github.com/geket/lamella/internal/util"
	"github.com/geket/lamella/internal/wm"
)

// step is one scripted scenario entry: either a display event or a command.
type step struct {
	event   wm.Event
	command string
}

// scenario walks the tiling core through its main surfaces: mapping and
// unmapping, focus and splits, floating, workspaces, marks, scratchpad
// and gaps.
func scenario() []step {
	return []step{
		{event: wm.OutputAdded{ID: 1, Name: "SMOKE-1", Geometry: wm.Geometry{Width: 1920, Height: 1080}}},
		{event: wm.WindowMapped{ID: 1, AppID: "term", Title: "shell"}},
		{event: wm.WindowMapped{ID: 2, AppID: "editor", Title: "main.go"}},
		{event: wm.WindowMapped{ID: 3, AppID: "browser", Title: "docs"}},
		{command: "focus left"},
		{command: "split vertical"},
		{event: wm.WindowMapped{ID: 4, AppID: "music", Title: "player"}},
		{command: "floating toggle"},
		{command: "move container to workspace 2"},
		{command: "workspace 2"},
		{command: "mark inbox"},
		{command: "workspace 1"},
		{command: "move scratchpad"},
		{command: "scratchpad show"},
		{command: "gaps outer set 8"},
		{event: wm.WindowUnmapped{ID: 2}},
		{command: "fullscreen toggle"},
	}
}

func main() {
	cfgPath := flag.String("config", "", "path to YAML config (built-in defaults when empty)")
	logLevel := flag.String("log-level", "warn", "log level (debug|info|warn|error)")
	remote := flag.String("remote", "", "drive a running daemon through its adapter socket instead of in-process")
	dumpState := flag.Bool("state", true, "print the final state snapshot")
	flag.Parse()

	logger := util.NewLogger(util.ParseLogLevel(*logLevel))

	if *remote != "" {
		if err := runRemote(*remote, logger); err != nil {
			exitErr(err)
		}
		return
	}

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			exitErr(fmt.Errorf("load config: %w", err))
		}
		cfg = *loaded
		fmt.Printf("Loaded config from %s\n", *cfgPath)
	}

	b := backend.NewHeadless(logger, true)
	defer b.Close()
	eng := engine.New(b, cfg, logger)
	eng.SetDebugChecks(true)

	for _, s := range scenario() {
		if s.event != nil {
			fmt.Printf("\n== event %s\n", s.event.Kind())
			eng.HandleEvent(s.event)
			printActions(b.TakeActions())
			continue
		}
		fmt.Printf("\n== exec %q\n", s.command)
		actions, err := eng.Exec(s.command)
		if err != nil {
			exitErr(fmt.Errorf("exec %q: %w", s.command, err))
		}
		b.TakeActions()
		printActions(actions)
	}

	if *dumpState {
		fmt.Println("\n=== Final Snapshot ===")
		if err := marshalJSON(eng.Snapshot()); err != nil {
			logger.Warnf("failed to print snapshot: %v", err)
		}
	}

	fmt.Println("\n=== Metrics ===")
	if err := marshalYAML(eng.Metrics()); err != nil {
		logger.Warnf("failed to print metrics: %v", err)
	}

	violations := eng.Validate()
	if len(violations) > 0 {
		fmt.Fprintf(os.Stderr, "\n%d invariant violation(s):\n", len(violations))
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "- %v\n", v)
		}
		os.Exit(1)
	}
	fmt.Println("\nAll invariants hold.")
}

// runRemote replays the scenario's events against a live daemon, acting as a
// minimal display adapter. Command steps are skipped: those belong to the
// control socket.
func runRemote(socketPath string, logger *util.Logger) error {
	conn, err := ipc.Dial(socketPath, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	fmt.Printf("Connected to %s\n", socketPath)
	for _, s := range scenario() {
		if s.event == nil {
			continue
		}
		fmt.Printf("\n== event %s\n", s.event.Kind())
		if err := conn.Send(s.event); err != nil {
			return err
		}
		printActions(collectRemote(conn, 250*time.Millisecond))
	}
	return nil
}

// collectRemote drains actions until the stream goes idle.
func collectRemote(conn *ipc.Conn, idle time.Duration) []wm.Action {
	var actions []wm.Action
	for {
		select {
		case act, ok := <-conn.Actions():
			if !ok {
				return actions
			}
			actions = append(actions, act)
		case <-time.After(idle):
			return actions
		}
	}
}

func printActions(actions []wm.Action) {
	if len(actions) == 0 {
		fmt.Println("  (no actions)")
		return
	}
	for _, line := range engine.DescribeActions(actions) {
		fmt.Printf("  -> %s\n", line)
	}
}

func exitErr(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func marshalYAML(v any) error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(v)
}

func marshalJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
