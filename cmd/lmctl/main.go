package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/geket/lamella/internal/config"
	"github.com/geket/lamella/internal/control/client"
	"github.com/geket/lamella/internal/metrics"
	"github.com/geket/lamella/internal/state"
	"github.com/geket/lamella/internal/ui/tui"
)

// Build-time variable (set via ldflags).
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(argv []string, out io.Writer) error {
	fs := flag.NewFlagSet("lmctl", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	socket := fs.String("socket", "", "path to lamella control socket")
	timeout := fs.Duration("timeout", 3*time.Second, "control request timeout")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] <command> [args]\n", fs.Name())
		fmt.Fprintln(fs.Output())
		fmt.Fprintln(fs.Output(), "Commands:")
		fmt.Fprintln(fs.Output(), "  exec <command...>\t\trun a command through the daemon")
		fmt.Fprintln(fs.Output(), "  state [--format json|yaml]\tdump the full daemon state")
		fmt.Fprintln(fs.Output(), "  workspaces\t\t\tlist workspaces")
		fmt.Fprintln(fs.Output(), "  windows\t\t\tlist windows")
		fmt.Fprintln(fs.Output(), "  marks\t\t\t\tlist marks")
		fmt.Fprintln(fs.Output(), "  metrics\t\t\tshow runtime counters")
		fmt.Fprintln(fs.Output(), "  mode get|set [mode]\t\tmanage the binding mode")
		fmt.Fprintln(fs.Output(), "  reload\t\t\ttrigger a live config reload")
		fmt.Fprintln(fs.Output(), "  history\t\t\tshow recent dispatches")
		fmt.Fprintln(fs.Output(), "  session save|list|restore|prune\tmanage saved sessions")
		fmt.Fprintln(fs.Output(), "  ping\t\t\t\tcheck daemon liveness")
		fmt.Fprintln(fs.Output(), "  watch\t\t\t\tlaunch the interactive dashboard")
		fmt.Fprintln(fs.Output(), "  check --config <path>\tvalidate a configuration file")
		fmt.Fprintln(fs.Output(), "  version\t\t\tprint the client version")
		fmt.Fprintln(fs.Output())
		fmt.Fprintln(fs.Output(), "Flags:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(argv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	args := fs.Args()
	if len(args) == 0 {
		fs.Usage()
		return fmt.Errorf("missing subcommand")
	}

	// Offline subcommands need no daemon connection.
	switch args[0] {
	case "version":
		fmt.Fprintln(out, version)
		return nil
	case "check":
		return runCheck(args[1:], out, os.Stderr)
	}

	cli, err := client.New(*socket)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	if args[0] == "watch" {
		return tui.Run(cli)
	}

	ctx := context.Background()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	switch args[0] {
	case "exec":
		return runExec(ctx, cli, args[1:], out)
	case "state":
		return runState(ctx, cli, args[1:], out)
	case "workspaces":
		return runWorkspaces(ctx, cli, out)
	case "windows":
		return runWindows(ctx, cli, out)
	case "marks":
		return runMarks(ctx, cli, out)
	case "metrics":
		return runMetrics(ctx, cli, out)
	case "mode":
		return runMode(ctx, cli, args[1:], out)
	case "reload":
		return runReload(ctx, cli, out)
	case "history":
		return runHistory(ctx, cli, out)
	case "session":
		return runSession(ctx, cli, args[1:], out)
	case "ping":
		return runPing(ctx, cli, out)
	default:
		fs.Usage()
		return fmt.Errorf("unknown subcommand %q", args[0])
	}
}

func runCheck(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to configuration file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if *configPath == "" {
		fs.Usage()
		return fmt.Errorf("check requires --config <path>")
	}

	if _, err := config.Load(*configPath); err != nil {
		fmt.Fprintf(stderr, "Configuration invalid: %v\n", err)
		return fmt.Errorf("configuration validation failed")
	}
	fmt.Fprintln(stdout, "Configuration OK")
	return nil
}

func runExec(ctx context.Context, cli *client.Client, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("exec requires a command")
	}
	result, err := cli.Exec(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(result.Actions) == 0 {
		fmt.Fprintln(out, "No actions emitted")
		return nil
	}
	for _, action := range result.Actions {
		fmt.Fprintln(out, action)
	}
	return nil
}

func runState(ctx context.Context, cli *client.Client, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("state", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	format := fs.String("format", "json", "output format (json or yaml)")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	snap, err := cli.State(ctx)
	if err != nil {
		return err
	}
	switch *format {
	case "json":
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("encode state: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case "yaml":
		data, err := yaml.Marshal(snap)
		if err != nil {
			return fmt.Errorf("encode state: %w", err)
		}
		fmt.Fprint(out, string(data))
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", *format)
	}
	return nil
}

func runWorkspaces(ctx context.Context, cli *client.Client, out io.Writer) error {
	workspaces, err := cli.Workspaces(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tWINDOWS\tSTATE")
	for _, ws := range workspaces {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", ws.ID, ws.Name, len(ws.Windows), workspaceState(ws))
	}
	return tw.Flush()
}

func runWindows(ctx context.Context, cli *client.Client, out io.Writer) error {
	windows, err := cli.Windows(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tAPP\tTITLE\tWORKSPACE\tGEOMETRY\tSTATE")
	for _, win := range windows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%dx%d+%d+%d\t%s\n",
			win.ID, orDash(win.AppID), orDash(win.Title), win.Workspace,
			win.Geometry.Width, win.Geometry.Height, win.Geometry.X, win.Geometry.Y,
			windowState(win))
	}
	return tw.Flush()
}

func runMarks(ctx context.Context, cli *client.Client, out io.Writer) error {
	marks, err := cli.Marks(ctx)
	if err != nil {
		return err
	}
	if len(marks) == 0 {
		fmt.Fprintln(out, "No marks set")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "MARK\tWINDOW")
	for _, m := range marks {
		fmt.Fprintf(tw, "%s\t%d\n", m.Mark, m.Window)
	}
	return tw.Flush()
}

func runMetrics(ctx context.Context, cli *client.Client, out io.Writer) error {
	m, err := cli.Metrics(ctx)
	if err != nil {
		return err
	}
	if !m.Enabled {
		fmt.Fprintln(out, "Metrics collection is disabled")
		return nil
	}
	fmt.Fprintf(out, "Collecting since %s\n", m.Started.Format(time.RFC3339))
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "events\t%d\n", m.Totals.Events)
	fmt.Fprintf(tw, "commands\t%d\n", m.Totals.Commands)
	fmt.Fprintf(tw, "actions\t%d\n", m.Totals.Actions)
	fmt.Fprintf(tw, "relayouts\t%d\n", m.Totals.Relayouts)
	fmt.Fprintf(tw, "violations\t%d\n", m.Totals.Violations)
	if err := tw.Flush(); err != nil {
		return err
	}
	printKindCounts(out, "Events by kind:", m.Events)
	printKindCounts(out, "Commands by name:", m.Commands)
	return nil
}

func printKindCounts(out io.Writer, heading string, counts []metrics.KindCount) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, heading)
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, kc := range counts {
		fmt.Fprintf(tw, "  %s\t%d\n", kc.Kind, kc.Count)
	}
	tw.Flush()
}

func runMode(ctx context.Context, cli *client.Client, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("mode requires a subcommand (get|set)")
	}
	switch args[0] {
	case "get":
		status, err := cli.Mode(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Active mode: %s\n", status.Current)
		if len(status.Available) > 0 {
			fmt.Fprintf(out, "Available modes: %s\n", strings.Join(status.Available, ", "))
		}
		return nil
	case "set":
		if len(args) < 2 {
			return fmt.Errorf("mode set requires a mode name")
		}
		if err := cli.SetMode(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintf(out, "Switched to mode %s\n", args[1])
		return nil
	default:
		return fmt.Errorf("unknown mode subcommand %q", args[0])
	}
}

func runReload(ctx context.Context, cli *client.Client, out io.Writer) error {
	if err := cli.Reload(ctx); err != nil {
		return err
	}
	fmt.Fprintln(out, "Reload requested")
	return nil
}

func runHistory(ctx context.Context, cli *client.Client, out io.Writer) error {
	entries, err := cli.History(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No dispatches recorded")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %s\n", e.Timestamp.Format("15:04:05"), e.Source)
		for _, action := range e.Actions {
			fmt.Fprintf(out, "  %s\n", action)
		}
		if e.Error != "" {
			fmt.Fprintf(out, "  error: %s\n", e.Error)
		}
	}
	return nil
}

func runSession(ctx context.Context, cli *client.Client, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("session requires a subcommand (save|list|restore|prune)")
	}
	switch args[0] {
	case "save":
		name := ""
		if len(args) > 1 {
			name = args[1]
		}
		rec, err := cli.SaveSession(ctx, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved session %s\n", rec.ID)
		return nil
	case "list":
		sessions, err := cli.Sessions(ctx)
		if err != nil {
			return err
		}
		if len(sessions) == 0 {
			fmt.Fprintln(out, "No saved sessions")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCREATED")
		for _, s := range sessions {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", s.ID, orDash(s.Name), s.CreatedAt.Format(time.RFC3339))
		}
		return tw.Flush()
	case "restore":
		if len(args) < 2 {
			return fmt.Errorf("session restore requires a session id")
		}
		result, err := cli.RestoreSession(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Restored session %s (%d commands)\n", result.Session.ID, len(result.Commands))
		return nil
	case "prune":
		fs := flag.NewFlagSet("session prune", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		keep := fs.Int("keep", 10, "number of most recent sessions to keep")
		if err := fs.Parse(args[1:]); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return nil
			}
			return err
		}
		result, err := cli.PruneSessions(ctx, *keep)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %d session(s)\n", result.Removed)
		return nil
	default:
		return fmt.Errorf("unknown session subcommand %q", args[0])
	}
}

func runPing(ctx context.Context, cli *client.Client, out io.Writer) error {
	result, err := cli.Ping(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "lamella %s (mode: %s)\n", result.Version, result.Mode)
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func workspaceState(ws state.WorkspaceInfo) string {
	var parts []string
	if ws.Focused {
		parts = append(parts, "focused")
	}
	if ws.Visible {
		parts = append(parts, "visible")
	}
	if ws.Urgent {
		parts = append(parts, "urgent")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}

func windowState(win state.WindowInfo) string {
	var parts []string
	if win.Focused {
		parts = append(parts, "focused")
	}
	if win.Floating {
		parts = append(parts, "floating")
	}
	if win.Fullscreen {
		parts = append(parts, "fullscreen")
	}
	if win.Sticky {
		parts = append(parts, "sticky")
	}
	if win.Urgent {
		parts = append(parts, "urgent")
	}
	if win.Hidden {
		parts = append(parts, "hidden")
	}
	if len(win.Marks) > 0 {
		parts = append(parts, "marks: "+strings.Join(win.Marks, ","))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}
