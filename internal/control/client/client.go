// Package client talks to a running lamella daemon over its control socket.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/geket/lamella/internal/control"
	"github.com/geket/lamella/internal/metrics"
	"github.com/geket/lamella/internal/state"
)

// defaultTimeout is used when the caller does not provide a context deadline.
const defaultTimeout = 3 * time.Second

// Client issues requests against the lamella control socket.
type Client struct {
	socketPath string
}

type (
	// ExecResult lists the actions a command produced, rendered for display.
	ExecResult = control.ExecResult
	// ModeStatus describes the daemon's current binding mode and the available set.
	ModeStatus = control.ModeStatus
	// SessionInfo describes one saved session.
	SessionInfo = control.SessionInfo
	// RestoreResult reports which session a restore replayed and how.
	RestoreResult = control.RestoreResult
	// PruneResult reports how many sessions a prune removed.
	PruneResult = control.PruneResult
	// PingResult is the daemon liveness reply.
	PingResult = control.PingResult
	// HistoryEntry is one dispatch log record.
	HistoryEntry = control.HistoryEntry
)

// New creates a client for the provided socket path. When path is empty, the
// default runtime path (honoring LAMELLA_CONTROL_SOCKET) is used.
func New(path string) (*Client, error) {
	if path == "" {
		var err error
		path, err = control.DefaultSocketPath()
		if err != nil {
			return nil, err
		}
	}
	return &Client{socketPath: path}, nil
}

// Exec runs one command line on the daemon and returns the emitted actions.
func (c *Client) Exec(ctx context.Context, command string) (ExecResult, error) {
	if command == "" {
		return ExecResult{}, errors.New("command cannot be empty")
	}
	var result ExecResult
	req := control.Request{Action: control.ActionExec, Params: map[string]any{"command": command}}
	if err := c.do(ctx, req, &result); err != nil {
		return ExecResult{}, err
	}
	return result, nil
}

// State retrieves the daemon's full state snapshot.
func (c *Client) State(ctx context.Context) (state.Snapshot, error) {
	var snap state.Snapshot
	if err := c.do(ctx, control.Request{Action: control.ActionState}, &snap); err != nil {
		return state.Snapshot{}, err
	}
	return snap, nil
}

// Workspaces retrieves the workspace listing.
func (c *Client) Workspaces(ctx context.Context) ([]state.WorkspaceInfo, error) {
	var workspaces []state.WorkspaceInfo
	if err := c.do(ctx, control.Request{Action: control.ActionWorkspaces}, &workspaces); err != nil {
		return nil, err
	}
	return workspaces, nil
}

// Windows retrieves the window listing.
func (c *Client) Windows(ctx context.Context) ([]state.WindowInfo, error) {
	var windows []state.WindowInfo
	if err := c.do(ctx, control.Request{Action: control.ActionWindows}, &windows); err != nil {
		return nil, err
	}
	return windows, nil
}

// Marks retrieves the mark table.
func (c *Client) Marks(ctx context.Context) ([]state.MarkInfo, error) {
	var marks []state.MarkInfo
	if err := c.do(ctx, control.Request{Action: control.ActionMarks}, &marks); err != nil {
		return nil, err
	}
	return marks, nil
}

// Metrics retrieves the daemon's runtime counters.
func (c *Client) Metrics(ctx context.Context) (metrics.Snapshot, error) {
	var snap metrics.Snapshot
	if err := c.do(ctx, control.Request{Action: control.ActionMetrics}, &snap); err != nil {
		return metrics.Snapshot{}, err
	}
	return snap, nil
}

// Mode retrieves the daemon's current binding mode and the available set.
func (c *Client) Mode(ctx context.Context) (ModeStatus, error) {
	var status ModeStatus
	if err := c.do(ctx, control.Request{Action: control.ActionModeGet}, &status); err != nil {
		return ModeStatus{}, err
	}
	return status, nil
}

// SetMode switches the daemon to the named binding mode.
func (c *Client) SetMode(ctx context.Context, name string) error {
	if name == "" {
		return errors.New("mode name cannot be empty")
	}
	req := control.Request{Action: control.ActionModeSet, Params: map[string]any{"name": name}}
	return c.do(ctx, req, nil)
}

// Reload asks the daemon to reload its configuration.
func (c *Client) Reload(ctx context.Context) error {
	return c.do(ctx, control.Request{Action: control.ActionReload}, nil)
}

// History retrieves the daemon's recent dispatch log, oldest first.
func (c *Client) History(ctx context.Context) ([]HistoryEntry, error) {
	var history control.History
	if err := c.do(ctx, control.Request{Action: control.ActionHistory}, &history); err != nil {
		return nil, err
	}
	return history.Entries, nil
}

// SaveSession persists the current state under an optional name.
func (c *Client) SaveSession(ctx context.Context, name string) (SessionInfo, error) {
	var info SessionInfo
	req := control.Request{Action: control.ActionSessionSave, Params: map[string]any{"name": name}}
	if err := c.do(ctx, req, &info); err != nil {
		return SessionInfo{}, err
	}
	return info, nil
}

// Sessions lists saved sessions, newest first.
func (c *Client) Sessions(ctx context.Context) ([]SessionInfo, error) {
	var list control.SessionList
	if err := c.do(ctx, control.Request{Action: control.ActionSessionList}, &list); err != nil {
		return nil, err
	}
	return list.Sessions, nil
}

// RestoreSession replays a saved session. An empty id restores the latest.
func (c *Client) RestoreSession(ctx context.Context, id string) (RestoreResult, error) {
	var result RestoreResult
	req := control.Request{Action: control.ActionSessionRestore, Params: map[string]any{"id": id}}
	if err := c.do(ctx, req, &result); err != nil {
		return RestoreResult{}, err
	}
	return result, nil
}

// PruneSessions deletes all but the newest keep sessions.
func (c *Client) PruneSessions(ctx context.Context, keep int) (PruneResult, error) {
	if keep < 0 {
		return PruneResult{}, errors.New("keep cannot be negative")
	}
	var result PruneResult
	req := control.Request{Action: control.ActionSessionPrune, Params: map[string]any{"keep": keep}}
	if err := c.do(ctx, req, &result); err != nil {
		return PruneResult{}, err
	}
	return result, nil
}

// Ping checks daemon liveness and reports its version and mode.
func (c *Client) Ping(ctx context.Context) (PingResult, error) {
	var pong PingResult
	if err := c.do(ctx, control.Request{Action: control.ActionPing}, &pong); err != nil {
		return PingResult{}, err
	}
	return pong, nil
}

func (c *Client) do(ctx context.Context, req control.Request, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("dial control socket: %w", err)
	}
	defer conn.Close()
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	var resp control.Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.Status != control.StatusOK {
		if resp.Error == "" {
			resp.Error = "unknown control error"
		}
		return errors.New(resp.Error)
	}
	if out == nil || resp.Data == nil {
		return nil
	}
	data, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
