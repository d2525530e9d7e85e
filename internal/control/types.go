package control

import (
	"errors"
	"os"
	"path/filepath"
	"time"
)

const (
	// SocketFileName is the filename of the control socket within the runtime dir.
	SocketFileName = "lamella.sock"

	// Action names supported by the control protocol.
	ActionExec           = "exec"
	ActionState          = "state"
	ActionWorkspaces     = "workspaces"
	ActionWindows        = "windows"
	ActionMarks          = "marks"
	ActionMetrics        = "metrics"
	ActionModeGet        = "mode.get"
	ActionModeSet        = "mode.set"
	ActionReload         = "reload"
	ActionHistory        = "history"
	ActionSessionSave    = "session.save"
	ActionSessionList    = "session.list"
	ActionSessionRestore = "session.restore"
	ActionSessionPrune   = "session.prune"
	ActionPing           = "ping"

	// Response statuses.
	StatusOK    = "ok"
	StatusError = "error"
)

// Request represents a control API request.
type Request struct {
	Action string         `json:"action"`
	Params map[string]any `json:"params,omitempty"`
}

// Response represents a control API response.
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ExecResult lists the actions a command produced, rendered for display.
type ExecResult struct {
	Actions []string `json:"actions,omitempty"`
}

// ModeStatus describes the daemon's current binding mode and the available set.
type ModeStatus struct {
	Current   string   `json:"current"`
	Available []string `json:"available"`
}

// SessionInfo describes one saved session.
type SessionInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionList wraps the saved session listing.
type SessionList struct {
	Sessions []SessionInfo `json:"sessions"`
}

// RestoreResult reports which session a restore replayed and how.
type RestoreResult struct {
	Session  SessionInfo `json:"session"`
	Commands []string    `json:"commands,omitempty"`
}

// PruneResult reports how many sessions a prune removed.
type PruneResult struct {
	Removed int `json:"removed"`
}

// PingResult is the daemon liveness reply.
type PingResult struct {
	Version string `json:"version"`
	Mode    string `json:"mode"`
}

// HistoryEntry is one dispatch log record.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Actions   []string  `json:"actions,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// History wraps the dispatch log payload.
type History struct {
	Entries []HistoryEntry `json:"entries"`
}

// DefaultSocketPath returns the expected location of the control socket.
func DefaultSocketPath() (string, error) {
	if env := os.Getenv("LAMELLA_CONTROL_SOCKET"); env != "" {
		return env, nil
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, SocketFileName), nil
	}
	base := os.TempDir()
	if base == "" {
		return "", errors.New("no runtime directory available")
	}
	return filepath.Join(base, SocketFileName), nil
}
