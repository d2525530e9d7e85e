package control

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/geket/lamella/internal/engine"
	"github.com/geket/lamella/internal/session"
	"github.com/geket/lamella/internal/util"
)

// Server hosts the lamella control socket and serves requests.
type Server struct {
	engine     *engine.Engine
	logger     *util.Logger
	reload     func(reason string) error
	socketPath string
	version    string

	mu       sync.Mutex
	listener net.Listener
}

// NewServer creates a control server bound to the given socket path. The
// reload hook may be nil when the daemon has no config file to re-read.
func NewServer(eng *engine.Engine, logger *util.Logger, socketPath, version string, reload func(reason string) error) *Server {
	return &Server{
		engine:     eng,
		logger:     logger,
		reload:     reload,
		socketPath: socketPath,
		version:    version,
	}
}

// Serve listens on the control socket until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	if err := s.prepareSocket(); err != nil {
		return err
	}
	s.logger.Infof("control server listening on %s", s.socketPath)
	defer s.cleanup()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		if s.listener != nil {
			s.listener.Close()
		}
		s.mu.Unlock()
	}()

	for {
		conn, err := s.accept(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Errorf("control accept error: %v", err)
			continue
		}
		go s.handle(conn)
	}
}

func (s *Server) accept(ctx context.Context) (net.Conn, error) {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return nil, context.Canceled
	}
	conn, err := listener.Accept()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return conn, nil
}

func (s *Server) prepareSocket() error {
	dir := filepath.Dir(s.socketPath)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create control dir: %w", err)
	}
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket: %w", err)
	}
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listen on control socket: %w", err)
	}
	if err := os.Chmod(s.socketPath, 0o600); err != nil {
		listener.Close()
		return fmt.Errorf("chmod control socket: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	return nil
}

func (s *Server) cleanup() {
	s.mu.Lock()
	listener := s.listener
	s.listener = nil
	s.mu.Unlock()
	if listener != nil {
		listener.Close()
	}
	if err := os.Remove(s.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Warnf("remove control socket: %v", err)
	}
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	var req Request
	if err := dec.Decode(&req); err != nil {
		s.writeError(conn, fmt.Errorf("decode request: %w", err))
		return
	}
	switch req.Action {
	case ActionExec:
		s.handleExec(conn, req.Params)
	case ActionState:
		s.writeOK(conn, s.engine.Snapshot())
	case ActionWorkspaces:
		s.writeOK(conn, s.engine.Snapshot().Workspaces)
	case ActionWindows:
		s.writeOK(conn, s.engine.Snapshot().Windows)
	case ActionMarks:
		s.writeOK(conn, s.engine.Snapshot().Marks)
	case ActionMetrics:
		s.writeOK(conn, s.engine.Metrics())
	case ActionModeGet:
		s.handleModeGet(conn)
	case ActionModeSet:
		s.handleModeSet(conn, req.Params)
	case ActionReload:
		s.handleReload(conn)
	case ActionHistory:
		s.handleHistory(conn)
	case ActionSessionSave:
		s.handleSessionSave(conn, req.Params)
	case ActionSessionList:
		s.handleSessionList(conn)
	case ActionSessionRestore:
		s.handleSessionRestore(conn, req.Params)
	case ActionSessionPrune:
		s.handleSessionPrune(conn, req.Params)
	case ActionPing:
		s.handlePing(conn)
	default:
		s.writeError(conn, fmt.Errorf("unknown action %q", req.Action))
	}
}

func (s *Server) handleExec(conn net.Conn, params map[string]any) {
	text, _ := params["command"].(string)
	if text == "" {
		s.writeError(conn, errors.New("missing command text"))
		return
	}
	actions, err := s.engine.Exec(text)
	if err != nil {
		s.writeError(conn, err)
		return
	}
	s.writeOK(conn, ExecResult{Actions: engine.DescribeActions(actions)})
}

func (s *Server) handleModeGet(conn net.Conn) {
	current, available := s.engine.Mode()
	s.writeOK(conn, ModeStatus{Current: current, Available: available})
}

func (s *Server) handleModeSet(conn net.Conn, params map[string]any) {
	name, _ := params["name"].(string)
	if name == "" {
		s.writeError(conn, errors.New("missing mode name"))
		return
	}
	if err := s.engine.SetMode(name); err != nil {
		s.writeError(conn, err)
		return
	}
	s.writeOK(conn, nil)
}

func (s *Server) handleReload(conn net.Conn) {
	if s.reload == nil {
		s.writeError(conn, errors.New("reload not supported"))
		return
	}
	if err := s.reload("control request"); err != nil {
		s.writeError(conn, err)
		return
	}
	s.writeOK(conn, nil)
}

func (s *Server) handleHistory(conn net.Conn) {
	records := s.engine.History()
	history := History{Entries: make([]HistoryEntry, 0, len(records))}
	for _, rec := range records {
		history.Entries = append(history.Entries, HistoryEntry{
			Timestamp: rec.Timestamp,
			Source:    rec.Source,
			Actions:   append([]string(nil), rec.Actions...),
			Error:     rec.Error,
		})
	}
	s.writeOK(conn, history)
}

func (s *Server) handleSessionSave(conn net.Conn, params map[string]any) {
	name, _ := params["name"].(string)
	rec, err := s.engine.SaveSession(name)
	if err != nil {
		s.writeError(conn, err)
		return
	}
	s.writeOK(conn, sessionInfo(rec))
}

func (s *Server) handleSessionList(conn net.Conn) {
	recs, err := s.engine.Sessions()
	if err != nil {
		s.writeError(conn, err)
		return
	}
	list := SessionList{Sessions: make([]SessionInfo, 0, len(recs))}
	for _, rec := range recs {
		list.Sessions = append(list.Sessions, sessionInfo(rec))
	}
	s.writeOK(conn, list)
}

func (s *Server) handleSessionRestore(conn net.Conn, params map[string]any) {
	id, _ := params["id"].(string)
	rec, commands, err := s.engine.RestoreSession(id)
	if err != nil {
		s.writeError(conn, err)
		return
	}
	s.writeOK(conn, RestoreResult{Session: sessionInfo(rec), Commands: commands})
}

func (s *Server) handleSessionPrune(conn net.Conn, params map[string]any) {
	keep, ok := params["keep"].(float64)
	if !ok || keep < 0 {
		s.writeError(conn, errors.New("keep must be a non-negative number"))
		return
	}
	removed, err := s.engine.PruneSessions(int(keep))
	if err != nil {
		s.writeError(conn, err)
		return
	}
	s.writeOK(conn, PruneResult{Removed: removed})
}

func (s *Server) handlePing(conn net.Conn) {
	current, _ := s.engine.Mode()
	s.writeOK(conn, PingResult{Version: s.version, Mode: current})
}

func sessionInfo(rec session.Record) SessionInfo {
	return SessionInfo{ID: rec.ID, Name: rec.Name, CreatedAt: rec.CreatedAt}
}

func (s *Server) writeOK(conn net.Conn, data any) {
	resp := Response{Status: StatusOK}
	if data != nil {
		resp.Data = data
	}
	_ = json.NewEncoder(conn).Encode(resp)
}

func (s *Server) writeError(conn net.Conn, err error) {
	resp := Response{Status: StatusError}
	if err != nil {
		resp.Error = err.Error()
	}
	_ = json.NewEncoder(conn).Encode(resp)
}
