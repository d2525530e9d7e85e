package ipc

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"

	"github.com/geket/lamella/internal/backend"
	"github.com/geket/lamella/internal/util"
	"github.com/geket/lamella/internal/wm"
)

const (
	streamBuffer = 256
	maxLineBytes = 1 << 20
)

// Listen prepares the adapter socket, replacing any stale file first.
func Listen(path string) (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create socket dir: %w", err)
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove stale socket: %w", err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen adapter socket: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		ln.Close()
		return nil, fmt.Errorf("chmod adapter socket: %w", err)
	}
	return ln, nil
}

// Adapter wraps an accepted adapter connection as a display backend: events
// arrive as JSON lines and actions are written back the same way.
type Adapter struct {
	conn   net.Conn
	logger *util.Logger
	events chan wm.Event
	done   chan struct{}
	once   sync.Once
	wmu    sync.Mutex
}

// Serve starts reading events from conn and returns the backend view of it.
func Serve(conn net.Conn, logger *util.Logger) *Adapter {
	a := &Adapter{
		conn:   conn,
		logger: logger,
		events: make(chan wm.Event, streamBuffer),
		done:   make(chan struct{}),
	}
	go a.readLoop()
	return a
}

func (a *Adapter) readLoop() {
	defer close(a.events)
	scanner := bufio.NewScanner(a.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		ev, err := DecodeEvent(line)
		if err != nil {
			a.logger.Warnf("adapter: dropping malformed event: %v", err)
			continue
		}
		select {
		case a.events <- ev:
		case <-a.done:
			return
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		a.logger.Warnf("adapter: event stream error: %v", err)
	}
}

// Events returns the decoded event stream. The channel closes when the
// adapter disconnects or Close is called.
func (a *Adapter) Events() <-chan wm.Event {
	return a.events
}

// Apply writes one action envelope back to the adapter.
func (a *Adapter) Apply(action wm.Action) error {
	data, err := EncodeAction(action)
	if err != nil {
		return err
	}
	a.wmu.Lock()
	defer a.wmu.Unlock()
	if _, err := a.conn.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write action: %w", err)
	}
	return nil
}

// Close tears down the connection. Safe to call more than once.
func (a *Adapter) Close() error {
	var err error
	a.once.Do(func() {
		close(a.done)
		err = a.conn.Close()
	})
	return err
}

var _ backend.Backend = (*Adapter)(nil)

// Conn is the adapter-side half of the stream: it feeds display events in
// and consumes the actions coming back.
type Conn struct {
	conn    net.Conn
	logger  *util.Logger
	actions chan wm.Action
	done    chan struct{}
	once    sync.Once
	wmu     sync.Mutex
}

// Dial connects to a running daemon's adapter socket.
func Dial(path string, logger *util.Logger) (*Conn, error) {
	nc, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("connect adapter socket: %w", err)
	}
	c := &Conn{
		conn:    nc,
		logger:  logger,
		actions: make(chan wm.Action, streamBuffer),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

func (c *Conn) readLoop() {
	defer close(c.actions)
	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		act, err := DecodeAction(line)
		if err != nil {
			c.logger.Warnf("adapter: dropping malformed action: %v", err)
			continue
		}
		select {
		case c.actions <- act:
		case <-c.done:
			return
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		c.logger.Warnf("adapter: action stream error: %v", err)
	}
}

// Send writes one event envelope to the daemon.
func (c *Conn) Send(ev wm.Event) error {
	data, err := EncodeEvent(ev)
	if err != nil {
		return err
	}
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if _, err := c.conn.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	return nil
}

// Actions returns the decoded action stream. The channel closes when the
// daemon disconnects or Close is called.
func (c *Conn) Actions() <-chan wm.Action {
	return c.actions
}

// Close tears down the connection. Safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.once.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}
