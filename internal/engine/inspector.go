package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/geket/lamella/internal/wm"
)

// historyLimit bounds the dispatch history ring.
const historyLimit = 256

// DispatchRecord is one history entry: the source that ran (an event kind, a
// command name, or a host trigger) and the actions it produced.
type DispatchRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Actions   []string  `json:"actions,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// dispatchLog is a bounded ring of dispatch records. It carries its own lock
// so inspection never contends with the core mutex.
type dispatchLog struct {
	mu       sync.Mutex
	buf      []DispatchRecord
	start    int
	count    int
	capacity int
}

func newDispatchLog(capacity int) *dispatchLog {
	if capacity <= 0 {
		capacity = historyLimit
	}
	return &dispatchLog{
		buf:      make([]DispatchRecord, capacity),
		capacity: capacity,
	}
}

func (l *dispatchLog) add(rec DispatchRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.count < l.capacity {
		l.buf[(l.start+l.count)%l.capacity] = rec
		l.count++
		return
	}
	l.buf[l.start] = rec
	l.start = (l.start + 1) % l.capacity
}

// records returns the retained history, oldest first.
func (l *dispatchLog) records() []DispatchRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]DispatchRecord, l.count)
	for i := 0; i < l.count; i++ {
		out[i] = l.buf[(l.start+i)%l.capacity]
	}
	return out
}

// DescribeActions renders an action batch as one line per action.
func DescribeActions(actions []wm.Action) []string {
	if len(actions) == 0 {
		return nil
	}
	out := make([]string, len(actions))
	for i, act := range actions {
		out[i] = DescribeAction(act)
	}
	return out
}

// DescribeAction renders one action for history entries and logs.
func DescribeAction(act wm.Action) string {
	switch a := act.(type) {
	case wm.SetWindowGeometry:
		return fmt.Sprintf("%s %s %dx%d+%d+%d", a.Kind(), a.ID, a.Geometry.Width, a.Geometry.Height, a.Geometry.X, a.Geometry.Y)
	case wm.SetFocus:
		if a.ID == 0 {
			return a.Kind() + " none"
		}
		return fmt.Sprintf("%s %s", a.Kind(), a.ID)
	case wm.RequestClose:
		return fmt.Sprintf("%s %s", a.Kind(), a.ID)
	case wm.SetFloating:
		return fmt.Sprintf("%s %s %v", a.Kind(), a.ID, a.Floating)
	case wm.WorkspaceChanged:
		return fmt.Sprintf("%s %s", a.Kind(), a.Active)
	case wm.SpawnProcess:
		return fmt.Sprintf("%s %q", a.Kind(), a.Command)
	default:
		return act.Kind()
	}
}
