// Package layout implements the tiling tree: containers of windows split
// along an axis or collapsed into tabbed/stacked groups, with ratio-driven
// space division and a per-pass geometry cache.
package layout

import "github.com/geket/lamella/internal/wm"

// SplitDirection is the axis a split container divides along.
type SplitDirection int

const (
	Horizontal SplitDirection = iota
	Vertical
)

// Toggle returns the other axis.
func (d SplitDirection) Toggle() SplitDirection {
	if d == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (d SplitDirection) String() string {
	if d == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Mode is how a container arranges its children.
type Mode int

const (
	ModeSplit Mode = iota
	ModeTabbed
	ModeStacked
)

func (m Mode) String() string {
	switch m {
	case ModeTabbed:
		return "tabbed"
	case ModeStacked:
		return "stacked"
	default:
		return "split"
	}
}

// Direction is a focus or movement direction.
type Direction int

const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	case DirUp:
		return DirDown
	default:
		return DirUp
	}
}

func (d Direction) Horizontal() bool { return d == DirLeft || d == DirRight }
func (d Direction) Vertical() bool   { return d == DirUp || d == DirDown }

func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	default:
		return "down"
	}
}

// Node is one child slot of a container: either a nested container or a
// window. Exactly one field is set.
type Node struct {
	Container ContainerID `json:"container,omitempty"`
	Window    wm.WindowID `json:"window,omitempty"`
}

// WindowNode wraps a window id as a tree node.
func WindowNode(id wm.WindowID) Node { return Node{Window: id} }

// ContainerNode wraps a container id as a tree node.
func ContainerNode(id ContainerID) Node { return Node{Container: id} }

func (n Node) IsWindow() bool    { return n.Window != 0 }
func (n Node) IsContainer() bool { return n.Container != 0 }
