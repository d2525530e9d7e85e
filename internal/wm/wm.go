// Package wm defines the window-management vocabulary shared by the layout
// tree, the state aggregate and the backends: identifiers, geometry, the
// window model and the event/action boundary.
package wm

import "fmt"

// WindowID identifies a window for its lifetime. IDs are issued once and
// never reused; the zero value means "no window".
type WindowID uint64

func (id WindowID) String() string { return fmt.Sprintf("win:%d", uint64(id)) }

// WorkspaceID identifies a workspace. The zero value means "no workspace".
type WorkspaceID uint32

func (id WorkspaceID) String() string { return fmt.Sprintf("ws:%d", uint32(id)) }

// OutputID identifies an output (monitor). The zero value means "no output".
type OutputID uint64

func (id OutputID) String() string { return fmt.Sprintf("out:%d", uint64(id)) }
