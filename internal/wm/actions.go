package wm

// Action is an output of the core: an instruction for the display layer.
// Actions within one batch apply in order; the core never assumes ordering
// across batches.
type Action interface {
	Kind() string
	action()
}

// SetWindowGeometry positions and sizes a window.
type SetWindowGeometry struct {
	ID       WindowID `json:"id"`
	Geometry Geometry `json:"geometry"`
}

// SetFocus directs input focus to a window. A zero ID clears focus.
type SetFocus struct {
	ID WindowID `json:"id,omitempty"`
}

// RequestClose asks a window to close; the window may refuse.
type RequestClose struct {
	ID WindowID `json:"id"`
}

// SetFloating reparents a window between the tiled and floating layers.
type SetFloating struct {
	ID       WindowID `json:"id"`
	Floating bool     `json:"floating"`
}

// WorkspaceChanged announces the active workspace.
type WorkspaceChanged struct {
	Active WorkspaceID `json:"active,omitempty"`
}

// SpawnProcess asks the host to start a process.
type SpawnProcess struct {
	Command string `json:"command"`
}

// ReloadConfig asks the host to reload configuration and feed it back in.
type ReloadConfig struct{}

// Exit asks the host to shut down.
type Exit struct{}

func (SetWindowGeometry) Kind() string { return "set_window_geometry" }
func (SetFocus) Kind() string          { return "set_focus" }
func (RequestClose) Kind() string      { return "request_close" }
func (SetFloating) Kind() string       { return "set_floating" }
func (WorkspaceChanged) Kind() string  { return "workspace_changed" }
func (SpawnProcess) Kind() string      { return "spawn_process" }
func (ReloadConfig) Kind() string      { return "reload_config" }
func (Exit) Kind() string              { return "exit" }

func (SetWindowGeometry) action() {}
func (SetFocus) action()          {}
func (RequestClose) action()      {}
func (SetFloating) action()       {}
func (WorkspaceChanged) action()  {}
func (SpawnProcess) action()      {}
func (ReloadConfig) action()      {}
func (Exit) action()              {}
