package wm

// Event is an input to the core: something the display layer observed. The
// set of events is closed; backends construct values, they do not define new
// kinds.
type Event interface {
	Kind() string
	event()
}

// WindowMapped reports a new window. The backend allocates the ID before
// emitting the event. AppID, Title, PID and Geometry are best-effort.
type WindowMapped struct {
	ID       WindowID  `json:"id"`
	AppID    string    `json:"app_id,omitempty"`
	Title    string    `json:"title,omitempty"`
	PID      uint32    `json:"pid,omitempty"`
	Geometry *Geometry `json:"geometry,omitempty"`
	XWayland bool      `json:"xwayland,omitempty"`
}

// WindowUnmapped reports that a window is gone.
type WindowUnmapped struct {
	ID WindowID `json:"id"`
}

// WindowCommitted reports a client-driven geometry change request.
type WindowCommitted struct {
	ID       WindowID  `json:"id"`
	Geometry *Geometry `json:"geometry,omitempty"`
}

// FocusRequested asks the core to focus a window.
type FocusRequested struct {
	ID WindowID `json:"id"`
}

// OutputAdded reports a new monitor.
type OutputAdded struct {
	ID       OutputID `json:"id"`
	Name     string   `json:"name"`
	Geometry Geometry `json:"geometry"`
}

// OutputRemoved reports a monitor going away.
type OutputRemoved struct {
	ID OutputID `json:"id"`
}

// PointerMoved reports the absolute pointer position.
type PointerMoved struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PointerButton reports a button press or release. Button values are Linux
// input event codes (272 left, 273 right, 274 middle).
type PointerButton struct {
	Button  uint32 `json:"button"`
	Pressed bool   `json:"pressed"`
}

// Tick drives deferred work such as pending relayouts.
type Tick struct{}

func (WindowMapped) Kind() string    { return "window_mapped" }
func (WindowUnmapped) Kind() string  { return "window_unmapped" }
func (WindowCommitted) Kind() string { return "window_committed" }
func (FocusRequested) Kind() string  { return "focus_requested" }
func (OutputAdded) Kind() string     { return "output_added" }
func (OutputRemoved) Kind() string   { return "output_removed" }
func (PointerMoved) Kind() string    { return "pointer_moved" }
func (PointerButton) Kind() string   { return "pointer_button" }
func (Tick) Kind() string            { return "tick" }

func (WindowMapped) event()    {}
func (WindowUnmapped) event()  {}
func (WindowCommitted) event() {}
func (FocusRequested) event()  {}
func (OutputAdded) event()     {}
func (OutputRemoved) event()   {}
func (PointerMoved) event()    {}
func (PointerButton) event()   {}
func (Tick) event()            {}
