package wm

// StateFlags is a bitset of per-window state bits.
type StateFlags uint32

const (
	FlagFocused StateFlags = 1 << iota
	FlagFullscreen
	FlagMaximized
	FlagHidden
	FlagFloating
	FlagSticky
	FlagUrgent
	FlagMoving
	FlagResizing
	FlagDialog
	FlagModal
)

func (f StateFlags) Has(flag StateFlags) bool { return f&flag != 0 }
func (f *StateFlags) Set(flag StateFlags)     { *f |= flag }
func (f *StateFlags) Clear(flag StateFlags)   { *f &^= flag }
func (f *StateFlags) Toggle(flag StateFlags)  { *f ^= flag }

// WindowType classifies a window for placement policy.
type WindowType int

const (
	TypeNormal WindowType = iota
	TypeDialog
	TypeUtility
	TypeToolbar
	TypeSplash
	TypeMenu
	TypeDropdownMenu
	TypePopupMenu
	TypeTooltip
	TypeNotification
	TypeDock
	TypeDesktop
)

var windowTypeNames = map[WindowType]string{
	TypeNormal:       "normal",
	TypeDialog:       "dialog",
	TypeUtility:      "utility",
	TypeToolbar:      "toolbar",
	TypeSplash:       "splash",
	TypeMenu:         "menu",
	TypeDropdownMenu: "dropdown_menu",
	TypePopupMenu:    "popup_menu",
	TypeTooltip:      "tooltip",
	TypeNotification: "notification",
	TypeDock:         "dock",
	TypeDesktop:      "desktop",
}

func (t WindowType) String() string {
	if name, ok := windowTypeNames[t]; ok {
		return name
	}
	return "normal"
}

// ParseWindowType maps a snake_case name to a WindowType. The second
// return reports whether the name is known; unknown names yield TypeNormal.
func ParseWindowType(s string) (WindowType, bool) {
	for t, name := range windowTypeNames {
		if name == s {
			return t, true
		}
	}
	return TypeNormal, false
}

// BorderMode selects how a window border is drawn.
type BorderMode int

const (
	BorderNormal BorderMode = iota
	BorderPixel
	BorderNone
)

// BorderStyle is a border mode plus pixel width for BorderPixel.
type BorderStyle struct {
	Mode BorderMode `json:"mode"`
	Px   uint32     `json:"px"`
}

// DefaultBorder returns the default border style of a 2px pixel border.
func DefaultBorder() BorderStyle { return BorderStyle{Mode: BorderPixel, Px: 2} }

// SizeHints are optional client size constraints. Nil fields are absent.
type SizeHints struct {
	MinWidth   *uint32
	MinHeight  *uint32
	MaxWidth   *uint32
	MaxHeight  *uint32
	BaseWidth  *uint32
	BaseHeight *uint32
	WidthInc   *uint32
	HeightInc  *uint32
	MinAspect  *float64
	MaxAspect  *float64
}

// Constrain clamps a size to the hints: min/max bounds first, then snapping
// to the base+increment grid when both are present for an axis.
func (h SizeHints) Constrain(width, height uint32) (uint32, uint32) {
	w, ht := width, height
	if h.MinWidth != nil && w < *h.MinWidth {
		w = *h.MinWidth
	}
	if h.MaxWidth != nil && w > *h.MaxWidth {
		w = *h.MaxWidth
	}
	if h.MinHeight != nil && ht < *h.MinHeight {
		ht = *h.MinHeight
	}
	if h.MaxHeight != nil && ht > *h.MaxHeight {
		ht = *h.MaxHeight
	}
	if h.BaseWidth != nil && h.WidthInc != nil && *h.WidthInc > 0 {
		steps := uint32(0)
		if w > *h.BaseWidth {
			steps = (w - *h.BaseWidth) / *h.WidthInc
		}
		w = *h.BaseWidth + steps**h.WidthInc
	}
	if h.BaseHeight != nil && h.HeightInc != nil && *h.HeightInc > 0 {
		steps := uint32(0)
		if ht > *h.BaseHeight {
			steps = (ht - *h.BaseHeight) / *h.HeightInc
		}
		ht = *h.BaseHeight + steps**h.HeightInc
	}
	return w, ht
}

// Window is the core's record of a mapped window.
type Window struct {
	ID            WindowID    `json:"id"`
	Title         string      `json:"title"`
	AppID         string      `json:"app_id"`
	Class         string      `json:"class,omitempty"`
	Geometry      Geometry    `json:"geometry"`
	SavedGeometry *Geometry   `json:"saved_geometry,omitempty"`
	Flags         StateFlags  `json:"flags"`
	Type          WindowType  `json:"type"`
	Border        BorderStyle `json:"border"`
	Hints         SizeHints   `json:"-"`
	Workspace     WorkspaceID `json:"workspace"`
	PID           uint32      `json:"pid,omitempty"`
	Marks         []string    `json:"marks,omitempty"`
	Parent        WindowID    `json:"parent,omitempty"`
	Children      []WindowID  `json:"children,omitempty"`
	XWayland      bool        `json:"xwayland,omitempty"`
	Opacity       float32     `json:"opacity"`
}

// NewWindow creates a window record with default border, type and opacity.
func NewWindow(id WindowID, appID, title string) *Window {
	return &Window{
		ID:      id,
		Title:   title,
		AppID:   appID,
		Border:  DefaultBorder(),
		Opacity: 1.0,
	}
}

// ShouldFloat reports whether the window floats by default: transient types,
// windows with a parent, and modal windows.
func (w *Window) ShouldFloat() bool {
	switch w.Type {
	case TypeDialog, TypeUtility, TypeSplash, TypeMenu, TypePopupMenu, TypeTooltip, TypeNotification:
		return true
	}
	return w.Parent != 0 || w.Flags.Has(FlagModal)
}

// ToggleFloating flips the floating flag.
func (w *Window) ToggleFloating() { w.Flags.Toggle(FlagFloating) }

// SetFullscreen enters or leaves fullscreen. Entering snapshots the current
// geometry and adopts the output geometry; leaving restores the snapshot.
// Both directions are no-ops when already in the requested state.
func (w *Window) SetFullscreen(fullscreen bool, outputGeo Geometry) {
	if fullscreen && !w.Flags.Has(FlagFullscreen) {
		saved := w.Geometry
		w.SavedGeometry = &saved
		w.Geometry = outputGeo
		w.Flags.Set(FlagFullscreen)
	} else if !fullscreen && w.Flags.Has(FlagFullscreen) {
		if w.SavedGeometry != nil {
			w.Geometry = *w.SavedGeometry
			w.SavedGeometry = nil
		}
		w.Flags.Clear(FlagFullscreen)
	}
}

// SetGeometry applies a geometry with the size passed through the hints.
func (w *Window) SetGeometry(geo Geometry) {
	cw, ch := w.Hints.Constrain(geo.Width, geo.Height)
	w.Geometry = Geometry{X: geo.X, Y: geo.Y, Width: cw, Height: ch}
}

func (w *Window) IsVisible() bool { return !w.Flags.Has(FlagHidden) }
func (w *Window) IsFocused() bool { return w.Flags.Has(FlagFocused) }

// IsTiled reports whether the window participates in tiling.
func (w *Window) IsTiled() bool {
	return !w.Flags.Has(FlagFloating) && !w.Flags.Has(FlagFullscreen)
}

// BorderWidth is the effective border width; fullscreen windows have none.
func (w *Window) BorderWidth() uint32 {
	if w.Flags.Has(FlagFullscreen) {
		return 0
	}
	switch w.Border.Mode {
	case BorderNormal:
		return 2
	case BorderPixel:
		return w.Border.Px
	default:
		return 0
	}
}

// HasMark reports whether the window carries the mark.
func (w *Window) HasMark(mark string) bool {
	for _, m := range w.Marks {
		if m == mark {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the window record.
func (w *Window) Clone() *Window {
	cp := *w
	if w.SavedGeometry != nil {
		saved := *w.SavedGeometry
		cp.SavedGeometry = &saved
	}
	if len(w.Marks) > 0 {
		cp.Marks = append([]string(nil), w.Marks...)
	}
	if len(w.Children) > 0 {
		cp.Children = append([]WindowID(nil), w.Children...)
	}
	return &cp
}
