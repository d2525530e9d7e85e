package wm

import "strings"

// Criteria is a window-matching predicate used by window rules. String
// fields match as substrings; empty strings and nil pointers are absent and
// match anything.
type Criteria struct {
	AppID    string
	Class    string
	Title    string
	Type     *WindowType
	Floating *bool
	Urgent   *bool
	Focused  *bool
	ConMark  string
}

// Matches reports whether the window satisfies every present field.
func (c Criteria) Matches(w *Window) bool {
	if c.AppID != "" && !strings.Contains(w.AppID, c.AppID) {
		return false
	}
	if c.Class != "" && !strings.Contains(w.Class, c.Class) {
		return false
	}
	if c.Title != "" && !strings.Contains(w.Title, c.Title) {
		return false
	}
	if c.Type != nil && w.Type != *c.Type {
		return false
	}
	if c.Floating != nil && w.Flags.Has(FlagFloating) != *c.Floating {
		return false
	}
	if c.Urgent != nil && w.Flags.Has(FlagUrgent) != *c.Urgent {
		return false
	}
	if c.Focused != nil && w.Flags.Has(FlagFocused) != *c.Focused {
		return false
	}
	if c.ConMark != "" && !w.HasMark(c.ConMark) {
		return false
	}
	return true
}
