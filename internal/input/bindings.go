package input

import (
	"fmt"
	"strings"

	"github.com/geket/lamella/internal/command"
)

// KeyBinding pairs a modifier set with a key.
type KeyBinding struct {
	Mods Modifiers
	Key  KeyCode
}

// ParseKeyBinding reads a binding string like "Mod4+Shift+Return". Every
// '+'-separated token that names a modifier accumulates; the remaining token
// is the key. A string without a key, or with an unknown key name, is an
// error.
func ParseKeyBinding(s string) (KeyBinding, error) {
	var mods Modifiers
	keyPart := ""
	haveKey := false

	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		if flag, ok := modifierFromName(strings.ToLower(part)); ok {
			mods |= flag
			continue
		}
		keyPart = part
		haveKey = true
	}

	if !haveKey {
		return KeyBinding{}, fmt.Errorf("binding %q has no key", s)
	}
	key, err := KeyFromName(keyPart)
	if err != nil {
		return KeyBinding{}, fmt.Errorf("binding %q: %w", s, err)
	}
	return KeyBinding{Mods: mods, Key: key}, nil
}

// MouseBinding pairs a modifier set with a pointer button.
type MouseBinding struct {
	Mods   Modifiers
	Button MouseButton
}

// ParseMouseBinding reads a binding string like "Mod4+button1".
func ParseMouseBinding(s string) (MouseBinding, error) {
	var mods Modifiers
	buttonPart := ""
	haveButton := false

	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		if flag, ok := modifierFromName(strings.ToLower(part)); ok {
			mods |= flag
			continue
		}
		buttonPart = part
		haveButton = true
	}

	if !haveButton {
		return MouseBinding{}, fmt.Errorf("binding %q has no button", s)
	}
	button, err := ButtonFromName(buttonPart)
	if err != nil {
		return MouseBinding{}, fmt.Errorf("binding %q: %w", s, err)
	}
	return MouseBinding{Mods: mods, Button: button}, nil
}

// Mode is a named set of bindings, like i3's resize mode.
type Mode struct {
	Name    string
	Keys    map[KeyBinding]command.Command
	Buttons map[MouseBinding]command.Command
}

// NewMode creates an empty binding mode.
func NewMode(name string) *Mode {
	return &Mode{
		Name:    name,
		Keys:    make(map[KeyBinding]command.Command),
		Buttons: make(map[MouseBinding]command.Command),
	}
}

// Bind installs a key binding, replacing any previous command for it.
func (m *Mode) Bind(b KeyBinding, cmd command.Command) {
	m.Keys[b] = cmd
}

// BindButton installs a mouse binding, replacing any previous command for it.
func (m *Mode) BindButton(b MouseBinding, cmd command.Command) {
	m.Buttons[b] = cmd
}
