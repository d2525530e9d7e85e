// Package input resolves keyboard and mouse bindings to commands. It keeps
// the binding modes, the live modifier state, and the pressed key set; the
// embedding backend feeds it symbols, never hardware keycodes.
package input

import (
	"sort"
	"strings"

	"github.com/geket/lamella/internal/command"
	"github.com/geket/lamella/internal/config"
	"github.com/geket/lamella/internal/util"
)

// DefaultMode is the mode bindings land in when the configuration names none.
const DefaultMode = "default"

// Manager is the binding lookup table plus input state.
type Manager struct {
	log     *util.Logger
	current string
	modes   map[string]*Mode

	modifiers      Modifiers
	pressedKeys    []KeyCode
	pressedButtons []MouseButton
}

// NewManager creates a manager with an empty default mode.
func NewManager(log *util.Logger) *Manager {
	return &Manager{
		log:     log,
		current: DefaultMode,
		modes:   map[string]*Mode{DefaultMode: NewMode(DefaultMode)},
	}
}

// LoadBindings parses and installs key bindings, creating modes on demand.
// Bindings that do not parse are skipped with a warning; bindings whose
// command does not parse are installed as no-ops and warned about.
func (m *Manager) LoadBindings(bindings []config.Binding) {
	for _, b := range bindings {
		kb, err := ParseKeyBinding(b.Keys)
		if err != nil {
			m.log.Warnf("skipping binding: %v", err)
			continue
		}
		cmd := command.Parse(b.Command)
		m.warnUnknown(b.Keys, cmd)

		mode, ok := m.modes[b.Mode]
		if !ok {
			mode = NewMode(b.Mode)
			m.modes[b.Mode] = mode
		}
		mode.Bind(kb, cmd)
	}
}

// LoadMouseBindings parses and installs mouse bindings into the default
// mode. The stock bindings carry bare "move" and "resize", which the command
// grammar leaves unparsed; drags are driven by the floating modifier instead,
// so those are installed as-is without complaint.
func (m *Manager) LoadMouseBindings(bindings []config.MouseBinding) {
	for _, b := range bindings {
		mb, err := ParseMouseBinding(b.Button)
		if err != nil {
			m.log.Warnf("skipping mouse binding: %v", err)
			continue
		}
		m.modes[DefaultMode].BindButton(mb, command.Parse(b.Command))
	}
}

func (m *Manager) warnUnknown(source string, cmd command.Command) {
	u, ok := cmd.(command.Unknown)
	if !ok {
		return
	}
	word, _, _ := strings.Cut(u.Text, " ")
	if hint := command.Suggest(word); hint != "" && hint != strings.ToLower(word) {
		m.log.Warnf("binding %q: unknown command %q, did you mean %q", source, u.Text, hint)
		return
	}
	m.log.Warnf("binding %q: unknown command %q", source, u.Text)
}

// KeyPressed records the key as held and resolves the current mode's binding
// for it under the live modifier state.
func (m *Manager) KeyPressed(key KeyCode) (command.Command, bool) {
	held := false
	for _, k := range m.pressedKeys {
		if k == key {
			held = true
			break
		}
	}
	if !held {
		m.pressedKeys = append(m.pressedKeys, key)
	}

	mode, ok := m.modes[m.current]
	if !ok {
		return nil, false
	}
	cmd, ok := mode.Keys[KeyBinding{Mods: m.modifiers, Key: key}]
	return cmd, ok
}

// KeyReleased drops the key from the held set.
func (m *Manager) KeyReleased(key KeyCode) {
	for i, k := range m.pressedKeys {
		if k == key {
			m.pressedKeys = append(m.pressedKeys[:i], m.pressedKeys[i+1:]...)
			return
		}
	}
}

// ButtonPressed records the button as held and resolves the current mode's
// mouse binding for it.
func (m *Manager) ButtonPressed(button MouseButton) (command.Command, bool) {
	held := false
	for _, b := range m.pressedButtons {
		if b == button {
			held = true
			break
		}
	}
	if !held {
		m.pressedButtons = append(m.pressedButtons, button)
	}

	mode, ok := m.modes[m.current]
	if !ok {
		return nil, false
	}
	cmd, ok := mode.Buttons[MouseBinding{Mods: m.modifiers, Button: button}]
	return cmd, ok
}

// ButtonReleased drops the button from the held set.
func (m *Manager) ButtonReleased(button MouseButton) {
	for i, b := range m.pressedButtons {
		if b == button {
			m.pressedButtons = append(m.pressedButtons[:i], m.pressedButtons[i+1:]...)
			return
		}
	}
}

// SetModifiers replaces the live modifier state.
func (m *Manager) SetModifiers(mods Modifiers) {
	m.modifiers = mods
}

// Modifiers returns the live modifier state.
func (m *Manager) Modifiers() Modifiers {
	return m.modifiers
}

// SetMode switches the binding mode; unknown names leave the mode unchanged
// and return false.
func (m *Manager) SetMode(name string) bool {
	if _, ok := m.modes[name]; !ok {
		return false
	}
	m.current = name
	return true
}

// CurrentMode returns the active binding mode name.
func (m *Manager) CurrentMode() string {
	return m.current
}

// Modes returns the known binding modes sorted by name.
func (m *Manager) Modes() []string {
	names := make([]string, 0, len(m.modes))
	for name := range m.modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
