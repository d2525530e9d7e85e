// Package config defines the YAML configuration schema, its defaults, and
// validation. The schema follows the i3/Sway configuration vocabulary; the
// packages that consume it (input, rules, core) compile the raw strings here
// into their own executable forms.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/geket/lamella/internal/wm"
)

// Config is the top-level configuration document.
type Config struct {
	General       General        `yaml:"general"`
	Gaps          Gaps           `yaml:"gaps"`
	Border        Border         `yaml:"border"`
	Colors        Colors         `yaml:"colors"`
	Font          Font           `yaml:"font"`
	Input         Input          `yaml:"input"`
	Outputs       []Output       `yaml:"outputs,omitempty"`
	Workspaces    []Workspace    `yaml:"workspaces,omitempty"`
	Bindings      []Binding      `yaml:"bindings"`
	MouseBindings []MouseBinding `yaml:"mouse_bindings"`
	Rules         []Rule         `yaml:"rules,omitempty"`
	Startup       []Startup      `yaml:"startup,omitempty"`
	Bar           Bar            `yaml:"bar"`
	Animations    Animations     `yaml:"animations"`
}

// UnmarshalYAML decodes over the built-in defaults, so groups absent from
// the document keep their default values.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type rawConfig Config
	raw := rawConfig(Default())
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*c = Config(raw)
	return nil
}

// General holds the top-level behavior switches.
type General struct {
	FocusFollowsMouse     string `yaml:"focus_follows_mouse"`
	FloatingModifier      string `yaml:"floating_modifier"`
	DefaultLayout         string `yaml:"default_layout"`
	DefaultOrientation    string `yaml:"default_orientation"`
	WorkspaceBackAndForth bool   `yaml:"workspace_back_and_forth"`
	SocketPath            string `yaml:"socket_path,omitempty"`
}

// Gaps describes inner and outer gaps applied during layout.
type Gaps struct {
	Inner uint32 `yaml:"inner"`
	Outer uint32 `yaml:"outer"`
}

// Border configures default window borders.
type Border struct {
	Width         uint32 `yaml:"width"`
	Style         string `yaml:"style"`
	FloatingStyle string `yaml:"floating_style"`
}

// Colors is the window color scheme.
type Colors struct {
	Focused         WindowColors `yaml:"focused"`
	FocusedInactive WindowColors `yaml:"focused_inactive"`
	Unfocused       WindowColors `yaml:"unfocused"`
	Urgent          WindowColors `yaml:"urgent"`
	Background      string       `yaml:"background"`
}

// WindowColors is one color class of the scheme.
type WindowColors struct {
	Border      string `yaml:"border"`
	Background  string `yaml:"background"`
	Text        string `yaml:"text"`
	Indicator   string `yaml:"indicator"`
	ChildBorder string `yaml:"child_border"`
}

// Font configures the title and bar font.
type Font struct {
	Family string  `yaml:"family"`
	Size   float64 `yaml:"size"`
	Style  string  `yaml:"style"`
}

// Input configures keyboard and pointer devices.
type Input struct {
	RepeatDelay   uint32  `yaml:"repeat_delay"`
	RepeatRate    uint32  `yaml:"repeat_rate"`
	XKBLayout     string  `yaml:"xkb_layout"`
	XKBVariant    string  `yaml:"xkb_variant,omitempty"`
	XKBOptions    string  `yaml:"xkb_options,omitempty"`
	NaturalScroll bool    `yaml:"natural_scroll"`
	Tap           bool    `yaml:"tap"`
	AccelProfile  string  `yaml:"accel_profile"`
	PointerSpeed  float64 `yaml:"pointer_speed"`
}

// Output configures a single monitor by name.
type Output struct {
	Name       string    `yaml:"name"`
	Resolution string    `yaml:"resolution,omitempty"`
	Refresh    *float64  `yaml:"refresh,omitempty"`
	Position   *Position `yaml:"position,omitempty"`
	Scale      *float64  `yaml:"scale,omitempty"`
	Transform  string    `yaml:"transform,omitempty"`
	Disable    bool      `yaml:"disable,omitempty"`
}

// Position is an output placement in layout coordinates.
type Position struct {
	X int32 `yaml:"x"`
	Y int32 `yaml:"y"`
}

// Workspace pins a named workspace to an output or overrides its gaps.
type Workspace struct {
	Name   string  `yaml:"name"`
	Output string  `yaml:"output,omitempty"`
	Gaps   *uint32 `yaml:"gaps,omitempty"`
}

// Binding maps a key combination to a command within a binding mode.
type Binding struct {
	Keys    string `yaml:"keys"`
	Command string `yaml:"command"`
	Mode    string `yaml:"mode,omitempty"`
}

// MouseBinding maps a modified button press to a command.
type MouseBinding struct {
	Button  string `yaml:"button"`
	Command string `yaml:"command"`
}

// Rule pairs window criteria with commands applied when a matching window
// is mapped.
type Rule struct {
	Criteria Criteria `yaml:"criteria"`
	Commands []string `yaml:"commands"`
}

// Criteria selects windows for rule application. String fields match by
// substring; nil booleans do not constrain.
type Criteria struct {
	AppID    string `yaml:"app_id,omitempty"`
	Class    string `yaml:"class,omitempty"`
	Title    string `yaml:"title,omitempty"`
	Type     string `yaml:"type,omitempty"`
	Floating *bool  `yaml:"floating,omitempty"`
	Urgent   *bool  `yaml:"urgent,omitempty"`
	Focused  *bool  `yaml:"focused,omitempty"`
	ConMark  string `yaml:"con_mark,omitempty"`
}

func (c Criteria) isEmpty() bool {
	return c.AppID == "" && c.Class == "" && c.Title == "" && c.Type == "" &&
		c.Floating == nil && c.Urgent == nil && c.Focused == nil && c.ConMark == ""
}

// Startup is a command launched when the compositor starts. Always commands
// also run on reload.
type Startup struct {
	Command string `yaml:"command"`
	Always  bool   `yaml:"always,omitempty"`
}

// Bar configures the built-in status bar.
type Bar struct {
	Enabled          bool      `yaml:"enabled"`
	Position         string    `yaml:"position"`
	Height           uint32    `yaml:"height"`
	StatusCommand    string    `yaml:"status_command,omitempty"`
	Font             string    `yaml:"font,omitempty"`
	Colors           BarColors `yaml:"colors"`
	WorkspaceButtons bool      `yaml:"workspace_buttons"`
	ModeIndicator    bool      `yaml:"mode_indicator"`
}

// BarColors is the bar color scheme.
type BarColors struct {
	Background        string          `yaml:"background"`
	Statusline        string          `yaml:"statusline"`
	Separator         string          `yaml:"separator"`
	FocusedWorkspace  WorkspaceColors `yaml:"focused_workspace"`
	ActiveWorkspace   WorkspaceColors `yaml:"active_workspace"`
	InactiveWorkspace WorkspaceColors `yaml:"inactive_workspace"`
	UrgentWorkspace   WorkspaceColors `yaml:"urgent_workspace"`
}

// WorkspaceColors colors one workspace button on the bar.
type WorkspaceColors struct {
	Border     string `yaml:"border"`
	Background string `yaml:"background"`
	Text       string `yaml:"text"`
}

// Animations configures window animations.
type Animations struct {
	Enabled  bool   `yaml:"enabled"`
	Duration uint32 `yaml:"duration"`
	Curve    string `yaml:"curve"`
}

// Load reads and validates a configuration file. Absent groups and fields
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates raw configuration bytes. Absent groups and
// fields keep their defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultPath returns the first existing configuration file among the
// standard locations, or empty when none exists.
func DefaultPath() string {
	var candidates []string
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "lamella", "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		candidates = append(candidates,
			filepath.Join(home, ".config", "lamella", "config.yaml"),
			filepath.Join(home, ".lamella", "config.yaml"),
		)
	}
	candidates = append(candidates, "/etc/lamella/config.yaml")
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// SocketPath resolves the control socket path: the configured path if set,
// else $XDG_RUNTIME_DIR/lamella.sock, else a temp-dir fallback.
func (c *Config) SocketPath() string {
	if c.General.SocketPath != "" {
		return c.General.SocketPath
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "lamella.sock")
	}
	return filepath.Join(os.TempDir(), "lamella.sock")
}

func (c *Config) applyDefaults() {
	for i := range c.Bindings {
		if c.Bindings[i].Mode == "" {
			c.Bindings[i].Mode = "default"
		}
	}
}

// Validate performs basic sanity checks.
func (c *Config) Validate() error {
	if !oneOf(c.General.FocusFollowsMouse, "yes", "no", "always") {
		return fmt.Errorf("general.focus_follows_mouse must be yes, no, or always, got %q", c.General.FocusFollowsMouse)
	}
	if !oneOf(c.General.DefaultLayout, "split", "tabbed", "stacked") {
		return fmt.Errorf("general.default_layout must be split, tabbed, or stacked, got %q", c.General.DefaultLayout)
	}
	if !oneOf(c.General.DefaultOrientation, "horizontal", "vertical", "auto") {
		return fmt.Errorf("general.default_orientation must be horizontal, vertical, or auto, got %q", c.General.DefaultOrientation)
	}
	if !oneOf(c.Border.Style, "normal", "pixel", "none") {
		return fmt.Errorf("border.style must be normal, pixel, or none, got %q", c.Border.Style)
	}
	if !oneOf(c.Border.FloatingStyle, "normal", "pixel", "none") {
		return fmt.Errorf("border.floating_style must be normal, pixel, or none, got %q", c.Border.FloatingStyle)
	}
	if c.Font.Size <= 0 {
		return fmt.Errorf("font.size must be positive, got %v", c.Font.Size)
	}
	if !oneOf(c.Input.AccelProfile, "adaptive", "flat") {
		return fmt.Errorf("input.accel_profile must be adaptive or flat, got %q", c.Input.AccelProfile)
	}
	if !oneOf(c.Bar.Position, "top", "bottom") {
		return fmt.Errorf("bar.position must be top or bottom, got %q", c.Bar.Position)
	}
	if c.Bar.Height == 0 {
		return fmt.Errorf("bar.height must be positive")
	}
	if !oneOf(c.Animations.Curve, "linear", "ease-out-cubic", "ease-out-quad", "ease-in-out-cubic") {
		return fmt.Errorf("animations.curve must be linear, ease-out-cubic, ease-out-quad, or ease-in-out-cubic, got %q", c.Animations.Curve)
	}
	if err := c.validateOutputs(); err != nil {
		return err
	}
	if err := c.validateWorkspaces(); err != nil {
		return err
	}
	if err := c.validateBindings(); err != nil {
		return err
	}
	if err := c.validateRules(); err != nil {
		return err
	}
	for i, s := range c.Startup {
		if s.Command == "" {
			return fmt.Errorf("startup %d: command cannot be empty", i)
		}
	}
	return nil
}

func (c *Config) validateOutputs() error {
	for i, out := range c.Outputs {
		if out.Name == "" {
			return fmt.Errorf("output %d: name cannot be empty", i)
		}
		if out.Resolution != "" {
			if _, _, err := ParseResolution(out.Resolution); err != nil {
				return fmt.Errorf("output %q: %w", out.Name, err)
			}
		}
		if out.Scale != nil && *out.Scale <= 0 {
			return fmt.Errorf("output %q: scale must be positive", out.Name)
		}
		if out.Transform != "" && !oneOf(out.Transform, "normal", "90", "180", "270", "flipped", "flipped-90", "flipped-180", "flipped-270") {
			return fmt.Errorf("output %q: unknown transform %q", out.Name, out.Transform)
		}
	}
	return nil
}

func (c *Config) validateWorkspaces() error {
	names := map[string]struct{}{}
	for i, ws := range c.Workspaces {
		if ws.Name == "" {
			return fmt.Errorf("workspace %d: name cannot be empty", i)
		}
		if _, exists := names[ws.Name]; exists {
			return fmt.Errorf("duplicate workspace %q", ws.Name)
		}
		names[ws.Name] = struct{}{}
	}
	return nil
}

func (c *Config) validateBindings() error {
	seen := map[string]struct{}{}
	for i, b := range c.Bindings {
		if b.Keys == "" {
			return fmt.Errorf("binding %d: keys cannot be empty", i)
		}
		if b.Command == "" {
			return fmt.Errorf("binding %q: command cannot be empty", b.Keys)
		}
		key := b.Mode + " " + b.Keys
		if _, exists := seen[key]; exists {
			return fmt.Errorf("duplicate binding %q in mode %q", b.Keys, b.Mode)
		}
		seen[key] = struct{}{}
	}
	for i, mb := range c.MouseBindings {
		if mb.Button == "" {
			return fmt.Errorf("mouse binding %d: button cannot be empty", i)
		}
		if mb.Command == "" {
			return fmt.Errorf("mouse binding %q: command cannot be empty", mb.Button)
		}
	}
	return nil
}

func (c *Config) validateRules() error {
	for i, r := range c.Rules {
		if r.Criteria.isEmpty() {
			return fmt.Errorf("rule %d: criteria must set at least one field", i)
		}
		if r.Criteria.Type != "" {
			if _, ok := wm.ParseWindowType(r.Criteria.Type); !ok {
				return fmt.Errorf("rule %d: unknown window type %q", i, r.Criteria.Type)
			}
		}
		if len(r.Commands) == 0 {
			return fmt.Errorf("rule %d: must define commands", i)
		}
		for _, cmd := range r.Commands {
			if strings.TrimSpace(cmd) == "" {
				return fmt.Errorf("rule %d: command cannot be empty", i)
			}
		}
	}
	return nil
}

// ParseResolution parses a WIDTHxHEIGHT mode string.
func ParseResolution(s string) (width, height uint32, err error) {
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return 0, 0, fmt.Errorf("resolution %q: want WIDTHxHEIGHT", s)
	}
	wv, err := strconv.ParseUint(w, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("resolution %q: %w", s, err)
	}
	hv, err := strconv.ParseUint(h, 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("resolution %q: %w", s, err)
	}
	if wv == 0 || hv == 0 {
		return 0, 0, fmt.Errorf("resolution %q: dimensions must be positive", s)
	}
	return uint32(wv), uint32(hv), nil
}

func oneOf(value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
