package config

import (
	"reflect"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Changes reports which configuration concerns differ between two configs.
// Reload uses it to decide between re-binding, recompiling rules, and a
// full relayout.
type Changes struct {
	General  bool
	Gaps     bool
	Bindings bool
	Rules    bool
}

// Any reports whether any concern changed.
func (ch Changes) Any() bool {
	return ch.General || ch.Gaps || ch.Bindings || ch.Rules
}

// String lists the changed concerns, or "none".
func (ch Changes) String() string {
	var parts []string
	if ch.General {
		parts = append(parts, "general")
	}
	if ch.Gaps {
		parts = append(parts, "gaps")
	}
	if ch.Bindings {
		parts = append(parts, "bindings")
	}
	if ch.Rules {
		parts = append(parts, "rules")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

// Diff classifies the differences between two configurations by concern.
func Diff(old, current *Config) Changes {
	var ch Changes
	ch.Gaps = old.Gaps != current.Gaps
	ch.Bindings = !reflect.DeepEqual(old.Bindings, current.Bindings) ||
		!reflect.DeepEqual(old.MouseBindings, current.MouseBindings)
	ch.Rules = !reflect.DeepEqual(old.Rules, current.Rules)
	ch.General = old.General != current.General ||
		old.Border != current.Border ||
		old.Colors != current.Colors ||
		old.Font != current.Font ||
		old.Input != current.Input ||
		old.Bar != current.Bar ||
		old.Animations != current.Animations ||
		!reflect.DeepEqual(old.Outputs, current.Outputs) ||
		!reflect.DeepEqual(old.Workspaces, current.Workspaces) ||
		!reflect.DeepEqual(old.Startup, current.Startup)
	return ch
}

// DiffSerialized returns a line diff between two serialized configuration
// payloads, for reload logging.
func DiffSerialized(previous, current []byte) string {
	return cmp.Diff(splitLines(previous), splitLines(current))
}

func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return []string{""}
	}
	return strings.Split(text, "\n")
}
