// Package ipc carries the event/action stream between the engine and an
// out-of-process display adapter. Every message is one JSON object per line
// with a "kind" discriminator; the remaining fields are the wm type's own
// JSON shape, so backends in other processes can speak the protocol without
// linking this module.
package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/geket/lamella/internal/wm"
)

type envelope struct {
	Kind string `json:"kind"`
}

// EncodeEvent renders an event as a single-line JSON envelope.
func EncodeEvent(ev wm.Event) ([]byte, error) {
	return encodeEnvelope(ev.Kind(), ev)
}

// EncodeAction renders an action as a single-line JSON envelope.
func EncodeAction(act wm.Action) ([]byte, error) {
	return encodeEnvelope(act.Kind(), act)
}

func encodeEnvelope(kind string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	fields["kind"] = kind
	return json.Marshal(fields)
}

// DecodeEvent parses an envelope produced by EncodeEvent. Unknown kinds are
// an error; the event set is closed.
func DecodeEvent(data []byte) (wm.Event, error) {
	var head envelope
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}
	if head.Kind == "" {
		return nil, fmt.Errorf("event envelope missing kind")
	}
	var (
		ev  wm.Event
		err error
	)
	switch head.Kind {
	case "window_mapped":
		var v wm.WindowMapped
		err = json.Unmarshal(data, &v)
		ev = v
	case "window_unmapped":
		var v wm.WindowUnmapped
		err = json.Unmarshal(data, &v)
		ev = v
	case "window_committed":
		var v wm.WindowCommitted
		err = json.Unmarshal(data, &v)
		ev = v
	case "focus_requested":
		var v wm.FocusRequested
		err = json.Unmarshal(data, &v)
		ev = v
	case "output_added":
		var v wm.OutputAdded
		err = json.Unmarshal(data, &v)
		ev = v
	case "output_removed":
		var v wm.OutputRemoved
		err = json.Unmarshal(data, &v)
		ev = v
	case "pointer_moved":
		var v wm.PointerMoved
		err = json.Unmarshal(data, &v)
		ev = v
	case "pointer_button":
		var v wm.PointerButton
		err = json.Unmarshal(data, &v)
		ev = v
	case "tick":
		ev = wm.Tick{}
	default:
		return nil, fmt.Errorf("unknown event kind %q", head.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Kind, err)
	}
	return ev, nil
}

// DecodeAction parses an envelope produced by EncodeAction.
func DecodeAction(data []byte) (wm.Action, error) {
	var head envelope
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode action envelope: %w", err)
	}
	if head.Kind == "" {
		return nil, fmt.Errorf("action envelope missing kind")
	}
	var (
		act wm.Action
		err error
	)
	switch head.Kind {
	case "set_window_geometry":
		var v wm.SetWindowGeometry
		err = json.Unmarshal(data, &v)
		act = v
	case "set_focus":
		var v wm.SetFocus
		err = json.Unmarshal(data, &v)
		act = v
	case "request_close":
		var v wm.RequestClose
		err = json.Unmarshal(data, &v)
		act = v
	case "set_floating":
		var v wm.SetFloating
		err = json.Unmarshal(data, &v)
		act = v
	case "workspace_changed":
		var v wm.WorkspaceChanged
		err = json.Unmarshal(data, &v)
		act = v
	case "spawn_process":
		var v wm.SpawnProcess
		err = json.Unmarshal(data, &v)
		act = v
	case "reload_config":
		act = wm.ReloadConfig{}
	case "exit":
		act = wm.Exit{}
	default:
		return nil, fmt.Errorf("unknown action kind %q", head.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", head.Kind, err)
	}
	return act, nil
}
