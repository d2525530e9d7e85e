package input

import (
	"fmt"
	"strings"
)

// Modifiers is a bitset of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
	ModCapsLock
	ModNumLock
)

// Has reports whether every modifier in flags is set.
func (m Modifiers) Has(flags Modifiers) bool { return m&flags == flags }

func (m Modifiers) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for _, p := range []struct {
		flag Modifiers
		name string
	}{
		{ModShift, "shift"},
		{ModCtrl, "ctrl"},
		{ModAlt, "alt"},
		{ModSuper, "super"},
		{ModCapsLock, "caps_lock"},
		{ModNumLock, "num_lock"},
	} {
		if m.Has(p.flag) {
			parts = append(parts, p.name)
		}
	}
	return strings.Join(parts, "+")
}

// ParseModifiers reads modifier names from a '+'-separated list like
// "Mod4+Shift". Names are case-insensitive; tokens that are not modifier
// names are ignored, so a full binding string can be passed through.
func ParseModifiers(s string) Modifiers {
	var mods Modifiers
	for _, part := range strings.Split(s, "+") {
		if flag, ok := modifierFromName(strings.ToLower(strings.TrimSpace(part))); ok {
			mods |= flag
		}
	}
	return mods
}

func modifierFromName(name string) (Modifiers, bool) {
	switch name {
	case "shift":
		return ModShift, true
	case "ctrl", "control":
		return ModCtrl, true
	case "alt", "mod1":
		return ModAlt, true
	case "super", "mod4", "logo", "win":
		return ModSuper, true
	default:
		return 0, false
	}
}

// KeyCode identifies a keyboard key by symbol. Translation from hardware
// keycodes is the embedding backend's job; bindings only ever name symbols.
type KeyCode int

const (
	KeyA KeyCode = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ

	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	Key0

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12

	KeyEscape
	KeyTab
	KeySpace
	KeyReturn
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyLeft
	KeyRight
	KeyUp
	KeyDown

	KeyMinus
	KeyEqual
	KeyBracketLeft
	KeyBracketRight
	KeySemicolon
	KeyApostrophe
	KeyGrave
	KeyBackslash
	KeyComma
	KeyPeriod
	KeySlash

	KeyAudioMute
	KeyAudioLowerVolume
	KeyAudioRaiseVolume
	KeyAudioPlay
	KeyAudioPause
	KeyAudioStop
	KeyAudioPrev
	KeyAudioNext

	KeyPrint
	KeyScrollLock
	KeyPause
	KeyNumLock
	KeyCapsLock
)

// KeyFromName resolves a key name as written in a binding string. Names are
// case-insensitive and common aliases are accepted.
func KeyFromName(name string) (KeyCode, error) {
	switch strings.ToLower(name) {
	case "a":
		return KeyA, nil
	case "b":
		return KeyB, nil
	case "c":
		return KeyC, nil
	case "d":
		return KeyD, nil
	case "e":
		return KeyE, nil
	case "f":
		return KeyF, nil
	case "g":
		return KeyG, nil
	case "h":
		return KeyH, nil
	case "i":
		return KeyI, nil
	case "j":
		return KeyJ, nil
	case "k":
		return KeyK, nil
	case "l":
		return KeyL, nil
	case "m":
		return KeyM, nil
	case "n":
		return KeyN, nil
	case "o":
		return KeyO, nil
	case "p":
		return KeyP, nil
	case "q":
		return KeyQ, nil
	case "r":
		return KeyR, nil
	case "s":
		return KeyS, nil
	case "t":
		return KeyT, nil
	case "u":
		return KeyU, nil
	case "v":
		return KeyV, nil
	case "w":
		return KeyW, nil
	case "x":
		return KeyX, nil
	case "y":
		return KeyY, nil
	case "z":
		return KeyZ, nil

	case "1", "key1":
		return Key1, nil
	case "2", "key2":
		return Key2, nil
	case "3", "key3":
		return Key3, nil
	case "4", "key4":
		return Key4, nil
	case "5", "key5":
		return Key5, nil
	case "6", "key6":
		return Key6, nil
	case "7", "key7":
		return Key7, nil
	case "8", "key8":
		return Key8, nil
	case "9", "key9":
		return Key9, nil
	case "0", "key0":
		return Key0, nil

	case "f1":
		return KeyF1, nil
	case "f2":
		return KeyF2, nil
	case "f3":
		return KeyF3, nil
	case "f4":
		return KeyF4, nil
	case "f5":
		return KeyF5, nil
	case "f6":
		return KeyF6, nil
	case "f7":
		return KeyF7, nil
	case "f8":
		return KeyF8, nil
	case "f9":
		return KeyF9, nil
	case "f10":
		return KeyF10, nil
	case "f11":
		return KeyF11, nil
	case "f12":
		return KeyF12, nil

	case "escape", "esc":
		return KeyEscape, nil
	case "tab":
		return KeyTab, nil
	case "space":
		return KeySpace, nil
	case "return", "enter":
		return KeyReturn, nil
	case "backspace":
		return KeyBackspace, nil
	case "delete":
		return KeyDelete, nil
	case "insert":
		return KeyInsert, nil
	case "home":
		return KeyHome, nil
	case "end":
		return KeyEnd, nil
	case "pageup", "page_up", "prior":
		return KeyPageUp, nil
	case "pagedown", "page_down", "next":
		return KeyPageDown, nil
	case "left":
		return KeyLeft, nil
	case "right":
		return KeyRight, nil
	case "up":
		return KeyUp, nil
	case "down":
		return KeyDown, nil

	case "minus", "-":
		return KeyMinus, nil
	case "equal", "=":
		return KeyEqual, nil
	case "bracketleft", "[":
		return KeyBracketLeft, nil
	case "bracketright", "]":
		return KeyBracketRight, nil
	case "semicolon", ";":
		return KeySemicolon, nil
	case "apostrophe", "'":
		return KeyApostrophe, nil
	case "grave", "`":
		return KeyGrave, nil
	case "backslash", "\\":
		return KeyBackslash, nil
	case "comma", ",":
		return KeyComma, nil
	case "period", ".":
		return KeyPeriod, nil
	case "slash", "/":
		return KeySlash, nil

	case "xf86audiomute", "audiomute":
		return KeyAudioMute, nil
	case "xf86audiolowervolume", "audiolowervolume":
		return KeyAudioLowerVolume, nil
	case "xf86audioraisevolume", "audioraisevolume":
		return KeyAudioRaiseVolume, nil
	case "xf86audioplay", "audioplay":
		return KeyAudioPlay, nil
	case "xf86audiopause", "audiopause":
		return KeyAudioPause, nil
	case "xf86audiostop", "audiostop":
		return KeyAudioStop, nil
	case "xf86audioprev", "audioprev":
		return KeyAudioPrev, nil
	case "xf86audionext", "audionext":
		return KeyAudioNext, nil

	case "print":
		return KeyPrint, nil
	case "scroll_lock", "scrolllock":
		return KeyScrollLock, nil
	case "pause":
		return KeyPause, nil
	case "num_lock", "numlock":
		return KeyNumLock, nil
	case "caps_lock", "capslock":
		return KeyCapsLock, nil

	default:
		return 0, fmt.Errorf("unknown key %q", name)
	}
}

// MouseButton identifies a pointer button.
type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonMiddle
	ButtonRight
	ButtonScrollUp
	ButtonScrollDown
	ButtonScrollLeft
	ButtonScrollRight
	ButtonExtra1
	ButtonExtra2
)

// ButtonFromName resolves a mouse button name; button1..button9 and the
// usual aliases are accepted, case-insensitively.
func ButtonFromName(name string) (MouseButton, error) {
	switch strings.ToLower(name) {
	case "button1", "left", "lmb":
		return ButtonLeft, nil
	case "button2", "middle", "mmb":
		return ButtonMiddle, nil
	case "button3", "right", "rmb":
		return ButtonRight, nil
	case "button4", "scrollup":
		return ButtonScrollUp, nil
	case "button5", "scrolldown":
		return ButtonScrollDown, nil
	case "button6", "scrollleft":
		return ButtonScrollLeft, nil
	case "button7", "scrollright":
		return ButtonScrollRight, nil
	case "button8", "extra1":
		return ButtonExtra1, nil
	case "button9", "extra2":
		return ButtonExtra2, nil
	default:
		return 0, fmt.Errorf("unknown mouse button %q", name)
	}
}
