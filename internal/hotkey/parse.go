package hotkey

import (
	"fmt"
	"strings"

	"golang.design/x/hotkey"
)

var keyNames = map[string]hotkey.Key{
	"space":  hotkey.KeySpace,
	"return": hotkey.KeyReturn,
	"escape": hotkey.KeyEscape,
	"tab":    hotkey.KeyTab,
	"up":     hotkey.KeyUp,
	"down":   hotkey.KeyDown,
	"left":   hotkey.KeyLeft,
	"right":  hotkey.KeyRight,
	"a":      hotkey.KeyA,
	"b":      hotkey.KeyB,
	"c":      hotkey.KeyC,
	"d":      hotkey.KeyD,
	"e":      hotkey.KeyE,
	"f":      hotkey.KeyF,
	"g":      hotkey.KeyG,
	"h":      hotkey.KeyH,
	"i":      hotkey.KeyI,
	"j":      hotkey.KeyJ,
	"k":      hotkey.KeyK,
	"l":      hotkey.KeyL,
	"m":      hotkey.KeyM,
	"n":      hotkey.KeyN,
	"o":      hotkey.KeyO,
	"p":      hotkey.KeyP,
	"q":      hotkey.KeyQ,
	"r":      hotkey.KeyR,
	"s":      hotkey.KeyS,
	"t":      hotkey.KeyT,
	"u":      hotkey.KeyU,
	"v":      hotkey.KeyV,
	"w":      hotkey.KeyW,
	"x":      hotkey.KeyX,
	"y":      hotkey.KeyY,
	"z":      hotkey.KeyZ,
	"0":      hotkey.Key0,
	"1":      hotkey.Key1,
	"2":      hotkey.Key2,
	"3":      hotkey.Key3,
	"4":      hotkey.Key4,
	"5":      hotkey.Key5,
	"6":      hotkey.Key6,
	"7":      hotkey.Key7,
	"8":      hotkey.Key8,
	"9":      hotkey.Key9,
	"f1":     hotkey.KeyF1,
	"f2":     hotkey.KeyF2,
	"f3":     hotkey.KeyF3,
	"f4":     hotkey.KeyF4,
	"f5":     hotkey.KeyF5,
	"f6":     hotkey.KeyF6,
	"f7":     hotkey.KeyF7,
	"f8":     hotkey.KeyF8,
	"f9":     hotkey.KeyF9,
	"f10":    hotkey.KeyF10,
	"f11":    hotkey.KeyF11,
	"f12":    hotkey.KeyF12,
}

// ParseKey resolves a key name such as "Space" or "F9" to a key code.
func ParseKey(name string) (hotkey.Key, error) {
	key, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown key name: %q", name)
	}
	return key, nil
}

// FromSettings builds a Config from persisted settings. mode is
// "press-to-hold" or "toggle".
func FromSettings(ctrl, shift, alt bool, key, mode string) (Config, error) {
	k, err := ParseKey(key)
	if err != nil {
		return Config{}, err
	}

	var mods []hotkey.Modifier
	if ctrl {
		mods = append(mods, hotkey.ModCtrl)
	}
	if shift {
		mods = append(mods, hotkey.ModShift)
	}
	if alt {
		mods = append(mods, hotkey.Mod1)
	}
	if len(mods) == 0 {
		return Config{}, fmt.Errorf("hotkey needs at least one modifier")
	}

	cfg := Config{Modifiers: mods, Key: k, Mode: Toggle}
	if mode == "press-to-hold" {
		cfg.Mode = PressToHold
	}
	return cfg, nil
}

// Format renders a binding for display, e.g. "Ctrl+Alt+Space".
func Format(ctrl, shift, alt bool, key string) string {
	var parts []string
	if ctrl {
		parts = append(parts, "Ctrl")
	}
	if shift {
		parts = append(parts, "Shift")
	}
	if alt {
		parts = append(parts, "Alt")
	}
	name := strings.ToLower(key)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	parts = append(parts, name)
	return strings.Join(parts, "+")
}
