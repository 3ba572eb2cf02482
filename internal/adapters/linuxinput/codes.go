package linuxinput

import (
	"fmt"
	"strconv"
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

// ParseKeyCode resolves a hotkey or button name to an EV_KEY code. Short
// hotkey names such as "f6" or "space" are looked up as KEY_F6/KEY_SPACE;
// full names (KEY_F8, BTN_TL) and numeric codes are accepted as well.
func ParseKeyCode(value string) (evdev.EvCode, error) {
	raw := strings.ToUpper(strings.TrimSpace(value))
	if raw == "" {
		return 0, fmt.Errorf("key name is empty")
	}
	if code, ok := evdev.KEYFromString[raw]; ok {
		return code, nil
	}
	if code, ok := evdev.KEYFromString["KEY_"+raw]; ok {
		return code, nil
	}

	parsed, err := strconv.ParseInt(raw, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("unknown key %q: use names like f6, KEY_F8, BTN_TL or a numeric code", value)
	}
	if parsed < 0 || parsed > 0xFFFF {
		return 0, fmt.Errorf("key code out of range: %d", parsed)
	}
	return evdev.EvCode(parsed), nil
}

// HotkeyName formats an EV_KEY code the way the configuration file spells
// it: keyboard keys lose the KEY_ prefix and are lower-cased, buttons keep
// their evdev name.
func HotkeyName(code evdev.EvCode) string {
	name := evdev.CodeName(evdev.EV_KEY, code)
	if name == "" {
		return strconv.Itoa(int(code))
	}
	if strings.HasPrefix(name, "KEY_") {
		return strings.ToLower(strings.TrimPrefix(name, "KEY_"))
	}
	return name
}

// EventName returns the evdev name used as the gamepad event vocabulary.
func EventName(t evdev.EvType, code evdev.EvCode) string {
	name := evdev.CodeName(t, code)
	if name != "" {
		return name
	}
	return fmt.Sprintf("%d:%d", t, code)
}
