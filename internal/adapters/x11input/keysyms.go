package x11input

import (
	"strings"
)

// evdevToKeysym maps evdev key tokens (KEY_ prefix removed) to X keysym
// names where the two vocabularies differ.
var evdevToKeysym = map[string]string{
	"ESC":        "Escape",
	"ENTER":      "Return",
	"TAB":        "Tab",
	"SPACE":      "space",
	"BACKSPACE":  "BackSpace",
	"LEFTSHIFT":  "Shift_L",
	"RIGHTSHIFT": "Shift_R",
	"LEFTCTRL":   "Control_L",
	"RIGHTCTRL":  "Control_R",
	"LEFTALT":    "Alt_L",
	"RIGHTALT":   "Alt_R",
	"LEFTMETA":   "Super_L",
	"RIGHTMETA":  "Super_R",
	"CAPSLOCK":   "Caps_Lock",
	"NUMLOCK":    "Num_Lock",
	"SCROLLLOCK": "Scroll_Lock",
	"PAGEUP":     "Page_Up",
	"PAGEDOWN":   "Page_Down",
	"INSERT":     "Insert",
	"DELETE":     "Delete",
	"HOME":       "Home",
	"END":        "End",
	"UP":         "Up",
	"DOWN":       "Down",
	"LEFT":       "Left",
	"RIGHT":      "Right",
	"MENU":       "Menu",
	"PAUSE":      "Pause",
	"MINUS":      "minus",
	"EQUAL":      "equal",
	"LEFTBRACE":  "bracketleft",
	"RIGHTBRACE": "bracketright",
	"SEMICOLON":  "semicolon",
	"APOSTROPHE": "apostrophe",
	"GRAVE":      "grave",
	"BACKSLASH":  "backslash",
	"COMMA":      "comma",
	"DOT":        "period",
	"SLASH":      "slash",
	"KPPLUS":     "KP_Add",
	"KPMINUS":    "KP_Subtract",
	"KPASTERISK": "KP_Multiply",
	"KPSLASH":    "KP_Divide",
	"KPDOT":      "KP_Decimal",
	"KPENTER":    "KP_Enter",
}

var keysymToEvdev = func() map[string]string {
	out := make(map[string]string, len(evdevToKeysym))
	for token, keysym := range evdevToKeysym {
		out[strings.ToLower(keysym)] = token
	}
	return out
}()

// keysymForHotkey converts a configuration key name (f6, space, KEY_F6)
// into the X keysym string understood by keybind.
func keysymForHotkey(name string) (string, bool) {
	token := strings.ToUpper(strings.TrimSpace(name))
	token = strings.TrimPrefix(token, "KEY_")
	if token == "" {
		return "", false
	}
	if keysym, ok := evdevToKeysym[token]; ok {
		return keysym, true
	}
	switch {
	case len(token) == 1 && token[0] >= 'A' && token[0] <= 'Z':
		return strings.ToLower(token), true
	case len(token) == 1 && token[0] >= '0' && token[0] <= '9':
		return token, true
	case token[0] == 'F' && isDigits(token[1:]):
		return token, true
	case strings.HasPrefix(token, "KP") && len(token) == 3 && isDigits(token[2:]):
		return "KP_" + token[2:], true
	}
	return "", false
}

// hotkeyForKeysym is the inverse of keysymForHotkey and returns the
// configuration spelling (f6, space, kp5).
func hotkeyForKeysym(keysym string) (string, bool) {
	raw := strings.ToLower(strings.TrimSpace(keysym))
	if raw == "" {
		return "", false
	}
	if token, ok := keysymToEvdev[raw]; ok {
		return strings.ToLower(token), true
	}
	switch {
	case len(raw) == 1 && ((raw[0] >= 'a' && raw[0] <= 'z') || (raw[0] >= '0' && raw[0] <= '9')):
		return raw, true
	case raw[0] == 'f' && isDigits(raw[1:]):
		return raw, true
	case strings.HasPrefix(raw, "kp_") && len(raw) == 4 && isDigits(raw[3:]):
		return "kp" + raw[3:], true
	}
	return "", false
}

func isDigits(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
