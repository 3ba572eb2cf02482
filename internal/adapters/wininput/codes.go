package wininput

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/SDINAHET/Daslight4-xbox360/internal/core/xypad"
)

// vkByName maps configuration key names (evdev tokens, lower case, KEY_
// prefix optional) and mouse button names to Windows virtual-key codes.
var vkByName = func() map[string]uint32 {
	m := map[string]uint32{
		"btn_left":   0x01,
		"btn_right":  0x02,
		"btn_middle": 0x04,
		"btn_side":   0x05,
		"btn_extra":  0x06,
		"backspace":  0x08,
		"tab":        0x09,
		"enter":      0x0D,
		"pause":      0x13,
		"capslock":   0x14,
		"esc":        0x1B,
		"space":      0x20,
		"pageup":     0x21,
		"pagedown":   0x22,
		"end":        0x23,
		"home":       0x24,
		"left":       0x25,
		"up":         0x26,
		"right":      0x27,
		"down":       0x28,
		"insert":     0x2D,
		"delete":     0x2E,
		"leftmeta":   0x5B,
		"rightmeta":  0x5C,
		"menu":       0x5D,
		"kpasterisk": 0x6A,
		"kpplus":     0x6B,
		"kpminus":    0x6D,
		"kpdot":      0x6E,
		"kpslash":    0x6F,
		"numlock":    0x90,
		"scrolllock": 0x91,
		"leftshift":  0xA0,
		"rightshift": 0xA1,
		"leftctrl":   0xA2,
		"rightctrl":  0xA3,
		"leftalt":    0xA4,
		"rightalt":   0xA5,
		"semicolon":  0xBA,
		"equal":      0xBB,
		"comma":      0xBC,
		"minus":      0xBD,
		"dot":        0xBE,
		"slash":      0xBF,
		"grave":      0xC0,
		"leftbrace":  0xDB,
		"backslash":  0xDC,
		"rightbrace": 0xDD,
		"apostrophe": 0xDE,
	}
	for i := 0; i < 24; i++ {
		m["f"+strconv.Itoa(i+1)] = uint32(0x70 + i)
	}
	for i := 0; i < 10; i++ {
		m[strconv.Itoa(i)] = uint32(0x30 + i)
		m["kp"+strconv.Itoa(i)] = uint32(0x60 + i)
	}
	for c := 'a'; c <= 'z'; c++ {
		m[string(c)] = uint32(0x41 + (c - 'a'))
	}
	return m
}()

var nameByVK = func() map[uint32]string {
	m := make(map[uint32]string, len(vkByName))
	for name, vk := range vkByName {
		if strings.HasPrefix(name, "btn_") {
			m[vk] = strings.ToUpper(name)
			continue
		}
		m[vk] = name
	}
	return m
}()

// ParseHotkey resolves a configuration key name to a virtual-key code.
func ParseHotkey(value string) (uint32, error) {
	raw := strings.ToLower(strings.TrimSpace(value))
	if raw == "" {
		return 0, fmt.Errorf("key name is empty")
	}
	raw = strings.TrimPrefix(raw, "key_")
	if vk, ok := vkByName[raw]; ok {
		return vk, nil
	}
	return 0, fmt.Errorf("unknown key %q: use names like f6, space, a or BTN_LEFT", value)
}

// HotkeyName is the inverse of ParseHotkey.
func HotkeyName(vk uint32) (string, bool) {
	name, ok := nameByVK[vk]
	return name, ok
}

func captureCandidates() []uint32 {
	out := make([]uint32, 0, len(nameByVK))
	for vk := range nameByVK {
		out = append(out, vk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// XInput button masks translated to the names the Linux xpad driver reports.
var xinputButtons = []struct {
	mask uint16
	name string
}{
	{mask: 0x0010, name: "BTN_START"},
	{mask: 0x0020, name: "BTN_SELECT"},
	{mask: 0x0040, name: "BTN_THUMBL"},
	{mask: 0x0080, name: "BTN_THUMBR"},
	{mask: 0x0100, name: "BTN_TL"},
	{mask: 0x0200, name: "BTN_TR"},
	{mask: 0x0400, name: "BTN_MODE"},
	{mask: 0x1000, name: "BTN_SOUTH"},
	{mask: 0x2000, name: "BTN_EAST"},
	{mask: 0x4000, name: "BTN_NORTH"},
	{mask: 0x8000, name: "BTN_WEST"},
}

const (
	dpadUp    uint16 = 0x0001
	dpadDown  uint16 = 0x0002
	dpadLeft  uint16 = 0x0004
	dpadRight uint16 = 0x0008
)

// padSnapshot is one XINPUT_GAMEPAD reading.
type padSnapshot struct {
	Buttons      uint16
	LeftTrigger  uint8
	RightTrigger uint8
	ThumbLX      int16
	ThumbLY      int16
	ThumbRX      int16
	ThumbRY      int16
}

// diffSnapshots emits one event per field that changed between readings.
// Stick values are passed through unscaled; ThumbLY grows upward.
func diffSnapshots(prev, cur padSnapshot) []xypad.GamepadEvent {
	var out []xypad.GamepadEvent
	axis := func(name string, before, after int32) {
		if before != after {
			out = append(out, xypad.GamepadEvent{Code: name, State: after})
		}
	}
	axis(xypad.AxisX, int32(prev.ThumbLX), int32(cur.ThumbLX))
	axis(xypad.AxisY, int32(prev.ThumbLY), int32(cur.ThumbLY))
	axis("ABS_RX", int32(prev.ThumbRX), int32(cur.ThumbRX))
	axis("ABS_RY", int32(prev.ThumbRY), int32(cur.ThumbRY))
	axis("ABS_Z", int32(prev.LeftTrigger), int32(cur.LeftTrigger))
	axis("ABS_RZ", int32(prev.RightTrigger), int32(cur.RightTrigger))
	axis("ABS_HAT0X", hatValue(prev.Buttons, dpadLeft, dpadRight), hatValue(cur.Buttons, dpadLeft, dpadRight))
	axis("ABS_HAT0Y", hatValue(prev.Buttons, dpadUp, dpadDown), hatValue(cur.Buttons, dpadUp, dpadDown))

	for _, button := range xinputButtons {
		before := prev.Buttons&button.mask != 0
		after := cur.Buttons&button.mask != 0
		if before == after {
			continue
		}
		state := int32(0)
		if after {
			state = 1
		}
		out = append(out, xypad.GamepadEvent{Code: button.name, State: state})
	}
	return out
}

func hatValue(buttons, negative, positive uint16) int32 {
	var v int32
	if buttons&negative != 0 {
		v--
	}
	if buttons&positive != 0 {
		v++
	}
	return v
}
