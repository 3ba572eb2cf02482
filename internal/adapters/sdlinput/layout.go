// Package sdlinput reads the first connected joystick through SDL3 and
// reports it in the evdev event vocabulary.
package sdlinput

import (
	"github.com/SDINAHET/Daslight4-xbox360/internal/core/xypad"
)

const maxAxes = 6

// axisNames follow the SDL joystick axis order shared by Xbox, PlayStation
// and generic pads. Values are passed through raw, so ABS_Y grows downward
// as it does on evdev.
var axisNames = [maxAxes]string{xypad.AxisX, xypad.AxisY, "ABS_RX", "ABS_RY", "ABS_Z", "ABS_RZ"}

// padLayout names each SDL button index.
type padLayout struct {
	name    string
	buttons []string
}

var (
	xboxLayout = padLayout{
		name: "xbox",
		buttons: []string{
			"BTN_SOUTH", "BTN_EAST", "BTN_NORTH", "BTN_WEST",
			"BTN_TL", "BTN_TR", "BTN_SELECT", "BTN_START",
			"BTN_THUMBL", "BTN_THUMBR", "BTN_MODE",
		},
	}
	playstationLayout = padLayout{
		name: "playstation",
		buttons: []string{
			"BTN_SOUTH", "BTN_EAST", "BTN_NORTH", "BTN_WEST",
			"BTN_SELECT", "BTN_MODE", "BTN_START",
			"BTN_THUMBL", "BTN_THUMBR", "BTN_TL", "BTN_TR",
		},
	}
)

type deviceKey struct {
	vendor  uint16
	product uint16
}

var knownLayouts = map[deviceKey]padLayout{
	{0x054C, 0x0CE6}: playstationLayout,
	{0x054C, 0x09CC}: playstationLayout,
	{0x054C, 0x05C4}: playstationLayout,
}

func layoutFor(vendor, product uint16) padLayout {
	if l, ok := knownLayouts[deviceKey{vendor: vendor, product: product}]; ok {
		return l
	}
	return xboxLayout
}

// sample is one reading of the active joystick.
type sample struct {
	axes    [maxAxes]int16
	buttons []bool
}

func diffSamples(layout padLayout, prev, cur sample) []xypad.GamepadEvent {
	var out []xypad.GamepadEvent
	for i := range cur.axes {
		if prev.axes[i] != cur.axes[i] {
			out = append(out, xypad.GamepadEvent{Code: axisNames[i], State: int32(cur.axes[i])})
		}
	}
	for i, name := range layout.buttons {
		before := i < len(prev.buttons) && prev.buttons[i]
		after := i < len(cur.buttons) && cur.buttons[i]
		if before == after {
			continue
		}
		state := int32(0)
		if after {
			state = 1
		}
		out = append(out, xypad.GamepadEvent{Code: name, State: state})
	}
	return out
}
