package linuxinput

import (
	"sort"

	"github.com/SDINAHET/Daslight4-xbox360/internal/core/xypad"
)

// padState remembers every code last reported away from rest so a
// disconnect can be answered with a neutral pad.
type padState map[string]int32

func (p padState) track(event xypad.GamepadEvent) {
	if event.State == 0 {
		delete(p, event.Code)
		return
	}
	p[event.Code] = event.State
}

// release returns a zero event for every code still away from rest and
// forgets them.
func (p padState) release() []xypad.GamepadEvent {
	if len(p) == 0 {
		return nil
	}
	codes := make([]string, 0, len(p))
	for code := range p {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	out := make([]xypad.GamepadEvent, 0, len(codes))
	for _, code := range codes {
		out = append(out, xypad.GamepadEvent{Code: code, State: 0})
		delete(p, code)
	}
	return out
}
