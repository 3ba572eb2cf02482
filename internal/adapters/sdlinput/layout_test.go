package sdlinput

import (
	"testing"

	"github.com/SDINAHET/Daslight4-xbox360/internal/core/xypad"
)

func TestLayoutForKnownAndGenericPads(t *testing.T) {
	if got := layoutFor(0x054C, 0x0CE6); got.name != "playstation" {
		t.Fatalf("DualSense layout = %s", got.name)
	}
	if got := layoutFor(0x045E, 0x028E); got.name != "xbox" {
		t.Fatalf("Xbox 360 layout = %s", got.name)
	}
	if got := layoutFor(0x1234, 0x5678); got.name != "xbox" {
		t.Fatalf("unknown pad layout = %s", got.name)
	}
}

func TestDiffSamplesMapsLeftShoulder(t *testing.T) {
	prev := sample{buttons: make([]bool, 11)}
	cur := sample{buttons: make([]bool, 11)}
	cur.axes[0] = -32768
	cur.buttons[4] = true

	got := diffSamples(xboxLayout, prev, cur)
	want := []xypad.GamepadEvent{
		{Code: xypad.AxisX, State: -32768},
		{Code: "BTN_TL", State: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("diffSamples = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	ps := diffSamples(playstationLayout, prev, cur)
	if len(ps) != 2 || ps[1].Code != "BTN_SELECT" {
		t.Fatalf("playstation index 4 = %+v, want BTN_SELECT", ps)
	}
}

func TestDiffSamplesToleratesShortButtonLists(t *testing.T) {
	prev := sample{buttons: []bool{true}}
	cur := sample{}
	got := diffSamples(xboxLayout, prev, cur)
	if len(got) != 1 || got[0] != (xypad.GamepadEvent{Code: "BTN_SOUTH", State: 0}) {
		t.Fatalf("diffSamples = %+v", got)
	}
}
