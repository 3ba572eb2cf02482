package linuxinput

import (
	"testing"

	evdev "github.com/holoplot/go-evdev"
)

func TestParseKeyCode(t *testing.T) {
	cases := map[string]evdev.EvCode{
		"f6":     evdev.KEY_F6,
		" F12 ":  evdev.KEY_F12,
		"KEY_F8": evdev.KEY_F8,
		"space":  evdev.KEY_SPACE,
		"BTN_TL": evdev.BTN_TL,
		"btn_tr": evdev.BTN_TR,
		"0x110":  evdev.BTN_LEFT,
		"272":    evdev.BTN_LEFT,
	}
	for raw, want := range cases {
		got, err := ParseKeyCode(raw)
		if err != nil {
			t.Fatalf("ParseKeyCode(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseKeyCode(%q) = %d, want %d", raw, got, want)
		}
	}
}

func TestParseKeyCodeRejectsUnknown(t *testing.T) {
	for _, raw := range []string{"", "not-a-key", "70000"} {
		if _, err := ParseKeyCode(raw); err == nil {
			t.Fatalf("ParseKeyCode(%q) should fail", raw)
		}
	}
}

func TestHotkeyNameRoundTrips(t *testing.T) {
	if got := HotkeyName(evdev.KEY_F9); got != "f9" {
		t.Fatalf("HotkeyName(KEY_F9) = %q", got)
	}
	if got := HotkeyName(evdev.BTN_TL); got != "BTN_TL" {
		t.Fatalf("HotkeyName(BTN_TL) = %q", got)
	}
	code, err := ParseKeyCode(HotkeyName(evdev.KEY_F11))
	if err != nil || code != evdev.KEY_F11 {
		t.Fatalf("round trip KEY_F11 = %d, %v", code, err)
	}
}

func TestEventNameUsesEvdevVocabulary(t *testing.T) {
	if got := EventName(evdev.EV_ABS, evdev.ABS_X); got != "ABS_X" {
		t.Fatalf("EventName(ABS_X) = %q", got)
	}
	if got := EventName(evdev.EV_ABS, evdev.ABS_Y); got != "ABS_Y" {
		t.Fatalf("EventName(ABS_Y) = %q", got)
	}
}
