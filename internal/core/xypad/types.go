package xypad

import (
	"errors"
	"time"
)

const (
	AxisX = "ABS_X"
	AxisY = "ABS_Y"
)

// ErrFailSafe is returned by a failsafe-guarded pointer while the cursor
// sits in the abort corner.
var ErrFailSafe = errors.New("failsafe triggered: pointer is in the top-left screen corner")

type Point struct {
	X int
	Y int
}

// GamepadEvent carries one raw change from the controller. Codes use the
// Linux evdev names (ABS_X, ABS_Y, BTN_TL, ...) on every backend.
type GamepadEvent struct {
	Code  string
	State int32
}

type GamepadSource interface {
	// Poll returns the events received since the previous call. It must not
	// block for longer than one polling interval.
	Poll() ([]GamepadEvent, error)
	Close() error
}

type Pointer interface {
	MoveTo(x, y int) error
	MouseDown() error
	MouseUp() error
	Position() (x, y int, err error)
}

type KeyPoller interface {
	IsPressed(name string) (bool, error)
}

type Store interface {
	Load() (Config, error)
	Save(cfg Config) error
}

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Timing centralizes every polling rate and pause used by the loops.
type Timing struct {
	ShapeInterval    time.Duration
	HotkeyInterval   time.Duration
	Debounce         time.Duration
	ShapeErrorPause  time.Duration
	HotkeyErrorPause time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		ShapeInterval:    10 * time.Millisecond,
		HotkeyInterval:   20 * time.Millisecond,
		Debounce:         300 * time.Millisecond,
		ShapeErrorPause:  10 * time.Millisecond,
		HotkeyErrorPause: 100 * time.Millisecond,
	}
}

func (t Timing) withDefaults() Timing {
	d := DefaultTiming()
	if t.ShapeInterval <= 0 {
		t.ShapeInterval = d.ShapeInterval
	}
	if t.HotkeyInterval <= 0 {
		t.HotkeyInterval = d.HotkeyInterval
	}
	if t.Debounce < 0 {
		t.Debounce = d.Debounce
	}
	if t.ShapeErrorPause <= 0 {
		t.ShapeErrorPause = d.ShapeErrorPause
	}
	if t.HotkeyErrorPause <= 0 {
		t.HotkeyErrorPause = d.HotkeyErrorPause
	}
	return t
}
