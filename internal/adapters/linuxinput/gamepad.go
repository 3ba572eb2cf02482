//go:build linux

package linuxinput

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/SDINAHET/Daslight4-xbox360/internal/core/xypad"

	evdev "github.com/holoplot/go-evdev"
)

const (
	readBatch         = 64
	reconnectInterval = time.Second
)

var ErrGamepadDisconnected = errors.New("gamepad disconnected")

// GamepadSource drains a non-blocking evdev gamepad. A vanished device is
// reopened at the same path, at most once per reconnectInterval.
type GamepadSource struct {
	path   string
	logger xypad.Logger

	mu          sync.Mutex
	dev         *evdev.InputDevice
	ranges      map[evdev.EvCode]axisRange
	active      padState
	lost        bool
	closed      bool
	lastAttempt time.Time
}

// OpenGamepad opens the device at path, or the first detected gamepad when
// path is empty.
func OpenGamepad(path string, logger xypad.Logger) (*GamepadSource, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if path == "" {
		info, err := FindGamepad()
		if err != nil {
			return nil, err
		}
		path = info.Path
	}

	g := &GamepadSource{path: path, logger: logger, active: padState{}}
	if err := g.open(); err != nil {
		return nil, err
	}
	name, _ := g.dev.Name()
	logger.Info("Using gamepad", "path", path, "name", name)
	return g, nil
}

func (g *GamepadSource) open() error {
	dev, err := openInputDevice(g.path)
	if err != nil {
		return err
	}
	if !deviceSupports(dev, evdev.EV_ABS, evdev.ABS_X, evdev.ABS_Y) {
		_ = dev.Close()
		return fmt.Errorf("%s does not expose ABS_X/ABS_Y", g.path)
	}
	if err := dev.NonBlock(); err != nil {
		_ = dev.Close()
		return fmt.Errorf("failed to set nonblocking mode for %s: %w", g.path, err)
	}

	ranges := make(map[evdev.EvCode]axisRange)
	if infos, err := dev.AbsInfos(); err == nil {
		for code, info := range infos {
			ranges[code] = axisRange{min: info.Minimum, max: info.Maximum}
		}
	}
	for _, code := range []evdev.EvCode{evdev.ABS_X, evdev.ABS_Y} {
		if r, ok := ranges[code]; ok && !r.native() {
			g.logger.Debug("Rescaling axis", "axis", EventName(evdev.EV_ABS, code), "min", r.min, "max", r.max)
		}
	}

	g.dev = dev
	g.ranges = ranges
	g.lost = false
	return nil
}

func (g *GamepadSource) Poll() ([]xypad.GamepadEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil, nil
	}
	if g.lost {
		if time.Since(g.lastAttempt) < reconnectInterval {
			return nil, nil
		}
		g.lastAttempt = time.Now()
		if err := g.open(); err != nil {
			return nil, nil
		}
		g.logger.Info("Gamepad reconnected", "path", g.path)
	}

	var out []xypad.GamepadEvent
	for {
		events, err := g.dev.ReadSlice(readBatch)
		if err != nil {
			if isWouldBlockError(err) {
				return out, nil
			}
			if isDeviceClosedError(err) {
				_ = g.dev.Close()
				g.lost = true
				g.lastAttempt = time.Now()
				// Report a neutral pad so nothing stays held across the gap.
				out = append(out, g.active.release()...)
				return out, fmt.Errorf("%s: %w", g.path, ErrGamepadDisconnected)
			}
			return out, fmt.Errorf("read %s: %w", g.path, err)
		}
		for _, event := range events {
			if translated, ok := g.translate(event); ok {
				g.active.track(translated)
				out = append(out, translated)
			}
		}
		if len(events) < readBatch {
			return out, nil
		}
	}
}

func (g *GamepadSource) translate(event evdev.InputEvent) (xypad.GamepadEvent, bool) {
	switch event.Type {
	case evdev.EV_ABS:
		value := event.Value
		if r, ok := g.ranges[event.Code]; ok {
			value = r.rescale(value)
		}
		return xypad.GamepadEvent{Code: EventName(evdev.EV_ABS, event.Code), State: value}, true
	case evdev.EV_KEY:
		return xypad.GamepadEvent{Code: EventName(evdev.EV_KEY, event.Code), State: event.Value}, true
	default:
		return xypad.GamepadEvent{}, false
	}
}

func (g *GamepadSource) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return nil
	}
	g.closed = true
	if g.lost {
		return nil
	}
	return g.dev.Close()
}
