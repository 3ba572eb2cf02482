//go:build windows

package wininput

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
	"unsafe"

	"github.com/SDINAHET/Daslight4-xbox360/internal/core/xypad"

	"golang.org/x/sys/windows"
)

const (
	maxControllers      = 4
	errDeviceNotConnect = 1167
	reconnectInterval   = time.Second
)

var (
	xinputDLL      = windows.NewLazySystemDLL("xinput1_4.dll")
	xinputGetState = xinputDLL.NewProc("XInputGetState")
)

var ErrGamepadDisconnected = errors.New("gamepad disconnected")

type xinputState struct {
	PacketNumber uint32
	Gamepad      padSnapshot
}

// GamepadSource polls one XInput controller slot.
type GamepadSource struct {
	logger xypad.Logger
	fixed  bool

	mu          sync.Mutex
	index       int
	connected   bool
	packet      uint32
	last        padSnapshot
	lastAttempt time.Time
}

// OpenGamepad polls the slot named by device ("0".."3"), or the first
// connected controller when device is empty.
func OpenGamepad(device string, logger xypad.Logger) (*GamepadSource, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if err := xinputDLL.Load(); err != nil {
		return nil, fmt.Errorf("load xinput1_4.dll: %w", err)
	}

	g := &GamepadSource{logger: logger}
	if device != "" {
		index, err := strconv.Atoi(device)
		if err != nil || index < 0 || index >= maxControllers {
			return nil, fmt.Errorf("invalid XInput slot %q: expected 0..3", device)
		}
		g.index = index
		g.fixed = true
		if _, err := readState(index); err != nil {
			return nil, fmt.Errorf("XInput slot %d: %w", index, err)
		}
	} else {
		index, err := firstConnected()
		if err != nil {
			return nil, err
		}
		g.index = index
	}
	g.connected = true
	logger.Info("Using XInput controller", "slot", g.index)
	return g, nil
}

func firstConnected() (int, error) {
	for i := 0; i < maxControllers; i++ {
		if _, err := readState(i); err == nil {
			return i, nil
		}
	}
	return 0, fmt.Errorf("no XInput controller connected")
}

func readState(index int) (xinputState, error) {
	var state xinputState
	ret, _, _ := xinputGetState.Call(uintptr(index), uintptr(unsafe.Pointer(&state)))
	if ret == errDeviceNotConnect {
		return state, ErrGamepadDisconnected
	}
	if ret != 0 {
		return state, fmt.Errorf("XInputGetState returned %d", ret)
	}
	return state, nil
}

func (g *GamepadSource) Poll() ([]xypad.GamepadEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.connected {
		if time.Since(g.lastAttempt) < reconnectInterval {
			return nil, nil
		}
		g.lastAttempt = time.Now()
		index := g.index
		if !g.fixed {
			found, err := firstConnected()
			if err != nil {
				return nil, nil
			}
			index = found
		}
		if _, err := readState(index); err != nil {
			return nil, nil
		}
		g.index = index
		g.connected = true
		g.packet = 0
		g.logger.Info("XInput controller reconnected", "slot", index)
	}

	state, err := readState(g.index)
	if err != nil {
		// Report a neutral pad so nothing stays held across the gap.
		events := diffSnapshots(g.last, padSnapshot{})
		g.last = padSnapshot{}
		g.connected = false
		g.lastAttempt = time.Now()
		return events, fmt.Errorf("XInput slot %d: %w", g.index, err)
	}
	if state.PacketNumber == g.packet && g.packet != 0 {
		return nil, nil
	}
	g.packet = state.PacketNumber
	events := diffSnapshots(g.last, state.Gamepad)
	g.last = state.Gamepad
	return events, nil
}

func (g *GamepadSource) Close() error {
	return nil
}
