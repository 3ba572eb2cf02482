//go:build linux

package linuxinput

import (
	"fmt"
	"sync"

	evdev "github.com/holoplot/go-evdev"
)

// KeyPoller answers hotkey queries from the kernel key state of one or more
// keyboards. It does not consume their event streams.
type KeyPoller struct {
	devices []*evdev.InputDevice

	mu    sync.Mutex
	codes map[string]evdev.EvCode
}

// OpenKeyPoller opens devicePath, or every detected keyboard when it is empty.
func OpenKeyPoller(devicePath string) (*KeyPoller, error) {
	paths := []string{devicePath}
	if devicePath == "" {
		keyboards, err := FindKeyboards()
		if err != nil {
			return nil, err
		}
		paths = paths[:0]
		for _, kb := range keyboards {
			paths = append(paths, kb.Path)
		}
	}

	devices := make([]*evdev.InputDevice, 0, len(paths))
	for _, path := range paths {
		dev, err := openInputDevice(path)
		if err != nil {
			if devicePath != "" {
				return nil, err
			}
			continue
		}
		devices = append(devices, dev)
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("failed to open any keyboard device")
	}
	return &KeyPoller{devices: devices, codes: make(map[string]evdev.EvCode)}, nil
}

func (p *KeyPoller) Paths() []string {
	out := make([]string, 0, len(p.devices))
	for _, dev := range p.devices {
		out = append(out, dev.Path())
	}
	return out
}

func (p *KeyPoller) IsPressed(name string) (bool, error) {
	code, err := p.resolve(name)
	if err != nil {
		return false, err
	}
	var lastErr error
	for _, dev := range p.devices {
		state, err := dev.State(evdev.EV_KEY)
		if err != nil {
			lastErr = err
			continue
		}
		if state[code] {
			return true, nil
		}
	}
	if lastErr != nil && len(p.devices) == 1 {
		return false, fmt.Errorf("read key state of %s: %w", p.devices[0].Path(), lastErr)
	}
	return false, nil
}

func (p *KeyPoller) resolve(name string) (evdev.EvCode, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if code, ok := p.codes[name]; ok {
		return code, nil
	}
	code, err := ParseKeyCode(name)
	if err != nil {
		return 0, err
	}
	p.codes[name] = code
	return code, nil
}

func (p *KeyPoller) Close() error {
	closeInputDevices(p.devices)
	return nil
}
