//go:build linux

package linuxinput

import (
	"fmt"
	"sort"
	"time"

	evdev "github.com/holoplot/go-evdev"
)

// CaptureNextKey waits for the next pressed key or button and returns it in
// configuration spelling (f6, BTN_TL). If devicePath is empty it listens on
// every non-virtual device that reports key events, gamepads included.
func CaptureNextKey(devicePath string, timeout time.Duration) (string, error) {
	devices, err := openCaptureDevices(devicePath)
	if err != nil {
		return "", err
	}
	code, err := captureNextFromDevices(devices, timeout)
	if err != nil {
		return "", err
	}
	return HotkeyName(code), nil
}

func captureNextFromDevices(devices []*evdev.InputDevice, timeout time.Duration) (evdev.EvCode, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	defer closeInputDevices(devices)

	done := make(chan struct{})
	codeCh := make(chan evdev.EvCode, 1)
	for _, dev := range devices {
		go captureDeviceLoop(dev, done, codeCh)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case code := <-codeCh:
		close(done)
		return code, nil
	case <-timer.C:
		close(done)
		return 0, fmt.Errorf("timed out after %s waiting for key/button input", timeout)
	}
}

func captureDeviceLoop(dev *evdev.InputDevice, done <-chan struct{}, codeCh chan<- evdev.EvCode) {
	for {
		select {
		case <-done:
			return
		default:
		}

		events, err := dev.ReadSlice(readBatch)
		if err != nil {
			if isWouldBlockError(err) {
				if !sleepCapture(done, 10*time.Millisecond) {
					return
				}
				continue
			}
			if isDeviceClosedError(err) {
				return
			}
			if !sleepCapture(done, 100*time.Millisecond) {
				return
			}
			continue
		}
		for _, event := range events {
			if event.Type != evdev.EV_KEY || event.Value != 1 {
				continue
			}
			select {
			case codeCh <- event.Code:
			default:
			}
			return
		}
	}
}

func sleepCapture(done <-chan struct{}, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-done:
		return false
	case <-timer.C:
		return true
	}
}

func openCaptureDevices(devicePath string) ([]*evdev.InputDevice, error) {
	if devicePath != "" {
		dev, err := openInputDevice(devicePath)
		if err != nil {
			return nil, err
		}
		if len(dev.CapableEvents(evdev.EV_KEY)) == 0 {
			_ = dev.Close()
			return nil, fmt.Errorf("%s does not expose key/button events", devicePath)
		}
		if err := dev.NonBlock(); err != nil {
			_ = dev.Close()
			return nil, fmt.Errorf("failed to set nonblocking mode for %s: %w", dev.Path(), err)
		}
		return []*evdev.InputDevice{dev}, nil
	}

	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}
	sort.Slice(paths, func(i, j int) bool {
		return paths[i].Path < paths[j].Path
	})

	devices := make([]*evdev.InputDevice, 0, len(paths))
	for _, path := range paths {
		dev, err := openInputDevice(path.Path)
		if err != nil {
			continue
		}

		info := describeDevice(dev, path.Name)
		if info.IsVirtual || len(dev.CapableEvents(evdev.EV_KEY)) == 0 {
			_ = dev.Close()
			continue
		}
		if err := dev.NonBlock(); err != nil {
			_ = dev.Close()
			continue
		}
		devices = append(devices, dev)
	}

	if len(devices) == 0 {
		return nil, fmt.Errorf("no readable input devices with key/button events found")
	}
	return devices, nil
}

func closeInputDevices(devices []*evdev.InputDevice) {
	for _, dev := range devices {
		_ = dev.Close()
	}
}
