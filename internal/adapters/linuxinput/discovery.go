//go:build linux

package linuxinput

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"

	evdev "github.com/holoplot/go-evdev"
)

type DeviceInfo struct {
	Path       string
	Name       string
	IsVirtual  bool
	IsPointer  bool
	IsGamepad  bool
	IsKeyboard bool
}

// Tags returns the capability labels shown by --list-devices.
func (d DeviceInfo) Tags() []string {
	tags := make([]string, 0, 4)
	if d.IsGamepad {
		tags = append(tags, "gamepad")
	}
	if d.IsKeyboard {
		tags = append(tags, "keyboard")
	}
	if d.IsPointer {
		tags = append(tags, "pointer")
	}
	if d.IsVirtual {
		tags = append(tags, "virtual")
	}
	return tags
}

func ListInputDevices() ([]DeviceInfo, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}

	sort.Slice(paths, func(i, j int) bool {
		return paths[i].Path < paths[j].Path
	})

	devices := make([]DeviceInfo, 0, len(paths))
	for _, path := range paths {
		dev, err := openInputDevice(path.Path)
		if err != nil {
			continue
		}
		devices = append(devices, describeDevice(dev, path.Name))
		_ = dev.Close()
	}

	return devices, nil
}

// FindGamepad returns the first physical device that looks like a gamepad.
func FindGamepad() (DeviceInfo, error) {
	devices, err := ListInputDevices()
	if err != nil {
		return DeviceInfo{}, err
	}
	var fallback *DeviceInfo
	for i := range devices {
		if !devices[i].IsGamepad {
			continue
		}
		if !devices[i].IsVirtual {
			return devices[i], nil
		}
		if fallback == nil {
			fallback = &devices[i]
		}
	}
	if fallback != nil {
		return *fallback, nil
	}
	return DeviceInfo{}, fmt.Errorf("no gamepad found; use --list-devices and then pass --gamepad-device")
}

// FindKeyboards returns every physical keyboard, or the virtual ones when no
// physical keyboard is present.
func FindKeyboards() ([]DeviceInfo, error) {
	devices, err := ListInputDevices()
	if err != nil {
		return nil, err
	}
	physical := make([]DeviceInfo, 0)
	virtual := make([]DeviceInfo, 0)
	for _, dev := range devices {
		if !dev.IsKeyboard {
			continue
		}
		if dev.IsVirtual {
			virtual = append(virtual, dev)
			continue
		}
		physical = append(physical, dev)
	}
	if len(physical) > 0 {
		return physical, nil
	}
	if len(virtual) > 0 {
		return virtual, nil
	}
	return nil, fmt.Errorf("no keyboard found; use --list-devices and then pass --keyboard-device")
}

func describeDevice(dev *evdev.InputDevice, fallbackName string) DeviceInfo {
	name := fallbackName
	if actualName, err := dev.Name(); err == nil && actualName != "" {
		name = actualName
	}
	return DeviceInfo{
		Path:       dev.Path(),
		Name:       name,
		IsVirtual:  deviceIsVirtual(dev, name),
		IsPointer:  deviceHasRelativeXY(dev),
		IsGamepad:  deviceIsGamepad(dev),
		IsKeyboard: deviceIsKeyboard(dev),
	}
}

func openInputDevice(path string) (*evdev.InputDevice, error) {
	dev, err := evdev.OpenWithFlags(path, os.O_RDONLY)
	if err != nil {
		if isPermissionError(err) {
			return nil, fmt.Errorf("open %s: %w (add your user to the input group or run with sudo)", path, err)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return dev, nil
}

func deviceSupports(device *evdev.InputDevice, t evdev.EvType, codes ...evdev.EvCode) bool {
	capable := device.CapableEvents(t)
	for _, needle := range codes {
		found := false
		for _, c := range capable {
			if c == needle {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func deviceIsVirtual(device *evdev.InputDevice, name string) bool {
	id, err := device.InputID()
	if err == nil && id.BusType == uint16(evdev.BUS_VIRTUAL) {
		return true
	}
	lower := strings.ToLower(name)
	for _, token := range []string{"virtual", "uinput", "ydotool", "xypad"} {
		if strings.Contains(lower, token) {
			return true
		}
	}
	return false
}

func deviceIsGamepad(device *evdev.InputDevice) bool {
	if !deviceSupports(device, evdev.EV_ABS, evdev.ABS_X, evdev.ABS_Y) {
		return false
	}
	for _, code := range device.CapableEvents(evdev.EV_KEY) {
		if code >= evdev.BTN_JOYSTICK && code <= evdev.BTN_THUMBR {
			return true
		}
	}
	return false
}

func deviceIsKeyboard(device *evdev.InputDevice) bool {
	return deviceSupports(device, evdev.EV_KEY, evdev.KEY_A, evdev.KEY_Z, evdev.KEY_F1, evdev.KEY_ENTER)
}

func deviceHasRelativeXY(device *evdev.InputDevice) bool {
	return deviceSupports(device, evdev.EV_REL, evdev.REL_X, evdev.REL_Y)
}

func isDeviceClosedError(err error) bool {
	return errors.Is(err, syscall.EBADF) || errors.Is(err, syscall.ENODEV) || errors.Is(err, os.ErrClosed)
}

func isWouldBlockError(err error) bool {
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK)
}

func isPermissionError(err error) bool {
	return errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM)
}
