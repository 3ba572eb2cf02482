//go:build windows

package main

import (
	"fmt"
	"io"
	"time"

	"github.com/SDINAHET/Daslight4-xbox360/internal/adapters/sdlinput"
	"github.com/SDINAHET/Daslight4-xbox360/internal/adapters/wininput"
	"github.com/SDINAHET/Daslight4-xbox360/internal/logging"
)

func parseBackendChoice(value string) (string, error) {
	backend := normalizeChoice(value)
	switch backend {
	case "auto", "windows":
		return backend, nil
	default:
		return "", fmt.Errorf("invalid --backend %q (windows supports auto|windows)", value)
	}
}

func parseGamepadChoice(value string) (string, error) {
	gamepad := normalizeChoice(value)
	switch gamepad {
	case "auto":
		return "xinput", nil
	case "xinput", "sdl":
		return gamepad, nil
	default:
		return "", fmt.Errorf("invalid --gamepad %q (windows supports auto|xinput|sdl)", value)
	}
}

func permissionDeniedHint() string {
	return "Permission denied. Pointer injection into elevated windows requires running xypad as administrator."
}

func openDevices(cfg config, logger *logging.Logger) (*deviceSet, error) {
	if cfg.keyboardDevice != "" {
		logger.Warn("--keyboard-device is ignored on windows")
	}

	pointer, err := wininput.OpenPointer()
	if err != nil {
		return nil, fmt.Errorf("open pointer: %w", err)
	}
	keys, err := wininput.OpenKeyPoller()
	if err != nil {
		return nil, fmt.Errorf("open key poller: %w", err)
	}
	set := &deviceSet{}
	set.devices.Pointer = pointer
	set.devices.Keys = keys

	switch cfg.gamepad {
	case "sdl":
		source, err := sdlinput.Open(cfg.timing.ShapeInterval, logger.With("sdl"))
		if err != nil {
			return nil, fmt.Errorf("open SDL gamepad: %w", err)
		}
		set.add(source)
		set.devices.Gamepad = source
	default:
		source, err := wininput.OpenGamepad(cfg.gamepadDevice, logger.With("xinput"))
		if err != nil {
			return nil, fmt.Errorf("open gamepad: %w", err)
		}
		set.add(source)
		set.devices.Gamepad = source
	}
	return set, nil
}

func listInputDevices(_ config, out io.Writer) error {
	fmt.Fprintln(out, "xinput: controller slots 0-3 (pass one with --gamepad-device)")
	fmt.Fprintln(out, "sdl: every joystick SDL can open (--gamepad sdl)")
	return nil
}

func captureNextKey(_ config, timeout time.Duration) (string, error) {
	return wininput.CaptureNextKey(timeout)
}
