//go:build linux

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/SDINAHET/Daslight4-xbox360/internal/adapters/linuxinput"
	"github.com/SDINAHET/Daslight4-xbox360/internal/adapters/sdlinput"
	"github.com/SDINAHET/Daslight4-xbox360/internal/adapters/x11input"
	"github.com/SDINAHET/Daslight4-xbox360/internal/logging"
)

func parseBackendChoice(value string) (string, error) {
	backend := normalizeChoice(value)
	switch backend {
	case "auto", "x11":
		return backend, nil
	default:
		return "", fmt.Errorf("invalid --backend %q (linux supports auto|x11)", value)
	}
}

func parseGamepadChoice(value string) (string, error) {
	gamepad := normalizeChoice(value)
	switch gamepad {
	case "auto":
		return "evdev", nil
	case "evdev", "sdl":
		return gamepad, nil
	default:
		return "", fmt.Errorf("invalid --gamepad %q (linux supports auto|evdev|sdl)", value)
	}
}

func permissionDeniedHint() string {
	return "Permission denied opening input devices. Add your user to the input group (or use a udev rule) for /dev/input/event*, and make sure DISPLAY points at an X11 server."
}

// resolveLinuxBackend picks the pointer backend. Absolute positioning goes
// through X11, so a Wayland session needs XWayland's DISPLAY.
func resolveLinuxBackend(configured string) (string, error) {
	if configured != "auto" {
		return configured, nil
	}
	if strings.TrimSpace(os.Getenv("DISPLAY")) != "" {
		return "x11", nil
	}
	sessionType := strings.ToLower(strings.TrimSpace(os.Getenv("XDG_SESSION_TYPE")))
	if sessionType == "wayland" || strings.TrimSpace(os.Getenv("WAYLAND_DISPLAY")) != "" {
		return "", fmt.Errorf("wayland session without DISPLAY: the pointer is placed through X11, enable XWayland or log in to an X11 session")
	}
	return "", fmt.Errorf("no X11 display found (DISPLAY is not set)")
}

func keyboardPath(configured string) string {
	if configured == "auto" {
		return ""
	}
	return configured
}

func openDevices(cfg config, logger *logging.Logger) (*deviceSet, error) {
	backend, err := resolveLinuxBackend(cfg.backend)
	if err != nil {
		return nil, err
	}

	session, err := x11input.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s session: %w", backend, err)
	}
	set := &deviceSet{}
	set.add(session)
	set.devices.Pointer = session
	set.devices.Keys = session

	if cfg.keyboardDevice != "" {
		keys, err := linuxinput.OpenKeyPoller(keyboardPath(cfg.keyboardDevice))
		if err != nil {
			_ = set.Close()
			return nil, fmt.Errorf("open keyboard: %w", err)
		}
		set.add(keys)
		set.devices.Keys = keys
		logger.Info("Reading hotkeys from evdev", "devices", keys.Paths())
	} else {
		logger.Info("Reading hotkeys from X11 keymap")
	}

	switch cfg.gamepad {
	case "sdl":
		source, err := sdlinput.Open(cfg.timing.ShapeInterval, logger.With("sdl"))
		if err != nil {
			_ = set.Close()
			return nil, fmt.Errorf("open SDL gamepad: %w", err)
		}
		set.add(source)
		set.devices.Gamepad = source
	default:
		source, err := linuxinput.OpenGamepad(cfg.gamepadDevice, logger.With("evdev"))
		if err != nil {
			_ = set.Close()
			return nil, fmt.Errorf("open gamepad: %w", err)
		}
		set.add(source)
		set.devices.Gamepad = source
	}

	logger.Info("Pointer backend ready", "backend", backend)
	return set, nil
}

func listInputDevices(_ config, out io.Writer) error {
	devices, err := linuxinput.ListInputDevices()
	if err != nil {
		return err
	}
	for _, dev := range devices {
		fmt.Fprintf(out, "%s: %s [%s]\n", dev.Path, dev.Name, strings.Join(dev.Tags(), ", "))
	}
	return nil
}

// captureNextKey listens on evdev so gamepad buttons can be captured too and
// falls back to the X11 keyboard when /dev/input is not readable.
func captureNextKey(cfg config, timeout time.Duration) (string, error) {
	name, err := linuxinput.CaptureNextKey(keyboardPath(cfg.keyboardDevice), timeout)
	if err == nil {
		return name, nil
	}
	if cfg.keyboardDevice != "" || strings.TrimSpace(os.Getenv("DISPLAY")) == "" {
		return "", err
	}

	session, xerr := x11input.Open()
	if xerr != nil {
		return "", errors.Join(err, xerr)
	}
	defer session.Close()
	return session.CaptureNextKey(timeout)
}
