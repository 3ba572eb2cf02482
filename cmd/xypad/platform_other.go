//go:build !linux && !windows

package main

import (
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/SDINAHET/Daslight4-xbox360/internal/logging"
)

func parseBackendChoice(value string) (string, error) {
	backend := normalizeChoice(value)
	if backend != "auto" {
		return "", fmt.Errorf("invalid --backend %q (%s supports auto)", value, runtime.GOOS)
	}
	return backend, nil
}

func parseGamepadChoice(value string) (string, error) {
	gamepad := normalizeChoice(value)
	switch gamepad {
	case "auto", "sdl":
		return "sdl", nil
	default:
		return "", fmt.Errorf("invalid --gamepad %q (%s supports auto|sdl)", value, runtime.GOOS)
	}
}

func permissionDeniedHint() string {
	return "Permission denied opening input backend."
}

func openDevices(_ config, _ *logging.Logger) (*deviceSet, error) {
	return nil, fmt.Errorf("pointer control is not supported on %s", runtime.GOOS)
}

func listInputDevices(_ config, _ io.Writer) error {
	return fmt.Errorf("device listing is not supported on %s", runtime.GOOS)
}

func captureNextKey(_ config, _ time.Duration) (string, error) {
	return "", fmt.Errorf("key capture is not supported on %s", runtime.GOOS)
}
