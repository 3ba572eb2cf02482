package main

import (
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := parseConfig(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseConfig returned error: %v", err)
	}
	if cfg.configPath != defaultConfigPath {
		t.Fatalf("config path = %q, want %q", cfg.configPath, defaultConfigPath)
	}
	if cfg.backend != "auto" {
		t.Fatalf("backend = %q, want auto", cfg.backend)
	}
	if cfg.timing.ShapeInterval != 10*time.Millisecond || cfg.timing.HotkeyInterval != 20*time.Millisecond {
		t.Fatalf("unexpected intervals: %+v", cfg.timing)
	}
	if cfg.timing.Debounce != 300*time.Millisecond {
		t.Fatalf("debounce = %v, want 300ms", cfg.timing.Debounce)
	}
	if !cfg.failsafe || !cfg.startEnabled {
		t.Fatalf("expected failsafe and start enabled by default: %+v", cfg)
	}
	if cfg.logLevel != zerolog.InfoLevel {
		t.Fatalf("log level = %v, want info", cfg.logLevel)
	}
}

func TestParseConfigFlags(t *testing.T) {
	cfg, err := parseConfig([]string{
		"--config", "pads/left.json",
		"--poll-interval", "5ms",
		"--debounce", "0s",
		"--log-level", "debug",
		"--no-failsafe",
		"--start-disabled",
		"--watch",
	}, io.Discard)
	if err != nil {
		t.Fatalf("parseConfig returned error: %v", err)
	}
	if cfg.configPath != "pads/left.json" {
		t.Fatalf("config path = %q", cfg.configPath)
	}
	if cfg.timing.ShapeInterval != 5*time.Millisecond || cfg.timing.Debounce != 0 {
		t.Fatalf("unexpected timing: %+v", cfg.timing)
	}
	if cfg.logLevel != zerolog.DebugLevel {
		t.Fatalf("log level = %v, want debug", cfg.logLevel)
	}
	if cfg.failsafe || cfg.startEnabled || !cfg.watch {
		t.Fatalf("unexpected switches: %+v", cfg)
	}
}

func TestParseConfigEnvironment(t *testing.T) {
	t.Setenv("XYPAD_CONFIG", "from-env.json")
	t.Setenv("XYPAD_HOTKEY_INTERVAL", "40ms")
	t.Setenv("XYPAD_TRAY", "true")

	cfg, err := parseConfig(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseConfig returned error: %v", err)
	}
	if cfg.configPath != "from-env.json" {
		t.Fatalf("config path = %q, want from-env.json", cfg.configPath)
	}
	if cfg.timing.HotkeyInterval != 40*time.Millisecond {
		t.Fatalf("hotkey interval = %v, want 40ms", cfg.timing.HotkeyInterval)
	}
	if !cfg.tray {
		t.Fatal("expected tray from environment")
	}
}

func TestParseConfigFlagBeatsEnvironment(t *testing.T) {
	t.Setenv("XYPAD_CONFIG", "from-env.json")

	cfg, err := parseConfig([]string{"--config", "from-flag.json"}, io.Discard)
	if err != nil {
		t.Fatalf("parseConfig returned error: %v", err)
	}
	if cfg.configPath != "from-flag.json" {
		t.Fatalf("config path = %q, want from-flag.json", cfg.configPath)
	}
}

func TestParseConfigRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "extra args", args: []string{"extra"}, want: "unexpected arguments"},
		{name: "zero poll interval", args: []string{"--poll-interval", "0s"}, want: "--poll-interval"},
		{name: "zero hotkey interval", args: []string{"--hotkey-interval", "0s"}, want: "--hotkey-interval"},
		{name: "negative debounce", args: []string{"--debounce", "-1s"}, want: "--debounce"},
		{name: "log level", args: []string{"--log-level", "loud"}, want: "log level"},
		{name: "backend", args: []string{"--backend", "carrier-pigeon"}, want: "--backend"},
		{name: "gamepad", args: []string{"--gamepad", "joystick-9000"}, want: "--gamepad"},
		{name: "exclusive modes", args: []string{"--list-devices", "--capture"}, want: "mutually exclusive"},
		{name: "empty config", args: []string{"--config", " "}, want: "--config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig(tt.args, io.Discard)
			if err == nil {
				t.Fatalf("expected error for %v", tt.args)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseConfigHelp(t *testing.T) {
	_, err := parseConfig([]string{"--help"}, io.Discard)
	if !errors.Is(err, pflag.ErrHelp) {
		t.Fatalf("expected pflag.ErrHelp, got %v", err)
	}
}

func TestRunExitCodesForUsageErrors(t *testing.T) {
	if code := run([]string{"--help"}, io.Discard, io.Discard); code != 0 {
		t.Fatalf("--help exit code = %d, want 0", code)
	}
	var stderr strings.Builder
	if code := run([]string{"--debounce", "-1s"}, io.Discard, &stderr); code != 2 {
		t.Fatalf("invalid flag exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "--debounce") {
		t.Fatalf("stderr = %q", stderr.String())
	}
}

type closeRecorder struct {
	name  string
	order *[]string
	err   error
}

func (c *closeRecorder) Close() error {
	*c.order = append(*c.order, c.name)
	return c.err
}

func TestDeviceSetClosesInReverseOrder(t *testing.T) {
	var order []string
	failure := errors.New("busy")
	set := &deviceSet{}
	set.add(&closeRecorder{name: "pointer", order: &order})
	set.add(&closeRecorder{name: "keys", order: &order, err: failure})
	set.add(&closeRecorder{name: "gamepad", order: &order})

	err := set.Close()
	if !errors.Is(err, failure) {
		t.Fatalf("expected joined close error, got %v", err)
	}
	if strings.Join(order, ",") != "gamepad,keys,pointer" {
		t.Fatalf("close order = %v", order)
	}
	if err := set.Close(); err != nil {
		t.Fatalf("second close returned %v", err)
	}
	if len(order) != 3 {
		t.Fatalf("second close reclosed devices: %v", order)
	}
}
