package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/SDINAHET/Daslight4-xbox360/internal/core/xypad"
	"github.com/SDINAHET/Daslight4-xbox360/internal/logging"
	"github.com/SDINAHET/Daslight4-xbox360/internal/store"
	"github.com/SDINAHET/Daslight4-xbox360/internal/tray"
)

const (
	defaultConfigPath = "config_xy.json"
	envPrefix         = "XYPAD"
	captureTimeout    = 10 * time.Second
)

type config struct {
	configPath     string
	backend        string
	gamepad        string
	gamepadDevice  string
	keyboardDevice string
	timing         xypad.Timing
	logLevel       zerolog.Level
	watch          bool
	tray           bool
	failsafe       bool
	startEnabled   bool
	listDevices    bool
	capture        bool
}

// parseConfig reads flags first and then XYPAD_* environment variables for
// anything not given on the command line.
func parseConfig(args []string, output io.Writer) (config, error) {
	defaults := xypad.DefaultTiming()
	flags := pflag.NewFlagSet("xypad", pflag.ContinueOnError)
	flags.SetOutput(output)

	flags.String("config", defaultConfigPath, "Path of the JSON configuration document.")
	flags.String("backend", "auto", "Pointer/hotkey backend. Linux: auto|x11. Windows: auto|windows.")
	flags.String("gamepad", "auto", "Gamepad source. Linux: auto|evdev|sdl. Windows: auto|xinput|sdl.")
	flags.String("gamepad-device", "", "Gamepad device: /dev/input/eventN for evdev, 0-3 for xinput. Auto-detected if omitted.")
	flags.String("keyboard-device", "", "Linux only: read hotkeys from this evdev keyboard instead of X11 (\"auto\" uses every keyboard).")
	flags.Duration("poll-interval", defaults.ShapeInterval, "Input shaper period.")
	flags.Duration("hotkey-interval", defaults.HotkeyInterval, "Hotkey polling period.")
	flags.Duration("debounce", defaults.Debounce, "Pause after each handled hotkey.")
	flags.String("log-level", "info", "Log verbosity. Allowed: debug, info, warning, error.")
	flags.Bool("watch", false, "Reload the configuration when the file changes on disk.")
	flags.Bool("tray", false, "Show a tray menu.")
	flags.Bool("no-failsafe", false, "Keep moving the pointer when it sits in the top-left screen corner.")
	flags.Bool("start-disabled", false, "Start in the disabled state.")
	flags.Bool("list-devices", false, "Print available input devices and exit.")
	flags.Bool("capture", false, "Print the name of the next pressed key or button and exit.")

	if err := flags.Parse(args); err != nil {
		return config{}, err
	}
	if flags.NArg() > 0 {
		return config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(flags.Args(), " "))
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return config{}, fmt.Errorf("bind flags: %w", err)
	}

	cfg := config{
		configPath:     strings.TrimSpace(v.GetString("config")),
		gamepadDevice:  strings.TrimSpace(v.GetString("gamepad-device")),
		keyboardDevice: strings.TrimSpace(v.GetString("keyboard-device")),
		timing: xypad.Timing{
			ShapeInterval:    v.GetDuration("poll-interval"),
			HotkeyInterval:   v.GetDuration("hotkey-interval"),
			Debounce:         v.GetDuration("debounce"),
			ShapeErrorPause:  defaults.ShapeErrorPause,
			HotkeyErrorPause: defaults.HotkeyErrorPause,
		},
		watch:        v.GetBool("watch"),
		tray:         v.GetBool("tray"),
		failsafe:     !v.GetBool("no-failsafe"),
		startEnabled: !v.GetBool("start-disabled"),
		listDevices:  v.GetBool("list-devices"),
		capture:      v.GetBool("capture"),
	}

	if cfg.configPath == "" {
		return cfg, fmt.Errorf("--config must not be empty")
	}
	if cfg.timing.ShapeInterval <= 0 {
		return cfg, fmt.Errorf("--poll-interval must be > 0")
	}
	if cfg.timing.HotkeyInterval <= 0 {
		return cfg, fmt.Errorf("--hotkey-interval must be > 0")
	}
	if cfg.timing.Debounce < 0 {
		return cfg, fmt.Errorf("--debounce must be >= 0")
	}
	if cfg.listDevices && cfg.capture {
		return cfg, fmt.Errorf("--list-devices and --capture are mutually exclusive")
	}

	level, err := logging.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return cfg, err
	}
	backend, err := parseBackendChoice(v.GetString("backend"))
	if err != nil {
		return cfg, err
	}
	gamepad, err := parseGamepadChoice(v.GetString("gamepad"))
	if err != nil {
		return cfg, err
	}

	cfg.logLevel = level
	cfg.backend = backend
	cfg.gamepad = gamepad
	return cfg, nil
}

func normalizeChoice(value string) string {
	choice := strings.ToLower(strings.TrimSpace(value))
	if choice == "" {
		return "auto"
	}
	return choice
}

func isPermissionError(err error) bool {
	return errors.Is(err, os.ErrPermission) || errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.EACCES)
}

// deviceSet is the opened platform devices plus whatever must be closed on
// shutdown.
type deviceSet struct {
	devices xypad.Devices
	closers []io.Closer
}

func (d *deviceSet) add(c io.Closer) {
	d.closers = append(d.closers, c)
}

func (d *deviceSet) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	if cfg.listDevices {
		if err := listInputDevices(cfg, stdout); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	if cfg.capture {
		fmt.Fprintln(stderr, "Press the key or button to capture...")
		name, err := captureNextKey(cfg, captureTimeout)
		if err != nil {
			if isPermissionError(err) {
				fmt.Fprintln(stderr, permissionDeniedHint())
				return 1
			}
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, name)
		return 0
	}

	logger := logging.New(stderr, cfg.logLevel)
	fileStore := store.NewFileStore(cfg.configPath)
	initial := xypad.LoadConfig(fileStore, logger.With("store"))

	set, err := openDevices(cfg, logger)
	if err != nil {
		if isPermissionError(err) {
			fmt.Fprintln(stderr, permissionDeniedHint())
			return 1
		}
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer set.Close()

	devices := set.devices
	if cfg.failsafe {
		devices.Pointer = xypad.FailSafe(devices.Pointer)
	} else {
		logger.Warn("Fail-safe corner disabled")
	}

	service, err := xypad.NewService(initial, xypad.Options{
		Timing:       cfg.timing,
		StartEnabled: cfg.startEnabled,
		Exit:         func() { os.Exit(0) },
	}, devices, fileStore, logger.With("xypad"))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	logger.Info("Started",
		"config", fileStore.Path(),
		"backend", cfg.backend,
		"gamepad", cfg.gamepad,
		"enabled", cfg.startEnabled,
		"poll_interval", cfg.timing.ShapeInterval.String(),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.watch {
		go watchConfig(ctx, fileStore, service, logger.With("watch"))
	}

	if cfg.tray {
		err = runWithTray(ctx, cancel, service, logger.With("tray"))
	} else {
		err = service.Run(ctx)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	logger.Info("Stopped")
	return 0
}

func watchConfig(ctx context.Context, fileStore *store.FileStore, service *xypad.Service, logger *logging.Logger) {
	logger.Info("Watching configuration", "path", fileStore.Path())
	err := fileStore.Watch(ctx, func() {
		if err := service.ReloadConfiguration(); err != nil {
			logger.Warn("Reload after change failed", "err", err)
		}
	}, func(err error) {
		logger.Warn("Watch error", "err", err)
	})
	if err != nil {
		logger.Warn("Configuration watch stopped", "err", err)
	}
}

// runWithTray keeps the tray loop on the calling goroutine, which must be
// the main one, and runs the service beside it.
func runWithTray(ctx context.Context, cancel context.CancelFunc, service *xypad.Service, logger *logging.Logger) error {
	done := make(chan error, 1)
	go func() {
		done <- service.Run(ctx)
	}()

	menu := tray.New(service, cancel, logger)
	go func() {
		<-ctx.Done()
		menu.Quit()
	}()
	menu.Run()

	cancel()
	return <-done
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
