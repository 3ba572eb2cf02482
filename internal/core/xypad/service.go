package xypad

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

type Options struct {
	Timing       Timing
	StartEnabled bool
	// Exit terminates the process. It is called by RequestExit after the
	// drag has been released and is not expected to return.
	Exit func()
}

type Devices struct {
	Gamepad GamepadSource
	Pointer Pointer
	Keys    KeyPoller
}

// Service runs the input shaper and the calibration/control loop against a
// shared configuration snapshot and runtime state.
type Service struct {
	timing  Timing
	gamepad GamepadSource
	pointer Pointer
	keys    KeyPoller
	store   Store
	logger  Logger
	exit    func()

	config     *configCell
	enabled    atomic.Bool
	buttonHeld atomic.Bool
	drag       *DragMachine
	cursor     cursorHistory
	axes       axisState

	runMu   sync.Mutex
	running bool
}

func NewService(initial Config, opts Options, devices Devices, store Store, logger Logger) (*Service, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if devices.Gamepad == nil {
		return nil, fmt.Errorf("gamepad source is nil")
	}
	if devices.Pointer == nil {
		return nil, fmt.Errorf("pointer is nil")
	}
	if devices.Keys == nil {
		return nil, fmt.Errorf("key poller is nil")
	}
	if store == nil {
		return nil, fmt.Errorf("store is nil")
	}
	exit := opts.Exit
	if exit == nil {
		return nil, fmt.Errorf("exit function is nil")
	}

	s := &Service{
		timing:  opts.Timing.withDefaults(),
		gamepad: devices.Gamepad,
		pointer: devices.Pointer,
		keys:    devices.Keys,
		store:   store,
		logger:  logger,
		exit:    exit,
		config:  newConfigCell(initial),
		drag:    NewDragMachine(devices.Pointer),
	}
	s.enabled.Store(opts.StartEnabled)
	return s, nil
}

// LoadConfig reads the persisted configuration, falling back to the defaults
// when the store has nothing usable.
func LoadConfig(store Store, logger Logger) Config {
	cfg, err := store.Load()
	if err != nil {
		logger.Debug("Configuration unavailable, using defaults", "err", err)
		return DefaultConfig()
	}
	return cfg
}

// Run centers the cursor, starts both loops and blocks until ctx is done.
// On return any held drag has been released.
func (s *Service) Run(ctx context.Context) error {
	s.runMu.Lock()
	if s.running {
		s.runMu.Unlock()
		return fmt.Errorf("service is already running")
	}
	s.running = true
	s.runMu.Unlock()
	defer func() {
		s.runMu.Lock()
		s.running = false
		s.runMu.Unlock()
	}()

	if err := s.CenterCursor(); err != nil {
		s.logger.Warn("Initial centering failed", "err", err)
	}
	s.logHotkeyLegend()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		runFixedRate(ctx, "shaper", s.timing.ShapeInterval, s.timing.ShapeErrorPause, s.logger, s.shapeOnce)
	}()
	go func() {
		defer wg.Done()
		runFixedRate(ctx, "hotkeys", s.timing.HotkeyInterval, s.timing.HotkeyErrorPause, s.logger, s.pollHotkeysOnce)
	}()
	wg.Wait()

	if _, err := s.drag.Release(); err != nil {
		s.logger.Warn("Failed to release drag on shutdown", "err", err)
	}
	return nil
}

// Config returns a copy of the active configuration.
func (s *Service) Config() Config {
	return *s.config.Load()
}

func (s *Service) DragState() DragState {
	return s.drag.State()
}

func (s *Service) IsEnabled() bool {
	return s.enabled.Load()
}

// SetEnabled switches the Enabled/Disabled state. Disabling releases any
// held drag before returning.
func (s *Service) SetEnabled(enabled bool) error {
	previous := s.enabled.Swap(enabled)
	return s.afterEnabledChange(previous, enabled)
}

func (s *Service) ToggleEnabled() (bool, error) {
	for {
		current := s.enabled.Load()
		if s.enabled.CompareAndSwap(current, !current) {
			return !current, s.afterEnabledChange(current, !current)
		}
	}
}

func (s *Service) afterEnabledChange(previous, enabled bool) error {
	if previous != enabled {
		s.logger.Info("Enabled state changed", "enabled", enabled)
	}
	if enabled {
		return nil
	}
	if _, err := s.drag.Release(); err != nil {
		return fmt.Errorf("release drag: %w", err)
	}
	return nil
}
