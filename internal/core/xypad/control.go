package xypad

import (
	"context"
	"errors"
	"fmt"
)

type controlAction struct {
	name        string
	description string
	key         func(cfg *Config) string
	run         func(s *Service) error
}

// controlActions are polled in this order on every hotkey iteration.
var controlActions = []controlAction{
	{
		name:        "set_top_left",
		description: "record top-left corner at the pointer",
		key:         func(cfg *Config) string { return cfg.Hotkeys.SetTopLeft },
		run:         (*Service).SetTopLeft,
	},
	{
		name:        "set_bottom_right",
		description: "record bottom-right corner at the pointer",
		key:         func(cfg *Config) string { return cfg.Hotkeys.SetBottomRight },
		run:         (*Service).SetBottomRight,
	},
	{
		name:        "save_rect",
		description: "save configuration",
		key:         func(cfg *Config) string { return cfg.Hotkeys.SaveRect },
		run:         (*Service).SaveConfiguration,
	},
	{
		name:        "load_rect",
		description: "reload configuration",
		key:         func(cfg *Config) string { return cfg.Hotkeys.LoadRect },
		run:         (*Service).ReloadConfiguration,
	},
	{
		name:        "center_cursor",
		description: "center the cursor in the region",
		key:         func(cfg *Config) string { return cfg.Hotkeys.CenterCursor },
		run:         (*Service).CenterCursor,
	},
	{
		name:        "enable_toggle",
		description: "enable/disable",
		key:         func(cfg *Config) string { return cfg.Settings.ToggleKey },
		run: func(s *Service) error {
			_, err := s.ToggleEnabled()
			return err
		},
	},
	{
		name:        "exit",
		description: "quit",
		key:         func(cfg *Config) string { return cfg.Settings.ExitKey },
		run: func(s *Service) error {
			s.RequestExit()
			return nil
		},
	},
}

// pollHotkeysOnce checks every binding even when an earlier one cannot be
// read or fails, so the exit key keeps working with a bad configuration.
func (s *Service) pollHotkeysOnce(ctx context.Context) error {
	var errs []error
	for _, action := range controlActions {
		key := action.key(s.config.Load())
		if key == "" {
			continue
		}
		pressed, err := s.keys.IsPressed(key)
		if err != nil {
			errs = append(errs, fmt.Errorf("read hotkey %s (%s): %w", action.name, key, err))
			continue
		}
		if !pressed {
			continue
		}
		if err := action.run(s); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", action.name, err))
		}
		if !sleepWithContext(ctx, s.timing.Debounce) {
			break
		}
	}
	return errors.Join(errs...)
}

func (s *Service) logHotkeyLegend() {
	cfg := s.config.Load()
	s.logger.Info("Hotkeys")
	for _, action := range controlActions {
		s.logger.Info("Hotkey", "key", action.key(cfg), "action", action.description)
	}
	s.logger.Info("Bring the target window to the front, put the pointer on each corner, press the corner hotkeys, then save")
}

// SetTopLeft records the current pointer position as (x1, y1).
func (s *Service) SetTopLeft() error {
	x, y, err := s.pointer.Position()
	if err != nil {
		return fmt.Errorf("read pointer position: %w", err)
	}
	s.config.Update(func(cfg *Config) {
		cfg.Rect.X1, cfg.Rect.Y1 = x, y
	})
	s.logger.Info("Top-left corner set", "x", x, "y", y)
	return nil
}

// SetBottomRight records the current pointer position as (x2, y2).
func (s *Service) SetBottomRight() error {
	x, y, err := s.pointer.Position()
	if err != nil {
		return fmt.Errorf("read pointer position: %w", err)
	}
	s.config.Update(func(cfg *Config) {
		cfg.Rect.X2, cfg.Rect.Y2 = x, y
	})
	s.logger.Info("Bottom-right corner set", "x", x, "y", y)
	return nil
}

func (s *Service) SaveConfiguration() error {
	if err := s.store.Save(*s.config.Load()); err != nil {
		return fmt.Errorf("save configuration: %w", err)
	}
	s.logger.Info("Configuration saved")
	return nil
}

// ReloadConfiguration replaces the active configuration wholesale with the
// stored one merged over the defaults.
func (s *Service) ReloadConfiguration() error {
	s.config.Replace(LoadConfig(s.store, s.logger))
	s.logger.Info("Configuration reloaded")
	return nil
}

// CenterCursor moves the pointer to the rectangle center and restarts the
// smoothing history there.
func (s *Service) CenterCursor() error {
	center := s.config.Load().Rect.Center()
	if err := s.pointer.MoveTo(center.X, center.Y); err != nil {
		return fmt.Errorf("center cursor: %w", err)
	}
	s.cursor.Set(center)
	s.logger.Debug("Cursor centered", "x", center.X, "y", center.Y)
	return nil
}

// RequestExit releases the drag and terminates the process without any
// further cleanup.
func (s *Service) RequestExit() {
	s.logger.Info("Exit requested")
	if _, err := s.drag.Release(); err != nil {
		s.logger.Warn("Failed to release drag before exit", "err", err)
	}
	s.exit()
}
