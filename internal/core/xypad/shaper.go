package xypad

import (
	"context"
	"fmt"
)

// shapeOnce runs one iteration of the input shaper: drain gamepad events,
// shape the stick position, move the pointer and arbitrate the drag.
func (s *Service) shapeOnce(_ context.Context) error {
	events, err := s.gamepad.Poll()
	cfg := s.config.Load()
	// Sources report a neutral pad together with a disconnect error.
	for _, event := range events {
		s.applyEvent(cfg, event)
	}
	if err != nil {
		return fmt.Errorf("poll gamepad: %w", err)
	}

	if !s.enabled.Load() {
		if _, err := s.drag.Release(); err != nil {
			return fmt.Errorf("release drag while disabled: %w", err)
		}
		return nil
	}

	settings := cfg.Settings
	xUnit := StickToUnit(s.axes.x, settings.Deadzone, settings.Expo)
	yUnit := StickToUnit(s.axes.y, settings.Deadzone, settings.Expo)
	held := s.buttonHeld.Load()
	wantDrag := settings.Autodrag || held

	if xUnit == 0 && yUnit == 0 && !wantDrag {
		if _, err := s.drag.Release(); err != nil {
			return fmt.Errorf("release drag at rest: %w", err)
		}
	}

	target := ProjectToRectangle(xUnit, yUnit, cfg.Rect, settings.InvertY)
	previous, hasPrevious := s.cursor.Last()
	next := SmoothMove(target, previous, hasPrevious, settings.Smooth)

	// Nothing new from the pad and the filter has settled: leave the pointer
	// alone so a physical mouse is not fought every tick.
	if len(events) == 0 && hasPrevious && next == previous {
		return s.drag.Arbitrate(wantDrag)
	}

	if err := s.pointer.MoveTo(next.X, next.Y); err != nil {
		return fmt.Errorf("move pointer: %w", err)
	}
	s.cursor.Set(next)

	if err := s.drag.Arbitrate(wantDrag); err != nil {
		return fmt.Errorf("arbitrate drag: %w", err)
	}
	return nil
}

func (s *Service) applyEvent(cfg *Config, event GamepadEvent) {
	if event.Code == cfg.Settings.DragButton {
		s.buttonHeld.Store(event.State != 0)
	}
	s.axes.apply(event.Code, event.State)
}
