package xypad

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// runFixedRate calls step once per interval until ctx is done. A failed step
// is logged as a warning and followed by errPause before polling resumes; a
// panic inside step is treated the same way so one bad sample cannot stop
// the loop. ErrFailSafe is logged only when it starts and when it clears.
func runFixedRate(ctx context.Context, name string, interval, errPause time.Duration, logger Logger, step func(ctx context.Context) error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	failSafe := false
	for {
		err := safeStep(ctx, step)
		if inCorner := errors.Is(err, ErrFailSafe); inCorner != failSafe {
			failSafe = inCorner
			if inCorner {
				logger.Warn("Fail-safe engaged, automation paused", "loop", name)
			} else {
				logger.Info("Fail-safe cleared", "loop", name)
			}
		}
		if err != nil {
			if !errors.Is(err, ErrFailSafe) {
				logger.Warn("Loop iteration failed", "loop", name, "err", err)
			}
			if !sleepWithContext(ctx, errPause) {
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func safeStep(ctx context.Context, step func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recovered panic: %v", r)
		}
	}()
	return step(ctx)
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
