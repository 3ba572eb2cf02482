// Package tray exposes the pad controls in a system tray menu.
package tray

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/SDINAHET/Daslight4-xbox360/internal/core/xypad"

	"fyne.io/systray"
)

const syncInterval = 250 * time.Millisecond

// Controls is the subset of the pad service driven from the menu.
type Controls interface {
	IsEnabled() bool
	ToggleEnabled() (bool, error)
	CenterCursor() error
	SaveConfiguration() error
	ReloadConfiguration() error
}

type action int

const (
	actionToggle action = iota
	actionCenter
	actionSave
	actionReload
)

func (a action) String() string {
	switch a {
	case actionToggle:
		return "toggle"
	case actionCenter:
		return "center"
	case actionSave:
		return "save"
	case actionReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Tray owns the menu. Exit runs the shutdown function once and then quits
// the tray loop.
type Tray struct {
	controls     Controls
	shutdown     func()
	logger       xypad.Logger
	once         sync.Once
	shuttingDown atomic.Bool

	menuEnabled *systray.MenuItem
	menuCenter  *systray.MenuItem
	menuSave    *systray.MenuItem
	menuReload  *systray.MenuItem
	menuExit    *systray.MenuItem
}

func New(controls Controls, shutdown func(), logger xypad.Logger) *Tray {
	return &Tray{controls: controls, shutdown: shutdown, logger: logger}
}

// Run blocks until Quit is called or Exit is clicked. It must be called from
// the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) Quit() {
	if t.shuttingDown.CompareAndSwap(false, true) {
		systray.Quit()
	}
}

func (t *Tray) onReady() {
	systray.SetIcon(Icon())
	systray.SetTitle("xypad")
	systray.SetTooltip("Gamepad stick to screen region")

	t.menuEnabled = systray.AddMenuItemCheckbox("Enabled", "Enable or disable stick control", t.controls.IsEnabled())
	systray.AddSeparator()
	t.menuCenter = systray.AddMenuItem("Center cursor", "Move the cursor to the region center")
	t.menuSave = systray.AddMenuItem("Save configuration", "Write the current region and settings")
	t.menuReload = systray.AddMenuItem("Reload configuration", "Read the configuration file again")
	systray.AddSeparator()
	t.menuExit = systray.AddMenuItem("Exit", "Quit application")

	go t.handleMenuClicks()
	t.logger.Debug("System tray initialized")
}

func (t *Tray) handleMenuClicks() {
	ticker := time.NewTicker(syncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-t.menuEnabled.ClickedCh:
			t.dispatch(actionToggle)
			t.syncEnabled()
		case <-t.menuCenter.ClickedCh:
			t.dispatch(actionCenter)
		case <-t.menuSave.ClickedCh:
			t.dispatch(actionSave)
		case <-t.menuReload.ClickedCh:
			t.dispatch(actionReload)
		case <-t.menuExit.ClickedCh:
			t.once.Do(t.shutdown)
			t.Quit()
			return
		case <-ticker.C:
			if t.shuttingDown.Load() {
				return
			}
			t.syncEnabled()
		}
	}
}

// dispatch runs one menu action against the controls.
func (t *Tray) dispatch(a action) {
	if t.shuttingDown.Load() {
		return
	}
	var err error
	switch a {
	case actionToggle:
		_, err = t.controls.ToggleEnabled()
	case actionCenter:
		err = t.controls.CenterCursor()
	case actionSave:
		err = t.controls.SaveConfiguration()
	case actionReload:
		err = t.controls.ReloadConfiguration()
	}
	if err != nil {
		t.logger.Warn("Tray action failed", "action", a.String(), "err", err)
	}
}

// syncEnabled keeps the checkbox in step with hotkey toggles.
func (t *Tray) syncEnabled() {
	enabled := t.controls.IsEnabled()
	if enabled == t.menuEnabled.Checked() {
		return
	}
	if enabled {
		t.menuEnabled.Check()
	} else {
		t.menuEnabled.Uncheck()
	}
}

func (t *Tray) onExit() {
	t.shuttingDown.Store(true)
	t.logger.Debug("System tray exiting")
}
