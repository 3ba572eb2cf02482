//go:build linux

package x11input

import (
	"fmt"
	"sync"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
)

// Session drives the X11 pointer with absolute warps and XTEST button
// events, and answers hotkey queries from the server keymap.
type Session struct {
	xu   *xgbutil.XUtil
	conn *xgb.Conn
	root xproto.Window

	mu       sync.Mutex
	keycodes map[string][]xproto.Keycode
}

func Open() (*Session, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}
	conn := xu.Conn()
	if conn == nil {
		return nil, fmt.Errorf("failed to open X11 connection")
	}
	if err := xtest.Init(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("XTEST extension unavailable: %w", err)
	}
	keybind.Initialize(xu)

	return &Session{
		xu:       xu,
		conn:     conn,
		root:     xu.RootWin(),
		keycodes: make(map[string][]xproto.Keycode),
	}, nil
}

func (s *Session) MoveTo(x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return xproto.WarpPointerChecked(
		s.conn,
		xproto.WindowNone,
		s.root,
		0,
		0,
		0,
		0,
		clampToInt16(x),
		clampToInt16(y),
	).Check()
}

func (s *Session) MouseDown() error {
	return s.fakeButton(xproto.ButtonPress)
}

func (s *Session) MouseUp() error {
	return s.fakeButton(xproto.ButtonRelease)
}

func (s *Session) fakeButton(eventType byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := xtest.FakeInputChecked(
		s.conn,
		eventType,
		byte(xproto.ButtonIndex1),
		xproto.TimeCurrentTime,
		s.root,
		0,
		0,
		0,
	).Check(); err != nil {
		return err
	}
	s.conn.Sync()
	return nil
}

func (s *Session) Position() (int, int, error) {
	reply, err := xproto.QueryPointer(s.conn, s.root).Reply()
	if err != nil {
		return 0, 0, err
	}
	return int(reply.RootX), int(reply.RootY), nil
}

// IsPressed reports whether any keycode bound to the named key is down in
// the server keymap.
func (s *Session) IsPressed(name string) (bool, error) {
	codes, err := s.resolve(name)
	if err != nil {
		return false, err
	}
	reply, err := xproto.QueryKeymap(s.conn).Reply()
	if err != nil {
		return false, err
	}
	for _, code := range codes {
		idx := int(code) / 8
		if idx >= len(reply.Keys) {
			continue
		}
		if reply.Keys[idx]&(1<<(uint(code)%8)) != 0 {
			return true, nil
		}
	}
	return false, nil
}

func (s *Session) resolve(name string) ([]xproto.Keycode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if codes, ok := s.keycodes[name]; ok {
		return codes, nil
	}
	keysym, ok := keysymForHotkey(name)
	if !ok {
		return nil, fmt.Errorf("hotkey %q has no X11 keysym mapping", name)
	}
	codes := keybind.StrToKeycodes(s.xu, keysym)
	if len(codes) == 0 {
		return nil, fmt.Errorf("no keycode bound to %s", keysym)
	}
	s.keycodes[name] = codes
	return codes, nil
}

// CaptureNextKey grabs the keyboard until a key is pressed and returns its
// configuration name.
func (s *Session) CaptureNextKey(timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	defer xproto.UngrabKeyboard(s.conn, xproto.TimeCurrentTime)

	reply, err := xproto.GrabKeyboard(
		s.conn,
		false,
		s.root,
		xproto.TimeCurrentTime,
		xproto.GrabModeAsync,
		xproto.GrabModeAsync,
	).Reply()
	if err != nil {
		return "", err
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return "", fmt.Errorf("failed to grab keyboard (status=%d)", reply.Status)
	}

	deadline := time.Now().Add(timeout)
	for {
		event, xerr := s.conn.PollForEvent()
		if xerr != nil {
			return "", xerr
		}
		if event == nil {
			if time.Now().After(deadline) {
				return "", fmt.Errorf("timed out after %s waiting for key input", timeout)
			}
			time.Sleep(2 * time.Millisecond)
			continue
		}
		if ev, ok := event.(xproto.KeyPressEvent); ok {
			lookup := keybind.LookupString(s.xu, ev.State, ev.Detail)
			if name, ok := hotkeyForKeysym(lookup); ok {
				return name, nil
			}
		}
	}
}

func (s *Session) Close() error {
	s.conn.Close()
	return nil
}

func clampToInt16(value int) int16 {
	if value < -32768 {
		return -32768
	}
	if value > 32767 {
		return 32767
	}
	return int16(value)
}
