//go:build windows

package wininput

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	inputMouse          = 0
	mouseeventfLeftDown = 0x0002
	mouseeventfLeftUp   = 0x0004
	keyDownMask         = 0x8000
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procSendInput        = user32.NewProc("SendInput")
	procSetCursorPos     = user32.NewProc("SetCursorPos")
	procGetCursorPos     = user32.NewProc("GetCursorPos")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
)

type point struct {
	X int32
	Y int32
}

type mouseInput struct {
	Dx          int32
	Dy          int32
	MouseData   uint32
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

type input struct {
	Type uint32
	Mi   mouseInput
}

// Pointer moves the cursor with SetCursorPos and presses the left button
// with SendInput.
type Pointer struct{}

func OpenPointer() (*Pointer, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("load user32.dll: %w", err)
	}
	return &Pointer{}, nil
}

func (p *Pointer) MoveTo(x, y int) error {
	ok, _, callErr := procSetCursorPos.Call(uintptr(int32(x)), uintptr(int32(y)))
	if ok == 0 {
		return fmt.Errorf("SetCursorPos(%d, %d): %w", x, y, callErr)
	}
	return nil
}

func (p *Pointer) Position() (int, int, error) {
	var pt point
	ok, _, callErr := procGetCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if ok == 0 {
		return 0, 0, fmt.Errorf("GetCursorPos: %w", callErr)
	}
	return int(pt.X), int(pt.Y), nil
}

func (p *Pointer) MouseDown() error {
	return sendMouse(mouseeventfLeftDown)
}

func (p *Pointer) MouseUp() error {
	return sendMouse(mouseeventfLeftUp)
}

func sendMouse(flags uint32) error {
	in := input{Type: inputMouse, Mi: mouseInput{DwFlags: flags}}
	sent, _, callErr := procSendInput.Call(
		1,
		uintptr(unsafe.Pointer(&in)),
		unsafe.Sizeof(in),
	)
	if sent != 1 {
		return fmt.Errorf("SendInput: %w", callErr)
	}
	return nil
}

// KeyPoller reads hotkeys with GetAsyncKeyState.
type KeyPoller struct{}

func OpenKeyPoller() (*KeyPoller, error) {
	if err := user32.Load(); err != nil {
		return nil, fmt.Errorf("load user32.dll: %w", err)
	}
	return &KeyPoller{}, nil
}

func (k *KeyPoller) IsPressed(name string) (bool, error) {
	vk, err := ParseHotkey(name)
	if err != nil {
		return false, err
	}
	return isVKDown(vk), nil
}

func isVKDown(vk uint32) bool {
	state, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return uint16(state)&keyDownMask != 0
}

// CaptureNextKey waits for a key or mouse button that was up when the call
// started to go down, and returns its configuration name.
func CaptureNextKey(timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if err := user32.Load(); err != nil {
		return "", fmt.Errorf("load user32.dll: %w", err)
	}

	candidates := captureCandidates()
	held := make(map[uint32]bool, len(candidates))
	for _, vk := range candidates {
		held[vk] = isVKDown(vk)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for _, vk := range candidates {
			down := isVKDown(vk)
			if down && !held[vk] {
				name, _ := HotkeyName(vk)
				return name, nil
			}
			held[vk] = down
		}
		time.Sleep(10 * time.Millisecond)
	}
	return "", fmt.Errorf("timed out after %s waiting for key/button input", timeout)
}
