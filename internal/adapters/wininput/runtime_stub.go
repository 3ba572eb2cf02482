//go:build !windows

package wininput

import (
	"errors"
	"time"

	"github.com/SDINAHET/Daslight4-xbox360/internal/core/xypad"
)

var errUnsupported = errors.New("windows input backend is only available on Windows")

type Pointer struct{}

func OpenPointer() (*Pointer, error) { return nil, errUnsupported }

func (p *Pointer) MoveTo(x, y int) error       { return errUnsupported }
func (p *Pointer) MouseDown() error            { return errUnsupported }
func (p *Pointer) MouseUp() error              { return errUnsupported }
func (p *Pointer) Position() (int, int, error) { return 0, 0, errUnsupported }

type KeyPoller struct{}

func OpenKeyPoller() (*KeyPoller, error) { return nil, errUnsupported }

func (k *KeyPoller) IsPressed(name string) (bool, error) { return false, errUnsupported }

type GamepadSource struct{}

func OpenGamepad(device string, logger xypad.Logger) (*GamepadSource, error) {
	return nil, errUnsupported
}

func (g *GamepadSource) Poll() ([]xypad.GamepadEvent, error) { return nil, errUnsupported }
func (g *GamepadSource) Close() error                        { return nil }

func CaptureNextKey(timeout time.Duration) (string, error) {
	return "", errUnsupported
}
