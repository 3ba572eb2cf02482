package tray

import (
	_ "embed"
	"runtime"
)

//go:embed icon.ico
var iconICO []byte

//go:embed icon.png
var iconPNG []byte

// Icon returns the tray icon in the format the platform tray expects.
func Icon() []byte {
	if runtime.GOOS == "windows" {
		return iconICO
	}
	return iconPNG
}
