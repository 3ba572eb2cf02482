package xypad

import (
	"sync"
	"sync/atomic"
)

// Rect is the calibrated screen region. Corners are stored exactly as
// captured; nothing guarantees X1 <= X2 or Y1 <= Y2.
type Rect struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Center returns the floor-divided geometric center.
func (r Rect) Center() Point {
	return Point{X: floorDiv(r.X1+r.X2, 2), Y: floorDiv(r.Y1+r.Y2, 2)}
}

type Settings struct {
	Deadzone   float64 `json:"deadzone"`
	Expo       float64 `json:"expo"`
	InvertY    bool    `json:"invert_y"`
	Smooth     float64 `json:"smooth"`
	Autodrag   bool    `json:"autodrag"`
	DragButton string  `json:"drag_button"`
	ToggleKey  string  `json:"enable_toggle_key"`
	ExitKey    string  `json:"exit_key"`
}

type HotkeyBindings struct {
	SetTopLeft     string `json:"set_top_left"`
	SetBottomRight string `json:"set_bottom_right"`
	SaveRect       string `json:"save_rect"`
	LoadRect       string `json:"load_rect"`
	CenterCursor   string `json:"center_cursor"`
}

// Config holds only value fields, so assigning it copies it completely.
type Config struct {
	Rect     Rect           `json:"rect"`
	Settings Settings       `json:"settings"`
	Hotkeys  HotkeyBindings `json:"hotkeys"`
}

func DefaultConfig() Config {
	return Config{
		Rect: Rect{X1: 1400, Y1: 260, X2: 1820, Y2: 660},
		Settings: Settings{
			Deadzone:   0.12,
			Expo:       1.5,
			InvertY:    true,
			Smooth:     0.25,
			Autodrag:   true,
			DragButton: "BTN_TL",
			ToggleKey:  "f8",
			ExitKey:    "f12",
		},
		Hotkeys: HotkeyBindings{
			SetTopLeft:     "f6",
			SetBottomRight: "f7",
			SaveRect:       "f9",
			LoadRect:       "f10",
			CenterCursor:   "f11",
		},
	}
}

// configCell publishes immutable configuration snapshots. Readers never lock;
// writers copy the current snapshot, modify the copy and swap it in.
type configCell struct {
	mu  sync.Mutex
	cur atomic.Pointer[Config]
}

func newConfigCell(cfg Config) *configCell {
	c := &configCell{}
	c.cur.Store(&cfg)
	return c
}

// Load returns the current snapshot. Callers must treat it as read-only.
func (c *configCell) Load() *Config {
	return c.cur.Load()
}

func (c *configCell) Replace(cfg Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur.Store(&cfg)
}

func (c *configCell) Update(fn func(cfg *Config)) Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	next := *c.cur.Load()
	fn(&next)
	c.cur.Store(&next)
	return next
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
