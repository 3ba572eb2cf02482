package xypad

import (
	"sync"
)

type DragState int

const (
	DragIdle DragState = iota
	DragDragging
)

func (s DragState) String() string {
	switch s {
	case DragIdle:
		return "idle"
	case DragDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// DragMachine owns the pointer button. Each transition issues its side
// effect exactly once; repeating a transition is a no-op. A failed press or
// release leaves the state unchanged so the next iteration retries it.
type DragMachine struct {
	mu      sync.Mutex
	state   DragState
	pointer Pointer
}

func NewDragMachine(pointer Pointer) *DragMachine {
	return &DragMachine{pointer: pointer}
}

func (m *DragMachine) State() DragState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Begin moves Idle -> Dragging. It reports whether a press was issued.
func (m *DragMachine) Begin() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == DragDragging {
		return false, nil
	}
	if err := m.pointer.MouseDown(); err != nil {
		return false, err
	}
	m.state = DragDragging
	return true, nil
}

// Release moves Dragging -> Idle. It reports whether a release was issued.
func (m *DragMachine) Release() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == DragIdle {
		return false, nil
	}
	if err := m.pointer.MouseUp(); err != nil {
		return false, err
	}
	m.state = DragIdle
	return true, nil
}

// Arbitrate drives the machine toward the wanted state.
func (m *DragMachine) Arbitrate(active bool) error {
	var err error
	if active {
		_, err = m.Begin()
	} else {
		_, err = m.Release()
	}
	return err
}

// cursorHistory is the last position the shaper moved to, used as the
// smoothing origin.
type cursorHistory struct {
	mu    sync.Mutex
	last  Point
	valid bool
}

func (c *cursorHistory) Last() (Point, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last, c.valid
}

func (c *cursorHistory) Set(p Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = p
	c.valid = true
}

func (c *cursorHistory) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = Point{}
	c.valid = false
}

// axisState holds the latest raw readings. Only the shaper goroutine touches it.
type axisState struct {
	x int32
	y int32
}

func (a *axisState) apply(code string, value int32) bool {
	switch code {
	case AxisX:
		a.x = value
	case AxisY:
		a.y = value
	default:
		return false
	}
	return true
}
