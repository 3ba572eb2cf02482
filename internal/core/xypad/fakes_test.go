package xypad

import (
	"errors"
	"sync"
)

type recordingPointer struct {
	mu    sync.Mutex
	pos   Point
	moves []Point
	downs int
	ups   int
}

func (p *recordingPointer) MoveTo(x, y int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = Point{X: x, Y: y}
	p.moves = append(p.moves, p.pos)
	return nil
}

func (p *recordingPointer) MouseDown() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.downs++
	return nil
}

func (p *recordingPointer) MouseUp() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ups++
	return nil
}

func (p *recordingPointer) Position() (int, int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos.X, p.pos.Y, nil
}

func (p *recordingPointer) place(x, y int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pos = Point{X: x, Y: y}
}

func (p *recordingPointer) counts() (moves, downs, ups int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.moves), p.downs, p.ups
}

func (p *recordingPointer) lastMove() Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.moves) == 0 {
		return Point{}
	}
	return p.moves[len(p.moves)-1]
}

type padBatch struct {
	events []GamepadEvent
	err    error
}

type scriptedGamepad struct {
	mu      sync.Mutex
	batches []padBatch
	err     error
}

func (g *scriptedGamepad) push(events ...GamepadEvent) {
	g.pushWithError(nil, events...)
}

// pushWithError queues events that are delivered together with err, the way
// a source reports its last state on disconnect.
func (g *scriptedGamepad) pushWithError(err error, events ...GamepadEvent) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.batches = append(g.batches, padBatch{events: events, err: err})
}

func (g *scriptedGamepad) Poll() ([]GamepadEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	if len(g.batches) == 0 {
		return nil, nil
	}
	next := g.batches[0]
	g.batches = g.batches[1:]
	return next.events, next.err
}

func (g *scriptedGamepad) Close() error { return nil }

type scriptedKeys struct {
	mu      sync.Mutex
	pressed map[string]bool
	failing map[string]error
}

func (k *scriptedKeys) set(name string, down bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.pressed == nil {
		k.pressed = map[string]bool{}
	}
	k.pressed[name] = down
}

func (k *scriptedKeys) fail(name string, err error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.failing == nil {
		k.failing = map[string]error{}
	}
	k.failing[name] = err
}

func (k *scriptedKeys) IsPressed(name string) (bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if err := k.failing[name]; err != nil {
		return false, err
	}
	return k.pressed[name], nil
}

var errNoConfig = errors.New("no stored configuration")

type memStore struct {
	mu     sync.Mutex
	stored *Config
	saves  int
}

func (m *memStore) Load() (Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stored == nil {
		return Config{}, errNoConfig
	}
	return *m.stored, nil
}

func (m *memStore) Save(cfg Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored = &cfg
	m.saves++
	return nil
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

type countingLogger struct {
	noopLogger
	mu    sync.Mutex
	warns int
	infos int
}

func (l *countingLogger) Info(string, ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos++
}

func (l *countingLogger) Warn(string, ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns++
}

func (l *countingLogger) warnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.warns
}

func (l *countingLogger) infoCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.infos
}
