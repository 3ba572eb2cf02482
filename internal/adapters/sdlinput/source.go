package sdlinput

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/SDINAHET/Daslight4-xbox360/internal/core/xypad"

	"github.com/jupiterrider/purego-sdl3/sdl"
)

// maxPending bounds the queue when nobody is polling.
const maxPending = 1024

type joystickInfo struct {
	joystick *sdl.Joystick
	layout   padLayout
	name     string
}

// Source owns the SDL joystick subsystem on a dedicated OS thread and
// queues change events for Poll.
type Source struct {
	logger   xypad.Logger
	interval time.Duration

	joysticks map[sdl.JoystickID]*joystickInfo
	activeID  sdl.JoystickID
	hasActive bool
	prev      sample

	mu      sync.Mutex
	pending []xypad.GamepadEvent

	cancel context.CancelFunc
	done   chan struct{}
}

// Open starts the SDL thread, sampling the active joystick every interval.
func Open(interval time.Duration, logger xypad.Logger) (*Source, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is nil")
	}
	if interval <= 0 {
		interval = 10 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Source{
		logger:    logger,
		interval:  interval,
		joysticks: make(map[sdl.JoystickID]*joystickInfo),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	ready := make(chan error, 1)
	go s.run(ctx, ready)
	if err := <-ready; err != nil {
		cancel()
		<-s.done
		return nil, err
	}
	return s, nil
}

func (s *Source) run(ctx context.Context, ready chan<- error) {
	defer close(s.done)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if !sdl.Init(sdl.InitJoystick) {
		ready <- fmt.Errorf("SDL init failed: %s", sdl.GetError())
		return
	}
	defer sdl.Quit()
	ready <- nil

	for _, id := range sdl.GetJoysticks() {
		s.openJoystick(id)
	}
	if !s.hasActive {
		s.logger.Warn("No joystick connected yet; waiting for one")
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		s.processEvents()
		s.sampleActive()

		select {
		case <-ctx.Done():
			s.closeAll()
			return
		case <-ticker.C:
		}
	}
}

func (s *Source) processEvents() {
	var event sdl.Event
	for sdl.PollEvent(&event) {
		switch event.Type() {
		case sdl.EventJoystickAdded:
			s.openJoystick(event.JDevice().Which)
		case sdl.EventJoystickRemoved:
			s.removeJoystick(event.JDevice().Which)
		}
	}
}

func (s *Source) openJoystick(instanceID sdl.JoystickID) {
	if _, exists := s.joysticks[instanceID]; exists {
		return
	}
	js := sdl.OpenJoystick(instanceID)
	if js == nil {
		s.logger.Warn("Failed to open joystick", "id", instanceID, "err", sdl.GetError())
		return
	}

	id := sdl.GetJoystickID(js)
	vendor := sdl.GetJoystickVendor(js)
	product := sdl.GetJoystickProduct(js)
	info := &joystickInfo{
		joystick: js,
		layout:   layoutFor(vendor, product),
		name:     sdl.GetJoystickName(js),
	}
	s.joysticks[id] = info
	s.logger.Info("Joystick connected", "name", info.name, "vid", fmt.Sprintf("%04X", vendor), "pid", fmt.Sprintf("%04X", product), "layout", info.layout.name)

	if !s.hasActive {
		s.activeID = id
		s.hasActive = true
		s.prev = sample{}
	}
}

func (s *Source) removeJoystick(instanceID sdl.JoystickID) {
	info, exists := s.joysticks[instanceID]
	if !exists {
		return
	}
	s.logger.Warn("Joystick disconnected", "name", info.name)
	sdl.CloseJoystick(info.joystick)
	delete(s.joysticks, instanceID)

	if !s.hasActive || s.activeID != instanceID {
		return
	}
	s.enqueue(diffSamples(info.layout, s.prev, sample{}))
	s.prev = sample{}
	s.hasActive = false
	for id, next := range s.joysticks {
		if sdl.JoystickConnected(next.joystick) {
			s.activeID = id
			s.hasActive = true
			s.logger.Info("Active joystick switched", "name", next.name)
			break
		}
	}
}

func (s *Source) sampleActive() {
	if !s.hasActive {
		return
	}
	info, ok := s.joysticks[s.activeID]
	if !ok || !sdl.JoystickConnected(info.joystick) {
		return
	}
	js := info.joystick

	var cur sample
	numAxes := sdl.GetNumJoystickAxes(js)
	for i := int32(0); i < maxAxes && i < numAxes; i++ {
		cur.axes[i] = sdl.GetJoystickAxis(js, i)
	}
	numButtons := sdl.GetNumJoystickButtons(js)
	if numButtons < 0 {
		numButtons = 0
	}
	cur.buttons = make([]bool, 0, numButtons)
	for i := int32(0); i < numButtons; i++ {
		cur.buttons = append(cur.buttons, sdl.GetJoystickButton(js, i))
	}

	s.enqueue(diffSamples(info.layout, s.prev, cur))
	s.prev = cur
}

func (s *Source) enqueue(events []xypad.GamepadEvent) {
	if len(events) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, events...)
	if over := len(s.pending) - maxPending; over > 0 {
		s.pending = append(s.pending[:0], s.pending[over:]...)
	}
}

func (s *Source) closeAll() {
	for id, info := range s.joysticks {
		sdl.CloseJoystick(info.joystick)
		delete(s.joysticks, id)
	}
}

func (s *Source) Poll() ([]xypad.GamepadEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil, nil
	}
	out := s.pending
	s.pending = nil
	return out, nil
}

func (s *Source) Close() error {
	s.cancel()
	<-s.done
	return nil
}
