package xypad

import (
	"errors"
	"testing"
)

type failingPointer struct {
	recordingPointer
	failDown bool
}

func (p *failingPointer) MouseDown() error {
	if p.failDown {
		return errors.New("press rejected")
	}
	return p.recordingPointer.MouseDown()
}

func TestDragMachinePressesAndReleasesOnce(t *testing.T) {
	pointer := &recordingPointer{}
	m := NewDragMachine(pointer)

	for i := 0; i < 3; i++ {
		if err := m.Arbitrate(true); err != nil {
			t.Fatalf("Arbitrate(true): %v", err)
		}
	}
	if _, downs, _ := pointer.counts(); downs != 1 {
		t.Fatalf("expected 1 press, got %d", downs)
	}
	if m.State() != DragDragging {
		t.Fatalf("state = %v, want dragging", m.State())
	}

	for i := 0; i < 3; i++ {
		if err := m.Arbitrate(false); err != nil {
			t.Fatalf("Arbitrate(false): %v", err)
		}
	}
	if _, _, ups := pointer.counts(); ups != 1 {
		t.Fatalf("expected 1 release, got %d", ups)
	}
	if m.State() != DragIdle {
		t.Fatalf("state = %v, want idle", m.State())
	}
}

func TestDragMachineReleaseWhileIdleIsNoop(t *testing.T) {
	pointer := &recordingPointer{}
	m := NewDragMachine(pointer)
	released, err := m.Release()
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if released {
		t.Fatal("release reported while idle")
	}
	if _, _, ups := pointer.counts(); ups != 0 {
		t.Fatalf("unexpected release events: %d", ups)
	}
}

func TestDragMachineFailedPressKeepsIdle(t *testing.T) {
	pointer := &failingPointer{failDown: true}
	m := NewDragMachine(pointer)
	if err := m.Arbitrate(true); err == nil {
		t.Fatal("expected press error")
	}
	if m.State() != DragIdle {
		t.Fatalf("state = %v, want idle after failed press", m.State())
	}
	pointer.failDown = false
	if err := m.Arbitrate(true); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if m.State() != DragDragging {
		t.Fatalf("state = %v, want dragging after retry", m.State())
	}
}

func TestFailSafeBlocksMovesAtOrigin(t *testing.T) {
	inner := &recordingPointer{}
	guarded := FailSafe(inner)

	if err := guarded.MoveTo(5, 5); !errors.Is(err, ErrFailSafe) {
		t.Fatalf("MoveTo at origin: err = %v, want ErrFailSafe", err)
	}
	if err := guarded.MouseDown(); !errors.Is(err, ErrFailSafe) {
		t.Fatalf("MouseDown at origin: err = %v, want ErrFailSafe", err)
	}
	if err := guarded.MouseUp(); err != nil {
		t.Fatalf("MouseUp must pass through: %v", err)
	}

	inner.place(10, 10)
	if err := guarded.MoveTo(20, 30); err != nil {
		t.Fatalf("MoveTo away from origin: %v", err)
	}
	if got := inner.lastMove(); got != (Point{X: 20, Y: 30}) {
		t.Fatalf("last move = %v", got)
	}
}
