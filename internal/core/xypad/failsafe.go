package xypad

// FailSafe wraps a pointer so automation aborts while the user holds the
// cursor in the top-left screen corner. Moves and presses return
// ErrFailSafe there; releases and position reads always go through.
func FailSafe(pointer Pointer) Pointer {
	return &failSafePointer{Pointer: pointer}
}

type failSafePointer struct {
	Pointer
}

func (p *failSafePointer) check() error {
	x, y, err := p.Pointer.Position()
	if err != nil {
		return err
	}
	if x == 0 && y == 0 {
		return ErrFailSafe
	}
	return nil
}

func (p *failSafePointer) MoveTo(x, y int) error {
	if err := p.check(); err != nil {
		return err
	}
	return p.Pointer.MoveTo(x, y)
}

func (p *failSafePointer) MouseDown() error {
	if err := p.check(); err != nil {
		return err
	}
	return p.Pointer.MouseDown()
}
