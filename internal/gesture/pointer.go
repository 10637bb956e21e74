package gesture

import "math"

// Pointer adapts single-pointer input (mouse, trackpad, touch) onto the
// same draw machine: press starts the pull at the press position, drag
// maps displacement to power and angle, release fires. The phase
// semantics are the machine's own; only the input signal differs.
type Pointer struct {
	m       *Machine
	originX float64
	originY float64
	pulling bool
}

// NewPointer creates a pointer adapter for the machine.
func NewPointer(m *Machine) *Pointer {
	return &Pointer{m: m}
}

// Press begins a draw at the press position. Ignored unless the machine
// is aiming and a projectile remains.
func (p *Pointer) Press(x, y float64) Event {
	if p.m.st.Phase != PhaseAiming || p.m.launcher.ArrowsLeft() == 0 {
		return Event{Kind: EventNone}
	}
	p.originX = x
	p.originY = y
	p.pulling = true
	// Displacement is measured from the press point, so the frozen
	// baseline is zero.
	return p.m.beginPull(0, 0)
}

// Move updates power and angle from the pointer displacement while a
// draw is in progress.
func (p *Pointer) Move(x, y float64) Event {
	if !p.pulling || p.m.st.Phase != PhasePulling {
		return Event{Kind: EventNone}
	}
	dx := x - p.originX
	dy := y - p.originY
	dist := math.Hypot(dx, dy)
	angle := radToDeg(math.Atan2(dy, dx))
	return p.m.applyDraw(dist, angle)
}

// Release completes the draw, firing if the accumulated power clears the
// firing threshold and discarding the pull otherwise.
func (p *Pointer) Release() Event {
	if !p.pulling {
		return Event{Kind: EventNone}
	}
	p.pulling = false
	if p.m.st.Phase != PhasePulling {
		return Event{Kind: EventNone}
	}
	return p.m.fire()
}

// Settle advances the Released phase check; call it once per tick so the
// machine returns to Aiming after the arrows land.
func (p *Pointer) Settle() {
	if p.m.st.Phase == PhaseReleased {
		p.m.settle()
	}
}
