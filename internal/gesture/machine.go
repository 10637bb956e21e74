package gesture

import (
	"math"

	"github.com/ayusman/archery/internal/detector"
)

// Launcher is the ballistics boundary the machine fires into.
type Launcher interface {
	// Launch fires one projectile with the given power and angle.
	Launch(power, angle float64)
	// InFlight reports whether any projectile is still in the scene;
	// it gates the Released to Aiming transition.
	InFlight() bool
	// ArrowsLeft reports how many projectiles remain; a draw cannot
	// start with an empty quiver.
	ArrowsLeft() int
}

// Machine is the draw-gesture decision engine. It owns its State
// exclusively; Update and the pointer adapter are the only mutators.
// None of its operations block.
type Machine struct {
	cfg      Config
	launcher Launcher
	st       State
}

// NewMachine creates a machine in the Aiming phase.
func NewMachine(cfg Config, launcher Launcher) *Machine {
	return &Machine{cfg: cfg, launcher: launcher}
}

// State returns a copy of the machine's current state.
func (m *Machine) State() State { return m.st }

// Config returns the machine tunables.
func (m *Machine) Config() Config { return m.cfg }

// Reset returns the machine to Aiming with power zeroed and baselines
// cleared, regardless of phase.
func (m *Machine) Reset() {
	m.resetAim()
}

// Update advances the machine with one frame's hand observations and
// returns the discrete event for this step, if any.
func (m *Machine) Update(hands []detector.HandObservation) Event {
	// Fewer than two hands always forces power to zero and clears the
	// baseline: re-acquisition must re-learn it.
	if len(hands) < 2 {
		m.resetAim()
		return Event{Kind: EventNone}
	}

	if m.st.Phase == PhaseReleased {
		m.settle()
		return Event{Kind: EventNone}
	}

	bow, str := classifyHands(hands, m.cfg.RightHandedBow)
	dist := pointDistance(bow.IndexTip, str.IndexTip)
	angle := aimAngle(bow, str)
	m.st.Angle = angle

	switch m.st.Phase {
	case PhaseAiming:
		if !m.st.HasNeutral {
			m.st.Neutral = dist
			m.st.HasNeutral = true
			return Event{Kind: EventNone}
		}

		// Check against the current baseline before folding this
		// frame in, so the pull itself never contaminates it.
		if dist-m.st.Neutral > m.cfg.PullStartThreshold && m.launcher.ArrowsLeft() > 0 {
			return m.beginPull(m.st.Neutral, dist)
		}

		w := m.cfg.BaselineWeight
		m.st.Neutral = w*m.st.Neutral + (1-w)*dist
		return Event{Kind: EventNone}

	case PhasePulling:
		// A sudden closing of the hands is the release snap. Detected
		// before the power update so the shot carries the power of the
		// frame before the snap.
		if m.st.HasPrev && m.st.PrevDist-dist > m.cfg.ReleaseDelta {
			return m.fire()
		}
		return m.applyDraw(dist, angle)
	}

	return Event{Kind: EventNone}
}

// beginPull enters the Pulling phase with the given frozen baseline and
// initial separation. Shared by the camera path and the pointer adapter.
func (m *Machine) beginPull(baseline, dist float64) Event {
	m.st.Phase = PhasePulling
	m.st.Neutral = baseline
	m.st.HasNeutral = true
	m.st.PrevDist = dist
	m.st.HasPrev = true
	m.st.Power = m.clampPower(dist - baseline)
	return Event{Kind: EventDrawStart, Power: m.st.Power, Angle: m.st.Angle}
}

// applyDraw updates power and angle from the current separation while
// pulling.
func (m *Machine) applyDraw(dist, angle float64) Event {
	m.st.Power = m.clampPower(dist - m.st.Neutral)
	m.st.Angle = angle
	m.st.PrevDist = dist
	m.st.HasPrev = true
	return Event{Kind: EventPowerUpdate, Power: m.st.Power, Angle: angle}
}

// fire completes a pull. Above the firing threshold it launches exactly
// one projectile and enters Released; below it the draw is discarded and
// the machine returns to Aiming.
func (m *Machine) fire() Event {
	power, angle := m.st.Power, m.st.Angle
	if power <= m.cfg.MinFirePower {
		m.resetAim()
		return Event{Kind: EventNone}
	}

	m.launcher.Launch(power, angle)
	m.st.Phase = PhaseReleased
	m.st.Power = 0
	m.st.HasPrev = false
	return Event{Kind: EventRelease, Power: power, Angle: angle}
}

// settle leaves Released once the launcher reports the scene clear.
func (m *Machine) settle() {
	if m.launcher.InFlight() {
		return
	}
	m.resetAim()
}

// resetAim returns to Aiming with power zeroed and baselines cleared.
func (m *Machine) resetAim() {
	m.st.Phase = PhaseAiming
	m.st.Power = 0
	m.st.Neutral = 0
	m.st.HasNeutral = false
	m.st.PrevDist = 0
	m.st.HasPrev = false
}

func (m *Machine) clampPower(draw float64) float64 {
	p := draw * m.cfg.PowerScale
	if p < 0 {
		return 0
	}
	if p > m.cfg.MaxPower {
		return m.cfg.MaxPower
	}
	return p
}

// classifyHands picks the bow and string hands from the first two
// observations. Handedness labels decide when both are present and
// distinct; otherwise the leftmost index fingertip takes the bow.
func classifyHands(hands []detector.HandObservation, rightHandedBow bool) (bow, str detector.HandObservation) {
	a, b := hands[0], hands[1]

	if a.Handedness != detector.HandUnknown &&
		b.Handedness != detector.HandUnknown &&
		a.Handedness != b.Handedness {
		bowSide := detector.HandLeft
		if rightHandedBow {
			bowSide = detector.HandRight
		}
		if a.Handedness == bowSide {
			return a, b
		}
		return b, a
	}

	if a.IndexTip.X <= b.IndexTip.X {
		return a, b
	}
	return b, a
}

// aimAngle derives the continuous aim angle from the vertical offset
// between the two hands over their horizontal separation. A string hand
// below the bow hand aims the shot upward (negative degrees in screen
// coordinates).
func aimAngle(bow, str detector.HandObservation) float64 {
	dy := bow.IndexTip.Y - str.IndexTip.Y
	dx := math.Abs(str.IndexTip.X - bow.IndexTip.X)
	return radToDeg(math.Atan2(dy, dx))
}

func pointDistance(a, b detector.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func radToDeg(r float64) float64 {
	return r * 180 / math.Pi
}
