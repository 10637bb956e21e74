// Package gesture implements the bow-draw state machine: it turns noisy
// per-frame hand observations (or pointer input) into discrete draw
// events and continuous power/angle signals.
package gesture

// Phase is the discrete stage of a draw cycle.
type Phase int

const (
	// PhaseAiming is the initial phase: tracking two hands and learning
	// the neutral separation baseline.
	PhaseAiming Phase = iota
	// PhasePulling is the draw: baseline frozen, power follows the
	// separation beyond it.
	PhasePulling
	// PhaseReleased holds after a shot until no projectiles remain in
	// flight.
	PhaseReleased
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseAiming:
		return "aiming"
	case PhasePulling:
		return "pulling"
	case PhaseReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Config holds the machine's tunables. The sampled constants worked for
// one camera placement; treat them as starting points, not invariants.
type Config struct {
	// PullStartThreshold is how far beyond the neutral baseline the
	// hand separation must grow before a draw starts, in logical
	// screen units.
	PullStartThreshold float64

	// ReleaseDelta is the per-frame drop in separation that registers
	// as a release snap.
	ReleaseDelta float64

	// PowerScale converts separation beyond the frozen baseline into
	// power.
	PowerScale float64

	// MaxPower caps the accumulated power.
	MaxPower float64

	// MinFirePower is the least power that actually fires; weaker
	// draws abort silently.
	MinFirePower float64

	// BaselineWeight is the exponential weight of the old baseline in
	// the per-frame update: new = w*old + (1-w)*current.
	BaselineWeight float64

	// RightHandedBow assigns the right hand as the bow hand. Default
	// is the left hand on the bow, right on the string.
	RightHandedBow bool
}

// DefaultConfig returns the machine tunables with their default values.
func DefaultConfig() Config {
	return Config{
		PullStartThreshold: 30,
		ReleaseDelta:       25,
		PowerScale:         0.5,
		MaxPower:           100,
		MinFirePower:       10,
		BaselineWeight:     0.9,
	}
}

// State is the machine's mutable record. It is owned exclusively by one
// Machine and never crosses goroutines.
type State struct {
	Phase Phase

	// Neutral is the running baseline hand separation; HasNeutral is
	// false until it has been acquired. Frozen while pulling.
	Neutral    float64
	HasNeutral bool

	// PrevDist is the previous frame's separation, absent at phase
	// entry, used for release-delta detection.
	PrevDist float64
	HasPrev  bool

	Power float64
	Angle float64 // degrees; negative aims up in screen coordinates
}

// EventKind labels the discrete outcome of one machine step.
type EventKind int

const (
	// EventNone means no discrete transition happened this step.
	EventNone EventKind = iota
	// EventDrawStart fires once when the draw begins.
	EventDrawStart
	// EventPowerUpdate reports the continuous power/angle signal while
	// pulling.
	EventPowerUpdate
	// EventRelease fires exactly once per successful shot.
	EventRelease
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventNone:
		return "none"
	case EventDrawStart:
		return "draw_start"
	case EventPowerUpdate:
		return "power_update"
	case EventRelease:
		return "release"
	default:
		return "unknown"
	}
}

// Event is the result of one machine step.
type Event struct {
	Kind  EventKind
	Power float64
	Angle float64
}
