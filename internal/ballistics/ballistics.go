// Package ballistics integrates arrow flight and scores hits against the
// target. It is plain closed-form kinematics in logical screen
// coordinates (positive Y down), driven from the single game loop; no
// operation blocks.
package ballistics

import "math"

// Default world parameters, in logical screen units.
const (
	DefaultGravity       = 300 // screen units per second squared
	DefaultBoundsW       = 1280
	DefaultBoundsH       = 720
	DefaultLaunchX       = 100
	DefaultLaunchY       = 360
	DefaultVelocityScale = 0.3 // power to launch speed
	DefaultTrailLen      = 20
	DefaultArrows        = 10
)

// Config holds the world parameters.
type Config struct {
	Gravity       float64
	BoundsW       float64
	BoundsH       float64
	LaunchX       float64
	LaunchY       float64
	VelocityScale float64
	TrailLen      int
	Arrows        int
}

// DefaultConfig returns the world parameters with their default values.
func DefaultConfig() Config {
	return Config{
		Gravity:       DefaultGravity,
		BoundsW:       DefaultBoundsW,
		BoundsH:       DefaultBoundsH,
		LaunchX:       DefaultLaunchX,
		LaunchY:       DefaultLaunchY,
		VelocityScale: DefaultVelocityScale,
		TrailLen:      DefaultTrailLen,
		Arrows:        DefaultArrows,
	}
}

// Point is a 2-D position in logical screen coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Arrow is one projectile.
type Arrow struct {
	Pos    Point   `json:"pos"`
	VX     float64 `json:"vx"`
	VY     float64 `json:"vy"`
	Active bool    `json:"active"`
	Trail  []Point `json:"trail"`
}

// Hit is one scored impact.
type Hit struct {
	Pos    Point `json:"pos"`
	Points int   `json:"points"`
}

// Engine owns the arrows, the quiver, the target and the score. It
// implements the gesture machine's Launcher boundary.
type Engine struct {
	cfg    Config
	target *Target
	arrows []*Arrow

	arrowsLeft int
	score      int
}

// NewEngine creates an engine with a full quiver and the default target.
func NewEngine(cfg Config) *Engine {
	if cfg.Arrows <= 0 {
		cfg.Arrows = DefaultArrows
	}
	if cfg.TrailLen <= 0 {
		cfg.TrailLen = DefaultTrailLen
	}
	return &Engine{
		cfg:        cfg,
		target:     NewTarget(cfg.BoundsW-180, cfg.BoundsH/2),
		arrowsLeft: cfg.Arrows,
	}
}

// Launch fires one arrow with the given power and angle in degrees and
// consumes one arrow from the quiver.
func (e *Engine) Launch(power, angle float64) {
	if e.arrowsLeft <= 0 {
		return
	}
	e.arrowsLeft--

	v := power * e.cfg.VelocityScale
	rad := angle * math.Pi / 180
	a := &Arrow{
		Pos:    Point{X: e.cfg.LaunchX, Y: e.cfg.LaunchY},
		VX:     v * math.Cos(rad),
		VY:     v * math.Sin(rad),
		Active: true,
		Trail:  []Point{{X: e.cfg.LaunchX, Y: e.cfg.LaunchY}},
	}
	e.arrows = append(e.arrows, a)
}

// InFlight reports whether any arrow is still active in the scene.
func (e *Engine) InFlight() bool {
	for _, a := range e.arrows {
		if a.Active {
			return true
		}
	}
	return false
}

// ArrowsLeft reports how many arrows remain in the quiver.
func (e *Engine) ArrowsLeft() int { return e.arrowsLeft }

// Score returns the accumulated score.
func (e *Engine) Score() int { return e.score }

// Target returns the engine's target.
func (e *Engine) Target() *Target { return e.target }

// Arrows returns a snapshot copy of the arrows for rendering.
func (e *Engine) Arrows() []Arrow {
	out := make([]Arrow, len(e.arrows))
	for i, a := range e.arrows {
		out[i] = *a
		out[i].Trail = append([]Point(nil), a.Trail...)
	}
	return out
}

// Update advances all active arrows by dt seconds, deactivates the ones
// leaving the bounds, and scores target impacts. Returns the hits
// scored this step.
func (e *Engine) Update(dt float64) []Hit {
	var hits []Hit

	for _, a := range e.arrows {
		if !a.Active {
			continue
		}

		a.VY += e.cfg.Gravity * dt
		a.Pos.X += a.VX * dt
		a.Pos.Y += a.VY * dt

		a.Trail = append(a.Trail, a.Pos)
		if len(a.Trail) > e.cfg.TrailLen {
			a.Trail = a.Trail[1:]
		}

		if points := e.target.CheckHit(a.Pos.X, a.Pos.Y); points > 0 {
			e.score += points
			a.Active = false
			hits = append(hits, Hit{Pos: a.Pos, Points: points})
			continue
		}

		if a.Pos.X > e.cfg.BoundsW || a.Pos.Y > e.cfg.BoundsH || a.Pos.Y < 0 {
			a.Active = false
		}
	}

	return hits
}

// Reset refills the quiver, clears the arrows and score, and resets the
// target.
func (e *Engine) Reset() {
	e.arrows = nil
	e.arrowsLeft = e.cfg.Arrows
	e.score = 0
	e.target.Reset()
}
