package ballistics

import "math"

// Ring is one scoring band of the target.
type Ring struct {
	Radius float64 `json:"radius"`
	Points int     `json:"points"`
}

// Target is the scoring face: concentric rings, innermost worth most.
type Target struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Rings []Ring  `json:"rings"` // ordered outermost first
	Hits  []Point `json:"hits"`
}

// NewTarget creates a target at the given center with the standard
// five-ring face.
func NewTarget(x, y float64) *Target {
	return &Target{
		X: x,
		Y: y,
		Rings: []Ring{
			{Radius: 60, Points: 1},
			{Radius: 50, Points: 2},
			{Radius: 40, Points: 4},
			{Radius: 30, Points: 6},
			{Radius: 20, Points: 10},
		},
	}
}

// CheckHit returns the points for an impact at (x, y), or 0 for a miss.
// The smallest ring containing the impact wins, so the bullseye scores
// highest. A hit is recorded for later display.
func (t *Target) CheckHit(x, y float64) int {
	dist := math.Hypot(x-t.X, y-t.Y)

	best := 0
	for _, r := range t.Rings {
		if dist <= r.Radius && r.Points > best {
			best = r.Points
		}
	}
	if best > 0 {
		t.Hits = append(t.Hits, Point{X: x, Y: y})
	}
	return best
}

// Reset clears the recorded hits.
func (t *Target) Reset() {
	t.Hits = t.Hits[:0]
}
