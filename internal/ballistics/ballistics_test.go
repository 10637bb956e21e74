package ballistics

import (
	"math"
	"testing"
)

func TestTarget_CheckHit(t *testing.T) {
	tests := []struct {
		name string
		dx   float64
		dy   float64
		want int
	}{
		{"bullseye", 0, 0, 10},
		{"inner edge", 19, 0, 10},
		{"6 ring", 25, 0, 6},
		{"4 ring", 0, 35, 4},
		{"2 ring", 45, 0, 2},
		{"1 ring", 0, 55, 1},
		{"outer edge", 60, 0, 1},
		{"miss", 61, 0, 0},
		{"far miss", 200, 200, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tgt := NewTarget(1100, 360)
			got := tgt.CheckHit(1100+tt.dx, 360+tt.dy)
			if got != tt.want {
				t.Errorf("CheckHit(%+v,%+v) = %d, want %d", tt.dx, tt.dy, got, tt.want)
			}
		})
	}
}

func TestTarget_HitsRecorded(t *testing.T) {
	tgt := NewTarget(1100, 360)
	tgt.CheckHit(1100, 360)
	tgt.CheckHit(1130, 360)
	tgt.CheckHit(1300, 360) // miss, not recorded

	if len(tgt.Hits) != 2 {
		t.Errorf("recorded %d hits, want 2", len(tgt.Hits))
	}

	tgt.Reset()
	if len(tgt.Hits) != 0 {
		t.Errorf("Reset left %d hits", len(tgt.Hits))
	}
}

func TestEngine_LaunchConsumesQuiver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Arrows = 2
	e := NewEngine(cfg)

	e.Launch(50, 0)
	if e.ArrowsLeft() != 1 {
		t.Errorf("arrows left = %d, want 1", e.ArrowsLeft())
	}
	if !e.InFlight() {
		t.Error("arrow should be in flight after launch")
	}

	e.Launch(50, 0)
	e.Launch(50, 0) // quiver empty, must be a no-op
	if e.ArrowsLeft() != 0 {
		t.Errorf("arrows left = %d, want 0", e.ArrowsLeft())
	}
	if got := len(e.Arrows()); got != 2 {
		t.Errorf("%d arrows launched, want 2", got)
	}
}

func TestEngine_FlatShotDropsUnderGravity(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.Launch(100, 0) // horizontal, speed 30/s

	e.Update(0.1)
	arrows := e.Arrows()
	a := arrows[0]

	if a.Pos.X <= DefaultLaunchX {
		t.Error("arrow should move forward")
	}
	if a.Pos.Y <= DefaultLaunchY {
		t.Error("arrow should drop under gravity on a flat shot")
	}
}

func TestEngine_UpwardShot(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.Launch(100, -45) // negative degrees aim up in screen coordinates

	e.Update(0.01)
	a := e.Arrows()[0]
	if a.Pos.Y >= DefaultLaunchY {
		t.Errorf("arrow Y = %v, want above launch height %v", a.Pos.Y, DefaultLaunchY)
	}
}

func TestEngine_OutOfBoundsDeactivates(t *testing.T) {
	e := NewEngine(DefaultConfig())
	e.Launch(100, 0)

	for i := 0; i < 600 && e.InFlight(); i++ {
		e.Update(0.1)
	}

	if e.InFlight() {
		t.Error("arrow should eventually leave the bounds and deactivate")
	}
}

func TestEngine_TargetHitScores(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine(cfg)

	// Aim straight at the target center with a fast flat shot; step in
	// fine increments so the impact lands inside the rings.
	tgt := e.Target()
	dx := tgt.X - cfg.LaunchX
	dy := tgt.Y - cfg.LaunchY
	angle := math.Atan2(dy, dx) * 180 / math.Pi
	e.Launch(10000, angle) // overwhelming speed flattens the arc

	var hits []Hit
	for i := 0; i < 1000 && e.InFlight(); i++ {
		hits = append(hits, e.Update(0.001)...)
	}

	if len(hits) != 1 {
		t.Fatalf("scored %d hits, want 1", len(hits))
	}
	if hits[0].Points <= 0 {
		t.Errorf("hit points = %d, want > 0", hits[0].Points)
	}
	if e.Score() != hits[0].Points {
		t.Errorf("score = %d, want %d", e.Score(), hits[0].Points)
	}
}

func TestEngine_Reset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Arrows = 3
	e := NewEngine(cfg)

	e.Launch(50, 0)
	e.Update(0.1)
	e.Reset()

	if e.ArrowsLeft() != 3 {
		t.Errorf("arrows left after reset = %d, want 3", e.ArrowsLeft())
	}
	if e.Score() != 0 {
		t.Errorf("score after reset = %d, want 0", e.Score())
	}
	if e.InFlight() {
		t.Error("no arrows should be in flight after reset")
	}
}

func TestEngine_TrailBounded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TrailLen = 5
	e := NewEngine(cfg)
	e.Launch(100, -80) // steep shot stays in bounds a while

	for i := 0; i < 50; i++ {
		e.Update(0.01)
	}

	a := e.Arrows()[0]
	if len(a.Trail) > 5 {
		t.Errorf("trail length = %d, want at most 5", len(a.Trail))
	}
}
