package app

import (
	"time"

	"github.com/ayusman/archery/internal/ballistics"
	"github.com/ayusman/archery/internal/detector"
	"github.com/ayusman/archery/internal/gesture"
)

// Snapshot is a point-in-time view of the whole game for rendering and
// broadcast.
type Snapshot struct {
	Mode       string                     `json:"mode"`
	Status     string                     `json:"status"`
	Phase      string                     `json:"phase"`
	Power      float64                    `json:"power"`
	Angle      float64                    `json:"angle"`
	Score      int                        `json:"score"`
	ArrowsLeft int                        `json:"arrows_left"`
	CameraLive bool                       `json:"camera_live"`
	Hands      []detector.HandObservation `json:"hands,omitempty"`
	Arrows     []ballistics.Arrow         `json:"arrows,omitempty"`
	Target     ballistics.Target          `json:"target"`
	Timestamp  int64                      `json:"timestamp"`
}

// Snapshot returns the current game state. Safe from any goroutine.
func (a *App) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	st := a.machine.State()
	snap := Snapshot{
		Mode:       a.mode.String(),
		Status:     a.status,
		Phase:      st.Phase.String(),
		Power:      st.Power,
		Angle:      st.Angle,
		Score:      a.engine.Score(),
		ArrowsLeft: a.engine.ArrowsLeft(),
		Hands:      append([]detector.HandObservation(nil), a.hands...),
		Arrows:     a.engine.Arrows(),
		Target:     *a.engine.Target(),
		Timestamp:  time.Now().UnixMilli(),
	}
	if a.session != nil {
		snap.CameraLive = a.session.IsLive()
	}
	return snap
}

// run is the fixed-rate game loop. Each tick reads the freshest frame,
// advances the gesture machine, and steps the arrows.
func (a *App) run(stopCh, done chan struct{}) {
	defer close(done)

	dt := 1.0 / float64(a.cfg.TickRate)
	ticker := time.NewTicker(time.Second / time.Duration(a.cfg.TickRate))
	defer ticker.Stop()

	// Camera pipelines warm up slowly; wait once for the first frame so
	// the opening ticks do not all see an empty buffer.
	if a.session != nil {
		if f, ok := a.session.TryTake(500 * time.Millisecond); ok {
			f.Close()
		}
	}

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			a.tick(dt)
		}
	}
}

func (a *App) tick(dt float64) {
	var (
		hands  []detector.HandObservation
		gotObs bool
	)

	a.mu.Lock()
	mode := a.mode
	a.mu.Unlock()

	// Detection runs outside the lock; the subprocess round trip must
	// not stall Snapshot or the pointer handlers.
	if mode == ModeCamera {
		if frame, ok := a.session.PeekLatest(); ok {
			obs, err := a.det.Detect(frame.Mat)
			frame.Close()
			if err == nil {
				hands = obs
				gotObs = true
			}
		} else {
			// No frame at all counts as an empty scene.
			gotObs = true
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	switch mode {
	case ModeCamera:
		if gotObs {
			a.hands = hands
			ev := a.machine.Update(hands)
			a.recordRelease(ev)
		}
	case ModePointer:
		// Pointer input arrives through the handlers; the loop only
		// settles the machine once the scene clears.
		if a.machine.State().Phase == gesture.PhaseReleased {
			a.pointer.Settle()
		}
	}

	hits := a.engine.Update(dt)
	a.recordHits(hits)
}
