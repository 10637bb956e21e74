// Package app wires the capture session, hand detector, gesture machine
// and ballistics engine into one game and drives them from a single
// fixed-rate loop.
package app

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/ayusman/archery/internal/ballistics"
	"github.com/ayusman/archery/internal/capture"
	"github.com/ayusman/archery/internal/detector"
	"github.com/ayusman/archery/internal/gesture"
	"github.com/ayusman/archery/internal/store"
)

// Mode selects the input path driving the gesture machine.
type Mode int

const (
	// ModeCamera drives the machine from detected hand poses.
	ModeCamera Mode = iota
	// ModePointer drives the machine from pointer press/drag/release.
	ModePointer
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeCamera:
		return "camera"
	case ModePointer:
		return "pointer"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Config holds the game configuration.
type Config struct {
	Mode       Mode
	Capture    capture.Config
	Detector   detector.Config
	Gesture    gesture.Config
	Ballistics ballistics.Config

	// TickRate is the game loop frequency in ticks per second.
	TickRate int

	// Store enables shot and session persistence when set.
	Store *store.Store

	// Session overrides the capture session built from Capture.
	// Used by tests and replay tools.
	Session *capture.Session

	// HandDetector overrides the detector built from Detector.
	HandDetector detector.Detector
}

// App is the assembled game. All mutation happens on the loop goroutine
// or under the mutex; Snapshot is safe from any goroutine.
type App struct {
	cfg Config

	session *capture.Session
	det     detector.Detector
	engine  *ballistics.Engine
	machine *gesture.Machine
	pointer *gesture.Pointer

	mu      sync.Mutex
	mode    Mode
	status  string
	hands   []detector.HandObservation
	running bool
	stopCh  chan struct{}
	done    chan struct{}

	sessionID     string
	pendingShotID string
}

// New assembles a game from the config. The camera is not opened here;
// Start does that and downgrades to pointer mode if no camera exists.
func New(cfg Config) (*App, error) {
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	engine := ballistics.NewEngine(cfg.Ballistics)
	machine := gesture.NewMachine(cfg.Gesture, engine)

	a := &App{
		cfg:     cfg,
		engine:  engine,
		machine: machine,
		pointer: gesture.NewPointer(machine),
		mode:    cfg.Mode,
		status:  "stopped",
	}

	if cfg.Mode == ModeCamera {
		a.session = cfg.Session
		if a.session == nil {
			a.session = capture.NewSession(cfg.Capture)
		}

		a.det = cfg.HandDetector
		if a.det == nil {
			det, err := detector.NewMediaPipeDetector(cfg.Detector)
			if err != nil {
				log.Printf("app: hand tracking unavailable, using stub detector: %v", err)
				a.det = detector.NewMockDetector()
			} else {
				a.det = det
			}
		}
	}

	return a, nil
}

// Mode returns the active input mode. It can differ from the configured
// mode after a camera fallback.
func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Session returns the capture session, nil in pointer mode.
func (a *App) Session() *capture.Session { return a.session }

// Start opens the camera if needed and spawns the game loop. A missing
// camera is not fatal: the game permanently falls back to pointer mode.
// Any other camera failure aborts the start.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return nil
	}

	if a.mode == ModeCamera {
		if err := a.session.Start(); err != nil {
			if errors.Is(err, capture.ErrNoCameraFound) {
				log.Printf("app: %v, falling back to pointer input", err)
				a.mode = ModePointer
				a.status = "no camera found, pointer input active"
			} else {
				return fmt.Errorf("starting capture: %w", err)
			}
		} else {
			a.status = fmt.Sprintf("camera active (%s)", a.session.Describe())
		}
	} else {
		a.status = "pointer input active"
	}

	if a.cfg.Store != nil {
		sess := &store.Session{Mode: a.mode.String()}
		if err := a.cfg.Store.Sessions().Create(sess); err != nil {
			log.Printf("app: could not record session: %v", err)
		} else {
			a.sessionID = sess.ID
		}
	}

	a.running = true
	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.run(a.stopCh, a.done)

	log.Printf("app: started in %s mode", a.mode)
	return nil
}

// Stop halts the loop, releases the camera, and finalizes the stored
// session. Idempotent.
func (a *App) Stop() {
	a.mu.Lock()
	if !a.running {
		a.mu.Unlock()
		return
	}
	close(a.stopCh)
	done := a.done
	a.running = false
	a.stopCh = nil
	a.done = nil
	a.mu.Unlock()

	<-done

	if a.session != nil {
		a.session.Stop()
	}
	if a.det != nil {
		if err := a.det.Close(); err != nil {
			log.Printf("app: error closing detector: %v", err)
		}
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cfg.Store != nil && a.sessionID != "" {
		if err := a.cfg.Store.Sessions().Finish(a.sessionID, a.engine.Score()); err != nil {
			log.Printf("app: could not finalize session: %v", err)
		}
		a.sessionID = ""
	}
	a.status = "stopped"
	log.Println("app: stopped")
}

// Reset refills the quiver, clears the score, and returns the machine to
// aiming. The capture session keeps running.
func (a *App) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.engine.Reset()
	a.machine.Reset()
}

// PointerPress begins a draw at the given position in pointer mode.
func (a *App) PointerPress(x, y float64) gesture.Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != ModePointer {
		return gesture.Event{Kind: gesture.EventNone}
	}
	return a.pointer.Press(x, y)
}

// PointerMove updates the draw from the current pointer position.
func (a *App) PointerMove(x, y float64) gesture.Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != ModePointer {
		return gesture.Event{Kind: gesture.EventNone}
	}
	return a.pointer.Move(x, y)
}

// PointerRelease completes the draw and fires if it carried enough power.
func (a *App) PointerRelease() gesture.Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != ModePointer {
		return gesture.Event{Kind: gesture.EventNone}
	}
	ev := a.pointer.Release()
	a.recordRelease(ev)
	return ev
}

// recordRelease persists a fired shot. Caller holds the mutex.
func (a *App) recordRelease(ev gesture.Event) {
	if ev.Kind != gesture.EventRelease || a.cfg.Store == nil || a.sessionID == "" {
		return
	}
	sh := &store.Shot{SessionID: a.sessionID, Power: ev.Power, Angle: ev.Angle}
	if err := a.cfg.Store.Shots().Create(sh); err != nil {
		log.Printf("app: could not record shot: %v", err)
		return
	}
	a.pendingShotID = sh.ID
}

// recordHits attaches scored points to the pending shot. Caller holds
// the mutex.
func (a *App) recordHits(hits []ballistics.Hit) {
	if len(hits) == 0 || a.cfg.Store == nil || a.pendingShotID == "" {
		return
	}
	if err := a.cfg.Store.Shots().SetPoints(a.pendingShotID, hits[0].Points); err != nil {
		log.Printf("app: could not record hit: %v", err)
	}
	a.pendingShotID = ""
}
