package capture

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Session owns a Source and its FrameBuffer and manages their lifecycle.
// One background goroutine performs all blocking reads; consumers only
// touch the buffer.
type Session struct {
	cfg Config

	mu      sync.Mutex
	src     Source
	buf     *FrameBuffer
	running bool
	stopCh  chan struct{}
	done    chan struct{}

	seq       uint64
	lastFrame atomic.Int64 // unix nanos of the newest frame, 0 before first

	// openSource is swapped out by tests; defaults to newSource.
	openSource func(Config) (Source, error)
}

// NewSession creates a stopped session for the given config.
func NewSession(cfg Config) *Session {
	cfg = cfg.withDefaults()
	return &Session{
		cfg:        cfg,
		buf:        NewFrameBuffer(cfg.BufferDepth),
		openSource: newSource,
	}
}

// NewSessionWithSource creates a session bound to the given source
// instead of one built from the config. Used by tests and replay tools.
func NewSessionWithSource(cfg Config, src Source) *Session {
	s := NewSession(cfg)
	s.openSource = func(Config) (Source, error) { return src, nil }
	return s
}

// Config returns the session configuration.
func (s *Session) Config() Config { return s.cfg }

// Start opens the source and spawns the acquisition goroutine. It fails
// with ErrDeviceUnavailable if the source cannot be opened, ErrNoSignal
// if it opened but delivered no frame, or ErrNoCameraFound if
// autodetection exhausted every probe. On failure nothing is left
// running and no resources are held.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	cfg := s.cfg
	if cfg.Kind == SourceAuto {
		resolved, err := autodetect(cfg)
		if err != nil {
			return err
		}
		cfg = resolved
		s.cfg = cfg
	}

	src, err := s.openSource(cfg)
	if err != nil {
		return err
	}
	if err := src.Open(); err != nil {
		return err
	}

	s.src = src
	s.running = true
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})
	s.lastFrame.Store(0)

	go s.acquire(src, s.stopCh, s.done)

	log.Printf("capture: session started (%s)", src.Describe())
	return nil
}

// acquire is the single-producer read loop. Read failures never kill the
// loop; they back off and retry until Stop.
func (s *Session) acquire(src Source, stopCh, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		mat, err := src.Read()
		if err != nil {
			// Transient failure: wait out the backoff, but stay
			// responsive to Stop.
			select {
			case <-stopCh:
				return
			case <-time.After(s.cfg.ReadBackoff):
			}
			continue
		}

		now := time.Now()
		s.lastFrame.Store(now.UnixNano())
		s.buf.Push(Frame{
			Mat:       mat,
			Timestamp: now,
			Seq:       atomic.AddUint64(&s.seq, 1),
		})
	}
}

// Stop signals the acquisition goroutine, joins it with a bounded wait,
// releases the source, and drains the buffer. Idempotent and safe to
// call concurrently with an in-flight read: the loop is never aborted
// mid-read, so Stop can take up to one read plus the stop timeout.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	close(s.stopCh)

	select {
	case <-s.done:
	case <-time.After(s.cfg.StopTimeout):
		// The goroutine is stuck in a blocking read. It will exit on
		// its next iteration; the session still reports stopped.
		log.Printf("capture: acquisition did not exit within %s", s.cfg.StopTimeout)
	}

	if err := s.src.Close(); err != nil {
		log.Printf("capture: error closing source: %v", err)
	}
	s.src = nil
	s.buf.Drain()
	s.running = false
	s.stopCh = nil
	s.done = nil

	log.Println("capture: session stopped")
}

// IsRunning reports whether the acquisition goroutine is active.
func (s *Session) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// IsLive reports whether the session is running and has delivered a
// frame within the liveness timeout.
func (s *Session) IsLive() bool {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if !running {
		return false
	}
	last := s.lastFrame.Load()
	if last == 0 {
		return false
	}
	return time.Since(time.Unix(0, last)) <= s.cfg.LivenessTimeout
}

// TryTake waits up to timeout for a fresh frame, falling back to the
// last-known-good frame. Used once at startup; steady-state consumers
// should use PeekLatest.
func (s *Session) TryTake(timeout time.Duration) (Frame, bool) {
	return s.buf.TryTake(timeout)
}

// PeekLatest returns the freshest frame without blocking.
func (s *Session) PeekLatest() (Frame, bool) {
	return s.buf.PeekLatest()
}

// Resolution reports the source frame size, zeros if unknown.
func (s *Session) Resolution() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.src == nil {
		return 0, 0
	}
	return s.src.Resolution()
}

// FPS reports the source frame rate, zero if unknown.
func (s *Session) FPS() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.src == nil {
		return 0
	}
	return s.src.FPS()
}

// Describe returns a status label like "device 0 640x480".
func (s *Session) Describe() string {
	s.mu.Lock()
	src := s.src
	s.mu.Unlock()
	if src == nil {
		return "not connected"
	}
	w, h := src.Resolution()
	return fmt.Sprintf("%s %dx%d", src.Describe(), w, h)
}
