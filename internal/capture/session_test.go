package capture

import (
	"errors"
	"testing"
	"time"
)

func deviceConfig() Config {
	cfg := DefaultConfig()
	cfg.Kind = SourceDevice
	cfg.LivenessTimeout = 200 * time.Millisecond
	cfg.ReadBackoff = 5 * time.Millisecond
	cfg.StopTimeout = 500 * time.Millisecond
	return cfg
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within timeout")
}

func TestSession_StartStop(t *testing.T) {
	src := NewMockSource()
	s := NewSessionWithSource(deviceConfig(), src)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	if !s.IsRunning() {
		t.Error("session should be running after Start")
	}

	waitFor(t, time.Second, func() bool {
		_, ok := s.PeekLatest()
		return ok
	})

	if !s.IsLive() {
		t.Error("session with fresh frames should be live")
	}

	s.Stop()
	if s.IsRunning() {
		t.Error("session should not be running after Stop")
	}
	if s.IsLive() {
		t.Error("stopped session should not be live")
	}
	if src.IsOpen() {
		t.Error("source should be closed after Stop")
	}
}

func TestSession_StopIdempotent(t *testing.T) {
	src := NewMockSource()
	s := NewSessionWithSource(deviceConfig(), src)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() = %v", err)
	}

	s.Stop()
	s.Stop() // must not panic, double-close, or double-join
	s.Stop()

	if s.IsRunning() {
		t.Error("session should stay stopped")
	}
}

func TestSession_StopBeforeStart(t *testing.T) {
	s := NewSessionWithSource(deviceConfig(), NewMockSource())
	s.Stop() // safe on a never-started session
	if s.IsRunning() {
		t.Error("session should not be running")
	}
}

func TestSession_OpenFailureNoPartialStart(t *testing.T) {
	src := NewMockSource()
	src.OpenErr = ErrDeviceUnavailable
	s := NewSessionWithSource(deviceConfig(), src)

	err := s.Start()
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("Start() = %v, want ErrDeviceUnavailable", err)
	}
	if s.IsRunning() {
		t.Error("failed Start must not leave the session running")
	}
	if _, ok := s.PeekLatest(); ok {
		t.Error("failed Start must not produce frames")
	}
}

func TestSession_TransientReadFailuresRecovered(t *testing.T) {
	src := NewMockSource()
	src.FailReads = 3 // first reads fail, then recover
	s := NewSessionWithSource(deviceConfig(), src)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer s.Stop()

	// The acquisition loop must absorb the failures and keep going.
	waitFor(t, time.Second, func() bool {
		return src.Reads() >= 2
	})

	if _, ok := s.PeekLatest(); !ok {
		t.Error("frames should flow after transient read failures")
	}
}

func TestSession_LivenessTimesOut(t *testing.T) {
	src := NewMockSource()
	src.MaxFrames = 3 // deliver a few frames, then go silent
	s := NewSessionWithSource(deviceConfig(), src)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer s.Stop()

	waitFor(t, time.Second, func() bool {
		_, ok := s.PeekLatest()
		return ok
	})

	// Still running but silent past the liveness timeout.
	waitFor(t, time.Second, func() bool { return !s.IsLive() })
	if !s.IsRunning() {
		t.Error("silent session is no longer live but still running")
	}
}

func TestSession_StartTwice(t *testing.T) {
	src := NewMockSource()
	s := NewSessionWithSource(deviceConfig(), src)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer s.Stop()

	if err := s.Start(); err != nil {
		t.Errorf("second Start() on a running session = %v, want nil", err)
	}
}

func TestSession_FramesMonotonic(t *testing.T) {
	src := NewMockSource()
	s := NewSessionWithSource(deviceConfig(), src)

	if err := s.Start(); err != nil {
		t.Fatalf("Start() = %v", err)
	}
	defer s.Stop()

	first, ok := s.TryTake(time.Second)
	if !ok {
		t.Fatal("TryTake() delivered no frame")
	}
	first.Close()

	prev := first.Seq
	for i := 0; i < 10; i++ {
		f, ok := s.TryTake(100 * time.Millisecond)
		if !ok {
			t.Fatal("TryTake() delivered no frame")
		}
		if f.Seq < prev {
			t.Fatalf("frame order regressed: seq %d after %d", f.Seq, prev)
		}
		prev = f.Seq
		f.Close()
	}
}
