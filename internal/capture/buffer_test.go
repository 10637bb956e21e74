package capture

import (
	"testing"
	"time"
)

func frameN(seq uint64) Frame {
	return Frame{Timestamp: time.Now(), Seq: seq}
}

func TestFrameBuffer_PeekLatestFreshness(t *testing.T) {
	buf := NewFrameBuffer(2)

	if _, ok := buf.PeekLatest(); ok {
		t.Fatal("PeekLatest() on empty buffer should report no frame")
	}

	for n := uint64(1); n <= 10; n++ {
		buf.Push(frameN(n))

		f, ok := buf.PeekLatest()
		if !ok {
			t.Fatalf("PeekLatest() after %d pushes reported no frame", n)
		}
		if f.Seq != n {
			t.Errorf("PeekLatest() after %d pushes = seq %d, want %d", n, f.Seq, n)
		}
	}
}

func TestFrameBuffer_PeekLatestMonotonic(t *testing.T) {
	buf := NewFrameBuffer(2)

	var prev uint64
	for n := uint64(1); n <= 20; n++ {
		buf.Push(frameN(n))

		f, ok := buf.PeekLatest()
		if !ok {
			t.Fatal("PeekLatest() reported no frame after push")
		}
		if f.Seq < prev {
			t.Fatalf("PeekLatest() regressed from seq %d to %d", prev, f.Seq)
		}
		prev = f.Seq
	}
}

func TestFrameBuffer_DropOldest(t *testing.T) {
	buf := NewFrameBuffer(2)

	// Fill past capacity: 1 and 2 queued, pushing 3 evicts 1.
	buf.Push(frameN(1))
	buf.Push(frameN(2))
	buf.Push(frameN(3))

	f, ok := buf.TryTake(0)
	if !ok {
		t.Fatal("TryTake() reported no frame from a full queue")
	}
	if f.Seq != 2 {
		t.Errorf("first TryTake() = seq %d, want 2 (oldest should be evicted)", f.Seq)
	}

	f, ok = buf.TryTake(0)
	if !ok || f.Seq != 3 {
		t.Errorf("second TryTake() = seq %d ok=%v, want seq 3", f.Seq, ok)
	}
}

func TestFrameBuffer_TryTakeFallsBackToLatest(t *testing.T) {
	buf := NewFrameBuffer(2)

	buf.Push(frameN(5))

	// Drain the queue; the side slot must still serve the frame.
	if _, ok := buf.TryTake(0); !ok {
		t.Fatal("TryTake() failed to drain queued frame")
	}

	f, ok := buf.TryTake(10 * time.Millisecond)
	if !ok {
		t.Fatal("TryTake() with empty queue should fall back to last-known-good frame")
	}
	if f.Seq != 5 {
		t.Errorf("fallback frame seq = %d, want 5", f.Seq)
	}
}

func TestFrameBuffer_TryTakeNothingEverArrived(t *testing.T) {
	buf := NewFrameBuffer(2)

	start := time.Now()
	if _, ok := buf.TryTake(20 * time.Millisecond); ok {
		t.Error("TryTake() on a never-filled buffer should report no frame")
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("TryTake() returned after %v, should wait the full timeout", elapsed)
	}
}

func TestFrameBuffer_TryTakeMonotonic(t *testing.T) {
	buf := NewFrameBuffer(2)

	var prev uint64
	for n := uint64(1); n <= 12; n++ {
		buf.Push(frameN(n))
		if n%3 == 0 {
			f, ok := buf.TryTake(0)
			if !ok {
				t.Fatal("TryTake() reported no frame")
			}
			if f.Seq < prev {
				t.Fatalf("TryTake() regressed from seq %d to %d", prev, f.Seq)
			}
			prev = f.Seq
		}
	}
}

func TestFrameBuffer_Drain(t *testing.T) {
	buf := NewFrameBuffer(2)
	buf.Push(frameN(1))
	buf.Push(frameN(2))

	buf.Drain()

	if _, ok := buf.PeekLatest(); ok {
		t.Error("PeekLatest() after Drain() should report no frame")
	}
	if _, ok := buf.TryTake(0); ok {
		t.Error("TryTake() after Drain() should report no frame")
	}
}
