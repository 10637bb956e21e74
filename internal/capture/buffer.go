package capture

import (
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Frame is one captured video frame with acquisition metadata. Frames
// returned from the buffer are owned by the caller, which must Close them.
type Frame struct {
	Mat       *gocv.Mat
	Timestamp time.Time
	Seq       uint64
}

// Clone returns an independent copy of the frame.
func (f Frame) Clone() Frame {
	c := f
	if f.Mat != nil {
		m := f.Mat.Clone()
		c.Mat = &m
	}
	return c
}

// Close releases the frame's pixel data. Safe on a zero Frame.
func (f Frame) Close() {
	if f.Mat != nil {
		f.Mat.Close()
	}
}

// FrameBuffer is the single handoff point between the acquisition
// goroutine and the consumer. It holds a small bounded queue with a
// drop-oldest eviction policy plus a side slot with the single most
// recent frame, readable without blocking.
//
// Invariants: Push never blocks, and PeekLatest never returns a frame
// older than one it returned before.
type FrameBuffer struct {
	queue chan Frame

	mu        sync.Mutex
	latest    Frame
	hasLatest bool
}

// NewFrameBuffer creates a buffer with the given queue depth.
// Depths below 1 are clamped to 1.
func NewFrameBuffer(depth int) *FrameBuffer {
	if depth < 1 {
		depth = 1
	}
	return &FrameBuffer{queue: make(chan Frame, depth)}
}

// Push inserts a frame, evicting the oldest queued frame if the queue is
// full. The buffer takes ownership of the frame. Never blocks.
func (b *FrameBuffer) Push(f Frame) {
	b.mu.Lock()
	if b.hasLatest {
		b.latest.Close()
	}
	b.latest = f.Clone()
	b.hasLatest = true
	b.mu.Unlock()

	for {
		select {
		case b.queue <- f:
			return
		default:
			select {
			case old := <-b.queue:
				old.Close()
			default:
			}
		}
	}
}

// TryTake waits up to timeout for a queued frame. If the queue stays
// empty it falls back to the last-known-good frame; ok is false only if
// no frame has ever arrived. The caller owns the returned frame.
func (b *FrameBuffer) TryTake(timeout time.Duration) (Frame, bool) {
	select {
	case f := <-b.queue:
		return f, true
	default:
	}

	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case f := <-b.queue:
			return f, true
		case <-timer.C:
		}
	}

	return b.PeekLatest()
}

// PeekLatest returns a copy of the most recent frame without blocking.
// ok is false if no frame has ever arrived. The caller owns the copy.
func (b *FrameBuffer) PeekLatest() (Frame, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.hasLatest {
		return Frame{}, false
	}
	return b.latest.Clone(), true
}

// LatestSeq reports the sequence number of the freshest frame seen.
func (b *FrameBuffer) LatestSeq() (uint64, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.hasLatest {
		return 0, false
	}
	return b.latest.Seq, true
}

// Drain discards all held frames and releases their pixel data.
func (b *FrameBuffer) Drain() {
	for {
		select {
		case f := <-b.queue:
			f.Close()
		default:
			b.mu.Lock()
			if b.hasLatest {
				b.latest.Close()
				b.latest = Frame{}
				b.hasLatest = false
			}
			b.mu.Unlock()
			return
		}
	}
}
