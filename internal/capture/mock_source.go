package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// MockSource is a scripted Source for tests. It can fail to open, fail a
// fixed number of reads, or deliver a bounded number of frames.
type MockSource struct {
	mu sync.Mutex

	OpenErr   error
	FailReads int // fail this many reads before succeeding
	MaxFrames int // 0 means unlimited

	open  bool
	reads int
	fails int
}

// NewMockSource creates a mock source that always opens and reads.
func NewMockSource() *MockSource {
	return &MockSource{}
}

func (m *MockSource) Open() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.OpenErr != nil {
		return m.OpenErr
	}
	m.open = true
	return nil
}

func (m *MockSource) Read() (*gocv.Mat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return nil, errors.New("mock source not open")
	}
	if m.fails < m.FailReads {
		m.fails++
		return nil, errors.New("mock read failure")
	}
	if m.MaxFrames > 0 && m.reads >= m.MaxFrames {
		return nil, errors.New("mock frames exhausted")
	}
	m.reads++
	mat := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC3)
	return &mat, nil
}

func (m *MockSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	return nil
}

func (m *MockSource) Resolution() (int, int) { return 4, 4 }
func (m *MockSource) FPS() float64           { return 30 }
func (m *MockSource) Describe() string       { return "mock" }

// Reads reports how many successful reads have been served.
func (m *MockSource) Reads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// IsOpen reports whether Open has been called without a matching Close.
func (m *MockSource) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}
