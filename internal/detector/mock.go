package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandObservation
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandObservation) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandObservation, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// BowPose returns a left and right hand whose index fingertips are
// separated horizontally by dist, centered on the given point. Useful
// for driving the draw gesture in tests.
func BowPose(centerX, centerY, dist float64) []HandObservation {
	left := HandObservation{
		Handedness: HandLeft,
		Wrist:      Point{X: centerX - dist/2, Y: centerY + 40},
		IndexTip:   Point{X: centerX - dist/2, Y: centerY},
		MiddleTip:  Point{X: centerX - dist/2, Y: centerY + 10},
		Score:      0.95,
	}
	right := HandObservation{
		Handedness: HandRight,
		Wrist:      Point{X: centerX + dist/2, Y: centerY + 40},
		IndexTip:   Point{X: centerX + dist/2, Y: centerY},
		MiddleTip:  Point{X: centerX + dist/2, Y: centerY + 10},
		Score:      0.95,
	}
	return []HandObservation{left, right}
}
