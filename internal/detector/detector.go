// Package detector provides hand observation types and the detector
// boundary the game consumes. Hand-landmark extraction itself is an
// external capability; backends implement Detector and are selected once
// at startup.
package detector

import "gocv.io/x/gocv"

// Detector analyzes video frames for hands.
type Detector interface {
	// Detect returns the hands found in the frame, possibly none. It
	// must tolerate frames arriving at irregular intervals.
	Detect(frame *gocv.Mat) ([]HandObservation, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// ScreenWidth and ScreenHeight define the logical screen space that
	// normalized sensor coordinates are scaled into.
	ScreenWidth  int
	ScreenHeight int
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		ScreenWidth:     1280,
		ScreenHeight:    720,
	}
}
