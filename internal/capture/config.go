package capture

import (
	"fmt"
	"os"
	"time"
)

// SourceKind identifies the type of video source a session reads from.
type SourceKind int

const (
	// SourceAuto probes local devices and the vendor camera in order.
	SourceAuto SourceKind = iota
	// SourceDevice is a local capture device addressed by index.
	SourceDevice
	// SourceStream is a network stream addressed by URL (RTSP or similar).
	SourceStream
	// SourceVendor is the vendor smart camera, reached over its RTSP endpoint.
	SourceVendor
	// SourceFile is a video file, used for testing and replay.
	SourceFile
)

// String returns a human-readable name for the source kind.
func (k SourceKind) String() string {
	switch k {
	case SourceAuto:
		return "auto"
	case SourceDevice:
		return "device"
	case SourceStream:
		return "stream"
	case SourceVendor:
		return "vendor"
	case SourceFile:
		return "file"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Default capture settings.
const (
	DefaultWidth       = 640
	DefaultHeight      = 480
	DefaultFPS         = 30
	DefaultBufferDepth = 2

	// DefaultLivenessTimeout is the silence duration after which a
	// running session is no longer considered live.
	DefaultLivenessTimeout = 3 * time.Second

	// DefaultReadBackoff is the delay before retrying a failed read.
	DefaultReadBackoff = 50 * time.Millisecond

	// DefaultStopTimeout bounds the wait for the acquisition goroutine
	// to exit during Stop.
	DefaultStopTimeout = 2 * time.Second

	// DefaultMaxDeviceProbe is the highest device index autodetection tries.
	DefaultMaxDeviceProbe = 10

	// DefaultProbeTimeout bounds the vendor stream connectivity test.
	DefaultProbeTimeout = 3 * time.Second
)

// Vendor camera environment variables. The defaults match the camera's
// factory configuration and are only useful on a trusted LAN.
const (
	EnvVendorUser = "MOOER_CAM_USER"
	EnvVendorPass = "MOOER_CAM_PASS"
	EnvVendorIP   = "MOOER_CAM_IP"
)

// Config describes a video source and the tunables of the session that
// will read from it. A Config is immutable once the session starts.
type Config struct {
	Kind     SourceKind
	DeviceID int    // SourceDevice
	URL      string // SourceStream, SourceVendor; FilePath for SourceFile

	Width  int
	Height int
	FPS    int

	// BufferDepth is the acquisition queue length. The buffer keeps the
	// single freshest frame separately regardless of this value.
	BufferDepth int

	LivenessTimeout time.Duration
	ReadBackoff     time.Duration
	StopTimeout     time.Duration
	MaxDeviceProbe  int
	ProbeTimeout    time.Duration
}

// DefaultConfig returns a Config for autodetection with default tunables.
func DefaultConfig() Config {
	return Config{
		Kind:            SourceAuto,
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		FPS:             DefaultFPS,
		BufferDepth:     DefaultBufferDepth,
		LivenessTimeout: DefaultLivenessTimeout,
		ReadBackoff:     DefaultReadBackoff,
		StopTimeout:     DefaultStopTimeout,
		MaxDeviceProbe:  DefaultMaxDeviceProbe,
		ProbeTimeout:    DefaultProbeTimeout,
	}
}

// withDefaults fills zero-valued tunables so partially specified configs
// behave like DefaultConfig.
func (c Config) withDefaults() Config {
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.BufferDepth <= 0 {
		c.BufferDepth = DefaultBufferDepth
	}
	if c.LivenessTimeout <= 0 {
		c.LivenessTimeout = DefaultLivenessTimeout
	}
	if c.ReadBackoff <= 0 {
		c.ReadBackoff = DefaultReadBackoff
	}
	if c.StopTimeout <= 0 {
		c.StopTimeout = DefaultStopTimeout
	}
	if c.MaxDeviceProbe <= 0 {
		c.MaxDeviceProbe = DefaultMaxDeviceProbe
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = DefaultProbeTimeout
	}
	return c
}

// VendorStreamURL builds the vendor camera RTSP URL from the environment,
// falling back to the factory defaults for unset variables.
func VendorStreamURL() string {
	user := envOr(EnvVendorUser, "admin")
	pass := envOr(EnvVendorPass, "password")
	ip := envOr(EnvVendorIP, "192.168.1.55")
	return fmt.Sprintf("rtsp://%s:%s@%s:554/h264/ch1/main/av_stream", user, pass, ip)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
