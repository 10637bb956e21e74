package capture

import (
	"fmt"
	"log"
	"time"

	"gocv.io/x/gocv"
)

// DeviceInfo describes one probed local capture device.
type DeviceInfo struct {
	Index  int
	Width  int
	Height int
}

// DetectDevices probes local device indices 0..max-1 with an open plus
// one real read, returning the ones that deliver frames.
func DetectDevices(max int) []DeviceInfo {
	var found []DeviceInfo
	for i := 0; i < max; i++ {
		cap, err := gocv.OpenVideoCapture(i)
		if err != nil {
			continue
		}
		if probeRead(cap) == nil {
			w := int(cap.Get(gocv.VideoCaptureFrameWidth))
			h := int(cap.Get(gocv.VideoCaptureFrameHeight))
			found = append(found, DeviceInfo{Index: i, Width: w, Height: h})
		}
		cap.Close()
	}
	return found
}

// ProbeStream tests whether a network stream delivers frames within the
// timeout.
func ProbeStream(url string, timeout time.Duration) bool {
	cap, err := gocv.OpenVideoCaptureWithAPI(url, gocv.VideoCaptureFFmpeg)
	if err != nil {
		return false
	}
	defer cap.Close()

	cap.Set(gocv.VideoCaptureBufferSize, 1)

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if probeRead(cap) == nil {
			return true
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}

// autodetect resolves a SourceAuto config to a concrete one: local
// devices by index first, then the vendor camera with a bounded
// connectivity test. Returns ErrNoCameraFound when every probe fails;
// the caller is expected to fall back to pointer control, which is a
// supported mode, not an error path.
func autodetect(cfg Config) (Config, error) {
	devices := DetectDevices(cfg.MaxDeviceProbe)
	if len(devices) > 0 {
		d := devices[0]
		log.Printf("capture: autodetected %d local device(s), using index %d", len(devices), d.Index)
		cfg.Kind = SourceDevice
		cfg.DeviceID = d.Index
		return cfg, nil
	}

	url := cfg.URL
	if url == "" {
		url = VendorStreamURL()
	}
	log.Printf("capture: no local devices, probing vendor camera at %s", redactURL(url))
	if ProbeStream(url, cfg.ProbeTimeout) {
		cfg.Kind = SourceVendor
		cfg.URL = url
		return cfg, nil
	}

	return cfg, fmt.Errorf("%w: probed %d device indices and vendor stream", ErrNoCameraFound, cfg.MaxDeviceProbe)
}
