// Package ptz controls the vendor smart camera's pan-tilt head through
// its cloud HTTP API. Callers share one Client; it self-throttles so
// commands inside the cooldown window are delayed, never rejected.
package ptz

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"
)

// Direction is a pan-tilt movement command.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// code maps a direction to the vendor API direction code.
func (d Direction) code() (int, error) {
	switch d {
	case Up:
		return 0, nil
	case Down:
		return 1, nil
	case Left:
		return 2, nil
	case Right:
		return 3, nil
	default:
		return 0, fmt.Errorf("ptz: unknown direction %d", int(d))
	}
}

// Environment variables for the vendor cloud API.
const (
	EnvDeviceSerial = "MOOER_DEVICE_SERIAL"
	EnvAccessToken  = "MOOER_ACCESS_TOKEN"
)

// DefaultCooldown is the minimum spacing between movement commands.
const DefaultCooldown = 300 * time.Millisecond

// Config holds the vendor API parameters.
type Config struct {
	BaseURL      string
	DeviceSerial string
	AccessToken  string
	Cooldown     time.Duration
	Timeout      time.Duration
}

// ConfigFromEnv builds a Config from the environment. The serial and
// token have no useful defaults; leaving them unset yields a client
// whose calls fail against the real API.
func ConfigFromEnv() Config {
	return Config{
		BaseURL:      "https://open.ezvizapi.com",
		DeviceSerial: os.Getenv(EnvDeviceSerial),
		AccessToken:  os.Getenv(EnvAccessToken),
		Cooldown:     DefaultCooldown,
		Timeout:      5 * time.Second,
	}
}

// Status is the camera's reported device state.
type Status struct {
	Online bool
	Name   string
	Model  string
	Serial string
}

// Client is a pan-tilt controller for one camera.
type Client struct {
	cfg  Config
	http *http.Client

	mu       sync.Mutex
	lastMove time.Time
	pan      int
	tilt     int
}

// NewClient creates a client for the given config.
func NewClient(cfg Config) *Client {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// apiResponse is the vendor envelope; code 200 means success.
type apiResponse struct {
	Code int             `json:"code,string"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func (c *Client) call(endpoint string, params url.Values) (*apiResponse, error) {
	params.Set("accessToken", c.cfg.AccessToken)
	params.Set("deviceSerial", c.cfg.DeviceSerial)

	resp, err := c.http.PostForm(c.cfg.BaseURL+endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("ptz: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("ptz: decode %s response: %w", endpoint, err)
	}
	if out.Code != 200 {
		return &out, fmt.Errorf("ptz: %s failed: %s", endpoint, out.Msg)
	}
	return &out, nil
}

// Move steps the head in the given direction. Steps are clamped to
// 1..10. Calls arriving inside the cooldown window sleep out the
// remainder before issuing the command.
func (c *Client) Move(dir Direction, step int) error {
	code, err := dir.code()
	if err != nil {
		return err
	}

	if step < 1 {
		step = 1
	} else if step > 10 {
		step = 10
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if wait := c.cfg.Cooldown - time.Since(c.lastMove); wait > 0 {
		time.Sleep(wait)
	}

	params := url.Values{}
	params.Set("channelNo", "1")
	params.Set("direction", fmt.Sprintf("%d", code))
	params.Set("speed", fmt.Sprintf("%d", step))

	if _, err := c.call("/api/lapp/device/ptz/start", params); err != nil {
		return err
	}
	c.lastMove = time.Now()

	switch dir {
	case Left:
		c.pan -= step
	case Right:
		c.pan += step
	case Up:
		c.tilt += step
	case Down:
		c.tilt -= step
	}
	return nil
}

// StopMove halts any ongoing head movement.
func (c *Client) StopMove() error {
	params := url.Values{}
	params.Set("channelNo", "1")
	_, err := c.call("/api/lapp/device/ptz/stop", params)
	return err
}

// Position returns the tracked pan/tilt offsets since startup.
func (c *Client) Position() (pan, tilt int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pan, c.tilt
}

// DeviceStatus queries the camera's online state.
func (c *Client) DeviceStatus() (Status, error) {
	resp, err := c.call("/api/lapp/device/info", url.Values{})
	if err != nil {
		return Status{}, err
	}

	var data struct {
		Status     int    `json:"status"`
		DeviceName string `json:"deviceName"`
		Model      string `json:"model"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return Status{}, fmt.Errorf("ptz: decode device info: %w", err)
	}

	return Status{
		Online: data.Status == 1,
		Name:   data.DeviceName,
		Model:  data.Model,
		Serial: c.cfg.DeviceSerial,
	}, nil
}

// CenterOn nudges the head so the bounding box center moves toward the
// frame center. Returns whether any movement was issued. The step
// conversion assumes roughly 350 horizontal steps per full rotation at
// 1920x1080.
func (c *Client) CenterOn(x1, y1, x2, y2 int, frameW, frameH int) (bool, error) {
	if frameW <= 0 || frameH <= 0 {
		return false, fmt.Errorf("ptz: invalid frame size %dx%d", frameW, frameH)
	}

	centerX := float64(x1+x2) / 2
	centerY := float64(y1+y2) / 2

	offsetX := centerX - float64(frameW)/2
	offsetY := centerY - float64(frameH)/2

	stepX := int(offsetX / float64(frameW) * 350)
	stepY := int(offsetY / float64(frameH) * 200)

	moved := false

	if abs(stepX) > 3 {
		dir := Left
		if stepX > 0 {
			dir = Right
		}
		if err := c.Move(dir, abs(stepX)); err != nil {
			return moved, err
		}
		moved = true
	}

	if abs(stepY) > 3 {
		// Screen Y grows downward.
		dir := Up
		if stepY > 0 {
			dir = Down
		}
		if err := c.Move(dir, abs(stepY)); err != nil {
			return moved, err
		}
		moved = true
	}

	return moved, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
