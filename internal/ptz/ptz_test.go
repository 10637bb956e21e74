package ptz

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type fakeAPI struct {
	mu    sync.Mutex
	calls []struct {
		Endpoint  string
		Direction string
		Speed     string
	}
	infoData map[string]interface{}
}

func (f *fakeAPI) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		f.mu.Lock()
		f.calls = append(f.calls, struct {
			Endpoint  string
			Direction string
			Speed     string
		}{r.URL.Path, r.FormValue("direction"), r.FormValue("speed")})
		f.mu.Unlock()

		resp := map[string]interface{}{"code": "200", "msg": "Operating succeeded!"}
		if f.infoData != nil && r.URL.Path == "/api/lapp/device/info" {
			resp["data"] = f.infoData
		}
		json.NewEncoder(w).Encode(resp)
	})
}

func (f *fakeAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestClient(t *testing.T, api *fakeAPI, cooldown time.Duration) *Client {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:      srv.URL,
		DeviceSerial: "TEST123",
		AccessToken:  "token",
		Cooldown:     cooldown,
		Timeout:      time.Second,
	})
}

func TestDirection_String(t *testing.T) {
	tests := []struct {
		dir  Direction
		want string
	}{
		{Up, "up"},
		{Down, "down"},
		{Left, "left"},
		{Right, "right"},
		{Direction(9), "direction(9)"},
	}
	for _, tt := range tests {
		if got := tt.dir.String(); got != tt.want {
			t.Errorf("Direction(%d).String() = %q, want %q", int(tt.dir), got, tt.want)
		}
	}
}

func TestClient_MoveSendsVendorCodes(t *testing.T) {
	tests := []struct {
		dir      Direction
		wantCode string
	}{
		{Up, "0"},
		{Down, "1"},
		{Left, "2"},
		{Right, "3"},
	}

	api := &fakeAPI{}
	c := newTestClient(t, api, time.Millisecond)

	for _, tt := range tests {
		if err := c.Move(tt.dir, 5); err != nil {
			t.Fatalf("Move(%v): %v", tt.dir, err)
		}
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	for i, tt := range tests {
		call := api.calls[i]
		if call.Endpoint != "/api/lapp/device/ptz/start" {
			t.Errorf("call %d endpoint = %q", i, call.Endpoint)
		}
		if call.Direction != tt.wantCode {
			t.Errorf("Move(%v) sent direction %q, want %q", tt.dir, call.Direction, tt.wantCode)
		}
	}
}

func TestClient_MoveRejectsUnknownDirection(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(t, api, time.Millisecond)

	if err := c.Move(Direction(42), 5); err == nil {
		t.Fatal("expected error for unknown direction")
	}
	if api.callCount() != 0 {
		t.Errorf("unknown direction still reached the API")
	}
}

func TestClient_MoveClampsStep(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(t, api, time.Millisecond)

	c.Move(Right, 99)
	c.Move(Right, -5)

	api.mu.Lock()
	defer api.mu.Unlock()
	if api.calls[0].Speed != "10" {
		t.Errorf("oversized step sent speed %q, want 10", api.calls[0].Speed)
	}
	if api.calls[1].Speed != "1" {
		t.Errorf("undersized step sent speed %q, want 1", api.calls[1].Speed)
	}
}

func TestClient_CooldownDelaysNotRejects(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(t, api, 100*time.Millisecond)

	start := time.Now()
	if err := c.Move(Right, 1); err != nil {
		t.Fatal(err)
	}
	if err := c.Move(Right, 1); err != nil {
		t.Fatal(err)
	}
	elapsed := time.Since(start)

	// Both commands must go through; the second waits out the window.
	if api.callCount() != 2 {
		t.Fatalf("API saw %d calls, want 2", api.callCount())
	}
	if elapsed < 100*time.Millisecond {
		t.Errorf("second move went out after %v, want at least the 100ms cooldown", elapsed)
	}
}

func TestClient_PositionTracksMoves(t *testing.T) {
	api := &fakeAPI{}
	c := newTestClient(t, api, time.Millisecond)

	c.Move(Right, 5)
	c.Move(Right, 3)
	c.Move(Left, 2)
	c.Move(Up, 4)
	c.Move(Down, 1)

	pan, tilt := c.Position()
	if pan != 6 {
		t.Errorf("pan = %d, want 6", pan)
	}
	if tilt != 3 {
		t.Errorf("tilt = %d, want 3", tilt)
	}
}

func TestClient_DeviceStatus(t *testing.T) {
	api := &fakeAPI{infoData: map[string]interface{}{
		"status":     1,
		"deviceName": "Living Room Cam",
		"model":      "CS-C6N",
	}}
	c := newTestClient(t, api, time.Millisecond)

	st, err := c.DeviceStatus()
	if err != nil {
		t.Fatal(err)
	}
	if !st.Online {
		t.Error("camera should report online")
	}
	if st.Name != "Living Room Cam" || st.Model != "CS-C6N" {
		t.Errorf("status = %+v", st)
	}
	if st.Serial != "TEST123" {
		t.Errorf("serial = %q, want TEST123", st.Serial)
	}
}

func TestClient_APIErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"code": "10002", "msg": "accessToken expired"})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Cooldown: time.Millisecond, Timeout: time.Second})
	if err := c.Move(Up, 1); err == nil {
		t.Fatal("expected error from non-200 API code")
	}
}

func TestClient_CenterOn(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 int
		wantMoved      bool
		wantDirs       []string // vendor codes in call order
	}{
		{"subject right of center", 1200, 500, 1400, 580, true, []string{"3"}},
		{"subject left and above", 100, 100, 300, 200, true, []string{"2", "0"}},
		{"subject centered", 900, 500, 1020, 580, false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			c := newTestClient(t, api, time.Millisecond)

			moved, err := c.CenterOn(tt.x1, tt.y1, tt.x2, tt.y2, 1920, 1080)
			if err != nil {
				t.Fatal(err)
			}
			if moved != tt.wantMoved {
				t.Errorf("moved = %v, want %v", moved, tt.wantMoved)
			}

			api.mu.Lock()
			defer api.mu.Unlock()
			if len(api.calls) != len(tt.wantDirs) {
				t.Fatalf("API saw %d calls, want %d", len(api.calls), len(tt.wantDirs))
			}
			for i, want := range tt.wantDirs {
				if api.calls[i].Direction != want {
					t.Errorf("call %d direction = %q, want %q", i, api.calls[i].Direction, want)
				}
			}
		})
	}
}

func TestClient_CenterOnInvalidFrame(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://unused", Cooldown: time.Millisecond})
	if _, err := c.CenterOn(0, 0, 10, 10, 0, 0); err == nil {
		t.Fatal("expected error for zero frame size")
	}
}
