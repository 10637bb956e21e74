package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ayusman/archery/internal/ptz"
)

// PTZHandler exposes the vendor camera's pan-tilt head over HTTP so the
// front end can frame the player.
type PTZHandler struct {
	client *ptz.Client
}

// NewPTZHandler creates a new PTZHandler for the given client.
func NewPTZHandler(client *ptz.Client) *PTZHandler {
	return &PTZHandler{client: client}
}

type ptzRequest struct {
	Direction string `json:"direction"`
	Step      int    `json:"step"`
}

// ServeHTTP routes /api/ptz and /api/ptz/status requests.
func (h *PTZHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/status") {
		h.status(w, r)
		return
	}
	h.move(w, r)
}

// move handles POST /api/ptz with a direction or a stop command.
func (h *PTZHandler) move(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ptzRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var dir ptz.Direction
	switch strings.ToLower(req.Direction) {
	case "up":
		dir = ptz.Up
	case "down":
		dir = ptz.Down
	case "left":
		dir = ptz.Left
	case "right":
		dir = ptz.Right
	case "stop":
		if err := h.client.StopMove(); err != nil {
			http.Error(w, "Camera rejected the command", http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	default:
		http.Error(w, "Unknown direction", http.StatusBadRequest)
		return
	}

	if err := h.client.Move(dir, req.Step); err != nil {
		http.Error(w, "Camera rejected the command", http.StatusBadGateway)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// status handles GET /api/ptz/status.
func (h *PTZHandler) status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st, err := h.client.DeviceStatus()
	if err != nil {
		http.Error(w, "Camera unreachable", http.StatusBadGateway)
		return
	}

	pan, tilt := h.client.Position()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"online": st.Online,
		"name":   st.Name,
		"model":  st.Model,
		"serial": st.Serial,
		"pan":    pan,
		"tilt":   tilt,
	})
}
