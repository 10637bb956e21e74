// Package server provides the HTTP surface of the archery game: game
// state and pointer input, the camera preview stream, and the stored
// session history.
package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ayusman/archery/internal/app"
	"github.com/ayusman/archery/internal/gesture"
	"github.com/ayusman/archery/internal/ptz"
	"github.com/ayusman/archery/internal/server/api"
	"github.com/ayusman/archery/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Game      *app.App
	PTZ       *ptz.Client
}

// Server represents the HTTP server for the archery application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if s.config.Game != nil {
		s.mux.HandleFunc("/api/state", s.handleState)
		s.mux.HandleFunc("/api/reset", s.handleReset)
		s.mux.HandleFunc("/api/pointer", s.handlePointer)
		s.mux.Handle("/api/ws", NewStateHandler(s.config.Game))

		// The preview stream only exists when a capture session does.
		if s.config.Game.Session() != nil {
			s.mux.Handle("/api/stream", NewStreamHandler(s.config.Game.Session()))
		}
	}

	if s.config.PTZ != nil {
		ptzHandler := NewPTZHandler(s.config.PTZ)
		s.mux.Handle("/api/ptz", ptzHandler)
		s.mux.Handle("/api/ptz/", ptzHandler)
	}

	if s.config.Store != nil {
		sessionHandler := api.NewSessionHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessionHandler)
		s.mux.Handle("/api/sessions/", sessionHandler)
		s.mux.Handle("/api/scores", api.NewScoresHandler(s.config.Store))
	}

	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleState handles GET requests to /api/state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.config.Game.Snapshot())
}

// handleReset handles POST requests to /api/reset.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.config.Game.Reset()
	w.WriteHeader(http.StatusNoContent)
}

type pointerRequest struct {
	Action string  `json:"action"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type pointerResponse struct {
	Event string  `json:"event"`
	Power float64 `json:"power"`
	Angle float64 `json:"angle"`
}

// handlePointer handles POST requests to /api/pointer. It feeds press,
// move and release actions into the game's pointer input path.
func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req pointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	game := s.config.Game
	var e gesture.Event
	switch strings.ToLower(req.Action) {
	case "press":
		e = game.PointerPress(req.X, req.Y)
	case "move":
		e = game.PointerMove(req.X, req.Y)
	case "release":
		e = game.PointerRelease()
	default:
		http.Error(w, "Unknown pointer action", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(pointerResponse{Event: e.Kind.String(), Power: e.Power, Angle: e.Angle})
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
