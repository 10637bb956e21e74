package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayusman/archery/internal/capture"
	"gocv.io/x/gocv"
)

// StreamHandler serves MJPEG frames from the capture session's buffer.
// It never blocks the acquisition goroutine; a slow client only slows
// itself.
type StreamHandler struct {
	session *capture.Session
}

// NewStreamHandler creates a new StreamHandler for the given session.
func NewStreamHandler(session *capture.Session) *StreamHandler {
	return &StreamHandler{session: session}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var lastSeq uint64

	for {
		select {
		case <-r.Context().Done():
			return
		default:
		}

		frame, ok := h.session.PeekLatest()
		if !ok || frame.Seq == lastSeq {
			if ok {
				frame.Close()
			}
			time.Sleep(33 * time.Millisecond)
			continue
		}
		lastSeq = frame.Seq

		// Encode as JPEG
		buf, err := gocv.IMEncode(".jpg", *frame.Mat)
		frame.Close()
		if err != nil {
			continue
		}

		// Write MJPEG frame
		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", buf.Len())
		w.Write(buf.GetBytes())
		fmt.Fprintf(w, "\r\n")
		buf.Close()

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}

		time.Sleep(66 * time.Millisecond) // ~15 FPS
	}
}
