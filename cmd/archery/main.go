package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ayusman/archery/internal/app"
	"github.com/ayusman/archery/internal/ballistics"
	"github.com/ayusman/archery/internal/capture"
	"github.com/ayusman/archery/internal/detector"
	"github.com/ayusman/archery/internal/gesture"
	"github.com/ayusman/archery/internal/ptz"
	"github.com/ayusman/archery/internal/server"
	"github.com/ayusman/archery/internal/store"
)

func main() {
	var (
		source      = flag.String("source", "auto", "video source: auto, device, stream, vendor, file, or pointer")
		deviceID    = flag.Int("device", 0, "device index for -source device")
		streamURL   = flag.String("url", "", "stream URL for -source stream, file path for -source file")
		width       = flag.Int("width", capture.DefaultWidth, "capture width")
		height      = flag.Int("height", capture.DefaultHeight, "capture height")
		fps         = flag.Int("fps", capture.DefaultFPS, "capture frame rate")
		listen      = flag.String("listen", ":8080", "HTTP listen address (empty disables the server)")
		dbPath      = flag.String("db", "", "database path for session history (empty disables persistence)")
		rightHanded = flag.Bool("right-handed-bow", false, "hold the bow in the right hand")
		listSources = flag.Bool("list-sources", false, "probe video sources and exit")
	)
	flag.Parse()

	if *listSources {
		os.Exit(listVideoSources())
	}

	fmt.Println("Archery - Motion Controlled Bow and Arrow")

	captureCfg := capture.DefaultConfig()
	captureCfg.DeviceID = *deviceID
	captureCfg.URL = *streamURL
	captureCfg.Width = *width
	captureCfg.Height = *height
	captureCfg.FPS = *fps

	mode := app.ModeCamera
	switch *source {
	case "auto":
		captureCfg.Kind = capture.SourceAuto
	case "device":
		captureCfg.Kind = capture.SourceDevice
	case "stream":
		captureCfg.Kind = capture.SourceStream
	case "vendor":
		captureCfg.Kind = capture.SourceVendor
	case "file":
		captureCfg.Kind = capture.SourceFile
	case "pointer":
		mode = app.ModePointer
	default:
		log.Fatalf("Unknown source %q", *source)
	}

	st := openStore(*dbPath)
	if st != nil {
		defer st.Close()
	}

	gestureCfg := gesture.DefaultConfig()
	gestureCfg.RightHandedBow = *rightHanded

	detectorCfg := detector.DefaultConfig()
	detectorCfg.ScreenWidth = ballistics.DefaultBoundsW
	detectorCfg.ScreenHeight = ballistics.DefaultBoundsH

	game, err := app.New(app.Config{
		Mode:       mode,
		Capture:    captureCfg,
		Detector:   detectorCfg,
		Gesture:    gestureCfg,
		Ballistics: ballistics.DefaultConfig(),
		Store:      st,
	})
	if err != nil {
		log.Fatalf("Failed to assemble game: %v", err)
	}

	if err := game.Start(); err != nil {
		log.Fatalf("Failed to start game: %v", err)
	}
	defer game.Stop()

	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	// The pan-tilt control only applies to the vendor camera.
	var ptzClient *ptz.Client
	if *source == "vendor" || *source == "auto" {
		ptzClient = ptz.NewClient(ptz.ConfigFromEnv())
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Game:      game,
		PTZ:       ptzClient,
	})

	// Stop the game cleanly on interrupt so the stored session is
	// finalized and the camera released.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	if *listen == "" {
		fmt.Println("Server disabled, running headless; interrupt to quit")
		<-sigCh
		game.Stop()
		return
	}

	go func() {
		<-sigCh
		game.Stop()
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s\n", *listen)
	if err := srv.ListenAndServe(*listen); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// listVideoSources probes local devices and the vendor stream and prints
// what it finds. Exit status 0 when at least one source exists.
func listVideoSources() int {
	devices := capture.DetectDevices(capture.DefaultMaxDeviceProbe)
	for _, d := range devices {
		fmt.Printf("device %d: %dx%d\n", d.Index, d.Width, d.Height)
	}

	vendorOK := capture.ProbeStream(capture.VendorStreamURL(), capture.DefaultProbeTimeout)
	if vendorOK {
		fmt.Println("vendor camera: reachable")
	}

	if len(devices) == 0 && !vendorOK {
		fmt.Println("no video sources found")
		return 1
	}
	return 0
}

// openStore opens the SQLite store, creating the data directory when
// needed. An empty path disables persistence.
func openStore(path string) *store.Store {
	if path == "" {
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("Could not create data directory, running without persistence: %v", err)
			return nil
		}
	}

	st, err := store.New(path)
	if err != nil {
		log.Printf("Could not open database, running without persistence: %v", err)
		return nil
	}
	return st
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.archery/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".archery", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
