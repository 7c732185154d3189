package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gocv.io/x/gocv"

	"github.com/google/uuid"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/authorize"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/capture"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/config"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/detector"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/display"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/ocr"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/pipeline"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/server"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/store"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/tray"
)

func main() {
	fmt.Println("PlateWatch - License Plate Monitor")

	cfg := config.Load()

	// Initialize the store
	dataDir := cfg.DataDir
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		dataDir = filepath.Join(homeDir, ".platewatch")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(dataDir, "platewatch.db")
	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	matcher := buildMatcher(cfg, st)
	fmt.Printf("Authorized plates: %d\n", len(matcher.Plates()))

	det, err := detector.NewCascadeDetector(cfg.CascadePath, detector.DefaultOptions())
	if err != nil {
		if errors.Is(err, detector.ErrDetectorUnavailable) {
			log.Fatalf("Cascade artifact not usable: %v", err)
		}
		log.Fatalf("Failed to initialize detector: %v", err)
	}
	defer det.Close()

	recognizer, err := ocr.NewTesseractRecognizer(ocr.Config{Language: cfg.OCRLanguage})
	if err != nil {
		log.Fatalf("Failed to initialize OCR: %v", err)
	}
	extractor := ocr.NewExtractor(recognizer)
	defer extractor.Close()

	// Pick the presentation backend and, for HTTP mode, start the
	// monitoring server alongside it.
	var sink display.Sink
	var events *server.EventHub
	switch cfg.DisplayMode {
	case config.DisplayHTTP:
		frames := server.NewFrameBuffer()
		events = server.NewEventHub()
		srv := server.New(server.Config{
			Store:  st,
			Frames: frames,
			Events: events,
		})
		go func() {
			fmt.Printf("Starting server on %s\n", cfg.HTTPAddr)
			if err := srv.ListenAndServe(cfg.HTTPAddr); err != nil {
				log.Printf("Server failed: %v", err)
			}
		}()
		sink = frames
	case config.DisplayNone:
		sink = display.NullSink{}
	default:
		sink = display.NewWindowSink("PlateWatch")
	}

	controller := pipeline.New(det, extractor, matcher, sink, pipeline.Config{
		SkipInterval: cfg.SkipInterval,
		SaveDir:      cfg.SaveDir,
	})

	var trayIcon *tray.Tray
	if cfg.Tray {
		trayIcon = tray.New()
		trayIcon.OnToggle(controller.SetEnabled)
		trayIcon.OnQuit(controller.Stop)
	}

	controller.SetOnSighting(func(s pipeline.Sighting) {
		sighting := &store.Sighting{
			ID:         uuid.NewString(),
			Plate:      s.Plate,
			Authorized: s.Authorized,
			FrameIndex: s.FrameIndex,
		}
		if err := st.Sightings().Create(sighting); err != nil {
			log.Printf("Failed to log sighting: %v", err)
		}
		if events != nil {
			events.Broadcast(s)
		}
		if trayIcon != nil {
			trayIcon.SetLastPlate(s.Plate)
		}
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down")
		controller.Stop()
	}()

	if cfg.IsImage() {
		if err := runImage(cfg, controller, sink); err != nil {
			log.Fatalf("Image processing failed: %v", err)
		}
		return
	}

	source := buildSource(cfg)

	if trayIcon != nil {
		// systray must own the main thread; the stream runs beside it.
		go func() {
			if err := controller.ProcessStream(source); err != nil {
				log.Printf("Stream ended with error: %v", err)
			}
			trayIcon.Quit()
		}()
		trayIcon.Run()
		return
	}

	if err := controller.ProcessStream(source); err != nil {
		log.Fatalf("Stream failed: %v", err)
	}
}

// buildMatcher merges the configured plates with those stored in the
// database, configured plates first.
func buildMatcher(cfg *config.Config, st *store.Store) *authorize.Matcher {
	plates := make([]string, 0, len(cfg.AuthorizedPlates))
	plates = append(plates, cfg.AuthorizedPlates...)

	stored, err := st.Plates().List()
	if err != nil {
		log.Printf("Failed to load stored plates: %v", err)
	} else {
		for _, p := range stored {
			plates = append(plates, p.Plate)
		}
	}

	return authorize.NewMatcher(plates)
}

// buildSource constructs the capture source for the configured input,
// wrapping it with a read deadline when one is configured.
func buildSource(cfg *config.Config) capture.Source {
	var source capture.Source
	if id, ok := cfg.DeviceID(); ok {
		source = capture.NewDeviceSource(id)
	} else {
		source = capture.NewFileSource(cfg.Source)
	}
	if cfg.ReadTimeout > 0 {
		source = capture.WithTimeout(source, cfg.ReadTimeout)
	}
	return source
}

// runImage processes a single still image and shows the annotated
// result. In window mode the image stays up until quit.
func runImage(cfg *config.Config, controller *pipeline.Controller, sink display.Sink) error {
	defer sink.Close()

	img := gocv.IMRead(cfg.Source, gocv.IMReadColor)
	if img.Empty() {
		return fmt.Errorf("could not read image %q", cfg.Source)
	}
	defer img.Close()

	annotated, detections, err := controller.ProcessImage(&img)
	if err != nil {
		return err
	}
	defer annotated.Close()

	fmt.Printf("Found %d plate(s)\n", len(detections))

	for {
		cmd, err := sink.Publish(&annotated, 1)
		if err != nil {
			return err
		}
		switch cmd {
		case display.CmdQuit:
			return nil
		case display.CmdSave:
			outPath := filepath.Join(cfg.SaveDir, "captured_frame_1.jpg")
			if gocv.IMWrite(outPath, annotated) {
				log.Printf("Saved frame to %s", outPath)
			} else {
				log.Printf("Failed to save frame to %s", outPath)
			}
		}
		if cfg.DisplayMode != config.DisplayWindow {
			return nil
		}
	}
}
