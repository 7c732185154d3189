// Package config loads process-wide configuration for the plate watcher.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DisplayMode selects the presentation backend.
type DisplayMode string

const (
	// DisplayWindow shows annotated frames in an OpenCV window.
	DisplayWindow DisplayMode = "window"
	// DisplayHTTP serves annotated frames over the MJPEG endpoint.
	DisplayHTTP DisplayMode = "http"
	// DisplayNone discards annotated frames.
	DisplayNone DisplayMode = "none"
)

// Config holds all recognized configuration options.
type Config struct {
	// Source is either a numeric device index or a media/image path.
	Source string

	// AuthorizedPlates is the ordered reference set, as configured.
	AuthorizedPlates []string

	// SkipInterval is the frame-decimation factor for streaming mode.
	SkipInterval int

	// DisplayMode selects the presentation backend.
	DisplayMode DisplayMode

	// CascadePath points at the Haar cascade artifact.
	CascadePath string

	// OCRLanguage is the recognition language.
	OCRLanguage string

	// DataDir holds the sqlite database.
	DataDir string

	// SaveDir is where manually saved frames are written.
	SaveDir string

	// HTTPAddr is the listen address for the monitoring server.
	HTTPAddr string

	// ReadTimeout bounds the wait for a frame; zero means block.
	ReadTimeout time.Duration

	// Tray enables the system tray controls.
	Tray bool
}

// DefaultAuthorizedPlates is the built-in reference set used when no
// plates are configured.
var DefaultAuthorizedPlates = []string{
	"MH01AB1234",
	"DL02CD5678",
	"KA03EF9012",
	"TN04GH3456",
}

// Load reads configuration from the environment, with an optional .env
// file merged in first.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	skipInterval, err := strconv.Atoi(getEnv("PLATEWATCH_SKIP_INTERVAL", "5"))
	if err != nil || skipInterval < 1 {
		skipInterval = 5
	}

	readTimeoutMs, err := strconv.Atoi(getEnv("PLATEWATCH_READ_TIMEOUT_MS", "0"))
	if err != nil || readTimeoutMs < 0 {
		readTimeoutMs = 0
	}

	return &Config{
		Source:           getEnv("PLATEWATCH_SOURCE", "0"),
		AuthorizedPlates: parsePlates(getEnv("PLATEWATCH_AUTHORIZED_PLATES", "")),
		SkipInterval:     skipInterval,
		DisplayMode:      parseDisplayMode(getEnv("PLATEWATCH_DISPLAY_MODE", string(DisplayWindow))),
		CascadePath:      getEnv("PLATEWATCH_CASCADE", "haarcascade_russian_plate_number.xml"),
		OCRLanguage:      getEnv("PLATEWATCH_OCR_LANG", "eng"),
		DataDir:          getEnv("PLATEWATCH_DATA_DIR", ""),
		SaveDir:          getEnv("PLATEWATCH_SAVE_DIR", ""),
		HTTPAddr:         getEnv("PLATEWATCH_HTTP_ADDR", ":8080"),
		ReadTimeout:      time.Duration(readTimeoutMs) * time.Millisecond,
		Tray:             getEnv("PLATEWATCH_TRAY", "0") == "1",
	}
}

// parsePlates splits a comma-separated plate list, trimming blanks.
// An empty value falls back to the built-in default set.
func parsePlates(value string) []string {
	if strings.TrimSpace(value) == "" {
		plates := make([]string, len(DefaultAuthorizedPlates))
		copy(plates, DefaultAuthorizedPlates)
		return plates
	}

	var plates []string
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			plates = append(plates, p)
		}
	}
	return plates
}

// parseDisplayMode validates the display mode, defaulting to window.
func parseDisplayMode(value string) DisplayMode {
	switch DisplayMode(strings.ToLower(strings.TrimSpace(value))) {
	case DisplayHTTP:
		return DisplayHTTP
	case DisplayNone:
		return DisplayNone
	default:
		return DisplayWindow
	}
}

// DeviceID returns the source as a device index. The second return is
// false when the source is a file path instead.
func (c *Config) DeviceID() (int, bool) {
	id, err := strconv.Atoi(c.Source)
	if err != nil {
		return 0, false
	}
	return id, true
}

// IsImage reports whether the source is a still-image path.
func (c *Config) IsImage() bool {
	if _, ok := c.DeviceID(); ok {
		return false
	}

	lower := strings.ToLower(c.Source)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".bmp"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
