// Package pipeline orchestrates the frame-processing sequence:
// region detection, text extraction, authorization matching and annotation,
// over single images or live/stored video streams.
package pipeline

import (
	"image"
	"log"
	"sync"

	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/annotate"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/authorize"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/detector"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/display"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/ocr"
	"gocv.io/x/gocv"
)

// DefaultSkipInterval is the default frame-decimation factor: every 5th
// captured frame is processed.
const DefaultSkipInterval = 5

// Config holds configuration options for a pipeline run.
type Config struct {
	// SkipInterval is the number of captured frames between two
	// processed frames. Values below 1 fall back to DefaultSkipInterval.
	SkipInterval int

	// SaveDir is the directory where manually saved frames are written.
	// Empty means the current working directory.
	SaveDir string
}

// Sighting is one recognized plate reported during a run.
type Sighting struct {
	Plate      string
	Authorized bool
	FrameIndex int
}

// Controller drives the frame-processing pipeline. One controller drives
// one source at a time; frame processing is synchronous and single-threaded.
type Controller struct {
	detector  detector.Detector
	extractor *ocr.Extractor
	matcher   *authorize.Matcher
	sink      display.Sink
	config    Config

	onSighting func(Sighting)

	mu      sync.RWMutex
	stopCh  chan struct{}
	enabled bool
	state   State
}

// New creates a Controller over the given stages. The sink may be nil, in
// which case annotated frames are discarded.
func New(d detector.Detector, e *ocr.Extractor, m *authorize.Matcher, sink display.Sink, config Config) *Controller {
	if sink == nil {
		sink = display.NullSink{}
	}
	if config.SkipInterval < 1 {
		config.SkipInterval = DefaultSkipInterval
	}

	return &Controller{
		detector:  d,
		extractor: e,
		matcher:   m,
		sink:      sink,
		config:    config,
		enabled:   true,
		state:     StateIdle,
	}
}

// SetOnSighting registers a callback invoked for every detection with
// non-empty recognized text. Must be set before the run starts.
func (c *Controller) SetOnSighting(fn func(Sighting)) {
	c.onSighting = fn
}

// SetEnabled enables or disables frame processing. While disabled, a
// running stream keeps reading frames but discards them.
func (c *Controller) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
}

// IsEnabled returns whether frame processing is currently enabled.
func (c *Controller) IsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled
}

// ProcessImage runs one pass of the pipeline over a single frame:
// detection, per-region text extraction and authorization, annotation.
// The caller owns the returned annotated Mat and must close it.
//
// Per-region recognition failures degrade that region to empty text and an
// Unauthorized decision; they never abort the other regions.
func (c *Controller) ProcessImage(frame *gocv.Mat) (gocv.Mat, []annotate.Detection, error) {
	regions, err := c.detector.Detect(frame)
	if err != nil {
		return gocv.Mat{}, nil, err
	}

	log.Printf("Detected %d plate(s)", len(regions))

	bounds := image.Rect(0, 0, frame.Cols(), frame.Rows())
	var detections []annotate.Detection

	for _, region := range regions {
		clipped, ok := clipRegion(region, bounds)
		if !ok {
			continue
		}

		crop := frame.Region(clipped)
		text := c.extractor.ExtractText(&crop)
		crop.Close()

		detections = append(detections, annotate.Detection{
			Region:     clipped,
			Text:       text,
			Authorized: c.matcher.IsAuthorized(text),
		})
	}

	annotated := annotate.Annotate(frame, detections)
	return annotated, detections, nil
}

// clipRegion intersects a detected region with the frame bounds. Regions
// that do not overlap the frame, or have zero width or height, are
// rejected rather than crashing the crop.
func clipRegion(region, bounds image.Rectangle) (image.Rectangle, bool) {
	clipped := region.Intersect(bounds)
	if clipped.Dx() <= 0 || clipped.Dy() <= 0 {
		return image.Rectangle{}, false
	}
	return clipped, true
}

// report invokes the sighting callback for every detection with non-empty
// text and logs the recognized plates.
func (c *Controller) report(detections []annotate.Detection, frameIndex int) {
	for _, d := range detections {
		if d.Text == "" {
			continue
		}

		log.Printf("Frame %d: Detected - %s", frameIndex, d.Text)

		if c.onSighting != nil {
			c.onSighting(Sighting{
				Plate:      d.Text,
				Authorized: d.Authorized,
				FrameIndex: frameIndex,
			})
		}
	}
}
