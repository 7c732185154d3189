// Package detector locates candidate license-plate regions in video frames.
package detector

import (
	"errors"
	"image"

	"gocv.io/x/gocv"
)

// ErrDetectorUnavailable is returned when the underlying detection
// capability cannot be initialized, e.g. the cascade artifact is missing.
// This is fatal for a run and is reported once at startup, never per frame.
var ErrDetectorUnavailable = errors.New("plate detector unavailable")

// Detector defines the interface for plate-region detection implementations.
type Detector interface {
	// Detect analyzes a frame and returns candidate plate regions.
	// Returns an empty slice if no plates are found.
	Detect(frame *gocv.Mat) ([]image.Rectangle, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Options holds configuration for plate-region detection.
// These are fixed for the lifetime of a detector, not per-call arguments.
type Options struct {
	// ScaleFactor is the geometric step between detection window sizes.
	ScaleFactor float64

	// MinNeighbors is the minimum number of overlapping detections
	// required to confirm a candidate region.
	MinNeighbors int

	// MinSize is the smallest region edge length considered, in pixels.
	MinSize int
}

// DefaultOptions returns the detection parameters used with the stock
// Russian-plate cascade.
func DefaultOptions() Options {
	return Options{
		ScaleFactor:  1.1,
		MinNeighbors: 5,
		MinSize:      30,
	}
}
