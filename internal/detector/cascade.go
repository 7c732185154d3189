package detector

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"
)

// CascadeDetector detects plate regions using an OpenCV Haar cascade.
type CascadeDetector struct {
	classifier gocv.CascadeClassifier
	opts       Options
	mu         sync.Mutex
	closed     bool
}

// NewCascadeDetector loads the Haar cascade from the given path.
// A missing or unreadable cascade file yields ErrDetectorUnavailable.
func NewCascadeDetector(cascadePath string, opts Options) (*CascadeDetector, error) {
	if _, err := os.Stat(cascadePath); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDetectorUnavailable, cascadePath, err)
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(cascadePath) {
		classifier.Close()
		return nil, fmt.Errorf("%w: failed to load cascade %s", ErrDetectorUnavailable, cascadePath)
	}

	if opts.ScaleFactor <= 1.0 {
		opts.ScaleFactor = DefaultOptions().ScaleFactor
	}
	if opts.MinNeighbors <= 0 {
		opts.MinNeighbors = DefaultOptions().MinNeighbors
	}
	if opts.MinSize <= 0 {
		opts.MinSize = DefaultOptions().MinSize
	}

	return &CascadeDetector{
		classifier: classifier,
		opts:       opts,
	}, nil
}

// Detect runs the cascade over a grayscale copy of the frame and returns
// confirmed plate regions. Zero detections is a normal outcome, not an error.
func (d *CascadeDetector) Detect(frame *gocv.Mat) ([]image.Rectangle, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrDetectorUnavailable
	}
	if frame == nil || frame.Empty() {
		return nil, nil
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	minSize := image.Pt(d.opts.MinSize, d.opts.MinSize)
	regions := d.classifier.DetectMultiScaleWithParams(
		gray,
		d.opts.ScaleFactor,
		d.opts.MinNeighbors,
		0,
		minSize,
		image.Pt(0, 0),
	)

	return regions, nil
}

// Close releases the cascade classifier.
func (d *CascadeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.classifier.Close()
}
