// Package capture provides frame acquisition from cameras and stored media
// using GoCV (OpenCV).
package capture

import (
	"errors"
	"sync"

	"gocv.io/x/gocv"
)

// ErrSourceNotOpen is returned when reading from a source that is not open.
var ErrSourceNotOpen = errors.New("capture source is not open")

// ErrNoFrame is returned when the source has no more frames. For stored
// media this is end-of-file; for a live device it means the device stopped
// delivering. Callers treat it as end-of-stream.
var ErrNoFrame = errors.New("no frame available")

// Source defines the interface for frame sources. A source yields an
// ordered, possibly infinite sequence of frames: finite for stored media,
// logically infinite for a live device.
type Source interface {
	Open() error
	Close() error

	// ReadFrame reads the next frame. The caller owns the returned Mat
	// and must close it.
	ReadFrame() (*gocv.Mat, error)

	IsOpen() bool
}

// videoSource reads frames from a camera device or a media file via GoCV.
type videoSource struct {
	// device is either an int device index or a string media path,
	// passed through to gocv.OpenVideoCapture.
	device  interface{}
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
}

// NewDeviceSource creates a Source reading from a live camera device.
func NewDeviceSource(deviceID int) Source {
	return &videoSource{device: deviceID}
}

// NewFileSource creates a Source reading from a stored media file.
// Unlike a live device it can be reopened after exhaustion.
func NewFileSource(path string) Source {
	return &videoSource{device: path}
}

// Open acquires the underlying capture. Opening an already-open source is
// a no-op.
func (s *videoSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	capture, err := gocv.OpenVideoCapture(s.device)
	if err != nil {
		return err
	}

	s.capture = capture
	s.running = true
	return nil
}

// Close releases the capture. Safe to call more than once.
func (s *videoSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.capture == nil {
		s.running = false
		return nil
	}

	err := s.capture.Close()
	s.capture = nil
	s.running = false
	return err
}

// ReadFrame reads a single frame from the source.
func (s *videoSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running || s.capture == nil {
		return nil, ErrSourceNotOpen
	}

	mat := gocv.NewMat()
	if ok := s.capture.Read(&mat); !ok {
		mat.Close()
		return nil, ErrNoFrame
	}

	if mat.Empty() {
		mat.Close()
		return nil, ErrNoFrame
	}

	return &mat, nil
}

// IsOpen returns true if the source is currently open.
func (s *videoSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}
