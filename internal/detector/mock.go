package detector

import (
	"image"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to script the detection results per call.
type MockDetector struct {
	regions [][]image.Rectangle
	err     error
	calls   int
	closed  bool
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetRegions sets a fixed region set returned by every Detect call.
func (m *MockDetector) SetRegions(regions []image.Rectangle) {
	m.regions = [][]image.Rectangle{regions}
}

// SetRegionSequence scripts per-call results; after the sequence is
// exhausted Detect returns no regions.
func (m *MockDetector) SetRegionSequence(seq [][]image.Rectangle) {
	m.regions = seq
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Calls returns the number of times Detect was invoked.
func (m *MockDetector) Calls() int {
	return m.calls
}

// Detect returns the pre-configured regions or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]image.Rectangle, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.regions) == 0 {
		return nil, nil
	}
	if len(m.regions) == 1 {
		return m.regions[0], nil
	}
	if m.calls > len(m.regions) {
		return nil, nil
	}
	return m.regions[m.calls-1], nil
}

// Closed reports whether Close was called.
func (m *MockDetector) Closed() bool {
	return m.closed
}

// Close marks the mock as closed.
func (m *MockDetector) Close() error {
	m.closed = true
	return nil
}
