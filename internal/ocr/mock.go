package ocr

import "gocv.io/x/gocv"

// MockRecognizer is a test implementation of the Recognizer interface.
// It allows tests to script per-call text fragments and failures.
type MockRecognizer struct {
	fragments [][]string
	errs      []error
	calls     int
	closed    bool
}

// NewMockRecognizer creates a new MockRecognizer instance.
func NewMockRecognizer() *MockRecognizer {
	return &MockRecognizer{}
}

// SetFragments sets a fixed fragment list returned by every ReadText call.
func (m *MockRecognizer) SetFragments(fragments []string) {
	m.fragments = [][]string{fragments}
	m.errs = nil
}

// Script sets per-call results. Call i returns fragments[i] and errs[i];
// either slice may be shorter than the number of calls, in which case the
// remaining calls see empty results and nil errors.
func (m *MockRecognizer) Script(fragments [][]string, errs []error) {
	m.fragments = fragments
	m.errs = errs
}

// Calls returns the number of times ReadText was invoked.
func (m *MockRecognizer) Calls() int {
	return m.calls
}

// ReadText returns the scripted fragments or error for this call.
func (m *MockRecognizer) ReadText(img *gocv.Mat) ([]string, error) {
	idx := m.calls
	m.calls++

	if idx < len(m.errs) && m.errs[idx] != nil {
		return nil, m.errs[idx]
	}
	if len(m.fragments) == 1 && len(m.errs) == 0 {
		return m.fragments[0], nil
	}
	if idx < len(m.fragments) {
		return m.fragments[idx], nil
	}
	return nil, nil
}

// Closed reports whether Close was called.
func (m *MockRecognizer) Closed() bool {
	return m.closed
}

// Close marks the mock as closed.
func (m *MockRecognizer) Close() error {
	m.closed = true
	return nil
}
