package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockSource plays back pre-recorded frames for testing.
type MockSource struct {
	frames  []*gocv.Mat
	index   int
	loop    bool
	openErr error
	readErr error
	failAt  int
	mu      sync.Mutex
	running bool
}

// NewMockSource creates a MockSource over the given frames. With loop set,
// the sequence restarts from the beginning once exhausted.
func NewMockSource(frames []*gocv.Mat, loop bool) *MockSource {
	return &MockSource{
		frames: frames,
		loop:   loop,
		failAt: -1,
	}
}

// SetOpenError makes Open fail with the given error.
func (s *MockSource) SetOpenError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openErr = err
}

// FailReadAt injects a read error on the n-th ReadFrame call (counted
// from 1).
func (s *MockSource) FailReadAt(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAt = n
	s.readErr = err
}

func (s *MockSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.openErr != nil {
		return s.openErr
	}
	s.running = true
	s.index = 0
	return nil
}

func (s *MockSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return nil
}

func (s *MockSource) ReadFrame() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil, ErrSourceNotOpen
	}

	if s.failAt > 0 && s.index+1 == s.failAt {
		s.index++
		return nil, s.readErr
	}

	if len(s.frames) == 0 {
		return nil, ErrNoFrame
	}

	if s.index >= len(s.frames) {
		if s.loop {
			s.index = 0
		} else {
			return nil, ErrNoFrame
		}
	}

	// Clone so the caller can close its copy without touching ours.
	frame := s.frames[s.index].Clone()
	s.index++

	return &frame, nil
}

func (s *MockSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Reset restarts playback from the beginning.
func (s *MockSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
}
