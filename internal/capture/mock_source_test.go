package capture

import (
	"errors"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func testFrames(t *testing.T, n int) []*gocv.Mat {
	t.Helper()

	frames := make([]*gocv.Mat, n)
	for i := range frames {
		mat := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
		frames[i] = &mat
	}
	t.Cleanup(func() {
		for _, f := range frames {
			f.Close()
		}
	})
	return frames
}

func TestMockSource_Playback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	src := NewMockSource(testFrames(t, 3), false)
	if err := src.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	for i := 0; i < 3; i++ {
		frame, err := src.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() #%d error = %v", i+1, err)
		}
		frame.Close()
	}

	// Exhausted, non-looping.
	if _, err := src.ReadFrame(); !errors.Is(err, ErrNoFrame) {
		t.Errorf("ReadFrame() after exhaustion error = %v, want ErrNoFrame", err)
	}
}

func TestMockSource_Loop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	src := NewMockSource(testFrames(t, 2), true)
	if err := src.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	for i := 0; i < 5; i++ {
		frame, err := src.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() #%d error = %v", i+1, err)
		}
		frame.Close()
	}
}

func TestMockSource_OpenError(t *testing.T) {
	src := NewMockSource(nil, false)
	wantErr := errors.New("device busy")
	src.SetOpenError(wantErr)

	if err := src.Open(); !errors.Is(err, wantErr) {
		t.Errorf("Open() error = %v, want %v", err, wantErr)
	}
	if src.IsOpen() {
		t.Error("source should not report open after failed Open")
	}
}

func TestMockSource_InjectedReadFailure(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	src := NewMockSource(testFrames(t, 3), false)
	wantErr := errors.New("read fault")
	src.FailReadAt(2, wantErr)

	if err := src.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer src.Close()

	frame, err := src.ReadFrame()
	if err != nil {
		t.Fatalf("first ReadFrame() error = %v", err)
	}
	frame.Close()

	if _, err := src.ReadFrame(); !errors.Is(err, wantErr) {
		t.Errorf("second ReadFrame() error = %v, want injected %v", err, wantErr)
	}
}

func TestWithTimeout_PassthroughOnZero(t *testing.T) {
	src := NewMockSource(nil, false)
	if got := WithTimeout(src, 0); got != Source(src) {
		t.Error("WithTimeout(src, 0) should return the source unchanged")
	}
}

func TestWithTimeout_ExpiryReadsAsEndOfStream(t *testing.T) {
	src := &blockingSource{release: make(chan struct{})}
	defer close(src.release)

	wrapped := WithTimeout(src, 10*time.Millisecond)
	if err := wrapped.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer wrapped.Close()

	if _, err := wrapped.ReadFrame(); !errors.Is(err, ErrNoFrame) {
		t.Errorf("ReadFrame() error = %v, want ErrNoFrame on timeout", err)
	}
}

// blockingSource blocks ReadFrame until released, to exercise the
// bounded-wait wrapper.
type blockingSource struct {
	release chan struct{}
	open    bool
}

func (s *blockingSource) Open() error  { s.open = true; return nil }
func (s *blockingSource) Close() error { s.open = false; return nil }
func (s *blockingSource) IsOpen() bool { return s.open }

func (s *blockingSource) ReadFrame() (*gocv.Mat, error) {
	<-s.release
	return nil, ErrNoFrame
}
