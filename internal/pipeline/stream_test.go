package pipeline

import (
	"errors"
	"image"
	"reflect"
	"testing"
	"time"

	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/authorize"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/capture"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/detector"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/display"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/ocr"
	"gocv.io/x/gocv"
)

func streamFrames(t *testing.T, n int) []*gocv.Mat {
	t.Helper()

	frames := make([]*gocv.Mat, n)
	for i := range frames {
		mat := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
		frames[i] = &mat
	}
	t.Cleanup(func() {
		for _, f := range frames {
			f.Close()
		}
	})
	return frames
}

func newStreamController(t *testing.T, sink display.Sink, authorized []string) (*Controller, *detector.MockDetector, *ocr.MockRecognizer) {
	t.Helper()

	det := detector.NewMockDetector()
	rec := ocr.NewMockRecognizer()
	c := New(det, ocr.NewExtractor(rec), authorize.NewMatcher(authorized), sink, Config{})
	return c, det, rec
}

func TestProcessStream_SourceUnavailableIsFatal(t *testing.T) {
	sink := display.NewMockSink()
	c, _, _ := newStreamController(t, sink, nil)

	src := capture.NewMockSource(nil, false)
	src.SetOpenError(errors.New("device busy"))

	if err := c.ProcessStream(src); err == nil {
		t.Fatal("ProcessStream() error = nil, want open failure")
	}

	if c.State() != StateClosed {
		t.Errorf("State() = %v after failed open, want %v", c.State(), StateClosed)
	}
	if sink.CloseCount() != 1 {
		t.Errorf("sink closed %d times, want 1", sink.CloseCount())
	}
}

func TestProcessStream_FrameSkip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	sink := display.NewMockSink()
	c, det, _ := newStreamController(t, sink, nil)

	src := capture.NewMockSource(streamFrames(t, 12), false)
	if err := c.ProcessStream(src); err != nil {
		t.Fatalf("ProcessStream() error = %v", err)
	}

	// With skipInterval=5 over 12 frames, exactly frames 5 and 10 reach
	// the detection stage.
	if det.Calls() != 2 {
		t.Errorf("detector called %d times, want 2", det.Calls())
	}
	if got, want := sink.PublishedFrames(), []int{5, 10}; !reflect.DeepEqual(got, want) {
		t.Errorf("published frames = %v, want %v", got, want)
	}
}

func TestProcessStream_ReleasesSourceOnAllPaths(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	t.Run("normal end of stream", func(t *testing.T) {
		c, _, _ := newStreamController(t, display.NewMockSink(), nil)
		src := capture.NewMockSource(streamFrames(t, 3), false)

		if err := c.ProcessStream(src); err != nil {
			t.Fatalf("ProcessStream() error = %v", err)
		}
		if src.IsOpen() {
			t.Error("source still open after normal end")
		}
		if c.State() != StateClosed {
			t.Errorf("State() = %v, want %v", c.State(), StateClosed)
		}
	})

	t.Run("cancellation", func(t *testing.T) {
		c, _, _ := newStreamController(t, display.NewMockSink(), nil)
		src := capture.NewMockSource(streamFrames(t, 2), true) // loops forever

		done := make(chan error, 1)
		go func() {
			done <- c.ProcessStream(src)
		}()

		time.Sleep(20 * time.Millisecond)
		c.Stop()

		select {
		case err := <-done:
			if err != nil {
				t.Fatalf("ProcessStream() error = %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("ProcessStream did not return after Stop")
		}

		if src.IsOpen() {
			t.Error("source still open after cancellation")
		}
	})

	t.Run("injected fault mid-loop", func(t *testing.T) {
		c, _, _ := newStreamController(t, display.NewMockSink(), nil)
		src := capture.NewMockSource(streamFrames(t, 10), false)
		src.FailReadAt(4, errors.New("bus reset"))

		// A read fault is absorbed as end-of-stream, not returned.
		if err := c.ProcessStream(src); err != nil {
			t.Fatalf("ProcessStream() error = %v, want nil", err)
		}
		if src.IsOpen() {
			t.Error("source still open after mid-loop fault")
		}
	})
}

func TestProcessStream_QuitCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	sink := display.NewMockSink()
	sink.ScriptCommands([]display.Command{display.CmdQuit})

	c, _, _ := newStreamController(t, sink, nil)
	src := capture.NewMockSource(streamFrames(t, 2), true) // would loop forever

	if err := c.ProcessStream(src); err != nil {
		t.Fatalf("ProcessStream() error = %v", err)
	}

	// Quit on the first published frame (index 5).
	if got := sink.PublishedFrames(); len(got) != 1 || got[0] != 5 {
		t.Errorf("published frames = %v, want [5]", got)
	}
	if src.IsOpen() {
		t.Error("source still open after quit command")
	}
}

func TestProcessStream_SaveCommandDoesNotTerminate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	sink := display.NewMockSink()
	sink.ScriptCommands([]display.Command{display.CmdSave})

	det := detector.NewMockDetector()
	rec := ocr.NewMockRecognizer()
	c := New(det, ocr.NewExtractor(rec), authorize.NewMatcher(nil), sink,
		Config{SaveDir: t.TempDir()})

	src := capture.NewMockSource(streamFrames(t, 12), false)
	if err := c.ProcessStream(src); err != nil {
		t.Fatalf("ProcessStream() error = %v", err)
	}

	// Save on frame 5 must not end the stream: frame 10 still processed.
	if got, want := sink.PublishedFrames(), []int{5, 10}; !reflect.DeepEqual(got, want) {
		t.Errorf("published frames = %v, want %v", got, want)
	}
}

func TestProcessStream_DisabledDiscardsFrames(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	sink := display.NewMockSink()
	c, det, _ := newStreamController(t, sink, nil)
	c.SetEnabled(false)

	src := capture.NewMockSource(streamFrames(t, 12), false)
	if err := c.ProcessStream(src); err != nil {
		t.Fatalf("ProcessStream() error = %v", err)
	}

	if det.Calls() != 0 {
		t.Errorf("detector called %d times while disabled, want 0", det.Calls())
	}
	if len(sink.PublishedFrames()) != 0 {
		t.Errorf("published frames = %v while disabled, want none", sink.PublishedFrames())
	}
}

func TestProcessStream_PerFrameDetectorFailureDoesNotEndStream(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	sink := display.NewMockSink()
	c, det, _ := newStreamController(t, sink, nil)
	det.SetError(errors.New("detector boom"))

	src := capture.NewMockSource(streamFrames(t, 12), false)
	if err := c.ProcessStream(src); err != nil {
		t.Fatalf("ProcessStream() error = %v, want nil", err)
	}

	// Both retained frames hit the failing detector; the stream survived
	// to exhaustion either way.
	if det.Calls() != 2 {
		t.Errorf("detector called %d times, want 2", det.Calls())
	}
}

func TestProcessStream_Sightings(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	sink := display.NewMockSink()
	c, det, rec := newStreamController(t, sink, []string{"MH01AB1234"})
	det.SetRegions([]image.Rectangle{image.Rect(100, 100, 300, 160)})
	rec.SetFragments([]string{"MH01AB1234"})

	var sightings []Sighting
	c.SetOnSighting(func(s Sighting) {
		sightings = append(sightings, s)
	})

	src := capture.NewMockSource(streamFrames(t, 12), false)
	if err := c.ProcessStream(src); err != nil {
		t.Fatalf("ProcessStream() error = %v", err)
	}

	if len(sightings) != 2 {
		t.Fatalf("got %d sightings, want 2", len(sightings))
	}
	for i, want := range []int{5, 10} {
		if sightings[i].FrameIndex != want {
			t.Errorf("sighting %d FrameIndex = %d, want %d", i, sightings[i].FrameIndex, want)
		}
		if sightings[i].Plate != "MH01AB1234" || !sightings[i].Authorized {
			t.Errorf("sighting %d = %+v, want authorized MH01AB1234", i, sightings[i])
		}
	}
}

func TestProcessStream_SecondStreamRejectedWhileRunning(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	c, _, _ := newStreamController(t, display.NewMockSink(), nil)
	src := capture.NewMockSource(streamFrames(t, 2), true)

	done := make(chan error, 1)
	go func() {
		done <- c.ProcessStream(src)
	}()

	time.Sleep(20 * time.Millisecond)

	if err := c.ProcessStream(capture.NewMockSource(nil, false)); !errors.Is(err, ErrStreamRunning) {
		t.Errorf("second ProcessStream() error = %v, want ErrStreamRunning", err)
	}

	c.Stop()
	<-done
}
