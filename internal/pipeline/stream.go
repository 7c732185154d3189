package pipeline

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"

	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/capture"
	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/display"
	"gocv.io/x/gocv"
)

// State is the streaming-mode lifecycle state.
type State int

const (
	// StateIdle means no stream is active.
	StateIdle State = iota
	// StateOpening means the capture source is being acquired.
	StateOpening
	// StateRunning means frames are being read and processed.
	StateRunning
	// StateStopping means a stop was requested and the loop is winding down.
	StateStopping
	// StateEnded means the source is exhausted or failed to open.
	StateEnded
	// StateClosed means source and sink have been released.
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpening:
		return "opening"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateEnded:
		return "ended"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// ErrStreamRunning is returned when ProcessStream is called while another
// stream is already being driven by this controller.
var ErrStreamRunning = errors.New("stream already running")

// State returns the current streaming lifecycle state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Stop requests a running stream to stop. The stop flag is checked once
// per loop iteration; there is no preemption mid-frame. Safe to call when
// no stream is running.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopCh != nil {
		close(c.stopCh)
		c.stopCh = nil
		c.state = StateStopping
	}
}

// ProcessStream drives the pipeline over a frame source until the source
// is exhausted, a quit command arrives, or Stop is called.
//
// Loop logic:
//  1. Open the source; failure to open is the only fatal condition.
//  2. Read frames, counting from 1. Frames whose index is not a multiple
//     of the skip interval are discarded without detection, bounding the
//     processing rate independent of the capture rate.
//  3. Retained frames run the same pass as ProcessImage; per-frame
//     failures are logged and degrade that frame only.
//  4. Annotated frames go to the presentation sink; a save command writes
//     the current frame and the loop continues, a quit command stops it.
//  5. Source and sink are released exactly once on every exit path.
func (c *Controller) ProcessStream(source capture.Source) error {
	c.mu.Lock()
	if c.stopCh != nil {
		c.mu.Unlock()
		return ErrStreamRunning
	}
	stopCh := make(chan struct{})
	c.stopCh = stopCh
	c.state = StateOpening
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if c.stopCh == stopCh {
			c.stopCh = nil
		}
		c.state = StateClosed
		c.mu.Unlock()
	}()

	defer func() {
		if err := c.sink.Close(); err != nil {
			log.Printf("Error closing sink: %v", err)
		}
	}()

	if err := source.Open(); err != nil {
		c.setState(StateEnded)
		return fmt.Errorf("open capture source: %w", err)
	}
	defer func() {
		if err := source.Close(); err != nil {
			log.Printf("Error closing source: %v", err)
		}
	}()

	c.setState(StateRunning)
	log.Println("Processing stream...")

	frameIndex := 0

	for {
		select {
		case <-stopCh:
			log.Println("Stream stopped")
			return nil
		default:
		}

		frame, err := source.ReadFrame()
		if err != nil {
			// Read failures are treated as end-of-stream, never as a
			// fault that unwinds past the loop.
			if !errors.Is(err, capture.ErrNoFrame) {
				log.Printf("Frame read failed: %v", err)
			}
			c.setState(StateEnded)
			log.Println("End of stream")
			return nil
		}

		frameIndex++

		if !c.IsEnabled() || frameIndex%c.config.SkipInterval != 0 {
			frame.Close()
			continue
		}

		annotated, detections, err := c.ProcessImage(frame)
		frame.Close()
		if err != nil {
			log.Printf("Frame %d: detection failed: %v", frameIndex, err)
			continue
		}

		c.report(detections, frameIndex)

		cmd, err := c.sink.Publish(&annotated, frameIndex)
		if err != nil {
			log.Printf("Frame %d: publish failed: %v", frameIndex, err)
		}

		switch cmd {
		case display.CmdQuit:
			annotated.Close()
			c.setState(StateStopping)
			log.Println("Quit requested")
			return nil
		case display.CmdSave:
			c.saveFrame(&annotated, frameIndex)
		}

		annotated.Close()
	}
}

// saveFrame persists the current annotated frame, named deterministically
// by frame index. Saving is not a terminating action.
func (c *Controller) saveFrame(frame *gocv.Mat, frameIndex int) {
	name := fmt.Sprintf("captured_frame_%d.jpg", frameIndex)
	path := filepath.Join(c.config.SaveDir, name)

	if ok := gocv.IMWrite(path, *frame); !ok {
		log.Printf("Failed to save frame %d to %s", frameIndex, path)
		return
	}
	log.Printf("Saved frame %d", frameIndex)
}
