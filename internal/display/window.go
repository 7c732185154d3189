package display

import "gocv.io/x/gocv"

// WindowSink displays frames in an OpenCV window. Pressing 'q' requests
// quit, 's' requests a save of the current frame.
type WindowSink struct {
	window *gocv.Window
}

// NewWindowSink creates a window with the given title.
func NewWindowSink(title string) *WindowSink {
	return &WindowSink{window: gocv.NewWindow(title)}
}

// Publish shows the frame and polls the window for a key press.
func (s *WindowSink) Publish(frame *gocv.Mat, frameIndex int) (Command, error) {
	s.window.IMShow(*frame)

	switch s.window.WaitKey(1) {
	case 'q':
		return CmdQuit, nil
	case 's':
		return CmdSave, nil
	}
	return CmdNone, nil
}

// Close destroys the window.
func (s *WindowSink) Close() error {
	return s.window.Close()
}
