// Package display delivers annotated frames to a presentation surface and
// relays interactive commands back to the pipeline.
package display

import "gocv.io/x/gocv"

// Command is an interactive request from the presentation surface.
type Command int

const (
	// CmdNone means no command is pending.
	CmdNone Command = iota
	// CmdQuit requests the stream loop to stop.
	CmdQuit
	// CmdSave requests the current annotated frame to be saved.
	CmdSave
)

// Sink defines the interface for presentation backends.
type Sink interface {
	// Publish hands an annotated frame to the sink for display.
	// It returns any pending interactive command. The sink must not
	// retain the Mat past the call.
	Publish(frame *gocv.Mat, frameIndex int) (Command, error)

	// Close releases any presentation resources.
	Close() error
}

// NullSink discards frames and never issues commands. Used when running
// headless.
type NullSink struct{}

// Publish discards the frame.
func (NullSink) Publish(frame *gocv.Mat, frameIndex int) (Command, error) {
	return CmdNone, nil
}

// Close is a no-op.
func (NullSink) Close() error { return nil }
