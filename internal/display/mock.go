package display

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockSink records published frames and replays scripted commands, for
// driving the stream loop in tests.
type MockSink struct {
	commands []Command
	err      error
	mu       sync.Mutex
	frames   []int
	closes   int
}

// NewMockSink creates a new MockSink instance.
func NewMockSink() *MockSink {
	return &MockSink{}
}

// ScriptCommands sets the commands returned by successive Publish calls.
// After the script is exhausted Publish returns CmdNone.
func (m *MockSink) ScriptCommands(commands []Command) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = commands
}

// SetError makes every Publish call fail with err.
func (m *MockSink) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// PublishedFrames returns the frame indices published so far.
func (m *MockSink) PublishedFrames() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int, len(m.frames))
	copy(out, m.frames)
	return out
}

// CloseCount returns how many times Close was called.
func (m *MockSink) CloseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}

func (m *MockSink) Publish(frame *gocv.Mat, frameIndex int) (Command, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return CmdNone, m.err
	}

	m.frames = append(m.frames, frameIndex)

	idx := len(m.frames) - 1
	if idx < len(m.commands) {
		return m.commands[idx], nil
	}
	return CmdNone, nil
}

func (m *MockSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	return nil
}
