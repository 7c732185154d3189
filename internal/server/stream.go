package server

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/display"
	"gocv.io/x/gocv"
)

// FrameBuffer holds the latest annotated frame as JPEG bytes. It
// implements display.Sink so the pipeline can publish into it, and backs
// the MJPEG stream endpoint. It never issues interactive commands.
type FrameBuffer struct {
	mu     sync.RWMutex
	jpeg   []byte
	index  int
	closed bool
}

// NewFrameBuffer creates an empty FrameBuffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Publish encodes the frame as JPEG and stores it as the latest.
func (b *FrameBuffer) Publish(frame *gocv.Mat, frameIndex int) (display.Command, error) {
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return display.CmdNone, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())

	b.mu.Lock()
	b.jpeg = data
	b.index = frameIndex
	b.mu.Unlock()

	return display.CmdNone, nil
}

// Latest returns the most recent JPEG frame and its index, or nil if no
// frame has been published yet.
func (b *FrameBuffer) Latest() ([]byte, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.jpeg, b.index
}

// Close marks the buffer closed. The buffered frame stays readable so the
// stream endpoint can keep serving the last view after a run ends.
func (b *FrameBuffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// StreamHandler serves the latest annotated frames as an MJPEG stream.
type StreamHandler struct {
	frames *FrameBuffer
}

// NewStreamHandler creates a new StreamHandler over the given buffer.
func NewStreamHandler(frames *FrameBuffer) *StreamHandler {
	return &StreamHandler{frames: frames}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	lastIndex := -1
	ticker := time.NewTicker(66 * time.Millisecond) // ~15 FPS
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}

		data, index := h.frames.Latest()
		if data == nil || index == lastIndex {
			continue
		}
		lastIndex = index

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(data))
		w.Write(data)
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
