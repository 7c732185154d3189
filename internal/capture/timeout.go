package capture

import (
	"time"

	"gocv.io/x/gocv"
)

// timeoutSource bounds the wait on an underlying source's ReadFrame.
// Expiry is reported as ErrNoFrame so callers treat it like end-of-stream
// rather than a fault.
type timeoutSource struct {
	Source
	timeout time.Duration
}

// WithTimeout wraps a source so that ReadFrame returns ErrNoFrame when no
// frame arrives within d. A non-positive d returns the source unchanged.
func WithTimeout(s Source, d time.Duration) Source {
	if d <= 0 {
		return s
	}
	return &timeoutSource{Source: s, timeout: d}
}

type readResult struct {
	frame *gocv.Mat
	err   error
}

func (s *timeoutSource) ReadFrame() (*gocv.Mat, error) {
	ch := make(chan readResult, 1)

	go func() {
		frame, err := s.Source.ReadFrame()
		ch <- readResult{frame: frame, err: err}
	}()

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		return res.frame, res.err
	case <-timer.C:
		// The blocked read finishes eventually; discard its frame then.
		go func() {
			if res := <-ch; res.frame != nil {
				res.frame.Close()
			}
		}()
		return nil, ErrNoFrame
	}
}
