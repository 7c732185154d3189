// Package ocr extracts plate text from detected regions.
package ocr

import "gocv.io/x/gocv"

// Recognizer defines the interface for text-recognition implementations.
// It is a black-box capability: binary image in, text fragments out.
type Recognizer interface {
	// ReadText recognizes text in a preprocessed plate image and returns
	// the fragments found, in reading order.
	ReadText(img *gocv.Mat) ([]string, error)

	// Close releases any resources held by the recognizer.
	Close() error
}

// Config holds startup configuration for text recognition.
// Language and execution settings are fixed per run, not per call.
type Config struct {
	// Language is the recognition language, e.g. "eng".
	Language string
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Language: "eng",
	}
}
