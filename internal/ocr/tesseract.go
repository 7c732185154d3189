package ocr

import (
	"fmt"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// TesseractRecognizer implements Recognizer using the Tesseract OCR engine.
type TesseractRecognizer struct {
	client *gosseract.Client
	mu     sync.Mutex
}

// NewTesseractRecognizer creates a Tesseract-backed recognizer.
// The plate alphabet is restricted to A-Z0-9 so the engine never proposes
// characters the canonical form would discard anyway.
func NewTesseractRecognizer(cfg Config) (*TesseractRecognizer, error) {
	client := gosseract.NewClient()

	lang := cfg.Language
	if lang == "" {
		lang = DefaultConfig().Language
	}
	if err := client.SetLanguage(lang); err != nil {
		client.Close()
		return nil, fmt.Errorf("set language %q: %w", lang, err)
	}
	if err := client.SetWhitelist("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"); err != nil {
		client.Close()
		return nil, fmt.Errorf("set whitelist: %w", err)
	}

	return &TesseractRecognizer{client: client}, nil
}

// ReadText runs Tesseract over the image and returns the whitespace-separated
// fragments it recognized.
func (r *TesseractRecognizer) ReadText(img *gocv.Mat) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if img == nil || img.Empty() {
		return nil, nil
	}

	buf, err := gocv.IMEncode(".png", *img)
	if err != nil {
		return nil, fmt.Errorf("encode region: %w", err)
	}
	defer buf.Close()

	if err := r.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	text, err := r.client.Text()
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}

	return strings.Fields(text), nil
}

// Close shuts down the Tesseract client.
func (r *TesseractRecognizer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.client.Close()
}
