package ocr

import (
	"log"
	"strings"

	"github.com/piyushgandhi045/HackNova-VisionCoders/internal/authorize"
	"gocv.io/x/gocv"
)

// Preprocessing constants, tuned for plate crops.
const (
	// BilateralDiameter is the pixel neighborhood diameter for the
	// edge-preserving smoothing pass.
	BilateralDiameter = 11
	// BilateralSigma is the sigma used for both color and coordinate
	// space in the bilateral filter.
	BilateralSigma = 17
	// AdaptiveBlockSize is the local neighborhood size for adaptive
	// thresholding. Must be odd.
	AdaptiveBlockSize = 11
	// AdaptiveC is the constant subtracted from the local mean.
	AdaptiveC = 2
)

// Preprocess normalizes a cropped plate region for recognition:
// single-channel conversion, bilateral filtering to reduce sensor noise
// while keeping stroke edges, then Gaussian adaptive thresholding so the
// result is robust to uneven illumination across the plate surface.
// The returned binary image has the same size as the input and must be
// closed by the caller.
func Preprocess(region *gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	defer gray.Close()

	if region.Channels() > 1 {
		gocv.CvtColor(*region, &gray, gocv.ColorBGRToGray)
	} else {
		region.CopyTo(&gray)
	}

	filtered := gocv.NewMat()
	defer filtered.Close()
	gocv.BilateralFilter(gray, &filtered, BilateralDiameter, BilateralSigma, BilateralSigma)

	thresh := gocv.NewMat()
	gocv.AdaptiveThreshold(filtered, &thresh, 255,
		gocv.AdaptiveThresholdGaussian, gocv.ThresholdBinary,
		AdaptiveBlockSize, AdaptiveC)

	return thresh
}

// Extractor turns cropped plate regions into canonical plate text.
type Extractor struct {
	recognizer Recognizer
}

// NewExtractor creates an Extractor over the given recognizer.
func NewExtractor(r Recognizer) *Extractor {
	return &Extractor{recognizer: r}
}

// ExtractText preprocesses the region, runs recognition and returns the
// canonical plate string. Recognition failures are absorbed: the region
// yields an empty string and processing of other regions continues.
func (e *Extractor) ExtractText(region *gocv.Mat) string {
	if region == nil || region.Empty() {
		return ""
	}

	processed := Preprocess(region)
	defer processed.Close()

	fragments, err := e.recognizer.ReadText(&processed)
	if err != nil {
		log.Printf("OCR error: %v", err)
		return ""
	}

	return authorize.Normalize(strings.Join(fragments, ""))
}

// Close releases the underlying recognizer.
func (e *Extractor) Close() error {
	return e.recognizer.Close()
}
