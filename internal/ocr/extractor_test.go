package ocr

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func testRegion(t *testing.T) *gocv.Mat {
	t.Helper()

	mat := gocv.NewMatWithSize(40, 120, gocv.MatTypeCV8UC3)
	t.Cleanup(func() {
		mat.Close()
	})
	return &mat
}

func TestExtractor_ExtractText(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	tests := []struct {
		name      string
		fragments []string
		want      string
	}{
		{
			name:      "single fragment",
			fragments: []string{"MH01AB1234"},
			want:      "MH01AB1234",
		},
		{
			name:      "fragments joined without separators",
			fragments: []string{"MH01", "AB", "1234"},
			want:      "MH01AB1234",
		},
		{
			name:      "punctuation and case normalized",
			fragments: []string{"mh-01", "ab 1234"},
			want:      "MH01AB1234",
		},
		{
			name:      "no fragments",
			fragments: nil,
			want:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewMockRecognizer()
			rec.SetFragments(tt.fragments)

			e := NewExtractor(rec)
			if got := e.ExtractText(testRegion(t)); got != tt.want {
				t.Errorf("ExtractText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractor_RecognizerFailureYieldsEmptyText(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	rec := NewMockRecognizer()
	rec.Script(nil, []error{errors.New("ocr boom")})

	e := NewExtractor(rec)
	if got := e.ExtractText(testRegion(t)); got != "" {
		t.Errorf("ExtractText() = %q after recognizer failure, want empty", got)
	}
}

func TestExtractor_NilRegion(t *testing.T) {
	rec := NewMockRecognizer()
	e := NewExtractor(rec)

	if got := e.ExtractText(nil); got != "" {
		t.Errorf("ExtractText(nil) = %q, want empty", got)
	}
	if rec.Calls() != 0 {
		t.Errorf("recognizer called %d times for nil region, want 0", rec.Calls())
	}
}

func TestPreprocess_BinaryOutputSameSize(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	region := gocv.NewMatWithSize(40, 120, gocv.MatTypeCV8UC3)
	defer region.Close()

	processed := Preprocess(&region)
	defer processed.Close()

	if processed.Rows() != region.Rows() || processed.Cols() != region.Cols() {
		t.Errorf("Preprocess() size = %dx%d, want %dx%d",
			processed.Cols(), processed.Rows(), region.Cols(), region.Rows())
	}
	if processed.Channels() != 1 {
		t.Errorf("Preprocess() channels = %d, want 1", processed.Channels())
	}
}

func TestPreprocess_GrayscaleInput(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	region := gocv.NewMatWithSize(40, 120, gocv.MatTypeCV8UC1)
	defer region.Close()

	processed := Preprocess(&region)
	defer processed.Close()

	if processed.Channels() != 1 {
		t.Errorf("Preprocess() channels = %d, want 1", processed.Channels())
	}
}
