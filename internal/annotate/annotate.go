// Package annotate renders detection outcomes onto frames.
package annotate

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Detection is one detected plate region with its recognized text and
// authorization decision.
type Detection struct {
	Region     image.Rectangle
	Text       string
	Authorized bool
}

// Label returns the text label rendered for this detection.
func (d Detection) Label() string {
	if d.Authorized {
		return "AUTHORIZED: " + d.Text
	}
	return "UNAUTHORIZED: " + d.Text
}

// Drawing constants.
const (
	rectThickness  = 3
	labelScale     = 0.7
	labelThickness = 2
	labelOffset    = 10
	labelMinY      = 20
)

// Decision colors. GoCV converts RGBA to BGR internally.
var (
	authorizedColor   = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	unauthorizedColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}
)

// Annotate draws each detection onto a copy of the frame: a rectangle at
// the region boundary in the decision color and a label above the region's
// top edge, clipped so it stays inside the frame. The input frame is not
// modified; the caller owns the returned Mat and must close it.
func Annotate(frame *gocv.Mat, detections []Detection) gocv.Mat {
	out := frame.Clone()

	for _, d := range detections {
		c := unauthorizedColor
		if d.Authorized {
			c = authorizedColor
		}

		gocv.Rectangle(&out, d.Region, c, rectThickness)

		pos := labelPosition(d.Region, out.Cols(), out.Rows())
		gocv.PutText(&out, d.Label(), pos, gocv.FontHersheySimplex, labelScale, c, labelThickness)
	}

	return out
}

// labelPosition places the label just above the region's top edge and
// clamps it into the frame so it never renders outside the visible area.
func labelPosition(region image.Rectangle, width, height int) image.Point {
	x := region.Min.X
	if x < 0 {
		x = 0
	}
	if x > width-1 {
		x = width - 1
	}

	y := region.Min.Y - labelOffset
	if y < labelMinY {
		y = labelMinY
	}
	if y > height-1 {
		y = height - 1
	}

	return image.Pt(x, y)
}
