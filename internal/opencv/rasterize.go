// Package opencv provides gocv-backed implementations of the external
// capabilities the window engine consumes: off-screen ellipse mask
// rendering and conversion between OpenCV Mats and buffer views. Pipelines
// that already run on OpenCV can stay on it end to end; everything here is
// optional and the pure-Go strategies remain the defaults.
package opencv

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"slidewin/internal/kernel"
)

// Rasterizer renders filled ellipses through OpenCV's drawing primitives
// and extracts the grayscale render into a kernel mask.
type Rasterizer struct{}

// FillEllipse renders a filled ellipse spanning the whole width x height
// box into a single-channel Mat and extracts it as a mask byte grid.
// Antialiased line rendering is used for very small kernels so their
// coverage does not collapse to an empty grid.
func (Rasterizer) FillEllipse(width, height int, antialias bool) (*kernel.Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("degenerate ellipse box: %dx%d", width, height)
	}

	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), height, width, gocv.MatTypeCV8UC1)
	defer mat.Close()

	lineType := gocv.Line8
	if antialias {
		lineType = gocv.LineAA
	}

	center := image.Pt(width/2, height/2)
	axes := image.Pt(width/2, height/2)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gocv.EllipseWithParams(&mat, center, axes, 0, 0, 360, white, -1, lineType, 0)

	data := mat.ToBytes()
	return kernel.MaskFromBytes(data, width, height)
}
