package kernel

import (
	"fmt"
	"image"

	"golang.org/x/image/vector"
)

// EllipseRasterizer fills an off-screen mask with an ellipse inscribed in a
// width x height box. Implementations may render hard edges or antialiased
// coverage; antialiased output keeps very small kernels from rounding down
// to a near-empty mask.
type EllipseRasterizer interface {
	FillEllipse(width, height int, antialias bool) (*Mask, error)
}

// VectorRasterizer renders ellipses in pure Go with golang.org/x/image's
// scanline rasterizer. It is the default strategy; an OpenCV-backed
// implementation is available where gocv is already part of the pipeline.
type VectorRasterizer struct{}

// Magic constant for ellipse approximation with cubic Beziers,
// 4/3 * (sqrt(2) - 1).
const bezierCircleKappa = 0.5522847498307936

// FillEllipse rasterizes a filled ellipse spanning the whole box. The
// ellipse is built from four cubic Bezier quadrants around the box center.
func (VectorRasterizer) FillEllipse(width, height int, antialias bool) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("degenerate ellipse box: %dx%d", width, height)
	}

	cx := float32(width) / 2
	cy := float32(height) / 2
	rx := float32(width) / 2
	ry := float32(height) / 2
	ox := rx * bezierCircleKappa
	oy := ry * bezierCircleKappa

	z := vector.NewRasterizer(width, height)
	z.MoveTo(cx+rx, cy)
	z.CubeTo(cx+rx, cy+oy, cx+ox, cy+ry, cx, cy+ry)
	z.CubeTo(cx-ox, cy+ry, cx-rx, cy+oy, cx-rx, cy)
	z.CubeTo(cx-rx, cy-oy, cx-ox, cy-ry, cx, cy-ry)
	z.CubeTo(cx+ox, cy-ry, cx+rx, cy-oy, cx+rx, cy)
	z.ClosePath()

	coverage := image.NewAlpha(image.Rect(0, 0, width, height))
	z.Draw(coverage, coverage.Bounds(), image.Opaque, image.Point{})

	mask := NewMask(width, height)
	for y := 0; y < height; y++ {
		row := coverage.Pix[y*coverage.Stride:]
		for x := 0; x < width; x++ {
			v := row[x]
			if !antialias {
				// Hard edge: half-covered cells and above are members.
				if v < 128 {
					v = 0
				} else {
					v = 255
				}
			}
			mask.Set(x, y, v)
		}
	}

	return mask, nil
}
