package filters

import (
	"context"
	"fmt"
	"image"
	"time"

	"slidewin/internal/histogram"
	"slidewin/internal/kernel"
	"slidewin/internal/logger"
	"slidewin/internal/raster"
	"slidewin/internal/window"
)

// AdaptiveThreshold binarizes an image against the mean luminance of each
// pixel's kernel-shaped neighborhood: pixels brighter than mean-Offset
// become white, the rest black.
type AdaptiveThreshold struct {
	Radius     int
	Shape      kernel.Shape
	Offset     int
	Mode       histogram.LuminanceMode
	Rasterizer kernel.EllipseRasterizer
	Log        logger.Logger
}

// NewAdaptiveThreshold creates an adaptive mean threshold filter.
func NewAdaptiveThreshold(radius int, shape kernel.Shape, offset int) *AdaptiveThreshold {
	return &AdaptiveThreshold{
		Radius: radius,
		Shape:  shape,
		Offset: offset,
		Mode:   histogram.LuminanceValue,
		Log:    logger.Nop{},
	}
}

// Name returns the filter name.
func (f *AdaptiveThreshold) Name() string {
	return "adaptive-threshold"
}

// Apply runs the filter and returns a bilevel grayscale image.
func (f *AdaptiveThreshold) Apply(ctx context.Context, src *raster.Buffer) (image.Image, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	started := time.Now()

	spec := kernel.NewSpec(f.Shape, f.Radius, f.Radius)
	it, err := window.NewWithRasterizer(src, spec, rasterizerOrDefault(f.Rasterizer))
	if err != nil {
		return nil, fmt.Errorf("iterator setup failed: %w", err)
	}

	bins := make([]uint32, histogram.Bins)
	session, count, err := it.BindLuminance(bins, f.Mode)
	if err != nil {
		return nil, fmt.Errorf("histogram binding failed: %w", err)
	}
	defer session.Release()

	if count == 0 {
		return nil, fmt.Errorf("degenerate initial window for radius %d", f.Radius)
	}

	out := image.NewGray(image.Rect(0, 0, src.Width(), src.Height()))

	walkSerpentine(it, src.Width(), src.Height(), func(x, y int) {
		sum, n := binSum(bins)
		mean := sum / n

		bl, gr, rd, _ := src.Sample(x, y)
		lum := int(histogram.Luminance(f.Mode, rd, gr, bl))

		if lum > mean-f.Offset {
			out.Pix[y*out.Stride+x] = 255
		}
	})

	f.Log.Info("adaptive-threshold", "filter applied", map[string]interface{}{
		"radius":  f.Radius,
		"shape":   f.Shape.String(),
		"offset":  f.Offset,
		"mode":    f.Mode.String(),
		"width":   src.Width(),
		"height":  src.Height(),
		"elapsed": time.Since(started).String(),
	})

	return out, nil
}
