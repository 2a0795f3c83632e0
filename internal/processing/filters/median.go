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

// Median replaces every pixel with the per-channel median of its
// kernel-shaped neighborhood. Percentile generalizes the rank: 0.5 is the
// median, 0.0 a minimum (erode-like), 1.0 a maximum (dilate-like).
type Median struct {
	Radius     int
	Shape      kernel.Shape
	Percentile float64
	Rasterizer kernel.EllipseRasterizer
	Log        logger.Logger
}

// NewMedian creates a median filter with the given kernel geometry.
func NewMedian(radius int, shape kernel.Shape) *Median {
	return &Median{
		Radius:     radius,
		Shape:      shape,
		Percentile: 0.5,
		Log:        logger.Nop{},
	}
}

// Name returns the filter name.
func (f *Median) Name() string {
	return "median"
}

// Apply runs the filter and returns the filtered image. The source buffer
// is only read.
func (f *Median) Apply(ctx context.Context, src *raster.Buffer) (image.Image, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if f.Percentile < 0 || f.Percentile > 1 {
		return nil, fmt.Errorf("percentile %v outside [0,1]", f.Percentile)
	}

	started := time.Now()

	spec := kernel.NewSpec(f.Shape, f.Radius, f.Radius)
	it, err := window.NewWithRasterizer(src, spec, rasterizerOrDefault(f.Rasterizer))
	if err != nil {
		return nil, fmt.Errorf("iterator setup failed: %w", err)
	}

	hasAlpha := src.Channels() == raster.ChannelsBGRA
	bins := histogram.RGBABins{
		R: make([]uint32, histogram.Bins),
		G: make([]uint32, histogram.Bins),
		B: make([]uint32, histogram.Bins),
	}
	if hasAlpha {
		bins.A = make([]uint32, histogram.Bins)
	}

	session, count, err := it.BindRGBA(bins, hasAlpha)
	if err != nil {
		return nil, fmt.Errorf("histogram binding failed: %w", err)
	}
	defer session.Release()

	if count == 0 {
		return nil, fmt.Errorf("degenerate initial window for radius %d", f.Radius)
	}

	out := image.NewNRGBA(image.Rect(0, 0, src.Width(), src.Height()))

	walkSerpentine(it, src.Width(), src.Height(), func(x, y int) {
		n := it.Count()
		rank := int(f.Percentile*float64(n-1)) + 1

		i := out.PixOffset(x, y)
		out.Pix[i+0] = binIndexAtRank(bins.R, rank)
		out.Pix[i+1] = binIndexAtRank(bins.G, rank)
		out.Pix[i+2] = binIndexAtRank(bins.B, rank)
		if hasAlpha {
			out.Pix[i+3] = binIndexAtRank(bins.A, rank)
		} else {
			out.Pix[i+3] = 255
		}
	})

	f.Log.Info("median", "filter applied", map[string]interface{}{
		"radius":     f.Radius,
		"shape":      f.Shape.String(),
		"percentile": f.Percentile,
		"width":      src.Width(),
		"height":     src.Height(),
		"elapsed":    time.Since(started).String(),
	})

	return out, nil
}
