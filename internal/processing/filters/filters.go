// Package filters implements neighborhood filters on top of the sliding
// window engine. Each filter drives one iterator across the image in a
// serpentine column order (down one column, right one step, up the next
// column), so every move reuses the histogram state of the previous
// position instead of recomputing the window.
package filters

import (
	"context"
	"image"

	"slidewin/internal/kernel"
	"slidewin/internal/raster"
	"slidewin/internal/window"
)

// Filter is a neighborhood operation over a read-only buffer view.
type Filter interface {
	Name() string
	Apply(ctx context.Context, src *raster.Buffer) (image.Image, error)
}

// rasterizerOrDefault falls back to the pure-Go ellipse rasterizer when a
// filter has no explicit shape-rendering strategy configured.
func rasterizerOrDefault(r kernel.EllipseRasterizer) kernel.EllipseRasterizer {
	if r == nil {
		return kernel.VectorRasterizer{}
	}
	return r
}

// walkSerpentine visits every pixel of a width x height image with the
// iterator centered on the visited pixel. Columns alternate direction so
// consecutive positions are always one step apart.
func walkSerpentine(it *window.Iterator, width, height int, visit func(x, y int)) {
	descending := true
	for x := 0; x < width; x++ {
		if descending {
			for y := 0; y < height; y++ {
				visit(x, y)
				if y < height-1 {
					it.StepDown()
				}
			}
		} else {
			for y := height - 1; y >= 0; y-- {
				visit(x, y)
				if y > 0 {
					it.StepUp()
				}
			}
		}
		if x < width-1 {
			it.StepRight()
		}
		descending = !descending
	}
}

// binIndexAtRank returns the smallest bin value whose cumulative count
// reaches rank. Bins must hold count samples in total; rank is 1-based.
func binIndexAtRank(bins []uint32, rank int) uint8 {
	cumulative := 0
	for v := 0; v < len(bins); v++ {
		cumulative += int(bins[v])
		if cumulative >= rank {
			return uint8(v)
		}
	}
	return 255
}

// binSum returns the count-weighted sum of bin values.
func binSum(bins []uint32) (sum, count int) {
	for v, n := range bins {
		sum += v * int(n)
		count += int(n)
	}
	return sum, count
}
