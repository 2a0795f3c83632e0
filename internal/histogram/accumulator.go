// Package histogram maintains 256-bin pixel-value counts for a sliding
// window. An Accumulator aliases caller-owned bin slices rather than
// copying them: the caller reads statistics straight out of its own arrays
// after every window move, and must keep the slices alive and unresized
// until the accumulator is released.
package histogram

import (
	"errors"
	"fmt"
)

// Bins is the number of counting bins per channel, one per 8-bit value.
const Bins = 256

// ErrShortBins reports a caller-provided bin slice with fewer than Bins
// entries.
var ErrShortBins = errors.New("bin slice shorter than 256 entries")

// RGBABins groups the caller-owned channel bin slices for an RGBA session.
// A may be nil when alpha is not tracked.
type RGBABins struct {
	R []uint32
	G []uint32
	B []uint32
	A []uint32
}

// Accumulator counts pixel samples into bound bins and tracks the running
// pixel count of the window. Exactly one representation is active: either
// the four channel bins or the single luminance bin set.
type Accumulator struct {
	r, g, b, a []uint32
	lum        []uint32
	luma       func(rd, gr, bl uint8) uint8
	trackAlpha bool
	count      int
}

// NewRGBA binds an accumulator to caller-owned channel bins. The alpha
// bins are required only when trackAlpha is set. Slices are aliased, not
// copied; the bound slices must already be zeroed if counting is to start
// from empty.
func NewRGBA(bins RGBABins, trackAlpha bool) (*Accumulator, error) {
	for name, s := range map[string][]uint32{"red": bins.R, "green": bins.G, "blue": bins.B} {
		if len(s) < Bins {
			return nil, fmt.Errorf("%s channel: %w", name, ErrShortBins)
		}
	}
	if trackAlpha && len(bins.A) < Bins {
		return nil, fmt.Errorf("alpha channel: %w", ErrShortBins)
	}

	acc := &Accumulator{
		r:          bins.R,
		g:          bins.G,
		b:          bins.B,
		trackAlpha: trackAlpha,
	}
	if trackAlpha {
		acc.a = bins.A
	}
	return acc, nil
}

// NewLuminance binds an accumulator to a caller-owned luminance bin slice,
// collapsing samples through the weighting selected by mode.
func NewLuminance(bins []uint32, mode LuminanceMode) (*Accumulator, error) {
	if len(bins) < Bins {
		return nil, fmt.Errorf("luminance: %w", ErrShortBins)
	}
	return &Accumulator{lum: bins, luma: lumaFunc(mode)}, nil
}

// Add counts one sampled pixel into the bound bins.
func (acc *Accumulator) Add(bl, gr, rd, al uint8) {
	if acc.lum != nil {
		acc.lum[acc.luma(rd, gr, bl)]++
	} else {
		acc.r[rd]++
		acc.g[gr]++
		acc.b[bl]++
		if acc.trackAlpha {
			acc.a[al]++
		}
	}
	acc.count++
}

// Remove un-counts one sampled pixel from the bound bins.
func (acc *Accumulator) Remove(bl, gr, rd, al uint8) {
	if acc.lum != nil {
		acc.lum[acc.luma(rd, gr, bl)]--
	} else {
		acc.r[rd]--
		acc.g[gr]--
		acc.b[bl]--
		if acc.trackAlpha {
			acc.a[al]--
		}
	}
	acc.count--
}

// Count returns the number of pixels currently represented in the bins.
func (acc *Accumulator) Count() int {
	return acc.count
}

// Release un-aliases all caller-owned slices. The caller may freely resize
// or discard its arrays afterwards. Release is idempotent.
func (acc *Accumulator) Release() {
	acc.r, acc.g, acc.b, acc.a = nil, nil, nil, nil
	acc.lum = nil
	acc.luma = nil
	acc.count = 0
}

// Released reports whether the accumulator has been released.
func (acc *Accumulator) Released() bool {
	return acc.r == nil && acc.lum == nil
}
