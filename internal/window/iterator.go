// Package window implements the sliding-window pixel-region iterator: it
// walks a read-only raster one step at a time while incrementally
// maintaining histogram state for the kernel-shaped neighborhood around
// the current position. Neighborhood statistics (median, mean, local
// thresholds) are derived by callers from the bound histogram bins.
//
// The protocol is two-phase: construct an iterator over a buffer and a
// kernel spec, bind caller-owned histogram bins (which populates the
// initial window anchored at the image origin), step the window with the
// directional moves, and release the binding when done. Release must
// happen on every exit path; Session.Release is designed for defer.
package window

import (
	"errors"
	"fmt"

	"slidewin/internal/histogram"
	"slidewin/internal/kernel"
	"slidewin/internal/raster"
)

// ErrNilBuffer reports construction without a pixel buffer.
var ErrNilBuffer = errors.New("pixel buffer is nil")

// ErrAlreadyBound reports a second bind on a session that is still open.
var ErrAlreadyBound = errors.New("histograms already bound for this iterator")

// stepper is the closed variant over the two window-tracking strategies:
// the optimized rectangle (whole edge lines enter and leave) and the
// generic shape mask (one boundary pixel per line, located through the
// precomputed boundary table).
type stepper interface {
	populate() int
	stepRight() int
	stepLeft() int
	stepDown() int
	stepUp() int
}

// Iterator owns the window position, kernel geometry and the bound
// accumulator. It is single-threaded and re-entrant-unsafe by design:
// one caller drives one iterator over one buffer at a time.
type Iterator struct {
	buf    *raster.Buffer
	spec   kernel.Spec
	mask   *kernel.Mask
	bounds *kernel.BoundaryTable
	acc    *histogram.Accumulator
	steps  stepper

	x, y   int
	initX  int
	initY  int
	finalX int
	finalY int
}

// New creates an iterator over buf with the given kernel, using the
// pure-Go ellipse rasterizer for circular kernels.
func New(buf *raster.Buffer, spec kernel.Spec) (*Iterator, error) {
	return NewWithRasterizer(buf, spec, kernel.VectorRasterizer{})
}

// NewWithRasterizer creates an iterator with an explicit shape
// rasterization strategy. Kernel radii are clamped so the window never
// exceeds the image extent. Fails on a missing buffer or, for circular
// kernels, on a mask that violates row/column convexity.
func NewWithRasterizer(buf *raster.Buffer, spec kernel.Spec, r kernel.EllipseRasterizer) (*Iterator, error) {
	if buf == nil {
		return nil, ErrNilBuffer
	}

	spec = spec.ClampTo(buf.Width(), buf.Height())

	it := &Iterator{
		buf:    buf,
		spec:   spec,
		finalX: buf.Width() - 1,
		finalY: buf.Height() - 1,
	}

	if spec.Shape == kernel.ShapeCircle {
		mask, err := spec.Rasterize(r)
		if err != nil {
			return nil, fmt.Errorf("shape rasterization failed: %w", err)
		}
		table, err := kernel.NewBoundaryTable(mask, spec)
		if err != nil {
			return nil, fmt.Errorf("boundary table construction failed: %w", err)
		}
		it.mask = mask
		it.bounds = table
		it.steps = &maskStepper{it: it}
	} else {
		it.steps = &rectStepper{it: it}
	}

	return it, nil
}

// BindRGBA aliases the iterator's channel accumulators to the caller's bin
// slices and populates the initial window. Alpha is tracked only when
// requested and the buffer actually carries an alpha channel. The returned
// count is the number of pixels in the initial window; a count of 0 means
// the window is degenerate and the caller must not proceed (after
// releasing the session).
func (it *Iterator) BindRGBA(bins histogram.RGBABins, trackAlpha bool) (*Session, int, error) {
	if it.acc != nil {
		return nil, 0, ErrAlreadyBound
	}

	track := trackAlpha && it.buf.Channels() == raster.ChannelsBGRA
	acc, err := histogram.NewRGBA(bins, track)
	if err != nil {
		return nil, 0, err
	}
	return it.bind(acc)
}

// BindLuminance aliases a single luminance accumulator to the caller's bin
// slice, collapsing samples through the weighting selected by mode, and
// populates the initial window.
func (it *Iterator) BindLuminance(bins []uint32, mode histogram.LuminanceMode) (*Session, int, error) {
	if it.acc != nil {
		return nil, 0, ErrAlreadyBound
	}

	acc, err := histogram.NewLuminance(bins, mode)
	if err != nil {
		return nil, 0, err
	}
	return it.bind(acc)
}

func (it *Iterator) bind(acc *histogram.Accumulator) (*Session, int, error) {
	it.acc = acc
	it.x = it.initX
	it.y = it.initY
	count := it.steps.populate()
	return &Session{it: it}, count, nil
}

// X returns the current window-center column.
func (it *Iterator) X() int { return it.x }

// Y returns the current window-center row.
func (it *Iterator) Y() int { return it.y }

// Count returns the number of pixels currently inside the window.
func (it *Iterator) Count() int {
	if it.acc == nil {
		return 0
	}
	return it.acc.Count()
}

// StepRight moves the window center one column right and returns the
// updated pixel count. Moves on a released iterator return 0.
func (it *Iterator) StepRight() int {
	if it.acc == nil {
		return 0
	}
	it.x++
	return it.steps.stepRight()
}

// StepLeft moves the window center one column left. It mirrors StepRight
// with the leading and trailing edge roles swapped, which enables
// serpentine horizontal scans.
func (it *Iterator) StepLeft() int {
	if it.acc == nil {
		return 0
	}
	it.x--
	return it.steps.stepLeft()
}

// StepDown moves the window center one row down: the top edge trails, the
// bottom edge leads.
func (it *Iterator) StepDown() int {
	if it.acc == nil {
		return 0
	}
	it.y++
	return it.steps.stepDown()
}

// StepUp moves the window center one row up. Not a code mirror of
// StepDown: the boundary tables are indexed by fixed top/bottom roles, so
// moving up makes the bottom table locate entering pixels' counterparts
// leaving below while the top table locates the pixels entering above.
func (it *Iterator) StepUp() int {
	if it.acc == nil {
		return 0
	}
	it.y--
	return it.steps.stepUp()
}

// include samples (x, y) from the buffer and counts it into the bins.
func (it *Iterator) include(x, y int) {
	it.acc.Add(it.buf.Sample(x, y))
}

// exclude samples (x, y) from the buffer and un-counts it from the bins.
func (it *Iterator) exclude(x, y int) {
	it.acc.Remove(it.buf.Sample(x, y))
}

// Session guards one bind. Releasing it un-aliases the caller's bin slices
// and detaches the accumulator; it is idempotent so it can be deferred
// unconditionally around the caller's whole region-processing routine.
type Session struct {
	it *Iterator
}

// Release un-aliases the bound histogram arrays. After release the
// caller's slices are free to be resized or discarded, and further moves
// on the iterator return 0.
func (s *Session) Release() {
	if s == nil || s.it == nil {
		return
	}
	if s.it.acc != nil {
		s.it.acc.Release()
		s.it.acc = nil
	}
	s.it = nil
}
