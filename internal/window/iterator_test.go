package window

import (
	"errors"
	"testing"

	"slidewin/internal/histogram"
	"slidewin/internal/kernel"
	"slidewin/internal/raster"
)

// testBuffer builds a deterministic BGRA buffer so every test run sees the
// same pixel values.
func testBuffer(t *testing.T, width, height int) *raster.Buffer {
	t.Helper()
	data := make([]uint8, width*height*4)
	for i := range data {
		data[i] = uint8((i*31 + 7) % 251)
	}
	buf, err := raster.New(data, width, height, width*4, raster.ChannelsBGRA)
	if err != nil {
		t.Fatalf("test buffer: %v", err)
	}
	return buf
}

// oracle recomputes window state from scratch: the ground truth the
// incremental updates must match exactly.
type oracle struct {
	buf  *raster.Buffer
	spec kernel.Spec
	mask *kernel.Mask // nil for rectangles
}

func newOracle(t *testing.T, buf *raster.Buffer, spec kernel.Spec, r kernel.EllipseRasterizer) oracle {
	t.Helper()
	spec = spec.ClampTo(buf.Width(), buf.Height())
	o := oracle{buf: buf, spec: spec}
	if spec.Shape == kernel.ShapeCircle {
		mask, err := spec.Rasterize(r)
		if err != nil {
			t.Fatalf("oracle rasterization: %v", err)
		}
		o.mask = mask
	}
	return o
}

func (o oracle) window(cx, cy int) (bins histogram.RGBABins, count int) {
	bins = histogram.RGBABins{
		R: make([]uint32, histogram.Bins),
		G: make([]uint32, histogram.Bins),
		B: make([]uint32, histogram.Bins),
		A: make([]uint32, histogram.Bins),
	}
	for dy := -o.spec.YTop; dy <= o.spec.YBottom; dy++ {
		for dx := -o.spec.XLeft; dx <= o.spec.XRight; dx++ {
			x, y := cx+dx, cy+dy
			if x < 0 || x >= o.buf.Width() || y < 0 || y >= o.buf.Height() {
				continue
			}
			if o.mask != nil && !o.mask.Inside(dx+o.spec.XLeft, dy+o.spec.YTop) {
				continue
			}
			bl, gr, rd, al := o.buf.Sample(x, y)
			bins.B[bl]++
			bins.G[gr]++
			bins.R[rd]++
			bins.A[al]++
			count++
		}
	}
	return bins, count
}

func requireStateMatches(t *testing.T, o oracle, got histogram.RGBABins, gotCount, cx, cy int) {
	t.Helper()
	want, wantCount := o.window(cx, cy)
	if gotCount != wantCount {
		t.Fatalf("at (%d,%d): count %d, batch recomputation gives %d", cx, cy, gotCount, wantCount)
	}
	for i := 0; i < histogram.Bins; i++ {
		if got.R[i] != want.R[i] || got.G[i] != want.G[i] || got.B[i] != want.B[i] || got.A[i] != want.A[i] {
			t.Fatalf("at (%d,%d): bin %d diverges from batch recomputation", cx, cy, i)
		}
	}
}

// driveSerpentine walks the whole image in serpentine column order,
// checking the incremental state against the oracle at every position,
// then backtracks along the last row with left steps.
func driveSerpentine(t *testing.T, it *Iterator, o oracle, bins histogram.RGBABins, width, height int) {
	t.Helper()
	requireStateMatches(t, o, bins, it.Count(), it.X(), it.Y())

	descending := true
	for x := 0; x < width; x++ {
		steps := height - 1
		for s := 0; s < steps; s++ {
			if descending {
				it.StepDown()
			} else {
				it.StepUp()
			}
			requireStateMatches(t, o, bins, it.Count(), it.X(), it.Y())
		}
		if x < width-1 {
			it.StepRight()
			requireStateMatches(t, o, bins, it.Count(), it.X(), it.Y())
		}
		descending = !descending
	}

	for it.X() > 0 {
		it.StepLeft()
		requireStateMatches(t, o, bins, it.Count(), it.X(), it.Y())
	}
}

func bindRGBA(t *testing.T, it *Iterator) (histogram.RGBABins, *Session, int) {
	t.Helper()
	bins := histogram.RGBABins{
		R: make([]uint32, histogram.Bins),
		G: make([]uint32, histogram.Bins),
		B: make([]uint32, histogram.Bins),
		A: make([]uint32, histogram.Bins),
	}
	session, count, err := it.BindRGBA(bins, true)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	return bins, session, count
}

func TestNewNilBuffer(t *testing.T) {
	if _, err := New(nil, kernel.NewSpec(kernel.ShapeRectangle, 1, 1)); !errors.Is(err, ErrNilBuffer) {
		t.Errorf("expected ErrNilBuffer, got %v", err)
	}
}

func TestScenario4x4(t *testing.T) {
	buf := testBuffer(t, 4, 4)
	it, err := New(buf, kernel.NewSpec(kernel.ShapeRectangle, 1, 1))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, session, count := bindRGBA(t, it)
	defer session.Release()

	if count != 4 {
		t.Errorf("initial top-left 2x2 window: expected count 4, got %d", count)
	}
	if count = it.StepRight(); count != 6 {
		t.Errorf("after one right step: expected count 6, got %d", count)
	}
	if count = it.StepDown(); count != 9 {
		t.Errorf("after one down step: expected count 9, got %d", count)
	}
}

func TestRectangleIncrementalMatchesBatch(t *testing.T) {
	buf := testBuffer(t, 7, 5)
	spec := kernel.NewSpec(kernel.ShapeRectangle, 2, 1)

	it, err := New(buf, spec)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	bins, session, _ := bindRGBA(t, it)
	defer session.Release()

	o := newOracle(t, buf, spec, kernel.VectorRasterizer{})
	driveSerpentine(t, it, o, bins, buf.Width(), buf.Height())
}

func TestCircleIncrementalMatchesBatch(t *testing.T) {
	buf := testBuffer(t, 9, 8)
	spec := kernel.NewSpec(kernel.ShapeCircle, 3, 3)

	it, err := New(buf, spec)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	bins, session, _ := bindRGBA(t, it)
	defer session.Release()

	o := newOracle(t, buf, spec, kernel.VectorRasterizer{})
	driveSerpentine(t, it, o, bins, buf.Width(), buf.Height())
}

func TestTinyCircleIncrementalMatchesBatch(t *testing.T) {
	buf := testBuffer(t, 5, 5)
	spec := kernel.NewSpec(kernel.ShapeCircle, 1, 1)

	it, err := New(buf, spec)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	bins, session, _ := bindRGBA(t, it)
	defer session.Release()

	o := newOracle(t, buf, spec, kernel.VectorRasterizer{})
	driveSerpentine(t, it, o, bins, buf.Width(), buf.Height())
}

// plusRasterizer is a stub shape renderer producing a plus-shaped convex
// mask, exercising the strategy injection path with a non-elliptical
// kernel.
type plusRasterizer struct{}

func (plusRasterizer) FillEllipse(width, height int, _ bool) (*kernel.Mask, error) {
	m := kernel.NewMask(width, height)
	cx, cy := width/2, height/2
	for x := 0; x < width; x++ {
		m.Set(x, cy, 255)
	}
	for y := 0; y < height; y++ {
		m.Set(cx, y, 255)
	}
	return m, nil
}

func TestCustomMaskIncrementalMatchesBatch(t *testing.T) {
	buf := testBuffer(t, 6, 7)
	spec := kernel.NewSpec(kernel.ShapeCircle, 2, 2)

	it, err := NewWithRasterizer(buf, spec, plusRasterizer{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	bins, session, _ := bindRGBA(t, it)
	defer session.Release()

	o := newOracle(t, buf, spec, plusRasterizer{})
	driveSerpentine(t, it, o, bins, buf.Width(), buf.Height())
}

// nonConvexRasterizer produces a mask with a hole in a row.
type nonConvexRasterizer struct{}

func (nonConvexRasterizer) FillEllipse(width, height int, _ bool) (*kernel.Mask, error) {
	m := kernel.NewMask(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			m.Set(x, y, 255)
		}
	}
	m.Set(width/2, 0, 0) // puncture the top row
	return m, nil
}

func TestNonConvexMaskRejected(t *testing.T) {
	buf := testBuffer(t, 8, 8)
	spec := kernel.NewSpec(kernel.ShapeCircle, 2, 2)

	if _, err := NewWithRasterizer(buf, spec, nonConvexRasterizer{}); !errors.Is(err, kernel.ErrNonConvexMask) {
		t.Errorf("expected ErrNonConvexMask, got %v", err)
	}
}

func TestCircleContainment(t *testing.T) {
	buf := testBuffer(t, 9, 9)
	spec := kernel.NewSpec(kernel.ShapeCircle, 3, 3)

	it, err := New(buf, spec)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, session, _ := bindRGBA(t, it)
	defer session.Release()

	o := newOracle(t, buf, spec, kernel.VectorRasterizer{})
	limit := o.mask.Coverage()

	// Walk the window to the interior; the count must never exceed the
	// mask coverage, and in the interior it must equal it exactly.
	for i := 0; i < 4; i++ {
		it.StepRight()
		if it.Count() > limit {
			t.Fatalf("count %d exceeds mask coverage %d", it.Count(), limit)
		}
	}
	for i := 0; i < 4; i++ {
		it.StepDown()
		if it.Count() > limit {
			t.Fatalf("count %d exceeds mask coverage %d", it.Count(), limit)
		}
	}
	if it.Count() != limit {
		t.Errorf("interior window should cover the whole mask: count %d, coverage %d", it.Count(), limit)
	}
}

func TestMonotonicEdgeShrink(t *testing.T) {
	buf := testBuffer(t, 8, 8)
	spec := kernel.NewSpec(kernel.ShapeRectangle, 2, 2)

	it, err := New(buf, spec)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, session, count := bindRGBA(t, it)
	defer session.Release()

	area := spec.Width() * spec.Height()
	corner := (spec.XRight + 1) * (spec.YBottom + 1)
	if count != corner {
		t.Errorf("corner window: expected %d pixels, got %d", corner, count)
	}

	// Move to the interior: the full kernel fits.
	for i := 0; i < 3; i++ {
		it.StepRight()
	}
	for i := 0; i < 3; i++ {
		it.StepDown()
	}
	if it.Count() != area {
		t.Errorf("interior window: expected %d pixels, got %d", area, it.Count())
	}

	// Slide against the right border: every step near the edge shrinks
	// the window, never beyond the full kernel area.
	prev := it.Count()
	for it.X() < buf.Width()-1 {
		n := it.StepRight()
		if n > area {
			t.Fatalf("count %d exceeded kernel area %d", n, area)
		}
		if it.X() > buf.Width()-1-spec.XRight && n >= prev {
			t.Fatalf("window did not shrink at border: %d -> %d", prev, n)
		}
		prev = n
	}
}

func TestLuminanceSessionConservesCount(t *testing.T) {
	buf := testBuffer(t, 6, 6)
	it, err := New(buf, kernel.NewSpec(kernel.ShapeRectangle, 1, 2))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	bins := make([]uint32, histogram.Bins)
	session, count, err := it.BindLuminance(bins, histogram.LuminanceHighQuality)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	defer session.Release()

	check := func(want int) {
		t.Helper()
		total := 0
		for _, n := range bins {
			total += int(n)
		}
		if total != want {
			t.Fatalf("bin total %d does not match pixel count %d", total, want)
		}
	}

	check(count)
	check(it.StepRight())
	check(it.StepDown())
	check(it.StepDown())
	check(it.StepUp())
	check(it.StepLeft())
}

func TestDoubleBindRejected(t *testing.T) {
	buf := testBuffer(t, 4, 4)
	it, err := New(buf, kernel.NewSpec(kernel.ShapeRectangle, 1, 1))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, session, _ := bindRGBA(t, it)
	defer session.Release()

	if _, _, err := it.BindLuminance(make([]uint32, histogram.Bins), histogram.LuminanceValue); !errors.Is(err, ErrAlreadyBound) {
		t.Errorf("expected ErrAlreadyBound, got %v", err)
	}
}

func TestMovesAfterReleaseReturnZero(t *testing.T) {
	buf := testBuffer(t, 4, 4)
	it, err := New(buf, kernel.NewSpec(kernel.ShapeRectangle, 1, 1))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	bins, session, _ := bindRGBA(t, it)
	session.Release()
	session.Release() // deferred double release must be safe

	if n := it.StepRight(); n != 0 {
		t.Errorf("move after release should return 0, got %d", n)
	}

	// The caller's arrays are theirs again; the dead iterator must not
	// touch them.
	before := make([]uint32, histogram.Bins)
	copy(before, bins.R)
	it.StepDown()
	for i := range bins.R {
		if bins.R[i] != before[i] {
			t.Fatal("released iterator mutated caller bins")
		}
	}
}

func TestAlphaOnlyTrackedOnBGRA(t *testing.T) {
	// BGR source: alpha bins are not required even when requested.
	data := make([]uint8, 4*4*3)
	buf, err := raster.New(data, 4, 4, 12, raster.ChannelsBGR)
	if err != nil {
		t.Fatalf("buffer: %v", err)
	}

	it, err := New(buf, kernel.NewSpec(kernel.ShapeRectangle, 1, 1))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	bins := histogram.RGBABins{
		R: make([]uint32, histogram.Bins),
		G: make([]uint32, histogram.Bins),
		B: make([]uint32, histogram.Bins),
	}
	session, count, err := it.BindRGBA(bins, true)
	if err != nil {
		t.Fatalf("bind on BGR with alpha requested: %v", err)
	}
	defer session.Release()

	if count != 4 {
		t.Errorf("expected count 4, got %d", count)
	}
}

func TestKernelClampedToImage(t *testing.T) {
	buf := testBuffer(t, 3, 3)
	it, err := New(buf, kernel.NewSpec(kernel.ShapeRectangle, 10, 10))
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	_, session, count := bindRGBA(t, it)
	defer session.Release()

	// Radii clamp to 2, so the origin window is the 3x3 bottom-right
	// quadrant of the 5x5 kernel.
	if count != 9 {
		t.Errorf("expected count 9 after clamping, got %d", count)
	}
}
