package kernel

import (
	"errors"
	"fmt"
)

// ErrNonConvexMask reports a mask whose intersection with some row or
// column is not a single contiguous run. Incremental window movement
// relies on exactly one pixel entering and one leaving per scanned line,
// which only holds for row/column-convex masks.
var ErrNonConvexMask = errors.New("mask is not row/column convex")

// BoundaryTable holds, for every row and column of a kernel mask, the
// offset of the outermost member pixel on that line. Offsets are relative
// to the kernel center, so a window centered at (cx, cy) has its row-j
// span at image columns [cx+XLeft[j], cx+XRight[j]].
//
// A line with no member pixels falls back to offset 0 (the center). That
// value is a defensive default rather than a geometric one; it cannot
// occur for a filled convex shape inscribed in its own bounding box.
type BoundaryTable struct {
	XLeft   []int // per mask row, leftmost member offset
	XRight  []int // per mask row, rightmost member offset
	YTop    []int // per mask column, topmost member offset
	YBottom []int // per mask column, bottommost member offset
}

// NewBoundaryTable derives the boundary offsets of mask under spec.
// It rejects masks that violate row/column convexity.
func NewBoundaryTable(m *Mask, spec Spec) (*BoundaryTable, error) {
	if m == nil {
		return nil, fmt.Errorf("boundary table requires a materialized mask")
	}
	if m.Width() != spec.Width() || m.Height() != spec.Height() {
		return nil, fmt.Errorf("mask size %dx%d does not match kernel box %dx%d",
			m.Width(), m.Height(), spec.Width(), spec.Height())
	}

	t := &BoundaryTable{
		XLeft:   make([]int, m.Height()),
		XRight:  make([]int, m.Height()),
		YTop:    make([]int, m.Width()),
		YBottom: make([]int, m.Width()),
	}

	for y := 0; y < m.Height(); y++ {
		first, last, err := lineRun(m.Width(), func(x int) bool { return m.Inside(x, y) })
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", y, err)
		}
		if first < 0 {
			t.XLeft[y], t.XRight[y] = 0, 0
			continue
		}
		t.XLeft[y] = first - spec.XLeft
		t.XRight[y] = last - spec.XLeft
	}

	for x := 0; x < m.Width(); x++ {
		first, last, err := lineRun(m.Height(), func(y int) bool { return m.Inside(x, y) })
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", x, err)
		}
		if first < 0 {
			t.YTop[x], t.YBottom[x] = 0, 0
			continue
		}
		t.YTop[x] = first - spec.YTop
		t.YBottom[x] = last - spec.YTop
	}

	return t, nil
}

// lineRun locates the single contiguous run of member cells along one
// line. It returns first = -1 for an empty line and ErrNonConvexMask when
// members reappear after the run ended.
func lineRun(length int, member func(i int) bool) (first, last int, err error) {
	first, last = -1, -1
	for i := 0; i < length; i++ {
		if member(i) {
			if first < 0 {
				first = i
			} else if last != i-1 {
				return 0, 0, ErrNonConvexMask
			}
			last = i
		}
	}
	return first, last, nil
}
