package window

// rectStepper tracks a rectangular window. Every move shifts one whole
// edge line out of the window and one in, clamped to the image on the
// orthogonal axis, so a step costs O(perimeter) instead of O(area).
type rectStepper struct {
	it *Iterator
}

// populate counts the initial window anchored at the image origin. Only
// the bottom-right quadrant of the kernel is on-image, so the loop runs
// rows [initY, initY+YBottom] and columns [initX, initX+XRight]. The radii
// are pre-clamped to the image, so no further bounds checks are needed.
func (r *rectStepper) populate() int {
	it := r.it
	for y := it.initY; y <= it.initY+it.spec.YBottom; y++ {
		for x := it.initX; x <= it.initX+it.spec.XRight; x++ {
			it.include(x, y)
		}
	}
	return it.acc.Count()
}

// rowSpan returns the in-image vertical extent of the window.
func (r *rectStepper) rowSpan() (lo, hi int) {
	it := r.it
	lo = it.y - it.spec.YTop
	if lo < it.initY {
		lo = it.initY
	}
	hi = it.y + it.spec.YBottom
	if hi > it.finalY {
		hi = it.finalY
	}
	return lo, hi
}

// colSpan returns the in-image horizontal extent of the window.
func (r *rectStepper) colSpan() (lo, hi int) {
	it := r.it
	lo = it.x - it.spec.XLeft
	if lo < it.initX {
		lo = it.initX
	}
	hi = it.x + it.spec.XRight
	if hi > it.finalX {
		hi = it.finalX
	}
	return lo, hi
}

func (r *rectStepper) stepRight() int {
	it := r.it
	lowY, highY := r.rowSpan()

	if trailing := it.x - it.spec.XLeft - 1; trailing >= it.initX {
		for y := lowY; y <= highY; y++ {
			it.exclude(trailing, y)
		}
	}
	if leading := it.x + it.spec.XRight; leading <= it.finalX {
		for y := lowY; y <= highY; y++ {
			it.include(leading, y)
		}
	}
	return it.acc.Count()
}

func (r *rectStepper) stepLeft() int {
	it := r.it
	lowY, highY := r.rowSpan()

	if trailing := it.x + it.spec.XRight + 1; trailing <= it.finalX {
		for y := lowY; y <= highY; y++ {
			it.exclude(trailing, y)
		}
	}
	if leading := it.x - it.spec.XLeft; leading >= it.initX {
		for y := lowY; y <= highY; y++ {
			it.include(leading, y)
		}
	}
	return it.acc.Count()
}

func (r *rectStepper) stepDown() int {
	it := r.it
	lowX, highX := r.colSpan()

	if trailing := it.y - it.spec.YTop - 1; trailing >= it.initY {
		for x := lowX; x <= highX; x++ {
			it.exclude(x, trailing)
		}
	}
	if leading := it.y + it.spec.YBottom; leading <= it.finalY {
		for x := lowX; x <= highX; x++ {
			it.include(x, leading)
		}
	}
	return it.acc.Count()
}

func (r *rectStepper) stepUp() int {
	it := r.it
	lowX, highX := r.colSpan()

	if trailing := it.y + it.spec.YBottom + 1; trailing <= it.finalY {
		for x := lowX; x <= highX; x++ {
			it.exclude(x, trailing)
		}
	}
	if leading := it.y - it.spec.YTop; leading >= it.initY {
		for x := lowX; x <= highX; x++ {
			it.include(x, leading)
		}
	}
	return it.acc.Count()
}
