package window

// maskStepper tracks an arbitrarily shaped window through its rasterized
// mask. No full line is guaranteed to enter or leave uniformly, so each
// move scans the kernel's rows (horizontal moves) or columns (vertical
// moves) and uses the boundary table to locate the single pixel per line
// that enters and the single pixel that leaves. Row/column convexity of
// the mask guarantees exactly one of each; both positions are
// bounds-checked independently so the window shrinks naturally at image
// edges.
type maskStepper struct {
	it *Iterator
}

// populate counts the mask-member pixels of the initial window anchored at
// the image origin. Candidate coordinates are translated into kernel-local
// mask coordinates before the membership test.
func (m *maskStepper) populate() int {
	it := m.it
	for y := it.initY; y <= it.initY+it.spec.YBottom; y++ {
		ly := y - it.y + it.spec.YTop
		for x := it.initX; x <= it.initX+it.spec.XRight; x++ {
			lx := x - it.x + it.spec.XLeft
			if it.mask.Inside(lx, ly) {
				it.include(x, y)
			}
		}
	}
	return it.acc.Count()
}

func (m *maskStepper) stepRight() int {
	it := m.it
	for j := 0; j < it.spec.Height(); j++ {
		row := it.y - it.spec.YTop + j
		if row < it.initY || row > it.finalY {
			continue
		}

		if leaving := it.x - 1 + it.bounds.XLeft[j]; leaving >= it.initX && leaving <= it.finalX {
			it.exclude(leaving, row)
		}
		if entering := it.x + it.bounds.XRight[j]; entering >= it.initX && entering <= it.finalX {
			it.include(entering, row)
		}
	}
	return it.acc.Count()
}

func (m *maskStepper) stepLeft() int {
	it := m.it
	for j := 0; j < it.spec.Height(); j++ {
		row := it.y - it.spec.YTop + j
		if row < it.initY || row > it.finalY {
			continue
		}

		if leaving := it.x + 1 + it.bounds.XRight[j]; leaving >= it.initX && leaving <= it.finalX {
			it.exclude(leaving, row)
		}
		if entering := it.x + it.bounds.XLeft[j]; entering >= it.initX && entering <= it.finalX {
			it.include(entering, row)
		}
	}
	return it.acc.Count()
}

func (m *maskStepper) stepDown() int {
	it := m.it
	for i := 0; i < it.spec.Width(); i++ {
		col := it.x - it.spec.XLeft + i
		if col < it.initX || col > it.finalX {
			continue
		}

		if leaving := it.y - 1 + it.bounds.YTop[i]; leaving >= it.initY && leaving <= it.finalY {
			it.exclude(col, leaving)
		}
		if entering := it.y + it.bounds.YBottom[i]; entering >= it.initY && entering <= it.finalY {
			it.include(col, entering)
		}
	}
	return it.acc.Count()
}

func (m *maskStepper) stepUp() int {
	it := m.it
	for i := 0; i < it.spec.Width(); i++ {
		col := it.x - it.spec.XLeft + i
		if col < it.initX || col > it.finalX {
			continue
		}

		if leaving := it.y + 1 + it.bounds.YBottom[i]; leaving >= it.initY && leaving <= it.finalY {
			it.exclude(col, leaving)
		}
		if entering := it.y + it.bounds.YTop[i]; entering >= it.initY && entering <= it.finalY {
			it.include(col, entering)
		}
	}
	return it.acc.Count()
}
