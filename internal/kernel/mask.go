package kernel

import "fmt"

// Mask is a byte grid over a kernel bounding box. A non-zero cell means the
// pixel at that kernel-local offset belongs to the kernel. Antialiased
// rasterization stores partial coverage values; membership is still simply
// "non-zero".
type Mask struct {
	width  int
	height int
	data   []uint8
}

// NewMask creates an all-zero mask of the given dimensions.
func NewMask(width, height int) *Mask {
	return &Mask{
		width:  width,
		height: height,
		data:   make([]uint8, width*height),
	}
}

// MaskFromBytes wraps an existing row-major byte grid, such as one
// extracted from a rendered grayscale Mat.
func MaskFromBytes(data []uint8, width, height int) (*Mask, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("degenerate mask dimensions: %dx%d", width, height)
	}
	if len(data) < width*height {
		return nil, fmt.Errorf("mask data too short: have %d bytes, need %d", len(data), width*height)
	}
	return &Mask{width: width, height: height, data: data[:width*height]}, nil
}

// Width returns the mask width.
func (m *Mask) Width() int { return m.width }

// Height returns the mask height.
func (m *Mask) Height() int { return m.height }

// At returns the coverage value at (x, y), or 0 outside the mask.
func (m *Mask) At(x, y int) uint8 {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return 0
	}
	return m.data[y*m.width+x]
}

// Set stores a coverage value at (x, y). Out-of-bounds writes are ignored.
func (m *Mask) Set(x, y int, value uint8) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.data[y*m.width+x] = value
}

// Inside reports whether (x, y) is a member of the kernel.
func (m *Mask) Inside(x, y int) bool {
	return m.At(x, y) != 0
}

// Coverage returns the number of member cells.
func (m *Mask) Coverage() int {
	count := 0
	for _, v := range m.data {
		if v != 0 {
			count++
		}
	}
	return count
}

// Data returns the underlying row-major byte grid.
func (m *Mask) Data() []uint8 {
	return m.data
}
