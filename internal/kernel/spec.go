package kernel

// Shape selects the kernel geometry used by the sliding window.
type Shape int

const (
	// ShapeRectangle covers the full kernel bounding box. Its mask is
	// implicit and never materialized.
	ShapeRectangle Shape = iota

	// ShapeCircle is a filled ellipse inscribed in the kernel bounding box.
	ShapeCircle
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeRectangle:
		return "rectangle"
	case ShapeCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Spec describes a kernel: its shape and the four radii extending from the
// window center. Width and Height of the bounding box are always odd and
// at least 1.
type Spec struct {
	Shape   Shape
	XLeft   int
	XRight  int
	YTop    int
	YBottom int
}

// NewSpec creates a symmetric kernel spec with the given per-axis radii.
// Negative radii are treated as zero.
func NewSpec(shape Shape, xRadius, yRadius int) Spec {
	if xRadius < 0 {
		xRadius = 0
	}
	if yRadius < 0 {
		yRadius = 0
	}
	return Spec{
		Shape:   shape,
		XLeft:   xRadius,
		XRight:  xRadius,
		YTop:    yRadius,
		YBottom: yRadius,
	}
}

// ClampTo shrinks the kernel so it never exceeds an image of the given
// extent. When a radius exceeds the image extent on its axis, both sides of
// that axis are forced to the clamped value: the requested size is
// sacrificed for an always-valid, centered-as-possible window.
func (s Spec) ClampTo(width, height int) Spec {
	maxX := width - 1
	if maxX < 0 {
		maxX = 0
	}
	if s.XLeft > maxX || s.XRight > maxX {
		s.XLeft = maxX
		s.XRight = maxX
	}

	maxY := height - 1
	if maxY < 0 {
		maxY = 0
	}
	if s.YTop > maxY || s.YBottom > maxY {
		s.YTop = maxY
		s.YBottom = maxY
	}

	return s
}

// Width returns the kernel bounding box width in pixels.
func (s Spec) Width() int { return s.XLeft + s.XRight + 1 }

// Height returns the kernel bounding box height in pixels.
func (s Spec) Height() int { return s.YTop + s.YBottom + 1 }

// Rasterize produces the shape mask for this spec. Rectangle kernels have
// no materialized mask and return nil. Circle kernels are rasterized as a
// filled inscribed ellipse; antialiased coverage is requested when the
// kernel is very small (either axis at most 3 px), where a hard-edged fill
// can degenerate to a near-empty mask.
func (s Spec) Rasterize(r EllipseRasterizer) (*Mask, error) {
	if s.Shape == ShapeRectangle {
		return nil, nil
	}

	antialias := s.Width() <= 3 || s.Height() <= 3
	mask, err := r.FillEllipse(s.Width(), s.Height(), antialias)
	if err != nil {
		return nil, err
	}

	// The window center is always a kernel member. Rasterizers can miss
	// that single cell for degenerate radii.
	if !mask.Inside(s.XLeft, s.YTop) {
		mask.Set(s.XLeft, s.YTop, 255)
	}

	return mask, nil
}
