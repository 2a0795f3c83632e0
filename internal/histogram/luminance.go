package histogram

import "math"

// LuminanceMode selects the weighting used to collapse R,G,B samples into
// a single intensity. The mode is fixed for the lifetime of a session.
type LuminanceMode int

const (
	// LuminanceValue is the fast integer Rec.601 luma.
	LuminanceValue LuminanceMode = iota

	// LuminanceHighQuality weights the channels in linear light using the
	// Rec.709 primaries, decoding and re-encoding sRGB gamma. Slower, but
	// perceptually closer to brightness.
	LuminanceHighQuality
)

// String returns the mode name.
func (m LuminanceMode) String() string {
	switch m {
	case LuminanceValue:
		return "value"
	case LuminanceHighQuality:
		return "high-quality"
	default:
		return "unknown"
	}
}

// srgbToLinear is the 8-bit sRGB decode table used by the high-quality
// weighting.
var srgbToLinear [256]float64

func init() {
	for i := range srgbToLinear {
		c := float64(i) / 255.0
		if c <= 0.04045 {
			srgbToLinear[i] = c / 12.92
		} else {
			srgbToLinear[i] = math.Pow((c+0.055)/1.055, 2.4)
		}
	}
}

// lumaValue maps R,G,B to Rec.601 luma with integer arithmetic.
func lumaValue(rd, gr, bl uint8) uint8 {
	return uint8((299*int(rd) + 587*int(gr) + 114*int(bl)) / 1000)
}

// lumaHighQuality maps R,G,B to a gamma-encoded Rec.709 luminance.
func lumaHighQuality(rd, gr, bl uint8) uint8 {
	lin := 0.2126*srgbToLinear[rd] + 0.7152*srgbToLinear[gr] + 0.0722*srgbToLinear[bl]

	var enc float64
	if lin <= 0.0031308 {
		enc = 12.92 * lin
	} else {
		enc = 1.055*math.Pow(lin, 1.0/2.4) - 0.055
	}

	v := int(enc*255.0 + 0.5)
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

// Luminance maps one R,G,B sample through the weighting selected by mode.
// It is the same mapping a luminance-bound accumulator applies to every
// sampled pixel, exposed for callers that compare single pixels against
// window statistics.
func Luminance(mode LuminanceMode, rd, gr, bl uint8) uint8 {
	return lumaFunc(mode)(rd, gr, bl)
}

// lumaFunc returns the weighting function for a mode.
func lumaFunc(mode LuminanceMode) func(rd, gr, bl uint8) uint8 {
	if mode == LuminanceHighQuality {
		return lumaHighQuality
	}
	return lumaValue
}
