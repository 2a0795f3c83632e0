package raster

import (
	"fmt"
	"image"
)

// Channel counts accepted by Buffer. Multi-channel data is laid out
// B,G,R[,A] within each pixel, matching the 8-bit Mat layouts produced
// by the OpenCV-side conversion helpers.
const (
	ChannelsGray = 1
	ChannelsBGR  = 3
	ChannelsBGRA = 4
)

// Buffer is a non-owning, read-only view over an externally owned raster.
// The backing slice belongs to the caller and must stay valid and unmodified
// for as long as the Buffer is in use. A Buffer never writes pixels.
type Buffer struct {
	data     []uint8
	width    int
	height   int
	stride   int
	channels int
}

// New creates a buffer view over caller-owned pixel data.
// stride is the distance between rows in bytes; channels selects the
// per-pixel layout (1 = grayscale, 3 = BGR, 4 = BGRA, 8 bits per channel).
func New(data []uint8, width, height, stride, channels int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("degenerate buffer dimensions: %dx%d", width, height)
	}

	switch channels {
	case ChannelsGray, ChannelsBGR, ChannelsBGRA:
	default:
		return nil, fmt.Errorf("unsupported channel count: %d", channels)
	}

	if stride < width*channels {
		return nil, fmt.Errorf("stride %d too small for width %d with %d channels", stride, width, channels)
	}

	needed := stride*(height-1) + width*channels
	if len(data) < needed {
		return nil, fmt.Errorf("pixel data too short: have %d bytes, need %d", len(data), needed)
	}

	return &Buffer{
		data:     data,
		width:    width,
		height:   height,
		stride:   stride,
		channels: channels,
	}, nil
}

// FromImage converts a standard Go image into a tightly packed BGRA buffer.
// The returned buffer owns its converted copy; the source image is not
// retained. Premultiplied sources are handled through the generic color
// model path.
func FromImage(img image.Image) (*Buffer, error) {
	if img == nil {
		return nil, fmt.Errorf("input image is nil")
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("degenerate image dimensions: %dx%d", width, height)
	}

	data := make([]uint8, width*height*ChannelsBGRA)

	switch typed := img.(type) {
	case *image.NRGBA:
		for y := 0; y < height; y++ {
			src := typed.Pix[(y+bounds.Min.Y-typed.Rect.Min.Y)*typed.Stride:]
			dst := data[y*width*ChannelsBGRA:]
			for x := 0; x < width; x++ {
				si := (x + bounds.Min.X - typed.Rect.Min.X) * 4
				di := x * ChannelsBGRA
				dst[di+0] = src[si+2]
				dst[di+1] = src[si+1]
				dst[di+2] = src[si+0]
				dst[di+3] = src[si+3]
			}
		}
	case *image.Gray:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				v := typed.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y
				di := (y*width + x) * ChannelsBGRA
				data[di+0] = v
				data[di+1] = v
				data[di+2] = v
				data[di+3] = 255
			}
		}
	default:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, g, b, a := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
				di := (y*width + x) * ChannelsBGRA
				data[di+0] = uint8(b >> 8)
				data[di+1] = uint8(g >> 8)
				data[di+2] = uint8(r >> 8)
				data[di+3] = uint8(a >> 8)
			}
		}
	}

	return New(data, width, height, width*ChannelsBGRA, ChannelsBGRA)
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Stride returns the row stride in bytes.
func (b *Buffer) Stride() int { return b.stride }

// Channels returns the number of byte channels per pixel.
func (b *Buffer) Channels() int { return b.channels }

// Sample reads the channel bytes at (x, y) without bounds checking; the
// caller guarantees coordinates are inside the buffer. Grayscale sources
// replicate the intensity across B, G and R; sources without an alpha
// channel report alpha 255.
func (b *Buffer) Sample(x, y int) (bl, gr, rd, al uint8) {
	i := y*b.stride + x*b.channels

	switch b.channels {
	case ChannelsGray:
		v := b.data[i]
		return v, v, v, 255
	case ChannelsBGR:
		return b.data[i], b.data[i+1], b.data[i+2], 255
	default:
		return b.data[i], b.data[i+1], b.data[i+2], b.data[i+3]
	}
}
