package opencv

import (
	"fmt"

	"gocv.io/x/gocv"

	"slidewin/internal/raster"
)

// BufferFromMat copies an 8-bit Mat into a tightly packed buffer view.
// Supported layouts are single-channel grayscale, BGR and BGRA, which map
// directly onto the buffer's fixed channel order.
func BufferFromMat(mat gocv.Mat) (*raster.Buffer, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("source Mat is empty")
	}

	width := mat.Cols()
	height := mat.Rows()
	channels := mat.Channels()

	switch mat.Type() {
	case gocv.MatTypeCV8UC1, gocv.MatTypeCV8UC3, gocv.MatTypeCV8UC4:
	default:
		return nil, fmt.Errorf("unsupported Mat type %d, need 8-bit 1/3/4 channel", mat.Type())
	}

	src := mat.ToBytes()
	if len(src) < width*height*channels {
		return nil, fmt.Errorf("Mat data too short: have %d bytes, need %d", len(src), width*height*channels)
	}

	data := make([]uint8, width*height*channels)
	copy(data, src)

	return raster.New(data, width, height, width*channels, channels)
}

// ReadImage loads an image file through OpenCV into a BGR buffer view.
func ReadImage(path string) (*raster.Buffer, error) {
	mat := gocv.IMRead(path, gocv.IMReadColor)
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("could not read image %q", path)
	}

	return BufferFromMat(mat)
}
