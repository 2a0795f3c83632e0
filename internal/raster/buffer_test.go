package raster

import (
	"image"
	"image/color"
	"testing"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name     string
		data     []uint8
		w, h     int
		stride   int
		channels int
	}{
		{"zero width", make([]uint8, 16), 0, 2, 8, 4},
		{"zero height", make([]uint8, 16), 2, 0, 8, 4},
		{"bad channels", make([]uint8, 16), 2, 2, 4, 2},
		{"stride too small", make([]uint8, 16), 2, 2, 4, 4},
		{"data too short", make([]uint8, 8), 2, 2, 8, 4},
	}

	for _, tt := range tests {
		if _, err := New(tt.data, tt.w, tt.h, tt.stride, tt.channels); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestSampleBGRA(t *testing.T) {
	data := []uint8{
		1, 2, 3, 4, 5, 6, 7, 8,
		9, 10, 11, 12, 13, 14, 15, 16,
	}
	buf, err := New(data, 2, 2, 8, ChannelsBGRA)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bl, gr, rd, al := buf.Sample(1, 1)
	if bl != 13 || gr != 14 || rd != 15 || al != 16 {
		t.Errorf("expected (13,14,15,16), got (%d,%d,%d,%d)", bl, gr, rd, al)
	}
}

func TestSampleBGRHasOpaqueAlpha(t *testing.T) {
	data := []uint8{10, 20, 30, 40, 50, 60}
	buf, err := New(data, 2, 1, 6, ChannelsBGR)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bl, gr, rd, al := buf.Sample(1, 0)
	if bl != 40 || gr != 50 || rd != 60 || al != 255 {
		t.Errorf("expected (40,50,60,255), got (%d,%d,%d,%d)", bl, gr, rd, al)
	}
}

func TestSampleGrayReplicates(t *testing.T) {
	data := []uint8{7, 8, 9}
	buf, err := New(data, 3, 1, 3, ChannelsGray)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bl, gr, rd, al := buf.Sample(2, 0)
	if bl != 9 || gr != 9 || rd != 9 || al != 255 {
		t.Errorf("expected (9,9,9,255), got (%d,%d,%d,%d)", bl, gr, rd, al)
	}
}

func TestSampleRespectsStride(t *testing.T) {
	// 2x2 gray image with 2 bytes of row padding.
	data := []uint8{1, 2, 0, 0, 3, 4, 0, 0}
	buf, err := New(data, 2, 2, 4, ChannelsGray)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, v, _ := buf.Sample(0, 1); v != 3 {
		t.Errorf("expected 3 at (0,1), got %d", v)
	}
}

func TestFromImageNRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	img.SetNRGBA(1, 0, color.NRGBA{R: 50, G: 60, B: 70, A: 255})

	buf, err := FromImage(img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Channels() != ChannelsBGRA {
		t.Fatalf("expected BGRA buffer, got %d channels", buf.Channels())
	}

	bl, gr, rd, al := buf.Sample(0, 0)
	if bl != 30 || gr != 20 || rd != 10 || al != 40 {
		t.Errorf("expected (30,20,10,40), got (%d,%d,%d,%d)", bl, gr, rd, al)
	}
}

func TestFromImageGray(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 1, 1))
	img.SetGray(0, 0, color.Gray{Y: 77})

	buf, err := FromImage(img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bl, gr, rd, al := buf.Sample(0, 0)
	if bl != 77 || gr != 77 || rd != 77 || al != 255 {
		t.Errorf("expected (77,77,77,255), got (%d,%d,%d,%d)", bl, gr, rd, al)
	}
}

func TestFromImageOffsetBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 7, 7))
	img.SetNRGBA(5, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 4})

	buf, err := FromImage(img)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Width() != 2 || buf.Height() != 2 {
		t.Fatalf("expected 2x2 buffer, got %dx%d", buf.Width(), buf.Height())
	}

	bl, gr, rd, al := buf.Sample(0, 0)
	if bl != 3 || gr != 2 || rd != 1 || al != 4 {
		t.Errorf("bounds offset not handled, got (%d,%d,%d,%d)", bl, gr, rd, al)
	}
}

func TestFromImageNil(t *testing.T) {
	if _, err := FromImage(nil); err == nil {
		t.Error("expected error for nil image")
	}
}
