package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"strings"
	"testing"
)

func TestEncodePreview_RoundTrip(t *testing.T) {
	g := Grid{Rows: 2, Cols: 3, Data: []float64{-200, -160, 0, 40, 240, 500}}

	uri, ok := EncodePreview(&g, 40, 400, 0)
	if !ok {
		t.Fatal("Expected an image, got no-image signal")
	}
	if !strings.HasPrefix(uri, DataURIPrefix) {
		t.Fatalf("Preview missing data URI prefix: %.40s", uri)
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, DataURIPrefix))
	if err != nil {
		t.Fatalf("Base64 decode failed: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("PNG decode failed: %v", err)
	}

	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 2 {
		t.Fatalf("Decoded size %dx%d, want 3x2", img.Bounds().Dx(), img.Bounds().Dy())
	}

	want, err := Normalize(g, 40, 400)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	gray, ok := img.(*image.Gray)
	if !ok {
		t.Fatalf("Expected *image.Gray, got %T", img)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			got := gray.GrayAt(x, y).Y
			if got != want.Pix[y*3+x] {
				t.Errorf("Pixel (%d,%d) = %d, want %d", x, y, got, want.Pix[y*3+x])
			}
		}
	}
}

func TestEncodePreview_NoImage(t *testing.T) {
	if uri, ok := EncodePreview(nil, 40, 400, 0); ok || uri != "" {
		t.Errorf("nil grid: expected no-image signal, got ok=%v uri=%q", ok, uri)
	}

	empty := Grid{}
	if _, ok := EncodePreview(&empty, 40, 400, 0); ok {
		t.Error("empty grid: expected no-image signal")
	}
}

func TestEncodePreview_ZeroWidthFallsBack(t *testing.T) {
	g := Grid{Rows: 1, Cols: 4, Data: []float64{0, 64, 128, 255}}

	uri, ok := EncodePreview(&g, 40, 0, 0)
	if !ok {
		t.Fatal("Zero window width should fall back to raw cast, not drop the image")
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, DataURIPrefix))
	if err != nil {
		t.Fatalf("Base64 decode failed: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("PNG decode failed: %v", err)
	}

	gray := img.(*image.Gray)
	want := RawCast(g)
	for x := 0; x < 4; x++ {
		if gray.GrayAt(x, 0).Y != want.Pix[x] {
			t.Errorf("Pixel %d = %d, want raw cast value %d", x, gray.GrayAt(x, 0).Y, want.Pix[x])
		}
	}
}

func TestEncodePreview_Downscale(t *testing.T) {
	g := Grid{Rows: 64, Cols: 128, Data: make([]float64, 64*128)}

	uri, ok := EncodePreview(&g, 40, 400, 32)
	if !ok {
		t.Fatal("Expected an image")
	}

	raw, _ := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, DataURIPrefix))
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("PNG decode failed: %v", err)
	}

	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 16 {
		t.Errorf("Downscaled size %dx%d, want 32x16", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestGridFromImage_Gray16(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 2, 2))
	src.Pix = []uint8{0x01, 0x00, 0x02, 0x00, 0x03, 0x00, 0x04, 0x00} // 256, 512, 768, 1024

	g := GridFromImage(src)

	if g.Rows != 2 || g.Cols != 2 {
		t.Fatalf("Grid size %dx%d, want 2x2", g.Rows, g.Cols)
	}
	want := []float64{256, 512, 768, 1024}
	for i, w := range want {
		if g.Data[i] != w {
			t.Errorf("Sample %d = %g, want %g", i, g.Data[i], w)
		}
	}
}
