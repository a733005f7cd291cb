package imaging

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func TestFlatten(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	src.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 0})
	src.SetNRGBA(1, 0, color.NRGBA{10, 20, 30, 128})
	src.SetNRGBA(2, 0, color.NRGBA{40, 50, 60, 255})

	out := Flatten(src)

	tests := []struct {
		x        int
		expected color.RGBA
	}{
		{0, color.RGBA{255, 255, 255, 255}},
		{1, color.RGBA{10, 20, 30, 255}},
		{2, color.RGBA{40, 50, 60, 255}},
	}
	for _, tt := range tests {
		if got := out.RGBAAt(tt.x, 0); got != tt.expected {
			t.Errorf("pixel %d = %v, expected %v", tt.x, got, tt.expected)
		}
	}
}

func TestFlattenOffsetBounds(t *testing.T) {
	src := image.NewGray(image.Rect(5, 5, 7, 8))
	out := Flatten(src)
	if out.Bounds() != image.Rect(0, 0, 2, 3) {
		t.Errorf("Bounds = %v, expected origin-based 2x3", out.Bounds())
	}
}

func TestCrop(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 50))
	src.SetRGBA(10, 10, color.RGBA{255, 0, 0, 255})

	tests := []struct {
		name     string
		r        image.Rectangle
		expected image.Rectangle
	}{
		{"inside", image.Rect(10, 10, 30, 20), image.Rect(0, 0, 20, 10)},
		{"left overflow", image.Rect(-20, 0, 30, 50), image.Rect(0, 0, 30, 50)},
		{"right overflow", image.Rect(90, 40, 140, 90), image.Rect(0, 0, 10, 10)},
	}

	for _, tt := range tests {
		out, err := Crop(src, tt.r)
		if err != nil {
			t.Fatalf("%s: Crop failed: %v", tt.name, err)
		}
		if out.Bounds() != tt.expected {
			t.Errorf("%s: Bounds = %v, expected %v", tt.name, out.Bounds(), tt.expected)
		}
	}

	out, _ := Crop(src, image.Rect(10, 10, 30, 20))
	if got := out.RGBAAt(0, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("cropped pixel = %v, expected red", got)
	}

	if _, err := Crop(src, image.Rect(200, 200, 300, 300)); err == nil {
		t.Error("expected an error for a crop outside the image")
	}
}

func TestLoadAndWritePNG(t *testing.T) {
	dir := t.TempDir()

	src := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	src.SetNRGBA(1, 1, color.NRGBA{0, 0, 0, 255})
	f, err := os.Create(filepath.Join(dir, "page.png"))
	if err != nil {
		t.Fatalf("Failed to create page: %v", err)
	}
	if err := png.Encode(f, src); err != nil {
		t.Fatalf("Failed to encode page: %v", err)
	}
	f.Close()

	img, err := Load(filepath.Join(dir, "page.png"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("transparent pixel = %v, expected white", got)
	}
	if got := img.RGBAAt(1, 1); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("ink pixel = %v, expected black", got)
	}

	out := filepath.Join(dir, "crop.png")
	if err := WritePNG(out, img); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	if _, err := Load(out); err != nil {
		t.Errorf("Load of written PNG failed: %v", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadRasterFormats(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 4, 3))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	src.SetGray(2, 1, color.Gray{Y: 0})

	tests := []struct {
		name   string
		encode func(io.Writer, image.Image) error
	}{
		{"page.png", png.Encode},
		{"page.tiff", func(w io.Writer, m image.Image) error { return tiff.Encode(w, m, nil) }},
		{"page.bmp", bmp.Encode},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		path := filepath.Join(dir, tt.name)
		f, err := os.Create(path)
		if err != nil {
			t.Fatalf("%s: Failed to create page: %v", tt.name, err)
		}
		if err := tt.encode(f, src); err != nil {
			t.Fatalf("%s: Failed to encode page: %v", tt.name, err)
		}
		f.Close()

		img, err := Load(path)
		if err != nil {
			t.Errorf("%s: Load failed: %v", tt.name, err)
			continue
		}
		if img.Bounds() != image.Rect(0, 0, 4, 3) {
			t.Errorf("%s: Bounds = %v", tt.name, img.Bounds())
		}
		if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
			t.Errorf("%s: background pixel = %v, expected white", tt.name, got)
		}
		if got := img.RGBAAt(2, 1); got != (color.RGBA{0, 0, 0, 255}) {
			t.Errorf("%s: ink pixel = %v, expected black", tt.name, got)
		}
	}
}
