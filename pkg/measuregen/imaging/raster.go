// Package imaging loads rasterized pages and writes measure crops.
package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Load decodes a rasterized page and flattens its alpha channel.
func Load(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return Flatten(img), nil
}

// Flatten returns an opaque copy of img. Fully transparent pixels become
// white; every other pixel keeps its unpremultiplied color and drops its
// alpha.
func Flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A == 0 {
				out.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{255, 255, 255, 255})
				continue
			}
			out.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{c.R, c.G, c.B, 255})
		}
	}

	return out
}

// Crop copies the part of img inside r. The rectangle is clamped to the
// image bounds; an empty intersection is an error.
func Crop(img image.Image, r image.Rectangle) (*image.RGBA, error) {
	clamped := r.Intersect(img.Bounds())
	if clamped.Empty() {
		return nil, fmt.Errorf("crop %v lies outside image bounds %v", r, img.Bounds())
	}

	out := image.NewRGBA(image.Rect(0, 0, clamped.Dx(), clamped.Dy()))
	draw.Copy(out, image.Point{}, img, clamped, draw.Src, nil)
	return out, nil
}

// WritePNG encodes img as PNG at path.
func WritePNG(path string, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return png.Encode(f, img)
}
