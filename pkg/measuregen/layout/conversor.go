// Package layout turns per-staff geometry into per-measure crop regions.
package layout

import (
	"fmt"

	"github.com/comref/measuregen-go/pkg/measuregen/models"
)

// Conversor maps a box in SVG canvas units to raster pixels.
type Conversor func(models.BoundingBox) models.BoundingBox

// NewConversor returns a Conversor that scales each axis independently from
// canvas to image size, truncating toward zero.
func NewConversor(canvas models.CanvasSize, img models.ImageSize) (Conversor, error) {
	if canvas.Width <= 0 || canvas.Height <= 0 || img.Width <= 0 || img.Height <= 0 {
		return nil, fmt.Errorf("%w: canvas %gx%g or image %dx%d has a zero dimension",
			models.ErrConfiguration, canvas.Width, canvas.Height, img.Width, img.Height)
	}

	sx := float64(img.Width) / canvas.Width
	sy := float64(img.Height) / canvas.Height

	return func(b models.BoundingBox) models.BoundingBox {
		return models.BoundingBox{
			X: int(float64(b.X) * sx),
			Y: int(float64(b.Y) * sy),
			W: int(float64(b.W) * sx),
			H: int(float64(b.H) * sy),
		}
	}, nil
}

// ConvertAll applies conv to every region and returns a new mapping.
func ConvertAll(regions models.MeasureRegions, conv Conversor) models.MeasureRegions {
	out := make(models.MeasureRegions, len(regions))
	for k, b := range regions {
		out[k] = conv(b)
	}
	return out
}
