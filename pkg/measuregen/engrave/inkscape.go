package engrave

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/comref/measuregen-go/pkg/measuregen/models"
)

// Inkscape rasterizes SVG pages with the inkscape command line tool.
type Inkscape struct {
	// Path is the inkscape executable.
	Path string
	// Timeout bounds one rasterization.
	Timeout time.Duration
}

// NewInkscape returns an Inkscape rasterizer for the executable at path.
func NewInkscape(path string, timeout time.Duration) *Inkscape {
	if path == "" {
		path = "inkscape"
	}
	return &Inkscape{Path: path, Timeout: timeout}
}

// Rasterize writes a PNG next to svgPath and returns its path.
func (i *Inkscape) Rasterize(ctx context.Context, svgPath string) (string, error) {
	output := strings.TrimSuffix(svgPath, ".svg") + ".png"

	if _, err := run(ctx, i.Timeout, i.Path, svgPath, "-o", output); err != nil {
		return "", err
	}
	if _, err := os.Stat(output); err != nil {
		return "", fmt.Errorf("%w: inkscape did not write %s", models.ErrEngraving, output)
	}
	return output, nil
}
