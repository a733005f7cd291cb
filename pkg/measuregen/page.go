package measuregen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/comref/measuregen-go/pkg/measuregen/imaging"
	"github.com/comref/measuregen-go/pkg/measuregen/layout"
	"github.com/comref/measuregen-go/pkg/measuregen/models"
	"github.com/comref/measuregen-go/pkg/measuregen/parser"
)

// fileNameReplacer keeps part and measure ids from escaping the measures
// directory.
var fileNameReplacer = strings.NewReplacer("/", "_", "\\", "_")

// MeasureFileName returns the crop file name of a (part, measure) region.
func MeasureFileName(scoreID string, key models.MeasureKey) string {
	return fmt.Sprintf("%s_p%s_m%s.png", scoreID,
		fileNameReplacer.Replace(key.PartID), fileNameReplacer.Replace(key.MeasureID))
}

// processPage rasterizes one engraved page, computes its measure regions and
// writes one crop per region.
func (g *Generator) processPage(ctx context.Context, scoreID, pageDir, measureDir, page string, parts models.PartStaves) (*models.PageResult, error) {
	fail := func(stage string, err error) error {
		return NewScoreError(scoreID, page, stage, err)
	}
	svgPath := filepath.Join(pageDir, page)

	rasterPath, err := g.rasterizer.Rasterize(ctx, svgPath)
	if err != nil {
		return nil, fail(StageRasterize, err)
	}
	img, err := imaging.Load(rasterPath)
	if err != nil {
		return nil, fail(StageRasterize, fmt.Errorf("%w: %v", ErrEngraving, err))
	}

	geometry, err := readPage(svgPath, g.opts.staffConfig())
	if err != nil {
		return nil, fail(StageLocate, err)
	}

	size := models.ImageSize{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}
	conv, err := layout.NewConversor(geometry.Canvas, size)
	if err != nil {
		return nil, fail(StageConvert, err)
	}

	regions, err := layout.BuildRegions(geometry.Staves, parts, int(geometry.Canvas.Height), g.opts.RegionConfig())
	if err != nil {
		return nil, fail(StageBuild, err)
	}
	regions = layout.ConvertAll(regions, conv)

	leftmost := layout.FindLeftmost(regions, g.opts.BucketWidth)
	isLeftmost := make(map[models.MeasureKey]bool, len(leftmost))
	for _, k := range leftmost {
		isLeftmost[k] = true
	}

	result := &models.PageResult{
		Page:     page,
		Canvas:   geometry.Canvas,
		Image:    size,
		Leftmost: leftmost,
	}

	for _, key := range regions.SortedKeys() {
		box := regions[key]
		crop, err := imaging.Crop(img, box.Rect())
		if err != nil {
			return nil, fail(StageCrop, fmt.Errorf("%w: %s: %v", ErrMalformedPage, MeasureFileName(scoreID, key), err))
		}

		name := MeasureFileName(scoreID, key)
		if err := imaging.WritePNG(filepath.Join(measureDir, name), crop); err != nil {
			return nil, fail(StageCrop, err)
		}

		result.Measures = append(result.Measures, models.MeasureImage{
			Key:      key,
			Box:      box,
			File:     name,
			Leftmost: isLeftmost[key],
		})
	}

	g.opts.logger().Printf("Page %s: %d measures, %d leftmost", page, len(result.Measures), len(leftmost))
	return result, nil
}

func readPage(path string, cfg parser.StaffConfig) (*parser.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPage, err)
	}
	defer f.Close()
	return parser.ParsePage(f, cfg)
}
