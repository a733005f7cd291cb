package layout

import (
	"fmt"
	"sort"

	"github.com/comref/measuregen-go/pkg/measuregen/models"
)

// DefaultHorizontalMargin is the padding added on each side of a region, in
// SVG canvas units.
const DefaultHorizontalMargin = 720

// RegionConfig controls region expansion.
type RegionConfig struct {
	// HorizontalMargin is added to both the left and right of every region.
	HorizontalMargin int
}

// DefaultRegionConfig returns the expansion settings tuned for Verovio output.
func DefaultRegionConfig() RegionConfig {
	return RegionConfig{HorizontalMargin: DefaultHorizontalMargin}
}

// MergeStaves folds the staves of every part into one region per
// (part, measure). Staves are visited in sorted order so the fold is
// deterministic.
func MergeStaves(coords models.StaffCoordinates, parts models.PartStaves) (models.MeasureRegions, error) {
	index2part := parts.IndexToPart()

	keys := make([]models.StaffKey, 0, len(coords))
	for k := range coords {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].MeasureID != keys[j].MeasureID {
			return keys[i].MeasureID < keys[j].MeasureID
		}
		return keys[i].StaffIndex < keys[j].StaffIndex
	})

	out := make(models.MeasureRegions)
	for _, k := range keys {
		partID, ok := index2part[k.StaffIndex]
		if !ok {
			return nil, fmt.Errorf("%w: measure %s: staff %d is not assigned to any part",
				models.ErrMalformedPage, k.MeasureID, k.StaffIndex)
		}
		out = foldRegion(out, models.MeasureKey{PartID: partID, MeasureID: k.MeasureID}, coords[k])
	}

	return out, nil
}

// foldRegion seeds or grows the region of key with box.
func foldRegion(regions models.MeasureRegions, key models.MeasureKey, box models.BoundingBox) models.MeasureRegions {
	if prev, ok := regions[key]; ok {
		box = prev.Merge(box)
	}
	regions[key] = box
	return regions
}

// ExpandRegions stretches every region vertically so that it starts at the
// bottom of the previous system and ends at the top of the next one, and pads
// it horizontally by cfg.HorizontalMargin on each side. The i-th distinct top
// edge is paired with the i-th entry of {0} plus the distinct bottom edges;
// pageHeight closes the last band.
func ExpandRegions(regions models.MeasureRegions, pageHeight int, cfg RegionConfig) (models.MeasureRegions, error) {
	if len(regions) == 0 {
		return models.MeasureRegions{}, nil
	}

	tops := distinct(regions, func(b models.BoundingBox) int { return b.Y })
	bottoms := distinct(regions, func(b models.BoundingBox) int { return b.Bottom() })

	y1values := append(append([]int{}, tops...), pageHeight)
	y2values := append([]int{0}, bottoms...)
	sort.Ints(y1values)
	sort.Ints(y2values)

	if len(tops) > len(bottoms) {
		return nil, fmt.Errorf("%w: %d distinct staff tops but only %d distinct bottoms",
			models.ErrMalformedPage, len(tops), len(bottoms))
	}

	newY := make(map[int]int, len(tops))
	newH := make(map[int]int, len(tops))
	for i := 0; i < len(y1values)-1; i++ {
		newY[y1values[i]] = y2values[i]
		newH[y1values[i]] = y1values[i+1] - y2values[i]
	}

	out := make(models.MeasureRegions, len(regions))
	for k, b := range regions {
		out[k] = models.BoundingBox{
			X: b.X - cfg.HorizontalMargin,
			Y: newY[b.Y],
			W: b.W + 2*cfg.HorizontalMargin,
			H: newH[b.Y],
		}
	}

	return out, nil
}

// BuildRegions merges the staves of a page and expands the result.
func BuildRegions(coords models.StaffCoordinates, parts models.PartStaves, pageHeight int, cfg RegionConfig) (models.MeasureRegions, error) {
	merged, err := MergeStaves(coords, parts)
	if err != nil {
		return nil, err
	}
	return ExpandRegions(merged, pageHeight, cfg)
}

func distinct(regions models.MeasureRegions, value func(models.BoundingBox) int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, b := range regions {
		v := value(b)
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
