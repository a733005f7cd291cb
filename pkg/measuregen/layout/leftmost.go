package layout

import "github.com/comref/measuregen-go/pkg/measuregen/models"

// DefaultBucketWidth is the width in pixels of the bands used to decide
// which regions sit at the left margin.
const DefaultBucketWidth = 10

// FindLeftmost returns every region whose x coordinate falls in the leftmost
// band of bucketWidth pixels, sorted by key.
func FindLeftmost(regions models.MeasureRegions, bucketWidth int) []models.MeasureKey {
	if bucketWidth <= 0 {
		bucketWidth = DefaultBucketWidth
	}

	var out []models.MeasureKey
	minBucket := 0
	for _, k := range regions.SortedKeys() {
		bucket := floorDiv(regions[k].X, bucketWidth)
		switch {
		case out == nil || bucket < minBucket:
			minBucket = bucket
			out = []models.MeasureKey{k}
		case bucket == minBucket:
			out = append(out, k)
		}
	}

	return out
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
