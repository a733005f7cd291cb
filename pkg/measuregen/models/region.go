package models

import (
	"sort"
	"strconv"
)

// MeasureKey identifies the region of one part within one measure.
type MeasureKey struct {
	// PartID is the part identifier from the score's part-list.
	PartID string `json:"part_id"`
	// MeasureID is the measure number as tagged by the engraver.
	MeasureID string `json:"measure_id"`
}

// Less orders keys by part, then by measure. Measure ids that are both
// integers compare numerically.
func (k MeasureKey) Less(other MeasureKey) bool {
	if k.PartID != other.PartID {
		return k.PartID < other.PartID
	}
	a, errA := strconv.Atoi(k.MeasureID)
	b, errB := strconv.Atoi(other.MeasureID)
	if errA == nil && errB == nil && a != b {
		return a < b
	}
	return k.MeasureID < other.MeasureID
}

// SortKeys sorts keys in place in (PartID, MeasureID) order.
func SortKeys(keys []MeasureKey) {
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Less(keys[j])
	})
}

// MeasureRegions maps each (part, measure) pair to its region.
type MeasureRegions map[MeasureKey]BoundingBox

// SortedKeys returns the keys of r in (PartID, MeasureID) order.
func (r MeasureRegions) SortedKeys() []MeasureKey {
	keys := make([]MeasureKey, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	SortKeys(keys)
	return keys
}

// CanvasSize is the declared coordinate space of a vector page.
type CanvasSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ImageSize is the pixel size of a rasterized page.
type ImageSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}
