package models

// StaffKey identifies one staff drawn inside one measure of an engraved page.
type StaffKey struct {
	// MeasureID is the measure number as tagged by the engraver.
	MeasureID string
	// StaffIndex is the global 1-based staff index across all parts.
	StaffIndex int
}

// StaffCoordinates maps each staff of a page to its box in canvas units.
type StaffCoordinates map[StaffKey]BoundingBox
