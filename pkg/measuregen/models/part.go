package models

// PartStaveInfo describes how many staves a part occupies and which global
// staff indices were assigned to it.
type PartStaveInfo struct {
	// StaveCount is the maximum number of staves declared by the part.
	StaveCount int `json:"stave_count"`
	// StaffIndices are the contiguous global staff indices of the part.
	StaffIndices []int `json:"staff_indices"`
}

// PartStaves holds the stave layout of every part in a score.
type PartStaves struct {
	// Order lists part identifiers in part-list order.
	Order []string `json:"order"`
	// Parts maps part identifier to its stave information.
	Parts map[string]PartStaveInfo `json:"parts"`
}

// IndexToPart returns the inverse lookup from global staff index to part id.
func (p PartStaves) IndexToPart() map[int]string {
	out := make(map[int]string)
	for partID, info := range p.Parts {
		for _, idx := range info.StaffIndices {
			out[idx] = partID
		}
	}
	return out
}

// StaffCount returns the total number of staves across all parts.
func (p PartStaves) StaffCount() int {
	n := 0
	for _, info := range p.Parts {
		n += info.StaveCount
	}
	return n
}
