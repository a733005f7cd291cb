package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/comref/measuregen-go/pkg/measuregen/models"
)

// MapPartIndices assigns global staff indices to every part of the score.
// Indices start at 1 and run contiguously in part-list order; a part takes
// as many indices as the largest stave count it declares in any measure.
func MapPartIndices(score *Score) (models.PartStaves, error) {
	if score == nil || score.PartList == nil {
		return models.PartStaves{}, fmt.Errorf("%w: the MusicXML file has no part-list", models.ErrConfiguration)
	}

	staveCounts := make(map[string]int)
	for _, part := range score.Parts {
		count, err := maxStaves(part)
		if err != nil {
			return models.PartStaves{}, err
		}
		staveCounts[part.ID] = count
	}

	result := models.PartStaves{
		Parts: make(map[string]models.PartStaveInfo),
	}

	next := 1
	for _, sp := range score.PartList.ScoreParts {
		if _, dup := result.Parts[sp.ID]; dup {
			return models.PartStaves{}, fmt.Errorf("%w: duplicate part id %q", models.ErrConfiguration, sp.ID)
		}
		count, ok := staveCounts[sp.ID]
		if !ok {
			count = 1
		}

		indices := make([]int, count)
		for i := range indices {
			indices[i] = next + i
		}
		next += count

		result.Order = append(result.Order, sp.ID)
		result.Parts[sp.ID] = models.PartStaveInfo{
			StaveCount:   count,
			StaffIndices: indices,
		}
	}

	return result, nil
}

// maxStaves returns the largest <staves> value of a part, or 1 if the part
// never declares one.
func maxStaves(part partData) (int, error) {
	count := 0
	for _, m := range part.Measures {
		for _, attrs := range m.Attributes {
			for _, s := range attrs.Staves {
				n, err := strconv.Atoi(strings.TrimSpace(s))
				if err != nil || n < 1 {
					return 0, fmt.Errorf("%w: part %s measure %s: invalid staves value %q",
						models.ErrConfiguration, part.ID, m.Number, s)
				}
				count = max(count, n)
			}
		}
	}
	if count == 0 {
		count = 1
	}
	return count, nil
}
