package models

// MeasureImage describes one cropped measure image written to disk.
type MeasureImage struct {
	// Key identifies the part and measure.
	Key MeasureKey `json:"key"`
	// Box is the crop rectangle in page pixels.
	Box BoundingBox `json:"box"`
	// File is the file name inside the measures directory.
	File string `json:"file"`
	// Leftmost reports whether the region sits at the page's left margin.
	Leftmost bool `json:"leftmost"`
}

// PageResult is the extraction result of a single page.
type PageResult struct {
	// Page is the SVG file name of the page.
	Page string `json:"page"`
	// Canvas is the SVG canvas size.
	Canvas CanvasSize `json:"canvas"`
	// Image is the raster size.
	Image ImageSize `json:"image"`
	// Measures lists the written crops in (PartID, MeasureID) order.
	Measures []MeasureImage `json:"measures"`
	// Leftmost lists the keys flagged as leftmost.
	Leftmost []MeasureKey `json:"leftmost"`
}

// Written returns the file names written for the page.
func (p PageResult) Written() []string {
	out := make([]string, len(p.Measures))
	for i, m := range p.Measures {
		out[i] = m.File
	}
	return out
}

// ScoreResult is the result of processing one score.
type ScoreResult struct {
	// ScoreID is the base name of the score file without extension.
	ScoreID string `json:"score_id"`
	// Source is the input score path.
	Source string `json:"source"`
	// OutputDir is the directory holding the score's output.
	OutputDir string `json:"output_dir"`
	// Parts is the stave layout derived from the score metadata.
	Parts PartStaves `json:"parts"`
	// Pages holds one result per engraved page, in page order.
	Pages []PageResult `json:"pages"`
}

// Feedback returns all leftmost keys across pages, in page order.
func (s ScoreResult) Feedback() []MeasureKey {
	out := []MeasureKey{}
	for _, p := range s.Pages {
		out = append(out, p.Leftmost...)
	}
	return out
}

// MeasureCount returns the number of measure images written.
func (s ScoreResult) MeasureCount() int {
	n := 0
	for _, p := range s.Pages {
		n += len(p.Measures)
	}
	return n
}

// Failure records a score that could not be processed.
type Failure struct {
	// Source is the input score path.
	Source string `json:"source"`
	// ScoreID is the score identifier.
	ScoreID string `json:"score_id"`
	// Page is the page being processed when the failure happened, if any.
	Page string `json:"page,omitempty"`
	// Stage names the pipeline stage that failed.
	Stage string `json:"stage"`
	// Message is the error text.
	Message string `json:"message"`
}

// BatchResult collects the outcome of a run over several scores.
type BatchResult struct {
	// Scores holds the successfully processed scores.
	Scores []ScoreResult `json:"scores"`
	// Failures holds the scores that were skipped.
	Failures []Failure `json:"failures,omitempty"`
}
