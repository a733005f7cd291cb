package measuregen

import (
	"fmt"

	"github.com/comref/measuregen-go/pkg/measuregen/models"
)

// Error categories. Every error returned by Generate wraps one of these.
var (
	// ErrToolUnavailable indicates the engraver or rasterizer is not installed.
	ErrToolUnavailable = models.ErrToolUnavailable
	// ErrEngraving indicates an external tool failed or produced no pages.
	ErrEngraving = models.ErrEngraving
	// ErrMalformedPage indicates page geometry that does not look like staves.
	ErrMalformedPage = models.ErrMalformedPage
	// ErrConfiguration indicates unusable score metadata or sizes.
	ErrConfiguration = models.ErrConfiguration
)

// Pipeline stages reported by ScoreError.
const (
	StageInit      = "init"
	StageMap       = "map"
	StageEngrave   = "engrave"
	StageRasterize = "rasterize"
	StageLocate    = "locate"
	StageConvert   = "convert"
	StageBuild     = "build"
	StageCrop      = "crop"
	StageFeedback  = "feedback"
)

// ScoreError represents a failure that aborted a score.
type ScoreError struct {
	ScoreID string
	Page    string // empty for score-level failures
	Stage   string
	Err     error
}

func (e *ScoreError) Error() string {
	if e.Page != "" {
		return fmt.Sprintf("score %q page %s (%s): %v", e.ScoreID, e.Page, e.Stage, e.Err)
	}
	return fmt.Sprintf("score %q (%s): %v", e.ScoreID, e.Stage, e.Err)
}

func (e *ScoreError) Unwrap() error {
	return e.Err
}

// NewScoreError creates a new ScoreError.
func NewScoreError(scoreID, page, stage string, err error) *ScoreError {
	return &ScoreError{
		ScoreID: scoreID,
		Page:    page,
		Stage:   stage,
		Err:     err,
	}
}
