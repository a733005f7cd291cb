// Package measuregen generates per-measure, per-part ground truth images
// from MusicXML scores.
package measuregen

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/comref/measuregen-go/pkg/measuregen/engrave"
	"github.com/comref/measuregen-go/pkg/measuregen/layout"
	"github.com/comref/measuregen-go/pkg/measuregen/models"
	"github.com/comref/measuregen-go/pkg/measuregen/parser"
)

// Tuning constants for Verovio output, in SVG canvas units unless noted.
const (
	// HorizontalMargin is added on both sides of every measure region.
	HorizontalMargin = layout.DefaultHorizontalMargin
	// MinStaffHeight is the minimum height of a multi-line staff.
	MinStaffHeight = parser.DefaultMinStaffHeight
	// SingleLineHeight is the height of a one-line staff envelope.
	SingleLineHeight = parser.DefaultSingleLineHeight
	// SingleLineOffset is how far above its line a one-line staff starts.
	SingleLineOffset = parser.DefaultSingleLineOffset
	// LeftmostBucketWidth is the band width, in pixels, used for leftmost
	// detection.
	LeftmostBucketWidth = layout.DefaultBucketWidth
	// DefaultToolTimeout bounds every engraver and rasterizer run.
	DefaultToolTimeout = engrave.DefaultTimeout
)

// Options configures measure generation.
type Options struct {
	// OutputDir is the directory receiving one sub-directory per score.
	OutputDir string
	// HFactor scales HorizontalMargin. Zero disables the margin.
	HFactor float64
	// Staff holds the staff envelope heuristics.
	Staff parser.StaffConfig
	// BucketWidth is the leftmost band width in pixels.
	BucketWidth int
	// ToolTimeout bounds each external tool run.
	ToolTimeout time.Duration
	// VerovioPath is the engraver executable (default: verovio in PATH).
	VerovioPath string
	// InkscapePath is the rasterizer executable (default: inkscape in PATH).
	InkscapePath string
	// CopySource specifies whether the input score is copied into its
	// output directory. If nil, defaults to true.
	CopySource *bool
	// Logger receives progress messages. If nil, nothing is logged.
	Logger *log.Logger
}

// DefaultOptions returns default generation options writing to outputDir.
func DefaultOptions(outputDir string) Options {
	return Options{
		OutputDir:   outputDir,
		HFactor:     1,
		Staff:       parser.DefaultStaffConfig(),
		BucketWidth: LeftmostBucketWidth,
		ToolTimeout: DefaultToolTimeout,
	}
}

// Validate reports options that cannot produce output.
func (o Options) Validate() error {
	if o.OutputDir == "" {
		return fmt.Errorf("%w: no output directory", models.ErrConfiguration)
	}
	if o.HFactor < 0 {
		return fmt.Errorf("%w: negative hfactor %g", models.ErrConfiguration, o.HFactor)
	}
	if o.BucketWidth < 0 {
		return fmt.Errorf("%w: negative bucket width %d", models.ErrConfiguration, o.BucketWidth)
	}
	return nil
}

// ShouldCopySource returns whether to copy the input score into the output.
func (o Options) ShouldCopySource() bool {
	if o.CopySource != nil {
		return *o.CopySource
	}
	return true
}

// RegionConfig returns the expansion settings with HFactor applied.
func (o Options) RegionConfig() layout.RegionConfig {
	return layout.RegionConfig{
		HorizontalMargin: int(float64(HorizontalMargin) * o.HFactor),
	}
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard, "", 0)
}

func (o Options) staffConfig() parser.StaffConfig {
	if o.Staff == (parser.StaffConfig{}) {
		return parser.DefaultStaffConfig()
	}
	return o.Staff
}
