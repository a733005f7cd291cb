package measuregen

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/comref/measuregen-go/pkg/measuregen/engrave"
	"github.com/comref/measuregen-go/pkg/measuregen/models"
	"github.com/comref/measuregen-go/pkg/measuregen/output"
	"github.com/comref/measuregen-go/pkg/measuregen/parser"
)

// Output layout of a score directory.
const (
	PagesDir    = "pages"
	MeasuresDir = "measures"
)

// scoreExtensions lists the file types picked up from a source directory.
var scoreExtensions = map[string]bool{
	".mxl":      true,
	".musicxml": true,
	".xml":      true,
}

// Generator turns scores into measure images.
type Generator struct {
	opts       Options
	engraver   engrave.Engraver
	rasterizer engrave.Rasterizer
}

// New probes the external engraver and rasterizer and returns a Generator
// that uses them.
func New(opts Options) (*Generator, error) {
	verovio, err := engrave.Probe(defaultString(opts.VerovioPath, "verovio"))
	if err != nil {
		return nil, err
	}
	inkscape, err := engrave.Probe(defaultString(opts.InkscapePath, "inkscape"))
	if err != nil {
		return nil, err
	}

	return NewWithTools(opts,
		engrave.NewVerovio(verovio, opts.ToolTimeout),
		engrave.NewInkscape(inkscape, opts.ToolTimeout),
	)
}

// NewWithTools returns a Generator using the given engraver and rasterizer.
func NewWithTools(opts Options, e engrave.Engraver, r engrave.Rasterizer) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if e == nil || r == nil {
		return nil, fmt.Errorf("%w: engraver and rasterizer are required", ErrToolUnavailable)
	}
	return &Generator{opts: opts, engraver: e, rasterizer: r}, nil
}

// ScoreID returns the identifier used for a score file: its base name
// without extension.
func ScoreID(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Generate processes one score into a new directory named after its score
// id. An existing directory is never written to. On failure the directory
// created by this call is removed and a *ScoreError is returned.
func (g *Generator) Generate(ctx context.Context, source string) (*models.ScoreResult, error) {
	scoreID := ScoreID(source)
	outDir := filepath.Join(g.opts.OutputDir, scoreID)
	logger := g.opts.logger()

	logger.Printf("Processing %s...", source)
	if _, err := os.Stat(outDir); err == nil {
		err = NewScoreError(scoreID, "", StageInit,
			fmt.Errorf("%w: output directory %s already exists", ErrConfiguration, outDir))
		logger.Printf("Skipping %s: %v", source, err)
		return nil, err
	}

	result, err := g.generate(ctx, source, scoreID, outDir)
	if err != nil {
		if rmErr := os.RemoveAll(outDir); rmErr != nil {
			logger.Printf("Could not remove %s: %v", outDir, rmErr)
		}
		logger.Printf("Skipping %s: %v", source, err)
		return nil, err
	}

	logger.Printf("Done! %s: %d pages, %d measures", scoreID, len(result.Pages), result.MeasureCount())
	return result, nil
}

func (g *Generator) generate(ctx context.Context, source, scoreID, outDir string) (*models.ScoreResult, error) {
	fail := func(stage string, err error) error {
		return NewScoreError(scoreID, "", stage, err)
	}

	score, err := parser.ReadScore(source)
	if err != nil {
		return nil, fail(StageInit, err)
	}
	parts, err := parser.MapPartIndices(score)
	if err != nil {
		return nil, fail(StageMap, err)
	}

	pageDir := filepath.Join(outDir, PagesDir)
	measureDir := filepath.Join(outDir, MeasuresDir)
	for _, dir := range []string{pageDir, measureDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fail(StageInit, err)
		}
	}

	if g.opts.ShouldCopySource() {
		if err := copyFile(source, filepath.Join(outDir, filepath.Base(source))); err != nil {
			return nil, fail(StageInit, err)
		}
	}

	g.opts.logger().Printf("Engraving %s...", scoreID)
	pages, err := g.engraver.Engrave(ctx, source, pageDir)
	if err != nil {
		return nil, fail(StageEngrave, err)
	}
	if len(pages) == 0 {
		return nil, fail(StageEngrave, fmt.Errorf("%w: no pages produced", ErrEngraving))
	}
	g.opts.logger().Printf("Engraved %d pages of music", len(pages))

	result := &models.ScoreResult{
		ScoreID:   scoreID,
		Source:    source,
		OutputDir: outDir,
		Parts:     parts,
	}

	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return nil, NewScoreError(scoreID, page, StageRasterize, err)
		}
		pr, err := g.processPage(ctx, scoreID, pageDir, measureDir, page, parts)
		if err != nil {
			return nil, err
		}
		result.Pages = append(result.Pages, *pr)
	}

	if err := output.WriteFeedback(filepath.Join(outDir, output.FeedbackFile), result.Feedback()); err != nil {
		return nil, fail(StageFeedback, err)
	}

	return result, nil
}

// GenerateBatch processes every source in order. Failed scores are recorded
// and skipped. A source whose score id was already taken by an earlier
// source fails without touching the output tree.
func (g *Generator) GenerateBatch(ctx context.Context, sources []string) *models.BatchResult {
	batch := &models.BatchResult{}
	owners := make(map[string]string, len(sources))
	for _, source := range sources {
		scoreID := ScoreID(source)
		if prev, dup := owners[scoreID]; dup {
			err := NewScoreError(scoreID, "", StageInit,
				fmt.Errorf("%w: score id %q is already used by %s", ErrConfiguration, scoreID, prev))
			batch.Failures = append(batch.Failures, failure(source, err))
			continue
		}
		owners[scoreID] = source

		result, err := g.Generate(ctx, source)
		if err != nil {
			batch.Failures = append(batch.Failures, failure(source, err))
			continue
		}
		batch.Scores = append(batch.Scores, *result)
	}
	return batch
}

func failure(source string, err error) models.Failure {
	f := models.Failure{
		Source:  source,
		ScoreID: ScoreID(source),
		Message: err.Error(),
	}
	var se *ScoreError
	if errors.As(err, &se) {
		f.Page = se.Page
		f.Stage = se.Stage
		f.Message = se.Err.Error()
	}
	return f
}

// CollectSources expands path into the score files to process. A file is
// returned as is; a directory yields its score files in name order.
func CollectSources(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var sources []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if scoreExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			sources = append(sources, filepath.Join(path, entry.Name()))
		}
	}
	sort.Strings(sources)
	return sources, nil
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
