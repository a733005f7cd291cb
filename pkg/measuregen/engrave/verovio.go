package engrave

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/comref/measuregen-go/pkg/measuregen/models"
)

// reOutputFile matches the line Verovio prints for every page it writes.
var reOutputFile = regexp.MustCompile(`Output written to .+/(.+_[0-9]+\.svg)\.`)

// Verovio engraves MusicXML with the verovio command line tool.
type Verovio struct {
	// Path is the verovio executable.
	Path string
	// Timeout bounds one engraving run.
	Timeout time.Duration
}

// NewVerovio returns a Verovio engraver for the executable at path.
func NewVerovio(path string, timeout time.Duration) *Verovio {
	if path == "" {
		path = "verovio"
	}
	return &Verovio{Path: path, Timeout: timeout}
}

// Command returns the arguments that make Verovio write every page of input
// as a separate SVG with zero page margins and the measure and staff numbers
// attached as data-n attributes. output names a dummy file inside the page
// directory; Verovio derives the page file names from it.
func (v *Verovio) Command(input, output string) []string {
	return []string{
		"--adjust-page-height",
		"--adjust-page-width",
		"-a",
		"--svg-additional-attribute", "measure@n",
		"--svg-additional-attribute", "staff@n",
		input,
		"-o", output,
		"--page-margin-bottom", "0",
		"--page-margin-left", "0",
		"--page-margin-right", "0",
		"--page-margin-top", "0",
		"--condense-first-page",
	}
}

// Engrave runs Verovio on input and returns the generated page file names.
func (v *Verovio) Engrave(ctx context.Context, input, pageDir string) ([]string, error) {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	args := v.Command(input, filepath.Join(pageDir, stem+".svg"))

	res, err := run(ctx, v.Timeout, v.Path, args...)
	if err != nil {
		return nil, err
	}

	pages := ParseOutputFiles(string(res.stderr))
	if len(pages) == 0 {
		return nil, fmt.Errorf("%w: verovio produced no pages for %s", models.ErrEngraving, filepath.Base(input))
	}
	return pages, nil
}

// ParseOutputFiles extracts the page file names from Verovio's diagnostic
// output.
func ParseOutputFiles(stderr string) []string {
	var pages []string
	for _, line := range strings.Split(stderr, "\n") {
		if m := reOutputFile.FindStringSubmatch(strings.TrimRight(line, "\r")); m != nil {
			pages = append(pages, m[1])
		}
	}
	return pages
}
