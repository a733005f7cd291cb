// Package engrave runs the external score engraver and vector rasterizer.
//
// Both tools are black boxes reached through a narrow interface so the
// geometry pipeline can be exercised with synthetic pages in tests.
package engrave

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"time"

	"github.com/comref/measuregen-go/pkg/measuregen/models"
)

// DefaultTimeout bounds a single external tool invocation.
const DefaultTimeout = 5 * time.Minute

// Engraver renders a score into one SVG file per page.
type Engraver interface {
	// Engrave writes the pages of input into pageDir and returns their file
	// names, relative to pageDir, in page order.
	Engrave(ctx context.Context, input, pageDir string) ([]string, error)
}

// Rasterizer renders an SVG page into a raster image.
type Rasterizer interface {
	// Rasterize renders svgPath and returns the path of the raster file.
	Rasterize(ctx context.Context, svgPath string) (string, error)
}

// Probe checks that the named tool can be found and returns its full path.
func Probe(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s is not installed or not in PATH", models.ErrToolUnavailable, name)
	}
	return path, nil
}

// result holds the captured output of a tool run.
type result struct {
	stdout []byte
	stderr []byte
}

// run executes a tool under timeout. Missing binaries map to
// ErrToolUnavailable; non-zero exits and expired timeouts map to ErrEngraving.
func run(ctx context.Context, timeout time.Duration, name string, args ...string) (*result, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := &result{stdout: stdout.Bytes(), stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return res, fmt.Errorf("%w: %s: %v", models.ErrToolUnavailable, name, err)
	}
	if ctx.Err() == context.DeadlineExceeded {
		return res, fmt.Errorf("%w: %s timed out after %s", models.ErrEngraving, name, timeout)
	}
	if ctx.Err() != nil {
		return res, fmt.Errorf("%w: %s: %v", models.ErrEngraving, name, ctx.Err())
	}
	return res, fmt.Errorf("%w: %s: %v: %s", models.ErrEngraving, name, err, lastLine(stderr.Bytes()))
}

// lastLine returns the last non-empty line of out, for error messages.
func lastLine(out []byte) string {
	lines := bytes.Split(bytes.TrimSpace(out), []byte("\n"))
	return string(bytes.TrimSpace(lines[len(lines)-1]))
}
