package parser

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/comref/measuregen-go/pkg/measuregen/models"
)

// reLineCommand matches the two-point straight segment used for staff lines.
var reLineCommand = regexp.MustCompile(`^M(\d+)\s+(\d+)\s+L(\d+)\s+(\d+)`)

// StaffConfig holds the staff envelope heuristics, in SVG canvas units.
type StaffConfig struct {
	// MinStaffHeight is the minimum height of a multi-line staff box.
	MinStaffHeight int
	// SingleLineHeight is the height given to a one-line staff.
	SingleLineHeight int
	// SingleLineOffset is how far above its line a one-line staff box starts.
	SingleLineOffset int
}

// Staff envelope heuristics tuned for Verovio output.
const (
	DefaultMinStaffHeight   = 72
	DefaultSingleLineHeight = 180
	DefaultSingleLineOffset = 90
)

// DefaultStaffConfig returns the heuristics tuned for Verovio output.
func DefaultStaffConfig() StaffConfig {
	return StaffConfig{
		MinStaffHeight:   DefaultMinStaffHeight,
		SingleLineHeight: DefaultSingleLineHeight,
		SingleLineOffset: DefaultSingleLineOffset,
	}
}

// Page is the geometry extracted from one engraved SVG page.
type Page struct {
	// Canvas is the declared size of the drawing.
	Canvas models.CanvasSize
	// Staves holds one box per (measure, staff) pair.
	Staves models.StaffCoordinates
}

// ParsePage reads an engraved SVG page and returns its canvas size and staff
// boxes.
func ParsePage(r io.Reader, cfg StaffConfig) (*Page, error) {
	root, err := parseSVG(r)
	if err != nil {
		return nil, err
	}

	canvas, err := pageSize(root)
	if err != nil {
		return nil, err
	}

	staves, err := staffCoordinates(root, cfg)
	if err != nil {
		return nil, err
	}

	return &Page{Canvas: canvas, Staves: staves}, nil
}

// FindStaffCoordinates returns the staff boxes of an engraved SVG page.
func FindStaffCoordinates(r io.Reader, cfg StaffConfig) (models.StaffCoordinates, error) {
	root, err := parseSVG(r)
	if err != nil {
		return nil, err
	}
	return staffCoordinates(root, cfg)
}

// PageSize returns the canvas size declared by the definition-scale element
// of an engraved SVG page.
func PageSize(r io.Reader) (models.CanvasSize, error) {
	root, err := parseSVG(r)
	if err != nil {
		return models.CanvasSize{}, err
	}
	return pageSize(root)
}

func parseSVG(r io.Reader) (*node, error) {
	var root node
	if err := newDecoder(r).Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: cannot decode SVG: %v", models.ErrMalformedPage, err)
	}
	return &root, nil
}

func pageSize(root *node) (models.CanvasSize, error) {
	isScale := func(n *node) bool { return n.hasClass("definition-scale") }

	var scale *node
	if root.XMLName.Local == "svg" && isScale(root) {
		scale = root
	} else if found := root.descendants("svg", isScale); len(found) > 0 {
		scale = found[0]
	}
	if scale == nil {
		return models.CanvasSize{}, fmt.Errorf("%w: no scale object found within SVG", models.ErrMalformedPage)
	}

	viewBox, ok := scale.attr("viewBox")
	if !ok {
		return models.CanvasSize{}, fmt.Errorf("%w: scale object has no viewBox", models.ErrMalformedPage)
	}

	fields := strings.FieldsFunc(viewBox, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	if len(fields) != 4 {
		return models.CanvasSize{}, fmt.Errorf("%w: invalid viewBox %q", models.ErrMalformedPage, viewBox)
	}

	width, errW := strconv.ParseFloat(fields[2], 64)
	height, errH := strconv.ParseFloat(fields[3], 64)
	if errW != nil || errH != nil {
		return models.CanvasSize{}, fmt.Errorf("%w: invalid viewBox %q", models.ErrMalformedPage, viewBox)
	}

	return models.CanvasSize{Width: width, Height: height}, nil
}

func staffCoordinates(root *node, cfg StaffConfig) (models.StaffCoordinates, error) {
	result := make(models.StaffCoordinates)

	measures := root.descendants("g", func(n *node) bool { return n.hasClass("measure") })
	for _, measure := range measures {
		measureID, ok := measure.attr("data-n")
		if !ok {
			return nil, fmt.Errorf("%w: measure without data-n attribute", models.ErrMalformedPage)
		}

		staves := measure.descendants("g", func(n *node) bool { return n.hasClass("staff") })
		for _, staff := range staves {
			raw, ok := staff.attr("data-n")
			if !ok {
				return nil, fmt.Errorf("%w: measure %s: staff without data-n attribute", models.ErrMalformedPage, measureID)
			}
			staffIndex, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("%w: measure %s: invalid staff index %q", models.ErrMalformedPage, measureID, raw)
			}

			lines, err := staffLines(staff)
			if err != nil {
				return nil, fmt.Errorf("%w: measure %s staff %d: %v", models.ErrMalformedPage, measureID, staffIndex, err)
			}
			if len(lines) == 0 {
				continue
			}

			result[models.StaffKey{MeasureID: measureID, StaffIndex: staffIndex}] = staffBox(lines, cfg)
		}
	}

	return result, nil
}

// staffLine is a straight segment (x1, y1) -> (x2, y2).
type staffLine [4]int

func staffLines(staff *node) ([]staffLine, error) {
	var lines []staffLine
	for _, p := range staff.children("path") {
		d, _ := p.attr("d")
		m := reLineCommand.FindStringSubmatch(d)
		if m == nil {
			return nil, fmt.Errorf("invalid path in staff line definition: %q", d)
		}

		var line staffLine
		for i := range line {
			v, err := strconv.Atoi(m[i+1])
			if err != nil {
				return nil, fmt.Errorf("invalid coordinate %q: %v", m[i+1], err)
			}
			line[i] = v
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// staffBox builds the staff envelope from its lines. A one-line staff gets a
// fixed-height box centred on the line; otherwise the box spans all lines
// with a minimum height.
func staffBox(lines []staffLine, cfg StaffConfig) models.BoundingBox {
	minX, maxX := lines[0][0], lines[0][0]
	minY, maxY := lines[0][1], lines[0][1]
	for _, l := range lines {
		minX = min(minX, l[0], l[2])
		maxX = max(maxX, l[0], l[2])
		minY = min(minY, l[1], l[3])
		maxY = max(maxY, l[1], l[3])
	}

	if len(lines) == 1 {
		return models.BoundingBox{
			X: minX,
			Y: minY - cfg.SingleLineOffset,
			W: maxX - minX,
			H: cfg.SingleLineHeight,
		}
	}

	return models.BoundingBox{
		X: minX,
		Y: minY,
		W: maxX - minX,
		H: max(maxY-minY, cfg.MinStaffHeight),
	}
}
