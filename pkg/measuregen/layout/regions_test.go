package layout

import (
	"errors"
	"sort"
	"testing"

	"github.com/comref/measuregen-go/pkg/measuregen/models"
)

// flutePiano is a 1-stave part followed by a 2-stave part.
var flutePiano = models.PartStaves{
	Order: []string{"P1", "P2"},
	Parts: map[string]models.PartStaveInfo{
		"P1": {StaveCount: 1, StaffIndices: []int{1}},
		"P2": {StaveCount: 2, StaffIndices: []int{2, 3}},
	},
}

func TestMergeStaves(t *testing.T) {
	coords := models.StaffCoordinates{
		{MeasureID: "1", StaffIndex: 1}: {X: 0, Y: 100, W: 500, H: 72},
		{MeasureID: "1", StaffIndex: 2}: {X: 0, Y: 300, W: 500, H: 72},
		{MeasureID: "1", StaffIndex: 3}: {X: 0, Y: 500, W: 500, H: 72},
		{MeasureID: "2", StaffIndex: 1}: {X: 500, Y: 100, W: 400, H: 72},
		{MeasureID: "2", StaffIndex: 2}: {X: 500, Y: 300, W: 400, H: 72},
		{MeasureID: "2", StaffIndex: 3}: {X: 500, Y: 500, W: 410, H: 72},
	}

	regions, err := MergeStaves(coords, flutePiano)
	if err != nil {
		t.Fatalf("MergeStaves failed: %v", err)
	}

	expected := models.MeasureRegions{
		{PartID: "P1", MeasureID: "1"}: {X: 0, Y: 100, W: 500, H: 72},
		{PartID: "P2", MeasureID: "1"}: {X: 0, Y: 300, W: 500, H: 272},
		{PartID: "P1", MeasureID: "2"}: {X: 500, Y: 100, W: 400, H: 72},
		{PartID: "P2", MeasureID: "2"}: {X: 500, Y: 300, W: 410, H: 272},
	}
	if len(regions) != len(expected) {
		t.Fatalf("Expected %d regions, got %d", len(expected), len(regions))
	}
	for k, b := range expected {
		if regions[k] != b {
			t.Errorf("region %v = %v, expected %v", k, regions[k], b)
		}
	}
}

func TestMergeStavesUnknownStaff(t *testing.T) {
	coords := models.StaffCoordinates{
		{MeasureID: "1", StaffIndex: 4}: {X: 0, Y: 0, W: 10, H: 10},
	}
	if _, err := MergeStaves(coords, flutePiano); !errors.Is(err, models.ErrMalformedPage) {
		t.Errorf("expected ErrMalformedPage, got %v", err)
	}
}

func TestExpandRegionsSingle(t *testing.T) {
	key := models.MeasureKey{PartID: "P1", MeasureID: "1"}
	regions := models.MeasureRegions{key: {X: 1000, Y: 400, W: 3000, H: 72}}

	out, err := ExpandRegions(regions, 2000, DefaultRegionConfig())
	if err != nil {
		t.Fatalf("ExpandRegions failed: %v", err)
	}

	expected := models.BoundingBox{X: 280, Y: 0, W: 4440, H: 2000}
	if out[key] != expected {
		t.Errorf("single region = %v, expected %v", out[key], expected)
	}
}

func TestExpandRegionsTwoSystems(t *testing.T) {
	regions := models.MeasureRegions{
		{PartID: "P1", MeasureID: "1"}: {X: 0, Y: 100, W: 500, H: 72},
		{PartID: "P1", MeasureID: "2"}: {X: 500, Y: 100, W: 500, H: 72},
		{PartID: "P1", MeasureID: "3"}: {X: 0, Y: 600, W: 1000, H: 72},
	}

	out, err := ExpandRegions(regions, 1000, RegionConfig{HorizontalMargin: 10})
	if err != nil {
		t.Fatalf("ExpandRegions failed: %v", err)
	}

	expected := models.MeasureRegions{
		{PartID: "P1", MeasureID: "1"}: {X: -10, Y: 0, W: 520, H: 600},
		{PartID: "P1", MeasureID: "2"}: {X: 490, Y: 0, W: 520, H: 600},
		{PartID: "P1", MeasureID: "3"}: {X: -10, Y: 172, W: 1020, H: 828},
	}
	for k, b := range expected {
		if out[k] != b {
			t.Errorf("region %v = %v, expected %v", k, out[k], b)
		}
	}
}

func TestExpandRegionsCoverPage(t *testing.T) {
	pages := []struct {
		name   string
		height int
		boxes  []models.BoundingBox
	}{
		{"at top", 3000, []models.BoundingBox{{Y: 0, H: 200}, {Y: 700, H: 72}, {Y: 1500, H: 300}}},
		{"grand staff systems", 5000, []models.BoundingBox{
			{Y: 200, H: 72}, {Y: 400, H: 272},
			{Y: 1400, H: 72}, {Y: 1600, H: 272},
			{Y: 2600, H: 72}, {Y: 2800, H: 272},
		}},
		{"percussion", 1000, []models.BoundingBox{{Y: 10, H: 180}, {Y: 400, H: 180}}},
	}

	for _, tt := range pages {
		regions := make(models.MeasureRegions)
		for i, b := range tt.boxes {
			regions[models.MeasureKey{PartID: "P1", MeasureID: string(rune('a' + i))}] = b
		}

		out, err := ExpandRegions(regions, tt.height, DefaultRegionConfig())
		if err != nil {
			t.Fatalf("%s: ExpandRegions failed: %v", tt.name, err)
		}

		var expanded []models.BoundingBox
		for k, b := range out {
			orig := regions[k]
			if b.Y > orig.Y || b.Bottom() < orig.Bottom() {
				t.Errorf("%s: region %v = %v does not contain original %v", tt.name, k, b, orig)
			}
			if b.X != orig.X-DefaultHorizontalMargin || b.W != orig.W+2*DefaultHorizontalMargin {
				t.Errorf("%s: region %v has wrong horizontal padding: %v", tt.name, k, b)
			}
			expanded = append(expanded, b)
		}

		sort.Slice(expanded, func(i, j int) bool { return expanded[i].Y < expanded[j].Y })
		if expanded[0].Y != 0 {
			t.Errorf("%s: first region starts at %d, expected 0", tt.name, expanded[0].Y)
		}
		if last := expanded[len(expanded)-1]; last.Bottom() != tt.height {
			t.Errorf("%s: last region ends at %d, expected %d", tt.name, last.Bottom(), tt.height)
		}
		for i := 1; i < len(expanded); i++ {
			if expanded[i].Y > expanded[i-1].Bottom() {
				t.Errorf("%s: gap between %v and %v", tt.name, expanded[i-1], expanded[i])
			}
		}
	}
}

func TestExpandRegionsUnpairedTops(t *testing.T) {
	regions := models.MeasureRegions{
		{PartID: "P1", MeasureID: "1"}: {Y: 0, H: 100},
		{PartID: "P2", MeasureID: "1"}: {Y: 50, H: 50},
	}
	if _, err := ExpandRegions(regions, 500, DefaultRegionConfig()); !errors.Is(err, models.ErrMalformedPage) {
		t.Errorf("expected ErrMalformedPage, got %v", err)
	}
}

func TestExpandRegionsEmpty(t *testing.T) {
	out, err := ExpandRegions(models.MeasureRegions{}, 500, DefaultRegionConfig())
	if err != nil {
		t.Fatalf("ExpandRegions failed: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("Expected no regions, got %v", out)
	}
}

func TestBuildRegions(t *testing.T) {
	coords := models.StaffCoordinates{
		{MeasureID: "1", StaffIndex: 1}: {X: 0, Y: 100, W: 500, H: 72},
		{MeasureID: "1", StaffIndex: 2}: {X: 0, Y: 300, W: 500, H: 72},
		{MeasureID: "1", StaffIndex: 3}: {X: 0, Y: 500, W: 500, H: 72},
	}

	out, err := BuildRegions(coords, flutePiano, 1000, RegionConfig{})
	if err != nil {
		t.Fatalf("BuildRegions failed: %v", err)
	}

	expected := models.MeasureRegions{
		{PartID: "P1", MeasureID: "1"}: {X: 0, Y: 0, W: 500, H: 300},
		{PartID: "P2", MeasureID: "1"}: {X: 0, Y: 172, W: 500, H: 828},
	}
	for k, b := range expected {
		if out[k] != b {
			t.Errorf("region %v = %v, expected %v", k, out[k], b)
		}
	}
}
