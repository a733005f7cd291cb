package output

import (
	"fmt"

	"github.com/comref/measuregen-go/pkg/measuregen/models"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the run summary workbook.
const (
	ScoresSheet   = "Scores"
	MeasuresSheet = "Measures"
)

var (
	scoresHeader   = []interface{}{"score", "status", "pages", "measures", "leftmost", "error"}
	measuresHeader = []interface{}{"score", "page", "part", "measure", "x", "y", "w", "h", "leftmost", "file"}
)

// WriteSummary writes a workbook describing every processed and failed score
// of a run.
func WriteSummary(path string, batch *models.BatchResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ScoresSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(MeasuresSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeRow(f, ScoresSheet, 1, scoresHeader); err != nil {
		return err
	}
	if err := writeRow(f, MeasuresSheet, 1, measuresHeader); err != nil {
		return err
	}

	scoreRow, measureRow := 2, 2
	for _, s := range batch.Scores {
		row := []interface{}{s.ScoreID, "ok", len(s.Pages), s.MeasureCount(), len(s.Feedback()), ""}
		if err := writeRow(f, ScoresSheet, scoreRow, row); err != nil {
			return err
		}
		scoreRow++

		for _, p := range s.Pages {
			for _, m := range p.Measures {
				row := []interface{}{s.ScoreID, p.Page, m.Key.PartID, m.Key.MeasureID,
					m.Box.X, m.Box.Y, m.Box.W, m.Box.H, yesNo(m.Leftmost), m.File}
				if err := writeRow(f, MeasuresSheet, measureRow, row); err != nil {
					return err
				}
				measureRow++
			}
		}
	}

	for _, fail := range batch.Failures {
		row := []interface{}{fail.ScoreID, "failed", 0, 0, 0, fail.Message}
		if err := writeRow(f, ScoresSheet, scoreRow, row); err != nil {
			return err
		}
		scoreRow++
	}

	for sheet, header := range map[string][]interface{}{ScoresSheet: scoresHeader, MeasuresSheet: measuresHeader} {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing %s row %d: %w", sheet, row, err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
