package render

import (
	"bytes"
	"fmt"

	"github.com/cmlabs-hris/timesheet-reports/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Report"

// IndividualXLSX writes the Datum/Stunden/Kommentare sheet. The last row is
// expected to be the total and is printed bold like the header.
func (r *Renderer) IndividualXLSX(rows []report.SpreadsheetRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("naming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}
	hoursFmt := "0.00"
	hours, err := f.NewStyle(&excelize.Style{CustomNumFmt: &hoursFmt})
	if err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}
	boldHours, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, CustomNumFmt: &hoursFmt})
	if err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &[]any{"Datum", "Stunden", "Kommentare"}); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetName, cell, &[]any{row.Date, row.Hours, row.Comments}); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
		if err := f.SetCellStyle(sheetName, fmt.Sprintf("B%d", i+2), fmt.Sprintf("B%d", i+2), hours); err != nil {
			return nil, err
		}
	}

	if err := f.SetCellStyle(sheetName, "A1", "C1", bold); err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		last := len(rows) + 1
		if err := f.SetCellStyle(sheetName, fmt.Sprintf("A%d", last), fmt.Sprintf("C%d", last), bold); err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheetName, fmt.Sprintf("B%d", last), fmt.Sprintf("B%d", last), boldHours); err != nil {
			return nil, err
		}
	}

	for col, width := range map[string]float64{"A": 15, "B": 10, "C": 50} {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("writing xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
