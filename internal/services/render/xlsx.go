// Package render serializes ranked reports to downloadable documents
package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/taiwoadebayo/ngxd/internal/models"
	"github.com/taiwoadebayo/ngxd/internal/services/report"
)

// MIME types for the two supported document kinds
const (
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

const sheetName = "Daily Summary"

var sectionHeaders = []string{"Close Price", "% Change", "Naira Change"}

// XLSX renders a ranked report as a spreadsheet byte stream: a title row,
// then a Gainers section and a Losers section with one row per quote.
// Numbers are written as floats and displayed to 2 decimals.
func XLSX(r *models.RankedReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 12},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	numberStyle, err := f.NewStyle(&excelize.Style{
		NumFmt: 2, // built-in "0.00"
	})
	if err != nil {
		return nil, fmt.Errorf("number style: %w", err)
	}

	title := "DAILY EQUITY SUMMARY FOR " + report.ReportLabel(r.ReportDate)
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return nil, err
	}
	if err := f.MergeCell(sheetName, "A1", "D1"); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", "A1", titleStyle); err != nil {
		return nil, err
	}

	row := 3
	row, err = writeSection(f, row, "Gainers", r.Advancers, headerStyle, numberStyle)
	if err != nil {
		return nil, err
	}
	if _, err = writeSection(f, row, "Losers", r.Decliners, headerStyle, numberStyle); err != nil {
		return nil, err
	}

	if err := f.SetColWidth(sheetName, "A", "A", 20); err != nil {
		return nil, fmt.Errorf("column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "D", 14); err != nil {
		return nil, fmt.Errorf("column width: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeSection writes one labeled block (header row + quote rows) starting
// at startRow and returns the row the next section should start at.
func writeSection(f *excelize.File, startRow int, label string, quotes []models.MarketQuote, headerStyle, numberStyle int) (int, error) {
	headerCells := append([]string{label}, sectionHeaders...)
	for col, text := range headerCells {
		cell, err := excelize.CoordinatesToCellName(col+1, startRow)
		if err != nil {
			return 0, err
		}
		if err := f.SetCellValue(sheetName, cell, text); err != nil {
			return 0, err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return 0, err
		}
	}

	for i, q := range quotes {
		rowNum := startRow + 1 + i
		values := []interface{}{q.Ticker, q.ClosePrice, q.PercentChange, q.AbsoluteChange}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return 0, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return 0, err
			}
			if col > 0 {
				if err := f.SetCellStyle(sheetName, cell, cell, numberStyle); err != nil {
					return 0, err
				}
			}
		}
	}

	return startRow + len(quotes) + 2, nil
}
