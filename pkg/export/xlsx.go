// Package export writes month grids to spreadsheet files.
package export

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/riha-rota/riha-rota/pkg/clients/sheetsclient"
)

const defaultSheet = "Sheet1"

// Sheet is one tab of an exported workbook
type Sheet struct {
	Grid *sheetsclient.MonthGrid

	// UnderCovered days are highlighted in the footer row
	UnderCovered []int
}

// WriteMonthWorkbook writes one tab per grid to w in xlsx format
func WriteMonthWorkbook(w io.Writer, sheets []Sheet) error {
	if len(sheets) == 0 {
		return errors.New("nothing to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	shortStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#9C0006"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create highlight style: %w", err)
	}

	for i, sheet := range sheets {
		if err := writeSheet(f, sheet, headerStyle, shortStyle); err != nil {
			return fmt.Errorf("failed to write %s: %w", sheet.Grid.Title, err)
		}
		if i == 0 {
			idx, err := f.GetSheetIndex(sheet.Grid.Title)
			if err != nil {
				return err
			}
			f.SetActiveSheet(idx)
		}
	}

	if !slices.ContainsFunc(sheets, func(s Sheet) bool { return s.Grid.Title == defaultSheet }) {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("failed to remove default sheet: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle, shortStyle int) error {
	name := sheet.Grid.Title
	if name != defaultSheet {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	for r, row := range sheet.Grid.Rows {
		start, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, start, &row); err != nil {
			return err
		}
	}
	if len(sheet.Grid.Rows) == 0 {
		return nil
	}

	columns := len(sheet.Grid.Rows[0])
	last, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", last, headerStyle); err != nil {
		return err
	}

	if err := f.SetColWidth(name, "A", "A", 16); err != nil {
		return err
	}
	if err := f.SetColWidth(name, "B", "B", 8); err != nil {
		return err
	}
	if columns > 2 {
		lastCol, err := excelize.ColumnNumberToName(columns)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(name, "C", lastCol, 7); err != nil {
			return err
		}
	}

	// Day d sits in column d+2 of the footer row
	footer := len(sheet.Grid.Rows)
	for _, day := range sheet.UnderCovered {
		cell, err := excelize.CoordinatesToCellName(day+2, footer)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(name, cell, cell, shortStyle); err != nil {
			return err
		}
	}

	return f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		XSplit:      2,
		YSplit:      1,
		TopLeftCell: "C2",
		ActivePane:  "bottomRight",
	})
}
