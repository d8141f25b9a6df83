package export

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/studyhall/studyhall-lms/internal/journal"
)

// SubjectWorkbook renders an admin journal matrix as a single-sheet xlsx:
// one row per student, one column pair per test (best score, attempts).
func SubjectWorkbook(subjectName string, m journal.Matrix) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Journal"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	header := []string{"Student"}
	for _, t := range m.Tests {
		header = append(header,
			t.ModuleName+" / "+t.TestName,
			"Attempts")
	}
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return nil, fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	end, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, err
	}
	_ = f.SetCellStyle(sheet, "A1", end, bold)
	_ = f.AutoFilter(sheet, "A1:"+end, nil)

	for r, row := range m.Rows {
		y := strconv.Itoa(r + 2)
		if err := f.SetCellStr(sheet, "A"+y, row.Name); err != nil {
			return nil, fmt.Errorf("set cell A%s: %w", y, err)
		}
		for c, cell := range row.Cells {
			scoreCol, err := excelize.ColumnNumberToName(2 + c*2)
			if err != nil {
				return nil, err
			}
			countCol, err := excelize.ColumnNumberToName(3 + c*2)
			if err != nil {
				return nil, err
			}
			if cell.Best != nil {
				_ = f.SetCellValue(sheet, scoreCol+y, *cell.Best)
			} else {
				_ = f.SetCellStr(sheet, scoreCol+y, "-")
			}
			_ = f.SetCellValue(sheet, countCol+y, cell.Attempts)
		}
	}

	// width heuristic: student column wide, score columns narrow
	_ = f.SetColWidth(sheet, "A", "A", 28)
	if len(header) > 1 {
		last, err := excelize.ColumnNumberToName(len(header))
		if err != nil {
			return nil, err
		}
		_ = f.SetColWidth(sheet, "B", last, 16)
	}

	title := subjectName
	if title == "" {
		title = "Subject"
	}
	_ = f.SetDocProps(&excelize.DocProperties{Title: title + " journal"})
	return f, nil
}
