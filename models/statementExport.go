package models

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExportStatementExcel renders a saved statement as an xlsx workbook: the
// month × charge matrix with totals, followed by the annual summary block.
func ExportStatementExcel(ctx context.Context, id int, w io.Writer) (string, error) {
	statement, err := GetStatement(ctx, id)
	if err != nil {
		return "", err
	}
	data, err := statement.Data()
	if err != nil {
		return "", err
	}
	summary, err := statement.AnnualSummary()
	if err != nil {
		return "", err
	}

	f := excelize.NewFile()
	sheetName := "Sheet1"
	if _, err := f.NewSheet(sheetName); err != nil {
		return "", err
	}

	f.SetCellValue(sheetName, "A1", statement.Title)

	// header row: charge name, one column per month, then totals
	headerRow := 3
	f.SetCellValue(sheetName, cellRef(1, headerRow), "Charge")
	for i, ym := range data.Months {
		f.SetCellValue(sheetName, cellRef(2+i, headerRow), fmt.Sprintf("%d/%d", ym.Month, ym.Year))
	}
	totalCol := 2 + len(data.Months)
	f.SetCellValue(sheetName, cellRef(totalCol, headerRow), "Charged")
	f.SetCellValue(sheetName, cellRef(totalCol+1, headerRow), "Actual")
	f.SetCellValue(sheetName, cellRef(totalCol+2, headerRow), "Diff")

	row := headerRow + 1
	for _, r := range data.Rows {
		f.SetCellValue(sheetName, cellRef(1, row), r.Name)
		for i, cell := range r.Cells {
			if cell.Excluded {
				f.SetCellValue(sheetName, cellRef(2+i, row), "-")
				continue
			}
			value, _ := cell.Value.Float64()
			f.SetCellValue(sheetName, cellRef(2+i, row), value)
		}
		charged, _ := r.ChargedTotal.Float64()
		actual, _ := r.Actual.Float64()
		diff, _ := r.Diff.Float64()
		f.SetCellValue(sheetName, cellRef(totalCol, row), charged)
		f.SetCellValue(sheetName, cellRef(totalCol+1, row), actual)
		f.SetCellValue(sheetName, cellRef(totalCol+2, row), diff)
		row++
	}

	row++
	totalCosts, _ := summary.TotalCosts.Float64()
	totalActual, _ := summary.TotalActual.Float64()
	balance, _ := summary.Balance.Float64()
	f.SetCellValue(sheetName, cellRef(1, row), "Total costs")
	f.SetCellValue(sheetName, cellRef(2, row), totalCosts)
	row++
	f.SetCellValue(sheetName, cellRef(1, row), "Total actual")
	f.SetCellValue(sheetName, cellRef(2, row), totalActual)
	row++
	f.SetCellValue(sheetName, cellRef(1, row), "Balance")
	f.SetCellValue(sheetName, cellRef(2, row), balance)
	row++
	f.SetCellValue(sheetName, cellRef(1, row), "Status")
	f.SetCellValue(sheetName, cellRef(2, row), string(summary.Status))

	if err := f.Write(w); err != nil {
		return "", err
	}
	return fmt.Sprintf("statement-%d.xlsx", statement.ID), nil
}

func cellRef(col int, row int) string {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Sprintf("A%d", row)
	}
	return ref
}
