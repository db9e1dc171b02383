package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"paisa/internal/core"
)

const sheetName = "Sheet1"

var (
	expenseHeaders = []string{"amount", "category", "payment_mode", "date", "time", "note"}
	savingHeaders  = []string{"amount", "saving_mode", "date", "note"}
)

// Expenses builds an xlsx workbook listing the given expenses, one row per
// record, with a header row of field names. Identity fields are not exported.
func Expenses(expenses []core.Expense) ([]byte, error) {
	rows := make([][]any, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, []any{
			e.Amount.Rupees(),
			e.Category,
			e.PaymentMode,
			e.Date.ISO(),
			e.Time,
			e.Note,
		})
	}
	return workbook(expenseHeaders, rows)
}

// Savings builds an xlsx workbook listing the given savings.
func Savings(savings []core.Saving) ([]byte, error) {
	rows := make([][]any, 0, len(savings))
	for _, s := range savings {
		rows = append(rows, []any{
			s.Amount.Rupees(),
			s.SavingMode,
			s.Date.ISO(),
			s.Note,
		})
	}
	return workbook(savingHeaders, rows)
}

func workbook(headers []string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, fmt.Errorf("write header %q: %w", h, err)
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, fmt.Errorf("write row %d: %w", r+1, err)
			}
		}
	}

	for i := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, 16); err != nil {
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}
