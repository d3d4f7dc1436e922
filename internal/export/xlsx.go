package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const registerSheet = "Filings"

// WriteXLSX renders the filings register as a spreadsheet and writes it to w.
func WriteXLSX(w io.Writer, rows []RegisterRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(registerSheet)
	if err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}

	for col, name := range registerColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("export.WriteXLSX: %w", err)
		}
		if err := f.SetCellValue(registerSheet, cell, name); err != nil {
			return fmt.Errorf("export.WriteXLSX: %w", err)
		}
	}

	for i := range rows {
		values := xlsxRow(&rows[i])
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("export.WriteXLSX: %w", err)
			}
			if err := f.SetCellValue(registerSheet, cell, v); err != nil {
				return fmt.Errorf("export.WriteXLSX: %w", err)
			}
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export.WriteXLSX: %w", err)
	}
	return nil
}

// xlsxRow mirrors rowToStrings but keeps numeric cells numeric so the
// spreadsheet sums cleanly.
func xlsxRow(r *RegisterRow) []interface{} {
	f := &r.Filing
	declared, _ := f.DeclaredAmount.Float64()
	taxable, _ := f.TaxableAmount.Float64()
	due, _ := f.ComputedTax.Float64()
	return []interface{}{
		r.Client.Name,
		r.Client.TaxNumber,
		string(f.TaxType),
		f.TaxYear,
		f.Period,
		string(f.Status),
		declared,
		taxable,
		due,
		string(f.AuthorityStatus),
		f.AuthorityRef,
		formatTime(f.SubmittedAt),
		formatTime(f.ReviewedAt),
		f.CreatedAt.Format(time.RFC3339),
	}
}
