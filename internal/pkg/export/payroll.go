// Package export writes spreadsheets for HR.
package export

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const payrollSheet = "Paie"

var payrollHeaders = []string{
	"N°", "Nom", "Prénom", "Poste", "Jours attendus", "Jours travaillés", "Absences",
	"Retards", "Sorties non justifiées", "Salaire de base", "Déductions", "Salaire net",
}

// PayrollRow is one employee's line in the monthly export.
type PayrollRow struct {
	Number          int64
	LastName        string
	FirstName       string
	Post            string
	ExpectedDays    int
	WorkedDays      int
	Absences        int
	LateCount       int
	Departures      int
	BaseSalary      decimal.Decimal
	TotalDeductions decimal.Decimal
	NetSalary       decimal.Decimal
}

// PayrollWorkbook builds the xlsx export of a month's salaries.
func PayrollWorkbook(month time.Month, year int, rows []PayrollRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", payrollSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	title := fmt.Sprintf("Paie %02d/%04d", int(month), year)
	if err := f.SetCellValue(payrollSheet, "A1", title); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	for i, header := range payrollHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(payrollSheet, cell, header); err != nil {
			return nil, err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(payrollHeaders), 2)
	if err := f.SetCellStyle(payrollSheet, "A2", lastHeader, bold); err != nil {
		return nil, err
	}

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+3)
		values := []interface{}{
			r.Number, r.LastName, r.FirstName, r.Post, r.ExpectedDays, r.WorkedDays, r.Absences,
			r.LateCount, r.Departures, r.BaseSalary.IntPart(), r.TotalDeductions.IntPart(), r.NetSalary.IntPart(),
		}
		if err := f.SetSheetRow(payrollSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(payrollSheet, "B", "D", 20); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
