// Package oratest writes ORA workbooks for tests.
package oratest

import (
	"github.com/xuri/excelize/v2"
)

// Header is a typical ORA header row. The second Toelichting column holds
// the explanation of the current risk.
var Header = []string{
	"Element",
	"Bouwdeel",
	"Bevinding:\n- Inspectie\n- Onderhoud\n- Overig",
	"Advies mutatie I-ORA & Onderhoud",
	"Fotonummers",
	"Actuele Risicoscore",
	"Actueel Risiconiveau",
	"Bureaustudie:\n- Instandhoudingsrapportages\n- Toestandsinpecties\n- Overig",
	"Toelichting",
	"Toelichting",
}

// Row is an ORA row keyed by Header index.
type Row map[int]string

// Write saves a workbook at path with a cover sheet and an ORA sheet
// holding header on row 10 and rows from row 12 on.
func Write(path string, header []string, rows []Row) error {
	xlsx := excelize.NewFile()
	defer xlsx.Close()

	if err := xlsx.SetSheetName("Sheet1", "Voorblad"); err != nil {
		return err
	}
	const sheet = "ORA 30F-310-01"
	if _, err := xlsx.NewSheet(sheet); err != nil {
		return err
	}

	_ = xlsx.SetCellValue(sheet, "A1", "Onderhouds- en risicoanalyse")
	for i, h := range header {
		ref, _ := excelize.CoordinatesToCellName(i+1, 10)
		_ = xlsx.SetCellValue(sheet, ref, h)
	}
	_ = xlsx.SetCellValue(sheet, "A11", "toelichting bij de kolommen")
	for r, row := range rows {
		for c, v := range row {
			ref, _ := excelize.CoordinatesToCellName(c+1, r+12)
			_ = xlsx.SetCellValue(sheet, ref, v)
		}
	}
	return xlsx.SaveAs(path)
}
