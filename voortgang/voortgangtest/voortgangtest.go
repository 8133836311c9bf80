// Package voortgangtest writes progress lists for tests.
package voortgangtest

import (
	"github.com/xuri/excelize/v2"
)

// Header is the header row of a progress list. The second "door" column
// names the quality reviewer.
var Header = []string{
	"Batch", "BH_code", "Objectnaam", "Inspectietekeningen", "Inspecteur 1", "Inspecteur 2",
	"door", "door", "V&R-indicatie", "Nader onderzoek", "Directe maatregelen",
	"Niet schade gerelateerde / gebruiksspecifieke risico’s", "Constructieve beoordeling",
}

// Write saves a progress list at path: a title on the first row of sheet
// Blad1, Header on the second and rows below it.
func Write(path string, rows [][]string) error {
	const sheet = "Blad1"
	xlsx := excelize.NewFile()
	defer xlsx.Close()
	if err := xlsx.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	_ = xlsx.SetCellValue(sheet, "A1", "Voortgangslijst werkpakket 1")
	for r, row := range append([][]string{Header}, rows...) {
		for c, v := range row {
			ref, _ := excelize.CoordinatesToCellName(c+1, r+2)
			_ = xlsx.SetCellValue(sheet, ref, v)
		}
	}
	return xlsx.SaveAs(path)
}
