// Package exceltest builds inspection report workbooks for tests.
package exceltest

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// InspectionReport returns a workbook shaped like an inspection report
// export: Sheet1 to Sheet28 followed by a document map, with a photo page
// on Sheet17 and Sheet18.
func InspectionReport() (*excelize.File, error) {
	xlsx := excelize.NewFile()
	for i := 2; i <= 28; i++ {
		if _, err := xlsx.NewSheet(fmt.Sprintf("Sheet%d", i)); err != nil {
			return nil, err
		}
	}
	if _, err := xlsx.NewSheet("Document map"); err != nil {
		return nil, err
	}

	values := []struct{ sheet, ref, v string }{
		{"Sheet2", "H8", "Vaste brug"},
		{"Sheet2", "H9", "Brug over het kanaal"},
		{"Sheet2", "H10", "RWS West-Nederland Zuid"},
		{"Sheet4", "D9", "Maatregel 1"},
		{"Sheet4", "D10", "Maatregel 2"},
		{"Sheet4", "D12", "standaardtekst"},
		{"Sheet4", "D13", "tweede tekst"},
		{"Sheet10", "I12", strings.Repeat("x", 450)},
		{"Sheet10", "I13", "kort"},
		{"Sheet17", "C6", "foto"},
		{"Sheet17", "C8", "Beschrijving van de schade"},
		{"Sheet18", "C4", "Omgevingsfoto schade"},
		{"Sheet18", "C6", "Tekst bij foto"},
		{"Sheet19", "C4", "Bijlage 6"},
		{"Sheet19", "C6", "Inspectietekeningen"},
		{"Sheet24", "F20", "Status ORA (IN_UITVOERING)"},
	}
	for _, v := range values {
		if err := xlsx.SetCellValue(v.sheet, v.ref, v.v); err != nil {
			return nil, err
		}
	}
	return xlsx, nil
}

// WriteInspectionReport saves InspectionReport() at path.
func WriteInspectionReport(path string) error {
	xlsx, err := InspectionReport()
	if err != nil {
		return err
	}
	defer xlsx.Close()
	return xlsx.SaveAs(path)
}
