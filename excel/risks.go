package excel

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

var RiskColumns = []string{
	"Code object",
	"Element",
	"Bouwdeel",
	"Actuele Risicoscore",
	"Actueel Risiconiveau",
	"Bureaustudie",
	"Toelichting",
}

var riskColumnWidths = []float64{12, 35, 35, 12, 20, 80, 80}

// RisksXLSX renders the highest risks of a werkpakket as a workbook with a
// single formatted table. Each row holds the values for RiskColumns.
func RisksXLSX(rows [][]string) ([]byte, error) {
	xlsx := excelize.NewFile()
	defer xlsx.Close()

	_ = xlsx.SetAppProps(&excelize.AppProperties{
		Application: "kastelo.dev/iak",
	})

	sheet := xlsx.GetSheetName(xlsx.GetActiveSheetIndex())
	if err := xlsx.SetSheetName(sheet, "Hoogste Risicos"); err != nil {
		return nil, err
	}
	sheet = "Hoogste Risicos"

	for i, w := range riskColumnWidths {
		col := 'A' + rune(i)
		_ = xlsx.SetColWidth(sheet, string(col), string(col), w)
	}

	for i, h := range RiskColumns {
		_ = xlsx.SetCellValue(sheet, cell('A'+rune(i), 1), h)
	}
	for r, row := range rows {
		for c, v := range row {
			if c >= len(RiskColumns) {
				break
			}
			ref := cell('A'+rune(c), r+2)
			if c == 3 {
				if n, err := strconv.Atoi(v); err == nil {
					_ = xlsx.SetCellInt(sheet, ref, n)
					continue
				}
			}
			_ = xlsx.SetCellValue(sheet, ref, v)
		}
	}

	last := max(len(rows)+1, 2)
	lastCol := 'A' + rune(len(RiskColumns)-1)

	body, _ := xlsx.NewStyle(mergeStyles(wrapTop(), thinBorder("left", "right", "top", "bottom")))
	_ = xlsx.SetCellStyle(sheet, "A2", cell(lastCol, last), body)
	header, _ := xlsx.NewStyle(mergeStyles(solidFill("#FFA500"), fontBold(), wrapTop()))
	_ = xlsx.SetCellStyle(sheet, "A1", cell(lastCol, 1), header)

	stripes := false
	if err := xlsx.AddTable(sheet, &excelize.Table{
		Range:             fmt.Sprintf("A1:%s", cell(lastCol, last)),
		Name:              "HoogsteRisicosTable",
		StyleName:         "TableStyleMedium7",
		ShowColumnStripes: true,
		ShowRowStripes:    &stripes,
	}); err != nil {
		return nil, err
	}

	buf, err := xlsx.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
