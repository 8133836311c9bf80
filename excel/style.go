package excel

import (
	"fmt"

	"dario.cat/mergo"
	"github.com/xuri/excelize/v2"
)

func cell(col rune, row int) string {
	return fmt.Sprintf("%c%d", col, row)
}

func fontArial(size float64) *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{
			Family: "Arial",
			Size:   size,
		},
	}
}

func fontArialBold(size float64) *excelize.Style {
	s := fontArial(size)
	s.Font.Bold = true
	return s
}

func fontBold() *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
	}
}

// Left, top and wrapped; used for the long standard texts.
func alignTopLeft() *excelize.Style {
	return &excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: "left",
			Vertical:   "top",
			WrapText:   true,
		},
	}
}

func wrapTop() *excelize.Style {
	return &excelize.Style{
		Alignment: &excelize.Alignment{
			Vertical: "top",
			WrapText: true,
		},
	}
}

func solidFill(color string) *excelize.Style {
	return &excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{color},
			Pattern: 1,
		},
	}
}

func thinBorder(where ...string) *excelize.Style {
	s := &excelize.Style{}
	for _, w := range where {
		s.Border = append(s.Border, excelize.Border{
			Type:  w,
			Color: "#000000",
			Style: 1,
		})
	}
	return s
}

func mergeStyles(ext ...*excelize.Style) *excelize.Style {
	if len(ext) == 0 {
		return nil
	}
	for _, e := range ext[1:] {
		_ = mergo.Merge(ext[0], e, mergo.WithOverride)
	}
	return ext[0]
}

// restyle merges ext into the style currently applied to the cell, so
// that a font change keeps the existing borders, fills and alignment.
func restyle(xlsx *excelize.File, sheet, ref string, ext ...*excelize.Style) error {
	cur := &excelize.Style{}
	if id, err := xlsx.GetCellStyle(sheet, ref); err == nil && id != 0 {
		if s, err := xlsx.GetStyle(id); err == nil && s != nil {
			cur = s
		}
	}
	style, err := xlsx.NewStyle(mergeStyles(append([]*excelize.Style{cur}, ext...)...))
	if err != nil {
		return err
	}
	return xlsx.SetCellStyle(sheet, ref, ref, style)
}
