package excel

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"kastelo.dev/iak"
)

// PIVariables are the values printed on a PI report. They come from the
// configuration, the progress list and the title sheet of the workbook.
type PIVariables struct {
	Opdrachtgever     string
	ContactpersoonRWS string
	Zaaknummer        string
	Versie            string
	Datum             string
	Omschrijving      string
	Opdrachtnemer     string
	Projectleider     string
	Projectnummer     string

	Opsteller           string
	Kwaliteitsbeheerder string
	Inspecteurs         string

	VenR                     string
	NaderOnderzoek           string
	DirecteMaatregel         string
	NietSchadeGerelateerd    string
	ConstructieveBeoordeling string

	ObjectCode         string
	ComplexCode        string
	ObjectOmschrijving string
	ObjectNaam         string
	ObjectBeheer       string
}

const (
	omgevingsfoto = "Omgevingsfoto schade"
	documentMap   = "Document map"
	titleSheet    = "Sheet2"
)

// The fixed sheets of an inspection report; Sheet18 onwards holds the
// photo pages followed by the later appendices.
var piSheets = []string{
	"Sheet2", "Sheet3", "Sheet4", "Sheet5", "Sheet6", "Sheet7", "Sheet8", "Sheet9",
	"Sheet10", "Sheet11", "Sheet12", "Sheet13", "Sheet14", "Sheet15", "Sheet16",
	"Sheet17", "Sheet18",
}

func PIFileName(code string) string {
	return fmt.Sprintf("PI rapport %s.xlsx", code)
}

// WritePI populates the inspection report at src and saves it as
// "PI rapport <code>.xlsx" in dir. It returns the written path and the
// variables as completed from the workbook.
func WritePI(src, dir string, vars PIVariables, now time.Time) (string, PIVariables, error) {
	xlsx, err := excelize.OpenFile(src)
	if err != nil {
		return "", vars, fmt.Errorf("%w: %s: %v", iak.ErrParse, src, err)
	}
	defer xlsx.Close()

	vars, err = PopulatePI(xlsx, vars, now)
	if err != nil {
		return "", vars, err
	}

	if err := FinalizePI(xlsx); err != nil {
		return "", vars, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", vars, err
	}
	dst := filepath.Join(dir, PIFileName(vars.ObjectCode))
	if err := xlsx.SaveAs(dst); err != nil {
		return "", vars, err
	}
	return dst, vars, nil
}

// PopulatePI fills in and formats every sheet of an inspection report.
func PopulatePI(xlsx *excelize.File, vars PIVariables, now time.Time) (PIVariables, error) {
	sheets := xlsx.GetSheetList()
	for _, s := range piSheets {
		if !slices.Contains(sheets, s) {
			return vars, fmt.Errorf("%w: inspection report has no sheet %q", iak.ErrParse, s)
		}
	}

	vars = readTitleVariables(xlsx, vars, now)

	populateTitlePage(xlsx, "Sheet2", vars)
	populateInhoud(xlsx, "Sheet3")
	populateAanbeveling(xlsx, "Sheet4", vars)
	_ = restyle(xlsx, "Sheet5", "D4", fontArial(18))
	populateMIOK(xlsx, "Sheet6")
	populateInleiding(xlsx, "Sheet7", vars)
	populateObjectgegevens(xlsx, "Sheet8")
	populateRisicoanalyse(xlsx, "Sheet9")
	populateBevindingen(xlsx, "Sheet10")
	populateBevindingenVervolg(xlsx, "Sheet11", vars)
	populateColofon(xlsx, "Sheet12", vars)
	for _, s := range []string{"Sheet13", "Sheet14", "Sheet15"} {
		_ = restyle(xlsx, s, "B4", fontArial(16))
	}
	populateBijlage4(xlsx, "Sheet16")

	next := populatePhotoPages(xlsx, sheets)
	appendix := func(offset int) (string, error) {
		if next+offset >= len(sheets) {
			return "", fmt.Errorf("%w: inspection report has too few sheets after the photo pages", iak.ErrParse)
		}
		return sheets[next+offset], nil
	}

	steps := []struct {
		offset int
		fn     func(*excelize.File, string, PIVariables)
	}{
		{0, populateBijlage6},
		{1, fontAt("C4", 16)},
		{4, fontAt("C5", 16)},
		{5, populateBijlage8_2},
		{6, populateBijlage8_3},
		{7, fontAt("C5", 16)},
		{8, populateBijlage10},
	}
	for _, st := range steps {
		sheet, err := appendix(st.offset)
		if err != nil {
			return vars, err
		}
		st.fn(xlsx, sheet, vars)
	}

	setFooters(xlsx, sheets, vars)
	return vars, nil
}

// FinalizePI removes the document map and opens the workbook on the
// title page.
func FinalizePI(xlsx *excelize.File) error {
	if idx, _ := xlsx.GetSheetIndex(documentMap); idx >= 0 {
		if err := xlsx.DeleteSheet(documentMap); err != nil {
			return err
		}
	}
	idx, err := xlsx.GetSheetIndex(titleSheet)
	if err != nil || idx < 0 {
		return fmt.Errorf("%w: inspection report has no sheet %q", iak.ErrParse, titleSheet)
	}
	xlsx.SetActiveSheet(idx)
	return nil
}

func readTitleVariables(xlsx *excelize.File, vars PIVariables, now time.Time) PIVariables {
	vars.ObjectOmschrijving, _ = xlsx.GetCellValue(titleSheet, "H8")
	vars.ObjectNaam, _ = xlsx.GetCellValue(titleSheet, "H9")
	vars.ObjectBeheer, _ = xlsx.GetCellValue(titleSheet, "H10")
	if vars.Datum == "" {
		vars.Datum = now.Format("02-01-2006")
	}
	return vars
}

func fontAt(ref string, size float64) func(*excelize.File, string, PIVariables) {
	return func(xlsx *excelize.File, sheet string, _ PIVariables) {
		_ = restyle(xlsx, sheet, ref, fontArial(size))
	}
}

func maxRow(xlsx *excelize.File, sheet string) int {
	rows, err := xlsx.GetRows(sheet)
	if err != nil {
		return 0
	}
	return len(rows)
}

func populateTitlePage(xlsx *excelize.File, sheet string, vars PIVariables) {
	for ref, v := range map[string]string{
		"H14": vars.Opdrachtgever,
		"H15": vars.ContactpersoonRWS,
		"H16": vars.Zaaknummer,
		"F23": vars.Versie,
		"J23": vars.Datum,
		"L23": vars.Omschrijving,
		"D25": vars.Opdrachtnemer,
		"C27": vars.Opsteller,
		"I27": vars.Kwaliteitsbeheerder,
		"O27": vars.Projectleider,
	} {
		_ = xlsx.SetCellValue(sheet, ref, v)
	}

	_ = xlsx.SetRowHeight(sheet, 10, 30)
	_ = xlsx.SetRowHeight(sheet, 14, 30)
	_ = xlsx.SetRowHeight(sheet, 27, 45)

	// Make room for the names in the signature boxes.
	for col, delta := range map[string]float64{"C": 1, "L": 2, "S": 3, "H": -2, "N": -2, "V": -2} {
		w, err := xlsx.GetColWidth(sheet, col)
		if err != nil {
			continue
		}
		_ = xlsx.SetColWidth(sheet, col, col, w+delta)
	}
}

func populateInhoud(xlsx *excelize.File, sheet string) {
	_ = restyle(xlsx, sheet, "C5", fontArial(10))
	_ = xlsx.SetRowHeight(sheet, 6, 235)
	_ = xlsx.SetRowHeight(sheet, 7, 15)
}

const (
	textIntro = "Voor de volledige uitwerking van het planoverzicht in MIOK, wordt verwezen naar hoofdstuk 2. " +
		"Hierin zijn per instandhoudingsonderdeel de onderhouds- en/of vervangingsmaatregelen inclusief bijbehorende kosten opgenomen."
	textGeenNaderOnderzoek = "Nader onderzoek:\nZowel vanuit de opgestelde (i-)ORA als vanuit de uitgevoerde " +
		"inspectiewerkzaamheden is geen noodzaak gebleken voor het uitvoeren van een nader onderzoek."
	textNaderOnderzoek         = "Nader onderzoek:\nVanuit de uitgevoerde inspectiewerkzaamheden wordt het volgende nader onderzoek geadviseerd: %s"
	textGeenDirecteMaatregel   = "Directe maatregelen:\nBij dit object zijn geen directe maatregelen noodzakelijk geacht."
	textDirecteMaatregel       = "Directe maatregelen:\nBij dit object zijn de volgende directe maatregelen noodzakelijk geacht: %s"
	textAandachtspuntBeheerder = "Aandachtspunten voor de beheerder:\nIn Bijlage 9: Aandachtspunten voor de beheerder zijn de " +
		"schades opgenomen die geconstateerd zijn tijdens de inspectie maar, volgens de risicoanalyse, geen risico " +
		"initiëren voor het functioneren van het object. Daarnaast zijn de schades opgenomen die vallen onder " +
		"standaard verzorgend onderhoud"

	textGeenNietSchade = "Niet schade gerelateerde / gebruiksspecifieke risicos:\nBij dit beheerobject zijn (geen)  " +
		"niet- schadegerelateerde/ gebruiksspecifieke risico’s aanwezig.\n\nVoor de volledige uitwerking en " +
		"onderbouwing (inclusief eventuele schadeomschrijvingen) wordt verwezen naar Bijlage 8: Risico- en schadeomschrijving."
	textNietSchade = "Niet schade gerelateerde / gebruiksspecifieke risicos:\nBij dit beheerobject zijn de volgende " +
		"niet schade gerelateerde / gebruiksspecifieke risico’s geconstateerd: %s"
	textGeenConstructief = "Analyse constructieve beoordeling:\nOp basis van het objecttype is geen nadere constructieve " +
		"beoordeling volgens het constructieve risico-indexerings- en afwegingsmodel (CRIAM) uitgevoerd.\n\nVoor de " +
		"volledige uitwerking en onderbouwing (inclusief eventuele schadeomschrijvingen) wordt verwezen naar " +
		"Bijlage 8: Risico- en schadeomschrijving"
	textConstructief = "Op basis van het objecttype is een nadere constructieve beoordeling volgens het constructieve " +
		"risico-indexerings- en afwegingsmodel (CRIAM) uitgevoerd."

	textInspectiemethode = "De inspectiemethode is opgenomen in de ORA als toevoeging op de bureaustudie,\n" +
		"onderdeel 4a. Specifieke inspectie instructies, bereikbaarheidsmiddelen en \n" +
		"verkeersmaatregelen zijn daarin per bouwdeel gespecificeerd. Naast specifieke\n" +
		"bereikbaarheidsmiddelen heeft de IU standaard een kleine inspectieboot en ladder\n" +
		"beschikbaar tijdens de inspectie. "
)

// AanbevelingText is the recommendation text on the first chapter.
func AanbevelingText(vars PIVariables) string {
	nader := textGeenNaderOnderzoek
	if vars.NaderOnderzoek != "" {
		nader = fmt.Sprintf(textNaderOnderzoek, vars.NaderOnderzoek)
	}
	direct := textGeenDirecteMaatregel
	if vars.DirecteMaatregel != "" {
		direct = fmt.Sprintf(textDirecteMaatregel, vars.DirecteMaatregel)
	}
	return strings.Join([]string{textIntro, nader, direct, textAandachtspuntBeheerder}, "\n\n")
}

func populateAanbeveling(xlsx *excelize.File, sheet string, vars PIVariables) {
	_ = xlsx.SetCellValue(sheet, "C5", "1  Aanbeveling")
	_ = restyle(xlsx, sheet, "C5", fontArial(18))

	last := maxRow(xlsx, sheet)

	// The table starting on row 9 ends at the first empty D cell.
	end := 8
	for row := 9; row <= last; row++ {
		if v, _ := xlsx.GetCellValue(sheet, cell('D', row)); v == "" {
			break
		}
		_ = xlsx.SetRowHeight(sheet, row, 30)
		end = row
	}

	// The first text below it receives the recommendation, the rest is
	// cleared.
	written := false
	for row := end + 1; row <= last; row++ {
		ref := cell('D', row)
		v, _ := xlsx.GetCellValue(sheet, ref)
		switch {
		case v != "" && !written:
			_ = xlsx.SetCellValue(sheet, ref, AanbevelingText(vars))
			_ = xlsx.SetRowHeight(sheet, row, 300)
			written = true
		case v != "":
			_ = xlsx.SetCellValue(sheet, ref, "")
		}
	}
}

func populateMIOK(xlsx *excelize.File, sheet string) {
	_ = xlsx.SetColWidth(sheet, "AH", "AH", 4)

	rows, _ := xlsx.GetRows(sheet)
	fontRows(xlsx, sheet, rows, 1, len(rows), 7)

	setPrintArea(xlsx, sheet, fmt.Sprintf("$A$1:$AL$%d", max(len(rows), 1)))
	fitToWidth(xlsx, sheet)
}

// fontRows sets the font size of every used cell on rows from..to.
func fontRows(xlsx *excelize.File, sheet string, rows [][]string, from, to int, size float64) {
	for r := from; r <= to && r <= len(rows); r++ {
		for c := range rows[r-1] {
			ref, err := excelize.CoordinatesToCellName(c+1, r)
			if err != nil {
				continue
			}
			_ = restyle(xlsx, sheet, ref, fontArial(size))
		}
	}
}

func setPrintArea(xlsx *excelize.File, sheet, area string) {
	name := &excelize.DefinedName{Name: "_xlnm.Print_Area", Scope: sheet}
	_ = xlsx.DeleteDefinedName(name)
	name.RefersTo = fmt.Sprintf("'%s'!%s", strings.ReplaceAll(sheet, "'", "''"), area)
	_ = xlsx.SetDefinedName(name)
}

func fitToWidth(xlsx *excelize.File, sheet string) {
	fit := true
	height := 0
	_ = xlsx.SetSheetProps(sheet, &excelize.SheetPropsOptions{FitToPage: &fit})
	_ = xlsx.SetPageLayout(sheet, &excelize.PageLayoutOptions{FitToHeight: &height})
}

func populateInleiding(xlsx *excelize.File, sheet string, vars PIVariables) {
	_ = xlsx.SetCellValue(sheet, "C4", "3  Inleiding")
	_ = restyle(xlsx, sheet, "C4", fontArial(18))

	_ = restyle(xlsx, sheet, "C6", fontArial(12))
	_ = restyle(xlsx, sheet, "D6", fontArial(12))
	_ = xlsx.SetCellValue(sheet, "D7", fmt.Sprintf("In opdracht van Rijkswaterstaat is door %s een instandhoudingsinspectie uitgevoerd aan", vars.Opdrachtnemer))
	_ = xlsx.SetCellValue(sheet, "E12", vars.Inspecteurs)
	_ = xlsx.SetRowHeight(sheet, 12, 70)
	_ = xlsx.SetRowHeight(sheet, 13, 15)

	for _, row := range []int{15, 18} {
		_ = restyle(xlsx, sheet, cell('D', row), fontArial(10), alignTopLeft())
		_ = xlsx.SetRowHeight(sheet, row, 70)
		_ = xlsx.SetRowHeight(sheet, row+1, 15)
	}

	fitToWidth(xlsx, sheet)
}

func populateObjectgegevens(xlsx *excelize.File, sheet string) {
	_ = xlsx.MergeCell(sheet, "D21", "P21")
	_ = xlsx.MergeCell(sheet, "D24", "P24")
	_ = xlsx.SetCellValue(sheet, "D4", "4  Objectgegevens")
	_ = restyle(xlsx, sheet, "D4", fontArial(18))
	_ = xlsx.SetRowHeight(sheet, 4, 25)
}

func populateRisicoanalyse(xlsx *excelize.File, sheet string) {
	_ = xlsx.SetCellValue(sheet, "C4", "5  Risicoanalyse")
	_ = restyle(xlsx, sheet, "C4", fontArial(18))

	_ = xlsx.SetCellValue(sheet, "C6", "5.1")
	_ = restyle(xlsx, sheet, "C6", fontArial(12))
	_ = restyle(xlsx, sheet, "D8", fontArial(10))
	_ = xlsx.SetRowHeight(sheet, 8, 70)

	_ = restyle(xlsx, sheet, "C10", fontArial(12))
	_ = restyle(xlsx, sheet, "D10", fontArial(12))
	_ = restyle(xlsx, sheet, "D12", fontArial(10), alignTopLeft())
	_ = xlsx.SetRowHeight(sheet, 12, 85)

	_ = restyle(xlsx, sheet, "C14", fontArial(12))
	_ = restyle(xlsx, sheet, "D14", fontArial(12))
	_ = xlsx.SetCellValue(sheet, "D16", textInspectiemethode)
	_ = restyle(xlsx, sheet, "D16", fontArial(10), alignTopLeft())
	_ = xlsx.SetRowHeight(sheet, 16, 75)
}

// FindingRowHeight is the height of a findings row holding text of n
// characters: 105 points per started 200 characters.
func FindingRowHeight(n int) float64 {
	if n <= 200 {
		return 105
	}
	return math.Ceil(float64(n) / 200 * 105)
}

func populateBevindingen(xlsx *excelize.File, sheet string) {
	if v, _ := xlsx.GetCellValue(sheet, "D5"); v == "6Bevindingen\n  \n" {
		_ = xlsx.SetCellValue(sheet, "D5", "6  Bevindingen")
		_ = restyle(xlsx, sheet, "D5", fontArial(18))
		_ = restyle(xlsx, sheet, "D7", fontArial(12))
		return
	}

	_ = xlsx.SetCellValue(sheet, "E5", "6  Bevindingen")
	_ = restyle(xlsx, sheet, "E5", fontArial(18))
	_ = restyle(xlsx, sheet, "E7", fontArial(12))

	last := maxRow(xlsx, sheet)
	for row := 12; row <= last; row++ {
		text, _ := xlsx.GetCellValue(sheet, cell('I', row))
		_ = xlsx.SetRowHeight(sheet, row, FindingRowHeight(utf8.RuneCountInString(text)))
	}
}

func populateBevindingenVervolg(xlsx *excelize.File, sheet string, vars PIVariables) {
	nietSchade := textGeenNietSchade
	if vars.NietSchadeGerelateerd != "" {
		nietSchade = fmt.Sprintf(textNietSchade, vars.NietSchadeGerelateerd)
	}
	constructief := textGeenConstructief
	if vars.ConstructieveBeoordeling != "" {
		constructief = textConstructief
	}

	_ = restyle(xlsx, sheet, "C4", fontArial(12))
	_ = restyle(xlsx, sheet, "D4", fontArial(12))
	_ = xlsx.SetCellValue(sheet, "D6", nietSchade)
	_ = restyle(xlsx, sheet, "D6", fontArial(10))
	_ = restyle(xlsx, sheet, "C8", fontArial(12))
	_ = restyle(xlsx, sheet, "D8", fontArial(12))
	_ = xlsx.SetCellValue(sheet, "D10", constructief)
	_ = xlsx.SetRowHeight(sheet, 6, 80)
	_ = xlsx.SetRowHeight(sheet, 10, 80)
}

func populateColofon(xlsx *excelize.File, sheet string, vars PIVariables) {
	_ = restyle(xlsx, sheet, "C4", fontArial(18))
	_ = xlsx.SetCellValue(sheet, "D9", "Zaaknummer")
	_ = restyle(xlsx, sheet, "D9", fontArial(10))

	values := []struct{ ref, v string }{
		{"E7", vars.Opdrachtgever},
		{"E8", vars.ContactpersoonRWS},
		{"E9", vars.Zaaknummer},
		{"E10", vars.Opdrachtnemer},
		{"E11", vars.Projectleider},
		{"E12", vars.Projectnummer},
		{"E13", fmt.Sprintf("PI rapport %s.pdf", vars.ObjectCode)},
	}
	for _, v := range values {
		_ = xlsx.SetCellValue(sheet, v.ref, ": "+v.v)
		_ = restyle(xlsx, sheet, v.ref, fontArial(10))
	}
}

func populateBijlage4(xlsx *excelize.File, sheet string) {
	_ = restyle(xlsx, sheet, "B4", fontArial(16))
	rows, _ := xlsx.GetRows(sheet)
	fontRows(xlsx, sheet, rows, 12, len(rows)-1, 8)
	for row := 13; row < len(rows)+5; row += 10 {
		_ = xlsx.SetRowHeight(sheet, row, 22)
	}
}

// populatePhotoPages formats the first Bijlage 5 sheet and the photo
// pages following it. It returns the index of the first sheet after the
// photo pages.
func populatePhotoPages(xlsx *excelize.File, sheets []string) int {
	sheet := "Sheet17"
	_ = restyle(xlsx, sheet, "B4", fontArial(16))
	if v, _ := xlsx.GetCellValue(sheet, "C6"); v != "" {
		_ = xlsx.SetCellValue(sheet, "C6", omgevingsfoto)
		_ = restyle(xlsx, sheet, "C6", fontArialBold(10))
		_ = xlsx.SetCellValue(sheet, "D6", "Schadefoto")
		_ = restyle(xlsx, sheet, "D6", fontArialBold(10))

		descr, _ := xlsx.GetCellValue(sheet, "C8")
		_ = xlsx.SetCellValue(sheet, "C10", descr)
		_ = xlsx.SetCellValue(sheet, "C8", "")
		_ = restyle(xlsx, sheet, "C10", fontArial(10), alignTopLeft())
		_ = xlsx.SetRowHeight(sheet, 10, 300)
		_ = xlsx.SetRowVisible(sheet, 10, true)
		_ = xlsx.SetRowHeight(sheet, 9, 2)
	}

	start := slices.Index(sheets, "Sheet18")
	last := -1
	for i := start; i < len(sheets); i++ {
		sheet := sheets[i]
		if v, _ := xlsx.GetCellValue(sheet, "C4"); v != omgevingsfoto {
			break
		}
		if h, _ := xlsx.GetRowHeight(sheet, 8); h >= 5 {
			text, _ := xlsx.GetCellValue(sheet, "C6")
			_ = xlsx.SetCellValue(sheet, "C8", text)
			_ = xlsx.SetCellValue(sheet, "C6", "")
			_ = restyle(xlsx, sheet, "C8", fontArial(10), alignTopLeft())
			_ = xlsx.SetRowHeight(sheet, 8, 300)
			_ = xlsx.SetRowVisible(sheet, 8, true)
			_ = xlsx.SetRowHeight(sheet, 7, 2)
		} else {
			_ = xlsx.SetRowHeight(sheet, 6, 300)
			_ = restyle(xlsx, sheet, "C6", fontArial(10))
		}
		last = i
	}

	if last >= 0 && last+1 < len(sheets) {
		return last + 1
	}
	return start
}

func populateBijlage6(xlsx *excelize.File, sheet string, _ PIVariables) {
	_ = restyle(xlsx, sheet, "B4", fontArial(16))
	_ = xlsx.SetCellValue(sheet, "C6", "")
}

func populateBijlage8_2(xlsx *excelize.File, sheet string, vars PIVariables) {
	if v, _ := xlsx.GetCellValue(sheet, "F20"); strings.HasSuffix(v, "(IN_UITVOERING)") {
		_ = xlsx.SetCellValue(sheet, "F20", strings.ReplaceAll(v, "(IN_UITVOERING)", "(VASTGESTELD)"))
	}
	_ = xlsx.SetRowHeight(sheet, 7, 45)
	_ = xlsx.SetCellValue(sheet, "F23", vars.Opdrachtnemer)
	_ = xlsx.SetRowHeight(sheet, 18, 30)
}

// rowBlocks splits the rows of a sheet into blocks of consecutive filled
// rows in columns C and D, starting after row 6. A block extends over the
// empty rows following it.
func rowBlocks(filled []bool, first, last int) [][]int {
	isFilled := func(row int) bool {
		return row >= first && row <= last && filled[row-first]
	}
	nextRow := func(after int, want bool) (int, bool) {
		for r := after + 1; r <= last; r++ {
			if isFilled(r) == want {
				return r, true
			}
		}
		return 0, false
	}

	var blocks [][]int
	end := 6
	for {
		start, ok := nextRow(end, true)
		if !ok {
			break
		}
		if empty, ok := nextRow(start, false); ok {
			end = empty
			if r, ok := nextRow(empty, true); ok {
				end = r
			}
			end--
		} else {
			end = last + 1
		}

		var rows []int
		for r := start; r < end; r++ {
			rows = append(rows, r)
		}
		if len(rows) > 0 {
			blocks = append(blocks, rows)
		}
	}
	return blocks
}

func populateBijlage8_3(xlsx *excelize.File, sheet string, _ PIVariables) {
	const first = 4
	last := maxRow(xlsx, sheet)
	if last < first {
		return
	}
	filled := make([]bool, last-first+1)
	for r := first; r <= last; r++ {
		c, _ := xlsx.GetCellValue(sheet, cell('C', r))
		d, _ := xlsx.GetCellValue(sheet, cell('D', r))
		filled[r-first] = c+d != ""
	}

	for _, rows := range rowBlocks(filled, first, last) {
		name, _ := xlsx.GetCellValue(sheet, cell('C', rows[0]))
		if name == "" {
			continue
		}
		for row, height := range bijlage8_3Heights(name, rows) {
			_ = xlsx.SetRowHeight(sheet, row, height)
		}
	}
}

// bijlage8_3Heights returns the row heights for a block of the
// characteristics appendix, keyed by row.
func bijlage8_3Heights(name string, rows []int) map[int]float64 {
	res := make(map[int]float64)
	set := func(rows []int, h float64) {
		for _, r := range rows {
			res[r] = h
		}
	}
	switch {
	case strings.HasPrefix(name, "Toestand karakteristiek"):
		if len(rows) > 0 {
			set(rows[:len(rows)-1], 15)
		}
	case strings.HasPrefix(name, "IH-onderdeelnaam"):
		set(rows[1:], 45)
	case strings.HasPrefix(name, "Aspecteis"):
		set(rows[1:], 130)
	case strings.HasPrefix(name, "Afgemelde"):
		if len(rows) > 2 {
			set(rows[2:], 45)
		}
	case !strings.HasPrefix(name, "Referentiegegevens") && strings.Contains(name, "-"):
		// Element blocks, e.g. the main load bearing structure.
		for _, d := range []int{7, 9, 18, 21} {
			res[rows[0]+d] = 80
		}
	}
	return res
}

func populateBijlage10(xlsx *excelize.File, sheet string, _ PIVariables) {
	_ = restyle(xlsx, sheet, "C5", fontArial(16))
	_ = restyle(xlsx, sheet, "D7", fontArial(10))
}

// Footer returns the page footer for the report sheets.
func Footer(vars PIVariables) string {
	font := `&"Arial,Regular"&7`
	left := fmt.Sprintf("Complex: %s\nBeheerobject: %s\nVertrouwelijkheid: RWS Bedrijfsvertrouwelijk", vars.ComplexCode, vars.ObjectCode)
	right := fmt.Sprintf("Revisie: %s\nDatum: %s\nPagina &P van &N", vars.Versie, vars.Datum)
	return "&L" + font + left + "&R" + font + right
}

func setFooters(xlsx *excelize.File, sheets []string, vars PIVariables) {
	footer := Footer(vars)
	for _, sheet := range sheets[min(2, len(sheets)):] {
		_ = xlsx.SetHeaderFooter(sheet, &excelize.HeaderFooterOptions{
			DifferentOddEven: true,
			OddFooter:        footer,
			EvenFooter:       footer,
		})
	}
}
