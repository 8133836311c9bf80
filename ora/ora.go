// Package ora reads the risk analysis (ORA) workbook of an object.
package ora

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"kastelo.dev/iak"
	"kastelo.dev/iak/excel"
)

const (
	ColElement      = "Element"
	ColBouwdeel     = "Bouwdeel"
	ColBevinding    = "Bevinding:\n- Inspectie\n- Onderhoud\n- Overig"
	ColAdvies       = "Advies mutatie I-ORA & Onderhoud"
	ColRisicoscore  = "Actuele Risicoscore"
	ColRisiconiveau = "Actueel Risiconiveau"
	ColBureaustudie = "Bureaustudie:\n- Instandhoudingsrapportages\n- Toestandsinpecties\n- Overig"
	ColToelichting  = "Toelichting.1"
)

// The header is on row 10; the row below it is a spacer.
const (
	headerRow = 10
	skipRows  = 1
)

// RiskThreshold is the lowest risk score reported as a highest risk.
const RiskThreshold = 6

var additionMarks = regexp.MustCompile(`\(Ontbost\)|\(\+\)|\+`)

// Load opens the workbook at path and reads its ORA sheet.
func Load(path string) (*excel.Table, error) {
	xlsx, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", iak.ErrParse, path, err)
	}
	defer xlsx.Close()

	t, err := Read(xlsx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read reads the first sheet whose name starts with "ORA". Element and
// Bouwdeel are left empty below the first row of a group, so they are
// filled down; addition markers are stripped from Bouwdeel.
func Read(xlsx *excelize.File) (*excel.Table, error) {
	sheet := ""
	for _, s := range xlsx.GetSheetList() {
		if strings.HasPrefix(s, "ORA") {
			sheet = s
			break
		}
	}
	if sheet == "" {
		return nil, fmt.Errorf("%w: no sheet starting with ORA", iak.ErrParse)
	}

	t, err := excel.ReadTable(xlsx, sheet, headerRow, skipRows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", iak.ErrParse, err)
	}
	for _, col := range []string{ColElement, ColBouwdeel} {
		if !t.Has(col) {
			return nil, fmt.Errorf("%w: sheet %q has no column %q", iak.ErrParse, sheet, col)
		}
	}

	t.FillDown(ColElement)
	t.FillDown(ColBouwdeel)
	for i := range t.Rows {
		t.Set(i, ColBouwdeel, strings.TrimSpace(additionMarks.ReplaceAllString(t.Value(i, ColBouwdeel), "")))
	}
	return t, nil
}

// AttentionPoint is a finding the manager should be made aware of.
type AttentionPoint struct {
	Number    string
	Bevinding string
	Element   string
	Bouwdeel  string
	Category  string
	Photos    []string
}

// CategoryColumn returns the column classifying the findings: the first
// column starting with "Categorie", or the advice column.
func CategoryColumn(t *excel.Table) string {
	if col, ok := t.FirstColumn(func(s string) bool { return strings.HasPrefix(s, "Categorie") }); ok {
		return col
	}
	return ColAdvies
}

// AttentionPoints returns the rows categorised as an attention point for
// the manager ("aandachtspunt" and "beheerder", in any case).
func AttentionPoints(t *excel.Table) []AttentionPoint {
	catCol := CategoryColumn(t)
	photoCol, _ := t.FirstColumn(func(s string) bool { return strings.Contains(s, "Foto") })

	var res []AttentionPoint
	for i := range t.Rows {
		cat := t.Value(i, catCol)
		lower := strings.ToLower(cat)
		if !strings.Contains(lower, "aandachtspunt") || !strings.Contains(lower, "beheerder") {
			continue
		}
		number, bevinding, _ := strings.Cut(t.Value(i, ColBevinding), ": ")
		res = append(res, AttentionPoint{
			Number:    number,
			Bevinding: bevinding,
			Element:   firstPart(t.Value(i, ColElement)),
			Bouwdeel:  t.Value(i, ColBouwdeel),
			Category:  cat,
			Photos:    iak.PhotoNumbers(t.Value(i, photoCol)),
		})
	}
	return res
}

// Risk is a row of the risk analysis with a high current risk score.
type Risk struct {
	Object       string
	Element      string
	Bouwdeel     string
	Score        int
	Niveau       string
	Bureaustudie string
	Toelichting  string
}

// Values returns the risk in the column order of the risk overview.
func (r Risk) Values() []string {
	return []string{
		r.Object,
		r.Element,
		r.Bouwdeel,
		strconv.Itoa(r.Score),
		r.Niveau,
		r.Bureaustudie,
		r.Toelichting,
	}
}

// HighestRisks returns the rows with a current risk score of at least
// threshold. An empty score counts as zero.
func HighestRisks(t *excel.Table, object string, threshold int) ([]Risk, error) {
	if !t.Has(ColRisicoscore) {
		return nil, fmt.Errorf("%w: no column %q", iak.ErrParse, ColRisicoscore)
	}

	var res []Risk
	for i := range t.Rows {
		score, err := parseScore(t.Value(i, ColRisicoscore))
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", iak.ErrParse, i+1, err)
		}
		if score < threshold {
			continue
		}
		res = append(res, Risk{
			Object:       object,
			Element:      firstPart(t.Value(i, ColElement)),
			Bouwdeel:     t.Value(i, ColBouwdeel),
			Score:        score,
			Niveau:       t.Value(i, ColRisiconiveau),
			Bureaustudie: t.Value(i, ColBureaustudie),
			Toelichting:  t.Value(i, ColToelichting),
		})
	}
	return res, nil
}

func parseScore(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("risk score %q: %w", s, err)
	}
	return int(math.Trunc(f)), nil
}

// firstPart returns s up to the first comma.
func firstPart(s string) string {
	before, _, _ := strings.Cut(s, ",")
	return before
}
