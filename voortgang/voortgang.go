// Package voortgang reads the progress list of a werkpakket: who
// inspected each object, who checked the report and the conclusions to
// print in it.
package voortgang

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
	"kastelo.dev/iak"
	"kastelo.dev/iak/excel"
)

const DefaultSheet = "Blad1"

// Columns that must be present in the progress list.
var Columns = []string{
	"Batch",
	"BH_code",
	"Objectnaam",
	"Inspectietekeningen",
	"Inspecteur 1",
	"Inspecteur 2",
	"door",
	"door.1",
	"V&R-indicatie",
	"Nader onderzoek",
	"Directe maatregelen",
	"Niet schade gerelateerde / gebruiksspecifieke risico’s",
	"Constructieve beoordeling",
}

// Columns holding initials of people.
var nameColumns = []string{"Inspecteur 1", "Inspecteur 2", "door", "door.1"}

var nameSep = regexp.MustCompile(`[+\s]`)

// Record is the progress list row of one object.
type Record struct {
	Opsteller                string
	Inspecteurs              string
	Besteknummer             string
	Hulpmiddelen             string
	Batch                    string
	ObjectNaam               string
	ObjectCode               string
	ComplexCode              string
	Kwaliteitsbeheerder      string
	VenR                     string
	NaderOnderzoek           string
	DirecteMaatregel         string
	NietSchadeGerelateerd    string
	ConstructieveBeoordeling string
	Inspectietekeningen      string
}

type List struct {
	table *excel.Table
}

// Load reads the progress list from sheet of the workbook at path. The
// first row of the sheet is a title; the header is on the second row.
func Load(path, sheet string, names map[string]string) (*List, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: no progress list configured", iak.ErrMissingFile)
	}
	xlsx, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: progress list %s: %v", iak.ErrMissingFile, path, err)
	}
	defer xlsx.Close()

	l, err := Read(xlsx, sheet, names)
	if err != nil {
		return nil, fmt.Errorf("progress list %s: %w", path, err)
	}
	return l, nil
}

func Read(xlsx *excelize.File, sheet string, names map[string]string) (*List, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}
	t, err := excel.ReadTable(xlsx, sheet, 2, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", iak.ErrParse, err)
	}

	var missing []string
	for _, c := range Columns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %q", iak.ErrParse, missing)
	}

	for i := range t.Rows {
		for _, c := range nameColumns {
			t.Set(i, c, ExpandNames(t.Value(i, c), names))
		}
	}
	return &List{table: t}, nil
}

// ExpandNames replaces initials by full names. Names are separated by
// whitespace or "+" and joined with ", ".
func ExpandNames(s string, names map[string]string) string {
	var res []string
	for _, n := range nameSep.Split(s, -1) {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if full, ok := names[n]; ok {
			n = full
		}
		res = append(res, n)
	}
	return strings.Join(res, ", ")
}

// Lookup returns the record for the object code. Exactly one row must
// match.
func (l *List) Lookup(code string) (Record, error) {
	row := -1
	for i := range l.table.Rows {
		if strings.TrimSpace(l.table.Value(i, "BH_code")) != code {
			continue
		}
		if row >= 0 {
			return Record{}, fmt.Errorf("%w: multiple progress records for %s", iak.ErrParse, code)
		}
		row = i
	}
	if row < 0 {
		return Record{}, fmt.Errorf("%w: no progress record for %s", iak.ErrParse, code)
	}

	v := func(col string) string {
		return strings.TrimSpace(l.table.Value(row, col))
	}
	var inspecteurs []string
	for _, c := range []string{"Inspecteur 1", "Inspecteur 2"} {
		if s := v(c); s != "" {
			inspecteurs = append(inspecteurs, s)
		}
	}

	return Record{
		Opsteller:                v("door"),
		Inspecteurs:              strings.Join(inspecteurs, ", "),
		Besteknummer:             v("zaakrn"),
		Hulpmiddelen:             v("VKM / HM"),
		Batch:                    v("Batch"),
		ObjectNaam:               v("Objectnaam"),
		ObjectCode:               code,
		ComplexCode:              iak.ComplexCode(code),
		Kwaliteitsbeheerder:      v("door.1"),
		VenR:                     v("V&R-indicatie"),
		NaderOnderzoek:           v("Nader onderzoek"),
		DirecteMaatregel:         v("Directe maatregelen"),
		NietSchadeGerelateerd:    v("Niet schade gerelateerde / gebruiksspecifieke risico’s"),
		ConstructieveBeoordeling: v("Constructieve beoordeling"),
		Inspectietekeningen:      v("Inspectietekeningen"),
	}, nil
}

// Len returns the number of rows in the list.
func (l *List) Len() int {
	return len(l.table.Rows)
}
