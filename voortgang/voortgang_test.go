package voortgang

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
	"kastelo.dev/iak"
	"kastelo.dev/iak/voortgang/voortgangtest"
)

var names = map[string]string{
	"TT": "Theo Test",
	"JD": "John Doe",
}

func writeList(t *testing.T, rows [][]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voortgang.xlsx")
	if err := voortgangtest.Write(path, rows); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLookup(t *testing.T) {
	path := writeList(t, [][]string{
		{"WP1", "30F-310-01", "Brug Zuid", "ja", "TT", "JD+XY", "TT", "JD", "2040", "", "Afzetten", "", "ja"},
		{"WP1", "30F-310-02", "Brug Noord", "nee", "JD", "", "JD", "TT"},
		{"WP1", "30F-310-03", "Duiker", "", "TT", "", "TT", "JD"},
		{"WP1", "30F-310-03", "Duiker", "", "TT", "", "TT", "JD"},
	})

	l, err := Load(path, "", names)
	if err != nil {
		t.Fatal(err)
	}
	if l.Len() != 4 {
		t.Errorf("expected 4 rows, got %d", l.Len())
	}

	rec, err := l.Lookup("30F-310-01")
	if err != nil {
		t.Fatal(err)
	}
	expected := Record{
		Opsteller:                "Theo Test",
		Inspecteurs:              "Theo Test, John Doe, XY",
		Batch:                    "WP1",
		ObjectNaam:               "Brug Zuid",
		ObjectCode:               "30F-310-01",
		ComplexCode:              "30F-310",
		Kwaliteitsbeheerder:      "John Doe",
		VenR:                     "2040",
		DirecteMaatregel:         "Afzetten",
		ConstructieveBeoordeling: "ja",
		Inspectietekeningen:      "ja",
	}
	if !reflect.DeepEqual(rec, expected) {
		t.Errorf("got %+v\nexpected %+v", rec, expected)
	}

	rec, err = l.Lookup("30F-310-02")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Inspecteurs != "John Doe" || rec.Kwaliteitsbeheerder != "Theo Test" {
		t.Errorf("unexpected record %+v", rec)
	}

	if _, err := l.Lookup("30F-310-03"); !errors.Is(err, iak.ErrParse) {
		t.Errorf("expected error for duplicate code, got %v", err)
	}
	if _, err := l.Lookup("99X-999-99"); !errors.Is(err, iak.ErrParse) {
		t.Errorf("expected error for unknown code, got %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("", "", nil); !errors.Is(err, iak.ErrMissingFile) {
		t.Errorf("expected missing file for empty path, got %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.xlsx"), "", nil); !errors.Is(err, iak.ErrMissingFile) {
		t.Errorf("expected missing file, got %v", err)
	}

	xlsx := excelize.NewFile()
	_ = xlsx.SetSheetName("Sheet1", DefaultSheet)
	_ = xlsx.SetCellValue(DefaultSheet, "A2", "BH_code")
	path := filepath.Join(t.TempDir(), "incomplete.xlsx")
	if err := xlsx.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	xlsx.Close()
	if _, err := Load(path, "", nil); !errors.Is(err, iak.ErrParse) {
		t.Errorf("expected parse error for missing columns, got %v", err)
	}
}

func TestExpandNames(t *testing.T) {
	cases := []struct {
		in, expected string
	}{
		{"", ""},
		{"TT", "Theo Test"},
		{"TT+JD", "Theo Test, John Doe"},
		{"TT + JD", "Theo Test, John Doe"},
		{"TT AB", "Theo Test, AB"},
		{"Piet", "Piet"},
	}
	for _, tc := range cases {
		if got := ExpandNames(tc.in, names); got != tc.expected {
			t.Errorf("ExpandNames(%q) = %q, expected %q", tc.in, got, tc.expected)
		}
	}
}
