package iak

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, path string, mod time.Time) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
}

func TestNewestPicksLatestModification(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	touch(t, filepath.Join(dir, "inspectieRapport 30F-310-01 v1.xlsx"), base)
	touch(t, filepath.Join(dir, "InspectieRapport 30F-310-01 v2.xlsx"), base.Add(time.Hour))
	touch(t, filepath.Join(dir, "inspectieRapport 30F-310-01 v3.xlsx"), base.Add(-time.Hour))
	touch(t, filepath.Join(dir, "inspectieRapport 30F-310-01.pdf"), base.Add(2*time.Hour))

	got, err := Newest(dir, InspectionReport)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "InspectieRapport 30F-310-01 v2.xlsx"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNewestRecursive(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	touch(t, filepath.Join(dir, "inspectieRapport old.xlsx"), base)
	touch(t, filepath.Join(dir, "DISK", "export", "inspectieRapport new.xlsx"), base.Add(time.Minute))

	got, err := Newest(dir, InspectionReport)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "DISK", "export", "inspectieRapport new.xlsx"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	flat := InspectionReport
	flat.Recursive = false
	got, err = Newest(dir, flat)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "inspectieRapport old.xlsx"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNewestTieBreaksOnName(t *testing.T) {
	dir := t.TempDir()
	mod := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	touch(t, filepath.Join(dir, "ORA b.xlsb"), mod)
	touch(t, filepath.Join(dir, "ORA a.xlsm"), mod)
	touch(t, filepath.Join(dir, "ORA c.docx"), mod)

	got, err := Newest(dir, ORAWorkbook)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "ORA b.xlsb"); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestNewestNotFound(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "notes.txt"), time.Now())

	if _, err := Newest(dir, ORAWorkbook); !errors.Is(err, ErrMissingFile) {
		t.Errorf("expected ErrMissingFile, got %v", err)
	}
	if _, err := Newest(filepath.Join(dir, "nope"), ORAWorkbook); !errors.Is(err, ErrMissingFile) {
		t.Errorf("expected ErrMissingFile for missing dir, got %v", err)
	}
}

func TestPatternMatch(t *testing.T) {
	cases := []struct {
		p    Pattern
		name string
		ok   bool
	}{
		{Pattern{Contains: "pi rapport", Exts: []string{".pdf"}, Exclude: "compleet"}, "PI rapport 30F-310-01.pdf", true},
		{Pattern{Contains: "pi rapport", Exts: []string{".pdf"}, Exclude: "compleet"}, "PI rapport 30F-310-01 - compleet.pdf", false},
		{Pattern{Contains: "bijlage 3", Exts: []string{".pdf"}}, "Bijlage 3 - 30F-310-01.pdf", true},
		{Pattern{Contains: "bijlage 3", Exts: []string{".pdf"}}, "Bijlage 3 - 30F-310-01.docx", false},
		{ORAWorkbook, "ora 30F-310-01.XLSM", true},
		{ORAWorkbook, "Kopie ORA.xlsx", false},
		{InspectionReport, "inspectierapport_é.xlsx", true},
		{Pattern{Contains: "beheerder"}, "Bijlage 9 - Aandachtspunten Behéérder.docx", true},
	}
	for _, tc := range cases {
		if got := tc.p.Match(tc.name); got != tc.ok {
			t.Errorf("%v.Match(%q) = %v, expected %v", tc.p, tc.name, got, tc.ok)
		}
	}
}
