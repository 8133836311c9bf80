package office

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"kastelo.dev/iak"
	"kastelo.dev/iak/config"
)

type hresult uintptr

func (h hresult) Error() string { return "com error" }
func (h hresult) Code() uintptr  { return uintptr(h) }

func counting(calls *int, err error) Func {
	return func(context.Context, Job) error {
		*calls++
		return err
	}
}

func TestFallback(t *testing.T) {
	errPrimary := errors.New("excel not installed")
	errSecondary := errors.New("soffice not found")

	cases := []struct {
		name           string
		primary        error
		secondary      error
		secondaryCalls int
		err            []error
	}{
		{"primary ok", nil, nil, 0, nil},
		{"fallback ok", errPrimary, nil, 1, nil},
		{"both fail", errPrimary, errSecondary, 1, []error{iak.ErrExport, errPrimary, errSecondary}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var p, s int
			f := &Fallback{Primary: counting(&p, tc.primary), Secondary: counting(&s, tc.secondary)}
			err := f.Convert(context.Background(), Job{Input: "a.docx", Output: "a.pdf", Format: PDF})
			if p != 1 {
				t.Errorf("primary called %d times", p)
			}
			if s != tc.secondaryCalls {
				t.Errorf("secondary called %d times, expected %d", s, tc.secondaryCalls)
			}
			if tc.err == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			for _, e := range tc.err {
				if !errors.Is(err, e) {
					t.Errorf("error %v does not match %v", err, e)
				}
			}
		})
	}
}

func TestFallbackWithoutSecondary(t *testing.T) {
	var p int
	f := &Fallback{Primary: counting(&p, errors.New("boom"))}
	if err := f.Convert(context.Background(), Job{}); !errors.Is(err, iak.ErrExport) {
		t.Errorf("got %v", err)
	}
}

func TestRetry(t *testing.T) {
	cases := []struct {
		name  string
		err   error
		calls int
	}{
		{"call rejected", hresult(0x80010001), 3},
		{"retry later", hresult(0x8001010A), 3},
		{"other code", hresult(0x80004005), 1},
		{"plain error", errors.New("no"), 1},
		{"success", nil, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var calls int
			r := &Retry{Converter: counting(&calls, tc.err), Attempts: 2}
			err := r.Convert(context.Background(), Job{})
			if calls != tc.calls {
				t.Errorf("got %d calls, expected %d", calls, tc.calls)
			}
			if !errors.Is(err, tc.err) {
				t.Errorf("got error %v, expected %v", err, tc.err)
			}
		})
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls int
	r := &Retry{Converter: counting(&calls, hresult(0x80010001)), Attempts: 5, Delay: time.Hour}
	if err := r.Convert(ctx, Job{}); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v", err)
	}
	if calls != 1 {
		t.Errorf("got %d calls", calls)
	}
}

func TestNew(t *testing.T) {
	c, err := New(config.Export{Primary: config.BackendNone, Fallback: config.BackendNone}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Convert(context.Background(), Job{Input: "x.docx"}); !errors.Is(err, iak.ErrExport) {
		t.Errorf("got %v", err)
	}

	if _, err := New(config.Export{Primary: "acrobat"}, nil); err == nil {
		t.Error("expected error for unknown backend")
	}

	c, err = New(config.Export{Primary: config.BackendOffice, Fallback: config.BackendLibreOffice, Soffice: "/opt/soffice", Retries: 2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	fb, ok := c.(*Fallback)
	if !ok {
		t.Fatalf("got %T", c)
	}
	if r, ok := fb.Primary.(*Retry); !ok || r.Attempts != 2 {
		t.Errorf("primary is %#v", fb.Primary)
	}
	if !reflect.DeepEqual(fb.Secondary, &LibreOffice{Binary: "/opt/soffice"}) {
		t.Errorf("secondary is %#v", fb.Secondary)
	}

	c, err = New(config.Export{Primary: config.BackendNone, Fallback: config.BackendLibreOffice}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if fb := c.(*Fallback); fb.Secondary != nil {
		t.Errorf("expected fallback to become primary, got %#v", fb)
	}
}

const fakeSoffice = `#!/bin/sh
while [ $# -gt 1 ]; do
  if [ "$1" = "--outdir" ]; then out="$2"; fi
  if [ "$1" = "--convert-to" ]; then fmt="$2"; fi
  shift
done
base=$(basename "$1")
mkdir -p "$out"
cp "$1" "$out/${base%.*}.$fmt"
`

func TestLibreOffice(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script converter")
	}
	dir := t.TempDir()
	bin := filepath.Join(dir, "soffice")
	if err := os.WriteFile(bin, []byte(fakeSoffice), 0o755); err != nil {
		t.Fatal(err)
	}
	in := filepath.Join(dir, "Bijlage 9.docx")
	if err := os.WriteFile(in, []byte("document"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "out", "Bijlage 9 - 30F-310-01.pdf")
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		t.Fatal(err)
	}

	l := &LibreOffice{Binary: bin}
	if err := l.Convert(context.Background(), Job{Input: in, Output: out, Format: PDF}); err != nil {
		t.Fatal(err)
	}
	bs, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(bs) != "document" {
		t.Errorf("got %q", bs)
	}

	l = &LibreOffice{Binary: filepath.Join(dir, "missing")}
	if err := l.Convert(context.Background(), Job{Input: in, Output: out, Format: PDF}); err == nil {
		t.Error("expected error for missing binary")
	}
}

func TestActiveSheetCopy(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "ORA 30F-310-01.xlsx")
	xlsx := excelize.NewFile()
	if err := xlsx.SetSheetName("Sheet1", "Voorblad"); err != nil {
		t.Fatal(err)
	}
	idx, err := xlsx.NewSheet("ORA 30F-310-01")
	if err != nil {
		t.Fatal(err)
	}
	xlsx.SetActiveSheet(idx)
	_ = xlsx.SetCellValue("ORA 30F-310-01", "A1", "risico")
	if err := xlsx.SaveAs(name); err != nil {
		t.Fatal(err)
	}

	out, err := activeSheetCopy(name, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cp, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatal(err)
	}
	defer cp.Close()
	if exp := []string{"ORA 30F-310-01"}; !reflect.DeepEqual(cp.GetSheetList(), exp) {
		t.Errorf("got sheets %v", cp.GetSheetList())
	}
	if v, _ := cp.GetCellValue("ORA 30F-310-01", "A1"); v != "risico" {
		t.Errorf("got %q", v)
	}
}
