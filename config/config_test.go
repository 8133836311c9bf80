package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"kastelo.dev/iak"
)

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{
	"path_batch": "data",
	"batch": "WP1",
	"save_dir": "Rapportage",
	"voortgangs_sheet": "data/voortgang.xlsx",
	"opdrachtgever": "Rijkswaterstaat",
	"names": {"TT": "Theo Test"},
	"export": {"retry_delay": 0.5}
}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PathBatch != "data" || cfg.Batch != "WP1" {
		t.Errorf("unexpected paths %q %q", cfg.PathBatch, cfg.Batch)
	}
	if cfg.Werkpakket != "WP1" {
		t.Errorf("werkpakket should default to batch, got %q", cfg.Werkpakket)
	}
	if cfg.OutputFolder != "Rapportage" {
		t.Errorf("output folder should default to save dir, got %q", cfg.OutputFolder)
	}
	if cfg.Opdrachtgever != "Rijkswaterstaat" {
		t.Errorf("variables not read: %q", cfg.Opdrachtgever)
	}
	if !reflect.DeepEqual(cfg.Names, map[string]string{"TT": "Theo Test"}) {
		t.Errorf("names: %v", cfg.Names)
	}
	if cfg.Export.RetryDelay.Std() != 500*time.Millisecond {
		t.Errorf("retry delay %v", cfg.Export.RetryDelay.Std())
	}
	if cfg.Export.Primary != BackendOffice || cfg.Export.Fallback != BackendLibreOffice {
		t.Errorf("export defaults not applied: %+v", cfg.Export)
	}
	if cfg.VoortgangsSheetName != "Blad1" {
		t.Errorf("sheet name default %q", cfg.VoortgangsSheetName)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
path_batch: /srv/iak
batch: WP2
werkpakket: Werkpakket 2
output_folder: PDF
zaaknummer: "31234567"
log:
  level: debug
  format: json
export:
  primary: libreoffice
  fallback: none
  retry_delay: 3s
combine:
  insert_at_reference: true
ledger:
  dsn: ledger.db
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	expected := Export{
		Primary:    BackendLibreOffice,
		Fallback:   BackendNone,
		Soffice:    "soffice",
		Retries:    2,
		RetryDelay: Duration(3 * time.Second),
	}
	if !reflect.DeepEqual(cfg.Export, expected) {
		t.Errorf("export %+v, expected %+v", cfg.Export, expected)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" || cfg.Log.Dir != "." {
		t.Errorf("log %+v", cfg.Log)
	}
	if cfg.SaveDir != "Output" || cfg.OutputFolder != "PDF" {
		t.Errorf("dirs %q %q", cfg.SaveDir, cfg.OutputFolder)
	}
	if cfg.Werkpakket != "Werkpakket 2" || cfg.Zaaknummer != "31234567" {
		t.Errorf("unexpected %q %q", cfg.Werkpakket, cfg.Zaaknummer)
	}
	if !cfg.Combine.InsertAtReference || cfg.Ledger.DSN != "ledger.db" {
		t.Errorf("combine/ledger not read: %+v %+v", cfg.Combine, cfg.Ledger)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		data string
		ok   bool
	}{
		{"complete", `{"path_batch": "d", "batch": "b"}`, true},
		{"no path", `{"batch": "b"}`, false},
		{"no batch", `{"path_batch": "d"}`, false},
		{"bad backend", `{"path_batch": "d", "batch": "b", "export": {"primary": "word"}}`, false},
		{"bad json", `{"path_batch": `, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data), ".json")
			if (err == nil) != tc.ok {
				t.Errorf("Parse() error = %v, expected ok=%v", err, tc.ok)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPaths(t *testing.T) {
	cfg := &Config{
		PathBatch:           "data",
		Batch:               "WP1",
		SaveDir:             "Output",
		OutputFolder:        "PDF",
		PathAandachtspunten: "templates",
		PathHoogsteRisico:   "risico",
	}
	obj := iak.Object{Code: "30F-310-01", Dir: filepath.Join("data", "WP1", "30F-310-01")}

	cases := []struct {
		got, expected string
	}{
		{cfg.WerkpakketDir(), filepath.Join("data", "WP1")},
		{cfg.SaveLoc(obj), filepath.Join("data", "WP1", "30F-310-01", "Output")},
		{cfg.OutputDir(obj), filepath.Join("data", "WP1", "30F-310-01", "PDF")},
		{cfg.TemplateBijlage9(), filepath.Join("templates", "FORMAT_Bijlage9_AandachtspuntBeheerder.docx")},
		{cfg.TemplateBijlage9None(), filepath.Join("templates", "FORMAT_Bijlage9_GeenAandachtspuntBeheerder.docx")},
		{cfg.TemplateRisks(), filepath.Join("risico", "FORMAT_hoogste-risico.docx")},
	}
	for i, tc := range cases {
		if tc.got != tc.expected {
			t.Errorf("%d: got %q, expected %q", i, tc.got, tc.expected)
		}
	}
}

func TestLoadExample(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "config.example.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Werkpakket != "Werkpakket 1" || cfg.OutputFolder != "Output" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Export.RetryDelay.Std() != 2*time.Second {
		t.Errorf("retry delay %v", cfg.Export.RetryDelay.Std())
	}
	if cfg.Names["TT"] != "Theo Test" {
		t.Errorf("names %v", cfg.Names)
	}
}
