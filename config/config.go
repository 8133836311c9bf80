package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
	"kastelo.dev/iak"
)

type Config struct {
	PathBatch    string `json:"path_batch" yaml:"path_batch"`
	Batch        string `json:"batch" yaml:"batch"`
	Werkpakket   string `json:"werkpakket" yaml:"werkpakket"`
	SaveDir      string `json:"save_dir" yaml:"save_dir"`
	OutputFolder string `json:"output_folder" yaml:"output_folder"`

	VoortgangsSheet     string `json:"voortgangs_sheet" yaml:"voortgangs_sheet"`
	VoortgangsSheetName string `json:"voortgangs_sheet_name" yaml:"voortgangs_sheet_name"`

	PathAandachtspunten string `json:"path_data_aandachtspunten_beheerder" yaml:"path_data_aandachtspunten_beheerder"`
	PathHoogsteRisico   string `json:"path_data_hoogste-risico" yaml:"path_data_hoogste-risico"`

	Variables `yaml:",inline"`

	// Names expands initials found in the progress list.
	Names map[string]string `json:"names" yaml:"names"`

	Log     Log     `json:"log" yaml:"log"`
	Export  Export  `json:"export" yaml:"export"`
	Combine Combine `json:"combine" yaml:"combine"`
	Ledger  Ledger  `json:"ledger" yaml:"ledger"`
}

// Variables are printed on the generated reports.
type Variables struct {
	Opdrachtgever     string `json:"opdrachtgever" yaml:"opdrachtgever"`
	ContactpersoonRWS string `json:"contactpersoon_rws" yaml:"contactpersoon_rws"`
	Zaaknummer        string `json:"zaaknummer" yaml:"zaaknummer"`
	Versie            string `json:"versie" yaml:"versie"`
	Datum             string `json:"datum" yaml:"datum"`
	Omschrijving      string `json:"omschrijving" yaml:"omschrijving"`
	Opdrachtnemer     string `json:"opdrachtnemer" yaml:"opdrachtnemer"`
	Projectleider     string `json:"projectleider" yaml:"projectleider"`
	Projectnummer     string `json:"projectnummer" yaml:"projectnummer"`
}

type Log struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	Dir    string `json:"dir" yaml:"dir"`
}

type Export struct {
	Primary    string   `json:"primary" yaml:"primary"`
	Fallback   string   `json:"fallback" yaml:"fallback"`
	Soffice    string   `json:"soffice" yaml:"soffice"`
	Retries    int      `json:"retries" yaml:"retries"`
	RetryDelay Duration `json:"retry_delay" yaml:"retry_delay"`
}

const (
	BackendOffice      = "office"
	BackendLibreOffice = "libreoffice"
	BackendNone        = "none"
)

type Combine struct {
	InsertAtReference bool `json:"insert_at_reference" yaml:"insert_at_reference"`
}

type Ledger struct {
	DSN string `json:"dsn" yaml:"dsn"`
}

func defaults() Config {
	return Config{
		SaveDir:             "Output",
		VoortgangsSheetName: "Blad1",
		Log: Log{
			Level:  "info",
			Format: "text",
			Dir:    ".",
		},
		Export: Export{
			Primary:    BackendOffice,
			Fallback:   BackendLibreOffice,
			Soffice:    "soffice",
			Retries:    2,
			RetryDelay: Duration(2 * time.Second),
		},
	}
}

// Load reads a JSON or YAML configuration file, fills in defaults and
// validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	if err := mergo.Merge(&cfg, defaults()); err != nil {
		return nil, err
	}
	if cfg.OutputFolder == "" {
		cfg.OutputFolder = cfg.SaveDir
	}
	if cfg.Werkpakket == "" {
		cfg.Werkpakket = cfg.Batch
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.PathBatch == "" {
		return fmt.Errorf("path_batch is required")
	}
	if c.Batch == "" {
		return fmt.Errorf("batch is required")
	}
	for _, b := range []string{c.Export.Primary, c.Export.Fallback} {
		switch b {
		case "", BackendOffice, BackendLibreOffice, BackendNone:
		default:
			return fmt.Errorf("unknown export backend %q", b)
		}
	}
	if c.Export.Retries < 0 {
		return fmt.Errorf("export retries must not be negative")
	}
	return nil
}

func (c *Config) WerkpakketDir() string {
	return filepath.Join(c.PathBatch, c.Batch)
}

// SaveLoc is where generated documents for an object are written.
func (c *Config) SaveLoc(obj iak.Object) string {
	return filepath.Join(obj.Dir, c.SaveDir)
}

// OutputDir is where the combiner looks for an object's PDFs.
func (c *Config) OutputDir(obj iak.Object) string {
	return filepath.Join(obj.Dir, c.OutputFolder)
}

func (c *Config) TemplateBijlage9() string {
	return filepath.Join(c.PathAandachtspunten, "FORMAT_Bijlage9_AandachtspuntBeheerder.docx")
}

func (c *Config) TemplateBijlage9None() string {
	return filepath.Join(c.PathAandachtspunten, "FORMAT_Bijlage9_GeenAandachtspuntBeheerder.docx")
}

func (c *Config) TemplateRisks() string {
	return filepath.Join(c.PathHoogsteRisico, "FORMAT_hoogste-risico.docx")
}

// Duration accepts "2s" style strings or a number of seconds.
type Duration time.Duration

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var v any
	if err := node.Decode(&v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Duration) set(v any) error {
	switch v := v.(type) {
	case float64:
		*d = Duration(v * float64(time.Second))
	case int:
		*d = Duration(time.Duration(v) * time.Second)
	case string:
		dur, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*d = Duration(dur)
	default:
		return fmt.Errorf("invalid duration %v", v)
	}
	return nil
}
