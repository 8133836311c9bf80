// Package report holds the report pipelines run over a werkpakket: PI
// rapportage, Bijlage 3, Bijlage 9, highest risks and combining.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"kastelo.dev/iak"
	"kastelo.dev/iak/batch"
	"kastelo.dev/iak/config"
	"kastelo.dev/iak/excel"
	"kastelo.dev/iak/ledger"
	"kastelo.dev/iak/office"
	"kastelo.dev/iak/ora"
	"kastelo.dev/iak/voortgang"
)

// Commands, also used as the kind of the documents they generate.
const (
	KindPI       = "pi"
	KindBijlage3 = "bijlage3"
	KindBijlage9 = "bijlage9"
	KindRisks    = "risks"
	KindCombined = "combine"
)

// Env is what every pipeline needs. Ledger may be nil.
type Env struct {
	Config *config.Config
	Logger *slog.Logger
	Office office.Converter
	Ledger *ledger.Ledger
	// Now is time.Now unless set.
	Now func() time.Time
	// Only, when not nil, limits the pipelines to these object codes.
	Only []string

	// Documents lists what the pipelines generated, in order.
	Documents []iak.GeneratedDocument
}

// objectStep generates the document of one object. A step that only
// collects data returns a zero GeneratedDocument.
type objectStep func(ctx context.Context, obj iak.Object) (iak.GeneratedDocument, error)

func (e *Env) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Env) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// Werkpakket lists the objects of the configured werkpakket.
func (e *Env) Werkpakket() (*iak.Werkpakket, error) {
	return iak.OpenWerkpakket(e.Config.PathBatch, e.Config.Batch)
}

// RetryFailed limits the following runs to the objects that failed in
// the last recorded run of command and returns them.
func (e *Env) RetryFailed(ctx context.Context, command string) ([]string, error) {
	if e.Ledger == nil {
		return nil, fmt.Errorf("rerunning failed objects needs a ledger (ledger.dsn)")
	}
	failed, err := e.Ledger.LastFailed(ctx, command)
	if err != nil {
		return nil, fmt.Errorf("ledger: %w", err)
	}
	e.Only = append([]string{}, failed...)
	return failed, nil
}

// objects returns the objects of the werkpakket, limited to Only.
func (e *Env) objects() ([]iak.Object, error) {
	wp, err := e.Werkpakket()
	if err != nil {
		return nil, err
	}
	if e.Only == nil {
		return wp.Objects, nil
	}
	var res []iak.Object
	for _, obj := range wp.Objects {
		if slices.Contains(e.Only, obj.Code) {
			res = append(res, obj)
		}
	}
	return res, nil
}

// runBatch runs step over all objects, collects the generated documents
// and records the run in the ledger.
func (e *Env) runBatch(ctx context.Context, command string, step objectStep) (batch.Summary, error) {
	l := e.logger()
	objects, err := e.objects()
	if err != nil {
		return batch.Summary{}, err
	}
	l.Info("Processing werkpakket", "werkpakket", e.Config.Werkpakket, "objects", len(objects))

	run, err := e.Ledger.StartRun(ctx, command, e.Config.Werkpakket, e.now())
	if err != nil {
		l.Warn("Ledger unavailable", "error", err)
		run = nil
	}
	s := batch.Run(ctx, objects, func(ctx context.Context, obj iak.Object) error {
		doc, err := step(ctx, obj)
		if err != nil {
			return err
		}
		e.generated(doc)
		return nil
	}, batch.Options{Logger: l, Run: run})
	s.Log(l)
	return s, nil
}

// progressList loads the progress list, or returns nil when none is
// configured.
func (e *Env) progressList() (*voortgang.List, error) {
	if e.Config.VoortgangsSheet == "" {
		return nil, nil
	}
	return voortgang.Load(e.Config.VoortgangsSheet, e.Config.VoortgangsSheetName, e.Config.Names)
}

// loadORA reads the ORA table of a workbook. Binary workbooks are first
// converted to xlsx with the office converter.
func (e *Env) loadORA(ctx context.Context, path string) (*excel.Table, error) {
	if !strings.EqualFold(filepath.Ext(path), ".xlsb") {
		return ora.Load(path)
	}
	tmp, err := os.MkdirTemp("", "iak-ora-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmp)

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	xlsx := filepath.Join(tmp, base+".xlsx")
	e.logger().Debug("Converting binary workbook", "path", path)
	if err := e.Office.Convert(ctx, office.Job{Input: path, Output: xlsx, Format: office.XLSX}); err != nil {
		return nil, err
	}
	return ora.Load(xlsx)
}

func (e *Env) generated(doc iak.GeneratedDocument) {
	if doc.Kind != "" {
		e.Documents = append(e.Documents, doc)
	}
}

// toPDF exports a populated document next to it, or to out when given,
// and returns the PDF path.
func (e *Env) toPDF(ctx context.Context, in, out string, activeSheet bool) (string, error) {
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ".pdf"
	}
	if err := e.Office.Convert(ctx, office.Job{Input: in, Output: out, Format: office.PDF, ActiveSheetOnly: activeSheet}); err != nil {
		return "", err
	}
	if _, err := os.Stat(out); err != nil {
		return "", fmt.Errorf("%w: %s not written", iak.ErrExport, out)
	}
	e.logger().Info("PDF written", "path", out)
	return out, nil
}

func requireFile(name string) error {
	if _, err := os.Stat(name); err != nil {
		return fmt.Errorf("%w: %s", iak.ErrMissingFile, name)
	}
	return nil
}
