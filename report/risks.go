package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"kastelo.dev/iak"
	"kastelo.dev/iak/batch"
	"kastelo.dev/iak/docx"
	"kastelo.dev/iak/excel"
	"kastelo.dev/iak/ora"
)

const (
	cellStyle  = "Cell"
	cell2Style = "Cell2"
)

func RisksName(batchName, ext string) string {
	return fmt.Sprintf("%s Hoogste Risicos%s", batchName, ext)
}

// Risks collects the rows with the highest current risk score of all
// objects and writes them to a Word document, its PDF and a workbook in
// the werkpakket directory. Objects whose ORA cannot be read are reported
// as failed; the documents hold the risks of the others.
func (e *Env) Risks(ctx context.Context) (batch.Summary, error) {
	tpl := e.Config.TemplateRisks()
	if err := requireFile(tpl); err != nil {
		return batch.Summary{}, fmt.Errorf("template: %w", err)
	}

	var risks []ora.Risk
	s, err := e.runBatch(ctx, KindRisks, func(ctx context.Context, obj iak.Object) (iak.GeneratedDocument, error) {
		r, err := e.ObjectRisks(ctx, obj)
		if err != nil {
			return iak.GeneratedDocument{}, err
		}
		risks = append(risks, r...)
		return iak.GeneratedDocument{}, nil
	})
	if err != nil {
		return s, err
	}
	e.logger().Info("Highest risks collected", "count", len(risks))

	doc, err := e.writeRisks(ctx, tpl, risks)
	if err != nil {
		return s, err
	}
	e.generated(doc)
	return s, nil
}

func (e *Env) ObjectRisks(ctx context.Context, obj iak.Object) ([]ora.Risk, error) {
	src, err := iak.Newest(obj.Dir, iak.ORAWorkbook)
	if err != nil {
		return nil, err
	}
	t, err := e.loadORA(ctx, src)
	if err != nil {
		return nil, err
	}
	risks, err := ora.HighestRisks(t, obj.Code, ora.RiskThreshold)
	if err != nil {
		return nil, err
	}
	e.logger().Debug("Risks of object", "object", obj.Code, "count", len(risks), "ora", src)
	return risks, nil
}

// writeRisks writes the overview documents. The result has no object:
// it covers the whole werkpakket.
func (e *Env) writeRisks(ctx context.Context, tpl string, risks []ora.Risk) (iak.GeneratedDocument, error) {
	res := iak.GeneratedDocument{Kind: KindRisks}
	l := e.logger()
	doc, err := docx.Open(tpl)
	if err != nil {
		return res, fmt.Errorf("%w: template %s: %v", iak.ErrParse, tpl, err)
	}
	if err := fillRisks(doc, e.Config.Batch, e.now().Format("02-01-2006"), risks); err != nil {
		return res, err
	}

	dir := e.Config.WerkpakketDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, err
	}
	name := filepath.Join(dir, RisksName(e.Config.Batch, ".docx"))
	if err := doc.Save(name); err != nil {
		return res, err
	}
	l.Info("Word document written", "path", name)
	res.Document = name
	if res.PDF, err = e.toPDF(ctx, name, "", false); err != nil {
		return res, err
	}

	rows := make([][]string, len(risks))
	for i, r := range risks {
		rows[i] = r.Values()
	}
	bs, err := excel.RisksXLSX(rows)
	if err != nil {
		return res, err
	}
	xlsx := filepath.Join(dir, RisksName(e.Config.Batch, ".xlsx"))
	if err := os.WriteFile(xlsx, bs, 0o644); err != nil {
		return res, err
	}
	l.Info("Workbook written", "path", xlsx)
	return res, nil
}

// fillRisks sets the header paragraphs and adds one row per risk to the
// first table of the document.
func fillRisks(doc *docx.Document, werkpakket, date string, risks []ora.Risk) error {
	if err := doc.EnsureParagraphStyle(cellStyle, 7); err != nil {
		return err
	}
	if err := doc.EnsureParagraphStyle(cell2Style, 10); err != nil {
		return err
	}

	if ps := doc.Paragraphs(); len(ps) >= 2 {
		ps[0].SetText("Werkpakket: " + werkpakket)
		ps[1].SetText("Datum: " + date)
	}

	tables := doc.Tables()
	if len(tables) == 0 {
		return fmt.Errorf("%w: risk template has no table", iak.ErrParse)
	}
	t := tables[0]
	for _, r := range risks {
		row := t.AddRow()
		for col, v := range r.Values() {
			c, err := t.Cell(row, col)
			if err != nil {
				return fmt.Errorf("%w: risk table: %v", iak.ErrParse, err)
			}
			c.SetText(v).SetStyle(cellStyle)
		}
	}
	return nil
}
