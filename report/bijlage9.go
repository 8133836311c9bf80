package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kastelo.dev/iak"
	"kastelo.dev/iak/batch"
	"kastelo.dev/iak/docx"
	"kastelo.dev/iak/ora"
	"kastelo.dev/iak/voortgang"
)

const (
	footerStyle    = "FooterStyle"
	paragraphStyle = "Paragraph"

	// Width of the photos next to an attention point.
	photoWidth = 2350000
)

func Bijlage9DocumentName(code string) string {
	return fmt.Sprintf("Bijlage 9 - Aandachtspunten Beheerder %s.docx", code)
}

func Bijlage9Name(code string) string {
	return fmt.Sprintf("Bijlage 9 - %s.pdf", code)
}

// Bijlage9 writes the attention points for the manager of every object
// to a Word document from the template and exports it to PDF.
func (e *Env) Bijlage9(ctx context.Context) (batch.Summary, error) {
	for _, tpl := range []string{e.Config.TemplateBijlage9(), e.Config.TemplateBijlage9None()} {
		if err := requireFile(tpl); err != nil {
			return batch.Summary{}, fmt.Errorf("template: %w", err)
		}
	}
	list, err := e.progressList()
	if err != nil {
		return batch.Summary{}, err
	}
	return e.runBatch(ctx, KindBijlage9, func(ctx context.Context, obj iak.Object) (iak.GeneratedDocument, error) {
		return e.Bijlage9Object(ctx, list, obj)
	})
}

// Bijlage9Object builds the appendix for one object. The progress list
// may be nil, in which case the footer holds no object name.
func (e *Env) Bijlage9Object(ctx context.Context, list *voortgang.List, obj iak.Object) (iak.GeneratedDocument, error) {
	res := iak.GeneratedDocument{Object: obj.Code, Kind: KindBijlage9}
	l := e.logger().With("object", obj.Code)
	rec := voortgang.Record{ObjectCode: obj.Code, ComplexCode: obj.ComplexCode()}
	if list != nil {
		r, err := list.Lookup(obj.Code)
		if err != nil {
			return res, err
		}
		rec = r
	}

	src, err := iak.Newest(obj.Dir, iak.ORAWorkbook)
	if err != nil {
		return res, err
	}
	t, err := e.loadORA(ctx, src)
	if err != nil {
		return res, err
	}
	points := ora.AttentionPoints(t)
	l.Info("Attention points for the manager", "count", len(points), "ora", src)

	tpl := e.Config.TemplateBijlage9()
	if len(points) == 0 {
		tpl = e.Config.TemplateBijlage9None()
	}
	doc, err := docx.Open(tpl)
	if err != nil {
		return res, fmt.Errorf("%w: template %s: %v", iak.ErrParse, tpl, err)
	}
	if err := prepareBijlage9(doc, rec); err != nil {
		return res, err
	}
	if len(points) > 0 {
		if err := fillAttentionPoints(doc, points, obj.Dir); err != nil {
			return res, err
		}
	}

	dir := e.Config.SaveLoc(obj)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return res, err
	}
	name := filepath.Join(dir, Bijlage9DocumentName(obj.Code))
	if err := doc.Save(name); err != nil {
		return res, err
	}
	l.Info("Word document written", "path", name)
	res.Document = name
	res.PDF, err = e.toPDF(ctx, name, filepath.Join(dir, Bijlage9Name(obj.Code)), false)
	return res, err
}

// prepareBijlage9 adds the styles used by the appendix and fills in the
// footer: complex code, then object code and name.
func prepareBijlage9(doc *docx.Document, rec voortgang.Record) error {
	if err := doc.EnsureParagraphStyle(footerStyle, 7); err != nil {
		return err
	}
	if err := doc.EnsureParagraphStyle(paragraphStyle, 10); err != nil {
		return err
	}
	footer, err := doc.Footer()
	if err != nil {
		return fmt.Errorf("%w: template footer: %v", iak.ErrParse, err)
	}
	tables := footer.Tables()
	if len(tables) == 0 {
		return fmt.Errorf("%w: template footer has no table", iak.ErrParse)
	}
	values := []struct {
		row  int
		text string
	}{
		{0, rec.ComplexCode},
		{1, strings.TrimSpace(rec.ObjectCode + " " + rec.ObjectNaam)},
	}
	for _, v := range values {
		c, err := tables[0].Cell(v.row, 1)
		if err != nil {
			return fmt.Errorf("%w: template footer: %v", iak.ErrParse, err)
		}
		c.SetText(v.text).SetStyle(footerStyle)
	}
	return nil
}

// fillAttentionPoints writes one table per point. The template holds two
// tables; the last one is removed or copied to match the number of
// points.
func fillAttentionPoints(doc *docx.Document, points []ora.AttentionPoint, objectDir string) error {
	if len(points) == 1 {
		if err := doc.RemoveLastTable(); err != nil {
			return fmt.Errorf("%w: template: %v", iak.ErrParse, err)
		}
	}
	for i := 0; i < len(points)-2; i++ {
		if _, err := doc.CloneLastTable(); err != nil {
			return fmt.Errorf("%w: template: %v", iak.ErrParse, err)
		}
	}
	tables := doc.Tables()
	if len(tables) < len(points) {
		return fmt.Errorf("%w: template has %d tables for %d attention points", iak.ErrParse, len(tables), len(points))
	}

	var photoDir string
	for i, p := range points {
		t := tables[i]
		texts := []struct {
			row, col int
			text     string
			top      bool
		}{
			{0, 0, "Aandachtspunt " + p.Number, false},
			{1, 1, p.Element, false},
			{2, 1, p.Bouwdeel, false},
			{4, 0, p.Bevinding, true},
			{6, 0, p.Category, true},
		}
		for _, tx := range texts {
			c, err := t.Cell(tx.row, tx.col)
			if err != nil {
				return fmt.Errorf("%w: attention point table: %v", iak.ErrParse, err)
			}
			c.SetText(tx.text).SetStyle(paragraphStyle)
			if tx.top {
				c.SetVerticalAlignment("top")
			}
		}

		photos := p.Photos
		if len(photos) > 2 {
			photos = photos[:2]
		}
		for j, number := range photos {
			if photoDir == "" {
				dir, err := iak.FindPhotoDir(objectDir)
				if err != nil {
					return err
				}
				photoDir = dir
			}
			photo, err := iak.FindPhoto(photoDir, number)
			if err != nil {
				return err
			}
			c, err := t.Cell(4+2*j, 2)
			if err != nil {
				return fmt.Errorf("%w: attention point table: %v", iak.ErrParse, err)
			}
			if err := c.Paragraphs()[0].AddPicture(photo, photoWidth); err != nil {
				return err
			}
		}
	}
	return nil
}
