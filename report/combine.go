package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"kastelo.dev/iak"
	"kastelo.dev/iak/batch"
	"kastelo.dev/iak/pdf"
)

var (
	combinedPI = iak.Pattern{Contains: "pi rapport", Exts: []string{".pdf"}, Exclude: "compleet"}
	combinedB3 = iak.Pattern{Contains: "bijlage 3", Exts: []string{".pdf"}}
	combinedB9 = iak.Pattern{Contains: "bijlage 9", Exts: []string{".pdf"}}
)

// CombinedName is the complete report for a PI report PDF.
func CombinedName(pi string) string {
	return strings.TrimSuffix(pi, filepath.Ext(pi)) + " - compleet.pdf"
}

// Combine merges the PI report of every object with its Bijlage 3 and
// Bijlage 9 into one PDF.
func (e *Env) Combine(ctx context.Context) (batch.Summary, error) {
	return e.runBatch(ctx, KindCombined, e.CombineObject)
}

func (e *Env) CombineObject(ctx context.Context, obj iak.Object) (iak.GeneratedDocument, error) {
	doc := iak.GeneratedDocument{Object: obj.Code, Kind: KindCombined}
	l := e.logger().With("object", obj.Code)
	dir := e.Config.OutputDir(obj)
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return doc, fmt.Errorf("%w: output folder %s", iak.ErrMissingInput, dir)
	}

	find := func(p iak.Pattern) (string, error) {
		name, err := iak.Newest(dir, p)
		if err != nil {
			return "", fmt.Errorf("%w: %v", iak.ErrMissingInput, err)
		}
		return name, nil
	}
	pi, err := find(combinedPI)
	if err != nil {
		return doc, err
	}
	b3, err := find(combinedB3)
	if err != nil {
		return doc, err
	}
	b9, err := find(combinedB9)
	if err != nil {
		return doc, err
	}

	out := CombinedName(pi)
	if _, err := os.Stat(out); err == nil {
		return doc, batch.Skip("%s exists", filepath.Base(out))
	}

	l.Info("Combining", "pi", pi, "bijlage3", b3, "bijlage9", b9)
	appendices := []pdf.Appendix{
		{Name: "Bijlage 3", Path: b3},
		{Name: "Bijlage 9", Path: b9},
	}
	opts := pdf.Options{InsertAtReference: e.Config.Combine.InsertAtReference, Logger: l}
	if err := pdf.Combine(out, pi, appendices, opts); err != nil {
		return doc, err
	}
	l.Info("Combined report written", "path", out)
	doc.Document = pi
	doc.PDF = out
	return doc, nil
}
