package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"kastelo.dev/iak"
	"kastelo.dev/iak/batch"
)

var bijlage3Existing = iak.Pattern{Glob: "Bijlage 3*"}

func Bijlage3Name(code string) string {
	return fmt.Sprintf("Bijlage 3 - %s.pdf", code)
}

// Bijlage3 exports the active sheet of the newest ORA workbook of every
// object, unless the object already has a Bijlage 3.
func (e *Env) Bijlage3(ctx context.Context) (batch.Summary, error) {
	return e.runBatch(ctx, KindBijlage3, e.Bijlage3Object)
}

func (e *Env) Bijlage3Object(ctx context.Context, obj iak.Object) (iak.GeneratedDocument, error) {
	doc := iak.GeneratedDocument{Object: obj.Code, Kind: KindBijlage3}
	if existing, ok := iak.HasFile(obj.Dir, bijlage3Existing); ok {
		return doc, batch.Skip("%s exists", existing)
	}
	src, err := iak.Newest(obj.Dir, iak.ORAWorkbook)
	if err != nil {
		return doc, err
	}
	dir := e.Config.SaveLoc(obj)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return doc, err
	}
	e.logger().Info("Exporting ORA", "object", obj.Code, "path", src)
	doc.Document = src
	doc.PDF, err = e.toPDF(ctx, src, filepath.Join(dir, Bijlage3Name(obj.Code)), true)
	return doc, err
}
