package docx

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"kastelo.dev/iak/docx/docxtest"
)

func testDocument(t *testing.T, body, footer string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "test.docx")
	if err := docxtest.Write(name, body, footer); err != nil {
		t.Fatal(err)
	}
	return name
}

func reopen(t *testing.T, d *Document) *Document {
	t.Helper()
	name := filepath.Join(t.TempDir(), "saved.docx")
	if err := d.Save(name); err != nil {
		t.Fatal(err)
	}
	d2, err := Open(name)
	if err != nil {
		t.Fatal(err)
	}
	return d2
}

func paragraphTexts(d *Document) []string {
	var res []string
	for _, p := range d.Paragraphs() {
		res = append(res, p.Text())
	}
	return res
}

func TestRoundTrip(t *testing.T) {
	name := testDocument(t, docxtest.Paragraph("Werkpakket")+docxtest.Paragraph("Datum &amp; tijd"), "")
	d, err := Open(name)
	if err != nil {
		t.Fatal(err)
	}
	d2 := reopen(t, d)

	exp := []string{"Werkpakket", "Datum & tijd"}
	if res := paragraphTexts(d2); !reflect.DeepEqual(res, exp) {
		t.Errorf("got %q, expected %q", res, exp)
	}
	if !reflect.DeepEqual(d.names, d2.names) {
		t.Errorf("part order changed: %v != %v", d2.names, d.names)
	}
}

func TestParagraphSetText(t *testing.T) {
	d, err := Open(testDocument(t, `<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:t>old</w:t></w:r><w:r><w:t>er</w:t></w:r></w:p>`, ""))
	if err != nil {
		t.Fatal(err)
	}
	p := d.Paragraphs()[0]
	if p.Text() != "older" {
		t.Errorf("got %q", p.Text())
	}
	p.SetText("Werkpakket: WP1\n Datum:\t1-2-2024 ")
	p.SetStyle("Cell")

	d2 := reopen(t, d)
	p = d2.Paragraphs()[0]
	if exp := "Werkpakket: WP1\n Datum:\t1-2-2024 "; p.Text() != exp {
		t.Errorf("got %q, expected %q", p.Text(), exp)
	}
	if p.Style() != "Cell" {
		t.Errorf("got style %q", p.Style())
	}
	pr := p.n.Child("pPr")
	if pr == nil || len(pr.Children) != 2 || !pr.Children[0].is("pStyle") || !pr.Children[1].is("jc") {
		t.Error("paragraph properties not kept with pStyle first")
	}
}

func TestTableCells(t *testing.T) {
	d, err := Open(testDocument(t, docxtest.Table([]string{"a", "b", "c"}, []string{"d", "e", "f"}), ""))
	if err != nil {
		t.Fatal(err)
	}
	tbl := d.Tables()[0]
	if tbl.Rows() != 2 || tbl.Columns() != 3 {
		t.Fatalf("got %dx%d table", tbl.Rows(), tbl.Columns())
	}
	c, err := tbl.Cell(1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if c.Text() != "f" {
		t.Errorf("got %q", c.Text())
	}
	if _, err := tbl.Cell(2, 0); err == nil {
		t.Error("expected error for row outside table")
	}
	if _, err := tbl.Cell(0, 3); err == nil {
		t.Error("expected error for column outside table")
	}
}

func TestTableMergedCells(t *testing.T) {
	body := `<w:tbl><w:tblGrid><w:gridCol/><w:gridCol/><w:gridCol/></w:tblGrid>` +
		`<w:tr><w:tc><w:tcPr><w:gridSpan w:val="2"/></w:tcPr><w:p><w:r><w:t>ab</w:t></w:r></w:p></w:tc><w:tc><w:tcPr><w:vMerge w:val="restart"/></w:tcPr><w:p><w:r><w:t>c</w:t></w:r></w:p></w:tc></w:tr>` +
		`<w:tr><w:tc><w:p><w:r><w:t>d</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>e</w:t></w:r></w:p></w:tc><w:tc><w:tcPr><w:vMerge/></w:tcPr><w:p/></w:tc></w:tr>` +
		`</w:tbl>`
	d, err := Open(testDocument(t, body, ""))
	if err != nil {
		t.Fatal(err)
	}
	tbl := d.Tables()[0]
	cases := []struct {
		row, col int
		text     string
	}{
		{0, 0, "ab"},
		{0, 1, "ab"},
		{0, 2, "c"},
		{1, 0, "d"},
		{1, 1, "e"},
		{1, 2, "c"},
	}
	for _, tc := range cases {
		c, err := tbl.Cell(tc.row, tc.col)
		if err != nil {
			t.Fatal(err)
		}
		if c.Text() != tc.text {
			t.Errorf("cell (%d, %d) = %q, expected %q", tc.row, tc.col, c.Text(), tc.text)
		}
	}
}

func TestAddRow(t *testing.T) {
	d, err := Open(testDocument(t, docxtest.Table([]string{"Code object", "Element"}), ""))
	if err != nil {
		t.Fatal(err)
	}
	tbl := d.Tables()[0]
	row := tbl.AddRow()
	if row != 1 {
		t.Fatalf("got row %d", row)
	}
	c, err := tbl.Cell(row, 1)
	if err != nil {
		t.Fatal(err)
	}
	c.SetText("Dek").SetStyle("Cell")
	c.SetVerticalAlignment("top")

	d2 := reopen(t, d)
	tbl = d2.Tables()[0]
	c, err = tbl.Cell(1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if c.Text() != "Dek" || c.Paragraphs()[0].Style() != "Cell" {
		t.Errorf("got %q style %q", c.Text(), c.Paragraphs()[0].Style())
	}
	pr := c.n.Child("tcPr")
	if pr == nil || pr.Child("tcW") == nil {
		t.Fatal("new cell lacks width")
	}
	if v, _ := pr.Child("vAlign").AttrValue("val"); v != "top" {
		t.Errorf("got vAlign %q", v)
	}
}

func TestCloneAndRemoveTable(t *testing.T) {
	d, err := Open(testDocument(t, docxtest.Paragraph("intro")+docxtest.Table([]string{"1", "x"}), ""))
	if err != nil {
		t.Fatal(err)
	}
	clone, err := d.CloneLastTable()
	if err != nil {
		t.Fatal(err)
	}
	c, _ := clone.Cell(0, 1)
	c.SetText("y")

	if n := len(d.Tables()); n != 2 {
		t.Fatalf("got %d tables", n)
	}
	first, _ := d.Tables()[0].Cell(0, 1)
	if first.Text() != "x" {
		t.Errorf("clone shares nodes with original: %q", first.Text())
	}
	body := d.body()
	var names []string
	for _, n := range body.Children {
		if n.kind == elementNode {
			names = append(names, n.Name.Local)
		}
	}
	exp := []string{"p", "tbl", "p", "tbl", "sectPr"}
	if !reflect.DeepEqual(names, exp) {
		t.Errorf("got body %v, expected %v", names, exp)
	}

	if err := d.RemoveLastTable(); err != nil {
		t.Fatal(err)
	}
	if err := d.RemoveLastTable(); err != nil {
		t.Fatal(err)
	}
	if err := d.RemoveLastTable(); err == nil {
		t.Error("expected error removing from document without tables")
	}
	if _, err := d.CloneLastTable(); err == nil {
		t.Error("expected error cloning from document without tables")
	}
}

func TestFooter(t *testing.T) {
	d, err := Open(testDocument(t, docxtest.Paragraph("body"), docxtest.Table([]string{"", ""}, []string{"", ""})))
	if err != nil {
		t.Fatal(err)
	}
	f, err := d.Footer()
	if err != nil {
		t.Fatal(err)
	}
	c, err := f.Tables()[0].Cell(0, 1)
	if err != nil {
		t.Fatal(err)
	}
	c.SetText("30F-310")

	d2 := reopen(t, d)
	f, err = d2.Footer()
	if err != nil {
		t.Fatal(err)
	}
	c, _ = f.Tables()[0].Cell(0, 1)
	if c.Text() != "30F-310" {
		t.Errorf("got %q", c.Text())
	}

	d3, err := Open(testDocument(t, docxtest.Paragraph("body"), ""))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d3.Footer(); err == nil {
		t.Error("expected error for document without footer")
	}
}

func TestEnsureParagraphStyle(t *testing.T) {
	d, err := Open(testDocument(t, docxtest.Paragraph("x"), ""))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := d.EnsureParagraphStyle("Cell", 7); err != nil {
			t.Fatal(err)
		}
	}
	d2 := reopen(t, d)
	styles, err := d2.tree(stylesPart)
	if err != nil {
		t.Fatal(err)
	}
	var cell []*Node
	for _, s := range styles.root().Elements("style") {
		if id, _ := s.AttrValue("styleId"); id == "Cell" {
			cell = append(cell, s)
		}
	}
	if len(cell) != 1 {
		t.Fatalf("got %d Cell styles", len(cell))
	}
	rpr := cell[0].Child("rPr")
	if v, _ := rpr.Child("sz").AttrValue("val"); v != "14" {
		t.Errorf("got size %q", v)
	}
	if v, _ := rpr.Child("rFonts").AttrValue("ascii"); v != "Arial" {
		t.Errorf("got font %q", v)
	}
}

func TestAddPicture(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	img.Set(1, 1, color.Black)
	photo := filepath.Join(dir, "Foto 12.png")
	fd, err := os.Create(photo)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(fd, img); err != nil {
		t.Fatal(err)
	}
	fd.Close()

	d, err := Open(testDocument(t, docxtest.Table([]string{"", ""}), ""))
	if err != nil {
		t.Fatal(err)
	}
	c, _ := d.Tables()[0].Cell(0, 0)
	width := int64(7.5 * EMUPerCm)
	if err := c.Paragraphs()[0].AddPicture(photo, width); err != nil {
		t.Fatal(err)
	}
	c, _ = d.Tables()[0].Cell(0, 1)
	if err := c.Paragraphs()[0].AddPicture(photo, width); err != nil {
		t.Fatal(err)
	}
	if err := c.Paragraphs()[0].AddPicture(filepath.Join(dir, "notes.txt"), width); err == nil {
		t.Error("expected error for unsupported file type")
	}

	d2 := reopen(t, d)
	for _, name := range []string{"word/media/image1.png", "word/media/image2.png"} {
		if _, ok := d2.parts[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}
	if ct := string(d2.parts[contentTypesPart]); !strings.Contains(ct, `Extension="png"`) {
		t.Error("png content type not registered")
	}
	rels := string(d2.parts["word/_rels/document.xml.rels"])
	if !strings.Contains(rels, `Target="media/image2.png"`) || !strings.Contains(rels, `Id="rId3"`) {
		t.Errorf("unexpected relationships: %s", rels)
	}

	var extents, ids []string
	d2.body().walk(func(n *Node) bool {
		if n.is("extent") {
			cy, _ := n.AttrValue("cy")
			extents = append(extents, cy)
		}
		if n.is("docPr") {
			id, _ := n.AttrValue("id")
			ids = append(ids, id)
		}
		return true
	})
	if exp := []string{"2025000", "2025000"}; !reflect.DeepEqual(extents, exp) {
		t.Errorf("got heights %v, expected %v", extents, exp)
	}
	if exp := []string{"1", "2"}; !reflect.DeepEqual(ids, exp) {
		t.Errorf("got ids %v, expected %v", ids, exp)
	}
}
