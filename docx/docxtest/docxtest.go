// Package docxtest writes small Word documents for tests.
package docxtest

import (
	"archive/zip"
	"fmt"
	"os"
	"strings"
)

const (
	header = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
	ns     = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
)

// Paragraph returns a body paragraph with text.
func Paragraph(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

// Table returns a table with one row per element of rows and as many
// grid columns as the first row has cells.
func Table(rows ...[]string) string {
	var sb strings.Builder
	sb.WriteString(`<w:tbl><w:tblPr><w:tblW w:w="0" w:type="auto"/></w:tblPr><w:tblGrid>`)
	if len(rows) > 0 {
		for range rows[0] {
			sb.WriteString(`<w:gridCol w:w="2000"/>`)
		}
	}
	sb.WriteString(`</w:tblGrid>`)
	for _, row := range rows {
		sb.WriteString(`<w:tr>`)
		for _, cell := range row {
			fmt.Fprintf(&sb, `<w:tc><w:tcPr><w:tcW w:w="2000" w:type="dxa"/></w:tcPr>%s</w:tc>`, Paragraph(cell))
		}
		sb.WriteString(`</w:tr>`)
	}
	sb.WriteString(`</w:tbl>`)
	return sb.String()
}

// Write writes a document with body as the content of w:body. A non
// empty footer becomes the default footer of the only section.
func Write(name, body, footer string) error {
	sect := `<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr>`
	docRels := `<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`
	types := `<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`
	if footer != "" {
		sect = `<w:sectPr><w:footerReference w:type="default" r:id="rId2"/><w:pgSz w:w="11906" w:h="16838"/></w:sectPr>`
		docRels += `<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer" Target="footer1.xml"/>`
		types += `<Override PartName="/word/footer1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>`
	}

	parts := []struct{ name, data string }{
		{"[Content_Types].xml", header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
			`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
			`<Default Extension="xml" ContentType="application/xml"/>` + types + `</Types>`},
		{"_rels/.rels", header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
			`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`},
		{"word/document.xml", header + `<w:document ` + ns + `><w:body>` + body + sect + `</w:body></w:document>`},
		{"word/_rels/document.xml.rels", header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` + docRels + `</Relationships>`},
		{"word/styles.xml", header + `<w:styles ` + ns + `><w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style></w:styles>`},
	}
	if footer != "" {
		parts = append(parts, struct{ name, data string }{"word/footer1.xml", header + `<w:ftr ` + ns + `>` + footer + `</w:ftr>`})
	}

	fd, err := os.Create(name)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(fd)
	for _, p := range parts {
		w, err := zw.Create(p.name)
		if err != nil {
			fd.Close()
			return err
		}
		if _, err := w.Write([]byte(p.data)); err != nil {
			fd.Close()
			return err
		}
	}
	if err := zw.Close(); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}
