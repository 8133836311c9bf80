// Package docx edits Word documents in place: paragraph and table
// text, table cloning, paragraph styles, footers and inline pictures.
// Parts that are not touched are written back byte for byte.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strconv"
	"strings"
)

const (
	documentPart     = "word/document.xml"
	stylesPart       = "word/styles.xml"
	contentTypesPart = "[Content_Types].xml"

	relImage = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

var ErrNotFound = errors.New("not found")

// Document is an opened .docx package.
type Document struct {
	names []string
	parts map[string][]byte
	trees map[string]*Node
	doc   *Node
	w     string // prefix of the main WordprocessingML namespace
	ids   int    // last drawing object id handed out
}

func Open(name string) (*Document, error) {
	bs, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	d, err := Read(bytes.NewReader(bs), int64(len(bs)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

func Read(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}
	d := &Document{
		parts: make(map[string][]byte),
		trees: make(map[string]*Node),
	}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		bs, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		d.names = append(d.names, f.Name)
		d.parts[f.Name] = bs
	}
	d.doc, err = d.tree(documentPart)
	if err != nil {
		return nil, err
	}
	root := d.doc.root()
	if root == nil || root.Child("body") == nil {
		return nil, fmt.Errorf("%s: no document body", documentPart)
	}
	d.w = root.Name.Space
	d.doc.walk(func(n *Node) bool {
		if n.is("docPr") {
			if v, ok := n.AttrValue("id"); ok {
				if id, err := strconv.Atoi(v); err == nil && id > d.ids {
					d.ids = id
				}
			}
		}
		return true
	})
	return d, nil
}

// tree returns the parsed form of a part. Parsed parts are serialized
// again on save.
func (d *Document) tree(name string) (*Node, error) {
	if t, ok := d.trees[name]; ok {
		return t, nil
	}
	bs, ok := d.parts[name]
	if !ok {
		return nil, fmt.Errorf("part %s: %w", name, ErrNotFound)
	}
	t, err := parseXML(bs)
	if err != nil {
		return nil, fmt.Errorf("part %s: %w", name, err)
	}
	d.trees[name] = t
	return t, nil
}

func (d *Document) addPart(name string, data []byte) {
	if _, ok := d.parts[name]; !ok {
		d.names = append(d.names, name)
	}
	d.parts[name] = data
}

// Write writes the package, keeping the original part order.
func (d *Document) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, name := range d.names {
		data := d.parts[name]
		if t, ok := d.trees[name]; ok {
			data = t.bytes()
		}
		fw, err := zw.Create(name)
		if err != nil {
			return err
		}
		if _, err := fw.Write(data); err != nil {
			return err
		}
	}
	return zw.Close()
}

func (d *Document) Save(name string) error {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return err
	}
	return os.WriteFile(name, buf.Bytes(), 0o644)
}

func (d *Document) body() *Node {
	return d.doc.root().Child("body")
}

func (d *Document) elem(local string, attrs ...string) *Node {
	return newElement(d.w, local, attrs...)
}

// attr returns the attribute name for local in the main namespace.
func (d *Document) attr(local string) string {
	return qn(d.w, local)
}

func qn(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

// Paragraphs returns the paragraphs directly in the document body.
func (d *Document) Paragraphs() []*Paragraph {
	var res []*Paragraph
	for _, n := range d.body().Elements("p") {
		res = append(res, &Paragraph{d: d, n: n})
	}
	return res
}

// Tables returns the tables directly in the document body.
func (d *Document) Tables() []*Table {
	return tablesIn(d, d.body())
}

func tablesIn(d *Document, n *Node) []*Table {
	var res []*Table
	for _, t := range n.Elements("tbl") {
		res = append(res, &Table{d: d, n: t})
	}
	return res
}

// CloneLastTable appends an empty paragraph and a copy of the last body
// table to the end of the body.
func (d *Document) CloneLastTable() (*Table, error) {
	tables := d.body().Elements("tbl")
	if len(tables) == 0 {
		return nil, fmt.Errorf("table: %w", ErrNotFound)
	}
	cp := tables[len(tables)-1].clone()
	d.appendBody(d.elem("p"), cp)
	return &Table{d: d, n: cp}, nil
}

// RemoveLastTable removes the last table in the body.
func (d *Document) RemoveLastTable() error {
	tables := d.body().Elements("tbl")
	if len(tables) == 0 {
		return fmt.Errorf("table: %w", ErrNotFound)
	}
	d.body().remove(tables[len(tables)-1])
	return nil
}

// appendBody adds nodes at the end of the body, before the final
// section properties.
func (d *Document) appendBody(ns ...*Node) {
	body := d.body()
	i := len(body.Children)
	for j := len(body.Children) - 1; j >= 0; j-- {
		if body.Children[j].is("sectPr") {
			i = j
			break
		}
		if body.Children[j].kind == elementNode {
			break
		}
	}
	body.insert(i, ns...)
}

// Footer is a footer part of the document.
type Footer struct {
	d *Document
	n *Node
}

// Footer returns the default footer of the first section.
func (d *Document) Footer() (*Footer, error) {
	var sect *Node
	d.body().walk(func(n *Node) bool {
		if sect != nil {
			return false
		}
		if n.is("sectPr") {
			sect = n
			return false
		}
		return true
	})
	if sect == nil {
		return nil, fmt.Errorf("section: %w", ErrNotFound)
	}
	var rid string
	for _, ref := range sect.Elements("footerReference") {
		if typ, _ := ref.AttrValue("type"); typ == "default" || typ == "" {
			rid, _ = ref.AttrValue("id")
			break
		}
	}
	if rid == "" {
		return nil, fmt.Errorf("footer: %w", ErrNotFound)
	}
	rels, err := d.rels(documentPart)
	if err != nil {
		return nil, err
	}
	var target string
	for _, rel := range rels.root().Elements("Relationship") {
		if id, _ := rel.AttrValue("Id"); id == rid {
			target, _ = rel.AttrValue("Target")
		}
	}
	if target == "" {
		return nil, fmt.Errorf("footer relationship %s: %w", rid, ErrNotFound)
	}
	t, err := d.tree(resolveTarget(documentPart, target))
	if err != nil {
		return nil, err
	}
	if t.root() == nil {
		return nil, fmt.Errorf("footer %s: empty part", target)
	}
	return &Footer{d: d, n: t.root()}, nil
}

func (f *Footer) Tables() []*Table {
	return tablesIn(f.d, f.n)
}

func relsName(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

func resolveTarget(part, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Join(path.Dir(part), target)
}

func (d *Document) rels(part string) (*Node, error) {
	name := relsName(part)
	if _, ok := d.parts[name]; !ok {
		d.addPart(name, []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"+
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`))
	}
	return d.tree(name)
}

// addRelationship adds a relationship from part and returns its id.
func (d *Document) addRelationship(part, typ, target string) (string, error) {
	rels, err := d.rels(part)
	if err != nil {
		return "", err
	}
	root := rels.root()
	next := 1
	for _, rel := range root.Elements("Relationship") {
		id, _ := rel.AttrValue("Id")
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "rId")); err == nil && n >= next {
			next = n + 1
		}
	}
	id := "rId" + strconv.Itoa(next)
	root.Children = append(root.Children, newElement(root.Name.Space, "Relationship",
		"Id", id, "Type", typ, "Target", target))
	return id, nil
}

func (d *Document) ensureDefaultContentType(ext, contentType string) error {
	t, err := d.tree(contentTypesPart)
	if err != nil {
		return err
	}
	root := t.root()
	for _, def := range root.Elements("Default") {
		if e, _ := def.AttrValue("Extension"); strings.EqualFold(e, ext) {
			return nil
		}
	}
	root.insert(0, newElement(root.Name.Space, "Default", "Extension", ext, "ContentType", contentType))
	return nil
}

// EnsureParagraphStyle adds a paragraph style named id with an Arial,
// black run font of the given size in points, unless a style with that
// id already exists.
func (d *Document) EnsureParagraphStyle(id string, size float64) error {
	t, err := d.tree(stylesPart)
	if err != nil {
		return err
	}
	root := t.root()
	for _, s := range root.Elements("style") {
		if sid, _ := s.AttrValue("styleId"); sid == id {
			return nil
		}
	}
	p := root.Name.Space
	q := func(local string) string { return qn(p, local) }
	style := newElement(p, "style", q("type"), "paragraph", q("customStyle"), "1", q("styleId"), id)
	rpr := newElement(p, "rPr")
	rpr.Children = append(rpr.Children,
		newElement(p, "rFonts", q("ascii"), "Arial", q("hAnsi"), "Arial", q("cs"), "Arial"),
		newElement(p, "color", q("val"), "000000"),
		newElement(p, "sz", q("val"), strconv.Itoa(int(size*2+0.5))),
		newElement(p, "u", q("val"), "none"),
	)
	style.Children = append(style.Children,
		newElement(p, "name", q("val"), id),
		newElement(p, "qFormat"),
		rpr,
	)
	root.Children = append(root.Children, style)
	return nil
}
