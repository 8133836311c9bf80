package docx

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is a w:tbl element.
type Table struct {
	d *Document
	n *Node
}

func (t *Table) Rows() int {
	return len(t.n.Elements("tr"))
}

// Columns returns the number of grid columns of the table.
func (t *Table) Columns() int {
	if grid := t.n.Child("tblGrid"); grid != nil {
		if n := len(grid.Elements("gridCol")); n > 0 {
			return n
		}
	}
	max := 0
	for _, tr := range t.n.Elements("tr") {
		n := 0
		for _, tc := range tr.Elements("tc") {
			n += gridSpan(tc)
		}
		if n > max {
			max = n
		}
	}
	return max
}

// cells lays out the table cells on the grid, row by row. Cells spanning
// several grid columns, or continuing a vertical merge, occur once per
// grid position they cover.
func (t *Table) cells() []*Node {
	cols := t.Columns()
	var cells []*Node
	for _, tr := range t.n.Elements("tr") {
		for _, tc := range tr.Elements("tc") {
			cont := vMergeContinue(tc)
			for i := 0; i < gridSpan(tc); i++ {
				switch {
				case cont && len(cells) >= cols:
					cells = append(cells, cells[len(cells)-cols])
				case i > 0:
					cells = append(cells, cells[len(cells)-1])
				default:
					cells = append(cells, tc)
				}
			}
		}
	}
	return cells
}

func gridSpan(tc *Node) int {
	if pr := tc.Child("tcPr"); pr != nil {
		if gs := pr.Child("gridSpan"); gs != nil {
			v, _ := gs.AttrValue("val")
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				return n
			}
		}
	}
	return 1
}

func vMergeContinue(tc *Node) bool {
	if pr := tc.Child("tcPr"); pr != nil {
		if vm := pr.Child("vMerge"); vm != nil {
			v, _ := vm.AttrValue("val")
			return v != "restart"
		}
	}
	return false
}

// Cell returns the cell at the zero based grid position.
func (t *Table) Cell(row, col int) (*Cell, error) {
	cols := t.Columns()
	cells := t.cells()
	idx := row*cols + col
	if row < 0 || col < 0 || col >= cols || idx >= len(cells) {
		return nil, fmt.Errorf("cell (%d, %d) of %dx%d table: %w", row, col, t.Rows(), cols, ErrNotFound)
	}
	return &Cell{d: t.d, n: cells[idx]}, nil
}

// AddRow appends a row with one empty cell per grid column and returns
// its index.
func (t *Table) AddRow() int {
	d := t.d
	tr := d.elem("tr")
	var widths []string
	if grid := t.n.Child("tblGrid"); grid != nil {
		for _, gc := range grid.Elements("gridCol") {
			w, _ := gc.AttrValue("w")
			widths = append(widths, w)
		}
	}
	if len(widths) == 0 {
		widths = make([]string, t.Columns())
	}
	for _, w := range widths {
		tc := d.elem("tc")
		if w != "" {
			pr := d.elem("tcPr")
			pr.Children = append(pr.Children, d.elem("tcW", d.attr("w"), w, d.attr("type"), "dxa"))
			tc.Children = append(tc.Children, pr)
		}
		tc.Children = append(tc.Children, d.elem("p"))
		tr.Children = append(tr.Children, tc)
	}
	t.n.Children = append(t.n.Children, tr)
	return t.Rows() - 1
}

// Cell is a w:tc element.
type Cell struct {
	d *Document
	n *Node
}

func (c *Cell) Paragraphs() []*Paragraph {
	var res []*Paragraph
	for _, p := range c.n.Elements("p") {
		res = append(res, &Paragraph{d: c.d, n: p})
	}
	return res
}

// Text returns the text of the cell paragraphs joined by newlines.
func (c *Cell) Text() string {
	var lines []string
	for _, p := range c.Paragraphs() {
		lines = append(lines, p.Text())
	}
	return strings.Join(lines, "\n")
}

// SetText replaces the cell content by a single paragraph holding text.
func (c *Cell) SetText(text string) *Paragraph {
	var keep []*Node
	if pr := c.n.Child("tcPr"); pr != nil {
		keep = append(keep, pr)
	}
	p := c.d.elem("p")
	p.Children = append(p.Children, c.d.run(text))
	c.n.Children = append(keep, p)
	return &Paragraph{d: c.d, n: p}
}

// tcPr children that must follow w:vAlign.
var afterVAlign = map[string]bool{
	"hideMark": true, "headers": true, "cellIns": true,
	"cellDel": true, "cellMerge": true, "tcPrChange": true,
}

// SetVerticalAlignment sets the vertical alignment: top, center or
// bottom.
func (c *Cell) SetVerticalAlignment(v string) {
	d := c.d
	pr := c.n.Child("tcPr")
	if pr == nil {
		pr = d.elem("tcPr")
		c.n.insert(0, pr)
	}
	if old := pr.Child("vAlign"); old != nil {
		pr.remove(old)
	}
	i := len(pr.Children)
	for j, ch := range pr.Children {
		if ch.kind == elementNode && afterVAlign[ch.Name.Local] {
			i = j
			break
		}
	}
	pr.insert(i, d.elem("vAlign", d.attr("val"), v))
}

// Paragraph is a w:p element.
type Paragraph struct {
	d *Document
	n *Node
}

// Text returns the paragraph text. Tabs and breaks are returned as \t
// and \n.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	p.n.walk(func(n *Node) bool {
		switch {
		case n.is("t"):
			for _, c := range n.Children {
				if c.kind == textNode {
					sb.WriteString(c.Data)
				}
			}
			return false
		case n.is("tab"):
			sb.WriteByte('\t')
		case n.is("br"), n.is("cr"):
			sb.WriteByte('\n')
		case n.is("delText"), n.is("instrText"):
			return false
		}
		return true
	})
	return sb.String()
}

// SetText replaces the paragraph content, except its properties, by a
// single run holding text.
func (p *Paragraph) SetText(text string) {
	var keep []*Node
	if pr := p.n.Child("pPr"); pr != nil {
		keep = append(keep, pr)
	}
	p.n.Children = append(keep, p.d.run(text))
}

func (p *Paragraph) Style() string {
	if pr := p.n.Child("pPr"); pr != nil {
		if ps := pr.Child("pStyle"); ps != nil {
			v, _ := ps.AttrValue("val")
			return v
		}
	}
	return ""
}

func (p *Paragraph) SetStyle(id string) {
	d := p.d
	pr := p.n.Child("pPr")
	if pr == nil {
		pr = d.elem("pPr")
		p.n.insert(0, pr)
	}
	ps := pr.Child("pStyle")
	if ps == nil {
		ps = d.elem("pStyle")
		pr.insert(0, ps)
	}
	ps.SetAttr(d.attr("val"), id)
}

// run returns a w:r with text, turning newlines into breaks and tabs
// into tab characters.
func (d *Document) run(text string) *Node {
	r := d.elem("r")
	text = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(text)
	var cur strings.Builder
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		s := cur.String()
		t := d.elem("t")
		if strings.TrimSpace(s) != s {
			t.SetAttr("xml:space", "preserve")
		}
		t.Children = append(t.Children, &Node{kind: textNode, Data: s})
		r.Children = append(r.Children, t)
		cur.Reset()
	}
	for _, c := range text {
		switch c {
		case '\n':
			flush()
			r.Children = append(r.Children, d.elem("br"))
		case '\t':
			flush()
			r.Children = append(r.Children, d.elem("tab"))
		default:
			cur.WriteRune(c)
		}
	}
	flush()
	return r
}
