package docx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

type nodeKind int

const (
	documentNode nodeKind = iota
	elementNode
	textNode
	procInstNode
	commentNode
	directiveNode
)

// Node is an XML node as written in the part, with namespace prefixes
// kept verbatim so that a part can be written back unchanged.
type Node struct {
	kind     nodeKind
	Name     xml.Name // Space is the prefix, not the namespace URI
	Attr     []xml.Attr
	Children []*Node
	Data     string // text, comment or directive content
	target   string // processing instruction target
}

func parseXML(data []byte) (*Node, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	root := &Node{kind: documentNode}
	stack := []*Node{root}
	for {
		tok, err := dec.RawToken()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		cur := stack[len(stack)-1]
		switch tok := tok.(type) {
		case xml.StartElement:
			n := &Node{kind: elementNode, Name: tok.Name, Attr: append([]xml.Attr(nil), tok.Attr...)}
			cur.Children = append(cur.Children, n)
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 1 || cur.Name != tok.Name {
				return nil, fmt.Errorf("unexpected end element %s", qname(tok.Name))
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			cur.Children = append(cur.Children, &Node{kind: textNode, Data: string(tok)})
		case xml.ProcInst:
			cur.Children = append(cur.Children, &Node{kind: procInstNode, target: tok.Target, Data: string(tok.Inst)})
		case xml.Comment:
			cur.Children = append(cur.Children, &Node{kind: commentNode, Data: string(tok)})
		case xml.Directive:
			cur.Children = append(cur.Children, &Node{kind: directiveNode, Data: string(tok)})
		}
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("unclosed element %s", qname(stack[len(stack)-1].Name))
	}
	return root, nil
}

// parseElement parses a single element written as a string.
func parseElement(s string) (*Node, error) {
	doc, err := parseXML([]byte(s))
	if err != nil {
		return nil, err
	}
	if root := doc.root(); root != nil {
		return root, nil
	}
	return nil, errors.New("no element")
}

func (n *Node) root() *Node {
	for _, c := range n.Children {
		if c.kind == elementNode {
			return c
		}
	}
	return nil
}

func (n *Node) bytes() []byte {
	var buf bytes.Buffer
	n.write(&buf)
	return buf.Bytes()
}

func (n *Node) write(buf *bytes.Buffer) {
	switch n.kind {
	case documentNode:
		for _, c := range n.Children {
			c.write(buf)
		}
	case textNode:
		escape(buf, n.Data, false)
	case procInstNode:
		buf.WriteString("<?")
		buf.WriteString(n.target)
		if n.Data != "" {
			buf.WriteByte(' ')
			buf.WriteString(n.Data)
		}
		buf.WriteString("?>")
	case commentNode:
		buf.WriteString("<!--")
		buf.WriteString(n.Data)
		buf.WriteString("-->")
	case directiveNode:
		buf.WriteString("<!")
		buf.WriteString(n.Data)
		buf.WriteString(">")
	case elementNode:
		buf.WriteByte('<')
		buf.WriteString(qname(n.Name))
		for _, a := range n.Attr {
			buf.WriteByte(' ')
			buf.WriteString(qname(a.Name))
			buf.WriteString(`="`)
			escape(buf, a.Value, true)
			buf.WriteByte('"')
		}
		if len(n.Children) == 0 {
			buf.WriteString("/>")
			return
		}
		buf.WriteByte('>')
		for _, c := range n.Children {
			c.write(buf)
		}
		buf.WriteString("</")
		buf.WriteString(qname(n.Name))
		buf.WriteByte('>')
	}
}

func qname(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func escape(buf *bytes.Buffer, s string, attr bool) {
	for _, r := range s {
		switch {
		case r == '&':
			buf.WriteString("&amp;")
		case r == '<':
			buf.WriteString("&lt;")
		case r == '>':
			buf.WriteString("&gt;")
		case r == '"' && attr:
			buf.WriteString("&quot;")
		case (r == '\n' || r == '\r' || r == '\t') && attr:
			fmt.Fprintf(buf, "&#x%X;", r)
		case r == '\r':
			buf.WriteString("&#xD;")
		default:
			buf.WriteRune(r)
		}
	}
}

func newElement(prefix, local string, attrs ...string) *Node {
	n := &Node{kind: elementNode, Name: xml.Name{Space: prefix, Local: local}}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.SetAttr(attrs[i], attrs[i+1])
	}
	return n
}

func splitName(name string) xml.Name {
	if p, l, ok := strings.Cut(name, ":"); ok {
		return xml.Name{Space: p, Local: l}
	}
	return xml.Name{Local: name}
}

// AttrValue returns the value of the attribute with the given local name,
// ignoring its prefix. Namespace declarations are never matched.
func (n *Node) AttrValue(local string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == local && a.Name.Space != "xmlns" {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets the attribute written as name, e.g. "w:val".
func (n *Node) SetAttr(name, value string) {
	xn := splitName(name)
	for i, a := range n.Attr {
		if a.Name == xn {
			n.Attr[i].Value = value
			return
		}
	}
	n.Attr = append(n.Attr, xml.Attr{Name: xn, Value: value})
}

func (n *Node) is(local string) bool {
	return n.kind == elementNode && n.Name.Local == local
}

// Child returns the first child element with the local name.
func (n *Node) Child(local string) *Node {
	for _, c := range n.Children {
		if c.is(local) {
			return c
		}
	}
	return nil
}

// Elements returns the child elements with the local name.
func (n *Node) Elements(local string) []*Node {
	var res []*Node
	for _, c := range n.Children {
		if c.is(local) {
			res = append(res, c)
		}
	}
	return res
}

// walk visits n and its descendants in document order. The children of
// a node are skipped when fn returns false for it.
func (n *Node) walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.walk(fn)
	}
}

func (n *Node) indexOf(c *Node) int {
	for i, x := range n.Children {
		if x == c {
			return i
		}
	}
	return -1
}

func (n *Node) insert(i int, cs ...*Node) {
	n.Children = append(n.Children[:i], append(cs, n.Children[i:]...)...)
}

func (n *Node) remove(c *Node) bool {
	if i := n.indexOf(c); i >= 0 {
		n.Children = append(n.Children[:i], n.Children[i+1:]...)
		return true
	}
	return false
}

func (n *Node) clone() *Node {
	c := *n
	c.Attr = append([]xml.Attr(nil), n.Attr...)
	c.Children = make([]*Node, len(n.Children))
	for i, ch := range n.Children {
		c.Children[i] = ch.clone()
	}
	return &c
}
