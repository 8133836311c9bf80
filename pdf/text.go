package pdf

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageTexts returns the text shown on each page of the file.
func PageTexts(name string) ([]string, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ctx, err := api.ReadValidateAndOptimize(f, model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	texts := make([]string, ctx.PageCount)
	for i := range texts {
		r, err := pdfcpu.ExtractPageContent(ctx, i+1)
		if err != nil || r == nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil {
			continue
		}
		texts[i] = streamText(data)
	}
	return texts, nil
}

// streamText returns the strings shown by the text operators (Tj, TJ, '
// and ") between BT and ET in a content stream, separated by spaces.
// The stream is tokenized so that operator names occurring inside
// strings are not taken for operators.
func streamText(data []byte) string {
	var (
		parts    []string
		operands []string
		inText   bool
	)
	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case isPDFSpace(c):
			i++
		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case c == '(':
			raw, next := literalString(data, i)
			operands = append(operands, unescape(raw))
			i = next
		case c == '<' && i+1 < len(data) && data[i+1] == '<', c == '>' && i+1 < len(data) && data[i+1] == '>':
			i += 2
		case c == '<':
			end := bytes.IndexByte(data[i:], '>')
			if end < 0 {
				end = len(data) - i - 1
			}
			operands = append(operands, hexString(data[i+1:i+end]))
			i += end + 1
		case c == '[' || c == ']' || c == '{' || c == '}' || c == '>' || c == ')':
			i++
		default:
			start := i
			i++
			for i < len(data) && !isPDFSpace(data[i]) && !isPDFDelimiter(data[i]) {
				i++
			}
			tok := string(data[start:i])
			if c == '/' || c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9') {
				// names and numbers are operands
				continue
			}
			switch tok {
			case "BT":
				inText = true
			case "ET":
				inText = false
			case "Tj", "TJ", "'", "\"":
				if inText {
					parts = append(parts, operands...)
				}
			case "ID":
				i = skipInlineImage(data, i)
			}
			operands = operands[:0]
		}
	}
	return strings.Join(parts, " ")
}

func isPDFSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', 0:
		return true
	}
	return false
}

func isPDFDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// literalString returns the raw content of the string literal starting
// at data[i] and the index following it. Balanced parentheses may occur
// unescaped inside a literal.
func literalString(data []byte, i int) ([]byte, int) {
	depth := 0
	start := i + 1
	for j := i; j < len(data); j++ {
		switch data[j] {
		case '\\':
			j++
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return data[start:j], j + 1
			}
		}
	}
	return data[start:], len(data)
}

func hexString(h []byte) string {
	var digits []byte
	for _, c := range h {
		if !isPDFSpace(c) {
			digits = append(digits, c)
		}
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	if _, err := hex.Decode(out, digits); err != nil {
		return ""
	}
	return string(out)
}

// skipInlineImage returns the index after the EI operator ending the
// inline image data that starts at data[i].
func skipInlineImage(data []byte, i int) int {
	for j := i; j+2 <= len(data); j++ {
		if data[j] == 'E' && data[j+1] == 'I' && isPDFSpace(data[j-1]) &&
			(j+2 == len(data) || isPDFSpace(data[j+2])) {
			return j + 2
		}
	}
	return len(data)
}

func unescape(raw []byte) string {
	var buf bytes.Buffer
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '\\' || i+1 == len(raw) {
			buf.WriteByte(c)
			continue
		}
		i++
		switch c = raw[i]; c {
		case 'n':
			buf.WriteByte('\n')
		case 'r':
			buf.WriteByte('\r')
		case 't':
			buf.WriteByte('\t')
		case 'b', 'f':
		case '0', '1', '2', '3', '4', '5', '6', '7':
			v := int(c - '0')
			for j := 0; j < 2 && i+1 < len(raw) && raw[i+1] >= '0' && raw[i+1] <= '7'; j++ {
				i++
				v = v*8 + int(raw[i]-'0')
			}
			buf.WriteByte(byte(v))
		default:
			buf.WriteByte(c)
		}
	}
	return buf.String()
}

// LastPageWith returns the one based number of the last page whose text
// contains s, ignoring case and white space, or zero.
func LastPageWith(pages []string, s string) int {
	needle := squash(s)
	for i := len(pages) - 1; i >= 0; i-- {
		if strings.Contains(squash(pages[i]), needle) {
			return i + 1
		}
	}
	return 0
}

func squash(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}
