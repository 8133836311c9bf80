package excel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Table is a sheet region read as a header row followed by data rows.
// Columns are unique: a repeated header gets a ".1", ".2", ... suffix.
type Table struct {
	Columns []string
	Rows    [][]string
	index   map[string]int
}

// ReadTable reads sheet with the header on headerRow (1-based), skipping
// skip rows directly below it. Rows without any value are dropped.
func ReadTable(xlsx *excelize.File, sheet string, headerRow, skip int) (*Table, error) {
	rows, err := xlsx.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet, err)
	}
	if len(rows) < headerRow {
		return nil, fmt.Errorf("sheet %q: no header on row %d", sheet, headerRow)
	}

	t := NewTable(rows[headerRow-1])
	first := headerRow + skip
	if first > len(rows) {
		first = len(rows)
	}
	for _, row := range rows[first:] {
		t.Append(row)
	}
	return t, nil
}

func NewTable(header []string) *Table {
	t := &Table{index: make(map[string]int)}
	// counts holds, per name, the next suffix to try.
	counts := make(map[string]int)
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		name := h
		for n := counts[name]; n > 0; n = counts[name] {
			counts[name] = n + 1
			name = name + "." + strconv.Itoa(n)
		}
		counts[name] = 1
		t.index[name] = len(t.Columns)
		t.Columns = append(t.Columns, name)
	}
	return t
}

// Append adds a row, padding or truncating it to the number of columns.
// Empty rows are ignored.
func (t *Table) Append(row []string) {
	empty := true
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			empty = false
			break
		}
	}
	if empty {
		return
	}
	r := make([]string, len(t.Columns))
	copy(r, row)
	t.Rows = append(t.Rows, r)
}

func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Value returns the cell in the given row and column, or "" when the
// column does not exist.
func (t *Table) Value(row int, col string) string {
	i, ok := t.index[col]
	if !ok {
		return ""
	}
	return t.Rows[row][i]
}

func (t *Table) Set(row int, col, v string) {
	if i, ok := t.index[col]; ok {
		t.Rows[row][i] = v
	}
}

// FirstColumn returns the first column accepted by match.
func (t *Table) FirstColumn(match func(string) bool) (string, bool) {
	for _, c := range t.Columns {
		if match(c) {
			return c, true
		}
	}
	return "", false
}

// FillDown replaces empty cells in col with the closest value above.
func (t *Table) FillDown(col string) {
	i, ok := t.index[col]
	if !ok {
		return
	}
	prev := ""
	for _, r := range t.Rows {
		if r[i] == "" {
			r[i] = prev
		} else {
			prev = r[i]
		}
	}
}
