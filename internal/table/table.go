// Package table holds the in-memory dataset served by the dashboard.
package table

import (
	"errors"
	"fmt"
	"math"

	"uk-demand-dashboard/internal/data"
)

// DefaultPageSize is the number of rows shown per table or chart page.
const DefaultPageSize = 100

var ErrUnknownColumn = errors.New("unknown column")

// Table is an immutable, fully loaded CSV. It is safe for concurrent reads.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
	numeric []bool
}

// Load reads a CSV file into a Table.
func Load(path string) (*Table, error) {
	header, rows, err := data.ReadCSV(path)
	if err != nil {
		return nil, err
	}
	return New(header, rows)
}

// New builds a Table from a header and rows of equal width. A column is
// numeric when it has at least one value and every non-empty cell parses as
// a float.
func New(columns []string, rows [][]string) (*Table, error) {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		rows:    rows,
		numeric: make([]bool, len(columns)),
	}
	for i, c := range columns {
		if _, dup := t.index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		t.index[c] = i
	}
	for n, r := range rows {
		if len(r) != len(columns) {
			return nil, fmt.Errorf("row %d has %d fields, want %d", n+1, len(r), len(columns))
		}
	}
	for c := range columns {
		t.numeric[c] = detectNumeric(rows, c)
	}
	return t, nil
}

func detectNumeric(rows [][]string, col int) bool {
	seen := false
	for _, r := range rows {
		if r[col] == "" {
			continue
		}
		if _, err := data.ParseFloat(r[col]); err != nil {
			return false
		}
		seen = true
	}
	return seen
}

func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

func (t *Table) Len() int { return len(t.rows) }

// NumericColumns lists the columns usable as chart series.
func (t *Table) NumericColumns() []string {
	var out []string
	for i, c := range t.columns {
		if t.numeric[i] {
			out = append(out, c)
		}
	}
	return out
}

// Column resolves a column name to its index.
func (t *Table) Column(name string) (int, error) {
	i, ok := t.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return i, nil
}

func (t *Table) IsNumeric(col int) bool { return t.numeric[col] }

// Cell returns the raw text at row, col.
func (t *Table) Cell(row, col int) string { return t.rows[row][col] }

// Float returns the numeric value at row, col; NaN for empty or non-numeric cells.
func (t *Table) Float(row, col int) float64 {
	v, err := data.ParseFloat(t.rows[row][col])
	if err != nil {
		return math.NaN()
	}
	return v
}
