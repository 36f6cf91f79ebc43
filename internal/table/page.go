package table

import "math"

// Page is a window of consecutive rows.
type Page struct {
	Number int
	Size   int
	Count  int
	Start  int // index of the first row in the table
	End    int // exclusive

	table *Table
}

// PageCount is ceil(rows/size), never less than one.
func (t *Table) PageCount(size int) int {
	if size <= 0 {
		size = DefaultPageSize
	}
	n := (len(t.rows) + size - 1) / size
	if n < 1 {
		return 1
	}
	return n
}

// ResolvePage maps a requested 1-indexed page onto a valid one. Zero (unset),
// negative and past-the-end pages resolve to page 1.
func (t *Table) ResolvePage(n, size int) int {
	if n < 1 || n > t.PageCount(size) {
		return 1
	}
	return n
}

// Page returns rows [(n-1)*size, n*size) after resolving n.
func (t *Table) Page(n, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	n = t.ResolvePage(n, size)
	start := (n - 1) * size
	end := start + size
	if end > len(t.rows) {
		end = len(t.rows)
	}
	return Page{Number: n, Size: size, Count: t.PageCount(size), Start: start, End: end, table: t}
}

func (p Page) Len() int { return p.End - p.Start }

// Table returns the table the page belongs to.
func (p Page) Table() *Table { return p.table }

// Rows returns the raw cells of the page.
func (p Page) Rows() [][]string { return p.table.rows[p.Start:p.End] }

// Records renders the page as column-keyed records. Numeric columns become
// float64 (nil when empty), the rest stay strings.
func (p Page) Records() []map[string]any {
	t := p.table
	out := make([]map[string]any, 0, p.Len())
	for r := p.Start; r < p.End; r++ {
		rec := make(map[string]any, len(t.columns))
		for c, name := range t.columns {
			if !t.numeric[c] {
				rec[name] = t.rows[r][c]
				continue
			}
			v := t.Float(r, c)
			if math.IsNaN(v) {
				rec[name] = nil
			} else {
				rec[name] = v
			}
		}
		out = append(out, rec)
	}
	return out
}
