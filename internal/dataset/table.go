// Package dataset holds the in-memory tabular model: typed columns,
// file loading, and the derived structural/statistical summary used by
// the analysis tools.
package dataset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// CellKind identifies the type of a single cell value.
type CellKind int

const (
	CellMissing CellKind = iota
	CellNumber
	CellText
	CellBool
)

// Cell is one typed value in a column.
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
	Bool   bool
}

// Value returns the cell's native Go value, or nil when missing.
func (c Cell) Value() any {
	switch c.Kind {
	case CellNumber:
		return c.Number
	case CellText:
		return c.Text
	case CellBool:
		return c.Bool
	default:
		return nil
	}
}

// ColumnKind is the declared type of a column, fixed at load time.
// Classification downstream (numeric vs categorical) uses this declared
// kind, never per-value probing.
type ColumnKind string

const (
	KindNumeric ColumnKind = "float64"
	KindText    ColumnKind = "object"
	KindBool    ColumnKind = "bool"
)

// Column is an ordered sequence of typed cells under a unique name.
type Column struct {
	Name  string
	Kind  ColumnKind
	Cells []Cell
}

// MissingCount returns the number of missing cells in the column.
func (c Column) MissingCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.Kind == CellMissing {
			n++
		}
	}
	return n
}

// Table is an in-memory tabular dataset: ordered named columns of typed
// cells. Column names are unique within a table.
type Table struct {
	cols   []Column
	byName map[string]int
	rows   int
}

// NewTable constructs a table from ordered columns. It fails if column
// names collide or column lengths differ.
func NewTable(cols []Column) (*Table, error) {
	byName := make(map[string]int, len(cols))
	rows := 0
	for i, col := range cols {
		if _, dup := byName[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name: %s", col.Name)
		}
		byName[col.Name] = i
		if i == 0 {
			rows = len(col.Cells)
		} else if len(col.Cells) != rows {
			return nil, fmt.Errorf("column %s has %d cells, expected %d", col.Name, len(col.Cells), rows)
		}
	}
	return &Table{cols: cols, byName: byName, rows: rows}, nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int { return t.rows }

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.cols) }

// Columns returns the column names in source order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// ColumnByName returns the named column, or nil.
func (t *Table) ColumnByName(name string) *Column {
	idx, ok := t.byName[name]
	if !ok {
		return nil
	}
	return &t.cols[idx]
}

// HasColumn reports whether the table contains the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.byName[name]
	return ok
}

// cell returns the cell at (row, named column); missing if absent.
func (t *Table) cell(row int, name string) Cell {
	idx, ok := t.byName[name]
	if !ok || row < 0 || row >= t.rows {
		return Cell{Kind: CellMissing}
	}
	return t.cols[idx].Cells[row]
}

// Row is a lightweight view of one table row, exposed to analysis code.
type Row struct {
	t   *Table
	idx int
}

// Num returns the numeric value of the named cell (0 when not numeric).
func (r Row) Num(name string) float64 {
	c := r.t.cell(r.idx, name)
	if c.Kind == CellNumber {
		return c.Number
	}
	return 0
}

// Str returns the string form of the named cell ("" when missing).
func (r Row) Str(name string) string {
	c := r.t.cell(r.idx, name)
	switch c.Kind {
	case CellText:
		return c.Text
	case CellNumber:
		return strconv.FormatFloat(c.Number, 'f', -1, 64)
	case CellBool:
		return strconv.FormatBool(c.Bool)
	default:
		return ""
	}
}

// Bool returns the boolean value of the named cell (false when not bool).
func (r Row) Bool(name string) bool {
	c := r.t.cell(r.idx, name)
	return c.Kind == CellBool && c.Bool
}

// IsMissing reports whether the named cell is missing.
func (r Row) IsMissing(name string) bool {
	return r.t.cell(r.idx, name).Kind == CellMissing
}

// Numbers returns the non-missing numeric values of a column.
func (t *Table) Numbers(name string) []float64 {
	col := t.ColumnByName(name)
	if col == nil {
		return nil
	}
	out := make([]float64, 0, len(col.Cells))
	for _, c := range col.Cells {
		if c.Kind == CellNumber {
			out = append(out, c.Number)
		}
	}
	return out
}

// Strings returns the non-missing string values of a column.
func (t *Table) Strings(name string) []string {
	col := t.ColumnByName(name)
	if col == nil {
		return nil
	}
	out := make([]string, 0, len(col.Cells))
	for i, c := range col.Cells {
		if c.Kind != CellMissing {
			out = append(out, Row{t: t, idx: i}.Str(name))
		}
	}
	return out
}

// Sum returns the sum of a numeric column, skipping missing values.
func (t *Table) Sum(name string) float64 {
	total := 0.0
	for _, v := range t.Numbers(name) {
		total += v
	}
	return total
}

// Mean returns the mean of a numeric column, skipping missing values.
func (t *Table) Mean(name string) float64 {
	vals := t.Numbers(name)
	if len(vals) == 0 {
		return 0
	}
	return t.Sum(name) / float64(len(vals))
}

// Min returns the minimum of a numeric column, skipping missing values.
func (t *Table) Min(name string) float64 {
	vals := t.Numbers(name)
	if len(vals) == 0 {
		return 0
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// Max returns the maximum of a numeric column, skipping missing values.
func (t *Table) Max(name string) float64 {
	vals := t.Numbers(name)
	if len(vals) == 0 {
		return 0
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Count returns the number of non-missing values in a column.
func (t *Table) Count(name string) int {
	col := t.ColumnByName(name)
	if col == nil {
		return 0
	}
	return len(col.Cells) - col.MissingCount()
}

// Filter returns a new table with only the rows for which pred is true.
func (t *Table) Filter(pred func(Row) bool) *Table {
	keep := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if pred(Row{t: t, idx: i}) {
			keep = append(keep, i)
		}
	}
	return t.subset(keep)
}

// SortBy returns a new table sorted by the named column. Missing values
// sort last regardless of direction.
func (t *Table) SortBy(name string, descending bool) *Table {
	idx := make([]int, t.rows)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ca, cb := t.cell(idx[a], name), t.cell(idx[b], name)
		if ca.Kind == CellMissing {
			return false
		}
		if cb.Kind == CellMissing {
			return true
		}
		var less bool
		if ca.Kind == CellNumber && cb.Kind == CellNumber {
			less = ca.Number < cb.Number
		} else {
			less = Row{t: t, idx: idx[a]}.Str(name) < Row{t: t, idx: idx[b]}.Str(name)
		}
		if descending {
			return !less
		}
		return less
	})
	return t.subset(idx)
}

// Head returns a new table with at most n leading rows.
func (t *Table) Head(n int) *Table {
	if n > t.rows {
		n = t.rows
	}
	if n < 0 {
		n = 0
	}
	keep := make([]int, n)
	for i := range keep {
		keep[i] = i
	}
	return t.subset(keep)
}

// Select returns a new table with only the named columns, in the given
// order. Unknown names are skipped.
func (t *Table) Select(names ...string) *Table {
	cols := make([]Column, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		if col := t.ColumnByName(name); col != nil {
			cols = append(cols, *col)
			seen[name] = true
		}
	}
	out, _ := NewTable(cols)
	return out
}

// GroupBySum groups by one column and sums a numeric column per group.
// Groups appear in first-seen order.
func (t *Table) GroupBySum(by, value string) *Table {
	return t.groupAggregate(by, value, func(vals []float64) float64 {
		total := 0.0
		for _, v := range vals {
			total += v
		}
		return total
	})
}

// GroupByMean groups by one column and averages a numeric column per group.
func (t *Table) GroupByMean(by, value string) *Table {
	return t.groupAggregate(by, value, func(vals []float64) float64 {
		if len(vals) == 0 {
			return 0
		}
		total := 0.0
		for _, v := range vals {
			total += v
		}
		return total / float64(len(vals))
	})
}

// GroupByCount groups by one column and counts rows per group.
func (t *Table) GroupByCount(by string) *Table {
	order, groups := t.groupRows(by)
	keyCol := Column{Name: by, Kind: KindText}
	countCol := Column{Name: "count", Kind: KindNumeric}
	for _, key := range order {
		keyCol.Cells = append(keyCol.Cells, Cell{Kind: CellText, Text: key})
		countCol.Cells = append(countCol.Cells, Cell{Kind: CellNumber, Number: float64(len(groups[key]))})
	}
	out, _ := NewTable([]Column{keyCol, countCol})
	return out
}

// Rows returns the table as ordered row maps; missing cells become nil.
func (t *Table) Rows() []map[string]any {
	out := make([]map[string]any, t.rows)
	for i := 0; i < t.rows; i++ {
		row := make(map[string]any, len(t.cols))
		for _, col := range t.cols {
			row[col.Name] = col.Cells[i].Value()
		}
		out[i] = row
	}
	return out
}

// String renders a compact preview, useful in logs and tests.
func (t *Table) String() string {
	return fmt.Sprintf("Table(%d rows × %d cols: %s)", t.rows, len(t.cols), strings.Join(t.Columns(), ", "))
}

func (t *Table) subset(rowIdx []int) *Table {
	cols := make([]Column, len(t.cols))
	for i, col := range t.cols {
		cells := make([]Cell, len(rowIdx))
		for j, r := range rowIdx {
			cells[j] = col.Cells[r]
		}
		cols[i] = Column{Name: col.Name, Kind: col.Kind, Cells: cells}
	}
	out, _ := NewTable(cols)
	return out
}

func (t *Table) groupRows(by string) ([]string, map[string][]int) {
	order := make([]string, 0)
	groups := make(map[string][]int)
	for i := 0; i < t.rows; i++ {
		row := Row{t: t, idx: i}
		if row.IsMissing(by) {
			continue
		}
		key := row.Str(by)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}
	return order, groups
}

func (t *Table) groupAggregate(by, value string, agg func([]float64) float64) *Table {
	order, groups := t.groupRows(by)
	keyCol := Column{Name: by, Kind: KindText}
	valCol := Column{Name: value, Kind: KindNumeric}
	for _, key := range order {
		vals := make([]float64, 0, len(groups[key]))
		for _, r := range groups[key] {
			c := t.cell(r, value)
			if c.Kind == CellNumber {
				vals = append(vals, c.Number)
			}
		}
		keyCol.Cells = append(keyCol.Cells, Cell{Kind: CellText, Text: key})
		valCol.Cells = append(valCol.Cells, Cell{Kind: CellNumber, Number: agg(vals)})
	}
	out, _ := NewTable([]Column{keyCol, valCol})
	return out
}
