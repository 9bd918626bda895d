package dataset

import (
	"math"
	"testing"
)

func numCell(v float64) Cell { return Cell{Kind: CellNumber, Number: v} }
func strCell(s string) Cell  { return Cell{Kind: CellText, Text: s} }
func missingCell() Cell      { return Cell{Kind: CellMissing} }

func salesTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable([]Column{
		{Name: "Brand", Kind: KindText, Cells: []Cell{
			strCell("Acme"), strCell("Globex"), strCell("Acme"), strCell("Initech"),
		}},
		{Name: "Revenue", Kind: KindNumeric, Cells: []Cell{
			numCell(100), numCell(250), numCell(50), missingCell(),
		}},
	})
	if err != nil {
		t.Fatalf("NewTable() error: %v", err)
	}
	return tbl
}

func TestNewTableRejectsBadShapes(t *testing.T) {
	tests := []struct {
		name string
		cols []Column
	}{
		{
			name: "duplicate column names",
			cols: []Column{
				{Name: "A", Kind: KindNumeric, Cells: []Cell{numCell(1)}},
				{Name: "A", Kind: KindNumeric, Cells: []Cell{numCell(2)}},
			},
		},
		{
			name: "ragged columns",
			cols: []Column{
				{Name: "A", Kind: KindNumeric, Cells: []Cell{numCell(1), numCell(2)}},
				{Name: "B", Kind: KindNumeric, Cells: []Cell{numCell(3)}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTable(tt.cols); err == nil {
				t.Error("NewTable() expected error, got nil")
			}
		})
	}
}

func TestTableAggregates(t *testing.T) {
	tbl := salesTable(t)

	if got := tbl.Sum("Revenue"); got != 400 {
		t.Errorf("Sum() = %v, want 400", got)
	}
	if got := tbl.Count("Revenue"); got != 3 {
		t.Errorf("Count() = %v, want 3 (missing excluded)", got)
	}
	if got := tbl.Mean("Revenue"); math.Abs(got-400.0/3) > 1e-9 {
		t.Errorf("Mean() = %v, want %v", got, 400.0/3)
	}
	if got := tbl.Min("Revenue"); got != 50 {
		t.Errorf("Min() = %v, want 50", got)
	}
	if got := tbl.Max("Revenue"); got != 250 {
		t.Errorf("Max() = %v, want 250", got)
	}
}

func TestGroupBySum(t *testing.T) {
	tbl := salesTable(t)

	grouped := tbl.GroupBySum("Brand", "Revenue")
	if grouped.NumRows() != 3 {
		t.Fatalf("GroupBySum() rows = %d, want 3", grouped.NumRows())
	}

	// First-seen group order is preserved.
	brands := grouped.Strings("Brand")
	want := []string{"Acme", "Globex", "Initech"}
	for i, b := range want {
		if brands[i] != b {
			t.Errorf("group %d = %q, want %q", i, brands[i], b)
		}
	}

	sums := grouped.Numbers("Revenue")
	if sums[0] != 150 {
		t.Errorf("Acme sum = %v, want 150", sums[0])
	}
	if sums[1] != 250 {
		t.Errorf("Globex sum = %v, want 250", sums[1])
	}
}

func TestSortByDescendingPutsMissingLast(t *testing.T) {
	tbl := salesTable(t)

	sorted := tbl.SortBy("Revenue", true)
	revs := sorted.Columns()
	if len(revs) != 2 {
		t.Fatalf("SortBy() changed column count: %v", revs)
	}

	col := sorted.ColumnByName("Revenue")
	if col.Cells[0].Number != 250 || col.Cells[1].Number != 100 || col.Cells[2].Number != 50 {
		t.Errorf("SortBy(desc) order = %v %v %v, want 250 100 50",
			col.Cells[0].Number, col.Cells[1].Number, col.Cells[2].Number)
	}
	if col.Cells[3].Kind != CellMissing {
		t.Error("missing value should sort last")
	}
}

func TestFilterAndHead(t *testing.T) {
	tbl := salesTable(t)

	filtered := tbl.Filter(func(r Row) bool {
		return !r.IsMissing("Revenue") && r.Num("Revenue") >= 100
	})
	if filtered.NumRows() != 2 {
		t.Errorf("Filter() rows = %d, want 2", filtered.NumRows())
	}

	head := tbl.Head(2)
	if head.NumRows() != 2 {
		t.Errorf("Head(2) rows = %d, want 2", head.NumRows())
	}

	// Head larger than the table is the whole table.
	if tbl.Head(100).NumRows() != 4 {
		t.Errorf("Head(100) rows = %d, want 4", tbl.Head(100).NumRows())
	}
}

func TestSelect(t *testing.T) {
	tbl := salesTable(t)

	sel := tbl.Select("Revenue")
	if sel.NumCols() != 1 {
		t.Fatalf("Select() cols = %d, want 1", sel.NumCols())
	}
	if !sel.HasColumn("Revenue") || sel.HasColumn("Brand") {
		t.Error("Select() kept wrong columns")
	}
}

func TestRowsRoundTrip(t *testing.T) {
	tbl := salesTable(t)

	rows := tbl.Rows()
	if len(rows) != tbl.NumRows() {
		t.Fatalf("Rows() length = %d, want %d", len(rows), tbl.NumRows())
	}
	for _, row := range rows {
		for _, name := range tbl.Columns() {
			if _, ok := row[name]; !ok {
				t.Errorf("row missing column %q", name)
			}
		}
	}
	if rows[3]["Revenue"] != nil {
		t.Errorf("missing cell should map to nil, got %v", rows[3]["Revenue"])
	}
}
