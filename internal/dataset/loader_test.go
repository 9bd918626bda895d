package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp csv: %v", err)
	}
	return path
}

func TestLoadCSVInference(t *testing.T) {
	path := writeTempCSV(t, "Brand,Revenue,Active\nAcme,100.5,true\nGlobex,200,false\nInitech,,true\n")

	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if tbl.NumRows() != 3 || tbl.NumCols() != 3 {
		t.Fatalf("shape = %dx%d, want 3x3", tbl.NumRows(), tbl.NumCols())
	}

	tests := []struct {
		col  string
		kind ColumnKind
	}{
		{"Brand", KindText},
		{"Revenue", KindNumeric},
		{"Active", KindBool},
	}
	for _, tt := range tests {
		col := tbl.ColumnByName(tt.col)
		if col == nil {
			t.Fatalf("missing column %q", tt.col)
		}
		if col.Kind != tt.kind {
			t.Errorf("column %q kind = %v, want %v", tt.col, col.Kind, tt.kind)
		}
	}

	// Empty numeric cell becomes a missing value, not zero.
	rev := tbl.ColumnByName("Revenue")
	if rev.Cells[2].Kind != CellMissing {
		t.Errorf("empty cell kind = %v, want CellMissing", rev.Cells[2].Kind)
	}
	if rev.MissingCount() != 1 {
		t.Errorf("MissingCount() = %d, want 1", rev.MissingCount())
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(`{"not": "tabular"}`), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for unsupported extension")
	}
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Errorf("error = %T, want *LoadError", err)
	}
}

func TestSummarize(t *testing.T) {
	path := writeTempCSV(t, "Brand,Revenue\nAcme,100\nGlobex,200\nInitech,300\n")

	tbl, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	s := Summarize(tbl)

	if s.Shape != [2]int{3, 2} {
		t.Errorf("Shape = %v, want [3 2]", s.Shape)
	}
	if len(s.Columns) != tbl.NumCols() {
		t.Errorf("Columns length = %d, want %d", len(s.Columns), tbl.NumCols())
	}
	seen := make(map[string]int)
	for _, c := range s.Columns {
		seen[c]++
	}
	for name, n := range seen {
		if n != 1 {
			t.Errorf("column %q appears %d times in summary", name, n)
		}
	}

	if len(s.NumericColumns) != 1 || s.NumericColumns[0] != "Revenue" {
		t.Errorf("NumericColumns = %v, want [Revenue]", s.NumericColumns)
	}
	if len(s.CategoricalColumns) != 1 || s.CategoricalColumns[0] != "Brand" {
		t.Errorf("CategoricalColumns = %v, want [Brand]", s.CategoricalColumns)
	}

	stats, ok := s.BasicStats["Revenue"]
	if !ok {
		t.Fatal("no basic stats for Revenue")
	}
	if stats.Count != 3 || stats.Mean != 200 || stats.Min != 100 || stats.Max != 300 {
		t.Errorf("stats = %+v, want count=3 mean=200 min=100 max=300", stats)
	}
	if stats.Median != 200 {
		t.Errorf("median = %v, want 200", stats.Median)
	}

	if len(s.SampleData) != 3 {
		t.Errorf("SampleData length = %d, want 3 (fewer rows than sample cap)", len(s.SampleData))
	}
}

func TestSessionLoadAndClear(t *testing.T) {
	path := writeTempCSV(t, "A\n1\n2\n")

	sess := NewSession()
	if sess.Table() != nil {
		t.Fatal("fresh session should have no table")
	}

	summary, err := sess.Load(path)
	if err != nil {
		t.Fatalf("session Load() error: %v", err)
	}
	if summary.Shape != [2]int{2, 1} {
		t.Errorf("summary shape = %v, want [2 1]", summary.Shape)
	}
	if sess.Table() == nil || sess.Summary() == nil {
		t.Error("session should expose table and summary after load")
	}
	if sess.Path() != path {
		t.Errorf("Path() = %q, want %q", sess.Path(), path)
	}

	sess.clear()
	if sess.Table() != nil || sess.Summary() != nil {
		t.Error("clear() should drop table and summary")
	}
}
