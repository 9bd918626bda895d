package dataset

import (
	"fmt"
	"sort"
)

// ColumnInfo describes one column in a summary.
type ColumnInfo struct {
	Name         string     `json:"name"`
	Type         ColumnKind `json:"type"`
	MissingCount int        `json:"missing"`
}

// NumericStats holds descriptive statistics for one numeric column.
type NumericStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"25%"`
	Median float64 `json:"50%"`
	Q75    float64 `json:"75%"`
	Max    float64 `json:"max"`
}

// Summary is the derived, read-only snapshot of a table computed at load
// time. Construction is deterministic for a given table: column order is
// preserved from source and classification uses the declared column kind.
type Summary struct {
	Shape              [2]int                  `json:"shape"` // rows, columns
	Columns            []string                `json:"columns"`
	DataTypes          map[string]string       `json:"data_types"`
	MissingValues      map[string]int          `json:"missing_values"`
	NumericColumns     []string                `json:"numeric_columns"`
	CategoricalColumns []string                `json:"categorical_columns"`
	BasicStats         map[string]NumericStats `json:"basic_stats"`
	SampleData         []map[string]any        `json:"sample_data"`
	MemoryUsage        string                  `json:"memory_usage"`
}

const sampleRows = 5

// Summarize computes the structural/statistical summary of a table.
func Summarize(t *Table) *Summary {
	s := &Summary{
		Shape:         [2]int{t.NumRows(), t.NumCols()},
		Columns:       t.Columns(),
		DataTypes:     make(map[string]string, t.NumCols()),
		MissingValues: make(map[string]int, t.NumCols()),
		BasicStats:    make(map[string]NumericStats),
		SampleData:    t.Head(sampleRows).Rows(),
	}

	for _, name := range s.Columns {
		col := t.ColumnByName(name)
		s.DataTypes[name] = string(col.Kind)
		s.MissingValues[name] = col.MissingCount()

		switch col.Kind {
		case KindNumeric:
			s.NumericColumns = append(s.NumericColumns, name)
			s.BasicStats[name] = describeColumn(t, name)
		case KindText:
			s.CategoricalColumns = append(s.CategoricalColumns, name)
		}
	}

	s.MemoryUsage = fmt.Sprintf("%.2f MB", float64(approxBytes(t))/(1024*1024))
	return s
}

func describeColumn(t *Table, name string) NumericStats {
	vals := t.Numbers(name)
	stats := NumericStats{Count: len(vals)}
	if len(vals) == 0 {
		return stats
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	total := 0.0
	for _, v := range sorted {
		total += v
	}
	stats.Mean = total / float64(len(sorted))
	stats.Min = sorted[0]
	stats.Max = sorted[len(sorted)-1]
	stats.Q25 = quantile(sorted, 0.25)
	stats.Median = quantile(sorted, 0.5)
	stats.Q75 = quantile(sorted, 0.75)
	return stats
}

// quantile computes the q-th quantile of sorted values using linear
// interpolation between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	hi := lo + 1
	if hi >= len(sorted) {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func approxBytes(t *Table) int {
	total := 0
	for _, name := range t.Columns() {
		col := t.ColumnByName(name)
		total += len(col.Name)
		for _, cell := range col.Cells {
			switch cell.Kind {
			case CellNumber:
				total += 8
			case CellText:
				total += len(cell.Text) + 16
			case CellBool:
				total += 1
			default:
				total += 8
			}
		}
	}
	return total
}
