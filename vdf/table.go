package vdf

import (
	"fmt"
	"math"
)

// Moment column names produced by vdf/moments.
const (
	ColumnDensity  = "n"
	ColumnVelocity = "v"
	ColumnPressure = "p"
)

// MomentColumns is the fixed column schema of a moment table.
var MomentColumns = []string{ColumnDensity, ColumnVelocity, ColumnPressure}

// CellID identifies a simulation cell.
type CellID uint64

// FeatureTable is an ordered row-per-sample matrix with a fixed, named column schema.
// Row i describes sample i; every row has exactly len(Columns) values.
type FeatureTable struct {
	Columns []string
	Rows    [][]float64
	// CellIDs holds the source cell of each row when the table was built from
	// simulation data. Nil for synthetic tables.
	CellIDs []CellID
}

// NewFeatureTable creates an empty table with the given column schema.
func NewFeatureTable(columns ...string) *FeatureTable {
	return &FeatureTable{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *FeatureTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Width returns the number of columns.
func (t *FeatureTable) Width() int {
	if t == nil {
		return 0
	}
	return len(t.Columns)
}

// Append adds a row. The row must match the column schema.
func (t *FeatureTable) Append(row ...float64) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row has %d values, table has %d columns: %w", len(row), len(t.Columns), ErrInvalidConfig)
	}
	t.Rows = append(t.Rows, append([]float64(nil), row...))
	return nil
}

// ColumnIndex returns the index of the named column, or -1.
func (t *FeatureTable) ColumnIndex(name string) int {
	for j, c := range t.Columns {
		if c == name {
			return j
		}
	}
	return -1
}

// Column returns a copy of column j.
func (t *FeatureTable) Column(j int) []float64 {
	col := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[j]
	}
	return col
}

// Validate checks the table is non-empty, rectangular and finite.
func (t *FeatureTable) Validate() error {
	if t.Len() == 0 {
		return fmt.Errorf("feature table is empty: %w", ErrNumerical)
	}
	if t.Width() == 0 {
		return fmt.Errorf("feature table has no columns: %w", ErrNumerical)
	}
	if t.CellIDs != nil && len(t.CellIDs) != len(t.Rows) {
		return fmt.Errorf("feature table has %d rows but %d cell ids: %w", len(t.Rows), len(t.CellIDs), ErrNumerical)
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d values, want %d: %w", i, len(row), len(t.Columns), ErrNumerical)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("row %d column %q is not finite (%v): %w", i, t.Columns[j], v, ErrNumerical)
			}
		}
	}
	return nil
}

// Clone returns a deep copy of the table.
func (t *FeatureTable) Clone() *FeatureTable {
	out := &FeatureTable{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]float64, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]float64(nil), row...)
	}
	if t.CellIDs != nil {
		out.CellIDs = append([]CellID(nil), t.CellIDs...)
	}
	return out
}
