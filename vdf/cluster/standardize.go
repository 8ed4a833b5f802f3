package cluster

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/vdfclass/vdf"
)

// Scaler holds per-column standardization parameters (population mean and std).
type Scaler struct {
	Columns []string
	Mean    []float64
	Std     []float64 // 0 marks a constant column
}

// FitScaler computes per-column mean and population standard deviation.
func FitScaler(t *vdf.FeatureTable) (*Scaler, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	s := &Scaler{
		Columns: append([]string(nil), t.Columns...),
		Mean:    make([]float64, t.Width()),
		Std:     make([]float64, t.Width()),
	}
	for j := range t.Columns {
		s.Mean[j], s.Std[j] = stat.PopMeanStdDev(t.Column(j), nil)
		if s.Std[j] == 0 {
			logrus.Warnf("column %q has zero variance; standardized values set to 0", t.Columns[j])
		}
	}
	return s, nil
}

// Transform returns a new table with every value replaced by (x - mean) / std.
// Constant columns map to 0.
func (s *Scaler) Transform(t *vdf.FeatureTable) (*vdf.FeatureTable, error) {
	if t.Width() != len(s.Mean) {
		return nil, fmt.Errorf("table has %d columns, scaler was fitted on %d: %w", t.Width(), len(s.Mean), vdf.ErrInvalidConfig)
	}
	out := &vdf.FeatureTable{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([][]float64, t.Len()),
	}
	if t.CellIDs != nil {
		out.CellIDs = append([]vdf.CellID(nil), t.CellIDs...)
	}
	for i, row := range t.Rows {
		scaled := make([]float64, len(row))
		for j, x := range row {
			if s.Std[j] != 0 {
				scaled[j] = (x - s.Mean[j]) / s.Std[j]
			}
		}
		out.Rows[i] = scaled
	}
	return out, nil
}

// Standardize fits a Scaler on t and applies it in one step.
func Standardize(t *vdf.FeatureTable) (*vdf.FeatureTable, *Scaler, error) {
	s, err := FitScaler(t)
	if err != nil {
		return nil, nil, err
	}
	out, err := s.Transform(t)
	if err != nil {
		return nil, nil, err
	}
	return out, s, nil
}
