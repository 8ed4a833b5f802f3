package moments

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/vdfclass/vdf"
)

// Option configures Extract and CollectMoments.
type Option func(*options)

type options struct {
	species string
	cells   []vdf.CellID
	perCell bool
}

// WithSpecies selects the particle population (default "proton"). An empty name keeps the default.
func WithSpecies(species string) Option {
	return func(o *options) {
		if species != "" {
			o.species = species
		}
	}
}

// WithCells restricts extraction to the given cells, read one at a time.
// Every id must carry a VDF for the selected species.
func WithCells(ids ...vdf.CellID) Option {
	return func(o *options) {
		o.cells = make([]vdf.CellID, len(ids))
		copy(o.cells, ids)
		o.perCell = true
	}
}

// PerCell reads every cell with a VDF one at a time instead of in one bulk call.
func PerCell() Option {
	return func(o *options) { o.perCell = true }
}

// CollectMoments opens filename and extracts its moment table.
// Format errors are returned before the file is opened.
func CollectMoments(filename string, opts ...Option) (*vdf.FeatureTable, error) {
	ds, err := Open(filename)
	if err != nil {
		return nil, err
	}
	if c, ok := ds.(io.Closer); ok {
		defer c.Close()
	}
	table, err := Extract(ds, opts...)
	if err != nil {
		return nil, fmt.Errorf("collecting moments from %q: %w", filename, err)
	}
	return table, nil
}

// Extract reduces each selected cell of ds to a row (n, v, p):
//   - n is the density value as stored
//   - v is the Euclidean norm of the velocity vector
//   - p is the mean of every entry of the pressure-tensor diagonal block, flattened
//
// By default all cells with a VDF are read through one bulk call per variable.
// WithCells and PerCell switch to per-cell reads; both paths produce the same table.
func Extract(ds Dataset, opts ...Option) (*vdf.FeatureTable, error) {
	o := options{species: DefaultSpecies}
	for _, opt := range opts {
		opt(&o)
	}

	eligible, err := ds.CellsWithVDF(o.species)
	if err != nil {
		return nil, fmt.Errorf("listing cells with VDF: %w", err)
	}

	var table *vdf.FeatureTable
	if o.perCell {
		cells := eligible
		if o.cells != nil {
			if err := checkEligible(o.cells, eligible, o.species); err != nil {
				return nil, err
			}
			cells = o.cells
		}
		table, err = extractPerCell(ds, o.species, cells)
	} else {
		table, err = extractBulk(ds, o.species, eligible)
	}
	if err != nil {
		return nil, err
	}
	if table.Len() == 0 {
		return nil, fmt.Errorf("no %s cells with VDF: %w", o.species, vdf.ErrNumerical)
	}

	logrus.Infof("extracted moments for %d %s cells (per-cell=%t)", table.Len(), o.species, o.perCell)
	return table, nil
}

func extractBulk(ds Dataset, species string, cells []vdf.CellID) (*vdf.FeatureTable, error) {
	fields := make([][][]float64, 3)
	for i, v := range []string{VarDensity, VarVelocity, VarPressureDiagonal} {
		name := VariableName(species, v)
		values, err := ds.ReadVariable(name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if len(values) != len(cells) {
			return nil, fmt.Errorf("%s has %d cells, want %d: %w", name, len(values), len(cells), vdf.ErrNumerical)
		}
		fields[i] = values
	}

	table := vdf.NewFeatureTable(vdf.MomentColumns...)
	for i, cid := range cells {
		row, err := cellMoments(fields[0][i], fields[1][i], fields[2][i])
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", cid, err)
		}
		table.Rows = append(table.Rows, row)
		table.CellIDs = append(table.CellIDs, cid)
	}
	return table, nil
}

func extractPerCell(ds Dataset, species string, cells []vdf.CellID) (*vdf.FeatureTable, error) {
	table := vdf.NewFeatureTable(vdf.MomentColumns...)
	for _, cid := range cells {
		var fields [3][]float64
		for i, v := range []string{VarDensity, VarVelocity, VarPressureDiagonal} {
			name := VariableName(species, v)
			values, err := ds.ReadCellVariable(name, cid)
			if err != nil {
				return nil, fmt.Errorf("reading %s for cell %d: %w", name, cid, err)
			}
			fields[i] = values
		}
		row, err := cellMoments(fields[0], fields[1], fields[2])
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", cid, err)
		}
		table.Rows = append(table.Rows, row)
		table.CellIDs = append(table.CellIDs, cid)
	}
	return table, nil
}

// cellMoments computes (n, v, p) for one cell.
func cellMoments(rho, v, pdiag []float64) ([]float64, error) {
	if len(rho) != 1 {
		return nil, fmt.Errorf("density has %d values, want 1: %w", len(rho), vdf.ErrNumerical)
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("velocity is empty: %w", vdf.ErrNumerical)
	}
	if len(pdiag) == 0 {
		return nil, fmt.Errorf("pressure diagonal is empty: %w", vdf.ErrNumerical)
	}
	return []float64{rho[0], floats.Norm(v, 2), stat.Mean(pdiag, nil)}, nil
}

func checkEligible(ids, eligible []vdf.CellID, species string) error {
	ok := make(map[vdf.CellID]bool, len(eligible))
	for _, id := range eligible {
		ok[id] = true
	}
	for _, id := range ids {
		if !ok[id] {
			return fmt.Errorf("cell %d has no %s VDF: %w", id, species, vdf.ErrInvalidConfig)
		}
	}
	return nil
}
