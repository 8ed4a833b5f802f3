// Package moments reduces per-cell simulation fields to the moment feature table
// (density, bulk-velocity magnitude, pressure proxy) consumed by vdf/cluster.
package moments

import "github.com/inference-sim/vdfclass/vdf"

// DefaultSpecies is the particle population analysed when none is given.
const DefaultSpecies = "proton"

// Variable names, relative to a species ("proton/vg_rho").
const (
	VarDensity          = "vg_rho"
	VarVelocity         = "vg_v"
	VarPressureDiagonal = "vg_ptensor_diagonal"
)

// VariableName qualifies a variable with its species.
func VariableName(species, variable string) string {
	return species + "/" + variable
}

// Dataset is the accessor a simulation reader exposes.
//
// Field values are returned flattened: a scalar is a one-element slice, a vector its
// components, and a tensor block its entries in row-major order.
type Dataset interface {
	// CellsWithVDF returns the ids of cells that carry a VDF for species, ascending.
	CellsWithVDF(species string) ([]vdf.CellID, error)
	// ReadVariable returns name for every cell with a VDF for the variable's species,
	// one slice per cell, in CellsWithVDF order.
	ReadVariable(name string) ([][]float64, error)
	// ReadCellVariable returns name for a single cell.
	ReadCellVariable(name string, cid vdf.CellID) ([]float64, error)
}
