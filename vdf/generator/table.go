package generator

import "github.com/inference-sim/vdfclass/vdf"

// Generated column names.
const (
	ColumnParticleVelocities = "particle_velocities"
	ColumnDensity            = "density"
	ColumnBulkVelocity       = "bulk_velocity"
	ColumnTemperature        = "temperature"
)

// Columns is the fixed column schema of a SampleTable.
var Columns = []string{ColumnParticleVelocities, ColumnDensity, ColumnBulkVelocity, ColumnTemperature}

// Sample is one synthetic VDF draw with its derived moments.
type Sample struct {
	// Velocities holds one particle velocity per entry, each with Dims components.
	Velocities   [][]float64
	Density      float64 // exact particle count
	BulkVelocity float64
	Temperature  float64
}

// SampleTable is the generator output: one Sample per row. It deliberately carries
// no ground-truth component labels.
type SampleTable struct {
	Dims    int
	Samples []Sample
}

// Len returns the number of rows.
func (t *SampleTable) Len() int { return len(t.Samples) }

// Columns returns the column schema.
func (t *SampleTable) Columns() []string { return append([]string(nil), Columns...) }

// Features projects the numeric columns (density, bulk_velocity, temperature)
// into a FeatureTable for the cluster stage.
func (t *SampleTable) Features() *vdf.FeatureTable {
	ft := vdf.NewFeatureTable(ColumnDensity, ColumnBulkVelocity, ColumnTemperature)
	ft.Rows = make([][]float64, len(t.Samples))
	for i, s := range t.Samples {
		ft.Rows[i] = []float64{s.Density, s.BulkVelocity, s.Temperature}
	}
	return ft
}
