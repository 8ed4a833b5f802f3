package generator

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/vdfclass/vdf"
	"github.com/inference-sim/vdfclass/vdf/internal/testutil"
)

func seeded(cfg Config, seed int64) Config {
	cfg.Seed = vdf.Seed(seed)
	return cfg
}

func TestMakeClusters_Defaults_Shape(t *testing.T) {
	table, err := MakeClusters(DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, 10, table.Len())
	assert.Len(t, table.Columns(), 4)
}

func TestMakeClusters_RowCountMatchesSamples_1D(t *testing.T) {
	for k := 1; k <= 3; k++ {
		for n := 1; n <= 17; n++ {
			cfg := Config{NSamples: n, NClusters: k, NPoints: 20, NDims: 1, Seed: vdf.Seed(int64(n))}
			table, err := MakeClusters(cfg)
			require.NoError(t, err, "k=%d n=%d", k, n)
			assert.Equal(t, n, table.Len(), "k=%d n=%d", k, n)
			assert.Equal(t, 3, table.Features().Width())
		}
	}
}

func TestMakeClusters_DensityIsExactCount(t *testing.T) {
	table, err := MakeClusters(seeded(Config{NSamples: 30, NClusters: 3, NPoints: 50, NDims: 1}, 5))
	require.NoError(t, err)
	for i, s := range table.Samples {
		assert.Equal(t, float64(len(s.Velocities)), s.Density, "row %d", i)
	}
}

func TestMakeClusters_DerivedColumns_1D(t *testing.T) {
	table, err := MakeClusters(seeded(Config{NSamples: 6, NClusters: 2, NPoints: 40, NDims: 1}, 11))
	require.NoError(t, err)
	for i, s := range table.Samples {
		sum := 0.0
		for _, p := range s.Velocities {
			require.Len(t, p, 1)
			sum += p[0]
		}
		mean := sum / s.Density
		ss := 0.0
		for _, p := range s.Velocities {
			ss += (p[0] - mean) * (p[0] - mean)
		}
		assert.InDelta(t, mean, s.BulkVelocity, 1e-12, "row %d bulk velocity", i)
		testutil.AssertFloat64Equal(t, fmt.Sprintf("row %d temperature", i), math.Sqrt(ss/s.Density), s.Temperature, 1e-9)
	}
}

func TestMakeClusters_SameSeed_Identical(t *testing.T) {
	cfg := seeded(Config{NSamples: 12, NClusters: 3, NPoints: 64, NDims: 1}, 42)
	a, err := MakeClusters(cfg)
	require.NoError(t, err)
	b, err := MakeClusters(cfg)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMakeClusters_DifferentSeeds_Differ(t *testing.T) {
	a, err := MakeClusters(seeded(DefaultConfig(), 1))
	require.NoError(t, err)
	b, err := MakeClusters(seeded(DefaultConfig(), 2))
	require.NoError(t, err)
	assert.NotEqual(t, a.Features().Rows, b.Features().Rows)
}

func TestMakeClusters_RegressionFixture_FirstDensityIsOne(t *testing.T) {
	// n_points=2 forces every primary draw to one particle; row 0 has no bump.
	table, err := MakeClusters(Config{NSamples: 3, NClusters: 3, NPoints: 2, NDims: 1, Seed: vdf.Seed(1)})
	require.NoError(t, err)
	assert.Equal(t, 1.0, table.Samples[0].Density)
}

func TestMakeClusters_BumpGroupsPulledTowardBump(t *testing.T) {
	// GIVEN the 1-D two-cluster preset with fixed-size draws of 400 particles
	m, err := PresetMixture(1, 2)
	require.NoError(t, err)
	m.VariableSize = false

	// WHEN 5 samples are generated
	table, err := MakeClusters(Config{NSamples: 5, NPoints: 400, Mixture: m, Seed: vdf.Seed(3)})
	require.NoError(t, err)

	// THEN the first n - ⌊n/2⌋ = 3 rows are centred near 0
	for i := 0; i < 3; i++ {
		assert.Equal(t, 400.0, table.Samples[i].Density)
		assert.Less(t, math.Abs(table.Samples[i].BulkVelocity), 0.5, "plain row %d", i)
	}
	// AND the last 2 carry a 200-particle bump at +4, pulling the mean to ≈ 4/3
	for i := 3; i < 5; i++ {
		assert.Equal(t, 600.0, table.Samples[i].Density)
		assert.InDelta(t, 4.0/3.0, table.Samples[i].BulkVelocity, 0.5, "bump row %d", i)
	}
}

func TestMakeClusters_2D_TwoClusters_Shape(t *testing.T) {
	table, err := MakeClusters(Config{NSamples: 3, NClusters: 2, NPoints: 10, NDims: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Len(t, table.Columns(), 4)
	for i, s := range table.Samples {
		want := 10
		if i >= 2 { // bump group: n_points/10 extra points around (3,3)
			want = 11
		}
		assert.Len(t, s.Velocities, want, "row %d", i)
		for _, p := range s.Velocities {
			assert.Len(t, p, 2)
		}
		assert.Equal(t, float64(want), s.Density)
		assert.GreaterOrEqual(t, s.BulkVelocity, 0.0)
	}
}

func TestMakeClusters_2D_OneCluster(t *testing.T) {
	table, err := MakeClusters(Config{NSamples: 2, NClusters: 1, NPoints: 10, NDims: 2, Seed: vdf.Seed(9)})
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestMakeClusters_UnsupportedCombination_Rejected(t *testing.T) {
	for _, c := range []struct{ dims, k int }{{1, 4}, {2, 3}, {3, 1}, {1, 0}} {
		_, err := MakeClusters(Config{NSamples: 5, NClusters: c.k, NPoints: 10, NDims: c.dims})
		assert.True(t, errors.Is(err, vdf.ErrUnsupportedConfig), "dims=%d k=%d: %v", c.dims, c.k, err)
	}
}

func TestMakeClusters_InvalidSizes_Rejected(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero samples", Config{NSamples: 0, NClusters: 1, NPoints: 10, NDims: 1}},
		{"1-D one point", Config{NSamples: 3, NClusters: 1, NPoints: 1, NDims: 1}},
		{"2-D zero points", Config{NSamples: 3, NClusters: 2, NPoints: 0, NDims: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MakeClusters(tt.cfg)
			assert.True(t, errors.Is(err, vdf.ErrInvalidConfig), "got %v", err)
		})
	}
}

func TestMakeClusters_CustomMixture_FourPopulations(t *testing.T) {
	// GIVEN a four-population mixture, something the presets do not cover
	m := &Mixture{Dims: 1, Components: []Component{
		{Weight: 1, Mean: []float64{0}},
		{Weight: 1, Mean: []float64{0}, Bump: &Bump{Offset: []float64{4}, Divisor: 2}},
		{Weight: 1, Mean: []float64{0}, Bump: &Bump{Offset: []float64{-4}, Divisor: 2}},
		{Weight: 1, Mean: []float64{10}},
	}}

	// WHEN 8 samples are generated
	table, err := MakeClusters(Config{NSamples: 8, NPoints: 100, Mixture: m, Seed: vdf.Seed(4)})
	require.NoError(t, err)

	// THEN every row exists and the last group is centred near 10
	require.Equal(t, 8, table.Len())
	for i := 6; i < 8; i++ {
		assert.InDelta(t, 10, table.Samples[i].BulkVelocity, 2.0)
	}
}
