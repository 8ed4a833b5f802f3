// Package generator synthesizes pseudo velocity-distribution samples with a
// controllable number of sub-populations, for validating the clustering stage
// without simulation data.
package generator

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/vdfclass/vdf"
)

// Config parameterizes MakeClusters.
type Config struct {
	NSamples  int // rows to generate
	NClusters int // preset sub-population count
	NPoints   int // maximum (1-D) or exact (2-D) particles per primary draw
	NDims     int // velocity dimensionality
	Seed      *int64
	// Mixture replaces the (NDims, NClusters) preset when set;
	// its Dims and Components are then authoritative.
	Mixture *Mixture
}

// DefaultConfig returns the defaults: 10 samples, 2 clusters, 100 points, 1-D, unseeded.
func DefaultConfig() Config {
	return Config{NSamples: 10, NClusters: 2, NPoints: 100, NDims: 1}
}

// MakeClusters generates cfg.NSamples synthetic samples.
// Deterministic given the same config and seed; a nil seed gives a fresh draw every call.
func MakeClusters(cfg Config) (*SampleTable, error) {
	m := cfg.Mixture
	if m == nil {
		var err error
		if m, err = PresetMixture(cfg.NDims, cfg.NClusters); err != nil {
			return nil, err
		}
	}
	if err := validate(cfg, m); err != nil {
		return nil, err
	}

	rng := vdf.NewPartitionedRNG(vdf.NewRunKey(cfg.Seed)).ForSubsystem(vdf.SubsystemGenerator)

	// Sizes are drawn for every row before any velocities.
	sizes := make([]int, cfg.NSamples)
	for i := range sizes {
		if m.VariableSize {
			sizes[i] = 1 + rng.Intn(cfg.NPoints-1)
		} else {
			sizes[i] = cfg.NPoints
		}
	}

	table := &SampleTable{Dims: m.Dims, Samples: make([]Sample, cfg.NSamples)}
	start := 0
	for ci, end := range m.allocate(cfg.NSamples) {
		c := m.Components[ci]
		logrus.Debugf("generator: component %d covers rows [%d, %d)", ci, start, end)

		velocities := make([][][]float64, end-start)
		for i := start; i < end; i++ {
			velocities[i-start] = drawNormal(rng, c.Mean, sizes[i])
		}
		if c.Bump != nil {
			mean := make([]float64, m.Dims)
			floats.AddTo(mean, c.Mean, c.Bump.Offset)
			for i := start; i < end; i++ {
				bump := drawNormal(rng, mean, sizes[i]/c.Bump.Divisor)
				velocities[i-start] = append(velocities[i-start], bump...)
			}
		}
		for i := start; i < end; i++ {
			table.Samples[i] = newSample(velocities[i-start], m.Dims)
		}
		start = end
	}

	logrus.Debugf("generator: %d samples, %d components, %d-D", cfg.NSamples, len(m.Components), m.Dims)
	return table, nil
}

func validate(cfg Config, m *Mixture) error {
	if cfg.NSamples < 1 {
		return fmt.Errorf("n_samples must be positive, got %d: %w", cfg.NSamples, vdf.ErrInvalidConfig)
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if m.VariableSize && cfg.NPoints < 2 {
		return fmt.Errorf("n_points must be at least 2 for variable-size draws, got %d: %w", cfg.NPoints, vdf.ErrInvalidConfig)
	}
	if cfg.NPoints < 1 {
		return fmt.Errorf("n_points must be positive, got %d: %w", cfg.NPoints, vdf.ErrInvalidConfig)
	}
	return nil
}

// drawNormal draws n points from a unit-variance normal centred at mean.
func drawNormal(rng *rand.Rand, mean []float64, n int) [][]float64 {
	pts := make([][]float64, n)
	for i := range pts {
		p := make([]float64, len(mean))
		for d, mu := range mean {
			p[d] = mu + rng.NormFloat64()
		}
		pts[i] = p
	}
	return pts
}

// newSample derives the moment columns of a draw.
// 1-D: bulk velocity is the signed mean and temperature the population std.
// N-D: bulk velocity is the norm of the mean vector and temperature
// sqrt of the per-axis population variance averaged over axes.
func newSample(v [][]float64, dims int) Sample {
	s := Sample{Velocities: v, Density: float64(len(v))}
	axis := make([]float64, len(v))
	if dims == 1 {
		for i, p := range v {
			axis[i] = p[0]
		}
		s.BulkVelocity, s.Temperature = stat.PopMeanStdDev(axis, nil)
		return s
	}
	means := make([]float64, dims)
	variance := 0.0
	for d := 0; d < dims; d++ {
		for i, p := range v {
			axis[i] = p[d]
		}
		mean, std := stat.PopMeanStdDev(axis, nil)
		means[d] = mean
		variance += std * std
	}
	s.BulkVelocity = floats.Norm(means, 2)
	s.Temperature = math.Sqrt(variance / float64(dims))
	return s
}
