package generator

import (
	"fmt"
	"math"

	"github.com/inference-sim/vdfclass/vdf"
)

// Rounding selects how fractional group boundaries are resolved when rows are
// divided among mixture components.
type Rounding int

const (
	// RoundDown places each boundary at ⌊n·W⌋ for cumulative weight W.
	RoundDown Rounding = iota
	// RoundUp places each boundary at ⌈n·W⌉.
	RoundUp
)

// boundaryEps absorbs floating-point error in n·W so that exact fractions
// (n=3, W=1/3) land on the integer they represent.
const boundaryEps = 1e-9

// Mixture describes the sub-population structure of a synthetic sample set.
// Rows are split among Components in order, proportionally to their weights.
type Mixture struct {
	Dims     int
	Rounding Rounding
	// VariableSize draws each sample's primary size uniformly from [1, NPoints);
	// otherwise every primary draw has exactly NPoints points.
	VariableSize bool
	Components   []Component
}

// Component is one sub-population: a unit-variance normal primary draw around Mean,
// optionally followed by a smaller bump-on-tail draw.
type Component struct {
	Weight float64
	Mean   []float64
	Bump   *Bump
}

// Bump is a secondary unit-variance normal draw centred at the primary mean plus Offset,
// with size primary/Divisor (integer division).
type Bump struct {
	Offset  []float64
	Divisor int
}

// presetKey indexes PresetMixture by (dims, clusters).
type presetKey struct{ dims, clusters int }

var presets = map[presetKey]Mixture{
	{1, 1}: {Dims: 1, Rounding: RoundDown, VariableSize: true, Components: []Component{
		{Weight: 1, Mean: []float64{0}},
	}},
	// First half n - ⌊n/2⌋ rows, second half ⌊n/2⌋.
	{1, 2}: {Dims: 1, Rounding: RoundUp, VariableSize: true, Components: []Component{
		{Weight: 1, Mean: []float64{0}},
		{Weight: 1, Mean: []float64{0}, Bump: &Bump{Offset: []float64{4}, Divisor: 2}},
	}},
	// Thirds at ⌊n/3⌋ and ⌊2n/3⌋.
	{1, 3}: {Dims: 1, Rounding: RoundDown, VariableSize: true, Components: []Component{
		{Weight: 1, Mean: []float64{0}},
		{Weight: 1, Mean: []float64{0}, Bump: &Bump{Offset: []float64{4}, Divisor: 2}},
		{Weight: 1, Mean: []float64{0}, Bump: &Bump{Offset: []float64{-4}, Divisor: 2}},
	}},
	{2, 1}: {Dims: 2, Rounding: RoundDown, Components: []Component{
		{Weight: 1, Mean: []float64{0, 0}},
	}},
	{2, 2}: {Dims: 2, Rounding: RoundUp, Components: []Component{
		{Weight: 1, Mean: []float64{0, 0}},
		{Weight: 1, Mean: []float64{0, 0}, Bump: &Bump{Offset: []float64{3, 3}, Divisor: 10}},
	}},
}

// PresetMixture returns the built-in mixture for (dims, clusters).
// Pairs without a preset fail with vdf.ErrUnsupportedConfig.
func PresetMixture(dims, clusters int) (*Mixture, error) {
	m, ok := presets[presetKey{dims, clusters}]
	if !ok {
		return nil, fmt.Errorf("n_dims=%d, n_clusters=%d; valid: 1-D with 1-3 clusters, 2-D with 1-2 clusters: %w",
			dims, clusters, vdf.ErrUnsupportedConfig)
	}
	return m.clone(), nil
}

func (m Mixture) clone() *Mixture {
	out := m
	out.Components = make([]Component, len(m.Components))
	for i, c := range m.Components {
		c.Mean = append([]float64(nil), c.Mean...)
		if c.Bump != nil {
			b := *c.Bump
			b.Offset = append([]float64(nil), b.Offset...)
			c.Bump = &b
		}
		out.Components[i] = c
	}
	return &out
}

// Validate checks the mixture is well formed.
func (m *Mixture) Validate() error {
	if m.Dims < 1 {
		return fmt.Errorf("mixture dims must be positive, got %d: %w", m.Dims, vdf.ErrInvalidConfig)
	}
	if len(m.Components) == 0 {
		return fmt.Errorf("mixture has no components: %w", vdf.ErrInvalidConfig)
	}
	if m.Rounding != RoundDown && m.Rounding != RoundUp {
		return fmt.Errorf("unknown rounding %d: %w", m.Rounding, vdf.ErrInvalidConfig)
	}
	for i, c := range m.Components {
		prefix := fmt.Sprintf("component[%d]", i)
		if math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) || c.Weight <= 0 {
			return fmt.Errorf("%s: weight must be finite and positive, got %f: %w", prefix, c.Weight, vdf.ErrInvalidConfig)
		}
		if len(c.Mean) != m.Dims {
			return fmt.Errorf("%s: mean has %d components, want %d: %w", prefix, len(c.Mean), m.Dims, vdf.ErrInvalidConfig)
		}
		if c.Bump == nil {
			continue
		}
		if len(c.Bump.Offset) != m.Dims {
			return fmt.Errorf("%s: bump offset has %d components, want %d: %w", prefix, len(c.Bump.Offset), m.Dims, vdf.ErrInvalidConfig)
		}
		if c.Bump.Divisor < 1 {
			return fmt.Errorf("%s: bump divisor must be at least 1, got %d: %w", prefix, c.Bump.Divisor, vdf.ErrInvalidConfig)
		}
	}
	return nil
}

// allocate splits n rows among the components and returns the end row of each group.
// The last boundary is always n.
func (m *Mixture) allocate(n int) []int {
	total := 0.0
	for _, c := range m.Components {
		total += c.Weight
	}
	ends := make([]int, len(m.Components))
	cum := 0.0
	for i, c := range m.Components {
		cum += c.Weight
		x := float64(n) * cum / total
		var b int
		if m.Rounding == RoundUp {
			b = int(math.Ceil(x - boundaryEps))
		} else {
			b = int(math.Floor(x + boundaryEps))
		}
		ends[i] = min(max(b, 0), n)
	}
	ends[len(ends)-1] = n
	return ends
}
