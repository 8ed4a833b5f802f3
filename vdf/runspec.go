package vdf

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Clustering method names accepted by RunSpec and cluster.ParseMethod.
const (
	MethodKMeans = "kmeans"
	MethodGMM    = "GMM"
)

// CanonicalMethod maps an accepted spelling to its canonical name.
// Used by Validate() and cluster.ParseMethod().
// GMM is matched case-insensitively. Returns "" for unrecognized names;
// there is no default method.
func CanonicalMethod(name string) string {
	if name == MethodKMeans {
		return MethodKMeans
	}
	if strings.EqualFold(name, MethodGMM) {
		return MethodGMM
	}
	return ""
}

// RunSpec is the top-level pipeline configuration.
// Loaded from YAML via LoadRunSpec(path). Exactly one of Source or Generator is set.
type RunSpec struct {
	Seed      *int64         `yaml:"seed,omitempty"` // nil = non-deterministic run
	Source    *SourceSpec    `yaml:"source,omitempty"`
	Generator *GeneratorSpec `yaml:"generator,omitempty"`
	Cluster   ClusterSpec    `yaml:"cluster"`
}

// SourceSpec selects simulation cells to extract moments from.
type SourceSpec struct {
	File    string   `yaml:"file"`
	Species string   `yaml:"species,omitempty"` // default "proton"
	Cells   []CellID `yaml:"cells,omitempty"`   // empty = every cell with a VDF
}

// GeneratorSpec configures synthetic sample generation.
type GeneratorSpec struct {
	Samples  int `yaml:"samples"`
	Clusters int `yaml:"clusters"`
	Points   int `yaml:"points"`
	Dims     int `yaml:"dims"`
}

// ClusterSpec configures the clustering stage. Zero numeric fields take method defaults.
type ClusterSpec struct {
	K       int     `yaml:"k"`
	Method  string  `yaml:"method"`
	NInit   int     `yaml:"n_init,omitempty"`
	MaxIter int     `yaml:"max_iter,omitempty"`
	Tol     float64 `yaml:"tol,omitempty"`
}

// LoadRunSpec reads and parses a YAML run spec file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadRunSpec(path string) (*RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run spec: %w", err)
	}
	var spec RunSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing run spec: %w", err)
	}
	return &spec, nil
}

// Validate checks that all fields in the run spec are valid.
func (s *RunSpec) Validate() error {
	switch {
	case s.Source == nil && s.Generator == nil:
		return fmt.Errorf("run spec needs a source or a generator section: %w", ErrInvalidConfig)
	case s.Source != nil && s.Generator != nil:
		return fmt.Errorf("run spec sets both source and generator; choose one: %w", ErrInvalidConfig)
	}
	if s.Source != nil && s.Source.File == "" {
		return fmt.Errorf("source.file must be set: %w", ErrInvalidConfig)
	}
	if g := s.Generator; g != nil {
		if g.Samples < 1 {
			return fmt.Errorf("generator.samples must be positive, got %d: %w", g.Samples, ErrInvalidConfig)
		}
		if g.Clusters < 1 {
			return fmt.Errorf("generator.clusters must be positive, got %d: %w", g.Clusters, ErrInvalidConfig)
		}
		if g.Points < 1 {
			return fmt.Errorf("generator.points must be positive, got %d: %w", g.Points, ErrInvalidConfig)
		}
		if g.Dims < 1 {
			return fmt.Errorf("generator.dims must be positive, got %d: %w", g.Dims, ErrInvalidConfig)
		}
	}
	return s.Cluster.Validate()
}

// Validate checks the clustering section.
func (c *ClusterSpec) Validate() error {
	if c.K < 1 {
		return fmt.Errorf("cluster.k must be at least 1, got %d: %w", c.K, ErrInvalidConfig)
	}
	if CanonicalMethod(c.Method) == "" {
		return fmt.Errorf("cluster.method %q; valid: kmeans, GMM: %w", c.Method, ErrUnsupportedMethod)
	}
	if c.NInit < 0 {
		return fmt.Errorf("cluster.n_init must be non-negative, got %d: %w", c.NInit, ErrInvalidConfig)
	}
	if c.MaxIter < 0 {
		return fmt.Errorf("cluster.max_iter must be non-negative, got %d: %w", c.MaxIter, ErrInvalidConfig)
	}
	if math.IsNaN(c.Tol) || math.IsInf(c.Tol, 0) || c.Tol < 0 {
		return fmt.Errorf("cluster.tol must be a finite non-negative number, got %f: %w", c.Tol, ErrInvalidConfig)
	}
	return nil
}
