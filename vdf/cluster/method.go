package cluster

import (
	"fmt"

	"github.com/inference-sim/vdfclass/vdf"
)

// Method is a clustering algorithm together with its parameters.
// The set of methods is closed: *KMeans and *GMM.
type Method interface {
	Name() string
	fit(x [][]float64, k int, rng *vdf.PartitionedRNG) (*fitResult, error)
}

// fitResult is what a method hands back to Cluster.
type fitResult struct {
	labels     []int
	centres    [][]float64
	score      float64
	iterations int
	converged  bool
}

// KMeans is hard-assignment centroid clustering with k-means++ seeding.
// Zero fields take the defaults below.
type KMeans struct {
	NInit   int     // independent restarts; the lowest-inertia one wins (default 4)
	MaxIter int     // Lloyd iterations per restart (default 300)
	Tol     float64 // convergence threshold on squared centroid shift, relative to mean column variance (default 1e-4)
}

// GMM is a full-covariance Gaussian mixture fitted by expectation-maximization.
// Zero fields take the defaults below.
type GMM struct {
	NInit    int     // independent initializations; the highest likelihood wins (default 1)
	MaxIter  int     // EM iterations (default 100)
	Tol      float64 // convergence threshold on the change in mean log-likelihood (default 1e-3)
	RegCovar float64 // added to covariance diagonals (default 1e-6)
}

// Name returns "kmeans".
func (*KMeans) Name() string { return vdf.MethodKMeans }

// Name returns "GMM".
func (*GMM) Name() string { return vdf.MethodGMM }

func (m *KMeans) withDefaults() KMeans {
	out := *m
	if out.NInit == 0 {
		out.NInit = 4
	}
	if out.MaxIter == 0 {
		out.MaxIter = 300
	}
	if out.Tol == 0 {
		out.Tol = 1e-4
	}
	return out
}

func (m *GMM) withDefaults() GMM {
	out := *m
	if out.NInit == 0 {
		out.NInit = 1
	}
	if out.MaxIter == 0 {
		out.MaxIter = 100
	}
	if out.Tol == 0 {
		out.Tol = 1e-3
	}
	if out.RegCovar == 0 {
		out.RegCovar = 1e-6
	}
	return out
}

// ParseMethod returns the method named name with default parameters.
// Valid names: "kmeans", "GMM" (any case). There is no fallback for other names.
func ParseMethod(name string) (Method, error) {
	switch vdf.CanonicalMethod(name) {
	case vdf.MethodKMeans:
		return &KMeans{}, nil
	case vdf.MethodGMM:
		return &GMM{}, nil
	default:
		return nil, fmt.Errorf("%q; valid: kmeans, GMM: %w", name, vdf.ErrUnsupportedMethod)
	}
}

// NewMethod builds a method from a ClusterSpec, applying its iteration settings.
func NewMethod(spec vdf.ClusterSpec) (Method, error) {
	m, err := ParseMethod(spec.Method)
	if err != nil {
		return nil, err
	}
	switch m := m.(type) {
	case *KMeans:
		m.NInit, m.MaxIter, m.Tol = spec.NInit, spec.MaxIter, spec.Tol
	case *GMM:
		m.NInit, m.MaxIter, m.Tol = spec.NInit, spec.MaxIter, spec.Tol
	}
	return m, nil
}
