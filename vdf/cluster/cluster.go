// Package cluster standardizes feature tables and partitions their rows with
// k-means or a full-covariance Gaussian mixture.
//
// Cluster is the entry point:
//
//	a, err := cluster.Cluster(table, 2, &cluster.KMeans{}, cluster.WithSeed(42))
//
// Every column is standardized to zero mean and unit population variance before
// fitting, so features on wildly different physical scales contribute equally.
// Labels are integers in [0, k); their numbering is arbitrary.
package cluster

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/vdfclass/vdf"
)

type options struct {
	seed *int64
}

// Option configures a Cluster call.
type Option func(*options)

// WithSeed makes the fit reproducible. Without it the run key is time-derived.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = vdf.Seed(seed) }
}

// WithSeedPtr is WithSeed for an optional seed; nil leaves the run unseeded.
func WithSeedPtr(seed *int64) Option {
	return func(o *options) {
		if seed != nil {
			o.seed = vdf.Seed(*seed)
		}
	}
}

// Assignment is the result of clustering a table.
type Assignment struct {
	Labels     []int // one per input row, in row order
	K          int
	Method     string
	Score      float64 // kmeans: inertia; GMM: mean log-likelihood
	Iterations int
	Converged  bool

	// Centers are in standardized coordinates: centroids for kmeans, component means for GMM.
	Centers      [][]float64
	Scaler       *Scaler
	Standardized *vdf.FeatureTable
	RunKey       vdf.RunKey
}

// Sizes returns the number of rows carrying each label.
func (a *Assignment) Sizes() []int {
	sizes := make([]int, a.K)
	for _, l := range a.Labels {
		sizes[l]++
	}
	return sizes
}

// Cluster standardizes t and partitions its rows into k clusters with method.
func Cluster(t *vdf.FeatureTable, k int, method Method, opts ...Option) (*Assignment, error) {
	if method == nil {
		return nil, fmt.Errorf("nil method: %w", vdf.ErrUnsupportedMethod)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if k < 1 || k > t.Len() {
		return nil, fmt.Errorf("k=%d with %d samples: %w", k, t.Len(), vdf.ErrInvalidConfig)
	}

	std, scaler, err := Standardize(t)
	if err != nil {
		return nil, err
	}
	logrus.Infof("# clusters: %d; # samples: %d; # features %d", k, t.Len(), t.Width())

	key := vdf.NewRunKey(o.seed)
	res, err := method.fit(std.Rows, k, vdf.NewPartitionedRNG(key))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method.Name(), err)
	}
	return &Assignment{
		Labels:       res.labels,
		K:            k,
		Method:       method.Name(),
		Score:        res.score,
		Iterations:   res.iterations,
		Converged:    res.converged,
		Centers:      res.centres,
		Scaler:       scaler,
		Standardized: std,
		RunKey:       key,
	}, nil
}

// ClusterByName is Cluster with the method looked up by name.
func ClusterByName(t *vdf.FeatureTable, k int, name string, opts ...Option) (*Assignment, error) {
	m, err := ParseMethod(name)
	if err != nil {
		return nil, err
	}
	return Cluster(t, k, m, opts...)
}
