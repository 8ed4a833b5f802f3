package cluster

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/inference-sim/vdfclass/vdf"
)

// kmeansRun is the outcome of one restart.
type kmeansRun struct {
	labels     []int
	centroids  [][]float64
	inertia    float64 // sum of squared distances to the assigned centroid
	iterations int
	converged  bool
}

func (m *KMeans) fit(x [][]float64, k int, prng *vdf.PartitionedRNG) (*fitResult, error) {
	p := m.withDefaults()
	if p.NInit < 0 || p.MaxIter < 0 || p.Tol < 0 {
		return nil, fmt.Errorf("kmeans n_init=%d max_iter=%d tol=%g must be non-negative: %w", p.NInit, p.MaxIter, p.Tol, vdf.ErrInvalidConfig)
	}
	tol := p.Tol * meanColumnVariance(x)

	// Restart RNGs are derived up-front; PartitionedRNG is single-goroutine.
	rngs := make([]*rand.Rand, p.NInit)
	for r := range rngs {
		rngs[r] = prng.ForSubsystem(vdf.SubsystemRestart(vdf.SubsystemKMeans, r))
	}

	runs := make([]*kmeansRun, p.NInit)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for r := range runs {
		g.Go(func() error {
			runs[r] = lloyd(x, kMeansPlusPlus(x, k, rngs[r]), p.MaxIter, tol)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := 0
	for r, run := range runs {
		logrus.Debugf("kmeans restart %d: inertia=%g iterations=%d converged=%t", r, run.inertia, run.iterations, run.converged)
		if run.inertia < runs[best].inertia {
			best = r
		}
	}
	run := runs[best]
	if !run.converged {
		logrus.Warnf("kmeans did not converge within %d iterations", p.MaxIter)
	}
	return &fitResult{labels: run.labels, centres: run.centroids, score: run.inertia, iterations: run.iterations, converged: run.converged}, nil
}

// kMeansPlusPlus picks k initial centres: the first uniformly, each next one with
// probability proportional to its squared distance from the nearest chosen centre.
func kMeansPlusPlus(x [][]float64, k int, rng *rand.Rand) [][]float64 {
	n := len(x)
	centres := make([][]float64, 0, k)
	centres = append(centres, append([]float64(nil), x[rng.Intn(n)]...))

	minDist := make([]float64, n)
	for i := range x {
		minDist[i] = sqDist(x[i], centres[0])
	}
	for len(centres) < k {
		total := 0.0
		for _, d := range minDist {
			total += d
		}
		idx := -1
		if total > 0 {
			r := rng.Float64() * total
			cumulative := 0.0
			for i, d := range minDist {
				cumulative += d
				if d > 0 && cumulative > r {
					idx = i
					break
				}
			}
			if idx < 0 { // r landed on the rounding slack at the top
				for i := n - 1; i >= 0; i-- {
					if minDist[i] > 0 {
						idx = i
						break
					}
				}
			}
		} else {
			// every point coincides with a centre
			idx = rng.Intn(n)
		}
		c := append([]float64(nil), x[idx]...)
		centres = append(centres, c)
		for i := range x {
			minDist[i] = math.Min(minDist[i], sqDist(x[i], c))
		}
	}
	return centres
}

// lloyd iterates assignment and centroid updates until the total squared
// centroid shift is at most tol or maxIter is reached.
func lloyd(x [][]float64, centroids [][]float64, maxIter int, tol float64) *kmeansRun {
	n, k, d := len(x), len(centroids), len(x[0])
	labels := make([]int, n)
	dist := make([]float64, n)
	run := &kmeansRun{}

	for it := 1; it <= maxIter; it++ {
		run.iterations = it
		assign(x, centroids, labels, dist)

		next := make([][]float64, k)
		counts := make([]int, k)
		for j := range next {
			next[j] = make([]float64, d)
		}
		for i, row := range x {
			counts[labels[i]]++
			for c, v := range row {
				next[labels[i]][c] += v
			}
		}
		for j := range next {
			if counts[j] == 0 {
				continue
			}
			for c := range next[j] {
				next[j][c] /= float64(counts[j])
			}
		}
		relocateEmpty(x, next, counts, labels, dist)

		shift := 0.0
		for j := range next {
			shift += sqDist(next[j], centroids[j])
		}
		centroids = next
		if shift <= tol {
			run.converged = true
			break
		}
	}

	// Final assignment so labels and inertia match the returned centroids.
	assign(x, centroids, labels, dist)
	for _, dd := range dist {
		run.inertia += dd
	}
	run.labels = labels
	run.centroids = centroids
	return run
}

// assign writes each row's nearest centroid (ties → lowest index) and squared distance.
func assign(x, centroids [][]float64, labels []int, dist []float64) {
	for i, row := range x {
		best, bestDist := 0, math.Inf(1)
		for j, c := range centroids {
			if dd := sqDist(row, c); dd < bestDist {
				best, bestDist = j, dd
			}
		}
		labels[i] = best
		dist[i] = bestDist
	}
}

// relocateEmpty moves each empty centroid onto the point farthest from its current
// centroid, taking points from clusters that can spare one. The donor's centroid is
// updated to the mean of its remaining members.
func relocateEmpty(x, centroids [][]float64, counts, labels []int, dist []float64) {
	for j := range centroids {
		if counts[j] > 0 {
			continue
		}
		far := -1
		for i := range x {
			if counts[labels[i]] > 1 && (far < 0 || dist[i] > dist[far]) {
				far = i
			}
		}
		if far < 0 {
			logrus.Warnf("kmeans: cluster %d is empty and no point can be moved into it", j)
			continue
		}
		logrus.Debugf("kmeans: cluster %d empty; reseeding with row %d", j, far)
		donor := labels[far]
		n := float64(counts[donor])
		for c := range centroids[donor] {
			centroids[donor][c] += (centroids[donor][c] - x[far][c]) / (n - 1)
		}
		counts[donor]--
		counts[j] = 1
		labels[far] = j
		dist[far] = 0
		copy(centroids[j], x[far])
	}
}

// meanColumnVariance is the average per-column population variance of x.
func meanColumnVariance(x [][]float64) float64 {
	d := len(x[0])
	col := make([]float64, len(x))
	total := 0.0
	for c := 0; c < d; c++ {
		for i, row := range x {
			col[i] = row[c]
		}
		_, std := stat.PopMeanStdDev(col, nil)
		total += std * std
	}
	return total / float64(d)
}

func sqDist(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		diff := a[i] - b[i]
		s += diff * diff
	}
	return s
}
