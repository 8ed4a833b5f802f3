package cluster

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/inference-sim/vdfclass/vdf"
)

// minComponentMass keeps empty components from dividing by zero in the M-step.
const minComponentMass = 10 * 2.220446049250313e-16

// mixture is the state of a Gaussian mixture during EM.
type mixture struct {
	weights    []float64
	means      [][]float64
	components []*distmv.Normal
}

func (m *GMM) fit(x [][]float64, k int, prng *vdf.PartitionedRNG) (*fitResult, error) {
	p := m.withDefaults()
	if p.NInit < 0 || p.MaxIter < 0 || p.Tol < 0 || p.RegCovar < 0 {
		return nil, fmt.Errorf("GMM n_init=%d max_iter=%d tol=%g reg_covar=%g must be non-negative: %w",
			p.NInit, p.MaxIter, p.Tol, p.RegCovar, vdf.ErrInvalidConfig)
	}

	var best *fitResult
	for r := 0; r < p.NInit; r++ {
		rng := prng.ForSubsystem(vdf.SubsystemRestart(vdf.SubsystemGMM, r))
		res, err := p.em(x, k, kMeansPlusPlus(x, k, rng))
		if err != nil {
			return nil, err
		}
		logrus.Debugf("GMM init %d: mean log-likelihood=%g iterations=%d converged=%t", r, res.score, res.iterations, res.converged)
		if best == nil || res.score > best.score {
			best = res
		}
	}
	if !best.converged {
		logrus.Warnf("GMM did not converge within %d iterations", p.MaxIter)
	}
	return best, nil
}

// em runs expectation-maximization from hard responsibilities around the seed means.
func (p GMM) em(x [][]float64, k int, seeds [][]float64) (*fitResult, error) {
	n := len(x)
	resp := make([][]float64, n)
	labels := make([]int, n)
	dist := make([]float64, n)
	assign(x, seeds, labels, dist)
	for i := range resp {
		resp[i] = make([]float64, k)
		resp[i][labels[i]] = 1
	}

	mix, err := p.mStep(x, resp)
	if err != nil {
		return nil, err
	}

	res := &fitResult{}
	lowerBound := math.Inf(-1)
	for it := 1; it <= p.MaxIter; it++ {
		res.iterations = it
		prev := lowerBound
		lowerBound = mix.eStep(x, resp)
		if mix, err = p.mStep(x, resp); err != nil {
			return nil, err
		}
		if math.Abs(lowerBound-prev) < p.Tol {
			res.converged = true
			break
		}
	}

	// Final E-step so labels agree with the returned parameters.
	res.score = mix.eStep(x, resp)
	res.labels = make([]int, n)
	for i, r := range resp {
		res.labels[i] = floats.MaxIdx(r)
	}
	res.centres = mix.means
	return res, nil
}

// eStep overwrites resp with posterior probabilities and returns the mean log-likelihood.
func (mix *mixture) eStep(x [][]float64, resp [][]float64) float64 {
	total := 0.0
	for i, row := range x {
		lp := resp[i]
		for j, c := range mix.components {
			lp[j] = math.Log(mix.weights[j]) + c.LogProb(row)
		}
		norm := floats.LogSumExp(lp)
		for j := range lp {
			lp[j] = math.Exp(lp[j] - norm)
		}
		total += norm
	}
	return total / float64(len(x))
}

// mStep estimates weights, means and full covariances from responsibilities.
func (p GMM) mStep(x [][]float64, resp [][]float64) (*mixture, error) {
	n, d, k := len(x), len(x[0]), len(resp[0])
	mix := &mixture{
		weights:    make([]float64, k),
		means:      make([][]float64, k),
		components: make([]*distmv.Normal, k),
	}
	for j := 0; j < k; j++ {
		nk := minComponentMass
		mean := make([]float64, d)
		for i, row := range x {
			nk += resp[i][j]
			floats.AddScaled(mean, resp[i][j], row)
		}
		floats.Scale(1/nk, mean)

		cov := mat.NewSymDense(d, nil)
		diff := make([]float64, d)
		for i, row := range x {
			if resp[i][j] == 0 {
				continue
			}
			floats.SubTo(diff, row, mean)
			cov.SymRankOne(cov, resp[i][j], mat.NewVecDense(d, diff))
		}
		cov.ScaleSym(1/nk, cov)
		for a := 0; a < d; a++ {
			cov.SetSym(a, a, cov.At(a, a)+p.RegCovar)
		}

		normal, ok := distmv.NewNormal(mean, cov, nil)
		if !ok {
			return nil, fmt.Errorf("GMM component %d covariance is not positive definite; increase reg_covar: %w", j, vdf.ErrNumerical)
		}
		mix.weights[j] = nk / float64(n)
		mix.means[j] = mean
		mix.components[j] = normal
	}
	return mix, nil
}
