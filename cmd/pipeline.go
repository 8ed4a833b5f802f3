package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/vdfclass/vdf"
	"github.com/inference-sim/vdfclass/vdf/cluster"
	"github.com/inference-sim/vdfclass/vdf/generator"
	"github.com/inference-sim/vdfclass/vdf/moments"
	"github.com/inference-sim/vdfclass/vdf/report"
)

// runPipeline builds the feature table named by spec, clusters it and summarizes the result.
func runPipeline(spec *vdf.RunSpec) (*report.Summary, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run spec: %w", err)
	}

	var table *vdf.FeatureTable
	if src := spec.Source; src != nil {
		opts := []moments.Option{moments.WithSpecies(src.Species)}
		if len(src.Cells) > 0 {
			opts = append(opts, moments.WithCells(src.Cells...))
		}
		t, err := moments.CollectMoments(src.File, opts...)
		if err != nil {
			return nil, err
		}
		table = t
	} else {
		g := spec.Generator
		samples, err := generator.MakeClusters(generator.Config{
			NSamples: g.Samples, NClusters: g.Clusters, NPoints: g.Points, NDims: g.Dims, Seed: spec.Seed,
		})
		if err != nil {
			return nil, err
		}
		table = samples.Features()
	}

	method, err := cluster.NewMethod(spec.Cluster)
	if err != nil {
		return nil, err
	}
	a, err := cluster.Cluster(table, spec.Cluster.K, method, cluster.WithSeedPtr(spec.Seed))
	if err != nil {
		return nil, err
	}
	logrus.Infof("%s assigned %d samples to %d clusters (sizes %v)", a.Method, len(a.Labels), a.K, a.Sizes())
	return report.Summarize(a, table)
}
