package cluster

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/vdfclass/vdf"
	"github.com/inference-sim/vdfclass/vdf/generator"
	"github.com/inference-sim/vdfclass/vdf/internal/testutil"
	"github.com/inference-sim/vdfclass/vdf/moments"
)

// twoBlobs returns 12 rows: six around (0,0,0) then six around (10,10,10).
func twoBlobs(t *testing.T) (*vdf.FeatureTable, []int) {
	t.Helper()
	jitter := [][]float64{
		{0, 0, 0}, {0.1, 0, 0}, {0, 0.1, 0}, {0, 0, 0.1}, {0.07, 0.05, 0.03}, {0.02, 0.09, 0.06},
	}
	ft := vdf.NewFeatureTable(vdf.MomentColumns...)
	var want []int
	for blob, centre := range []float64{0, 10} {
		for _, j := range jitter {
			require.NoError(t, ft.Append(centre+j[0], centre+j[1], centre+j[2]))
			want = append(want, blob)
		}
	}
	return ft, want
}

func methods() []Method {
	return []Method{&KMeans{}, &GMM{}}
}

func TestCluster_SeparableBlobs_Recovered(t *testing.T) {
	for _, m := range methods() {
		t.Run(m.Name(), func(t *testing.T) {
			// GIVEN two well-separated blobs
			in, want := twoBlobs(t)

			// WHEN clustered with k=2
			a, err := Cluster(in, 2, m, WithSeed(42))
			require.NoError(t, err)

			// THEN the blobs are recovered up to label permutation
			assert.True(t, testutil.SamePartition(want, a.Labels), "labels %v", a.Labels)
			assert.Equal(t, []int{6, 6}, a.Sizes())
			assert.Equal(t, m.Name(), a.Method)
			assert.True(t, a.Converged)
			assert.Len(t, a.Centers, 2)
			assert.Equal(t, vdf.RunKey(42), a.RunKey)
		})
	}
}

func TestCluster_SameSeed_Deterministic(t *testing.T) {
	for _, m := range methods() {
		t.Run(m.Name(), func(t *testing.T) {
			in, _ := twoBlobs(t)
			a, err := Cluster(in, 3, m, WithSeed(7))
			require.NoError(t, err)
			b, err := Cluster(in, 3, m, WithSeed(7))
			require.NoError(t, err)

			assert.Equal(t, a.Labels, b.Labels)
			assert.Equal(t, a.Score, b.Score)
			assert.Equal(t, a.Centers, b.Centers)
		})
	}
}

func TestCluster_LabelsInRange(t *testing.T) {
	for _, m := range methods() {
		t.Run(m.Name(), func(t *testing.T) {
			in, _ := twoBlobs(t)
			a, err := Cluster(in, 3, m, WithSeed(1))
			require.NoError(t, err)
			require.Len(t, a.Labels, in.Len())
			for i, l := range a.Labels {
				assert.GreaterOrEqual(t, l, 0, "row %d", i)
				assert.Less(t, l, 3, "row %d", i)
			}
		})
	}
}

func TestCluster_KEqualsOne_AllZero(t *testing.T) {
	for _, m := range methods() {
		t.Run(m.Name(), func(t *testing.T) {
			in, _ := twoBlobs(t)
			a, err := Cluster(in, 1, m, WithSeed(3))
			require.NoError(t, err)
			assert.Equal(t, 0, testutil.Sum(a.Labels))
		})
	}
}

func TestCluster_KMeans_KEqualsRows_Singletons(t *testing.T) {
	in := table(t, []string{"a"}, []float64{1}, []float64{5}, []float64{20})
	a, err := Cluster(in, 3, &KMeans{}, WithSeed(5))
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1, 2}, a.Labels)
	assert.InDelta(t, 0, a.Score, 1e-12)
}

func TestCluster_InvalidK_Rejected(t *testing.T) {
	in, _ := twoBlobs(t)
	for _, k := range []int{0, -1, in.Len() + 1} {
		_, err := Cluster(in, k, &KMeans{})
		assert.True(t, errors.Is(err, vdf.ErrInvalidConfig), "k=%d: %v", k, err)
	}
}

func TestCluster_NilMethod_Rejected(t *testing.T) {
	in, _ := twoBlobs(t)
	_, err := Cluster(in, 2, nil)
	assert.True(t, errors.Is(err, vdf.ErrUnsupportedMethod))
}

func TestCluster_NegativeParameters_Rejected(t *testing.T) {
	in, _ := twoBlobs(t)
	_, err := Cluster(in, 2, &KMeans{NInit: -1})
	assert.True(t, errors.Is(err, vdf.ErrInvalidConfig))
	_, err = Cluster(in, 2, &GMM{RegCovar: -1})
	assert.True(t, errors.Is(err, vdf.ErrInvalidConfig))
}

func TestClusterByName_UnknownMethod(t *testing.T) {
	in, _ := twoBlobs(t)
	_, err := ClusterByName(in, 2, "spectral")
	assert.True(t, errors.Is(err, vdf.ErrUnsupportedMethod))
}

func TestCluster_ShockTube_SplitsUpstreamFromDownstream(t *testing.T) {
	// GIVEN moments from the reference shock-tube snapshot
	in, err := moments.CollectMoments(testutil.TestdataPath(t, testutil.ShockTube1D))
	require.NoError(t, err)
	require.Equal(t, testutil.ShockTubeUpstream+testutil.ShockTubeDownstream, in.Len())

	want := make([]int, in.Len())
	for i, id := range in.CellIDs {
		if id > testutil.ShockTubeUpstream {
			want[i] = 1
		}
	}

	tests := []struct {
		method string
		seed   int64
		sum    int
	}{
		{"kmeans", 0, testutil.ShockTubeDownstream},
		{"kmeans", 1, testutil.ShockTubeUpstream},
		{"GMM", 0, testutil.ShockTubeDownstream},
		{"GMM", 3, testutil.ShockTubeUpstream},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/seed=%d", tt.method, tt.seed), func(t *testing.T) {
			// WHEN clustered twice with the same seed
			a, err := ClusterByName(in, 2, tt.method, WithSeed(tt.seed))
			require.NoError(t, err)
			b, err := ClusterByName(in, 2, tt.method, WithSeed(tt.seed))
			require.NoError(t, err)

			// THEN the shock is found and the label sum matches the reference for this seed
			assert.True(t, testutil.SamePartition(want, a.Labels), "labels %v", a.Labels)
			assert.Equal(t, tt.sum, testutil.Sum(a.Labels))
			assert.Equal(t, tt.sum, testutil.Sum(b.Labels))
		})
	}
}

func TestCluster_GeneratedSamples_RecoverMixtureGroups(t *testing.T) {
	// GIVEN 20 fixed-size samples from the 1-D two-cluster mixture
	mix, err := generator.PresetMixture(1, 2)
	require.NoError(t, err)
	mix.VariableSize = false
	samples, err := generator.MakeClusters(generator.Config{NSamples: 20, NPoints: 400, Mixture: mix, Seed: vdf.Seed(8)})
	require.NoError(t, err)

	// WHEN their moments are clustered
	a, err := Cluster(samples.Features(), 2, &KMeans{}, WithSeed(8))
	require.NoError(t, err)

	// THEN the plain and bump groups separate
	want := make([]int, 20)
	for i := 10; i < 20; i++ {
		want[i] = 1
	}
	assert.True(t, testutil.SamePartition(want, a.Labels), "labels %v", a.Labels)
}

func TestWithSeedPtr_Nil_LeavesUnseeded(t *testing.T) {
	o := options{}
	WithSeedPtr(nil)(&o)
	assert.Nil(t, o.seed)
	WithSeedPtr(vdf.Seed(3))(&o)
	require.NotNil(t, o.seed)
	assert.Equal(t, int64(3), *o.seed)
}
