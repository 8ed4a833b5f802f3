// Package testutil provides shared test infrastructure for the vdf packages.
// It resolves the reference simulation snapshots under testdata/ and holds
// assertion helpers used across vdf/moments and vdf/cluster tests.
package testutil

import (
	"math"
	"path/filepath"
	"runtime"
	"testing"
)

// ShockTube1D is the reference 1-D shock-tube snapshot: 30 upstream cells (ids 1-30)
// followed by 18 downstream cells (ids 31-48), plus one electron-only cell (id 1000).
const ShockTube1D = "shocktube_1d.yaml"

// Upstream and downstream cell counts of ShockTube1D.
const (
	ShockTubeUpstream   = 30
	ShockTubeDownstream = 18
)

// TestdataPath returns the absolute path of a file in the repository testdata/ directory.
// The path is resolved relative to this source file: vdf/internal/testutil/ → testdata/.
func TestdataPath(t *testing.T, name string) string {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "..", "testdata", name)
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// Sum returns the sum of a label vector.
func Sum(labels []int) int {
	s := 0
	for _, l := range labels {
		s += l
	}
	return s
}

// SamePartition reports whether two label vectors group rows identically,
// regardless of which integer each group carries.
func SamePartition(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	ab := map[int]int{}
	ba := map[int]int{}
	for i := range a {
		if x, ok := ab[a[i]]; ok && x != b[i] {
			return false
		}
		if y, ok := ba[b[i]]; ok && y != a[i] {
			return false
		}
		ab[a[i]] = b[i]
		ba[b[i]] = a[i]
	}
	return true
}
