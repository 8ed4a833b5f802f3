package vdf

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// === RunKey ===

// RunKey uniquely identifies a reproducible run.
// Two runs with the same RunKey and identical configuration
// MUST produce bit-for-bit identical results.
type RunKey int64

// NewRunKey creates a RunKey from a seed. A nil seed draws a key from the wall clock,
// so the run is not reproducible.
func NewRunKey(seed *int64) RunKey {
	if seed != nil {
		return RunKey(*seed)
	}
	key := time.Now().UnixNano()
	logrus.Debugf("no seed given; using time-derived run key %d", key)
	return RunKey(key)
}

// Seed returns a pointer to s, for optional seed fields.
func Seed(s int64) *int64 {
	return &s
}

// === Subsystem Constants ===

const (
	// SubsystemGenerator is the RNG subsystem for synthetic sample generation.
	// Uses the master seed directly.
	SubsystemGenerator = "generator"

	// SubsystemKMeans is the RNG subsystem for k-means seeding and restarts.
	SubsystemKMeans = "kmeans"

	// SubsystemGMM is the RNG subsystem for Gaussian mixture initialization.
	SubsystemGMM = "gmm"
)

// SubsystemRestart returns the subsystem name for restart N of method.
func SubsystemRestart(method string, n int) string {
	return fmt.Sprintf("%s_restart_%d", method, n)
}

// === PartitionedRNG ===

// PartitionedRNG provides deterministic, isolated RNG instances per subsystem.
//
// Derivation formula:
//   - For SubsystemGenerator: uses masterSeed directly
//   - For all other subsystems: masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Derive every subsystem from one goroutine
// before handing the *rand.Rand instances to workers.
type PartitionedRNG struct {
	key        RunKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a RunKey.
func NewPartitionedRNG(key RunKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named subsystem.
// The same subsystem name always returns the same *rand.Rand instance (cached).
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	var derivedSeed int64
	if name == SubsystemGenerator {
		derivedSeed = int64(p.key)
	} else {
		derivedSeed = int64(p.key) ^ fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the RunKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() RunKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
