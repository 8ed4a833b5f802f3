// Package vdf provides the shared types for classifying plasma-kinetic simulation cells
// from their velocity distribution functions (VDFs).
//
// # Reading Guide
//
// Start with these files to understand the pipeline:
//   - table.go: FeatureTable, the row-per-sample matrix every stage consumes
//   - rng.go: PartitionedRNG, the seeding scheme that makes runs reproducible
//   - errors.go: the error taxonomy surfaced by every stage
//
// # Architecture
//
// The vdf package owns data types and configuration; the stages live in sub-packages:
//   - vdf/moments/: reduce per-cell fields to density, velocity and pressure moments
//   - vdf/generator/: synthesize VDF samples with controllable sub-population structure
//   - vdf/cluster/: standardize a feature table and assign cluster labels (k-means, GMM)
//   - vdf/report/: per-cluster summaries of an assignment
//
// Simulation-file readers are external. They register themselves with vdf/moments
// through moments.Register, the same way a reader package would from its init().
package vdf
