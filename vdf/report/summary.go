// Package report turns a cluster assignment into a per-cluster summary for
// printing or saving as YAML.
package report

import (
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/vdfclass/vdf"
	"github.com/inference-sim/vdfclass/vdf/cluster"
)

// ClusterSummary describes one label of an assignment in the input's physical units.
type ClusterSummary struct {
	Label   int          `yaml:"label"`
	Size    int          `yaml:"size"`
	Mean    []float64    `yaml:"mean"` // per column, unstandardized
	CellIDs []vdf.CellID `yaml:"cell_ids,omitempty"`
}

// Summary aggregates an assignment over the table it was fitted on.
type Summary struct {
	Method     string           `yaml:"method"`
	K          int              `yaml:"k"`
	RunKey     vdf.RunKey       `yaml:"run_key"`
	Score      float64          `yaml:"score"`
	Iterations int              `yaml:"iterations"`
	Converged  bool             `yaml:"converged"`
	Columns    []string         `yaml:"columns"`
	Clusters   []ClusterSummary `yaml:"clusters"`
	Labels     []int            `yaml:"labels"`
}

// Summarize computes cluster sizes and per-column means of t for each label in a.
// Safe for a nil assignment (returns an empty summary).
func Summarize(a *cluster.Assignment, t *vdf.FeatureTable) (*Summary, error) {
	s := &Summary{}
	if a == nil {
		return s, nil
	}
	if len(a.Labels) != t.Len() {
		return nil, fmt.Errorf("assignment has %d labels for %d rows: %w", len(a.Labels), t.Len(), vdf.ErrInvalidConfig)
	}
	s.Method = a.Method
	s.K = a.K
	s.RunKey = a.RunKey
	s.Score = a.Score
	s.Iterations = a.Iterations
	s.Converged = a.Converged
	s.Columns = append([]string(nil), t.Columns...)
	s.Labels = append([]int(nil), a.Labels...)

	members := make([][]int, a.K)
	for i, l := range a.Labels {
		if l < 0 || l >= a.K {
			return nil, fmt.Errorf("row %d has label %d outside [0, %d): %w", i, l, a.K, vdf.ErrInvalidConfig)
		}
		members[l] = append(members[l], i)
	}

	s.Clusters = make([]ClusterSummary, a.K)
	for l, rows := range members {
		cs := ClusterSummary{Label: l, Size: len(rows), Mean: make([]float64, t.Width())}
		if len(rows) > 0 {
			col := make([]float64, len(rows))
			for j := range t.Columns {
				for r, i := range rows {
					col[r] = t.Rows[i][j]
				}
				cs.Mean[j] = stat.Mean(col, nil)
			}
		}
		if t.CellIDs != nil {
			cs.CellIDs = make([]vdf.CellID, len(rows))
			for r, i := range rows {
				cs.CellIDs[r] = t.CellIDs[i]
			}
		}
		s.Clusters[l] = cs
	}
	return s, nil
}

// Print writes a human-readable report.
func (s *Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Cluster Report ===")
	fmt.Fprintf(w, "Method               : %s\n", s.Method)
	fmt.Fprintf(w, "Clusters             : %d\n", s.K)
	fmt.Fprintf(w, "Samples              : %d\n", len(s.Labels))
	fmt.Fprintf(w, "Score                : %.6g\n", s.Score)
	fmt.Fprintf(w, "Iterations           : %d (converged: %t)\n", s.Iterations, s.Converged)
	for _, c := range s.Clusters {
		fmt.Fprintf(w, "--- cluster %d: %d samples\n", c.Label, c.Size)
		for j, name := range s.Columns {
			fmt.Fprintf(w, "  mean %-18s: %.6g\n", name, c.Mean[j])
		}
	}
}

// Save writes the summary as YAML.
func (s *Summary) Save(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}

// LoadSummary reads a report written by Save.
func LoadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", path, err)
	}
	var s Summary
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &s, nil
}
