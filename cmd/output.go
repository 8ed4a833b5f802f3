package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/vdfclass/vdf"
)

// tableDoc is the YAML layout of a feature table written with --output.
type tableDoc struct {
	Columns []string     `yaml:"columns"`
	CellIDs []vdf.CellID `yaml:"cell_ids,omitempty"`
	Rows    [][]float64  `yaml:"rows"`
}

// printTable writes t as aligned columns, prefixed with the cell id when present.
func printTable(w io.Writer, t *vdf.FeatureTable) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := append([]string{}, t.Columns...)
	if t.CellIDs != nil {
		header = append([]string{"cell"}, header...)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for i, row := range t.Rows {
		fields := make([]string, 0, len(row)+1)
		if t.CellIDs != nil {
			fields = append(fields, fmt.Sprint(t.CellIDs[i]))
		}
		for _, v := range row {
			fields = append(fields, fmt.Sprintf("%.6g", v))
		}
		fmt.Fprintln(tw, strings.Join(fields, "\t"))
	}
	_ = tw.Flush()
}

func saveTable(path string, t *vdf.FeatureTable) error {
	data, err := yaml.Marshal(tableDoc{Columns: t.Columns, CellIDs: t.CellIDs, Rows: t.Rows})
	if err != nil {
		return fmt.Errorf("marshal table: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write table %s: %w", path, err)
	}
	return nil
}
