package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/vdfclass/vdf"
	"github.com/inference-sim/vdfclass/vdf/moments"
)

var (
	sourceFile  string // Simulation output file
	species     string // Particle species
	cellIDs     []uint // Explicit cell selection
	tableOutput string // Optional YAML output path
)

// momentsCmd extracts the (n, v, p) moment table from a simulation file
var momentsCmd = &cobra.Command{
	Use:   "moments",
	Short: "Extract density, bulk speed and pressure for every cell with a VDF",
	Run: func(cmd *cobra.Command, args []string) {
		if sourceFile == "" {
			logrus.Fatalf("--file is required")
		}
		table, err := moments.CollectMoments(sourceFile, momentOptions()...)
		if err != nil {
			logrus.Fatalf("Failed to extract moments from %s: %v", sourceFile, err)
		}
		printTable(os.Stdout, table)
		if tableOutput != "" {
			if err := saveTable(tableOutput, table); err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Infof("Moment table written to %s", tableOutput)
		}
	},
}

func momentOptions() []moments.Option {
	opts := []moments.Option{moments.WithSpecies(species)}
	if len(cellIDs) > 0 {
		ids := make([]vdf.CellID, len(cellIDs))
		for i, id := range cellIDs {
			ids[i] = vdf.CellID(id)
		}
		opts = append(opts, moments.WithCells(ids...))
	}
	return opts
}

func init() {
	momentsCmd.Flags().StringVar(&sourceFile, "file", "", "Simulation output file (.vlsv, FLEKS .out/amrex, or snapshot .yaml[.zst])")
	momentsCmd.Flags().StringVar(&species, "species", moments.DefaultSpecies, "Particle species")
	momentsCmd.Flags().UintSliceVar(&cellIDs, "cells", nil, "Comma-separated cell ids (default: every cell with a VDF)")
	momentsCmd.Flags().StringVar(&tableOutput, "output", "", "Write the moment table as YAML to this path")
}
