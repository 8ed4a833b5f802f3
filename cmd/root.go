package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	logLevel string // Log verbosity level
	seed     int64  // Seed for synthetic generation and clustering

	// Synthetic generator flags, shared by generate and classify --synthetic
	nSamples  int // Number of samples (table rows)
	nClusters int // Number of mixture populations
	nPoints   int // Particles per primary draw
	nDims     int // Velocity dimensions
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "vdfclass",
	Short: "Classify plasma velocity distribution functions by their moments",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// seedFlag returns the --seed value when the user set it, nil otherwise.
func seedFlag(cmd *cobra.Command) *int64 {
	if !cmd.Flags().Changed("seed") {
		return nil
	}
	s := seed
	return &s
}

func addGeneratorFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&nSamples, "samples", 10, "Number of synthetic samples")
	cmd.Flags().IntVar(&nClusters, "clusters", 2, "Number of populations in the synthetic mixture")
	cmd.Flags().IntVar(&nPoints, "points", 100, "Particles per synthetic draw")
	cmd.Flags().IntVar(&nDims, "dims", 1, "Velocity dimensions (1 or 2)")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.AddCommand(momentsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(classifyCmd)
}
