package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tnselect/internal/report"
	"github.com/pdiddy/tnselect/pkg/types"
)

var plothistCmd = &cobra.Command{
	Use:   "plothist [csv...]",
	Short: "Build Wiberg bond order histograms from descriptor CSV files",
	Long: `Plothist reads a column of Wiberg bond orders from one or more CSV files
(typically tri-n-data.csv or tri-n-bonds.csv from generate runs) and writes a
histogram table. Chart rendering is left to external plotting tooling.`,
	RunE: runPlothist,
}

func init() {
	plothistCmd.Flags().Int("column", 0, "zero-based CSV column holding the bond orders")
	plothistCmd.Flags().Float64("min", 2.0, "minimum of the histogram range")
	plothistCmd.Flags().Float64("max", 3.4, "maximum of the histogram range")
	plothistCmd.Flags().Float64("step", 0.1, "bucket width")
	plothistCmd.Flags().String("output", "histogram.txt", "file for the histogram table")

	rootCmd.AddCommand(plothistCmd)
}

func runPlothist(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more CSV files")
	}

	column, _ := cmd.Flags().GetInt("column")
	min, _ := cmd.Flags().GetFloat64("min")
	max, _ := cmd.Flags().GetFloat64("max")
	step, _ := cmd.Flags().GetFloat64("step")
	output, _ := cmd.Flags().GetString("output")

	cfg := types.HistogramConfig{
		Column: column,
		Min:    min,
		Max:    max,
		Step:   step,
		Output: output,
	}

	hist, err := report.NewHistogram(cfg)
	if err != nil {
		return err
	}

	for _, path := range args {
		values, err := report.CollectColumn(path, cfg.Column)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "read %d values from %s\n", len(values), path)
		for _, v := range values {
			hist.Add(v)
		}
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("creating %s: %w", cfg.Output, err)
	}
	hist.FormatTable(f)
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", cfg.Output, err)
	}

	hist.FormatTable(os.Stdout)
	return nil
}
