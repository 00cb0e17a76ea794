// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tnselect/internal/binning"
	"github.com/pdiddy/tnselect/internal/fingerprint"
	"github.com/pdiddy/tnselect/internal/report"
	"github.com/pdiddy/tnselect/internal/store"
	"github.com/pdiddy/tnselect/pkg/types"
)

var selectCmd = &cobra.Command{
	Use:   "select",
	Short: "Bin descriptor records and keep the smallest molecules per bin",
	Long: `Select loads descriptor stores written by generate runs, groups the
molecules into bins keyed by quantized total Wiberg bond order and bonding
fingerprint, and keeps the smallest molecules of each bin. The output
directory receives one SMILES file per bin, plus statistics.txt and
chart-data.csv.`,
	RunE: runSelect,
}

func init() {
	selectCmd.Flags().StringSlice("input-dirs", nil, "descriptor store directories from generate runs")
	selectCmd.Flags().Float64("bin-size", 0.02, "width of the total bond order buckets")
	selectCmd.Flags().Float64("wiberg-precision", fingerprint.DefaultPrecision, "rounding granularity for fingerprint bond orders")
	selectCmd.Flags().Int("count", binning.DefaultCount, "how many of the smallest molecules to keep per bin")
	selectCmd.Flags().String("output-dir", "select-output", "directory for per-bin SMILES files (must not exist)")

	rootCmd.AddCommand(selectCmd)
}

func runSelect(cmd *cobra.Command, args []string) error {
	inputDirs, _ := cmd.Flags().GetStringSlice("input-dirs")
	binSize, _ := cmd.Flags().GetFloat64("bin-size")
	precision, _ := cmd.Flags().GetFloat64("wiberg-precision")
	count, _ := cmd.Flags().GetInt("count")
	outputDir, _ := cmd.Flags().GetString("output-dir")

	cfg := types.SelectConfig{
		InputDirs:       inputDirs,
		BinSize:         binSize,
		WibergPrecision: precision,
		Count:           count,
		OutputDir:       outputDir,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var members []binning.Member
	for _, dir := range cfg.InputDirs {
		entries, err := store.Load(dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "loaded %d molecules from %s\n", len(entries), dir)
		for _, e := range entries {
			members = append(members, binning.Member{
				MoleculeID: e.MoleculeID,
				SMILES:     e.SMILES,
				SizeProxy:  e.SizeProxy,
				Record:     e.Record,
			})
		}
	}

	bins, err := binning.BinAll(members, cfg.BinSize, cfg.WibergPrecision)
	if err != nil {
		return err
	}
	sel, err := binning.SelectAll(bins, cfg.Count)
	if err != nil {
		return err
	}

	if err := store.WriteSelection(cfg.OutputDir, sel); err != nil {
		return err
	}

	rep := report.Summarize(sel)
	if err := writeReport(rep, cfg.OutputDir); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\n%d molecules selected across %d bins (%d available)\n",
		rep.TotalSelected, len(rep.Bins), rep.TotalAvailable)
	fmt.Fprintf(os.Stdout, "Selection written to %s\n", cfg.OutputDir)
	return nil
}

// writeReport writes statistics.txt and chart-data.csv into dir.
func writeReport(rep *report.Report, dir string) error {
	stats, err := os.Create(filepath.Join(dir, "statistics.txt"))
	if err != nil {
		return fmt.Errorf("creating statistics file: %w", err)
	}
	rep.FormatStatistics(stats)
	if err := stats.Close(); err != nil {
		return fmt.Errorf("closing statistics file: %w", err)
	}

	chart, err := os.Create(filepath.Join(dir, "chart-data.csv"))
	if err != nil {
		return fmt.Errorf("creating chart data file: %w", err)
	}
	if err := rep.WriteChartData(chart); err != nil {
		chart.Close()
		return fmt.Errorf("writing chart data: %w", err)
	}
	return chart.Close()
}
