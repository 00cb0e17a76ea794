// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tnselect/internal/report"
	"github.com/pdiddy/tnselect/internal/store"
	"github.com/pdiddy/tnselect/pkg/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Summarize per-bin occupancy of a selection output",
	Long: `Analyze recounts the per-bin SMILES files written by a select run and
writes statistics.txt and chart-data.csv to the output directory. Rendering
the chart itself is left to external plotting tooling.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("select-dir", "select-output", "directory with per-bin SMILES files from a select run")
	analyzeCmd.Flags().String("output-dir", "select-analyze-output", "directory for the analysis output")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	selectDir, _ := cmd.Flags().GetString("select-dir")
	outputDir, _ := cmd.Flags().GetString("output-dir")

	cfg := types.AnalyzeConfig{
		SelectDir: selectDir,
		OutputDir: outputDir,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	counts, err := store.CountSelection(cfg.SelectDir)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		return fmt.Errorf("no bin files found in %s", cfg.SelectDir)
	}

	rep, err := report.FromCounts(counts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := writeReport(rep, cfg.OutputDir); err != nil {
		return err
	}

	rep.FormatStatistics(os.Stdout)
	fmt.Fprintf(os.Stdout, "Analysis written to %s\n", cfg.OutputDir)
	return nil
}
