package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/tnselect/internal/extract"
	"github.com/pdiddy/tnselect/internal/oracle"
	"github.com/pdiddy/tnselect/internal/store"
	"github.com/pdiddy/tnselect/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate [annotations.jsonl...]",
	Short: "Extract nitrogen-center descriptor records from annotated molecules",
	Long: `Generate reads annotated-molecule files (JSON Lines, produced by external
chemistry tooling), keeps the molecules with exactly one invertible trivalent
nitrogen and complete bond data, and writes a descriptor store: mols.smi,
tri-n-data.csv, tri-n-bonds.csv, records.db, and manifest.yaml. Molecules are
ordered by total Wiberg bond order.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("output-dir", "generate-output", "directory for the descriptor store")
	generateCmd.Flags().Int("workers", 0, "extraction workers (default: one per CPU)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more annotation files")
	}

	outputDir, _ := cmd.Flags().GetString("output-dir")
	workers, _ := cmd.Flags().GetInt("workers")

	cfg := types.GenerateConfig{
		OutputDir: outputDir,
		Workers:   workers,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var mols []*types.Molecule
	for _, path := range args {
		src, err := oracle.Open(path)
		if err != nil {
			return err
		}
		batch, err := extract.Drain(src)
		src.Close()
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "read %d molecules from %s\n", len(batch), path)
		mols = append(mols, batch...)
	}

	result := extract.ExtractBatch(mols, cfg.Workers, os.Stdout)
	extract.SortByTotalOrder(result.Extracted)

	entries := make([]store.Entry, len(result.Extracted))
	for i, ext := range result.Extracted {
		entries[i] = store.Entry{
			MoleculeID: ext.Molecule.ID,
			SMILES:     ext.Molecule.SMILES,
			SizeProxy:  ext.Molecule.SizeProxy,
			Record:     ext.Record,
		}
	}

	manifest := store.Manifest{
		CreatedAt: time.Now().UTC(),
		Inputs:    args,
		Workers:   cfg.Workers,
	}
	if err := store.Write(cfg.OutputDir, entries, manifest); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\n%d qualified, %d skipped, %d failed (total: %d)\n",
		result.Qualified, result.Skipped, result.Failed, result.Total())
	fmt.Fprintf(os.Stdout, "Descriptor store written to %s\n", cfg.OutputDir)
	return nil
}
