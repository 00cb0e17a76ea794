// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/tnselect/internal/binning"
)

// WriteSelection writes one SMILES file per bin into dir, named after the
// bin label ("<order>,<fingerprint>.smi"). The directory must not already
// exist; a selection is never mixed into previous output.
func WriteSelection(dir string, sel *binning.Selection) error {
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("output directory %s already exists", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, sb := range sel.Bins {
		path := filepath.Join(dir, sb.Bin.Label+".smi")
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating %s: %w", path, err)
		}
		for _, m := range sb.Selected {
			if _, err := fmt.Fprintf(f, "%s %s\n", m.SMILES, m.MoleculeID); err != nil {
				f.Close()
				return fmt.Errorf("writing %s: %w", path, err)
			}
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("closing %s: %w", path, err)
		}
	}
	return nil
}

// CountSelection counts molecules per bin file in a selection output
// directory, keyed by bin label.
func CountSelection(dir string) (map[string]int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading selection directory: %w", err)
	}

	counts := make(map[string]int)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".smi" {
			continue
		}
		label := entry.Name()[:len(entry.Name())-len(".smi")]
		smiles, _, err := readMols(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		counts[label] = len(smiles)
	}
	return counts, nil
}
