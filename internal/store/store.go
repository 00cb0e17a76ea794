// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists qualifying molecules and their descriptor records
// across pipeline runs. A store directory holds a SMILES file, two CSV files
// for inspection, a SQLite database with the full serialized records, and a
// run manifest. Row i of every tabular file corresponds to molecule i of the
// SMILES file; that alignment is a hard correctness invariant, checked on
// load.
package store

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/vmihailenco/msgpack/v5"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/tnselect/pkg/types"
)

const (
	molsFile     = "mols.smi"
	dataFile     = "tri-n-data.csv"
	bondsFile    = "tri-n-bonds.csv"
	dbFile       = "records.db"
	manifestFile = "manifest.yaml"
)

// Entry is one qualifying molecule as persisted in a store.
type Entry struct {
	MoleculeID string
	SMILES     string
	SizeProxy  int
	Record     *types.NitrogenCenterRecord
}

// Manifest records how a store was produced.
type Manifest struct {
	CreatedAt time.Time `yaml:"created_at"`
	Inputs    []string  `yaml:"inputs"`
	Molecules int       `yaml:"molecules"`
	Workers   int       `yaml:"workers"`
}

// Write persists entries to dir, creating it if needed. Entries are written
// in the given order; that order defines the row alignment every other file
// shares.
func Write(dir string, entries []Entry, manifest Manifest) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}

	if err := writeMols(filepath.Join(dir, molsFile), entries); err != nil {
		return err
	}
	if err := writeData(filepath.Join(dir, dataFile), entries); err != nil {
		return err
	}
	if err := writeBonds(filepath.Join(dir, bondsFile), entries); err != nil {
		return err
	}
	if err := writeDB(filepath.Join(dir, dbFile), entries); err != nil {
		return err
	}

	manifest.Molecules = len(entries)
	data, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

func writeMols(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	for _, e := range entries {
		if _, err := fmt.Fprintf(f, "%s %s\n", e.SMILES, e.MoleculeID); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return f.Close()
}

func writeData(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"total_wiberg_order", "total_bond_angle", "total_bond_length"}); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{
			formatFloat(e.Record.TotalOrder),
			formatFloat(e.Record.TotalAngle),
			formatFloat(e.Record.TotalLength),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func writeBonds(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"wiberg_order", "bond_length", "element", "mol_index"}); err != nil {
		return err
	}
	for i, e := range entries {
		for _, b := range e.Record.Bonds {
			row := []string{
				formatFloat(b.WibergOrder),
				formatFloat(b.Length),
				strconv.Itoa(b.Element),
				strconv.Itoa(i),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func writeDB(path string, entries []Entry) error {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS molecules (
		idx INTEGER PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		smiles TEXT NOT NULL,
		size_proxy INTEGER NOT NULL,
		record BLOB NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO molecules (idx, id, smiles, size_proxy, record) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		blob, err := msgpack.Marshal(e.Record)
		if err != nil {
			return fmt.Errorf("encoding record %s: %w", e.MoleculeID, err)
		}
		if _, err := stmt.Exec(i, e.MoleculeID, e.SMILES, e.SizeProxy, blob); err != nil {
			return fmt.Errorf("inserting record %s: %w", e.MoleculeID, err)
		}
	}
	return tx.Commit()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
