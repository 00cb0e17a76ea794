// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"bufio"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/tnselect/pkg/types"
)

// totalTolerance is the allowed drift between the CSV total order and the
// sum recomputed from the serialized record.
const totalTolerance = 1e-9

// AlignmentError reports that the files of a store directory disagree about
// row alignment. It is fatal: a misaligned store cannot be trusted.
type AlignmentError struct {
	Dir    string
	Detail string
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("store %s is misaligned: %s", e.Dir, e.Detail)
}

// Load reads a store directory back into memory. Every file is cross-checked
// against the others: row counts must agree, molecule IDs must match by row,
// and per-bond rows must reference their owning molecule's row index.
func Load(dir string) ([]Entry, error) {
	smiles, ids, err := readMols(filepath.Join(dir, molsFile))
	if err != nil {
		return nil, err
	}

	totals, err := readData(filepath.Join(dir, dataFile))
	if err != nil {
		return nil, err
	}
	if len(totals) != len(ids) {
		return nil, &AlignmentError{Dir: dir, Detail: fmt.Sprintf(
			"%s has %d rows, %s has %d molecules", dataFile, len(totals), molsFile, len(ids))}
	}

	bondCounts, err := readBonds(filepath.Join(dir, bondsFile), len(ids))
	if err != nil {
		var ae *AlignmentError
		if errors.As(err, &ae) {
			ae.Dir = dir
		}
		return nil, err
	}

	entries, err := readDB(filepath.Join(dir, dbFile))
	if err != nil {
		return nil, err
	}
	if len(entries) != len(ids) {
		return nil, &AlignmentError{Dir: dir, Detail: fmt.Sprintf(
			"%s has %d records, %s has %d molecules", dbFile, len(entries), molsFile, len(ids))}
	}

	for i := range entries {
		if entries[i].MoleculeID != ids[i] {
			return nil, &AlignmentError{Dir: dir, Detail: fmt.Sprintf(
				"row %d: %s has %q, %s has %q", i, dbFile, entries[i].MoleculeID, molsFile, ids[i])}
		}
		entries[i].SMILES = smiles[i]
		if got := len(entries[i].Record.Bonds); got != bondCounts[i] {
			return nil, &AlignmentError{Dir: dir, Detail: fmt.Sprintf(
				"molecule %d: record has %d bonds, %s has %d rows", i, got, bondsFile, bondCounts[i])}
		}
		if math.Abs(entries[i].Record.TotalOrder-totals[i]) > totalTolerance {
			return nil, &AlignmentError{Dir: dir, Detail: fmt.Sprintf(
				"molecule %d: record total order %g, %s has %g",
				i, entries[i].Record.TotalOrder, dataFile, totals[i])}
		}
	}
	return entries, nil
}

// ReadManifest reads the run manifest of a store directory.
func ReadManifest(dir string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return Manifest{}, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parsing manifest: %w", err)
	}
	return m, nil
}

func readMols(path string) (smiles, ids []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, nil, fmt.Errorf("%s:%d: want \"SMILES id\", got %q", path, line, text)
		}
		smiles = append(smiles, fields[0])
		ids = append(ids, fields[1])
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return smiles, ids, nil
}

func readData(path string) ([]float64, error) {
	rows, err := readCSV(path, 3)
	if err != nil {
		return nil, err
	}
	totals := make([]float64, 0, len(rows))
	for i, row := range rows {
		v, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		totals = append(totals, v)
	}
	return totals, nil
}

// readBonds counts bond rows per molecule index, verifying every reference
// is in range and references never go backwards.
func readBonds(path string, molecules int) ([]int, error) {
	rows, err := readCSV(path, 4)
	if err != nil {
		return nil, err
	}
	counts := make([]int, molecules)
	prev := 0
	for i, row := range rows {
		idx, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		if idx < 0 || idx >= molecules {
			return nil, &AlignmentError{Detail: fmt.Sprintf(
				"%s row %d references molecule %d of %d", bondsFile, i+1, idx, molecules)}
		}
		if idx < prev {
			return nil, &AlignmentError{Detail: fmt.Sprintf(
				"%s row %d references molecule %d after molecule %d", bondsFile, i+1, idx, prev)}
		}
		prev = idx
		counts[idx]++
	}
	return counts, nil
}

func readDB(path string) ([]Entry, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT idx, id, smiles, size_proxy, record FROM molecules ORDER BY idx`)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", path, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			idx  int
			e    Entry
			blob []byte
		)
		if err := rows.Scan(&idx, &e.MoleculeID, &e.SMILES, &e.SizeProxy, &blob); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", path, err)
		}
		if idx != len(entries) {
			return nil, &AlignmentError{Dir: filepath.Dir(path), Detail: fmt.Sprintf(
				"%s has gap: row %d holds index %d", dbFile, len(entries), idx)}
		}
		var rec types.NitrogenCenterRecord
		if err := msgpack.Unmarshal(blob, &rec); err != nil {
			return nil, fmt.Errorf("decoding record %s: %w", e.MoleculeID, err)
		}
		e.Record = &rec
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return entries, nil
}

func readCSV(path string, fields int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = fields

	// Header row.
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		rows = append(rows, row)
	}
}
