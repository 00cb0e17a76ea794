// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package oracle reads annotated-molecule files produced by the external
// chemistry tooling. Each input is a JSON Lines file, one molecule per line,
// carrying everything the pipeline is not allowed to compute itself: Wiberg
// bond orders, bond lengths, angle sums, neighbor connectivity, per-atom
// invertibility classification, and the molecular size proxy.
package oracle

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/tnselect/pkg/types"
)

// maxLineBytes bounds a single annotation line. Large molecules stay well
// under this.
const maxLineBytes = 4 * 1024 * 1024

// FileSource streams molecules from one annotations file. It implements
// extract.Source.
type FileSource struct {
	path string
	f    *os.File
	sc   *bufio.Scanner
	line int
}

// Open opens an annotations file for streaming.
func Open(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening annotations file: %w", err)
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &FileSource{path: path, f: f, sc: sc}, nil
}

// Next returns the next molecule, or io.EOF once the file is exhausted.
// Blank lines are skipped; a malformed line fails with its line number.
func (s *FileSource) Next() (*types.Molecule, error) {
	for s.sc.Scan() {
		s.line++
		data := s.sc.Bytes()
		if len(data) == 0 {
			continue
		}
		var mol types.Molecule
		if err := json.Unmarshal(data, &mol); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", s.path, s.line, err)
		}
		if mol.ID == "" {
			return nil, fmt.Errorf("%s:%d: molecule has no id", s.path, s.line)
		}
		return &mol, nil
	}
	if err := s.sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	return nil, io.EOF
}

// Close releases the underlying file.
func (s *FileSource) Close() error {
	return s.f.Close()
}
