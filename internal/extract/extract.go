// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract classifies annotated molecules and builds nitrogen-center
// descriptor records. A molecule qualifies when it carries exactly one
// invertible nitrogen with heavy-atom valence 3 and complete bond data for
// all three substituent bonds. Everything chemical (orders, lengths, angles,
// invertibility, connectivity) is supplied by the external chemistry layer;
// extraction only counts, validates, and aggregates.
package extract

import (
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"

	"github.com/pdiddy/tnselect/pkg/types"
)

// centerValence is the heavy-atom valence a qualifying nitrogen must have.
const centerValence = 3

// DescriptorError reports incomplete bonding data on an otherwise-qualifying
// nitrogen center. It is recoverable: the molecule is skipped and the batch
// continues.
type DescriptorError struct {
	MoleculeID string
	Reason     string
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("molecule %s: %s", e.MoleculeID, e.Reason)
}

// Source yields annotated molecules from the chemistry layer. Next returns
// io.EOF once the source is exhausted.
type Source interface {
	Next() (*types.Molecule, error)
}

// Extract builds the descriptor record for a molecule. It returns (nil, nil)
// when the molecule does not qualify — zero or several candidate centers is
// an expected filtering outcome, not an error. A qualifying center with
// unresolvable bond data yields a *DescriptorError.
func Extract(mol *types.Molecule) (*types.NitrogenCenterRecord, error) {
	var center *types.NitrogenCenter
	qualifying := 0
	for i := range mol.Centers {
		c := &mol.Centers[i]
		if c.Valence == centerValence && c.Invertible {
			qualifying++
			center = c
		}
	}
	if qualifying != 1 {
		return nil, nil
	}

	if len(center.Bonds) != centerValence {
		return nil, &DescriptorError{
			MoleculeID: mol.ID,
			Reason: fmt.Sprintf("nitrogen center has %d bond records, want %d",
				len(center.Bonds), centerValence),
		}
	}

	rec := &types.NitrogenCenterRecord{
		Bonds:      make([]types.BondDescriptor, len(center.Bonds)),
		TotalAngle: center.AngleSum,
	}
	for i, b := range center.Bonds {
		if !b.Resolvable() {
			return nil, &DescriptorError{
				MoleculeID: mol.ID,
				Reason:     fmt.Sprintf("bond %d to element %d has incomplete data", i, b.Element),
			}
		}
		rec.Bonds[i] = b
		rec.TotalOrder += b.WibergOrder
		rec.TotalLength += b.Length
	}
	return rec, nil
}

// Extracted pairs a qualifying molecule with its descriptor record.
type Extracted struct {
	Molecule *types.Molecule
	Record   *types.NitrogenCenterRecord
}

// BatchResult holds the outcome of a batch extraction run.
type BatchResult struct {
	Extracted []Extracted
	Qualified int
	Skipped   int
	Failed    int
}

// Total returns the number of molecules processed.
func (r BatchResult) Total() int {
	return r.Qualified + r.Skipped + r.Failed
}

// ExtractBatch extracts descriptor records from mols using a pool of
// workers. Extraction has no cross-molecule state, so molecules are
// processed concurrently; results are collected by input index, which keeps
// the output in input order regardless of scheduling. A failure for one
// molecule is reported on w and never aborts the others. workers <= 0
// selects one worker per CPU.
func ExtractBatch(mols []*types.Molecule, workers int, w io.Writer) BatchResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(mols) {
		workers = len(mols)
	}

	type outcome struct {
		rec *types.NitrogenCenterRecord
		err error
	}
	outcomes := make([]outcome, len(mols))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				rec, err := Extract(mols[idx])
				outcomes[idx] = outcome{rec: rec, err: err}
			}
		}()
	}
	for idx := range mols {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	var result BatchResult
	for idx, mol := range mols {
		o := outcomes[idx]
		switch {
		case o.err != nil:
			fmt.Fprintf(w, "warning: %v\n", o.err)
			result.Failed++
		case o.rec == nil:
			result.Skipped++
		default:
			result.Extracted = append(result.Extracted, Extracted{Molecule: mol, Record: o.rec})
			result.Qualified++
		}
	}
	return result
}

// SortByTotalOrder orders extracted records by total Wiberg bond order
// ascending, breaking ties by molecule ID for determinism.
func SortByTotalOrder(ext []Extracted) {
	sort.Slice(ext, func(i, j int) bool {
		if ext[i].Record.TotalOrder != ext[j].Record.TotalOrder {
			return ext[i].Record.TotalOrder < ext[j].Record.TotalOrder
		}
		return ext[i].Molecule.ID < ext[j].Molecule.ID
	})
}

// Drain reads all molecules from src.
func Drain(src Source) ([]*types.Molecule, error) {
	var mols []*types.Molecule
	for {
		mol, err := src.Next()
		if err == io.EOF {
			return mols, nil
		}
		if err != nil {
			return nil, err
		}
		mols = append(mols, mol)
	}
}
