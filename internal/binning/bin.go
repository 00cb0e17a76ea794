// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package binning groups descriptor records into bins keyed by quantized
// total bond order and fingerprint, and selects representative molecules
// per bin. Binning and selection are two sequential passes over immutable
// data: selection never starts before the whole batch is binned.
package binning

import (
	"math"
	"strconv"

	"github.com/pdiddy/tnselect/internal/fingerprint"
	"github.com/pdiddy/tnselect/pkg/types"
)

// boundaryTolerance absorbs float rounding noise at bucket boundaries, so a
// total order within rounding error of a boundary lands in the upper bucket
// (a total of exactly 3.00 with bin size 0.02 bins at 3.00, never 2.98).
const boundaryTolerance = 1e-9

// Member is one molecule as it flows through binning and selection.
type Member struct {
	MoleculeID string
	SMILES     string
	SizeProxy  int
	Record     *types.NitrogenCenterRecord
}

// Key identifies a bin.
type Key struct {
	// Order is the total bond order floored to a multiple of the bin size.
	Order float64

	// Fingerprint is the canonical fingerprint encoding.
	Fingerprint string
}

// Bin groups the molecules sharing one key. Bins exist only if at least one
// member was inserted; they are never merged or split after creation.
type Bin struct {
	Key   Key
	Label string
	// Members in insertion order. Selection re-sorts its own copy.
	Members []Member
}

// Quantize floors total down to a multiple of binSize.
func Quantize(total, binSize float64) float64 {
	q := total / binSize
	k := math.Floor(q)
	if q-k > 1-boundaryTolerance {
		k++
	}
	return k * binSize
}

// BinAll groups members into bins in a single pass. Assignment depends only
// on each member's record and the two parameters, never on processing order.
func BinAll(members []Member, binSize, precision float64) (map[Key]*Bin, error) {
	if binSize <= 0 {
		return nil, &types.ConfigurationError{Param: "bin-size", Reason: "must be positive"}
	}
	if precision <= 0 {
		return nil, &types.ConfigurationError{Param: "wiberg-precision", Reason: "must be positive"}
	}

	decimals := fingerprint.Decimals(binSize)
	bins := make(map[Key]*Bin)
	for _, m := range members {
		fp := fingerprint.New(m.Record, precision)
		key := Key{
			Order:       Quantize(m.Record.TotalOrder, binSize),
			Fingerprint: fp.String(),
		}
		bin, ok := bins[key]
		if !ok {
			bin = &Bin{
				Key:   key,
				Label: strconv.FormatFloat(key.Order, 'f', decimals, 64) + "," + key.Fingerprint,
			}
			bins[key] = bin
		}
		bin.Members = append(bin.Members, m)
	}
	return bins, nil
}
