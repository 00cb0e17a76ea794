// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package binning

import (
	"sort"

	"github.com/pdiddy/tnselect/pkg/types"
)

// DefaultCount is how many molecules are kept per bin by default.
const DefaultCount = 5

// SelectedBin pairs a bin with the molecules kept from it.
type SelectedBin struct {
	Bin      *Bin
	Selected []Member
}

// Selection is the outcome of selecting over all bins of a batch. Bins are
// ordered by quantized total order, then by fingerprint, so iteration is
// stable across runs.
type Selection struct {
	Count int
	Bins  []SelectedBin
}

// Select returns up to n members of the bin, smallest first: primary key is
// the size proxy ascending, ties break on molecule ID ascending. When the
// bin holds n or fewer members the whole bin is returned. The bin itself is
// left untouched.
func Select(bin *Bin, n int) ([]Member, error) {
	if n <= 0 {
		return nil, &types.ConfigurationError{Param: "count", Reason: "must be positive"}
	}
	ordered := make([]Member, len(bin.Members))
	copy(ordered, bin.Members)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].SizeProxy != ordered[j].SizeProxy {
			return ordered[i].SizeProxy < ordered[j].SizeProxy
		}
		return ordered[i].MoleculeID < ordered[j].MoleculeID
	})
	if n < len(ordered) {
		ordered = ordered[:n]
	}
	return ordered, nil
}

// SelectAll runs selection over every bin. The count is validated once,
// before any bin is processed.
func SelectAll(bins map[Key]*Bin, n int) (*Selection, error) {
	if n <= 0 {
		return nil, &types.ConfigurationError{Param: "count", Reason: "must be positive"}
	}

	sel := &Selection{Count: n, Bins: make([]SelectedBin, 0, len(bins))}
	for _, bin := range bins {
		kept, err := Select(bin, n)
		if err != nil {
			return nil, err
		}
		sel.Bins = append(sel.Bins, SelectedBin{Bin: bin, Selected: kept})
	}
	sort.Slice(sel.Bins, func(i, j int) bool {
		a, b := sel.Bins[i].Bin.Key, sel.Bins[j].Bin.Key
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Fingerprint < b.Fingerprint
	})
	return sel, nil
}
