package extract

import (
	"bytes"
	"errors"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/pdiddy/tnselect/pkg/types"
)

func goodBonds() []types.BondDescriptor {
	return []types.BondDescriptor{
		{WibergOrder: 1.01, Length: 1.45, Element: 6, Connectivity: 4},
		{WibergOrder: 1.04, Length: 1.47, Element: 6, Connectivity: 3},
		{WibergOrder: 0.91, Length: 1.01, Element: 1, Connectivity: 1},
	}
}

func qualifyingCenter() types.NitrogenCenter {
	return types.NitrogenCenter{
		Valence:    3,
		Invertible: true,
		AngleSum:   328.5,
		Bonds:      goodBonds(),
	}
}

// --- Extract ---

func TestExtractQualification(t *testing.T) {
	planar := qualifyingCenter()
	planar.Invertible = false
	divalent := qualifyingCenter()
	divalent.Valence = 2

	tests := []struct {
		name    string
		centers []types.NitrogenCenter
		wantRec bool
	}{
		{"exactly one qualifying", []types.NitrogenCenter{qualifyingCenter()}, true},
		{"no nitrogens", nil, false},
		{"two qualifying", []types.NitrogenCenter{qualifyingCenter(), qualifyingCenter()}, false},
		{"planar nitrogen ignored", []types.NitrogenCenter{qualifyingCenter(), planar}, true},
		{"wrong valence ignored", []types.NitrogenCenter{qualifyingCenter(), divalent}, true},
		{"only planar", []types.NitrogenCenter{planar}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mol := &types.Molecule{ID: "mol", Centers: tt.centers}
			rec, err := Extract(mol)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if (rec != nil) != tt.wantRec {
				t.Errorf("Extract() record = %v, want record %v", rec, tt.wantRec)
			}
		})
	}
}

func TestExtractTotals(t *testing.T) {
	mol := &types.Molecule{ID: "mol-1", Centers: []types.NitrogenCenter{qualifyingCenter()}}
	rec, err := Extract(mol)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if rec == nil {
		t.Fatal("Extract() returned no record")
	}

	if got, want := rec.TotalOrder, 1.01+1.04+0.91; math.Abs(got-want) > 1e-12 {
		t.Errorf("TotalOrder = %v, want %v", got, want)
	}
	if got, want := rec.TotalLength, 1.45+1.47+1.01; math.Abs(got-want) > 1e-12 {
		t.Errorf("TotalLength = %v, want %v", got, want)
	}
	if rec.TotalAngle != 328.5 {
		t.Errorf("TotalAngle = %v, want 328.5", rec.TotalAngle)
	}
	if len(rec.Bonds) != 3 {
		t.Errorf("len(Bonds) = %d, want 3", len(rec.Bonds))
	}
}

func TestExtractIncompleteData(t *testing.T) {
	missingBond := qualifyingCenter()
	missingBond.Bonds = missingBond.Bonds[:2]

	missingOrder := qualifyingCenter()
	missingOrder.Bonds[1].WibergOrder = 0

	tests := []struct {
		name   string
		center types.NitrogenCenter
	}{
		{"missing bond record", missingBond},
		{"missing bond order", missingOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mol := &types.Molecule{ID: "bad-mol", Centers: []types.NitrogenCenter{tt.center}}
			rec, err := Extract(mol)
			if rec != nil {
				t.Errorf("Extract() record = %v, want nil", rec)
			}
			var derr *DescriptorError
			if !errors.As(err, &derr) {
				t.Fatalf("Extract() error = %v, want *DescriptorError", err)
			}
			if derr.MoleculeID != "bad-mol" {
				t.Errorf("MoleculeID = %q, want %q", derr.MoleculeID, "bad-mol")
			}
		})
	}
}

// --- ExtractBatch ---

func TestExtractBatchCountsAndOrder(t *testing.T) {
	broken := qualifyingCenter()
	broken.Bonds[0].Length = 0

	mols := []*types.Molecule{
		{ID: "a", Centers: []types.NitrogenCenter{qualifyingCenter()}},
		{ID: "b"}, // no nitrogens: skipped
		{ID: "c", Centers: []types.NitrogenCenter{broken}},
		{ID: "d", Centers: []types.NitrogenCenter{qualifyingCenter()}},
	}

	var buf bytes.Buffer
	result := ExtractBatch(mols, 4, &buf)

	if result.Qualified != 2 || result.Skipped != 1 || result.Failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1",
			result.Qualified, result.Skipped, result.Failed)
	}
	if result.Total() != 4 {
		t.Errorf("Total() = %d, want 4", result.Total())
	}

	// Output order follows input order regardless of worker scheduling.
	var ids []string
	for _, e := range result.Extracted {
		ids = append(ids, e.Molecule.ID)
	}
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "d" {
		t.Errorf("extracted order = %v, want [a d]", ids)
	}

	if !strings.Contains(buf.String(), "warning: molecule c") {
		t.Errorf("batch output = %q, want warning about molecule c", buf.String())
	}
}

func TestExtractBatchEmpty(t *testing.T) {
	result := ExtractBatch(nil, 0, io.Discard)
	if result.Total() != 0 {
		t.Errorf("Total() = %d, want 0", result.Total())
	}
}

func TestSortByTotalOrder(t *testing.T) {
	rec := func(total float64) *types.NitrogenCenterRecord {
		return &types.NitrogenCenterRecord{TotalOrder: total}
	}
	ext := []Extracted{
		{Molecule: &types.Molecule{ID: "z"}, Record: rec(2.9)},
		{Molecule: &types.Molecule{ID: "b"}, Record: rec(2.8)},
		{Molecule: &types.Molecule{ID: "a"}, Record: rec(2.8)},
	}
	SortByTotalOrder(ext)

	var ids []string
	for _, e := range ext {
		ids = append(ids, e.Molecule.ID)
	}
	want := []string{"a", "b", "z"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("order = %v, want %v", ids, want)
		}
	}
}

// --- Drain ---

type sliceSource struct {
	mols []*types.Molecule
	pos  int
}

func (s *sliceSource) Next() (*types.Molecule, error) {
	if s.pos >= len(s.mols) {
		return nil, io.EOF
	}
	mol := s.mols[s.pos]
	s.pos++
	return mol, nil
}

func TestDrain(t *testing.T) {
	src := &sliceSource{mols: []*types.Molecule{{ID: "a"}, {ID: "b"}}}
	mols, err := Drain(src)
	if err != nil {
		t.Fatalf("Drain() error = %v", err)
	}
	if len(mols) != 2 || mols[0].ID != "a" || mols[1].ID != "b" {
		t.Errorf("Drain() = %v, want molecules a, b", mols)
	}
}
