// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model and stage configurations for
// the tnselect pipeline: annotated input molecules, nitrogen-center
// descriptor records, and per-stage settings.
package types

// BondDescriptor describes one bond from a nitrogen center to a neighbor
// atom. All values come from the external chemistry layer; the core never
// computes them.
type BondDescriptor struct {
	// WibergOrder is the fractional bond-strength estimate for this bond.
	WibergOrder float64 `json:"wiberg_order" msgpack:"wiberg_order"`

	// Length is the bond length in angstroms.
	Length float64 `json:"length" msgpack:"length"`

	// Element is the atomic number of the neighbor atom.
	Element int `json:"element" msgpack:"element"`

	// Connectivity is the number of bonds on the neighbor atom, counting the
	// bond back to the nitrogen center. A terminal neighbor has connectivity 1.
	Connectivity int `json:"connectivity" msgpack:"connectivity"`
}

// Resolvable reports whether the bond carries complete data.
func (b BondDescriptor) Resolvable() bool {
	return b.WibergOrder > 0 && b.Length > 0 && b.Connectivity >= 1
}

// NitrogenCenterRecord aggregates the bonding environment of the single
// qualifying nitrogen center in one molecule. Records are immutable once
// built by the extractor; later stages only read them.
type NitrogenCenterRecord struct {
	// Bonds holds one descriptor per substituent bond, in the order supplied
	// by the chemistry layer. The order is not canonical; the fingerprint
	// sorts its own copy.
	Bonds []BondDescriptor `json:"bonds" msgpack:"bonds"`

	// TotalOrder is the sum of the Wiberg orders over Bonds.
	TotalOrder float64 `json:"total_order" msgpack:"total_order"`

	// TotalAngle is the sum of the bond angles incident at the center, in
	// degrees, supplied as a single scalar by the chemistry layer.
	TotalAngle float64 `json:"total_angle" msgpack:"total_angle"`

	// TotalLength is the sum of the bond lengths over Bonds, in angstroms.
	TotalLength float64 `json:"total_length" msgpack:"total_length"`
}

// NitrogenCenter is one nitrogen atom of an annotated molecule, as classified
// by the chemistry layer.
type NitrogenCenter struct {
	// AtomIndex identifies the atom within the molecule.
	AtomIndex int `json:"atom_index"`

	// Valence is the heavy-atom valence of the nitrogen.
	Valence int `json:"valence"`

	// Invertible is true when the center is geometrically capable of
	// pyramidal inversion (not locked planar by an aromatic ring system).
	Invertible bool `json:"invertible"`

	// AngleSum is the sum of the bond angles incident at this center, in
	// degrees.
	AngleSum float64 `json:"angle_sum"`

	// Bonds lists the substituent bonds of this center. Entries with missing
	// bond-order data are present but not Resolvable.
	Bonds []BondDescriptor `json:"bonds"`
}

// Molecule is an annotated input molecule. The structure itself stays with
// the external chemistry tooling; the pipeline reads only identity, the
// size proxy, and the per-center annotations.
type Molecule struct {
	// ID is the stable molecule identifier.
	ID string `json:"id"`

	// SMILES is the structure string, forwarded verbatim to output files.
	SMILES string `json:"smiles"`

	// SizeProxy is the molecular-size ordering key (e.g. heavy-atom count),
	// treated as an opaque comparable scalar.
	SizeProxy int `json:"size_proxy"`

	// Centers lists the nitrogen atoms found in the molecule.
	Centers []NitrogenCenter `json:"centers"`
}
