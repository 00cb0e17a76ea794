// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fingerprint builds canonical, order-independent summaries of the
// bonding environment around a nitrogen center. Two records whose bonds are
// permutations of each other always produce the same fingerprint.
package fingerprint

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/tnselect/pkg/types"
)

// DefaultPrecision is the granularity to which Wiberg bond orders are
// rounded inside fingerprints: snap to the nearest 0.05.
const DefaultPrecision = 0.05

// boundaryTolerance absorbs float rounding noise when a value divided by the
// precision lands within error of an integer boundary.
const boundaryTolerance = 1e-9

// Component is one bond's contribution to a fingerprint: the neighbor
// element, its connectivity, and the snapped Wiberg order.
type Component struct {
	Element      int
	Connectivity int
	Order        float64
}

// Fingerprint is a canonical multiset of bond components. The zero value is
// an empty fingerprint.
type Fingerprint struct {
	components []Component
	decimals   int
}

// New builds the fingerprint of a record. Each bond's Wiberg order is
// snapped to the nearest multiple of precision (half-up at the midpoint),
// and the resulting (element, connectivity, order) triples are sorted so the
// input bond order never influences the result.
func New(rec *types.NitrogenCenterRecord, precision float64) Fingerprint {
	comps := make([]Component, 0, len(rec.Bonds))
	for _, b := range rec.Bonds {
		comps = append(comps, Component{
			Element:      b.Element,
			Connectivity: b.Connectivity,
			Order:        Snap(b.WibergOrder, precision),
		})
	}
	sort.Slice(comps, func(i, j int) bool {
		a, b := comps[i], comps[j]
		if a.Element != b.Element {
			return a.Element < b.Element
		}
		if a.Connectivity != b.Connectivity {
			return a.Connectivity < b.Connectivity
		}
		return a.Order < b.Order
	})
	return Fingerprint{components: comps, decimals: Decimals(precision)}
}

// Components returns a copy of the sorted components.
func (f Fingerprint) Components() []Component {
	out := make([]Component, len(f.components))
	copy(out, f.components)
	return out
}

// String renders the canonical encoding, one "#<element>x<connectivity>(<order>)"
// token per component in sorted order. The string doubles as the hash key
// and as the fingerprint part of bin filenames.
func (f Fingerprint) String() string {
	var b strings.Builder
	for _, c := range f.components {
		fmt.Fprintf(&b, "#%dx%d(%s)", c.Element, c.Connectivity,
			strconv.FormatFloat(c.Order, 'f', f.decimals, 64))
	}
	return b.String()
}

// Snap rounds v to the nearest multiple of precision, half-up. A value whose
// quotient sits within rounding error below an integer boundary is treated
// as being on the boundary.
func Snap(v, precision float64) float64 {
	q := v/precision + 0.5
	k := math.Floor(q)
	if q-k > 1-boundaryTolerance {
		k++
	}
	return k * precision
}

// Decimals returns the number of fractional digits needed to print a
// multiple of step without loss (e.g. 2 for step 0.05, 1 for 0.1, 0 for 1).
func Decimals(step float64) int {
	s := strconv.FormatFloat(step, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}
