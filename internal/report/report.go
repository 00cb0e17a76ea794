// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report computes per-bin occupancy statistics over a selection and
// renders them as text tables and chart data. Rendering an actual chart is
// left to external plotting tooling; this package only produces the rows.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pdiddy/tnselect/internal/binning"
)

// BinCount is the occupancy of one bin: how many molecules the selector kept
// versus how many were available before selection.
type BinCount struct {
	Label       string
	Order       float64
	Fingerprint string
	Selected    int
	Available   int
}

// Report holds per-bin counts in a stable order (quantized total order
// ascending, then canonical fingerprint) plus global totals.
type Report struct {
	Bins           []BinCount
	TotalSelected  int
	TotalAvailable int
}

// Summarize builds a report from a selection.
func Summarize(sel *binning.Selection) *Report {
	r := &Report{Bins: make([]BinCount, 0, len(sel.Bins))}
	for _, sb := range sel.Bins {
		bc := BinCount{
			Label:       sb.Bin.Label,
			Order:       sb.Bin.Key.Order,
			Fingerprint: sb.Bin.Key.Fingerprint,
			Selected:    len(sb.Selected),
			Available:   len(sb.Bin.Members),
		}
		r.Bins = append(r.Bins, bc)
		r.TotalSelected += bc.Selected
		r.TotalAvailable += bc.Available
	}
	r.sortBins()
	return r
}

// FromCounts builds a report from bare per-bin counts, keyed by bin label
// ("<order>,<fingerprint>"). This covers re-analysis of a selection output
// directory, where only the kept molecules remain: selected and available
// are then the same number.
func FromCounts(counts map[string]int) (*Report, error) {
	r := &Report{Bins: make([]BinCount, 0, len(counts))}
	for label, n := range counts {
		order, fp, err := parseLabel(label)
		if err != nil {
			return nil, err
		}
		r.Bins = append(r.Bins, BinCount{
			Label:       label,
			Order:       order,
			Fingerprint: fp,
			Selected:    n,
			Available:   n,
		})
		r.TotalSelected += n
		r.TotalAvailable += n
	}
	r.sortBins()
	return r, nil
}

func parseLabel(label string) (float64, string, error) {
	i := strings.IndexByte(label, ',')
	if i < 0 {
		return 0, "", fmt.Errorf("bin label %q: missing order prefix", label)
	}
	order, err := strconv.ParseFloat(label[:i], 64)
	if err != nil {
		return 0, "", fmt.Errorf("bin label %q: %w", label, err)
	}
	return order, label[i+1:], nil
}

func (r *Report) sortBins() {
	sort.Slice(r.Bins, func(i, j int) bool {
		if r.Bins[i].Order != r.Bins[j].Order {
			return r.Bins[i].Order < r.Bins[j].Order
		}
		return r.Bins[i].Fingerprint < r.Bins[j].Fingerprint
	})
}

// Rows returns the per-bin counts in stable order.
func (r *Report) Rows() []BinCount {
	out := make([]BinCount, len(r.Bins))
	copy(out, r.Bins)
	return out
}

// MaxSelected returns the highest selected count across bins, 0 when empty.
func (r *Report) MaxSelected() int {
	max := 0
	for _, b := range r.Bins {
		if b.Selected > max {
			max = b.Selected
		}
	}
	return max
}

// FormatStatistics writes the per-bin occupancy summary as text: the maximum
// occupancy, which bins reach it, and an aligned table of every bin.
func (r *Report) FormatStatistics(w io.Writer) {
	if len(r.Bins) == 0 {
		fmt.Fprintln(w, "No bins.")
		return
	}

	max := r.MaxSelected()
	fmt.Fprintf(w, "Max mols in a bin: %d\n", max)
	fmt.Fprintln(w, "These bin(s) have the max mols:")
	for _, b := range r.Bins {
		if b.Selected == max {
			fmt.Fprintf(w, "  %s\n", b.Label)
		}
	}
	fmt.Fprintln(w)

	labelWidth := 0
	for _, b := range r.Bins {
		if len(b.Label) > labelWidth {
			labelWidth = len(b.Label)
		}
	}
	countWidth := len(strconv.Itoa(max))
	fmt.Fprintln(w, "Bins and number of molecules in each bin:")
	for _, b := range r.Bins {
		fmt.Fprintf(w, "%-*s: %*d\n", labelWidth, b.Label, countWidth, b.Selected)
	}

	fmt.Fprintf(w, "\n%d molecules selected across %d bins (%d available)\n",
		r.TotalSelected, len(r.Bins), r.TotalAvailable)
}

// WriteChartData writes (bin, selected, available) CSV rows in stable order,
// suitable for direct rendering as a bar chart by external tooling.
func (r *Report) WriteChartData(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"bin", "selected", "available"}); err != nil {
		return err
	}
	for _, b := range r.Bins {
		row := []string{b.Label, strconv.Itoa(b.Selected), strconv.Itoa(b.Available)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
