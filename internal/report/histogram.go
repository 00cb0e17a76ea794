// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/pdiddy/tnselect/internal/fingerprint"
	"github.com/pdiddy/tnselect/pkg/types"
)

// Histogram counts Wiberg bond orders into fixed-width buckets between Min
// and Max. Values outside the range are tallied separately so nothing is
// silently dropped.
type Histogram struct {
	Min, Max, Step float64
	Counts         []int
	Under, Over    int
	Total          int
}

// NewHistogram builds an empty histogram. The last bucket absorbs the
// remainder when the range is not an exact multiple of step.
func NewHistogram(cfg types.HistogramConfig) (*Histogram, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	// Rounding noise in the division must not produce a spurious extra
	// bucket when the range is an exact multiple of step.
	n := int(math.Ceil((cfg.Max-cfg.Min)/cfg.Step - 1e-9))
	return &Histogram{
		Min:    cfg.Min,
		Max:    cfg.Max,
		Step:   cfg.Step,
		Counts: make([]int, n),
	}, nil
}

// Add tallies one value. Buckets are half-open [lo, hi); the final bucket
// includes Max itself.
func (h *Histogram) Add(v float64) {
	h.Total++
	switch {
	case v < h.Min:
		h.Under++
	case v > h.Max:
		h.Over++
	default:
		i := int((v - h.Min) / h.Step)
		if i >= len(h.Counts) {
			i = len(h.Counts) - 1
		}
		h.Counts[i]++
	}
}

// FormatTable writes the bucket counts as an aligned text table.
func (h *Histogram) FormatTable(w io.Writer) {
	decimals := fingerprint.Decimals(h.Step)
	countWidth := 1
	for _, c := range h.Counts {
		if width := len(strconv.Itoa(c)); width > countWidth {
			countWidth = width
		}
	}

	fmt.Fprintln(w, "Wiberg bond order histogram")
	if h.Under > 0 {
		fmt.Fprintf(w, "       < %s : %*d\n", format(h.Min, decimals), countWidth, h.Under)
	}
	for i, c := range h.Counts {
		lo := h.Min + float64(i)*h.Step
		hi := lo + h.Step
		if hi > h.Max {
			hi = h.Max
		}
		fmt.Fprintf(w, "%s - %s : %*d\n", format(lo, decimals), format(hi, decimals), countWidth, c)
	}
	if h.Over > 0 {
		fmt.Fprintf(w, "       > %s : %*d\n", format(h.Max, decimals), countWidth, h.Over)
	}
	fmt.Fprintf(w, "\n%d values\n", h.Total)
}

func format(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

// CollectColumn reads one float column from a CSV file, skipping a header
// row when the column does not parse as a number.
func CollectColumn(path string, col int) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var values []float64
	row := 0
	for {
		fields, err := r.Read()
		if err == io.EOF {
			return values, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		row++
		if col >= len(fields) {
			return nil, fmt.Errorf("%s row %d: no column %d", path, row, col)
		}
		v, err := strconv.ParseFloat(fields[col], 64)
		if err != nil {
			if row == 1 {
				continue // header
			}
			return nil, fmt.Errorf("%s row %d: %w", path, row, err)
		}
		values = append(values, v)
	}
}
