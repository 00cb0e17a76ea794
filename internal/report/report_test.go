package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/tnselect/internal/binning"
	"github.com/pdiddy/tnselect/pkg/types"
)

func selection() *binning.Selection {
	mk := func(label string, order float64, fp string, avail, kept int) binning.SelectedBin {
		bin := &binning.Bin{
			Key:   binning.Key{Order: order, Fingerprint: fp},
			Label: label,
		}
		for i := 0; i < avail; i++ {
			bin.Members = append(bin.Members, binning.Member{MoleculeID: "m"})
		}
		return binning.SelectedBin{Bin: bin, Selected: bin.Members[:kept]}
	}
	return &binning.Selection{
		Count: 2,
		Bins: []binning.SelectedBin{
			mk("2.80,#6x3(0.95)", 2.80, "#6x3(0.95)", 5, 2),
			mk("3.10,#6x3(1.05)", 3.10, "#6x3(1.05)", 1, 1),
		},
	}
}

func TestSummarize(t *testing.T) {
	r := Summarize(selection())

	if r.TotalSelected != 3 || r.TotalAvailable != 6 {
		t.Errorf("totals = %d/%d, want 3/6", r.TotalSelected, r.TotalAvailable)
	}
	rows := r.Rows()
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].Label != "2.80,#6x3(0.95)" || rows[0].Selected != 2 || rows[0].Available != 5 {
		t.Errorf("rows[0] = %+v", rows[0])
	}
	if r.MaxSelected() != 2 {
		t.Errorf("MaxSelected() = %d, want 2", r.MaxSelected())
	}
}

func TestFromCounts(t *testing.T) {
	r, err := FromCounts(map[string]int{
		"3.10,#6x3(1.05)": 1,
		"2.80,#6x3(0.95)": 4,
	})
	if err != nil {
		t.Fatalf("FromCounts() error = %v", err)
	}

	rows := r.Rows()
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if rows[0].Order != 2.80 || rows[0].Fingerprint != "#6x3(0.95)" {
		t.Errorf("rows[0] = %+v, want order 2.80 first", rows[0])
	}
	if rows[0].Selected != 4 || rows[0].Available != 4 {
		t.Errorf("rows[0] counts = %d/%d, want 4/4", rows[0].Selected, rows[0].Available)
	}
}

func TestFromCountsBadLabel(t *testing.T) {
	if _, err := FromCounts(map[string]int{"nocomma": 1}); err == nil {
		t.Error("FromCounts() error = nil, want missing order prefix error")
	}
	if _, err := FromCounts(map[string]int{"abc,#6x3(0.95)": 1}); err == nil {
		t.Error("FromCounts() error = nil, want parse error")
	}
}

func TestFormatStatistics(t *testing.T) {
	var buf bytes.Buffer
	Summarize(selection()).FormatStatistics(&buf)
	out := buf.String()

	for _, want := range []string{
		"Max mols in a bin: 2",
		"These bin(s) have the max mols:",
		"  2.80,#6x3(0.95)",
		"2.80,#6x3(0.95): 2",
		"3.10,#6x3(1.05): 1",
		"3 molecules selected across 2 bins (6 available)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "  3.10,#6x3(1.05)\n") {
		t.Errorf("non-max bin listed among max bins:\n%s", out)
	}
}

func TestFormatStatisticsEmpty(t *testing.T) {
	var buf bytes.Buffer
	(&Report{}).FormatStatistics(&buf)
	if got := buf.String(); got != "No bins.\n" {
		t.Errorf("output = %q, want %q", got, "No bins.\n")
	}
}

func TestWriteChartData(t *testing.T) {
	var buf bytes.Buffer
	if err := Summarize(selection()).WriteChartData(&buf); err != nil {
		t.Fatalf("WriteChartData() error = %v", err)
	}

	want := "bin,selected,available\n" +
		"\"2.80,#6x3(0.95)\",2,5\n" +
		"\"3.10,#6x3(1.05)\",1,1\n"
	if got := buf.String(); got != want {
		t.Errorf("chart data = %q, want %q", got, want)
	}
}

func TestHistogramBuckets(t *testing.T) {
	h, err := NewHistogram(types.HistogramConfig{Min: 2.0, Max: 2.4, Step: 0.1, Output: "h.txt"})
	if err != nil {
		t.Fatalf("NewHistogram() error = %v", err)
	}
	if len(h.Counts) != 4 {
		t.Fatalf("len(Counts) = %d, want 4", len(h.Counts))
	}

	for _, v := range []float64{1.9, 2.0, 2.05, 2.1, 2.35, 2.4, 2.5} {
		h.Add(v)
	}

	if h.Under != 1 || h.Over != 1 {
		t.Errorf("under/over = %d/%d, want 1/1", h.Under, h.Over)
	}
	if got, want := h.Counts, []int{2, 1, 0, 2}; !equalInts(got, want) {
		t.Errorf("Counts = %v, want %v", got, want)
	}
	if h.Total != 7 {
		t.Errorf("Total = %d, want 7", h.Total)
	}
}

func TestHistogramFormatTable(t *testing.T) {
	h, err := NewHistogram(types.HistogramConfig{Min: 2.0, Max: 2.2, Step: 0.1, Output: "h.txt"})
	if err != nil {
		t.Fatalf("NewHistogram() error = %v", err)
	}
	h.Add(2.05)
	h.Add(2.15)
	h.Add(2.16)
	h.Add(3.0)

	var buf bytes.Buffer
	h.FormatTable(&buf)
	out := buf.String()

	for _, want := range []string{
		"2.0 - 2.1 : 1",
		"2.1 - 2.2 : 2",
		"> 2.2 : 1",
		"4 values",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "< 2.0") {
		t.Errorf("table shows empty underflow row:\n%s", out)
	}
}

func TestCollectColumn(t *testing.T) {
	path := writeTemp(t, "order,angle\n0.95,120.1\n1.05,118.2\n")

	values, err := CollectColumn(path, 0)
	if err != nil {
		t.Fatalf("CollectColumn() error = %v", err)
	}
	if got, want := values, []float64{0.95, 1.05}; !equalFloats(got, want) {
		t.Errorf("values = %v, want %v", got, want)
	}
}

func TestCollectColumnNoHeader(t *testing.T) {
	path := writeTemp(t, "0.95,120.1\n1.05,118.2\n")

	values, err := CollectColumn(path, 1)
	if err != nil {
		t.Fatalf("CollectColumn() error = %v", err)
	}
	if got, want := values, []float64{120.1, 118.2}; !equalFloats(got, want) {
		t.Errorf("values = %v, want %v", got, want)
	}
}

func TestCollectColumnErrors(t *testing.T) {
	if _, err := CollectColumn(writeTemp(t, "0.95\n"), 3); err == nil {
		t.Error("CollectColumn() error = nil, want missing column error")
	}
	if _, err := CollectColumn(writeTemp(t, "0.95\nbad\n"), 0); err == nil {
		t.Error("CollectColumn() error = nil, want parse error past header row")
	}
}

func writeTemp(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "column.csv")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
