// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// GenerateConfig holds settings for the generate stage.
type GenerateConfig struct {
	// OutputDir is the directory for the descriptor store
	// (mols.smi, tri-n-data.csv, tri-n-bonds.csv, records.db, manifest.yaml).
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Workers is the number of concurrent extraction workers.
	// Zero selects one worker per CPU.
	Workers int `json:"workers" yaml:"workers"`
}

// Validate reports the first invalid generate parameter.
func (c GenerateConfig) Validate() error {
	if c.OutputDir == "" {
		return &ConfigurationError{Param: "output-dir", Reason: "must not be empty"}
	}
	if c.Workers < 0 {
		return &ConfigurationError{Param: "workers", Reason: "must not be negative"}
	}
	return nil
}

// SelectConfig holds settings for the select stage.
type SelectConfig struct {
	// InputDirs lists descriptor-store directories written by generate runs.
	InputDirs []string `json:"input_dirs" yaml:"input_dirs"`

	// BinSize is the width of the total-bond-order buckets (default 0.02).
	BinSize float64 `json:"bin_size" yaml:"bin_size"`

	// WibergPrecision is the granularity to which per-bond Wiberg orders are
	// rounded inside fingerprints (default 0.05).
	WibergPrecision float64 `json:"wiberg_precision" yaml:"wiberg_precision"`

	// Count is how many of the smallest molecules to keep per bin (default 5).
	Count int `json:"count" yaml:"count"`

	// OutputDir receives one SMILES file per bin plus the selection report.
	// It must not already exist.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// Validate reports the first invalid select parameter.
func (c SelectConfig) Validate() error {
	if len(c.InputDirs) == 0 {
		return &ConfigurationError{Param: "input-dirs", Reason: "at least one descriptor store is required"}
	}
	if c.BinSize <= 0 {
		return &ConfigurationError{Param: "bin-size", Reason: "must be positive"}
	}
	if c.WibergPrecision <= 0 {
		return &ConfigurationError{Param: "wiberg-precision", Reason: "must be positive"}
	}
	if c.Count <= 0 {
		return &ConfigurationError{Param: "count", Reason: "must be positive"}
	}
	if c.OutputDir == "" {
		return &ConfigurationError{Param: "output-dir", Reason: "must not be empty"}
	}
	return nil
}

// AnalyzeConfig holds settings for the analyze stage.
type AnalyzeConfig struct {
	// SelectDir is a directory of per-bin SMILES files from a select run.
	SelectDir string `json:"select_dir" yaml:"select_dir"`

	// OutputDir receives statistics.txt and chart-data.csv.
	OutputDir string `json:"output_dir" yaml:"output_dir"`
}

// Validate reports the first invalid analyze parameter.
func (c AnalyzeConfig) Validate() error {
	if c.SelectDir == "" {
		return &ConfigurationError{Param: "select-dir", Reason: "must not be empty"}
	}
	if c.OutputDir == "" {
		return &ConfigurationError{Param: "output-dir", Reason: "must not be empty"}
	}
	return nil
}

// HistogramConfig holds settings for the plothist stage.
type HistogramConfig struct {
	// Column is the zero-based CSV column holding Wiberg bond orders.
	Column int `json:"column" yaml:"column"`

	// Min and Max bound the histogram range; Step is the bucket width.
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
	Step float64 `json:"step" yaml:"step"`

	// Output is the file for the histogram table.
	Output string `json:"output" yaml:"output"`
}

// Validate reports the first invalid histogram parameter.
func (c HistogramConfig) Validate() error {
	if c.Column < 0 {
		return &ConfigurationError{Param: "column", Reason: "must not be negative"}
	}
	if c.Step <= 0 {
		return &ConfigurationError{Param: "step", Reason: "must be positive"}
	}
	if c.Max <= c.Min {
		return &ConfigurationError{Param: "max", Reason: "must be greater than min"}
	}
	return nil
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Generate  GenerateConfig  `json:"generate" yaml:"generate"`
	Select    SelectConfig    `json:"select" yaml:"select"`
	Analyze   AnalyzeConfig   `json:"analyze" yaml:"analyze"`
	Histogram HistogramConfig `json:"histogram" yaml:"histogram"`
}
