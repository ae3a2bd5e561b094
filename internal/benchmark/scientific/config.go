// Package scientific provides a publishable benchmark suite for comparing
// Shellsort gap sequences across array lengths.
//
// This package implements scientific benchmarking with:
//   - Reproducible shuffles via deterministic seeding
//   - Many rounds per cell with mean, standard deviation, min and max
//   - Fair comparison (every sequence of a length sorts the same shuffles)
//   - Exportable results (JSON, YAML, CSV, markdown) for external analysis
package scientific

import (
	"math"
	"runtime"
	"time"

	"github.com/hyp3rd/ewrap"

	"github.com/mschirtzinger/shellbench/internal/gaps"
	"github.com/mschirtzinger/shellbench/internal/sentinel"
)

// SuiteConfig configures the benchmark suite parameters.
type SuiteConfig struct {
	// Lengths is the list of array lengths to measure
	// Example: []int{100, 1000, 10000}
	Lengths []int `json:"lengths" yaml:"lengths" toml:"lengths"`

	// Sequences names the gap sequences to measure, or holds comma-separated custom gaps
	// Example: []string{"knuth_1973", "ciura_2001", "1,5,19,41"}
	Sequences []string `json:"sequences" yaml:"sequences" toml:"sequences"`

	// Rounds is the number of shuffles measured per cell
	// More rounds = more stable statistics but longer runtime
	Rounds int `json:"rounds" yaml:"rounds" toml:"rounds"`

	// Seed is the random seed for reproducible shuffles
	Seed uint64 `json:"seed" yaml:"seed" toml:"seed"`

	// Quicksort adds one Quicksort measurement per length
	Quicksort bool `json:"quicksort" yaml:"quicksort" toml:"quicksort"`

	// MaxDistance bounds how far a shuffle swap may reach (<= 0 is unbounded)
	MaxDistance int `json:"max_distance" yaml:"max_distance" toml:"max_distance"`

	// Probability is the chance that a shuffle visits each index
	// Typical: 1.0 for fully random input, lower values for nearly sorted input
	Probability float64 `json:"probability" yaml:"probability" toml:"probability"`
}

// DefaultConfig returns a comprehensive benchmark configuration suitable for publication.
func DefaultConfig() SuiteConfig {
	return SuiteConfig{
		Lengths:     []int{100, 1000, 10000},
		Sequences:   gaps.Names(),
		Rounds:      100,
		Seed:        42, // Reproducibility
		Quicksort:   true,
		Probability: 1.0,
	}
}

// QuickConfig returns a faster configuration for development and CI.
func QuickConfig() SuiteConfig {
	return SuiteConfig{
		Lengths:     []int{100, 1000},
		Sequences:   []string{"shell_1959", "knuth_1973", "ciura_2001", "tokuda_1992", "lee_2021"},
		Rounds:      20,
		Seed:        42,
		Quicksort:   true,
		Probability: 1.0,
	}
}

// Validate checks the config and resolves its sequences.
func (c SuiteConfig) Validate() ([]gaps.Sequence, error) {
	if len(c.Lengths) == 0 {
		return nil, ewrap.Wrap(sentinel.ErrInvalidLength, "no lengths to measure")
	}
	for _, n := range c.Lengths {
		if n < 0 {
			return nil, ewrap.Wrapf(sentinel.ErrInvalidLength, "got %d", n)
		}
	}
	if c.Rounds < 0 {
		return nil, ewrap.Wrapf(sentinel.ErrInvalidRounds, "got %d", c.Rounds)
	}
	if math.IsNaN(c.Probability) || c.Probability < 0 || c.Probability > 1 {
		return nil, ewrap.Wrapf(sentinel.ErrInvalidProbability, "got %v", c.Probability)
	}
	if len(c.Sequences) == 0 {
		return nil, ewrap.Wrap(sentinel.ErrInvalidGapSequence, "no sequences to measure")
	}

	sequences := make([]gaps.Sequence, 0, len(c.Sequences))
	for _, name := range c.Sequences {
		seq, err := gaps.Parse(name)
		if err != nil {
			return nil, err
		}
		sequences = append(sequences, seq)
	}
	return sequences, nil
}

// Algorithm names used in DataPoint.Algorithm.
const (
	AlgorithmShellsort = "shellsort"
	AlgorithmQuicksort = "quicksort"
)

// DataPoint represents a single benchmark measurement.
type DataPoint struct {
	// Test configuration
	Length    int    `json:"length" yaml:"length"`
	Algorithm string `json:"algorithm" yaml:"algorithm"` // "shellsort" or "quicksort"
	Sequence  string `json:"sequence,omitempty" yaml:"sequence,omitempty"`
	Gaps      []int  `json:"gaps,omitempty" yaml:"gaps,omitempty"`

	// Comparison counts across rounds
	ComparisonsMean   float64 `json:"comparisons_mean" yaml:"comparisons_mean"`
	ComparisonsStdDev float64 `json:"comparisons_stddev" yaml:"comparisons_stddev"`
	ComparisonsMin    uint64  `json:"comparisons_min" yaml:"comparisons_min"`
	ComparisonsMax    uint64  `json:"comparisons_max" yaml:"comparisons_max"`

	// Moves for Shellsort, swaps for Quicksort
	MovesMean   float64 `json:"moves_mean" yaml:"moves_mean"`
	MovesStdDev float64 `json:"moves_stddev" yaml:"moves_stddev"`
	MovesMin    uint64  `json:"moves_min" yaml:"moves_min"`
	MovesMax    uint64  `json:"moves_max" yaml:"moves_max"`

	// Recursion depth (Quicksort only)
	MaxDepthMean float64 `json:"max_depth_mean,omitempty" yaml:"max_depth_mean,omitempty"`

	// Fingerprint of the run the point was taken from
	Fingerprint string `json:"fingerprint" yaml:"fingerprint"`

	// Timing
	TotalDurationNs int64 `json:"total_duration_ns" yaml:"total_duration_ns"`
}

// SuiteResults contains all benchmark results and metadata.
type SuiteResults struct {
	Config     SuiteConfig `json:"config" yaml:"config"`
	DataPoints []DataPoint `json:"data_points" yaml:"data_points"`
	StartTime  time.Time   `json:"start_time" yaml:"start_time"`
	EndTime    time.Time   `json:"end_time" yaml:"end_time"`
	SystemInfo SystemInfo  `json:"system_info" yaml:"system_info"`
}

// SystemInfo captures system details for reproducibility.
type SystemInfo struct {
	OS        string `json:"os" yaml:"os"`
	Arch      string `json:"arch" yaml:"arch"`
	CPUs      int    `json:"cpus" yaml:"cpus"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	Hostname  string `json:"hostname,omitempty" yaml:"hostname,omitempty"`
}

// GetSystemInfo captures current system information.
func GetSystemInfo() SystemInfo {
	return SystemInfo{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		CPUs:      runtime.NumCPU(),
		GoVersion: runtime.Version(),
		// Version, GitCommit and Hostname filled in by suite runner
	}
}

// TotalRuns returns the total number of benchmark runs that will be executed.
func (c SuiteConfig) TotalRuns() int {
	// lengths × sequences; Quicksort rides along with the first sequence of each length
	return len(c.Lengths) * len(c.Sequences)
}
