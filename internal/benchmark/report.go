package benchmark

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/hyp3rd/ewrap"
	"gonum.org/v1/gonum/stat"

	"github.com/mschirtzinger/shellbench/internal/sentinel"
	"github.com/mschirtzinger/shellbench/internal/sorting"
)

// Version is recorded in every report. Overridden at build time with
// -ldflags "-X github.com/mschirtzinger/shellbench/internal/benchmark.Version=...".
var Version = "v1.2.0"

// Summary holds the statistics of one counted metric across all rounds.
type Summary struct {
	Mean   float64 `json:"mean" yaml:"mean" toml:"mean"`
	StdDev float64 `json:"stddev" yaml:"stddev" toml:"stddev"`
	Min    uint64  `json:"min" yaml:"min" toml:"min"`
	Max    uint64  `json:"max" yaml:"max" toml:"max"`
}

// Summarize computes the mean, population standard deviation (divisor = count),
// min and max of values. It fails with sentinel.ErrEmptyResults when values is empty.
func Summarize(values []uint64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, sentinel.ErrEmptyResults
	}

	xs := make([]float64, len(values))
	for i, v := range values {
		xs[i] = float64(v)
	}
	mean, std := stat.PopMeanStdDev(xs, nil)

	return Summary{
		Mean:   mean,
		StdDev: std,
		Min:    slices.Min(values),
		Max:    slices.Max(values),
	}, nil
}

// Params records the configuration a report was produced from.
type Params struct {
	Length      int     `json:"length" yaml:"length" toml:"length"`
	Rounds      int     `json:"rounds" yaml:"rounds" toml:"rounds"`
	Seed        uint64  `json:"seed" yaml:"seed" toml:"seed"`
	Sequence    string  `json:"sequence" yaml:"sequence" toml:"sequence"`
	Gaps        []int   `json:"gaps" yaml:"gaps" toml:"gaps"`
	Quicksort   bool    `json:"quicksort" yaml:"quicksort" toml:"quicksort"`
	MaxDistance int     `json:"max_distance" yaml:"max_distance" toml:"max_distance"`
	Probability float64 `json:"probability" yaml:"probability" toml:"probability"`
}

// ShellsortReport aggregates the Shellsort counts of a run.
type ShellsortReport struct {
	Comparisons Summary `json:"comparisons" yaml:"comparisons" toml:"comparisons"`
	Moves       Summary `json:"moves" yaml:"moves" toml:"moves"`
}

// QuicksortReport aggregates the Quicksort counts of a run.
type QuicksortReport struct {
	Comparisons Summary `json:"comparisons" yaml:"comparisons" toml:"comparisons"`
	Swaps       Summary `json:"swaps" yaml:"swaps" toml:"swaps"`
	MaxDepth    Summary `json:"max_depth" yaml:"max_depth" toml:"max_depth"`
}

// Report is the read-only outcome of a run.
type Report struct {
	Version     string           `json:"version" yaml:"version" toml:"version"`
	Params      Params           `json:"params" yaml:"params" toml:"params"`
	Fingerprint string           `json:"fingerprint" yaml:"fingerprint" toml:"fingerprint"`
	Shellsort   ShellsortReport  `json:"shellsort" yaml:"shellsort" toml:"shellsort"`
	Quicksort   *QuicksortReport `json:"quicksort,omitempty" yaml:"quicksort,omitempty" toml:"quicksort,omitempty"`
}

// NewReport aggregates results. Quicksort is reported only when results
// carries a Quicksort batch. Any empty batch fails with sentinel.ErrEmptyResults.
func NewReport(cfg Config, results *Results) (*Report, error) {
	if results == nil {
		return nil, sentinel.ErrEmptyResults
	}

	shell, err := newShellsortReport(results.Shellsort)
	if err != nil {
		return nil, ewrap.Wrap(err, "shellsort")
	}

	report := &Report{
		Version: Version,
		Params: Params{
			Length:      cfg.Length,
			Rounds:      cfg.Rounds,
			Seed:        cfg.Seed,
			Sequence:    cfg.Sequence.String(),
			Gaps:        append([]int(nil), results.Gaps...),
			Quicksort:   results.Quicksort != nil,
			MaxDistance: cfg.MaxDistance,
			Probability: cfg.Probability,
		},
		Fingerprint: Fingerprint(results),
		Shellsort:   shell,
	}

	if results.Quicksort != nil {
		quick, err := newQuicksortReport(results.Quicksort)
		if err != nil {
			return nil, ewrap.Wrap(err, "quicksort")
		}
		report.Quicksort = &quick
	}

	return report, nil
}

func newShellsortReport(results []sorting.ShellsortResult) (ShellsortReport, error) {
	comparisons := make([]uint64, len(results))
	moves := make([]uint64, len(results))
	for i, r := range results {
		comparisons[i] = r.Comparisons
		moves[i] = r.Moves
	}

	var (
		report ShellsortReport
		err    error
	)
	if report.Comparisons, err = Summarize(comparisons); err != nil {
		return ShellsortReport{}, err
	}
	if report.Moves, err = Summarize(moves); err != nil {
		return ShellsortReport{}, err
	}
	return report, nil
}

func newQuicksortReport(results []sorting.QuicksortResult) (QuicksortReport, error) {
	comparisons := make([]uint64, len(results))
	swaps := make([]uint64, len(results))
	depths := make([]uint64, len(results))
	for i, r := range results {
		comparisons[i] = r.Comparisons
		swaps[i] = r.Swaps
		depths[i] = r.MaxDepth
	}

	var (
		report QuicksortReport
		err    error
	)
	if report.Comparisons, err = Summarize(comparisons); err != nil {
		return QuicksortReport{}, err
	}
	if report.Swaps, err = Summarize(swaps); err != nil {
		return QuicksortReport{}, err
	}
	if report.MaxDepth, err = Summarize(depths); err != nil {
		return QuicksortReport{}, err
	}
	return report, nil
}

// Fingerprint hashes the gaps and every per-round counter of results in
// order. Two runs agree on the fingerprint exactly when they measured the
// same counts.
func Fingerprint(results *Results) string {
	h := xxhash.New()
	buf := make([]byte, 0, 8*3)

	write := func(values ...uint64) {
		buf = buf[:0]
		for _, v := range values {
			buf = binary.LittleEndian.AppendUint64(buf, v)
		}
		_, _ = h.Write(buf)
	}

	write(uint64(len(results.Gaps)))
	for _, g := range results.Gaps {
		write(uint64(g))
	}

	write(uint64(len(results.Shellsort)))
	for _, r := range results.Shellsort {
		write(r.Comparisons, r.Moves)
	}

	if results.Quicksort != nil {
		write(uint64(len(results.Quicksort)))
		for _, r := range results.Quicksort {
			write(r.Comparisons, r.Swaps, r.MaxDepth)
		}
	}

	return fmt.Sprintf("%016x", h.Sum64())
}
