// Package benchmark measures Shellsort gap sequences, and optionally
// Quicksort, over repeated seeded shuffles.
//
// A run shuffles an array of 0..Length-1, sorts a copy with Shellsort under
// the configured gaps, optionally sorts another copy with Quicksort, and keeps
// the operation counts of every round. NewReport reduces those counts to mean,
// population standard deviation, min and max per metric.
//
// Runs are single-threaded and fully determined by their Config: the same
// length, rounds, seed, gaps and shuffle parameters always yield the same
// counts, which the report's fingerprint captures.
package benchmark

import (
	"context"
	"math"

	"github.com/hyp3rd/ewrap"
	"github.com/sirupsen/logrus"

	"github.com/mschirtzinger/shellbench/internal/gaps"
	"github.com/mschirtzinger/shellbench/internal/logging"
	"github.com/mschirtzinger/shellbench/internal/sentinel"
	"github.com/mschirtzinger/shellbench/internal/shuffle"
	"github.com/mschirtzinger/shellbench/internal/sorting"
)

// Config defines the parameters for a benchmark run.
type Config struct {
	// Length is the number of elements sorted in every round
	Length int

	// Rounds is the number of shuffles measured
	Rounds int

	// Seed seeds the shuffle generator
	Seed uint64

	// Sequence selects the Shellsort gaps
	Sequence gaps.Sequence

	// Quicksort also measures Quicksort on the same shuffles
	Quicksort bool

	// MaxDistance bounds how far a shuffle swap may reach (<= 0 is unbounded)
	MaxDistance int

	// Probability is the chance that a shuffle visits each index (0.0-1.0)
	Probability float64
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() Config {
	return Config{
		Length:      100,
		Rounds:      100,
		Seed:        0,
		Sequence:    gaps.Default(),
		Probability: 1.0,
	}
}

// Validate checks every field of c, including the shuffle probability that a
// run would otherwise only reject on its first shuffle.
func (c Config) Validate() error {
	if err := c.validateShape(); err != nil {
		return err
	}
	if math.IsNaN(c.Probability) || c.Probability < 0 || c.Probability > 1 {
		return ewrap.Wrapf(sentinel.ErrInvalidProbability, "got %v", c.Probability)
	}
	return nil
}

func (c Config) validateShape() error {
	if c.Length < 0 {
		return ewrap.Wrapf(sentinel.ErrInvalidLength, "got %d", c.Length)
	}
	if c.Rounds < 0 {
		return ewrap.Wrapf(sentinel.ErrInvalidRounds, "got %d", c.Rounds)
	}
	return nil
}

// Results holds the per-round operation counts of one run.
type Results struct {
	// Gaps is the concrete gap list Shellsort used
	Gaps []int

	// Shellsort has one entry per round
	Shellsort []sorting.ShellsortResult

	// Quicksort has one entry per round, or is nil when Quicksort was not requested
	Quicksort []sorting.QuicksortResult
}

// Progress describes one completed round.
type Progress struct {
	Round     int                      `json:"round"`
	Rounds    int                      `json:"rounds"`
	Shellsort sorting.ShellsortResult  `json:"shellsort"`
	Quicksort *sorting.QuicksortResult `json:"quicksort,omitempty"`
}

// Option customizes a Runner.
type Option func(*Runner)

// WithProgress registers fn to be called after every round.
func WithProgress(fn func(Progress)) Option {
	return func(r *Runner) {
		r.progress = fn
	}
}

// WithLogger sets the logger used for run-level debug output.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// Runner executes a Config. It owns the working buffer, so it may be reused
// for several runs but not from several goroutines at once. Every Run starts
// again from the seeded identity arrangement and yields the same Results.
type Runner struct {
	cfg      Config
	gaps     []int
	work     []int
	progress func(Progress)
	logger   logrus.FieldLogger
}

// NewRunner resolves the gaps for cfg and allocates the working buffer.
func NewRunner(cfg Config, opts ...Option) (*Runner, error) {
	if err := cfg.validateShape(); err != nil {
		return nil, err
	}

	r := &Runner{
		cfg:    cfg,
		gaps:   cfg.Sequence.Gaps(cfg.Length),
		work:   make([]int, cfg.Length),
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Gaps returns the gap list the runner sorts with.
func (r *Runner) Gaps() []int {
	return append([]int(nil), r.gaps...)
}

// Run performs cfg.Rounds rounds. A shuffle error or a cancelled context
// aborts the run and no results are returned.
func (r *Runner) Run(ctx context.Context) (*Results, error) {
	cfg := r.cfg
	log := r.logger.WithFields(logrus.Fields{
		"length":   cfg.Length,
		"rounds":   cfg.Rounds,
		"sequence": cfg.Sequence.String(),
	})
	log.WithField("gaps", r.gaps).Debug("starting run")

	perm := shuffle.New(cfg.Length, cfg.Seed)
	results := &Results{
		Gaps:      r.Gaps(),
		Shellsort: make([]sorting.ShellsortResult, 0, cfg.Rounds),
	}
	if cfg.Quicksort {
		results.Quicksort = make([]sorting.QuicksortResult, 0, cfg.Rounds)
	}

	for round := 1; round <= cfg.Rounds; round++ {
		if err := ctx.Err(); err != nil {
			log.WithField("round", round).Debug("run cancelled")
			return nil, err
		}

		if err := perm.Shuffle(cfg.MaxDistance, cfg.Probability); err != nil {
			return nil, ewrap.Wrapf(err, "shuffle for round %d", round)
		}

		copy(r.work, perm.Values())
		shell := sorting.Shellsort(r.work, r.gaps)
		results.Shellsort = append(results.Shellsort, shell)

		var quick *sorting.QuicksortResult
		if cfg.Quicksort {
			copy(r.work, perm.Values())
			q := sorting.Quicksort(r.work)
			results.Quicksort = append(results.Quicksort, q)
			quick = &q
		}

		if r.progress != nil {
			r.progress(Progress{
				Round:     round,
				Rounds:    cfg.Rounds,
				Shellsort: shell,
				Quicksort: quick,
			})
		}
	}

	log.Debug("run complete")
	return results, nil
}

// Run is a convenience wrapper for NewRunner followed by Runner.Run.
func Run(ctx context.Context, cfg Config, opts ...Option) (*Results, error) {
	r, err := NewRunner(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx)
}
