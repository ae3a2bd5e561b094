package main

import (
	"errors"
	"fmt"

	"github.com/hyp3rd/ewrap"
	"github.com/spf13/cobra"

	"github.com/mschirtzinger/shellbench/internal/benchmark"
	"github.com/mschirtzinger/shellbench/internal/config"
	"github.com/mschirtzinger/shellbench/internal/gaps"
	"github.com/mschirtzinger/shellbench/internal/sentinel"
)

var compareCmd = &cobra.Command{
	Use:     "compare",
	GroupID: "bench",
	Short:   "Compare gap sequences on identical shuffles",
	Long: `Compare gap sequences on identical shuffles.

Every sequence sorts exactly the same arrays. The first sequence is the
baseline: the table shows each sequence's improvement over it and the
Mann-Whitney U p-value of its per-round comparison counts against the
baseline's. Without -g every named sequence is compared.

Examples:
  shellbench compare -g knuth_1973 -g ciura_2001 -g tokuda_1992
  shellbench compare -l 10000 -r 200 --format json`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

func init() {
	addMeasureFlags(compareCmd)
	compareCmd.Flags().StringArrayP(config.KeyGapSequence, "g", nil, "Gap sequence to compare (repeatable, first is the baseline)")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	specs, _ := cmd.Flags().GetStringArray(config.KeyGapSequence)
	if len(specs) == 0 {
		specs = gaps.Names()
	}

	sequences := make([]gaps.Sequence, 0, len(specs))
	for _, spec := range specs {
		seq, err := gaps.Parse(spec)
		if err != nil {
			return err
		}
		if err := checkSequence(seq, settings.Strict, logger); err != nil {
			return err
		}
		sequences = append(sequences, seq)
	}

	format, err := benchmark.ParseFormat(settings.Format)
	if err != nil {
		return err
	}
	if format != benchmark.FormatText && format != benchmark.FormatJSON && format != benchmark.FormatYAML {
		return ewrap.Wrapf(sentinel.ErrUnknownFormat, "%q for comparisons", format)
	}

	logger.WithField("sequences", len(sequences)).Info("comparing gap sequences")

	cfg := settings.BenchmarkConfig(gaps.Default())
	cfg.Quicksort = false
	result, err := benchmark.Compare(cmd.Context(), cfg, sequences, benchmark.WithLogger(logger))
	if errors.Is(err, sentinel.ErrEmptyResults) {
		fmt.Fprintln(cmd.ErrOrStderr(), "No results to report.")
		return nil
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	return benchmark.WriteComparison(out, result, format, benchmark.WithStyles(stylesFor(out)))
}
