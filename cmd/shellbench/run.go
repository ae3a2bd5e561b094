package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mschirtzinger/shellbench/internal/benchmark"
	"github.com/mschirtzinger/shellbench/internal/config"
	"github.com/mschirtzinger/shellbench/internal/gaps"
	"github.com/mschirtzinger/shellbench/internal/sentinel"
	"github.com/mschirtzinger/shellbench/internal/ui"
)

var runCmd = &cobra.Command{
	Use:     "run",
	GroupID: "bench",
	Short:   "Benchmark one gap sequence (the default command)",
	Long: `Benchmark one gap sequence over seeded shuffles.

The gap sequence is a name (see "shellbench sequences" or -g ls), or a
comma-separated list of gaps such as 1,4,10,23. Custom lists that cannot sort
correctly are reported with a warning, or rejected with --strict.

Examples:
  shellbench run -l 1000 -r 500 -g tokuda_1992
  shellbench run -g 1,4,10,23,57 --strict -q
  shellbench run -g ciura_2001 --format json > report.json
  shellbench run --max-distance 8 --probability 0.5`,
	Args: cobra.NoArgs,
	RunE: runBenchmark,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

// addMeasureFlags registers the flags shared by every command that runs rounds.
func addMeasureFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Uint64P(config.KeySeed, "s", 0, "Seed for the shuffle generator")
	f.IntP(config.KeyRounds, "r", 100, "Number of rounds to run")
	f.IntP(config.KeyLength, "l", 100, "Length of the array to be sorted")
	f.Int(config.KeyMaxDistance, 0, "Farthest a shuffle swap may reach (0 = unbounded)")
	f.Float64(config.KeyProbability, 1.0, "Chance that the shuffle visits each index (0.0-1.0)")
	f.String(config.KeyFormat, string(benchmark.FormatText), "Output format: "+benchmark.JoinFormats(benchmark.Formats()))
	f.Bool(config.KeyStrict, false, "Reject custom gap lists that cannot sort correctly")
}

func addRunFlags(cmd *cobra.Command) {
	addMeasureFlags(cmd)
	f := cmd.Flags()
	f.StringP(config.KeyGapSequence, "g", "", `Gap sequence name or comma-separated gaps ("ls" lists the names)`)
	f.BoolP(config.KeyQuicksort, "q", false, "Also run Quicksort on the same shuffles")
	f.BoolP("interactive", "i", false, "Pick the gap sequence from a menu")
}

func runBenchmark(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	spec := settings.GapSequence
	if strings.EqualFold(strings.TrimSpace(spec), "ls") {
		return writeSequences(out, 0, benchmark.FormatText)
	}

	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		current := gaps.Default().Name()
		if info, ok := gaps.Describe(spec); ok {
			current = info.Name
		}
		choice, err := ui.PickSequence(gaps.Names(), current)
		if err != nil {
			return err
		}
		spec = choice
	}

	seq, err := gaps.Parse(spec)
	if err != nil {
		return err
	}
	if err := checkSequence(seq, settings.Strict, logger); err != nil {
		return err
	}

	format, err := benchmark.ParseFormat(settings.Format)
	if err != nil {
		return err
	}

	cfg := settings.BenchmarkConfig(seq)
	results, err := benchmark.Run(cmd.Context(), cfg, benchmark.WithLogger(logger))
	if err != nil {
		return err
	}

	report, err := benchmark.NewReport(cfg, results)
	if errors.Is(err, sentinel.ErrEmptyResults) {
		if format == benchmark.FormatText {
			writeRunHeader(out, cfg, results.Gaps)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "No results to report.")
		return nil
	}
	if err != nil {
		return err
	}

	return benchmark.WriteReport(out, report, format, benchmark.WithStyles(stylesFor(out)))
}

// checkSequence validates custom gap lists: a failure is fatal when strict
// and a warning otherwise.
func checkSequence(seq gaps.Sequence, strict bool, log logrus.FieldLogger) error {
	err := seq.Validate()
	if err == nil {
		return nil
	}
	if strict {
		return err
	}
	log.WithError(err).WithField("gaps", seq.String()).Warn("custom gap sequence may not sort correctly")
	return nil
}

func writeRunHeader(w io.Writer, cfg benchmark.Config, gapList []int) {
	fmt.Fprintf(w, "Sorting results on array of length %d for %d round(s).\n", cfg.Length, cfg.Rounds)
	fmt.Fprintf(w, "Shell sort performed with gap sequence: %s\n\n", benchmark.FormatGaps(gapList))
}
