package main

import (
	"io"
	"os"

	"github.com/hyp3rd/ewrap"
	"github.com/spf13/cobra"

	"github.com/mschirtzinger/shellbench/internal/benchmark"
	"github.com/mschirtzinger/shellbench/internal/benchmark/scientific"
	"github.com/mschirtzinger/shellbench/internal/config"
	"github.com/mschirtzinger/shellbench/internal/sentinel"
)

var (
	suitePlan   string
	suiteQuick  bool
	suiteOutput string
)

var suiteCmd = &cobra.Command{
	Use:     "suite",
	GroupID: "bench",
	Short:   "Run the benchmark suite over several lengths and sequences",
	Long: `Run every gap sequence at every array length of a plan.

All cells of one length sort the same seeded shuffles, so the results are
directly comparable and reproducible from the seed. Quicksort, when enabled,
is measured once per length.

Without --plan every named sequence runs at lengths 100, 1000 and 10000.
A plan is a TOML or YAML file; keys left out keep their defaults:

  # plan.toml
  lengths = [100, 1000, 10000]
  sequences = ["knuth_1973", "ciura_2001", "1,4,10,23"]
  rounds = 200
  seed = 7
  quicksort = true

Text output shows a summary, bar graphs, scaling and variability analysis;
json, yaml, csv and markdown export the raw data points.`,
	Args: cobra.NoArgs,
	RunE: runSuite,
}

func init() {
	suiteCmd.Flags().StringVarP(&suitePlan, "plan", "p", "", "Suite plan file (.toml, .yaml)")
	suiteCmd.Flags().BoolVar(&suiteQuick, "quick", false, "Fewer lengths, sequences and rounds")
	suiteCmd.Flags().StringVarP(&suiteOutput, "output", "o", "", "Write results to this file instead of stdout")
	suiteCmd.Flags().String(config.KeyFormat, string(benchmark.FormatText), "Output format: text, json, yaml, csv, markdown")
	rootCmd.AddCommand(suiteCmd)
}

func runSuite(cmd *cobra.Command, args []string) error {
	format, err := suiteFormat(settings.Format)
	if err != nil {
		return err
	}

	var plan scientific.SuiteConfig
	switch {
	case suitePlan != "":
		if plan, err = scientific.LoadPlan(suitePlan); err != nil {
			return err
		}
	case suiteQuick:
		plan = scientific.QuickConfig()
	default:
		plan = scientific.DefaultConfig()
	}

	results, err := scientific.RunSuite(cmd.Context(), plan, logger)
	if err != nil {
		return err
	}

	if suiteOutput == "" {
		return writeSuite(cmd.OutOrStdout(), results, format)
	}

	f, err := os.Create(suiteOutput)
	if err != nil {
		return ewrap.Wrap(err, "create output")
	}
	if err := writeSuite(f, results, format); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return ewrap.Wrap(err, "close output")
	}
	logger.WithField("file", suiteOutput).Info("results written")
	return nil
}

func suiteFormat(name string) (benchmark.Format, error) {
	format, err := benchmark.ParseFormat(name)
	if err != nil {
		return "", err
	}
	if format == benchmark.FormatTOML {
		return "", ewrap.Wrapf(sentinel.ErrUnknownFormat, "%q for suite results", format)
	}
	return format, nil
}

// writeSuite renders results; the text format adds the graphs and analyses
// to the summary.
func writeSuite(w io.Writer, results *scientific.SuiteResults, format benchmark.Format) error {
	if format != benchmark.FormatText {
		return scientific.Export(w, results, format)
	}

	scientific.PrintSummary(w, results)
	scientific.PrintGraphs(w, results)
	scientific.PrintScalingAnalysis(w, results)
	scientific.PrintVariability(w, results)
	return nil
}
