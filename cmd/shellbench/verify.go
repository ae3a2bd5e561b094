package main

import (
	"fmt"
	"io"
	"os"

	"github.com/hyp3rd/ewrap"
	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"

	"github.com/mschirtzinger/shellbench/internal/benchmark"
	"github.com/mschirtzinger/shellbench/internal/gaps"
	"github.com/mschirtzinger/shellbench/internal/sentinel"
)

var verifyCmd = &cobra.Command{
	Use:     "verify REPORT.json",
	GroupID: "tools",
	Short:   "Re-run a recorded JSON report and check its fingerprint",
	Long: `Re-run the configuration recorded in a JSON report and check that the
counts reproduce exactly, by comparing fingerprints.

Reports written by a different major version of shellbench are rejected, since
their counts are not guaranteed to match. Use "-" to read the report from stdin.

Example:
  shellbench run -g ciura_2001 -r 500 --format json > report.json
  shellbench verify report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	recorded, err := readReportFile(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}
	if err := checkCompatible(recorded.Version, benchmark.Version); err != nil {
		return err
	}

	p := recorded.Params
	seq, err := gaps.Parse(p.Sequence)
	if err != nil {
		return ewrap.Wrap(err, "recorded sequence")
	}
	cfg := benchmark.Config{
		Length:      p.Length,
		Rounds:      p.Rounds,
		Seed:        p.Seed,
		Sequence:    seq,
		Quicksort:   p.Quicksort,
		MaxDistance: p.MaxDistance,
		Probability: p.Probability,
	}

	logger.WithField("report", args[0]).Info("re-running recorded configuration")
	results, err := benchmark.Run(cmd.Context(), cfg, benchmark.WithLogger(logger))
	if err != nil {
		return err
	}

	got := benchmark.Fingerprint(results)
	if got != recorded.Fingerprint {
		return ewrap.Wrapf(sentinel.ErrFingerprintMismatch, "recorded %s, reproduced %s", recorded.Fingerprint, got)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "OK: fingerprint %s reproduced (%s, length %d, %d round(s), seed %d)\n",
		got, seq, p.Length, p.Rounds, p.Seed)
	return nil
}

func readReportFile(stdin io.Reader, path string) (*benchmark.Report, error) {
	if path == "-" {
		return benchmark.ReadReport(stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ewrap.Wrap(err, "open report")
	}
	defer f.Close()

	return benchmark.ReadReport(f)
}

// checkCompatible accepts a report whose version shares the major version of current.
func checkCompatible(reported, current string) error {
	if !semver.IsValid(reported) {
		return ewrap.Wrapf(sentinel.ErrIncompatibleReport, "unrecognized version %q", reported)
	}
	if semver.Major(reported) != semver.Major(current) {
		return ewrap.Wrapf(sentinel.ErrIncompatibleReport, "report %s, shellbench %s", reported, current)
	}
	return nil
}
