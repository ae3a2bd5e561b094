package scientific

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/hyp3rd/ewrap"
	"github.com/sirupsen/logrus"

	"github.com/mschirtzinger/shellbench/internal/benchmark"
	"github.com/mschirtzinger/shellbench/internal/gaps"
	"github.com/mschirtzinger/shellbench/internal/logging"
)

// RunSuite executes the full benchmark suite and returns results.
// Progress is logged to logger; a nil logger discards it.
func RunSuite(ctx context.Context, config SuiteConfig, logger logrus.FieldLogger) (*SuiteResults, error) {
	sequences, err := config.Validate()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}

	results := &SuiteResults{
		Config:     config,
		DataPoints: make([]DataPoint, 0, config.TotalRuns()),
		StartTime:  time.Now(),
		SystemInfo: GetSystemInfo(),
	}
	results.SystemInfo.Version = benchmark.Version

	// Get git commit hash for reproducibility
	if commit, err := getGitCommit(); err == nil {
		results.SystemInfo.GitCommit = commit
	}

	// Get hostname
	if hostname, err := os.Hostname(); err == nil {
		results.SystemInfo.Hostname = hostname
	}

	totalRuns := config.TotalRuns()
	currentRun := 0

	logger.WithFields(logrus.Fields{
		"runs":   totalRuns,
		"os":     results.SystemInfo.OS,
		"arch":   results.SystemInfo.Arch,
		"cpus":   results.SystemInfo.CPUs,
		"go":     results.SystemInfo.GoVersion,
		"rounds": config.Rounds,
		"seed":   config.Seed,
	}).Info("starting benchmark suite")

	for _, length := range config.Lengths {
		for i, seq := range sequences {
			currentRun++
			// Quicksort ignores the gaps, so one measurement per length is enough
			withQuicksort := config.Quicksort && i == 0

			points, err := runCell(ctx, config, length, seq, withQuicksort, logger)
			if err != nil {
				return nil, ewrap.Wrapf(err, "length %d, sequence %s", length, seq)
			}
			results.DataPoints = append(results.DataPoints, points...)

			logger.WithFields(logrus.Fields{
				"run":         currentRun,
				"runs":        totalRuns,
				"length":      length,
				"sequence":    seq.String(),
				"comparisons": points[0].ComparisonsMean,
			}).Info("cell complete")
		}
	}

	results.EndTime = time.Now()
	logger.WithField("duration", results.EndTime.Sub(results.StartTime)).Info("benchmark suite complete")

	return results, nil
}

// runCell measures one (length, sequence) cell.
func runCell(
	ctx context.Context,
	config SuiteConfig,
	length int,
	seq gaps.Sequence,
	withQuicksort bool,
	logger logrus.FieldLogger,
) ([]DataPoint, error) {
	cfg := benchmark.Config{
		Length:      length,
		Rounds:      config.Rounds,
		Seed:        config.Seed,
		Sequence:    seq,
		Quicksort:   withQuicksort,
		MaxDistance: config.MaxDistance,
		Probability: config.Probability,
	}

	start := time.Now()
	res, err := benchmark.Run(ctx, cfg, benchmark.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	report, err := benchmark.NewReport(cfg, res)
	if err != nil {
		return nil, err
	}

	sh := report.Shellsort
	points := []DataPoint{{
		Length:            length,
		Algorithm:         AlgorithmShellsort,
		Sequence:          seq.String(),
		Gaps:              report.Params.Gaps,
		ComparisonsMean:   sh.Comparisons.Mean,
		ComparisonsStdDev: sh.Comparisons.StdDev,
		ComparisonsMin:    sh.Comparisons.Min,
		ComparisonsMax:    sh.Comparisons.Max,
		MovesMean:         sh.Moves.Mean,
		MovesStdDev:       sh.Moves.StdDev,
		MovesMin:          sh.Moves.Min,
		MovesMax:          sh.Moves.Max,
		Fingerprint:       benchmark.Fingerprint(&benchmark.Results{Gaps: res.Gaps, Shellsort: res.Shellsort}),
		TotalDurationNs:   int64(elapsed),
	}}

	if q := report.Quicksort; q != nil {
		points = append(points, DataPoint{
			Length:            length,
			Algorithm:         AlgorithmQuicksort,
			ComparisonsMean:   q.Comparisons.Mean,
			ComparisonsStdDev: q.Comparisons.StdDev,
			ComparisonsMin:    q.Comparisons.Min,
			ComparisonsMax:    q.Comparisons.Max,
			MovesMean:         q.Swaps.Mean,
			MovesStdDev:       q.Swaps.StdDev,
			MovesMin:          q.Swaps.Min,
			MovesMax:          q.Swaps.Max,
			MaxDepthMean:      q.MaxDepth.Mean,
			Fingerprint:       benchmark.Fingerprint(&benchmark.Results{Quicksort: res.Quicksort}),
			TotalDurationNs:   int64(elapsed),
		})
	}

	return points, nil
}

// getGitCommit returns the current git commit hash.
func getGitCommit() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}
