package scientific

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/mschirtzinger/shellbench/internal/benchmark"
	"github.com/mschirtzinger/shellbench/internal/gaps"
	"github.com/mschirtzinger/shellbench/internal/sentinel"
)

func tinyConfig() SuiteConfig {
	return SuiteConfig{
		Lengths:     []int{50, 200},
		Sequences:   []string{"knuth_1973", "Ciura_2021", "1,4,13"},
		Rounds:      5,
		Seed:        42,
		Quicksort:   true,
		Probability: 1.0,
	}
}

func TestQuickSuite(t *testing.T) {
	// Quick test for CI - minimal configuration
	config := tinyConfig()

	results, err := RunSuite(context.Background(), config, nil)
	if err != nil {
		t.Fatalf("quick suite failed: %v", err)
	}

	// lengths × sequences Shellsort points plus one Quicksort point per length
	expectedPoints := len(config.Lengths)*len(config.Sequences) + len(config.Lengths)
	if len(results.DataPoints) != expectedPoints {
		t.Fatalf("expected %d data points, got %d", expectedPoints, len(results.DataPoints))
	}

	wantOrder := []string{"knuth_1973", "ciura_2001", "1,4,13"}
	if got := sequenceKeys(results, 50); !reflect.DeepEqual(got, wantOrder) {
		t.Errorf("expected sequences %v, got %v", wantOrder, got)
	}

	for _, dp := range results.DataPoints {
		if dp.ComparisonsMean <= 0 || dp.Fingerprint == "" {
			t.Errorf("incomplete data point: %+v", dp)
		}
		if dp.ComparisonsMin > dp.ComparisonsMax {
			t.Errorf("min above max: %+v", dp)
		}
		if dp.Algorithm == AlgorithmQuicksort && dp.MaxDepthMean < 1 {
			t.Errorf("quicksort point without depth: %+v", dp)
		}
	}

	if results.SystemInfo.Version != benchmark.Version {
		t.Errorf("expected version %s, got %s", benchmark.Version, results.SystemInfo.Version)
	}
	if results.EndTime.Before(results.StartTime) {
		t.Error("end time before start time")
	}

	// Print summary
	var buf bytes.Buffer
	PrintGraphs(&buf, results)
	PrintScalingAnalysis(&buf, results)
	PrintVariability(&buf, results)
	out := buf.String()
	for _, want := range []string{"=== GRAPHS: LENGTH 200 ===", "█", "=== SCALING ANALYSIS ===", "ciura_2001:", "50 → 200", "=== VARIABILITY ==="} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	t.Log(out)
}

func TestReproducibility(t *testing.T) {
	// Run the same suite twice with the same seed
	config := tinyConfig()

	first, err := RunSuite(context.Background(), config, nil)
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := RunSuite(context.Background(), config, nil)
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	for i := range first.DataPoints {
		a, b := first.DataPoints[i], second.DataPoints[i]
		if a.Fingerprint != b.Fingerprint || a.ComparisonsMean != b.ComparisonsMean {
			t.Errorf("point %d differs: %+v vs %+v", i, a, b)
		}
	}
}

// TestCellsShareShuffles verifies that every sequence of a length sorts the same input,
// whether or not its cell also measured Quicksort.
func TestCellsShareShuffles(t *testing.T) {
	config := tinyConfig()
	config.Sequences = []string{"knuth_1973", "knuth_1973"}

	results, err := RunSuite(context.Background(), config, nil)
	if err != nil {
		t.Fatalf("suite failed: %v", err)
	}

	for _, length := range config.Lengths {
		var knuth []DataPoint
		for _, dp := range results.DataPoints {
			if dp.Algorithm == AlgorithmShellsort && dp.Length == length {
				knuth = append(knuth, dp)
			}
		}
		if len(knuth) != 2 {
			t.Fatalf("length %d: expected 2 shellsort points, got %d", length, len(knuth))
		}
		if knuth[0].Fingerprint != knuth[1].Fingerprint {
			t.Errorf("length %d: fingerprints differ: %s vs %s", length, knuth[0].Fingerprint, knuth[1].Fingerprint)
		}
		if knuth[0].ComparisonsMean != knuth[1].ComparisonsMean || knuth[0].MovesMean != knuth[1].MovesMean {
			t.Errorf("length %d: counts differ: %+v vs %+v", length, knuth[0], knuth[1])
		}
	}
}

// TestPointFingerprintsCoverOneAlgorithm verifies that each data point fingerprints only
// its own batch, so it matches a standalone run of that algorithm.
func TestPointFingerprintsCoverOneAlgorithm(t *testing.T) {
	config := tinyConfig()
	config.Lengths = []int{120}
	config.Sequences = []string{"tokuda_1992"}

	results, err := RunSuite(context.Background(), config, nil)
	if err != nil {
		t.Fatalf("suite failed: %v", err)
	}

	res, err := benchmark.Run(context.Background(), benchmark.Config{
		Length:      120,
		Rounds:      config.Rounds,
		Seed:        config.Seed,
		Sequence:    gaps.Named(gaps.Tokuda1992),
		Quicksort:   true,
		Probability: config.Probability,
	})
	if err != nil {
		t.Fatalf("standalone run failed: %v", err)
	}

	want := map[string]string{
		AlgorithmShellsort: benchmark.Fingerprint(&benchmark.Results{Gaps: res.Gaps, Shellsort: res.Shellsort}),
		AlgorithmQuicksort: benchmark.Fingerprint(&benchmark.Results{Quicksort: res.Quicksort}),
	}
	if len(results.DataPoints) != 2 {
		t.Fatalf("expected 2 data points, got %d", len(results.DataPoints))
	}
	for _, dp := range results.DataPoints {
		if dp.Fingerprint != want[dp.Algorithm] {
			t.Errorf("%s fingerprint = %s, want %s", dp.Algorithm, dp.Fingerprint, want[dp.Algorithm])
		}
	}
}

func TestRunSuiteInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SuiteConfig)
		want   error
	}{
		{"no lengths", func(c *SuiteConfig) { c.Lengths = nil }, sentinel.ErrInvalidLength},
		{"negative length", func(c *SuiteConfig) { c.Lengths = []int{10, -1} }, sentinel.ErrInvalidLength},
		{"negative rounds", func(c *SuiteConfig) { c.Rounds = -1 }, sentinel.ErrInvalidRounds},
		{"bad probability", func(c *SuiteConfig) { c.Probability = 2 }, sentinel.ErrInvalidProbability},
		{"no sequences", func(c *SuiteConfig) { c.Sequences = nil }, sentinel.ErrInvalidGapSequence},
		{"unknown sequence", func(c *SuiteConfig) { c.Sequences = []string{"bogus"} }, sentinel.ErrInvalidGapSequence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := tinyConfig()
			tt.mutate(&config)

			results, err := RunSuite(context.Background(), config, nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if results != nil {
				t.Error("expected no results")
			}
		})
	}
}

func TestRunSuiteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := RunSuite(ctx, tinyConfig(), nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestExport(t *testing.T) {
	results, err := RunSuite(context.Background(), tinyConfig(), nil)
	if err != nil {
		t.Fatalf("suite failed: %v", err)
	}

	tests := []struct {
		format benchmark.Format
		want   []string
	}{
		{benchmark.FormatJSON, []string{`"data_points"`, `"system_info"`, `"comparisons_mean"`}},
		{benchmark.FormatYAML, []string{"data_points:", "algorithm: quicksort"}},
		{benchmark.FormatCSV, []string{"algorithm,sequence,length,", "shellsort,ciura_2001,200,", "quicksort,,50,"}},
		{benchmark.FormatMarkdown, []string{"# Benchmark Report", "## Results: length 50", "| knuth_1973 |", "Quicksort on the same shuffles"}},
		{benchmark.FormatText, []string{"=== BENCHMARK SUMMARY ===", "(quicksort)"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Export(&buf, results, tt.format); err != nil {
				t.Fatalf("export failed: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("expected %s export to contain %q:\n%s", tt.format, want, buf.String())
				}
			}
		})
	}

	var buf bytes.Buffer
	if err := Export(&buf, results, benchmark.FormatTOML); !errors.Is(err, sentinel.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestLoadPlan(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "plan.toml")
	tomlPlan := `lengths = [64, 128]
sequences = ["hibbard_1963", "1,3,7"]
rounds = 7
seed = 9
max_distance = 4
`
	if err := os.WriteFile(tomlPath, []byte(tomlPlan), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadPlan(tomlPath)
	if err != nil {
		t.Fatalf("LoadPlan failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.Lengths, []int{64, 128}) || cfg.Rounds != 7 || cfg.Seed != 9 || cfg.MaxDistance != 4 {
		t.Errorf("unexpected toml plan: %+v", cfg)
	}
	if cfg.Probability != 1.0 || !cfg.Quicksort {
		t.Errorf("expected defaults for omitted keys, got %+v", cfg)
	}

	yamlPath := filepath.Join(dir, "plan.yml")
	yamlPlan := `lengths: [32]
sequences:
  - tokuda_1992
quicksort: false
probability: 0.5
`
	if err := os.WriteFile(yamlPath, []byte(yamlPlan), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err = LoadPlan(yamlPath)
	if err != nil {
		t.Fatalf("LoadPlan failed: %v", err)
	}
	if !reflect.DeepEqual(cfg.Sequences, []string{"tokuda_1992"}) || cfg.Quicksort || cfg.Probability != 0.5 {
		t.Errorf("unexpected yaml plan: %+v", cfg)
	}
	if cfg.Rounds != DefaultConfig().Rounds {
		t.Errorf("expected default rounds, got %d", cfg.Rounds)
	}
}

func TestLoadPlanErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadPlan(filepath.Join(dir, "plan.json")); !errors.Is(err, sentinel.ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}

	if _, err := LoadPlan(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected an error for a missing plan")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("sequences: [nope]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPlan(bad); !errors.Is(err, sentinel.ErrInvalidGapSequence) {
		t.Errorf("expected ErrInvalidGapSequence, got %v", err)
	}
}

func TestFullSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full suite in short mode")
	}

	// Use quick config for testing
	config := QuickConfig()

	results, err := RunSuite(context.Background(), config, nil)
	if err != nil {
		t.Fatalf("suite failed: %v", err)
	}

	expectedPoints := config.TotalRuns() + len(config.Lengths)
	if len(results.DataPoints) != expectedPoints {
		t.Errorf("expected %d data points, got %d", expectedPoints, len(results.DataPoints))
	}

	// Generate reports
	for _, format := range []benchmark.Format{benchmark.FormatJSON, benchmark.FormatCSV, benchmark.FormatMarkdown} {
		var buf bytes.Buffer
		if err := Export(&buf, results, format); err != nil {
			t.Fatalf("failed to export %s: %v", format, err)
		}
		if buf.Len() == 0 {
			t.Errorf("empty %s export", format)
		}
	}
}
