package benchmark

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"github.com/hyp3rd/ewrap"

	"github.com/mschirtzinger/shellbench/internal/gaps"
	"github.com/mschirtzinger/shellbench/internal/sentinel"
	"github.com/mschirtzinger/shellbench/internal/ui"
)

// TieWinner is the OverallWinner when no sequence wins more metrics than every other.
const TieWinner = "tie"

// compared metrics, lower is better for all of them
var comparedMetrics = []string{"mean comparisons", "mean moves", "most comparisons", "most moves"}

// SequenceComparison is one sequence's row in a ComparisonResult.
type SequenceComparison struct {
	Sequence string  `json:"sequence" yaml:"sequence"`
	Report   *Report `json:"report" yaml:"report"`

	// Improvement over the baseline in percent (positive = fewer operations)
	ComparisonImprovement float64 `json:"comparison_improvement_pct" yaml:"comparison_improvement_pct"`
	MoveImprovement       float64 `json:"move_improvement_pct" yaml:"move_improvement_pct"`

	// Two-sided Mann-Whitney U p-values against the baseline's per-round counts
	ComparisonPValue float64 `json:"comparison_p_value" yaml:"comparison_p_value"`
	MovePValue       float64 `json:"move_p_value" yaml:"move_p_value"`

	// Wins is the number of compared metrics this sequence is strictly best at
	Wins int `json:"wins" yaml:"wins"`
}

// ComparisonResult contains the results of measuring several gap sequences
// against identical shuffles. The first sequence is the baseline.
type ComparisonResult struct {
	Length        int                  `json:"length" yaml:"length"`
	Rounds        int                  `json:"rounds" yaml:"rounds"`
	Seed          uint64               `json:"seed" yaml:"seed"`
	Baseline      string               `json:"baseline" yaml:"baseline"`
	Sequences     []SequenceComparison `json:"sequences" yaml:"sequences"`
	OverallWinner string               `json:"winner" yaml:"winner"`
}

// Compare runs cfg once per sequence. Every run uses cfg's seed and shuffle
// parameters, so all sequences sort exactly the same arrays in the same order.
func Compare(ctx context.Context, cfg Config, sequences []gaps.Sequence, opts ...Option) (*ComparisonResult, error) {
	if len(sequences) == 0 {
		return nil, ewrap.Wrap(sentinel.ErrInvalidGapSequence, "nothing to compare")
	}

	result := &ComparisonResult{
		Length:    cfg.Length,
		Rounds:    cfg.Rounds,
		Seed:      cfg.Seed,
		Baseline:  sequences[0].String(),
		Sequences: make([]SequenceComparison, 0, len(sequences)),
	}

	var baseline *Results
	for _, seq := range sequences {
		run := cfg
		run.Sequence = seq

		results, err := Run(ctx, run, opts...)
		if err != nil {
			return nil, ewrap.Wrapf(err, "sequence %s", seq)
		}
		report, err := NewReport(run, results)
		if err != nil {
			return nil, ewrap.Wrapf(err, "sequence %s", seq)
		}
		if baseline == nil {
			baseline = results
		}

		row := SequenceComparison{
			Sequence: seq.String(),
			Report:   report,
		}
		base := result.baselineReport(report)
		row.ComparisonImprovement = calculateImprovement(report.Shellsort.Comparisons.Mean, base.Shellsort.Comparisons.Mean)
		row.MoveImprovement = calculateImprovement(report.Shellsort.Moves.Mean, base.Shellsort.Moves.Mean)

		row.ComparisonPValue, row.MovePValue = 1, 1
		if results != baseline {
			if row.ComparisonPValue, err = mannWhitney(comparisons(baseline), comparisons(results)); err != nil {
				return nil, err
			}
			if row.MovePValue, err = mannWhitney(moves(baseline), moves(results)); err != nil {
				return nil, err
			}
		}

		result.Sequences = append(result.Sequences, row)
	}

	result.countWins()
	return result, nil
}

func (c *ComparisonResult) baselineReport(current *Report) *Report {
	if len(c.Sequences) == 0 {
		return current
	}
	return c.Sequences[0].Report
}

// countWins awards each compared metric to the single sequence with the
// lowest value; shared minima award nothing.
func (c *ComparisonResult) countWins() {
	for _, metric := range comparedMetrics {
		best := math.Inf(1)
		winner := -1
		for i, row := range c.Sequences {
			v := metricValue(row.Report, metric)
			switch {
			case v < best:
				best = v
				winner = i
			case v == best:
				winner = -1
			}
		}
		if winner >= 0 {
			c.Sequences[winner].Wins++
		}
	}

	c.OverallWinner = TieWinner
	most := 0
	for _, row := range c.Sequences {
		switch {
		case row.Wins > most:
			most = row.Wins
			c.OverallWinner = row.Sequence
		case row.Wins == most && most > 0:
			c.OverallWinner = TieWinner
		}
	}
}

func metricValue(r *Report, metric string) float64 {
	switch metric {
	case "mean comparisons":
		return r.Shellsort.Comparisons.Mean
	case "mean moves":
		return r.Shellsort.Moves.Mean
	case "most comparisons":
		return float64(r.Shellsort.Comparisons.Max)
	case "most moves":
		return float64(r.Shellsort.Moves.Max)
	}
	return math.NaN()
}

// calculateImprovement calculates percentage improvement.
// Positive = value is better (lower) than the baseline.
func calculateImprovement(value, baselineValue float64) float64 {
	if baselineValue == 0 {
		return 0
	}
	return (baselineValue - value) / baselineValue * 100
}

func comparisons(r *Results) []float64 {
	out := make([]float64, len(r.Shellsort))
	for i, s := range r.Shellsort {
		out[i] = float64(s.Comparisons)
	}
	return out
}

func moves(r *Results) []float64 {
	out := make([]float64, len(r.Shellsort))
	for i, s := range r.Shellsort {
		out[i] = float64(s.Moves)
	}
	return out
}

// mannWhitney returns the two-sided p-value that x and y come from
// distributions with the same location. Identical samples give 1.
func mannWhitney(x, y []float64) (float64, error) {
	res, err := stats.MannWhitneyUTest(x, y, stats.LocationDiffers)
	if errors.Is(err, stats.ErrSamplesEqual) {
		return 1, nil
	}
	if err != nil {
		return 0, ewrap.Wrap(err, "mann-whitney u test")
	}
	return res.P, nil
}

// WriteComparison outputs a comparison as a text table, JSON or YAML.
func WriteComparison(w io.Writer, result *ComparisonResult, format Format, opts ...WriteOption) error {
	o := writeOptions{styles: ui.Plain()}
	for _, opt := range opts {
		opt(&o)
	}

	switch format {
	case FormatText:
		return writeComparisonText(w, result, o.styles)
	case FormatJSON:
		return encodeJSON(w, result)
	case FormatYAML:
		return encodeYAML(w, result)
	}
	return ewrap.Wrapf(sentinel.ErrUnknownFormat, "%q for comparisons", format)
}

func writeComparisonText(w io.Writer, result *ComparisonResult, s ui.Styles) error {
	var b strings.Builder
	separator := strings.Repeat("=", 96)

	fmt.Fprintf(&b, "%s\n", separator)
	fmt.Fprintf(&b, "%s\n", s.Title.Render("GAP SEQUENCE COMPARISON"))
	fmt.Fprintf(&b, "%s\n\n", separator)

	fmt.Fprintf(&b, "Configuration:\n")
	fmt.Fprintf(&b, "  Length:   %d\n", result.Length)
	fmt.Fprintf(&b, "  Rounds:   %d\n", result.Rounds)
	fmt.Fprintf(&b, "  Seed:     %d\n", result.Seed)
	fmt.Fprintf(&b, "  Baseline: %s\n\n", result.Baseline)

	fmt.Fprintf(&b, "%-26s | %-12s | %-10s | %-12s | %-10s | %-8s | %-4s\n",
		"Sequence", "Mean Comps", "vs Base", "Mean Moves", "vs Base", "p(comps)", "Wins")
	fmt.Fprintf(&b, "%s\n", strings.Repeat("-", 96))

	for i, row := range result.Sequences {
		sh := row.Report.Shellsort
		compStr := formatImprovement(row.ComparisonImprovement, s)
		moveStr := formatImprovement(row.MoveImprovement, s)
		pStr := fmt.Sprintf("%.4f", row.ComparisonPValue)
		if i == 0 {
			compStr, moveStr, pStr = s.Muted.Render("baseline"), s.Muted.Render("baseline"), s.Muted.Render("-")
		}
		fmt.Fprintf(&b, "%-26s | %-12.2f | %-10s | %-12.2f | %-10s | %-8s | %-4d\n",
			truncate(row.Sequence, 26), sh.Comparisons.Mean, compStr, sh.Moves.Mean, moveStr, pStr, row.Wins)
	}
	fmt.Fprintf(&b, "\n")

	fmt.Fprintf(&b, "SUMMARY:\n")
	fmt.Fprintf(&b, "  Metrics compared: %s\n", strings.Join(comparedMetrics, ", "))
	fmt.Fprintf(&b, "  Overall Winner:   %s\n", s.Value.Render(strings.ToUpper(result.OverallWinner)))
	fmt.Fprintf(&b, "%s\n", separator)

	_, err := io.WriteString(w, b.String())
	return err
}

func formatImprovement(v float64, s ui.Styles) string {
	text := fmt.Sprintf("%s%.1f%%", formatSign(v), v)
	switch {
	case v > 0:
		return s.Good.Render(text)
	case v < 0:
		return s.Bad.Render(text)
	}
	return text
}

// formatSign returns a + sign for positive values.
func formatSign(value float64) string {
	if value > 0 {
		return "+"
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
