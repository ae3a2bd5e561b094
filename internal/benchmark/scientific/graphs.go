package scientific

import (
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

const graphWidth = 50

// PrintGraphs prints ASCII graphs of benchmark results.
func PrintGraphs(w io.Writer, results *SuiteResults) {
	aggregated := aggregateResults(results)

	for _, length := range results.Config.Lengths {
		fmt.Fprintf(w, "\n")
		fmt.Fprintf(w, "=== GRAPHS: LENGTH %d ===\n", length)
		fmt.Fprintf(w, "\n")

		names := sequenceKeys(results, length)
		printComparisonsGraph(w, aggregated[length], names)
		printMovesGraph(w, aggregated[length], names)
	}
}

// printComparisonsGraph prints a bar per sequence of mean comparisons.
func printComparisonsGraph(w io.Writer, data map[string]*DataPoint, names []string) {
	fmt.Fprintf(w, "Mean Comparisons per Sequence\n")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 70))

	values := make([]float64, len(names))
	for i, name := range names {
		values[i] = data[name].ComparisonsMean
	}
	printBars(w, names, values, "%.0f")
	fmt.Fprintf(w, "\n")
}

// printMovesGraph prints a bar per sequence of mean moves.
func printMovesGraph(w io.Writer, data map[string]*DataPoint, names []string) {
	fmt.Fprintf(w, "Mean Moves per Sequence\n")
	fmt.Fprintf(w, "%s\n", strings.Repeat("-", 70))

	values := make([]float64, len(names))
	for i, name := range names {
		values[i] = data[name].MovesMean
	}
	printBars(w, names, values, "%.0f")
	fmt.Fprintf(w, "\n")
}

// printBars scales values to graphWidth against the largest one.
func printBars(w io.Writer, labels []string, values []float64, valueFormat string) {
	maxValue := 0.0
	for _, v := range values {
		maxValue = math.Max(maxValue, v)
	}

	for i, label := range labels {
		bar := 0
		if maxValue > 0 {
			bar = int(values[i] / maxValue * graphWidth)
		}
		fmt.Fprintf(w, "  %-24s %s "+valueFormat+"\n", label, strings.Repeat("█", bar), values[i])
	}
}

// PrintScalingAnalysis prints how comparison counts grow with the array length.
func PrintScalingAnalysis(w io.Writer, results *SuiteResults) {
	aggregated := aggregateResults(results)

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "=== SCALING ANALYSIS ===\n")
	fmt.Fprintf(w, "\n")

	for _, name := range results.Config.Sequences {
		analyzeScaling(w, canonicalName(results, name), aggregated, results.Config.Lengths)
	}
	fmt.Fprintf(w, "\n")
}

// analyzeScaling prints comparisons/(n·log2 n) per length and the growth
// exponent between consecutive lengths for one sequence.
func analyzeScaling(w io.Writer, seq string, data map[int]map[string]*DataPoint, lengths []int) {
	fmt.Fprintf(w, "%s:\n", seq)

	if len(lengths) < 2 {
		fmt.Fprintf(w, "  (insufficient data points)\n")
		return
	}

	// Ideal n log n scaling keeps the ratio flat; the exponent is the
	// slope of comparisons against length on a log-log scale.
	for i := 1; i < len(lengths); i++ {
		prev := data[lengths[i-1]][seq]
		curr := data[lengths[i]][seq]

		if prev == nil || curr == nil || prev.ComparisonsMean == 0 || lengths[i-1] == lengths[i] {
			continue
		}

		lengthRatio := float64(lengths[i]) / float64(lengths[i-1])
		compRatio := curr.ComparisonsMean / prev.ComparisonsMean
		exponent := math.Log(compRatio) / math.Log(lengthRatio)

		fmt.Fprintf(w, "  %d → %d: comps/nlogn %.3f → %.3f, growth exponent %.3f\n",
			lengths[i-1], lengths[i],
			nlognRatio(prev.ComparisonsMean, lengths[i-1]),
			nlognRatio(curr.ComparisonsMean, lengths[i]),
			exponent)
	}
}

// canonicalName maps a configured sequence to the name its data points carry.
func canonicalName(results *SuiteResults, configured string) string {
	idx := -1
	for i, name := range results.Config.Sequences {
		if name == configured {
			idx = i
			break
		}
	}
	if len(results.Config.Lengths) == 0 || idx < 0 {
		return configured
	}
	keys := sequenceKeys(results, results.Config.Lengths[0])
	if idx < len(keys) {
		return keys[idx]
	}
	return configured
}

// PrintVariability reports how stable each sequence's comparison count is
// across rounds and how far it sits from the best sequence of its length.
func PrintVariability(w io.Writer, results *SuiteResults) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "=== VARIABILITY ===\n")
	if results.Config.Rounds < 3 {
		fmt.Fprintf(w, "(Skipped: need at least 3 rounds for statistical analysis)\n")
		return
	}
	fmt.Fprintf(w, "\n")

	aggregated := aggregateResults(results)
	for _, length := range results.Config.Lengths {
		cells := aggregated[length]
		names := sequenceKeys(results, length)
		if len(names) == 0 {
			continue
		}

		best := cells[names[0]]
		for _, name := range names[1:] {
			if cells[name].ComparisonsMean < best.ComparisonsMean {
				best = cells[name]
			}
		}

		// Coefficient of variation per sequence, lower = more predictable
		cvs := make([]float64, len(names))
		for i, name := range names {
			dp := cells[name]
			if dp.ComparisonsMean > 0 {
				cvs[i] = dp.ComparisonsStdDev / dp.ComparisonsMean * 100
			}
		}
		meanCV, stdCV := stat.MeanStdDev(cvs, nil)

		fmt.Fprintf(w, "Length: %d (best: %s)\n", length, best.Sequence)
		fmt.Fprintf(w, "%s\n", strings.Repeat("-", 70))
		for i, name := range names {
			dp := cells[name]
			effect := effectSize(dp, best)
			fmt.Fprintf(w, "  %-24s CV=%5.2f%%  effect size vs best: %6.2f (%s)\n",
				name, cvs[i], effect, effectLabel(effect))
		}
		if len(names) > 1 {
			fmt.Fprintf(w, "  CV across sequences: mean %.2f%%, stddev %.2f%%\n", meanCV, stdCV)
		}
		fmt.Fprintf(w, "\n")
	}

	fmt.Fprintf(w, "Effect size interpretation:\n")
	fmt.Fprintf(w, "  < 0.5  = small (may not be practically significant)\n")
	fmt.Fprintf(w, "  0.5-0.8 = medium (likely practically significant)\n")
	fmt.Fprintf(w, "  > 0.8  = large (definitely practically significant)\n")
	fmt.Fprintf(w, "\n")
}

// effectSize is the difference in mean comparisons normalized by the pooled
// standard deviation (Cohen's d).
func effectSize(a, b *DataPoint) float64 {
	pooled := math.Sqrt((a.ComparisonsStdDev*a.ComparisonsStdDev + b.ComparisonsStdDev*b.ComparisonsStdDev) / 2)
	if pooled == 0 {
		return 0
	}
	return math.Abs(a.ComparisonsMean-b.ComparisonsMean) / pooled
}

func effectLabel(d float64) string {
	switch {
	case d > 0.8:
		return "large"
	case d > 0.5:
		return "medium"
	}
	return "small"
}
