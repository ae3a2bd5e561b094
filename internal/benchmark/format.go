package benchmark

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/goccy/go-json"
	"github.com/hyp3rd/ewrap"
	"gopkg.in/yaml.v3"

	"github.com/mschirtzinger/shellbench/internal/sentinel"
	"github.com/mschirtzinger/shellbench/internal/ui"
)

// Format names an output encoding for reports.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatTOML     Format = "toml"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// Formats lists every supported report format.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatTOML, FormatCSV, FormatMarkdown}
}

// ParseFormat maps a user supplied name (case-insensitive, "md" and "yml"
// accepted) to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	}
	return "", ewrap.Wrapf(sentinel.ErrUnknownFormat, "%q (want one of %s)", s, JoinFormats(Formats()))
}

// JoinFormats renders formats as a comma separated list for messages and help text.
func JoinFormats(formats []Format) string {
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// WriteOption customizes WriteReport.
type WriteOption func(*writeOptions)

type writeOptions struct {
	styles ui.Styles
}

// WithStyles sets the palette for text output. The default is ui.Plain().
func WithStyles(s ui.Styles) WriteOption {
	return func(o *writeOptions) {
		o.styles = s
	}
}

// WriteReport encodes report to w in the given format.
func WriteReport(w io.Writer, report *Report, format Format, opts ...WriteOption) error {
	o := writeOptions{styles: ui.Plain()}
	for _, opt := range opts {
		opt(&o)
	}

	switch format {
	case FormatText:
		return writeText(w, report, o.styles)
	case FormatJSON:
		return encodeJSON(w, report)
	case FormatYAML:
		return encodeYAML(w, report)
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(report); err != nil {
			return ewrap.Wrap(err, "encode toml")
		}
		return nil
	case FormatCSV:
		return writeCSV(w, report)
	case FormatMarkdown:
		return writeMarkdown(w, report)
	}
	return ewrap.Wrapf(sentinel.ErrUnknownFormat, "%q", format)
}

// ReadReport decodes a JSON report.
func ReadReport(r io.Reader) (*Report, error) {
	var report Report
	if err := json.NewDecoder(r).Decode(&report); err != nil {
		return nil, ewrap.Wrap(err, "decode report")
	}
	return &report, nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return ewrap.Wrap(err, "encode json")
	}
	return nil
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return ewrap.Wrap(err, "encode yaml")
	}
	if err := enc.Close(); err != nil {
		return ewrap.Wrap(err, "encode yaml")
	}
	return nil
}

// FormatGaps renders gaps as a bracketed, comma-separated list.
func FormatGaps(gaps []int) string {
	parts := make([]string, len(gaps))
	for i, g := range gaps {
		parts[i] = strconv.Itoa(g)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func writeText(w io.Writer, report *Report, s ui.Styles) error {
	p := report.Params
	var b strings.Builder

	fmt.Fprintf(&b, "Sorting results on array of length %d for %d round(s).\n", p.Length, p.Rounds)
	fmt.Fprintf(&b, "Shell sort performed with gap sequence: %s\n", FormatGaps(p.Gaps))
	b.WriteString(s.Muted.Render(fmt.Sprintf("sequence %s, seed %d, fingerprint %s", p.Sequence, p.Seed, report.Fingerprint)))
	b.WriteString("\n\n")

	line := func(label, value string) {
		fmt.Fprintf(&b, "%s %s\n", s.Label.Render(label+":"), s.Value.Render(value))
	}
	mean := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	count := func(v uint64) string { return strconv.FormatUint(v, 10) }

	sh := report.Shellsort
	b.WriteString(s.Title.Render("Shellsort Report:") + "\n")
	line("Average comparisons", mean(sh.Comparisons.Mean))
	line("Std Dev comparisons", mean(sh.Comparisons.StdDev))
	line("Most comparisons", count(sh.Comparisons.Max))
	line("Fewest comparisons", count(sh.Comparisons.Min))
	line("Average moves", mean(sh.Moves.Mean))
	line("Std Dev moves", mean(sh.Moves.StdDev))
	line("Most moves", count(sh.Moves.Max))
	line("Fewest moves", count(sh.Moves.Min))
	b.WriteString("\n")

	if q := report.Quicksort; q != nil {
		b.WriteString(s.Title.Render("Quicksort Report:") + "\n")
		line("Average Comparisons", mean(q.Comparisons.Mean))
		line("Std Dev Comparisons", mean(q.Comparisons.StdDev))
		line("Most Comparisons", count(q.Comparisons.Max))
		line("Fewest Comparisons", count(q.Comparisons.Min))
		line("Average Swaps", mean(q.Swaps.Mean))
		line("Std Dev Swaps", mean(q.Swaps.StdDev))
		line("Most Swaps", count(q.Swaps.Max))
		line("Fewest Swaps", count(q.Swaps.Min))
		line("Average Max Depth", mean(q.MaxDepth.Mean))
		line("Std Dev Max Depth", mean(q.MaxDepth.StdDev))
		line("Highest Max Depth", count(q.MaxDepth.Max))
		line("Lowest Max Depth", count(q.MaxDepth.Min))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

type metricRow struct {
	algorithm string
	metric    string
	summary   Summary
}

func metricRows(report *Report) []metricRow {
	rows := []metricRow{
		{"shellsort", "comparisons", report.Shellsort.Comparisons},
		{"shellsort", "moves", report.Shellsort.Moves},
	}
	if q := report.Quicksort; q != nil {
		rows = append(rows,
			metricRow{"quicksort", "comparisons", q.Comparisons},
			metricRow{"quicksort", "swaps", q.Swaps},
			metricRow{"quicksort", "max_depth", q.MaxDepth},
		)
	}
	return rows
}

func writeCSV(w io.Writer, report *Report) error {
	cw := csv.NewWriter(w)

	header := []string{"algorithm", "metric", "mean", "stddev", "min", "max", "length", "rounds", "seed", "sequence"}
	if err := cw.Write(header); err != nil {
		return err
	}

	p := report.Params
	for _, row := range metricRows(report) {
		record := []string{
			row.algorithm,
			row.metric,
			fmt.Sprintf("%.4f", row.summary.Mean),
			fmt.Sprintf("%.4f", row.summary.StdDev),
			fmt.Sprintf("%d", row.summary.Min),
			fmt.Sprintf("%d", row.summary.Max),
			fmt.Sprintf("%d", p.Length),
			fmt.Sprintf("%d", p.Rounds),
			fmt.Sprintf("%d", p.Seed),
			p.Sequence,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func writeMarkdown(w io.Writer, report *Report) error {
	p := report.Params
	var b strings.Builder

	fmt.Fprintf(&b, "# Sort Report: %s\n\n", p.Sequence)
	fmt.Fprintf(&b, "- **Length:** %d\n", p.Length)
	fmt.Fprintf(&b, "- **Rounds:** %d\n", p.Rounds)
	fmt.Fprintf(&b, "- **Seed:** %d\n", p.Seed)
	fmt.Fprintf(&b, "- **Gaps:** `%s`\n", FormatGaps(p.Gaps))
	if p.MaxDistance > 0 || p.Probability < 1 {
		fmt.Fprintf(&b, "- **Shuffle:** max distance %d, probability %.2f\n", p.MaxDistance, p.Probability)
	}
	fmt.Fprintf(&b, "- **Fingerprint:** `%s`\n", report.Fingerprint)
	fmt.Fprintf(&b, "- **Version:** %s\n\n", report.Version)

	fmt.Fprintf(&b, "| Algorithm | Metric | Mean | Std Dev | Min | Max |\n")
	fmt.Fprintf(&b, "|-----------|--------|------|---------|-----|-----|\n")
	for _, row := range metricRows(report) {
		fmt.Fprintf(&b, "| %s | %s | %.2f | %.2f | %d | %d |\n",
			row.algorithm, row.metric, row.summary.Mean, row.summary.StdDev, row.summary.Min, row.summary.Max)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatDuration formats a duration into a human-readable string.
func FormatDuration(d time.Duration) string {
	if d < time.Microsecond {
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
	if d < time.Millisecond {
		return fmt.Sprintf("%.2fµs", float64(d.Nanoseconds())/1000.0)
	}
	if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Microseconds())/1000.0)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
