package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/hyp3rd/ewrap"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mschirtzinger/shellbench/internal/benchmark"
	"github.com/mschirtzinger/shellbench/internal/config"
	"github.com/mschirtzinger/shellbench/internal/gaps"
	"github.com/mschirtzinger/shellbench/internal/sentinel"
)

var sequencesCmd = &cobra.Command{
	Use:     "sequences",
	Aliases: []string{"ls"},
	GroupID: "tools",
	Short:   "List the named gap sequences",
	Long: `List the named gap sequences with their formulas and OEIS entries.

With --length the concrete gaps for an array of that length are shown too.
Names are case-insensitive; ciura_2021 is accepted for ciura_2001.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Read the flags directly: a configured run length or report
		// format must not apply here.
		length, _ := cmd.Flags().GetInt(config.KeyLength)
		if length < 0 {
			return ewrap.Wrapf(sentinel.ErrInvalidLength, "got %d", length)
		}
		name, _ := cmd.Flags().GetString(config.KeyFormat)
		format, err := benchmark.ParseFormat(name)
		if err != nil {
			return err
		}
		return writeSequences(cmd.OutOrStdout(), length, format)
	},
}

func init() {
	sequencesCmd.Flags().IntP(config.KeyLength, "l", 0, "Also show the gaps for an array of this length")
	sequencesCmd.Flags().String(config.KeyFormat, string(benchmark.FormatText), "Output format: text, json, yaml")
	rootCmd.AddCommand(sequencesCmd)
}

type sequenceEntry struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	OEIS        string `json:"oeis,omitempty" yaml:"oeis,omitempty"`
	Gaps        []int  `json:"gaps,omitempty" yaml:"gaps,omitempty"`
}

func catalogEntries(length int) []sequenceEntry {
	catalog := gaps.Catalog()
	entries := make([]sequenceEntry, 0, len(catalog))
	for _, info := range catalog {
		e := sequenceEntry{Name: info.Name, Description: info.Description, OEIS: info.OEIS}
		if length > 0 {
			e.Gaps = gaps.MustParse(info.Name).Gaps(length)
		}
		entries = append(entries, e)
	}
	return entries
}

// writeSequences lists every named sequence, with its gaps for length when
// length is positive.
func writeSequences(w io.Writer, length int, format benchmark.Format) error {
	entries := catalogEntries(length)

	switch format {
	case benchmark.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			return ewrap.Wrap(err, "encode json")
		}
		return nil
	case benchmark.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		if err := enc.Encode(entries); err != nil {
			return ewrap.Wrap(err, "encode yaml")
		}
		return nil
	}
	if format != benchmark.FormatText {
		return ewrap.Wrapf(sentinel.ErrUnknownFormat, "%q for sequences", format)
	}

	var b strings.Builder
	b.WriteString("Gap sequences (-g NAME, or comma-separated gaps such as 1,4,10,23):\n\n")
	for _, e := range entries {
		oeis := e.OEIS
		if oeis == "" {
			oeis = "-"
		}
		fmt.Fprintf(&b, "  %-24s %-8s %s\n", e.Name, oeis, e.Description)
		if e.Gaps != nil {
			fmt.Fprintf(&b, "  %-24s %-8s %s\n", "", "", benchmark.FormatGaps(e.Gaps))
		}
	}
	fmt.Fprintf(&b, "\nThe default is %s.\n", gaps.Default().Name())

	_, err := io.WriteString(w, b.String())
	return err
}
