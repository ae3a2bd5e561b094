// Command shellbench measures how many comparisons and moves Shellsort needs
// under different gap sequences, optionally against Quicksort.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mschirtzinger/shellbench/internal/benchmark"
	"github.com/mschirtzinger/shellbench/internal/config"
	"github.com/mschirtzinger/shellbench/internal/logging"
	"github.com/mschirtzinger/shellbench/internal/ui"
)

var (
	configFile string

	// Resolved by the root command's PersistentPreRunE before any command runs
	settings *config.Settings
	logger   *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "shellbench",
	Short: "Test the performance of Shellsort with different gap sequences",
	Long: `Test the performance of Shellsort with different gap sequences.

Every round shuffles an array of 0..length-1 with a seeded generator, sorts it
with Shellsort under the chosen gaps and counts comparisons and moves. With
--quicksort the same shuffles are also sorted by Quicksort.

Without a subcommand shellbench behaves like "shellbench run".

Settings come from flags, SHELLBENCH_* environment variables
(SHELLBENCH_GAP_SEQUENCE=tokuda_1992) and a shellbench.toml or shellbench.yaml
file in the current directory or ~/.config/shellbench, in that order.`,
	Version:           benchmark.Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runBenchmark,
}

func init() {
	rootCmd.SetVersionTemplate("shellbench {{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: "bench", Title: "Benchmarks:"},
		&cobra.Group{ID: "tools", Title: "Tools:"},
	)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Config file (default: shellbench.{toml,yaml} in . or ~/.config/shellbench)")
	pf.String(config.KeyLogLevel, "info", "Log level: debug, info, warn, error")
	pf.String(config.KeyLogFile, "", "Write logs to this file, rotated by size")
	pf.Bool(config.KeyLogJSON, false, "Write logs as JSON lines")
	pf.Bool(config.KeyNoColor, false, "Disable colored output")

	addRunFlags(rootCmd)
}

// setup resolves the settings of the invoked command and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}

	var searchPaths []string
	if configFile == "" {
		searchPaths = config.DefaultSearchPaths()
	}
	s, err := config.Load(v, configFile, searchPaths...)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}
	settings = s

	logger = logging.New(logging.Options{
		Level:   s.LogLevel,
		File:    s.LogFile,
		JSON:    s.LogJSON,
		NoColor: s.NoColor,
		Output:  cmd.ErrOrStderr(),
	})
	if s.ConfigFile != "" {
		logger.WithField("file", s.ConfigFile).Debug("config loaded")
	}
	return nil
}

// stylesFor returns the text palette for w, honoring --no-color.
func stylesFor(w io.Writer) ui.Styles {
	return ui.NewStyles(w, !settings.NoColor && ui.ColorEnabled(w))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
