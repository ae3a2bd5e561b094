package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mschirtzinger/shellbench/internal/benchmark"
	"github.com/mschirtzinger/shellbench/internal/benchmark/scientific"
	"github.com/mschirtzinger/shellbench/internal/config"
	"github.com/mschirtzinger/shellbench/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:     "watch",
	GroupID: "bench",
	Short:   "Re-run a suite plan whenever it changes",
	Long: `Run the suite described by a plan file, then run it again every time the
file is saved, until interrupted.

The plan does not have to exist yet. An invalid plan is reported and the
previous results stay on screen until the next save.

Example:
  shellbench watch --plan plan.toml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		plan, _ := cmd.Flags().GetString("plan")
		debounce, _ := cmd.Flags().GetDuration("debounce")

		format, err := suiteFormat(settings.Format)
		if err != nil {
			return err
		}
		return watchPlan(cmd.Context(), plan, debounce, cmd.OutOrStdout(), format, logger)
	},
}

func init() {
	watchCmd.Flags().StringP("plan", "p", "", "Suite plan file (.toml, .yaml)")
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "Quiet period before a change triggers a run")
	watchCmd.Flags().String(config.KeyFormat, string(benchmark.FormatText), "Output format: text, json, yaml, csv, markdown")
	_ = watchCmd.MarkFlagRequired("plan")
	rootCmd.AddCommand(watchCmd)
}

// watchPlan runs the suite in plan now, if the file exists, and after every
// change to it. It returns when ctx is done.
func watchPlan(
	ctx context.Context,
	plan string,
	debounce time.Duration,
	out io.Writer,
	format benchmark.Format,
	log logrus.FieldLogger,
) error {
	w, err := watch.New(watch.WithDebounce(debounce))
	if err != nil {
		return err
	}
	defer w.Stop()

	if err := w.Start(plan); err != nil {
		return err
	}

	log = log.WithField("plan", plan)
	run := func() {
		cfg, err := scientific.LoadPlan(plan)
		if err != nil {
			log.WithError(err).Error("plan not loaded")
			return
		}
		results, err := scientific.RunSuite(ctx, cfg, log)
		if err != nil {
			if ctx.Err() == nil {
				log.WithError(err).Error("suite failed")
			}
			return
		}
		if err := writeSuite(out, results, format); err != nil {
			log.WithError(err).Error("results not written")
		}
	}

	if _, err := os.Stat(plan); err == nil {
		run()
	} else {
		log.Info("waiting for the plan to be created")
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events():
			if !ok {
				return nil
			}
			if event.Op == watch.OpRemove {
				log.Warn("plan removed, waiting for it to return")
				continue
			}
			log.WithField("op", event.Op).Info("plan changed")
			run()

		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watch error")
		}
	}
}
