package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/shellbench/internal/benchmark"
)

var versionCmd = &cobra.Command{
	Use:     "version",
	GroupID: "tools",
	Short:   "Print version information",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "shellbench %s (%s, %s/%s)\n",
			benchmark.Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
