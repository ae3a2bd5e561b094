package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mschirtzinger/shellbench/internal/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	GroupID: "tools",
	Short:   "Serve benchmark runs over HTTP with live WebSocket progress",
	Long: `Start an HTTP server that runs benchmarks on request and streams their
progress to WebSocket clients.

Endpoints:
  /ws             WebSocket: "round" after every round, "report" when a run ends
  /api/run        run a benchmark: ?length=&rounds=&seed=&gaps=&quicksort=
                  (also max_distance= and probability=); answers with the JSON report
  /api/sequences  the named gap sequences (?length= adds their gaps)
  /health         server status

Example usage:
  shellbench dashboard               # Start on default port 8080
  shellbench dashboard --port 9000   # Start on custom port
  curl 'localhost:8080/api/run?length=1000&rounds=50&gaps=tokuda_1992'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		host, _ := cmd.Flags().GetString("host")

		server := dashboard.NewServer(&dashboard.Config{
			Port:   port,
			Host:   host,
			Logger: logger.WithField("component", "dashboard"),
		})
		if err := server.Start(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		addr := server.GetAddr()
		fmt.Fprintf(out, "Dashboard server started on http://%s\n", addr)
		fmt.Fprintf(out, "WebSocket endpoint: ws://%s/ws\n", addr)
		fmt.Fprintf(out, "Health check: http://%s/health\n", addr)
		fmt.Fprintln(out, "\nPress Ctrl+C to stop...")

		<-cmd.Context().Done()

		fmt.Fprintln(out, "\nShutting down dashboard server...")
		if err := server.Stop(); err != nil {
			return err
		}
		fmt.Fprintln(out, "Dashboard server stopped")
		return nil
	},
}

func init() {
	dashboardCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	dashboardCmd.Flags().String("host", "", "Interface to bind (default: all)")
	rootCmd.AddCommand(dashboardCmd)
}
