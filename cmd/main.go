package main

import (
	"context"
	"fmt"
	"os"

	"github.com/loopfz/gadgeto/tonic"
	"github.com/spf13/cobra"

	api "github.com/biotools-linter/linter-api/pkg/api_client"
)

func init() {
	tonic.SetErrorHook(api.ErrorHook)
}

var (
	portFlag  int
	statsFlag string

	rootCmd = &cobra.Command{
		Use:           "linter-api",
		Short:         "Serves bio.tools lint results and relints tools on demand",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE:  runServe,
	}

	snapshotCmd = &cobra.Command{
		Use:   "snapshot",
		Short: "Append one entry to the statistics file and exit",
		RunE:  runSnapshot,
	}
)

func main() {
	serveCmd.Flags().IntVar(&portFlag, "port", 0, "listen port (overrides PORT)")
	serveCmd.Flags().StringVar(&statsFlag, "stats", "", "statistics file (overrides STATS_FILE)")
	snapshotCmd.Flags().StringVar(&statsFlag, "stats", "", "statistics file (overrides STATS_FILE)")
	rootCmd.AddCommand(serveCmd, snapshotCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "linter-api:", err)
		os.Exit(1)
	}
}
