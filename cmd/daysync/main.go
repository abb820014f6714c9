package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts serveOptions

	root := &cobra.Command{
		Use:           "daysync",
		Short:         "Dashboard data API: MotoGP calendar, weather, crypto, news and stocks",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("DAYSYNC_CONFIG"), "config file (default daysync.yaml if present)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), opts)
		},
	}
	for _, c := range []*cobra.Command{root, serveCmd} {
		c.Flags().BoolVar(&opts.testMode, "test-mode", false, "answer from embedded fixtures instead of upstream APIs")
	}

	root.AddCommand(
		serveCmd,
		&cobra.Command{
			Use:   "version",
			Short: "Print the version",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintln(cmd.OutOrStdout(), "daysync", version)
			},
		},
		newICSToJSONCommand(),
		newImportCommand(&opts),
	)
	return root
}
