// Package cli implements the envreport command: offline reports and dataset
// checks against the same CSV the dashboard serves.
package cli

import (
	"io"
	"log/slog"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	DataPath string
	Verbose  bool
}

// NewRootCommand creates the root command for the envreport CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "envreport",
		Short:         "Environmental damage reports from the dashboard dataset",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.DataPath, "data",
		sharedcfg.EnvOrDefault("DATA_PATH", "data/enviroment.csv"), "path to the dataset CSV")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log progress to stderr")

	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))

	return cmd
}

// logger writes to stderr so structured output on stdout stays clean.
func (o *RootOptions) logger(stderr io.Writer) *slog.Logger {
	if !o.Verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
