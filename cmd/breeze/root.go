package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"

	"github.com/breeze-go/breeze"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	verbose bool
	compact bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "breeze",
		Short:         "Query a Breeze ChMS instance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")
	cmd.PersistentFlags().BoolVar(&opts.compact, "compact", false, "print JSON on one line")

	cmd.AddCommand(
		newPeopleCmd(opts),
		newPersonCmd(opts),
		newEventsCmd(opts),
		newFundsCmd(opts),
		newTagsCmd(opts),
		newAccountLogCmd(opts),
		newNormalizeCmd(opts),
	)
	return cmd
}

func (o *rootOptions) logger() *slog.Logger {
	if !o.verbose {
		return nil
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// client builds a client from the environment.
func (o *rootOptions) client() (*breeze.Client, error) {
	cfg, err := breeze.LoadConfig()
	if err != nil {
		return nil, err
	}
	if l := o.logger(); l != nil {
		l.Debug("cli.config.loaded", slog.Any("config", cfg))
		return breeze.NewFromConfig(cfg, breeze.WithLogger(l))
	}
	return breeze.NewFromConfig(cfg)
}

func (o *rootOptions) print(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if !o.compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
