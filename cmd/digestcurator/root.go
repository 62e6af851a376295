package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"DigestCurator/internal/config"
	"DigestCurator/internal/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "digestcurator",
		Short: "Curate a relevance-ranked digest from feeds and papers",
		Long: `digestcurator fetches recent articles and papers, rates them with a
text-completion service and publishes a bucketed digest.

Example usage:
  digestcurator run --preview        # One pass, print the digest to the terminal
  digestcurator serve                # Run on the configured cron schedule
  digestcurator version`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: $DIGEST_CURATOR_CONFIG)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(newRunCmd(opts), newServeCmd(opts), newVersionCmd())
	return root
}

// load resolves configuration and the logger for a command.
func (o *rootOptions) load() (config.Config, *slog.Logger, error) {
	var cfg config.Config
	if o.configPath != "" {
		var err error
		cfg, err = config.LoadFile(o.configPath)
		if err != nil {
			return config.Config{}, nil, fmt.Errorf("load config: %w", err)
		}
	} else {
		cfg = config.Load()
	}

	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	return cfg, logging.New(cfg.Logging.Level, cfg.Logging.Format), nil
}
