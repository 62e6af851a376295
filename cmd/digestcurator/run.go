package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"DigestCurator/internal/app"
	"DigestCurator/internal/domain"
	"DigestCurator/internal/render"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var preview bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the curation pipeline once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}
			if preview {
				cfg.Curation.DryRun = true
			}

			application, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			report, err := application.Run(cmd.Context())
			if errors.Is(err, domain.ErrNoRelevantContent) {
				fmt.Fprintln(cmd.OutOrStdout(), render.EmptyMessage(report.Period))
				return nil
			}
			if err != nil {
				return err
			}

			if cfg.Curation.DryRun {
				fmt.Fprintln(cmd.OutOrStdout(), render.Terminal{}.Render(report.Selection, report.Period))
				return nil
			}
			logger.Info("digest published", "run_id", report.RunID, "items", report.Selection.Total())
			return nil
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, "print the digest to the terminal without saving or publishing it")
	return cmd
}
