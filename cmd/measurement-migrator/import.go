package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"measurement-migrator/internal/akeneo"
	"measurement-migrator/internal/config"
	"measurement-migrator/internal/console"
	"measurement-migrator/internal/logger"
	"measurement-migrator/internal/migrate"
)

type importOptions struct {
	cfg config.Config

	apiPassword     string
	apiClientSecret string

	dryRun        bool
	noInteraction bool
}

func newImportCmd(cfg config.Config) *cobra.Command {
	opts := importOptions{cfg: cfg}

	cmd := &cobra.Command{
		Use:   "import <filePath>",
		Short: "Import a YAML file as measurement family list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Secrets default to the environment without showing up in --help.
			if cmd.Flags().Changed("api-password") {
				opts.cfg.APIPassword = opts.apiPassword
			}

			if cmd.Flags().Changed("api-client-secret") {
				opts.cfg.APIClientSecret = opts.apiClientSecret
			}

			return runImport(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.cfg.APIURL, "api-url", cfg.APIURL, "Base URL of the PIM")
	f.StringVar(&opts.cfg.APIUsername, "api-username", cfg.APIUsername, "The username of the user")
	f.StringVar(&opts.apiPassword, "api-password", "", "The password of the user (default $AKENEO_API_PASSWORD)")
	f.StringVar(&opts.cfg.APIClientID, "api-client-id", cfg.APIClientID, "The API client id")
	f.StringVar(&opts.apiClientSecret, "api-client-secret", "", "The API client secret (default $AKENEO_API_CLIENT_SECRET)")
	f.DurationVar(&opts.cfg.APITimeout, "api-timeout", cfg.APITimeout, "Timeout of every API request")
	f.IntVar(&opts.cfg.BatchSize, "batch-size", cfg.BatchSize, "Number of families sent per request")
	f.StringVar(&opts.cfg.LabelLocale, "label-locale", cfg.LabelLocale, "Locale of the generated labels, empty to omit labels")
	f.BoolVar(&opts.cfg.AlwaysSummarize, "always-summarize", cfg.AlwaysSummarize, "Print the summary line even when nothing was imported")
	f.StringVar(&opts.cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Print the converted families on stdout instead of importing them")
	f.BoolVarP(&opts.noInteraction, "no-interaction", "n", false, "Do not ask any interactive question")

	return cmd
}

func runImport(ctx context.Context, in io.Reader, outW, errW io.Writer, filePath string, opts importOptions) error {
	cfg := opts.cfg

	log := newLogger(cfg, errW)
	defer func() { _ = log.Sync() }()

	log.Debug("configuration loaded", logger.Any("config", cfg.Redacted()))

	// In a dry run stdout only carries the JSON payload.
	consoleW := outW
	if opts.dryRun {
		consoleW = errW
	}

	con := console.New(in, consoleW, !opts.noInteraction)

	runner := &migrate.Runner{
		Console: con,
		Log:     log,
		Out:     outW,
	}

	if !opts.dryRun {
		client, err := akeneo.New(ctx, akeneo.Config{
			BaseURL:      cfg.APIURL,
			ClientID:     cfg.APIClientID,
			ClientSecret: cfg.APIClientSecret,
			Username:     cfg.APIUsername,
			Password:     cfg.APIPassword,
			BatchSize:    cfg.BatchSize,
			Timeout:      cfg.APITimeout,
		}, log)
		if err != nil {
			con.Error(err.Error())
			return &reportedError{err: err}
		}

		runner.Upserter = client
	}

	_, err := runner.Run(ctx, migrate.Options{
		FilePath:        filePath,
		LabelLocale:     cfg.LabelLocale,
		DryRun:          opts.dryRun,
		AlwaysSummarize: cfg.AlwaysSummarize,
	})
	if err != nil {
		return &reportedError{err: err}
	}

	return nil
}

func newLogger(cfg config.Config, errW io.Writer) logger.Logger {
	if cfg.Environment == config.DebugMode {
		return logger.NewConsoleLogger(cfg.ServiceName, cfg.LogLevel, errW)
	}

	return logger.NewLogger(cfg.ServiceName, cfg.LogLevel, errW)
}
