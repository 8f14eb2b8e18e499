package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LanceSports/LanceSports-sub000/internal/app"
	"github.com/LanceSports/LanceSports-sub000/internal/config"
	"github.com/LanceSports/LanceSports-sub000/internal/platform/logging"
	"github.com/LanceSports/LanceSports-sub000/internal/usecase"
	sonic "github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFile string
	pretty  bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "ingest",
		Short:        "Run the fixture ingestion pipeline once",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "indent the JSON report")

	root.AddCommand(newLeaguesCommand(opts), newRefreshCommand(opts))
	return root
}

func newLeaguesCommand(opts *rootOptions) *cobra.Command {
	var (
		leagues []string
		mode    string
	)
	cmd := &cobra.Command{
		Use:   "leagues",
		Short: "Fetch, enrich and store fixtures for the configured leagues",
		RunE: func(cmd *cobra.Command, _ []string) error {
			persist, err := usecase.ParsePersistMode(mode)
			if err != nil {
				return err
			}
			// Background writes are drained on close, so the CLI can use either mode.
			return withPipeline(cmd.Context(), opts, func(ctx context.Context, p *app.Pipeline) error {
				report, err := p.Ingestion.Run(ctx, usecase.RunOptions{Leagues: leagues, Mode: persist})
				if err != nil {
					return err
				}
				return writeReport(cmd.OutOrStdout(), opts.pretty, report)
			})
		},
	}
	cmd.Flags().StringSliceVar(&leagues, "league", nil, "league id or name; repeatable, defaults to all configured leagues")
	cmd.Flags().StringVar(&mode, "mode", "await", "persistence mode: await or background")
	return cmd
}

func newRefreshCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-fetch today's and tomorrow's fixtures by date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withPipeline(cmd.Context(), opts, func(ctx context.Context, p *app.Pipeline) error {
				report, err := p.Refresh.Run(ctx)
				if err != nil {
					return err
				}
				return writeReport(cmd.OutOrStdout(), opts.pretty, report)
			})
		},
	}
}

func withPipeline(parent context.Context, opts *rootOptions, fn func(context.Context, *app.Pipeline) error) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.NewJSONWriter(os.Stderr, cfg.LogLevel).With("service", cfg.ServiceName, "command", "ingest")
	logging.SetDefault(logger)
	defer func() { _ = logger.Sync() }()

	pipeline, err := app.NewPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	runErr := fn(ctx, pipeline)

	closeCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := pipeline.Close(closeCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("close pipeline: %w", err)
	}
	return runErr
}

func writeReport(w io.Writer, pretty bool, report any) error {
	var (
		raw []byte
		err error
	)
	if pretty {
		raw, err = sonic.ConfigStd.MarshalIndent(report, "", "  ")
	} else {
		raw, err = sonic.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = fmt.Fprintln(w, string(raw))
	return err
}
