package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"AINewsAggregator/internal/app"
	"AINewsAggregator/internal/config"
	"AINewsAggregator/internal/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "ainews",
		Short:         "AI news aggregator service",
		Long:          "ainews pulls AI news feeds, enriches entries with summaries and sentiment, caches them and serves a JSON API.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML config file (overrides AINEWS_CONFIG)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(newServeCmd(opts), newFetchCmd(opts), newSeedCmd(opts))
	return root
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func newFetchCmd(opts *rootOptions) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Run one aggregation pass and print the articles as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, logger := build(cmd.Context(), opts)
			defer closeApp(application, logger)

			result, err := application.FetchOnce(cmd.Context(), refresh)
			if err != nil {
				return fmt.Errorf("fetch: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"articles":     result.Articles,
				"count":        len(result.Articles),
				"cached":       result.Cached,
				"last_updated": result.LastUpdated,
			})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache")
	return cmd
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert configured sources into the store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, logger := build(cmd.Context(), opts)
			defer closeApp(application, logger)

			if err := application.Seed(cmd.Context()); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sources seeded into %s store\n", application.StoreName())
			return nil
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	application, logger := build(ctx, opts)
	defer closeApp(application, logger)

	if err := application.Serve(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		return err
	}
	logger.Info("server exited")
	return nil
}

func build(ctx context.Context, opts *rootOptions) (*app.Application, *slog.Logger) {
	if opts.configPath != "" {
		_ = os.Setenv("AINEWS_CONFIG", opts.configPath)
	}
	cfg := config.Load()
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	return app.New(ctx, cfg, logger), logger
}

func closeApp(application *app.Application, logger *slog.Logger) {
	if err := application.Close(context.Background()); err != nil {
		logger.Warn("close store", "error", err)
	}
}
