package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/aleister1102/conndir/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, fatalMessage(err))
		stop()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &AppFlags{}

	root := &cobra.Command{
		Use:           "conndir",
		Short:         "Scrape the connector directory and normalize registry exports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.GlobalConfigFile, "config", "c", "", "Path to the YAML/JSON/JSON5 configuration file. If not set, searches default locations.")

	scrapeCmd := &cobra.Command{
		Use:   "scrape",
		Short: "Collect the listing index, then scrape every detail page (resumable)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, flags)
		},
	}
	bindScrapeFlags(scrapeCmd, flags)

	transformCmd := &cobra.Command{
		Use:   "transform",
		Short: "Dedupe, reshape and sort raw registry exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, flags)
		},
	}
	bindTransformFlags(transformCmd, flags)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the persisted connectors as JSON or Parquet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, flags)
		},
	}
	bindExportFlags(exportCmd, flags)

	root.AddCommand(scrapeCmd, transformCmd, exportCmd)
	return root
}

// setup loads and validates configuration, applies overrides and builds the logger
func setup(flags *AppFlags, override func(*config.GlobalConfig)) (*config.GlobalConfig, zerolog.Logger, error) {
	bootstrap := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.WarnLevel)

	cfg, err := config.LoadGlobalConfig(flags.GlobalConfigFile, bootstrap)
	if err != nil {
		return nil, bootstrap, common.WrapError(err, "could not load configuration")
	}
	if override != nil {
		override(cfg)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, bootstrap, err
	}

	log, err := logger.New(cfg.LogConfig)
	if err != nil {
		return nil, bootstrap, common.WrapError(err, "could not initialize logger")
	}
	return cfg, log, nil
}

// fatalMessage turns startup failures into the hint a user needs
func fatalMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrSessionMissing):
		return "No saved session. Log in once with the configured browser profile, then re-run.\n  " + err.Error()
	case errors.Is(err, common.ErrNoIndexEntries):
		return "No cards found! Check login and the listing tab.\n  " + err.Error()
	case errors.Is(err, common.ErrNoServers):
		return "No servers found in the configured inputs."
	default:
		return "Error: " + err.Error()
	}
}
