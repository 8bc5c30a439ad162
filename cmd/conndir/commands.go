package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/aleister1102/conndir/internal/datastore"
	"github.com/aleister1102/conndir/internal/orchestrator"
	"github.com/aleister1102/conndir/internal/progress"
	"github.com/aleister1102/conndir/internal/reporter"
	"github.com/aleister1102/conndir/internal/transform"
	"github.com/spf13/cobra"
)

func runScrape(cmd *cobra.Command, flags *AppFlags) error {
	ctx := cmd.Context()

	cfg, log, err := setup(flags, func(cfg *config.GlobalConfig) {
		applyScrapeOverrides(cmd, flags, cfg)
	})
	if err != nil {
		return err
	}

	dm := progress.NewDisplayManager(cfg.ProgressConfig, os.Stderr, log)
	console := reporter.NewConsoleReporter(os.Stdout)

	so, err := orchestrator.NewScrapeOrchestratorBuilder(cfg, log).
		WithProgress(dm.Progress()).
		WithReporter(console).
		Build()
	if err != nil {
		return common.WrapError(err, "failed to build scrape orchestrator")
	}
	defer func() {
		if closeErr := so.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("Failed to close stores")
		}
	}()

	if flags.Fresh {
		log.Info().Msg("Fresh run requested, discarding saved progress")
		if err := so.Reset(ctx); err != nil {
			return common.WrapError(err, "failed to reset progress")
		}
	}

	dm.Start()
	summary, runErr := so.Run(ctx)
	dm.Stop()
	if runErr != nil {
		return runErr
	}

	console.RenderRunSummary(summary, cfg.StorageConfig.OutputFile)
	return nil
}

func runTransform(cmd *cobra.Command, flags *AppFlags) error {
	cfg, log, err := setup(flags, func(cfg *config.GlobalConfig) {
		applyTransformOverrides(flags, cfg)
	})
	if err != nil {
		return err
	}

	_, stats, err := transform.NewTransformer(cfg.TransformConfig, log).Run(cmd.Context())
	if err != nil {
		return err
	}

	reporter.NewConsoleReporter(os.Stdout).RenderTransformStats(stats, cfg.TransformConfig.OutputFile)
	return nil
}

func runExport(cmd *cobra.Command, flags *AppFlags) error {
	ctx := cmd.Context()

	format := strings.ToLower(flags.Format)
	if format != "json" && format != "parquet" {
		return common.NewValidationError("format", flags.Format, "must be json or parquet")
	}

	cfg, log, err := setup(flags, nil)
	if err != nil {
		return err
	}

	meta := datastore.ProgressMeta{
		Source: cfg.DirectoryConfig.ListingURL(),
		Tab:    cfg.DirectoryConfig.TabLabel,
	}
	stores, err := datastore.Open(cfg.StorageConfig, meta, log)
	if err != nil {
		return common.WrapError(err, "failed to open progress stores")
	}
	defer stores.Close()

	state, err := stores.Progress.Load(ctx)
	if err != nil {
		return common.WrapError(err, "failed to load progress")
	}

	switch format {
	case "parquet":
		rows, err := datastore.NewParquetExporter(cfg.StorageConfig, log).Export(ctx, flags.ExportPath, state.Records)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Exported %d connectors -> %s\n", rows, flags.ExportPath)
	default:
		if err := datastore.NewJSONProgressStore(flags.ExportPath, meta, log).Save(ctx, state.Records, nil); err != nil {
			return common.WrapError(err, "failed to write export")
		}
		fmt.Fprintf(os.Stdout, "Exported %d connectors -> %s\n", len(state.Records), flags.ExportPath)
	}
	return nil
}
