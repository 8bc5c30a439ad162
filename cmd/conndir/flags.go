package main

import (
	"github.com/aleister1102/conndir/internal/config"
	"github.com/spf13/cobra"
)

// AppFlags holds every command line override
type AppFlags struct {
	GlobalConfigFile string

	// scrape
	Fresh    bool
	Headless bool
	Driver   string

	// transform
	Inputs     []string
	OutputFile string

	// export
	Format     string
	ExportPath string
}

func bindScrapeFlags(cmd *cobra.Command, flags *AppFlags) {
	cmd.Flags().BoolVar(&flags.Fresh, "fresh", false, "Ignore previous progress and start from scratch")
	cmd.Flags().BoolVar(&flags.Headless, "headless", false, "Run the browser without a window (overrides config)")
	cmd.Flags().StringVar(&flags.Driver, "driver", "", "Browser driver: rod, playwright or chromedp (overrides config)")
}

func bindTransformFlags(cmd *cobra.Command, flags *AppFlags) {
	cmd.Flags().StringSliceVarP(&flags.Inputs, "input", "i", nil, "Raw registry export file or URL; repeatable (overrides config)")
	cmd.Flags().StringVarP(&flags.OutputFile, "output", "o", "", "Where to write the normalized connectors (overrides config)")
}

func bindExportFlags(cmd *cobra.Command, flags *AppFlags) {
	cmd.Flags().StringVar(&flags.Format, "format", "json", "Export format: json or parquet")
	cmd.Flags().StringVar(&flags.ExportPath, "out", "", "Destination file")
	_ = cmd.MarkFlagRequired("out")
}

// applyScrapeOverrides copies the scrape flags the user set onto cfg
func applyScrapeOverrides(cmd *cobra.Command, flags *AppFlags, cfg *config.GlobalConfig) {
	if cmd.Flags().Changed("headless") {
		cfg.BrowserConfig.Headless = flags.Headless
	}
	if flags.Driver != "" {
		cfg.BrowserConfig.Driver = flags.Driver
	}
}

// applyTransformOverrides copies the transform flags the user set onto cfg
func applyTransformOverrides(flags *AppFlags, cfg *config.GlobalConfig) {
	if len(flags.Inputs) > 0 {
		cfg.TransformConfig.Inputs = flags.Inputs
	}
	if flags.OutputFile != "" {
		cfg.TransformConfig.OutputFile = flags.OutputFile
	}
}
