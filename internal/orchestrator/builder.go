package orchestrator

import (
	"github.com/aleister1102/conndir/internal/browser"
	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/aleister1102/conndir/internal/crawler"
	"github.com/aleister1102/conndir/internal/datastore"
	"github.com/aleister1102/conndir/internal/extractor"
	"github.com/aleister1102/conndir/internal/progress"
	"github.com/aleister1102/conndir/internal/reporter"
	"github.com/rs/zerolog"
)

// ScrapeOrchestratorBuilder assembles a ScrapeOrchestrator. Every
// collaborator not supplied explicitly is built from the global config.
type ScrapeOrchestratorBuilder struct {
	cfg       *config.GlobalConfig
	opener    browser.Opener
	collector IndexCollector
	extractor extractor.Extractor
	stores    *datastore.Stores
	progress  *progress.Progress
	reporter  *reporter.ConsoleReporter
	logger    zerolog.Logger
}

// NewScrapeOrchestratorBuilder creates a builder for cfg
func NewScrapeOrchestratorBuilder(cfg *config.GlobalConfig, logger zerolog.Logger) *ScrapeOrchestratorBuilder {
	return &ScrapeOrchestratorBuilder{
		cfg:    cfg,
		logger: logger.With().Str("component", "ScrapeOrchestrator").Logger(),
	}
}

// WithOpener sets how the browser session is opened
func (b *ScrapeOrchestratorBuilder) WithOpener(opener browser.Opener) *ScrapeOrchestratorBuilder {
	b.opener = opener
	return b
}

// WithCollector sets the listing collector
func (b *ScrapeOrchestratorBuilder) WithCollector(collector IndexCollector) *ScrapeOrchestratorBuilder {
	b.collector = collector
	return b
}

// WithExtractor sets the detail page extractor
func (b *ScrapeOrchestratorBuilder) WithExtractor(ext extractor.Extractor) *ScrapeOrchestratorBuilder {
	b.extractor = ext
	return b
}

// WithStores sets the persistence backend. The orchestrator closes it.
func (b *ScrapeOrchestratorBuilder) WithStores(stores *datastore.Stores) *ScrapeOrchestratorBuilder {
	b.stores = stores
	return b
}

// WithProgress sets the tracker updated during the run
func (b *ScrapeOrchestratorBuilder) WithProgress(p *progress.Progress) *ScrapeOrchestratorBuilder {
	b.progress = p
	return b
}

// WithReporter sets where the index table is printed
func (b *ScrapeOrchestratorBuilder) WithReporter(r *reporter.ConsoleReporter) *ScrapeOrchestratorBuilder {
	b.reporter = r
	return b
}

// Build creates the orchestrator
func (b *ScrapeOrchestratorBuilder) Build() (*ScrapeOrchestrator, error) {
	if b.cfg == nil {
		return nil, common.NewValidationError("global_config", nil, "config cannot be nil")
	}
	cfg := b.cfg

	if b.opener == nil {
		b.opener = browser.Open
	}

	if b.collector == nil {
		collector, err := crawler.NewCollectorBuilder(b.logger).
			WithDirectoryConfig(cfg.DirectoryConfig).
			WithCollectorConfig(cfg.CollectorConfig).
			Build()
		if err != nil {
			return nil, common.WrapError(err, "failed to build listing collector")
		}
		b.collector = collector
	}

	if b.extractor == nil {
		chain, err := extractor.New(cfg.ExtractorConfig, b.logger)
		if err != nil {
			return nil, common.WrapError(err, "failed to build extractor chain")
		}
		b.extractor = chain
	}

	if b.stores == nil {
		meta := datastore.ProgressMeta{
			Source: cfg.DirectoryConfig.ListingURL(),
			Tab:    cfg.DirectoryConfig.TabLabel,
		}
		stores, err := datastore.Open(cfg.StorageConfig, meta, b.logger)
		if err != nil {
			return nil, common.WrapError(err, "failed to open progress stores")
		}
		b.stores = stores
	}

	if b.progress == nil {
		b.progress = progress.NewProgress()
	}

	var exporter *datastore.ParquetExporter
	if cfg.StorageConfig.ParquetExportPath != "" {
		exporter = datastore.NewParquetExporter(cfg.StorageConfig, b.logger)
	}

	return &ScrapeOrchestrator{
		cfg:       cfg,
		opener:    b.opener,
		collector: b.collector,
		loader:    NewDetailLoader(cfg.ExtractorConfig, b.extractor, b.logger),
		stores:    b.stores,
		exporter:  exporter,
		progress:  b.progress,
		reporter:  b.reporter,
		logger:    b.logger,
	}, nil
}
