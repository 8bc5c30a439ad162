package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aleister1102/conndir/internal/browser"
	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/aleister1102/conndir/internal/datastore"
	"github.com/aleister1102/conndir/internal/models"
	"github.com/aleister1102/conndir/internal/progress"
	"github.com/aleister1102/conndir/internal/reporter"
	"github.com/rs/zerolog"
)

// toolPreview is how many tool names the per-connector log line shows
const toolPreview = 3

// errInterrupted marks a stage abandoned because ctx was cancelled
var errInterrupted = errors.New("interrupted")

// IndexCollector builds the listing index on an open page
type IndexCollector interface {
	Collect(ctx context.Context, page browser.Page) ([]models.IndexEntry, error)
}

// ScrapeOrchestrator runs the two-phase scrape: build (or reload) the
// listing index, then visit every detail page not yet persisted.
type ScrapeOrchestrator struct {
	cfg       *config.GlobalConfig
	opener    browser.Opener
	collector IndexCollector
	loader    *DetailLoader
	stores    *datastore.Stores
	exporter  *datastore.ParquetExporter
	progress  *progress.Progress
	reporter  *reporter.ConsoleReporter
	logger    zerolog.Logger
}

// Close releases the progress stores
func (so *ScrapeOrchestrator) Close() error {
	return so.stores.Close()
}

// Reset discards previous output and the saved index
func (so *ScrapeOrchestrator) Reset(ctx context.Context) error {
	if err := so.stores.Progress.Reset(ctx); err != nil {
		return common.WrapError(err, "failed to remove previous output")
	}
	if err := so.stores.Index.Delete(ctx); err != nil {
		return common.WrapError(err, "failed to remove saved index")
	}
	so.logger.Info().Msg("Previous progress removed")
	return nil
}

// Run executes one scrape. Per-connector failures are recorded and do not
// stop the run. Cancelling ctx stops between connectors with everything
// scraped so far persisted; the summary is then marked Cancelled.
func (so *ScrapeOrchestrator) Run(ctx context.Context) (models.RunSummary, error) {
	start := time.Now()
	var summary models.RunSummary

	so.progress.StartStage(progress.StageInit, 0, "opening browser")
	session, err := so.opener(ctx, so.cfg.BrowserConfig, so.logger)
	if err != nil {
		so.progress.SetStatus(progress.ProgressStatusError, err.Error())
		return summary, common.WrapError(err, "failed to open browser session")
	}
	defer func() {
		if err := session.Close(); err != nil {
			so.logger.Warn().Err(err).Msg("Failed to close browser session")
		}
	}()
	page := session.Page()

	index, err := so.loadOrCollectIndex(ctx, page)
	if err == nil {
		summary.IndexSize = len(index)
		err = so.scrapeDetails(ctx, page, index, &summary)
	}
	if errors.Is(err, errInterrupted) {
		summary.Cancelled = true
	} else if err != nil {
		so.progress.SetStatus(progress.ProgressStatusError, err.Error())
		return summary, err
	}

	summary.Duration = time.Since(start)
	if summary.Cancelled {
		so.progress.SetStatus(progress.ProgressStatusCancelled, "interrupted")
		so.logger.Warn().Int("persisted", summary.Persisted).Msg("Run interrupted, re-run to resume")
	} else {
		so.progress.SetStatus(progress.ProgressStatusComplete, "done")
		so.logger.Info().
			Int("persisted", summary.Persisted).
			Int("errors", len(summary.Errors)).
			Dur("duration", summary.Duration).
			Msg("Scrape complete")
	}
	return summary, nil
}

// loadOrCollectIndex returns the saved index when there is one, otherwise
// collects it from the listing and saves it. A listing cut short by
// cancellation is never saved.
func (so *ScrapeOrchestrator) loadOrCollectIndex(ctx context.Context, page browser.Page) ([]models.IndexEntry, error) {
	entries, err := so.stores.Index.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errInterrupted
		}
		return nil, common.WrapError(err, "failed to load saved index")
	}
	if len(entries) > 0 {
		so.logger.Info().Int("connectors", len(entries)).Msg("Loaded connectors from previous index, skipping listing")
		so.renderIndex(entries)
		return entries, nil
	}

	so.progress.StartStage(progress.StageIndex, 0, "collecting listing")
	so.logger.Info().Msg("Phase 1: collecting connector URLs from listing")
	entries, err = so.collector.Collect(ctx, page)
	if ctx.Err() != nil {
		so.logger.Warn().Msg("Listing collection interrupted, index not saved")
		return nil, errInterrupted
	}
	if err != nil {
		return nil, common.WrapError(err, "failed to collect listing")
	}
	if len(entries) == 0 {
		return nil, common.WrapErrorf(common.ErrNoIndexEntries, "check the session and the %q tab", so.cfg.DirectoryConfig.TabLabel)
	}

	if err := so.stores.Index.Save(context.WithoutCancel(ctx), entries); err != nil {
		return nil, common.WrapError(err, "failed to save index")
	}
	so.renderIndex(entries)
	return entries, nil
}

func (so *ScrapeOrchestrator) renderIndex(entries []models.IndexEntry) {
	if so.reporter != nil {
		so.reporter.RenderIndex(entries)
	}
}

// scrapeDetails visits every index entry not yet persisted, saving after
// each attempt, then removes the index once every entry is persisted.
func (so *ScrapeOrchestrator) scrapeDetails(ctx context.Context, page browser.Page, index []models.IndexEntry, summary *models.RunSummary) error {
	// State must reach disk even when the run is being cancelled
	persistCtx := context.WithoutCancel(ctx)

	state, err := so.stores.Progress.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return errInterrupted
		}
		return common.WrapError(err, "failed to load progress")
	}
	records := state.Records
	scraped := state.ScrapedURLs
	var itemErrs common.ErrorCollector

	if already := countScraped(index, scraped); already > 0 {
		so.logger.Info().Msgf("Resuming: %d already scraped, %d remaining", already, len(index)-already)
	}

	total := len(index)
	so.progress.StartStage(progress.StageDetails, int64(total), "")
	so.logger.Info().Int("connectors", total).Msg("Phase 2: scraping detail pages")

	for i, entry := range index {
		if common.StopRequested(ctx, so.logger, "detail scrape") {
			summary.Cancelled = true
			break
		}
		so.progress.Update(int64(i), entry.Name)
		itemLogger := so.logger.With().Str("position", progressLabel(i, total)).Str("connector", entry.Name).Logger()

		if scraped[entry.DetailURL] {
			itemLogger.Debug().Msg("Already scraped, skip")
			summary.Skipped++
			so.progress.RecordSkipped()
			continue
		}
		itemLogger.Info().Str("url", entry.DetailURL).Msg("Scraping")

		fields, err := so.loader.Load(ctx, page, entry.DetailURL)
		if err != nil && ctx.Err() != nil {
			summary.Cancelled = true
			break
		}

		if err != nil {
			itemErrs.Add(common.NewItemError(entry.Name, entry.DetailURL, err))
			summary.Failed++
			so.progress.RecordFailed()
			itemLogger.Error().Err(err).Msg("ERROR")
		} else {
			rec := MergeRecord(entry, fields)
			records = append(records, rec)
			scraped[entry.DetailURL] = true
			summary.ScrapedNow++
			so.progress.RecordSucceeded()
			itemLogger.Info().Msgf("OK | %s | tools: %s", rec.Tagline, rec.ToolSummary(toolPreview))
		}

		if err := so.stores.Progress.Save(persistCtx, records, itemErrs.Messages()); err != nil {
			return common.WrapError(err, "failed to save progress")
		}
		so.progress.Update(int64(i+1), entry.Name)
	}

	if err := so.stores.Progress.Save(persistCtx, records, itemErrs.Messages()); err != nil {
		return common.WrapError(err, "failed to save progress")
	}
	summary.Persisted = len(records)
	summary.Errors = itemErrs.Messages()

	so.progress.StartStage(progress.StageDone, 0, "finalizing")
	if countScraped(index, scraped) == len(index) {
		if err := so.stores.Index.Delete(persistCtx); err != nil {
			so.logger.Warn().Err(err).Msg("Failed to remove index after complete scrape")
		} else {
			summary.IndexDeleted = true
			so.logger.Debug().Msg("Every connector persisted, index removed")
		}
	}

	if so.exporter != nil {
		rows, err := so.exporter.Export(persistCtx, so.cfg.StorageConfig.ParquetExportPath, records)
		if err != nil {
			so.logger.Error().Err(err).Msg("Parquet export failed")
		} else {
			summary.ParquetRows = rows
		}
	}
	return nil
}

func countScraped(index []models.IndexEntry, scraped map[string]bool) int {
	n := 0
	for _, e := range index {
		if scraped[e.DetailURL] {
			n++
		}
	}
	return n
}

func progressLabel(i, total int) string {
	return fmt.Sprintf("%d/%d", i+1, total)
}
