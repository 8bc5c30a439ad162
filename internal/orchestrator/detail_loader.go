package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/aleister1102/conndir/internal/browser"
	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/aleister1102/conndir/internal/extractor"
	"github.com/aleister1102/conndir/internal/models"
	"github.com/rs/zerolog"
)

// DetailLoader opens one detail page, waits for its content and extracts it
type DetailLoader struct {
	cfg       config.ExtractorConfig
	extractor extractor.Extractor
	logger    zerolog.Logger
}

// NewDetailLoader creates a loader applying ext to each rendered page
func NewDetailLoader(cfg config.ExtractorConfig, ext extractor.Extractor, logger zerolog.Logger) *DetailLoader {
	return &DetailLoader{
		cfg:       cfg,
		extractor: ext,
		logger:    logger.With().Str("component", "DetailLoader").Logger(),
	}
}

// Load navigates to url and returns the fields found on the page.
// A page whose marker never shows fails with ErrMarkerTimeout; a page
// where no field at all can be found fails with ErrEmptyDetail.
func (dl *DetailLoader) Load(ctx context.Context, page browser.Page, url string) (models.DetailFields, error) {
	if err := page.Navigate(ctx, url); err != nil {
		return models.DetailFields{}, common.WrapError(err, "navigation failed")
	}

	if err := page.WaitForText(ctx, dl.cfg.Marker, dl.cfg.GetMarkerTimeout()); err != nil {
		if errors.Is(err, common.ErrTimeout) {
			return models.DetailFields{}, fmt.Errorf("%w: %q not shown within %s", common.ErrMarkerTimeout, dl.cfg.Marker, dl.cfg.GetMarkerTimeout())
		}
		return models.DetailFields{}, err
	}

	if err := common.WaitWithCancellation(ctx, dl.cfg.GetSettle()); err != nil {
		return models.DetailFields{}, err
	}

	snap, err := dl.snapshot(ctx, page, url)
	if err != nil {
		return models.DetailFields{}, err
	}

	fields := dl.extractor.Extract(snap)
	if fields.IsEmpty() {
		return fields, common.ErrEmptyDetail
	}
	return fields, nil
}

func (dl *DetailLoader) snapshot(ctx context.Context, page browser.Page, url string) (extractor.Snapshot, error) {
	text, err := page.VisibleText(ctx)
	if err != nil {
		return extractor.Snapshot{}, common.WrapError(err, "failed to read page text")
	}
	html, err := page.HTML(ctx)
	if err != nil {
		return extractor.Snapshot{}, common.WrapError(err, "failed to read page html")
	}

	location := url
	if current, err := page.URL(ctx); err == nil && current != "" {
		location = current
	} else if err != nil {
		dl.logger.Debug().Err(err).Msg("Could not read current URL, using requested URL")
	}

	return extractor.Snapshot{URL: location, Text: text, HTML: html}, nil
}
