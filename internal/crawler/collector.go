package crawler

import (
	"context"
	"time"

	"github.com/aleister1102/conndir/internal/browser"
	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/aleister1102/conndir/internal/models"
	"github.com/rs/zerolog"
)

// Collector builds the connector index from the directory listing
type Collector struct {
	dirCfg config.DirectoryConfig
	cfg    config.CollectorConfig
	scope  *ListingScope
	logger zerolog.Logger
}

// Collect loads the listing, selects the tab, scrolls until every card is
// rendered and extracts the index. When no direct links are exposed it falls
// back to clicking through each card.
func (c *Collector) Collect(ctx context.Context, page browser.Page) ([]models.IndexEntry, error) {
	c.logger.Info().Str("url", c.scope.ListingURL()).Msg("Opening listing")
	if err := page.Navigate(ctx, c.scope.ListingURL()); err != nil {
		return nil, common.WrapError(err, "failed to open listing")
	}
	if err := c.pause(ctx, c.cfg.GetInitialWait()); err != nil {
		return nil, err
	}

	c.logger.Info().Str("tab", c.dirCfg.TabLabel).Msg("Selecting tab")
	if err := c.SelectTab(ctx, page); err != nil {
		return nil, err
	}

	c.logger.Info().Msg("Scrolling to load all connectors")
	count, err := c.ScrollToLoadAll(ctx, page)
	if err != nil {
		return nil, err
	}
	c.logger.Info().Int("cards", count).Msg("Listing settled")

	entries, err := c.collectFromLinks(ctx, page)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		return entries, nil
	}

	c.logger.Warn().Msg("Link extraction found nothing, falling back to click-based collection")
	return c.collectByClicking(ctx, page)
}

// SelectTab clicks the configured listing tab
func (c *Collector) SelectTab(ctx context.Context, page browser.Page) error {
	if err := page.ClickText(ctx, c.dirCfg.TabSelector, c.dirCfg.TabLabel, false, c.cfg.GetFallbackClickTimeout()); err != nil {
		return common.WrapErrorf(err, "failed to select tab %q", c.dirCfg.TabLabel)
	}
	return c.pause(ctx, c.cfg.GetTabWait())
}

// ScrollToLoadAll scrolls until the number of listing links stops changing
// for StablePolls consecutive polls, or MaxPolls is reached, then returns to
// the top. It returns the last observed link count.
func (c *Collector) ScrollToLoadAll(ctx context.Context, page browser.Page) (int, error) {
	previous, stable := 0, 0
	for poll := 0; poll < c.cfg.MaxPolls; poll++ {
		if err := page.Eval(ctx, scrollByJS, c.cfg.ScrollStepPx, nil); err != nil {
			return previous, common.WrapError(err, "failed to scroll listing")
		}
		if err := c.pause(ctx, c.cfg.GetScrollWait()); err != nil {
			return previous, err
		}

		var current int
		if err := page.Eval(ctx, countLinksJS, c.dirCfg.LinkSelector, &current); err != nil {
			return previous, common.WrapError(err, "failed to count listing links")
		}

		if current == previous {
			stable++
			if stable >= c.cfg.StablePolls {
				c.logger.Debug().Int("polls", poll+1).Int("links", current).Msg("Link count stable")
				break
			}
		} else {
			stable = 0
		}
		previous = current
	}

	if err := page.Eval(ctx, scrollTopJS, nil, nil); err != nil {
		return previous, common.WrapError(err, "failed to scroll to top")
	}
	return previous, c.pause(ctx, c.cfg.GetScrollWait())
}

func (c *Collector) collectFromLinks(ctx context.Context, page browser.Page) ([]models.IndexEntry, error) {
	var anchors []rawAnchor
	if err := page.Eval(ctx, listingAnchorsJS, c.dirCfg.LinkSelector, &anchors); err != nil {
		return nil, common.WrapError(err, "failed to read listing links")
	}
	entries := parseListingAnchors(anchors, c.scope, c.dirCfg.AddButtonLabel)
	c.logger.Debug().Int("anchors", len(anchors)).Int("entries", len(entries)).Msg("Extracted listing links")
	return entries, nil
}

func (c *Collector) pause(ctx context.Context, d time.Duration) error {
	return common.WaitWithCancellation(ctx, d)
}
