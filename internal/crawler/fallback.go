package crawler

import (
	"context"

	"github.com/aleister1102/conndir/internal/browser"
	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/models"
)

// clickState is where the click-through walker stands for the current card
type clickState int

const (
	stateListing clickState = iota // on the listing, about to open the card
	stateDetail                    // on a detail page, about to record it and go back
	stateRecover                   // something failed; reload the listing
	stateDone                      // card finished, successfully or not
)

func (s clickState) String() string {
	switch s {
	case stateListing:
		return "LISTING"
	case stateDetail:
		return "DETAIL"
	case stateRecover:
		return "RECOVER"
	default:
		return "DONE"
	}
}

// cardWalk holds the per-card state of the click-through fallback
type cardWalk struct {
	name     string
	state    clickState
	location string
	failures int
	lastErr  error
	entry    *models.IndexEntry
}

// collectByClicking opens every card by clicking its name, records where
// the browser lands, then returns to the listing. Each card gets at most
// FallbackMaxRetries recoveries before it is skipped.
func (c *Collector) collectByClicking(ctx context.Context, page browser.Page) ([]models.IndexEntry, error) {
	var names []string
	args := cardNamesArgs{Label: c.dirCfg.AddButtonLabel, Levels: c.cfg.CardAncestorLevels}
	if err := page.Eval(ctx, cardNamesJS, args, &names); err != nil {
		return nil, common.WrapError(err, "failed to read card names")
	}
	c.logger.Info().Int("cards", len(names)).Msg("Collecting by clicking")

	seen := make(map[string]bool, len(names))
	entries := make([]models.IndexEntry, 0, len(names))

	for i, name := range names {
		if name == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return entries, err
		}

		walk := &cardWalk{name: name, state: stateListing}
		for walk.state != stateDone {
			if err := c.step(ctx, page, walk); err != nil {
				return entries, err
			}
		}

		if walk.entry == nil {
			c.logger.Warn().Err(walk.lastErr).Int("card", i).Str("name", name).Msg("Fallback click failed, skipping card")
			continue
		}
		if seen[walk.entry.DetailURL] {
			continue
		}
		seen[walk.entry.DetailURL] = true
		entries = append(entries, *walk.entry)
	}
	return entries, nil
}

// step advances walk by one transition. Only context cancellation is
// returned as an error; page failures move the walk to RECOVER.
func (c *Collector) step(ctx context.Context, page browser.Page, walk *cardWalk) error {
	c.logger.Debug().Str("name", walk.name).Stringer("state", walk.state).Int("failures", walk.failures).Msg("Fallback step")

	switch walk.state {
	case stateListing:
		if err := page.ClickText(ctx, "", walk.name, true, c.cfg.GetFallbackClickTimeout()); err != nil {
			return c.fail(ctx, walk, err)
		}
		if err := c.pause(ctx, c.cfg.GetFallbackWait()); err != nil {
			return err
		}
		location, err := page.URL(ctx)
		if err != nil {
			return c.fail(ctx, walk, err)
		}
		if !c.scope.IsDetailLocation(location) {
			return c.fail(ctx, walk, common.NewError("click on %q did not open a detail page (at %s)", walk.name, location))
		}
		walk.location = location
		walk.state = stateDetail

	case stateDetail:
		walk.entry = &models.IndexEntry{Name: walk.name, DetailURL: walk.location}
		if err := page.Back(ctx); err != nil {
			return c.fail(ctx, walk, err)
		}
		if err := c.pause(ctx, c.cfg.GetFallbackWait()); err != nil {
			return err
		}
		if err := c.SelectTab(ctx, page); err != nil {
			if common.IsContextError(err) && ctx.Err() != nil {
				return err
			}
			c.logger.Debug().Err(err).Msg("Could not re-select tab after going back")
		}
		walk.state = stateDone

	case stateRecover:
		walk.state = c.recoverListing(ctx, page, walk)
	}

	return ctx.Err()
}

// fail records err and routes the walk to recovery
func (c *Collector) fail(ctx context.Context, walk *cardWalk, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	walk.failures++
	walk.lastErr = err
	walk.state = stateRecover
	return nil
}

// recoverListing reloads the listing and decides whether the card gets another try.
// A card already recorded is done; recovery only restores the listing.
func (c *Collector) recoverListing(ctx context.Context, page browser.Page, walk *cardWalk) clickState {
	if err := page.Navigate(ctx, c.scope.ListingURL()); err != nil {
		c.logger.Debug().Err(err).Msg("Failed to reload listing during recovery")
	} else if err := c.pause(ctx, c.cfg.GetFallbackWait()); err == nil {
		if err := c.SelectTab(ctx, page); err != nil {
			c.logger.Debug().Err(err).Msg("Failed to re-select tab during recovery")
		}
	}

	if walk.entry != nil || walk.failures > c.cfg.FallbackMaxRetries {
		return stateDone
	}
	return stateListing
}
