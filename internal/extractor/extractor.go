package extractor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/aleister1102/conndir/internal/models"
	"github.com/rs/zerolog"
)

// Snapshot is the rendered state of a detail page at extraction time
type Snapshot struct {
	URL  string
	Text string
	HTML string
}

// Extractor turns a detail page snapshot into whatever fields it can find.
// Implementations never fail: a field that cannot be located is left empty.
type Extractor interface {
	Name() string
	Extract(snap Snapshot) models.DetailFields
}

// factory builds one strategy from configuration
type factory func(cfg config.ExtractorConfig, logger zerolog.Logger) Extractor

var strategies = map[string]factory{
	"text": func(cfg config.ExtractorConfig, logger zerolog.Logger) Extractor {
		return NewTextExtractor(cfg, logger)
	},
	"meta": func(cfg config.ExtractorConfig, logger zerolog.Logger) Extractor {
		return NewMetaExtractor(logger)
	},
}

// Chain applies several strategies in order. Earlier strategies win per
// field; later ones only fill the gaps.
type Chain struct {
	extractors []Extractor
	logger     zerolog.Logger
}

// New builds the chain named by cfg.Strategies
func New(cfg config.ExtractorConfig, logger zerolog.Logger) (*Chain, error) {
	extractors := make([]Extractor, 0, len(cfg.Strategies))
	for _, name := range cfg.Strategies {
		build, ok := strategies[strings.ToLower(name)]
		if !ok {
			return nil, fmt.Errorf("unknown extraction strategy %q", name)
		}
		extractors = append(extractors, build(cfg, logger))
	}
	return NewChain(logger, extractors...), nil
}

// NewChain wraps already built extractors
func NewChain(logger zerolog.Logger, extractors ...Extractor) *Chain {
	return &Chain{
		extractors: extractors,
		logger:     logger.With().Str("component", "ExtractorChain").Logger(),
	}
}

// Name joins the strategy names, e.g. "text+meta"
func (c *Chain) Name() string {
	names := make([]string, 0, len(c.extractors))
	for _, e := range c.extractors {
		names = append(names, e.Name())
	}
	return strings.Join(names, "+")
}

// Extract runs every strategy and merges their results
func (c *Chain) Extract(snap Snapshot) models.DetailFields {
	var fields models.DetailFields
	for _, e := range c.extractors {
		found := e.Extract(snap)
		c.logger.Debug().
			Str("strategy", e.Name()).
			Str("url", snap.URL).
			Bool("empty", found.IsEmpty()).
			Msg("Strategy finished")
		fields.FillFrom(found)
	}
	return fields
}

// parseDocument parses the snapshot HTML. A nil document means no DOM is
// available and DOM-backed fields are skipped.
func parseDocument(html string) *goquery.Document {
	if strings.TrimSpace(html) == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}
	return doc
}
