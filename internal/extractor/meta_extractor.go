package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aleister1102/conndir/internal/models"
	"github.com/rs/zerolog"
)

// MetaExtractor reads the document's description meta tags. It only ever
// supplies a description, never a name: the listing entry owns the
// fallback name, and a site-wide og:title would shadow it.
type MetaExtractor struct {
	logger zerolog.Logger
}

// NewMetaExtractor creates a meta tag strategy
func NewMetaExtractor(logger zerolog.Logger) *MetaExtractor {
	return &MetaExtractor{
		logger: logger.With().Str("component", "MetaExtractor").Logger(),
	}
}

func (me *MetaExtractor) Name() string {
	return "meta"
}

func (me *MetaExtractor) Extract(snap Snapshot) models.DetailFields {
	doc := parseDocument(snap.HTML)
	if doc == nil {
		return models.DetailFields{}
	}

	fields := models.DetailFields{
		Description: metaContent(doc, "meta[property='og:description']"),
	}
	if fields.Description == "" {
		fields.Description = metaContent(doc, "meta[name='description']")
	}

	me.logger.Debug().Str("url", snap.URL).Bool("description", fields.Description != "").Msg("Parsed meta tags")
	return fields
}

func metaContent(doc *goquery.Document, selector string) string {
	return strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
}
