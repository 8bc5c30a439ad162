package crawler

import (
	"strings"

	"github.com/aleister1102/conndir/internal/models"
)

// cardLines splits a card's visible text into its meaningful lines,
// dropping button labels.
func cardLines(text string, buttonLabels ...string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "Connect" {
			continue
		}
		skip := false
		for _, label := range buttonLabels {
			if line == label {
				skip = true
				break
			}
		}
		if !skip {
			lines = append(lines, line)
		}
	}
	return lines
}

// parseListingAnchors turns raw listing links into index entries in DOM
// order. Links outside scope, repeated links and links without text are
// dropped.
func parseListingAnchors(anchors []rawAnchor, scope *ListingScope, addLabel string) []models.IndexEntry {
	seen := make(map[string]bool, len(anchors))
	entries := make([]models.IndexEntry, 0, len(anchors))

	for _, a := range anchors {
		detailURL, ok := scope.DetailURL(a.Href)
		if !ok || seen[detailURL] {
			continue
		}

		lines := cardLines(a.Text, addLabel)
		if len(lines) == 0 {
			continue
		}
		seen[detailURL] = true

		entry := models.IndexEntry{
			Name:      lines[0],
			LogoURL:   a.Img,
			DetailURL: detailURL,
		}
		if len(lines) > 1 {
			entry.Tagline = lines[1]
		}
		entries = append(entries, entry)
	}
	return entries
}
