package orchestrator

import "github.com/aleister1102/conndir/internal/models"

// MergeRecord combines a listing entry with the fields of its detail page.
// The detail page wins for everything it describes; the listing supplies
// the logo and the URL, and fills name and tagline when the page lacks them.
func MergeRecord(entry models.IndexEntry, detail models.DetailFields) models.ConnectorRecord {
	rec := models.ConnectorRecord{
		Name:         firstNonEmpty(detail.Name, entry.Name),
		Tagline:      firstNonEmpty(detail.Tagline, entry.Tagline),
		Description:  detail.Description,
		LogoURL:      entry.LogoURL,
		DetailURL:    entry.DetailURL,
		Tools:        detail.Tools,
		Version:      detail.Version,
		ConnectorURL: detail.ConnectorURL,
		MoreInfo:     detail.MoreInfo,
	}
	if detail.Developer != nil {
		rec.Developer = *detail.Developer
	}
	if detail.Author != nil {
		rec.Author = *detail.Author
	}
	if rec.Tools == nil {
		rec.Tools = []string{}
	}
	if rec.MoreInfo == nil {
		rec.MoreInfo = map[string]string{}
	}
	return rec
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
