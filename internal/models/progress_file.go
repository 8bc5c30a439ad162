package models

// ProgressFile is the on-disk layout of the scrape output. It doubles as
// the resume state: every record in Connectors counts as scraped.
type ProgressFile struct {
	ScrapedAt       string            `json:"scraped_at"`
	Source          string            `json:"source"`
	Tab             string            `json:"tab"`
	TotalConnectors int               `json:"total_connectors"`
	Errors          []string          `json:"errors"`
	Connectors      []ConnectorRecord `json:"connectors"`
}

// ScrapedAtLayout formats timestamps as UTC ISO-8601 with a literal Z suffix
const ScrapedAtLayout = "2006-01-02T15:04:05.000000Z"
