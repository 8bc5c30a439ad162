package models

import "encoding/json"

// ParquetConnector is the columnar layout of a ConnectorRecord.
// Nested parties are flattened and more_info is kept as a JSON string.
type ParquetConnector struct {
	DetailURL     string   `parquet:"detail_url"`
	Name          string   `parquet:"name"`
	Tagline       *string  `parquet:"tagline,optional"`
	Description   *string  `parquet:"description,optional"`
	LogoURL       *string  `parquet:"logo_url,optional"`
	DeveloperName *string  `parquet:"developer_name,optional"`
	DeveloperURL  *string  `parquet:"developer_url,optional"`
	Tools         []string `parquet:"tools,list"`
	Version       *string  `parquet:"version,optional"`
	ConnectorURL  *string  `parquet:"connector_url,optional"`
	AuthorName    *string  `parquet:"author_name,optional"`
	AuthorURL     *string  `parquet:"author_url,optional"`
	MoreInfoJSON  *string  `parquet:"more_info_json,optional"`
	ScrapedAtMs   int64    `parquet:"scraped_at_ms"`
}

// ToParquet flattens a record for columnar export
func (r ConnectorRecord) ToParquet(scrapedAtMillis int64) ParquetConnector {
	row := ParquetConnector{
		DetailURL:     r.DetailURL,
		Name:          r.Name,
		Tagline:       optionalString(r.Tagline),
		Description:   optionalString(r.Description),
		LogoURL:       optionalString(r.LogoURL),
		DeveloperName: optionalString(r.Developer.Name),
		DeveloperURL:  optionalString(r.Developer.URL),
		Tools:         r.Tools,
		Version:       optionalString(r.Version),
		ConnectorURL:  optionalString(r.ConnectorURL),
		AuthorName:    optionalString(r.Author.Name),
		AuthorURL:     optionalString(r.Author.URL),
		ScrapedAtMs:   scrapedAtMillis,
	}
	if len(r.MoreInfo) > 0 {
		if data, err := json.Marshal(r.MoreInfo); err == nil {
			row.MoreInfoJSON = optionalString(string(data))
		}
	}
	if row.Tools == nil {
		row.Tools = []string{}
	}
	return row
}

// ToRecord rebuilds a ConnectorRecord from its columnar form
func (p ParquetConnector) ToRecord() ConnectorRecord {
	rec := ConnectorRecord{
		DetailURL:    p.DetailURL,
		Name:         p.Name,
		Tagline:      deref(p.Tagline),
		Description:  deref(p.Description),
		LogoURL:      deref(p.LogoURL),
		Developer:    Party{Name: deref(p.DeveloperName), URL: deref(p.DeveloperURL)},
		Tools:        p.Tools,
		Version:      deref(p.Version),
		ConnectorURL: deref(p.ConnectorURL),
		Author:       Party{Name: deref(p.AuthorName), URL: deref(p.AuthorURL)},
		MoreInfo:     map[string]string{},
	}
	if p.MoreInfoJSON != nil {
		_ = json.Unmarshal([]byte(*p.MoreInfoJSON), &rec.MoreInfo)
	}
	if rec.Tools == nil {
		rec.Tools = []string{}
	}
	return rec
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
