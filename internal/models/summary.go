package models

import "time"

// RunSummary describes the outcome of one scrape run
type RunSummary struct {
	IndexSize    int
	Persisted    int
	ScrapedNow   int
	Skipped      int
	Failed       int
	Errors       []string
	IndexDeleted bool
	ParquetRows  int
	Cancelled    bool
	Duration     time.Duration
}

// TransformStats counts feature coverage across transformed connectors
type TransformStats struct {
	Loaded         int
	Duplicates     int
	Connectors     int
	TotalTools     int
	Authless       int
	HasMcpApp      int
	HasHTMLContent int
	HasSlug        int
	HasUseCases    int
	HasCodeCommand int
	HasHeroVideo   int
	HasImages      int
}
