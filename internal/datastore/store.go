package datastore

import (
	"context"
	"strings"

	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/aleister1102/conndir/internal/models"
	"github.com/rs/zerolog"
)

// ProgressState is what a previous run left behind
type ProgressState struct {
	Records     []models.ConnectorRecord
	ScrapedURLs map[string]bool
}

// NewProgressState builds a state from records, dropping repeated detail URLs
func NewProgressState(records []models.ConnectorRecord) ProgressState {
	unique := dedupeRecords(records)
	scraped := make(map[string]bool, len(unique))
	for _, rec := range unique {
		scraped[rec.DetailURL] = true
	}
	return ProgressState{Records: unique, ScrapedURLs: scraped}
}

// ProgressStore persists scraped records and the run's error log.
// Missing or corrupt state loads as empty; it is never fatal.
type ProgressStore interface {
	Load(ctx context.Context) (ProgressState, error)
	// Save replaces the persisted state with records and errs
	Save(ctx context.Context, records []models.ConnectorRecord, errs []string) error
	// Reset removes all persisted progress
	Reset(ctx context.Context) error
}

// IndexStore persists the listing index between the two phases of a run
type IndexStore interface {
	Load(ctx context.Context) ([]models.IndexEntry, error)
	Save(ctx context.Context, entries []models.IndexEntry) error
	Delete(ctx context.Context) error
}

// ProgressMeta is written alongside the records
type ProgressMeta struct {
	Source string
	Tab    string
}

// Stores bundles the progress and index stores of one backend
type Stores struct {
	Progress ProgressStore
	Index    IndexStore
	closer   func() error
}

// Close releases the backend
func (s *Stores) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// Open creates the stores for the configured backend
func Open(cfg config.StorageConfig, meta ProgressMeta, logger zerolog.Logger) (*Stores, error) {
	switch strings.ToLower(cfg.Backend) {
	case "json", "":
		return &Stores{
			Progress: NewJSONProgressStore(cfg.OutputFile, meta, logger),
			Index:    NewJSONIndexStore(cfg.IndexFile, logger),
		}, nil
	case "sqlite":
		db, err := NewDB(cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Progress: db.ProgressStore(meta),
			Index:    db.IndexStore(),
			closer:   db.Close,
		}, nil
	default:
		return nil, common.NewConfigurationError("storage_config", "backend", "unsupported backend "+cfg.Backend)
	}
}

// dedupeRecords keeps the first record for each detail URL, in order
func dedupeRecords(records []models.ConnectorRecord) []models.ConnectorRecord {
	seen := make(map[string]bool, len(records))
	unique := make([]models.ConnectorRecord, 0, len(records))
	for _, rec := range records {
		if seen[rec.DetailURL] {
			continue
		}
		seen[rec.DetailURL] = true
		unique = append(unique, rec)
	}
	return unique
}

// dedupeEntries keeps the first entry for each detail URL, in order
func dedupeEntries(entries []models.IndexEntry) []models.IndexEntry {
	seen := make(map[string]bool, len(entries))
	unique := make([]models.IndexEntry, 0, len(entries))
	for _, e := range entries {
		if seen[e.DetailURL] {
			continue
		}
		seen[e.DetailURL] = true
		unique = append(unique, e)
	}
	return unique
}
