package datastore

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/models"
	"github.com/rs/zerolog"
)

// JSONProgressStore keeps progress in the output file itself: the
// ProgressFile written after every attempt is also the resume state.
type JSONProgressStore struct {
	path        string
	meta        ProgressMeta
	fileManager *common.FileManager
	now         func() time.Time
	logger      zerolog.Logger
}

// NewJSONProgressStore creates a store backed by path
func NewJSONProgressStore(path string, meta ProgressMeta, logger zerolog.Logger) *JSONProgressStore {
	return &JSONProgressStore{
		path:        path,
		meta:        meta,
		fileManager: common.NewFileManager(logger),
		now:         time.Now,
		logger:      logger.With().Str("component", "JSONProgressStore").Str("path", path).Logger(),
	}
}

func (s *JSONProgressStore) Load(ctx context.Context) (ProgressState, error) {
	if err := ctx.Err(); err != nil {
		return ProgressState{}, err
	}

	var file models.ProgressFile
	found, err := readJSON(s.fileManager, s.path, &file, s.logger)
	if err != nil {
		return ProgressState{}, err
	}
	if !found {
		return NewProgressState(nil), nil
	}

	state := NewProgressState(file.Connectors)
	s.logger.Debug().Int("records", len(state.Records)).Msg("Loaded progress")
	return state, nil
}

func (s *JSONProgressStore) Save(ctx context.Context, records []models.ConnectorRecord, errs []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	unique := dedupeRecords(records)
	file := models.ProgressFile{
		ScrapedAt:       s.now().UTC().Format(models.ScrapedAtLayout),
		Source:          s.meta.Source,
		Tab:             s.meta.Tab,
		TotalConnectors: len(unique),
		Connectors:      unique,
	}
	if len(errs) > 0 {
		file.Errors = errs
	}

	return writeJSON(s.fileManager, s.path, file)
}

func (s *JSONProgressStore) Reset(ctx context.Context) error {
	if s.fileManager.FileExists(s.path) {
		s.logger.Info().Msg("Removing previous output")
	}
	return s.fileManager.RemoveFile(s.path)
}

// JSONIndexStore keeps the listing index as a JSON array
type JSONIndexStore struct {
	path        string
	fileManager *common.FileManager
	logger      zerolog.Logger
}

// NewJSONIndexStore creates an index store backed by path
func NewJSONIndexStore(path string, logger zerolog.Logger) *JSONIndexStore {
	return &JSONIndexStore{
		path:        path,
		fileManager: common.NewFileManager(logger),
		logger:      logger.With().Str("component", "JSONIndexStore").Str("path", path).Logger(),
	}
}

func (s *JSONIndexStore) Load(ctx context.Context) ([]models.IndexEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var entries []models.IndexEntry
	found, err := readJSON(s.fileManager, s.path, &entries, s.logger)
	if err != nil || !found {
		return nil, err
	}
	return dedupeEntries(entries), nil
}

func (s *JSONIndexStore) Save(ctx context.Context, entries []models.IndexEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeJSON(s.fileManager, s.path, dedupeEntries(entries))
}

func (s *JSONIndexStore) Delete(ctx context.Context) error {
	return s.fileManager.RemoveFile(s.path)
}

// readJSON decodes path into v. It reports false when the file is missing
// or does not decode; the latter is logged and treated as absent. A file
// that cannot be read at all is an error, since the next save would
// overwrite it. State files are read without a size cap.
func readJSON(fm *common.FileManager, path string, v any, logger zerolog.Logger) (bool, error) {
	if !fm.FileExists(path) {
		return false, nil
	}
	data, err := fm.ReadFile(path, common.FileReadOptions{})
	if err != nil {
		return false, common.WrapError(err, "failed to read state file "+path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn().Err(err).Msg("State file is corrupt, starting fresh")
		return false, nil
	}
	return true, nil
}

// writeJSON writes v as indented JSON without HTML escaping, atomically
func writeJSON(fm *common.FileManager, path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return common.WrapError(err, "failed to encode "+path)
	}
	return fm.WriteFile(path, buf.Bytes(), common.DefaultFileWriteOptions())
}
