package transform

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"time"

	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/models"
	"github.com/aleister1102/conndir/internal/urlhandler"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const maxInputSize = 200 * 1024 * 1024

// SourceLoader reads registry exports from local files or http(s) URLs
type SourceLoader struct {
	client      *resty.Client
	fileManager *common.FileManager
	logger      zerolog.Logger
}

// NewSourceLoader creates a loader whose remote fetches time out after timeout
func NewSourceLoader(timeout time.Duration, logger zerolog.Logger) *SourceLoader {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("Accept", "application/json")

	return &SourceLoader{
		client:      client,
		fileManager: common.NewFileManager(logger),
		logger:      logger.With().Str("component", "SourceLoader").Logger(),
	}
}

// LoadAll concatenates the servers of every input in order. Missing or
// empty inputs are skipped silently; unreadable ones are logged and skipped.
func (sl *SourceLoader) LoadAll(ctx context.Context, inputs []string) []models.RawRegistryEntry {
	var (
		servers []models.RawRegistryEntry
		skipped common.ErrorCollector
	)
	for _, input := range inputs {
		if ctx.Err() != nil {
			break
		}
		loaded, err := sl.Load(ctx, input)
		if err != nil {
			sl.logger.Warn().Err(err).Str("input", input).Msg("Skipped input")
			skipped.Add(err)
			continue
		}
		if loaded == nil {
			continue
		}
		sl.logger.Info().Int("servers", len(loaded)).Str("input", displayName(input)).Msg("Loaded servers")
		servers = append(servers, loaded...)
	}
	if skipped.HasErrors() {
		sl.logger.Warn().Int("skipped", skipped.Len()).Int("inputs", len(inputs)).Msg("Some inputs could not be read")
	}
	return servers
}

// Load reads one input. It returns nil, nil for a missing or blank input.
func (sl *SourceLoader) Load(ctx context.Context, input string) ([]models.RawRegistryEntry, error) {
	var (
		data []byte
		err  error
	)
	if urlhandler.IsAbsoluteHTTP(input) {
		data, err = sl.fetch(ctx, input)
	} else {
		if !sl.fileManager.FileExists(input) {
			return nil, nil
		}
		data, err = sl.fileManager.ReadFile(input, common.FileReadOptions{MaxSize: maxInputSize})
	}
	if err != nil {
		return nil, err
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var export models.RawRegistryExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, common.WrapError(err, "invalid registry export")
	}
	if export.Servers == nil {
		return []models.RawRegistryEntry{}, nil
	}
	return export.Servers, nil
}

func (sl *SourceLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	res, err := sl.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, common.NewNetworkError(url, "request failed", err)
	}
	if res.IsError() {
		return nil, common.NewNetworkError(url, "unexpected status "+res.Status(), nil)
	}
	return res.Body(), nil
}

func displayName(input string) string {
	if urlhandler.IsAbsoluteHTTP(input) {
		return input
	}
	return filepath.Base(input)
}
