package transform

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/aleister1102/conndir/internal/models"
	"github.com/rs/zerolog"
)

// Transformer turns raw registry exports into the normalized connector list
type Transformer struct {
	cfg         config.TransformConfig
	loader      *SourceLoader
	fileManager *common.FileManager
	now         func() time.Time
	logger      zerolog.Logger
}

// NewTransformer creates a transformer for cfg
func NewTransformer(cfg config.TransformConfig, logger zerolog.Logger) *Transformer {
	logger = logger.With().Str("component", "Transformer").Logger()
	return &Transformer{
		cfg:         cfg,
		loader:      NewSourceLoader(cfg.GetRequestTimeout(), logger),
		fileManager: common.NewFileManager(logger),
		now:         time.Now,
		logger:      logger,
	}
}

// Run loads every input, transforms the servers and writes the output file
func (t *Transformer) Run(ctx context.Context) (models.RegistryOutput, models.TransformStats, error) {
	var stats models.TransformStats

	t.logger.Info().Strs("inputs", t.cfg.Inputs).Msg("Loading raw data")
	servers := t.loader.LoadAll(ctx, t.cfg.Inputs)
	if err := ctx.Err(); err != nil {
		return models.RegistryOutput{}, stats, err
	}
	if len(servers) == 0 {
		return models.RegistryOutput{}, stats, common.ErrNoServers
	}

	out, stats := t.Transform(servers)
	t.logger.Info().Int("servers", stats.Connectors).Int("duplicates", stats.Duplicates).Msg("Transformed servers")

	if err := t.write(out); err != nil {
		return out, stats, err
	}
	t.logger.Info().Int("connectors", out.Total).Str("output", t.cfg.OutputFile).Msg("Wrote connectors")
	return out, stats, nil
}

// Transform dedupes servers by registry UUID, reshapes them and sorts the
// result by name, case-insensitively and stably.
func (t *Transformer) Transform(servers []models.RawRegistryEntry) (models.RegistryOutput, models.TransformStats) {
	seen := make(map[string]bool, len(servers))
	connectors := make([]models.NormalizedConnector, 0, len(servers))
	duplicates := 0

	for i, entry := range servers {
		meta, err := RegistryMeta(entry)
		if err != nil {
			t.logger.Warn().Err(err).Int("position", i).Msg("Unreadable registry metadata, using server fields only")
		}

		// Entries without an id are never considered duplicates
		if key := CanonicalUUID(meta.UUID); key != "" {
			if seen[key] {
				duplicates++
				continue
			}
			seen[key] = true
		}

		connectors = append(connectors, Normalize(entry.Server, meta, t.cfg.DirectoryBaseURL))
	}

	SortByName(connectors)

	stats := ComputeStats(connectors)
	stats.Loaded = len(servers)
	stats.Duplicates = duplicates

	return models.RegistryOutput{
		Total:       len(connectors),
		GeneratedAt: t.now().UTC().Format(models.ScrapedAtLayout),
		Connectors:  connectors,
	}, stats
}

// SortByName orders connectors by lowercase name, keeping input order for ties
func SortByName(connectors []models.NormalizedConnector) {
	slices.SortStableFunc(connectors, func(a, b models.NormalizedConnector) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

// ComputeStats counts feature coverage across connectors
func ComputeStats(connectors []models.NormalizedConnector) models.TransformStats {
	stats := models.TransformStats{Connectors: len(connectors)}
	for _, c := range connectors {
		stats.TotalTools += len(c.Capabilities.Tools)
		if c.Connection.IsAuthless {
			stats.Authless++
		}
		if c.Capabilities.HasMcpApp {
			stats.HasMcpApp++
		}
		if c.HTMLContent != "" {
			stats.HasHTMLContent++
		}
		if c.Slug != "" {
			stats.HasSlug++
		}
		if len(c.Capabilities.UseCases) > 0 {
			stats.HasUseCases++
		}
		if c.Connection.ClaudeCodeCommand != "" {
			stats.HasCodeCommand++
		}
		if c.Branding.HeroVideoID != "" {
			stats.HasHeroVideo++
		}
		if len(c.Branding.Images) > 0 {
			stats.HasImages++
		}
	}
	return stats
}

func (t *Transformer) write(out models.RegistryOutput) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return common.WrapError(err, "failed to encode connectors")
	}
	return t.fileManager.WriteFile(t.cfg.OutputFile, buf.Bytes(), common.DefaultFileWriteOptions())
}
