package crawler

import (
	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/rs/zerolog"
)

// CollectorBuilder provides a fluent interface for creating Collector instances
type CollectorBuilder struct {
	dirCfg *config.DirectoryConfig
	cfg    *config.CollectorConfig
	logger zerolog.Logger
}

// NewCollectorBuilder creates a new CollectorBuilder instance
func NewCollectorBuilder(logger zerolog.Logger) *CollectorBuilder {
	return &CollectorBuilder{
		logger: logger.With().Str("component", "Collector").Logger(),
	}
}

// WithDirectoryConfig sets the site being collected
func (cb *CollectorBuilder) WithDirectoryConfig(cfg config.DirectoryConfig) *CollectorBuilder {
	cb.dirCfg = &cfg
	return cb
}

// WithCollectorConfig sets the scroll and fallback policy
func (cb *CollectorBuilder) WithCollectorConfig(cfg config.CollectorConfig) *CollectorBuilder {
	cb.cfg = &cfg
	return cb
}

// Build creates a new Collector instance with the configured settings
func (cb *CollectorBuilder) Build() (*Collector, error) {
	if cb.dirCfg == nil {
		return nil, common.NewValidationError("directory_config", nil, "directory config cannot be nil")
	}
	if cb.cfg == nil {
		defaults := config.NewDefaultCollectorConfig()
		cb.cfg = &defaults
	}

	scope, err := NewListingScope(*cb.dirCfg)
	if err != nil {
		return nil, common.WrapError(err, "failed to initialize listing scope")
	}

	return &Collector{
		dirCfg: *cb.dirCfg,
		cfg:    *cb.cfg,
		scope:  scope,
		logger: cb.logger,
	}, nil
}
