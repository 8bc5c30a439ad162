package config

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/aleister1102/conndir/internal/common"
	"github.com/rs/zerolog"
	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"
)

// GlobalConfig contains all configuration sections for the application
type GlobalConfig struct {
	BrowserConfig   BrowserConfig   `json:"browser_config,omitempty" yaml:"browser_config,omitempty"`
	CollectorConfig CollectorConfig `json:"collector_config,omitempty" yaml:"collector_config,omitempty"`
	DirectoryConfig DirectoryConfig `json:"directory_config,omitempty" yaml:"directory_config,omitempty"`
	ExtractorConfig ExtractorConfig `json:"extractor_config,omitempty" yaml:"extractor_config,omitempty"`
	LogConfig       LogConfig       `json:"log_config,omitempty" yaml:"log_config,omitempty"`
	ProgressConfig  ProgressConfig  `json:"progress_config,omitempty" yaml:"progress_config,omitempty"`
	StorageConfig   StorageConfig   `json:"storage_config,omitempty" yaml:"storage_config,omitempty"`
	TransformConfig TransformConfig `json:"transform_config,omitempty" yaml:"transform_config,omitempty"`
}

// NewDefaultGlobalConfig creates a new GlobalConfig with default values
func NewDefaultGlobalConfig() *GlobalConfig {
	return &GlobalConfig{
		BrowserConfig:   NewDefaultBrowserConfig(),
		CollectorConfig: NewDefaultCollectorConfig(),
		DirectoryConfig: NewDefaultDirectoryConfig(),
		ExtractorConfig: NewDefaultExtractorConfig(),
		LogConfig:       NewDefaultLogConfig(),
		ProgressConfig:  NewDefaultProgressConfig(),
		StorageConfig:   NewDefaultStorageConfig(),
		TransformConfig: NewDefaultTransformConfig(),
	}
}

// LoadGlobalConfig loads the configuration from a file or default locations.
// The path is resolved with GetConfigPath; values absent from the file keep
// their defaults. YAML, JSON5 and JSON are chosen by file extension.
func LoadGlobalConfig(providedPath string, logger zerolog.Logger) (*GlobalConfig, error) {
	cfg := NewDefaultGlobalConfig()

	loadDotEnv(logger)

	filePath := GetConfigPath(providedPath)
	if filePath == "" {
		if providedPath != "" {
			return nil, common.NewValidationError("config_file", providedPath, "config file does not exist")
		}
		logger.Debug().Msg("No config file found, using defaults")
		return cfg, nil
	}

	fileManager := common.NewFileManager(logger)
	if !fileManager.FileExists(filePath) {
		return nil, common.NewValidationError("config_file", filePath, "config file does not exist")
	}

	data, err := loadConfigFileContent(fileManager, filePath)
	if err != nil {
		return nil, common.WrapError(err, "failed to load config file content")
	}

	if err := parseConfigContent(data, filePath, cfg); err != nil {
		return nil, common.WrapError(err, "failed to parse config content")
	}

	logger.Debug().Str("path", filePath).Msg("Configuration loaded")
	return cfg, nil
}

func loadConfigFileContent(fileManager *common.FileManager, filePath string) ([]byte, error) {
	opts := common.DefaultFileReadOptions()
	opts.MaxSize = 10 * 1024 * 1024 // 10MB max config file size

	return fileManager.ReadFile(filePath, opts)
}

func parseConfigContent(data []byte, filePath string, cfg *GlobalConfig) error {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return common.NewError("failed to unmarshal YAML from '%s': %w", filePath, err)
		}
	case ".json5":
		if err := json5.Unmarshal(data, cfg); err != nil {
			return common.NewError("failed to unmarshal JSON5 from '%s': %w", filePath, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return common.NewError("failed to unmarshal JSON from '%s': %w", filePath, err)
		}
	}
	return nil
}
