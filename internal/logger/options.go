package logger

import (
	"os"
	"strings"

	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/rs/zerolog"
)

// Format selects how log lines are rendered
type Format string

const (
	FormatConsole Format = "console"
	FormatText    Format = "text"
	FormatJSON    Format = "json"
)

// Options is the resolved logger setup
type Options struct {
	Level      zerolog.Level
	Format     Format
	NoColor    bool
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

func defaultOptions() Options {
	return Options{
		Level:      zerolog.InfoLevel,
		Format:     FormatConsole,
		MaxSizeMB:  config.DefaultMaxLogSizeMB,
		MaxBackups: config.DefaultMaxLogBackups,
	}
}

// OptionsFromConfig resolves the file-level log settings. A NO_COLOR
// environment variable disables colors regardless of the config. An
// invalid level is returned alongside options that fall back to info.
func OptionsFromConfig(cfg config.LogConfig) (Options, error) {
	opts := defaultOptions()

	level, err := ParseLevel(cfg.LogLevel)
	opts.Level = level
	opts.Format = ParseFormat(cfg.LogFormat)
	opts.NoColor = cfg.NoColor || os.Getenv("NO_COLOR") != ""
	opts.FilePath = strings.TrimSpace(cfg.LogFile)
	opts.MaxAgeDays = cfg.MaxLogAgeDays
	opts.Compress = cfg.CompressBackups
	if cfg.MaxLogSizeMB > 0 {
		opts.MaxSizeMB = cfg.MaxLogSizeMB
	}
	if cfg.MaxLogBackups > 0 {
		opts.MaxBackups = cfg.MaxLogBackups
	}

	return opts, err
}

// ParseLevel accepts zerolog level names plus "warning". Empty means info.
func ParseLevel(levelStr string) (zerolog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(levelStr))
	switch name {
	case "":
		return zerolog.InfoLevel, nil
	case "warning":
		name = "warn"
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel, common.WrapErrorf(common.ErrInvalidConfiguration, "unknown log level %q", levelStr)
	}
	return level, nil
}

// ParseFormat maps a format name to a Format; unknown names render as console
func ParseFormat(formatStr string) Format {
	switch f := Format(strings.ToLower(strings.TrimSpace(formatStr))); f {
	case FormatJSON, FormatText:
		return f
	default:
		return FormatConsole
	}
}
