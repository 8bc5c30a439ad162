package config

// LogConfig controls the console log and the optional rotated log file
type LogConfig struct {
	LogLevel  string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,loglevel"`
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,logformat"`
	NoColor   bool   `json:"no_color,omitempty" yaml:"no_color,omitempty"`

	// Empty disables file logging
	LogFile         string `json:"log_file,omitempty" yaml:"log_file,omitempty"`
	MaxLogSizeMB    int    `json:"max_log_size_mb,omitempty" yaml:"max_log_size_mb,omitempty" validate:"min=0"`
	MaxLogBackups   int    `json:"max_log_backups,omitempty" yaml:"max_log_backups,omitempty" validate:"min=0"`
	MaxLogAgeDays   int    `json:"max_log_age_days,omitempty" yaml:"max_log_age_days,omitempty" validate:"min=0"`
	CompressBackups bool   `json:"compress_backups,omitempty" yaml:"compress_backups,omitempty"`
}

// NewDefaultLogConfig returns console logging at info level with no file
func NewDefaultLogConfig() LogConfig {
	return LogConfig{
		LogLevel:      DefaultLogLevel,
		LogFormat:     DefaultLogFormat,
		LogFile:       DefaultLogFile,
		MaxLogSizeMB:  DefaultMaxLogSizeMB,
		MaxLogBackups: DefaultMaxLogBackups,
	}
}
