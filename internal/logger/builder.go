package logger

import (
	"io"
	stdlog "log"

	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/rs/zerolog"
)

// LoggerBuilder provides fluent interface for building loggers
type LoggerBuilder struct {
	opts       Options
	factory    *WriterFactory
	resolveErr error
}

// NewLoggerBuilder creates a builder with info level console output
func NewLoggerBuilder() *LoggerBuilder {
	return &LoggerBuilder{
		opts:    defaultOptions(),
		factory: NewWriterFactory(),
	}
}

// WithConfig replaces the options with those resolved from cfg
func (lb *LoggerBuilder) WithConfig(cfg config.LogConfig) *LoggerBuilder {
	lb.opts, lb.resolveErr = OptionsFromConfig(cfg)
	return lb
}

// WithLevel overrides the log level
func (lb *LoggerBuilder) WithLevel(level zerolog.Level) *LoggerBuilder {
	lb.opts.Level = level
	return lb
}

// WithConsoleOutput redirects console output
func (lb *LoggerBuilder) WithConsoleOutput(out io.Writer) *LoggerBuilder {
	lb.factory = NewWriterFactoryWithOutput(out)
	return lb
}

// Build creates the logger. The console sink is always present; the file
// sink is added when a log file is configured.
func (lb *LoggerBuilder) Build() (zerolog.Logger, error) {
	if lb.resolveErr != nil {
		return zerolog.Nop(), lb.resolveErr
	}
	if lb.opts.FilePath != "" && lb.opts.MaxSizeMB <= 0 {
		return zerolog.Nop(), common.NewValidationError("max_log_size_mb", lb.opts.MaxSizeMB, "must be positive when logging to a file")
	}

	writers := []io.Writer{lb.factory.CreateConsoleWriter(lb.opts)}
	if lb.opts.FilePath != "" {
		fileWriter, err := lb.factory.CreateFileWriter(lb.opts)
		if err != nil {
			return zerolog.Nop(), common.WrapError(err, "failed to create log file writer")
		}
		writers = append(writers, fileWriter)
	}

	instance := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lb.opts.Level).
		With().
		Timestamp().
		Logger()

	// Drivers and the sqlite package log through the standard library
	stdlog.SetOutput(instance)
	stdlog.SetFlags(0)

	return instance, nil
}
