package logger

import (
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// WriterFactory builds the console and file sinks for a set of options
type WriterFactory struct {
	console io.Writer
}

// NewWriterFactory creates a factory whose console sink is stderr, keeping
// stdout free for tables and summaries.
func NewWriterFactory() *WriterFactory {
	return NewWriterFactoryWithOutput(os.Stderr)
}

// NewWriterFactoryWithOutput creates a factory whose console sink is out
func NewWriterFactoryWithOutput(out io.Writer) *WriterFactory {
	return &WriterFactory{console: out}
}

// CreateConsoleWriter renders to the console sink
func (wf *WriterFactory) CreateConsoleWriter(opts Options) io.Writer {
	return strategyFor(opts.Format, opts.NoColor).CreateWriter(wf.console)
}

// CreateFileWriter renders to a size-rotated file. Files never get colors.
func (wf *WriterFactory) CreateFileWriter(opts Options) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(opts.FilePath), 0o755); err != nil {
		return nil, err
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.FilePath,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
		LocalTime:  true,
	}
	return strategyFor(opts.Format, true).CreateWriter(rotator), nil
}
