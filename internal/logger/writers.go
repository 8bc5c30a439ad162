package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// WriterStrategy wraps a sink with a line renderer
type WriterStrategy interface {
	CreateWriter(output io.Writer) io.Writer
}

// JSONWriterStrategy passes zerolog's JSON lines through untouched
type JSONWriterStrategy struct{}

func (JSONWriterStrategy) CreateWriter(output io.Writer) io.Writer {
	return output
}

// ConsoleWriterStrategy renders human readable lines
type ConsoleWriterStrategy struct {
	NoColor bool
}

func (s ConsoleWriterStrategy) CreateWriter(output io.Writer) io.Writer {
	return zerolog.ConsoleWriter{
		Out:        output,
		TimeFormat: time.TimeOnly,
		NoColor:    s.NoColor,
	}
}

// strategyFor picks the renderer for format. Text is console without colors.
func strategyFor(format Format, noColor bool) WriterStrategy {
	switch format {
	case FormatJSON:
		return JSONWriterStrategy{}
	case FormatText:
		return ConsoleWriterStrategy{NoColor: true}
	default:
		return ConsoleWriterStrategy{NoColor: noColor}
	}
}
