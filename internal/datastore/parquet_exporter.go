package datastore

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aleister1102/conndir/internal/common"
	"github.com/aleister1102/conndir/internal/config"
	"github.com/aleister1102/conndir/internal/models"
	"github.com/parquet-go/parquet-go"
	"github.com/rs/zerolog"
)

const parquetReadBatch = 100

// ParquetExporter writes scraped records as a columnar snapshot
type ParquetExporter struct {
	codec       string
	fileManager *common.FileManager
	now         func() time.Time
	logger      zerolog.Logger
}

// NewParquetExporter creates an exporter using the configured codec
func NewParquetExporter(cfg config.StorageConfig, logger zerolog.Logger) *ParquetExporter {
	return &ParquetExporter{
		codec:       strings.ToLower(cfg.CompressionCodec),
		fileManager: common.NewFileManager(logger),
		now:         time.Now,
		logger:      logger.With().Str("component", "ParquetExporter").Logger(),
	}
}

// Export replaces the file at path with records and returns the row count
func (pe *ParquetExporter) Export(ctx context.Context, path string, records []models.ConnectorRecord) (int, error) {
	if path == "" {
		return 0, common.NewValidationError("parquet_export_path", path, "export path is empty")
	}
	if err := pe.fileManager.EnsureDirectory(filepath.Dir(path), 0755); err != nil {
		return 0, err
	}

	scrapedAt := pe.now().UnixMilli()
	rows := make([]models.ParquetConnector, 0, len(records))
	for _, rec := range dedupeRecords(records) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		rows = append(rows, rec.ToParquet(scrapedAt))
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, common.WrapError(err, "failed to create parquet file: "+path)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[models.ParquetConnector](file, pe.compressionOption())
	written, err := writer.Write(rows)
	if err != nil {
		_ = writer.Close()
		return 0, common.WrapError(err, "failed to write connectors to parquet file")
	}
	if err := writer.Close(); err != nil {
		return 0, common.WrapError(err, "failed to finalize parquet file")
	}

	pe.logger.Info().Str("file_path", path).Int("records_written", written).Str("codec", pe.codec).Msg("Exported connectors to Parquet")
	return written, nil
}

func (pe *ParquetExporter) compressionOption() parquet.WriterOption {
	switch pe.codec {
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "snappy":
		return parquet.Compression(&parquet.Snappy)
	case "none":
		return parquet.Compression(&parquet.Uncompressed)
	default:
		return parquet.Compression(&parquet.Zstd)
	}
}

// ReadParquet loads records previously written by Export
func ReadParquet(path string) ([]models.ConnectorRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, common.WrapError(err, "failed to open parquet file: "+path)
	}
	defer file.Close()

	reader := parquet.NewGenericReader[models.ParquetConnector](file)
	defer reader.Close()

	var records []models.ConnectorRecord
	for {
		// Fresh batch per read so decoded slices are never shared between rows
		batch := make([]models.ParquetConnector, parquetReadBatch)
		n, err := reader.Read(batch)
		for _, row := range batch[:n] {
			records = append(records, row.ToRecord())
		}
		if errors.Is(err, io.EOF) || (err == nil && n == 0) {
			break
		}
		if err != nil {
			return nil, common.WrapError(err, "failed to read connectors from parquet file")
		}
	}
	return records, nil
}
