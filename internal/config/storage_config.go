package config

// StorageConfig defines where scrape progress and exports are kept
type StorageConfig struct {
	Backend           string `json:"backend,omitempty" yaml:"backend,omitempty" validate:"required,backend"`
	OutputFile        string `json:"output_file,omitempty" yaml:"output_file,omitempty" validate:"required"`
	IndexFile         string `json:"index_file,omitempty" yaml:"index_file,omitempty" validate:"required"`
	SQLitePath        string `json:"sqlite_path,omitempty" yaml:"sqlite_path,omitempty" validate:"required_if=Backend sqlite"`
	ParquetExportPath string `json:"parquet_export_path,omitempty" yaml:"parquet_export_path,omitempty"`
	CompressionCodec  string `json:"compression_codec,omitempty" yaml:"compression_codec,omitempty" validate:"omitempty,codec"`
}

// NewDefaultStorageConfig creates default storage configuration
func NewDefaultStorageConfig() StorageConfig {
	return StorageConfig{
		Backend:          DefaultStorageBackend,
		OutputFile:       DefaultStorageOutputFile,
		IndexFile:        DefaultStorageIndexFile,
		SQLitePath:       DefaultStorageSQLitePath,
		CompressionCodec: DefaultStorageCompressionCodec,
	}
}
