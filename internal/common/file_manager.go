package common

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// FileInfo contains metadata about a file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	IsDir   bool
	ModTime time.Time
}

// FileReadOptions configures file reading behavior
type FileReadOptions struct {
	MaxSize int64 // 0 = no limit
}

// FileWriteOptions configures file writing behavior
type FileWriteOptions struct {
	CreateDirs  bool
	Permissions fs.FileMode
	// Atomic writes to a sibling temp file and renames it over the target,
	// so readers never observe a partially written file.
	Atomic bool
}

// DefaultFileReadOptions returns default file reading options
func DefaultFileReadOptions() FileReadOptions {
	return FileReadOptions{
		MaxSize: 50 * 1024 * 1024,
	}
}

// DefaultFileWriteOptions returns default file writing options
func DefaultFileWriteOptions() FileWriteOptions {
	return FileWriteOptions{
		CreateDirs:  true,
		Permissions: 0644,
		Atomic:      true,
	}
}

// FileManager provides high-level file operations with standardized error handling and logging
type FileManager struct {
	logger zerolog.Logger
}

// NewFileManager creates a new FileManager instance
func NewFileManager(logger zerolog.Logger) *FileManager {
	return &FileManager{
		logger: logger.With().Str("component", "FileManager").Logger(),
	}
}

// FileExists checks if a file or directory exists
func (fm *FileManager) FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// DirExists checks that path exists and is a directory
func (fm *FileManager) DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// GetFileInfo returns information about a file
func (fm *FileManager) GetFileInfo(path string) (*FileInfo, error) {
	stat, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, WrapError(ErrNotFound, fmt.Sprintf("file not found: %s", path))
		}
		return nil, WrapError(err, fmt.Sprintf("failed to get file info for: %s", path))
	}

	return &FileInfo{
		Path:    path,
		Name:    stat.Name(),
		Size:    stat.Size(),
		IsDir:   stat.IsDir(),
		ModTime: stat.ModTime(),
	}, nil
}

// ReadFile reads a file with the given options
func (fm *FileManager) ReadFile(path string, opts FileReadOptions) ([]byte, error) {
	info, err := fm.GetFileInfo(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir {
		return nil, NewValidationError("path", path, "is a directory")
	}
	if opts.MaxSize > 0 && info.Size > opts.MaxSize {
		return nil, NewValidationError("file_size", info.Size, fmt.Sprintf("exceeds maximum of %d bytes", opts.MaxSize))
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, WrapError(err, fmt.Sprintf("failed to open file: %s", path))
	}
	defer func() {
		if err := file.Close(); err != nil {
			fm.logger.Error().Err(err).Str("path", path).Msg("Failed to close file.")
		}
	}()

	var reader io.Reader = file
	if opts.MaxSize > 0 {
		reader = io.LimitReader(file, opts.MaxSize)
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, WrapError(err, fmt.Sprintf("failed to read file content: %s", path))
	}
	return content, nil
}

// EnsureDirectory creates a directory and its parents if they don't exist
func (fm *FileManager) EnsureDirectory(path string, perm fs.FileMode) error {
	if path == "" || path == "." {
		return nil
	}

	if fm.FileExists(path) {
		info, err := fm.GetFileInfo(path)
		if err != nil {
			return WrapError(err, "failed to check directory: "+path)
		}
		if !info.IsDir {
			return NewValidationError("path", path, "exists but is not a directory")
		}
		return nil
	}

	if err := os.MkdirAll(path, perm); err != nil {
		return WrapError(err, "failed to create directory: "+path)
	}

	fm.logger.Debug().Str("path", path).Msg("Created directory")
	return nil
}

// WriteFile writes data to a file with the given options
func (fm *FileManager) WriteFile(path string, data []byte, opts FileWriteOptions) error {
	if opts.CreateDirs {
		if err := fm.EnsureDirectory(filepath.Dir(path), 0755); err != nil {
			return WrapError(err, "failed to create parent directories for: "+path)
		}
	}

	perm := opts.Permissions
	if perm == 0 {
		perm = 0644
	}

	if !opts.Atomic {
		if err := os.WriteFile(path, data, perm); err != nil {
			return WrapError(err, "failed to write file: "+path)
		}
		return nil
	}

	return fm.writeAtomic(path, data, perm)
}

func (fm *FileManager) writeAtomic(path string, data []byte, perm fs.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return WrapError(err, "failed to create temp file for: "+path)
	}
	tmpName := tmp.Name()

	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return WrapError(err, "failed to write temp file for: "+path)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return WrapError(err, "failed to sync temp file for: "+path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return WrapError(err, "failed to close temp file for: "+path)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		_ = os.Remove(tmpName)
		return WrapError(err, "failed to set permissions on: "+tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return WrapError(err, "failed to replace file: "+path)
	}

	fm.logger.Debug().Str("path", path).Int("bytes", len(data)).Msg("File written")
	return nil
}

// RemoveFile deletes a file. A missing file is not an error.
func (fm *FileManager) RemoveFile(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return WrapError(err, "failed to remove file: "+path)
	}
	return nil
}
