package fs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fluentvoice/modelcache/internal/port"
)

// TempSuffix marks an in-flight or abandoned download. A file carrying this
// suffix is never a valid artifact.
const TempSuffix = ".download"

// Manager handles local filesystem operations for the model cache directory.
type Manager struct {
	rootDir    string
	bufferSize int
}

// Ensure Manager implements port.FileSystem
var _ port.FileSystem = (*Manager)(nil)

// NewManager creates a new filesystem manager rooted at rootDir.
func NewManager(rootDir string) *Manager {
	return NewManagerWithBufferSize(rootDir, 64*1024)
}

// NewManagerWithBufferSize creates a filesystem manager with a custom copy
// buffer size.
func NewManagerWithBufferSize(rootDir string, bufferSize int) *Manager {
	if bufferSize <= 0 {
		bufferSize = 64 * 1024
	}
	return &Manager{
		rootDir:    rootDir,
		bufferSize: bufferSize,
	}
}

// RootDir returns the cache root directory.
func (m *Manager) RootDir() string {
	return m.rootDir
}

// EnsureRoot creates the cache root directory if it does not exist.
func (m *Manager) EnsureRoot() error {
	if err := os.MkdirAll(m.rootDir, 0755); err != nil {
		return fmt.Errorf("failed to create cache root dir: %w", err)
	}
	return nil
}

// ArtifactPath returns the final cache path for a catalog file name.
func (m *Manager) ArtifactPath(fileName string) string {
	return filepath.Join(m.rootDir, fileName)
}

// TempPath returns the in-flight download path for a catalog file name.
func (m *Manager) TempPath(fileName string) string {
	return m.ArtifactPath(fileName) + TempSuffix
}

// FileSize returns the size of the file at path.
func (m *Manager) FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// FileExists checks if a file exists at path.
func (m *Manager) FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteFile streams reader into a new file at path and flushes it to durable
// storage. Any partial file is removed on error.
func (m *Manager) WriteFile(path string, reader io.Reader) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	buf := make([]byte, m.bufferSize)
	written, err := io.CopyBuffer(f, reader, buf)
	if err != nil {
		f.Close()
		os.Remove(path)
		return written, fmt.Errorf("failed to write file: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(path)
		return written, fmt.Errorf("failed to flush file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return written, fmt.Errorf("failed to close file: %w", err)
	}

	return written, nil
}

// Promote installs tempPath at finalPath. A plain rename replaces an existing
// file atomically on POSIX systems; where that fails the old file is deleted
// and the rename retried, accepting a brief window with no file at finalPath.
func (m *Manager) Promote(tempPath, finalPath string) error {
	if err := os.Rename(tempPath, finalPath); err == nil {
		return nil
	}

	if err := os.Remove(finalPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove old artifact: %w", err)
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		return fmt.Errorf("failed to install artifact: %w", err)
	}
	return nil
}

// RemoveIfExists deletes the file at path, treating a missing file as
// success.
func (m *Manager) RemoveIfExists(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
