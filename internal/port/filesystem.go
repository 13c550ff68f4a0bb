package port

import "io"

// FileSystem defines the interface for cache-directory operations.
type FileSystem interface {
	// RootDir returns the cache root directory.
	RootDir() string

	// EnsureRoot creates the cache root directory if it does not exist.
	EnsureRoot() error

	// ArtifactPath returns the final path for a catalog file name.
	ArtifactPath(fileName string) string

	// TempPath returns the in-flight download path for a catalog file name.
	TempPath(fileName string) string

	// FileSize returns the size of the file at path.
	FileSize(path string) (int64, error)

	// FileExists reports whether a file exists at path.
	FileExists(path string) bool

	// WriteFile streams reader into a new file at path, flushing to durable
	// storage before returning. Returns bytes written.
	WriteFile(path string, reader io.Reader) (int64, error)

	// Promote installs tempPath at finalPath, replacing any existing file.
	Promote(tempPath, finalPath string) error

	// RemoveIfExists deletes the file at path. A missing file is not an
	// error. Best-effort callers ignore the returned error at the call site.
	RemoveIfExists(path string) error
}
