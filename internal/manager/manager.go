// Package manager implements the model artifact cache: it decides which
// size variant is present and usable, downloads a chosen variant with
// progress reporting, installs it atomically and evicts superseded variants.
package manager

import (
	"net/http"
	"strings"
	"time"

	"github.com/fluentvoice/modelcache/internal/catalog"
	"github.com/fluentvoice/modelcache/internal/port"
	"github.com/fluentvoice/modelcache/internal/state"
	"go.uber.org/zap"
)

// Config contains manager configuration
type Config struct {
	// BaseURL overrides the catalog's download host (mirror support).
	// When set, artifact URLs become BaseURL + "/" + file name.
	BaseURL string

	// ProgressInterval caps how often progress events are emitted.
	ProgressInterval time.Duration

	// Timeout bounds a whole download. Zero means no overall timeout;
	// artifacts run to multiple gigabytes, so callers wanting a bound
	// should usually cancel via context instead.
	Timeout time.Duration
}

// DefaultConfig returns default manager configuration
func DefaultConfig() *Config {
	return &Config{
		ProgressInterval: 100 * time.Millisecond,
	}
}

// Manager coordinates probing, downloading and evicting model artifacts.
//
// Methods are safe for concurrent use. Two concurrent downloads of the same
// size are not mutex-guarded: both compete for the same temp path and the
// last writer wins, which is acceptable because the install step is atomic.
type Manager struct {
	config  *Config
	fs      port.FileSystem
	state   *state.Store
	history port.History // optional, may be nil
	client  *http.Client
	logger  *zap.Logger
}

// New creates a new Manager. history may be nil to disable attempt logging.
func New(cfg *Config, fsys port.FileSystem, history port.History, logger *zap.Logger) *Manager {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.ProgressInterval == 0 {
		cfg.ProgressInterval = 100 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Manager{
		config:  cfg,
		fs:      fsys,
		state:   state.New(),
		history: history,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// Probe reports whether a usable artifact for size exists on disk.
// An artifact is usable when its file size is at least half the catalog's
// approximate size; catastrophic truncation from an interrupted transfer is
// the dominant failure mode, so the threshold stands in for a checksum.
// On success the installed-artifact state is updated to (path, size).
// A too-small file is left in place: a later download replaces it.
func (m *Manager) Probe(size catalog.Size) bool {
	info := catalog.MustInfo(size)
	path := m.fs.ArtifactPath(info.FileName)

	actual, err := m.fs.FileSize(path)
	if err != nil {
		return false
	}

	threshold := info.ApproxBytes / 2
	if actual < threshold {
		m.logger.Warn("cached artifact below size threshold, presumed truncated",
			zap.String("path", path),
			zap.Int64("actual_bytes", actual),
			zap.Int64("threshold_bytes", threshold))
		return false
	}

	m.state.Set(path, size)
	m.logger.Debug("artifact available",
		zap.String("size", size.String()),
		zap.String("path", path),
		zap.Int64("bytes", actual))
	return true
}

// FindLargestAvailable probes every size from largest to smallest and
// returns the first usable one. The ordering matters: a partially
// downloaded larger variant fails its probe and a smaller complete one
// is preferred over it.
func (m *Manager) FindLargestAvailable() (catalog.Size, bool) {
	for _, size := range catalog.SizesLargestFirst() {
		if m.Probe(size) {
			return size, true
		}
	}
	return 0, false
}

// Active returns the currently installed artifact, if any.
func (m *Manager) Active() (state.Active, bool) {
	return m.state.Current()
}

// IsActive reports whether any artifact is currently installed.
func (m *Manager) IsActive() bool {
	_, ok := m.state.Current()
	return ok
}

// ActivePath returns the installed artifact's path, or "" when none.
func (m *Manager) ActivePath() string {
	active, ok := m.state.Current()
	if !ok {
		return ""
	}
	return active.Path
}

// ActiveSize returns the installed artifact's size identifier.
func (m *Manager) ActiveSize() (catalog.Size, bool) {
	active, ok := m.state.Current()
	if !ok {
		return 0, false
	}
	return active.Size, true
}

// downloadURL resolves the URL for an artifact, honoring the mirror override.
func (m *Manager) downloadURL(info catalog.Info) string {
	if m.config.BaseURL != "" {
		return strings.TrimRight(m.config.BaseURL, "/") + "/" + info.FileName
	}
	return info.URL
}

// recordAttempt logs a download attempt to history. Best-effort: history is
// observational and must never affect the download result.
func (m *Manager) recordAttempt(size catalog.Size, outcome string, bytes int64, duration time.Duration, errMsg string) {
	if m.history == nil {
		return
	}

	rec := &port.DownloadRecord{
		Size:     size.String(),
		Outcome:  outcome,
		Bytes:    bytes,
		Duration: duration,
		Error:    errMsg,
	}
	if err := m.history.RecordDownload(rec); err != nil {
		m.logger.Warn("failed to record download attempt", zap.Error(err))
	}
}
