package manager

import (
	"github.com/fluentvoice/modelcache/internal/catalog"
	"go.uber.org/zap"
)

// RemoveAllExcept deletes the cached artifact and any stray temp file for
// every size other than keep. Eviction is advisory disk-space reclamation:
// each deletion is best-effort and a failure on one file never stops the
// sweep, so a single locked file cannot leave other variants undeleted.
// The installed-artifact state is not touched here; only the prober and
// the downloader mutate it.
func (m *Manager) RemoveAllExcept(keep catalog.Size) {
	removed := 0

	for _, size := range catalog.Sizes() {
		if size == keep {
			continue
		}

		info := catalog.MustInfo(size)
		for _, path := range []string{m.fs.ArtifactPath(info.FileName), m.fs.TempPath(info.FileName)} {
			if !m.fs.FileExists(path) {
				continue
			}
			if err := m.fs.RemoveIfExists(path); err != nil {
				m.logger.Warn("failed to evict cached file",
					zap.String("path", path),
					zap.Error(err))
				continue
			}
			removed++
			m.logger.Debug("evicted cached file", zap.String("path", path))
		}
	}

	if removed > 0 {
		m.logger.Info("eviction completed",
			zap.String("kept", keep.String()),
			zap.Int("removed", removed))
	}
}
