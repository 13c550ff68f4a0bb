package manager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fluentvoice/modelcache/internal/catalog"
	"github.com/fluentvoice/modelcache/internal/port"
	"github.com/fluentvoice/modelcache/internal/progress"
	"github.com/fluentvoice/modelcache/internal/util/ratelimiter"
	"go.uber.org/zap"
)

// Download fetches the artifact for size and installs it in the cache.
//
// Recoverable failures (network error, non-success status, integrity
// failure) return (false, nil) after a final progress.Failed event so the
// caller can retry. A fired context returns (false, ctx error) with no
// failure event: cancellation is not a failed download. On success the
// installed-artifact state points at the new file and the last emitted
// event is a 100% completion.
func (m *Manager) Download(ctx context.Context, size catalog.Size, onProgress progress.Callback) (bool, error) {
	if onProgress == nil {
		onProgress = func(progress.Event) {}
	}

	info := catalog.MustInfo(size)
	start := time.Now()

	downloaded, err := m.fetch(ctx, size, info, onProgress)
	if err == nil {
		m.recordAttempt(size, port.OutcomeSuccess, downloaded, time.Since(start), "")
		return true, nil
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		m.logger.Info("download canceled",
			zap.String("size", size.String()),
			zap.Int64("bytes", downloaded))
		m.recordAttempt(size, port.OutcomeCanceled, downloaded, time.Since(start), err.Error())
		return false, err
	}

	m.logger.Warn("download failed",
		zap.String("size", size.String()),
		zap.Int64("bytes", downloaded),
		zap.Error(err))
	m.recordAttempt(size, port.OutcomeFailed, downloaded, time.Since(start), err.Error())
	onProgress(progress.Failed(fmt.Sprintf("Download of %s model failed: %v", size, err)))
	return false, nil
}

// fetch runs one download attempt. It returns the bytes received and an
// error describing why the attempt did not produce an installed artifact;
// context errors pass through unwrapped enough for errors.Is.
func (m *Manager) fetch(ctx context.Context, size catalog.Size, info catalog.Info, onProgress progress.Callback) (int64, error) {
	if err := m.fs.EnsureRoot(); err != nil {
		return 0, err
	}

	finalPath := m.fs.ArtifactPath(info.FileName)
	tempPath := m.fs.TempPath(info.FileName)

	// A stale temp file from an abandoned attempt may still be around.
	// Failure to delete is ignored; the create below fails loudly instead.
	_ = m.fs.RemoveIfExists(tempPath)

	message := fmt.Sprintf("Downloading %s model", size)
	onProgress(progress.Started(message, 0))

	url := m.downloadURL(info)
	m.logger.Info("starting download",
		zap.String("size", size.String()),
		zap.String("url", url),
		zap.Int64("approx_bytes", info.ApproxBytes))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("building request: %w", err)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, fmt.Errorf("server returned %s", resp.Status)
	}

	totalBytes := resp.ContentLength
	if totalBytes <= 0 {
		totalBytes = info.ApproxBytes
	}

	reader := &progressReader{
		reader:     resp.Body,
		ctx:        ctx,
		limiter:    ratelimiter.New(m.config.ProgressInterval),
		onProgress: onProgress,
		message:    message,
		total:      totalBytes,
	}

	written, err := m.fs.WriteFile(tempPath, reader)
	if err != nil {
		_ = m.fs.RemoveIfExists(tempPath)
		return written, fmt.Errorf("streaming artifact: %w", err)
	}

	// Integrity check: a truncated transfer must never become the active
	// artifact. Same half-size threshold the prober applies.
	actual, err := m.fs.FileSize(tempPath)
	if err != nil {
		_ = m.fs.RemoveIfExists(tempPath)
		return written, fmt.Errorf("verifying artifact: %w", err)
	}
	if actual < totalBytes/2 {
		_ = m.fs.RemoveIfExists(tempPath)
		return written, fmt.Errorf("artifact truncated (%d of ~%d bytes)", actual, totalBytes)
	}

	if err := m.fs.Promote(tempPath, finalPath); err != nil {
		_ = m.fs.RemoveIfExists(tempPath)
		return written, fmt.Errorf("installing artifact: %w", err)
	}

	m.state.Set(finalPath, size)

	m.logger.Info("download complete",
		zap.String("size", size.String()),
		zap.String("path", finalPath),
		zap.Int64("bytes", written))
	onProgress(progress.Completed(fmt.Sprintf("Downloaded %s model", size), totalBytes))
	return written, nil
}

// progressReader wraps a response body, checking for cancellation before
// every chunk and emitting throttled progress events as bytes arrive.
type progressReader struct {
	reader     io.Reader
	ctx        context.Context
	limiter    *ratelimiter.Limiter
	onProgress progress.Callback
	message    string
	total      int64
	downloaded int64
}

func (r *progressReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}

	n, err := r.reader.Read(p)
	r.downloaded += int64(n)

	if n > 0 {
		if allowed, _ := r.limiter.Allow(); allowed {
			r.onProgress(progress.Update(r.message, r.downloaded, r.total))
		}
	}

	return n, err
}
