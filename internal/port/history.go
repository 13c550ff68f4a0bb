package port

import "time"

// Download attempt outcomes recorded in history.
const (
	OutcomeSuccess  = "success"
	OutcomeFailed   = "failed"
	OutcomeCanceled = "canceled"
)

// DownloadRecord is one logged download attempt.
type DownloadRecord struct {
	ID        int64
	Size      string
	Outcome   string
	Bytes     int64
	Duration  time.Duration
	Error     string
	CreatedAt time.Time
}

// History records download attempts for later inspection. It is purely
// observational: the artifacts on disk remain the only persisted cache state,
// and writes here must never affect a download's result.
type History interface {
	// RecordDownload inserts an attempt and fills in its ID and CreatedAt.
	RecordDownload(rec *DownloadRecord) error

	// RecentDownloads returns up to limit attempts, newest first.
	RecentDownloads(limit int) ([]*DownloadRecord, error)
}
