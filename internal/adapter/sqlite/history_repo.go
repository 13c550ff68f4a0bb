package sqlite

import (
	"time"

	"github.com/fluentvoice/modelcache/internal/port"
)

// RecordDownload inserts a download attempt
func (s *Store) RecordDownload(rec *port.DownloadRecord) error {
	query := `
		INSERT INTO downloads (size, outcome, bytes, duration_ms, error)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		rec.Size, rec.Outcome, rec.Bytes, rec.Duration.Milliseconds(), rec.Error)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	rec.ID = id
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	return nil
}

// RecentDownloads returns up to limit attempts, newest first
func (s *Store) RecentDownloads(limit int) ([]*port.DownloadRecord, error) {
	query := `
		SELECT id, size, outcome, bytes, duration_ms, error, created_at
		FROM downloads
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*port.DownloadRecord
	for rows.Next() {
		rec := &port.DownloadRecord{}
		var durationMs int64

		if err := rows.Scan(&rec.ID, &rec.Size, &rec.Outcome, &rec.Bytes,
			&durationMs, &rec.Error, &rec.CreatedAt); err != nil {
			return nil, err
		}

		rec.Duration = time.Duration(durationMs) * time.Millisecond
		records = append(records, rec)
	}

	return records, rows.Err()
}
