package catalog

import (
	"context"
	"fmt"
	"time"
)

const staleUploadMessage = "Reclaimed from stale upload"

// ReclaimStaleUploads fails videos and clips stuck in an in-flight state past
// the cutoff, typically after a crash mid-upload. Returns the number of rows
// moved to failed.
func (s *Store) ReclaimStaleUploads(ctx context.Context, cutoff time.Time) (int64, error) {
	cutoffRaw := cutoff.UTC().Format(timestampLayout)

	videoRes, err := s.execWithRetry(
		ctx,
		`UPDATE videos SET upload_status = ?, error_message = ?, updated_at = ?
        WHERE upload_status IN (?, ?) AND updated_at < ?`,
		UploadStatusFailed,
		staleUploadMessage,
		nowTimestamp(),
		UploadStatusQueued,
		UploadStatusUploading,
		cutoffRaw,
	)
	if err != nil {
		return 0, fmt.Errorf("reclaim stale video uploads: %w", err)
	}
	videoCount, err := videoRes.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reclaim stale video uploads rows: %w", err)
	}

	clipRes, err := s.execWithRetry(
		ctx,
		`UPDATE clips SET distribution_status = ?, error_message = ?, updated_at = ?
        WHERE distribution_status = ? AND updated_at < ?`,
		DistributionStatusFailed,
		staleUploadMessage,
		nowTimestamp(),
		DistributionStatusQueued,
		cutoffRaw,
	)
	if err != nil {
		return 0, fmt.Errorf("reclaim stale clip uploads: %w", err)
	}
	clipCount, err := clipRes.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reclaim stale clip uploads rows: %w", err)
	}

	return videoCount + clipCount, nil
}

// Stats aggregates per-status counts for both tables.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	ctx = ensureContext(ctx)
	stats := &Stats{
		VideosByUpload:      make(map[UploadStatus]int),
		ClipsByDistribution: make(map[DistributionStatus]int),
	}

	rows, err := s.db.QueryContext(ctx, `SELECT upload_status, COUNT(1) FROM videos GROUP BY upload_status`)
	if err != nil {
		return nil, fmt.Errorf("video stats: %w", err)
	}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan video stats: %w", err)
		}
		stats.VideosByUpload[UploadStatus(status)] = count
		stats.TotalVideos += count
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate video stats: %w", err)
	}
	rows.Close()

	rows, err = s.db.QueryContext(ctx, `SELECT distribution_status, COUNT(1) FROM clips GROUP BY distribution_status`)
	if err != nil {
		return nil, fmt.Errorf("clip stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan clip stats: %w", err)
		}
		stats.ClipsByDistribution[DistributionStatus(status)] = count
		stats.TotalClips += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clip stats: %w", err)
	}

	return stats, nil
}
