package catalog

import (
	"context"
	"fmt"
)

// Every transition below is a single UPDATE whose WHERE clause names the
// eligible source states. RowsAffected decides whether this caller won the
// transition; a false return means another caller moved the row first.

// ClaimVideoUpload moves a pending or failed video to queued.
func (s *Store) ClaimVideoUpload(ctx context.Context, id uint64) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE videos SET upload_status = ?, error_message = NULL, updated_at = ?
        WHERE id = ? AND upload_status IN (?, ?)`,
		UploadStatusQueued,
		nowTimestamp(),
		videoKey(id),
		UploadStatusPending,
		UploadStatusFailed,
	)
	if err != nil {
		return false, fmt.Errorf("claim video upload: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim video upload rows: %w", err)
	}
	return affected == 1, nil
}

// MarkVideoUploading moves a queued video to uploading as the transfer starts.
func (s *Store) MarkVideoUploading(ctx context.Context, id uint64) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE videos SET upload_status = ?, updated_at = ?
        WHERE id = ? AND upload_status = ?`,
		UploadStatusUploading,
		nowTimestamp(),
		videoKey(id),
		UploadStatusQueued,
	)
	if err != nil {
		return false, fmt.Errorf("mark video uploading: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark video uploading rows: %w", err)
	}
	return affected == 1, nil
}

// CompleteVideoUpload records a successful upload and its remote link.
func (s *Store) CompleteVideoUpload(ctx context.Context, id uint64, link string) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE videos SET upload_status = ?, remote_link = ?, error_message = NULL, updated_at = ?
        WHERE id = ? AND upload_status IN (?, ?)`,
		UploadStatusUploaded,
		nullableString(link),
		nowTimestamp(),
		videoKey(id),
		UploadStatusQueued,
		UploadStatusUploading,
	)
	if err != nil {
		return false, fmt.Errorf("complete video upload: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("complete video upload rows: %w", err)
	}
	return affected == 1, nil
}

// FailVideoUpload records an upload failure. A remote link from an earlier
// successful upload is retained; only an expiry clears it.
func (s *Store) FailVideoUpload(ctx context.Context, id uint64, message string) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE videos SET upload_status = ?, error_message = ?, updated_at = ?
        WHERE id = ? AND upload_status IN (?, ?)`,
		UploadStatusFailed,
		nullableString(message),
		nowTimestamp(),
		videoKey(id),
		UploadStatusQueued,
		UploadStatusUploading,
	)
	if err != nil {
		return false, fmt.Errorf("fail video upload: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("fail video upload rows: %w", err)
	}
	return affected == 1, nil
}

// RetryVideoUpload moves a failed video back to pending so the next sweep
// picks it up.
func (s *Store) RetryVideoUpload(ctx context.Context, id uint64) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE videos SET upload_status = ?, error_message = NULL, updated_at = ?
        WHERE id = ? AND upload_status = ?`,
		UploadStatusPending,
		nowTimestamp(),
		videoKey(id),
		UploadStatusFailed,
	)
	if err != nil {
		return false, fmt.Errorf("retry video upload: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("retry video upload rows: %w", err)
	}
	return affected == 1, nil
}

// ExpireVideo marks an uploaded video's remote link as lapsed. Expiry comes
// from an external signal, never from the orchestrator itself.
func (s *Store) ExpireVideo(ctx context.Context, id uint64) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE videos SET upload_status = ?, remote_link = NULL, updated_at = ?
        WHERE id = ? AND upload_status = ?`,
		UploadStatusExpired,
		nowTimestamp(),
		videoKey(id),
		UploadStatusUploaded,
	)
	if err != nil {
		return false, fmt.Errorf("expire video: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("expire video rows: %w", err)
	}
	return affected == 1, nil
}

// SetVideoStatus updates the local lifecycle state of a video.
func (s *Store) SetVideoStatus(ctx context.Context, id uint64, status VideoStatus) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE videos SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		nowTimestamp(),
		videoKey(id),
	)
	if err != nil {
		return false, fmt.Errorf("set video status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set video status rows: %w", err)
	}
	return affected == 1, nil
}

// ClaimClipUpload moves a pending or failed clip to queued.
func (s *Store) ClaimClipUpload(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE clips SET distribution_status = ?, error_message = NULL, updated_at = ?
        WHERE id = ? AND distribution_status IN (?, ?)`,
		DistributionStatusQueued,
		nowTimestamp(),
		id,
		DistributionStatusPending,
		DistributionStatusFailed,
	)
	if err != nil {
		return false, fmt.Errorf("claim clip upload: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim clip upload rows: %w", err)
	}
	return affected == 1, nil
}

// CompleteClipUpload records a successful distribution send and its link.
func (s *Store) CompleteClipUpload(ctx context.Context, id int64, link string) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE clips SET distribution_status = ?, distribution_link = ?, error_message = NULL, updated_at = ?
        WHERE id = ? AND distribution_status = ?`,
		DistributionStatusUploaded,
		nullableString(link),
		nowTimestamp(),
		id,
		DistributionStatusQueued,
	)
	if err != nil {
		return false, fmt.Errorf("complete clip upload: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("complete clip upload rows: %w", err)
	}
	return affected == 1, nil
}

// FailClipUpload records a distribution failure.
func (s *Store) FailClipUpload(ctx context.Context, id int64, message string) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE clips SET distribution_status = ?, error_message = ?, updated_at = ?
        WHERE id = ? AND distribution_status = ?`,
		DistributionStatusFailed,
		nullableString(message),
		nowTimestamp(),
		id,
		DistributionStatusQueued,
	)
	if err != nil {
		return false, fmt.Errorf("fail clip upload: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("fail clip upload rows: %w", err)
	}
	return affected == 1, nil
}

// RetryClipUpload moves a failed clip back to pending.
func (s *Store) RetryClipUpload(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE clips SET distribution_status = ?, error_message = NULL, updated_at = ?
        WHERE id = ? AND distribution_status = ?`,
		DistributionStatusPending,
		nowTimestamp(),
		id,
		DistributionStatusFailed,
	)
	if err != nil {
		return false, fmt.Errorf("retry clip upload: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("retry clip upload rows: %w", err)
	}
	return affected == 1, nil
}
