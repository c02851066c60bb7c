package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// AddClip registers a derived clip under its parent video. The parent must
// already be tracked; this operation never creates videos implicitly.
func (s *Store) AddClip(ctx context.Context, videoID uint64, filename, path string, startTime, endTime float64) (*Clip, error) {
	parent, err := s.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		return nil, fmt.Errorf("%w: video %d", ErrParentNotFound, videoID)
	}

	timestamp := nowTimestamp()
	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO clips (video_id, filename, path, start_time, end_time, distribution_status, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		videoKey(videoID),
		filename,
		path,
		startTime,
		endTime,
		DistributionStatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("%w: video %d already has clip %s", ErrDuplicateClip, videoID, filename)
		}
		return nil, fmt.Errorf("insert clip: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetClip(ctx, id)
}

// GetClip fetches a clip by identifier. Absent rows return (nil, nil).
func (s *Store) GetClip(ctx context.Context, id int64) (*Clip, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+clipColumns+` FROM clips WHERE id = ?`, id)
	clip, err := scanClip(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get clip: %w", err)
	}
	return clip, nil
}

// ListClips returns all clips ordered by creation time.
func (s *Store) ListClips(ctx context.Context) ([]*Clip, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+clipColumns+` FROM clips ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list clips: %w", err)
	}
	defer rows.Close()
	return collectClips(rows)
}

// ClipsByVideo returns all clips derived from a video.
func (s *Store) ClipsByVideo(ctx context.Context, videoID uint64) ([]*Clip, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+clipColumns+` FROM clips WHERE video_id = ? ORDER BY created_at, id`, videoKey(videoID))
	if err != nil {
		return nil, fmt.Errorf("clips by video: %w", err)
	}
	defer rows.Close()
	return collectClips(rows)
}

// ClipsByDistributionStatus returns clips whose distribution status is in the given set.
func (s *Store) ClipsByDistributionStatus(ctx context.Context, statuses ...DistributionStatus) ([]*Clip, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(statuses))
	for _, status := range statuses {
		args = append(args, status)
	}
	query := `SELECT ` + clipColumns + ` FROM clips WHERE distribution_status IN (` +
		makePlaceholders(len(statuses)) + `) ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("clips by distribution status: %w", err)
	}
	defer rows.Close()
	return collectClips(rows)
}

// ClipFilenamesByVideo returns the registered clip filenames for a video.
// Used by the clip deriver as part of collision avoidance.
func (s *Store) ClipFilenamesByVideo(ctx context.Context, videoID uint64) ([]string, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT filename FROM clips WHERE video_id = ?`, videoKey(videoID))
	if err != nil {
		return nil, fmt.Errorf("clip filenames by video: %w", err)
	}
	defer rows.Close()

	var filenames []string
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			return nil, fmt.Errorf("scan clip filename: %w", err)
		}
		filenames = append(filenames, filename)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clip filenames: %w", err)
	}
	return filenames, nil
}

func collectClips(rows *sql.Rows) ([]*Clip, error) {
	var clips []*Clip
	for rows.Next() {
		clip, err := scanClip(rows)
		if err != nil {
			return nil, fmt.Errorf("scan clip: %w", err)
		}
		clips = append(clips, clip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clips: %w", err)
	}
	return clips, nil
}
