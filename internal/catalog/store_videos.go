package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UpsertVideo tracks a file under its derived identifier. The call is
// idempotent: if the identifier is already tracked with the same filename and
// path the existing row is returned untouched. A row with the same identifier
// but a different filename or path is a genuine conflict and fails with
// ErrDuplicateIdentity.
func (s *Store) UpsertVideo(ctx context.Context, id uint64, filename, path string) (*Video, error) {
	existing, err := s.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Filename != filename || existing.Path != path {
			return nil, fmt.Errorf("%w: id %d already tracked as %s (%s), refusing %s (%s)",
				ErrDuplicateIdentity, id, existing.Filename, existing.Path, filename, path)
		}
		return existing, nil
	}

	timestamp := nowTimestamp()
	_, err = s.execWithRetry(
		ctx,
		`INSERT INTO videos (id, filename, path, status, upload_status, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		videoKey(id),
		filename,
		path,
		VideoStatusNew,
		UploadStatusPending,
		timestamp,
		timestamp,
	)
	if err != nil {
		if isConstraintViolation(err) {
			// Lost an insert race; re-read and compare.
			raced, getErr := s.GetVideo(ctx, id)
			if getErr != nil {
				return nil, getErr
			}
			if raced != nil {
				if raced.Filename != filename || raced.Path != path {
					return nil, fmt.Errorf("%w: id %d already tracked as %s (%s), refusing %s (%s)",
						ErrDuplicateIdentity, id, raced.Filename, raced.Path, filename, path)
				}
				return raced, nil
			}
		}
		return nil, fmt.Errorf("insert video: %w", err)
	}

	return s.GetVideo(ctx, id)
}

// GetVideo fetches a video by identifier. Absent rows return (nil, nil).
func (s *Store) GetVideo(ctx context.Context, id uint64) (*Video, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+videoColumns+` FROM videos WHERE id = ?`, videoKey(id))
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return video, nil
}

// FindVideoByPath returns the first video matching an exact path.
func (s *Store) FindVideoByPath(ctx context.Context, path string) (*Video, error) {
	row := s.db.QueryRowContext(ensureContext(ctx),
		`SELECT `+videoColumns+` FROM videos WHERE path = ? LIMIT 1`, path)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find video by path: %w", err)
	}
	return video, nil
}

// ListVideos returns all videos ordered by creation time.
func (s *Store) ListVideos(ctx context.Context) ([]*Video, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		`SELECT `+videoColumns+` FROM videos ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()
	return collectVideos(rows)
}

// VideosByUploadStatus returns videos whose upload status is in the given set.
func (s *Store) VideosByUploadStatus(ctx context.Context, statuses ...UploadStatus) ([]*Video, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(statuses))
	for _, status := range statuses {
		args = append(args, status)
	}
	query := `SELECT ` + videoColumns + ` FROM videos WHERE upload_status IN (` +
		makePlaceholders(len(statuses)) + `) ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("videos by upload status: %w", err)
	}
	defer rows.Close()
	return collectVideos(rows)
}

func collectVideos(rows *sql.Rows) ([]*Video, error) {
	var videos []*Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}
	return videos, nil
}
