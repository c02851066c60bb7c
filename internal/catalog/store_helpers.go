package catalog

import (
	"database/sql"
	"errors"
	"time"
)

const videoColumns = "id, filename, path, status, upload_status, remote_link, error_message, created_at, updated_at"

const clipColumns = "id, video_id, filename, path, start_time, end_time, distribution_status, distribution_link, error_message, created_at, updated_at"

// Identifiers can exceed the int64 range, so they are stored as their
// two's-complement int64 image and converted back losslessly on read.
func videoKey(id uint64) int64 {
	return int64(id)
}

func videoIDFromKey(key int64) uint64 {
	return uint64(key)
}

func scanVideo(scanner interface{ Scan(dest ...any) error }) (*Video, error) {
	var (
		key          int64
		filename     string
		path         string
		statusStr    string
		uploadStr    string
		remoteLink   sql.NullString
		errorMessage sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&key,
		&filename,
		&path,
		&statusStr,
		&uploadStr,
		&remoteLink,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	video := &Video{
		ID:           videoIDFromKey(key),
		Filename:     filename,
		Path:         path,
		Status:       VideoStatus(statusStr),
		UploadStatus: UploadStatus(uploadStr),
		RemoteLink:   remoteLink.String,
		ErrorMessage: errorMessage.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		video.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		video.UpdatedAt = updated
	}
	return video, nil
}

func scanClip(scanner interface{ Scan(dest ...any) error }) (*Clip, error) {
	var (
		id           int64
		videoKeyRaw  int64
		filename     string
		path         string
		startTime    float64
		endTime      float64
		statusStr    string
		link         sql.NullString
		errorMessage sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&videoKeyRaw,
		&filename,
		&path,
		&startTime,
		&endTime,
		&statusStr,
		&link,
		&errorMessage,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	clip := &Clip{
		ID:                 id,
		VideoID:            videoIDFromKey(videoKeyRaw),
		Filename:           filename,
		Path:               path,
		StartTime:          startTime,
		EndTime:            endTime,
		DistributionStatus: DistributionStatus(statusStr),
		DistributionLink:   link.String,
		ErrorMessage:       errorMessage.String,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		clip.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		clip.UpdatedAt = updated
	}
	return clip, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

// timestampLayout keeps a fixed-width fraction so stored timestamps compare
// lexically in SQL. RFC3339Nano trims trailing zeros, which mis-orders values
// within the same second; this layout still parses as RFC3339Nano.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

func nowTimestamp() string {
	return time.Now().UTC().Format(timestampLayout)
}
