package catalog

import (
	"strings"
	"time"
)

// VideoStatus tracks local handling of a source file, independent of uploads.
type VideoStatus string

const (
	VideoStatusNew       VideoStatus = "new"
	VideoStatusProcessed VideoStatus = "processed"
	VideoStatusArchived  VideoStatus = "archived"
)

// UploadStatus is the remote-storage upload state of a video.
type UploadStatus string

const (
	UploadStatusPending   UploadStatus = "pending"
	UploadStatusQueued    UploadStatus = "queued"
	UploadStatusUploading UploadStatus = "uploading"
	UploadStatusUploaded  UploadStatus = "uploaded"
	UploadStatusFailed    UploadStatus = "failed"
	UploadStatusExpired   UploadStatus = "expired"
)

// DistributionStatus is the messaging-channel upload state of a clip. Clips
// have no in-flight state: the send call is short enough that queued moves
// straight to a terminal status.
type DistributionStatus string

const (
	DistributionStatusPending  DistributionStatus = "pending"
	DistributionStatusQueued   DistributionStatus = "queued"
	DistributionStatusUploaded DistributionStatus = "uploaded"
	DistributionStatusFailed   DistributionStatus = "failed"
)

var allVideoStatuses = []VideoStatus{
	VideoStatusNew,
	VideoStatusProcessed,
	VideoStatusArchived,
}

var allUploadStatuses = []UploadStatus{
	UploadStatusPending,
	UploadStatusQueued,
	UploadStatusUploading,
	UploadStatusUploaded,
	UploadStatusFailed,
	UploadStatusExpired,
}

var allDistributionStatuses = []DistributionStatus{
	DistributionStatusPending,
	DistributionStatusQueued,
	DistributionStatusUploaded,
	DistributionStatusFailed,
}

// Video is a catalog row for a source file. The identifier is derived from
// the file's basename and size, never assigned by the database.
type Video struct {
	ID           uint64
	Filename     string
	Path         string
	Status       VideoStatus
	UploadStatus UploadStatus
	RemoteLink   string
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Clip is a catalog row for a derived sub-range of a video. Identifiers are
// store-assigned since clips are never re-derived from bytes.
type Clip struct {
	ID                 int64
	VideoID            uint64
	Filename           string
	Path               string
	StartTime          float64
	EndTime            float64
	DistributionStatus DistributionStatus
	DistributionLink   string
	ErrorMessage       string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	return c.EndTime - c.StartTime
}

// AllUploadStatuses returns the ordered list of known upload statuses.
func AllUploadStatuses() []UploadStatus {
	cp := make([]UploadStatus, len(allUploadStatuses))
	copy(cp, allUploadStatuses)
	return cp
}

// AllDistributionStatuses returns the ordered list of known distribution statuses.
func AllDistributionStatuses() []DistributionStatus {
	cp := make([]DistributionStatus, len(allDistributionStatuses))
	copy(cp, allDistributionStatuses)
	return cp
}

// ParseVideoStatus converts a string into a known VideoStatus.
func ParseVideoStatus(value string) (VideoStatus, bool) {
	normalized := VideoStatus(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allVideoStatuses {
		if status == normalized {
			return status, true
		}
	}
	return "", false
}

// ParseUploadStatus converts a string into a known UploadStatus.
func ParseUploadStatus(value string) (UploadStatus, bool) {
	normalized := UploadStatus(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allUploadStatuses {
		if status == normalized {
			return status, true
		}
	}
	return "", false
}

// ParseDistributionStatus converts a string into a known DistributionStatus.
func ParseDistributionStatus(value string) (DistributionStatus, bool) {
	normalized := DistributionStatus(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range allDistributionStatuses {
		if status == normalized {
			return status, true
		}
	}
	return "", false
}

// IsTerminal reports whether no further orchestrator transition applies.
func (s UploadStatus) IsTerminal() bool {
	return s == UploadStatusUploaded || s == UploadStatusExpired
}

// IsInFlight reports whether the status reflects an upload in progress.
func (s UploadStatus) IsInFlight() bool {
	return s == UploadStatusQueued || s == UploadStatusUploading
}

// IsInFlight reports whether the status reflects a send in progress.
func (s DistributionStatus) IsInFlight() bool {
	return s == DistributionStatusQueued
}

// Stats aggregates catalog counts for presentation.
type Stats struct {
	TotalVideos         int
	TotalClips          int
	VideosByUpload      map[UploadStatus]int
	ClipsByDistribution map[DistributionStatus]int
}
