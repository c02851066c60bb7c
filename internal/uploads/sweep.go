package uploads

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"clipvault/internal/catalog"
	"clipvault/internal/logging"
	"clipvault/internal/services"
)

// ItemError records one asset that failed during a sweep.
type ItemError struct {
	Kind    string
	ID      string
	Message string
}

// Summary aggregates the outcome of an upload sweep.
type Summary struct {
	Attempted int
	Succeeded int
	Failed    int
	Skipped   int
	Errors    []ItemError
}

// ProgressFunc is invoked after each asset with completed and total counts.
type ProgressFunc func(completed, total int)

// UploadAllPending uploads every video and clip in a pending or failed state,
// sequentially. One asset's failure never blocks the others. Assets claimed
// by a concurrent invocation mid-sweep are counted as skipped.
func (o *Orchestrator) UploadAllPending(ctx context.Context, progress ProgressFunc) (*Summary, error) {
	ctx = services.WithCorrelationID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, o.logger)

	videos, err := o.store.VideosByUploadStatus(ctx, catalog.UploadStatusPending, catalog.UploadStatusFailed)
	if err != nil {
		return nil, err
	}
	clips, err := o.store.ClipsByDistributionStatus(ctx, catalog.DistributionStatusPending, catalog.DistributionStatusFailed)
	if err != nil {
		return nil, err
	}

	total := len(videos) + len(clips)
	logger.Info("upload sweep started", "videos", len(videos), "clips", len(clips))

	summary := &Summary{}
	completed := 0
	report := func() {
		completed++
		if progress != nil {
			progress(completed, total)
		}
	}

	for _, video := range videos {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Attempted++
		if _, err := o.UploadVideo(ctx, video.ID); err != nil {
			if errors.Is(err, ErrNotEligible) {
				summary.Attempted--
				summary.Skipped++
			} else {
				summary.Failed++
				summary.Errors = append(summary.Errors, ItemError{
					Kind:    "video",
					ID:      strconv.FormatUint(video.ID, 10),
					Message: err.Error(),
				})
			}
		} else {
			summary.Succeeded++
		}
		report()
	}

	for _, clip := range clips {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Attempted++
		if _, err := o.UploadClip(ctx, clip.ID); err != nil {
			if errors.Is(err, ErrNotEligible) {
				summary.Attempted--
				summary.Skipped++
			} else {
				summary.Failed++
				summary.Errors = append(summary.Errors, ItemError{
					Kind:    "clip",
					ID:      strconv.FormatInt(clip.ID, 10),
					Message: err.Error(),
				})
			}
		} else {
			summary.Succeeded++
		}
		report()
	}

	logger.Info("upload sweep finished",
		"attempted", summary.Attempted,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"skipped", summary.Skipped)
	return summary, nil
}

// ReclaimStale fails assets stuck in an in-flight state longer than maxAge.
func (o *Orchestrator) ReclaimStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	if maxAge <= 0 {
		return 0, fmt.Errorf("stale upload age %v must be positive", maxAge)
	}
	cutoff := time.Now().UTC().Add(-maxAge)
	reclaimed, err := o.store.ReclaimStaleUploads(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if reclaimed > 0 {
		o.logger.Warn("reclaimed stale uploads", "count", reclaimed, "max_age", maxAge)
	}
	return reclaimed, nil
}
