// Package uploads drives videos and clips through their upload state
// machines, calling the external uploaders and persisting outcomes.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"clipvault/internal/catalog"
	"clipvault/internal/logging"
	"clipvault/internal/services"
	"clipvault/internal/services/keep2share"
	"clipvault/internal/services/telegram"
)

// ErrNotEligible indicates the asset is not in a claimable state, usually
// because another invocation already owns it.
var ErrNotEligible = errors.New("uploads: asset not eligible for upload")

// Orchestrator owns upload state transitions. Claiming an asset is an atomic
// check-then-set in the catalog, so concurrent invocations on the same id
// resolve to exactly one winner.
type Orchestrator struct {
	store        *catalog.Store
	videoStorage keep2share.Client
	clipChannel  telegram.Client
	logger       *slog.Logger
}

// New builds an orchestrator over the given store and uploader clients.
func New(store *catalog.Store, videoStorage keep2share.Client, clipChannel telegram.Client, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store:        store,
		videoStorage: videoStorage,
		clipChannel:  clipChannel,
		logger:       logging.NewComponentLogger(logger, "uploads"),
	}
}

// UploadVideo claims a pending or failed video, uploads it to remote storage
// and records the outcome. The failed transition is written even when the
// uploader panics, so no asset is left stuck in an in-flight state by this
// process.
func (o *Orchestrator) UploadVideo(ctx context.Context, id uint64) (*catalog.Video, error) {
	ctx = services.WithVideoID(ctx, id)
	logger := logging.WithContext(ctx, o.logger)

	video, err := o.store.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, services.Wrap(services.ErrNotFound, "uploads", "upload_video",
			fmt.Sprintf("video %d is not tracked", id), nil)
	}

	won, err := o.store.ClaimVideoUpload(ctx, id)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, fmt.Errorf("%w: video %d is %s", ErrNotEligible, id, video.UploadStatus)
	}

	if _, err := o.store.MarkVideoUploading(ctx, id); err != nil {
		return nil, err
	}
	logger.Info("uploading video", "path", video.Path)

	defer func() {
		if r := recover(); r != nil {
			_, _ = o.store.FailVideoUpload(ctx, id, fmt.Sprintf("upload panic: %v", r))
			panic(r)
		}
	}()

	link, uploadErr := o.videoStorage.Upload(ctx, video.Path)
	if uploadErr != nil {
		if _, failErr := o.store.FailVideoUpload(ctx, id, uploadErr.Error()); failErr != nil {
			logger.Error("record upload failure", "error", failErr)
		}
		logger.Warn("video upload failed", "error", uploadErr)
		return nil, services.Wrap(services.ErrExternalTool, "uploads", "upload_video",
			fmt.Sprintf("upload video %d", id), uploadErr)
	}

	if _, err := o.store.CompleteVideoUpload(ctx, id, link); err != nil {
		return nil, err
	}
	logger.Info("video uploaded", "link", link)
	return o.store.GetVideo(ctx, id)
}

// UploadClip claims a pending or failed clip, sends it to the distribution
// channel with the parent video's remote link as caption, and records the
// outcome. Clips have no uploading state; queued resolves straight to a
// terminal status.
func (o *Orchestrator) UploadClip(ctx context.Context, id int64) (*catalog.Clip, error) {
	ctx = services.WithClipID(ctx, id)
	logger := logging.WithContext(ctx, o.logger)

	clip, err := o.store.GetClip(ctx, id)
	if err != nil {
		return nil, err
	}
	if clip == nil {
		return nil, services.Wrap(services.ErrNotFound, "uploads", "upload_clip",
			fmt.Sprintf("clip %d is not tracked", id), nil)
	}

	won, err := o.store.ClaimClipUpload(ctx, id)
	if err != nil {
		return nil, err
	}
	if !won {
		return nil, fmt.Errorf("%w: clip %d is %s", ErrNotEligible, id, clip.DistributionStatus)
	}
	logger.Info("uploading clip", "path", clip.Path)

	defer func() {
		if r := recover(); r != nil {
			_, _ = o.store.FailClipUpload(ctx, id, fmt.Sprintf("upload panic: %v", r))
			panic(r)
		}
	}()

	link, sendErr := o.clipChannel.SendVideo(ctx, clip.Path, o.clipCaption(ctx, clip))
	if sendErr != nil {
		if _, failErr := o.store.FailClipUpload(ctx, id, sendErr.Error()); failErr != nil {
			logger.Error("record upload failure", "error", failErr)
		}
		logger.Warn("clip upload failed", "error", sendErr)
		return nil, services.Wrap(services.ErrExternalTool, "uploads", "upload_clip",
			fmt.Sprintf("upload clip %d", id), sendErr)
	}

	if _, err := o.store.CompleteClipUpload(ctx, id, link); err != nil {
		return nil, err
	}
	logger.Info("clip uploaded", "link", link)
	return o.store.GetClip(ctx, id)
}

func (o *Orchestrator) clipCaption(ctx context.Context, clip *catalog.Clip) string {
	parent, err := o.store.GetVideo(ctx, clip.VideoID)
	if err == nil && parent != nil && parent.RemoteLink != "" {
		return "🎬 " + parent.RemoteLink
	}
	return "🎬 " + clip.Filename
}
