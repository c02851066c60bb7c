// Package clips derives new media files covering a sub-range of a parent
// video and registers them in the catalog.
package clips

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"clipvault/internal/catalog"
	"clipvault/internal/logging"
	"clipvault/internal/services/ffmpeg"
	"clipvault/internal/timecode"
)

var (
	// ErrInvalidRange indicates the start offset is not before the end offset.
	ErrInvalidRange = errors.New("clips: start time must be before end time")

	// ErrSourceUnavailable indicates the parent video's file is missing on disk.
	ErrSourceUnavailable = errors.New("clips: source file unavailable")
)

// Deriver cuts clips out of tracked videos.
type Deriver struct {
	store      *catalog.Store
	transcoder ffmpeg.Client
	clipsDir   string
	logger     *slog.Logger
}

// New builds a clip deriver writing output files into clipsDir.
func New(store *catalog.Store, transcoder ffmpeg.Client, clipsDir string, logger *slog.Logger) *Deriver {
	return &Deriver{
		store:      store,
		transcoder: transcoder,
		clipsDir:   clipsDir,
		logger:     logging.NewComponentLogger(logger, "clips"),
	}
}

// Derive validates the requested range against the parent video, produces a
// new clip file via the transcoder, and registers the clip. The parent must
// already be tracked; reconcile first for untracked files.
//
// Re-deriving the same range yields a new clip under a disambiguated name.
// If the catalog insert fails after a successful transcode the derived file
// stays on disk rather than being rolled back.
func (d *Deriver) Derive(ctx context.Context, videoID uint64, startText, endText string) (*catalog.Clip, error) {
	start, err := timecode.Parse(startText)
	if err != nil {
		return nil, err
	}
	end, err := timecode.Parse(endText)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, fmt.Errorf("%w: %s >= %s", ErrInvalidRange, startText, endText)
	}

	video, err := d.store.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if video == nil {
		return nil, fmt.Errorf("%w: video %d", catalog.ErrParentNotFound, videoID)
	}

	if err := checkSourceReadable(video.Path); err != nil {
		return nil, err
	}

	filename, err := d.uniqueClipName(ctx, video)
	if err != nil {
		return nil, err
	}
	outputPath := filepath.Join(d.clipsDir, filename)

	if err := os.MkdirAll(d.clipsDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure clips directory: %w", err)
	}

	d.logger.Info("deriving clip",
		logging.FieldVideoID, video.ID,
		"source", video.Path,
		"output", outputPath,
		"start", start,
		"duration", end-start)

	if err := d.transcoder.Extract(ctx, video.Path, start, end-start, outputPath); err != nil {
		return nil, err
	}

	clip, err := d.store.AddClip(ctx, video.ID, filename, outputPath, start, end)
	if err != nil {
		// The derived file stays behind for manual recovery.
		d.logger.Error("clip file orphaned after failed insert", "output", outputPath, "error", err)
		return nil, err
	}

	d.logger.Info("clip registered", logging.FieldClipID, clip.ID, logging.FieldVideoID, video.ID)
	return clip, nil
}

func checkSourceReadable(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, path, err)
	}
	_ = file.Close()
	return nil
}

// uniqueClipName appends _clip to the source stem, then _clip_1, _clip_2 and
// so on until the name collides with neither the clips directory nor the
// catalog. The loop is bounded by the number of existing candidates plus one.
func (d *Deriver) uniqueClipName(ctx context.Context, video *catalog.Video) (string, error) {
	registered, err := d.store.ClipFilenamesByVideo(ctx, video.ID)
	if err != nil {
		return "", err
	}
	taken := make(map[string]struct{}, len(registered))
	for _, name := range registered {
		taken[name] = struct{}{}
	}

	ext := filepath.Ext(video.Filename)
	stem := strings.TrimSuffix(video.Filename, ext)
	if stem == "" {
		stem = video.Filename
		ext = ""
	}

	for i := 0; ; i++ {
		candidate := stem + "_clip" + ext
		if i > 0 {
			candidate = fmt.Sprintf("%s_clip_%d%s", stem, i, ext)
		}
		if _, ok := taken[candidate]; ok {
			continue
		}
		if _, err := os.Stat(filepath.Join(d.clipsDir, candidate)); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("check clip name %s: %w", candidate, err)
		}
		return candidate, nil
	}
}
