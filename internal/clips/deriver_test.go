package clips_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"clipvault/internal/catalog"
	"clipvault/internal/clips"
	"clipvault/internal/logging"
	"clipvault/internal/services/ffmpeg"
	"clipvault/internal/testsupport"
	"clipvault/internal/timecode"
)

type fakeTranscoder struct {
	calls []extractCall
	fail  error
}

type extractCall struct {
	source   string
	start    float64
	duration float64
	output   string
}

func (f *fakeTranscoder) Extract(ctx context.Context, source string, start, duration float64, output string) error {
	f.calls = append(f.calls, extractCall{source: source, start: start, duration: duration, output: output})
	if f.fail != nil {
		return f.fail
	}
	return os.WriteFile(output, []byte("clip"), 0o644)
}

type fixture struct {
	deriver    *clips.Deriver
	store      *catalog.Store
	transcoder *fakeTranscoder
	videosDir  string
	clipsDir   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	transcoder := &fakeTranscoder{}
	return &fixture{
		deriver:    clips.New(store, transcoder, cfg.Paths.ClipsDir, logging.NewNop()),
		store:      store,
		transcoder: transcoder,
		videosDir:  cfg.Paths.VideosDir,
		clipsDir:   cfg.Paths.ClipsDir,
	}
}

func (f *fixture) trackVideoFile(t *testing.T, name string, size int64) *catalog.Video {
	t.Helper()
	path := filepath.Join(f.videosDir, name)
	testsupport.WriteFile(t, path, size)
	return testsupport.TrackVideo(t, f.store, name, path, size)
}

func TestDeriveHappyPath(t *testing.T) {
	f := newFixture(t)
	video := f.trackVideoFile(t, "demo.mp4", 12582912)

	clip, err := f.deriver.Derive(context.Background(), video.ID, "00:00:10", "00:00:20")
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if clip.VideoID != video.ID {
		t.Fatalf("clip parent = %d, want %d", clip.VideoID, video.ID)
	}
	if clip.StartTime != 10 || clip.EndTime != 20 {
		t.Fatalf("clip range = %v-%v, want 10-20", clip.StartTime, clip.EndTime)
	}
	if clip.Filename != "demo_clip.mp4" {
		t.Fatalf("clip filename = %q", clip.Filename)
	}
	if clip.DistributionStatus != catalog.DistributionStatusPending {
		t.Fatalf("clip status = %s", clip.DistributionStatus)
	}

	if len(f.transcoder.calls) != 1 {
		t.Fatalf("expected 1 transcoder call, got %d", len(f.transcoder.calls))
	}
	call := f.transcoder.calls[0]
	if call.source != video.Path {
		t.Fatalf("transcoder source = %q, want %q", call.source, video.Path)
	}
	if call.start != 10 || call.duration != 10 {
		t.Fatalf("transcoder offsets = %v/%v, want 10/10", call.start, call.duration)
	}
	if call.output != filepath.Join(f.clipsDir, "demo_clip.mp4") {
		t.Fatalf("transcoder output = %q", call.output)
	}
	if _, err := os.Stat(call.output); err != nil {
		t.Fatalf("expected clip file on disk: %v", err)
	}
}

func TestDeriveFractionalOffsets(t *testing.T) {
	f := newFixture(t)
	video := f.trackVideoFile(t, "demo.mp4", 12582912)

	clip, err := f.deriver.Derive(context.Background(), video.ID, "00:00:10.500", "00:00:21")
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if clip.StartTime != 10.5 || clip.EndTime != 21 {
		t.Fatalf("clip range = %v-%v, want 10.5-21", clip.StartTime, clip.EndTime)
	}
	if f.transcoder.calls[0].duration != 10.5 {
		t.Fatalf("transcoder duration = %v, want 10.5", f.transcoder.calls[0].duration)
	}
}

func TestDeriveInvalidTimecode(t *testing.T) {
	f := newFixture(t)
	video := f.trackVideoFile(t, "demo.mp4", 2048)

	_, err := f.deriver.Derive(context.Background(), video.ID, "25:00:00", "00:00:20")
	var parseErr *timecode.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *timecode.ParseError, got %v", err)
	}
	if len(f.transcoder.calls) != 0 {
		t.Fatal("transcoder must not run for invalid input")
	}
}

func TestDeriveInvalidRange(t *testing.T) {
	f := newFixture(t)
	video := f.trackVideoFile(t, "demo.mp4", 2048)

	_, err := f.deriver.Derive(context.Background(), video.ID, "00:01:00", "00:00:30")
	if !errors.Is(err, clips.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	_, err = f.deriver.Derive(context.Background(), video.ID, "00:01:00", "00:01:00")
	if !errors.Is(err, clips.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for equal offsets, got %v", err)
	}
}

func TestDeriveParentNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.deriver.Derive(context.Background(), 42000, "00:00:10", "00:00:20")
	if !errors.Is(err, catalog.ErrParentNotFound) {
		t.Fatalf("expected ErrParentNotFound, got %v", err)
	}
}

func TestDeriveSourceUnavailable(t *testing.T) {
	f := newFixture(t)
	video := f.trackVideoFile(t, "demo.mp4", 2048)
	if err := os.Remove(video.Path); err != nil {
		t.Fatal(err)
	}

	_, err := f.deriver.Derive(context.Background(), video.ID, "00:00:10", "00:00:20")
	if !errors.Is(err, clips.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
	if len(f.transcoder.calls) != 0 {
		t.Fatal("transcoder must not run when the source is missing")
	}
}

func TestDeriveDisambiguatesRepeatCuts(t *testing.T) {
	f := newFixture(t)
	video := f.trackVideoFile(t, "demo.mp4", 12582912)

	first, err := f.deriver.Derive(context.Background(), video.ID, "00:00:10", "00:00:20")
	if err != nil {
		t.Fatalf("first Derive: %v", err)
	}
	second, err := f.deriver.Derive(context.Background(), video.ID, "00:00:10", "00:00:20")
	if err != nil {
		t.Fatalf("second Derive: %v", err)
	}

	if first.Filename != "demo_clip.mp4" {
		t.Fatalf("first clip filename = %q", first.Filename)
	}
	if second.Filename != "demo_clip_1.mp4" {
		t.Fatalf("second clip filename = %q", second.Filename)
	}
	if first.ID == second.ID {
		t.Fatal("repeat derivation must create a new clip row")
	}
}

func TestDeriveAvoidsExistingFileOnDisk(t *testing.T) {
	f := newFixture(t)
	video := f.trackVideoFile(t, "demo.mp4", 12582912)

	// A stray file occupies the first candidate name.
	testsupport.WriteFile(t, filepath.Join(f.clipsDir, "demo_clip.mp4"), 16)

	clip, err := f.deriver.Derive(context.Background(), video.ID, "00:00:10", "00:00:20")
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if clip.Filename != "demo_clip_1.mp4" {
		t.Fatalf("clip filename = %q, want demo_clip_1.mp4", clip.Filename)
	}
}

func TestDeriveTranscodeFailure(t *testing.T) {
	f := newFixture(t)
	video := f.trackVideoFile(t, "demo.mp4", 2048)
	f.transcoder.fail = ffmpeg.ErrTranscode

	_, err := f.deriver.Derive(context.Background(), video.ID, "00:00:10", "00:00:20")
	if !errors.Is(err, ffmpeg.ErrTranscode) {
		t.Fatalf("expected ErrTranscode, got %v", err)
	}

	rows, listErr := f.store.ClipsByVideo(context.Background(), video.ID)
	if listErr != nil {
		t.Fatalf("ClipsByVideo: %v", listErr)
	}
	if len(rows) != 0 {
		t.Fatalf("no clip row expected after failed transcode, got %d", len(rows))
	}
}
