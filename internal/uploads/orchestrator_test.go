package uploads_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"clipvault/internal/catalog"
	"clipvault/internal/logging"
	"clipvault/internal/services"
	"clipvault/internal/testsupport"
	"clipvault/internal/uploads"
)

type fakeStorage struct {
	mu    sync.Mutex
	calls int
	paths []string
	err   error
	delay time.Duration
}

func (f *fakeStorage) Upload(ctx context.Context, path string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.paths = append(f.paths, path)
	f.mu.Unlock()
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return "", f.err
	}
	return "https://k2s.cc/file/abc123", nil
}

func (f *fakeStorage) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeChannel struct {
	mu       sync.Mutex
	calls    int
	captions []string
	err      error
}

func (f *fakeChannel) SendVideo(ctx context.Context, path, caption string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.captions = append(f.captions, caption)
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return "https://t.me/c/1234567890/55", nil
}

type fixture struct {
	orchestrator *uploads.Orchestrator
	store        *catalog.Store
	storage      *fakeStorage
	channel      *fakeChannel
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	storage := &fakeStorage{}
	channel := &fakeChannel{}
	return &fixture{
		orchestrator: uploads.New(store, storage, channel, logging.NewNop()),
		store:        store,
		storage:      storage,
		channel:      channel,
	}
}

func TestUploadVideoHappyPath(t *testing.T) {
	f := newFixture(t)
	video := testsupport.TrackVideo(t, f.store, "demo.mp4", "/media/videos/demo.mp4", 12582912)

	uploaded, err := f.orchestrator.UploadVideo(context.Background(), video.ID)
	if err != nil {
		t.Fatalf("UploadVideo: %v", err)
	}
	if uploaded.UploadStatus != catalog.UploadStatusUploaded {
		t.Fatalf("status = %s, want uploaded", uploaded.UploadStatus)
	}
	if uploaded.RemoteLink != "https://k2s.cc/file/abc123" {
		t.Fatalf("remote link = %q", uploaded.RemoteLink)
	}
	if f.storage.callCount() != 1 {
		t.Fatalf("storage calls = %d, want 1", f.storage.callCount())
	}
	if f.storage.paths[0] != "/media/videos/demo.mp4" {
		t.Fatalf("uploaded path = %q", f.storage.paths[0])
	}
}

func TestUploadVideoFailureRecordsStatus(t *testing.T) {
	f := newFixture(t)
	f.storage.err = errors.New("connection reset")
	video := testsupport.TrackVideo(t, f.store, "demo.mp4", "/media/videos/demo.mp4", 12582912)

	_, err := f.orchestrator.UploadVideo(context.Background(), video.ID)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}

	failed, getErr := f.store.GetVideo(context.Background(), video.ID)
	if getErr != nil {
		t.Fatalf("GetVideo: %v", getErr)
	}
	if failed.UploadStatus != catalog.UploadStatusFailed {
		t.Fatalf("status = %s, want failed", failed.UploadStatus)
	}
	if failed.ErrorMessage != "connection reset" {
		t.Fatalf("error message = %q", failed.ErrorMessage)
	}

	// Failed videos are claimable again without an explicit retry step.
	f.storage.err = nil
	if _, err := f.orchestrator.UploadVideo(context.Background(), video.ID); err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
}

func TestUploadVideoNotTracked(t *testing.T) {
	f := newFixture(t)

	_, err := f.orchestrator.UploadVideo(context.Background(), 42000)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUploadVideoNotEligible(t *testing.T) {
	f := newFixture(t)
	video := testsupport.TrackVideo(t, f.store, "demo.mp4", "/media/videos/demo.mp4", 12582912)

	if _, err := f.orchestrator.UploadVideo(context.Background(), video.ID); err != nil {
		t.Fatalf("UploadVideo: %v", err)
	}

	_, err := f.orchestrator.UploadVideo(context.Background(), video.ID)
	if !errors.Is(err, uploads.ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible for uploaded video, got %v", err)
	}
	if f.storage.callCount() != 1 {
		t.Fatalf("storage calls = %d, want 1", f.storage.callCount())
	}
}

func TestUploadVideoConcurrentSingleInvocation(t *testing.T) {
	f := newFixture(t)
	f.storage.delay = 50 * time.Millisecond
	video := testsupport.TrackVideo(t, f.store, "demo.mp4", "/media/videos/demo.mp4", 12582912)

	const callers = 4
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.orchestrator.UploadVideo(context.Background(), video.ID)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	winners, losers := 0, 0
	for err := range results {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, uploads.ErrNotEligible):
			losers++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("winners = %d, want exactly 1", winners)
	}
	if losers != callers-1 {
		t.Fatalf("losers = %d, want %d", losers, callers-1)
	}
	if f.storage.callCount() != 1 {
		t.Fatalf("uploader invoked %d times, want 1", f.storage.callCount())
	}
}

func TestUploadClipUsesParentLinkAsCaption(t *testing.T) {
	f := newFixture(t)
	video := testsupport.TrackVideo(t, f.store, "demo.mp4", "/media/videos/demo.mp4", 12582912)

	if _, err := f.orchestrator.UploadVideo(context.Background(), video.ID); err != nil {
		t.Fatalf("UploadVideo: %v", err)
	}
	clip, err := f.store.AddClip(context.Background(), video.ID, "demo_clip.mp4", "/media/clips/demo_clip.mp4", 10, 20)
	if err != nil {
		t.Fatalf("AddClip: %v", err)
	}

	uploaded, err := f.orchestrator.UploadClip(context.Background(), clip.ID)
	if err != nil {
		t.Fatalf("UploadClip: %v", err)
	}
	if uploaded.DistributionStatus != catalog.DistributionStatusUploaded {
		t.Fatalf("status = %s, want uploaded", uploaded.DistributionStatus)
	}
	if uploaded.DistributionLink != "https://t.me/c/1234567890/55" {
		t.Fatalf("distribution link = %q", uploaded.DistributionLink)
	}
	if len(f.channel.captions) != 1 || f.channel.captions[0] != "🎬 https://k2s.cc/file/abc123" {
		t.Fatalf("caption = %v", f.channel.captions)
	}
}

func TestUploadClipFailure(t *testing.T) {
	f := newFixture(t)
	f.channel.err = errors.New("chat not found")
	video := testsupport.TrackVideo(t, f.store, "demo.mp4", "/media/videos/demo.mp4", 12582912)
	clip, err := f.store.AddClip(context.Background(), video.ID, "demo_clip.mp4", "/media/clips/demo_clip.mp4", 10, 20)
	if err != nil {
		t.Fatalf("AddClip: %v", err)
	}

	_, err = f.orchestrator.UploadClip(context.Background(), clip.ID)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool, got %v", err)
	}

	failed, getErr := f.store.GetClip(context.Background(), clip.ID)
	if getErr != nil {
		t.Fatalf("GetClip: %v", getErr)
	}
	if failed.DistributionStatus != catalog.DistributionStatusFailed {
		t.Fatalf("status = %s, want failed", failed.DistributionStatus)
	}
	if failed.ErrorMessage != "chat not found" {
		t.Fatalf("error message = %q", failed.ErrorMessage)
	}
}

func TestUploadAllPending(t *testing.T) {
	f := newFixture(t)

	testsupport.TrackVideo(t, f.store, "good.mp4", "/media/videos/good.mp4", 1000)
	testsupport.TrackVideo(t, f.store, "also.mp4", "/media/videos/also.mp4", 2000)
	parent := testsupport.TrackVideo(t, f.store, "parent.mp4", "/media/videos/parent.mp4", 3000)
	if _, err := f.store.AddClip(context.Background(), parent.ID, "parent_clip.mp4", "/media/clips/parent_clip.mp4", 0, 5); err != nil {
		t.Fatalf("AddClip: %v", err)
	}

	var progressCalls int
	var lastCompleted, lastTotal int
	summary, err := f.orchestrator.UploadAllPending(context.Background(), func(completed, total int) {
		progressCalls++
		lastCompleted, lastTotal = completed, total
	})
	if err != nil {
		t.Fatalf("UploadAllPending: %v", err)
	}

	if summary.Attempted != 4 {
		t.Fatalf("attempted = %d, want 4", summary.Attempted)
	}
	if summary.Succeeded != 4 {
		t.Fatalf("succeeded = %d, want 4 (errors: %+v)", summary.Succeeded, summary.Errors)
	}
	if summary.Failed != 0 {
		t.Fatalf("failed = %d, want 0", summary.Failed)
	}
	if progressCalls != 4 || lastCompleted != 4 || lastTotal != 4 {
		t.Fatalf("progress: calls=%d last=%d/%d", progressCalls, lastCompleted, lastTotal)
	}
}

func TestUploadAllPendingContinuesPastFailures(t *testing.T) {
	f := newFixture(t)
	f.storage.err = errors.New("quota exceeded")

	a := testsupport.TrackVideo(t, f.store, "a.mp4", "/media/videos/a.mp4", 1000)
	b := testsupport.TrackVideo(t, f.store, "b.mp4", "/media/videos/b.mp4", 2000)

	summary, err := f.orchestrator.UploadAllPending(context.Background(), nil)
	if err != nil {
		t.Fatalf("UploadAllPending: %v", err)
	}
	if summary.Failed != 2 || summary.Succeeded != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(summary.Errors) != 2 {
		t.Fatalf("expected 2 item errors, got %+v", summary.Errors)
	}
	wantIDs := map[string]bool{
		fmt.Sprintf("%d", a.ID): false,
		fmt.Sprintf("%d", b.ID): false,
	}
	for _, itemErr := range summary.Errors {
		if itemErr.Kind != "video" {
			t.Fatalf("unexpected error kind %q", itemErr.Kind)
		}
		wantIDs[itemErr.ID] = true
	}
	for id, seen := range wantIDs {
		if !seen {
			t.Fatalf("no error recorded for video %s", id)
		}
	}
	if f.storage.callCount() != 2 {
		t.Fatalf("uploader invoked %d times, want 2", f.storage.callCount())
	}
}

func TestReclaimStaleValidation(t *testing.T) {
	f := newFixture(t)
	if _, err := f.orchestrator.ReclaimStale(context.Background(), 0); err == nil {
		t.Fatal("expected error for non-positive max age")
	}
}

func TestReclaimStaleFailsStuckAssets(t *testing.T) {
	f := newFixture(t)
	video := testsupport.TrackVideo(t, f.store, "stuck.mp4", "/media/videos/stuck.mp4", 1000)

	won, err := f.store.ClaimVideoUpload(context.Background(), video.ID)
	if err != nil || !won {
		t.Fatalf("ClaimVideoUpload = %v, %v", won, err)
	}

	time.Sleep(20 * time.Millisecond)
	reclaimed, err := f.orchestrator.ReclaimStale(context.Background(), 10*time.Millisecond)
	if err != nil {
		t.Fatalf("ReclaimStale: %v", err)
	}
	if reclaimed != 1 {
		t.Fatalf("reclaimed = %d, want 1", reclaimed)
	}
}
