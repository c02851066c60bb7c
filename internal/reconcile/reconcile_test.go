package reconcile_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"clipvault/internal/catalog"
	"clipvault/internal/identity"
	"clipvault/internal/logging"
	"clipvault/internal/reconcile"
	"clipvault/internal/testsupport"
)

func newReconciler(t *testing.T) (*reconcile.Reconciler, *catalog.Store, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	rec := reconcile.New(store, cfg.Catalog.VideoExtensions, logging.NewNop())
	return rec, store, cfg.Paths.VideosDir
}

func TestScanTracksNewVideos(t *testing.T) {
	rec, _, dir := newReconciler(t)

	testsupport.WriteFile(t, filepath.Join(dir, "demo.mp4"), 12582912)
	testsupport.WriteFile(t, filepath.Join(dir, "sample.mp4"), 2048)
	testsupport.WriteFile(t, filepath.Join(dir, "notes.txt"), 100)

	report, err := rec.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(report.Added) != 2 {
		t.Fatalf("expected 2 added videos, got %d", len(report.Added))
	}
	if len(report.Errors) != 0 {
		t.Fatalf("unexpected scan errors: %+v", report.Errors)
	}

	want := identity.Derive("demo.mp4", 12582912)
	found := false
	for _, video := range report.Added {
		if video.Filename == "demo.mp4" {
			found = true
			if video.ID != want {
				t.Fatalf("demo.mp4 id = %d, want %d", video.ID, want)
			}
			if video.Status != catalog.VideoStatusNew {
				t.Fatalf("expected new status, got %s", video.Status)
			}
			if video.UploadStatus != catalog.UploadStatusPending {
				t.Fatalf("expected pending upload status, got %s", video.UploadStatus)
			}
		}
	}
	if !found {
		t.Fatal("demo.mp4 missing from report")
	}
}

func TestScanIsIdempotent(t *testing.T) {
	rec, _, dir := newReconciler(t)

	testsupport.WriteFile(t, filepath.Join(dir, "demo.mp4"), 12582912)

	first, err := rec.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("first Scan: %v", err)
	}
	if len(first.Added) != 1 {
		t.Fatalf("expected 1 added video, got %d", len(first.Added))
	}

	second, err := rec.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("second Scan: %v", err)
	}
	if len(second.Added) != 0 {
		t.Fatalf("second scan added %d videos, want 0", len(second.Added))
	}
}

func TestScanIgnoresSubdirectories(t *testing.T) {
	rec, _, dir := newReconciler(t)

	testsupport.WriteFile(t, filepath.Join(dir, "nested", "inner.mp4"), 1024)
	testsupport.WriteFile(t, filepath.Join(dir, "top.mp4"), 1024)

	report, err := rec.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(report.Added) != 1 || report.Added[0].Filename != "top.mp4" {
		t.Fatalf("expected only top.mp4, got %+v", report.Added)
	}
}

func TestScanCollectsPerFileErrors(t *testing.T) {
	rec, _, dir := newReconciler(t)

	// A dangling symlink cannot be stat'd, so identity derivation fails for it.
	testsupport.WriteFile(t, filepath.Join(dir, "ok.mp4"), 4096)
	if err := os.Symlink(filepath.Join(dir, "gone.mp4"), filepath.Join(dir, "broken.mp4")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	report, err := rec.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(report.Errors) != 1 || report.Errors[0].Filename != "broken.mp4" {
		t.Fatalf("expected one error for broken.mp4, got %+v", report.Errors)
	}
	if len(report.Added) != 1 || report.Added[0].Filename != "ok.mp4" {
		t.Fatalf("expected ok.mp4 still tracked, got %+v", report.Added)
	}
}

func TestScanMissingDirectory(t *testing.T) {
	rec, _, dir := newReconciler(t)

	if _, err := rec.Scan(context.Background(), filepath.Join(dir, "absent")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestEnsureTracked(t *testing.T) {
	rec, store, dir := newReconciler(t)

	path := filepath.Join(dir, "demo.mp4")
	testsupport.WriteFile(t, path, 12582912)

	video, err := rec.EnsureTracked(context.Background(), path)
	if err != nil {
		t.Fatalf("EnsureTracked: %v", err)
	}
	if video.ID != identity.Derive("demo.mp4", 12582912) {
		t.Fatalf("unexpected id %d", video.ID)
	}

	again, err := rec.EnsureTracked(context.Background(), path)
	if err != nil {
		t.Fatalf("second EnsureTracked: %v", err)
	}
	if again.ID != video.ID {
		t.Fatalf("EnsureTracked not stable: %d != %d", again.ID, video.ID)
	}

	videos, err := store.ListVideos(context.Background())
	if err != nil {
		t.Fatalf("ListVideos: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected a single tracked video, got %d", len(videos))
	}
}

type fixedDeriver struct {
	id uint64
}

func (d fixedDeriver) FromFile(string) (uint64, error) {
	return d.id, nil
}

func TestWithDeriverSubstitutesScheme(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	rec := reconcile.New(store, cfg.Catalog.VideoExtensions, logging.NewNop(),
		reconcile.WithDeriver(fixedDeriver{id: 99000}))

	dir := cfg.Paths.VideosDir
	testsupport.WriteFile(t, filepath.Join(dir, "alt.mp4"), 512)

	report, err := rec.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(report.Added) != 1 {
		t.Fatalf("Added = %d videos, want 1", len(report.Added))
	}
	if report.Added[0].ID != 99000 {
		t.Fatalf("ID = %d, want the substituted deriver's 99000", report.Added[0].ID)
	}
	if got := identity.Derive("alt.mp4", 512); got == 99000 {
		t.Fatalf("fixture id collides with the default scheme")
	}
}
