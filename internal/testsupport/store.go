package testsupport

import (
	"context"
	"testing"

	"clipvault/internal/catalog"
	"clipvault/internal/config"
	"clipvault/internal/identity"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// TrackVideo inserts a video row derived from the given name and size.
func TrackVideo(t testing.TB, store *catalog.Store, filename, path string, size int64) *catalog.Video {
	t.Helper()

	video, err := store.UpsertVideo(context.Background(), identity.Derive(filename, size), filename, path)
	if err != nil {
		t.Fatalf("store.UpsertVideo: %v", err)
	}
	return video
}
