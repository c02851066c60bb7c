// Package reconcile compares a directory of media files against the catalog
// and tracks anything not yet known. Scans are idempotent: an unchanged
// directory produces an empty delta.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"clipvault/internal/catalog"
	"clipvault/internal/identity"
	"clipvault/internal/logging"
)

// ScanError records a single file that could not be reconciled.
type ScanError struct {
	Filename string
	Message  string
}

// Report is the outcome of one reconciliation sweep.
type Report struct {
	Added  []*catalog.Video
	Errors []ScanError
}

// Reconciler inserts missing video rows for files observed on disk.
type Reconciler struct {
	store      *catalog.Store
	extensions map[string]struct{}
	deriver    identity.Deriver
	logger     *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithDeriver substitutes the identity derivation scheme.
func WithDeriver(d identity.Deriver) Option {
	return func(r *Reconciler) {
		if d != nil {
			r.deriver = d
		}
	}
}

// New builds a reconciler over the given store. Extensions are matched
// case-insensitively and must include the leading dot.
func New(store *catalog.Store, extensions []string, logger *slog.Logger, opts ...Option) *Reconciler {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		set[normalized] = struct{}{}
	}
	r := &Reconciler{
		store:      store,
		extensions: set,
		deriver:    identity.NameSize{},
		logger:     logging.NewComponentLogger(logger, "reconcile"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Scan enumerates candidate files in dir and tracks any that are missing from
// the catalog. Per-file failures are collected in the report; one bad file
// never aborts the rest of the sweep.
func (r *Reconciler) Scan(ctx context.Context, dir string) (*Report, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !r.matchesExtension(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	report := &Report{}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path := filepath.Join(dir, name)
		video, added, err := r.track(ctx, path)
		if err != nil {
			report.Errors = append(report.Errors, ScanError{Filename: name, Message: err.Error()})
			r.logger.Warn("skipping file", "filename", name, "error", err)
			continue
		}
		if added {
			report.Added = append(report.Added, video)
			r.logger.Info("tracked new video", "filename", name, logging.FieldVideoID, video.ID)
		}
	}

	r.logger.Info("scan complete", "directory", dir,
		"candidates", len(names), "added", len(report.Added), "errors", len(report.Errors))
	return report, nil
}

// EnsureTracked tracks a single file by path, inserting a catalog row when
// absent. Callers needing lazy registration use this instead of re-implementing
// it inline.
func (r *Reconciler) EnsureTracked(ctx context.Context, path string) (*catalog.Video, error) {
	video, _, err := r.track(ctx, path)
	return video, err
}

func (r *Reconciler) track(ctx context.Context, path string) (*catalog.Video, bool, error) {
	id, err := r.deriver.FromFile(path)
	if err != nil {
		return nil, false, err
	}

	existing, err := r.store.GetVideo(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	video, err := r.store.UpsertVideo(ctx, id, filepath.Base(path), path)
	if err != nil {
		return nil, false, err
	}
	return video, true, nil
}

func (r *Reconciler) matchesExtension(name string) bool {
	if len(r.extensions) == 0 {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := r.extensions[ext]
	return ok
}
