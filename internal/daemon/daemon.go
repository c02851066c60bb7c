package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"clipvault/internal/catalog"
	"clipvault/internal/config"
	"clipvault/internal/logging"
	"clipvault/internal/reconcile"
	"clipvault/internal/uploads"
)

// Daemon runs the background catalog services and enforces single-instance
// execution via a file lock.
type Daemon struct {
	cfg          *config.Config
	logger       *slog.Logger
	store        *catalog.Store
	reconciler   *reconcile.Reconciler
	orchestrator *uploads.Orchestrator

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	DatabasePath string
	LockFilePath string
	Catalog      catalog.Stats
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *catalog.Store, reconciler *reconcile.Reconciler, orchestrator *uploads.Orchestrator, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || reconciler == nil || orchestrator == nil || logger == nil {
		return nil, errors.New("daemon requires config, store, reconciler, orchestrator, and logger")
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:          cfg,
		logger:       logger.With(logging.FieldComponent, "daemon"),
		store:        store,
		reconciler:   reconciler,
		orchestrator: orchestrator,
		lockPath:     lockPath,
		lock:         flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the background loops.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another clipvault daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)

	fileWatcher, err := newWatcher(d.cfg.Paths.VideosDir, d.cfg.Catalog.VideoExtensions, d.logger)
	if err != nil {
		_ = d.lock.Unlock()
		cancel()
		return err
	}
	files, err := fileWatcher.watch(runCtx)
	if err != nil {
		_ = d.lock.Unlock()
		cancel()
		return err
	}

	d.cancel = cancel
	d.running.Store(true)

	d.wg.Add(4)
	go d.consumeWatcher(runCtx, files)
	go d.scanLoop(runCtx)
	go d.uploadLoop(runCtx)
	go d.reclaimLoop(runCtx)

	d.logger.Info("clipvault daemon started", "lock", d.lockPath)
	return nil
}

// Stop halts the background loops and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", "error", err)
	}
	d.running.Store(false)
	d.logger.Info("clipvault daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) (Status, error) {
	stats, err := d.store.Stats(ctx)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Running:      d.running.Load(),
		DatabasePath: d.cfg.DatabasePath(),
		LockFilePath: d.lockPath,
		Catalog:      *stats,
	}, nil
}

func (d *Daemon) consumeWatcher(ctx context.Context, files <-chan string) {
	defer d.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-files:
			if !ok {
				return
			}
			video, err := d.reconciler.EnsureTracked(ctx, path)
			if err != nil {
				d.logger.Warn("failed to track watched file", "path", path, "error", err)
				continue
			}
			d.logger.Info("watched file tracked", logging.FieldVideoID, video.ID, "path", path)
		}
	}
}

func (d *Daemon) scanLoop(ctx context.Context) {
	defer d.wg.Done()

	interval := secondsOrDefault(d.cfg.Workflow.ScanInterval, 60)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	d.runScan(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.runScan(ctx)
		}
	}
}

func (d *Daemon) runScan(ctx context.Context) {
	report, err := d.reconciler.Scan(ctx, d.cfg.Paths.VideosDir)
	if err != nil {
		d.logger.Warn("directory scan failed", "error", err)
		return
	}
	if len(report.Added) > 0 || len(report.Errors) > 0 {
		d.logger.Info("directory scan completed",
			"added", len(report.Added),
			"errors", len(report.Errors))
	}
}

func (d *Daemon) uploadLoop(ctx context.Context) {
	defer d.wg.Done()

	interval := secondsOrDefault(d.cfg.Workflow.UploadPollInterval, 30)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			summary, err := d.orchestrator.UploadAllPending(ctx, nil)
			if err != nil {
				d.logger.Warn("upload sweep failed", "error", err)
				continue
			}
			if summary.Attempted > 0 {
				d.logger.Info("upload sweep completed",
					"attempted", summary.Attempted,
					"succeeded", summary.Succeeded,
					"failed", summary.Failed,
					"skipped", summary.Skipped)
			}
		}
	}
}

func (d *Daemon) reclaimLoop(ctx context.Context) {
	defer d.wg.Done()

	maxAge := secondsOrDefault(d.cfg.Workflow.StaleUploadTimeout, 1800)
	ticker := time.NewTicker(maxAge)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reclaimed, err := d.orchestrator.ReclaimStale(ctx, maxAge)
			if err != nil {
				d.logger.Warn("stale upload reclaim failed", "error", err)
				continue
			}
			if reclaimed > 0 {
				d.logger.Info("reclaimed stale uploads", "count", reclaimed)
			}
		}
	}
}

func secondsOrDefault(value, fallback int) time.Duration {
	if value <= 0 {
		value = fallback
	}
	return time.Duration(value) * time.Second
}
