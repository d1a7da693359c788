package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"

	"cliprelay/internal/capture"
	"cliprelay/internal/config"
	"cliprelay/internal/logging"
	"cliprelay/internal/services"
)

// Runner handles one replay-saved event. The pipeline driver satisfies it.
type Runner interface {
	Run(ctx context.Context) error
}

// Watcher observes the replay directory and triggers the pipeline when a new
// capture finishes writing. A file lock keeps the watch single-instance so
// two watchers never upload the same clip twice.
type Watcher struct {
	dir       string
	settle    time.Duration
	maxSettle time.Duration
	lockPath  string
	lock      *flock.Flock
	runner    Runner
	logger    *slog.Logger

	// processed remembers paths this watcher already handled, including the
	// rename the pipeline performs mid-run.
	processed map[string]bool
}

// New builds a watcher over the first existing replay directory.
func New(cfg *config.Config, runner Runner, logger *slog.Logger) (*Watcher, error) {
	if runner == nil {
		return nil, fmt.Errorf("watcher: runner is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	var dir string
	for _, candidate := range cfg.ReplayDirs() {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			dir = candidate
			break
		}
	}
	if dir == "" {
		return nil, services.Wrap(services.ErrConfiguration, "watcher", "resolve directory",
			"could not determine replay directory; set paths.replay_dir", nil)
	}

	settle := time.Duration(cfg.Watch.SettleMillis) * time.Millisecond
	if settle <= 0 {
		settle = 500 * time.Millisecond
	}

	lockPath := filepath.Join(cfg.Paths.StateDir, "watch.lock")
	return &Watcher{
		dir:       dir,
		settle:    settle,
		maxSettle: 2 * time.Minute,
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
		runner:    runner,
		logger:    logger.With(logging.String("component", "watcher")),
		processed: make(map[string]bool),
	}, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run watches until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire watch lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("another watch instance is already running (lock: %s)", w.lockPath)
	}
	defer func() { _ = w.lock.Unlock() }()

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create filesystem watcher: %w", err)
	}
	defer notifier.Close()

	if err := notifier.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.logger.Info("watching for new captures", logging.String("dir", w.dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, open := <-notifier.Events:
			if !open {
				return nil
			}
			w.handleEvent(ctx, event)
		case err, open := <-notifier.Errors:
			if !open {
				return nil
			}
			w.logger.Warn("filesystem watcher error", logging.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
		return
	}
	path := event.Name
	if !capture.IsVideoFile(path) || w.processed[path] {
		return
	}

	if err := w.awaitSettle(ctx, path); err != nil {
		if !errors.Is(err, context.Canceled) {
			w.logger.Debug("capture did not settle", logging.String("file", path), logging.Error(err))
		}
		return
	}
	if w.processed[path] {
		return
	}

	w.logger.Info("new capture settled", logging.String("file", path))
	w.processed[path] = true

	if err := w.runner.Run(ctx); err != nil {
		w.logger.Error("pipeline run failed", logging.Error(err))
	}

	// The run renames the capture in place, which raises another event for
	// the new name. Mark the current newest file as handled so that event
	// does not trigger a second upload.
	if latest := capture.FindLatest(w.dir); latest != "" {
		w.processed[latest] = true
	}
}

// awaitSettle waits until the file's size stops changing between polls, a
// cheap stand-in for "the recorder finished writing".
func (w *Watcher) awaitSettle(ctx context.Context, path string) error {
	deadline := time.Now().Add(w.maxSettle)
	ticker := time.NewTicker(w.settle)
	defer ticker.Stop()

	previous := int64(-1)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if info.Size() == previous {
			return nil
		}
		previous = info.Size()

		if time.Now().After(deadline) {
			return fmt.Errorf("file still growing after %s", w.maxSettle)
		}
	}
}
