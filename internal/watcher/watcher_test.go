package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"cliprelay/internal/config"
)

type countingRunner struct {
	runs   atomic.Int32
	notify chan struct{}
	action func()
}

func (r *countingRunner) Run(context.Context) error {
	r.runs.Add(1)
	if r.action != nil {
		r.action()
	}
	select {
	case r.notify <- struct{}{}:
	default:
	}
	return nil
}

func watchConfig(t *testing.T, replayDir string) *config.Config {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cfg := config.Default()
	cfg.Paths.ReplayDir = replayDir
	cfg.Paths.StateDir = t.TempDir()
	cfg.Watch.SettleMillis = 20
	return &cfg
}

func TestNewRequiresExistingDirectory(t *testing.T) {
	cfg := watchConfig(t, filepath.Join(t.TempDir(), "missing"))
	if _, err := New(cfg, &countingRunner{}, nil); err == nil {
		t.Fatal("expected error for missing replay directory")
	}
}

func TestWatcherTriggersRunOnNewCapture(t *testing.T) {
	replayDir := t.TempDir()
	cfg := watchConfig(t, replayDir)

	runner := &countingRunner{notify: make(chan struct{}, 1)}
	w, err := New(cfg, runner, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()
	// Give the watcher a moment to register.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(replayDir, "Replay 2026-08-23.mkv")
	if err := os.WriteFile(path, []byte("replay-data"), 0o644); err != nil {
		t.Fatalf("write capture: %v", err)
	}

	select {
	case <-runner.notify:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never triggered the pipeline")
	}

	cancel()
	<-done
	if got := runner.runs.Load(); got != 1 {
		t.Fatalf("expected 1 run, got %d", got)
	}
}

func TestWatcherIgnoresRenameFromRun(t *testing.T) {
	replayDir := t.TempDir()
	cfg := watchConfig(t, replayDir)

	original := filepath.Join(replayDir, "Replay 2026-08-23.mkv")
	renamed := filepath.Join(replayDir, "Valorant - 2026-08-23 14-05.mkv")

	runner := &countingRunner{notify: make(chan struct{}, 2)}
	runner.action = func() {
		// Mimic the pipeline renaming the capture mid-run.
		_ = os.Rename(original, renamed)
	}

	w, err := New(cfg, runner, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(original, []byte("replay-data"), 0o644); err != nil {
		t.Fatalf("write capture: %v", err)
	}

	select {
	case <-runner.notify:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never triggered the pipeline")
	}

	// Let any rename-induced events drain through the settle window.
	time.Sleep(500 * time.Millisecond)
	cancel()
	<-done

	if got := runner.runs.Load(); got != 1 {
		t.Fatalf("rename must not retrigger the pipeline, got %d runs", got)
	}
}

func TestWatcherIgnoresNonVideoFiles(t *testing.T) {
	replayDir := t.TempDir()
	cfg := watchConfig(t, replayDir)

	runner := &countingRunner{notify: make(chan struct{}, 1)}
	w, err := New(cfg, runner, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = w.Run(ctx)
		close(done)
	}()
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(replayDir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	time.Sleep(300 * time.Millisecond)

	cancel()
	<-done
	if got := runner.runs.Load(); got != 0 {
		t.Fatalf("expected no runs for non-video file, got %d", got)
	}
}

func TestWatchLockIsExclusive(t *testing.T) {
	replayDir := t.TempDir()
	cfg := watchConfig(t, replayDir)

	runner := &countingRunner{notify: make(chan struct{}, 1)}
	first, err := New(cfg, runner, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	second, err := New(cfg, runner, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		_ = first.Run(ctx)
		close(done)
	}()
	time.Sleep(100 * time.Millisecond)

	if err := second.Run(ctx); err == nil {
		t.Fatal("expected second watcher to fail acquiring the lock")
	}

	cancel()
	<-done
}
