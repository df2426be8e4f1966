package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/ytscript/internal/logger"
)

type implWatcher struct {
	inbox   string
	handler EventHandler
	logger  logger.Logger
	watcher *fsnotify.Watcher
	slots   *slots
	settle  time.Duration
	wg      sync.WaitGroup

	mu       sync.Mutex
	inflight map[string]bool
}

// Start processes job files already in the inbox, then every new one, until
// ctx is cancelled. In-flight jobs are awaited before returning.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Inbox watcher started (max concurrent: %d). Monitoring: %s", w.slots.size(), w.inbox)
	w.logger.Info(ctx, "Job files: *.url, *.yaml, *.yml")

	if err := w.scanExisting(ctx); err != nil {
		w.wait(ctx)
		return err
	}

	for {
		select {
		case <-ctx.Done():
			w.wait(ctx)
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.wait(ctx)
				return fmt.Errorf("watcher events channel closed")
			}

			// Create covers files moved into the inbox as well
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !IsJobFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-job file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New job file detected: %s", event.Name)

			select {
			case <-time.After(w.settle):
			case <-ctx.Done():
				continue
			}
			if err := w.dispatch(ctx, event.Name); err != nil {
				w.wait(ctx)
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.wait(ctx)
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// scanExisting queues job files present before the watch began, oldest name first.
func (w *implWatcher) scanExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.inbox)
	if err != nil {
		return fmt.Errorf("scan inbox: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && IsJobFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) > 0 {
		w.logger.Info(ctx, "Found %d pending job files", len(names))
	}
	for _, name := range names {
		if err := w.dispatch(ctx, filepath.Join(w.inbox, name)); err != nil {
			return err
		}
	}
	return nil
}

// dispatch runs the handler for path once a concurrency slot is free.
// A path already being handled, or no longer present, is skipped.
func (w *implWatcher) dispatch(ctx context.Context, path string) error {
	w.mu.Lock()
	if w.inflight[path] {
		w.mu.Unlock()
		w.logger.Debug(ctx, "Already processing: %s", path)
		return nil
	}
	w.inflight[path] = true
	w.mu.Unlock()

	if err := w.slots.take(ctx); err != nil {
		w.done(path)
		return err
	}
	// the startup scan and a Create event can both report one file; the
	// first run renames it when finished
	if _, err := os.Stat(path); err != nil {
		w.slots.put()
		w.done(path)
		w.logger.Debug(ctx, "Job file gone, skipping: %s", path)
		return nil
	}
	w.logger.Debug(ctx, "Running %s (%d/%d slots busy)", filepath.Base(path), w.slots.busy(), w.slots.size())

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.slots.put()
		defer w.done(path)

		if err := w.handler(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", path, err)
		}
	}()
	return nil
}

func (w *implWatcher) done(path string) {
	w.mu.Lock()
	delete(w.inflight, path)
	w.mu.Unlock()
}

func (w *implWatcher) wait(ctx context.Context) {
	w.logger.Info(ctx, "Waiting for ongoing jobs to complete...")
	w.wg.Wait()
	w.logger.Info(ctx, "Inbox watcher stopped")
}
