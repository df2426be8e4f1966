package watcher

import (
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/ytscript/internal/config"
	"github.com/nguyentantai21042004/ytscript/internal/logger"
)

// settleDelay lets a writer finish the job file before it is read.
const settleDelay = 500 * time.Millisecond

// New creates a Watcher on cfg.Inbox that runs at most cfg.MaxConcurrent
// handlers at once.
func New(cfg config.WatchConfig, handler EventHandler, log logger.Logger) (Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.Inbox, 0o755); err != nil {
		return nil, fmt.Errorf("create inbox: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(cfg.Inbox); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		inbox:    cfg.Inbox,
		handler:  handler,
		logger:   log,
		watcher:  watcher,
		slots:    newSlots(cfg.MaxConcurrent),
		settle:   settleDelay,
		inflight: make(map[string]bool),
	}, nil
}
