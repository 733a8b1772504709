// Package watch hands crash dumps appearing in a directory to an upload
// handler, one at a time.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/dumpship/pkg/log"
)

// DefaultPattern matches minidump files.
const DefaultPattern = "*.dmp"

// DefaultDebounceDelay is how long a file must stay quiet before it is handled.
const DefaultDebounceDelay = 500 * time.Millisecond

// Handler processes one dump file. Errors are logged; the file is not retried.
type Handler func(ctx context.Context, path string) error

// Config holds the watcher settings.
type Config struct {
	// Dir is the directory to watch
	Dir string

	// Pattern is a filepath.Match pattern for file base names.
	// Default: "*.dmp"
	Pattern string

	// DebounceDelay is the quiet period after the last write before a file
	// is handed to the handler.
	// Default: 500 milliseconds
	DebounceDelay time.Duration

	// Skip reports files that must not be handled, e.g. already uploaded.
	Skip func(path string) bool
}

// Watcher monitors a directory with fsnotify.
type Watcher struct {
	cfg     Config
	handler Handler
	logger  log.Logger

	mu      sync.Mutex
	timers  map[string]*time.Timer
	ready   chan string
	handled map[string]bool
}

// New creates a watcher. Unset config fields take their defaults.
func New(cfg Config, handler Handler, logger log.Logger) *Watcher {
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = DefaultDebounceDelay
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	logger = logger.With(log.String("dir", cfg.Dir))
	return &Watcher{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		timers:  make(map[string]*time.Timer),
		ready:   make(chan string, 64),
		handled: make(map[string]bool),
	}
}

// Run handles the dumps already present, then every new dump until ctx is
// canceled. A dump is handled once it has seen no writes for DebounceDelay.
// Handlers run sequentially on the calling goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	if _, err := filepath.Match(w.cfg.Pattern, ""); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", w.cfg.Pattern, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.cfg.Dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.cfg.Dir, err)
	}
	w.logger.Info("watching for dumps", log.String("pattern", w.cfg.Pattern))

	pending, err := w.existing()
	if err != nil {
		return err
	}
	defer w.stopTimers()
	// Existing dumps wait out the quiet period like new ones.
	for _, path := range pending {
		w.debounce(ctx, path)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !w.matches(event.Name) {
				continue
			}
			w.debounce(ctx, event.Name)

		case path := <-w.ready:
			w.handle(ctx, path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", log.Err(err))
		}
	}
}

// existing lists matching files already in the directory, oldest name first.
func (w *Watcher) existing() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(w.cfg.Dir, w.cfg.Pattern))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", w.cfg.Dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func (w *Watcher) matches(path string) bool {
	ok, _ := filepath.Match(w.cfg.Pattern, filepath.Base(path))
	return ok
}

// debounce restarts the quiet period of path.
func (w *Watcher) debounce(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.cfg.DebounceDelay, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case w.ready <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
}

// handle runs the handler once per path.
func (w *Watcher) handle(ctx context.Context, path string) {
	if w.handled[path] {
		return
	}
	w.handled[path] = true

	if w.cfg.Skip != nil && w.cfg.Skip(path) {
		w.logger.Debug("dump already handled, skipping", log.String("path", path))
		return
	}

	if err := w.handler(ctx, path); err != nil {
		w.logger.Error("dump handler failed",
			log.String("path", path),
			log.Err(err))
		return
	}
	w.logger.Info("dump handled", log.String("path", path))
}
