package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"
)

// collector records handled paths.
type collector struct {
	mu    sync.Mutex
	paths []string
	err   error
}

func (c *collector) handle(ctx context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, filepath.Base(path))
	return c.err
}

func (c *collector) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.paths...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func startWatcher(t *testing.T, cfg Config, c *collector) (context.CancelFunc, chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	w := New(cfg, c.handle, nil)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return cancel, done
}

func TestWatcher_ExistingFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.dmp", "a.dmp", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("MDMP"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	c := &collector{}
	startWatcher(t, Config{Dir: dir, DebounceDelay: 10 * time.Millisecond}, c)

	waitFor(t, func() bool { return len(c.snapshot()) == 2 })
	got := c.snapshot()
	sort.Strings(got)
	if got[0] != "a.dmp" || got[1] != "b.dmp" {
		t.Errorf("handled = %v, want [a.dmp b.dmp]", got)
	}
}

func TestWatcher_NewFileHandledOnce(t *testing.T) {
	dir := t.TempDir()
	c := &collector{}
	startWatcher(t, Config{Dir: dir, DebounceDelay: 50 * time.Millisecond}, c)

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "crash.dmp")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := f.Write([]byte("chunk")); err != nil {
			t.Fatal(err)
		}
	}
	f.Close()

	if err := os.WriteFile(filepath.Join(dir, "ignored.log"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	waitFor(t, func() bool { return len(c.snapshot()) == 1 })
	time.Sleep(200 * time.Millisecond)

	got := c.snapshot()
	if len(got) != 1 || got[0] != "crash.dmp" {
		t.Errorf("handled = %v, want [crash.dmp]", got)
	}
}

func TestWatcher_ExistingFileStillWritten(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partial.dmp")
	if err := os.WriteFile(path, []byte("head"), 0o600); err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var contents []string
	handler := func(ctx context.Context, p string) error {
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		mu.Lock()
		contents = append(contents, string(data))
		mu.Unlock()
		return nil
	}
	snapshot := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), contents...)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := New(Config{Dir: dir, DebounceDelay: 300 * time.Millisecond}, handler, nil)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	time.Sleep(100 * time.Millisecond)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Write([]byte("tail")); err != nil {
		t.Fatal(err)
	}
	f.Close()

	waitFor(t, func() bool { return len(snapshot()) == 1 })
	time.Sleep(400 * time.Millisecond)

	got := snapshot()
	if len(got) != 1 || got[0] != "headtail" {
		t.Errorf("handled contents = %q, want [headtail]", got)
	}
}

func TestWatcher_Skip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"done.dmp", "new.dmp"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("MDMP"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	c := &collector{}
	skip := func(path string) bool { return filepath.Base(path) == "done.dmp" }
	startWatcher(t, Config{Dir: dir, Skip: skip}, c)

	waitFor(t, func() bool { return len(c.snapshot()) == 1 })
	if got := c.snapshot(); got[0] != "new.dmp" {
		t.Errorf("handled = %v, want [new.dmp]", got)
	}
}

func TestWatcher_HandlerErrorDoesNotStop(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"1.dmp", "2.dmp"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("MDMP"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	c := &collector{err: errors.New("server returned 500")}
	startWatcher(t, Config{Dir: dir}, c)

	waitFor(t, func() bool { return len(c.snapshot()) == 2 })
}

func TestWatcher_MissingDir(t *testing.T) {
	w := New(Config{Dir: filepath.Join(t.TempDir(), "missing")}, (&collector{}).handle, nil)
	if err := w.Run(context.Background()); err == nil {
		t.Error("Run() expected error for missing directory")
	}
}

func TestWatcher_StopsOnCancel(t *testing.T) {
	c := &collector{}
	cancel, done := startWatcher(t, Config{Dir: t.TempDir()}, c)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
		done <- err
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}

func TestNew_Defaults(t *testing.T) {
	w := New(Config{Dir: "/tmp"}, nil, nil)
	if w.cfg.Pattern != DefaultPattern {
		t.Errorf("Pattern = %q, want %q", w.cfg.Pattern, DefaultPattern)
	}
	if w.cfg.DebounceDelay != DefaultDebounceDelay {
		t.Errorf("DebounceDelay = %v, want %v", w.cfg.DebounceDelay, DefaultDebounceDelay)
	}
}
