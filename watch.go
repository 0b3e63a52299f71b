// FILE: lixenwraith/settings/watch.go
package settings

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// WatchOptions configures file watching behavior
type WatchOptions struct {
	// PollInterval for file stat checks (minimum 100ms)
	PollInterval time.Duration

	// Debounce duration to avoid rapid reloads
	Debounce time.Duration

	// ReloadTimeout bounds a single reload; a slow reload is abandoned, not cancelled
	ReloadTimeout time.Duration
}

// DefaultWatchOptions returns sensible defaults for file watching
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		PollInterval:  DefaultPollInterval,
		Debounce:      DefaultDebounce,
		ReloadTimeout: DefaultReloadTimeout,
	}
}

func (o WatchOptions) normalize() WatchOptions {
	if o.PollInterval < MinPollInterval {
		o.PollInterval = MinPollInterval
	}
	if o.Debounce < 0 {
		o.Debounce = 0
	}
	if o.ReloadTimeout <= 0 {
		o.ReloadTimeout = DefaultReloadTimeout
	}
	return o
}

// watcher polls a file and invokes reload when it changes
type watcher struct {
	mu               sync.Mutex
	ctx              context.Context
	cancel           context.CancelFunc
	opts             WatchOptions
	filePath         string
	reload           func()
	lastModTime      time.Time
	lastSize         int64
	exists           bool
	watching         atomic.Bool
	reloadInProgress atomic.Bool
	debounceTimer    *time.Timer
}

func newWatcher(path string, opts WatchOptions, reload func()) *watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &watcher{
		ctx:      ctx,
		cancel:   cancel,
		opts:     opts.normalize(),
		filePath: path,
		reload:   reload,
	}
	if info, err := os.Stat(path); err == nil {
		w.exists = true
		w.lastModTime = info.ModTime()
		w.lastSize = info.Size()
	}
	return w
}

func (w *watcher) start() {
	w.watching.Store(true)
	go w.watchLoop()
}

// watchLoop is the main file watching loop
func (w *watcher) watchLoop() {
	defer w.watching.Store(false)

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.checkAndReload()
		}
	}
}

// checkAndReload checks if file changed and schedules a debounced reload.
// Appearance and deletion of the file count as changes.
func (w *watcher) checkAndReload() {
	info, err := os.Stat(w.filePath)
	exists := err == nil

	changed := exists != w.exists
	if exists && !changed {
		changed = !info.ModTime().Equal(w.lastModTime) || info.Size() != w.lastSize
	}
	if !changed {
		return
	}

	w.exists = exists
	if exists {
		w.lastModTime = info.ModTime()
		w.lastSize = info.Size()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.ctx.Err() != nil {
		return
	}
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.opts.Debounce, w.performReload)
}

// performReload runs the reload callback, one at a time
func (w *watcher) performReload() {
	if !w.reloadInProgress.CompareAndSwap(false, true) {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer w.reloadInProgress.Store(false)
		w.reload()
	}()

	ctx, cancel := context.WithTimeout(w.ctx, w.opts.ReloadTimeout)
	defer cancel()

	select {
	case <-done:
	case <-ctx.Done():
		if w.ctx.Err() == nil {
			pkgLogger().WithField("path", w.filePath).Warn("configuration reload timed out")
		}
	}
}

// stop terminates the watcher
func (w *watcher) stop() {
	w.cancel()

	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
		w.debounceTimer = nil
	}
	w.mu.Unlock()

	deadline := time.Now().Add(ShutdownTimeout)
	for w.watching.Load() && time.Now().Before(deadline) {
		time.Sleep(SpinWaitInterval)
	}
}
